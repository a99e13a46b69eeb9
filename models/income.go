package models

import (
	"context"
	"errors"
	"time"

	"github.com/alquilerfacil/rentas_backend/config"
	"github.com/alquilerfacil/rentas_backend/utils"
	"github.com/shopspring/decimal"
)

// IncomeRecord is one rental income entry. Records are immutable:
// corrections are delete plus re-create, never an update.
type IncomeRecord struct {
	ID          int             `gorm:"primary_key" json:"id"`
	UserId      int             `gorm:"index:idx_income_user_period;not null" json:"user_id"`
	Year        int             `gorm:"index:idx_income_user_period;not null" json:"year"`
	Month       int             `gorm:"index:idx_income_user_period;not null" json:"month"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	IncludesIVA *bool           `gorm:"not null" json:"includes_iva"`
	Description string          `gorm:"size:255" json:"description"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewIncomeRecord struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	IncludesIVA *bool           `json:"includes_iva" binding:"required"`
	Description string          `json:"description"`
}

func CreateIncomeRecord(ctx context.Context, period Period, input *NewIncomeRecord) (*IncomeRecord, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	if input.Amount.IsNegative() {
		return nil, errors.New("amount cannot be negative")
	}

	record := IncomeRecord{
		UserId:      userId,
		Year:        period.Year,
		Month:       period.Month,
		Amount:      input.Amount,
		IncludesIVA: input.IncludesIVA,
		Description: input.Description,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func ListIncomeRecords(ctx context.Context, period Period) ([]*IncomeRecord, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	db := config.GetDB()
	results := make([]*IncomeRecord, 0)
	err := db.WithContext(ctx).Model(&IncomeRecord{}).
		Where("user_id = ? AND year = ? AND month = ?", userId, period.Year, period.Month).
		Order("created_at ASC, id ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func DeleteIncomeRecord(ctx context.Context, id int) (*IncomeRecord, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	db := config.GetDB()
	var record IncomeRecord
	if err := db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if record.UserId != userId {
		return nil, utils.ErrorNotRecordOwner
	}

	if err := db.WithContext(ctx).Delete(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
