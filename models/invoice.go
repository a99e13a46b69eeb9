package models

import (
	"context"
	"errors"
	"time"

	"github.com/alquilerfacil/rentas_backend/config"
	"github.com/alquilerfacil/rentas_backend/einvoice"
	"github.com/alquilerfacil/rentas_backend/utils"
	"github.com/shopspring/decimal"
)

// ExpenseInvoice is one deductible expense backed by an uploaded
// electronic invoice. Rows are created only through the batch XML
// upload; ObjectKey points at the archived source document when a
// storage bucket is configured.
type ExpenseInvoice struct {
	ID          int             `gorm:"primary_key" json:"id"`
	UserId      int             `gorm:"index:idx_expense_user_period;not null" json:"user_id"`
	Year        int             `gorm:"index:idx_expense_user_period;not null" json:"year"`
	Month       int             `gorm:"index:idx_expense_user_period;not null" json:"month"`
	Issuer      string          `gorm:"size:255;not null" json:"issuer"`
	IssueDate   time.Time       `json:"issue_date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_amount"`
	IVAAmount   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"iva_amount"`
	IVARate     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"iva_rate"`
	Description string          `gorm:"size:255" json:"description"`
	FileName    string          `gorm:"size:255" json:"file_name"`
	ObjectKey   string          `gorm:"size:255" json:"-"`
	FileURL     string          `gorm:"-" json:"file_url,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// CreateExpenseInvoice persists one normalized document for the period.
func CreateExpenseInvoice(ctx context.Context, period Period, rec *einvoice.Record, objectKey string) (*ExpenseInvoice, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	expense := ExpenseInvoice{
		UserId:      userId,
		Year:        period.Year,
		Month:       period.Month,
		Issuer:      rec.Issuer,
		IssueDate:   rec.IssueDate,
		TotalAmount: rec.TotalAmount,
		IVAAmount:   rec.IVAAmount,
		IVARate:     rec.IVARatePercent,
		Description: rec.Description,
		FileName:    rec.FileName,
		ObjectKey:   objectKey,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func ListExpenseInvoices(ctx context.Context, period Period) ([]*ExpenseInvoice, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	db := config.GetDB()
	results := make([]*ExpenseInvoice, 0)
	err := db.WithContext(ctx).Model(&ExpenseInvoice{}).
		Where("user_id = ? AND year = ? AND month = ?", userId, period.Year, period.Month).
		Order("issue_date ASC, id ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	for _, ex := range results {
		if ex.ObjectKey != "" {
			ex.FileURL = utils.BuildObjectAccessURL(ex.ObjectKey)
		}
	}
	return results, nil
}

// DeleteExpenseInvoice removes the row and returns it so the caller can
// clean up the archived object.
func DeleteExpenseInvoice(ctx context.Context, id int) (*ExpenseInvoice, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	db := config.GetDB()
	var expense ExpenseInvoice
	if err := db.WithContext(ctx).First(&expense, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if expense.UserId != userId {
		return nil, utils.ErrorNotRecordOwner
	}

	if err := db.WithContext(ctx).Delete(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}
