package models

import (
	"context"
	"errors"
	"time"

	"github.com/alquilerfacil/rentas_backend/config"
	"github.com/alquilerfacil/rentas_backend/utils"
	"gorm.io/gorm"
)

// GeneratedDeclaration is the metadata of one rendered declaration PDF.
// At most one row lives per (user, period); regeneration overwrites it,
// last write wins.
type GeneratedDeclaration struct {
	ID          int       `gorm:"primary_key" json:"id"`
	UserId      int       `gorm:"uniqueIndex:idx_declaration_user_period;not null" json:"user_id"`
	Year        int       `gorm:"uniqueIndex:idx_declaration_user_period;not null" json:"year"`
	Month       int       `gorm:"uniqueIndex:idx_declaration_user_period;not null" json:"month"`
	FileName    string    `gorm:"size:255;not null" json:"file_name"`
	ObjectKey   string    `gorm:"size:255" json:"-"`
	GeneratedAt time.Time `gorm:"not null" json:"generated_at"`
}

// UpsertDeclaration records a fresh generation for the period,
// replacing any previous row for the same user and period.
func UpsertDeclaration(ctx context.Context, period Period, fileName string, objectKey string, generatedAt time.Time) (*GeneratedDeclaration, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	db := config.GetDB()
	var existing GeneratedDeclaration
	err := db.WithContext(ctx).Model(&GeneratedDeclaration{}).
		Where("user_id = ? AND year = ? AND month = ?", userId, period.Year, period.Month).
		First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if err == gorm.ErrRecordNotFound {
		record := GeneratedDeclaration{
			UserId:      userId,
			Year:        period.Year,
			Month:       period.Month,
			FileName:    fileName,
			ObjectKey:   objectKey,
			GeneratedAt: generatedAt,
		}
		if err := db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
		return &record, nil
	}

	updates := map[string]interface{}{
		"file_name":    fileName,
		"object_key":   objectKey,
		"generated_at": generatedAt,
	}
	if err := db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	existing.FileName = fileName
	existing.ObjectKey = objectKey
	existing.GeneratedAt = generatedAt
	return &existing, nil
}

// ListDeclarations returns the user's declarations, newest first.
func ListDeclarations(ctx context.Context) ([]*GeneratedDeclaration, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	db := config.GetDB()
	results := make([]*GeneratedDeclaration, 0)
	err := db.WithContext(ctx).Model(&GeneratedDeclaration{}).
		Where("user_id = ?", userId).
		Order("generated_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetDeclaration fetches the user's declaration for one period.
func GetDeclaration(ctx context.Context, period Period) (*GeneratedDeclaration, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	db := config.GetDB()
	var record GeneratedDeclaration
	err := db.WithContext(ctx).Model(&GeneratedDeclaration{}).
		Where("user_id = ? AND year = ? AND month = ?", userId, period.Year, period.Month).
		First(&record).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &record, nil
}
