package models

import (
	"context"

	"github.com/alquilerfacil/rentas_backend/config"
	"github.com/alquilerfacil/rentas_backend/utils"
)

const (
	DemoUsername = "demo"
	DemoPassword = "demo123"
	DemoName     = "Usuario Demo"
)

// SeedDemoUser guarantees the demo account exists. Safe to run on every
// startup.
func SeedDemoUser(ctx context.Context) error {
	db := config.GetDB()

	var count int64
	if err := db.WithContext(ctx).Model(&User{}).Where("username = ?", DemoUsername).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	user := User{
		Username: DemoUsername,
		Name:     DemoName,
		Password: string(hashed),
		IsActive: utils.NewTrue(),
		Role:     UserRoleClient,
		Theme:    ThemeSystem,
		Language: LanguageSpanish,
	}
	return db.WithContext(ctx).Create(&user).Error
}
