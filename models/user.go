package models

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"github.com/alquilerfacil/rentas_backend/config"
	"github.com/alquilerfacil/rentas_backend/utils"
	"golang.org/x/crypto/bcrypt"
)

type UserRole string

const (
	UserRoleAdmin  UserRole = "A"
	UserRoleClient UserRole = "C"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	LanguageEnglish = "en"
	LanguageSpanish = "es"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name      string    `gorm:"size:100" json:"name"`
	Email     *string   `gorm:"size:100;unique" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Password  string    `gorm:"size:255;not null" json:"password"`
	IsActive  *bool     `gorm:"not null" json:"is_active"`
	Role      UserRole  `gorm:"type:enum('A', 'C');default:C" json:"role"`
	Theme     string    `gorm:"size:10;not null;default:system" json:"theme"`
	Language  string    `gorm:"size:5;not null;default:es" json:"language"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// AppearanceSettings is the per-user UI preference pair.
type AppearanceSettings struct {
	Theme    string `json:"theme" binding:"required"`
	Language string `json:"language" binding:"required"`
}

type LoginInfo struct {
	ID       int                `json:"id"`
	Username string             `json:"username"`
	Name     string             `json:"name"`
	Token    string             `json:"token"`
	Settings AppearanceSettings `json:"settings"`
}

func (result *User) PrepareGive() {
	result.Password = ""
}

func validAppearance(s AppearanceSettings) error {
	switch s.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return errors.New("invalid theme")
	}
	switch s.Language {
	case LanguageEnglish, LanguageSpanish:
	default:
		return errors.New("invalid language")
	}
	return nil
}

func loginInfoFor(user *User) (*LoginInfo, error) {
	token, err := utils.JwtGenerate(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &LoginInfo{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Token:    token,
		Settings: AppearanceSettings{Theme: user.Theme, Language: user.Language},
	}, nil
}

func RegisterUser(ctx context.Context, input *NewUser) (*LoginInfo, error) {

	db := config.GetDB()
	var count int64

	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email address")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return nil, err
		}
	}

	query := db.WithContext(ctx).Model(&User{}).Where("username = ?", input.Username)
	if input.Email != "" {
		query = query.Or("email = ?", strings.ToLower(input.Email))
	}
	if err := query.Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("duplicate username or email")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Username: html.EscapeString(strings.TrimSpace(input.Username)),
		Name:     input.Name,
		Email:    utils.NilIfEmpty(strings.ToLower(input.Email)),
		Phone:    input.Phone,
		Password: string(hashedPassword),
		IsActive: utils.NewTrue(),
		Role:     UserRoleClient,
		Theme:    ThemeSystem,
		Language: LanguageSpanish,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	return loginInfoFor(&user)
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	var user User

	err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error
	if err != nil {
		return nil, errors.New("invalid username or password")
	}

	err = utils.ComparePassword(user.Password, password)
	if err != nil && err == bcrypt.ErrMismatchedHashAndPassword {
		return nil, errors.New("invalid username or password")
	}

	if user.IsActive == nil || !*user.IsActive {
		return nil, errors.New("user is disabled")
	}

	return loginInfoFor(&user)
}

func currentUser(ctx context.Context) (*User, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).First(&user, userId).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &user, nil
}

func GetUserSettings(ctx context.Context) (*AppearanceSettings, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return &AppearanceSettings{Theme: user.Theme, Language: user.Language}, nil
}

func UpdateUserSettings(ctx context.Context, input AppearanceSettings) (*AppearanceSettings, error) {
	if err := validAppearance(input); err != nil {
		return nil, err
	}
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(user).
		Updates(map[string]interface{}{"theme": input.Theme, "language": input.Language}).Error; err != nil {
		return nil, err
	}
	return &AppearanceSettings{Theme: input.Theme, Language: input.Language}, nil
}

func ChangePassword(ctx context.Context, oldPassword string, newPassword string) (*User, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := utils.ComparePassword(user.Password, oldPassword); err != nil {
		return nil, errors.New("old password is wrong")
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(user).UpdateColumn("password", string(hashedPassword)).Error; err != nil {
		return nil, err
	}

	user.PrepareGive()
	return user, nil
}
