package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Business es el negocio registrado (tenant). Su dueño inicia sesión con la
// misma fila: el id del negocio es a la vez el id del principal OWNER.
type Business struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name           string `gorm:"size:100;not null" json:"name"`
	OwnerFirstName string `gorm:"size:100;not null" json:"owner_first_name"`
	OwnerLastName  string `gorm:"size:100" json:"owner_last_name"`

	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`

	LogoURL string `gorm:"size:255" json:"logo_url"`

	EmailVerified    bool `gorm:"default:false" json:"email_verified"`
	TwoFactorEnabled bool `gorm:"default:false" json:"two_factor_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
