package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atempo-app/atempo-api/internal/permissions"
)

// Employee es el personal de un negocio. Nunca se borra físicamente:
// al darlo de baja se apaga Active y las citas históricas siguen válidas.
type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null" json:"business_id"`

	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`
	Phone     string `gorm:"size:20" json:"phone"`
	Email     string `gorm:"size:100;not null" json:"email"`

	PasswordHash string `gorm:"size:255;not null" json:"-"`
	PhotoURL     string `gorm:"size:255" json:"photo_url"`

	Permissions permissions.Set `gorm:"type:jsonb" json:"permissions"`

	Active bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
