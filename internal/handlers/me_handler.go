package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/atempo-app/atempo-api/internal/httperr"
	"github.com/atempo-app/atempo-api/internal/httpresp"
	"github.com/atempo-app/atempo-api/internal/middleware"
	"github.com/atempo-app/atempo-api/internal/models"
	"github.com/atempo-app/atempo-api/internal/principal"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)

	if p.Role == principal.RoleOwner {
		var biz models.Business
		if err := h.db.First(&biz, "id = ?", p.ID).Error; err != nil {
			httperr.Internal(c, "internal_error", "No se pudo cargar el perfil.")
			return
		}

		httpresp.OK(c, gin.H{
			"id":                 biz.ID,
			"role":               p.Role,
			"business_name":      biz.Name,
			"first_name":         biz.OwnerFirstName,
			"last_name":          biz.OwnerLastName,
			"email":              biz.Email,
			"phone":              biz.Phone,
			"logo_url":           biz.LogoURL,
			"email_verified":     biz.EmailVerified,
			"two_factor_enabled": biz.TwoFactorEnabled,
		})
		return
	}

	var emp models.Employee
	if err := h.db.
		Where("id = ? AND business_id = ?", p.ID, p.BusinessID).
		First(&emp).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo cargar el perfil.")
		return
	}

	httpresp.OK(c, gin.H{
		"id":          emp.ID,
		"role":        p.Role,
		"business_id": emp.BusinessID,
		"first_name":  emp.FirstName,
		"last_name":   emp.LastName,
		"email":       emp.Email,
		"phone":       emp.Phone,
		"photo_url":   emp.PhotoURL,
		"permissions": emp.Permissions,
	})
}

type UpdateTwoFactorRequest struct {
	Enabled bool `json:"enabled"`
}

// UpdateTwoFactor activa o desactiva el segundo factor del dueño.
func (h *MeHandler) UpdateTwoFactor(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)

	if p.Role != principal.RoleOwner {
		httperr.Forbidden(c, httperr.CodeForbidden,
			"Solo el dueño puede configurar el segundo factor.")
		return
	}

	var req UpdateTwoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Datos inválidos.")
		return
	}

	if err := h.db.Model(&models.Business{}).
		Where("id = ?", p.ID).
		Update("two_factor_enabled", req.Enabled).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo actualizar la configuración.")
		return
	}

	httpresp.OK(c, gin.H{"two_factor_enabled": req.Enabled})
}
