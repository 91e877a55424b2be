package handlers

import (
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/atempo-app/atempo-api/internal/config"
	"github.com/atempo-app/atempo-api/internal/httperr"
	"github.com/atempo-app/atempo-api/internal/infra/codes"
	"github.com/atempo-app/atempo-api/internal/mailer"
	"github.com/atempo-app/atempo-api/internal/models"
	"github.com/atempo-app/atempo-api/internal/principal"
	"github.com/atempo-app/atempo-api/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	mailer *mailer.Mailer
	codes  *codes.Store
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, m *mailer.Mailer, cs *codes.Store) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, mailer: m, codes: cs}
}

// ======================================================
// REQUESTS
// ======================================================

type RegisterRequest struct {
	BusinessName   string `json:"business_name" binding:"required"`
	OwnerFirstName string `json:"owner_first_name" binding:"required"`
	OwnerLastName  string `json:"owner_last_name"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	Phone          string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ======================================================
// REGISTER + VERIFICACIÓN DE CORREO
// ======================================================

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Datos inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, httperr.CodeValidation,
			"El dominio del correo no parece ser válido.")
		return
	}

	var count int64
	h.db.Model(&models.Business{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.Conflict(c, httperr.CodeDuplicateUnique,
			"Ya existe una cuenta con ese correo.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "internal_error", "No se pudo registrar la cuenta.")
		return
	}

	biz := models.Business{
		Name:           strings.TrimSpace(req.BusinessName),
		OwnerFirstName: strings.TrimSpace(req.OwnerFirstName),
		OwnerLastName:  strings.TrimSpace(req.OwnerLastName),
		Email:          email,
		PasswordHash:   string(hashed),
		Phone:          req.Phone,
	}

	if err := h.db.Create(&biz).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo registrar la cuenta.")
		return
	}

	if err := h.sendCode(c, codes.KindVerifyEmail, email, codes.VerifyEmailTTL); err != nil {
		// La cuenta ya existe; el código se puede reenviar después.
		log.Println("verification email failed:", err)
	}

	c.JSON(201, gin.H{
		"business": gin.H{
			"id":    biz.ID,
			"name":  biz.Name,
			"email": biz.Email,
		},
		"message": "Cuenta creada. Revisa tu correo para verificarla.",
	})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Datos inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	ok, err := h.codes.Check(c.Request.Context(), codes.KindVerifyEmail, email, req.Code)
	if err != nil {
		httperr.Internal(c, "internal_error", "No se pudo verificar el código.")
		return
	}
	if !ok {
		httperr.BadRequest(c, httperr.CodeValidation, "Código inválido o expirado.")
		return
	}

	if err := h.db.Model(&models.Business{}).
		Where("email = ?", email).
		Update("email_verified", true).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo verificar la cuenta.")
		return
	}

	c.JSON(200, gin.H{"message": "Correo verificado. Ya puedes iniciar sesión."})
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Datos inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var biz models.Business
	if err := h.db.Where("email = ?", email).First(&biz).Error; err != nil {
		// Respuesta uniforme: no revelamos si el correo existe.
		c.JSON(200, gin.H{"message": "Si la cuenta existe, se envió un nuevo código."})
		return
	}
	if biz.EmailVerified {
		c.JSON(200, gin.H{"message": "La cuenta ya está verificada."})
		return
	}

	if err := h.sendCode(c, codes.KindVerifyEmail, email, codes.VerifyEmailTTL); err != nil {
		httperr.Internal(c, "internal_error", "No se pudo enviar el código.")
		return
	}

	c.JSON(200, gin.H{"message": "Si la cuenta existe, se envió un nuevo código."})
}

// ======================================================
// LOGIN (OWNER / STAFF) + 2FA
// ======================================================

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Datos inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Primero como dueño; si el correo no es de un negocio, como empleado.
	var biz models.Business
	err := h.db.Where("email = ?", email).First(&biz).Error
	switch {
	case err == nil:
		h.loginOwner(c, &biz, req.Password)
	case err == gorm.ErrRecordNotFound:
		h.loginStaff(c, email, req.Password)
	default:
		httperr.Internal(c, "internal_error", "Error interno del servidor.")
	}
}

func (h *AuthHandler) loginOwner(c *gin.Context, biz *models.Business, password string) {
	if bcrypt.CompareHashAndPassword([]byte(biz.PasswordHash), []byte(password)) != nil {
		httperr.Unauthorized(c, httperr.CodeUnauthorized, "Credenciales inválidas.")
		return
	}

	if !biz.EmailVerified {
		httperr.Forbidden(c, httperr.CodeForbidden,
			"Verifica tu correo antes de iniciar sesión.")
		return
	}

	if biz.TwoFactorEnabled {
		if err := h.sendCode(c, codes.KindTwoFactor, biz.Email, codes.TwoFactorTTL); err != nil {
			httperr.Internal(c, "internal_error", "No se pudo enviar el código de seguridad.")
			return
		}
		c.JSON(200, gin.H{
			"two_factor_required": true,
			"message":             "Te enviamos un código de seguridad a tu correo.",
		})
		return
	}

	h.issueOwnerToken(c, biz)
}

func (h *AuthHandler) loginStaff(c *gin.Context, email, password string) {
	var emp models.Employee
	if err := h.db.Where("email = ?", email).First(&emp).Error; err != nil {
		httperr.Unauthorized(c, httperr.CodeUnauthorized, "Credenciales inválidas.")
		return
	}

	if !emp.Active ||
		bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(password)) != nil {
		httperr.Unauthorized(c, httperr.CodeUnauthorized, "Credenciales inválidas.")
		return
	}

	token, err := h.generateToken(emp.ID.String(), principal.RoleStaff, emp.BusinessID.String())
	if err != nil {
		httperr.Internal(c, "internal_error", "No se pudo generar la sesión.")
		return
	}

	c.JSON(200, gin.H{
		"token": token,
		"user": gin.H{
			"id":          emp.ID,
			"first_name":  emp.FirstName,
			"last_name":   emp.LastName,
			"email":       emp.Email,
			"role":        principal.RoleStaff,
			"business_id": emp.BusinessID,
			"permissions": emp.Permissions,
		},
	})
}

func (h *AuthHandler) TwoFactor(c *gin.Context) {
	var req CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Datos inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	ok, err := h.codes.Check(c.Request.Context(), codes.KindTwoFactor, email, req.Code)
	if err != nil {
		httperr.Internal(c, "internal_error", "No se pudo verificar el código.")
		return
	}
	if !ok {
		httperr.Unauthorized(c, httperr.CodeUnauthorized, "Código inválido o expirado.")
		return
	}

	var biz models.Business
	if err := h.db.Where("email = ?", email).First(&biz).Error; err != nil {
		httperr.Unauthorized(c, httperr.CodeUnauthorized, "Credenciales inválidas.")
		return
	}

	h.issueOwnerToken(c, &biz)
}

// ======================================================
// HELPERS
// ======================================================

func (h *AuthHandler) sendCode(c *gin.Context, kind, email string, ttl time.Duration) error {
	code, err := codes.Generate()
	if err != nil {
		return err
	}
	if err := h.codes.Set(c.Request.Context(), kind, email, code, ttl); err != nil {
		return err
	}

	if kind == codes.KindTwoFactor {
		return h.mailer.SendTwoFactorEmail(email, code)
	}
	return h.mailer.SendVerificationEmail(email, code)
}

func (h *AuthHandler) issueOwnerToken(c *gin.Context, biz *models.Business) {
	token, err := h.generateToken(biz.ID.String(), principal.RoleOwner, biz.ID.String())
	if err != nil {
		httperr.Internal(c, "internal_error", "No se pudo generar la sesión.")
		return
	}

	c.JSON(200, gin.H{
		"token": token,
		"user": gin.H{
			"id":                 biz.ID,
			"business_name":      biz.Name,
			"first_name":         biz.OwnerFirstName,
			"last_name":          biz.OwnerLastName,
			"email":              biz.Email,
			"role":               principal.RoleOwner,
			"two_factor_enabled": biz.TwoFactorEnabled,
		},
	})
}

func (h *AuthHandler) generateToken(sub string, role principal.Role, businessID string) (string, error) {
	claims := jwt.MapClaims{
		"sub":        sub,
		"role":       string(role),
		"businessId": businessID,
		"iat":        time.Now().Unix(),
		"exp":        time.Now().Add(7 * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
