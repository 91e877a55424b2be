package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atempo-app/atempo-api/internal/audit"
	"github.com/atempo-app/atempo-api/internal/httperr"
	"github.com/atempo-app/atempo-api/internal/httpresp"
	"github.com/atempo-app/atempo-api/internal/middleware"
	"github.com/atempo-app/atempo-api/internal/models"
	"github.com/atempo-app/atempo-api/internal/permissions"
)

// ======================================================
// HANDLER
// ======================================================

type ClientHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewClientHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *ClientHandler {
	return &ClientHandler{db: db, audit: dispatcher}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

type UpdateClientRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// ======================================================
// LIST + SUGERENCIAS
// ======================================================

// List acepta ?q= para el autocompletado del formulario de citas:
// filtra por prefijo de nombre o correo, sin distinguir mayúsculas.
func (h *ClientHandler) List(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	tenantID := p.TenantID()

	q := h.db.
		Where("business_id = ?", tenantID).
		Order("name ASC")

	if term := strings.TrimSpace(c.Query("q")); term != "" {
		like := term + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var clients []models.FrequentClient
	if err := q.Find(&clients).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo listar los clientes.")
		return
	}

	httpresp.List(c, clients)
}

// Suggestions alimenta el formulario de citas: devuelve coincidencias de la
// libreta listas para prellenar nombre, correo y celular del cliente.
func (h *ClientHandler) Suggestions(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	tenantID := p.TenantID()

	q := h.db.
		Model(&models.FrequentClient{}).
		Where("business_id = ?", tenantID).
		Order("name ASC").
		Limit(10)

	if term := strings.TrimSpace(c.Query("q")); term != "" {
		like := term + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ? OR phone LIKE ?", like, like, like)
	}

	type suggestion struct {
		Name  string `json:"client_name"`
		Email string `json:"client_email"`
		Phone string `json:"client_phone"`
	}

	var out []suggestion
	if err := q.Find(&out).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo cargar las sugerencias.")
		return
	}

	httpresp.List(c, out)
}

// ======================================================
// GET
// ======================================================

func (h *ClientHandler) Get(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	tenantID := p.TenantID()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Identificador inválido.")
		return
	}

	var client models.FrequentClient
	if err := h.db.
		Where("id = ? AND business_id = ?", id, tenantID).
		First(&client).Error; err != nil {
		httperr.NotFound(c, httperr.CodeNotFound, "Cliente no encontrado.")
		return
	}

	httpresp.OK(c, client)
}

// ======================================================
// CREATE
// ======================================================

func (h *ClientHandler) Create(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	tenantID := p.TenantID()

	if !p.Can(permissions.ModuleClients, permissions.ActionCreate) {
		httperr.Forbidden(c, httperr.CodeForbidden,
			"No tienes permiso para crear clientes.")
		return
	}

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Datos inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	h.db.Model(&models.FrequentClient{}).
		Where("business_id = ? AND email = ?", tenantID, email).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, httperr.CodeDuplicateUnique,
			"Ya existe un cliente con ese correo en tu negocio.")
		return
	}

	client := models.FrequentClient{
		BusinessID: tenantID,
		Name:       strings.TrimSpace(req.Name),
		Email:      email,
		Phone:      req.Phone,
	}

	if err := h.db.Create(&client).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo crear el cliente.")
		return
	}

	h.audit.Dispatch(audit.Event{
		BusinessID: tenantID,
		ActorID:    &p.ID,
		Action:     "client_created",
		Entity:     "client",
		EntityID:   &client.ID,
	})

	httpresp.Created(c, client)
}

// ======================================================
// UPDATE
// ======================================================

func (h *ClientHandler) Update(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	tenantID := p.TenantID()

	if !p.Can(permissions.ModuleClients, permissions.ActionEdit) {
		httperr.Forbidden(c, httperr.CodeForbidden,
			"No tienes permiso para editar clientes.")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Identificador inválido.")
		return
	}

	var client models.FrequentClient
	if err := h.db.
		Where("id = ? AND business_id = ?", id, tenantID).
		First(&client).Error; err != nil {
		httperr.NotFound(c, httperr.CodeNotFound, "Cliente no encontrado.")
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Datos inválidos.")
		return
	}

	if req.Name != nil {
		client.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))

		var count int64
		h.db.Model(&models.FrequentClient{}).
			Where("business_id = ? AND email = ? AND id <> ?", tenantID, email, client.ID).
			Count(&count)
		if count > 0 {
			httperr.Conflict(c, httperr.CodeDuplicateUnique,
				"Ya existe un cliente con ese correo en tu negocio.")
			return
		}
		client.Email = email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}

	if err := h.db.Save(&client).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo actualizar el cliente.")
		return
	}

	h.audit.Dispatch(audit.Event{
		BusinessID: tenantID,
		ActorID:    &p.ID,
		Action:     "client_updated",
		Entity:     "client",
		EntityID:   &client.ID,
	})

	httpresp.OK(c, client)
}

// ======================================================
// DELETE
// ======================================================

func (h *ClientHandler) Delete(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	tenantID := p.TenantID()

	if !p.Can(permissions.ModuleClients, permissions.ActionDelete) {
		httperr.Forbidden(c, httperr.CodeForbidden,
			"No tienes permiso para eliminar clientes.")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Identificador inválido.")
		return
	}

	res := h.db.
		Where("id = ? AND business_id = ?", id, tenantID).
		Delete(&models.FrequentClient{})
	if res.Error != nil {
		httperr.Internal(c, "internal_error", "No se pudo eliminar el cliente.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, httperr.CodeNotFound, "Cliente no encontrado.")
		return
	}

	h.audit.Dispatch(audit.Event{
		BusinessID: tenantID,
		ActorID:    &p.ID,
		Action:     "client_deleted",
		Entity:     "client",
		EntityID:   &id,
	})

	httpresp.OK(c, gin.H{"message": "Cliente eliminado."})
}
