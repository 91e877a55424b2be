package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/atempo-app/atempo-api/internal/audit"
	"github.com/atempo-app/atempo-api/internal/dto"
	"github.com/atempo-app/atempo-api/internal/httperr"
	"github.com/atempo-app/atempo-api/internal/httpresp"
	"github.com/atempo-app/atempo-api/internal/middleware"
	"github.com/atempo-app/atempo-api/internal/models"
	"github.com/atempo-app/atempo-api/internal/permissions"
	"github.com/atempo-app/atempo-api/internal/principal"
)

// ======================================================
// HANDLER
// ======================================================

type EmployeeHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewEmployeeHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *EmployeeHandler {
	return &EmployeeHandler{db: db, audit: dispatcher}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateEmployeeRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone"`
	PhotoURL  string `json:"photo_url"`

	Permissions *permissions.Set `json:"permissions"`
}

type UpdateEmployeeRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	PhotoURL  *string `json:"photo_url"`
	Password  *string `json:"password"`
}

// ======================================================
// LIST
// ======================================================

// List devuelve el personal del negocio. Con ?for_agenda=true se antepone
// una fila sintetizada para el dueño, de modo que el selector de encargado
// del calendario lo incluya sin que exista como empleado.
func (h *EmployeeHandler) List(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	tenantID := p.TenantID()

	var emps []models.Employee
	if err := h.db.
		Where("business_id = ?", tenantID).
		Order("created_at ASC").
		Find(&emps).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo listar el personal.")
		return
	}

	if c.Query("for_agenda") != "true" {
		httpresp.List(c, emps)
		return
	}

	var biz models.Business
	if err := h.db.First(&biz, "id = ?", tenantID).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo listar el personal.")
		return
	}

	views := make([]dto.AssigneeView, 0, len(emps)+1)
	views = append(views, dto.OwnerAssigneeView(&biz))
	for i := range emps {
		views = append(views, dto.EmployeeAssigneeView(&emps[i]))
	}

	httpresp.List(c, views)
}

// ======================================================
// CREATE
// ======================================================

func (h *EmployeeHandler) Create(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	tenantID := p.TenantID()

	if !p.Can(permissions.ModuleEmployees, permissions.ActionCreate) {
		httperr.Forbidden(c, httperr.CodeForbidden,
			"No tienes permiso para crear empleados.")
		return
	}

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Datos inválidos.")
		return
	}

	var count int64
	h.db.Model(&models.Employee{}).
		Where("business_id = ? AND email = ?", tenantID, req.Email).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, httperr.CodeDuplicateUnique,
			"Ya existe un empleado con ese correo en tu negocio.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "internal_error", "No se pudo crear el empleado.")
		return
	}

	perms := permissions.None()
	if req.Permissions != nil {
		perms = *req.Permissions
	}

	emp := models.Employee{
		BusinessID:   tenantID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PhotoURL:     req.PhotoURL,
		PasswordHash: string(hashed),
		Permissions:  perms,
		Active:       true,
	}

	if err := h.db.Create(&emp).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo crear el empleado.")
		return
	}

	h.audit.Dispatch(audit.Event{
		BusinessID: tenantID,
		ActorID:    &p.ID,
		Action:     "employee_created",
		Entity:     "employee",
		EntityID:   &emp.ID,
	})

	httpresp.Created(c, emp)
}

// ======================================================
// UPDATE
// ======================================================

func (h *EmployeeHandler) Update(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	tenantID := p.TenantID()

	if !p.Can(permissions.ModuleEmployees, permissions.ActionEdit) {
		httperr.Forbidden(c, httperr.CodeForbidden,
			"No tienes permiso para editar empleados.")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Identificador inválido.")
		return
	}

	var emp models.Employee
	if err := h.db.
		Where("id = ? AND business_id = ?", id, tenantID).
		First(&emp).Error; err != nil {
		httperr.NotFound(c, httperr.CodeNotFound, "Empleado no encontrado.")
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Datos inválidos.")
		return
	}

	if req.FirstName != nil {
		emp.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		emp.LastName = *req.LastName
	}
	if req.Phone != nil {
		emp.Phone = *req.Phone
	}
	if req.PhotoURL != nil {
		emp.PhotoURL = *req.PhotoURL
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			httperr.Internal(c, "internal_error", "No se pudo actualizar el empleado.")
			return
		}
		emp.PasswordHash = string(hashed)
	}

	if err := h.db.Save(&emp).Error; err != nil {
		httperr.Internal(c, "internal_error", "No se pudo actualizar el empleado.")
		return
	}

	h.audit.Dispatch(audit.Event{
		BusinessID: tenantID,
		ActorID:    &p.ID,
		Action:     "employee_updated",
		Entity:     "employee",
		EntityID:   &emp.ID,
	})

	httpresp.OK(c, emp)
}

// ======================================================
// PERMISOS
// ======================================================

// UpdatePermissions reemplaza el set completo del empleado. Solo el dueño:
// un empleado no se sube permisos a sí mismo ni a sus pares.
func (h *EmployeeHandler) UpdatePermissions(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	tenantID := p.TenantID()

	if p.Role != principal.RoleOwner {
		httperr.Forbidden(c, httperr.CodeForbidden,
			"Solo el dueño puede modificar permisos.")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Identificador inválido.")
		return
	}

	var perms permissions.Set
	if err := c.ShouldBindJSON(&perms); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Datos inválidos.")
		return
	}

	res := h.db.Model(&models.Employee{}).
		Where("id = ? AND business_id = ?", id, tenantID).
		Update("permissions", perms)
	if res.Error != nil {
		httperr.Internal(c, "internal_error", "No se pudo actualizar los permisos.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, httperr.CodeNotFound, "Empleado no encontrado.")
		return
	}

	h.audit.Dispatch(audit.Event{
		BusinessID: tenantID,
		ActorID:    &p.ID,
		Action:     "employee_permissions_updated",
		Entity:     "employee",
		EntityID:   &id,
		Metadata:   perms,
	})

	httpresp.OK(c, gin.H{"permissions": perms})
}

// ======================================================
// DELETE (BAJA LÓGICA)
// ======================================================

// Delete apaga Active en lugar de borrar la fila: las citas históricas
// del empleado siguen siendo consultables.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	tenantID := p.TenantID()

	if !p.Can(permissions.ModuleEmployees, permissions.ActionDelete) {
		httperr.Forbidden(c, httperr.CodeForbidden,
			"No tienes permiso para eliminar empleados.")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Identificador inválido.")
		return
	}

	res := h.db.Model(&models.Employee{}).
		Where("id = ? AND business_id = ?", id, tenantID).
		Update("active", false)
	if res.Error != nil {
		httperr.Internal(c, "internal_error", "No se pudo dar de baja al empleado.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, httperr.CodeNotFound, "Empleado no encontrado.")
		return
	}

	h.audit.Dispatch(audit.Event{
		BusinessID: tenantID,
		ActorID:    &p.ID,
		Action:     "employee_deactivated",
		Entity:     "employee",
		EntityID:   &id,
	})

	httpresp.OK(c, gin.H{"message": "Empleado dado de baja."})
}
