package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atempo-app/atempo-api/internal/httperr"
	"github.com/atempo-app/atempo-api/internal/httpresp"
	"github.com/atempo-app/atempo-api/internal/middleware"
	ucAppointment "github.com/atempo-app/atempo-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC *ucAppointment.CreateAppointment
	updateUC *ucAppointment.UpdateAppointment
	deleteUC *ucAppointment.DeleteAppointment
	listUC   *ucAppointment.ListAppointments
	getUC    *ucAppointment.GetAppointment
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	updateUC *ucAppointment.UpdateAppointment,
	deleteUC *ucAppointment.DeleteAppointment,
	listUC *ucAppointment.ListAppointments,
	getUC *ucAppointment.GetAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC: createUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
		listUC:   listUC,
		getUC:    getUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	Title      string    `json:"title" binding:"required"`
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`

	ClientName  string  `json:"client_name"`
	ClientPhone string  `json:"client_phone"`
	ClientEmail *string `json:"client_email"`

	Note  string `json:"note"`
	Color string `json:"color"`

	StartAt time.Time `json:"start_at" binding:"required"`
	EndAt   time.Time `json:"end_at" binding:"required"`

	HasReminder             bool `json:"has_reminder"`
	ReminderLeadHours       *int `json:"reminder_lead_hours"`
	ReminderIntervalMinutes *int `json:"reminder_interval_minutes"`
	ReminderMaxCount        *int `json:"reminder_max_count"`
}

// Campos ausentes no cambian; client_email con cadena vacía limpia el correo.
type UpdateAppointmentRequest struct {
	Title      *string    `json:"title"`
	EmployeeID *uuid.UUID `json:"employee_id"`

	ClientName  *string `json:"client_name"`
	ClientPhone *string `json:"client_phone"`
	ClientEmail *string `json:"client_email"`

	Note  *string `json:"note"`
	Color *string `json:"color"`

	StartAt *time.Time `json:"start_at"`
	EndAt   *time.Time `json:"end_at"`

	HasReminder             *bool `json:"has_reminder"`
	ReminderLeadHours       *int  `json:"reminder_lead_hours"`
	ReminderIntervalMinutes *int  `json:"reminder_interval_minutes"`
	ReminderMaxCount        *int  `json:"reminder_max_count"`
}

// ======================================================
// ENDPOINTS
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Datos inválidos.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), p, ucAppointment.CreateAppointmentInput{
		Title:      req.Title,
		EmployeeID: req.EmployeeID,

		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,

		Note:  req.Note,
		Color: req.Color,

		StartAt: req.StartAt,
		EndAt:   req.EndAt,

		HasReminder:             req.HasReminder,
		ReminderLeadHours:       req.ReminderLeadHours,
		ReminderIntervalMinutes: req.ReminderIntervalMinutes,
		ReminderMaxCount:        req.ReminderMaxCount,
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	// Se relee para devolver la proyección con el encargado resuelto.
	resp, err := h.getUC.Execute(c.Request.Context(), p, ap.ID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.Created(c, resp)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Identificador inválido.")
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Datos inválidos.")
		return
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), p, id, ucAppointment.UpdateAppointmentInput{
		Title:      req.Title,
		EmployeeID: req.EmployeeID,

		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,

		Note:  req.Note,
		Color: req.Color,

		StartAt: req.StartAt,
		EndAt:   req.EndAt,

		HasReminder:             req.HasReminder,
		ReminderLeadHours:       req.ReminderLeadHours,
		ReminderIntervalMinutes: req.ReminderIntervalMinutes,
		ReminderMaxCount:        req.ReminderMaxCount,
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	resp, err := h.getUC.Execute(c.Request.Context(), p, ap.ID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, resp)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Identificador inválido.")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), p, id); err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "Cita eliminada."})
}

func (h *AppointmentHandler) List(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)

	out, err := h.listUC.Execute(c.Request.Context(), p)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Identificador inválido.")
		return
	}

	resp, err := h.getUC.Execute(c.Request.Context(), p, id)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, resp)
}
