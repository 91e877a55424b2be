package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

var statusByCode = map[string]int{
	CodeValidation:              http.StatusBadRequest,
	CodeInvalidAssignee:         http.StatusBadRequest,
	CodeInvalidTimeRange:        http.StatusBadRequest,
	CodeReminderRequiresContact: http.StatusBadRequest,
	CodeUnauthorized:            http.StatusUnauthorized,
	CodeForbidden:               http.StatusForbidden,
	CodeNotFound:                http.StatusNotFound,
	CodeSlotConflict:            http.StatusConflict,
	CodeDuplicateUnique:         http.StatusConflict,
}

var messageByCode = map[string]string{
	CodeValidation:              "Datos inválidos.",
	CodeInvalidAssignee:         "Encargado inválido o inactivo.",
	CodeInvalidTimeRange:        "La hora de inicio debe ser anterior a la hora de fin.",
	CodeReminderRequiresContact: "Para activar recordatorios se requiere email y celular.",
	CodeUnauthorized:            "Credenciales inválidas.",
	CodeForbidden:               "No tienes permiso para realizar esta acción.",
	CodeNotFound:                "Recurso no encontrado.",
	CodeSlotConflict:            "El encargado ya tiene una cita en ese horario.",
	CodeDuplicateUnique:         "El registro ya existe en tu negocio.",
}

// Handle traduce un error de negocio a la respuesta JSON correspondiente.
// Errores desconocidos se reportan como 500 sin filtrar detalles internos.
func Handle(c *gin.Context, err error) {
	if be, ok := AsBusiness(err); ok {
		status, found := statusByCode[be.Code]
		if !found {
			status = http.StatusBadRequest
		}
		msg := be.Message
		if msg == "" {
			msg = messageByCode[be.Code]
		}
		Write(c, status, be.Code, msg)
		return
	}

	Internal(c, "internal_error", "Error interno del servidor.")
}
