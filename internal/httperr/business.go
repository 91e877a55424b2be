package httperr

import "errors"

// Códigos de negocio expuestos en el campo error_code.
const (
	CodeValidation              = "validation_error"
	CodeUnauthorized            = "unauthorized"
	CodeForbidden               = "forbidden"
	CodeNotFound                = "not_found"
	CodeInvalidAssignee         = "invalid_assignee"
	CodeInvalidTimeRange        = "invalid_time_range"
	CodeReminderRequiresContact = "reminder_requires_contact"
	CodeSlotConflict            = "slot_conflict"
	CodeDuplicateUnique         = "duplicate_unique"
)

type BusinessError struct {
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessMsg(code, message string) error {
	return BusinessError{Code: code, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
