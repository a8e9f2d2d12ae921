package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo carries the code plus the user-facing message for one error.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts storage-level errors into a code and a user-facing
// message. Constraint details are translated without leaking SQL; unknown
// errors fall back to a generic internal message.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Ocurrió un error en el servidor",
		}
	}

	errStr := strings.ToLower(err.Error())

	// GORM base errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// PostgreSQL constraint violations (matched on server message text, as
	// surfaced through the pgx-based driver)

	// Unique constraint (23505)
	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "El registro ya existe",
		}
	}

	// Foreign key constraint (23503)
	if strings.Contains(errStr, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "El registro está referenciado por otros datos",
		}
	}

	// Not null constraint (23502)
	if strings.Contains(errStr, "null value") && strings.Contains(errStr, "not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "Faltan campos obligatorios",
		}
	}

	// Network / connection errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabase,
			Message: "No se pudo conectar con la base de datos. Intente de nuevo más tarde",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Ocurrió un error en el servidor",
	}
}

func getNotFoundMessage(context string) string {
	switch context {
	case "owner":
		return "No se encontró la empresa propietaria"
	case "material":
		return "No se encontró el material"
	case "material_type":
		return "No se encontró el tipo de material"
	case "accessory":
		return "No se encontró el accesorio"
	case "component":
		return "No se encontró el componente"
	case "pricing":
		return "El accesorio aún no tiene precio calculado"
	default:
		return "No se encontró el registro"
	}
}
