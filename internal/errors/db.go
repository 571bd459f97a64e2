package errors

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapDBError maps database errors from the places repository to AppError instances:
//   - context deadline/cancel → Timeout/Canceled
//   - pgx.ErrNoRows → NotFound
//   - unique violations → Conflict
//   - check and NOT NULL violations → Validation (with Field when known)
//   - any other PostgreSQL error → Storage
//
// Errors that are not database errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "La solicitud tardó demasiado. Inténtalo de nuevo.", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "La solicitud fue cancelada.", Cause: err}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "Recurso no encontrado", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}
	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return &AppError{
			Code:    ErrCodeConflict,
			Message: "Este valor ya existe.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	case pgerrcode.CheckViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: checkViolationMessage(pgErr.ConstraintName),
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	case pgerrcode.NotNullViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "Falta un campo obligatorio.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	case pgerrcode.InsufficientPrivilege, pgerrcode.InvalidAuthorizationSpecification:
		return &AppError{
			Code:    ErrCodeStorage,
			Message: "No tienes permiso para acceder a los lugares guardados.",
			Cause:   pgErr,
		}
	default:
		return &AppError{
			Code:    ErrCodeStorage,
			Message: "Error de base de datos. Inténtalo de nuevo.",
			Cause:   pgErr,
		}
	}
}

// checkViolationMessage names the coordinate bounds enforced by the places table.
func checkViolationMessage(constraint string) string {
	switch constraint {
	case "places_lat_range":
		return "La latitud debe estar entre -90 y 90."
	case "places_lng_range":
		return "La longitud debe estar entre -180 y 180."
	default:
		return "Datos no válidos. Revisa los valores introducidos."
	}
}
