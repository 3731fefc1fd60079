package employee

import (
	"errors"
	"net/http"
	"strings"

	employeeerrors "go-employee/internal/employee/errors"
	"go-employee/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return employeeerrors.ErrEmployeeAlreadyExists
	}

	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return employeeerrors.ErrEmployeeAlreadyExists
	}

	return apperror.Wrap(err, apperror.CodeInternalError, apperror.ErrInternal.Message, http.StatusInternalServerError)
}
