package employeedoc

import (
	"errors"
	"net/http"

	employeedocerrors "go-employee/internal/employeedoc/errors"
	"go-employee/internal/shared/apperror"

	"github.com/redis/go-redis/v9"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return employeedocerrors.ErrEmployeeNotFound
	}
	return apperror.Wrap(err, apperror.CodeInternalError, apperror.ErrInternal.Message, http.StatusInternalServerError)
}
