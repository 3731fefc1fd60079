package employeedocerrors

import (
	"net/http"

	"go-employee/internal/shared/apperror"
)

var ErrEmployeeNotFound = apperror.New(
	apperror.CodeNotFound,
	"Employee not found",
	http.StatusNotFound,
)
