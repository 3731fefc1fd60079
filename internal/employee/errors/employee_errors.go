package employeeerrors

import (
	"net/http"

	"go-employee/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrSearchCriteriaRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Provide email, or both firstName and lastName",
		http.StatusBadRequest,
	)
)
