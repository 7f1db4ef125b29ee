package service

import "blog-server/internal/common"

type ServiceError = common.ServiceError
type ErrorCode = common.ErrorCode

const (
	ErrorCodeValidation   = common.ErrorCodeValidation
	ErrorCodeUnauthorized = common.ErrorCodeUnauthorized
	ErrorCodeForbidden    = common.ErrorCodeForbidden
	ErrorCodeConflict     = common.ErrorCodeConflict
	ErrorCodeNotFound     = common.ErrorCodeNotFound
	ErrorCodeInternal     = common.ErrorCodeInternal
)

func NewValidationError(message string) error   { return common.NewValidationError(message) }
func NewUnauthorizedError(message string) error { return common.NewUnauthorizedError(message) }
func NewForbiddenError(message string) error    { return common.NewForbiddenError(message) }
func NewConflictError(message string) error     { return common.NewConflictError(message) }
func NewNotFoundError(message string) error     { return common.NewNotFoundError(message) }
func NewInternalError(message string) error     { return common.NewInternalError(message) }

func AsServiceError(err error) (*ServiceError, bool) {
	return common.AsServiceError(err)
}
