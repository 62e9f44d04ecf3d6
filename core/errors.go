package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorInvalidArgument      = "OAUTH_INVALID_ARGUMENT"
	ErrorNotFound             = "OAUTH_NOT_FOUND"
	ErrorUniquenessConflict   = "OAUTH_UNIQUENESS_CONFLICT"
	ErrorUnsupportedGrantType = "OAUTH_UNSUPPORTED_GRANT_TYPE"
	ErrorStorageFailure       = "OAUTH_STORAGE_FAILURE"
	ErrorInternal             = "OAUTH_INTERNAL_ERROR"
)

const (
	ConstraintRequired  = "required"
	ConstraintNotBlank  = "not_blank"
	ConstraintMaxLength = "max_length"
	ConstraintEnum      = "enum"
	ConstraintFormat    = "format"
)

// ErrSequenceConsumed is yielded when a single-pass sequence is iterated twice.
var ErrSequenceConsumed = errors.New("core: sequence already consumed")

// InvalidArgument builds a validation envelope naming the offending argument
// and the violated constraint.
func InvalidArgument(field string, constraint string, message string) error {
	field = strings.TrimSpace(field)
	if message == "" {
		message = fmt.Sprintf("%s violates %s", field, constraint)
	}
	err := goerrors.NewValidation("core: invalid argument", goerrors.FieldError{
		Field:   field,
		Message: message,
	}).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorInvalidArgument)
	err.WithMetadata(map[string]any{
		"field":      field,
		"constraint": constraint,
	})
	return err
}

func NotFound(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(ErrorNotFound)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

// UniquenessConflict wraps a backend constraint violation so callers can
// retry with a different natural key or treat the write as idempotent.
func UniquenessConflict(source error, entity string, field string, value string) error {
	metadata := map[string]any{
		"entity": entity,
		"field":  field,
		"value":  value,
	}
	message := fmt.Sprintf("core: %s with %s %q already exists", entity, field, value)
	var err *goerrors.Error
	if source == nil {
		err = goerrors.New(message, goerrors.CategoryConflict)
	} else {
		err = goerrors.Wrap(source, goerrors.CategoryConflict, message)
	}
	err = err.WithCode(http.StatusConflict).WithTextCode(ErrorUniquenessConflict)
	err.WithMetadata(metadata)
	return err
}

func UnsupportedGrantType(grantType string) error {
	err := goerrors.New(
		fmt.Sprintf("core: grant type %q is not supported", grantType),
		goerrors.CategoryBadInput,
	).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorUnsupportedGrantType)
	err.WithMetadata(map[string]any{"grant_type": grantType})
	return err
}

func Internal(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ErrorInternal)
}

func IsInvalidArgument(err error) bool {
	return hasTextCode(err, ErrorInvalidArgument)
}

func IsNotFound(err error) bool {
	return hasTextCode(err, ErrorNotFound)
}

func IsUniquenessConflict(err error) bool {
	return hasTextCode(err, ErrorUniquenessConflict)
}

func IsUnsupportedGrantType(err error) bool {
	return hasTextCode(err, ErrorUnsupportedGrantType)
}

// ErrorField returns the argument or natural key named by an
// InvalidArgument or UniquenessConflict error.
func ErrorField(err error) string {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return ""
	}
	for _, fieldErr := range rich.AllValidationErrors() {
		if fieldErr.Field != "" {
			return fieldErr.Field
		}
	}
	if field, ok := rich.Metadata["field"].(string); ok {
		return field
	}
	return ""
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == code
}
