package grants

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-oauth-store/core"
)

const ErrorGrantTypeConflict = "OAUTH_GRANT_TYPE_CONFLICT"

func grantError(
	message string,
	category goerrors.Category,
	code int,
	textCode string,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func grantConflict(grantType string) error {
	return grantError(
		"grants: handler already registered for grant type "+grantType,
		goerrors.CategoryConflict,
		http.StatusConflict,
		ErrorGrantTypeConflict,
		map[string]any{"grant_type": grantType},
	)
}

func grantInternal(message string) error {
	return grantError(message, goerrors.CategoryInternal, http.StatusInternalServerError, core.ErrorInternal, nil)
}

// IsConflict reports whether err is a duplicate registration.
func IsConflict(err error) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == ErrorGrantTypeConflict
}
