package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestInvalidArgument_CarriesFieldAndConstraint(t *testing.T) {
	err := InvalidArgument("client_id", ConstraintMaxLength, "")
	if !IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument predicate")
	}
	if ErrorField(err) != "client_id" {
		t.Fatalf("expected field client_id, got %q", ErrorField(err))
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope")
	}
	if rich.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rich.Code)
	}
	if rich.Metadata["constraint"] != ConstraintMaxLength {
		t.Fatalf("expected constraint metadata, got %#v", rich.Metadata)
	}
}

func TestUniquenessConflict_WrapsSource(t *testing.T) {
	source := errors.New("UNIQUE constraint failed: oauth_applications.client_id")
	err := UniquenessConflict(source, "application", "client_id", "portal")
	if !IsUniquenessConflict(err) {
		t.Fatalf("expected uniqueness predicate")
	}
	if IsInvalidArgument(err) || IsNotFound(err) {
		t.Fatalf("expected predicates to be exclusive")
	}
	if !errors.Is(err, source) {
		t.Fatalf("expected source to stay reachable")
	}
	wrapped := fmt.Errorf("create: %w", err)
	if !IsUniquenessConflict(wrapped) {
		t.Fatalf("expected predicate through wrapping")
	}
}

func TestUnsupportedGrantType_Predicate(t *testing.T) {
	err := UnsupportedGrantType("refresh_token")
	if !IsUnsupportedGrantType(err) {
		t.Fatalf("expected unsupported grant type predicate")
	}
	if IsUnsupportedGrantType(errors.New("plain")) || IsUnsupportedGrantType(nil) {
		t.Fatalf("expected plain and nil errors not to match")
	}
}
