package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/campushire/identity-service/internal/core/domain"
	"github.com/campushire/identity-service/internal/core/ports"
)

// Conflict indicators observed in profile service error bodies. The
// *_key names are database constraint names that leak through when a
// uniqueness violation surfaces as a 500; the sentence forms come from the
// store's application-level checks. Substring matching is a compatibility
// shim until the store returns structured error codes.
const (
	emailConstraintKey    = "user_profile_email_key"
	usernameConstraintKey = "user_profile_username_key"
	emailConflictMsg      = "Email already exists"
	usernameConflictMsg   = "Username already exists"
)

// classify translates a failed store call into a domain error. Errors that
// are not StoreError pass through unchanged.
func classify(err error) error {
	var se *ports.StoreError
	if errors.As(err, &se) {
		return classifyStoreError(se)
	}
	return err
}

// classifyStoreError maps a failed store outcome onto the domain taxonomy.
// Ordered, first match wins.
func classifyStoreError(se *ports.StoreError) error {
	switch {
	case se.Status == 0:
		// No response received at all: connection failure or timeout.
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, se.Err)
	case se.Status == http.StatusNotFound:
		return domain.ErrUserNotFound
	}

	// Conflicts may arrive as 4xx from the store's own checks or as 5xx
	// when the violation escapes from the database constraint.
	if conflict := conflictFromBody(se.Body); conflict != nil {
		return conflict
	}

	return fmt.Errorf("%w: status %d: %s", domain.ErrStoreFailure, se.Status, se.Body)
}

// conflictFromBody sniffs the error body for uniqueness-violation
// indicators. Email checks run first, matching the store's own precedence.
func conflictFromBody(body string) error {
	switch {
	case strings.Contains(body, emailConstraintKey),
		strings.Contains(body, emailConflictMsg),
		strings.Contains(body, "email") && strings.Contains(body, "already exists"):
		return domain.ErrEmailExists
	case strings.Contains(body, usernameConstraintKey),
		strings.Contains(body, usernameConflictMsg),
		strings.Contains(body, "username") && strings.Contains(body, "already exists"):
		return domain.ErrUsernameExists
	}
	return nil
}
