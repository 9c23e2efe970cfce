// Package registry offers a uniform script CRUD contract regardless of
// whether the guard service is reachable. The delegated implementation
// forwards every operation to the guard service; the simulated one acts
// on a process-lifetime in-memory store so the dashboard stays
// functional without a live backend.
package registry

import (
	"context"
	"fmt"
	"regexp"

	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/models"
)

// Mode names, fixed at process start.
const (
	ModeDelegated = "delegated"
	ModeSimulated = "simulated"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Registry is the script registry gateway. All mutating operations are
// atomic with respect to a single call: a failed or abandoned call must
// not leave the backing store half-updated.
type Registry interface {
	List(ctx context.Context) ([]models.Script, error)
	Create(ctx context.Context, name, code string) (*models.Script, error)
	// Update replaces code in place. Name and createdAt are immutable,
	// except in delegated mode where the guard service has no native
	// update primitive and the operation is emulated as delete-then-
	// create, which reassigns id and createdAt.
	Update(ctx context.Context, name, code string) (*models.Script, error)
	Delete(ctx context.Context, name string) error
	Mode() string
}

// ValidationError rejects malformed input before it reaches any store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports a duplicate script name.
type ConflictError struct {
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("script %q already exists", e.Name)
}

// NotFoundError reports an absent script name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("script %q not found", e.Name)
}

// DelegationError wraps a transport or protocol failure talking to the
// guard service. Raw transport errors never escape the registry.
type DelegationError struct {
	Op    string
	Cause error
}

func (e *DelegationError) Error() string {
	return fmt.Sprintf("guard service unavailable during %s: %v", e.Op, e.Cause)
}

func (e *DelegationError) Unwrap() error {
	return e.Cause
}

// validate checks the common create/update input rules.
func validate(name, code string) error {
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !validName.MatchString(name) {
		return &ValidationError{Field: "name", Reason: "only letters, digits, '_' and '-' are allowed"}
	}
	if code == "" {
		return &ValidationError{Field: "code", Reason: "must not be empty"}
	}
	return nil
}
