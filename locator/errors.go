package locator

import (
	"errors"
	"fmt"

	"github.com/plugbind-dev/plugbind-host-sdk/contract"
	"github.com/plugbind-dev/plugbind-host-sdk/plugin"
)

// Sentinel errors for common error patterns.
// These allow both errors.Is() checks and errors.As() for detail.
var (
	// ErrAlreadyRegistered is returned when a unit is registered twice.
	ErrAlreadyRegistered = errors.New("unit already registered")

	// ErrNotRegistered is returned when a unit's container is requested
	// before the unit was registered.
	ErrNotRegistered = errors.New("unit not registered")

	// ErrNothingBound is returned by LocateOne when no binding exists
	// for the requested key.
	ErrNothingBound = errors.New("nothing bound for key")
)

// AlreadyRegisteredError indicates a duplicate unit registration.
type AlreadyRegisteredError struct {
	Name plugin.Name
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("unit already registered: %s", e.Name)
}

// Is implements error matching for errors.Is() checks.
func (e *AlreadyRegisteredError) Is(target error) bool {
	return target == ErrAlreadyRegistered
}

// NotRegisteredError indicates a lookup against an unregistered unit.
type NotRegisteredError struct {
	Name plugin.Name
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("unit not registered: %s", e.Name)
}

// Is implements error matching for errors.Is() checks.
func (e *NotRegisteredError) Is(target error) bool {
	return target == ErrNotRegistered
}

// NothingBoundError indicates an empty LocateOne result.
type NothingBoundError struct {
	Key contract.Key
}

func (e *NothingBoundError) Error() string {
	return fmt.Sprintf("nothing bound for key: %s", e.Key)
}

// Is implements error matching for errors.Is() checks.
func (e *NothingBoundError) Is(target error) bool {
	return target == ErrNothingBound
}
