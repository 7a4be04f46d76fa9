package application

import (
	"errors"
	"fmt"

	"github.com/oksasatya/user-registry/pkg/validation"
)

var (
	ErrUserNotFound  = errors.New("User with this id wasn't found")
	ErrIneligibleAge = errors.New("user is under the minimum age")
	ErrRangeOrder    = errors.New("From must be less than To")
)

// IneligibleAgeError is returned by Save and Update when the birthdate is
// after the minimum-age cutoff. It matches ErrIneligibleAge.
type IneligibleAgeError struct {
	MinAge int
}

func (e *IneligibleAgeError) Error() string {
	return fmt.Sprintf("This user is under %d", e.MinAge)
}

func (e *IneligibleAgeError) Is(target error) bool {
	return target == ErrIneligibleAge
}

// ValidationError carries every structural violation of a payload.
type ValidationError struct {
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	return e.Errors.Error()
}
