package policy

import (
	"strings"

	"cloud.google.com/go/civil"

	"github.com/oksasatya/user-registry/internal/domain/entity"
	"github.com/oksasatya/user-registry/pkg/validation"
)

const (
	MsgNotNull     = "must not be null"
	MsgNotBlank    = "must not be blank"
	MsgPastDate    = "must be a past date"
	MsgEmailFormat = "Wrong email format"
)

// ValidateUser runs the structural checks for a create or update payload and
// returns every violation, in check order.
func ValidateUser(u *entity.User, today civil.Date) validation.Errors {
	if u == nil {
		return validation.Errors{{Field: "user", Message: MsgNotNull}}
	}

	var address string
	if u.Email != nil {
		address = u.Email.Email
	}
	hasAddress := strings.TrimSpace(address) != ""

	return validation.Run(
		validation.Rule{Field: "email", Message: MsgNotNull, Check: validation.Present(u.Email)},
		validation.Rule{Field: "email.email", Message: MsgNotNull, Check: validation.When(u.Email != nil, validation.NotBlank(address))},
		validation.Rule{Field: "firstName", Message: MsgNotBlank, Check: validation.NotBlank(u.FirstName)},
		validation.Rule{Field: "lastName", Message: MsgNotBlank, Check: validation.NotBlank(u.LastName)},
		validation.Rule{Field: "birthdate", Message: MsgNotNull, Check: validation.DateSet(u.Birthdate)},
		validation.Rule{Field: "birthdate", Message: MsgPastDate, Check: validation.Past(u.Birthdate, today)},
		validation.Rule{Field: "email.email", Message: MsgEmailFormat, Check: validation.When(hasAddress, validation.Email(address))},
	)
}
