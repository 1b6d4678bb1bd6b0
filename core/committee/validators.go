package committee

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/gradhub/thesisdesk/core"
)

var (
	committeeRoleTag  = "committeerole"
	committeeRoleText = "invalid committee role"

	timeHMSTag   = "timehms"
	timeHMSText  = "must be a HH:MM:SS time"
	timeHMSRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d:[0-5]\d$`)
)

func init() {
	_ = core.Validate.RegisterValidation(committeeRoleTag, committeeRoleValidation)
	core.RegisterCustomTranslation(committeeRoleTag, committeeRoleText)

	_ = core.Validate.RegisterValidation(timeHMSTag, timeHMSValidation)
	core.RegisterCustomTranslation(timeHMSTag, timeHMSText)
}

// committeeRoleValidation checks that the role is one of MemberRoles.
func committeeRoleValidation(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	for _, r := range MemberRoles {
		if role == r {
			return true
		}
	}
	return false
}

func timeHMSValidation(fl validator.FieldLevel) bool {
	return timeHMSRegex.MatchString(fl.Field().String())
}
