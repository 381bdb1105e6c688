package user

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

var (
	accountRoleTag  = "accountrole"
	accountRoleText = "invalid role"
)

func init() {
	_ = core.Validate.RegisterValidation(accountRoleTag, accountRoleValidation)
	core.RegisterCustomTranslation(accountRoleTag, accountRoleText)
}

// accountRoleValidation checks that the provided role is a creatable account role.
// Admin is a fixed config credential, not an account.
func accountRoleValidation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case RoleStudent, RoleTeacher:
		return true
	}
	return false
}
