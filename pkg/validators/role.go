package validators

import (
	"errors"
	"slices"

	"bitwise74/auth-api/internal/model"
)

var ErrRoleInvalid = errors.New("role must be one of admin, expert, user")

var validRoles = []string{model.RoleAdmin, model.RoleExpert, model.RoleUser}

func RoleValidator(r string) error {
	if !slices.Contains(validRoles, r) {
		return ErrRoleInvalid
	}

	return nil
}
