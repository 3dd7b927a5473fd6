package user

import (
	"strings"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
)

type CreateUserDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// Normalize trims input and lowercases the email.
func (d *CreateUserDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Role = strings.ToLower(strings.TrimSpace(d.Role))
}

func (d CreateUserDTO) Validate() (userDatamodel.Role, error) {
	if err := validation.ValidateUser(d.Name, d.Email); err != nil {
		return "", err
	}
	role, ok := userDatamodel.ParseRole(d.Role)
	if !ok {
		return "", internal.NewInvalidValue("role", d.Role)
	}
	return role, nil
}

type UsersResponse struct {
	Users []*User `json:"users"`
}
