package auth

import (
	"github.com/frahmantamala/workforce-management/internal"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
)

type Action string

const (
	ActionCreateUser       Action = "user:create"
	ActionListUsers        Action = "user:list"
	ActionAssignShift      Action = "roster:assign"
	ActionViewRoster       Action = "roster:view"
	ActionClock            Action = "attendance:clock"
	ActionViewFlags        Action = "attendance:flags"
	ActionCreateLeave      Action = "leave:create"
	ActionDecideLeave      Action = "leave:decide"
	ActionRequestSwap      Action = "swap:request"
	ActionDecideSwap       Action = "swap:decide"
	ActionSendNotification Action = "notify:send"
	ActionReadNotification Action = "notify:read"
	ActionManageRates      Action = "rate:manage"
	ActionRunPayroll       Action = "payroll:run"
)

// Policy maps each action to the roles allowed to perform it. An action
// with an empty role list is open to every authenticated user.
type Policy map[Action][]userDatamodel.Role

func DefaultPolicy() Policy {
	const (
		admin      = userDatamodel.RoleAdmin
		supervisor = userDatamodel.RoleSupervisor
		hr         = userDatamodel.RoleHR
		staff      = userDatamodel.RoleStaff
	)
	return Policy{
		ActionCreateUser:       {admin},
		ActionListUsers:        {admin, supervisor, hr},
		ActionAssignShift:      {admin, supervisor},
		ActionViewRoster:       {},
		ActionClock:            {staff},
		ActionViewFlags:        {admin, supervisor, hr},
		ActionCreateLeave:      {staff},
		ActionDecideLeave:      {admin, supervisor},
		ActionRequestSwap:      {staff},
		ActionDecideSwap:       {admin, supervisor},
		ActionSendNotification: {admin, supervisor, hr},
		ActionReadNotification: {},
		ActionManageRates:      {admin, hr},
		ActionRunPayroll:       {admin, hr},
	}
}

// Allows reports whether role may perform action. Unknown actions are denied.
func (p Policy) Allows(role string, action Action) bool {
	roles, ok := p[action]
	if !ok {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if string(r) == role {
			return true
		}
	}
	return false
}

// Authorize returns ErrForbiddenRole when the principal may not perform action.
func (p Policy) Authorize(principal *internal.Principal, action Action) error {
	if principal == nil {
		return internal.ErrInvalidToken
	}
	if !p.Allows(principal.Role, action) {
		return internal.ErrForbiddenRole.WithDetails(map[string]interface{}{
			"action": action,
			"role":   principal.Role,
			"need":   p[action],
		})
	}
	return nil
}
