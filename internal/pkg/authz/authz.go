// Package authz maps roles to the capabilities consulted before each command.
package authz

import (
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"

	"github.com/google/uuid"
)

type Capability string

const (
	SubscriptionsOwn Capability = "subscriptions:own"
	ScheduleManage   Capability = "schedule:manage"
	NewsWrite        Capability = "news:write"
	NewsModerate     Capability = "news:moderate"
	MembersRead      Capability = "members:read"
	UsersAdmin       Capability = "users:admin"
)

var (
	userCapabilities    = []Capability{SubscriptionsOwn}
	trainerCapabilities = []Capability{ScheduleManage, NewsWrite, MembersRead}
	adminCapabilities   = append(append([]Capability{}, trainerCapabilities...), NewsModerate, UsersAdmin)
)

var capabilities = map[entity.UserRole]map[Capability]struct{}{
	entity.UserRoleUser:          set(userCapabilities),
	entity.UserRoleTrainer:       set(trainerCapabilities),
	entity.UserRoleAdministrator: set(adminCapabilities),
}

func set(caps []Capability) map[Capability]struct{} {
	m := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		m[c] = struct{}{}
	}
	return m
}

func Can(role entity.UserRole, c Capability) bool {
	_, ok := capabilities[role][c]
	return ok
}

// Principal is the authenticated caller.
type Principal struct {
	UserId uuid.UUID
	Email  string
	Role   entity.UserRole
}

func (p Principal) Can(c Capability) bool {
	return Can(p.Role, c)
}
