package entity

type Action string

const (
	ActionReadCalendar       Action = "calendar:read"
	ActionReadEvents         Action = "events:read"
	ActionReadCategories     Action = "categories:read"
	ActionListParticipants   Action = "participants:list"
	ActionWriteEvents        Action = "events:write"
	ActionWriteCategories    Action = "categories:write"
	ActionInviteToEvent      Action = "events:invite"
	ActionManageCalendar     Action = "calendar:manage"
	ActionManageParticipants Action = "participants:manage"
	ActionManageInvites      Action = "invites:manage"
	ActionDeleteCalendar     Action = "calendar:delete"
	ActionExportCalendar     Action = "calendar:export"
)

var allRoles = []Role{RoleAdmin, RoleCreator, RoleReader}

var permissionMatrix = map[Action][]Role{
	ActionReadCalendar:       allRoles,
	ActionReadEvents:         allRoles,
	ActionReadCategories:     allRoles,
	ActionListParticipants:   allRoles,
	ActionExportCalendar:     allRoles,
	ActionWriteEvents:        {RoleAdmin, RoleCreator},
	ActionWriteCategories:    {RoleAdmin, RoleCreator},
	ActionInviteToEvent:      {RoleAdmin, RoleCreator},
	ActionManageCalendar:     {RoleAdmin},
	ActionManageParticipants: {RoleAdmin},
	ActionManageInvites:      {RoleAdmin},
	ActionDeleteCalendar:     {RoleAdmin},
}

// Allows reports whether a participant holding role may perform action.
// Owners bypass the matrix.
func Allows(role Role, action Action) bool {
	for _, r := range permissionMatrix[action] {
		if r == role {
			return true
		}
	}
	return false
}

// AllowedRoles lists the roles permitted to perform action.
func AllowedRoles(action Action) []Role {
	roles := permissionMatrix[action]
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}
