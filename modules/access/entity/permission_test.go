package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllows(t *testing.T) {
	tests := []struct {
		action  Action
		admin   bool
		creator bool
		reader  bool
	}{
		{ActionReadCalendar, true, true, true},
		{ActionReadEvents, true, true, true},
		{ActionReadCategories, true, true, true},
		{ActionListParticipants, true, true, true},
		{ActionExportCalendar, true, true, true},
		{ActionWriteEvents, true, true, false},
		{ActionWriteCategories, true, true, false},
		{ActionInviteToEvent, true, true, false},
		{ActionManageCalendar, true, false, false},
		{ActionManageParticipants, true, false, false},
		{ActionManageInvites, true, false, false},
		{ActionDeleteCalendar, true, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.admin, Allows(RoleAdmin, tt.action))
			assert.Equal(t, tt.creator, Allows(RoleCreator, tt.action))
			assert.Equal(t, tt.reader, Allows(RoleReader, tt.action))
		})
	}
}

func TestAllows_UnknownRoleOrAction(t *testing.T) {
	assert.False(t, Allows(Role("owner"), ActionReadCalendar))
	assert.False(t, Allows(RoleAdmin, Action("calendar:unknown")))
}

func TestAllowedRoles_ReturnsCopy(t *testing.T) {
	roles := AllowedRoles(ActionManageInvites)
	assert.Equal(t, []Role{RoleAdmin}, roles)

	roles[0] = RoleReader
	assert.False(t, Allows(RoleReader, ActionManageInvites))
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("  Creator ")
	assert.True(t, ok)
	assert.Equal(t, RoleCreator, role)

	_, ok = ParseRole("owner")
	assert.False(t, ok)
}

func TestRoleAtMost(t *testing.T) {
	assert.True(t, RoleReader.AtMost(RoleAdmin))
	assert.True(t, RoleCreator.AtMost(RoleCreator))
	assert.False(t, RoleAdmin.AtMost(RoleCreator))
	assert.False(t, Role("owner").AtMost(RoleAdmin))
}
