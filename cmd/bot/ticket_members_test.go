package main

import (
	"testing"

	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/stretchr/testify/require"
)

func TestPanelMemberRoles(t *testing.T) {
	t.Run("SupportAndStaff", func(t *testing.T) {
		panel := &entities.Panel{
			SupportRoleID: "role-support",
			StaffRoleID:   "role-staff",
		}
		require.Equal(t, []string{"role-support", "role-staff"}, panelMemberRoles(panel))
	})

	t.Run("SupportOnly", func(t *testing.T) {
		panel := &entities.Panel{SupportRoleID: "role-support"}
		require.Equal(t, []string{"role-support"}, panelMemberRoles(panel))
	})

	t.Run("StaffOnly", func(t *testing.T) {
		panel := &entities.Panel{StaffRoleID: "role-staff"}
		require.Equal(t, []string{"role-staff"}, panelMemberRoles(panel))
	})

	t.Run("NoRolesConfigured", func(t *testing.T) {
		require.Empty(t, panelMemberRoles(&entities.Panel{}))
	})
}
