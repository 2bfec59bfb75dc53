package rbac

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
}

func (s *RegistrySuite) SetupTest() {
	s.registry = NewRegistry()
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) TestEveryRoleHasAnEntry() {
	for _, role := range Roles() {
		set := s.registry.PermissionsFor(role)
		s.NotNil(set, "role %s must have an entry", role)
	}
}

func (s *RegistrySuite) TestUngrantedTokensAreDenied() {
	cases := []struct {
		role  Role
		token string
	}{
		{RoleShopManager, PermUsersDelete},
		{RoleShopManager, PermLogsView},
		{RoleWarehouseManager, PermUsersCreate},
		{RoleWarehouseManager, PermTaxesEdit},
		{RoleCustom, PermLogsView},
	}
	for _, tc := range cases {
		s.False(s.registry.PermissionsFor(tc.role).Has(tc.token),
			"%s must not hold %s", tc.role, tc.token)
	}
}

func (s *RegistrySuite) TestGrantedTokens() {
	s.True(s.registry.PermissionsFor(RoleSuperAdmin).Has(PermUsersDelete))
	s.True(s.registry.PermissionsFor(RoleAdmin).Has(PermLogsExport))
	s.True(s.registry.PermissionsFor(RoleWarehouseManager).Has(PermWarehousesCreate))
	s.True(s.registry.PermissionsFor(RoleShopManager).Has(PermEventsCreate))
}

func (s *RegistrySuite) TestUnknownRoleYieldsEmptySet() {
	set := s.registry.PermissionsFor(Role("intruder"))
	s.Empty(set.Tokens())
	s.False(set.Has(PermLogsView))
}

func (s *RegistrySuite) TestUnknownTokenIsAbsentNotFailing() {
	s.False(s.registry.PermissionsFor(RoleSuperAdmin).Has("nonexistent.module"))
}

func (s *RegistrySuite) TestRepeatedLookupsAreEqual() {
	first := s.registry.PermissionsFor(RoleShopManager)
	second := s.registry.PermissionsFor(RoleShopManager)
	s.Equal(first, second)
}

func (s *RegistrySuite) TestReplaceSwapsWholeSet() {
	s.registry.Replace(RoleCustom, []string{PermLogsView, PermEventsCreate})
	set := s.registry.PermissionsFor(RoleCustom)
	s.True(set.Has(PermLogsView))
	s.True(set.Has(PermEventsCreate))
	s.False(set.Has(PermUsersDelete))

	// A set handed out before the replacement keeps its contents: Replace
	// swaps the map entry instead of mutating the old set.
	s.registry.Replace(RoleCustom, []string{PermTaxesView})
	s.True(set.Has(PermLogsView))
	s.False(s.registry.PermissionsFor(RoleCustom).Has(PermLogsView))
	s.True(s.registry.PermissionsFor(RoleCustom).Has(PermTaxesView))
}

func (s *RegistrySuite) TestParseRole() {
	role, err := ParseRole("shop_manager")
	s.NoError(err)
	s.Equal(RoleShopManager, role)

	_, err = ParseRole("root")
	s.Error(err)
}
