// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

// Client route targets used by redirects
const (
	PathSignIn         = "/auth"
	PathDashboard      = "/dashboard"
	PathAdminHome      = "/admin/dashboard"
	PathSurveyorHome   = "/surveys/dashboard"
	PathRespondentHome = "/encuestas"
)

var ErrUnknownRole = errors.New("unknown role")

// Role is the closed set of principal roles. The zero value means the
// role has not been resolved (or the principal has no role row).
type Role uint8

const (
	RoleNone Role = iota
	RoleAdministrator
	RoleSurveyor
	RoleRespondent
)

// Roles lists every assignable role
var Roles = []Role{RoleAdministrator, RoleSurveyor, RoleRespondent}

// ParseRole maps the stored role name to a Role
func ParseRole(s string) (Role, error) {
	switch s {
	case "administrator":
		return RoleAdministrator, nil
	case "surveyor":
		return RoleSurveyor, nil
	case "respondent":
		return RoleRespondent, nil
	}
	return RoleNone, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) String() string {
	switch r {
	case RoleAdministrator:
		return "administrator"
	case RoleSurveyor:
		return "surveyor"
	case RoleRespondent:
		return "respondent"
	case RoleNone:
		return ""
	}
	return ""
}

// Home returns the canonical landing route for the role.
// Unresolved roles land on the respondent home.
func (r Role) Home() string {
	switch r {
	case RoleAdministrator:
		return PathAdminHome
	case RoleSurveyor:
		return PathSurveyorHome
	case RoleRespondent, RoleNone:
		return PathRespondentHome
	}
	return PathRespondentHome
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*r = RoleNone
		return nil
	}
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
