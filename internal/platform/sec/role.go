// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"strings"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
)

// # User Roles

// Role represents the authorization level granted to an account.
//
// Roles are a closed set with no ordering: an admin is not implicitly a
// teacher. Routes list every role they accept.
type Role string

const (
	// Unrestricted system access
	RoleAdmin Role = "admin"

	// Can publish tracks and lesson material
	RoleTeacher Role = "teacher"

	// Default role for standard registered users
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

// String implements [fmt.Stringer].
func (r Role) String() string { return string(r) }

// ParseRole converts a stored or submitted value into a [Role].
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if !role.Valid() {
		return "", fmt.Errorf("sec: unknown role %q", value)
	}
	return role, nil
}

// # Role Sets

// RoleSet is the set of roles a route accepts. The empty set means
// "any authenticated identity".
type RoleSet map[Role]struct{}

// NewRoleSet builds a [RoleSet] from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Contains reports whether role is a member of the set.
func (s RoleSet) Contains(role Role) bool {
	_, ok := s[role]
	return ok
}

// # Access Decisions

// Decision is the outcome of an authorization check. It is never persisted.
type Decision struct {
	Allowed bool
	Reason  string
}

// Authorize decides whether identity may access a route that requires one of
// the roles in required.
//
// A nil identity yields an Unauthorized error; a role outside the set yields
// a Forbidden error naming the actual role. The function performs no I/O.
func Authorize(identity *Identity, required RoleSet) (Decision, error) {
	if identity == nil {
		return Decision{Reason: "unauthenticated"}, apperr.Unauthorized(MsgNotAuthorized)
	}

	if len(required) == 0 || required.Contains(identity.Role) {
		return Decision{Allowed: true}, nil
	}

	reason := fmt.Sprintf("User role %s is not authorized to access this route", identity.Role)
	return Decision{Reason: reason}, apperr.Forbidden(reason)
}
