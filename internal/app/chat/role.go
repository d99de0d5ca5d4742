package chat

import "fmt"

// Role is the side a connecting user takes in the matching rule.
// Only a helper may cause a room to be created; a seeker can only join
// a room a helper already opened.
type Role int

const (
	// RoleSeeker is a user connecting to a conversation about their own help request.
	RoleSeeker Role = iota

	// RoleHelper is a user offering help, connecting toward someone with a standing request.
	RoleHelper
)

// ParseRole parses the wire-level role flag, "0" for seeker and "1" for helper.
// The flag is parsed exactly once, at admission.
func ParseRole(flag string) (Role, error) {
	switch flag {
	case "0":
		return RoleSeeker, nil
	case "1":
		return RoleHelper, nil
	default:
		return 0, fmt.Errorf("invalid role flag %q", flag)
	}
}

func (r Role) String() string {
	switch r {
	case RoleSeeker:
		return "seeker"
	case RoleHelper:
		return "helper"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}
