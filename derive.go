package session

import (
	"fmt"
	"time"
)

// Display derivations are pure and tolerate an absent user; the UI can
// call them against any snapshot without guarding.

// FullName returns the user's display name, or the empty string for an
// absent user.
func FullName(u *User) string {
	return u.FullName()
}

// Greeting returns a time-of-day greeting appropriate for the user's
// role, evaluated at the given instant.
func Greeting(u *User, at time.Time) string {
	greeting := "Buenos días"
	switch hour := at.Hour(); {
	case hour >= 12 && hour < 18:
		greeting = "Buenas tardes"
	case hour >= 18:
		greeting = "Buenas noches"
	}

	if u == nil {
		return greeting
	}

	switch u.Role {
	case RoleTherapist, RoleDirector:
		return fmt.Sprintf("%s, Dr.", greeting)
	case RoleCoordinator, RoleCoordinatorOne:
		return fmt.Sprintf("%s, %s", greeting, u.FirstName)
	default:
		return fmt.Sprintf("%s, Prof.", greeting)
	}
}

// Title returns the display title for the user's role, or the generic
// title for an absent user.
func Title(u *User) string {
	if u == nil {
		return RoleTitle("")
	}
	return RoleTitle(u.Role)
}

// Landing returns the section the user lands on after authentication.
// Absent users resolve to the default section.
func Landing(u *User) Section {
	if u == nil {
		return LandingSection("")
	}
	return LandingSection(u.Role)
}
