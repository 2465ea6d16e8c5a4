package session

// Backend wire aliases. The API speaks a slightly different role
// vocabulary than the portal does; both directions are mapped here.
const (
	wireCompanion      = "ACOMPANIANTE_EXTERNO"
	wireCoordinatorOne = "COORDINADOR_UNO"
)

// IsValidRole checks if the role is one of the predefined portal roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleTherapist, RoleCompanion, RoleCoordinator, RoleCoordinatorOne, RoleDirector:
		return true
	default:
		return false
	}
}

// GetAllRoles returns all portal roles
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleTherapist,
		RoleCompanion,
		RoleCoordinator,
		RoleCoordinatorOne,
		RoleDirector,
	}
}

// ParseRole safely parses a string into a UserRole
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}

// BackendRole converts a portal role into the vocabulary the API expects.
// Unknown roles pass through unchanged so the server can reject them.
func BackendRole(r UserRole) string {
	switch r {
	case RoleCompanion:
		return wireCompanion
	case RoleCoordinator, RoleCoordinatorOne:
		return wireCoordinatorOne
	case RoleTherapist, RoleDirector:
		return string(r)
	default:
		return string(r)
	}
}

// PortalRole converts a role as received from the API into the portal
// vocabulary. Unknown roles pass through unchanged; derivations treat
// them as the safe default.
func PortalRole(wire string) UserRole {
	switch wire {
	case wireCompanion:
		return RoleCompanion
	case wireCoordinatorOne:
		return RoleCoordinator
	case RoleTherapist, RoleDirector:
		return UserRole(wire)
	default:
		return UserRole(wire)
	}
}

// LandingSection maps a role to the application section it should land
// on after authentication. Unrecognized roles resolve to the therapist
// section rather than failing.
func LandingSection(r UserRole) Section {
	switch r {
	case RoleTherapist:
		return SectionTherapist
	case RoleCompanion:
		return SectionCompanion
	case RoleCoordinator, RoleCoordinatorOne:
		return SectionCoordinator
	case RoleDirector:
		return SectionDirector
	default:
		return SectionTherapist
	}
}

// RoleTitle returns the display title for a role
func RoleTitle(r UserRole) string {
	switch r {
	case RoleTherapist:
		return "Terapeuta Ocupacional"
	case RoleCompanion:
		return "Acompañante Externo"
	case RoleCoordinator, RoleCoordinatorOne:
		return "Coordinadora General"
	case RoleDirector:
		return "Director General"
	default:
		return "Usuario"
	}
}
