package session

import (
	"strings"
	"time"
)

// UserRole is the user's role within the portal
type UserRole = string

const (
	// RoleTherapist is an occupational therapist
	RoleTherapist UserRole = "TERAPEUTA"
	// RoleCompanion is an external companion
	RoleCompanion UserRole = "ACOMPANANTE"
	// RoleCoordinator is the general coordinator
	RoleCoordinator UserRole = "COORDINADOR"
	// RoleCoordinatorOne is the backend's canonical coordinator role
	RoleCoordinatorOne UserRole = "COORDINADOR_UNO"
	// RoleDirector is the center's director
	RoleDirector UserRole = "DIRECTOR"
)

// Section identifies the application area a role lands on after sign in.
type Section = string

const (
	SectionTherapist   Section = "terapeuta"
	SectionCompanion   Section = "acompanante"
	SectionCoordinator Section = "coordinador"
	SectionDirector    Section = "director"
)

// User is the portal user model. IDs are opaque strings issued by the
// backend; profile fields beyond the identity block are optional.
type User struct {
	ID             string     `json:"id,omitempty"`
	Role           UserRole   `json:"role,omitempty"`
	FirstName      string     `json:"firstName,omitempty"`
	LastName       string     `json:"lastName,omitempty"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	DocumentNumber string     `json:"documentNumber,omitempty"`
	Specialty      string     `json:"specialty,omitempty"`
	License        string     `json:"license,omitempty"`
	Experience     string     `json:"experience,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	JoinDate       string     `json:"joinDate,omitempty"`
	FirstLogin     bool       `json:"firstLogin"`
	HasSignature   bool       `json:"hasSignature"`
	SignatureKey   string     `json:"signatureKey,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// FullName joins the user's name parts, skipping empty ones.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	parts := []string{}
	if s := strings.TrimSpace(u.FirstName); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(u.LastName); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// ProfilePatch is the partial profile update sent after signature
// enrollment. FirstLogin and HasSignature always travel together so the
// enrollment gate can never observe a half-applied flag pair.
type ProfilePatch struct {
	FirstLogin   *bool   `json:"firstLogin,omitempty"`
	HasSignature *bool   `json:"hasSignature,omitempty"`
	SignatureKey *string `json:"signatureKey,omitempty"`
}

// EnrollmentPatch builds the patch the enrollment flow persists on success.
func EnrollmentPatch(signatureKey string) ProfilePatch {
	f := false
	t := true
	return ProfilePatch{
		FirstLogin:   &f,
		HasSignature: &t,
		SignatureKey: &signatureKey,
	}
}
