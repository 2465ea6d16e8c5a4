package client

import (
	"strings"
	"time"

	session "github.com/andamiaje/go-session"
)

// wireUser is the user record as the backend sends it. Some deployments
// return a single name field instead of first/last, roles use the
// backend vocabulary, and the enrollment flags may be omitted.
type wireUser struct {
	ID             string `json:"id"`
	Role           string `json:"role"`
	Name           string `json:"name,omitempty"`
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	DocumentNumber string `json:"documentNumber,omitempty"`
	Specialty      string `json:"specialty,omitempty"`
	License        string `json:"license,omitempty"`
	Experience     string `json:"experience,omitempty"`
	Bio            string `json:"bio,omitempty"`
	JoinDate       string `json:"joinDate,omitempty"`
	FirstLogin     *bool  `json:"firstLogin,omitempty"`
	HasSignature   *bool  `json:"hasSignature,omitempty"`
	SignatureKey   string `json:"signatureKey,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

// toUser normalizes a wire record into the portal model: role mapped
// into the portal vocabulary, a lone name split into first/last, and
// the enrollment flags defaulted when absent. firstLoginDefault differs
// between registration (true) and profile reads (false).
func (w *wireUser) toUser(firstLoginDefault bool) *session.User {
	first := strings.TrimSpace(w.FirstName)
	last := strings.TrimSpace(w.LastName)
	if first == "" && last == "" && strings.TrimSpace(w.Name) != "" {
		parts := strings.Fields(w.Name)
		first = parts[0]
		if len(parts) > 1 {
			last = strings.Join(parts[1:], " ")
		}
	}

	firstLogin := firstLoginDefault
	if w.FirstLogin != nil {
		firstLogin = *w.FirstLogin
	}
	hasSignature := false
	if w.HasSignature != nil {
		hasSignature = *w.HasSignature
	}

	return &session.User{
		ID:             w.ID,
		Role:           session.PortalRole(strings.ToUpper(w.Role)),
		FirstName:      first,
		LastName:       last,
		Email:          w.Email,
		Phone:          w.Phone,
		DocumentNumber: w.DocumentNumber,
		Specialty:      w.Specialty,
		License:        w.License,
		Experience:     w.Experience,
		Bio:            w.Bio,
		JoinDate:       w.JoinDate,
		FirstLogin:     firstLogin,
		HasSignature:   hasSignature,
		SignatureKey:   w.SignatureKey,
		CreatedAt:      parseTime(w.CreatedAt),
		UpdatedAt:      parseTime(w.UpdatedAt),
	}
}

func parseTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}
