// Package models defines the REST payloads exchanged with the task backend
// and the user snapshot kept in the credential record.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// User is the denormalized profile snapshot stored with the credentials.
// It is not authoritative; services refresh it from /auth/me.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// DisplayName is the full name, or the email when no name is set.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// ProfileUpdate is a partial update of /auth/me keyed by JSON field name.
type ProfileUpdate map[string]any

var ErrIncorrectField = errors.New("profile field must be name=value")

// ProfileFields are the user fields the backend accepts in a profile update.
var ProfileFields = []string{"email", "full_name", "phone", "avatar_url"}

// ProfileUpdateFromPairs parses "name=value" lines into a ProfileUpdate.
// Only ProfileFields are accepted. The value may itself contain '='.
func ProfileUpdateFromPairs(pairs []string) (ProfileUpdate, error) {
	upd := make(ProfileUpdate, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrIncorrectField, p)
		}
		if !isProfileField(name) {
			return nil, fmt.Errorf("unknown profile field %q", name)
		}
		upd[name] = strings.TrimSpace(value)
	}
	return upd, nil
}

func isProfileField(name string) bool {
	for _, f := range ProfileFields {
		if f == name {
			return true
		}
	}
	return false
}
