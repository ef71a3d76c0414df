// Package profile reads and updates the caller's own profile document.
package profile

import (
	"strings"
	"time"

	"github.com/carehub/carehub/internal/domain/session"
	"github.com/carehub/carehub/internal/platform/store"
)

// Profile is the per-identity record in the users collection. One exists per
// provisioned identity; an authenticated identity without one is valid and
// simply has no role.
type Profile struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Phone        string       `json:"phone"`
	Email        string       `json:"email"`
	Role         session.Role `json:"role"`
	ProfileImage string       `json:"profileImage,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at,omitempty"`
}

// FromDocument maps a stored users document onto a Profile.
func FromDocument(doc *store.Document) *Profile {
	p := &Profile{ID: doc.ID, UpdatedAt: doc.UpdatedAt}
	p.Name, _ = doc.Fields["name"].(string)
	p.Phone, _ = doc.Fields["phone"].(string)
	p.Email, _ = doc.Fields["email"].(string)
	p.ProfileImage, _ = doc.Fields["profileImage"].(string)
	role, _ := doc.Fields["role"].(string)
	p.Role = session.ParseRole(role)
	return p
}

// Patch is a partial profile update. Nil means "leave unchanged"; a provided
// value must be non-blank (except ProfileImage, which may be cleared). Role
// and id can never travel through a Patch.
type Patch struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	ProfileImage *string `json:"profileImage"`
}

// fields builds the partial document for the merge write: exactly the
// provided values, trimmed, plus the update timestamp.
func (p Patch) fields(now time.Time) store.Fields {
	out := store.Fields{"updatedAt": now.UTC().Format(time.RFC3339)}
	if p.Name != nil {
		out["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		out["phone"] = strings.TrimSpace(*p.Phone)
	}
	if p.Email != nil {
		out["email"] = strings.TrimSpace(*p.Email)
	}
	if p.ProfileImage != nil {
		out["profileImage"] = strings.TrimSpace(*p.ProfileImage)
	}
	return out
}
