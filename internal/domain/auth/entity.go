// internal/domain/auth/entity.go
package auth

import "strings"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Identity is the authenticated principal attached to a request.
type Identity struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	JTI   string `json:"-"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// RoleFor derives the role of email from the admin allow-list.
func RoleFor(email string, adminEmails []string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return RoleUser
	}
	for _, admin := range adminEmails {
		if strings.ToLower(strings.TrimSpace(admin)) == email {
			return RoleAdmin
		}
	}
	return RoleUser
}
