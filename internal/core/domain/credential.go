package domain

// Roles carried in credentials and minted tokens.
const (
	RoleStudent = "STUDENT"
	RoleFaculty = "FACULTY"
)

// Credential is the authoritative identity record owned by the profile
// service. This service reads and creates credentials through the store's
// API; it never persists, mutates, or deletes them itself.
type Credential struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password,omitempty"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role,omitempty"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
}

// RoleOrDefault returns the credential's role, falling back to STUDENT when
// the store returned none.
func (c *Credential) RoleOrDefault() string {
	if c.Role == "" {
		return RoleStudent
	}
	return c.Role
}

// Registration carries the fields forwarded to the profile service when a
// new credential is created. The password travels in cleartext; the store
// hashes it at creation time.
type Registration struct {
	Username    string
	Password    string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	Gender      string
	Role        string
}

// AuthResult is returned to the caller on successful register or login.
type AuthResult struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
