package models

import "strings"

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Principal 当前登录身份，只来自后端的登录或 /users/me 响应
type Principal struct {
	ID              int    `json:"id"`
	Username        string `json:"username,omitempty"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Email           string `json:"email,omitempty"`
	Role            Role   `json:"role"`
	AssignedTableID *int   `json:"assigned_table_id"`
}

func (p Principal) DisplayName() string {
	if name := strings.TrimSpace(p.FirstName + " " + p.LastName); name != "" {
		return name
	}
	if p.Username != "" {
		return p.Username
	}
	return p.Email
}

// HasTable reports whether the principal is seated at tableID.
func (p Principal) HasTable(tableID int) bool {
	return p.AssignedTableID != nil && *p.AssignedTableID == tableID
}

// Clone copies the principal so callers can't alias the table pointer.
func (p Principal) Clone() Principal {
	if p.AssignedTableID != nil {
		id := *p.AssignedTableID
		p.AssignedTableID = &id
	}
	return p
}
