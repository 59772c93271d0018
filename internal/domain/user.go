package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Avatar    string    `json:"avatar"`
	Role      Role      `gorm:"type:varchar(16);not null" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSummary is the public projection used when users are embedded in other resources.
type UserSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email,omitempty"`
	Avatar string    `json:"avatar,omitempty"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}

// Session identifies the authenticated caller of a request.
type Session struct {
	UserID uuid.UUID
	Role   Role
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

func (s Session) CanTeach() bool { return s.Role == RoleProfessor || s.Role == RoleAdmin }
