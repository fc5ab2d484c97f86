package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type User struct {
	ID       uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Username string    `json:"username" gorm:"unique;not null"`
	Email    string    `json:"email" gorm:"unique;not null"`
	Password string    `json:"-" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Projects []Project `json:"projects,omitempty" gorm:"foreignKey:UserID"`
}

// Identity is the session-safe view of a User: no digest, no associations.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Email: u.Email}
}
