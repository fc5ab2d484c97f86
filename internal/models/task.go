package models

import (
	"time"

	"github.com/gofrs/uuid"
)

const PriorityMedium = "medium"

type Task struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID   uuid.UUID  `json:"project_id" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed" gorm:"not null;default:false"`
	Priority    string     `json:"priority" gorm:"not null;default:'medium'"`
	DueDate     *time.Time `json:"due_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
