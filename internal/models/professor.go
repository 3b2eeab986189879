package models

import (
	"time"

	"github.com/google/uuid"
)

type Professor struct {
	ID           uuid.UUID `json:"id"`
	EmployeeID   *string   `json:"employee_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Department   *string   `json:"department"`
	Title        *string   `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
}

func (p *Professor) FullName() string {
	return p.FirstName + " " + p.LastName
}
