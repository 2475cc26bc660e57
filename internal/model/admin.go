package model

import (
	"time"

	"github.com/google/uuid"
)

// Admin is an account allowed to manage the catalog. PasswordHash never
// leaves the service layer.
type Admin struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
