package models

import "time"

// Operator is a dashboard account allowed to drive the proxy when API
// authentication is enabled.
type Operator struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
