package domain

import "time"

type Hotel struct {
	ID        string
	OwnerID   string
	Name      string
	Address   string
	Contact   string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
