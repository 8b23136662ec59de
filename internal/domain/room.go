package domain

import "time"

type Room struct {
	ID            string
	HotelID       string
	RoomType      string // "Single", "Double"
	PricePerNight int64  // minor units
	Amenities     []string
	Images        []string
	IsAvailable   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RoomWithHotel is the public listing shape: a room joined with its hotel.
type RoomWithHotel struct {
	Room
	Hotel Hotel
}
