package domain

import (
	"math"
	"time"
)

type Booking struct {
	ID            string
	UserID        string
	RoomID        string
	HotelID       string
	CheckIn       time.Time
	CheckOut      time.Time
	Guests        int
	TotalPrice    int64 // minor units
	IsPaid        bool
	IsCancelled   bool
	PaymentMethod string
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Nights rounds partial days up, so a late check-in still pays for the night.
func Nights(checkIn, checkOut time.Time) int {
	hours := checkOut.Sub(checkIn).Hours()
	return int(math.Ceil(hours / 24))
}

func TotalPrice(pricePerNight int64, checkIn, checkOut time.Time) int64 {
	return pricePerNight * int64(Nights(checkIn, checkOut))
}

// Overlaps reports whether two booking intervals conflict. The comparison is
// closed on both ends: a check-out and a check-in on the same day conflict.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return !bIn.After(aOut) && !bOut.Before(aIn)
}
