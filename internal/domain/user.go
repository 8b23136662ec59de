package domain

import "time"

type Role string

const (
	RoleTraveler   Role = "user"
	RoleHotelOwner Role = "hotelOwner"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleTraveler, RoleHotelOwner:
		return Role(s), true
	}
	return "", false
}

// MaxRecentCities bounds the recent-search FIFO per user.
const MaxRecentCities = 3

type User struct {
	ID                   string // identity-provider subject
	Username             string
	Email                string
	Image                string
	Role                 Role
	RecentSearchedCities []string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// PushRecentCity appends a searched city, evicting the oldest beyond the cap.
func (u *User) PushRecentCity(city string) {
	u.RecentSearchedCities = append(u.RecentSearchedCities, city)
	if len(u.RecentSearchedCities) > MaxRecentCities {
		u.RecentSearchedCities = u.RecentSearchedCities[len(u.RecentSearchedCities)-MaxRecentCities:]
	}
}
