package booking

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/zvrva/staybook/internal/domain"
	"github.com/zvrva/staybook/internal/kafka"
	"github.com/zvrva/staybook/internal/repository"
)

type BookingUseCase interface {
	CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error)
	HotelDashboard(ctx context.Context, hotelID, ownerID string) (*DashboardData, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	UserID   string
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

type DashboardData struct {
	TotalBookings int
	TotalRevenue  int64
	Bookings      []domain.Booking
}

type BookingService struct {
	bookings           repository.BookingRepository
	hotels             repository.HotelRepository
	users              repository.UserRepository
	producer           Producer
	bookingTopic       string
	notificationsTopic string
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	hotels repository.HotelRepository,
	users repository.UserRepository,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		hotels:       hotels,
		users:        users,
		producer:     producer,
		bookingTopic: bookingTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	if roomID == "" || checkIn.IsZero() || checkOut.IsZero() {
		return false, domain.NewValidation("All fields are required")
	}
	overlap, err := s.bookings.HasOverlap(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.UserID == "" || input.RoomID == "" || input.CheckIn.IsZero() || input.CheckOut.IsZero() || input.Guests == 0 {
		return nil, domain.NewValidation("All fields are required")
	}
	if input.Guests < 0 {
		return nil, domain.NewValidation("Guests must be positive")
	}
	if !input.CheckIn.Before(input.CheckOut) {
		return nil, domain.NewValidation("Check-out date must be after check-in date")
	}
	today := time.Now().Truncate(24 * time.Hour)
	if input.CheckIn.Before(today) {
		return nil, domain.NewValidation("Check-in date cannot be in the past")
	}

	// Best-effort pre-check. It may race with concurrent creations; the
	// transaction below re-runs the authoritative query.
	overlap, err := s.bookings.HasOverlap(ctx, input.RoomID, input.CheckIn, input.CheckOut)
	if err != nil {
		log.Printf("availability pre-check failed: %v", err)
	} else if overlap {
		return nil, domain.NewConflict("Room is not available for selected dates")
	}

	booking := &domain.Booking{
		ID:       uuid.NewString(),
		UserID:   input.UserID,
		RoomID:   input.RoomID,
		CheckIn:  input.CheckIn,
		CheckOut: input.CheckOut,
		Guests:   input.Guests,
	}

	if err := s.bookings.CreateWithAvailability(ctx, booking); err != nil {
		return nil, err
	}

	// Post-commit confirmation is best effort and must not delay or fail the
	// response.
	go s.notify("booking_created", booking)

	return booking, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, domain.NewForbidden("You do not own this booking")
	}
	if booking.IsCancelled {
		return booking, nil
	}

	cancelled, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	booking.IsCancelled = true
	if cancelled {
		go s.notify("booking_cancelled", booking)
	}
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// HotelDashboard counts and sums every booking for the hotel, paid or not,
// cancelled or not. That matches what owners have always seen on the dashboard.
func (s *BookingService) HotelDashboard(ctx context.Context, hotelID, ownerID string) (*DashboardData, error) {
	var hotel *domain.Hotel
	var err error
	if hotelID != "" {
		hotel, err = s.hotels.GetOwned(ctx, hotelID, ownerID)
	} else {
		// Legacy clients omit hotelId and expect the owner's first hotel.
		hotel, err = s.hotels.FirstByOwner(ctx, ownerID)
	}
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListByHotel(ctx, hotel.ID)
	if err != nil {
		return nil, err
	}

	var revenue int64
	for _, b := range bookings {
		revenue += b.TotalPrice
	}
	return &DashboardData{
		TotalBookings: len(bookings),
		TotalRevenue:  revenue,
		Bookings:      bookings,
	}, nil
}

func (s *BookingService) notify(eventType string, booking *domain.Booking) {
	if s.producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	event := kafka.BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		CheckIn:    booking.CheckIn,
		CheckOut:   booking.CheckOut,
		Nights:     domain.Nights(booking.CheckIn, booking.CheckOut),
		TotalPrice: booking.TotalPrice,
	}
	if user, err := s.users.GetByID(ctx, booking.UserID); err == nil {
		event.Email = user.Email
		event.Username = user.Username
	}
	if hotel, err := s.hotels.GetByID(ctx, booking.HotelID); err == nil {
		event.HotelName = hotel.Name
		event.HotelCity = hotel.City
	}

	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, booking.ID, err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			log.Printf("WARNING: failed to publish %s notification for booking %s: %v", eventType, booking.ID, err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
