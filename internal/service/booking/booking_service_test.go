package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zvrva/staybook/internal/domain"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) CreateWithAvailability(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *mockBookingRepo) HasOverlap(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	args := m.Called(ctx, roomID, checkIn, checkOut)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) MarkPaid(ctx context.Context, id, method string, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, id, method, paidAt)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) Cancel(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) ListByHotel(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type mockHotelRepo struct {
	mock.Mock
}

func (m *mockHotelRepo) Create(ctx context.Context, hotel *domain.Hotel) error {
	args := m.Called(ctx, hotel)
	return args.Error(0)
}

func (m *mockHotelRepo) GetByID(ctx context.Context, hotelID string) (*domain.Hotel, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

func (m *mockHotelRepo) GetOwned(ctx context.Context, hotelID, ownerID string) (*domain.Hotel, error) {
	args := m.Called(ctx, hotelID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

func (m *mockHotelRepo) FirstByOwner(ctx context.Context, ownerID string) (*domain.Hotel, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

func (m *mockHotelRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Hotel, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Hotel), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Ensure(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *mockUserRepo) UpdateRecentCities(ctx context.Context, id string, cities []string) error {
	args := m.Called(ctx, id, cities)
	return args.Error(0)
}

func futureRange(nights int) (time.Time, time.Time) {
	checkIn := time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	return checkIn, checkIn.AddDate(0, 0, nights)
}

func TestCreateBooking_Validation(t *testing.T) {
	checkIn, checkOut := futureRange(2)

	testCases := []struct {
		name    string
		input   CreateBookingInput
		message string
	}{
		{
			name:    "missing room",
			input:   CreateBookingInput{UserID: "u1", CheckIn: checkIn, CheckOut: checkOut, Guests: 2},
			message: "All fields are required",
		},
		{
			name:    "missing guests",
			input:   CreateBookingInput{UserID: "u1", RoomID: "r1", CheckIn: checkIn, CheckOut: checkOut},
			message: "All fields are required",
		},
		{
			name:    "checkout before checkin",
			input:   CreateBookingInput{UserID: "u1", RoomID: "r1", CheckIn: checkOut, CheckOut: checkIn, Guests: 2},
			message: "Check-out date must be after check-in date",
		},
		{
			name: "checkin in the past",
			input: CreateBookingInput{
				UserID:   "u1",
				RoomID:   "r1",
				CheckIn:  time.Now().AddDate(0, 0, -3),
				CheckOut: checkOut,
				Guests:   2,
			},
			message: "Check-in date cannot be in the past",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mockBookingRepo)
			service := NewBookingService(repo, new(mockHotelRepo), new(mockUserRepo), nil, "bookings")

			booking, err := service.CreateBooking(context.Background(), tc.input)

			assert.Nil(t, booking)
			assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
			assert.EqualError(t, err, tc.message)
			repo.AssertNotCalled(t, "CreateWithAvailability", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateBooking_Success(t *testing.T) {
	checkIn, checkOut := futureRange(2)
	repo := new(mockBookingRepo)
	repo.On("HasOverlap", mock.Anything, "room-1", checkIn, checkOut).Return(false, nil)
	repo.On("CreateWithAvailability", mock.Anything, mock.AnythingOfType("*domain.Booking")).
		Run(func(args mock.Arguments) {
			b := args.Get(1).(*domain.Booking)
			b.HotelID = "hotel-1"
			b.TotalPrice = 20000
		}).
		Return(nil)

	service := NewBookingService(repo, new(mockHotelRepo), new(mockUserRepo), nil, "bookings")

	booking, err := service.CreateBooking(context.Background(), CreateBookingInput{
		UserID:   "user-1",
		RoomID:   "room-1",
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   2,
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, "user-1", booking.UserID)
	assert.Equal(t, int64(20000), booking.TotalPrice)
	repo.AssertExpectations(t)
}

func TestCreateBooking_ConflictFromPreCheck(t *testing.T) {
	checkIn, checkOut := futureRange(2)
	repo := new(mockBookingRepo)
	repo.On("HasOverlap", mock.Anything, "room-1", checkIn, checkOut).Return(true, nil)

	service := NewBookingService(repo, new(mockHotelRepo), new(mockUserRepo), nil, "bookings")

	booking, err := service.CreateBooking(context.Background(), CreateBookingInput{
		UserID: "user-1", RoomID: "room-1", CheckIn: checkIn, CheckOut: checkOut, Guests: 2,
	})

	assert.Nil(t, booking)
	assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))
	repo.AssertNotCalled(t, "CreateWithAvailability", mock.Anything, mock.Anything)
}

func TestCreateBooking_ConflictFromRepository(t *testing.T) {
	checkIn, checkOut := futureRange(2)
	repo := new(mockBookingRepo)
	repo.On("HasOverlap", mock.Anything, "room-1", checkIn, checkOut).Return(false, nil)
	repo.On("CreateWithAvailability", mock.Anything, mock.Anything).
		Return(domain.NewConflict("Room is not available for selected dates"))

	service := NewBookingService(repo, new(mockHotelRepo), new(mockUserRepo), nil, "bookings")

	booking, err := service.CreateBooking(context.Background(), CreateBookingInput{
		UserID: "user-1", RoomID: "room-1", CheckIn: checkIn, CheckOut: checkOut, Guests: 2,
	})

	assert.Nil(t, booking)
	assert.EqualError(t, err, "Room is not available for selected dates")
}

func TestCheckAvailability(t *testing.T) {
	checkIn, checkOut := futureRange(3)
	repo := new(mockBookingRepo)
	repo.On("HasOverlap", mock.Anything, "room-1", checkIn, checkOut).Return(false, nil)

	service := NewBookingService(repo, new(mockHotelRepo), new(mockUserRepo), nil, "bookings")

	available, err := service.CheckAvailability(context.Background(), "room-1", checkIn, checkOut)
	assert.NoError(t, err)
	assert.True(t, available)

	_, err = service.CheckAvailability(context.Background(), "", checkIn, checkOut)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestCancelBooking_Forbidden(t *testing.T) {
	repo := new(mockBookingRepo)
	repo.On("GetByID", mock.Anything, "b1").Return(&domain.Booking{ID: "b1", UserID: "someone-else"}, nil)

	service := NewBookingService(repo, new(mockHotelRepo), new(mockUserRepo), nil, "bookings")

	booking, err := service.CancelBooking(context.Background(), "b1", "user-1")
	assert.Nil(t, booking)
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))
	repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestCancelBooking_AlreadyCancelledIsNoOp(t *testing.T) {
	repo := new(mockBookingRepo)
	repo.On("GetByID", mock.Anything, "b1").
		Return(&domain.Booking{ID: "b1", UserID: "user-1", IsCancelled: true}, nil)

	service := NewBookingService(repo, new(mockHotelRepo), new(mockUserRepo), nil, "bookings")

	booking, err := service.CancelBooking(context.Background(), "b1", "user-1")
	assert.NoError(t, err)
	assert.True(t, booking.IsCancelled)
	repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestCancelBooking_Success(t *testing.T) {
	repo := new(mockBookingRepo)
	repo.On("GetByID", mock.Anything, "b1").Return(&domain.Booking{ID: "b1", UserID: "user-1"}, nil)
	repo.On("Cancel", mock.Anything, "b1").Return(true, nil)

	service := NewBookingService(repo, new(mockHotelRepo), new(mockUserRepo), nil, "bookings")

	booking, err := service.CancelBooking(context.Background(), "b1", "user-1")
	assert.NoError(t, err)
	assert.True(t, booking.IsCancelled)
	repo.AssertExpectations(t)
}

func TestHotelDashboard_SumsAllBookings(t *testing.T) {
	repo := new(mockBookingRepo)
	hotels := new(mockHotelRepo)
	hotels.On("GetOwned", mock.Anything, "hotel-1", "owner-1").
		Return(&domain.Hotel{ID: "hotel-1", OwnerID: "owner-1"}, nil)
	repo.On("ListByHotel", mock.Anything, "hotel-1").Return([]domain.Booking{
		{ID: "b1", TotalPrice: 10000, IsPaid: true},
		{ID: "b2", TotalPrice: 5000},
		{ID: "b3", TotalPrice: 3000, IsCancelled: true},
	}, nil)

	service := NewBookingService(repo, hotels, new(mockUserRepo), nil, "bookings")

	data, err := service.HotelDashboard(context.Background(), "hotel-1", "owner-1")
	assert.NoError(t, err)
	assert.Equal(t, 3, data.TotalBookings)
	assert.Equal(t, int64(18000), data.TotalRevenue)
	assert.Len(t, data.Bookings, 3)
}

func TestHotelDashboard_LegacyFirstHotelFallback(t *testing.T) {
	repo := new(mockBookingRepo)
	hotels := new(mockHotelRepo)
	hotels.On("FirstByOwner", mock.Anything, "owner-1").
		Return(&domain.Hotel{ID: "hotel-7", OwnerID: "owner-1"}, nil)
	repo.On("ListByHotel", mock.Anything, "hotel-7").Return([]domain.Booking{}, nil)

	service := NewBookingService(repo, hotels, new(mockUserRepo), nil, "bookings")

	data, err := service.HotelDashboard(context.Background(), "", "owner-1")
	assert.NoError(t, err)
	assert.Equal(t, 0, data.TotalBookings)
	hotels.AssertNotCalled(t, "GetOwned", mock.Anything, mock.Anything, mock.Anything)
}

type capturingProducer struct {
	events chan string
}

func (p *capturingProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	p.events <- topic
	return nil
}

func TestCreateBooking_PublishesEvents(t *testing.T) {
	checkIn, checkOut := futureRange(1)
	repo := new(mockBookingRepo)
	repo.On("HasOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	repo.On("CreateWithAvailability", mock.Anything, mock.Anything).Return(nil)

	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, "user-1").
		Return(&domain.User{ID: "user-1", Email: "u@example.com", Username: "u"}, nil)
	hotels := new(mockHotelRepo)
	hotels.On("GetByID", mock.Anything, mock.Anything).Return(nil, domain.NewNotFound("No Hotel found"))

	producer := &capturingProducer{events: make(chan string, 4)}
	service := NewBookingService(repo, hotels, users, producer, "bookings",
		WithNotificationsTopic("booking-notifications"))

	_, err := service.CreateBooking(context.Background(), CreateBookingInput{
		UserID: "user-1", RoomID: "room-1", CheckIn: checkIn, CheckOut: checkOut, Guests: 1,
	})
	assert.NoError(t, err)

	topics := make(map[string]bool)
	for i := 0; i < 2; i++ {
		select {
		case topic := <-producer.events:
			topics[topic] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for published events")
		}
	}
	assert.True(t, topics["bookings"])
	assert.True(t, topics["booking-notifications"])
}

// memBookingRepo reproduces the transactional semantics of the Postgres
// repository with a mutex so the race below is decided the same way: one
// winner, everyone else a conflict.
type memBookingRepo struct {
	mu       sync.Mutex
	prices   map[string]int64
	bookings []domain.Booking
}

func (m *memBookingRepo) CreateWithAvailability(ctx context.Context, booking *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	price, ok := m.prices[booking.RoomID]
	if !ok {
		return domain.NewNotFound("Room not found")
	}
	for _, b := range m.bookings {
		if b.RoomID == booking.RoomID && !b.IsCancelled &&
			domain.Overlaps(booking.CheckIn, booking.CheckOut, b.CheckIn, b.CheckOut) {
			return domain.NewConflict("Room is not available for selected dates")
		}
	}
	booking.TotalPrice = domain.TotalPrice(price, booking.CheckIn, booking.CheckOut)
	m.bookings = append(m.bookings, *booking)
	return nil
}

func (m *memBookingRepo) HasOverlap(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.RoomID == roomID && !b.IsCancelled && domain.Overlaps(checkIn, checkOut, b.CheckIn, b.CheckOut) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id {
			copy := b
			return &copy, nil
		}
	}
	return nil, domain.NewNotFound("Booking not found")
}

func (m *memBookingRepo) MarkPaid(ctx context.Context, id, method string, paidAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			if m.bookings[i].IsPaid {
				return false, nil
			}
			m.bookings[i].IsPaid = true
			return true, nil
		}
	}
	return false, domain.NewNotFound("Booking not found")
}

func (m *memBookingRepo) Cancel(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			if m.bookings[i].IsCancelled {
				return false, nil
			}
			m.bookings[i].IsCancelled = true
			return true, nil
		}
	}
	return false, domain.NewNotFound("Booking not found")
}

func (m *memBookingRepo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookingRepo) ListByHotel(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.HotelID == hotelID {
			out = append(out, b)
		}
	}
	return out, nil
}

func TestCreateBooking_ConcurrentSameRoomExactlyOneWins(t *testing.T) {
	const attempts = 16

	repo := &memBookingRepo{prices: map[string]int64{"room-1": 10000}}
	service := NewBookingService(repo, new(mockHotelRepo), new(mockUserRepo), nil, "bookings")
	checkIn, checkOut := futureRange(3)

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := service.CreateBooking(context.Background(), CreateBookingInput{
				UserID:   uuid.NewString(),
				RoomID:   "room-1",
				CheckIn:  checkIn,
				CheckOut: checkOut,
				Guests:   2,
			})
			errs[i] = err
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))
	}
	assert.Equal(t, 1, successes)
	assert.Len(t, repo.bookings, 1)
}
