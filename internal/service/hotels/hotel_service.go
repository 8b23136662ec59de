package hotels

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/zvrva/staybook/internal/domain"
	"github.com/zvrva/staybook/internal/media"
	"github.com/zvrva/staybook/internal/repository"
)

type HotelUseCase interface {
	RegisterHotel(ctx context.Context, input RegisterHotelInput) (*domain.Hotel, error)
	ListOwnerHotels(ctx context.Context, ownerID string) ([]domain.Hotel, error)
	CreateRoom(ctx context.Context, input CreateRoomInput) (*domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.RoomWithHotel, error)
	ListOwnerRooms(ctx context.Context, hotelID, ownerID string) ([]domain.Room, error)
	ToggleRoomAvailability(ctx context.Context, roomID, ownerID string) error
}

type RoomsCache interface {
	GetRooms(ctx context.Context) ([]domain.RoomWithHotel, error)
	SetRooms(ctx context.Context, rooms []domain.RoomWithHotel) error
	InvalidateRooms(ctx context.Context) error
}

type RegisterHotelInput struct {
	OwnerID string
	Name    string
	Address string
	Contact string
	City    string
}

type CreateRoomInput struct {
	OwnerID       string
	HotelID       string
	RoomType      string
	PricePerNight int64
	Amenities     []string
	Images        [][]byte
}

type HotelService struct {
	hotels   repository.HotelRepository
	rooms    repository.RoomRepository
	users    repository.UserRepository
	uploader media.Uploader
	cache    RoomsCache
}

func NewHotelService(
	hotels repository.HotelRepository,
	rooms repository.RoomRepository,
	users repository.UserRepository,
	uploader media.Uploader,
	cache RoomsCache,
) *HotelService {
	return &HotelService{
		hotels:   hotels,
		rooms:    rooms,
		users:    users,
		uploader: uploader,
		cache:    cache,
	}
}

// Allows digits, spaces, dashes, parentheses, optional leading +.
var phoneRe = regexp.MustCompile(`^[+]?[-()\s\d]{7,20}$`)

func (s *HotelService) RegisterHotel(ctx context.Context, input RegisterHotelInput) (*domain.Hotel, error) {
	if input.Name == "" || input.Address == "" || input.Contact == "" || input.City == "" {
		return nil, domain.NewValidation("Please provide all required fields: name, address, contact, and city")
	}

	name := strings.TrimSpace(input.Name)
	if len(name) < 3 || len(name) > 100 {
		return nil, domain.NewValidation("Hotel name must be between 3 and 100 characters")
	}

	if !phoneRe.MatchString(strings.TrimSpace(input.Contact)) {
		return nil, domain.NewValidation("Invalid phone format. Use digits, spaces, dashes, parentheses, optional +")
	}

	hotel := &domain.Hotel{
		ID:      uuid.NewString(),
		OwnerID: input.OwnerID,
		Name:    name,
		Address: input.Address,
		Contact: strings.TrimSpace(input.Contact),
		City:    input.City,
	}
	if err := s.hotels.Create(ctx, hotel); err != nil {
		return nil, err
	}

	// Registering a first hotel promotes the account to hotelOwner.
	if err := s.users.UpdateRole(ctx, input.OwnerID, domain.RoleHotelOwner); err != nil {
		log.Printf("WARNING: failed to promote user %s to hotelOwner: %v", input.OwnerID, err)
	}

	return hotel, nil
}

func (s *HotelService) ListOwnerHotels(ctx context.Context, ownerID string) ([]domain.Hotel, error) {
	return s.hotels.ListByOwner(ctx, ownerID)
}

func (s *HotelService) CreateRoom(ctx context.Context, input CreateRoomInput) (*domain.Room, error) {
	if input.RoomType == "" || input.HotelID == "" || len(input.Amenities) == 0 {
		return nil, domain.NewValidation("All fields are required including hotel selection")
	}
	if input.PricePerNight <= 0 {
		return nil, domain.NewValidation("Invalid price")
	}
	if len(input.Images) == 0 {
		return nil, domain.NewValidation("At least one image is required")
	}

	hotel, err := s.hotels.GetOwned(ctx, input.HotelID, input.OwnerID)
	if err != nil {
		return nil, domain.NewNotFound("Hotel not found or you don't have permission")
	}

	roomID := uuid.NewString()
	images := make([]string, 0, len(input.Images))
	for i, img := range input.Images {
		url, err := s.uploader.Upload(ctx, img, fmt.Sprintf("%s-%d", roomID, i))
		if err != nil {
			return nil, err
		}
		images = append(images, url)
	}

	room := &domain.Room{
		ID:            roomID,
		HotelID:       hotel.ID,
		RoomType:      input.RoomType,
		PricePerNight: input.PricePerNight,
		Amenities:     input.Amenities,
		Images:        images,
		IsAvailable:   true,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}

	s.invalidateListing(ctx)
	return room, nil
}

func (s *HotelService) ListRooms(ctx context.Context) ([]domain.RoomWithHotel, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRooms(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	rooms, err := s.rooms.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetRooms(ctx, rooms)
	}
	return rooms, nil
}

func (s *HotelService) ListOwnerRooms(ctx context.Context, hotelID, ownerID string) ([]domain.Room, error) {
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
	return s.rooms.ListByHotel(ctx, hotel.ID)
}

func (s *HotelService) ToggleRoomAvailability(ctx context.Context, roomID, ownerID string) error {
	if roomID == "" {
		return domain.NewValidation("Room ID is required")
	}
	if err := s.rooms.ToggleAvailability(ctx, roomID, ownerID); err != nil {
		return err
	}
	s.invalidateListing(ctx)
	return nil
}

func (s *HotelService) invalidateListing(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateRooms(ctx); err != nil {
		log.Printf("WARNING: failed to invalidate rooms cache: %v", err)
	}
}

var _ HotelUseCase = (*HotelService)(nil)
