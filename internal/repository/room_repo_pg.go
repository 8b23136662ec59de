package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/staybook/internal/domain"
)

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	// ListAvailable returns listed rooms joined with their hotels, newest first.
	ListAvailable(ctx context.Context) ([]domain.RoomWithHotel, error)
	ListByHotel(ctx context.Context, hotelID string) ([]domain.Room, error)
	// ToggleAvailability flips the listing flag when the room's hotel belongs
	// to ownerID; foreign rooms look like missing ones.
	ToggleAvailability(ctx context.Context, roomID, ownerID string) error
}

type PGRoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) RoomRepository {
	return &PGRoomRepository{db: db}
}

const roomColumns = `id, hotel_id, room_type, price_per_night, amenities, images, is_available, created_at, updated_at`

func (r *PGRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	return r.db.QueryRow(ctx, `INSERT INTO rooms (id, hotel_id, room_type, price_per_night, amenities, images, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		room.ID, room.HotelID, room.RoomType, room.PricePerNight, room.Amenities, room.Images, room.IsAvailable).
		Scan(&room.CreatedAt, &room.UpdatedAt)
}

func (r *PGRoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	row := r.db.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id=$1`, id)
	room, err := scanRoom(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFound("Room not found")
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (r *PGRoomRepository) ListAvailable(ctx context.Context) ([]domain.RoomWithHotel, error) {
	rows, err := r.db.Query(ctx, `SELECT r.id, r.hotel_id, r.room_type, r.price_per_night, r.amenities, r.images, r.is_available, r.created_at, r.updated_at,
			h.id, h.owner_id, h.name, h.address, h.contact, h.city, h.created_at, h.updated_at
		FROM rooms r
		JOIN hotels h ON h.id = r.hotel_id
		WHERE r.is_available = true
		ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := make([]domain.RoomWithHotel, 0)
	for rows.Next() {
		var rw domain.RoomWithHotel
		if err := rows.Scan(&rw.ID, &rw.HotelID, &rw.RoomType, &rw.PricePerNight, &rw.Amenities, &rw.Images, &rw.IsAvailable, &rw.Room.CreatedAt, &rw.Room.UpdatedAt,
			&rw.Hotel.ID, &rw.Hotel.OwnerID, &rw.Hotel.Name, &rw.Hotel.Address, &rw.Hotel.Contact, &rw.Hotel.City, &rw.Hotel.CreatedAt, &rw.Hotel.UpdatedAt); err != nil {
			return nil, err
		}
		listings = append(listings, rw)
	}
	return listings, rows.Err()
}

func (r *PGRoomRepository) ListByHotel(ctx context.Context, hotelID string) ([]domain.Room, error) {
	rows, err := r.db.Query(ctx, `SELECT `+roomColumns+` FROM rooms WHERE hotel_id=$1 ORDER BY created_at DESC`, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]domain.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *room)
	}
	return rooms, rows.Err()
}

func (r *PGRoomRepository) ToggleAvailability(ctx context.Context, roomID, ownerID string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE rooms SET is_available = NOT is_available, updated_at = now()
		WHERE id=$1 AND hotel_id IN (SELECT id FROM hotels WHERE owner_id=$2)`, roomID, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("Room not found")
	}
	return nil
}

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var room domain.Room
	if err := row.Scan(&room.ID, &room.HotelID, &room.RoomType, &room.PricePerNight, &room.Amenities, &room.Images, &room.IsAvailable, &room.CreatedAt, &room.UpdatedAt); err != nil {
		return nil, err
	}
	return &room, nil
}

var _ RoomRepository = (*PGRoomRepository)(nil)
