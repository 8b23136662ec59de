package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/staybook/internal/domain"
)

type HotelRepository interface {
	Create(ctx context.Context, hotel *domain.Hotel) error
	GetByID(ctx context.Context, hotelID string) (*domain.Hotel, error)
	// GetOwned returns the hotel only when it belongs to ownerID; a foreign
	// hotel id is indistinguishable from a missing one.
	GetOwned(ctx context.Context, hotelID, ownerID string) (*domain.Hotel, error)
	FirstByOwner(ctx context.Context, ownerID string) (*domain.Hotel, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Hotel, error)
}

type PGHotelRepository struct {
	db *pgxpool.Pool
}

func NewHotelRepository(db *pgxpool.Pool) HotelRepository {
	return &PGHotelRepository{db: db}
}

const hotelColumns = `id, owner_id, name, address, contact, city, created_at, updated_at`

func (r *PGHotelRepository) Create(ctx context.Context, hotel *domain.Hotel) error {
	return r.db.QueryRow(ctx, `INSERT INTO hotels (id, owner_id, name, address, contact, city)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		hotel.ID, hotel.OwnerID, hotel.Name, hotel.Address, hotel.Contact, hotel.City).
		Scan(&hotel.CreatedAt, &hotel.UpdatedAt)
}

func (r *PGHotelRepository) GetByID(ctx context.Context, hotelID string) (*domain.Hotel, error) {
	row := r.db.QueryRow(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE id=$1`, hotelID)
	return scanHotel(row)
}

func (r *PGHotelRepository) GetOwned(ctx context.Context, hotelID, ownerID string) (*domain.Hotel, error) {
	row := r.db.QueryRow(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE id=$1 AND owner_id=$2`, hotelID, ownerID)
	return scanHotel(row)
}

func (r *PGHotelRepository) FirstByOwner(ctx context.Context, ownerID string) (*domain.Hotel, error) {
	row := r.db.QueryRow(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE owner_id=$1 ORDER BY created_at LIMIT 1`, ownerID)
	return scanHotel(row)
}

func (r *PGHotelRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Hotel, error) {
	rows, err := r.db.Query(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE owner_id=$1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hotels := make([]domain.Hotel, 0)
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, *h)
	}
	return hotels, rows.Err()
}

func scanHotel(row pgx.Row) (*domain.Hotel, error) {
	var h domain.Hotel
	err := row.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Address, &h.Contact, &h.City, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFound("No Hotel found")
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

var _ HotelRepository = (*PGHotelRepository)(nil)
