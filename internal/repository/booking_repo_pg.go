package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/staybook/internal/domain"
)

type BookingRepository interface {
	// CreateWithAvailability performs the whole availability check + insert in
	// one transaction; this is the only place concurrent creations are serialized.
	CreateWithAvailability(ctx context.Context, booking *domain.Booking) error
	HasOverlap(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	MarkPaid(ctx context.Context, id, method string, paidAt time.Time) (bool, error)
	Cancel(ctx context.Context, id string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	ListByHotel(ctx context.Context, hotelID string) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, user_id, room_id, hotel_id, check_in, check_out, guests, total_price, is_paid, is_cancelled, payment_method, paid_at, created_at, updated_at`

// The candidate interval conflicts with any non-cancelled booking for the same
// room where check_in <= $out AND check_out >= $in (closed on both ends).
const overlapCondition = `room_id = $1 AND is_cancelled = false AND check_in <= $3 AND check_out >= $2`

func (r *PGBookingRepository) CreateWithAvailability(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Lock the room row so concurrent creations for the same room queue up
	// behind this transaction instead of racing the overlap check.
	var pricePerNight int64
	err = tx.QueryRow(ctx, `SELECT hotel_id, price_per_night FROM rooms WHERE id=$1 FOR UPDATE`, booking.RoomID).
		Scan(&booking.HotelID, &pricePerNight)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewNotFound("Room not found")
	}
	if err != nil {
		return err
	}

	var conflicts int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE `+overlapCondition,
		booking.RoomID, booking.CheckIn, booking.CheckOut).Scan(&conflicts); err != nil {
		return err
	}
	if conflicts > 0 {
		return domain.NewConflict("Room is not available for selected dates")
	}

	booking.TotalPrice = domain.TotalPrice(pricePerNight, booking.CheckIn, booking.CheckOut)
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, user_id, room_id, hotel_id, check_in, check_out, guests, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		booking.ID, booking.UserID, booking.RoomID, booking.HotelID, booking.CheckIn, booking.CheckOut, booking.Guests, booking.TotalPrice).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) HasOverlap(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	var conflicts int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE `+overlapCondition,
		roomID, checkIn, checkOut).Scan(&conflicts); err != nil {
		return false, err
	}
	return conflicts > 0, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFound("Booking not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// MarkPaid flips is_paid exactly once. A second call finds zero matching rows
// and reports updated=false so callers can skip duplicate side effects.
func (r *PGBookingRepository) MarkPaid(ctx context.Context, id, method string, paidAt time.Time) (bool, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET is_paid=true, payment_method=$2, paid_at=$3, updated_at=now() WHERE id=$1 AND is_paid=false`, id, method, paidAt)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id=$1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, domain.NewNotFound("Booking not found")
	}
	return false, nil
}

func (r *PGBookingRepository) Cancel(ctx context.Context, id string) (bool, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET is_cancelled=true, updated_at=now() WHERE id=$1 AND is_cancelled=false`, id)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id=$1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, domain.NewNotFound("Booking not found")
	}
	return false, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListByHotel(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE hotel_id=$1 ORDER BY created_at DESC`, hotelID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.RoomID, &b.HotelID, &b.CheckIn, &b.CheckOut, &b.Guests, &b.TotalPrice, &b.IsPaid, &b.IsCancelled, &b.PaymentMethod, &b.PaidAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
