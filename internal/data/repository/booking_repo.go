package repository

import (
	"context"
	"errors"
	"fmt"

	"flight-reservation/internal/data/entity"
	"flight-reservation/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const uniqueViolationCode = "23505"

// ErrDuplicateBookingID means the generated booking id is already taken by a
// different payment.
var ErrDuplicateBookingID = errors.New("booking id already exists")

type BookingRepository interface {
	// InsertIfAbsent stores the booking unless one already exists for its
	// payment reference, in which case the existing row is returned and
	// inserted is false.
	InsertIfAbsent(ctx context.Context, booking *entity.Booking) (stored *entity.Booking, inserted bool, err error)
	FindByID(ctx context.Context, id string) (*entity.Booking, error)
	FindByPaymentReference(ctx context.Context, reference string) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `
	id, user_id, plan_id, plan_name_snapshot, amount::text, currency,
	payment_reference, session_handle, payment_method, passenger_details,
	status, created_at`

func (r *bookingRepository) InsertIfAbsent(ctx context.Context, booking *entity.Booking) (*entity.Booking, bool, error) {
	// the unique index on payment_reference decides concurrent verifications
	query := `
		INSERT INTO bookings (id, user_id, plan_id, plan_name_snapshot, amount, currency,
		                      payment_reference, session_handle, payment_method,
		                      passenger_details, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (payment_reference) DO NOTHING
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		booking.ID,
		booking.UserID,
		booking.PlanID,
		booking.PlanNameSnapshot,
		booking.Amount.String(),
		booking.Currency,
		booking.PaymentReference,
		booking.SessionHandle,
		booking.PaymentMethod,
		booking.PassengerDetails,
		booking.Status,
		booking.CreatedAt,
	).Scan(&booking.CreatedAt)

	if err == nil {
		return booking, true, nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		existing, findErr := r.FindByPaymentReference(ctx, booking.PaymentReference)
		if findErr != nil {
			return nil, false, findErr
		}
		if existing == nil {
			return nil, false, fmt.Errorf("booking for payment %s vanished after conflict", booking.PaymentReference)
		}
		return existing, false, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		r.log.Warn("Booking id collision",
			zap.String("booking_id", booking.ID),
			zap.String("constraint", pgErr.ConstraintName),
		)
		return nil, false, ErrDuplicateBookingID
	}

	r.log.Error("Failed to insert booking",
		zap.Error(err),
		zap.String("booking_id", booking.ID),
		zap.String("payment_reference", booking.PaymentReference),
	)
	return nil, false, fmt.Errorf("insert booking %s: %w", booking.ID, err)
}

func (r *bookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByPaymentReference(ctx context.Context, reference string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE payment_reference = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, reference))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by payment reference",
			zap.Error(err),
			zap.String("payment_reference", reference),
		)
		return nil, fmt.Errorf("find booking by payment reference %s: %w", reference, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID: %w", err)
	}

	return count, nil
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var (
		booking entity.Booking
		amount  string
	)
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.PlanID,
		&booking.PlanNameSnapshot,
		&amount,
		&booking.Currency,
		&booking.PaymentReference,
		&booking.SessionHandle,
		&booking.PaymentMethod,
		&booking.PassengerDetails,
		&booking.Status,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}

	return &booking, nil
}
