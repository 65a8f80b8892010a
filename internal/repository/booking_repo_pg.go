package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JasonLinn/cryo-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

const (
	pgSerializationFailure = "40001"
	pgExclusionViolation   = "23P01"
	pgUniqueViolation      = "23505"

	serializableAttempts = 3
	serializableBaseWait = 50 * time.Millisecond
)

// ConflictCheck decides, inside the insert transaction, whether the new
// booking may be written given the locked equipment row and the active
// bookings that overlap it.
type ConflictCheck func(equipment *domain.Equipment, existing []domain.Booking) error

type BookingFilter struct {
	Status []domain.BookingStatus
	UserID string
}

type BookingRepository interface {
	CreatePending(ctx context.Context, booking *domain.Booking, check ConflictCheck) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	ListActiveBetween(ctx context.Context, equipmentID string, from, to time.Time) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, reason string) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db      *pgxpool.Pool
	backoff func() retry.Backoff
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db, backoff: serializationBackoff}
}

// serializationBackoff allows serializableAttempts runs in total, waiting
// 50ms then 100ms (plus jitter) between them.
func serializationBackoff() retry.Backoff {
	b := retry.NewExponential(serializableBaseWait)
	b = retry.WithJitterPercent(20, b)
	return retry.WithMaxRetries(serializableAttempts-1, b)
}

const bookingColumns = `b.id, b.equipment_id, b.user_id, b.start_time, b.end_time, b.purpose, b.status,
	b.rejection_reason, b.created_at, b.updated_at, e.name, u.name, u.email`

const bookingJoins = `JOIN equipment e ON e.id = b.equipment_id JOIN users u ON u.id = b.user_id`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.EquipmentID, &b.UserID, &b.StartTime, &b.EndTime, &b.Purpose, &b.Status,
		&b.RejectionReason, &b.CreatedAt, &b.UpdatedAt, &b.EquipmentName, &b.UserName, &b.UserEmail); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreatePending inserts booking as PENDING. The equipment row is locked and
// the overlap candidates are read in the same serializable transaction, so
// two writers for the same equipment cannot both pass check.
func (r *PGBookingRepository) CreatePending(ctx context.Context, booking *domain.Booking, check ConflictCheck) error {
	return runSerializable(ctx, r.backoff(), func(ctx context.Context) error {
		return r.createPending(ctx, booking, check)
	})
}

// runSerializable runs txFn, retrying it under b while it fails with a
// serialization failure. An exclusion violation from the no-overlap
// constraint comes back as domain.ErrBookingOverlap.
func runSerializable(ctx context.Context, b retry.Backoff, txFn func(ctx context.Context) error) error {
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		err := txFn(ctx)
		if isPgCode(err, pgSerializationFailure) {
			return retry.RetryableError(err)
		}
		return err
	})
	if isPgCode(err, pgExclusionViolation) {
		return domain.ErrBookingOverlap
	}
	return err
}

func (r *PGBookingRepository) createPending(ctx context.Context, booking *domain.Booking, check ConflictCheck) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var eq domain.Equipment
	err = tx.QueryRow(ctx, `SELECT id, name, description, location, color, status, is_active, created_at, updated_at
		FROM equipment WHERE id=$1 FOR UPDATE`, booking.EquipmentID).
		Scan(&eq.ID, &eq.Name, &eq.Description, &eq.Location, &eq.Color, &eq.Status, &eq.IsActive, &eq.CreatedAt, &eq.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrEquipmentNotFound
	}
	if err != nil {
		return err
	}

	rows, err := tx.Query(ctx, `SELECT `+bookingColumns+` FROM bookings b `+bookingJoins+`
		WHERE b.equipment_id=$1 AND b.status = ANY($2) AND b.start_time < $3 AND b.end_time > $4`,
		booking.EquipmentID, activeStatuses(), booking.EndTime, booking.StartTime)
	if err != nil {
		return err
	}
	existing, err := collectBookings(rows)
	if err != nil {
		return err
	}

	if check != nil {
		if err := check(&eq, existing); err != nil {
			return err
		}
	}

	booking.Status = domain.BookingStatusPending
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, equipment_id, user_id, start_time, end_time, purpose, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		booking.ID, booking.EquipmentID, booking.UserID, booking.StartTime, booking.EndTime, booking.Purpose, booking.Status).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}
	booking.EquipmentName = eq.Name

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings b `+bookingJoins+` WHERE b.id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	return b, err
}

func (r *PGBookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	var (
		where []string
		args  []any
	)
	if len(filter.Status) > 0 {
		args = append(args, statusStrings(filter.Status))
		where = append(where, fmt.Sprintf("b.status = ANY($%d)", len(args)))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where = append(where, fmt.Sprintf("b.user_id = $%d", len(args)))
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings b ` + bookingJoins
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY b.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ListActiveBetween returns PENDING and APPROVED bookings of the equipment
// that overlap [from, to).
func (r *PGBookingRepository) ListActiveBetween(ctx context.Context, equipmentID string, from, to time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings b `+bookingJoins+`
		WHERE b.equipment_id=$1 AND b.status = ANY($2) AND b.start_time < $3 AND b.end_time > $4
		ORDER BY b.start_time`, equipmentID, activeStatuses(), to, from)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// UpdateStatus moves a PENDING booking to status. A booking that exists but
// is no longer pending yields domain.ErrInvalidTransition.
func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, reason string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `WITH b AS (
			UPDATE bookings SET status=$1, rejection_reason=$2, updated_at=now()
			WHERE id=$3 AND status=$4
			RETURNING *
		)
		SELECT `+bookingColumns+` FROM b `+bookingJoins,
		status, reason, id, domain.BookingStatusPending)
	b, err := scanBooking(row)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id=$1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrBookingNotFound
	}
	return nil, domain.ErrInvalidTransition
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

func activeStatuses() []string {
	return statusStrings(domain.ActiveStatuses)
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

var _ BookingRepository = (*PGBookingRepository)(nil)
