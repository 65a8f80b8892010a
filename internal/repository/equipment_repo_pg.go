package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JasonLinn/cryo-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EquipmentRepository interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Equipment, error)
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
	Create(ctx context.Context, eq *domain.Equipment) error
	Update(ctx context.Context, id string, patch domain.EquipmentPatch) (*domain.Equipment, error)
	// Delete removes the equipment and its bookings and reports how many
	// bookings went with it.
	Delete(ctx context.Context, id string) (int, error)
}

type PGEquipmentRepository struct {
	db *pgxpool.Pool
}

func NewEquipmentRepository(db *pgxpool.Pool) EquipmentRepository {
	return &PGEquipmentRepository{db: db}
}

const equipmentColumns = `id, name, description, location, color, status, is_active, created_at, updated_at`

func scanEquipment(row pgx.Row, extra ...any) (*domain.Equipment, error) {
	var e domain.Equipment
	dest := append([]any{&e.ID, &e.Name, &e.Description, &e.Location, &e.Color, &e.Status, &e.IsActive, &e.CreatedAt, &e.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PGEquipmentRepository) List(ctx context.Context, activeOnly bool) ([]domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + `,
		(SELECT count(*) FROM bookings b WHERE b.equipment_id = equipment.id AND b.status = $1 AND b.start_time >= now())
		FROM equipment`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, domain.BookingStatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]domain.Equipment, 0)
	for rows.Next() {
		var upcoming int
		e, err := scanEquipment(rows, &upcoming)
		if err != nil {
			return nil, err
		}
		e.UpcomingApproved = upcoming
		list = append(list, *e)
	}
	return list, rows.Err()
}

func (r *PGEquipmentRepository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	e, err := scanEquipment(r.db.QueryRow(ctx, `SELECT `+equipmentColumns+` FROM equipment WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEquipmentNotFound
	}
	return e, err
}

func (r *PGEquipmentRepository) Create(ctx context.Context, eq *domain.Equipment) error {
	err := r.db.QueryRow(ctx, `INSERT INTO equipment (id, name, description, location, color, status, is_active)
		VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5, ''), '#3b82f6'), $6, $7)
		RETURNING color, created_at, updated_at`,
		eq.ID, eq.Name, eq.Description, eq.Location, eq.Color, eq.Status, eq.IsActive).
		Scan(&eq.Color, &eq.CreatedAt, &eq.UpdatedAt)
	return equipmentCreateError(err)
}

func equipmentCreateError(err error) error {
	if isPgCode(err, pgUniqueViolation) {
		return domain.ErrEquipmentExists
	}
	return err
}

func (r *PGEquipmentRepository) Update(ctx context.Context, id string, patch domain.EquipmentPatch) (*domain.Equipment, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Location != nil {
		set("location", *patch.Location)
	}
	if patch.Color != nil {
		set("color", *patch.Color)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE equipment SET %s, updated_at=now() WHERE id=$%d RETURNING `+equipmentColumns,
		strings.Join(sets, ", "), len(args))
	e, err := scanEquipment(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEquipmentNotFound
	}
	return e, err
}

func (r *PGEquipmentRepository) Delete(ctx context.Context, id string) (int, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE equipment_id=$1`, id).Scan(&count); err != nil {
		return 0, err
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM equipment WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	if cmd.RowsAffected() == 0 {
		return 0, domain.ErrEquipmentNotFound
	}

	return count, tx.Commit(ctx)
}

var _ EquipmentRepository = (*PGEquipmentRepository)(nil)
