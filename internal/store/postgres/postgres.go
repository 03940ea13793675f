package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"smart-parking/internal/logging"
	"smart-parking/internal/parking"
)

type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	dbName := "smart_parking"
	if config.ConnConfig.Database != "" {
		dbName = config.ConnConfig.Database
	}
	config.ConnConfig.Tracer = otelpgx.NewTracer(
		otelpgx.WithTrimSQLInSpanName(),
		otelpgx.WithDisableQuerySpanNamePrefix(),
		otelpgx.WithSpanNameFunc(func(stmt string) string {
			fields := strings.Fields(stmt)
			if len(fields) == 0 {
				return dbName
			}
			return dbName + " " + strings.ToUpper(fields[0])
		}),
	)

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS slots (
		slot_no INTEGER PRIMARY KEY CHECK (slot_no > 0),
		is_covered BOOLEAN NOT NULL DEFAULT FALSE,
		is_ev_charging BOOLEAN NOT NULL DEFAULT FALSE,
		is_occupied BOOLEAN NOT NULL DEFAULT FALSE,
		vehicle_type TEXT,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK ((vehicle_type IS NOT NULL) = is_occupied)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_slots_features ON slots(is_occupied, is_covered, is_ev_charging)`,
}

func Migrate(ctx context.Context, q Querier) error {
	for i, migration := range migrations {
		if _, err := q.Exec(ctx, migration); err != nil {
			logging.Error(ctx, "migration failed", "index", i, "error", err)
			return err
		}
	}
	logging.Info(ctx, "migrations completed", "count", len(migrations))
	return nil
}

const slotColumns = `slot_no, is_covered, is_ev_charging, is_occupied, vehicle_type, created_at, updated_at`

var _ parking.Repository = (*Store)(nil)

type Store struct {
	db    Querier
	close func()
}

func NewStore(db Querier) *Store {
	return &Store{db: db}
}

// Open connects, runs migrations and returns a Store that owns the pool.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := NewPool(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrating slots table: %w", err)
	}

	return &Store{db: pool, close: pool.Close}, nil
}

func (s *Store) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

// buildFindQuery renders the filter as a parameterised WHERE clause.
func buildFindQuery(filter parking.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	add := func(column string, v *bool) {
		if v == nil {
			return
		}
		args = append(args, *v)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	add("is_occupied", filter.Occupied)
	add("is_covered", filter.Covered)
	add("is_ev_charging", filter.EVCharging)

	query := "SELECT " + slotColumns + " FROM slots"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY slot_no ASC"

	return query, args
}

func scanSlot(row pgx.Row) (*parking.Slot, error) {
	var slot parking.Slot
	if err := row.Scan(
		&slot.ID, &slot.Covered, &slot.EVCharging, &slot.Occupied,
		&slot.VehicleType, &slot.CreatedAt, &slot.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (s *Store) Find(ctx context.Context, filter parking.Filter) ([]parking.Slot, error) {
	query, args := buildFindQuery(filter)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := []parking.Slot{}
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *slot)
	}
	return slots, rows.Err()
}

func (s *Store) FindByID(ctx context.Context, id int) (*parking.Slot, error) {
	row := s.db.QueryRow(ctx, "SELECT "+slotColumns+" FROM slots WHERE slot_no = $1", id)

	slot, err := scanSlot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, parking.NotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *Store) Create(ctx context.Context, slot *parking.Slot) error {
	tag, err := s.db.Exec(ctx, `
		INSERT INTO slots (`+slotColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (slot_no) DO NOTHING`,
		slot.ID, slot.Covered, slot.EVCharging, slot.Occupied,
		slot.VehicleType, slot.CreatedAt, slot.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return parking.DuplicateIDError(slot.ID)
	}
	return nil
}

// Save writes the mutable columns only; features and creation time are
// fixed once the row exists.
func (s *Store) Save(ctx context.Context, slot *parking.Slot) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE slots SET is_occupied = $2, vehicle_type = $3, updated_at = $4
		WHERE slot_no = $1`,
		slot.ID, slot.Occupied, slot.VehicleType, slot.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return parking.NotFoundError(slot.ID)
	}
	return nil
}
