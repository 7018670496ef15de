package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/lifesync/internal/db"
	"github.com/alexanderramin/lifesync/internal/domain"
)

const blockColumns = `id, title, date, start_time, duration, column_kind, status,
	description, color, device_source, origin, goal_id, milestone_id,
	related_plan_id, time_value, priority, created_at, updated_at`

// SQLiteBlockRepo implements BlockRepo using a SQLite database.
type SQLiteBlockRepo struct {
	db db.DBTX
}

// NewSQLiteBlockRepo creates a new SQLiteBlockRepo.
func NewSQLiteBlockRepo(conn db.DBTX) *SQLiteBlockRepo {
	return &SQLiteBlockRepo{db: conn}
}

func (r *SQLiteBlockRepo) Create(ctx context.Context, b *domain.TimeBlock) error {
	query := `INSERT INTO time_blocks (` + blockColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.Title,
		storedDate(b),
		b.StartTime,
		b.Duration,
		string(b.Column),
		string(b.Status),
		b.Description,
		b.Color,
		string(b.DeviceSource),
		string(b.Origin),
		b.GoalID,
		b.MilestoneID,
		b.RelatedPlanID,
		string(b.TimeValue),
		string(b.Priority),
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting time block: %w", err)
	}
	return nil
}

func (r *SQLiteBlockRepo) GetByID(ctx context.Context, id string) (*domain.TimeBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM time_blocks WHERE id = ?`
	b, err := scanBlock(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("time block %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &b, nil
}

func (r *SQLiteBlockRepo) ListByDate(ctx context.Context, date string) ([]domain.TimeBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM time_blocks
		WHERE date = ? AND start_time >= 0
		ORDER BY start_time, duration DESC, created_at`
	return r.list(ctx, "listing blocks by date", query, date)
}

// ListRange returns scheduled blocks with from <= date <= to.
func (r *SQLiteBlockRepo) ListRange(ctx context.Context, from, to string) ([]domain.TimeBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM time_blocks
		WHERE date >= ? AND date <= ? AND start_time >= 0
		ORDER BY date, start_time, duration DESC, created_at`
	return r.list(ctx, "listing blocks by range", query, from, to)
}

func (r *SQLiteBlockRepo) ListBacklog(ctx context.Context) ([]domain.TimeBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM time_blocks
		WHERE start_time = -1 ORDER BY created_at`
	return r.list(ctx, "listing backlog", query)
}

func (r *SQLiteBlockRepo) ListRelated(ctx context.Context, planID string) ([]domain.TimeBlock, error) {
	if planID == "" {
		return nil, nil
	}
	query := `SELECT ` + blockColumns + ` FROM time_blocks
		WHERE related_plan_id = ? ORDER BY created_at`
	return r.list(ctx, "listing related blocks", query, planID)
}

func (r *SQLiteBlockRepo) ListAll(ctx context.Context) ([]domain.TimeBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM time_blocks
		ORDER BY date, start_time, created_at`
	return r.list(ctx, "listing all blocks", query)
}

func (r *SQLiteBlockRepo) Update(ctx context.Context, b *domain.TimeBlock) error {
	query := `UPDATE time_blocks SET title = ?, date = ?, start_time = ?, duration = ?,
		column_kind = ?, status = ?, description = ?, color = ?, device_source = ?,
		origin = ?, goal_id = ?, milestone_id = ?, related_plan_id = ?,
		time_value = ?, priority = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		b.Title,
		storedDate(b),
		b.StartTime,
		b.Duration,
		string(b.Column),
		string(b.Status),
		b.Description,
		b.Color,
		string(b.DeviceSource),
		string(b.Origin),
		b.GoalID,
		b.MilestoneID,
		b.RelatedPlanID,
		string(b.TimeValue),
		string(b.Priority),
		formatTime(b.UpdatedAt),
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating time block: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("time block %s: %w", b.ID, ErrNotFound)
	}
	return nil
}

// Delete removes the block. Deleting a missing id is not an error so that
// cascaded batches can name a block twice.
func (r *SQLiteBlockRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM time_blocks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting time block: %w", err)
	}
	return nil
}

func (r *SQLiteBlockRepo) list(ctx context.Context, op, query string, args ...any) ([]domain.TimeBlock, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var blocks []domain.TimeBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blocks: %w", err)
	}
	return blocks, nil
}

// storedDate keeps backlog rows out of every day query.
func storedDate(b *domain.TimeBlock) string {
	if !b.IsScheduled() {
		return ""
	}
	return b.Date
}

func scanBlock(row scanner) (domain.TimeBlock, error) {
	var b domain.TimeBlock
	var column, status, device, origin, value, priority string
	var createdAt, updatedAt string

	err := row.Scan(
		&b.ID, &b.Title, &b.Date, &b.StartTime, &b.Duration, &column, &status,
		&b.Description, &b.Color, &device, &origin, &b.GoalID, &b.MilestoneID,
		&b.RelatedPlanID, &value, &priority, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b, err
		}
		return b, fmt.Errorf("scanning time block: %w", err)
	}

	b.Column = domain.Column(column)
	b.Status = domain.BlockStatus(status)
	b.DeviceSource = domain.DeviceSource(device)
	b.Origin = domain.Origin(origin)
	b.TimeValue = domain.TimeValue(value)
	b.Priority = domain.Priority(priority)

	if b.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return b, err
	}
	if b.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return b, err
	}
	return b, nil
}
