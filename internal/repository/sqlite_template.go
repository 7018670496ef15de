package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/lifesync/internal/db"
	"github.com/alexanderramin/lifesync/internal/domain"
)

// SQLiteTemplateRepo implements TemplateRepo. A template and its blocks are
// written with the same DBTX, so callers wrap Create in a UnitOfWork when
// atomicity matters.
type SQLiteTemplateRepo struct {
	db db.DBTX
}

func NewSQLiteTemplateRepo(conn db.DBTX) *SQLiteTemplateRepo {
	return &SQLiteTemplateRepo{db: conn}
}

func (r *SQLiteTemplateRepo) Create(ctx context.Context, t *domain.DayTemplate) error {
	created := nowUTC()
	if !t.CreatedAt.IsZero() {
		created = formatTime(t.CreatedAt)
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO day_templates (id, name, created_at) VALUES (?, ?, ?)`,
		t.ID, t.Name, created,
	); err != nil {
		return fmt.Errorf("inserting day template: %w", err)
	}

	query := `INSERT INTO template_blocks (template_id, position, title, start_time, duration,
		column_kind, description, color, origin, goal_id, milestone_id, time_value, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i, b := range t.Blocks {
		if _, err := r.db.ExecContext(ctx, query,
			t.ID, i, b.Title, b.StartTime, b.Duration,
			string(domain.ColumnPlan), b.Description, b.Color, string(b.Origin),
			b.GoalID, b.MilestoneID, string(b.TimeValue), string(b.Priority),
		); err != nil {
			return fmt.Errorf("inserting template block %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLiteTemplateRepo) GetByID(ctx context.Context, id string) (*domain.DayTemplate, error) {
	return r.get(ctx, `SELECT id, name, created_at FROM day_templates WHERE id = ?`, id)
}

func (r *SQLiteTemplateRepo) GetByName(ctx context.Context, name string) (*domain.DayTemplate, error) {
	return r.get(ctx, `SELECT id, name, created_at FROM day_templates WHERE name = ?`, name)
}

func (r *SQLiteTemplateRepo) List(ctx context.Context) ([]*domain.DayTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM day_templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing day templates: %w", err)
	}
	var templates []*domain.DayTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating day templates: %w", err)
	}
	rows.Close()

	// Blocks are loaded after the cursor closes: a single-connection
	// transaction cannot hold two result sets.
	for _, t := range templates {
		if t.Blocks, err = r.blocks(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	return templates, nil
}

func (r *SQLiteTemplateRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM day_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting day template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("day template %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTemplateRepo) get(ctx context.Context, query, arg string) (*domain.DayTemplate, error) {
	t, err := scanTemplate(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("day template %s: %w", arg, ErrNotFound)
		}
		return nil, err
	}
	if t.Blocks, err = r.blocks(ctx, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTemplateRepo) blocks(ctx context.Context, templateID string) ([]domain.TemplateBlock, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT title, start_time, duration, column_kind, description,
		color, origin, goal_id, milestone_id, time_value, priority
		FROM template_blocks WHERE template_id = ? ORDER BY position`, templateID)
	if err != nil {
		return nil, fmt.Errorf("listing template blocks: %w", err)
	}
	defer rows.Close()

	var out []domain.TemplateBlock
	for rows.Next() {
		var b domain.TemplateBlock
		var column, origin, value, priority string
		if err := rows.Scan(&b.Title, &b.StartTime, &b.Duration, &column, &b.Description,
			&b.Color, &origin, &b.GoalID, &b.MilestoneID, &value, &priority); err != nil {
			return nil, fmt.Errorf("scanning template block: %w", err)
		}
		b.Column = domain.Column(column)
		b.Origin = domain.Origin(origin)
		b.TimeValue = domain.TimeValue(value)
		b.Priority = domain.Priority(priority)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating template blocks: %w", err)
	}
	return out, nil
}

func scanTemplate(row scanner) (*domain.DayTemplate, error) {
	var t domain.DayTemplate
	var createdAt string
	if err := row.Scan(&t.ID, &t.Name, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning day template: %w", err)
	}
	var err error
	if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}
