package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/lifesync/internal/db"
	"github.com/alexanderramin/lifesync/internal/domain"
)

// SQLiteGoalRepo implements GoalRepo using a SQLite database.
type SQLiteGoalRepo struct {
	db db.DBTX
}

func NewSQLiteGoalRepo(conn db.DBTX) *SQLiteGoalRepo {
	return &SQLiteGoalRepo{db: conn}
}

func (r *SQLiteGoalRepo) Create(ctx context.Context, g *domain.Goal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (id, title, unit_name, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.Title, g.UnitName, g.Color, formatTime(g.CreatedAt), formatTime(g.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting goal: %w", err)
	}
	for i := range g.Milestones {
		g.Milestones[i].GoalID = g.ID
		if err := r.AddMilestone(ctx, &g.Milestones[i]); err != nil {
			return err
		}
	}
	return nil
}

// AddMilestone appends m after the goal's existing milestones.
func (r *SQLiteGoalRepo) AddMilestone(ctx context.Context, m *domain.Milestone) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO milestones (id, goal_id, title, unit_name, total_units, order_index)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(order_index), -1) + 1 FROM milestones WHERE goal_id = ?))`,
		m.ID, m.GoalID, m.Title, m.UnitName, m.TotalUnits, m.GoalID,
	)
	if err != nil {
		return fmt.Errorf("inserting milestone: %w", err)
	}
	return nil
}

func (r *SQLiteGoalRepo) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	g, err := scanGoal(r.db.QueryRowContext(ctx,
		`SELECT id, title, unit_name, color, created_at, updated_at FROM goals WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("goal %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if g.Milestones, err = r.milestones(ctx, g.ID); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *SQLiteGoalRepo) List(ctx context.Context) ([]*domain.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, unit_name, color, created_at, updated_at FROM goals ORDER BY created_at, title`)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	var goals []*domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating goals: %w", err)
	}
	rows.Close()

	for _, g := range goals {
		if g.Milestones, err = r.milestones(ctx, g.ID); err != nil {
			return nil, err
		}
	}
	return goals, nil
}

func (r *SQLiteGoalRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteGoalRepo) milestones(ctx context.Context, goalID string) ([]domain.Milestone, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, goal_id, title, unit_name, total_units FROM milestones
		WHERE goal_id = ? ORDER BY order_index`, goalID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()

	var out []domain.Milestone
	for rows.Next() {
		var m domain.Milestone
		if err := rows.Scan(&m.ID, &m.GoalID, &m.Title, &m.UnitName, &m.TotalUnits); err != nil {
			return nil, fmt.Errorf("scanning milestone: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestones: %w", err)
	}
	return out, nil
}

func scanGoal(row scanner) (*domain.Goal, error) {
	var g domain.Goal
	var createdAt, updatedAt string
	if err := row.Scan(&g.ID, &g.Title, &g.UnitName, &g.Color, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning goal: %w", err)
	}
	var err error
	if g.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}
