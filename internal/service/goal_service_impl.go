package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/lifesync/internal/db"
	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/alexanderramin/lifesync/internal/relation"
	"github.com/alexanderramin/lifesync/internal/repository"
)

type goalService struct {
	goals repository.GoalRepo
	uow   db.UnitOfWork
	ids   relation.IDGenerator
	clock relation.Clock
}

func NewGoalService(goals repository.GoalRepo, uow db.UnitOfWork, ids relation.IDGenerator, clock relation.Clock) GoalService {
	m := relation.NewManager(ids, clock)
	return &goalService{goals: goals, uow: uow, ids: m.IDs, clock: m.Clock}
}

// Create stores g and its milestones atomically, assigning missing ids.
func (s *goalService) Create(ctx context.Context, g *domain.Goal) error {
	g.Title = strings.TrimSpace(g.Title)
	if g.Title == "" {
		return fmt.Errorf("goal title is required")
	}
	if g.ID == "" {
		g.ID = s.ids.NewID()
	}
	now := s.clock.Now()
	g.CreatedAt, g.UpdatedAt = now, now
	for i := range g.Milestones {
		if g.Milestones[i].ID == "" {
			g.Milestones[i].ID = s.ids.NewID()
		}
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteGoalRepo(tx).Create(ctx, g)
	})
}

func (s *goalService) AddMilestone(ctx context.Context, m *domain.Milestone) error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("milestone title is required")
	}
	if _, err := s.goals.GetByID(ctx, m.GoalID); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = s.ids.NewID()
	}
	return s.goals.AddMilestone(ctx, m)
}

func (s *goalService) List(ctx context.Context) ([]*domain.Goal, error) {
	return s.goals.List(ctx)
}

func (s *goalService) Get(ctx context.Context, id string) (*domain.Goal, error) {
	return s.goals.GetByID(ctx, id)
}

// Delete removes the goal and its milestones. Blocks dropped from it keep
// their goal reference.
func (s *goalService) Delete(ctx context.Context, id string) error {
	return s.goals.Delete(ctx, id)
}
