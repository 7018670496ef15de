package repository

import (
	"context"

	"github.com/alexanderramin/lifesync/internal/domain"
)

type BlockRepo interface {
	Create(ctx context.Context, b *domain.TimeBlock) error
	GetByID(ctx context.Context, id string) (*domain.TimeBlock, error)
	// ListByDate returns the scheduled blocks of one day ordered by start.
	ListByDate(ctx context.Context, date string) ([]domain.TimeBlock, error)
	ListRange(ctx context.Context, from, to string) ([]domain.TimeBlock, error)
	ListBacklog(ctx context.Context) ([]domain.TimeBlock, error)
	ListRelated(ctx context.Context, planID string) ([]domain.TimeBlock, error)
	ListAll(ctx context.Context) ([]domain.TimeBlock, error)
	Update(ctx context.Context, b *domain.TimeBlock) error
	Delete(ctx context.Context, id string) error
}

type TemplateRepo interface {
	Create(ctx context.Context, t *domain.DayTemplate) error
	GetByID(ctx context.Context, id string) (*domain.DayTemplate, error)
	GetByName(ctx context.Context, name string) (*domain.DayTemplate, error)
	List(ctx context.Context) ([]*domain.DayTemplate, error)
	Delete(ctx context.Context, id string) error
}

type GoalRepo interface {
	Create(ctx context.Context, g *domain.Goal) error
	AddMilestone(ctx context.Context, m *domain.Milestone) error
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
	List(ctx context.Context) ([]*domain.Goal, error)
	Delete(ctx context.Context, id string) error
}
