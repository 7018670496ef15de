package service

import (
	"context"
	"errors"
	"io"

	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/alexanderramin/lifesync/internal/gesture"
	"github.com/alexanderramin/lifesync/internal/layout"
)

var (
	ErrEmptyTemplate = errors.New("no plan blocks to save")
	ErrNotScheduled  = errors.New("block is not on a timeline")
	ErrAmbiguousID   = errors.New("id prefix matches more than one block")
)

// Placement is a block with the lane it renders in.
type Placement struct {
	Block domain.TimeBlock
	Slot  layout.Slot
}

type DayService interface {
	Blocks(ctx context.Context, date string) ([]domain.TimeBlock, error)
	Backlog(ctx context.Context) ([]domain.TimeBlock, error)
	Get(ctx context.Context, id string) (*domain.TimeBlock, error)
	// Resolve looks a block up by id or by a unique id prefix.
	Resolve(ctx context.Context, ref string) (*domain.TimeBlock, error)
	Layout(ctx context.Context, date string, column domain.Column) ([]Placement, error)
	Add(ctx context.Context, draft domain.TimeBlock) (*domain.TimeBlock, error)
	Update(ctx context.Context, b domain.TimeBlock) (domain.MutationBatch, error)
	SetStatus(ctx context.Context, id string, status domain.BlockStatus) (domain.MutationBatch, error)
	Delete(ctx context.Context, id string) (domain.MutationBatch, error)
	// Shift moves or resizes a scheduled block by deltaMinutes, snapped to
	// the 15-minute grid the way a pointer drag would be.
	Shift(ctx context.Context, id string, kind gesture.Kind, deltaMinutes int) (*domain.TimeBlock, error)
	Schedule(ctx context.Context, id, date string, minute int, column domain.Column) (*domain.TimeBlock, error)
	DropGoal(ctx context.Context, goalID, milestoneID, date string, minute int, column domain.Column) (*domain.TimeBlock, error)
	RecordDeviceActivity(ctx context.Context, b domain.TimeBlock) (*domain.TimeBlock, error)
	Apply(ctx context.Context, batch domain.MutationBatch) error
}

type TemplateService interface {
	Save(ctx context.Context, name, date string) (*domain.DayTemplate, error)
	List(ctx context.Context) ([]*domain.DayTemplate, error)
	// Get resolves a template by id, then by name.
	Get(ctx context.Context, nameOrID string) (*domain.DayTemplate, error)
	Load(ctx context.Context, nameOrID, date string, replace bool) (domain.MutationBatch, error)
	Delete(ctx context.Context, nameOrID string) error
	ImportYAML(ctx context.Context, r io.Reader) (*domain.DayTemplate, error)
	ExportYAML(ctx context.Context, nameOrID string, w io.Writer) error
}

type GoalService interface {
	Create(ctx context.Context, g *domain.Goal) error
	AddMilestone(ctx context.Context, m *domain.Milestone) error
	List(ctx context.Context) ([]*domain.Goal, error)
	Get(ctx context.Context, id string) (*domain.Goal, error)
	Delete(ctx context.Context, id string) error
}

type ExportService interface {
	JSON(ctx context.Context, w io.Writer) error
	CSV(ctx context.Context, w io.Writer) error
	GoalsCSV(ctx context.Context, w io.Writer) error
	ICS(ctx context.Context, date string, w io.Writer) error
	PDF(ctx context.Context, date string, w io.Writer) error
}
