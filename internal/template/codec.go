package template

import (
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/lifesync/internal/domain"
	"gopkg.in/yaml.v3"
)

// Decode reads and validates a YAML template.
func Decode(r io.Reader) (*TemplateSchema, error) {
	var schema TemplateSchema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	if errs := ValidateSchema(&schema); len(errs) > 0 {
		return nil, fmt.Errorf("invalid template %q: %w", schema.Name, errors.Join(errs...))
	}
	return &schema, nil
}

// Encode writes schema as YAML.
func Encode(w io.Writer, schema *TemplateSchema) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(schema); err != nil {
		return fmt.Errorf("encoding template: %w", err)
	}
	return enc.Close()
}

// FromDomain converts a stored template into its file form.
func FromDomain(t *domain.DayTemplate) *TemplateSchema {
	schema := &TemplateSchema{Name: t.Name}
	for _, b := range t.Blocks {
		schema.Blocks = append(schema.Blocks, BlockConfig{
			Title:       b.Title,
			Start:       domain.FormatClock(b.StartTime),
			Duration:    b.Duration,
			Description: b.Description,
			Color:       b.Color,
			GoalID:      b.GoalID,
			MilestoneID: b.MilestoneID,
			TimeValue:   string(b.TimeValue),
			Priority:    string(b.Priority),
		})
	}
	return schema
}

// ToDomain converts a validated schema into template blocks. The caller
// assigns id and creation time.
func (s *TemplateSchema) ToDomain() (*domain.DayTemplate, error) {
	t := &domain.DayTemplate{Name: s.Name}
	for i, b := range s.Blocks {
		start, err := domain.ParseClock(b.Start)
		if err != nil {
			return nil, fmt.Errorf("block[%d]: %w", i, err)
		}
		t.Blocks = append(t.Blocks, domain.TemplateBlock{
			Title:       b.Title,
			StartTime:   start,
			Duration:    b.Duration,
			Column:      domain.ColumnPlan,
			Description: b.Description,
			Color:       b.Color,
			Origin:      domain.OriginUser,
			GoalID:      b.GoalID,
			MilestoneID: b.MilestoneID,
			TimeValue:   domain.TimeValue(b.TimeValue),
			Priority:    domain.Priority(b.Priority),
		})
	}
	return t, nil
}
