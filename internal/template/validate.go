package template

import (
	"fmt"

	"github.com/alexanderramin/lifesync/internal/domain"
)

var validTimeValues = map[string]bool{
	"": true, string(domain.TimeValueInvestment): true,
	string(domain.TimeValueConsumption): true, string(domain.TimeValueMaintenance): true,
}

var validPriorities = map[string]bool{
	"": true, string(domain.PriorityHigh): true,
	string(domain.PriorityMedium): true, string(domain.PriorityLow): true,
}

// ValidateSchema checks a TemplateSchema for structural errors.
// Returns a slice of errors (empty if valid).
func ValidateSchema(schema *TemplateSchema) []error {
	var errs []error

	if schema.Name == "" {
		errs = append(errs, fmt.Errorf("template name is required"))
	}
	if len(schema.Blocks) == 0 {
		errs = append(errs, fmt.Errorf("at least one block is required"))
	}

	for i, b := range schema.Blocks {
		if b.Title == "" {
			errs = append(errs, fmt.Errorf("block[%d]: title is required", i))
		}
		start, err := domain.ParseClock(b.Start)
		if err != nil {
			errs = append(errs, fmt.Errorf("block[%d]: %w", i, err))
			continue
		}
		if b.Duration < domain.MinBlockMinutes {
			errs = append(errs, fmt.Errorf("block[%d]: duration must be at least %d minutes, got %d", i, domain.MinBlockMinutes, b.Duration))
		} else if start+b.Duration > domain.MinutesPerDay {
			errs = append(errs, fmt.Errorf("block[%d]: ends after midnight", i))
		}
		if !validTimeValues[b.TimeValue] {
			errs = append(errs, fmt.Errorf("block[%d]: unknown time_value %q", i, b.TimeValue))
		}
		if !validPriorities[b.Priority] {
			errs = append(errs, fmt.Errorf("block[%d]: unknown priority %q", i, b.Priority))
		}
	}

	return errs
}
