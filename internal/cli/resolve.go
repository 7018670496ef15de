package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/lifesync/internal/domain"
)

// resolveDate turns a --date value into YYYY-MM-DD. Empty means today;
// "tomorrow", "yesterday" and signed day offsets like "+2" are relative to
// today.
func resolveDate(app *App, input string) (string, error) {
	today := app.now()
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "today":
		return domain.DateOf(today), nil
	case "tomorrow":
		return domain.DateOf(today.AddDate(0, 0, 1)), nil
	case "yesterday":
		return domain.DateOf(today.AddDate(0, 0, -1)), nil
	}
	if input[0] == '+' || input[0] == '-' {
		n, err := strconv.Atoi(input)
		if err != nil {
			return "", fmt.Errorf("invalid day offset %q", input)
		}
		return domain.DateOf(today.AddDate(0, 0, n)), nil
	}
	if err := domain.ValidateDate(input); err != nil {
		return "", err
	}
	return input, nil
}

// parseClock reads "HH:MM" (or a bare hour) as minutes since midnight.
func parseClock(input string) (int, error) {
	input = strings.TrimSpace(input)
	h, m, found := strings.Cut(input, ":")
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", input)
	}
	minutes := 0
	if found {
		if minutes, err = strconv.Atoi(m); err != nil || len(m) != 2 {
			return 0, fmt.Errorf("invalid time %q (want HH:MM)", input)
		}
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("time %q is outside the day", input)
	}
	return hours*60 + minutes, nil
}

// parseMinutes accepts a plain (optionally signed) minute count or a Go
// duration such as "1h30m" or "-45m".
func parseMinutes(input string) (int, error) {
	input = strings.TrimSpace(input)
	if n, err := strconv.Atoi(input); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes %q (use 30, -15 or 1h30m)", input)
	}
	return int(d / time.Minute), nil
}

func parseColumnFlag(input string) (domain.Column, error) {
	c, ok := domain.ParseColumn(strings.ToLower(input))
	if !ok {
		return "", fmt.Errorf("unknown timeline %q (use plan or actual)", input)
	}
	return c, nil
}

func parseStatusArg(input string) (domain.BlockStatus, error) {
	s, ok := domain.ParseStatus(strings.ToLower(input))
	if !ok {
		return "", fmt.Errorf("unknown status %q (use todo, done or failed)", input)
	}
	return s, nil
}

// resolveGoal finds a goal by id or unique id prefix.
func resolveGoal(ctx context.Context, app *App, input string) (*domain.Goal, error) {
	if g, err := app.Goals.Get(ctx, input); err == nil {
		return g, nil
	}
	goals, err := app.Goals.List(ctx)
	if err != nil {
		return nil, err
	}
	var match *domain.Goal
	for _, g := range goals {
		if !strings.HasPrefix(g.ID, input) && !strings.EqualFold(g.Title, input) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("goal %q is ambiguous", input)
		}
		match = g
	}
	if match == nil {
		return nil, fmt.Errorf("goal %q not found", input)
	}
	return match, nil
}

// resolveMilestone finds one of g's milestones by id, id prefix or title.
func resolveMilestone(g *domain.Goal, input string) (string, error) {
	if input == "" {
		return "", nil
	}
	var match string
	for _, m := range g.Milestones {
		if m.ID != input && !strings.HasPrefix(m.ID, input) && !strings.EqualFold(m.Title, input) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("milestone %q is ambiguous", input)
		}
		match = m.ID
	}
	if match == "" {
		return "", fmt.Errorf("milestone %q not found on goal %q", input, g.Title)
	}
	return match, nil
}
