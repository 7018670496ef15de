package domain

import (
	"fmt"
	"time"
)

// Goal is a long-running objective that can be dragged onto a timeline.
// Progress aggregation lives outside this module.
type Goal struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	UnitName   string      `json:"unitName,omitempty"`
	Color      string      `json:"color,omitempty"`
	Milestones []Milestone `json:"milestones,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

type Milestone struct {
	ID         string `json:"id"`
	GoalID     string `json:"goalId"`
	Title      string `json:"title"`
	UnitName   string `json:"unitName,omitempty"`
	TotalUnits int    `json:"totalUnits,omitempty"`
}

// Milestone returns the goal's milestone with the given id.
func (g *Goal) Milestone(id string) (*Milestone, bool) {
	for i := range g.Milestones {
		if g.Milestones[i].ID == id {
			return &g.Milestones[i], true
		}
	}
	return nil, false
}

// DropTitle is the block title produced when the goal (or one of its
// milestones) is dropped on a timeline.
func (g *Goal) DropTitle(m *Milestone) string {
	if m == nil {
		return g.Title
	}
	return fmt.Sprintf("%s: %s", g.Title, m.Title)
}

// DropDescription mirrors the target the dropped block is meant to cover.
func (g *Goal) DropDescription(m *Milestone) string {
	if m == nil {
		return fmt.Sprintf("Target: 1 %s", g.UnitName)
	}
	if m.TotalUnits > 0 {
		return fmt.Sprintf("Target: %d %s", m.TotalUnits, m.UnitName)
	}
	return fmt.Sprintf("Sub-goal: %s", m.Title)
}

// DropDuration infers the block length from the milestone or goal text,
// falling back to DefaultDropMinutes.
func (g *Goal) DropDuration(m *Milestone) int {
	var candidates []string
	if m != nil {
		candidates = []string{m.Title, m.UnitName}
	} else {
		candidates = []string{g.Title, g.UnitName}
	}
	for _, c := range candidates {
		if d, ok := ParseDurationFromUnit(c); ok && d > 0 {
			return d
		}
	}
	return DefaultDropMinutes
}
