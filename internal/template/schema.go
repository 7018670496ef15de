// Package template reads and writes day templates as YAML files so they can
// be shared between machines and kept under version control.
package template

// TemplateSchema is the top-level YAML structure:
//
//	name: workday
//	blocks:
//	  - title: Standup
//	    start: "09:00"
//	    duration: 15
type TemplateSchema struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Blocks      []BlockConfig `yaml:"blocks"`
}

type BlockConfig struct {
	Title string `yaml:"title"`
	// Start is a wall-clock "HH:MM".
	Start       string `yaml:"start"`
	Duration    int    `yaml:"duration"`
	Description string `yaml:"description,omitempty"`
	Color       string `yaml:"color,omitempty"`
	GoalID      string `yaml:"goal_id,omitempty"`
	MilestoneID string `yaml:"milestone_id,omitempty"`
	TimeValue   string `yaml:"time_value,omitempty"`
	Priority    string `yaml:"priority,omitempty"`
}
