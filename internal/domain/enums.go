package domain

// Column identifies which timeline a block lives on.
type Column string

const (
	ColumnPlan      Column = "plan"
	ColumnActual    Column = "actual"
	ColumnDeviceLog Column = "device_log"
)

// ValidColumns is the canonical set of accepted column strings.
var ValidColumns = map[Column]bool{
	ColumnPlan: true, ColumnActual: true, ColumnDeviceLog: true,
}

// ActualLike reports whether the column is rendered on the Actual timeline.
// DeviceLog entries share the Actual timeline with user-logged activity.
func (c Column) ActualLike() bool {
	return c == ColumnActual || c == ColumnDeviceLog
}

type BlockStatus string

const (
	StatusTodo      BlockStatus = "todo"
	StatusCompleted BlockStatus = "completed"
	StatusFailed    BlockStatus = "failed"
)

// ValidStatuses is the canonical set of accepted status strings.
var ValidStatuses = map[BlockStatus]bool{
	StatusTodo: true, StatusCompleted: true, StatusFailed: true,
}

type Origin string

const (
	OriginUser Origin = "user"
	OriginGoal Origin = "goal"
)

type DeviceSource string

const (
	DeviceNone    DeviceSource = ""
	DeviceMobile  DeviceSource = "mobile"
	DeviceDesktop DeviceSource = "desktop"
	DeviceTablet  DeviceSource = "tablet"
)

type TimeValue string

const (
	TimeValueInvestment  TimeValue = "investment"
	TimeValueConsumption TimeValue = "consumption"
	TimeValueMaintenance TimeValue = "maintenance"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParseColumn accepts the canonical names plus a few short aliases used on
// the command line.
func ParseColumn(s string) (Column, bool) {
	switch s {
	case "plan", "p":
		return ColumnPlan, true
	case "actual", "a":
		return ColumnActual, true
	case "device_log", "device", "d":
		return ColumnDeviceLog, true
	}
	return "", false
}

// ParseStatus accepts the canonical status names plus common synonyms.
func ParseStatus(s string) (BlockStatus, bool) {
	switch s {
	case "todo":
		return StatusTodo, true
	case "completed", "done":
		return StatusCompleted, true
	case "failed", "fail":
		return StatusFailed, true
	}
	return "", false
}
