package constants

// TaskType is the kind of calendar entry
type TaskType string

// TaskPriority ranks a calendar entry
type TaskPriority string

// TaskRecurrence describes how a calendar entry repeats
type TaskRecurrence string

const (
	TaskTypeTask     TaskType = "task"
	TaskTypeMeeting  TaskType = "meeting"
	TaskTypeReminder TaskType = "reminder"
	TaskTypeEvent    TaskType = "event"

	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"

	RecurrenceNone     TaskRecurrence = "none"
	RecurrenceDaily    TaskRecurrence = "daily"
	RecurrenceWeekdays TaskRecurrence = "weekdays"
	RecurrenceWeekly   TaskRecurrence = "weekly"
	RecurrenceMonthly  TaskRecurrence = "monthly"

	// Task field limits and defaults
	MaxTaskTitleLen       = 200
	MaxTaskDescriptionLen = 1000
	MaxTaskCategoryLen    = 50
	DefaultTaskTitle      = "Untitled Task"
	DefaultTaskCategory   = "general"
	TaskIDPrefix          = "task-"
)
