package component

// TaskAction names what a scheduled task does when it comes due.
type TaskAction string

const (
	// TaskRevertJumpHeight restores PlayerController.JumpHeight to its
	// default.
	TaskRevertJumpHeight TaskAction = "revert_jump_height"
	// TaskDestroy destroys the owning entity.
	TaskDestroy TaskAction = "destroy"
)

// ScheduledTask runs Action on its owner after Remaining seconds.
type ScheduledTask struct {
	Name      string
	Remaining float64
	Action    TaskAction
}

// ScheduledTasks lives on the entity that owns the pending work, so
// destroying the entity drops every task with it.
type ScheduledTasks struct {
	Tasks []ScheduledTask
}

var ScheduledTasksComponent = NewComponent[ScheduledTasks]()
