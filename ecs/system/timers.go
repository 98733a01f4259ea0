package system

import (
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/logger"
)

// TimerSystem counts down ScheduledTasks and runs the ones that came due,
// oldest first. Tasks live on their owner, so a destroyed owner never
// receives a callback.
type TimerSystem struct{}

func NewTimerSystem() *TimerSystem { return &TimerSystem{} }

func (s *TimerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()

	ecs.ForEach(w, component.ScheduledTasksComponent.Kind(), func(e ecs.Entity, st *component.ScheduledTasks) {
		var due []component.ScheduledTask
		pending := st.Tasks[:0]
		for _, task := range st.Tasks {
			task.Remaining -= dt
			if task.Remaining <= 0 {
				due = append(due, task)
				continue
			}
			pending = append(pending, task)
		}
		st.Tasks = pending

		for _, task := range due {
			if !ecs.IsAlive(w, e) {
				return
			}
			runTask(w, e, task)
		}
	})
}

func runTask(w *ecs.World, e ecs.Entity, task component.ScheduledTask) {
	switch task.Action {
	case component.TaskRevertJumpHeight:
		if pc, ok := ecs.Get(w, e, component.PlayerControllerComponent.Kind()); ok {
			pc.JumpHeight = pc.DefaultJumpHeight
			logger.For("timers").Debug("jump height restored", "entity", e, "height", pc.JumpHeight)
		}
	case component.TaskDestroy:
		ecs.DestroyEntity(w, e)
	default:
		logger.For("timers").Warn("unknown task action", "entity", e, "task", task.Name, "action", task.Action)
	}
}

// Schedule queues action on owner after delay seconds. A pending task with
// the same name is replaced.
func Schedule(w *ecs.World, owner ecs.Entity, name string, delay float64, action component.TaskAction) error {
	st, ok := ecs.Get(w, owner, component.ScheduledTasksComponent.Kind())
	if !ok {
		st = &component.ScheduledTasks{}
		if err := ecs.Add(w, owner, component.ScheduledTasksComponent.Kind(), st); err != nil {
			return err
		}
	}
	Cancel(w, owner, name)
	st.Tasks = append(st.Tasks, component.ScheduledTask{Name: name, Remaining: delay, Action: action})
	return nil
}

// Cancel drops the pending task called name. It reports whether one
// existed.
func Cancel(w *ecs.World, owner ecs.Entity, name string) bool {
	st, ok := ecs.Get(w, owner, component.ScheduledTasksComponent.Kind())
	if !ok {
		return false
	}
	for i, task := range st.Tasks {
		if task.Name == name {
			st.Tasks = append(st.Tasks[:i], st.Tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns the seconds left on the task called name.
func Pending(w *ecs.World, owner ecs.Entity, name string) (float64, bool) {
	st, ok := ecs.Get(w, owner, component.ScheduledTasksComponent.Kind())
	if !ok {
		return 0, false
	}
	for _, task := range st.Tasks {
		if task.Name == name {
			return task.Remaining, true
		}
	}
	return 0, false
}
