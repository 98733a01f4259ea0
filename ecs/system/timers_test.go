package system

import (
	"testing"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

func TestScheduleRunsAfterDelay(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	if err := Schedule(w, e, "despawn", 0.5, component.TaskDestroy); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	sys := NewTimerSystem()
	for i := 0; i < 29; i++ {
		step(w, fixedDT, sys)
	}
	if !ecs.IsAlive(w, e) {
		t.Fatalf("task ran early")
	}
	for i := 0; i < 2; i++ {
		step(w, fixedDT, sys)
	}
	if ecs.IsAlive(w, e) {
		t.Fatalf("destroy task should have run after 0.5s")
	}
}

func TestScheduleReplacesByName(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	_ = Schedule(w, e, "revert", 1, component.TaskRevertJumpHeight)
	_ = Schedule(w, e, "revert", 4, component.TaskRevertJumpHeight)
	_ = Schedule(w, e, "other", 2, component.TaskRevertJumpHeight)

	st, _ := ecs.Get(w, e, component.ScheduledTasksComponent.Kind())
	if len(st.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(st.Tasks))
	}
	if left, ok := Pending(w, e, "revert"); !ok || left != 4 {
		t.Fatalf("pending revert = %v %v, want 4", left, ok)
	}
	if !Cancel(w, e, "other") || Cancel(w, e, "other") {
		t.Fatalf("cancel should succeed exactly once")
	}
}

func TestDestroyedOwnerDropsTasks(t *testing.T) {
	w := ecs.NewWorld()
	owner := addPlayer(t, w, 0, 0, 0)
	pc, _ := ecs.Get(w, owner, component.PlayerControllerComponent.Kind())
	pc.JumpHeight = 2
	_ = Schedule(w, owner, jumpBuffTask, 0.1, component.TaskRevertJumpHeight)

	ecs.DestroyEntity(w, owner)
	// a new entity may reuse the slot; it must not inherit the task
	reused := addPlayer(t, w, 0, 0, 0)
	pc2, _ := ecs.Get(w, reused, component.PlayerControllerComponent.Kind())
	pc2.JumpHeight = 3

	sys := NewTimerSystem()
	for i := 0; i < 30; i++ {
		step(w, fixedDT, sys)
	}
	if pc2.JumpHeight != 3 {
		t.Fatalf("revert leaked onto a recycled entity, jump height = %v", pc2.JumpHeight)
	}
	if _, ok := Pending(w, reused, jumpBuffTask); ok {
		t.Fatalf("recycled entity should have no pending tasks")
	}
}
