package system

import (
	"testing"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

func healthEvents(w *ecs.World) *[]ecs.HealthChanged {
	var got []ecs.HealthChanged
	w.Subscribe(ecs.EventHealthChanged, func(evt ecs.Event) {
		got = append(got, evt.Data.(ecs.HealthChanged))
	})
	return &got
}

func TestTakeDamageInvincibilityWindow(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	h := component.NewHealth(component.DefaultMaxHealth)
	mustAdd(t, w, e, component.HealthComponent.Kind(), &h)
	events := healthEvents(w)

	if !TakeDamage(w, e, 1) {
		t.Fatalf("first damage should land")
	}
	if h.Current != 2 {
		t.Fatalf("health = %d, want 2", h.Current)
	}
	if len(*events) != 1 || (*events)[0].Current != 2 || (*events)[0].Max != 3 {
		t.Fatalf("expected one (2,3) notification, got %+v", *events)
	}

	w.Advance(0.5)
	if TakeDamage(w, e, 1) {
		t.Fatalf("damage inside the window should be ignored")
	}
	if !IsInvincible(w, e) {
		t.Fatalf("expected invincible 0.5s after damage")
	}
	if h.Current != 2 || len(*events) != 1 {
		t.Fatalf("ignored damage changed state: health %d, events %d", h.Current, len(*events))
	}

	w.Advance(0.6)
	if IsInvincible(w, e) {
		t.Fatalf("window should have closed at 1.1s")
	}
	if !TakeDamage(w, e, 1) {
		t.Fatalf("damage after the window should land")
	}
	if h.Current != 1 || len(*events) != 2 {
		t.Fatalf("health %d events %d, want 1 and 2", h.Current, len(*events))
	}
}

func TestHealthClamps(t *testing.T) {
	cases := []struct {
		name    string
		start   int
		damage  int
		heal    int
		wantHP  int
		healing bool
	}{
		{"heal_caps_at_max", 2, 0, 5, 3, true},
		{"damage_floors_at_zero", 1, 7, 0, 0, false},
		{"negative_damage_never_heals", 2, -4, 0, 2, false},
		{"negative_heal_never_damages", 2, 0, -4, 2, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := ecs.CreateEntity(w)
			h := component.NewHealth(3)
			h.Current = c.start
			mustAdd(t, w, e, component.HealthComponent.Kind(), &h)

			if c.healing {
				Heal(w, e, c.heal)
			} else {
				TakeDamage(w, e, c.damage)
			}
			if h.Current != c.wantHP {
				t.Fatalf("health = %d, want %d", h.Current, c.wantHP)
			}
		})
	}
}

func TestHealthSystemAnnouncesOnce(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	h := component.NewHealth(0)
	mustAdd(t, w, e, component.HealthComponent.Kind(), &h)
	events := healthEvents(w)

	sys := NewHealthSystem()
	step(w, fixedDT, sys)
	step(w, fixedDT, sys)

	if len(*events) != 1 {
		t.Fatalf("expected a single announcement, got %d", len(*events))
	}
	if got := (*events)[0]; got.Entity != e || got.Current != component.DefaultMaxHealth || got.Max != component.DefaultMaxHealth {
		t.Fatalf("announcement = %+v", got)
	}
}

func TestHealthOpsWithoutComponent(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	if TakeDamage(w, e, 1) || Heal(w, e, 1) || IsInvincible(w, e) {
		t.Fatalf("entities without Health should be ignored")
	}
}
