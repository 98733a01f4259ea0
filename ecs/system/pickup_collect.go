package system

import (
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/logger"
)

const jumpBuffTask = "jump_buff_revert"

// collectEffect is what a pickup does to whoever collects it.
type collectEffect interface {
	OnCollect(w *ecs.World, collector ecs.Entity)
	Value() float64
	Name() string
}

type healEffect struct {
	amount int
	name   string
}

func (h healEffect) OnCollect(w *ecs.World, collector ecs.Entity) {
	Heal(w, collector, h.amount)
}

func (h healEffect) Value() float64 { return float64(h.amount) }
func (h healEffect) Name() string   { return h.name }

type jumpBuffEffect struct {
	power    float64
	duration float64
	name     string
}

// OnCollect raises the jump height and (re)arms the revert. A second buff
// while one is running replaces the pending revert.
func (j jumpBuffEffect) OnCollect(w *ecs.World, collector ecs.Entity) {
	pc, ok := ecs.Get(w, collector, component.PlayerControllerComponent.Kind())
	if !ok {
		return
	}
	pc.JumpHeight = j.power
	if err := Schedule(w, collector, jumpBuffTask, j.duration, component.TaskRevertJumpHeight); err != nil {
		logger.For("pickup").Warn("schedule jump revert", "entity", collector, "err", err)
	}
	logger.For("pickup").Debug("jump height raised", "entity", collector, "height", j.power, "duration", j.duration)
}

func (j jumpBuffEffect) Value() float64 { return j.power }
func (j jumpBuffEffect) Name() string   { return j.name }

func effectFor(c *component.Collectible) collectEffect {
	switch c.Kind {
	case component.CollectibleHeal:
		name := c.DisplayName
		if name == "" {
			name = "Heal Heart"
		}
		amount := int(c.Amount)
		if amount <= 0 {
			amount = 1
		}
		return healEffect{amount: amount, name: name}
	case component.CollectibleJumpBuff:
		name := c.DisplayName
		if name == "" {
			name = "Jump Up Jewel"
		}
		power := c.Amount
		if power <= 0 {
			power = 2
		}
		duration := c.Duration
		if duration <= 0 {
			duration = 5
		}
		return jumpBuffEffect{power: power, duration: duration, name: name}
	}
	return nil
}

// PickupCollectSystem lets the player collect overlapping pickups. Pickups
// are single use.
type PickupCollectSystem struct {
	query ShapeQuerier
}

func NewPickupCollectSystem(query ShapeQuerier) *PickupCollectSystem {
	return &PickupCollectSystem{query: query}
}

func (s *PickupCollectSystem) Update(w *ecs.World) {
	if s == nil || s.query == nil || w == nil {
		return
	}

	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}

	for _, e := range s.query.Overlapping(w, player, component.LayerPickup) {
		c, ok := ecs.Get(w, e, component.CollectibleComponent.Kind())
		if !ok {
			continue
		}
		effect := effectFor(c)
		if effect == nil {
			logger.For("pickup").Warn("unknown collectible", "entity", e, "kind", c.Kind)
			continue
		}

		effect.OnCollect(w, player)
		w.Publish(ecs.Event{
			Type: ecs.EventCollected,
			Data: ecs.Collected{Collector: player, Name: effect.Name(), Value: effect.Value()},
		})
		ecs.DestroyEntity(w, e)
	}
}
