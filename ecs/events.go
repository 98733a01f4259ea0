package ecs

// EventType names a world event.
type EventType string

const (
	EventHealthChanged    EventType = "health_changed"
	EventCollected        EventType = "collected"
	EventSceneRequest     EventType = "scene_request"
	EventKnockbackStarted EventType = "knockback_started"
)

// Event is a generic ECS event payload.
type Event struct {
	Type EventType
	Data any
}

// HealthChanged is the payload of EventHealthChanged.
type HealthChanged struct {
	Entity  Entity
	Current int
	Max     int
}

// Collected is the payload of EventCollected.
type Collected struct {
	Collector Entity
	Name      string
	Value     float64
}

// SceneRequested is the payload of EventSceneRequest.
type SceneRequested struct {
	Name   string
	Reload bool
}

// KnockbackStarted is the payload of EventKnockbackStarted.
type KnockbackStarted struct {
	Entity Entity
}

// Listener receives published events.
type Listener func(Event)

type listener struct {
	id int
	fn Listener
}

// Subscribe registers fn for events of type t. The returned func removes the
// registration and is safe to call more than once.
func (w *World) Subscribe(t EventType, fn Listener) func() {
	if w == nil || fn == nil {
		return func() {}
	}
	w.nextListener++
	id := w.nextListener
	w.listeners[t] = append(w.listeners[t], listener{id: id, fn: fn})
	return func() {
		ls := w.listeners[t]
		for i, l := range ls {
			if l.id == id {
				w.listeners[t] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers evt synchronously, in subscription order.
func (w *World) Publish(evt Event) {
	if w == nil {
		return
	}
	ls := w.listeners[evt.Type]
	if len(ls) == 0 {
		return
	}
	snapshot := append([]listener(nil), ls...)
	for _, l := range snapshot {
		l.fn(evt)
	}
}
