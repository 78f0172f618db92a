package runtime

import "github.com/alvion/transitions/pkg/domain"

// Event holds the transitions registered for one trigger name, grouped by
// source qualified name. Lists preserve registration order: when several
// candidates could fire, the earliest registration wins.
type Event struct {
	name   string
	engine *Engine

	bySource map[string][]*domain.Transition
	all      []*domain.Transition
}

func newEvent(name string, engine *Engine) *Event {
	return &Event{
		name:     name,
		engine:   engine,
		bySource: make(map[string][]*domain.Transition),
	}
}

func (ev *Event) add(t *domain.Transition) {
	ev.bySource[t.Source] = append(ev.bySource[t.Source], t)
	ev.all = append(ev.all, t)
}

// Trigger resolves the event against the active state and executes the
// candidate transitions in registration order. The first candidate whose
// guards pass performs the transition and short-circuits with true.
func (ev *Event) Trigger(args ...any) (bool, error) {
	current := ev.engine.current
	matched, ok := ev.engine.resolver.Resolve(current, func(name string) bool {
		return len(ev.bySource[name]) > 0
	})
	if !ok {
		return ev.engine.invalidTrigger(ev.name)
	}

	data := domain.NewEventData(ev.name, current, args, ev.engine.currentFn)
	for _, t := range ev.bySource[matched.Name()] {
		data.Transition = t
		fired, err := ev.engine.execute(t, data)
		if err != nil {
			return false, err
		}
		if fired {
			return true, nil
		}
	}
	return false, nil
}
