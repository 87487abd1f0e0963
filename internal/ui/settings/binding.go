// Package settings binds a settings panel to the theme manager without
// feedback loops: values the panel submitted are not reflected back into it.
package settings

import (
	"context"
	"sync"

	"github.com/bnema/sitetheme/internal/domain/entity"
	"github.com/bnema/sitetheme/internal/logging"
	"github.com/bnema/sitetheme/internal/ui/theme"
)

// Controller is the part of theme.Manager the panel drives.
type Controller interface {
	State() entity.State
	Apply(u entity.Update)
	Reset()
	Subscribe(fn theme.Listener) func()
}

// View shows a value the panel did not originate (other tabs, Auto/System
// transitions, resets).
type View interface {
	Reflect(field entity.Field, value string)
}

// ViewFunc adapts a function to View.
type ViewFunc func(field entity.Field, value string)

// Reflect implements View.
func (f ViewFunc) Reflect(field entity.Field, value string) {
	f(field, value)
}

// Binding keeps the last value per field the panel knows about.
type Binding struct {
	ctx  context.Context
	ctrl Controller
	view View

	mu          sync.Mutex
	mirror      map[entity.Field]string
	unsubscribe func()
}

// NewBinding seeds the mirror from the controller's current state and starts
// listening for change events. view may be nil.
func NewBinding(ctx context.Context, ctrl Controller, view View) *Binding {
	if view == nil {
		view = ViewFunc(func(entity.Field, string) {})
	}
	b := &Binding{
		ctx:    logging.WithComponent(ctx, "settings"),
		ctrl:   ctrl,
		view:   view,
		mirror: make(map[entity.Field]string),
	}

	state := ctrl.State()
	for _, f := range entity.PersistedFields() {
		b.mirror[f] = state.Value(f)
	}
	b.mirror[entity.FieldEffectiveMode] = state.Value(entity.FieldEffectiveMode)

	b.unsubscribe = ctrl.Subscribe(b.HandleChange)
	return b
}

// Mirror returns the panel's last known value of field.
func (b *Binding) Mirror(field entity.Field) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mirror[field]
}

// Submit forwards a user edit. It returns false when value matches the
// mirror (duplicate submission) or field is unknown. The mirror is updated
// before the controller runs so the resulting event is recognised as ours.
func (b *Binding) Submit(field entity.Field, value string) bool {
	update, ok := entity.ParseUpdate(string(field), value)
	if !ok {
		logging.FromContext(b.ctx).Debug().Str("field", string(field)).Msg("ignoring submission for unknown field")
		return false
	}

	b.mu.Lock()
	if b.mirror[field] == value {
		b.mu.Unlock()
		return false
	}
	b.mirror[field] = value
	b.mu.Unlock()

	b.ctrl.Apply(update)

	// Input the manager rejected in favour of the unchanged value produces no
	// event; pull the accepted value back so the control does not keep showing
	// the rejected one.
	actual := b.ctrl.State().Value(field)
	b.mu.Lock()
	stale := b.mirror[field] != actual
	if stale {
		b.mirror[field] = actual
	}
	b.mu.Unlock()
	if stale {
		b.view.Reflect(field, actual)
	}
	return true
}

// HandleChange receives manager events. Only values that differ from the
// mirror reach the view. A mode change also carries the new effective mode,
// which the manager does not announce separately.
func (b *Binding) HandleChange(event entity.ChangeEvent) {
	type reflection struct {
		field entity.Field
		value string
	}
	candidates := []reflection{{event.Field, event.NewValue()}}
	if event.Field != entity.FieldEffectiveMode {
		candidates = append(candidates, reflection{entity.FieldEffectiveMode, string(event.New.Effective)})
	}

	var pending []reflection
	b.mu.Lock()
	for _, c := range candidates {
		if b.mirror[c.field] == c.value {
			continue
		}
		b.mirror[c.field] = c.value
		pending = append(pending, c)
	}
	b.mu.Unlock()

	for _, r := range pending {
		b.view.Reflect(r.field, r.value)
	}
}

// Reset restores defaults through the manager; resulting events update the view.
func (b *Binding) Reset() {
	b.ctrl.Reset()
}

// Close stops listening to the manager.
func (b *Binding) Close() {
	b.mu.Lock()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
