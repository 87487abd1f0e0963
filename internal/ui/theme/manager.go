package theme

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/bnema/sitetheme/internal/application/port"
	"github.com/bnema/sitetheme/internal/domain/entity"
	"github.com/bnema/sitetheme/internal/infrastructure/clock"
	"github.com/bnema/sitetheme/internal/infrastructure/debounce"
	"github.com/bnema/sitetheme/internal/infrastructure/prefstore"
	"github.com/bnema/sitetheme/internal/logging"
)

// Brightness offsets of the --primary-dark / --primary-light variants, in percent.
const (
	PrimaryDarkPercent  = -20
	PrimaryLightPercent = 20
)

// DefaultAutoCheckInterval is how often Auto mode re-checks the clock.
const DefaultAutoCheckInterval = time.Minute

// Options configures a Manager. Every field is optional.
type Options struct {
	// Store persists preferences. When it also implements
	// port.ExternalChangeNotifier, changes from other processes are followed.
	// Nil keeps preferences in memory only.
	Store port.KeyValueStore

	// OnStoreError receives persistence failures for diagnostics.
	OnStoreError prefstore.ErrorHandler

	// Document receives attributes, classes and properties. Nil discards them.
	Document port.Document

	// DarkSignal is the OS dark colour scheme preference. Nil means light.
	DarkSignal port.SystemSignal

	// MotionSignal is the OS reduced-motion preference. Nil means no preference.
	MotionSignal port.SystemSignal

	Clock     port.Clock
	Scheduler port.Scheduler

	// DayStartHour and DayEndHour bound daytime for Auto mode. An invalid
	// window falls back to 6 to 18.
	DayStartHour int
	DayEndHour   int

	// AutoCheckInterval defaults to one minute.
	AutoCheckInterval time.Duration

	// RecheckDelay collapses bursts of clock ticks and OS notifications into a
	// single effective-mode recomputation. Zero recomputes immediately.
	RecheckDelay time.Duration
}

// Listener receives change events.
type Listener func(entity.ChangeEvent)

type listenerEntry struct {
	field entity.Field // empty for every field
	fn    Listener
}

// Manager owns the preference state, applies it to the document, persists it
// and notifies listeners. Create one per process and share it.
type Manager struct {
	ctx          context.Context
	store        *prefstore.Store
	changes      port.ExternalChangeNotifier
	doc          port.Document
	darkSignal   port.SystemSignal
	motionSignal port.SystemSignal
	clock        port.Clock
	scheduler    port.Scheduler
	dayStart     int
	dayEnd       int
	autoInterval time.Duration
	recheck      *debounce.Debouncer

	mu             sync.Mutex
	prefs          entity.PreferenceSet
	effective      entity.Mode
	motionExplicit bool
	cancelAuto     func()
	cancelSystem   func()
	cancelMotion   func()
	cancelStorage  func()
	listeners      []*listenerEntry
	queue          []entity.ChangeEvent
	draining       bool
	closed         bool
}

// NewManager hydrates preferences from the store, applies them to the document
// and starts whatever subscriptions the hydrated mode needs. It never fails:
// missing collaborators degrade to in-memory defaults. No events fire during
// construction.
func NewManager(ctx context.Context, opts Options) *Manager {
	ctx = logging.WithComponent(ctx, "theme")
	log := logging.FromContext(ctx)

	m := &Manager{
		ctx:          ctx,
		store:        prefstore.New(ctx, opts.Store),
		doc:          opts.Document,
		darkSignal:   opts.DarkSignal,
		motionSignal: opts.MotionSignal,
		clock:        opts.Clock,
		scheduler:    opts.Scheduler,
		dayStart:     opts.DayStartHour,
		dayEnd:       opts.DayEndHour,
		autoInterval: opts.AutoCheckInterval,
	}
	if opts.OnStoreError != nil {
		m.store.OnError(opts.OnStoreError)
	}
	if m.doc == nil {
		log.Debug().Msg("no document attached, rendering is discarded")
		m.doc = discardDocument{}
	}
	if m.darkSignal == nil {
		m.darkSignal = staticSignal{}
	}
	if m.motionSignal == nil {
		m.motionSignal = staticSignal{}
	}
	if m.clock == nil {
		m.clock = clock.System{}
	}
	if m.scheduler == nil {
		m.scheduler = clock.Ticker{}
	}
	if !ValidDayWindow(m.dayStart, m.dayEnd) {
		if m.dayStart != 0 || m.dayEnd != 0 {
			log.Debug().Int("start", m.dayStart).Int("end", m.dayEnd).Msg("invalid day window, using defaults")
		}
		m.dayStart, m.dayEnd = DefaultDayStartHour, DefaultDayEndHour
	}
	if m.autoInterval <= 0 {
		m.autoInterval = DefaultAutoCheckInterval
	}
	m.recheck = debounce.New(opts.RecheckDelay, m.recheckEffective)

	m.mu.Lock()
	m.prefs, m.motionExplicit = m.hydrate()
	m.effective = m.effectiveFor(m.prefs.Mode)
	m.applyAll()
	m.updateSubscriptions()
	m.mu.Unlock()

	if notifier, ok := opts.Store.(port.ExternalChangeNotifier); ok {
		m.changes = notifier
		m.cancelStorage = notifier.OnExternalChange(m.onExternalChange)
	}

	log.Debug().
		Str("mode", string(m.prefs.Mode)).
		Str("effective", string(m.effective)).
		Str("accent", m.prefs.ColorAccent).
		Int("contrast", int(m.prefs.ContrastLevel)).
		Int("font_scale", m.prefs.FontScalePercent).
		Bool("reduced_motion", m.prefs.ReducedMotion).
		Bool("persistent", m.store.Enabled()).
		Msg("theme manager initialized")

	return m
}

// Preferences returns the current preference set.
func (m *Manager) Preferences() entity.PreferenceSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs
}

// State returns the preferences together with the effective mode.
func (m *Manager) State() entity.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

// EffectiveMode returns ModeLight or ModeDark.
func (m *Manager) EffectiveMode() entity.Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.effective
}

// ReducedMotionExplicit reports whether reduced motion is pinned by the user
// rather than tracking the OS.
func (m *Manager) ReducedMotionExplicit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.motionExplicit
}

// Persistent reports whether a store is attached.
func (m *Manager) Persistent() bool {
	return m.store.Enabled()
}

// SetMode changes the colour mode.
func (m *Manager) SetMode(mode entity.Mode) {
	m.Apply(entity.Update{Mode: &mode})
}

// SetColorTheme changes the accent. Unknown keys fall back to the default accent.
func (m *Manager) SetColorTheme(accent string) {
	m.Apply(entity.Update{ColorAccent: &accent})
}

// SetContrastLevel changes the contrast level, clamped to [0,3].
func (m *Manager) SetContrastLevel(level int) {
	m.Apply(entity.Update{ContrastLevel: &level})
}

// SetFontSize changes the font scale percentage, clamped to [80,150].
func (m *Manager) SetFontSize(percent int) {
	m.Apply(entity.Update{FontScalePercent: &percent})
}

// SetReducedMotion pins reduced motion to enabled. The OS preference is no
// longer followed afterwards.
func (m *Manager) SetReducedMotion(enabled bool) {
	m.Apply(entity.Update{ReducedMotion: &enabled})
}

// Apply validates and applies every field present in u, persists the fields
// that changed and then emits one event per changed field.
func (m *Manager) Apply(u entity.Update) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}

	next := m.prefs
	if u.Mode != nil {
		next.Mode = *u.Mode
	}
	if u.ColorAccent != nil {
		next.ColorAccent = *u.ColorAccent
	}
	if u.ContrastLevel != nil {
		next.ContrastLevel = entity.ClampContrast(*u.ContrastLevel)
	}
	if u.FontScalePercent != nil {
		next.FontScalePercent = *u.FontScalePercent
	}
	explicit := m.motionExplicit
	if u.ReducedMotion != nil {
		next.ReducedMotion = *u.ReducedMotion
		explicit = true
	}

	events := m.commit(next, explicit, true)
	m.mu.Unlock()

	m.emit(events)
}

// Reset restores defaults through the regular apply path, releases the
// reduced-motion pin and clears every persisted key.
func (m *Manager) Reset() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}

	defaults := entity.Defaults(m.motionSignal.Resolve().Value)
	events := m.commit(defaults, false, false)
	m.store.Clear(entity.StorageKeys()...)
	m.mu.Unlock()

	logging.FromContext(m.ctx).Info().Int("changed", len(events)).Msg("preferences reset to defaults")
	m.emit(events)
}

// CheckAutoMode recomputes the effective mode and, when the day/night boundary
// was crossed, re-applies it and emits one effectiveMode event.
func (m *Manager) CheckAutoMode() {
	m.recheckEffective()
}

// Subscribe registers a listener for every change event.
func (m *Manager) Subscribe(fn Listener) func() {
	return m.subscribe("", fn)
}

// SubscribeField registers a listener for one field only.
func (m *Manager) SubscribeField(field entity.Field, fn Listener) func() {
	return m.subscribe(field, fn)
}

func (m *Manager) subscribe(field entity.Field, fn Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := &listenerEntry{field: field, fn: fn}
	m.listeners = append(m.listeners, entry)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.listeners {
			if l == entry {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// Close cancels every subscription and timer. The store is not closed.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	for _, cancel := range []func(){m.cancelAuto, m.cancelSystem, m.cancelMotion, m.cancelStorage} {
		if cancel != nil {
			cancel()
		}
	}
	m.cancelAuto, m.cancelSystem, m.cancelMotion, m.cancelStorage = nil, nil, nil, nil
	m.listeners = nil
	m.queue = nil
	m.mu.Unlock()

	m.recheck.Stop()
	logging.FromContext(m.ctx).Debug().Msg("theme manager closed")
}

// hydrate reads the persisted record. Caller must hold m.mu.
func (m *Manager) hydrate() (entity.PreferenceSet, bool) {
	return entity.DecodeRecord(m.store.Get, m.motionSignal.Resolve().Value)
}

func (m *Manager) stateLocked() entity.State {
	return entity.State{PreferenceSet: m.prefs, Effective: m.effective}
}

func (m *Manager) effectiveFor(mode entity.Mode) entity.Mode {
	switch mode {
	case entity.ModeAuto:
		return mode.Effective(IsDayTime(m.clock.Now(), m.dayStart, m.dayEnd), false)
	case entity.ModeSystem:
		return mode.Effective(false, m.darkSignal.Resolve().Value)
	default:
		return mode.Effective(false, false)
	}
}

// commit moves the state to next, touching the document only for fields that
// changed, persisting them when persist is set, and returns the events to emit.
// Caller must hold m.mu.
func (m *Manager) commit(next entity.PreferenceSet, motionExplicit, persist bool) []entity.ChangeEvent {
	log := logging.FromContext(m.ctx)

	next, fixed := next.Normalize()
	for _, f := range fixed {
		log.Debug().Str("field", string(f)).Str("value", next.Value(f)).Msg("invalid preference value corrected")
	}

	old := m.stateLocked()
	effective := m.effectiveFor(next.Mode)

	var changed []entity.Field
	for _, f := range entity.PersistedFields() {
		if old.Value(f) != next.Value(f) {
			changed = append(changed, f)
		}
	}

	pinned := motionExplicit && !m.motionExplicit
	if len(changed) == 0 && effective == old.Effective && motionExplicit == m.motionExplicit {
		return nil
	}

	m.prefs = next
	m.effective = effective
	m.motionExplicit = motionExplicit

	if effective != old.Effective {
		m.applyEffective()
	}
	for _, f := range changed {
		m.applyField(f)
	}

	if persist {
		for _, f := range changed {
			if f == entity.FieldReducedMotion && !motionExplicit {
				continue
			}
			m.store.Set(f.StorageKey(), next.Value(f))
		}
		if pinned && !containsField(changed, entity.FieldReducedMotion) {
			m.store.Set(entity.KeyReducedMotion, next.Value(entity.FieldReducedMotion))
		}
	}

	m.updateSubscriptions()

	newState := m.stateLocked()
	events := make([]entity.ChangeEvent, 0, len(changed)+1)
	for _, f := range changed {
		events = append(events, entity.ChangeEvent{Field: f, Old: old, New: newState})
	}
	if effective != old.Effective && !containsField(changed, entity.FieldMode) {
		events = append(events, entity.ChangeEvent{Field: entity.FieldEffectiveMode, Old: old, New: newState})
	}
	return events
}

func containsField(fields []entity.Field, f entity.Field) bool {
	for _, x := range fields {
		if x == f {
			return true
		}
	}
	return false
}

// applyAll writes the complete state to the document. Caller must hold m.mu.
func (m *Manager) applyAll() {
	m.applyEffective()
	for _, f := range entity.PersistedFields() {
		m.applyField(f)
	}
}

func (m *Manager) applyEffective() {
	eff := string(m.effective)
	m.doc.SetAttribute(AttrTheme, eff)
	m.doc.SetClass(ClassLightMode, m.effective == entity.ModeLight)
	m.doc.SetClass(ClassDarkMode, m.effective == entity.ModeDark)
	m.doc.SetProperty(PropColorScheme, eff)
}

func (m *Manager) applyField(f entity.Field) {
	switch f {
	case entity.FieldMode:
		m.doc.SetAttribute(AttrThemeMode, string(m.prefs.Mode))
	case entity.FieldColorTheme:
		m.applyAccent()
	case entity.FieldContrastLevel:
		m.doc.SetAttribute(AttrContrast, m.prefs.ContrastLevel.Name())
		m.doc.SetProperty(PropContrastLevel, m.prefs.ContrastLevel.String())
	case entity.FieldFontSize:
		percent := m.prefs.FontScalePercent
		m.doc.SetAttribute(AttrFontSize, strconv.Itoa(percent))
		m.doc.SetProperty(PropFontScale, strconv.FormatFloat(float64(percent)/100, 'f', -1, 64))
		m.doc.SetProperty(PropFontSizePercent, fmt.Sprintf("%d%%", percent))
	case entity.FieldReducedMotion:
		scale := "1"
		if m.prefs.ReducedMotion {
			scale = "0"
		}
		m.doc.SetAttribute(AttrReducedMotion, strconv.FormatBool(m.prefs.ReducedMotion))
		m.doc.SetProperty(PropMotionDurationScale, scale)
	}
}

func (m *Manager) applyAccent() {
	accent, ok := entity.LookupAccent(m.prefs.ColorAccent)
	if !ok {
		accent, _ = entity.LookupAccent(entity.DefaultAccent)
	}
	primary, ok := HexToRGB(accent.Hex)
	if !ok {
		logging.FromContext(m.ctx).Warn().Str("accent", accent.Key).Str("hex", accent.Hex).Msg("accent colour is not valid hex")
		return
	}

	m.doc.SetAttribute(AttrColorTheme, accent.Key)
	m.doc.SetProperty(PropPrimaryColor, RGBToHex(primary))
	m.doc.SetProperty(PropPrimaryRGB, primary.String())
	m.doc.SetProperty(PropPrimaryDark, RGBToHex(AdjustBrightness(primary, PrimaryDarkPercent)))
	m.doc.SetProperty(PropPrimaryLight, RGBToHex(AdjustBrightness(primary, PrimaryLightPercent)))
}
