package settings

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/sitetheme/internal/cli/styles"
	"github.com/bnema/sitetheme/internal/domain/entity"
	"github.com/bnema/sitetheme/internal/logging"
)

// DefaultClosingDelay is how long the panel stays in its closing state
// before it is hidden.
const DefaultClosingDelay = 150 * time.Millisecond

type panelState int

const (
	panelClosed panelState = iota
	panelOpen
	panelClosing
)

// Control identifies one focusable row of the panel.
type Control int

// Panel controls in display order.
const (
	ControlMode Control = iota
	ControlAccent
	ControlContrast
	ControlFont
	ControlMotion
	ControlReset
	ControlClose
	controlCount
)

// ReflectMsg tells the model that a value changed outside the panel.
type ReflectMsg struct {
	Field entity.Field
	Value string
}

type closedMsg struct{ seq int }

// Model is the Bubble Tea model for the settings panel. Controls show the
// binding's mirror; edits go through Binding.Submit.
type Model struct {
	ctx     context.Context
	ctrl    Controller
	binding *Binding

	theme *styles.Theme
	keys  styles.PanelKeyMap
	help  help.Model

	state        panelState
	seq          int
	closingDelay time.Duration
	focus        Control
	showHelp     bool
	width        int

	sender *programSender
	extra  View
	open   bool
}

// Option configures a Model.
type Option func(*Model)

// WithClosingDelay sets the closing transition length. Zero hides at once.
func WithClosingDelay(d time.Duration) Option {
	return func(m *Model) {
		if d >= 0 {
			m.closingDelay = d
		}
	}
}

// WithStartOpen opens the panel on start.
func WithStartOpen() Option {
	return func(m *Model) { m.open = true }
}

// WithObserver receives every reflected value in addition to the model.
func WithObserver(v View) Option {
	return func(m *Model) { m.extra = v }
}

func withSender(s *programSender) Option {
	return func(m *Model) { m.sender = s }
}

// NewModel binds a new panel to ctrl.
func NewModel(ctx context.Context, ctrl Controller, opts ...Option) Model {
	m := Model{
		ctx:          logging.WithComponent(ctx, "settings"),
		ctrl:         ctrl,
		keys:         styles.DefaultPanelKeyMap(),
		closingDelay: DefaultClosingDelay,
		width:        80,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.sender == nil {
		m.sender = &programSender{}
	}
	if m.open {
		m.state = panelOpen
	}

	m.binding = NewBinding(ctx, ctrl, reflector{sender: m.sender, extra: m.extra})
	m.theme = styles.ThemeFor(ctrl.State())
	m.help = styles.NewStyledHelp(m.theme)
	return m
}

// Binding returns the mirror binding behind the panel.
func (m Model) Binding() *Binding { return m.binding }

// Expanded reports whether the panel is open (the trigger's aria-expanded).
func (m Model) Expanded() bool { return m.state == panelOpen }

// Visible reports whether the panel box is drawn, including while closing.
func (m Model) Visible() bool { return m.state != panelClosed }

// Focused returns the control with keyboard focus.
func (m Model) Focused() Control { return m.focus }

// Close releases the binding.
func (m Model) Close() { m.binding.Close() }

// Init implements tea.Model.
func (Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case ReflectMsg:
		m.refreshTheme()

	case closedMsg:
		if msg.seq == m.seq && m.state == panelClosing {
			m.state = panelClosed
		}

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		return m.toggle()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	}

	if m.state != panelOpen {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Close):
		return m.close()
	case key.Matches(msg, m.keys.Up):
		m.focus = (m.focus + controlCount - 1) % controlCount
	case key.Matches(msg, m.keys.Down):
		m.focus = (m.focus + 1) % controlCount
	case key.Matches(msg, m.keys.Left):
		m.adjust(-1)
	case key.Matches(msg, m.keys.Right):
		m.adjust(1)
	case key.Matches(msg, m.keys.Select):
		return m.activate()
	case key.Matches(msg, m.keys.Reset):
		m.reset()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	layout := m.layout()

	if layout.onTrigger(msg.X, msg.Y) {
		return m.toggle()
	}
	if m.state != panelOpen {
		return m, nil
	}
	if !layout.insidePanel(msg.X, msg.Y) {
		return m.close()
	}
	if c, ok := layout.controlAt(msg.Y); ok {
		m.focus = c
		if c == ControlReset || c == ControlClose || c == ControlMotion {
			return m.activate()
		}
	}
	return m, nil
}

func (m Model) toggle() (tea.Model, tea.Cmd) {
	if m.state == panelOpen {
		return m.close()
	}
	m.seq++
	m.state = panelOpen
	logging.FromContext(m.ctx).Debug().Msg("panel opened")
	return m, nil
}

func (m Model) close() (tea.Model, tea.Cmd) {
	if m.state != panelOpen {
		return m, nil
	}
	m.seq++
	logging.FromContext(m.ctx).Debug().Msg("panel closed")
	if m.closingDelay == 0 {
		m.state = panelClosed
		return m, nil
	}
	m.state = panelClosing
	seq := m.seq
	return m, tea.Tick(m.closingDelay, func(time.Time) tea.Msg { return closedMsg{seq: seq} })
}

func (m Model) activate() (tea.Model, tea.Cmd) {
	switch m.focus {
	case ControlReset:
		m.reset()
	case ControlClose:
		return m.close()
	default:
		m.adjust(1)
	}
	return m, nil
}

func (m *Model) reset() {
	m.binding.Reset()
	m.refreshTheme()
}

// adjust moves the focused control by one step in dir, wrapping the
// enumerations and clamping the sliders.
func (m *Model) adjust(dir int) {
	var (
		field entity.Field
		value string
	)
	switch m.focus {
	case ControlMode:
		modes := entity.Modes()
		current, _ := entity.ParseMode(m.binding.Mirror(entity.FieldMode))
		field = entity.FieldMode
		value = string(modes[wrap(indexOf(modes, current)+dir, len(modes))])
	case ControlAccent:
		accents := entity.Accents()
		i := entity.AccentIndex(m.binding.Mirror(entity.FieldColorTheme))
		field = entity.FieldColorTheme
		value = accents[wrap(i+dir, len(accents))].Key
	case ControlContrast:
		current, _ := entity.ParseContrast(m.binding.Mirror(entity.FieldContrastLevel))
		field = entity.FieldContrastLevel
		value = entity.ClampContrast(int(current) + dir).String()
	case ControlFont:
		current, _ := entity.ParseFontScale(m.binding.Mirror(entity.FieldFontSize))
		field = entity.FieldFontSize
		value = strconv.Itoa(entity.ClampFontScale(current + dir*entity.FontScaleStep))
	case ControlMotion:
		current, _ := strconv.ParseBool(m.binding.Mirror(entity.FieldReducedMotion))
		field = entity.FieldReducedMotion
		value = strconv.FormatBool(!current)
	default:
		return
	}

	if m.binding.Submit(field, value) {
		m.refreshTheme()
	}
}

func (m *Model) refreshTheme() {
	m.theme = styles.ThemeFor(m.ctrl.State())
	width := m.help.Width
	showAll := m.help.ShowAll
	m.help = styles.NewStyledHelp(m.theme)
	m.help.Width = width
	m.help.ShowAll = showAll
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func indexOf(modes []entity.Mode, mode entity.Mode) int {
	for i, m := range modes {
		if m == mode {
			return i
		}
	}
	return 0
}

// reflector forwards binding reflections to the running program.
type reflector struct {
	sender *programSender
	extra  View
}

func (r reflector) Reflect(field entity.Field, value string) {
	if r.extra != nil {
		r.extra.Reflect(field, value)
	}
	r.sender.send(ReflectMsg{Field: field, Value: value})
}

// programSender delivers messages to a tea.Program once one is attached.
// Reflections can originate inside Update (a submitted mode change moves
// the effective mode), where a blocking Send would stall the event loop.
type programSender struct {
	mu      sync.Mutex
	program *tea.Program
}

func (s *programSender) attach(p *tea.Program) {
	s.mu.Lock()
	s.program = p
	s.mu.Unlock()
}

func (s *programSender) send(msg tea.Msg) {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p != nil {
		go p.Send(msg)
	}
}

// Run shows the panel in the terminal until the user quits or ctx ends.
func Run(ctx context.Context, ctrl Controller, opts ...Option) error {
	sender := &programSender{}
	m := NewModel(ctx, ctrl, append(opts, withSender(sender))...)
	defer m.Close()

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	sender.attach(p)
	defer sender.attach(nil)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
