package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/sitetheme/internal/cli/styles"
	"github.com/bnema/sitetheme/internal/domain/entity"
)

// Screen layout: the trigger sits on the first row and the panel box right
// below it. Inside the box, border and padding take two rows, then a title
// and a blank line precede one row per control.
const (
	triggerRow  = 0
	panelTop    = 1
	boxInsetTop = 2
	headerRows  = 2
	labelWidth  = 10
)

var controlLabels = [controlCount]string{
	ControlMode:     "Mode",
	ControlAccent:   "Accent",
	ControlContrast: "Contrast",
	ControlFont:     "Font size",
	ControlMotion:   "Motion",
	ControlReset:    "",
	ControlClose:    "",
}

type panelLayout struct {
	triggerWidth int
	panelWidth   int
	panelHeight  int
	visible      bool
}

func (m Model) layout() panelLayout {
	l := panelLayout{triggerWidth: lipgloss.Width(m.renderTrigger())}
	if m.Visible() {
		box := m.renderPanel()
		l.visible = true
		l.panelWidth = lipgloss.Width(box)
		l.panelHeight = lipgloss.Height(box)
	}
	return l
}

func (l panelLayout) onTrigger(x, y int) bool {
	return y == triggerRow && x >= 0 && x < l.triggerWidth
}

func (l panelLayout) insidePanel(x, y int) bool {
	return l.visible &&
		x >= 0 && x < l.panelWidth &&
		y >= panelTop && y < panelTop+l.panelHeight
}

func (l panelLayout) controlAt(y int) (Control, bool) {
	row := y - panelTop - boxInsetTop - headerRows
	if row < 0 || row >= int(controlCount) {
		return 0, false
	}
	return Control(row), true
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderTrigger())
	b.WriteString("\n")
	if m.Visible() {
		b.WriteString(m.renderPanel())
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderTrigger() string {
	if m.Expanded() {
		return m.theme.ActiveTab.Render(styles.IconPalette + " Settings ▾")
	}
	return m.theme.InactiveTab.Render(styles.IconPalette + " Settings ▸")
}

func (m Model) renderPanel() string {
	t := m.theme
	effective := m.binding.Mirror(entity.FieldEffectiveMode)

	lines := make([]string, 0, headerRows+int(controlCount))
	lines = append(lines,
		t.Title.Render("Display settings")+"  "+t.Subtle.Render(effective),
		"",
	)
	for c := Control(0); c < controlCount; c++ {
		lines = append(lines, m.renderControl(c))
	}

	box := t.Box
	if m.state == panelClosing {
		box = box.BorderForeground(t.Muted).Faint(true)
	}
	return box.Render(strings.Join(lines, "\n"))
}

func (m Model) renderControl(c Control) string {
	t := m.theme
	label := t.Subtle.Width(labelWidth).Render(controlLabels[c])

	var widget string
	switch c {
	case ControlMode:
		widget = m.renderModes()
	case ControlAccent:
		widget = m.renderAccents()
	case ControlContrast:
		widget = m.renderContrast()
	case ControlFont:
		percent, _ := entity.ParseFontScale(m.binding.Mirror(entity.FieldFontSize))
		widget = fmt.Sprintf("◂ %s ▸", t.Highlight.Render(strconv.Itoa(percent)+"%"))
	case ControlMotion:
		icon := styles.IconCheckboxEmpty
		if reduced, _ := strconv.ParseBool(m.binding.Mirror(entity.FieldReducedMotion)); reduced {
			icon = styles.IconCheckboxChecked
		}
		widget = t.Highlight.Render(icon) + " Reduce motion"
	case ControlReset:
		widget = m.renderButton("Reset to defaults", c)
	case ControlClose:
		widget = m.renderButton("Close", c)
	}

	if c == m.focus && m.state == panelOpen {
		return t.ListItemSelected.Render(styles.IconCursor + " " + label + widget)
	}
	return t.ListItem.Render("  " + label + widget)
}

func (m Model) renderModes() string {
	current := entity.Mode(m.binding.Mirror(entity.FieldMode))
	parts := make([]string, 0, len(entity.Modes()))
	for _, mode := range entity.Modes() {
		if mode == current {
			parts = append(parts, m.theme.ActiveTab.Render(styles.IconRadioChecked+" "+mode.Label()))
			continue
		}
		parts = append(parts, m.theme.InactiveTab.Render(styles.IconRadioEmpty+" "+mode.Label()))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderAccents() string {
	current := m.binding.Mirror(entity.FieldColorTheme)
	var name string
	parts := make([]string, 0, len(entity.Accents())+1)
	for _, a := range entity.Accents() {
		selected := a.Key == current
		if selected {
			name = a.Name
		}
		parts = append(parts, m.theme.Swatch(a.Hex, selected))
	}
	return strings.Join(parts, "") + " " + m.theme.Normal.Render(name)
}

func (m Model) renderContrast() string {
	level, _ := entity.ParseContrast(m.binding.Mirror(entity.FieldContrastLevel))
	var bar strings.Builder
	for i := entity.ContrastNormal; i <= entity.ContrastHigh; i++ {
		if i <= level {
			bar.WriteString("■")
		} else {
			bar.WriteString("□")
		}
	}
	return m.theme.Highlight.Render(bar.String()) + " " + m.theme.Normal.Render(level.Name())
}

func (m Model) renderButton(text string, c Control) string {
	if c == m.focus && m.state == panelOpen {
		return m.theme.ActiveTab.Render(text)
	}
	return m.theme.InactiveTab.Render(text)
}
