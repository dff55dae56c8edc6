package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/predsim/internal/models"
	"github.com/san-kum/predsim/internal/stochastic"
)

const (
	stateMenu = iota
	stateConfig
	statePanel
)

var menuChoices = []string{
	"Use default parameters",
	"Enter custom parameters",
	"Interactive deterministic panel",
	"Interactive stochastic panel",
}

var paramPrompts = map[string]string{
	"alpha":     "prey birth rate",
	"beta":      "predation rate",
	"delta":     "predator reproduction rate",
	"gamma":     "predator death rate",
	"prey":      "initial prey population",
	"predators": "initial predator population",
	"t0":        "start time",
	"tend":      "end time",
}

// Selection is what the menu hands back to the caller once it exits. Run is
// false when the user quit or only used a panel.
type Selection struct {
	Run    bool
	Params models.Params
}

// Menu is the entry screen of the interactive mode.
type Menu struct {
	state, cursor int

	defaults    models.Params
	params      models.Params
	step        float64
	stoParams   stochastic.Params
	seed        uint64
	paramCursor int
	editing     bool
	editBuf     string
	err         error

	panel     Panel
	selection Selection
}

func NewMenu(defaults models.Params, step float64, sto stochastic.Params, seed uint64) Menu {
	return Menu{
		state:     stateMenu,
		defaults:  defaults,
		params:    defaults,
		step:      step,
		stoParams: sto,
		seed:      seed,
	}
}

// Selection reports the menu outcome.
func (m Menu) Selection() Selection { return m.selection }

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.state == statePanel {
			p, cmd := m.panel.Update(msg)
			m.panel = p.(Panel)
			return m, cmd
		}
		return m, nil
	}

	switch m.state {
	case stateMenu:
		return m.menuKey(key)
	case stateConfig:
		return m.configKey(key)
	case statePanel:
		if key.String() == "esc" {
			m.state = stateMenu
			return m, nil
		}
		p, cmd := m.panel.Update(key)
		m.panel = p.(Panel)
		return m, cmd
	}
	return m, nil
}

func (m Menu) menuKey(msg tea.KeyMsg) (Menu, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuChoices)-1 {
			m.cursor++
		}
	case "enter", " ":
		switch m.cursor {
		case 0:
			if err := m.defaults.Validate(); err != nil {
				m.err = err
				return m, nil
			}
			m.selection = Selection{Run: true, Params: m.defaults}
			return m, tea.Quit
		case 1:
			m.state, m.paramCursor, m.err = stateConfig, 0, nil
		case 2:
			m.panel = NewDeterministicPanel(m.params, m.step)
			m.state = statePanel
		case 3:
			m.panel = NewStochasticPanel(m.stoParams, m.seed)
			m.state = statePanel
		}
	}
	return m, nil
}

func (m Menu) configKey(msg tea.KeyMsg) (Menu, tea.Cmd) {
	name := models.ParamNames[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			val, err := strconv.ParseFloat(m.editBuf, 64)
			if err != nil {
				m.err = fmt.Errorf("%s: not a number: %q", name, m.editBuf)
			} else {
				m.params, _ = m.params.With(name, val)
				m.err = nil
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		m.state, m.err = stateMenu, nil
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(models.ParamNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		val, _ := m.params.Get(name)
		m.editing, m.editBuf = true, strconv.FormatFloat(val, 'g', -1, 64)
	case "s":
		if err := m.params.Validate(); err != nil {
			m.err = err
			return m, nil
		}
		m.selection = Selection{Run: true, Params: m.params}
		return m, tea.Quit
	}
	return m, nil
}

func (m Menu) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case statePanel:
		return m.panel.View() + "\n" + lipgloss.NewStyle().Foreground(ThemeClassic.Muted).Render("esc: back to menu")
	}
	return ""
}

func (m Menu) viewMenu() string {
	theme := ThemeClassic
	var b strings.Builder
	h, sub := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), lipgloss.NewStyle().Foreground(theme.Muted)
	b.WriteString("\n\n    " + h.Render("PREDSIM") + "\n    " + sub.Render("Lotka-Volterra predator-prey simulation") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, choice := range menuChoices {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s\n", lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("▸"), lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(choice)))
		} else {
			b.WriteString(fmt.Sprintf("      %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color("#555566")).Render(choice)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(theme.Error).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints(theme, "j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m Menu) viewConfig() string {
	theme := ThemeClassic
	var b strings.Builder
	h, sub := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), lipgloss.NewStyle().Foreground(theme.Muted)
	b.WriteString("\n\n    " + h.Render("CUSTOM PARAMETERS") + "\n    " + sub.Render("values are validated before the run starts") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range models.ParamNames {
		val, _ := m.params.Get(name)
		valStr := fmt.Sprintf("%10.4g", val)
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s  %s\n", lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("▸"), lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(fmt.Sprintf("%-10s", name)), lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(valStr), sub.Render(paramPrompts[name])))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color("#555566")).Render(fmt.Sprintf("  %-10s", name)), lipgloss.NewStyle().Foreground(lipgloss.Color("#444455")).Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(theme.Error).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints(theme, "j/k", "select", "enter", "edit", "s", "run", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive shows the menu full screen and returns the user's choice.
func RunInteractive(m Menu) (Selection, error) {
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return Selection{}, err
	}
	if fm, ok := final.(Menu); ok {
		return fm.Selection(), nil
	}
	return Selection{}, nil
}
