package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/native-platform/memory"
	"github.com/wippyai/native-platform/symbols"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	addrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	moduleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateModules modelState = iota
	stateProbeForm
	stateProbeResult
)

var probePermissions = []memory.Permission{
	memory.NoAccess,
	memory.NoAccessWillExecuteLater,
	memory.Read,
	memory.ReadWrite,
	memory.ReadExecute,
	memory.ReadWriteExecute,
}

type probeModel struct {
	libs     []symbols.SharedLibraryAddress
	inputs   []textinput.Model
	result   string
	err      error
	permIdx  int
	focusIdx int
	offset   int
	state    modelState
}

type probeResultMsg struct {
	err    error
	result string
}

func newProbeModel() *probeModel {
	size := textinput.New()
	size.Placeholder = "pages"
	size.SetValue("16")
	size.CharLimit = 8
	size.Width = 10
	size.Focus()

	align := textinput.New()
	align.Placeholder = "pages"
	align.SetValue("1")
	align.CharLimit = 8
	align.Width = 10

	return &probeModel{
		libs:   symbols.SharedLibraryAddresses(),
		inputs: []textinput.Model{size, align},
		state:  stateModules,
	}
}

func (m *probeModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *probeModel) runProbe() tea.Msg {
	sizePages, err := strconv.ParseUint(m.inputs[0].Value(), 10, 32)
	if err != nil || sizePages == 0 {
		return probeResultMsg{err: fmt.Errorf("size: want a positive page count")}
	}
	alignPages, err := strconv.ParseUint(m.inputs[1].Value(), 10, 32)
	if err != nil || alignPages == 0 {
		return probeResultMsg{err: fmt.Errorf("alignment: want a positive page count")}
	}

	granularity := memory.AllocatePageSize()
	size := uintptr(sizePages) * granularity
	alignment := uintptr(alignPages) * granularity
	perm := probePermissions[m.permIdx]

	r := memory.AllocateRegion(0, size, alignment, perm)
	if r == nil {
		return probeResultMsg{err: fmt.Errorf("OS refused %d bytes at alignment %d", size, alignment)}
	}
	base := r.Base()
	freed := r.Free()

	return probeResultMsg{
		result: fmt.Sprintf("base 0x%012x  aligned=%v  freed=%v", base, base%alignment == 0, freed),
	}
}

func (m *probeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case probeResultMsg:
		m.err = msg.err
		m.result = msg.result
		m.state = stateProbeResult
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateProbeForm {
				return m, tea.Quit
			}
		case "esc":
			m.state = stateModules
			return m, nil
		}

		switch m.state {
		case stateModules:
			return m.updateModules(msg)
		case stateProbeForm:
			return m.updateForm(msg)
		case stateProbeResult:
			if msg.String() == "enter" {
				m.state = stateProbeForm
			}
			return m, nil
		}
	}

	return m, m.updateInputs(msg)
}

func (m *probeModel) updateModules(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.offset > 0 {
			m.offset--
		}
	case "down", "j":
		if m.offset < len(m.libs)-1 {
			m.offset++
		}
	case "p", "enter":
		m.state = stateProbeForm
	}
	return m, nil
}

func (m *probeModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focusIdx = (m.focusIdx + 1) % 3
	case "shift+tab", "up":
		m.focusIdx = (m.focusIdx + 2) % 3
	case "left":
		if m.focusIdx == 2 {
			m.permIdx = (m.permIdx + len(probePermissions) - 1) % len(probePermissions)
		}
	case "right":
		if m.focusIdx == 2 {
			m.permIdx = (m.permIdx + 1) % len(probePermissions)
		}
	case "enter":
		return m, m.runProbe
	default:
		var cmd tea.Cmd
		if m.focusIdx < 2 {
			m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
		}
		return m, cmd
	}

	for i := range m.inputs {
		if i == m.focusIdx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m, nil
}

func (m *probeModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (m *probeModel) View() string {
	switch m.state {
	case stateProbeForm:
		return m.viewForm()
	case stateProbeResult:
		return m.viewResult()
	}
	return m.viewModules()
}

const moduleWindow = 20

func (m *probeModel) viewModules() string {
	s := titleStyle.Render("memprobe: loaded modules") + "\n\n"

	if len(m.libs) == 0 {
		s += helpStyle.Render("module enumeration unavailable on this platform") + "\n"
	}

	end := m.offset + moduleWindow
	if end > len(m.libs) {
		end = len(m.libs)
	}
	for i := m.offset; i < end; i++ {
		lib := m.libs[i]
		line := fmt.Sprintf("%s  %s",
			addrStyle.Render(fmt.Sprintf("%012x-%012x", lib.Start, lib.End)),
			moduleStyle.Render(lib.Name))
		if i == m.offset {
			line = selectedStyle.Render(fmt.Sprintf("%012x-%012x  %s", lib.Start, lib.End, lib.Name))
		}
		s += line + "\n"
	}

	s += "\n" + helpStyle.Render("j/k scroll · p probe allocator · q quit")
	return s
}

func (m *probeModel) viewForm() string {
	s := titleStyle.Render("memprobe: allocation probe") + "\n\n"
	s += fmt.Sprintf("  size      %s  x %d bytes\n", m.inputs[0].View(), memory.AllocatePageSize())
	s += fmt.Sprintf("  alignment %s  x %d bytes\n", m.inputs[1].View(), memory.AllocatePageSize())

	perm := probePermissions[m.permIdx].String()
	if m.focusIdx == 2 {
		perm = selectedStyle.Render("< " + perm + " >")
	}
	s += fmt.Sprintf("  permission  %s\n", perm)

	s += "\n" + helpStyle.Render("tab cycle fields · left/right permission · enter run · esc back")
	return s
}

func (m *probeModel) viewResult() string {
	s := titleStyle.Render("memprobe: result") + "\n\n"
	if m.err != nil {
		s += errorStyle.Render(m.err.Error()) + "\n"
	} else {
		s += resultStyle.Render(m.result) + "\n"
	}
	s += "\n" + helpStyle.Render("enter new probe · esc modules · q quit")
	return s
}

func runInteractive() error {
	p := tea.NewProgram(newProbeModel())
	_, err := p.Run()
	return err
}
