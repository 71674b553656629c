package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"tracescribe/internal/pipeline"
	"tracescribe/internal/session"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Session   session.Session
	Generator *pipeline.Generator
	Store     *session.Store
	OutPath   string
}

type model struct {
	config Config

	stage    stage
	spinner  spinner.Model
	viewport viewport.Model

	result        pipeline.Result
	resultReady   bool
	err           error
	infoMessage   string
	viewportDirty bool

	windowWidth  int
	windowHeight int
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	return &model{
		config:        config,
		stage:         stageGenerating,
		spinner:       spin,
		viewport:      vp,
		viewportDirty: true,
		infoMessage:   "Running the documentation pipeline…",
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, generateCmd(m.config))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.resizeViewport()
		m.viewportDirty = true
		return m, nil
	case spinner.TickMsg:
		if m.stage != stageGenerating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case generateResultMsg:
		return m.handleGenerateResult(msg)
	case saveResultMsg:
		if msg.err != nil {
			m.infoMessage = fmt.Sprintf("Save failed: %v", msg.err)
		} else {
			m.infoMessage = fmt.Sprintf("Saved markdown to %s.", msg.path)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleGenerateResult(msg generateResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.stage = stageFailed
		m.err = msg.err
		m.infoMessage = ""
		return m, nil
	}
	m.stage = stageDisplay
	m.result = msg.result
	m.resultReady = true
	m.viewportDirty = true
	if len(msg.result.Degradations) > 0 {
		m.infoMessage = fmt.Sprintf("Completed with %d degraded stage(s).", len(msg.result.Degradations))
	} else {
		m.infoMessage = "Documentation ready."
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "g":
		m.viewport.GotoTop()
		return m, nil
	case "G":
		m.viewport.GotoBottom()
		return m, nil
	case "s":
		if m.resultReady && m.config.OutPath != "" {
			return m, saveMarkdownCmd(m.config.OutPath, m.result.Output.RawMarkdown)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) resizeViewport() {
	width := m.windowWidth - viewportHorizontalPadding
	if width < minViewportWidth {
		width = minViewportWidth
	}
	height := m.windowHeight - 10
	if height < 6 {
		height = 6
	}
	m.viewport.Width = width
	m.viewport.Height = height
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty {
		return
	}
	m.viewport.SetContent(m.buildDisplayContent())
	m.viewportDirty = false
}

func (m *model) buildDisplayContent() string {
	if !m.resultReady {
		return helperStyle.Render("The document will appear here once generation finishes.")
	}
	wrap := m.wrapWidth()
	var b strings.Builder
	b.WriteString(wordwrap.String(m.result.Output.RawMarkdown, wrap))
	if len(m.result.Chunks) > 0 {
		b.WriteString("\n\n")
		b.WriteString(sectionHeaderStyle.Render("Detected Phases"))
		b.WriteString("\n")
		for _, chunk := range m.result.Chunks {
			line := fmt.Sprintf("• %s [%d–%d] — %s", chunk.Phase, chunk.StartIndex, chunk.EndIndex, chunk.InferredIntent)
			b.WriteString(wordwrap.String(line, wrap))
			b.WriteString("\n")
		}
	}
	if len(m.result.Degradations) > 0 {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Degraded stages:"))
		b.WriteString("\n")
		for _, degradation := range m.result.Degradations {
			b.WriteString(wordwrap.String(fmt.Sprintf("• %s: %s", degradation.Stage, degradation.Reason), wrap))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *model) wrapWidth() int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	return width
}

// Run mounts the viewer and blocks until the user quits.
func Run(config Config, altScreen bool) error {
	opts := []tea.ProgramOption{}
	if altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(New(config), opts...)
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "program error:", err)
		return err
	}
	return nil
}

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	heroAccentColor = lipgloss.Color("#7f5af0")
	heroTextColor   = lipgloss.Color("#fffffe")

	heroTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	heroBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Foreground(heroTextColor).Padding(0, 2)
	taglineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a1b2")).Italic(true)
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
)
