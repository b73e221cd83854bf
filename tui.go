package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/speccast/speccast/pkg/stats"
	"github.com/speccast/speccast/pkg/stream"
	"github.com/speccast/speccast/pkg/suncolor"
)

// copyToClipboard copies text to the system clipboard using whichever
// clipboard tool the platform provides
func copyToClipboard(text string) error {
	candidates := [][]string{
		{"pbcopy"},
		{"wl-copy"},
		{"xclip", "-selection", "clipboard"},
	}
	for _, candidate := range candidates {
		path, err := exec.LookPath(candidate[0])
		if err != nil {
			continue
		}
		cmd := exec.Command(path, candidate[1:]...)
		cmd.Stdin = strings.NewReader(text)
		return cmd.Run()
	}
	return fmt.Errorf("no clipboard tool found")
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	urlStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("13"))

	viewerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")) // Cyan for keys

	keySepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")) // Dim separator

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	boxTitleDimStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("8"))
)

// Messages
type tickMsg time.Time

type serverEventMsg stream.Event

const maxEventLines = 8

// Model
type model struct {
	app *App

	// Refreshed every tick
	status        stream.Status
	snapshot      stats.Snapshot
	phase         string
	sunColor      suncolor.Color
	lastBroadcast string

	// Server event log (newest last)
	events []string

	startTime   time.Time
	copyMessage string    // temporary "Copied!" message
	copyMsgTime time.Time // when copy message was shown

	// Terminal dimensions
	width  int
	height int
}

func initialModel(app *App) model {
	m := model{
		app:       app,
		startTime: time.Now(),
	}
	m.refresh()
	return m
}

// refresh pulls the current server state into the model.
func (m *model) refresh() {
	m.status = m.app.Server.Status()
	m.snapshot = m.app.Counters.Snapshot()
	m.sunColor, m.phase = m.app.Clock.Current(time.Now())
	m.lastBroadcast = m.app.Server.Broadcaster().Last()
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		waitForEvent(m.app.Server.Events()),
		tea.SetWindowTitle("SpecCast - Ambient Screen Streaming"),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent delivers the next server event to the update loop.
func waitForEvent(events <-chan stream.Event) tea.Cmd {
	return func() tea.Msg {
		return serverEventMsg(<-events)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case serverEventMsg:
		line := msg.Time.Format("15:04:05") + " " + msg.Message
		m.events = append(m.events, line)
		if len(m.events) > maxEventLines {
			m.events = m.events[len(m.events)-maxEventLines:]
		}
		return m, waitForEvent(m.app.Server.Events())

	case tickMsg:
		m.refresh()

		// Clear copy message after 2 seconds
		if m.copyMessage != "" && time.Since(m.copyMsgTime) > 2*time.Second {
			m.copyMessage = ""
		}

		return m, tickCmd()
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "c":
		if err := copyToClipboard(m.viewerURL()); err != nil {
			log.Printf("Clipboard copy failed: %v", err)
			m.copyMessage = "Copy failed"
		} else {
			m.copyMessage = "Copied!"
		}
		m.copyMsgTime = time.Now()
		return m, nil

	case "k":
		// The resulting session-ended event shows up in the event log.
		m.app.Server.Kick()
		return m, nil
	}

	return m, nil
}

func (m model) viewerURL() string {
	return "ws://localhost" + m.app.Addr + "/"
}

func (m model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(titleStyle.Render("SpecCast"))
	b.WriteString(dimStyle.Render(" - Ambient Screen Streaming"))
	b.WriteString("\n\n")

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderConfig())
	b.WriteString("\n\n")

	b.WriteString(m.renderStats())
	b.WriteString("\n")
	b.WriteString(m.renderEvents())

	// Help
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m model) renderStatus() string {
	var b strings.Builder

	b.WriteString(statusStyle.Render("URL: "))
	b.WriteString(urlStyle.Render(m.viewerURL()))
	if m.copyMessage != "" {
		b.WriteString("  ")
		b.WriteString(selectedStyle.Render(m.copyMessage))
	}
	b.WriteString("\n")

	b.WriteString(statusStyle.Render("Viewer: "))
	if m.status.Active {
		uptime := time.Since(m.status.StartedAt).Truncate(time.Second)
		b.WriteString(viewerStyle.Render(m.status.RemoteAddr))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  [%s, %s]", m.status.State, formatDuration(uptime))))
	} else {
		b.WriteString(dimStyle.Render("waiting..."))
	}
	b.WriteString("\n")

	// Sun-synced backdrop phase with a color swatch
	b.WriteString(statusStyle.Render("Backdrop: "))
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(sunHex(m.sunColor)))
	b.WriteString(swatch.Render("  "))
	b.WriteString(normalStyle.Render(" " + m.phase))

	if m.lastBroadcast != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("Last message: "))
		b.WriteString(normalStyle.Render(truncate(m.lastBroadcast, 60)))
	}

	return b.String()
}

func (m model) renderConfig() string {
	var parts []string

	parts = append(parts, dimStyle.Render("Resolution: ")+normalStyle.Render(ResolutionLabel(m.app.Config.Resolution)))
	parts = append(parts, dimStyle.Render("Cadence: ")+normalStyle.Render(CadencePresets[m.app.Config.Cadence].Name))
	parts = append(parts, dimStyle.Render("Levels: ")+normalStyle.Render(fmt.Sprintf("%d", m.app.Config.Levels)))
	if m.app.Config.Demo {
		parts = append(parts, selectedStyle.Render("[DEMO]"))
	}
	if m.app.Config.AllowedIP != "" {
		parts = append(parts, dimStyle.Render("Allow: ")+normalStyle.Render(m.app.Config.AllowedIP))
	} else {
		parts = append(parts, errorStyle.Render("open to any viewer"))
	}

	return strings.Join(parts, "  ")
}

func (m model) renderStats() string {
	var content strings.Builder
	content.WriteString(boxTitleDimStyle.Render(" Stream "))
	content.WriteString("\n")

	uptime := time.Since(m.startTime).Truncate(time.Second)
	content.WriteString(dimStyle.Render("Uptime: "))
	content.WriteString(normalStyle.Render(formatDuration(uptime)))
	content.WriteString("\n")

	s := m.snapshot
	content.WriteString(normalStyle.Render(fmt.Sprintf("Frames: %s (%s unchanged)  Rects: %s",
		formatNumber(s.FramesCaptured), formatNumber(s.EmptyDeltas), formatNumber(s.Rectangles))))
	content.WriteString("\n")
	content.WriteString(normalStyle.Render(fmt.Sprintf("Packets: %s  Sent: %s  Messages: %s",
		formatNumber(s.PacketsSent), formatBytes(s.BytesSent), formatNumber(s.Broadcasts))))
	content.WriteString("\n")
	content.WriteString(dimStyle.Render(fmt.Sprintf("Sessions: %d started, %d ended, %d rejected",
		s.SessionsStarted, s.SessionsEnded, s.Rejected)))

	return boxStyle.Width(64).Render(content.String())
}

func (m model) renderEvents() string {
	var content strings.Builder
	content.WriteString(boxTitleDimStyle.Render(" Events "))
	content.WriteString("\n")

	if len(m.events) == 0 {
		content.WriteString(dimStyle.Render("No events yet"))
	} else {
		for i, line := range m.events {
			if i > 0 {
				content.WriteString("\n")
			}
			content.WriteString(normalStyle.Render(truncate(line, 60)))
		}
	}

	return boxStyle.Width(64).Render(content.String())
}

func (m model) renderHelp() string {
	sep := keySepStyle.Render("  ")

	var actions []string
	actions = append(actions, keyStyle.Render("c")+helpStyle.Render(" copy url"))
	if m.status.Active {
		actions = append(actions, keyStyle.Render("k")+helpStyle.Render(" kick viewer"))
	}
	actions = append(actions, keyStyle.Render("q")+helpStyle.Render(" quit"))

	return strings.Join(actions, sep)
}

// sunHex converts a backdrop color to a lipgloss hex color.
func sunHex(c suncolor.Color) string {
	return fmt.Sprintf("#%02x%02x%02x",
		int(c.R*255+0.5), int(c.G*255+0.5), int(c.B*255+0.5))
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func formatNumber(n int64) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return fmt.Sprintf("%d", n)
}

func formatBytes(b int64) string {
	if b >= 1_000_000_000 {
		return fmt.Sprintf("%.2f GB", float64(b)/1_000_000_000)
	}
	if b >= 1_000_000 {
		return fmt.Sprintf("%.1f MB", float64(b)/1_000_000)
	}
	if b >= 1_000 {
		return fmt.Sprintf("%.1f KB", float64(b)/1_000)
	}
	return fmt.Sprintf("%d B", b)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// RunTUI starts the TUI application
func RunTUI(app *App) error {
	// Write logs to file instead of corrupting TUI display
	logFile, err := os.Create("speccast-debug.log")
	if err != nil {
		// Fall back to discarding if we can't create log file
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(logFile)
		log.Printf("=== SpecCast started at %s ===", time.Now().Format(time.RFC3339))
		defer logFile.Close()
	}

	// Restore logging on exit
	defer log.SetOutput(os.Stderr)

	p := tea.NewProgram(
		initialModel(app),
		tea.WithAltScreen(),
	)

	_, runErr := p.Run()
	return runErr
}
