package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/partprop/internal/candidate"
	"github.com/san-kum/partprop/internal/module"
)

// ProgressMsg reports one candidate that finished with Status.
type ProgressMsg struct {
	Status candidate.Status
}

// DoneMsg reports that the update channel was closed.
type DoneMsg struct{}

type TickMsg time.Time

const historyLen = 60

// Progress is a bubbletea model that follows a running batch through a
// channel of final statuses.
type Progress struct {
	title    string
	total    int
	counts   module.Summary
	updates  <-chan candidate.Status
	start    time.Time
	elapsed  time.Duration
	frame    int
	width    int
	history  []float64
	lastDone int
	done     bool
	aborted  bool
}

func NewProgress(title string, total int, updates <-chan candidate.Status) Progress {
	return Progress{
		title:   title,
		total:   total,
		counts:  make(module.Summary),
		updates: updates,
		start:   time.Now(),
		width:   80,
	}
}

// ProgressObserver forwards the final status of every candidate to ch. The
// channel needs room for the whole batch so a closed view never blocks the
// run.
func ProgressObserver(ch chan<- candidate.Status) module.Observer {
	return module.ObserverFunc(func(c *candidate.Candidate) { ch <- c.Status() })
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/20, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func waitFor(ch <-chan candidate.Status) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return DoneMsg{}
		}
		return ProgressMsg{Status: s}
	}
}

func (m Progress) Init() tea.Cmd {
	return tea.Batch(waitFor(m.updates), tick())
}

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.aborted = !m.done
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case ProgressMsg:
		m.counts[msg.Status]++
		return m, waitFor(m.updates)
	case DoneMsg:
		m.done = true
		m.elapsed = time.Since(m.start)
		return m, tea.Quit
	case TickMsg:
		m.frame++
		m.elapsed = time.Since(m.start)
		completed := m.Completed()
		m.history = append(m.history, float64(completed-m.lastDone))
		if len(m.history) > historyLen {
			m.history = m.history[len(m.history)-historyLen:]
		}
		m.lastDone = completed
		if !m.done {
			return m, tick()
		}
	}
	return m, nil
}

func (m Progress) Completed() int         { return m.counts.Total() }
func (m Progress) Counts() module.Summary { return m.counts }
func (m Progress) Done() bool             { return m.done }

// Aborted reports whether the view was closed before the batch finished.
func (m Progress) Aborted() bool { return m.aborted }

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m Progress) View() string {
	var b strings.Builder

	state := StatusRunning.Render(spinnerFrames[m.frame%len(spinnerFrames)] + " running")
	if m.done {
		state = StatusDone.Render("✓ done")
	}
	b.WriteString(Title.Render(m.title) + "  " + state + "\n\n")

	frac := 0.0
	if m.total > 0 {
		frac = float64(m.Completed()) / float64(m.total)
	}
	barWidth := max(min(m.width-30, 60), 10)
	fmt.Fprintf(&b, "%s %s\n\n", ProgressBar(frac, barWidth),
		MetricValue.Render(fmt.Sprintf("%d/%d", m.Completed(), m.total)))

	for _, st := range candidate.Statuses() {
		if n := m.counts[st]; n > 0 {
			fmt.Fprintf(&b, "  %s %d\n", StatusStyle(st).Render(fmt.Sprintf("%-24s", st)), n)
		}
	}

	b.WriteString("\n")
	b.WriteString(KeyValue("throughput", SparklineChart(m.history, min(historyLen, barWidth))) + "\n")
	b.WriteString(KeyValue("elapsed", m.elapsed.Round(time.Millisecond).String()) + "\n\n")
	b.WriteString(KeyHint.Render("q quit"))

	return Panel.Render(b.String())
}

// RunProgress shows the view until the channel closes or the user quits.
func RunProgress(p Progress) (Progress, error) {
	final, err := tea.NewProgram(p).Run()
	if err != nil {
		return p, err
	}
	return final.(Progress), nil
}
