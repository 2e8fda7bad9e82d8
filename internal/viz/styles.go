package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/partprop/internal/candidate"
	"github.com/san-kum/partprop/internal/module"
)

var (
	Panel         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444466")).Padding(0, 1)
	Title         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	Subtle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	StatusDone    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))
	MetricValue   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))
	MetricLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
	KeyHint       = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#666688"))
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff"))
	SparkHigh     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

var statusColors = map[candidate.Status]lipgloss.Color{
	candidate.Active:               "#ffaa00",
	candidate.Detected:             "#00ff88",
	candidate.ReachedMaxTime:       "#00ccff",
	candidate.BelowEnergyThreshold: "#ff4444",
	candidate.Decayed:              "#ff00ff",
	candidate.ObserverNotReachable: "#888899",
	candidate.UserDefined:          "#ffffff",
}

// StatusColor returns the colour that marks s in every view.
func StatusColor(s candidate.Status) lipgloss.Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return "#ffffff"
}

func StatusStyle(s candidate.Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(StatusColor(s))
}

// ProgressBar renders a bar filled to percent, a fraction in [0, 1].
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if percent > 0.8 {
		return SparkHigh.Render(bar)
	} else if percent > 0.4 {
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}

// SparklineChart renders values as one row of block characters.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / span
		idx := int(norm * float64(len(chars)-1))
		idx = min(max(idx, 0), len(chars)-1)

		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(SparkHigh.Render(c))
		case norm > 0.3:
			result.WriteString(SparkMid.Render(c))
		default:
			result.WriteString(SparkLow.Render(c))
		}
	}

	return result.String()
}

// SummaryTable renders one row per status present in s with its count and
// share of the total.
func SummaryTable(s module.Summary, barWidth int) string {
	total := s.Total()
	statuses := make([]candidate.Status, 0, len(s))
	for st, n := range s {
		if n > 0 {
			statuses = append(statuses, st)
		}
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("status summary"))
	b.WriteString("\n")
	for _, st := range statuses {
		n := s[st]
		frac := 0.0
		if total > 0 {
			frac = float64(n) / float64(total)
		}
		fmt.Fprintf(&b, "%s %s %s %s\n",
			StatusStyle(st).Render(fmt.Sprintf("%-24s", st)),
			MetricValue.Render(fmt.Sprintf("%6d", n)),
			ProgressBar(frac, barWidth),
			MetricLabel.Render(fmt.Sprintf("%5.1f%%", 100*frac)))
	}
	fmt.Fprintf(&b, "%s %s\n", MetricLabel.Render(fmt.Sprintf("%-24s", "total")), MetricValue.Render(fmt.Sprintf("%6d", total)))
	return b.String()
}

// KeyValue renders a label and value pair on one line.
func KeyValue(label, value string) string {
	return MetricLabel.Render(fmt.Sprintf("%-14s", label)) + " " + MetricValue.Render(value)
}
