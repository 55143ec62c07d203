package sim

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	green       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	brightGreen = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dim         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	border      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Render draws the results table followed by the win summary.
func Render(results []GameResult) string {
	rows := make([][]string, 0, len(results))
	for i, r := range results {
		winner := "-"
		if r.Finished {
			winner = r.Winner
		}
		seats := make([]string, 0, len(r.Players))
		for _, p := range r.Players {
			seats = append(seats, fmt.Sprintf("%s %d%%", p.Name, p.Freedom))
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.Seed),
			winner,
			fmt.Sprintf("%d", r.Months),
			fmt.Sprintf("%d", r.Turns),
			strings.Join(seats, "  "),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		BorderHeader(true).
		BorderRow(false).
		Headers("Game", "Seed", "Winner", "Months", "Turns", "Freedom").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return brightGreen.Bold(true)
			}
			if col == 2 && rows[row][2] == "-" {
				return dim
			}
			return green
		})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")

	s := Summarize(results)
	line := fmt.Sprintf("%d/%d games finished", s.Finished, s.Games)
	if s.Finished > 0 {
		line += fmt.Sprintf(", avg %.1f months", s.AvgMonths)
		for _, n := range s.Leaders() {
			line += fmt.Sprintf(" | %s %d", n, s.Wins[n])
		}
	}
	b.WriteString(brightGreen.Render(line))
	b.WriteString("\n")
	return b.String()
}
