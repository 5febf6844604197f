package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nnat-dev/nnat/internal/grid"
	"github.com/nnat-dev/nnat/internal/item"
	"github.com/nnat-dev/nnat/internal/run"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	filledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	wildStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	toastStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("118")).Bold(true)
	spentStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("240"))
	winStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("118"))
	loseStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	rarityStyles = map[item.Freq]lipgloss.Style{
		item.Common:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		item.Uncommon: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		item.Rare:     lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
	}
)

// View renders the current phase.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch phase := m.s.phase.(type) {
	case *run.SelectPhase:
		body = m.viewSelect(phase)
	case *run.WavePhase:
		body = m.viewWave(phase)
	case run.Outcome:
		body = m.viewOutcome(phase)
	default:
		body = "loading..."
	}

	var footer []string
	if m.s.message != "" {
		footer = append(footer, warnStyle.Render(m.s.message))
	}
	if m.s.toast != "" {
		footer = append(footer, toastStyle.Render(m.s.toast))
	}
	footer = append(footer, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, body, strings.Join(footer, "\n"))
}

func (m Model) viewSelect(phase *run.SelectPhase) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Choose an item"))
	b.WriteString("\n\n")

	if len(phase.Offers) == 0 {
		b.WriteString(emptyStyle.Render("Nothing left to offer.") + "\n")
	}
	for i, it := range phase.Offers {
		style := rarityStyles[it.Freq]
		b.WriteString(fmt.Sprintf("  %d) %s  %s\n", i+1,
			style.Render(fmt.Sprintf("%-12s", it.Title)),
			emptyStyle.Render(fmt.Sprintf("[%s %s] %s", it.Kind, it.Freq, it.Desc))))
	}
	b.WriteString("\n  s) skip\n")
	return panelStyle.Render(b.String())
}

func (m Model) viewWave(phase *run.WavePhase) string {
	board := m.renderBoard(phase.Grid())

	var status strings.Builder
	fmt.Fprintf(&status, "%s\n\n", titleStyle.Render(fmt.Sprintf("Wave — target %d nnat", phase.Target())))
	fmt.Fprintf(&status, "board score %d\n", phase.Score().Total())
	fmt.Fprintf(&status, "banked      %d / %d\n", phase.TotalScore(), phase.Target())
	fmt.Fprintf(&status, "frame       %d / %d\n", phase.Frame()+1, phase.MaxFrames())
	fmt.Fprintf(&status, "rerolls     %d / %d\n", phase.MaxRolls()-phase.Roll(), phase.MaxRolls())

	if actions := phase.Actions(); len(actions) > 0 {
		status.WriteString("\nactions:\n")
		for i, a := range actions {
			line := fmt.Sprintf("%d) %s", i+1, a.Title)
			if phase.ActionUsed(i) {
				line = spentStyle.Render(line + " (spent)")
			}
			status.WriteString("  " + line + "\n")
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(board),
		" ",
		panelStyle.Render(status.String()),
	)
}

// renderBoard draws the grid with the cell cursor highlighted.
func (m Model) renderBoard(g grid.Grid) string {
	var b strings.Builder
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			i := r*g.Cols + c
			var cell string
			switch g.Cells[i] {
			case grid.Filled:
				cell = filledStyle.Render("██")
			case grid.Wildcard:
				cell = wildStyle.Render("▒▒")
			default:
				cell = emptyStyle.Render("··")
			}
			if i == m.cursor {
				cell = cursorStyle.Render(cellRune(g.Cells[i]))
			}
			b.WriteString(cell)
		}
		if r < g.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func cellRune(c grid.Cell) string {
	switch c {
	case grid.Filled:
		return "██"
	case grid.Wildcard:
		return "▒▒"
	default:
		return "··"
	}
}

func (m Model) viewOutcome(out run.Outcome) string {
	var b strings.Builder
	if out.Win {
		b.WriteString(winStyle.Render("Entropy contained. You win."))
	} else {
		b.WriteString(loseStyle.Render("The noise wins this time."))
	}
	b.WriteString("\n\n")
	if items := m.s.run.Items(); len(items) > 0 {
		b.WriteString("final inventory:\n")
		for _, it := range items {
			b.WriteString("  " + rarityStyles[it.Freq].Render(it.Title) + "\n")
		}
	}
	b.WriteString("\npress enter to leave\n")
	return panelStyle.Render(b.String())
}
