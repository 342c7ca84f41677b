package app

import (
	"fmt"
	"math"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/go-drift/carousel/cmd/carousel-demo/internal/config"
)

// View renders the header, the visible window of the card strip and a
// status line.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if m.quitting {
		view.SetContent("")
		return view
	}
	if m.width == 0 || !m.carousel.Geometry().IsReady() {
		view.SetContent("Loading...")
		return view
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		m.renderStrip(),
		"",
		m.renderStatus(),
	)
	if m.height > 0 {
		content = lipgloss.NewStyle().MaxHeight(m.height).Render(content)
	}
	view.SetContent(content)
	return view
}

func (m *Model) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorFocus).Render("carousel")
	help := lipgloss.NewStyle().Foreground(colorMuted).Render("  ←/→ page · 1-9 jump · drag or click cards · q quit")
	return ansi.Truncate(title+help, m.width, "")
}

// renderCard is the carousel's Content function.
func (m *Model) renderCard(item config.Item) string {
	inner := max(m.cfg.CardWidth-2, 1)
	title := runewidth.Truncate(item.Title, inner, "…")
	name := runewidth.Truncate(item.ColorName, inner, "…")

	fg := textOn(item.Color)
	body := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Render(title),
		lipgloss.NewStyle().Faint(true).Render(name),
	)
	return lipgloss.NewStyle().
		Width(m.cfg.CardWidth).
		Height(m.cfg.CardHeight).
		Padding(0, 1).
		Align(lipgloss.Center, lipgloss.Center).
		Background(item.Color).
		Foreground(fg).
		Render(body)
}

// frame draws the card border; the centered card is highlighted.
func frame(card string, focused bool) string {
	border := colorBorder
	if focused {
		border = colorFocus
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(card)
}

func cardSize(card string) (int, int) {
	framed := frame(card, false)
	return lipgloss.Width(framed), lipgloss.Height(framed)
}

// renderStrip lays out every slot and cuts the window at the scroll offset.
func (m *Model) renderStrip() string {
	views := m.carousel.Render()
	g := m.carousel.Geometry()
	inset := int(math.Round(g.HorizontalInset()))
	display := m.carousel.DisplayPosition()
	gap := strings.Repeat(" ", int(g.Spacing()))

	parts := make([]string, 0, 2*len(views)+1)
	parts = append(parts, strings.Repeat(" ", inset))
	for i, view := range views {
		if i > 0 {
			parts = append(parts, gap)
		}
		parts = append(parts, frame(view, i == display))
	}
	parts = append(parts, strings.Repeat(" ", inset))
	strip := lipgloss.JoinHorizontal(lipgloss.Top, parts...)

	left := int(math.Round(m.position.Offset()))
	lines := strings.Split(strip, "\n")
	for i, line := range lines {
		lines[i] = ansi.Cut(line, left, left+m.width)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStatus() string {
	n := m.carousel.Len()
	dots := make([]string, n)
	for i := range n {
		if i == m.selected {
			dots[i] = lipgloss.NewStyle().Foreground(colorFocus).Render("●")
		} else {
			dots[i] = lipgloss.NewStyle().Foreground(colorMuted).Render("○")
		}
	}

	auto := "off"
	if m.cfg.AutoScroll > 0 {
		auto = m.cfg.AutoScroll.String()
	}
	title := ""
	if m.selected >= 0 && m.selected < n {
		title = m.cfg.Items[m.selected].Title
	}
	info := lipgloss.NewStyle().Foreground(colorForeground).Render(
		fmt.Sprintf("  %d/%d %s · phase %s · runtime %s · auto %s",
			m.selected+1, n, title, m.carousel.Phase(), m.cfg.RuntimeVersion, auto))
	return ansi.Truncate(strings.Join(dots, " ")+info, m.width, "")
}
