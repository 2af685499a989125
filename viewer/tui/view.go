package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zillusion/capsule/viewer/library"
	"github.com/zillusion/capsule/viewer/seek"
	"github.com/zillusion/capsule/viewer/transcript"
)

const (
	// playerPrefix is the width of the player line before the progress bar.
	playerPrefix = 10
	playerSuffix = 24
	// paneChrome is border plus padding on each axis.
	paneChromeX = 4
	paneChromeY = 2
	headerLines = 3
)

func (m *Model) View() string {
	var panes []string
	if m.coord.ListVisible() {
		panes = append(panes, m.viewList())
	}
	if m.coord.DetailVisible() {
		panes = append(panes, m.viewDetail())
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, panes...)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.viewPlayer(), m.viewFooter())
}

func (m *Model) paneHeight() int { return max(3, m.height-2) }

func (m *Model) listWidth() int {
	if !m.coord.DetailVisible() {
		return m.width
	}
	if !m.coord.ListVisible() {
		return 0
	}
	return max(24, m.width/3)
}

func (m *Model) detailWidth() int {
	return max(10, m.width-m.listWidth()-paneChromeX)
}

func (m *Model) transcriptHeight() int {
	return max(1, m.paneHeight()-paneChromeY-headerLines)
}

func (m *Model) progressRow() int { return m.height - 2 }

func (m *Model) progressTrack() seek.Track {
	return seek.Track{Left: playerPrefix, Width: float64(max(1, m.width-playerPrefix-playerSuffix))}
}

func (m *Model) viewList() string {
	w := m.listWidth() - paneChromeX
	st := m.pager.State()
	selected, _ := m.coord.Selected()

	lines := []string{titleStyle.Render("Recordings")}
	items := st.Items()
	if len(items) == 0 && !st.Loading && st.Err == nil {
		lines = append(lines, dimStyle.Render("No recordings yet"))
	}
	for i, it := range items {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		text := library.TrimTo(library.Trim(it.Text), max(1, w-5))
		style := lipgloss.NewStyle()
		if it.ID == selected {
			style = selectedStyle
		}
		line := marker + style.Render(text)
		meta := "  " + transcript.FormatHMS(it.Duration)
		if it.Demo {
			meta += " " + demoStyle.Render("demo")
		}
		lines = append(lines, line, dimStyle.Render(meta))
	}

	if p := st.Data; p != nil {
		lines = append(lines, "", dimStyle.Render(fmt.Sprintf("Page %d/%d", p.Pagination.CurrentPage, p.Pagination.TotalPages)))
	}
	if st.Loading {
		lines = append(lines, dimStyle.Render("Loading..."))
	}
	if st.Err != nil {
		lines = append(lines, errorStyle.Render("Failed to load page"))
	}
	return paneStyle.Width(w).Height(m.paneHeight() - paneChromeY).Render(strings.Join(lines, "\n"))
}

func (m *Model) viewDetail() string {
	w := m.detailWidth()
	var lines []string

	switch {
	case m.trLoading:
		lines = append(lines, titleStyle.Render("Loading transcript..."), skeleton(w, 3))
	case m.trErr != nil:
		lines = append(lines, errorStyle.Render("Could not load transcript: "+m.trErr.Error()))
	case m.tr == nil:
		lines = append(lines, dimStyle.Render("Select a recording"))
	default:
		lines = append(lines, m.viewHeader()...)
		if err := m.tr.RequireUtterances(); err != nil {
			lines = append(lines, dimStyle.Render("Processing..."), skeleton(w, 3))
			break
		}
		body := m.layoutTranscript(w).lines
		end := min(len(body), m.offset+m.transcriptHeight())
		if m.offset < end {
			lines = append(lines, body[m.offset:end]...)
		}
	}
	return paneStyle.Width(w).Height(m.paneHeight() - paneChromeY).Render(strings.Join(lines, "\n"))
}

func (m *Model) viewHeader() []string {
	title := m.tr.SummaryShort
	if title == "" {
		title = m.tr.ID
	}
	title = library.TrimTo(title, max(1, m.detailWidth()-8))
	if m.tr.Demo {
		title += " " + demoStyle.Render("demo")
	}

	analysis := dimStyle.Render("Analysis processing...")
	if m.tr.Processed() {
		a := m.tr.Analysis()
		analysis = fmt.Sprintf("Score %g/10", a.Score.Total)
		if len(a.Conclusion.Insights) > 0 {
			analysis += dimStyle.Render(" · " + a.Conclusion.Insights[0])
		}
	}

	scrollState := "auto-scroll on"
	if !m.arbiter.AutoScrollEnabled() {
		scrollState = "auto-scroll off"
	} else if m.arbiter.UserIsScrolling() {
		scrollState = "scrolling"
	}
	return []string{titleStyle.Render(title), analysis, dimStyle.Render(scrollState)}
}

// utteranceIndent is the columns an utterance block spends on its left
// border and padding, active or not.
const utteranceIndent = 2

// transcriptLayout is the transcript rendered for one pane width.
type transcriptLayout struct {
	lines []string
	// starts holds the first line of each utterance.
	starts []int
	hits   []wordHit
}

// wordHit is where a word is drawn, in body lines and pane columns.
type wordHit struct {
	line, col, width int
	utterance, word  int
}

// transcriptOrigin is the screen cell of the first body column and row.
func (m *Model) transcriptOrigin() (x, y int) {
	if m.coord.ListVisible() {
		// List pane content plus its two border columns.
		x = m.listWidth() - paneChromeX + 2
	}
	return x + 2, 1 + headerLines
}

// layoutTranscript renders every utterance wrapped to width. Words are
// wrapped here rather than by lipgloss so each one's cell is known.
func (m *Model) layoutTranscript(width int) transcriptLayout {
	var l transcriptLayout
	if m.tr == nil {
		return l
	}
	h := m.resolver.Current()
	multi := m.tr.HasMultipleSpeakers()
	blockWidth := max(1, width-2)
	textWidth := max(1, blockWidth-utteranceIndent)
	l.starts = make([]int, m.tr.Len())

	for i := 0; i < m.tr.Len(); i++ {
		u := m.tr.At(i)
		l.starts[i] = len(l.lines)
		active := h.OK && h.Utterance == i

		head := fmt.Sprintf("%s - %s", transcript.FormatClock(u.Start), transcript.FormatClock(u.End))
		if multi {
			sp := u.Speaker
			if sp < 0 || sp > 1 {
				sp = 0
			}
			head = speakerStyles[sp].Render(fmt.Sprintf("Speaker %d", sp+1)) + " " + dimStyle.Render(head)
		} else {
			head = dimStyle.Render(head)
		}

		var rows []string
		var row strings.Builder
		var rowHits []wordHit
		col := 0
		for j, word := range u.Words {
			text := fit(word.Text, textWidth)
			wlen := lipgloss.Width(text)
			if col > 0 && col+1+wlen > textWidth {
				rows = append(rows, row.String())
				row.Reset()
				col = 0
			}
			if col > 0 {
				row.WriteByte(' ')
				col++
			}
			if active && h.WordActive(j) {
				text = activeWordStyle.Render(text)
			}
			row.WriteString(text)
			rowHits = append(rowHits, wordHit{line: len(rows), col: col + utteranceIndent, width: wlen, utterance: i, word: j})
			col += wlen
		}
		if row.Len() > 0 {
			rows = append(rows, row.String())
		}

		// The active border sits outside Width, so both blocks end up
		// blockWidth cells wide.
		style := utteranceStyle.Width(blockWidth)
		if active {
			style = activeUtteranceStyle.Width(blockWidth - 1)
		}
		block := strings.Split(style.Render(head+"\n"+strings.Join(rows, "\n")), "\n")
		// Word rows are the last rows of the block, however the head wrapped.
		first := len(l.lines) + len(block) - len(rows)
		for _, wh := range rowHits {
			wh.line += first
			l.hits = append(l.hits, wh)
		}
		l.lines = append(l.lines, block...)
		l.lines = append(l.lines, "")
	}
	return l
}

// fit cuts text to at most width cells.
func fit(text string, width int) string {
	if lipgloss.Width(text) <= width {
		return text
	}
	r := []rune(text)
	for len(r) > 0 && lipgloss.Width(string(r)) > width {
		r = r[:len(r)-1]
	}
	return string(r)
}

func (m *Model) viewPlayer() string {
	s := m.clock.State()
	icon := "▶"
	if s.IsPlaying {
		icon = "⏸"
	}
	prefix := fmt.Sprintf("%s %s", icon, transcript.FormatClock(s.CurrentTime))
	prefix += strings.Repeat(" ", max(0, playerPrefix-lipgloss.Width(prefix)))

	barWidth := int(m.progressTrack().Width)
	filled := 0
	if s.Duration > 0 {
		filled = int(float64(barWidth) * s.CurrentTime / s.Duration)
	}
	filled = min(barWidth, max(0, filled))
	bar := selectedStyle.Render(strings.Repeat("━", filled)) + dimStyle.Render(strings.Repeat("─", barWidth-filled))

	vol := fmt.Sprintf("vol %3d%%", int(s.Volume*100+0.5))
	if s.IsMuted {
		vol = "muted"
	}
	suffix := fmt.Sprintf(" %s  %s", transcript.FormatClock(s.Duration), vol)
	return prefix + bar + suffix
}

func (m *Model) viewFooter() string {
	if m.alert != "" {
		return errorStyle.Render(m.alert)
	}
	keys := [][2]string{
		{"enter", "open"}, {"space", "play"}, {"←/→", "10s"}, {"m", "mute"},
		{"a", "auto-scroll"}, {"n/p", "page"}, {"esc", "list"}, {"q", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = footerKeyStyle.Render(k[0]) + " " + footerDescStyle.Render(k[1])
	}
	return strings.Join(parts, "  ")
}

func skeleton(width, rows int) string {
	line := dimStyle.Render(strings.Repeat("░", max(1, width-4)))
	out := make([]string, rows)
	for i := range out {
		out[i] = line
	}
	return strings.Join(out, "\n")
}
