// Package tui is the terminal viewer: a paginated recording list beside a
// transcript that follows playback.
package tui

import (
	"context"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zillusion/capsule/internal/listing"
	"github.com/zillusion/capsule/viewer/highlight"
	"github.com/zillusion/capsule/viewer/library"
	"github.com/zillusion/capsule/viewer/playback"
	"github.com/zillusion/capsule/viewer/scroll"
	"github.com/zillusion/capsule/viewer/seek"
	"github.com/zillusion/capsule/viewer/selection"
	"github.com/zillusion/capsule/viewer/transcript"
)

// Client is the API surface the viewer reads.
type Client interface {
	Page(ctx context.Context, page, limit int) (*listing.Page, error)
	Transcript(ctx context.Context, id string) (*transcript.Transcript, error)
}

const (
	tickInterval = 100 * time.Millisecond
	alertTimeout = 5 * time.Second
	// cellWidth converts terminal columns to the logical width the
	// viewport breakpoint is defined in.
	cellWidth  = 8
	volumeStep = 0.1
)

// Model is the root bubbletea model. Its collaborators are built in New
// and passed down; none are global.
type Model struct {
	ctx    context.Context
	client Client

	pager    *library.Pager
	coord    *selection.Coordinator
	media    *tickMedia
	clock    *playback.Clock
	resolver *highlight.Resolver
	arbiter  *scroll.Arbiter
	seeker   *seek.Controller

	cursor    int
	pressX    int
	pressing  bool
	tr        *transcript.Transcript
	trLoading bool
	trErr     error
	offset    int

	width  int
	height int

	alert    string
	alertSeq int
}

// New builds a viewer showing limit records per page.
func New(ctx context.Context, c Client, limit int) *Model {
	m := &Model{
		ctx:    ctx,
		client: c,
		pager:  library.NewPager(c, limit),
		coord:  selection.NewCoordinator(0),
		media:  newTickMedia(0),
		width:  80,
		height: 24,
	}
	m.coord.Resize(m.width * cellWidth)
	m.clock = playback.NewClock(m.media)
	m.arbiter = scroll.NewArbiter(scroll.ScrollerFunc(m.scrollTo))
	m.resolver = highlight.NewResolver(nil, func(h highlight.Highlight) {
		if h.OK {
			m.arbiter.ActiveChanged(anchor(h.Utterance))
		} else {
			m.arbiter.ActiveChanged("")
		}
	})
	m.clock.Subscribe(m.resolver.Observe)
	m.seeker = seek.NewController(m.clock, m.progressTrack())
	return m
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, c Client, limit int) error {
	p := tea.NewProgram(New(ctx, c, limit), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadPage(1), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) loadPage(page int) tea.Cmd {
	key := m.pager.Request(page)
	return func() tea.Msg {
		p, err := m.pager.Fetch(m.ctx, key)
		return pageLoadedMsg{Key: key, Page: p, Err: err}
	}
}

func (m *Model) loadTranscript(id string) tea.Cmd {
	m.trLoading = true
	m.trErr = nil
	return func() tea.Msg {
		tr, err := m.client.Transcript(m.ctx, id)
		return transcriptLoadedMsg{ID: id, Transcript: tr, Err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.coord.Resize(m.width * cellWidth)
		m.seeker.SetTrack(m.progressTrack())
		return m, nil

	case pageLoadedMsg:
		return m, m.applyPage(msg)

	case transcriptLoadedMsg:
		m.applyTranscript(msg)
		return m, nil

	case tickMsg:
		if m.media.advance(tickInterval) {
			m.clock.OnTimeUpdate()
			m.clock.OnEnded()
		} else if m.clock.State().IsPlaying {
			m.clock.OnTimeUpdate()
		}
		return m, tick()

	case clearAlertMsg:
		if msg.seq == m.alertSeq {
			m.alert = ""
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) applyPage(msg pageLoadedMsg) tea.Cmd {
	if !m.pager.Resolve(msg.Key, msg.Page, msg.Err) {
		return nil
	}
	if msg.Err != nil {
		return m.setAlert("Could not load recordings: " + msg.Err.Error())
	}
	items := m.pager.State().Items()
	if m.cursor >= len(items) {
		m.cursor = max(0, len(items)-1)
	}
	if m.coord.ApplyPage(items) {
		id, _ := m.coord.Selected()
		return m.loadTranscript(id)
	}
	return nil
}

func (m *Model) applyTranscript(msg transcriptLoadedMsg) {
	if !m.coord.Accept(msg.ID) {
		return
	}
	m.trLoading = false
	if msg.Err != nil {
		m.trErr = msg.Err
		m.clearTranscript()
		return
	}
	m.tr = msg.Transcript
	m.media = newTickMedia(m.durationOf(msg.ID, msg.Transcript))
	m.offset = 0
	m.resolver.SetTranscript(m.tr)
	m.clock.Reset(m.media)
}

// durationOf prefers the list's stored duration, else the end of the last
// utterance.
func (m *Model) durationOf(id string, tr *transcript.Transcript) float64 {
	for _, it := range m.pager.State().Items() {
		if it.ID == id && it.Duration > 0 {
			return it.Duration
		}
	}
	var end float64
	for i := 0; i < tr.Len(); i++ {
		end = max(end, tr.At(i).End)
	}
	return end
}

func (m *Model) selectCursor() tea.Cmd {
	items := m.pager.State().Items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return nil
	}
	id := items[m.cursor].ID
	m.coord.Select(id)
	m.clearTranscript()
	return m.loadTranscript(id)
}

// clearTranscript drops the open recording so nothing of it plays or
// highlights while another one loads.
func (m *Model) clearTranscript() {
	m.tr = nil
	m.offset = 0
	m.media = newTickMedia(0)
	m.resolver.SetTranscript(nil)
	m.clock.Reset(m.media)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	st := m.pager.State()
	switch msg.String() {
	case keyQuit, keyCtrlC:
		return tea.Quit
	case keyUp, keyK:
		m.cursor = max(0, m.cursor-1)
	case keyDown, keyJ:
		m.cursor = max(0, min(len(st.Items())-1, m.cursor+1))
	case keyEnter:
		return m.selectCursor()
	case keyBack:
		m.coord.ShowList()
	case keyPlay:
		if m.tr == nil {
			return nil
		}
		if err := m.clock.Toggle(); err != nil {
			return m.setAlert(err.Error())
		}
	case keyRewind:
		m.clock.Rewind()
	case keyForward:
		m.clock.Forward()
	case keyMute:
		m.clock.ToggleMute()
	case keyVolUp:
		m.clock.SetVolume(m.clock.State().Volume + volumeStep)
	case keyVolDown:
		m.clock.SetVolume(m.clock.State().Volume - volumeStep)
	case keyAutoScroll:
		m.arbiter.SetAutoScroll(!m.arbiter.AutoScrollEnabled())
	case keyNextPage:
		if st.HasNext() {
			m.cursor = 0
			return m.loadPage(st.Data.Pagination.CurrentPage + 1)
		}
	case keyPrevPage:
		if st.HasPrev() {
			m.cursor = 0
			return m.loadPage(st.Data.Pagination.CurrentPage - 1)
		}
	case keyRefresh:
		return m.loadPage(max(1, st.Key.Page))
	case keyScrollUp:
		m.userScroll(-m.transcriptHeight() / 2)
	case keyScrollDown:
		m.userScroll(m.transcriptHeight() / 2)
	}
	return nil
}

// handleMouse treats a press and release on the progress bar with no motion
// in between as a click; motion after the press turns it into a drag. A
// release anywhere ends the drag.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.userScroll(-3)
	case msg.Button == tea.MouseButtonWheelDown:
		m.userScroll(3)
	case msg.Action == tea.MouseActionRelease:
		if m.pressing && !m.seeker.Dragging() {
			m.seeker.Click(float64(m.pressX))
		}
		m.pressing = false
		m.seeker.PointerUp()
	case msg.Action == tea.MouseActionMotion:
		if m.pressing && !m.seeker.Dragging() {
			m.seeker.PointerDown(float64(m.pressX))
		}
		m.seeker.PointerMove(float64(msg.X))
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == m.progressRow():
		m.pressing, m.pressX = true, msg.X
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if w, ok := m.wordAt(msg.X, msg.Y); ok {
			if err := m.seeker.WordClick(w); err != nil {
				return m.setAlert(err.Error())
			}
		}
	}
	return nil
}

func (m *Model) userScroll(delta int) {
	m.arbiter.UserScrolled()
	m.offset = min(max(0, m.offset+delta), m.maxOffset())
}

// maxOffset is the offset that shows the last transcript line at the
// bottom of the pane.
func (m *Model) maxOffset() int {
	l := m.layoutTranscript(m.detailWidth())
	return max(0, len(l.lines)-m.transcriptHeight())
}

// wordAt finds the word drawn at screen cell (x, y).
func (m *Model) wordAt(x, y int) (transcript.Word, bool) {
	if m.tr == nil || m.trLoading || !m.coord.DetailVisible() {
		return transcript.Word{}, false
	}
	ox, oy := m.transcriptOrigin()
	row := y - oy
	if row < 0 || row >= m.transcriptHeight() {
		return transcript.Word{}, false
	}
	line, col := row+m.offset, x-ox
	for _, h := range m.layoutTranscript(m.detailWidth()).hits {
		if h.line == line && col >= h.col && col < h.col+h.width {
			return m.tr.At(h.utterance).Words[h.word], true
		}
	}
	return transcript.Word{}, false
}

// scrollTo centers the requested utterance in the transcript area.
func (m *Model) scrollTo(req scroll.Request) {
	idx, err := strconv.Atoi(req.Target)
	if err != nil {
		return
	}
	l := m.layoutTranscript(m.detailWidth())
	if idx < 0 || idx >= len(l.starts) {
		return
	}
	m.offset = min(max(0, l.starts[idx]-m.transcriptHeight()/2), max(0, len(l.lines)-m.transcriptHeight()))
}

func (m *Model) setAlert(text string) tea.Cmd {
	m.alertSeq++
	m.alert = text
	seq := m.alertSeq
	return tea.Tick(alertTimeout, func(time.Time) tea.Msg { return clearAlertMsg{seq: seq} })
}

func anchor(utterance int) string { return strconv.Itoa(utterance) }
