package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zillusion/capsule/internal/listing"
	"github.com/zillusion/capsule/viewer/transcript"
)

type fakeClient struct {
	pages       map[int]*listing.Page
	transcripts map[string]string
	pageErr     error
}

func (f *fakeClient) Page(_ context.Context, page, _ int) (*listing.Page, error) {
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	return f.pages[page], nil
}

func (f *fakeClient) Transcript(_ context.Context, id string) (*transcript.Transcript, error) {
	body, ok := f.transcripts[id]
	if !ok {
		return nil, errors.New("File not found")
	}
	return transcript.Parse([]byte(body))
}

const demoBody = `{"id":"demo","demo":true,"metadata":{"results":{"summary":{"short":"Demo call"},"utterances":[
  {"start":0,"end":2,"words":[{"word":"hello","start":0,"end":1},{"word":"there","start":1,"end":2}]},
  {"speaker":1,"start":3,"end":5,"words":[{"word":"hi","start":3,"end":5}]}
]}}}`

func newFake() *fakeClient {
	return &fakeClient{
		pages: map[int]*listing.Page{
			1: {
				Data: []listing.Item{
					{ID: "demo", Text: "Demo call", Duration: 6, Demo: true},
					{ID: "a", Text: "First upload", Duration: 30},
				},
				Pagination: listing.Pagination{CurrentPage: 1, ItemsPerPage: 2, TotalItems: 3, TotalPages: 2},
			},
			2: {
				Data:       []listing.Item{{ID: "b", Text: "Second upload", Duration: 12}},
				Pagination: listing.Pagination{CurrentPage: 2, ItemsPerPage: 2, TotalItems: 3, TotalPages: 2},
			},
		},
		transcripts: map[string]string{
			"demo": demoBody,
			"a":    `{"id":"a","metadata":{"results":{}}}`,
			"b":    `{"id":"b","metadata":{"results":{"utterances":[]}}}`,
		},
	}
}

// run executes cmd and feeds its message back into the model, following
// any command that yields. Only use it where no timer command follows.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		_, cmd = m.Update(msg)
	}
}

func started(t *testing.T, width int) (*Model, *fakeClient) {
	t.Helper()
	f := newFake()
	m := New(context.Background(), f, 2)
	m.Update(tea.WindowSizeMsg{Width: width, Height: 30})
	run(t, m, m.loadPage(1))
	return m, f
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m *Model, s string) {
	t.Helper()
	_, cmd := m.Update(key(s))
	run(t, m, cmd)
}

func TestStartupSelectsFirstAndLoadsTranscript(t *testing.T) {
	m, _ := started(t, 160)

	id, ok := m.coord.Selected()
	if !ok || id != "demo" {
		t.Fatalf("expected demo auto-selected, got %q", id)
	}
	if m.tr == nil || m.tr.ID != "demo" {
		t.Fatalf("expected demo transcript loaded, got %+v", m.tr)
	}
	if d := m.clock.State().Duration; d != 6 {
		t.Errorf("expected duration from list item, got %v", d)
	}

	view := m.View()
	for _, want := range []string{"Recordings", "Demo call", "Page 1/2", "hello", "Speaker 2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPlaybackFollowsTranscript(t *testing.T) {
	m, _ := started(t, 160)
	press(t, m, " ")
	if !m.clock.State().IsPlaying {
		t.Fatal("expected playing")
	}
	for i := 0; i < 35; i++ {
		m.Update(tickMsg{})
	}
	h := m.resolver.Current()
	if !h.OK || h.Utterance != 1 {
		t.Errorf("expected second utterance active at %.1fs, got %+v", m.clock.State().CurrentTime, h)
	}

	for i := 0; i < 40; i++ {
		m.Update(tickMsg{})
	}
	s := m.clock.State()
	if s.IsPlaying || s.CurrentTime != 6 {
		t.Errorf("expected ended at 6s, got %+v", s)
	}
}

func TestKeysDriveClock(t *testing.T) {
	m, _ := started(t, 160)
	press(t, m, "right")
	if got := m.clock.State().CurrentTime; got != 6 {
		t.Errorf("forward should clamp to duration, got %v", got)
	}
	press(t, m, "left")
	if got := m.clock.State().CurrentTime; got != 0 {
		t.Errorf("rewind should clamp to 0, got %v", got)
	}
	press(t, m, "-")
	press(t, m, "m")
	if s := m.clock.State(); !s.IsMuted || s.PreviousVolume != 0.9 {
		t.Errorf("unexpected mute state %+v", s)
	}
	press(t, m, "m")
	if s := m.clock.State(); s.IsMuted || s.Volume != 0.9 {
		t.Errorf("unexpected unmute state %+v", s)
	}
	press(t, m, "a")
	if m.arbiter.AutoScrollEnabled() {
		t.Error("expected auto-scroll toggled off")
	}
}

func TestStaleTranscriptDiscarded(t *testing.T) {
	m, f := started(t, 160)

	press(t, m, "down")
	_, cmdA := m.Update(key("enter"))
	m.cursor = 0
	_, cmdDemo := m.Update(key("enter"))
	f.transcripts["a"] = `{"id":"a","metadata":{"results":{"utterances":[]}}}`

	m.Update(cmdDemo())
	m.Update(cmdA())
	if m.tr == nil || m.tr.ID != "demo" {
		t.Errorf("late response for a replaced the current selection: %+v", m.tr)
	}
}

func TestProcessingAndErrorsRenderInline(t *testing.T) {
	m, _ := started(t, 160)
	press(t, m, "down")
	press(t, m, "enter")
	if !strings.Contains(m.View(), "Processing...") {
		t.Error("missing utterances should render a processing skeleton")
	}

	m.cursor = 0
	m.Update(key("enter"))
	m.Update(transcriptLoadedMsg{ID: "demo", Err: errors.New("File not found")})
	if !strings.Contains(m.View(), "File not found") {
		t.Error("detail error should render inline")
	}
}

func TestPageErrorKeepsList(t *testing.T) {
	m, f := started(t, 160)
	f.pageErr = errors.New("boom")
	_, load := m.Update(key("n"))
	// The returned command is the alert timer; leave it unrun.
	m.Update(load())

	view := m.View()
	if !strings.Contains(view, "Demo call") || !strings.Contains(view, "Failed to load page") {
		t.Errorf("expected previous page with inline error, got:\n%s", view)
	}
	if !strings.Contains(m.alert, "boom") {
		t.Errorf("expected alert, got %q", m.alert)
	}
}

func TestNextPage(t *testing.T) {
	m, _ := started(t, 160)
	press(t, m, "n")
	if items := m.pager.State().Items(); len(items) != 1 || items[0].ID != "b" {
		t.Fatalf("expected page 2, got %+v", items)
	}
	if id, _ := m.coord.Selected(); id != "demo" {
		t.Errorf("selection should survive paging, got %q", id)
	}
}

func TestMobileNavigation(t *testing.T) {
	m, _ := started(t, 60)
	if !m.coord.ListVisible() || m.coord.DetailVisible() {
		t.Fatal("narrow terminal should start on the list")
	}
	press(t, m, "enter")
	if m.coord.ListVisible() {
		t.Fatal("selecting should hide the list on a narrow terminal")
	}
	if strings.Contains(m.View(), "Recordings") {
		t.Error("list pane rendered while hidden")
	}

	m.Update(tea.WindowSizeMsg{Width: 160, Height: 30})
	if !m.coord.ListVisible() || !m.coord.DetailVisible() {
		t.Error("wide terminal should show both panes")
	}
	if id, _ := m.coord.Selected(); id != "demo" {
		t.Errorf("selection lost on resize: %q", id)
	}
}

func TestMouseDragSeeks(t *testing.T) {
	m, _ := started(t, 160)
	track := m.progressTrack()
	row := m.progressRow()
	mid := int(track.Left + track.Width/2)

	m.Update(tea.MouseMsg{X: mid, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: mid, Y: row, Action: tea.MouseActionRelease})
	if got := m.clock.State().CurrentTime; got < 2.9 || got > 3.1 {
		t.Errorf("click should seek to the middle, got %v", got)
	}
	if m.seeker.Dragging() {
		t.Error("click must not leave a drag behind")
	}

	m.Update(tea.MouseMsg{X: int(track.Left), Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: int(track.Left + track.Width), Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if got := m.clock.State().CurrentTime; got != 6 {
		t.Errorf("drag should keep seeking off the track row, got %v", got)
	}
	m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionRelease})
	m.Update(tea.MouseMsg{X: int(track.Left), Y: row, Action: tea.MouseActionMotion})
	if got := m.clock.State().CurrentTime; got != 6 {
		t.Errorf("motion after release must not seek, got %v", got)
	}

	m.Update(tea.MouseMsg{Y: 3, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if !m.arbiter.UserIsScrolling() {
		t.Error("wheel should hand scrolling to the user")
	}
}

func TestWordClickSeeksAndPlays(t *testing.T) {
	m, _ := started(t, 160)

	var hit *wordHit
	for _, h := range m.layoutTranscript(m.detailWidth()).hits {
		if h.utterance == 1 && h.word == 0 {
			hit = &h
			break
		}
	}
	if hit == nil {
		t.Fatal("word \"hi\" not laid out")
	}
	ox, oy := m.transcriptOrigin()
	m.Update(tea.MouseMsg{X: ox + hit.col, Y: oy + hit.line - m.offset, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	s := m.clock.State()
	if s.CurrentTime != 3 || !s.IsPlaying {
		t.Errorf("expected playing from 3s, got %+v", s)
	}
	if h := m.resolver.Current(); !h.OK || h.Utterance != 1 {
		t.Errorf("expected clicked utterance active, got %+v", h)
	}

	m.clock.Pause()
	m.Update(tea.MouseMsg{X: ox + hit.col, Y: oy + len(m.layoutTranscript(m.detailWidth()).lines) + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.clock.State().IsPlaying {
		t.Error("press below the transcript must not start playback")
	}
}

func TestScrollStopsAtTranscriptEnd(t *testing.T) {
	m, _ := started(t, 160)
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 10})
	if m.maxOffset() == 0 {
		t.Fatal("transcript should overflow a short pane")
	}
	for i := 0; i < 20; i++ {
		m.Update(tea.MouseMsg{Y: 3, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	}
	if m.offset != m.maxOffset() {
		t.Errorf("offset = %d, want %d", m.offset, m.maxOffset())
	}
	if !strings.Contains(m.View(), "hi") {
		t.Error("scrolled pane should still show the last utterance")
	}

	for i := 0; i < 20; i++ {
		m.Update(tea.MouseMsg{Y: 3, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	}
	if m.offset != 0 {
		t.Errorf("offset = %d, want 0", m.offset)
	}
}

func TestSelectingAnotherRecordStopsOldPlayback(t *testing.T) {
	f := newFake()
	f.pages[1].Data = append(f.pages[1].Data, listing.Item{ID: "missing", Text: "Gone"})
	m := New(context.Background(), f, 3)
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 30})
	run(t, m, m.loadPage(1))

	press(t, m, " ")
	for i := 0; i < 15; i++ {
		m.Update(tickMsg{})
	}
	if !m.resolver.Current().OK {
		t.Fatal("expected the demo to be highlighting")
	}

	m.cursor = 2
	press(t, m, "enter")
	if id, _ := m.coord.Selected(); id != "missing" || m.trErr == nil {
		t.Fatalf("expected failed load of missing, got %q err=%v", id, m.trErr)
	}

	press(t, m, " ")
	for i := 0; i < 10; i++ {
		m.Update(tickMsg{})
	}
	if s := m.clock.State(); s.CurrentTime != 0 || s.IsPlaying || s.Duration != 0 {
		t.Errorf("old recording kept playing: %+v", s)
	}
	if h := m.resolver.Current(); h.OK {
		t.Errorf("old transcript still highlighted: %+v", h)
	}
}
