package notify

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsvox/internal/dialogue"
	"newsvox/internal/news"
	"newsvox/pkg/protocol"
)

type recordingPublisher struct {
	events []protocol.Event
}

func (r *recordingPublisher) Publish(ev protocol.Event) { r.events = append(r.events, ev) }

func TestBusMapsCalls(t *testing.T) {
	pub := &recordingPublisher{}
	b := NewBus(pub)

	b.ShowArticles(news.Set{{Title: "T", URL: "u", ImageURL: "i", SourceName: "s"}})
	b.ShowOutput(0, "summary")
	b.OpenLink("u")
	b.SetMic(dialogue.MicPaused)
	b.Toast("hi")

	require.Len(t, pub.events, 5)
	assert.Equal(t, []protocol.Article{{Title: "T", URL: "u", Image: "i", Source: "s"}}, pub.events[0].Articles)
	assert.Equal(t, protocol.Event{Kind: protocol.KindOutput, Index: 0, Text: "summary"}, pub.events[1])
	assert.Equal(t, "u", pub.events[2].URL)
	assert.Equal(t, "paused", pub.events[3].State)
	assert.Equal(t, protocol.KindToast, pub.events[4].Kind)
}

type call struct {
	name string
	args []string
}

func TestDesktopRunsCommands(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []call
	)
	d := NewDesktop(func(_ context.Context, name string, args ...string) error {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, call{name, args})
		return nil
	}, nil)

	d.OpenLink("https://example.com/a")
	d.Toast("Fetched 2 articles.")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	var names []string
	for _, c := range calls {
		names = append(names, c.name)
		if c.name == "xdg-open" {
			assert.Equal(t, []string{"https://example.com/a"}, c.args)
		} else {
			assert.Equal(t, "Fetched 2 articles.", c.args[len(c.args)-1])
		}
	}
	assert.ElementsMatch(t, []string{"xdg-open", "notify-send"}, names)
}

func TestMultiFansOut(t *testing.T) {
	a, b := &recordingPublisher{}, &recordingPublisher{}
	m := Multi{NewBus(a), NewBus(b)}
	m.Toast("x")
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestLoadCuesSkipsMissingFiles(t *testing.T) {
	c, err := LoadCues(map[string]string{
		dialogue.CueStart: filepath.Join(t.TempDir(), "start-sound.mp3"),
		dialogue.CueStop:  "",
	}, nil)
	require.NoError(t, err)
	assert.False(t, c.Has(dialogue.CueStart))
	c.Play(dialogue.CueStart)
}
