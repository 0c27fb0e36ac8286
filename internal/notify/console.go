package notify

import (
	"log/slog"

	"newsvox/internal/dialogue"
	"newsvox/internal/news"
)

// Console renders the UI into the log, for headless runs.
type Console struct {
	log *slog.Logger
}

var _ dialogue.Notifier = (*Console)(nil)

func NewConsole(log *slog.Logger) *Console {
	if log == nil {
		log = slog.Default()
	}
	return &Console{log: log}
}

func (c *Console) Toast(msg string) { c.log.Info("Toast", "msg", msg) }

func (c *Console) ShowArticles(set news.Set) {
	if len(set) == 0 {
		c.log.Info("No news articles found.")
		return
	}
	for i, a := range set {
		c.log.Info("Article", "n", i+1, "title", a.Title, "source", a.SourceName, "url", a.URL)
	}
}

func (c *Console) ShowOutput(index int, text string) {
	c.log.Info("Output", "n", index+1, "text", text)
}

func (c *Console) OpenLink(url string) { c.log.Info("Open", "url", url) }

func (c *Console) SetMic(state dialogue.MicState) { c.log.Debug("Mic", "state", state) }

// Multi fans every call out to each notifier in order.
type Multi []dialogue.Notifier

var _ dialogue.Notifier = Multi(nil)

func (m Multi) Toast(msg string) {
	for _, n := range m {
		n.Toast(msg)
	}
}

func (m Multi) ShowArticles(set news.Set) {
	for _, n := range m {
		n.ShowArticles(set)
	}
}

func (m Multi) ShowOutput(index int, text string) {
	for _, n := range m {
		n.ShowOutput(index, text)
	}
}

func (m Multi) OpenLink(url string) {
	for _, n := range m {
		n.OpenLink(url)
	}
}

func (m Multi) SetMic(state dialogue.MicState) {
	for _, n := range m {
		n.SetMic(state)
	}
}
