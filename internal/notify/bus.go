package notify

import (
	"newsvox/internal/dialogue"
	"newsvox/internal/news"
	"newsvox/pkg/protocol"
)

type Publisher interface {
	Publish(ev protocol.Event)
}

// Bus turns notifier calls into UI bus events.
type Bus struct {
	pub Publisher
}

var _ dialogue.Notifier = (*Bus)(nil)

func NewBus(pub Publisher) *Bus { return &Bus{pub: pub} }

func (b *Bus) Toast(msg string) {
	b.pub.Publish(protocol.Event{Kind: protocol.KindToast, Text: msg})
}

func (b *Bus) ShowArticles(set news.Set) {
	articles := make([]protocol.Article, len(set))
	for i, a := range set {
		articles[i] = protocol.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Image:       a.ImageURL,
			Source:      a.SourceName,
		}
	}
	b.pub.Publish(protocol.Event{Kind: protocol.KindArticles, Articles: articles})
}

func (b *Bus) ShowOutput(index int, text string) {
	b.pub.Publish(protocol.Event{Kind: protocol.KindOutput, Index: index, Text: text})
}

func (b *Bus) OpenLink(url string) {
	b.pub.Publish(protocol.Event{Kind: protocol.KindOpenLink, URL: url})
}

func (b *Bus) SetMic(state dialogue.MicState) {
	b.pub.Publish(protocol.Event{Kind: protocol.KindMic, State: string(state)})
}
