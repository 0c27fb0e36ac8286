// Package protocol defines the JSON frames exchanged with UI front-ends
// over the websocket bus.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindToast    Kind = "toast"
	KindArticles Kind = "articles"
	KindOutput   Kind = "output"
	KindOpenLink Kind = "open_link"
	KindMic      Kind = "mic"
)

type Article struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Image       string `json:"image,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Event goes from the daemon to front-ends. Index is zero-based and only
// meaningful for KindOutput.
type Event struct {
	Kind     Kind      `json:"kind"`
	Text     string    `json:"text,omitempty"`
	Index    int       `json:"index"`
	State    string    `json:"state,omitempty"`
	Articles []Article `json:"articles,omitempty"`
	URL      string    `json:"url,omitempty"`
}

// Command goes from a front-end to the daemon; it mirrors the control
// socket message.
type Command struct {
	Cmd  string   `json:"cmd"`
	Args []string `json:"args,omitempty"`
}

func (e Event) Encode() ([]byte, error) {
	if e.Kind == "" {
		return nil, errors.New("event without kind")
	}
	return json.Marshal(e)
}

func ParseCommand(frame []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(frame, &c); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}
	c.Cmd = strings.TrimSpace(c.Cmd)
	if c.Cmd == "" {
		return Command{}, errors.New("empty command")
	}
	return c, nil
}
