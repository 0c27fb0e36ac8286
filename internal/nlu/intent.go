package nlu

import "fmt"

type Kind int

const (
	Unrecognized Kind = iota
	Stop
	Pause
	Resume
	ReadHeadlines
	Summarize
	SelectOrOpen
	FetchNews
	Affirm
	Deny
)

var kindNames = map[Kind]string{
	Unrecognized:  "unrecognized",
	Stop:          "stop",
	Pause:         "pause",
	Resume:        "resume",
	ReadHeadlines: "read_headlines",
	Summarize:     "summarize",
	SelectOrOpen:  "select_or_open",
	FetchNews:     "fetch_news",
	Affirm:        "affirm",
	Deny:          "deny",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Intent is produced fresh for every utterance. Only the fields relevant to
// Kind are set: Index for Summarize, Raw for SelectOrOpen, Category/Query
// for FetchNews.
type Intent struct {
	Kind     Kind
	Index    int
	Raw      string
	Category string
	Query    string
}

func (i Intent) String() string {
	switch i.Kind {
	case Summarize:
		return fmt.Sprintf("%s(%d)", i.Kind, i.Index)
	case SelectOrOpen:
		return fmt.Sprintf("%s(%q)", i.Kind, i.Raw)
	case FetchNews:
		return fmt.Sprintf("%s(%s, %q)", i.Kind, i.Category, i.Query)
	default:
		return i.Kind.String()
	}
}

// State is the slice of the session the classifier is allowed to see.
type State struct {
	Paused               bool
	AwaitingConfirmation bool
	Language             string
}
