// Package i18n resolves user-facing phrases by (language, message key),
// falling back to English when the active language lacks a key.
package i18n

import (
	"fmt"
	"strings"
)

const Fallback = "en"

// Message keys.
const (
	Paused           = "paused"
	PausedLong       = "paused_long"
	Resumed          = "resumed"
	StartFirst       = "start_first"
	AskRead          = "ask_read"
	OK               = "ok"
	InvalidSelection = "invalid_selection"
	FetchedCount     = "fetched_count"
	NoNews           = "no_news"
	ErrorNews        = "error_news"
	Unrecognized     = "unrecognized"
	MicError         = "mic_error"
	MicDenied        = "mic_denied"
	Headline         = "headline"
	SummaryReady     = "summary_ready"
	AnswerReady      = "answer_ready"
	Working          = "working"
	AIFailed         = "ai_failed"
)

// Catalog maps base language -> key -> template. Templates use {name}
// placeholders.
type Catalog map[string]map[string]string

func DefaultCatalog() Catalog {
	return Catalog{
		"en": {
			Paused:           "Listening paused.",
			PausedLong:       "Listening paused. Say 'resume listening' to continue.",
			Resumed:          "Resumed listening.",
			StartFirst:       "Start listening first.",
			AskRead:          "Should I read the headline?",
			OK:               "Okay.",
			InvalidSelection: "Invalid selection. Please say a valid number.",
			FetchedCount:     "Fetched {n} articles.",
			NoNews:           "No news loaded yet.",
			ErrorNews:        "Error fetching news.",
			Unrecognized:     "Command not recognized. Try: 'latest news', 'read the headlines', 'summarize 2', or 'open 3'.",
			MicError:         "Mic error: {error}",
			MicDenied:        "Microphone access denied. Press start to try again.",
			Headline:         "Headline {n}. {title}",
			SummaryReady:     "Summary for article {n}.",
			AnswerReady:      "Answer ready for article {n}.",
			Working:          "Thinking…",
			AIFailed:         "AI {op} failed. Try again later.",
		},
		"hi": {
			Paused:           "सुनना रोका गया।",
			Resumed:          "फिर से सुन रहा हूँ।",
			AskRead:          "क्या मैं शीर्षक पढ़ूँ?",
			OK:               "ठीक है।",
			InvalidSelection: "अमान्य चयन। कृपया सही संख्या बोलें।",
			FetchedCount:     "{n} समाचार मिले।",
			NoNews:           "अभी कोई समाचार नहीं है।",
			ErrorNews:        "समाचार लाने में त्रुटि।",
		},
	}
}

// Merge overlays other on top of c, key by key.
func (c Catalog) Merge(other Catalog) Catalog {
	out := Catalog{}
	for lang, msgs := range c {
		out[lang] = make(map[string]string, len(msgs))
		for k, v := range msgs {
			out[lang][k] = v
		}
	}
	for lang, msgs := range other {
		if out[lang] == nil {
			out[lang] = map[string]string{}
		}
		for k, v := range msgs {
			out[lang][k] = v
		}
	}
	return out
}

// Text renders key for languageKey ("en-US", "hi-IN", "hi"). Missing
// keys fall back to English; a key unknown everywhere renders as "".
func (c Catalog) Text(languageKey, key string, args ...any) string {
	tmpl, ok := c[Base(languageKey)][key]
	if !ok || tmpl == "" {
		tmpl = c[Fallback][key]
	}
	return fill(tmpl, args)
}

// Base strips the region: "en-US" -> "en".
func Base(languageKey string) string {
	base, _, _ := strings.Cut(languageKey, "-")
	base = strings.ToLower(strings.TrimSpace(base))
	if base == "" {
		return Fallback
	}
	return base
}

// fill replaces {name} with the value following name in args.
func fill(tmpl string, args []any) string {
	if len(args) < 2 {
		return tmpl
	}
	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, fmt.Sprintf("{%v}", args[i]), fmt.Sprint(args[i+1]))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
