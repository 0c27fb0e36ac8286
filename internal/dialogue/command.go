package dialogue

import (
	"fmt"
	"strconv"
	"strings"

	"newsvox/internal/ai"
)

type CommandKind int

const (
	CmdStart CommandKind = iota
	CmdTogglePause
	CmdResume
	CmdStop
	CmdLanguage
	CmdVisible
	CmdHidden
	CmdSay
	CmdAI
	CmdStatus
)

var commandNames = map[string]CommandKind{
	"start":   CmdStart,
	"pause":   CmdTogglePause,
	"resume":  CmdResume,
	"stop":    CmdStop,
	"lang":    CmdLanguage,
	"visible": CmdVisible,
	"hidden":  CmdHidden,
	"say":     CmdSay,
	"status":  CmdStatus,
}

// Command is a button press, selector change or injected transcript coming
// from outside the microphone path.
type Command struct {
	Kind CommandKind

	// Text carries the language key for CmdLanguage, the transcript for
	// CmdSay and the question for an ask.
	Text string

	// Index is zero-based.
	Index int
	Op    ai.Op

	// Reply receives the session status for CmdStatus. It must be buffered.
	Reply chan<- Status
}

// ParseCommand reads the control-socket form: a verb plus positional args.
// Article numbers are 1-based, as the user sees them.
func ParseCommand(name string, args []string) (Command, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	if kind, ok := commandNames[name]; ok {
		cmd := Command{Kind: kind}
		switch kind {
		case CmdLanguage:
			if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
				return Command{}, fmt.Errorf("lang: want exactly one language key")
			}
			cmd.Text = strings.TrimSpace(args[0])
		case CmdSay:
			cmd.Text = strings.Join(args, " ")
			if strings.TrimSpace(cmd.Text) == "" {
				return Command{}, fmt.Errorf("say: empty transcript")
			}
		}
		return cmd, nil
	}

	op, err := ai.ParseOp(name)
	if err != nil {
		return Command{}, fmt.Errorf("unknown command %q", name)
	}
	if len(args) == 0 {
		return Command{}, fmt.Errorf("%s: missing article number", name)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return Command{}, fmt.Errorf("%s: bad article number %q", name, args[0])
	}

	cmd := Command{Kind: CmdAI, Op: op, Index: n - 1}
	if op == ai.OpAsk {
		cmd.Text = strings.TrimSpace(strings.Join(args[1:], " "))
		if cmd.Text == "" {
			return Command{}, fmt.Errorf("ask: missing question")
		}
	}
	return cmd, nil
}

// Status is a point-in-time copy of the session for the control CLI.
type Status struct {
	Session   Session  `json:"session"`
	Mic       MicState `json:"mic"`
	Articles  int      `json:"articles"`
	Capturing bool     `json:"capturing"`
}
