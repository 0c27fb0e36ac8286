package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"newsvox/internal/dialogue"
	"newsvox/internal/news"
)

// Runner executes an external command.
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Desktop shows toasts through notify-send and opens links with xdg-open.
// Commands run in the background so the session loop never waits on them.
type Desktop struct {
	run     Runner
	log     *slog.Logger
	timeout time.Duration
}

var _ dialogue.Notifier = (*Desktop)(nil)

func NewDesktop(run Runner, log *slog.Logger) *Desktop {
	if run == nil {
		run = execRunner
	}
	if log == nil {
		log = slog.Default()
	}
	return &Desktop{run: run, log: log, timeout: 5 * time.Second}
}

func (d *Desktop) Toast(msg string) {
	d.spawn("notify-send", "-a", "newsvox", "-t", "2000", "newsvox", msg)
}

func (d *Desktop) ShowArticles(set news.Set) {
	if len(set) == 0 {
		d.spawn("notify-send", "-a", "newsvox", "newsvox", "No news articles found.")
		return
	}

	var b strings.Builder
	for i, a := range set {
		if i == 3 {
			fmt.Fprintf(&b, "… and %d more", len(set)-3)
			break
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, a.Title)
	}
	d.spawn("notify-send", "-a", "newsvox", fmt.Sprintf("%d articles", len(set)), strings.TrimSpace(b.String()))
}

func (d *Desktop) ShowOutput(index int, text string) {
	d.spawn("notify-send", "-a", "newsvox", fmt.Sprintf("Article %d", index+1), text)
}

func (d *Desktop) OpenLink(url string) {
	d.spawn("xdg-open", url)
}

func (d *Desktop) SetMic(dialogue.MicState) {}

func (d *Desktop) spawn(name string, args ...string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.run(ctx, name, args...); err != nil {
			d.log.Warn("Desktop command failed", "cmd", name, "err", err)
		}
	}()
}
