package dialogue

import (
	"context"
	"errors"

	"newsvox/internal/ai"
	"newsvox/internal/i18n"
	"newsvox/internal/news"
	"newsvox/internal/nlu"
	"newsvox/internal/recog"
)

func (c *Controller) handleCommand(ctx context.Context, cmd Command) {
	switch cmd.Kind {
	case CmdStart:
		c.start(ctx)
	case CmdTogglePause:
		switch {
		case !c.session.Listening:
			c.deps.Notifier.Toast(c.text(i18n.StartFirst))
		case c.session.Paused:
			c.resume()
		default:
			c.pause(i18n.Paused)
		}
	case CmdResume:
		c.resume()
	case CmdStop:
		c.stop()
	case CmdLanguage:
		c.setLanguage(cmd.Text)
	case CmdVisible:
		if err := c.rec.SetVisible(true); err != nil {
			c.micError(err)
		}
	case CmdHidden:
		_ = c.rec.SetVisible(false)
	case CmdSay:
		if !c.session.Listening {
			c.deps.Notifier.Toast(c.text(i18n.StartFirst))
			return
		}
		c.handleTranscript(ctx, cmd.Text)
	case CmdAI:
		c.runAI(ctx, cmd.Index, cmd.Op, cmd.Text)
	case CmdStatus:
		if cmd.Reply != nil {
			select {
			case cmd.Reply <- c.status():
			default:
				c.log.Warn("Status reply dropped")
			}
		}
	default:
		c.log.Warn("Unknown command", "kind", cmd.Kind)
	}
}

func (c *Controller) handleRecognition(ctx context.Context, ev recog.Event) {
	switch ev.Kind {
	case recog.Result:
		if !c.rec.Current(ev) || !c.session.Listening {
			c.log.Debug("Dropping stale transcript", "text", ev.Transcript)
			return
		}
		c.handleTranscript(ctx, ev.Transcript)

	case recog.End:
		c.rec.HandleEnd(ev)

	case recog.RestartDue:
		if err := c.rec.HandleRestartDue(ev); err != nil {
			c.micError(err)
		}

	case recog.Error:
		if !c.rec.Current(ev) {
			return
		}
		switch c.rec.HandleError(ev) {
		case recog.Recoverable:
			c.log.Debug("Recognition hiccup", "err", ev.Err)
		case recog.Terminal:
			c.denied(ev.Err)
		case recog.Reportable:
			c.micError(ev.Err)
		}
	}
}

func (c *Controller) handleTranscript(ctx context.Context, raw string) {
	u := nlu.NewUtterance(raw)
	c.log.Info("Heard", "text", u.Normalized)

	intent, ok := c.classifier.Classify(u, c.session.classifierState())
	if !ok {
		c.log.Debug("Utterance dropped", "text", u.Normalized, "paused", c.session.Paused, "awaiting", c.session.AwaitingConfirmation)
		return
	}

	c.log.Debug("Classified", "intent", intent.String())

	switch intent.Kind {
	case nlu.Affirm:
		payload := c.session.PendingConfirmation
		c.session.clearConfirmation()
		if payload != "" {
			c.deps.Speaker.Speak(payload)
		}
	case nlu.Deny:
		c.session.clearConfirmation()
		c.say(i18n.OK)
	case nlu.Stop:
		c.stop()
	case nlu.Pause:
		c.pause(i18n.PausedLong)
	case nlu.Resume:
		c.resume()
	case nlu.ReadHeadlines:
		c.readHeadlines()
	case nlu.Summarize:
		c.runAI(ctx, intent.Index, ai.OpSummarize, "")
	case nlu.SelectOrOpen:
		c.selectArticle(u)
	case nlu.FetchNews:
		c.fetch(ctx, intent.Category, intent.Query)
	default:
		c.deps.Notifier.Toast(c.text(i18n.Unrecognized))
	}
}

func (c *Controller) start(ctx context.Context) {
	if c.session.Listening {
		return
	}

	if err := c.rec.Begin(ctx, c.session.LanguageKey); err != nil {
		if errors.Is(err, recog.ErrPermission) {
			c.denied(err)
			return
		}
		c.micError(err)
		return
	}

	c.session.Listening = true
	c.session.Paused = false
	c.deps.Notifier.SetMic(c.session.Mic())
	c.deps.Cues.Play(CueStart)
	c.log.Info("Listening", "lang", c.session.LanguageKey)
}

func (c *Controller) pause(announcement string) {
	if !c.session.Listening {
		c.deps.Notifier.Toast(c.text(i18n.StartFirst))
		return
	}

	c.session.Paused = true
	if err := c.rec.Pause(); err != nil {
		c.log.Warn("Failed to reopen capture while paused", "err", err)
	}
	c.deps.Notifier.SetMic(c.session.Mic())
	c.say(announcement)
}

func (c *Controller) resume() {
	if !c.session.Listening {
		c.deps.Notifier.Toast(c.text(i18n.StartFirst))
		return
	}

	if err := c.rec.Resume(); err != nil {
		if errors.Is(err, recog.ErrPermission) {
			c.denied(err)
			return
		}
		c.micError(err)
		return
	}
	c.session.Paused = false
	c.deps.Notifier.SetMic(c.session.Mic())
	c.say(i18n.Resumed)
}

// stop is the one hard cancellation point: capture, speech and the
// confirmation sub-state all end here, and in-flight fetches and AI
// requests go stale.
func (c *Controller) stop() {
	c.session.clearConfirmation()
	c.session.Listening = false
	c.session.Paused = false

	c.rec.Halt()
	c.deps.Speaker.Cancel()
	c.fetchSeq++
	c.aiSeq++

	c.deps.Notifier.SetMic(c.session.Mic())
	c.deps.Cues.Play(CueStop)
	c.log.Info("Stopped listening")
}

func (c *Controller) denied(err error) {
	c.log.Warn("Microphone unavailable", "err", err)

	c.session.clearConfirmation()
	c.session.Listening = false
	c.session.Paused = false

	c.deps.Notifier.SetMic(c.session.Mic())
	c.deps.Notifier.Toast(c.text(i18n.MicDenied))
}

func (c *Controller) micError(err error) {
	c.log.Error("Recognition error", "err", err)
	c.deps.Notifier.Toast(c.text(i18n.MicError, "error", err.Error()))
}

func (c *Controller) setLanguage(lang string) {
	c.applyLanguage(lang)
	if err := c.rec.SetLanguage(lang); err != nil {
		c.micError(err)
	}
	c.log.Info("Language changed", "lang", lang)
}

func (c *Controller) readHeadlines() {
	if len(c.articles) == 0 {
		c.say(i18n.NoNews)
		return
	}

	items := make([]string, len(c.articles))
	for i, title := range c.articles.Titles() {
		items[i] = c.text(i18n.Headline, "n", i+1, "title", title)
	}
	c.deps.Speaker.SpeakSequence(items)
}

func (c *Controller) selectArticle(u nlu.Utterance) {
	idx, ok := c.resolver.Resolve(u, c.session.LanguageKey, len(c.articles))
	if !ok {
		c.say(i18n.InvalidSelection)
		return
	}

	a := c.articles[idx]
	if a.URL != "" {
		c.deps.Notifier.OpenLink(a.URL)
	}
	c.session.await(a.Title)
	c.say(i18n.AskRead)
	c.log.Info("Opened article", "n", idx+1, "url", a.URL)
}

func (c *Controller) fetch(ctx context.Context, category, query string) {
	c.fetchSeq++
	seq := c.fetchSeq

	c.log.Info("Fetching news", "category", category, "query", query, "seq", seq)

	go func() {
		reqCtx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
		defer cancel()

		set, err := c.deps.News.Fetch(reqCtx, category, query)
		r := fetchDone{seq: seq, category: category, query: query, set: set, err: err}
		select {
		case c.fetches <- r:
		case <-ctx.Done():
		}
	}()
}

func (c *Controller) applyFetch(r fetchDone) {
	if r.seq != c.fetchSeq {
		c.log.Debug("Discarding stale fetch", "seq", r.seq, "latest", c.fetchSeq, "category", r.category)
		return
	}

	if r.err != nil {
		c.log.Warn("Failed to fetch news", "category", r.category, "err", r.err)
		c.deps.Notifier.Toast(c.text(i18n.ErrorNews))
		c.say(i18n.ErrorNews)
		return
	}

	set := r.set
	if set == nil {
		set = news.Set{}
	}
	c.articles = set
	c.setGen++
	c.deps.Notifier.ShowArticles(set)

	if len(set) == 0 {
		c.say(i18n.NoNews)
		return
	}
	c.say(i18n.FetchedCount, "n", len(set))
	c.log.Info("Fetched news", "category", r.category, "count", len(set))
}

func (c *Controller) runAI(ctx context.Context, index int, op ai.Op, question string) {
	a, ok := c.articles.At(index)
	if !ok {
		c.say(i18n.InvalidSelection)
		return
	}
	if c.deps.AI == nil {
		c.deps.Notifier.ShowOutput(index, c.text(i18n.AIFailed, "op", op))
		return
	}

	c.deps.Notifier.ShowOutput(index, c.text(i18n.Working))
	seq, gen := c.aiSeq, c.setGen
	prompt := ai.Prompt(op, a, question)

	c.log.Info("Asking AI", "op", op, "n", index+1)

	go func() {
		reqCtx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
		defer cancel()

		text, err := c.deps.AI.GenerateText(reqCtx, prompt)
		r := aiDone{seq: seq, gen: gen, index: index, op: op, text: text, err: err}
		select {
		case c.answers <- r:
		case <-ctx.Done():
		}
	}()
}

func (c *Controller) applyAnswer(r aiDone) {
	if r.seq != c.aiSeq {
		c.log.Debug("Discarding AI output requested before stop", "op", r.op, "n", r.index+1)
		return
	}
	if r.gen != c.setGen {
		c.log.Debug("Discarding AI output for a replaced article set", "op", r.op, "n", r.index+1)
		return
	}

	if r.err != nil {
		c.log.Warn("AI request failed", "op", r.op, "err", r.err)
		c.deps.Notifier.ShowOutput(r.index, c.text(i18n.AIFailed, "op", r.op))
		return
	}

	c.deps.Notifier.ShowOutput(r.index, r.text)
	switch r.op {
	case ai.OpSummarize:
		c.say(i18n.SummaryReady, "n", r.index+1)
	case ai.OpAsk:
		c.say(i18n.AnswerReady, "n", r.index+1)
	}
}
