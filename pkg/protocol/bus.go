package protocol

import (
	"context"
	"log/slog"
	"time"
)

type BusConfig struct {
	URL       string
	Reconnect time.Duration
	// Queue bounds the events kept while the bus is unreachable.
	Queue     int
	OnCommand func(Command)
	Log       *slog.Logger
}

// Bus publishes events to the websocket hub and feeds commands coming back
// to OnCommand. It keeps reconnecting until its context ends.
type Bus struct {
	cfg BusConfig
	log *slog.Logger
	out chan Event
}

func NewBus(cfg BusConfig) *Bus {
	if cfg.Reconnect <= 0 {
		cfg.Reconnect = 2 * time.Second
	}
	if cfg.Queue <= 0 {
		cfg.Queue = 64
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Bus{cfg: cfg, log: cfg.Log, out: make(chan Event, cfg.Queue)}
}

// Publish never blocks; when the queue is full the event is dropped.
func (b *Bus) Publish(ev Event) {
	select {
	case b.out <- ev:
	default:
		b.log.Debug("Bus queue full, dropping event", "kind", ev.Kind)
	}
}

func (b *Bus) Run(ctx context.Context) error {
	for {
		web, err := DialWebSocket(ctx, b.cfg.URL)
		if err != nil {
			b.log.Warn("Bus unreachable", "url", b.cfg.URL, "err", err)
		} else {
			b.log.Info("Connected to bus", "url", b.cfg.URL)
			b.serve(ctx, web)
			web.Close()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.cfg.Reconnect):
			b.log.Debug("Trying to reconnect", "url", b.cfg.URL)
		}
	}
}

func (b *Bus) serve(ctx context.Context, web *WebSocket) {
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		b.readLoop(web)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			return
		case ev := <-b.out:
			payload, err := ev.Encode()
			if err != nil {
				b.log.Warn("Dropping bad event", "err", err)
				continue
			}
			if err := web.Write(payload); err != nil {
				b.log.Error("Failed to write to bus", "kind", ev.Kind, "err", err)
				b.Publish(ev)
				return
			}
		}
	}
}

func (b *Bus) readLoop(web *WebSocket) {
	for {
		in := web.read()
		switch in.kind {
		case connClosed:
			b.log.Warn("Bus connection closed", "err", in.err)
			return
		case readFailure:
			b.log.Error("Failed to read from bus", "err", in.err)
			return
		case readOK:
			cmd, err := ParseCommand(in.msg)
			if err != nil {
				b.log.Warn("Failed to parse bus frame", "msg", string(in.msg), "err", err)
				continue
			}
			if b.cfg.OnCommand != nil {
				b.cfg.OnCommand(cmd)
			}
		}
	}
}
