package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	log "log/slog"

	"newsvox/internal/ai"
	"newsvox/internal/audio"
	"newsvox/internal/config"
	"newsvox/internal/dialogue"
	"newsvox/internal/ipc"
	"newsvox/internal/logging"
	"newsvox/internal/news"
	"newsvox/internal/notify"
	"newsvox/internal/proxy"
	"newsvox/internal/speech"
	"newsvox/internal/tts"
	"newsvox/pkg/protocol"
	"newsvox/pkg/stt"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	cfgFile := cli.StringP("config", "c", "", "Config file path")
	logLevel := cli.StringP("log", "l", "", "Log level")
	socket := cli.StringP("socket", "s", "", "Control socket path")
	replay := cli.StringSliceP("replay", "r", nil, "Replay audio files instead of the microphone")
	autostart := cli.BoolP("start", "S", false, "Start listening right away")
	cli.Parse()

	godotenv.Load(*envFile)

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		logging.Setup("info").Error("Failed to load config", "err", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *socket != "" {
		cfg.Control.Socket = *socket
	}
	if len(*replay) > 0 {
		cfg.Recognition.Engine = "replay"
		cfg.Recognition.ReplayFiles = *replay
	}

	logger := logging.Setup(cfg.LogLevel)
	log.Info("Booting up", "lang", cfg.Language, "engine", cfg.Recognition.Engine)

	httpClient, err := proxy.NewHTTPClient(cfg.Gateway.SocksProxy, cfg.Gateway.Timeout)
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", cfg.Gateway.SocksProxy, "err", err)
		os.Exit(1)
	}

	gen, err := newGenerator(cfg.Gateway, httpClient)
	if err != nil {
		log.Error("Failed to set up AI backend", "err", err)
		os.Exit(1)
	}
	newsClient := news.NewClient(cfg.Gateway.BaseURL, httpClient)

	log.Debug("Loaded gateways", "base", cfg.Gateway.BaseURL, "ai", cfg.Gateway.AIBackend)

	engine, closeEngine, err := newEngine(cfg.Recognition, logger.With("component", "audio"))
	if err != nil {
		log.Error("Failed to init recognition", "err", err)
		os.Exit(1)
	}
	defer closeEngine()

	log.Debug("Loaded recognizer")

	var speaker dialogue.Speaker
	if cfg.Speech.Enabled {
		var ducker tts.Ducker
		if cfg.Speech.Duck {
			ducker = audio.NewDucker(audio.Pactl{}, audio.DuckConfig{
				Self:   []string{"espeak", "newsvox"},
				Factor: cfg.Speech.DuckFactor,
				Fade:   cfg.Speech.DuckFade,
			})
		}
		synth, err := tts.NewEspeak(ducker, logger.With("component", "tts"))
		if err != nil {
			log.Error("Failed to init espeak", "err", err)
			os.Exit(1)
		}
		defer synth.Close()

		seq := speech.NewSequencer(synth, cfg.Speech.Gap, logger.With("component", "speech"))
		defer seq.Close()
		speaker = seq

		log.Debug("Loaded speech", "voices", len(synth.Voices()))
	}

	cues, err := notify.LoadCues(map[string]string{
		dialogue.CueStart: cfg.Cues.Start,
		dialogue.CueStop:  cfg.Cues.Stop,
	}, logger.With("component", "cues"))
	if err != nil {
		log.Warn("Failed to load cues", "err", err)
		cues = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ctrl *dialogue.Controller
	notifiers := notify.Multi{notify.NewConsole(logger.With("component", "ui"))}
	if cfg.UI.Desktop {
		notifiers = append(notifiers, notify.NewDesktop(nil, logger.With("component", "desktop")))
	}

	var bus *protocol.Bus
	if cfg.UI.BusURL != "" {
		bus = protocol.NewBus(protocol.BusConfig{
			URL:       cfg.UI.BusURL,
			Reconnect: cfg.UI.Reconnect,
			OnCommand: func(c protocol.Command) {
				if resp := dispatch(ctx, ctrl, ipc.ControlMessage{Cmd: c.Cmd, Args: c.Args}); !resp.OK {
					log.Warn("Bus command rejected", "cmd", c.Cmd, "err", resp.Error)
				}
			},
			Log: logger.With("component", "bus"),
		})
		notifiers = append(notifiers, notify.NewBus(bus))
	}

	deps := dialogue.Deps{
		Engine:   engine,
		Speaker:  speaker,
		News:     newsClient,
		AI:       gen,
		Notifier: notifiers,
		Vocab:    cfg.Vocabulary,
		Catalog:  cfg.Messages,
		Log:      logger.With("component", "dialogue"),
	}
	if cues != nil {
		deps.Cues = cues
	}

	opts := dialogue.DefaultOptions()
	opts.Language = cfg.Language
	opts.RestartDelay = cfg.Recognition.RestartDelay
	opts.ListenWhilePaused = cfg.Recognition.ListenWhilePaused
	opts.RequestTimeout = cfg.Gateway.Timeout

	ctrl = dialogue.NewController(deps, opts)

	srv := ipc.NewServer(cfg.Control.Socket, func(ctx context.Context, msg ipc.ControlMessage) ipc.Response {
		return dispatch(ctx, ctrl, msg)
	}, logger.With("component", "ipc"))
	if err := srv.Listen(); err != nil {
		log.Error("Failed ipc server", "socket", cfg.Control.Socket, "err", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.Serve(ctx); err != nil {
			log.Error("IPC server stopped", "err", err)
		}
	}()
	if bus != nil {
		go bus.Run(ctx)
	}

	log.Info("Boot up - successful", "socket", cfg.Control.Socket)

	if *autostart {
		go func() {
			if err := ctrl.Post(ctx, dialogue.Command{Kind: dialogue.CmdStart}); err != nil {
				log.Warn("Autostart failed", "err", err)
			}
		}()
	}

	if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Session ended", "err", err)
	}

	log.Info("Shutting down")
}

func newGenerator(cfg config.GatewayConfig, httpClient *http.Client) (ai.Generator, error) {
	switch cfg.AIBackend {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, errors.New("OPENAI_API_KEY not set")
		}
		return ai.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel, httpClient), nil
	default:
		return ai.NewProxyClient(cfg.BaseURL, httpClient), nil
	}
}

// newEngine builds the capture engine and returns its cleanup.
func newEngine(cfg config.RecognitionConfig, logger *log.Logger) (*audio.CaptureEngine, func(), error) {
	whisper, err := stt.NewTranscriber(cfg.ModelPath)
	if err != nil {
		return nil, nil, err
	}

	vad := audio.VAD{
		SilenceRMS:   cfg.SilenceRMS,
		Silence:      cfg.Silence,
		MaxUtterance: cfg.MaxUtterance,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if cfg.Engine == "replay" {
		src := audio.NewFileSource(cfg.ReplayFiles)
		cleanup := func() { whisper.Close() }
		return audio.NewCaptureEngine(src, whisper, vad, cfg.Threads, logger), cleanup, nil
	}

	rec := audio.NewRecorder()
	if err := rec.Init(); err != nil {
		whisper.Close()
		return nil, nil, err
	}
	cleanup := func() {
		rec.Close()
		whisper.Close()
	}
	return audio.NewCaptureEngine(rec, whisper, vad, cfg.Threads, logger), cleanup, nil
}
