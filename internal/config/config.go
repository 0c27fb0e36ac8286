package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"newsvox/internal/i18n"
	"newsvox/internal/nlu"
)

const (
	configPathEnv = "NEWSVOX_CONFIG"
	baseURLEnv    = "NEWSVOX_BASE_URL"
	languageEnv   = "NEWSVOX_LANG"
	busURLEnv     = "NEWSVOX_BUS_URL"
	socksEnv      = "NEWSVOX_SOCKS"
	logLevelEnv   = "NEWSVOX_LOG"
	openAIKeyEnv  = "OPENAI_API_KEY"
	geminiKeyEnv  = "GEMINI_API_KEY"
	gnewsKeyEnv   = "GNEWS_API_KEY"
)

// Config holds the settings of the daemon and the proxy server.
type Config struct {
	Language string `yaml:"language"`
	LogLevel string `yaml:"logLevel"`

	Gateway     GatewayConfig     `yaml:"gateway"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Speech      SpeechConfig      `yaml:"speech"`
	Cues        CueConfig         `yaml:"cues"`
	UI          UIConfig          `yaml:"ui"`
	Control     ControlConfig     `yaml:"control"`
	Proxy       ProxyConfig       `yaml:"proxy"`

	Vocabulary nlu.Vocabulary `yaml:"vocabulary"`
	Messages   i18n.Catalog   `yaml:"messages"`
}

// GatewayConfig says where news and AI requests go.
type GatewayConfig struct {
	BaseURL string `yaml:"baseUrl"`
	// AIBackend is "proxy" or "openai".
	AIBackend   string        `yaml:"aiBackend"`
	OpenAIModel string        `yaml:"openaiModel"`
	OpenAIKey   string        `yaml:"-"`
	SocksProxy  string        `yaml:"socksProxy"`
	Timeout     time.Duration `yaml:"timeout"`
}

// RecognitionConfig tunes capture and transcription.
type RecognitionConfig struct {
	// Engine is "mic" or "replay".
	Engine            string        `yaml:"engine"`
	ModelPath         string        `yaml:"modelPath"`
	Threads           int           `yaml:"threads"`
	RestartDelay      time.Duration `yaml:"restartDelay"`
	ListenWhilePaused bool          `yaml:"listenWhilePaused"`
	SilenceRMS        float64       `yaml:"silenceRms"`
	Silence           time.Duration `yaml:"silence"`
	MaxUtterance      time.Duration `yaml:"maxUtterance"`
	IdleTimeout       time.Duration `yaml:"idleTimeout"`
	ReplayFiles       []string      `yaml:"replayFiles"`
}

type SpeechConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Gap        time.Duration `yaml:"gap"`
	Duck       bool          `yaml:"duck"`
	DuckFactor float64       `yaml:"duckFactor"`
	DuckFade   time.Duration `yaml:"duckFade"`
}

type CueConfig struct {
	Start string `yaml:"start"`
	Stop  string `yaml:"stop"`
}

// UIConfig describes the visual outputs.
type UIConfig struct {
	BusURL    string        `yaml:"busUrl"`
	Reconnect time.Duration `yaml:"reconnect"`
	Desktop   bool          `yaml:"desktop"`
}

type ControlConfig struct {
	Socket string `yaml:"socket"`
}

// ProxyConfig is used by the proxy server only. Keys never come from the
// file.
type ProxyConfig struct {
	Addr string `yaml:"addr"`
	// AIProvider is "gemini" or "openai".
	AIProvider  string `yaml:"aiProvider"`
	GeminiModel string `yaml:"geminiModel"`
	OpenAIModel string `yaml:"openaiModel"`
	NewsBaseURL string `yaml:"newsBaseUrl"`
	MaxArticles int    `yaml:"maxArticles"`

	GeminiKey string `yaml:"-"`
	OpenAIKey string `yaml:"-"`
	GNewsKey  string `yaml:"-"`
}

// Load starts from defaults, overlays the YAML file at path (or
// $NEWSVOX_CONFIG when path is empty) and applies environment overrides.
// A missing file is not an error when no path was requested explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(configPathEnv)
		explicit = path != ""
	}
	if path == "" {
		path = "newsvox.yaml"
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Parse(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse overlays raw YAML onto cfg. Lists in the file replace the default
// lists; message catalogs are merged key by key.
func Parse(raw []byte, cfg *Config) error {
	defaults := cfg.Messages
	cfg.Messages = nil

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return err
	}

	cfg.Messages = defaults.Merge(cfg.Messages)
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(baseURLEnv); v != "" {
		c.Gateway.BaseURL = v
	}
	if v := os.Getenv(languageEnv); v != "" {
		c.Language = v
	}
	if v := os.Getenv(busURLEnv); v != "" {
		c.UI.BusURL = v
	}
	if v := os.Getenv(socksEnv); v != "" {
		c.Gateway.SocksProxy = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.LogLevel = v
	}

	c.Gateway.OpenAIKey = os.Getenv(openAIKeyEnv)
	c.Proxy.OpenAIKey = os.Getenv(openAIKeyEnv)
	c.Proxy.GeminiKey = os.Getenv(geminiKeyEnv)
	c.Proxy.GNewsKey = os.Getenv(gnewsKeyEnv)
}

// Validate rejects settings the binaries cannot start with.
func (c *Config) Validate() error {
	var problems []string

	switch c.Gateway.AIBackend {
	case "proxy", "openai":
	default:
		problems = append(problems, fmt.Sprintf("gateway.aiBackend: unknown %q", c.Gateway.AIBackend))
	}
	switch c.Recognition.Engine {
	case "mic", "replay":
	default:
		problems = append(problems, fmt.Sprintf("recognition.engine: unknown %q", c.Recognition.Engine))
	}
	switch c.Proxy.AIProvider {
	case "gemini", "openai":
	default:
		problems = append(problems, fmt.Sprintf("proxy.aiProvider: unknown %q", c.Proxy.AIProvider))
	}
	if strings.TrimSpace(c.Gateway.BaseURL) == "" {
		problems = append(problems, "gateway.baseUrl: empty")
	}
	if len(c.Vocabulary.Categories) == 0 {
		problems = append(problems, "vocabulary.categories: empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func Default() Config {
	return Config{
		Language: "en-US",
		LogLevel: "info",
		Gateway: GatewayConfig{
			BaseURL:     "http://127.0.0.1:8080",
			AIBackend:   "proxy",
			OpenAIModel: "gpt-5-nano",
			Timeout:     30 * time.Second,
		},
		Recognition: RecognitionConfig{
			Engine:            "mic",
			ModelPath:         "third_party/whisper.cpp/models/ggml-base.bin",
			RestartDelay:      300 * time.Millisecond,
			ListenWhilePaused: true,
			SilenceRMS:        0.015,
			Silence:           600 * time.Millisecond,
			MaxUtterance:      10 * time.Second,
			IdleTimeout:       8 * time.Second,
		},
		Speech: SpeechConfig{
			Enabled:    true,
			Gap:        600 * time.Millisecond,
			Duck:       false,
			DuckFactor: 0.3,
			DuckFade:   200 * time.Millisecond,
		},
		Cues: CueConfig{
			Start: "start-sound.mp3",
			Stop:  "stop-sound.mp3",
		},
		UI: UIConfig{
			Reconnect: 2 * time.Second,
			Desktop:   true,
		},
		Control: ControlConfig{Socket: "/tmp/newsvox.sock"},
		Proxy: ProxyConfig{
			Addr:        ":8080",
			AIProvider:  "gemini",
			GeminiModel: "gemini-2.0-flash",
			OpenAIModel: "gpt-5-nano",
			NewsBaseURL: "https://gnews.io/api/v4",
			MaxArticles: 10,
		},
		Vocabulary: nlu.DefaultVocabulary(),
		Messages:   i18n.DefaultCatalog(),
	}
}
