package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultSecret = "dev-secret-change-me"

type Config struct {
	Mode       string `mapstructure:"mode"`
	Port       int    `mapstructure:"port"`
	LogLevel   string `mapstructure:"log_level"`
	StaticPath string `mapstructure:"static_path"`
	Secret     string `mapstructure:"secret"`

	ReadLimit   int64         `mapstructure:"read_limit"`
	PingPeriod  time.Duration `mapstructure:"ping_period"`
	PongWait    time.Duration `mapstructure:"pong_wait"`
	WriteWait   time.Duration `mapstructure:"write_wait"`
	SendBuffer  int           `mapstructure:"send_buffer"`
	MailboxSize int           `mapstructure:"mailbox_size"`

	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// Inbound frames per second per connection; 0 disables the limit.
	SignalRate  float64 `mapstructure:"signal_rate"`
	SignalBurst int     `mapstructure:"signal_burst"`

	// WebSocket connects per browser within ConnectInterval; 0 disables.
	ConnectLimit    int           `mapstructure:"connect_limit"`
	ConnectInterval time.Duration `mapstructure:"connect_interval"`

	ICEServers     []ICEServer `mapstructure:"ice_servers"`
	ICEServersJSON string      `mapstructure:"ice_servers_json"`
}

// Load reads config/config.<CONFIG_ENV>.yaml, then ROULETTE_* env vars,
// then any flags set on the command line, highest last.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Changed {
			fileName = f.Value.String()
		}
	}
	v.SetConfigFile(fileName)

	v.SetEnvPrefix("ROULETTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		for key, name := range map[string]string{
			"mode":      "mode",
			"port":      "port",
			"log_level": "log-level",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if raw := strings.TrimSpace(cfg.ICEServersJSON); raw != "" {
		servers, err := ParseICEServersJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("ice_servers_json: %w", err)
		}
		cfg.ICEServers = servers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).
		Str("static", cfg.StaticPath).Int("ice_servers", len(cfg.ICEServers)).Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("static_path", "./web")
	v.SetDefault("secret", defaultSecret)
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "25s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_wait", "10s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("mailbox_size", 1024)
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("signal_rate", 50)
	v.SetDefault("signal_burst", 100)
	v.SetDefault("connect_limit", 20)
	v.SetDefault("connect_interval", "1m")
	v.SetDefault("ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302", "stun:stun1.l.google.com:19302"}},
	})
	v.SetDefault("ice_servers_json", "")
}

func (c *Config) Validate() error {
	switch c.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported mode %q (want debug|release|test)", c.Mode)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Secret == "" {
		return errors.New("secret is empty")
	}
	if c.Mode == "release" && c.Secret == defaultSecret {
		log.Warn().Str("module", "config").Msg("running release mode with the default session secret")
	}
	if c.ReadLimit <= 0 {
		return fmt.Errorf("read_limit must be positive: %d", c.ReadLimit)
	}
	if c.PingPeriod <= 0 || c.PongWait <= 0 || c.WriteWait <= 0 {
		return errors.New("ping_period, pong_wait and write_wait must be positive")
	}
	if c.PingPeriod >= c.PongWait {
		return fmt.Errorf("ping_period (%s) must be shorter than pong_wait (%s)", c.PingPeriod, c.PongWait)
	}
	if c.SendBuffer <= 0 || c.MailboxSize <= 0 {
		return errors.New("send_buffer and mailbox_size must be positive")
	}
	if c.SignalRate < 0 {
		return fmt.Errorf("signal_rate must not be negative: %v", c.SignalRate)
	}
	if c.SignalRate > 0 && c.SignalBurst < 1 {
		return errors.New("signal_burst must be at least 1 when signal_rate is set")
	}
	if c.ConnectLimit < 0 {
		return fmt.Errorf("connect_limit must not be negative: %d", c.ConnectLimit)
	}
	if c.ConnectLimit > 0 && c.ConnectInterval <= 0 {
		return errors.New("connect_interval must be positive when connect_limit is set")
	}
	for i, s := range c.ICEServers {
		if err := validateICEServer(s); err != nil {
			return fmt.Errorf("ice_servers[%d]: %w", i, err)
		}
	}
	return nil
}

// OriginAllowed reports whether a browser Origin header may open a socket.
// Requests without an Origin header come from non-browser clients.
func (c *Config) OriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range c.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
