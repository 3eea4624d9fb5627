package logx

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug        bool `split_words:"true" default:"false"`
	PrettyFormat bool `split_words:"true" default:"false"`
}

var DefaultConfig = &Config{}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

// Init installs the process-wide zerolog logger. Call once at startup;
// components pick it up through rs/zerolog/log.
func Init(opts ...Config) {
	conf := safe(opts...)

	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	var out = zerolog.New(os.Stdout)
	if conf.PrettyFormat {
		out = zerolog.New(zerolog.NewConsoleWriter())
	}

	log.Logger = out.Level(level).With().Timestamp().Caller().Stack().Logger()
}

// With returns a child logger tagged with the owning component name.
func With(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}
