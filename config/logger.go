package config

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var appLogger = logrus.New()

// InitLogger configures the application logger from cfg.
// JSON output goes to stdout and, when LOG_FILE is set, to a rotating file.
func InitLogger(cfg *Config) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}
	l.SetOutput(out)

	if err != nil {
		l.WithField("log_level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, falling back to info")
	}

	appLogger = l
	return l
}

// GetLogger returns the application logger
func GetLogger() *logrus.Logger {
	return appLogger
}

// SetLogger replaces the application logger (primarily for testing)
func SetLogger(l *logrus.Logger) {
	appLogger = l
}
