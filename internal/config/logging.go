package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

// NewLogger logs JSON to stderr, or coloured text at debug level in
// development.
func NewLogger() *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, nil)
	if Development() {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level: slog.LevelDebug,
		})
	}
	return slog.New(handler)
}

/*
SetupEngineLog configures a logrus logger the way the service logs: text at
debug level in development, JSON otherwise. When LOG_FILE is set, entries are
also written to a size-rotated file.
*/
func SetupEngineLog(log *logrus.Logger) error {
	logLevel := logrus.InfoLevel
	if Development() {
		logLevel = logrus.DebugLevel
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	log.SetLevel(logLevel)
	log.SetOutput(os.Stderr)

	path := LogFile()
	if path == "" {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   path,
		MaxSize:    16, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Level:      logLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to open log file %s: %w", path, err)
	}
	log.AddHook(hook)
	return nil
}
