package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/2beens/fitpulse/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMB  = 50
	logFileMaxBackups = 10
	logFileMaxAgeDays = 30
	sentryFlushWait   = 2 * time.Second
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger and returns a func that flushes
// sentry and closes the log file. It is safe to call the returned func more than once.
func Setup(params LoggerSetupParams) (shutdown func()) {
	var closers []func()
	shutdown = func() {
		for _, c := range closers {
			c()
		}
		closers = nil
	}

	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetLevel(GetLevel(params.LogLevel))

	if params.SentryEnabled {
		if err := setupSentry(params); err != nil {
			logrus.Errorf("sentry init: %s", err)
		} else {
			closers = append(closers, func() { sentry.Flush(sentryFlushWait) })
			logrus.Info("sentry hook installed")
		}
	}

	out, closeFile := logOutput(params)
	if closeFile != nil {
		closers = append(closers, closeFile)
	}
	logrus.SetOutput(out)

	return shutdown
}

func setupSentry(params LoggerSetupParams) error {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              params.SentryDSN,
		Environment:      params.Environment,
		ServerName:       params.SentryServerName,
		TracesSampleRate: 0.2,
	})
	if err != nil {
		return err
	}
	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	return nil
}

func logOutput(params LoggerSetupParams) (io.Writer, func()) {
	if params.LogFileName == "" {
		return os.Stdout, nil
	}

	fileName := params.LogFileName
	if filepath.Ext(fileName) != ".log" {
		fileName += ".log"
	}
	rotating := &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxAgeDays,
		Compress:   true,
	}
	closeFile := func() { _ = rotating.Close() }

	if params.LogToStdout {
		return pkg.NewCombinedWriter(os.Stdout, rotating), closeFile
	}
	return rotating, closeFile
}

// GetLevel parses a level name, case-insensitive. Unknown names mean trace.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.TraceLevel
	}
	return parsed
}
