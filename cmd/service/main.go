package main

import (
	"context"
	"flag"
	"os"
	"os/exec"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/2beens/fitpulse/internal"
	"github.com/2beens/fitpulse/internal/config"
	"github.com/2beens/fitpulse/internal/logging"
	"github.com/2beens/fitpulse/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev ]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config [%s]: %s", *env, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		log.Fatalf("load secrets: %s", err)
	}

	shutdownLogging := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        secrets.SentryDSN,
		SentryServerName: "fitpulse-backend",
	})
	defer shutdownLogging()

	versionInfo := buildVersion()
	log.WithFields(log.Fields{
		"env":     *env,
		"port":    cfg.Port,
		"logs":    cfg.LogsPath,
		"version": versionInfo,
	}).Info("fitpulse backend starting")

	if cfg.PhotoStorage == "disk" {
		if err := ensureDir(cfg.PhotosDiskRootPath); err != nil {
			log.Fatalf("meal photos dir: %s", err)
		}
	}

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:      cfg,
			Secrets:     secrets,
			VersionInfo: versionInfo,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	<-ctx.Done()
	log.Warn("shutdown signal received")
	server.GracefulShutdown()
}

func ensureDir(path string) error {
	exists, err := pkg.PathExists(path, true)
	if err != nil || exists {
		return err
	}
	return os.MkdirAll(path, 0o750)
}

// buildVersion prefers the revision stamped in by the go toolchain and falls
// back to asking git, which only works when running from the repo root.
func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return setting.Value
			}
		}
	}

	out, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		log.Tracef("no version info: %s", err)
		return "unknown"
	}
	return strings.TrimSpace(pkg.BytesToString(out))
}
