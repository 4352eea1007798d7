// Package main runs the nutrition MCP server over stdio, for local AI assistants.
// The same server is mounted on the backend at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/2beens/fitpulse/internal/config"
	"github.com/2beens/fitpulse/internal/db"
	"github.com/2beens/fitpulse/internal/meals"
	mealsmcp "github.com/2beens/fitpulse/internal/meals/mcp"
	"github.com/2beens/fitpulse/internal/nutrition"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout carries the MCP protocol
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		log.Fatalf("load secrets: %v", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     secrets.PostgresPassword,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	table := nutrition.DefaultTable()
	if cfg.NutritionTablePath != "" {
		f, err := os.Open(cfg.NutritionTablePath)
		if err != nil {
			log.Fatalf("open nutrition table: %v", err)
		}
		table, err = nutrition.LoadTableYAML(f)
		_ = f.Close()
		if err != nil {
			log.Fatalf("load nutrition table: %v", err)
		}
	}

	server := mealsmcp.NewServer(dbPool, meals.NewRepo(dbPool), table)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
