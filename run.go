package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gqlgo/gqlc/config"
	"github.com/gqlgo/gqlc/extension"
	"github.com/gqlgo/gqlc/plugins"
)

func run(ctx context.Context) error {
	cfgFile, err := config.FindConfigFile(".", []string{".gqlc.yml", "gqlc.yml", ".gqlc.yaml", "gqlc.yaml"})
	if err != nil {
		return fmt.Errorf("failed to find config file: %w", err)
	}

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	if cfg.GQLCConfig.PropertyGen.IsDefined() {
		if err := cfg.LoadSchema(); err != nil {
			return fmt.Errorf("failed to load schema: %w", err)
		}

		if err := cfg.GQLCConfig.LoadQuery(); err != nil {
			return fmt.Errorf("failed to load query: %w", err)
		}

		if err := plugins.GenerateCode(cfg); err != nil {
			return fmt.Errorf("failed to generate code: %w", err)
		}

		return nil
	}

	return runServer(ctx, cfg.GQLCConfig.Server, filepath.Dir(cfgFile))
}

// runServer launches the configured language server and forwards its
// notifications to the console until interrupted.
func runServer(ctx context.Context, serverConfig *config.ServerConfig, workspace string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui := extension.NewConsoleUI(os.Stdout)
	client := extension.NewClient(serverConfig, workspace, ui, ui, ui)

	if err := client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start language server: %w", err)
	}

	<-ctx.Done()

	return client.Stop(context.Background())
}
