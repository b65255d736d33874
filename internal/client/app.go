// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 jbccc

// Package client implements the znote command-line client: a thin UI
// collaborator over the sync engine. Every command talks to the engine's
// operations only; replication, conflict handling, and persistence stay
// inside the engine.
package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbccc/znote/internal/config"
	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/internal/service"
	"github.com/jbccc/znote/models"
)

// App is the client runtime: configuration, the sync engine, and the cobra
// command tree.
type App struct {
	cfg       *config.ClientConfig
	services  *service.ClientServices
	logger    *logger.Logger
	buildInfo string
}

// NewApp loads the client configuration and wires the sync engine.
func NewApp(buildInfo string) (*App, error) {
	log := logger.NewClientLogger("znote-client")

	cfg, err := config.GetClientConfig()
	if err != nil {
		return nil, fmt.Errorf("load client config: %w", err)
	}

	services, err := service.NewClientServices(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("create client services: %w", err)
	}

	return &App{
		cfg:       cfg,
		services:  services,
		logger:    log,
		buildInfo: buildInfo,
	}, nil
}

// Run initializes the engine, executes the command tree, and closes the
// replica.
func (a *App) Run(ctx context.Context) error {
	if err := a.services.Engine.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer a.services.Engine.Close()

	root := a.rootCommand()
	root.SetContext(ctx)

	return root.Execute()
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "znote",
		Short:   "Offline-first note log with multi-device sync",
		Version: a.buildInfo,
		Long: `znote keeps an append-oriented note log on this machine and reconciles it
with the sync server whenever one is reachable. Edits made offline are kept
pending and uploaded on the next sync; conflicting edits from other devices
are preserved as visible "[Conflict]" duplicates, never dropped.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		a.loginCommand(),
		a.logoutCommand(),
		a.meCommand(),
		a.addCommand(),
		a.listCommand(),
		a.removeCommand(),
		a.taskCommand(),
		a.settingsCommand(),
		a.syncCommand(),
		a.copyCommand(),
		a.importCommand(),
		a.conflictsCommand(),
		a.resolveCommand(),
		a.serveCommand(),
	)

	return root
}

// syncIfSignedIn flushes pending changes immediately. CLI processes exit
// before the debounce window elapses, so mutating commands push eagerly.
func (a *App) syncIfSignedIn(ctx context.Context) {
	if a.services.Adapter.Token() == "" {
		return
	}
	if err := a.services.Engine.Sync(ctx); err != nil {
		fmt.Printf("sync warning: %v\n", err)
	}
}

func formatBlock(block models.LocalBlock) string {
	marker := " "
	switch block.SyncStatus {
	case models.StatusPending:
		marker = "*"
	case models.StatusConflict:
		marker = "!"
	}

	return fmt.Sprintf("%s %s  %s  %s", marker, block.CreatedAt.Local().Format("2006-01-02 15:04"), block.ID, block.Text)
}

func formatTask(task models.LocalTask) string {
	marker := " "
	switch task.SyncStatus {
	case models.StatusPending:
		marker = "*"
	case models.StatusConflict:
		marker = "!"
	}

	timeTag := ""
	if task.Time != nil {
		timeTag = *task.Time + " "
	}

	return fmt.Sprintf("%s %s%s  %s", marker, timeTag, task.ID, task.Text)
}
