package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/taskboard/backend/internal/infrastructure/config"
	applog "github.com/taskboard/backend/internal/infrastructure/log"
	"github.com/taskboard/backend/internal/wire"
)

// serveFlags 命令行参数，优先级高于配置文件和环境变量
type serveFlags struct {
	port       string
	dataFile   string
	lockWrites bool
	noWatch    bool
}

func newServeCmd() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "tasks-server",
		Short: "Serve the task list REST API",
		Long: `tasks-server serves a small REST API for a task list.

All tasks live in a single JSON document on disk. Every request
reads the document and every mutation writes it back in full.

Configuration is read from $TASKS_CONFIG (or <data dir>/config.yaml),
then environment variables, then the flags below.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			return runServer(cfg)
		},
	}

	cmd.Flags().StringVarP(&flags.port, "port", "p", "", "HTTP listen address, e.g. 3001 or 127.0.0.1:3001")
	cmd.Flags().StringVar(&flags.dataFile, "data-file", "", "Path of the JSON task document")
	cmd.Flags().BoolVar(&flags.lockWrites, "lock-writes", false, "Serialize read-modify-write cycles with a file lock")
	cmd.Flags().BoolVar(&flags.noWatch, "no-watch", false, "Disable change notifications on /api/tasks/events")

	return cmd
}

// apply 只覆盖显式传入的参数
func (f *serveFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Server.HTTPPort = config.NormalizePort(f.port)
	}
	if cmd.Flags().Changed("data-file") {
		cfg.Storage.DataFile = config.ExpandPath(f.dataFile)
	}
	if cmd.Flags().Changed("lock-writes") {
		cfg.Storage.LockWrites = f.lockWrites
	}
	if f.noWatch {
		cfg.Storage.Watch = false
	}
}

func runServer(cfg *config.Config) error {
	applog.Init(&cfg.Log)
	defer func() { _ = applog.Close() }()

	logger := applog.GetLogger()
	logger.Info("Configuration loaded",
		"port", cfg.Server.HTTPPort,
		"data_file", cfg.Storage.DataFile,
		"lock_writes", cfg.Storage.LockWrites,
		"watch", cfg.Storage.Watch,
	)

	// Wire 生成的初始化函数
	app, err := wire.InitializeAll(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.Start(); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	// 优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case <-sigChan:
		logger.Info("Shutting down application...")
	case serveErr = <-app.Errors():
	}

	if err := app.Stop(); err != nil {
		logger.Error("Error during application shutdown",
			"error", err,
		)
	}
	logger.Info("Application stopped")
	return serveErr
}
