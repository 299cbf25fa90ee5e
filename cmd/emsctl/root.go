package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/isira-aw/Metropolitan-NEW-EMS/config"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/repository"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/service"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/database"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/jwt"
	applogger "github.com/isira-aw/Metropolitan-NEW-EMS/pkg/logger"
)

// env is what every subcommand needs; built lazily so --help works offline.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func newRootCmd() *cobra.Command {
	var configPath string
	e := &env{}

	root := &cobra.Command{
		Use:           "emsctl",
		Short:         "Operator tasks for the Metropolitan EMS backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(*cobra.Command, []string) {
			e.close()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file")

	open := func() (*env, error) {
		if e.db != nil {
			return e, nil
		}
		return e, e.open(configPath)
	}

	root.AddCommand(
		newMigrateCmd(open),
		newScoresCmd(open),
		newJobCardsCmd(open),
		newUsersCmd(open),
	)
	return root
}

type opener func() (*env, error)

func (e *env) open(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	e.cfg, e.logger, e.db = cfg, logger, db
	return nil
}

// services wires the use cases without redis, storage or notifications.
func (e *env) services() (*service.Service, error) {
	clk, err := clock.Load(e.cfg.Clock.TimeZone)
	if err != nil {
		return nil, err
	}
	return service.NewService(service.Deps{
		Config: e.cfg,
		Repo:   repository.NewRepository(e.db),
		Clock:  clk,
		JWT:    jwt.NewManager(&e.cfg.Auth),
		Logger: e.logger,
	})
}

func (e *env) close() {
	if e.db != nil {
		if sqlDB, err := e.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if e.logger != nil {
		e.logger.Sync()
	}
}
