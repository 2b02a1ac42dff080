package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"lab_inventory/app"
	"lab_inventory/config"
	"lab_inventory/controllers"
	"lab_inventory/db"
	"lab_inventory/jobs"
	"lab_inventory/lease"
	"lab_inventory/routes"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the overdue sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := db.Migrate(a.DB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			a.Logger.Info("schema migrated", "driver", a.Config.DBDriver)
			return nil
		},
	}
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Promote past-due loans to overdue once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()
			n := newSweeper(a, db.NewRepo(a.DB)).SweepOnce(ctx(cmd))
			fmt.Fprintf(cmd.OutOrStdout(), "promoted %d loans to overdue\n", n)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load categories, lab seats and students from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := db.Migrate(a.DB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			sd, err := db.LoadSeedFile(file)
			if err != nil {
				return err
			}
			n, err := db.NewRepo(a.DB).SeedReference(ctx(cmd), sd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories, %d locations, %d students\n",
				n.Categories, n.Locations, n.Students)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Seed file (YAML)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func open() (*app.App, error) {
	cfg := config.Load()
	return app.New(cfg, cfg.NewLogger())
}

func ctx(cmd *cobra.Command) context.Context {
	if c := cmd.Context(); c != nil {
		return c
	}
	return context.Background()
}

func newSweeper(a *app.App, repo *db.Repo) *jobs.OverdueSweeper {
	var locker jobs.Locker
	if a.RDB != nil {
		// lease 比间隔略短，宕机的持有者不会挡住下一轮
		ttl := a.Config.SweepInterval * 9 / 10
		if ttl <= 0 {
			ttl = 30 * time.Second // 一次性 sweep 时 interval 可能为 0
		}
		locker = lease.New(a.RDB, ttl)
	}
	return jobs.NewOverdueSweeper(repo, locker, a.Config.SweepInterval, a.Logger.With("component", "overdue-sweeper"))
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	a, err := open()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := db.Migrate(a.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := controllers.GetSrv(a)
	a.BootstrapReference(ctx, s.Repo)
	routes.RegisterRoutes(a.Router, s)

	if a.Config.SweepEnabled {
		go newSweeper(a, s.Repo).Run(ctx)
	} else {
		a.Logger.Info("overdue sweeper disabled by config")
	}

	srv := &http.Server{
		Addr:              ":" + a.Config.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("listening", "port", a.Config.Port, "driver", a.Config.DBDriver, "redis", a.RDB != nil)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
