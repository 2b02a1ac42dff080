// app/bootstrap.go
package app

import (
	"context"
	"lab_inventory/db"
)

// BootstrapReference seeds reference data from SEED_FILE when one is set.
// Failures are logged, not fatal: the service still runs on existing data.
func (a *App) BootstrapReference(ctx context.Context, repo *db.Repo) {
	if a.Config.SeedFile == "" {
		return
	}
	sd, err := db.LoadSeedFile(a.Config.SeedFile)
	if err != nil {
		a.Logger.Error("bootstrap seed failed", "file", a.Config.SeedFile, "error", err)
		return
	}
	n, err := repo.SeedReference(ctx, sd)
	if err != nil {
		a.Logger.Error("bootstrap seed failed", "file", a.Config.SeedFile, "error", err)
		return
	}
	a.Logger.Info("bootstrap seed applied",
		"file", a.Config.SeedFile,
		"categories", n.Categories,
		"locations", n.Locations,
		"students", n.Students)
}
