package db

import (
	"context"
	"fmt"
	"lab_inventory/models"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := Open("sqlite", ":memory:", logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// fixture holds the reference rows most tests need.
type fixture struct {
	repo     *Repo
	clock    *testClock
	laptops  models.Category
	cables   models.Category
	seat     models.Location
	alice    models.Student
	bob      models.Student
	assetIDs []uint
}

// newFixture seeds two categories, one seat, two students and four assets
// (ids 1..4) and pins the clock to 2026-02-10 09:00 UTC.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := setupTestDB(t)
	clock := &testClock{t: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)}
	f := &fixture{repo: NewRepo(gdb).WithClock(clock.Now), clock: clock}

	f.laptops = models.Category{Name: "Laptop", Icon: "💻"}
	f.cables = models.Category{Name: "Cable", Icon: "🔌"}
	require.NoError(t, gdb.Create(&f.laptops).Error)
	require.NoError(t, gdb.Create(&f.cables).Error)

	f.seat = models.Location{LabName: "Lab A", Row: 1, Position: 1, IsActive: true}
	require.NoError(t, gdb.Create(&f.seat).Error)

	f.alice = models.Student{Name: "Alice Tan", Number: "S001", IsActive: true}
	f.bob = models.Student{Name: "Bob Lee", Number: "S002", IsActive: true}
	require.NoError(t, gdb.Create(&f.alice).Error)
	require.NoError(t, gdb.Create(&f.bob).Error)

	for i := 1; i <= 4; i++ {
		a, err := f.repo.Register(context.Background(), AssetInput{
			SerialNumber: ptr(fmt.Sprintf("SN-%03d", i)),
			Name:         ptr(fmt.Sprintf("ThinkPad %d", i)),
			CategoryID:   ptr(f.laptops.ID),
		})
		require.NoError(t, err)
		f.assetIDs = append(f.assetIDs, a.ID)
	}
	return f
}

func (f *fixture) asset(t *testing.T, id uint) models.Asset {
	t.Helper()
	var a models.Asset
	require.NoError(t, f.repo.DB.First(&a, id).Error)
	return a
}

func (f *fixture) transaction(t *testing.T, id uint) models.Transaction {
	t.Helper()
	var tx models.Transaction
	require.NoError(t, f.repo.DB.First(&tx, id).Error)
	return tx
}

func ptr[T any](v T) *T { return &v }
