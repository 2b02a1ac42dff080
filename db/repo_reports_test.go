package db

import (
	"context"
	"lab_inventory/models"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRepairLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	log, err := f.repo.CreateRepairLog(ctx, RepairLogInput{
		AssetID:     1,
		LogType:     models.LogRepair,
		Description: "fan noise",
		Action:      "replaced fan",
		Cost:        ptr(decimal.RequireFromString("35.5")),
		Parts:       "fan",
		Technician:  "Chen",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RepairPending, log.Status)
	assert.True(t, decimal.RequireFromString("35.50").Equal(log.Cost))

	// the asset is not touched by logging
	assert.Equal(t, models.AssetGood, f.asset(t, 1).Status)

	minimal, err := f.repo.CreateRepairLog(ctx, RepairLogInput{AssetID: 2, LogType: models.LogDefect, Description: "dead pixel"})
	require.NoError(t, err)
	assert.True(t, minimal.Cost.IsZero())
}

func TestCreateRepairLogErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    RepairLogInput
		field string
	}{
		{"missing asset", RepairLogInput{LogType: models.LogRepair, Description: "x"}, "assetId"},
		{"missing type", RepairLogInput{AssetID: 1, Description: "x"}, "logType"},
		{"unknown type", RepairLogInput{AssetID: 1, LogType: "polish", Description: "x"}, "logType"},
		{"missing description", RepairLogInput{AssetID: 1, LogType: models.LogRepair, Description: " "}, "description"},
		{"negative cost", RepairLogInput{AssetID: 1, LogType: models.LogRepair, Description: "x", Cost: ptr(decimal.NewFromInt(-5))}, "cost"},
		{"unknown status", RepairLogInput{AssetID: 1, LogType: models.LogRepair, Description: "x", Status: "done"}, "status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.repo.CreateRepairLog(ctx, tc.in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	var ne *NotFoundError
	_, err := f.repo.CreateRepairLog(ctx, RepairLogInput{AssetID: 99, LogType: models.LogRepair, Description: "x"})
	require.ErrorAs(t, err, &ne)
}

func TestListRepairLogs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i, id := range []uint{1, 2, 1} {
		_, err := f.repo.CreateRepairLog(ctx, RepairLogInput{AssetID: id, LogType: models.LogUpgrade, Description: "ram"})
		require.NoError(t, err)
		f.clock.Advance(time.Duration(i+1) * time.Hour)
	}

	all, err := f.repo.ListRepairLogs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, !all[0].LogDate.Before(all[1].LogDate))
	assert.True(t, !all[1].LogDate.Before(all[2].LogDate))

	one, err := f.repo.ListRepairLogs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, one, 2)
	assert.Equal(t, "ThinkPad 1", one[0].AssetName)
}

func TestHistoryMergesRepairsAndLoans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.repo.CreateRepairLog(ctx, RepairLogInput{AssetID: 1, LogType: models.LogRepair, Description: "cracked hinge", Action: "new hinge"})
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	loan, err := f.repo.Borrow(ctx, BorrowInput{AssetID: 1, StudentID: f.alice.ID, ExpectedReturn: "2026-02-17"})
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.repo.Return(ctx, loan.ID, "")
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.repo.CreateRepairLog(ctx, RepairLogInput{AssetID: 1, LogType: models.LogDefect, Description: "battery swollen"})
	require.NoError(t, err)
	// another asset's history must not leak in
	_, err = f.repo.CreateRepairLog(ctx, RepairLogInput{AssetID: 2, LogType: models.LogRepair, Description: "other"})
	require.NoError(t, err)

	h, err := f.repo.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, h, 3)

	assert.Equal(t, EntryRepair, h[0].Type)
	assert.Equal(t, "battery swollen", h[0].Description)

	assert.Equal(t, EntryTransaction, h[1].Type)
	assert.Equal(t, "borrow - Alice Tan", h[1].Description)
	assert.Equal(t, "Expected return: 2026-02-17", h[1].Details)

	assert.Equal(t, EntryRepair, h[2].Type)
	assert.Equal(t, "new hinge", h[2].Details)

	for i := 1; i < len(h); i++ {
		assert.False(t, h[i].Date.After(h[i-1].Date), "sorted newest first")
	}
}

func TestHistoryCompleteness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	h, err := f.repo.History(ctx, 3)
	require.NoError(t, err)
	assert.NotNil(t, h)
	assert.Empty(t, h)

	for i := 0; i < 2; i++ {
		l, err := f.repo.Borrow(ctx, BorrowInput{AssetID: 3, StudentID: 2, ExpectedReturn: "2026-02-20"})
		require.NoError(t, err)
		_, err = f.repo.Return(ctx, l.ID, "")
		require.NoError(t, err)
		_, err = f.repo.CreateRepairLog(ctx, RepairLogInput{AssetID: 3, LogType: models.LogUpgrade, Description: "ssd"})
		require.NoError(t, err)
	}
	_, err = f.repo.CreateRepairLog(ctx, RepairLogInput{AssetID: 3, LogType: models.LogDefect, Description: "key"})
	require.NoError(t, err)

	var logs, loans int64
	require.NoError(t, f.repo.DB.Model(&models.RepairLog{}).Where("asset_id = ?", 3).Count(&logs).Error)
	require.NoError(t, f.repo.DB.Model(&models.Transaction{}).Where("asset_id = ?", 3).Count(&loans).Error)

	h, err = f.repo.History(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, h, int(logs+loans))

	var ne *NotFoundError
	_, err = f.repo.History(ctx, 999)
	require.ErrorAs(t, err, &ne)
}

func TestLowStockFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg := func(serial string, consumable bool, qty, min int) uint {
		a, err := f.repo.Register(ctx, AssetInput{
			SerialNumber: ptr(serial),
			Name:         ptr("item " + serial),
			CategoryID:   ptr(f.cables.ID),
			IsConsumable: ptr(consumable),
			Quantity:     ptr(qty),
			MinStock:     ptr(min),
		})
		require.NoError(t, err)
		return a.ID
	}
	low := reg("HDMI", true, 2, 5)
	atThreshold := reg("USB-C", true, 5, 5)
	reg("CAT6", true, 6, 5)
	reg("PROJ", false, 0, 5) // not consumable, never listed
	empty := reg("TONER", true, 0, 0)

	rows, err := f.repo.LowStock(ctx)
	require.NoError(t, err)

	got := map[uint]int{}
	var order []uint
	for _, r := range rows {
		assert.True(t, r.IsConsumable)
		assert.LessOrEqual(t, r.Quantity, r.MinStock)
		assert.GreaterOrEqual(t, r.Shortage, 0)
		got[r.ID] = r.Shortage
		order = append(order, r.ID)
	}
	assert.Equal(t, map[uint]int{low: 3, atThreshold: 0, empty: 0}, got)
	assert.Equal(t, []uint{low, atThreshold, empty}, order)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.repo.Register(ctx, AssetInput{
		SerialNumber: ptr("100%_OFF"), Name: ptr("Promo Adapter"), CategoryID: ptr(f.cables.ID),
	})
	require.NoError(t, err)
	_, err = f.repo.Borrow(ctx, BorrowInput{AssetID: 2, StudentID: f.bob.ID, ExpectedReturn: "2026-02-20"})
	require.NoError(t, err)

	byName, err := f.repo.Search(ctx, "thinkpad")
	require.NoError(t, err)
	assert.Len(t, byName, 4)
	assert.Equal(t, "ThinkPad 1", byName[0].Name)

	bySerial, err := f.repo.Search(ctx, "sn-003")
	require.NoError(t, err)
	require.Len(t, bySerial, 1)
	assert.Equal(t, uint(3), bySerial[0].ID)

	byBorrower, err := f.repo.Search(ctx, "BOB")
	require.NoError(t, err)
	require.Len(t, byBorrower, 1)
	assert.Equal(t, uint(2), byBorrower[0].ID)
	require.NotNil(t, byBorrower[0].Borrower)
	assert.Equal(t, "Bob Lee", *byBorrower[0].Borrower)

	// matched on name and serial, listed once
	both, err := f.repo.Search(ctx, "2")
	require.NoError(t, err)
	assert.Len(t, both, 1)

	// wildcards match literally
	lit, err := f.repo.Search(ctx, "%_")
	require.NoError(t, err)
	require.Len(t, lit, 1)
	assert.Equal(t, "Promo Adapter", lit[0].Name)

	var ve *ValidationError
	_, err = f.repo.Search(ctx, "   ")
	require.ErrorAs(t, err, &ve)
}

func TestSearchHonoursCancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.repo.Search(ctx, "thinkpad")
	require.ErrorIs(t, err, context.Canceled)
}
