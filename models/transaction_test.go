package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDaysOverdue(t *testing.T) {
	cases := []struct {
		expected, now string
		want          int
	}{
		{"2026-02-17 00:00", "2026-02-17 23:59", 0},
		{"2026-02-17 00:00", "2026-02-18 00:01", 1},
		{"2026-02-17 00:00", "2026-03-01 12:00", 12},
		{"2026-02-17 00:00", "2026-02-10 09:00", 0}, // future dates clamp to 0
		{"2025-12-31 00:00", "2026-01-01 00:00", 1},
	}
	for _, tc := range cases {
		got := DaysOverdue(day(tc.expected), day(tc.now))
		assert.Equal(t, tc.want, got, "%s -> %s", tc.expected, tc.now)
		assert.GreaterOrEqual(t, got, 0)
	}
}

func TestIsOverdueIgnoresTimeOfDay(t *testing.T) {
	due := day("2026-02-17 00:00")
	assert.False(t, IsOverdue(due, day("2026-02-17 23:59")))
	assert.True(t, IsOverdue(due, day("2026-02-18 00:00")))
	assert.False(t, IsOverdue(due, day("2026-02-01 08:00")))
}

func TestTransactionOverdue(t *testing.T) {
	now := day("2026-02-20 10:00")
	past := datatypes.Date(day("2026-02-18 00:00"))

	assert.True(t, Transaction{Status: TransactionActive, ExpectedReturn: past}.Overdue(now))
	assert.True(t, Transaction{Status: TransactionOverdue, ExpectedReturn: past}.Overdue(now))
	assert.False(t, Transaction{Status: TransactionCompleted, ExpectedReturn: past}.Overdue(now))
	assert.False(t, Transaction{Status: TransactionActive, ExpectedReturn: datatypes.Date(now)}.Overdue(now))
}

func TestStatusEnums(t *testing.T) {
	for _, s := range []AssetStatus{AssetGood, AssetWarning, AssetDefective, AssetBorrowed, AssetRetired} {
		assert.True(t, s.Valid(), s)
	}
	_, err := ParseAssetStatus("missing")
	assert.Error(t, err)
	st, err := ParseAssetStatus("warning")
	assert.NoError(t, err)
	assert.Equal(t, AssetWarning, st)

	assert.True(t, TransactionOverdue.Open())
	assert.False(t, TransactionCompleted.Open())
	assert.False(t, TransactionStatus("lost").Valid())
	assert.True(t, LogUpgrade.Valid())
	assert.False(t, RepairStatus("done").Valid())
}

func TestLowStockAndShortage(t *testing.T) {
	assert.True(t, Asset{IsConsumable: true, Quantity: 2, MinStock: 5}.IsLowStock())
	assert.True(t, Asset{IsConsumable: true, Quantity: 5, MinStock: 5}.IsLowStock())
	assert.False(t, Asset{IsConsumable: true, Quantity: 6, MinStock: 5}.IsLowStock())
	assert.False(t, Asset{IsConsumable: false, Quantity: 0, MinStock: 5}.IsLowStock())
	assert.Equal(t, 3, Asset{Quantity: 2, MinStock: 5}.Shortage())
}
