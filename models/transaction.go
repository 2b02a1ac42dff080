// models/transaction.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

const TransactionTable = "inv_transactions"

type TransactionType string

const TransactionBorrow TransactionType = "borrow"

type TransactionStatus string

const (
	TransactionActive    TransactionStatus = "active"
	TransactionCompleted TransactionStatus = "completed"
	TransactionOverdue   TransactionStatus = "overdue"
)

// OpenStatuses are the states of a loan that still holds its asset.
var OpenStatuses = []TransactionStatus{TransactionActive, TransactionOverdue}

func (s TransactionStatus) Open() bool {
	return s == TransactionActive || s == TransactionOverdue
}

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionActive, TransactionCompleted, TransactionOverdue:
		return true
	}
	return false
}

type Transaction struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	AssetID         uint              `gorm:"index;not null" json:"assetId"`
	StudentID       uint              `gorm:"index;not null" json:"studentId"`
	Type            TransactionType   `gorm:"column:transaction_type;size:20;not null" json:"type"`
	TransactionDate time.Time         `gorm:"index;not null" json:"date"`
	ExpectedReturn  datatypes.Date    `gorm:"column:expected_return_date;not null" json:"expectedReturn"`
	ActualReturn    *datatypes.Date   `gorm:"column:actual_return_date" json:"actualReturn"`
	Status          TransactionStatus `gorm:"size:20;not null;index" json:"status"`
	Note            string            `gorm:"size:255" json:"note,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

func (Transaction) TableName() string { return TransactionTable }

// CivilDate drops the clock and zone, keeping the calendar day of t.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysOverdue counts whole days from the expected return date to today.
// A loan due today or later is 0 days overdue.
func DaysOverdue(expected, now time.Time) int {
	diff := CivilDate(now).Sub(CivilDate(expected))
	days := int(diff / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

// IsOverdue compares dates only; time of day is ignored.
func IsOverdue(expected, now time.Time) bool {
	return CivilDate(expected).Before(CivilDate(now))
}

// Overdue reports whether an open loan has passed its expected return date,
// whether or not the sweep has promoted its status yet.
func (t Transaction) Overdue(now time.Time) bool {
	return t.Status.Open() && IsOverdue(time.Time(t.ExpectedReturn), now)
}
