package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const RepairLogTable = "inv_repair_logs"

type RepairLogType string

const (
	LogRepair  RepairLogType = "repair"
	LogDefect  RepairLogType = "defect"
	LogUpgrade RepairLogType = "upgrade"
)

func (t RepairLogType) Valid() bool {
	switch t {
	case LogRepair, LogDefect, LogUpgrade:
		return true
	}
	return false
}

type RepairStatus string

const (
	RepairPending    RepairStatus = "pending"
	RepairInProgress RepairStatus = "in_progress"
	RepairCompleted  RepairStatus = "completed"
)

func (s RepairStatus) Valid() bool {
	switch s {
	case RepairPending, RepairInProgress, RepairCompleted:
		return true
	}
	return false
}

// RepairLog records work or a defect against an asset. Writing one never
// changes the asset itself.
type RepairLog struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	AssetID       uint            `gorm:"index;not null" json:"assetId"`
	LogType       RepairLogType   `gorm:"size:20;not null" json:"logType"`
	Description   string          `gorm:"column:issue_description;type:text;not null" json:"description"`
	ActionTaken   string          `gorm:"type:text" json:"action,omitempty"`
	Cost          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost"`
	PartsReplaced string          `gorm:"size:255" json:"parts,omitempty"`
	Status        RepairStatus    `gorm:"column:repair_status;size:20;not null" json:"status"`
	Technician    string          `gorm:"column:technician_name;size:100" json:"technician,omitempty"`
	LogDate       time.Time       `gorm:"index;not null" json:"date"`
}

func (RepairLog) TableName() string { return RepairLogTable }
