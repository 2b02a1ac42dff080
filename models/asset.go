// models/asset.go
package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	AssetTable    = "inv_assets"
	CategoryTable = "inv_categories"
	LocationTable = "inv_locations"
)

const (
	DefaultQuantity = 1
	DefaultMinStock = 5
)

// AssetStatus is the lifecycle state of a single asset.
type AssetStatus string

const (
	AssetGood      AssetStatus = "good"
	AssetWarning   AssetStatus = "warning"
	AssetDefective AssetStatus = "defective"
	AssetBorrowed  AssetStatus = "borrowed" // only set by a borrow
	AssetRetired   AssetStatus = "retired"  // soft delete, terminal
)

var assetStatuses = []AssetStatus{AssetGood, AssetWarning, AssetDefective, AssetBorrowed, AssetRetired}

func (s AssetStatus) Valid() bool {
	for _, v := range assetStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func ParseAssetStatus(s string) (AssetStatus, error) {
	st := AssetStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown asset status %q", s)
	}
	return st, nil
}

type Asset struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	SerialNumber string      `gorm:"size:120;uniqueIndex;not null" json:"serialNumber"`
	Name         string      `gorm:"column:asset_name;size:200;not null" json:"name"`
	CategoryID   uint        `gorm:"index;not null" json:"categoryId"`
	LocationID   *uint       `gorm:"index" json:"locationId"`
	Status       AssetStatus `gorm:"size:20;not null;index" json:"status"`

	Brand          string `gorm:"size:100" json:"brand,omitempty"`
	Model          string `gorm:"size:100" json:"model,omitempty"`
	MACAddress     string `gorm:"size:17" json:"mac,omitempty"`
	IPAddress      string `gorm:"size:45" json:"ip,omitempty"`
	Specifications string `gorm:"type:text" json:"specs,omitempty"`

	// quantity/minStock only drive alerts when IsConsumable is set
	IsConsumable bool `gorm:"not null" json:"isConsumable"`
	Quantity     int  `gorm:"not null" json:"quantity"`
	MinStock     int  `gorm:"column:min_stock_threshold;not null" json:"minStock"`

	Notes          string              `gorm:"type:text" json:"notes,omitempty"`
	PurchaseDate   *datatypes.Date     `json:"purchaseDate,omitempty"`
	WarrantyExpiry *datatypes.Date     `json:"warranty,omitempty"`
	PurchasePrice  decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"price"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Icon string `gorm:"size:16" json:"icon"`
}

// Location is one seat in a lab grid. Assets point at it, they don't own it.
type Location struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	LabName  string `gorm:"size:100;not null;uniqueIndex:idx_location_cell,priority:1" json:"lab"`
	Row      int    `gorm:"column:lab_row;not null;uniqueIndex:idx_location_cell,priority:2" json:"row"`
	Position int    `gorm:"column:lab_position;not null;uniqueIndex:idx_location_cell,priority:3" json:"position"`
	X        *int   `gorm:"column:coordinates_x" json:"x,omitempty"`
	Y        *int   `gorm:"column:coordinates_y" json:"y,omitempty"`
	IsActive bool   `gorm:"not null" json:"-"`
}

func (Asset) TableName() string    { return AssetTable }
func (Category) TableName() string { return CategoryTable }
func (Location) TableName() string { return LocationTable }

// IsLowStock reports whether a consumable has fallen to its threshold.
func (a Asset) IsLowStock() bool {
	return a.IsConsumable && a.Quantity <= a.MinStock
}

// Shortage is how many units are missing to reach the threshold.
func (a Asset) Shortage() int {
	return a.MinStock - a.Quantity
}
