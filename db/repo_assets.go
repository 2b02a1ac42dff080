// db/repo_assets.go
package db

import (
	"context"
	"errors"
	"lab_inventory/models"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssetInput carries every field on register and a partial set on update;
// nil fields are "not supplied".
type AssetInput struct {
	SerialNumber   *string             `json:"serialNumber"`
	Name           *string             `json:"name"`
	CategoryID     *uint               `json:"categoryId"`
	LocationID     *uint               `json:"locationId"` // 0 vacates the seat
	Status         *models.AssetStatus `json:"status"`
	Brand          *string             `json:"brand"`
	Model          *string             `json:"model"`
	MAC            *string             `json:"mac"`
	IP             *string             `json:"ip"`
	Specs          *string             `json:"specs"`
	IsConsumable   *bool               `json:"isConsumable"`
	Quantity       *int                `json:"quantity"`
	MinStock       *int                `json:"minStock"`
	Notes          *string             `json:"notes"`
	PurchaseDate   *string             `json:"purchaseDate"` // YYYY-MM-DD
	WarrantyExpiry *string             `json:"warranty"`     // YYYY-MM-DD
	Price          *decimal.Decimal    `json:"price"`
}

// AssetRow is an asset with its category and location display fields joined in.
type AssetRow struct {
	models.Asset
	CategoryName string  `json:"categoryName"`
	CategoryIcon string  `json:"categoryIcon"`
	Lab          *string `gorm:"column:lab_name" json:"lab"`
	Row          *int    `gorm:"column:lab_row" json:"row"`
	Position     *int    `gorm:"column:lab_position" json:"position"`
}

const assetRowSelect = `
	a.*,
	c.name          AS category_name,
	c.icon          AS category_icon,
	l.lab_name,
	l.lab_row,
	l.lab_position
`

func (r *Repo) assetRows(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table(models.AssetTable+" a").
		Select(assetRowSelect).
		Joins("LEFT JOIN "+models.CategoryTable+" c ON c.id = a.category_id").
		Joins("LEFT JOIN "+models.LocationTable+" l ON l.id = a.location_id")
}

// ListActive returns every non-retired asset ordered by id.
func (r *Repo) ListActive(ctx context.Context) ([]AssetRow, error) {
	var rows []AssetRow
	if err := r.assetRows(ctx).
		Where("a.status <> ?", models.AssetRetired).
		Order("a.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, wrap("list assets", err)
	}
	return rows, nil
}

// GetAsset returns one asset by id, retired ones included.
func (r *Repo) GetAsset(ctx context.Context, id uint) (*AssetRow, error) {
	var rows []AssetRow
	if err := r.assetRows(ctx).Where("a.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, wrap("get asset", err)
	}
	if len(rows) == 0 {
		return nil, &NotFoundError{Entity: "asset", ID: id}
	}
	return &rows[0], nil
}

// Register validates the input and stores a new asset.
func (r *Repo) Register(ctx context.Context, in AssetInput) (*models.Asset, error) {
	if in.SerialNumber == nil || strings.TrimSpace(*in.SerialNumber) == "" {
		return nil, invalid("serialNumber", "is required")
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, invalid("name", "is required")
	}
	if in.CategoryID == nil || *in.CategoryID == 0 {
		return nil, invalid("categoryId", "is required")
	}

	a := &models.Asset{
		Status:   models.AssetGood,
		Quantity: models.DefaultQuantity,
		MinStock: models.DefaultMinStock,
	}
	if err := applyAssetInput(a, in); err != nil {
		return nil, err
	}
	if a.Status == models.AssetBorrowed {
		return nil, invalid("status", "borrowed is only set by borrowing an asset")
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, in); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&models.Asset{}).Where("serial_number = ?", a.SerialNumber).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return &ConflictError{Msg: "serial number " + a.SerialNumber + " is already registered"}
		}
		return tx.Create(a).Error
	})
	if err != nil {
		return nil, wrap("register asset", err)
	}
	return a, nil
}

// Update applies only the supplied fields of in.
func (r *Repo) Update(ctx context.Context, id uint, in AssetInput) (*models.Asset, error) {
	if in == (AssetInput{}) {
		return nil, invalid("", "no fields to update")
	}
	if in.SerialNumber != nil && strings.TrimSpace(*in.SerialNumber) == "" {
		return nil, invalid("serialNumber", "must not be empty")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, invalid("name", "must not be empty")
	}
	if in.CategoryID != nil && *in.CategoryID == 0 {
		return nil, invalid("categoryId", "must reference a category")
	}
	var a models.Asset
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&a, "id = ?", id).Error; err != nil {
			return notFound(err, "asset", id)
		}
		// 编辑表单会原样回传当前状态，只有真正的变更才校验
		if in.Status != nil && *in.Status != a.Status {
			if !in.Status.Valid() {
				return invalid("status", "unknown status %q", *in.Status)
			}
			if *in.Status == models.AssetBorrowed {
				return invalid("status", "borrowed is only set by borrowing an asset")
			}
			if err := guardOpenLoan(tx, &a); err != nil {
				return err
			}
		}
		if err := checkReferences(tx, in); err != nil {
			return err
		}
		oldSerial := a.SerialNumber
		if err := applyAssetInput(&a, in); err != nil {
			return err
		}
		if a.SerialNumber != oldSerial {
			var n int64
			if err := tx.Model(&models.Asset{}).
				Where("serial_number = ? AND id <> ?", a.SerialNumber, a.ID).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return &ConflictError{Msg: "serial number " + a.SerialNumber + " is already registered"}
			}
		}
		return tx.Save(&a).Error
	})
	if err != nil {
		return nil, wrap("update asset", err)
	}
	return &a, nil
}

// Retire soft-deletes an asset. Retiring twice is a no-op.
func (r *Repo) Retire(ctx context.Context, id uint) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Asset
		if err := forUpdate(tx).First(&a, "id = ?", id).Error; err != nil {
			return notFound(err, "asset", id)
		}
		if a.Status == models.AssetRetired {
			return nil
		}
		if err := guardOpenLoan(tx, &a); err != nil {
			return err
		}
		return setStatus(tx, id, models.AssetRetired)
	})
	return wrap("retire asset", err)
}

// SetStatus writes a status after checking only that the asset exists and
// the value is a known status. Business rules belong to the callers.
func (r *Repo) SetStatus(ctx context.Context, id uint, status models.AssetStatus) error {
	if !status.Valid() {
		return invalid("status", "unknown status %q", status)
	}
	return wrap("set asset status", setStatus(r.DB.WithContext(ctx), id, status))
}

// BatchUpdateStatus sets status on every id, all or nothing, and returns how
// many assets were updated.
func (r *Repo) BatchUpdateStatus(ctx context.Context, ids []uint, status models.AssetStatus) (int, error) {
	if len(ids) == 0 {
		return 0, invalid("assetIds", "no assets selected")
	}
	if !status.Valid() {
		return 0, invalid("status", "unknown status %q", status)
	}
	if status == models.AssetBorrowed {
		return 0, invalid("status", "borrowed is only set by borrowing an asset")
	}

	seen := make(map[uint]bool, len(ids))
	updated := 0
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true

			var a models.Asset
			if err := forUpdate(tx).First(&a, "id = ?", id).Error; err != nil {
				return notFound(err, "asset", id)
			}
			if a.Status == status {
				updated++
				continue
			}
			if err := guardOpenLoan(tx, &a); err != nil {
				return err
			}
			if err := setStatus(tx, id, status); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, wrap("batch update assets", err)
	}
	return updated, nil
}

func setStatus(tx *gorm.DB, id uint, status models.AssetStatus) error {
	res := tx.Model(&models.Asset{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Entity: "asset", ID: id}
	}
	return nil
}

// guardOpenLoan refuses to move an asset off its loan state behind the
// ledger's back.
func guardOpenLoan(tx *gorm.DB, a *models.Asset) error {
	if a.Status == models.AssetBorrowed {
		return &ConflictError{Msg: "asset is on loan; return it first"}
	}
	var n int64
	if err := tx.Model(&models.Transaction{}).
		Where("asset_id = ? AND status IN ?", a.ID, models.OpenStatuses).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return &ConflictError{Msg: "asset has an open loan; return it first"}
	}
	return nil
}

func checkReferences(tx *gorm.DB, in AssetInput) error {
	if in.CategoryID != nil {
		var c models.Category
		if err := tx.First(&c, "id = ?", *in.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid("categoryId", "category %d does not exist", *in.CategoryID)
			}
			return err
		}
	}
	if in.LocationID != nil && *in.LocationID != 0 {
		var l models.Location
		if err := tx.First(&l, "id = ?", *in.LocationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid("locationId", "location %d does not exist", *in.LocationID)
			}
			return err
		}
	}
	return nil
}

func applyAssetInput(a *models.Asset, in AssetInput) error {
	if in.SerialNumber != nil {
		a.SerialNumber = strings.TrimSpace(*in.SerialNumber)
	}
	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.CategoryID != nil {
		a.CategoryID = *in.CategoryID
	}
	if in.LocationID != nil {
		if *in.LocationID == 0 {
			a.LocationID = nil
		} else {
			loc := *in.LocationID
			a.LocationID = &loc
		}
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return invalid("status", "unknown status %q", *in.Status)
		}
		a.Status = *in.Status
	}
	if in.Brand != nil {
		a.Brand = *in.Brand
	}
	if in.Model != nil {
		a.Model = *in.Model
	}
	if in.MAC != nil {
		a.MACAddress = *in.MAC
	}
	if in.IP != nil {
		a.IPAddress = *in.IP
	}
	if in.Specs != nil {
		a.Specifications = *in.Specs
	}
	if in.IsConsumable != nil {
		a.IsConsumable = *in.IsConsumable
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return invalid("quantity", "must be >= 0")
		}
		a.Quantity = *in.Quantity
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return invalid("minStock", "must be >= 0")
		}
		a.MinStock = *in.MinStock
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}
	if in.PurchaseDate != nil {
		d, err := parseOptionalDate("purchaseDate", *in.PurchaseDate)
		if err != nil {
			return err
		}
		a.PurchaseDate = d
	}
	if in.WarrantyExpiry != nil {
		d, err := parseOptionalDate("warranty", *in.WarrantyExpiry)
		if err != nil {
			return err
		}
		a.WarrantyExpiry = d
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return invalid("price", "must be >= 0")
		}
		a.PurchasePrice = decimal.NewNullDecimal(*in.Price)
	}
	return nil
}

const dateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD value, reporting failures against field.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, invalid(field, "must be a date in YYYY-MM-DD form")
	}
	return t, nil
}

func parseOptionalDate(field, s string) (*datatypes.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, s)
	if err != nil {
		return nil, err
	}
	d := datatypes.Date(t)
	return &d, nil
}
