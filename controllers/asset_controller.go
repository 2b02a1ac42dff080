// controllers/asset_controller.go
package controllers

import (
	"fmt"
	"lab_inventory/app"
	"lab_inventory/db"
	"lab_inventory/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AssetController struct{ *Srv }

func NewAssetController(s *Srv) *AssetController { return &AssetController{Srv: s} }

// GET /api/assets
func (ac *AssetController) ListAssets(c *gin.Context) {
	assets, err := ac.Repo.ListActive(c.Request.Context())
	if err != nil {
		ac.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"assets": assets})
}

// GET /api/assets/:id
func (ac *AssetController) GetAsset(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		ac.respondError(c, err)
		return
	}
	asset, err := ac.Repo.GetAsset(c.Request.Context(), id)
	if err != nil {
		ac.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"asset": asset})
}

// POST /api/assets
func (ac *AssetController) CreateAsset(c *gin.Context) {
	var in db.AssetInput
	if err := bindBody(c, &in); err != nil {
		ac.respondError(c, err)
		return
	}
	a, err := ac.Repo.Register(c.Request.Context(), in)
	if err != nil {
		ac.respondError(c, err)
		return
	}
	ac.Logger.Info("asset registered", "assetId", a.ID, "serial", a.SerialNumber)
	c.JSON(http.StatusCreated, app.H{"success": true, "id": a.ID, "message": "Asset created successfully"})
}

// PUT /api/assets/:id
func (ac *AssetController) UpdateAsset(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		ac.respondError(c, err)
		return
	}
	var in db.AssetInput
	if err := bindBody(c, &in); err != nil {
		ac.respondError(c, err)
		return
	}
	if _, err := ac.Repo.Update(c.Request.Context(), id, in); err != nil {
		ac.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"success": true, "message": "Asset updated successfully"})
}

// DELETE /api/assets/:id  (soft delete → retired)
func (ac *AssetController) DeleteAsset(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		ac.respondError(c, err)
		return
	}
	if err := ac.Repo.Retire(c.Request.Context(), id); err != nil {
		ac.respondError(c, err)
		return
	}
	ac.Logger.Info("asset retired", "assetId", id)
	c.JSON(http.StatusOK, app.H{"success": true, "message": "Asset deleted successfully"})
}

// POST /api/batch/assets/status
func (ac *AssetController) BatchUpdate(c *gin.Context) {
	var in struct {
		AssetIDs []uint             `json:"assetIds"`
		Status   models.AssetStatus `json:"status"`
	}
	if err := bindBody(c, &in); err != nil {
		ac.respondError(c, err)
		return
	}
	if in.AssetIDs == nil || in.Status == "" {
		ac.respondError(c, &db.ValidationError{Msg: "Asset IDs and status are required"})
		return
	}
	n, err := ac.Repo.BatchUpdateStatus(c.Request.Context(), in.AssetIDs, in.Status)
	if err != nil {
		ac.respondError(c, err)
		return
	}
	ac.Logger.Info("assets batch updated", "count", n, "status", in.Status)
	c.JSON(http.StatusOK, app.H{
		"success": true,
		"updated": n,
		"message": fmt.Sprintf("%d assets updated successfully", n),
	})
}
