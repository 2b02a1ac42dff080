package controllers

import (
	"lab_inventory/app"
	"lab_inventory/db"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RepairController struct{ *Srv }

func NewRepairController(s *Srv) *RepairController { return &RepairController{Srv: s} }

// GET /api/repairs?assetId=
func (rc *RepairController) ListRepairLogs(c *gin.Context) {
	var assetID uint
	if c.Query("assetId") != "" {
		id, err := idParam(c, "assetId")
		if err != nil {
			rc.respondError(c, err)
			return
		}
		assetID = id
	}
	logs, err := rc.Repo.ListRepairLogs(c.Request.Context(), assetID)
	if err != nil {
		rc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"repairLogs": logs})
}

// POST /api/repairs
func (rc *RepairController) CreateRepairLog(c *gin.Context) {
	var in db.RepairLogInput
	if err := bindBody(c, &in); err != nil {
		rc.respondError(c, err)
		return
	}
	log, err := rc.Repo.CreateRepairLog(c.Request.Context(), in)
	if err != nil {
		rc.respondError(c, err)
		return
	}
	rc.Logger.Info("repair logged", "repairLogId", log.ID, "assetId", log.AssetID, "type", log.LogType)
	c.JSON(http.StatusCreated, app.H{"success": true, "id": log.ID, "message": "Repair log created successfully"})
}
