package routes

import (
	"lab_inventory/controllers"
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, s *controllers.Srv) {
	// 控制器与依赖
	assetCtl := controllers.NewAssetController(s)
	txCtl := controllers.NewTransactionController(s)
	repairCtl := controllers.NewRepairController(s)
	reportCtl := controllers.NewReportController(s)
	refCtl := controllers.NewReferenceController(s)
	actions := controllers.NewActionRouter(s)

	// Health
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	// ------------------------------
	// 单入口：/api?action=xxx（兼容旧前端，任意 method）
	// ------------------------------
	r.Any("/api", actions.Handle)

	api := r.Group("/api")

	// 资产
	assets := api.Group("/assets")
	{
		assets.GET("", assetCtl.ListAssets)
		assets.POST("", assetCtl.CreateAsset)
		assets.GET("/:id", assetCtl.GetAsset)
		assets.PUT("/:id", assetCtl.UpdateAsset)
		assets.DELETE("/:id", assetCtl.DeleteAsset)
		assets.GET("/:id/lifecycle", reportCtl.Lifecycle)
	}
	api.POST("/batch/assets/status", assetCtl.BatchUpdate)

	// 借还
	txs := api.Group("/transactions")
	{
		txs.GET("", txCtl.ListTransactions) // ?assetId=&studentId=&status=
		txs.POST("", txCtl.Borrow)
		txs.GET("/overdue", txCtl.ListOverdue)
		txs.POST("/:id/return", txCtl.Return)
	}

	// 维修记录
	repairs := api.Group("/repairs")
	{
		repairs.GET("", repairCtl.ListRepairLogs) // ?assetId=
		repairs.POST("", repairCtl.CreateRepairLog)
	}

	// 报表 / 检索
	api.GET("/stock/low", reportCtl.LowStock)
	api.GET("/search", reportCtl.Search)
	api.GET("/dashboard", reportCtl.Dashboard)

	// 基础数据
	api.GET("/categories", refCtl.Categories)
	api.GET("/locations", refCtl.Locations)
	api.GET("/locations/floorplan", refCtl.FloorPlan)
	api.GET("/students", refCtl.Students)
}
