package main

import (
	"net/http"

	"github.com/cecworks/cec-mes/internal/handler"
	"github.com/gin-gonic/gin"
)

func registerRoutes(r *gin.Engine, h *handler.Handlers) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		customers := v1.Group("/customers")
		{
			customers.GET("", h.Master.ListCustomers)
			customers.POST("", h.Master.CreateCustomer)
		}

		products := v1.Group("/products")
		{
			products.GET("", h.Master.ListProducts)
			products.POST("", h.Master.CreateProduct)
		}

		materials := v1.Group("/materials")
		{
			materials.GET("", h.Master.ListMaterials)
			materials.POST("", h.Master.CreateMaterial)
		}

		lines := v1.Group("/lines")
		{
			lines.GET("", h.Master.ListLines)
			lines.POST("", h.Master.CreateLine)
		}

		machines := v1.Group("/machines")
		{
			machines.GET("", h.Machine.List)
			machines.POST("", h.Machine.Create)
			machines.GET("/board", h.Machine.Board)
			machines.GET("/:id", h.Machine.Get)
			machines.PUT("/:id/status", h.Machine.SetStatus)
		}

		files := v1.Group("/customer-files")
		{
			files.GET("", h.Order.ListFiles)
			files.POST("", h.Order.CreateFile)
			files.GET("/:id", h.Order.GetFile)
			files.POST("/:id/items", h.Order.AddItem)
		}

		items := v1.Group("/items")
		{
			items.GET("/:id", h.Order.GetItem)
			items.GET("/:id/tracking", h.Tracking.Snapshot)
			items.GET("/:id/timeline", h.Tracking.Timeline)
			items.PUT("/:id/planner", h.Tracking.UpsertPlanner)
		}

		v1.GET("/tracker", h.Tracking.List)

		jobs := v1.Group("/jobs")
		{
			jobs.GET("", h.Production.ListJobs)
			jobs.POST("", h.Production.CreateJob)
			jobs.GET("/:id", h.Production.GetJob)
			jobs.POST("/:id/release", h.Production.ReleaseJob)
		}

		batches := v1.Group("/batches")
		{
			batches.GET("", h.Production.ListBatches)
			batches.POST("", h.Production.CreateBatch)
			batches.GET("/resolve", h.Production.ResolveBatch)
			batches.GET("/:id", h.Production.GetBatch)
			batches.GET("/:id/logs", h.Production.BatchLogs)
		}

		v1.POST("/scans", h.Production.RecordScan)

		transfers := v1.Group("/transfers")
		{
			transfers.GET("", h.Production.ListTransfers)
			transfers.GET("/pending", h.Production.PendingTransfers)
			transfers.POST("/issue", h.Production.IssueTransfer)
			transfers.POST("/receive", h.Production.ReceiveTransfer)
		}

		ot := v1.Group("/ot-logs")
		{
			ot.GET("", h.Shift.ListOT)
			ot.POST("", h.Shift.CreateOT)
		}

		breakdowns := v1.Group("/breakdowns")
		{
			breakdowns.GET("", h.Shift.ListBreakdowns)
			breakdowns.POST("", h.Shift.ReportBreakdown)
			breakdowns.POST("/:id/resolve", h.Shift.ResolveBreakdown)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/summary", h.Report.Summary)
			reports.GET("/wip", h.Report.SectionWIP)
			reports.GET("/variance", h.Report.BatchVariance)
			reports.GET("/variance/export", h.Report.ExportVariance)
			reports.GET("/stage-totals", h.Report.StageTotals)
			reports.GET("/machines", h.Report.MachineUtilization)
			reports.GET("/ot-summary", h.Report.OTSummary)
		}
	}
}
