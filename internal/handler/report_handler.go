package handler

import (
	"fmt"
	"time"

	"github.com/cecworks/cec-mes/internal/service"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.svc.DashboardSummary()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summary)
}

func (h *ReportHandler) SectionWIP(c *gin.Context) {
	rows, err := h.svc.SectionWIP()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, rows)
}

func (h *ReportHandler) BatchVariance(c *gin.Context) {
	rows, err := h.svc.BatchVariance()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, rows)
}

func (h *ReportHandler) StageTotals(c *gin.Context) {
	rows, err := h.svc.StageTotals()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, rows)
}

func (h *ReportHandler) MachineUtilization(c *gin.Context) {
	rows, err := h.svc.MachineUtilization()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, rows)
}

func (h *ReportHandler) OTSummary(c *gin.Context) {
	totals, err := h.svc.OTSummary(c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, totals)
}

// ExportVariance streams the variance report as an xlsx attachment.
func (h *ReportHandler) ExportVariance(c *gin.Context) {
	f, err := h.svc.ExportVarianceXLSX()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("batch-variance-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	f.Write(c.Writer)
}
