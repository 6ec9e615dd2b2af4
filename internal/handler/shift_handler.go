package handler

import (
	"net/http"
	"strconv"

	"github.com/cecworks/cec-mes/internal/repository"
	"github.com/cecworks/cec-mes/internal/service"
	"github.com/gin-gonic/gin"
)

type ShiftHandler struct {
	svc *service.ShiftService
}

func NewShiftHandler(svc *service.ShiftService) *ShiftHandler {
	return &ShiftHandler{svc: svc}
}

func (h *ShiftHandler) CreateOT(c *gin.Context) {
	var req service.CreateOTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	ot, err := h.svc.CreateOT(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, ot)
}

func (h *ShiftHandler) ListOT(c *gin.Context) {
	params := repository.OTListParams{
		SectionName: c.Query("section"),
		DateFrom:    c.Query("from"),
		DateTo:      c.Query("to"),
	}
	ots, err := h.svc.ListOT(params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, ots)
}

func (h *ShiftHandler) ReportBreakdown(c *gin.Context) {
	var req service.ReportBreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	breakdown, err := h.svc.ReportBreakdown(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, breakdown)
}

func (h *ShiftHandler) ResolveBreakdown(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "invalid id"})
		return
	}
	var req service.ResolveBreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	breakdown, err := h.svc.ResolveBreakdown(uint(id), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, breakdown)
}

func (h *ShiftHandler) ListBreakdowns(c *gin.Context) {
	breakdowns, err := h.svc.ListBreakdowns(c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, breakdowns)
}
