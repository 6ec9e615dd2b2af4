package handler

import (
	"net/http"
	"strconv"

	"github.com/cecworks/cec-mes/internal/service"
	"github.com/gin-gonic/gin"
)

type TrackingHandler struct {
	svc *service.TrackingService
}

func NewTrackingHandler(svc *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{svc: svc}
}

// List serves the order-line tracker board.
func (h *TrackingHandler) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, rows)
}

func (h *TrackingHandler) Snapshot(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "invalid id"})
		return
	}
	row, err := h.svc.Snapshot(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, row)
}

func (h *TrackingHandler) Timeline(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "invalid id"})
		return
	}
	events, err := h.svc.Timeline(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, events)
}

func (h *TrackingHandler) UpsertPlanner(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "invalid id"})
		return
	}
	var req service.PlannerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	planner, err := h.svc.UpsertPlanner(uint(id), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.svc.Invalidate(c.Request.Context())
	respondOK(c, planner)
}
