package handler

import (
	"net/http"
	"strconv"

	"github.com/cecworks/cec-mes/internal/repository"
	"github.com/cecworks/cec-mes/internal/service"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	svc         *service.OrderService
	trackingSvc *service.TrackingService
}

func NewOrderHandler(svc *service.OrderService, trackingSvc *service.TrackingService) *OrderHandler {
	return &OrderHandler{svc: svc, trackingSvc: trackingSvc}
}

func (h *OrderHandler) CreateFile(c *gin.Context) {
	var req service.CreateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	file, err := h.svc.CreateFile(req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.trackingSvc.Invalidate(c.Request.Context())
	respondOK(c, file)
}

func (h *OrderHandler) GetFile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "invalid id"})
		return
	}
	file, err := h.svc.GetFile(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, file)
}

func (h *OrderHandler) ListFiles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	customerID, _ := strconv.ParseUint(c.Query("customer_id"), 10, 32)
	params := repository.FileListParams{
		CustomerID: uint(customerID),
		Status:     c.Query("status"),
		Keyword:    c.Query("keyword"),
		Page:       page,
		Size:       size,
	}
	files, total, err := h.svc.ListFiles(params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"items": files, "total": total, "page": page, "size": size})
}

func (h *OrderHandler) AddItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "invalid id"})
		return
	}
	var req service.CreateFileItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	item, err := h.svc.AddItem(uint(id), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.trackingSvc.Invalidate(c.Request.Context())
	respondOK(c, item)
}

func (h *OrderHandler) GetItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "invalid id"})
		return
	}
	item, err := h.svc.GetItem(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, item)
}
