package handler

import (
	"net/http"

	"github.com/cecworks/cec-mes/internal/service"
	"github.com/gin-gonic/gin"
)

type MasterHandler struct {
	svc *service.MasterService
}

func NewMasterHandler(svc *service.MasterService) *MasterHandler {
	return &MasterHandler{svc: svc}
}

func (h *MasterHandler) CreateCustomer(c *gin.Context) {
	var req service.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	customer, err := h.svc.CreateCustomer(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, customer)
}

func (h *MasterHandler) ListCustomers(c *gin.Context) {
	customers, err := h.svc.ListCustomers()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, customers)
}

func (h *MasterHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	product, err := h.svc.CreateProduct(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, product)
}

func (h *MasterHandler) ListProducts(c *gin.Context) {
	products, err := h.svc.ListProducts()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, products)
}

func (h *MasterHandler) CreateMaterial(c *gin.Context) {
	var req service.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	material, err := h.svc.CreateMaterial(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, material)
}

func (h *MasterHandler) ListMaterials(c *gin.Context) {
	materials, err := h.svc.ListMaterials()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, materials)
}

func (h *MasterHandler) CreateLine(c *gin.Context) {
	var req service.CreateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	line, err := h.svc.CreateLine(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, line)
}

func (h *MasterHandler) ListLines(c *gin.Context) {
	lines, err := h.svc.ListLines(c.Query("active") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, lines)
}
