package handler

import (
	"net/http"
	"strconv"

	"github.com/cecworks/cec-mes/internal/repository"
	"github.com/cecworks/cec-mes/internal/service"
	"github.com/gin-gonic/gin"
)

type MachineHandler struct {
	svc *service.MachineService
}

func NewMachineHandler(svc *service.MachineService) *MachineHandler {
	return &MachineHandler{svc: svc}
}

func (h *MachineHandler) Create(c *gin.Context) {
	var req service.CreateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	machine, err := h.svc.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, machine)
}

func (h *MachineHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "invalid id"})
		return
	}
	machine, err := h.svc.GetByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, machine)
}

func (h *MachineHandler) List(c *gin.Context) {
	params := repository.MachineListParams{
		SectionName: c.Query("section"),
		ProcessName: c.Query("process"),
		Status:      c.Query("status"),
		ActiveOnly:  c.Query("active") == "true",
	}
	machines, err := h.svc.List(params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, machines)
}

func (h *MachineHandler) SetStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "invalid id"})
		return
	}
	var req service.SetMachineStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	machine, err := h.svc.SetStatus(uint(id), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, machine)
}

// Board serves the per-section machine wallboard.
func (h *MachineHandler) Board(c *gin.Context) {
	board, err := h.svc.Board()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, board)
}
