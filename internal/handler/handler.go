package handler

import (
	"errors"
	"net/http"

	"github.com/cecworks/cec-mes/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler group.
type Handlers struct {
	Master     *MasterHandler
	Order      *OrderHandler
	Production *ProductionHandler
	Tracking   *TrackingHandler
	Machine    *MachineHandler
	Shift      *ShiftHandler
	Report     *ReportHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Master:     NewMasterHandler(services.Master),
		Order:      NewOrderHandler(services.Order, services.Tracking),
		Production: NewProductionHandler(services.Job, services.Batch, services.Scan, services.Transfer, services.Tracking),
		Tracking:   NewTrackingHandler(services.Tracking),
		Machine:    NewMachineHandler(services.Machine),
		Shift:      NewShiftHandler(services.Shift),
		Report:     NewReportHandler(services.Report),
	}
}

// respondError maps service sentinel errors onto the response envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
	}
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": data})
}
