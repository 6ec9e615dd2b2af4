package handler

import (
	"net/http"
	"strconv"

	"github.com/cecworks/cec-mes/internal/repository"
	"github.com/cecworks/cec-mes/internal/service"
	"github.com/gin-gonic/gin"
)

// ProductionHandler covers jobs, batches, floor scans and inter-stage
// transfers. Writes that change tracker rows drop the cached tracker
// list afterwards.
type ProductionHandler struct {
	jobSvc      *service.JobService
	batchSvc    *service.BatchService
	scanSvc     *service.ScanService
	transferSvc *service.TransferService
	trackingSvc *service.TrackingService
}

func NewProductionHandler(jobSvc *service.JobService, batchSvc *service.BatchService, scanSvc *service.ScanService, transferSvc *service.TransferService, trackingSvc *service.TrackingService) *ProductionHandler {
	return &ProductionHandler{jobSvc: jobSvc, batchSvc: batchSvc, scanSvc: scanSvc, transferSvc: transferSvc, trackingSvc: trackingSvc}
}

func (h *ProductionHandler) CreateJob(c *gin.Context) {
	var req service.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	job, err := h.jobSvc.CreateFromItem(req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.trackingSvc.Invalidate(c.Request.Context())
	respondOK(c, job)
}

func (h *ProductionHandler) GetJob(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "invalid id"})
		return
	}
	job, err := h.jobSvc.GetByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, job)
}

func (h *ProductionHandler) ListJobs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	itemID, _ := strconv.ParseUint(c.Query("item_id"), 10, 32)
	params := repository.JobListParams{
		Status:  c.Query("status"),
		ItemID:  uint(itemID),
		Keyword: c.Query("keyword"),
		Page:    page,
		Size:    size,
	}
	jobs, total, err := h.jobSvc.List(params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"items": jobs, "total": total, "page": page, "size": size})
}

func (h *ProductionHandler) ReleaseJob(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "invalid id"})
		return
	}
	job, err := h.jobSvc.Release(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	h.trackingSvc.Invalidate(c.Request.Context())
	respondOK(c, job)
}

func (h *ProductionHandler) CreateBatch(c *gin.Context) {
	var req service.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	batch, err := h.batchSvc.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.trackingSvc.Invalidate(c.Request.Context())
	respondOK(c, batch)
}

func (h *ProductionHandler) GetBatch(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "invalid id"})
		return
	}
	batch, err := h.batchSvc.GetByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, batch)
}

// ResolveBatch looks a batch up by scanned code, batch number or barcode
// text.
func (h *ProductionHandler) ResolveBatch(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "code is required"})
		return
	}
	batch, err := h.batchSvc.Resolve(code)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, batch)
}

func (h *ProductionHandler) ListBatches(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	jobID, _ := strconv.ParseUint(c.Query("job_id"), 10, 32)
	params := repository.BatchListParams{
		JobID:   uint(jobID),
		Status:  c.Query("status"),
		Process: c.Query("process"),
		Keyword: c.Query("keyword"),
		Page:    page,
		Size:    size,
	}
	batches, total, err := h.batchSvc.List(params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"items": batches, "total": total, "page": page, "size": size})
}

func (h *ProductionHandler) BatchLogs(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "invalid id"})
		return
	}
	logs, err := h.batchSvc.Logs(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, logs)
}

func (h *ProductionHandler) RecordScan(c *gin.Context) {
	var req service.RecordScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	result, err := h.scanSvc.RecordScan(req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.trackingSvc.Invalidate(c.Request.Context())
	respondOK(c, result)
}

func (h *ProductionHandler) IssueTransfer(c *gin.Context) {
	var req service.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	label, err := h.transferSvc.Issue(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, label)
}

func (h *ProductionHandler) ReceiveTransfer(c *gin.Context) {
	var req service.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	result, err := h.transferSvc.Receive(req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.trackingSvc.Invalidate(c.Request.Context())
	respondOK(c, result)
}

func (h *ProductionHandler) ListTransfers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	batchID, _ := strconv.ParseUint(c.Query("batch_id"), 10, 32)
	params := repository.TransferListParams{
		BatchID:   uint(batchID),
		ToProcess: c.Query("to_process"),
		Status:    c.Query("status"),
		Page:      page,
		Size:      size,
	}
	labels, total, err := h.transferSvc.List(params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"items": labels, "total": total, "page": page, "size": size})
}

func (h *ProductionHandler) PendingTransfers(c *gin.Context) {
	labels, err := h.transferSvc.Pending(c.Query("to_process"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, labels)
}
