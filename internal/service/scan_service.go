package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cecworks/cec-mes/internal/entity"
	"github.com/cecworks/cec-mes/internal/notify"
	"github.com/cecworks/cec-mes/internal/repository"
	"gorm.io/gorm"
)

type ScanService struct {
	batchRepo    *repository.BatchRepository
	machineRepo  *repository.MachineRepository
	transferRepo *repository.TransferRepository
	orderRepo    *repository.OrderRepository
	jobRepo      *repository.JobRepository
	trackingRepo *repository.TrackingRepository
	db           *gorm.DB
	notifier     *notify.Client
}

func NewScanService(batchRepo *repository.BatchRepository, machineRepo *repository.MachineRepository, transferRepo *repository.TransferRepository, orderRepo *repository.OrderRepository, jobRepo *repository.JobRepository, trackingRepo *repository.TrackingRepository, db *gorm.DB, notifier *notify.Client) *ScanService {
	return &ScanService{
		batchRepo:    batchRepo,
		machineRepo:  machineRepo,
		transferRepo: transferRepo,
		orderRepo:    orderRepo,
		jobRepo:      jobRepo,
		trackingRepo: trackingRepo,
		db:           db,
		notifier:     notifier,
	}
}

type RecordScanRequest struct {
	BarcodeText  string  `json:"barcode_text" binding:"required"`
	ProcessName  string  `json:"process_name" binding:"required"`
	ScanTime     string  `json:"scan_time"`
	OperatorName string  `json:"operator_name"`
	MachineID    *uint   `json:"machine_id"`
	InputQtyKg   float64 `json:"input_qty_kg"`
	GoodQtyKg    float64 `json:"good_qty_kg"`
	RejectQtyKg  float64 `json:"reject_qty_kg"`
	NextAction   string  `json:"next_action"`
	Remarks      string  `json:"remarks"`
}

type RecordScanResult struct {
	Batch         *entity.Batch      `json:"batch"`
	Log           *entity.ProcessLog `json:"log"`
	IssuedBarcode string             `json:"issued_barcode,omitempty"`
	Message       string             `json:"message"`
}

// RecordScan is the floor-side composite: validate the scan, append the
// process log, advance the batch state machine, cut the next-stage
// transfer label on MOVE_NEXT, cascade the linked order line's status and
// audit trail, and refresh the machine board. Everything runs in one
// transaction.
func (s *ScanService) RecordScan(req RecordScanRequest) (*RecordScanResult, error) {
	processName := strings.ToUpper(strings.TrimSpace(req.ProcessName))
	if !entity.IsStage(processName) {
		return nil, fmt.Errorf("%w: unknown process %s", ErrValidation, req.ProcessName)
	}
	nextAction := strings.ToUpper(strings.TrimSpace(req.NextAction))
	if nextAction == "" {
		nextAction = entity.ActionMoveNext
	}
	if !entity.IsNextAction(nextAction) {
		return nil, fmt.Errorf("%w: unknown next action %s", ErrValidation, req.NextAction)
	}
	if req.InputQtyKg < 0 || req.GoodQtyKg < 0 || req.RejectQtyKg < 0 {
		return nil, fmt.Errorf("%w: quantities must not be negative", ErrValidation)
	}
	scanTime, err := normalizeStamp(req.ScanTime)
	if err != nil {
		return nil, fmt.Errorf("%w: bad scan_time %q", ErrValidation, req.ScanTime)
	}

	batch, err := s.batchRepo.Resolve(req.BarcodeText)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no batch matches %q", ErrNotFound, req.BarcodeText)
		}
		return nil, err
	}

	var machine *entity.Machine
	if req.MachineID != nil {
		machine, err = s.machineRepo.GetByID(*req.MachineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: machine %d", ErrNotFound, *req.MachineID)
			}
			return nil, err
		}
		if machine.ProcessName != processName {
			return nil, fmt.Errorf("%w: machine %s belongs to %s, not %s", ErrValidation, machine.MachineCode, machine.ProcessName, processName)
		}
	}

	log := &entity.ProcessLog{
		BatchID:     batch.ID,
		ProcessName: processName,
		MachineID:   req.MachineID,
		OperatorID:  req.OperatorName,
		InputQtyKg:  req.InputQtyKg,
		GoodQtyKg:   req.GoodQtyKg,
		RejectQtyKg: req.RejectQtyKg,
		NextAction:  nextAction,
		ScannedAt:   scanTime,
		Notes:       req.Remarks,
	}

	var issuedBarcode string
	var itemStatus string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(log).Error; err != nil {
			return fmt.Errorf("record scan: %w", err)
		}

		nextProcess, nextStatus := advanceBatch(processName, nextAction)
		if err := tx.Model(&entity.Batch{}).Where("id = ?", batch.ID).
			Updates(map[string]interface{}{
				"current_process": nextProcess,
				"status":          nextStatus,
			}).Error; err != nil {
			return fmt.Errorf("advance batch: %w", err)
		}
		batch.CurrentProcess = nextProcess
		batch.Status = nextStatus

		if nextAction == entity.ActionMoveNext && processName != entity.StageStoreReceiving {
			label, err := issueLabelTx(tx, batch, processName, entity.NextStage(processName), req.GoodQtyKg, req.MachineID, req.OperatorName, req.Remarks)
			if err != nil {
				return err
			}
			issuedBarcode = label.TransferBarcode
		}

		if batch.JobID != nil {
			var job entity.Job
			if err := tx.First(&job, *batch.JobID).Error; err == nil && job.ItemID != nil {
				itemStatus = entity.ItemInProduction
				if nextAction == entity.ActionRejected || batch.Status == entity.BatchHold {
					itemStatus = entity.ItemHold
				} else if batch.Status == entity.BatchCompleted {
					itemStatus = entity.ItemCompleted
				}
				if err := tx.Model(&entity.CustomerFileItem{}).Where("id = ?", *job.ItemID).
					Update("status", itemStatus).Error; err != nil {
					return err
				}
				noteParts := []string{
					fmt.Sprintf("Input %g KG", req.InputQtyKg),
					fmt.Sprintf("Good %g KG", req.GoodQtyKg),
					fmt.Sprintf("Reject %g KG", req.RejectQtyKg),
				}
				if issuedBarcode != "" {
					noteParts = append(noteParts, "Next process barcode: "+issuedBarcode)
				}
				if req.Remarks != "" {
					noteParts = append(noteParts, req.Remarks)
				}
				if err := tx.Create(&entity.TrackingEvent{
					ItemID:      *job.ItemID,
					EventType:   entity.EventProcessScan,
					Stage:       processName,
					StatusLabel: itemStatus,
					SourceRef:   batch.BatchNo,
					ActorRole:   "PRODUCTION",
					ActorName:   req.OperatorName,
					Note:        strings.Join(noteParts, " | "),
					OccurredAt:  scanTime,
				}).Error; err != nil {
					return err
				}
			}
		}

		if machine != nil {
			status := entity.MachineIdle
			var runningBatch *uint
			if nextAction == entity.ActionMoveNext || nextAction == entity.ActionRework {
				status = entity.MachineRunning
				runningBatch = &batch.ID
			}
			note := fmt.Sprintf("Last scan for %s / %s", batch.BatchNo, processName)
			if err := tx.Model(&entity.Machine{}).Where("id = ?", machine.ID).
				Updates(map[string]interface{}{
					"status":           status,
					"last_activity_at": nowStamp(),
					"current_batch_id": runningBatch,
					"current_note":     note,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if nextAction == entity.ActionRejected && s.notifier != nil {
		s.notifier.Send(fmt.Sprintf("Batch %s rejected at %s, placed on HOLD", batch.BatchNo, processName))
	}

	message := "Process scan recorded."
	if issuedBarcode != "" {
		message += " Next process barcode issued: " + issuedBarcode
	}
	return &RecordScanResult{
		Batch:         batch,
		Log:           log,
		IssuedBarcode: issuedBarcode,
		Message:       message,
	}, nil
}

// advanceBatch runs the stage state machine for one scan. REJECTED parks
// the batch on HOLD at the scanned stage; MOVE_NEXT and REWORK push it to
// the next stage, or close it out when the scanned stage is the last.
func advanceBatch(processName, nextAction string) (process, status string) {
	if nextAction == entity.ActionRejected {
		return processName, entity.BatchHold
	}
	next := entity.NextStage(processName)
	if next == entity.ProcessCompleted {
		return entity.ProcessCompleted, entity.BatchCompleted
	}
	return next, entity.BatchOpen
}
