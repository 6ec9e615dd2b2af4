package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cecworks/cec-mes/internal/entity"
	"github.com/cecworks/cec-mes/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransferService struct {
	transferRepo *repository.TransferRepository
	batchRepo    *repository.BatchRepository
	machineRepo  *repository.MachineRepository
	db           *gorm.DB
}

func NewTransferService(transferRepo *repository.TransferRepository, batchRepo *repository.BatchRepository, machineRepo *repository.MachineRepository, db *gorm.DB) *TransferService {
	return &TransferService{transferRepo: transferRepo, batchRepo: batchRepo, machineRepo: machineRepo, db: db}
}

// buildTransferBarcode composes the handover barcode from the batch number,
// truncated stage names and a second-precision stamp.
func buildTransferBarcode(batchNo, fromProcess, toProcess string, at time.Time) string {
	from3 := fromProcess
	if len(from3) > 3 {
		from3 = from3[:3]
	}
	to3 := toProcess
	if len(to3) > 3 {
		to3 = to3[:3]
	}
	return fmt.Sprintf("NP-%s-%s-%s-%s", batchNo, from3, to3, at.Format("20060102150405"))
}

// issueLabelTx cuts a transfer label inside the caller's transaction. On a
// barcode collision (two issues within the same second) it retries once
// with a short unique suffix. The failed insert is rolled back to a
// savepoint so the surrounding transaction stays usable.
func issueLabelTx(tx *gorm.DB, batch *entity.Batch, fromProcess, toProcess string, issuedQtyKg float64, machineID *uint, issuedBy, notes string) (*entity.TransferLabel, error) {
	now := time.Now()
	label := &entity.TransferLabel{
		TransferBarcode: buildTransferBarcode(batch.BatchNo, fromProcess, toProcess, now),
		BatchID:         batch.ID,
		FromProcess:     fromProcess,
		ToProcess:       toProcess,
		IssuedQtyKg:     issuedQtyKg,
		Status:          entity.TransferIssued,
		RecipeCode:      batch.RecipeCode,
		ItemName:        batch.ItemName,
		DocumentNo:      batch.DocumentNo,
		CustomerName:    batch.CustomerName,
		IssuedAt:        now.Format(stampLayout),
		IssuedMachineID: machineID,
		IssuedBy:        issuedBy,
		Notes:           notes,
	}
	if err := tx.SavePoint("issue_label").Error; err != nil {
		return nil, fmt.Errorf("issue transfer label: %w", err)
	}
	err := tx.Create(label).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		if err = tx.RollbackTo("issue_label").Error; err == nil {
			label.ID = 0
			label.TransferBarcode = fmt.Sprintf("%s-%s", label.TransferBarcode, uuid.NewString()[:6])
			err = tx.Create(label).Error
		}
	}
	if err != nil {
		return nil, fmt.Errorf("issue transfer label: %w", err)
	}
	return label, nil
}

type IssueRequest struct {
	BatchCode   string  `json:"batch_code" binding:"required"`
	FromProcess string  `json:"from_process" binding:"required"`
	IssuedQtyKg float64 `json:"issued_qty_kg" binding:"required,gt=0"`
	MachineID   *uint   `json:"machine_id"`
	IssuedBy    string  `json:"issued_by"`
	Notes       string  `json:"notes"`
}

// Issue cuts a standalone handover label from a stage to its successor.
func (s *TransferService) Issue(req IssueRequest) (*entity.TransferLabel, error) {
	fromProcess := strings.ToUpper(strings.TrimSpace(req.FromProcess))
	if !entity.IsStage(fromProcess) {
		return nil, fmt.Errorf("%w: unknown process %s", ErrValidation, req.FromProcess)
	}
	toProcess := entity.NextStage(fromProcess)
	if toProcess == entity.ProcessCompleted {
		return nil, fmt.Errorf("%w: %s is the final stage, nothing to issue to", ErrConflict, fromProcess)
	}
	batch, err := s.batchRepo.Resolve(req.BatchCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no batch matches %q", ErrNotFound, req.BatchCode)
		}
		return nil, err
	}

	var label *entity.TransferLabel
	err = s.db.Transaction(func(tx *gorm.DB) error {
		label, err = issueLabelTx(tx, batch, fromProcess, toProcess, req.IssuedQtyKg, req.MachineID, req.IssuedBy, req.Notes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return label, nil
}

type ReceiveRequest struct {
	TransferBarcode  string  `json:"transfer_barcode" binding:"required"`
	ReceivingProcess string  `json:"receiving_process" binding:"required"`
	ReceivedQtyKg    float64 `json:"received_qty_kg" binding:"required,gt=0"`
	MachineID        *uint   `json:"machine_id"`
	ReceivedBy       string  `json:"received_by"`
	Notes            string  `json:"notes"`
}

type ReceiveResult struct {
	Label   *entity.TransferLabel `json:"label"`
	Message string                `json:"message"`
}

// Receive closes a handover label at the destination stage, records the
// loss against the issued quantity and moves the batch to the receiving
// stage. A label receives exactly once.
func (s *TransferService) Receive(req ReceiveRequest) (*ReceiveResult, error) {
	receivingProcess := strings.ToUpper(strings.TrimSpace(req.ReceivingProcess))
	if !entity.IsStage(receivingProcess) {
		return nil, fmt.Errorf("%w: unknown process %s", ErrValidation, req.ReceivingProcess)
	}

	label, err := s.transferRepo.GetByBarcode(req.TransferBarcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transfer barcode %q", ErrNotFound, req.TransferBarcode)
		}
		return nil, err
	}
	if label.Status != entity.TransferIssued {
		return nil, fmt.Errorf("%w: this transfer barcode was already received", ErrConflict)
	}
	if receivingProcess != label.ToProcess {
		return nil, fmt.Errorf("%w: barcode is for %s, not %s", ErrConflict, label.ToProcess, receivingProcess)
	}

	loss := math.Round((label.IssuedQtyKg-req.ReceivedQtyKg)*100) / 100
	if loss < 0 {
		loss = 0
	}
	received := req.ReceivedQtyKg
	notes := req.Notes
	if notes == "" {
		notes = label.Notes
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.TransferLabel{}).Where("id = ?", label.ID).
			Updates(map[string]interface{}{
				"received_qty_kg": received,
				"qty_loss_kg":     loss,
				"status":          entity.TransferReceived,
				"received_at":     nowStamp(),
				"recv_machine_id": req.MachineID,
				"received_by":     req.ReceivedBy,
				"notes":           notes,
			}).Error; err != nil {
			return fmt.Errorf("close transfer label: %w", err)
		}
		return tx.Model(&entity.Batch{}).Where("id = ?", label.BatchID).
			Updates(map[string]interface{}{
				"current_process": receivingProcess,
				"status":          entity.BatchOpen,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	label, err = s.transferRepo.GetByBarcode(label.TransferBarcode)
	if err != nil {
		return nil, err
	}
	return &ReceiveResult{
		Label:   label,
		Message: fmt.Sprintf("Received %.2f KG (loss %.2f KG).", received, loss),
	}, nil
}

func (s *TransferService) List(params repository.TransferListParams) ([]entity.TransferLabel, int64, error) {
	return s.transferRepo.List(params)
}

// Pending lists open labels waiting at a destination stage.
func (s *TransferService) Pending(toProcess string) ([]entity.TransferLabel, error) {
	toProcess = strings.ToUpper(strings.TrimSpace(toProcess))
	if toProcess != "" && !entity.IsStage(toProcess) {
		return nil, fmt.Errorf("%w: unknown process %s", ErrValidation, toProcess)
	}
	if toProcess == "" {
		labels, _, err := s.transferRepo.List(repository.TransferListParams{Status: entity.TransferIssued, Size: 200})
		return labels, err
	}
	return s.transferRepo.PendingByProcess(toProcess)
}
