package service

import (
	"errors"
	"fmt"

	"github.com/cecworks/cec-mes/internal/entity"
	"github.com/cecworks/cec-mes/internal/repository"
	"gorm.io/gorm"
)

type BatchService struct {
	batchRepo    *repository.BatchRepository
	jobRepo      *repository.JobRepository
	orderRepo    *repository.OrderRepository
	trackingRepo *repository.TrackingRepository
	db           *gorm.DB
}

func NewBatchService(batchRepo *repository.BatchRepository, jobRepo *repository.JobRepository, orderRepo *repository.OrderRepository, trackingRepo *repository.TrackingRepository, db *gorm.DB) *BatchService {
	return &BatchService{batchRepo: batchRepo, jobRepo: jobRepo, orderRepo: orderRepo, trackingRepo: trackingRepo, db: db}
}

type CreateBatchRequest struct {
	BatchNo        string  `json:"batch_no" binding:"required"`
	BarcodeText    string  `json:"barcode_text"`
	JobID          *uint   `json:"job_id"`
	RecipeCode     string  `json:"recipe_code"`
	ItemName       string  `json:"item_name"`
	DocumentNo     string  `json:"document_no"`
	CustomerName   string  `json:"customer_name"`
	PlannedInputKg float64 `json:"planned_input_kg"`
	Remarks        string  `json:"remarks"`
	CreatedBy      string  `json:"created_by"`
}

// Create opens a batch at MIXING. When the batch hangs off a job the
// linked order line is promoted to READY_FOR_PRODUCTION and a
// BATCH_CREATED event is stamped.
func (s *BatchService) Create(req CreateBatchRequest) (*entity.Batch, error) {
	if _, err := s.batchRepo.GetByNo(req.BatchNo); err == nil {
		return nil, fmt.Errorf("%w: batch %s already exists", ErrConflict, req.BatchNo)
	}

	b := &entity.Batch{
		BatchNo:        req.BatchNo,
		BarcodeText:    req.BarcodeText,
		JobID:          req.JobID,
		RecipeCode:     req.RecipeCode,
		ItemName:       req.ItemName,
		DocumentNo:     req.DocumentNo,
		CustomerName:   req.CustomerName,
		PlannedInputKg: req.PlannedInputKg,
		CurrentProcess: entity.StageMixing,
		Status:         entity.BatchOpen,
		Remarks:        req.Remarks,
	}
	if b.BarcodeText == "" {
		b.BarcodeText = b.BatchNo
	}

	var job *entity.Job
	if req.JobID != nil {
		j, err := s.jobRepo.GetByID(*req.JobID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: job %d", ErrNotFound, *req.JobID)
			}
			return nil, err
		}
		job = j
		if b.RecipeCode == "" {
			b.RecipeCode = j.RecipeCode
		}
		if b.DocumentNo == "" {
			b.DocumentNo = j.DocumentNo
		}
		if b.CustomerName == "" {
			b.CustomerName = j.CustomerName
		}
		if b.ItemName == "" && j.Product != nil {
			b.ItemName = j.Product.Name
		}
		if b.PlannedInputKg == 0 {
			b.PlannedInputKg = j.PlannedQtyKg
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("create batch: %w", err)
		}
		if job == nil || job.ItemID == nil {
			return nil
		}
		if job.Status == entity.JobPlanned || job.Status == entity.JobReleased {
			if err := tx.Model(&entity.Job{}).Where("id = ?", job.ID).
				Update("status", entity.JobInProgress).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&entity.CustomerFileItem{}).Where("id = ?", *job.ItemID).
			Update("status", entity.ItemReadyForProduction).Error; err != nil {
			return err
		}
		return tx.Create(&entity.TrackingEvent{
			ItemID:      *job.ItemID,
			EventType:   entity.EventBatchCreated,
			Stage:       entity.StageMixing,
			StatusLabel: entity.ItemReadyForProduction,
			SourceRef:   b.BatchNo,
			ActorRole:   "PRODUCTION",
			ActorName:   req.CreatedBy,
			Note:        fmt.Sprintf("Batch %s opened at MIXING", b.BatchNo),
			OccurredAt:  nowStamp(),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BatchService) GetByID(id uint) (*entity.Batch, error) {
	b, err := s.batchRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: batch %d", ErrNotFound, id)
	}
	return b, err
}

// Resolve looks a batch up by batch number or barcode text.
func (s *BatchService) Resolve(code string) (*entity.Batch, error) {
	b, err := s.batchRepo.Resolve(code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no batch matches %q", ErrNotFound, code)
	}
	return b, err
}

func (s *BatchService) List(params repository.BatchListParams) ([]entity.Batch, int64, error) {
	return s.batchRepo.List(params)
}

// Logs returns the batch's scan history in chronological order.
func (s *BatchService) Logs(batchID uint) ([]entity.ProcessLog, error) {
	if _, err := s.GetByID(batchID); err != nil {
		return nil, err
	}
	return s.batchRepo.LogsByBatch(batchID)
}
