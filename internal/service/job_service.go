package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/cecworks/cec-mes/internal/entity"
	"github.com/cecworks/cec-mes/internal/repository"
	"gorm.io/gorm"
)

type JobService struct {
	orderRepo    *repository.OrderRepository
	jobRepo      *repository.JobRepository
	masterRepo   *repository.MasterRepository
	trackingRepo *repository.TrackingRepository
	db           *gorm.DB
}

func NewJobService(orderRepo *repository.OrderRepository, jobRepo *repository.JobRepository, masterRepo *repository.MasterRepository, trackingRepo *repository.TrackingRepository, db *gorm.DB) *JobService {
	return &JobService{orderRepo: orderRepo, jobRepo: jobRepo, masterRepo: masterRepo, trackingRepo: trackingRepo, db: db}
}

type CreateJobRequest struct {
	ItemID         uint    `json:"item_id" binding:"required"`
	PlannedQtyKg   float64 `json:"planned_qty_kg"`
	LineID         *uint   `json:"line_id"`
	RecipeCode     string  `json:"recipe_code"`
	PlannedStartAt string  `json:"planned_start_at"`
	Remarks        string  `json:"remarks"`
	CreatedBy      string  `json:"created_by"`
}

// CreateFromItem cuts a production job from a customer file line, marks
// the line JOB_CREATED and stamps the audit event. Runs in one
// transaction so a half-created job never leaks.
func (s *JobService) CreateFromItem(req CreateJobRequest) (*entity.Job, error) {
	item, err := s.orderRepo.GetItem(req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item %d", ErrNotFound, req.ItemID)
		}
		return nil, err
	}

	plannedStart := ""
	if req.PlannedStartAt != "" {
		if plannedStart, err = normalizeStamp(req.PlannedStartAt); err != nil {
			return nil, fmt.Errorf("%w: bad planned_start_at %q", ErrValidation, req.PlannedStartAt)
		}
	}
	qty := req.PlannedQtyKg
	if qty <= 0 {
		qty = item.OrderedQtyKg
	}
	lineID := req.LineID
	if lineID == nil {
		lineID = item.TargetLineID
	}

	now := time.Now()
	job := &entity.Job{
		JobNo:          fmt.Sprintf("JOB-%s-%04d", now.Format("20060102"), now.UnixNano()%10000),
		ItemID:         &item.ID,
		ProductID:      item.ProductID,
		LineID:         lineID,
		PlannedQtyKg:   qty,
		RecipeCode:     req.RecipeCode,
		Status:         entity.JobPlanned,
		PlannedStartAt: plannedStart,
		Remarks:        req.Remarks,
	}
	if item.File != nil {
		job.DocumentNo = item.File.FileNo
		if item.File.Customer != nil {
			job.CustomerName = item.File.Customer.Name
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(job).Error; err != nil {
			return fmt.Errorf("create job: %w", err)
		}
		if err := tx.Model(&entity.CustomerFileItem{}).Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"status":         entity.ItemJobCreated,
				"planned_job_id": job.ID,
			}).Error; err != nil {
			return fmt.Errorf("mark item: %w", err)
		}
		return tx.Create(&entity.TrackingEvent{
			ItemID:      item.ID,
			EventType:   entity.EventJobCreated,
			Stage:       "PLANNING",
			StatusLabel: entity.ItemJobCreated,
			SourceRef:   job.JobNo,
			ActorRole:   "PLANNING",
			ActorName:   req.CreatedBy,
			Note:        fmt.Sprintf("Job %s created for %.2f KG", job.JobNo, job.PlannedQtyKg),
			OccurredAt:  nowStamp(),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) GetByID(id uint) (*entity.Job, error) {
	j, err := s.jobRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: job %d", ErrNotFound, id)
	}
	return j, err
}

func (s *JobService) List(params repository.JobListParams) ([]entity.Job, int64, error) {
	return s.jobRepo.List(params)
}

// Release moves a planned job onto the floor.
func (s *JobService) Release(id uint) (*entity.Job, error) {
	j, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if j.Status != entity.JobPlanned {
		return nil, fmt.Errorf("%w: job %s is %s, only PLANNED jobs can be released", ErrConflict, j.JobNo, j.Status)
	}
	j.Status = entity.JobReleased
	if err := s.jobRepo.Update(j); err != nil {
		return nil, err
	}
	return j, nil
}
