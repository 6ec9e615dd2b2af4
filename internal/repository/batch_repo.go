package repository

import (
	"errors"

	"github.com/cecworks/cec-mes/internal/entity"
	"gorm.io/gorm"
)

type BatchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// DB exposes the underlying handle for report queries and transactions.
func (r *BatchRepository) DB() *gorm.DB {
	return r.db
}

func (r *BatchRepository) Create(b *entity.Batch) error {
	return r.db.Create(b).Error
}

func (r *BatchRepository) GetByID(id uint) (*entity.Batch, error) {
	var b entity.Batch
	err := r.db.Preload("Job").First(&b, id).Error
	return &b, err
}

func (r *BatchRepository) GetByNo(batchNo string) (*entity.Batch, error) {
	var b entity.Batch
	err := r.db.Where("batch_no = ?", batchNo).First(&b).Error
	return &b, err
}

// Resolve finds a batch by batch number first, then by barcode text. When
// several batches share a barcode the newest one wins.
func (r *BatchRepository) Resolve(code string) (*entity.Batch, error) {
	var b entity.Batch
	err := r.db.Where("batch_no = ?", code).First(&b).Error
	if err == nil {
		return &b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	err = r.db.Where("barcode_text = ?", code).Order("id DESC").First(&b).Error
	return &b, err
}

func (r *BatchRepository) Update(b *entity.Batch) error {
	return r.db.Save(b).Error
}

// SetStage touches only the routing columns.
func (r *BatchRepository) SetStage(id uint, process, status string) error {
	return r.db.Model(&entity.Batch{}).Where("id = ?", id).Updates(map[string]interface{}{
		"current_process": process,
		"status":          status,
	}).Error
}

type BatchListParams struct {
	JobID   uint
	Status  string
	Process string
	Keyword string
	Page    int
	Size    int
}

func (r *BatchRepository) List(params BatchListParams) ([]entity.Batch, int64, error) {
	query := r.db.Model(&entity.Batch{}).Preload("Job")
	if params.JobID != 0 {
		query = query.Where("job_id = ?", params.JobID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Process != "" {
		query = query.Where("current_process = ?", params.Process)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("batch_no ILIKE ? OR barcode_text ILIKE ? OR item_name ILIKE ?", kw, kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var bs []entity.Batch
	err := query.Order("id DESC").Offset((params.Page - 1) * params.Size).
		Limit(params.Size).Find(&bs).Error
	return bs, total, err
}

// All returns every batch, newest first, for report builds.
func (r *BatchRepository) All() ([]entity.Batch, error) {
	var bs []entity.Batch
	err := r.db.Preload("Job").Order("id DESC").Find(&bs).Error
	return bs, err
}

// LatestByJob returns the most recently created batch for a job.
func (r *BatchRepository) LatestByJob(jobID uint) (*entity.Batch, error) {
	var b entity.Batch
	err := r.db.Where("job_id = ?", jobID).Order("id DESC").First(&b).Error
	return &b, err
}

func (r *BatchRepository) CreateLog(l *entity.ProcessLog) error {
	return r.db.Create(l).Error
}

// LogsByBatch returns scans for a batch in chronological order, ties broken
// by insertion order.
func (r *BatchRepository) LogsByBatch(batchID uint) ([]entity.ProcessLog, error) {
	var logs []entity.ProcessLog
	err := r.db.Where("batch_id = ?", batchID).
		Order("scanned_at, id").Find(&logs).Error
	return logs, err
}

// LatestLog returns the newest scan for a batch, or gorm.ErrRecordNotFound.
func (r *BatchRepository) LatestLog(batchID uint) (*entity.ProcessLog, error) {
	var log entity.ProcessLog
	err := r.db.Where("batch_id = ?", batchID).
		Order("scanned_at DESC, id DESC").First(&log).Error
	return &log, err
}

// LatestLogsForBatches returns the newest scan per batch in one query.
func (r *BatchRepository) LatestLogsForBatches(batchIDs []uint) (map[uint]entity.ProcessLog, error) {
	if len(batchIDs) == 0 {
		return map[uint]entity.ProcessLog{}, nil
	}
	var logs []entity.ProcessLog
	err := r.db.Raw(`
		SELECT DISTINCT ON (batch_id) *
		FROM process_logs
		WHERE batch_id IN ?
		ORDER BY batch_id, scanned_at DESC, id DESC
	`, batchIDs).Scan(&logs).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]entity.ProcessLog, len(logs))
	for _, l := range logs {
		out[l.BatchID] = l
	}
	return out, nil
}
