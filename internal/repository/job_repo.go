package repository

import (
	"github.com/cecworks/cec-mes/internal/entity"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(j *entity.Job) error {
	return r.db.Create(j).Error
}

func (r *JobRepository) GetByID(id uint) (*entity.Job, error) {
	var j entity.Job
	err := r.db.Preload("Product").Preload("Line").Preload("Batches").
		First(&j, id).Error
	return &j, err
}

func (r *JobRepository) GetByNo(jobNo string) (*entity.Job, error) {
	var j entity.Job
	err := r.db.Where("job_no = ?", jobNo).First(&j).Error
	return &j, err
}

func (r *JobRepository) Update(j *entity.Job) error {
	return r.db.Save(j).Error
}

// LatestByItem returns the most recent job planned for an item, newest id
// first so same-timestamp rows break by insertion order.
func (r *JobRepository) LatestByItem(itemID uint) (*entity.Job, error) {
	var j entity.Job
	err := r.db.Where("item_id = ?", itemID).Order("id DESC").First(&j).Error
	return &j, err
}

type JobListParams struct {
	Status  string
	ItemID  uint
	Keyword string
	Page    int
	Size    int
}

func (r *JobRepository) List(params JobListParams) ([]entity.Job, int64, error) {
	query := r.db.Model(&entity.Job{}).Preload("Product").Preload("Line")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.ItemID != 0 {
		query = query.Where("item_id = ?", params.ItemID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("job_no ILIKE ? OR document_no ILIKE ? OR customer_name ILIKE ?", kw, kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var js []entity.Job
	err := query.Order("id DESC").Offset((params.Page - 1) * params.Size).
		Limit(params.Size).Find(&js).Error
	return js, total, err
}
