package repository

import (
	"github.com/cecworks/cec-mes/internal/entity"
	"gorm.io/gorm"
)

type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) CreateOT(ot *entity.OTLog) error {
	return r.db.Create(ot).Error
}

type OTListParams struct {
	SectionName string
	DateFrom    string
	DateTo      string
}

func (r *ShiftRepository) ListOT(params OTListParams) ([]entity.OTLog, error) {
	query := r.db.Model(&entity.OTLog{}).Preload("Line")
	if params.SectionName != "" {
		query = query.Where("section_name = ?", params.SectionName)
	}
	if params.DateFrom != "" {
		query = query.Where("work_date >= ?", params.DateFrom)
	}
	if params.DateTo != "" {
		query = query.Where("work_date <= ?", params.DateTo)
	}
	var ots []entity.OTLog
	err := query.Order("work_date DESC, id DESC").Find(&ots).Error
	return ots, err
}

// OTHoursBySection sums man-hours (headcount x hours) per section.
func (r *ShiftRepository) OTHoursBySection(dateFrom, dateTo string) (map[string]float64, error) {
	query := r.db.Model(&entity.OTLog{}).
		Select("section_name, COALESCE(SUM(headcount * hours), 0) AS total").
		Group("section_name")
	if dateFrom != "" {
		query = query.Where("work_date >= ?", dateFrom)
	}
	if dateTo != "" {
		query = query.Where("work_date <= ?", dateTo)
	}
	var rows []struct {
		SectionName string
		Total       float64
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.SectionName] = row.Total
	}
	return out, nil
}

func (r *ShiftRepository) CreateBreakdown(b *entity.Breakdown) error {
	return r.db.Create(b).Error
}

func (r *ShiftRepository) GetBreakdown(id uint) (*entity.Breakdown, error) {
	var b entity.Breakdown
	err := r.db.Preload("Machine").First(&b, id).Error
	return &b, err
}

func (r *ShiftRepository) UpdateBreakdown(b *entity.Breakdown) error {
	return r.db.Save(b).Error
}

func (r *ShiftRepository) ListBreakdowns(status string) ([]entity.Breakdown, error) {
	query := r.db.Model(&entity.Breakdown{}).Preload("Machine")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var bs []entity.Breakdown
	err := query.Order("id DESC").Find(&bs).Error
	return bs, err
}

func (r *ShiftRepository) OpenBreakdownCount() (int64, error) {
	var total int64
	err := r.db.Model(&entity.Breakdown{}).
		Where("status = ?", entity.BreakdownOpen).Count(&total).Error
	return total, err
}
