package repository

import (
	"github.com/cecworks/cec-mes/internal/entity"
	"gorm.io/gorm"
)

type MachineRepository struct {
	db *gorm.DB
}

func NewMachineRepository(db *gorm.DB) *MachineRepository {
	return &MachineRepository{db: db}
}

func (r *MachineRepository) Create(m *entity.Machine) error {
	return r.db.Create(m).Error
}

func (r *MachineRepository) GetByID(id uint) (*entity.Machine, error) {
	var m entity.Machine
	err := r.db.Preload("Line").First(&m, id).Error
	return &m, err
}

func (r *MachineRepository) GetByCode(code string) (*entity.Machine, error) {
	var m entity.Machine
	err := r.db.Where("machine_code = ?", code).First(&m).Error
	return &m, err
}

func (r *MachineRepository) Update(m *entity.Machine) error {
	return r.db.Save(m).Error
}

type MachineListParams struct {
	SectionName string
	ProcessName string
	Status      string
	ActiveOnly  bool
}

func (r *MachineRepository) List(params MachineListParams) ([]entity.Machine, error) {
	query := r.db.Model(&entity.Machine{}).Preload("Line")
	if params.SectionName != "" {
		query = query.Where("section_name = ?", params.SectionName)
	}
	if params.ProcessName != "" {
		query = query.Where("process_name = ?", params.ProcessName)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	var ms []entity.Machine
	err := query.Order("machine_code").Find(&ms).Error
	return ms, err
}

// SetStatus updates only the status and activity fields so concurrent
// scans do not clobber other machine columns.
func (r *MachineRepository) SetStatus(id uint, status, at string, batchID *uint, note string) error {
	return r.db.Model(&entity.Machine{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":           status,
		"last_activity_at": at,
		"current_batch_id": batchID,
		"current_note":     note,
	}).Error
}

// StatusCounts returns machine counts grouped by status.
func (r *MachineRepository) StatusCounts() (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.Model(&entity.Machine{}).Where("is_active = ?", true).
		Select("status, COUNT(*) as total").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
