package repository

import (
	"github.com/cecworks/cec-mes/internal/entity"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) CreateFile(f *entity.CustomerFile) error {
	return r.db.Create(f).Error
}

func (r *OrderRepository) GetFile(id uint) (*entity.CustomerFile, error) {
	var f entity.CustomerFile
	err := r.db.Preload("Customer").Preload("Items").Preload("Items.Product").
		First(&f, id).Error
	return &f, err
}

func (r *OrderRepository) GetFileByNo(fileNo string) (*entity.CustomerFile, error) {
	var f entity.CustomerFile
	err := r.db.Preload("Customer").Preload("Items").
		Where("file_no = ?", fileNo).First(&f).Error
	return &f, err
}

type FileListParams struct {
	CustomerID uint
	Status     string
	Keyword    string
	Page       int
	Size       int
}

func (r *OrderRepository) ListFiles(params FileListParams) ([]entity.CustomerFile, int64, error) {
	query := r.db.Model(&entity.CustomerFile{}).Preload("Customer")
	if params.CustomerID != 0 {
		query = query.Where("customer_id = ?", params.CustomerID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("file_no ILIKE ? OR po_no ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var fs []entity.CustomerFile
	err := query.Order("id DESC").Offset((params.Page - 1) * params.Size).
		Limit(params.Size).Find(&fs).Error
	return fs, total, err
}

func (r *OrderRepository) CreateItem(it *entity.CustomerFileItem) error {
	return r.db.Create(it).Error
}

func (r *OrderRepository) GetItem(id uint) (*entity.CustomerFileItem, error) {
	var it entity.CustomerFileItem
	err := r.db.Preload("File").Preload("File.Customer").Preload("Product").
		Preload("TargetLine").First(&it, id).Error
	return &it, err
}

func (r *OrderRepository) UpdateItem(it *entity.CustomerFileItem) error {
	return r.db.Save(it).Error
}

// ListItems returns item lines ordered by file then line number, with the
// relations the tracker snapshot needs preloaded.
func (r *OrderRepository) ListItems(status string) ([]entity.CustomerFileItem, error) {
	query := r.db.Model(&entity.CustomerFileItem{}).
		Preload("File").Preload("File.Customer").Preload("Product").Preload("TargetLine")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var its []entity.CustomerFileItem
	err := query.Order("customer_file_id, line_no").Find(&its).Error
	return its, err
}
