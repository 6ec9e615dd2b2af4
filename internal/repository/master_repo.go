package repository

import (
	"github.com/cecworks/cec-mes/internal/entity"
	"gorm.io/gorm"
)

type MasterRepository struct {
	db *gorm.DB
}

func NewMasterRepository(db *gorm.DB) *MasterRepository {
	return &MasterRepository{db: db}
}

func (r *MasterRepository) CreateCustomer(c *entity.Customer) error {
	return r.db.Create(c).Error
}

func (r *MasterRepository) GetCustomer(id uint) (*entity.Customer, error) {
	var c entity.Customer
	err := r.db.First(&c, id).Error
	return &c, err
}

func (r *MasterRepository) GetCustomerByCode(code string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.db.Where("code = ?", code).First(&c).Error
	return &c, err
}

func (r *MasterRepository) ListCustomers() ([]entity.Customer, error) {
	var cs []entity.Customer
	err := r.db.Order("code").Find(&cs).Error
	return cs, err
}

func (r *MasterRepository) CreateProduct(p *entity.Product) error {
	return r.db.Create(p).Error
}

func (r *MasterRepository) GetProduct(id uint) (*entity.Product, error) {
	var p entity.Product
	err := r.db.First(&p, id).Error
	return &p, err
}

func (r *MasterRepository) ListProducts() ([]entity.Product, error) {
	var ps []entity.Product
	err := r.db.Order("sku").Find(&ps).Error
	return ps, err
}

func (r *MasterRepository) CreateMaterial(m *entity.Material) error {
	return r.db.Create(m).Error
}

func (r *MasterRepository) ListMaterials() ([]entity.Material, error) {
	var ms []entity.Material
	err := r.db.Order("code").Find(&ms).Error
	return ms, err
}

func (r *MasterRepository) UpdateMaterialStock(id uint, qty float64) error {
	return r.db.Model(&entity.Material{}).Where("id = ?", id).
		Update("stock_qty", gorm.Expr("stock_qty + ?", qty)).Error
}

func (r *MasterRepository) CreateLine(l *entity.ProductionLine) error {
	return r.db.Create(l).Error
}

func (r *MasterRepository) GetLine(id uint) (*entity.ProductionLine, error) {
	var l entity.ProductionLine
	err := r.db.First(&l, id).Error
	return &l, err
}

func (r *MasterRepository) ListLines(activeOnly bool) ([]entity.ProductionLine, error) {
	query := r.db.Model(&entity.ProductionLine{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var ls []entity.ProductionLine
	err := query.Order("code").Find(&ls).Error
	return ls, err
}
