package service

import (
	"errors"
	"fmt"

	"github.com/cecworks/cec-mes/internal/entity"
	"github.com/cecworks/cec-mes/internal/repository"
	"gorm.io/gorm"
)

type MasterService struct {
	masterRepo *repository.MasterRepository
}

func NewMasterService(masterRepo *repository.MasterRepository) *MasterService {
	return &MasterService{masterRepo: masterRepo}
}

type CreateCustomerRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

func (s *MasterService) CreateCustomer(req CreateCustomerRequest) (*entity.Customer, error) {
	if _, err := s.masterRepo.GetCustomerByCode(req.Code); err == nil {
		return nil, fmt.Errorf("%w: customer code %s already exists", ErrConflict, req.Code)
	}
	c := &entity.Customer{Code: req.Code, Name: req.Name}
	if err := s.masterRepo.CreateCustomer(c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

func (s *MasterService) ListCustomers() ([]entity.Customer, error) {
	return s.masterRepo.ListCustomers()
}

type CreateProductRequest struct {
	SKU  string `json:"sku" binding:"required"`
	Name string `json:"name" binding:"required"`
	Unit string `json:"unit"`
}

func (s *MasterService) CreateProduct(req CreateProductRequest) (*entity.Product, error) {
	p := &entity.Product{SKU: req.SKU, Name: req.Name, Unit: req.Unit}
	if p.Unit == "" {
		p.Unit = "KG"
	}
	if err := s.masterRepo.CreateProduct(p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *MasterService) ListProducts() ([]entity.Product, error) {
	return s.masterRepo.ListProducts()
}

type CreateMaterialRequest struct {
	Code      string  `json:"code" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	UOM       string  `json:"uom"`
	CostPerKg float64 `json:"cost_per_kg"`
	StockQty  float64 `json:"stock_qty"`
}

func (s *MasterService) CreateMaterial(req CreateMaterialRequest) (*entity.Material, error) {
	m := &entity.Material{
		Code:      req.Code,
		Name:      req.Name,
		UOM:       req.UOM,
		CostPerKg: req.CostPerKg,
		StockQty:  req.StockQty,
	}
	if m.UOM == "" {
		m.UOM = "KG"
	}
	if err := s.masterRepo.CreateMaterial(m); err != nil {
		return nil, fmt.Errorf("create material: %w", err)
	}
	return m, nil
}

func (s *MasterService) ListMaterials() ([]entity.Material, error) {
	return s.masterRepo.ListMaterials()
}

type CreateLineRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	SectionName string `json:"section_name" binding:"required"`
}

func (s *MasterService) CreateLine(req CreateLineRequest) (*entity.ProductionLine, error) {
	valid := false
	for _, sec := range entity.Sections {
		if sec == req.SectionName {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("%w: unknown section %s", ErrValidation, req.SectionName)
	}
	l := &entity.ProductionLine{Code: req.Code, Name: req.Name, SectionName: req.SectionName, IsActive: true}
	if err := s.masterRepo.CreateLine(l); err != nil {
		return nil, fmt.Errorf("create line: %w", err)
	}
	return l, nil
}

func (s *MasterService) ListLines(activeOnly bool) ([]entity.ProductionLine, error) {
	return s.masterRepo.ListLines(activeOnly)
}

func (s *MasterService) GetLine(id uint) (*entity.ProductionLine, error) {
	l, err := s.masterRepo.GetLine(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: line %d", ErrNotFound, id)
	}
	return l, err
}
