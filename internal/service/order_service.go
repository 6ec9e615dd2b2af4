package service

import (
	"errors"
	"fmt"

	"github.com/cecworks/cec-mes/internal/entity"
	"github.com/cecworks/cec-mes/internal/repository"
	"gorm.io/gorm"
)

type OrderService struct {
	masterRepo   *repository.MasterRepository
	orderRepo    *repository.OrderRepository
	trackingRepo *repository.TrackingRepository
}

func NewOrderService(masterRepo *repository.MasterRepository, orderRepo *repository.OrderRepository, trackingRepo *repository.TrackingRepository) *OrderService {
	return &OrderService{masterRepo: masterRepo, orderRepo: orderRepo, trackingRepo: trackingRepo}
}

type CreateFileItemRequest struct {
	ProductID    uint    `json:"product_id" binding:"required"`
	OrderedQtyKg float64 `json:"ordered_qty_kg" binding:"required,gt=0"`
	TargetLineID *uint   `json:"target_line_id"`
	Remarks      string  `json:"remarks"`
}

type CreateFileRequest struct {
	FileNo     string                  `json:"file_no" binding:"required"`
	CustomerID uint                    `json:"customer_id" binding:"required"`
	OrderDate  string                  `json:"order_date" binding:"required"`
	DueDate    string                  `json:"due_date"`
	PONo       string                  `json:"po_no"`
	Remarks    string                  `json:"remarks"`
	Items      []CreateFileItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateFile registers a customer order document with its item lines and
// stamps an ORDER_LINE_CREATED event per line.
func (s *OrderService) CreateFile(req CreateFileRequest) (*entity.CustomerFile, error) {
	if _, err := s.masterRepo.GetCustomer(req.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: customer %d", ErrNotFound, req.CustomerID)
		}
		return nil, err
	}
	orderDate, err := normalizeStamp(req.OrderDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad order_date %q", ErrValidation, req.OrderDate)
	}
	dueDate := ""
	if req.DueDate != "" {
		if dueDate, err = normalizeStamp(req.DueDate); err != nil {
			return nil, fmt.Errorf("%w: bad due_date %q", ErrValidation, req.DueDate)
		}
	}
	for _, it := range req.Items {
		if _, err := s.masterRepo.GetProduct(it.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: product %d", ErrNotFound, it.ProductID)
			}
			return nil, err
		}
	}

	f := &entity.CustomerFile{
		FileNo:     req.FileNo,
		CustomerID: req.CustomerID,
		OrderDate:  orderDate,
		DueDate:    dueDate,
		PONo:       req.PONo,
		Remarks:    req.Remarks,
		Status:     entity.FileOpen,
	}
	for i, it := range req.Items {
		f.Items = append(f.Items, entity.CustomerFileItem{
			LineNo:       i + 1,
			ProductID:    it.ProductID,
			OrderedQtyKg: it.OrderedQtyKg,
			TargetLineID: it.TargetLineID,
			Remarks:      it.Remarks,
			Status:       entity.ItemPendingJob,
		})
	}
	if err := s.orderRepo.CreateFile(f); err != nil {
		return nil, fmt.Errorf("create customer file: %w", err)
	}

	now := nowStamp()
	for i := range f.Items {
		if err := s.trackingRepo.CreateEvent(&entity.TrackingEvent{
			ItemID:      f.Items[i].ID,
			EventType:   entity.EventOrderLineCreated,
			Stage:       "ORDER",
			StatusLabel: entity.ItemWaitingPlanning,
			SourceRef:   fmt.Sprintf("%s-L%d", f.FileNo, f.Items[i].LineNo),
			ActorRole:   "MARKETING",
			Note:        "Customer file line created.",
			OccurredAt:  now,
		}); err != nil {
			return nil, fmt.Errorf("record line event: %w", err)
		}
	}
	return f, nil
}

// AddItem appends a line to an existing customer file, numbered after the
// current last line.
func (s *OrderService) AddItem(fileID uint, req CreateFileItemRequest) (*entity.CustomerFileItem, error) {
	f, err := s.orderRepo.GetFile(fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: customer file %d", ErrNotFound, fileID)
		}
		return nil, err
	}
	if _, err := s.masterRepo.GetProduct(req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, req.ProductID)
		}
		return nil, err
	}

	lineNo := 1
	for _, it := range f.Items {
		if it.LineNo >= lineNo {
			lineNo = it.LineNo + 1
		}
	}
	item := &entity.CustomerFileItem{
		CustomerFileID: f.ID,
		LineNo:         lineNo,
		ProductID:      req.ProductID,
		OrderedQtyKg:   req.OrderedQtyKg,
		TargetLineID:   req.TargetLineID,
		Remarks:        req.Remarks,
		Status:         entity.ItemPendingJob,
	}
	if err := s.orderRepo.CreateItem(item); err != nil {
		return nil, fmt.Errorf("add file item: %w", err)
	}
	if err := s.trackingRepo.CreateEvent(&entity.TrackingEvent{
		ItemID:      item.ID,
		EventType:   entity.EventOrderLineCreated,
		Stage:       "ORDER",
		StatusLabel: entity.ItemWaitingPlanning,
		SourceRef:   fmt.Sprintf("%s-L%d", f.FileNo, lineNo),
		ActorRole:   "MARKETING",
		Note:        "Customer file line created.",
		OccurredAt:  nowStamp(),
	}); err != nil {
		return nil, fmt.Errorf("record line event: %w", err)
	}
	return item, nil
}

func (s *OrderService) GetFile(id uint) (*entity.CustomerFile, error) {
	f, err := s.orderRepo.GetFile(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: customer file %d", ErrNotFound, id)
	}
	return f, err
}

func (s *OrderService) ListFiles(params repository.FileListParams) ([]entity.CustomerFile, int64, error) {
	return s.orderRepo.ListFiles(params)
}

func (s *OrderService) GetItem(id uint) (*entity.CustomerFileItem, error) {
	it, err := s.orderRepo.GetItem(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, id)
	}
	return it, err
}
