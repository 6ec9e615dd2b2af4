package service

import (
	"errors"
	"fmt"

	"github.com/cecworks/cec-mes/internal/entity"
	"github.com/cecworks/cec-mes/internal/notify"
	"github.com/cecworks/cec-mes/internal/repository"
	"gorm.io/gorm"
)

type ShiftService struct {
	shiftRepo   *repository.ShiftRepository
	machineRepo *repository.MachineRepository
	db          *gorm.DB
	notifier    *notify.Client
}

func NewShiftService(shiftRepo *repository.ShiftRepository, machineRepo *repository.MachineRepository, db *gorm.DB, notifier *notify.Client) *ShiftService {
	return &ShiftService{shiftRepo: shiftRepo, machineRepo: machineRepo, db: db, notifier: notifier}
}

type CreateOTRequest struct {
	WorkDate    string  `json:"work_date" binding:"required"`
	SectionName string  `json:"section_name" binding:"required"`
	LineID      *uint   `json:"line_id"`
	Headcount   int     `json:"headcount" binding:"required,gt=0"`
	Hours       float64 `json:"hours" binding:"required,gt=0"`
	Reason      string  `json:"reason"`
	ApprovedBy  string  `json:"approved_by"`
}

func (s *ShiftService) CreateOT(req CreateOTRequest) (*entity.OTLog, error) {
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
	workDate, err := normalizeStamp(req.WorkDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad work_date %q", ErrValidation, req.WorkDate)
	}
	ot := &entity.OTLog{
		WorkDate:    workDate,
		SectionName: req.SectionName,
		LineID:      req.LineID,
		Headcount:   req.Headcount,
		Hours:       req.Hours,
		Reason:      req.Reason,
		ApprovedBy:  req.ApprovedBy,
	}
	if err := s.shiftRepo.CreateOT(ot); err != nil {
		return nil, fmt.Errorf("create OT log: %w", err)
	}
	return ot, nil
}

func (s *ShiftService) ListOT(params repository.OTListParams) ([]entity.OTLog, error) {
	return s.shiftRepo.ListOT(params)
}

type ReportBreakdownRequest struct {
	MachineID   uint   `json:"machine_id" binding:"required"`
	Description string `json:"description" binding:"required"`
	ReportedBy  string `json:"reported_by"`
}

// ReportBreakdown opens a downtime record and flips the machine to
// BREAKDOWN in the same transaction.
func (s *ShiftService) ReportBreakdown(req ReportBreakdownRequest) (*entity.Breakdown, error) {
	machine, err := s.machineRepo.GetByID(req.MachineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: machine %d", ErrNotFound, req.MachineID)
		}
		return nil, err
	}

	b := &entity.Breakdown{
		MachineID:   req.MachineID,
		ReportedAt:  nowStamp(),
		Description: req.Description,
		ReportedBy:  req.ReportedBy,
		Status:      entity.BreakdownOpen,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("create breakdown: %w", err)
		}
		return tx.Model(&entity.Machine{}).Where("id = ?", machine.ID).
			Updates(map[string]interface{}{
				"status":           entity.MachineBreakdown,
				"last_activity_at": nowStamp(),
				"current_note":     req.Description,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Send(fmt.Sprintf("Machine %s down: %s", machine.MachineCode, req.Description))
	}
	return b, nil
}

type ResolveBreakdownRequest struct {
	ActionTaken string `json:"action_taken"`
}

// ResolveBreakdown closes the downtime record and returns the machine to
// IDLE.
func (s *ShiftService) ResolveBreakdown(id uint, req ResolveBreakdownRequest) (*entity.Breakdown, error) {
	b, err := s.shiftRepo.GetBreakdown(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: breakdown %d", ErrNotFound, id)
		}
		return nil, err
	}
	if b.Status != entity.BreakdownOpen {
		return nil, fmt.Errorf("%w: breakdown %d already resolved", ErrConflict, id)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Breakdown{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":       entity.BreakdownResolved,
				"resolved_at":  nowStamp(),
				"action_taken": req.ActionTaken,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Machine{}).Where("id = ?", b.MachineID).
			Updates(map[string]interface{}{
				"status":           entity.MachineIdle,
				"last_activity_at": nowStamp(),
				"current_batch_id": nil,
				"current_note":     req.ActionTaken,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.shiftRepo.GetBreakdown(id)
}

func (s *ShiftService) ListBreakdowns(status string) ([]entity.Breakdown, error) {
	return s.shiftRepo.ListBreakdowns(status)
}
