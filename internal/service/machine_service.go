package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cecworks/cec-mes/internal/entity"
	"github.com/cecworks/cec-mes/internal/repository"
	"gorm.io/gorm"
)

type MachineService struct {
	machineRepo *repository.MachineRepository
	masterRepo  *repository.MasterRepository
}

func NewMachineService(machineRepo *repository.MachineRepository, masterRepo *repository.MasterRepository) *MachineService {
	return &MachineService{machineRepo: machineRepo, masterRepo: masterRepo}
}

type CreateMachineRequest struct {
	MachineCode string `json:"machine_code" binding:"required"`
	MachineName string `json:"machine_name" binding:"required"`
	SectionName string `json:"section_name" binding:"required"`
	ProcessName string `json:"process_name"`
	LineID      *uint  `json:"line_id"`
}

func (s *MachineService) Create(req CreateMachineRequest) (*entity.Machine, error) {
	sectionName := strings.ToUpper(strings.TrimSpace(req.SectionName))
	valid := false
	for _, sec := range entity.Sections {
		if sec == sectionName {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("%w: unknown section %s", ErrValidation, req.SectionName)
	}
	processName := strings.ToUpper(strings.TrimSpace(req.ProcessName))
	if processName != "" && !entity.IsStage(processName) {
		return nil, fmt.Errorf("%w: unknown process %s", ErrValidation, req.ProcessName)
	}
	if req.LineID != nil {
		if _, err := s.masterRepo.GetLine(*req.LineID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: line %d", ErrNotFound, *req.LineID)
			}
			return nil, err
		}
	}
	m := &entity.Machine{
		MachineCode: req.MachineCode,
		MachineName: req.MachineName,
		SectionName: sectionName,
		ProcessName: processName,
		LineID:      req.LineID,
		Status:      entity.MachineIdle,
		IsActive:    true,
	}
	if err := s.machineRepo.Create(m); err != nil {
		return nil, fmt.Errorf("create machine: %w", err)
	}
	return m, nil
}

func (s *MachineService) GetByID(id uint) (*entity.Machine, error) {
	m, err := s.machineRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: machine %d", ErrNotFound, id)
	}
	return m, err
}

func (s *MachineService) List(params repository.MachineListParams) ([]entity.Machine, error) {
	return s.machineRepo.List(params)
}

type SetMachineStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	BatchID *uint  `json:"batch_id"`
	Note    string `json:"note"`
}

// SetStatus flips a machine on the board. The status must be one of the
// closed set; the batch link is kept only while RUNNING.
func (s *MachineService) SetStatus(id uint, req SetMachineStatusRequest) (*entity.Machine, error) {
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !entity.IsMachineStatus(status) {
		return nil, fmt.Errorf("%w: unknown machine status %s", ErrValidation, req.Status)
	}
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}
	batchID := req.BatchID
	if status != entity.MachineRunning {
		batchID = nil
	}
	if err := s.machineRepo.SetStatus(id, status, nowStamp(), batchID, req.Note); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Board groups active machines by section for the floor display.
func (s *MachineService) Board() (map[string][]entity.Machine, error) {
	machines, err := s.machineRepo.List(repository.MachineListParams{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	board := make(map[string][]entity.Machine)
	for _, m := range machines {
		board[m.SectionName] = append(board[m.SectionName], m)
	}
	return board, nil
}
