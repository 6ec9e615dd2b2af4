package repository

import (
	"github.com/cecworks/cec-mes/internal/entity"
	"gorm.io/gorm"
)

type TransferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) Create(l *entity.TransferLabel) error {
	return r.db.Create(l).Error
}

func (r *TransferRepository) GetByBarcode(barcode string) (*entity.TransferLabel, error) {
	var l entity.TransferLabel
	err := r.db.Preload("Batch").Where("transfer_barcode = ?", barcode).First(&l).Error
	return &l, err
}

func (r *TransferRepository) Update(l *entity.TransferLabel) error {
	return r.db.Save(l).Error
}

type TransferListParams struct {
	BatchID   uint
	ToProcess string
	Status    string
	Page      int
	Size      int
}

func (r *TransferRepository) List(params TransferListParams) ([]entity.TransferLabel, int64, error) {
	query := r.db.Model(&entity.TransferLabel{}).Preload("Batch")
	if params.BatchID != 0 {
		query = query.Where("batch_id = ?", params.BatchID)
	}
	if params.ToProcess != "" {
		query = query.Where("to_process = ?", params.ToProcess)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var ls []entity.TransferLabel
	err := query.Order("id DESC").Offset((params.Page - 1) * params.Size).
		Limit(params.Size).Find(&ls).Error
	return ls, total, err
}

// PendingByProcess returns open labels waiting to be received at a stage,
// oldest first.
func (r *TransferRepository) PendingByProcess(toProcess string) ([]entity.TransferLabel, error) {
	var ls []entity.TransferLabel
	err := r.db.Preload("Batch").
		Where("to_process = ? AND status = ?", toProcess, entity.TransferIssued).
		Order("id").Find(&ls).Error
	return ls, err
}

type stageFlow struct {
	Process string
	Total   float64
}

// ReceivedIntoByStage sums received quantity grouped by destination stage.
func (r *TransferRepository) ReceivedIntoByStage() (map[string]float64, error) {
	var rows []stageFlow
	err := r.db.Raw(`
		SELECT to_process AS process, COALESCE(SUM(received_qty_kg), 0) AS total
		FROM transfer_labels
		WHERE status = 'RECEIVED'
		GROUP BY to_process
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.Process] = row.Total
	}
	return out, nil
}

// IssuedOutOfByStage sums issued quantity grouped by origin stage, counting
// every label regardless of receive state.
func (r *TransferRepository) IssuedOutOfByStage() (map[string]float64, error) {
	var rows []stageFlow
	err := r.db.Raw(`
		SELECT from_process AS process, COALESCE(SUM(issued_qty_kg), 0) AS total
		FROM transfer_labels
		GROUP BY from_process
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.Process] = row.Total
	}
	return out, nil
}

// TotalLoss sums recorded handover losses.
func (r *TransferRepository) TotalLoss() (float64, error) {
	var result struct{ Total float64 }
	err := r.db.Raw(`
		SELECT COALESCE(SUM(qty_loss_kg), 0) AS total
		FROM transfer_labels
		WHERE status = 'RECEIVED'
	`).Scan(&result).Error
	return result.Total, err
}
