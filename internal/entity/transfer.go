package entity

import "time"

// Transfer label status values
const (
	TransferIssued   = "ISSUED"
	TransferReceived = "RECEIVED"
)

// TransferLabel is one inter-stage handover ticket. A label is cut when a
// batch leaves a stage (ISSUED) and closed exactly once when the next
// stage takes it in (RECEIVED). The barcode is globally unique across the
// label's lifetime.
type TransferLabel struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	TransferBarcode string    `json:"transfer_barcode" gorm:"size:128;not null;uniqueIndex"`
	BatchID         uint      `json:"batch_id" gorm:"not null;index"`
	FromProcess     string    `json:"from_process" gorm:"size:32;not null"`
	ToProcess       string    `json:"to_process" gorm:"size:32;not null;index"`
	IssuedQtyKg     float64   `json:"issued_qty_kg" gorm:"type:decimal(12,4);not null"`
	ReceivedQtyKg   *float64  `json:"received_qty_kg" gorm:"type:decimal(12,4)"`
	QtyLossKg       float64   `json:"qty_loss_kg" gorm:"type:decimal(12,4)"`
	Status          string    `json:"status" gorm:"size:20;not null;default:ISSUED"`
	RecipeCode      string    `json:"recipe_code" gorm:"size:64"`
	ItemName        string    `json:"item_name" gorm:"size:128"`
	DocumentNo      string    `json:"document_no" gorm:"size:64"`
	CustomerName    string    `json:"customer_name" gorm:"size:128"`
	IssuedAt        string    `json:"issued_at" gorm:"size:26;not null"`
	ReceivedAt      string    `json:"received_at" gorm:"size:26"`
	IssuedMachineID *uint     `json:"issued_machine_id"`
	RecvMachineID   *uint     `json:"recv_machine_id"`
	IssuedBy        string    `json:"issued_by" gorm:"size:64"`
	ReceivedBy      string    `json:"received_by" gorm:"size:64"`
	Notes           string    `json:"notes" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at"`

	Batch *Batch `json:"batch,omitempty" gorm:"foreignKey:BatchID"`
}

func (TransferLabel) TableName() string {
	return "transfer_labels"
}
