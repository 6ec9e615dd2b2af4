package entity

import "time"

// CustomerFileStatus values
const (
	FileOpen   = "OPEN"
	FileClosed = "CLOSED"
)

// ItemStatus values for a customer file line. PENDING_JOB is the stored
// default before planning touches the line; the tracker normalizes it to
// WAITING_PLANNING on read.
const (
	ItemWaitingPlanning    = "WAITING_PLANNING"
	ItemPendingJob         = "PENDING_JOB"
	ItemReadyForProduction = "READY_FOR_PRODUCTION"
	ItemJobCreated         = "JOB_CREATED"
	ItemInProduction       = "IN_PRODUCTION"
	ItemHold               = "HOLD"
	ItemCompleted          = "COMPLETED"
)

// ItemStatusChoices lists the statuses a planner may set directly.
var ItemStatusChoices = []string{
	ItemWaitingPlanning, ItemReadyForProduction, ItemJobCreated,
	ItemInProduction, ItemHold, ItemCompleted,
}

// IsItemStatus reports whether s is a planner-settable item status.
func IsItemStatus(s string) bool {
	for _, v := range ItemStatusChoices {
		if v == s {
			return true
		}
	}
	return false
}

// CustomerFile is one customer order document holding several item lines.
type CustomerFile struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FileNo     string    `json:"file_no" gorm:"size:50;not null;uniqueIndex"`
	CustomerID uint      `json:"customer_id" gorm:"not null;index"`
	OrderDate  string    `json:"order_date" gorm:"size:20;not null"`
	DueDate    string    `json:"due_date" gorm:"size:20"`
	PONo       string    `json:"po_no" gorm:"size:64"`
	Remarks    string    `json:"remarks" gorm:"type:text"`
	Status     string    `json:"status" gorm:"size:20;not null;default:OPEN"`
	CreatedAt  time.Time `json:"created_at"`

	Customer *Customer          `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items    []CustomerFileItem `json:"items,omitempty" gorm:"foreignKey:CustomerFileID"`
}

func (CustomerFile) TableName() string {
	return "customer_files"
}

// CustomerFileItem is one ordered product line on a customer file. Its
// status holds the last value written by either a planner update or a
// production cascade; the tracker snapshot derives the presented status.
type CustomerFileItem struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	CustomerFileID uint      `json:"customer_file_id" gorm:"not null;index"`
	LineNo         int       `json:"line_no" gorm:"not null"`
	ProductID      uint      `json:"product_id" gorm:"not null"`
	OrderedQtyKg   float64   `json:"ordered_qty_kg" gorm:"type:decimal(12,4);not null"`
	TargetLineID   *uint     `json:"target_line_id"`
	Remarks        string    `json:"remarks" gorm:"type:text"`
	Status         string    `json:"status" gorm:"size:30;not null;default:PENDING_JOB"`
	PlannedJobID   *uint     `json:"planned_job_id" gorm:"index"`
	CreatedAt      time.Time `json:"created_at"`

	File       *CustomerFile   `json:"file,omitempty" gorm:"foreignKey:CustomerFileID"`
	Product    *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	TargetLine *ProductionLine `json:"target_line,omitempty" gorm:"foreignKey:TargetLineID"`
}

func (CustomerFileItem) TableName() string {
	return "customer_file_items"
}
