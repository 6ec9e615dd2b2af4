package entity

import "time"

// Job status values
const (
	JobPlanned    = "PLANNED"
	JobReleased   = "RELEASED"
	JobInProgress = "IN_PROGRESS"
	JobClosed     = "CLOSED"
)

// Job is a production order cut from a customer file item. Batches hang
// off a job; the job keeps the planned quantity and routing line.
type Job struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	JobNo          string    `json:"job_no" gorm:"size:50;not null;uniqueIndex"`
	ItemID         *uint     `json:"item_id" gorm:"index"`
	ProductID      uint      `json:"product_id" gorm:"not null"`
	LineID         *uint     `json:"line_id"`
	PlannedQtyKg   float64   `json:"planned_qty_kg" gorm:"type:decimal(12,4);not null"`
	RecipeCode     string    `json:"recipe_code" gorm:"size:64"`
	DocumentNo     string    `json:"document_no" gorm:"size:64"`
	CustomerName   string    `json:"customer_name" gorm:"size:128"`
	Status         string    `json:"status" gorm:"size:20;not null;default:PLANNED"`
	PlannedStartAt string    `json:"planned_start_at" gorm:"size:20"`
	Remarks        string    `json:"remarks" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`

	Item    *CustomerFileItem `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	Product *Product          `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Line    *ProductionLine   `json:"line,omitempty" gorm:"foreignKey:LineID"`
	Batches []Batch           `json:"batches,omitempty" gorm:"foreignKey:JobID"`
}

func (Job) TableName() string {
	return "jobs"
}
