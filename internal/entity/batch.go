package entity

import "time"

// Batch status values
const (
	BatchOpen      = "OPEN"
	BatchHold      = "HOLD"
	BatchCompleted = "COMPLETED"
)

// Scan next-action values
const (
	ActionMoveNext = "MOVE_NEXT"
	ActionRejected = "REJECTED"
	ActionRework   = "REWORK"
)

// NextActions lists the accepted scan outcomes.
var NextActions = []string{ActionMoveNext, ActionRejected, ActionRework}

// IsNextAction reports whether s is a valid scan outcome.
func IsNextAction(s string) bool {
	for _, v := range NextActions {
		if v == s {
			return true
		}
	}
	return false
}

// Batch is one traceable production lot moving through the stage sequence.
// CurrentProcess is the stage the batch sits at; BarcodeText is the
// scannable identity and defaults to BatchNo when not supplied.
type Batch struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	BatchNo        string    `json:"batch_no" gorm:"size:64;not null;uniqueIndex"`
	BarcodeText    string    `json:"barcode_text" gorm:"size:128;not null;index"`
	JobID          *uint     `json:"job_id" gorm:"index"`
	RecipeCode     string    `json:"recipe_code" gorm:"size:64"`
	ItemName       string    `json:"item_name" gorm:"size:128"`
	DocumentNo     string    `json:"document_no" gorm:"size:64"`
	CustomerName   string    `json:"customer_name" gorm:"size:128"`
	PlannedInputKg float64   `json:"planned_input_kg" gorm:"type:decimal(12,4)"`
	CurrentProcess string    `json:"current_process" gorm:"size:32;not null;default:MIXING"`
	Status         string    `json:"status" gorm:"size:20;not null;default:OPEN"`
	Remarks        string    `json:"remarks" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`

	Job  *Job         `json:"job,omitempty" gorm:"foreignKey:JobID"`
	Logs []ProcessLog `json:"logs,omitempty" gorm:"foreignKey:BatchID"`
}

func (Batch) TableName() string {
	return "batches"
}

// ProcessLog is one recorded scan for a batch at a stage. ScannedAt is a
// caller-supplied "YYYY-MM-DD HH:MM" string so ordering within a batch is
// scanned_at then id.
type ProcessLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	BatchID     uint      `json:"batch_id" gorm:"not null;index"`
	ProcessName string    `json:"process_name" gorm:"size:32;not null"`
	MachineID   *uint     `json:"machine_id"`
	OperatorID  string    `json:"operator_id" gorm:"size:64"`
	InputQtyKg  float64   `json:"input_qty_kg" gorm:"type:decimal(12,4)"`
	GoodQtyKg   float64   `json:"good_qty_kg" gorm:"type:decimal(12,4)"`
	RejectQtyKg float64   `json:"reject_qty_kg" gorm:"type:decimal(12,4)"`
	NextAction  string    `json:"next_action" gorm:"size:20;not null"`
	ScannedAt   string    `json:"scanned_at" gorm:"size:20;not null;index"`
	Notes       string    `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`

	Batch   *Batch   `json:"batch,omitempty" gorm:"foreignKey:BatchID"`
	Machine *Machine `json:"machine,omitempty" gorm:"foreignKey:MachineID"`
}

func (ProcessLog) TableName() string {
	return "process_logs"
}
