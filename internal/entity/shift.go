package entity

import "time"

// Breakdown status values
const (
	BreakdownOpen     = "OPEN"
	BreakdownResolved = "RESOLVED"
)

// OTLog is one overtime record for a section on a date.
type OTLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	WorkDate    string    `json:"work_date" gorm:"size:20;not null;index"`
	SectionName string    `json:"section_name" gorm:"size:32;not null"`
	LineID      *uint     `json:"line_id"`
	Headcount   int       `json:"headcount" gorm:"not null"`
	Hours       float64   `json:"hours" gorm:"type:decimal(8,2);not null"`
	Reason      string    `json:"reason" gorm:"type:text"`
	ApprovedBy  string    `json:"approved_by" gorm:"size:64"`
	CreatedAt   time.Time `json:"created_at"`

	Line *ProductionLine `json:"line,omitempty" gorm:"foreignKey:LineID"`
}

func (OTLog) TableName() string {
	return "ot_logs"
}

// Breakdown is one machine downtime record. Resolving it clears the
// machine back to IDLE.
type Breakdown struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	MachineID   uint      `json:"machine_id" gorm:"not null;index"`
	ReportedAt  string    `json:"reported_at" gorm:"size:20;not null"`
	ResolvedAt  string    `json:"resolved_at" gorm:"size:20"`
	Description string    `json:"description" gorm:"type:text"`
	ActionTaken string    `json:"action_taken" gorm:"type:text"`
	ReportedBy  string    `json:"reported_by" gorm:"size:64"`
	Status      string    `json:"status" gorm:"size:20;not null;default:OPEN"`
	CreatedAt   time.Time `json:"created_at"`

	Machine *Machine `json:"machine,omitempty" gorm:"foreignKey:MachineID"`
}

func (Breakdown) TableName() string {
	return "breakdowns"
}
