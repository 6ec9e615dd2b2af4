package entity

import "time"

// MachineStatus values
const (
	MachineIdle        = "IDLE"
	MachineRunning     = "RUNNING"
	MachineBreakdown   = "BREAKDOWN"
	MachineSetup       = "SETUP"
	MachineMaintenance = "MAINTENANCE"
)

// MachineStatuses lists the accepted machine states.
var MachineStatuses = []string{
	MachineIdle, MachineRunning, MachineBreakdown, MachineSetup, MachineMaintenance,
}

// IsMachineStatus reports whether s is a recognized machine status.
func IsMachineStatus(s string) bool {
	for _, v := range MachineStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Machine is a scannable work centre bound to one process stage.
type Machine struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	MachineCode    string    `json:"machine_code" gorm:"size:50;not null;uniqueIndex"`
	MachineName    string    `json:"machine_name" gorm:"size:128;not null"`
	SectionName    string    `json:"section_name" gorm:"size:32;not null"`
	ProcessName    string    `json:"process_name" gorm:"size:32;not null"`
	LineID         *uint     `json:"line_id" gorm:"index"`
	Status         string    `json:"status" gorm:"size:20;not null;default:IDLE"`
	IsActive       bool      `json:"is_active" gorm:"default:true"`
	LastActivityAt string    `json:"last_activity_at" gorm:"size:20"`
	CurrentBatchID *uint     `json:"current_batch_id"`
	CurrentNote    string    `json:"current_note" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`

	Line *ProductionLine `json:"line,omitempty" gorm:"foreignKey:LineID"`
}

func (Machine) TableName() string {
	return "machines"
}
