package repository

import "gorm.io/gorm"

// Repositories bundles every data-access component.
type Repositories struct {
	Master   *MasterRepository
	Machine  *MachineRepository
	Order    *OrderRepository
	Job      *JobRepository
	Batch    *BatchRepository
	Transfer *TransferRepository
	Tracking *TrackingRepository
	Shift    *ShiftRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Master:   NewMasterRepository(db),
		Machine:  NewMachineRepository(db),
		Order:    NewOrderRepository(db),
		Job:      NewJobRepository(db),
		Batch:    NewBatchRepository(db),
		Transfer: NewTransferRepository(db),
		Tracking: NewTrackingRepository(db),
		Shift:    NewShiftRepository(db),
	}
}
