package service

import (
	"errors"

	"github.com/cecworks/cec-mes/internal/notify"
	"github.com/cecworks/cec-mes/internal/repository"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Sentinel errors the handler layer maps onto response codes.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid input")
	ErrConflict   = errors.New("state conflict")
)

// Services bundles every business component.
type Services struct {
	Master   *MasterService
	Order    *OrderService
	Job      *JobService
	Batch    *BatchService
	Scan     *ScanService
	Transfer *TransferService
	Tracking *TrackingService
	Machine  *MachineService
	Shift    *ShiftService
	Report   *ReportService
}

func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, notifier *notify.Client) *Services {
	tracking := NewTrackingService(repos.Order, repos.Job, repos.Batch, repos.Tracking, db, rdb)
	return &Services{
		Master:   NewMasterService(repos.Master),
		Order:    NewOrderService(repos.Master, repos.Order, repos.Tracking),
		Job:      NewJobService(repos.Order, repos.Job, repos.Master, repos.Tracking, db),
		Batch:    NewBatchService(repos.Batch, repos.Job, repos.Order, repos.Tracking, db),
		Scan:     NewScanService(repos.Batch, repos.Machine, repos.Transfer, repos.Order, repos.Job, repos.Tracking, db, notifier),
		Transfer: NewTransferService(repos.Transfer, repos.Batch, repos.Machine, db),
		Tracking: tracking,
		Machine:  NewMachineService(repos.Machine, repos.Master),
		Shift:    NewShiftService(repos.Shift, repos.Machine, db, notifier),
		Report:   NewReportService(repos.Batch, repos.Transfer, repos.Shift, repos.Machine, repos.Job),
	}
}
