package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cecworks/cec-mes/internal/entity"
	"github.com/cecworks/cec-mes/internal/repository"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	trackerCacheKey = "cec-mes:tracker:rows"
	trackerCacheTTL = 30 * time.Second
)

type TrackingService struct {
	orderRepo    *repository.OrderRepository
	jobRepo      *repository.JobRepository
	batchRepo    *repository.BatchRepository
	trackingRepo *repository.TrackingRepository
	db           *gorm.DB
	rdb          *redis.Client
}

func NewTrackingService(orderRepo *repository.OrderRepository, jobRepo *repository.JobRepository, batchRepo *repository.BatchRepository, trackingRepo *repository.TrackingRepository, db *gorm.DB, rdb *redis.Client) *TrackingService {
	return &TrackingService{
		orderRepo:    orderRepo,
		jobRepo:      jobRepo,
		batchRepo:    batchRepo,
		trackingRepo: trackingRepo,
		db:           db,
		rdb:          rdb,
	}
}

// TrackerRow is the derived read model for one order line. Nothing here
// is stored; every field is recomputed from the line, its planner record,
// its newest job and batch, the batch's latest scan and the newest audit
// event.
type TrackerRow struct {
	ItemID         uint     `json:"item_id"`
	FileNo         string   `json:"file_no"`
	LineNo         int      `json:"line_no"`
	CustomerCode   string   `json:"customer_code"`
	CustomerName   string   `json:"customer_name"`
	SKU            string   `json:"sku"`
	ProductName    string   `json:"product_name"`
	OrderedQtyKg   float64  `json:"ordered_qty_kg"`
	DueDate        string   `json:"due_date"`
	PONo           string   `json:"po_no"`
	Status         string   `json:"status"`
	CurrentStage   string   `json:"current_stage"`
	ProgressPct    int      `json:"progress_pct"`
	JobNo          string   `json:"job_no,omitempty"`
	JobStatus      string   `json:"job_status,omitempty"`
	BatchNo        string   `json:"batch_no,omitempty"`
	BatchStatus    string   `json:"batch_status,omitempty"`
	CurrentProcess string   `json:"current_process,omitempty"`
	LatestScanAt   string   `json:"latest_scan_at,omitempty"`
	RemainingHours *float64 `json:"remaining_hours,omitempty"`
	ReadyAt        string   `json:"ready_at,omitempty"`
	PlannerNote    string   `json:"planner_note,omitempty"`
	LastUpdate     string   `json:"last_update,omitempty"`
	Risk           string   `json:"risk"`
}

// Snapshot builds the tracker row for one order line.
func (s *TrackingService) Snapshot(itemID uint) (*TrackerRow, error) {
	item, err := s.orderRepo.GetItem(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
		}
		return nil, err
	}
	row, err := s.buildRow(item)
	if err != nil {
		return nil, err
	}
	return row, nil
}

// List builds tracker rows for every order line, newest line first. Rows
// are served from the redis cache when one is attached and fresh.
func (s *TrackingService) List(ctx context.Context) ([]TrackerRow, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, trackerCacheKey).Bytes(); err == nil {
			var rows []TrackerRow
			if json.Unmarshal(cached, &rows) == nil {
				return rows, nil
			}
		}
	}

	items, err := s.orderRepo.ListItems("")
	if err != nil {
		return nil, err
	}
	rows := make([]TrackerRow, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		row, err := s.buildRow(&items[i])
		if err != nil {
			return nil, err
		}
		rows = append(rows, *row)
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(rows); err == nil {
			s.rdb.Set(ctx, trackerCacheKey, payload, trackerCacheTTL)
		}
	}
	return rows, nil
}

// Invalidate drops the cached tracker list after a write.
func (s *TrackingService) Invalidate(ctx context.Context) {
	if s.rdb != nil {
		s.rdb.Del(ctx, trackerCacheKey)
	}
}

func (s *TrackingService) buildRow(item *entity.CustomerFileItem) (*TrackerRow, error) {
	row := &TrackerRow{
		ItemID:       item.ID,
		LineNo:       item.LineNo,
		OrderedQtyKg: item.OrderedQtyKg,
		CurrentStage: "ORDER RECEIVED",
		ProgressPct:  5,
	}
	if item.File != nil {
		row.FileNo = item.File.FileNo
		row.DueDate = item.File.DueDate
		row.PONo = item.File.PONo
		if item.File.Customer != nil {
			row.CustomerCode = item.File.Customer.Code
			row.CustomerName = item.File.Customer.Name
		}
	}
	if item.Product != nil {
		row.SKU = item.Product.SKU
		row.ProductName = item.Product.Name
	}

	planner, plannerErr := s.trackingRepo.GetPlanner(item.ID)
	hasPlanner := plannerErr == nil

	status := item.Status
	if hasPlanner && planner.Status != "" {
		status = planner.Status
	}
	if status == "" {
		status = entity.ItemWaitingPlanning
	}

	var job *entity.Job
	if item.PlannedJobID != nil {
		if j, err := s.jobRepo.GetByID(*item.PlannedJobID); err == nil {
			job = j
		}
	}
	if job != nil {
		row.JobNo = job.JobNo
		row.JobStatus = job.Status
		row.CurrentStage = "JOB CREATED"
		row.ProgressPct = 18
		if status == entity.ItemWaitingPlanning || status == entity.ItemPendingJob {
			status = entity.ItemJobCreated
		}
	}

	var batch *entity.Batch
	var latestLog *entity.ProcessLog
	if job != nil {
		if b, err := s.batchRepo.LatestByJob(job.ID); err == nil {
			batch = b
		}
	}
	if batch != nil {
		row.BatchNo = batch.BatchNo
		row.BatchStatus = batch.Status
		row.CurrentProcess = batch.CurrentProcess
		row.CurrentStage = batch.CurrentProcess
		if row.CurrentStage == "" {
			row.CurrentStage = entity.StageMixing
		}
		row.ProgressPct = 30
		switch batch.Status {
		case entity.BatchOpen:
			status = entity.ItemInProduction
		case entity.BatchHold:
			status = entity.ItemHold
		default:
			status = entity.ItemCompleted
		}
		if l, err := s.batchRepo.LatestLog(batch.ID); err == nil {
			latestLog = l
		}
	}
	if latestLog != nil {
		row.CurrentStage = latestLog.ProcessName
		row.LatestScanAt = latestLog.ScannedAt
		if pct := entity.StageProgressPct(latestLog.ProcessName); pct > 0 {
			row.ProgressPct = pct
		}
		if latestLog.NextAction == entity.ActionRejected {
			status = entity.ItemHold
		}
	}
	if batch != nil && batch.Status == entity.BatchCompleted {
		status = entity.ItemCompleted
		row.CurrentStage = entity.StageStoreReceiving
		row.ProgressPct = 100
	}
	row.Status = status

	if hasPlanner {
		row.RemainingHours = planner.RemainingHours
		row.ReadyAt = planner.ReadyAt
		row.PlannerNote = planner.Note
	}

	row.Risk = assessRisk(row.DueDate, row.ReadyAt, status)

	var latestEvent *entity.TrackingEvent
	if events, err := s.trackingRepo.LatestEventsForItems([]uint{item.ID}); err == nil {
		if e, ok := events[item.ID]; ok {
			latestEvent = &e
		}
	}
	candidates := []string{}
	if latestEvent != nil {
		candidates = append(candidates, latestEvent.OccurredAt)
	}
	if latestLog != nil {
		candidates = append(candidates, latestLog.ScannedAt)
	}
	if hasPlanner {
		candidates = append(candidates, planner.UpdatedAt)
	}
	candidates = append(candidates, item.CreatedAt.Format(stampLayout))
	for _, c := range candidates {
		if c != "" {
			row.LastUpdate = c
			break
		}
	}
	return row, nil
}

// assessRisk grades an order line against its due date. A promised ready
// time past the due date is RISK, same day is TIGHT, a due date with no
// promise on an unfinished line is CHECK.
func assessRisk(dueDate, readyAt, status string) string {
	due, dueErr := parseFlexible(dueDate)
	ready, readyErr := parseFlexible(readyAt)
	hasDue := dueDate != "" && dueErr == nil
	hasReady := readyAt != "" && readyErr == nil
	switch {
	case hasDue && hasReady && ready.After(due):
		return "RISK"
	case hasDue && hasReady && sameDay(ready, due):
		return "TIGHT"
	case hasDue && !hasReady && status != entity.ItemCompleted:
		return "CHECK"
	default:
		return "ON_TRACK"
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

type PlannerUpdateRequest struct {
	Status         string   `json:"status" binding:"required"`
	RemainingHours *float64 `json:"remaining_hours"`
	ReadyAt        string   `json:"ready_at"`
	Note           string   `json:"note"`
	PlannerName    string   `json:"planner_name"`
}

// UpsertPlanner writes the planner control record for an order line,
// copies the chosen status onto the line itself and stamps a
// PLANNER_UPDATE event.
func (s *TrackingService) UpsertPlanner(itemID uint, req PlannerUpdateRequest) (*entity.PlannerUpdate, error) {
	if !entity.IsItemStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown item status %s", ErrValidation, req.Status)
	}
	item, err := s.orderRepo.GetItem(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
		}
		return nil, err
	}
	readyAt := ""
	if req.ReadyAt != "" {
		if readyAt, err = normalizeStamp(req.ReadyAt); err != nil {
			return nil, fmt.Errorf("%w: bad ready_at %q", ErrValidation, req.ReadyAt)
		}
	}

	now := nowStamp()
	planner, err := s.trackingRepo.GetPlanner(itemID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		planner = &entity.PlannerUpdate{ItemID: itemID}
	}
	planner.Status = req.Status
	planner.RemainingHours = req.RemainingHours
	planner.ReadyAt = readyAt
	planner.Note = req.Note
	planner.UpdatedAt = now

	note := "Planner updated the line."
	if readyAt != "" {
		note = fmt.Sprintf("Planner promised ready by %s.", readyAt)
	}
	if req.RemainingHours != nil {
		note = fmt.Sprintf("%s Remaining hours: %g.", note, *req.RemainingHours)
	}
	fileNo := ""
	if item.File != nil {
		fileNo = item.File.FileNo
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(planner).Error; err != nil {
			return fmt.Errorf("save planner update: %w", err)
		}
		if err := tx.Model(&entity.CustomerFileItem{}).Where("id = ?", itemID).
			Update("status", req.Status).Error; err != nil {
			return err
		}
		return tx.Create(&entity.TrackingEvent{
			ItemID:      itemID,
			EventType:   entity.EventPlannerUpdate,
			Stage:       "PLANNING",
			StatusLabel: req.Status,
			SourceRef:   fileNo,
			ActorRole:   "PLANNING",
			ActorName:   req.PlannerName,
			Note:        note,
			OccurredAt:  now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return planner, nil
}

// Timeline returns the item's audit trail, newest first.
func (s *TrackingService) Timeline(itemID uint) ([]entity.TrackingEvent, error) {
	if _, err := s.orderRepo.GetItem(itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
		}
		return nil, err
	}
	events, err := s.trackingRepo.EventsByItem(itemID)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}
