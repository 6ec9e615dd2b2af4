package entity

import "time"

// Tracking event types
const (
	EventOrderLineCreated = "ORDER_LINE_CREATED"
	EventPlannerUpdate    = "PLANNER_UPDATE"
	EventJobCreated       = "JOB_CREATED"
	EventBatchCreated     = "BATCH_CREATED"
	EventProcessScan      = "PROCESS_SCAN"
)

// PlannerUpdate is the planner's editable control record for a customer
// file item. One row per item; upserts overwrite in place. ReadyAt is the
// planner's promised material-ready time.
type PlannerUpdate struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ItemID         uint      `json:"item_id" gorm:"not null;uniqueIndex"`
	Status         string    `json:"status" gorm:"size:30;not null;default:WAITING_PLANNING"`
	RemainingHours *float64  `json:"remaining_hours" gorm:"type:decimal(8,2)"`
	ReadyAt        string    `json:"ready_at" gorm:"size:20"`
	Note           string    `json:"note" gorm:"type:text"`
	UpdatedAt      string    `json:"updated_at" gorm:"size:20"`
	CreatedAt      time.Time `json:"created_at"`

	Item *CustomerFileItem `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}

func (PlannerUpdate) TableName() string {
	return "planner_updates"
}

// TrackingEvent is one append-only audit entry against a customer file
// item. OccurredAt is caller time as "YYYY-MM-DD HH:MM"; StatusLabel is
// the item status the event observed or set; SourceRef points at the
// document or batch that triggered it. ActorRole is the acting function
// (MARKETING, PLANNING, PRODUCTION); ActorName is the person when known.
type TrackingEvent struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ItemID      uint      `json:"item_id" gorm:"not null;index"`
	EventType   string    `json:"event_type" gorm:"size:32;not null"`
	Stage       string    `json:"stage" gorm:"size:32"`
	StatusLabel string    `json:"status_label" gorm:"size:30"`
	SourceRef   string    `json:"source_ref" gorm:"size:64"`
	ActorRole   string    `json:"actor_role" gorm:"size:20"`
	ActorName   string    `json:"actor_name" gorm:"size:64"`
	Note        string    `json:"note" gorm:"type:text"`
	OccurredAt  string    `json:"occurred_at" gorm:"size:20;not null;index"`
	CreatedAt   time.Time `json:"created_at"`

	Item *CustomerFileItem `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}

func (TrackingEvent) TableName() string {
	return "tracking_events"
}
