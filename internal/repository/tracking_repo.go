package repository

import (
	"github.com/cecworks/cec-mes/internal/entity"
	"gorm.io/gorm"
)

type TrackingRepository struct {
	db *gorm.DB
}

func NewTrackingRepository(db *gorm.DB) *TrackingRepository {
	return &TrackingRepository{db: db}
}

func (r *TrackingRepository) GetPlanner(itemID uint) (*entity.PlannerUpdate, error) {
	var p entity.PlannerUpdate
	err := r.db.Where("item_id = ?", itemID).First(&p).Error
	return &p, err
}

// PlannersForItems loads planner rows keyed by item id.
func (r *TrackingRepository) PlannersForItems(itemIDs []uint) (map[uint]entity.PlannerUpdate, error) {
	if len(itemIDs) == 0 {
		return map[uint]entity.PlannerUpdate{}, nil
	}
	var ps []entity.PlannerUpdate
	if err := r.db.Where("item_id IN ?", itemIDs).Find(&ps).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]entity.PlannerUpdate, len(ps))
	for _, p := range ps {
		out[p.ItemID] = p
	}
	return out, nil
}

func (r *TrackingRepository) CreateEvent(e *entity.TrackingEvent) error {
	return r.db.Create(e).Error
}

// EventsByItem returns the item's audit trail in chronological order.
func (r *TrackingRepository) EventsByItem(itemID uint) ([]entity.TrackingEvent, error) {
	var es []entity.TrackingEvent
	err := r.db.Where("item_id = ?", itemID).
		Order("occurred_at, id").Find(&es).Error
	return es, err
}

// LatestEventsForItems returns the newest event per item in one query.
func (r *TrackingRepository) LatestEventsForItems(itemIDs []uint) (map[uint]entity.TrackingEvent, error) {
	if len(itemIDs) == 0 {
		return map[uint]entity.TrackingEvent{}, nil
	}
	var es []entity.TrackingEvent
	err := r.db.Raw(`
		SELECT DISTINCT ON (item_id) *
		FROM tracking_events
		WHERE item_id IN ?
		ORDER BY item_id, occurred_at DESC, id DESC
	`, itemIDs).Scan(&es).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]entity.TrackingEvent, len(es))
	for _, e := range es {
		out[e.ItemID] = e
	}
	return out, nil
}
