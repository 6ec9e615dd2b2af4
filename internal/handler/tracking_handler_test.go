package handler

import (
	"context"
	"os"
	"testing"

	"github.com/cecworks/cec-mes/internal/repository"
	"github.com/cecworks/cec-mes/internal/service"
	"github.com/cecworks/cec-mes/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const trackerCacheKey = "cec-mes:tracker:rows"

// setupTrackerRouter wires the tracker board with a live redis cache
// behind it. Skips when no redis is reachable.
func setupTrackerRouter(t *testing.T) (*gin.Engine, *service.Services) {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	rdb.Del(context.Background(), trackerCacheKey)
	t.Cleanup(func() {
		rdb.Del(context.Background(), trackerCacheKey)
		rdb.Close()
	})

	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, rdb, nil)
	h := NewHandlers(services)

	r := testutil.SetupRouter()
	api := r.Group("/api/v1")
	{
		api.GET("/tracker", h.Tracking.List)
		api.POST("/scans", h.Production.RecordScan)
	}
	return r, services
}

func TestTrackerCacheDroppedAfterScan(t *testing.T) {
	r, services := setupTrackerRouter(t)
	seedBatch(t, services)

	// prime the cache
	w := testutil.DoRequest(r, "GET", "/api/v1/tracker", nil)
	if w.Code != 200 {
		t.Fatalf("prime tracker: status %d", w.Code)
	}

	w = testutil.DoRequest(r, "POST", "/api/v1/scans", gin.H{
		"barcode_text": "BAT-0001",
		"process_name": "EXTRUDER",
		"input_qty_kg": 480,
		"good_qty_kg":  460,
		"next_action":  "MOVE_NEXT",
	})
	if w.Code != 200 {
		t.Fatalf("scan: status %d, body %s", w.Code, w.Body.String())
	}

	// the list must reflect the scan, not the cached snapshot
	w = testutil.DoRequest(r, "GET", "/api/v1/tracker", nil)
	if w.Code != 200 {
		t.Fatalf("reload tracker: status %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	rows, _ := resp["data"].([]interface{})
	if len(rows) != 1 {
		t.Fatalf("tracker rows = %d, want 1", len(rows))
	}
	row, _ := rows[0].(map[string]interface{})
	if row["current_stage"] != "EXTRUDER" {
		t.Errorf("tracker served stale stage %v after scan", row["current_stage"])
	}
}
