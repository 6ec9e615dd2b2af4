package handler

import (
	"fmt"
	"testing"

	"github.com/cecworks/cec-mes/internal/entity"
	"github.com/cecworks/cec-mes/internal/repository"
	"github.com/cecworks/cec-mes/internal/service"
	"github.com/cecworks/cec-mes/internal/testutil"
	"github.com/gin-gonic/gin"
)

func setupProductionRouter(t *testing.T) (*gin.Engine, *service.Services) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, nil, nil)
	h := NewHandlers(services)

	r := testutil.SetupRouter()
	api := r.Group("/api/v1")
	{
		api.POST("/jobs", h.Production.CreateJob)
		api.GET("/batches/resolve", h.Production.ResolveBatch)
		api.GET("/batches/:id/logs", h.Production.BatchLogs)
		api.POST("/scans", h.Production.RecordScan)
		api.POST("/transfers/issue", h.Production.IssueTransfer)
		api.POST("/transfers/receive", h.Production.ReceiveTransfer)
	}
	return r, services
}

func seedBatch(t *testing.T, services *service.Services) *entity.Batch {
	t.Helper()
	customer, err := services.Master.CreateCustomer(service.CreateCustomerRequest{Code: "CUST-01", Name: "Alpha Rubber"})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	product, err := services.Master.CreateProduct(service.CreateProductRequest{SKU: "SKU-100", Name: "EPDM Door Seal"})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	file, err := services.Order.CreateFile(service.CreateFileRequest{
		FileNo:     "CF-0001",
		CustomerID: customer.ID,
		OrderDate:  "2026-03-01 08:00",
		DueDate:    "2026-03-20 17:00",
		Items: []service.CreateFileItemRequest{
			{ProductID: product.ID, OrderedQtyKg: 500},
		},
	})
	if err != nil {
		t.Fatalf("seed customer file: %v", err)
	}
	job, err := services.Job.CreateFromItem(service.CreateJobRequest{ItemID: file.Items[0].ID})
	if err != nil {
		t.Fatalf("seed job: %v", err)
	}
	batch, err := services.Batch.Create(service.CreateBatchRequest{
		BatchNo:        "BAT-0001",
		JobID:          &job.ID,
		PlannedInputKg: 500,
	})
	if err != nil {
		t.Fatalf("seed batch: %v", err)
	}
	return batch
}

func TestRecordScanEndpoint(t *testing.T) {
	r, services := setupProductionRouter(t)
	seedBatch(t, services)

	w := testutil.DoRequest(r, "POST", "/api/v1/scans", gin.H{
		"barcode_text":  "BAT-0001",
		"process_name":  "MIXING",
		"input_qty_kg":  500,
		"good_qty_kg":   480,
		"reject_qty_kg": 20,
		"next_action":   "MOVE_NEXT",
	})
	if w.Code != 200 {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 0 {
		t.Fatalf("code = %v, want 0", resp["code"])
	}
	data := resp["data"].(map[string]interface{})
	batch := data["batch"].(map[string]interface{})
	if batch["current_process"] != "EXTRUDER" {
		t.Errorf("current_process = %v, want EXTRUDER", batch["current_process"])
	}
	if barcode, _ := data["issued_barcode"].(string); barcode == "" {
		t.Error("expected a handover barcode in the scan result")
	}
}

func TestRecordScanEndpointRejectsUnknownProcess(t *testing.T) {
	r, services := setupProductionRouter(t)
	seedBatch(t, services)

	w := testutil.DoRequest(r, "POST", "/api/v1/scans", gin.H{
		"barcode_text": "BAT-0001",
		"process_name": "POLISHING",
		"next_action":  "MOVE_NEXT",
	})
	if w.Code != 400 {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 10001 {
		t.Errorf("code = %v, want 10001", resp["code"])
	}
}

func TestTransferRoundTripEndpoint(t *testing.T) {
	r, services := setupProductionRouter(t)
	seedBatch(t, services)

	w := testutil.DoRequest(r, "POST", "/api/v1/transfers/issue", gin.H{
		"batch_code":    "BAT-0001",
		"from_process":  "MIXING",
		"issued_qty_kg": 480,
	})
	if w.Code != 200 {
		t.Fatalf("issue status = %d, body = %s", w.Code, w.Body.String())
	}
	label := testutil.ParseResponse(w)["data"].(map[string]interface{})
	barcode := label["transfer_barcode"].(string)

	w = testutil.DoRequest(r, "POST", "/api/v1/transfers/receive", gin.H{
		"transfer_barcode":  barcode,
		"receiving_process": "EXTRUDER",
		"received_qty_kg":   475.5,
	})
	if w.Code != 200 {
		t.Fatalf("receive status = %d, body = %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["message"] != "Received 475.50 KG (loss 4.50 KG)." {
		t.Errorf("message = %v", data["message"])
	}

	// second receive on the same label must conflict
	w = testutil.DoRequest(r, "POST", "/api/v1/transfers/receive", gin.H{
		"transfer_barcode":  barcode,
		"receiving_process": "EXTRUDER",
		"received_qty_kg":   475.5,
	})
	if w.Code != 400 {
		t.Fatalf("repeat receive status = %d, want 400", w.Code)
	}
	if code := testutil.ParseResponse(w)["code"].(float64); code != 10004 {
		t.Errorf("repeat receive code = %v, want 10004", code)
	}
}

func TestResolveBatchEndpoint(t *testing.T) {
	r, services := setupProductionRouter(t)
	batch := seedBatch(t, services)

	w := testutil.DoRequest(r, "GET", "/api/v1/batches/resolve?code=BAT-0001", nil)
	if w.Code != 200 {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if uint(data["id"].(float64)) != batch.ID {
		t.Errorf("resolved id = %v, want %d", data["id"], batch.ID)
	}

	w = testutil.DoRequest(r, "GET", "/api/v1/batches/resolve?code=NOPE", nil)
	if w.Code != 404 {
		t.Errorf("unknown code status = %d, want 404", w.Code)
	}
}

func TestBatchLogsEndpoint(t *testing.T) {
	r, services := setupProductionRouter(t)
	batch := seedBatch(t, services)

	if _, err := services.Scan.RecordScan(service.RecordScanRequest{
		BarcodeText: "BAT-0001",
		ProcessName: "MIXING",
		InputQtyKg:  500,
		GoodQtyKg:   490,
		RejectQtyKg: 10,
		NextAction:  "MOVE_NEXT",
	}); err != nil {
		t.Fatalf("scan: %v", err)
	}

	w := testutil.DoRequest(r, "GET", fmt.Sprintf("/api/v1/batches/%d/logs", batch.ID), nil)
	if w.Code != 200 {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	logs := testutil.ParseResponse(w)["data"].([]interface{})
	if len(logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(logs))
	}
}
