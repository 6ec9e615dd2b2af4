package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/cecworks/cec-mes/internal/entity"
)

func TestRecordScanMoveNext(t *testing.T) {
	svc, db := setupServices(t)
	fx := seedProductionChain(t, svc, db)

	result, err := svc.Scan.RecordScan(RecordScanRequest{
		BarcodeText:  "BAT-0001",
		ProcessName:  entity.StageMixing,
		ScanTime:     "2026-03-02 09:00",
		OperatorName: "op-1",
		MachineID:    &fx.Machine.ID,
		InputQtyKg:   500,
		GoodQtyKg:    480,
		RejectQtyKg:  20,
		NextAction:   entity.ActionMoveNext,
	})
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}

	if result.Batch.CurrentProcess != entity.StageExtruder {
		t.Errorf("current process = %s, want EXTRUDER", result.Batch.CurrentProcess)
	}
	if result.Batch.Status != entity.BatchOpen {
		t.Errorf("batch status = %s, want OPEN", result.Batch.Status)
	}
	if result.IssuedBarcode == "" {
		t.Error("expected a transfer barcode to be issued")
	}
	if !strings.HasPrefix(result.IssuedBarcode, "NP-BAT-0001-MIX-EXT-") {
		t.Errorf("unexpected barcode format: %s", result.IssuedBarcode)
	}

	label, err := svc.Transfer.transferRepo.GetByBarcode(result.IssuedBarcode)
	if err != nil {
		t.Fatalf("load issued label: %v", err)
	}
	if label.IssuedQtyKg != 480 {
		t.Errorf("issued qty = %v, want 480", label.IssuedQtyKg)
	}
	if label.Status != entity.TransferIssued {
		t.Errorf("label status = %s, want ISSUED", label.Status)
	}

	item, err := svc.Order.GetItem(fx.Item.ID)
	if err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if item.Status != entity.ItemInProduction {
		t.Errorf("item status = %s, want IN_PRODUCTION", item.Status)
	}

	timeline, err := svc.Tracking.Timeline(fx.Item.ID)
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	var scanEvent *entity.TrackingEvent
	for i := range timeline {
		if timeline[i].EventType == entity.EventProcessScan {
			scanEvent = &timeline[i]
			break
		}
	}
	if scanEvent == nil {
		t.Fatal("timeline should contain the scan event")
	}
	if scanEvent.ActorRole != "PRODUCTION" {
		t.Errorf("actor role = %s, want PRODUCTION", scanEvent.ActorRole)
	}

	machine, err := svc.Machine.GetByID(fx.Machine.ID)
	if err != nil {
		t.Fatalf("reload machine: %v", err)
	}
	if machine.Status != entity.MachineRunning {
		t.Errorf("machine status = %s, want RUNNING", machine.Status)
	}
	if machine.CurrentBatchID == nil || *machine.CurrentBatchID != fx.Batch.ID {
		t.Error("machine should be linked to the scanned batch")
	}
}

func TestRecordScanRejectedHoldsBatch(t *testing.T) {
	svc, db := setupServices(t)
	fx := seedProductionChain(t, svc, db)

	result, err := svc.Scan.RecordScan(RecordScanRequest{
		BarcodeText: "BAT-0001",
		ProcessName: entity.StageMixing,
		ScanTime:    "2026-03-02 09:00",
		InputQtyKg:  500,
		GoodQtyKg:   0,
		RejectQtyKg: 500,
		NextAction:  entity.ActionRejected,
	})
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}

	if result.Batch.CurrentProcess != entity.StageMixing {
		t.Errorf("rejected batch must stay at MIXING, got %s", result.Batch.CurrentProcess)
	}
	if result.Batch.Status != entity.BatchHold {
		t.Errorf("batch status = %s, want HOLD", result.Batch.Status)
	}
	if result.IssuedBarcode != "" {
		t.Error("rejected scan must not issue a transfer label")
	}

	item, _ := svc.Order.GetItem(fx.Item.ID)
	if item.Status != entity.ItemHold {
		t.Errorf("item status = %s, want HOLD", item.Status)
	}
}

func TestRecordScanReworkStaysInFlow(t *testing.T) {
	svc, db := setupServices(t)
	seedProductionChain(t, svc, db)

	result, err := svc.Scan.RecordScan(RecordScanRequest{
		BarcodeText: "BAT-0001",
		ProcessName: entity.StageMixing,
		ScanTime:    "2026-03-02 09:00",
		InputQtyKg:  500,
		GoodQtyKg:   470,
		RejectQtyKg: 0,
		NextAction:  entity.ActionRework,
	})
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if result.Batch.CurrentProcess != entity.StageExtruder {
		t.Errorf("rework advances like a pass, got %s", result.Batch.CurrentProcess)
	}
	if result.IssuedBarcode != "" {
		t.Error("rework must not issue a transfer label")
	}
}

func TestRecordScanFinalStageCompletes(t *testing.T) {
	svc, db := setupServices(t)
	fx := seedProductionChain(t, svc, db)

	result, err := svc.Scan.RecordScan(RecordScanRequest{
		BarcodeText: "BAT-0001",
		ProcessName: entity.StageStoreReceiving,
		ScanTime:    "2026-03-10 15:00",
		InputQtyKg:  450,
		GoodQtyKg:   450,
		NextAction:  entity.ActionMoveNext,
	})
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}

	if result.Batch.Status != entity.BatchCompleted {
		t.Errorf("batch status = %s, want COMPLETED", result.Batch.Status)
	}
	if result.Batch.CurrentProcess != entity.ProcessCompleted {
		t.Errorf("current process = %s, want COMPLETED", result.Batch.CurrentProcess)
	}
	if result.IssuedBarcode != "" {
		t.Error("final stage must not issue a transfer label")
	}

	item, _ := svc.Order.GetItem(fx.Item.ID)
	if item.Status != entity.ItemCompleted {
		t.Errorf("item status = %s, want COMPLETED", item.Status)
	}
}

func TestRecordScanTwiceSameSecond(t *testing.T) {
	svc, db := setupServices(t)
	seedProductionChain(t, svc, db)

	first, err := svc.Scan.RecordScan(RecordScanRequest{
		BarcodeText: "BAT-0001",
		ProcessName: entity.StageMixing,
		InputQtyKg:  250,
		GoodQtyKg:   240,
		NextAction:  entity.ActionMoveNext,
	})
	if err != nil {
		t.Fatalf("first RecordScan: %v", err)
	}

	// same stage again immediately, so the issued barcodes collide on the
	// second-precision stamp
	second, err := svc.Scan.RecordScan(RecordScanRequest{
		BarcodeText: "BAT-0001",
		ProcessName: entity.StageMixing,
		InputQtyKg:  250,
		GoodQtyKg:   235,
		NextAction:  entity.ActionMoveNext,
	})
	if err != nil {
		t.Fatalf("second RecordScan: %v", err)
	}
	if second.IssuedBarcode == "" {
		t.Fatal("second scan should still issue a transfer label")
	}
	if second.IssuedBarcode == first.IssuedBarcode {
		t.Errorf("both scans issued barcode %s", first.IssuedBarcode)
	}

	var logs int64
	if err := db.Model(&entity.ProcessLog{}).Count(&logs).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if logs != 2 {
		t.Errorf("process logs = %d, want 2", logs)
	}
}

func TestRecordScanRejectsUnknownProcess(t *testing.T) {
	svc, db := setupServices(t)
	seedProductionChain(t, svc, db)

	_, err := svc.Scan.RecordScan(RecordScanRequest{
		BarcodeText: "BAT-0001",
		ProcessName: "POLISHING",
		NextAction:  entity.ActionMoveNext,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown process, got %v", err)
	}
}

func TestRecordScanUnknownBarcode(t *testing.T) {
	svc, db := setupServices(t)
	seedProductionChain(t, svc, db)

	_, err := svc.Scan.RecordScan(RecordScanRequest{
		BarcodeText: "NO-SUCH-BATCH",
		ProcessName: entity.StageMixing,
		NextAction:  entity.ActionMoveNext,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecordScanMachineProcessMismatch(t *testing.T) {
	svc, db := setupServices(t)
	fx := seedProductionChain(t, svc, db)

	_, err := svc.Scan.RecordScan(RecordScanRequest{
		BarcodeText: "BAT-0001",
		ProcessName: entity.StageExtruder,
		MachineID:   &fx.Machine.ID,
		NextAction:  entity.ActionMoveNext,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for machine/process mismatch, got %v", err)
	}
}

func TestRecordScanResolvesByBarcodeText(t *testing.T) {
	svc, db := setupServices(t)
	fx := seedProductionChain(t, svc, db)

	// batch barcode_text defaults to batch_no; give it a distinct one
	fx.Batch.BarcodeText = "EXT-BARCODE-9"
	if err := db.Save(fx.Batch).Error; err != nil {
		t.Fatalf("update barcode: %v", err)
	}

	result, err := svc.Scan.RecordScan(RecordScanRequest{
		BarcodeText: "EXT-BARCODE-9",
		ProcessName: entity.StageMixing,
		InputQtyKg:  100,
		GoodQtyKg:   100,
		NextAction:  entity.ActionMoveNext,
	})
	if err != nil {
		t.Fatalf("RecordScan via barcode text: %v", err)
	}
	if result.Batch.ID != fx.Batch.ID {
		t.Error("scan resolved the wrong batch")
	}
}

func TestAdvanceBatchTable(t *testing.T) {
	cases := []struct {
		process     string
		action      string
		wantProcess string
		wantStatus  string
	}{
		{entity.StageMixing, entity.ActionMoveNext, entity.StageExtruder, entity.BatchOpen},
		{entity.StageMixing, entity.ActionRework, entity.StageExtruder, entity.BatchOpen},
		{entity.StageCutting, entity.ActionRejected, entity.StageCutting, entity.BatchHold},
		{entity.StageStoreReceiving, entity.ActionMoveNext, entity.ProcessCompleted, entity.BatchCompleted},
	}
	for _, c := range cases {
		process, status := advanceBatch(c.process, c.action)
		if process != c.wantProcess || status != c.wantStatus {
			t.Errorf("advanceBatch(%s, %s) = (%s, %s), want (%s, %s)",
				c.process, c.action, process, status, c.wantProcess, c.wantStatus)
		}
	}
}
