package service

import (
	"fmt"
	"testing"

	"github.com/cecworks/cec-mes/internal/entity"
)

func TestSectionWIP(t *testing.T) {
	svc, db := setupServices(t)
	seedProductionChain(t, svc, db)

	// MIXING issues 480, EXTRUDER receives 470 and issues 300 onward
	label, err := svc.Transfer.Issue(IssueRequest{
		BatchCode:   "BAT-0001",
		FromProcess: entity.StageMixing,
		IssuedQtyKg: 480,
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Transfer.Receive(ReceiveRequest{
		TransferBarcode:  label.TransferBarcode,
		ReceivingProcess: entity.StageExtruder,
		ReceivedQtyKg:    470,
	}); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if _, err := svc.Transfer.Issue(IssueRequest{
		BatchCode:   "BAT-0001",
		FromProcess: entity.StageExtruder,
		IssuedQtyKg: 300,
	}); err != nil {
		t.Fatalf("second issue: %v", err)
	}

	rows, err := svc.Report.SectionWIP()
	if err != nil {
		t.Fatalf("SectionWIP: %v", err)
	}
	byStage := map[string]WIPRow{}
	for _, row := range rows {
		byStage[row.Section] = row
	}

	if got := byStage[entity.StageMixing].InSectionKg; got != -480 {
		t.Errorf("MIXING net = %v, want -480", got)
	}
	if got := byStage[entity.StageExtruder].ReceivedKg; got != 470 {
		t.Errorf("EXTRUDER received = %v, want 470", got)
	}
	if got := byStage[entity.StageExtruder].InSectionKg; got != 170 {
		t.Errorf("EXTRUDER net = %v, want 170", got)
	}
	// unreceived issue must not count as received downstream
	if got := byStage[entity.StageVulcanising].ReceivedKg; got != 0 {
		t.Errorf("VULCANISING received = %v, want 0", got)
	}
	if len(rows) != len(entity.StageSequence) {
		t.Errorf("rows = %d, want one per stage", len(rows))
	}
}

func TestBatchVariance(t *testing.T) {
	svc, db := setupServices(t)
	seedProductionChain(t, svc, db)

	scans := []RecordScanRequest{
		{BarcodeText: "BAT-0001", ProcessName: entity.StageMixing, ScanTime: "2026-03-02 08:00", InputQtyKg: 500, GoodQtyKg: 480, RejectQtyKg: 20, NextAction: entity.ActionMoveNext},
		{BarcodeText: "BAT-0001", ProcessName: entity.StageExtruder, ScanTime: "2026-03-02 12:00", InputQtyKg: 480, GoodQtyKg: 430, RejectQtyKg: 10, NextAction: entity.ActionMoveNext},
		{BarcodeText: "BAT-0001", ProcessName: entity.StageVulcanising, ScanTime: "2026-03-03 09:00", InputQtyKg: 430, GoodQtyKg: 425, RejectQtyKg: 5, NextAction: entity.ActionMoveNext},
	}
	for _, scan := range scans {
		if _, err := svc.Scan.RecordScan(scan); err != nil {
			t.Fatalf("scan %s: %v", scan.ProcessName, err)
		}
	}

	rows, err := svc.Report.BatchVariance()
	if err != nil {
		t.Fatalf("BatchVariance: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]

	if row.InputQtyKg != 500 {
		t.Errorf("first input = %v, want 500", row.InputQtyKg)
	}
	if row.GoodOutputKg != 425 {
		t.Errorf("good output = %v, want 425", row.GoodOutputKg)
	}
	if row.TotalRejectKg != 35 {
		t.Errorf("total reject = %v, want 35", row.TotalRejectKg)
	}
	if row.VarianceKg == nil || *row.VarianceKg != 75 {
		t.Errorf("variance = %v, want 75", row.VarianceKg)
	}
	if row.VariancePct == nil || *row.VariancePct != 15 {
		t.Errorf("variance pct = %v, want 15", row.VariancePct)
	}
	// EXTRUDER lost 50, the most of any stage
	if row.ProbableLossProcess != entity.StageExtruder {
		t.Errorf("loss process = %s, want EXTRUDER", row.ProbableLossProcess)
	}
	if row.ProcessCount != 3 {
		t.Errorf("process count = %d, want 3", row.ProcessCount)
	}
}

func TestBatchVarianceNoScans(t *testing.T) {
	svc, db := setupServices(t)
	seedProductionChain(t, svc, db)

	rows, err := svc.Report.BatchVariance()
	if err != nil {
		t.Fatalf("BatchVariance: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.VarianceKg != nil || row.VariancePct != nil {
		t.Error("batch with no scans must report nil variance")
	}
	if row.InputQtyKg != 500 {
		t.Errorf("input falls back to planned, got %v", row.InputQtyKg)
	}
}

func TestBatchVarianceCoversEveryBatch(t *testing.T) {
	svc, db := setupServices(t)
	seedProductionChain(t, svc, db)

	for i := 0; i < 30; i++ {
		b := &entity.Batch{
			BatchNo:        fmt.Sprintf("BAT-%04d", i+100),
			BarcodeText:    fmt.Sprintf("BAT-%04d", i+100),
			CurrentProcess: entity.StageMixing,
			Status:         entity.BatchOpen,
			PlannedInputKg: 100,
		}
		if err := db.Create(b).Error; err != nil {
			t.Fatalf("seed batch %d: %v", i, err)
		}
	}

	rows, err := svc.Report.BatchVariance()
	if err != nil {
		t.Fatalf("BatchVariance: %v", err)
	}
	if len(rows) != 31 {
		t.Errorf("rows = %d, want one per batch", len(rows))
	}
	// newest batch first
	if rows[0].BatchNo != "BAT-0129" {
		t.Errorf("first row = %s, want BAT-0129", rows[0].BatchNo)
	}
}

func TestStageTotals(t *testing.T) {
	svc, db := setupServices(t)
	seedProductionChain(t, svc, db)

	for _, scan := range []RecordScanRequest{
		{BarcodeText: "BAT-0001", ProcessName: entity.StageMixing, ScanTime: "2026-03-02 08:00", InputQtyKg: 500, GoodQtyKg: 480, RejectQtyKg: 20, NextAction: entity.ActionMoveNext},
		{BarcodeText: "BAT-0001", ProcessName: entity.StageExtruder, ScanTime: "2026-03-02 12:00", InputQtyKg: 480, GoodQtyKg: 460, RejectQtyKg: 15, NextAction: entity.ActionMoveNext},
	} {
		if _, err := svc.Scan.RecordScan(scan); err != nil {
			t.Fatalf("scan: %v", err)
		}
	}

	rows, err := svc.Report.StageTotals()
	if err != nil {
		t.Fatalf("StageTotals: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	// flow order, not alphabetical
	if rows[0].ProcessName != entity.StageMixing || rows[1].ProcessName != entity.StageExtruder {
		t.Errorf("rows out of flow order: %s, %s", rows[0].ProcessName, rows[1].ProcessName)
	}
	if rows[0].TotalVariance != 20 {
		t.Errorf("MIXING variance = %v, want 20", rows[0].TotalVariance)
	}
}

func TestDashboardSummary(t *testing.T) {
	svc, db := setupServices(t)
	fx := seedProductionChain(t, svc, db)

	if _, err := svc.Transfer.Issue(IssueRequest{
		BatchCode:   "BAT-0001",
		FromProcess: entity.StageMixing,
		IssuedQtyKg: 100,
	}); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Shift.ReportBreakdown(ReportBreakdownRequest{
		MachineID:   fx.Machine.ID,
		Description: "Rotor jam",
	}); err != nil {
		t.Fatalf("breakdown: %v", err)
	}

	sum, err := svc.Report.DashboardSummary()
	if err != nil {
		t.Fatalf("DashboardSummary: %v", err)
	}
	if sum.OpenBatches != 1 {
		t.Errorf("open batches = %d, want 1", sum.OpenBatches)
	}
	if sum.PendingTransfers != 1 {
		t.Errorf("pending transfers = %d, want 1", sum.PendingTransfers)
	}
	if sum.OpenBreakdowns != 1 {
		t.Errorf("open breakdowns = %d, want 1", sum.OpenBreakdowns)
	}
	if sum.DownMachines != 1 {
		t.Errorf("down machines = %d, want 1", sum.DownMachines)
	}
}
