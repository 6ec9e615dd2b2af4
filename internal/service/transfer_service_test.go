package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cecworks/cec-mes/internal/entity"
	"gorm.io/gorm"
)

func TestIssueAndReceiveTransfer(t *testing.T) {
	svc, db := setupServices(t)
	seedProductionChain(t, svc, db)

	label, err := svc.Transfer.Issue(IssueRequest{
		BatchCode:   "BAT-0001",
		FromProcess: entity.StageMixing,
		IssuedQtyKg: 480,
		IssuedBy:    "op-1",
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if label.ToProcess != entity.StageExtruder {
		t.Errorf("to process = %s, want EXTRUDER", label.ToProcess)
	}
	if label.Status != entity.TransferIssued {
		t.Errorf("status = %s, want ISSUED", label.Status)
	}

	result, err := svc.Transfer.Receive(ReceiveRequest{
		TransferBarcode:  label.TransferBarcode,
		ReceivingProcess: entity.StageExtruder,
		ReceivedQtyKg:    475.5,
		ReceivedBy:       "op-2",
	})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if result.Message != "Received 475.50 KG (loss 4.50 KG)." {
		t.Errorf("unexpected message: %q", result.Message)
	}
	if result.Label.Status != entity.TransferReceived {
		t.Errorf("label status = %s, want RECEIVED", result.Label.Status)
	}
	if result.Label.QtyLossKg != 4.5 {
		t.Errorf("loss = %v, want 4.5", result.Label.QtyLossKg)
	}

	batch, err := svc.Batch.Resolve("BAT-0001")
	if err != nil {
		t.Fatalf("reload batch: %v", err)
	}
	if batch.CurrentProcess != entity.StageExtruder {
		t.Errorf("batch moved to %s, want EXTRUDER", batch.CurrentProcess)
	}
	if batch.Status != entity.BatchOpen {
		t.Errorf("batch status = %s, want OPEN", batch.Status)
	}
}

func TestReceiveTwiceFails(t *testing.T) {
	svc, db := setupServices(t)
	seedProductionChain(t, svc, db)

	label, err := svc.Transfer.Issue(IssueRequest{
		BatchCode:   "BAT-0001",
		FromProcess: entity.StageMixing,
		IssuedQtyKg: 100,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := svc.Transfer.Receive(ReceiveRequest{
		TransferBarcode:  label.TransferBarcode,
		ReceivingProcess: entity.StageExtruder,
		ReceivedQtyKg:    100,
	}); err != nil {
		t.Fatalf("first receive: %v", err)
	}

	_, err = svc.Transfer.Receive(ReceiveRequest{
		TransferBarcode:  label.TransferBarcode,
		ReceivingProcess: entity.StageExtruder,
		ReceivedQtyKg:    100,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second receive should conflict, got %v", err)
	}
}

func TestReceiveStageMismatch(t *testing.T) {
	svc, db := setupServices(t)
	seedProductionChain(t, svc, db)

	label, err := svc.Transfer.Issue(IssueRequest{
		BatchCode:   "BAT-0001",
		FromProcess: entity.StageMixing,
		IssuedQtyKg: 100,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = svc.Transfer.Receive(ReceiveRequest{
		TransferBarcode:  label.TransferBarcode,
		ReceivingProcess: entity.StageCutting,
		ReceivedQtyKg:    100,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("wrong-stage receive should conflict, got %v", err)
	}
}

func TestReceiveUnknownBarcode(t *testing.T) {
	svc, db := setupServices(t)
	seedProductionChain(t, svc, db)

	_, err := svc.Transfer.Receive(ReceiveRequest{
		TransferBarcode:  "NP-NOPE",
		ReceivingProcess: entity.StageExtruder,
		ReceivedQtyKg:    1,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReceiveOverageClampsLossToZero(t *testing.T) {
	svc, db := setupServices(t)
	seedProductionChain(t, svc, db)

	label, err := svc.Transfer.Issue(IssueRequest{
		BatchCode:   "BAT-0001",
		FromProcess: entity.StageMixing,
		IssuedQtyKg: 100,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	result, err := svc.Transfer.Receive(ReceiveRequest{
		TransferBarcode:  label.TransferBarcode,
		ReceivingProcess: entity.StageExtruder,
		ReceivedQtyKg:    104,
	})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if result.Label.QtyLossKg != 0 {
		t.Errorf("overage loss = %v, want 0", result.Label.QtyLossKg)
	}
}

// Labels cut back to back for the same batch and stage land in the same
// wall-clock second and collide on the barcode. The retry has to land its
// suffixed barcode without wrecking the enclosing transaction.
func TestIssueBarcodeCollisionKeepsTransactionAlive(t *testing.T) {
	svc, db := setupServices(t)
	fx := seedProductionChain(t, svc, db)

	seen := map[string]bool{}
	err := db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < 3; i++ {
			label, err := issueLabelTx(tx, fx.Batch, entity.StageMixing, entity.StageExtruder, 100, nil, "op-1", "")
			if err != nil {
				return fmt.Errorf("issue %d: %w", i+1, err)
			}
			if seen[label.TransferBarcode] {
				return fmt.Errorf("issue %d reused barcode %s", i+1, label.TransferBarcode)
			}
			seen[label.TransferBarcode] = true
		}
		return nil
	})
	if err != nil {
		t.Fatalf("issuing three labels in one transaction: %v", err)
	}

	var count int64
	if err := db.Model(&entity.TransferLabel{}).Count(&count).Error; err != nil {
		t.Fatalf("count labels: %v", err)
	}
	if count != 3 {
		t.Errorf("labels persisted = %d, want 3", count)
	}
}

func TestIssueFromFinalStageFails(t *testing.T) {
	svc, db := setupServices(t)
	seedProductionChain(t, svc, db)

	_, err := svc.Transfer.Issue(IssueRequest{
		BatchCode:   "BAT-0001",
		FromProcess: entity.StageStoreReceiving,
		IssuedQtyKg: 10,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("issuing from the final stage should conflict, got %v", err)
	}
}
