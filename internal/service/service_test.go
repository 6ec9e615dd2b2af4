package service

import (
	"testing"

	"github.com/cecworks/cec-mes/internal/entity"
	"github.com/cecworks/cec-mes/internal/repository"
	"github.com/cecworks/cec-mes/internal/testutil"
	"gorm.io/gorm"
)

func setupServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return NewServices(repos, db, nil, nil), db
}

type testFixture struct {
	Customer *entity.Customer
	Product  *entity.Product
	Line     *entity.ProductionLine
	File     *entity.CustomerFile
	Item     *entity.CustomerFileItem
	Job      *entity.Job
	Batch    *entity.Batch
	Machine  *entity.Machine
}

// seedProductionChain builds customer -> file -> item -> job -> batch plus
// a MIXING machine, the minimum a floor scan needs.
func seedProductionChain(t *testing.T, svc *Services, db *gorm.DB) *testFixture {
	t.Helper()
	fx := &testFixture{}

	var err error
	fx.Customer, err = svc.Master.CreateCustomer(CreateCustomerRequest{Code: "CUST-01", Name: "Alpha Rubber"})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	fx.Product, err = svc.Master.CreateProduct(CreateProductRequest{SKU: "SKU-100", Name: "EPDM Door Seal"})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	fx.Line, err = svc.Master.CreateLine(CreateLineRequest{Code: "MX-A", Name: "Mixing Line A", SectionName: entity.StageMixing})
	if err != nil {
		t.Fatalf("seed line: %v", err)
	}

	fx.File, err = svc.Order.CreateFile(CreateFileRequest{
		FileNo:     "CF-0001",
		CustomerID: fx.Customer.ID,
		OrderDate:  "2026-03-01 08:00",
		DueDate:    "2026-03-20 17:00",
		Items: []CreateFileItemRequest{
			{ProductID: fx.Product.ID, OrderedQtyKg: 500},
		},
	})
	if err != nil {
		t.Fatalf("seed customer file: %v", err)
	}
	fx.Item = &fx.File.Items[0]

	fx.Job, err = svc.Job.CreateFromItem(CreateJobRequest{
		ItemID:     fx.Item.ID,
		RecipeCode: "RCP-EPDM-7",
		CreatedBy:  "planner",
	})
	if err != nil {
		t.Fatalf("seed job: %v", err)
	}

	fx.Batch, err = svc.Batch.Create(CreateBatchRequest{
		BatchNo:        "BAT-0001",
		JobID:          &fx.Job.ID,
		PlannedInputKg: 500,
		CreatedBy:      "planner",
	})
	if err != nil {
		t.Fatalf("seed batch: %v", err)
	}

	fx.Machine, err = svc.Machine.Create(CreateMachineRequest{
		MachineCode: "MX-01",
		MachineName: "Banbury Mixer 1",
		SectionName: entity.StageMixing,
		ProcessName: entity.StageMixing,
		LineID:      &fx.Line.ID,
	})
	if err != nil {
		t.Fatalf("seed machine: %v", err)
	}
	return fx
}
