package service

import (
	"fmt"
	"math"

	"github.com/cecworks/cec-mes/internal/entity"
	"github.com/cecworks/cec-mes/internal/repository"
	"github.com/xuri/excelize/v2"
)

type ReportService struct {
	batchRepo    *repository.BatchRepository
	transferRepo *repository.TransferRepository
	shiftRepo    *repository.ShiftRepository
	machineRepo  *repository.MachineRepository
	jobRepo      *repository.JobRepository
}

func NewReportService(batchRepo *repository.BatchRepository, transferRepo *repository.TransferRepository, shiftRepo *repository.ShiftRepository, machineRepo *repository.MachineRepository, jobRepo *repository.JobRepository) *ReportService {
	return &ReportService{
		batchRepo:    batchRepo,
		transferRepo: transferRepo,
		shiftRepo:    shiftRepo,
		machineRepo:  machineRepo,
		jobRepo:      jobRepo,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WIPRow is the material position of one stage: everything received into
// it minus everything issued out of it.
type WIPRow struct {
	Section     string  `json:"section"`
	ReceivedKg  float64 `json:"received_kg"`
	IssuedKg    float64 `json:"issued_kg"`
	InSectionKg float64 `json:"in_section_kg"`
}

// SectionWIP walks the stage sequence and nets received against issued
// per stage. Issued counts every cut label, received or not, so material
// in transit still shows as gone from its origin.
func (s *ReportService) SectionWIP() ([]WIPRow, error) {
	received, err := s.transferRepo.ReceivedIntoByStage()
	if err != nil {
		return nil, err
	}
	issued, err := s.transferRepo.IssuedOutOfByStage()
	if err != nil {
		return nil, err
	}
	rows := make([]WIPRow, 0, len(entity.StageSequence))
	for _, stage := range entity.StageSequence {
		rows = append(rows, WIPRow{
			Section:     stage,
			ReceivedKg:  round2(received[stage]),
			IssuedKg:    round2(issued[stage]),
			InSectionKg: round2(received[stage] - issued[stage]),
		})
	}
	return rows, nil
}

// VarianceRow compares one batch's first recorded input against its last
// recorded good output.
type VarianceRow struct {
	BatchNo             string   `json:"batch_no"`
	JobNo               string   `json:"job_no,omitempty"`
	CustomerName        string   `json:"customer_name,omitempty"`
	ItemName            string   `json:"item_name,omitempty"`
	CurrentProcess      string   `json:"current_process"`
	Status              string   `json:"status"`
	InputQtyKg          float64  `json:"input_qty_kg"`
	GoodOutputKg        float64  `json:"good_output_kg"`
	TotalRejectKg       float64  `json:"total_reject_kg"`
	VarianceKg          *float64 `json:"variance_kg"`
	VariancePct         *float64 `json:"variance_pct"`
	ProcessCount        int      `json:"process_count"`
	ProbableLossProcess string   `json:"probable_loss_process,omitempty"`
}

// BatchVariance builds the shrinkage report, newest batch first. Batches
// with no scans report a nil variance; a zero first input leaves the
// percentage nil while the absolute variance still computes.
func (s *ReportService) BatchVariance() ([]VarianceRow, error) {
	batches, err := s.batchRepo.All()
	if err != nil {
		return nil, err
	}
	rows := make([]VarianceRow, 0, len(batches))
	for _, b := range batches {
		logs, err := s.batchRepo.LogsByBatch(b.ID)
		if err != nil {
			return nil, err
		}
		row := VarianceRow{
			BatchNo:        b.BatchNo,
			CustomerName:   b.CustomerName,
			ItemName:       b.ItemName,
			CurrentProcess: b.CurrentProcess,
			Status:         b.Status,
			InputQtyKg:     b.PlannedInputKg,
			ProcessCount:   len(logs),
		}
		if b.Job != nil {
			row.JobNo = b.Job.JobNo
		}
		if len(logs) > 0 {
			row.InputQtyKg = logs[0].InputQtyKg
			row.GoodOutputKg = logs[len(logs)-1].GoodQtyKg
			maxLoss := math.Inf(-1)
			for _, log := range logs {
				row.TotalRejectKg += log.RejectQtyKg
				loss := log.InputQtyKg - log.GoodQtyKg
				if loss > maxLoss {
					maxLoss = loss
					row.ProbableLossProcess = log.ProcessName
				}
			}
			row.TotalRejectKg = round2(row.TotalRejectKg)
			variance := round2(row.InputQtyKg - row.GoodOutputKg)
			row.VarianceKg = &variance
			if row.InputQtyKg != 0 {
				pct := round2(variance / row.InputQtyKg * 100)
				row.VariancePct = &pct
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// StageTotalsRow aggregates every scan at one stage.
type StageTotalsRow struct {
	ProcessName   string  `json:"process_name"`
	Scans         int64   `json:"scans"`
	TotalInputKg  float64 `json:"total_input_kg"`
	TotalGoodKg   float64 `json:"total_good_kg"`
	TotalRejectKg float64 `json:"total_reject_kg"`
	TotalVariance float64 `json:"total_variance_kg"`
}

// StageTotals sums scan quantities per stage in flow order.
func (s *ReportService) StageTotals() ([]StageTotalsRow, error) {
	var raw []struct {
		ProcessName   string
		Scans         int64
		TotalInputKg  float64
		TotalGoodKg   float64
		TotalRejectKg float64
	}
	err := s.batchRepo.DB().Model(&entity.ProcessLog{}).
		Select(`process_name,
			COUNT(*) AS scans,
			COALESCE(SUM(input_qty_kg), 0) AS total_input_kg,
			COALESCE(SUM(good_qty_kg), 0) AS total_good_kg,
			COALESCE(SUM(reject_qty_kg), 0) AS total_reject_kg`).
		Group("process_name").Scan(&raw).Error
	if err != nil {
		return nil, err
	}
	byStage := make(map[string]StageTotalsRow, len(raw))
	for _, r := range raw {
		byStage[r.ProcessName] = StageTotalsRow{
			ProcessName:   r.ProcessName,
			Scans:         r.Scans,
			TotalInputKg:  round2(r.TotalInputKg),
			TotalGoodKg:   round2(r.TotalGoodKg),
			TotalRejectKg: round2(r.TotalRejectKg),
			TotalVariance: round2(r.TotalInputKg - r.TotalGoodKg),
		}
	}
	rows := make([]StageTotalsRow, 0, len(entity.StageSequence))
	for _, stage := range entity.StageSequence {
		if row, ok := byStage[stage]; ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// MachineUtilizationRow summarizes recorded scan activity for one machine.
type MachineUtilizationRow struct {
	MachineID    uint    `json:"machine_id"`
	MachineCode  string  `json:"machine_code"`
	MachineName  string  `json:"machine_name"`
	SectionName  string  `json:"section_name"`
	Status       string  `json:"status"`
	Scans        int64   `json:"scans"`
	TotalGoodKg  float64 `json:"total_good_kg"`
	LastScanTime string  `json:"last_scan_time,omitempty"`
}

// MachineUtilization joins each active machine with its scan totals and
// newest scan time, ordered as the floor board is.
func (s *ReportService) MachineUtilization() ([]MachineUtilizationRow, error) {
	machines, err := s.machineRepo.List(repository.MachineListParams{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	var raw []struct {
		MachineID    uint
		Scans        int64
		TotalGoodKg  float64
		LastScanTime string
	}
	err = s.batchRepo.DB().Model(&entity.ProcessLog{}).
		Select(`machine_id,
			COUNT(*) AS scans,
			COALESCE(SUM(good_qty_kg), 0) AS total_good_kg,
			MAX(scanned_at) AS last_scan_time`).
		Where("machine_id IS NOT NULL").
		Group("machine_id").Scan(&raw).Error
	if err != nil {
		return nil, err
	}
	byMachine := make(map[uint]int, len(raw))
	for i, r := range raw {
		byMachine[r.MachineID] = i
	}
	rows := make([]MachineUtilizationRow, 0, len(machines))
	for _, m := range machines {
		row := MachineUtilizationRow{
			MachineID:   m.ID,
			MachineCode: m.MachineCode,
			MachineName: m.MachineName,
			SectionName: m.SectionName,
			Status:      m.Status,
		}
		if i, ok := byMachine[m.ID]; ok {
			row.Scans = raw[i].Scans
			row.TotalGoodKg = round2(raw[i].TotalGoodKg)
			row.LastScanTime = raw[i].LastScanTime
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// OTSummary sums overtime man-hours per section.
func (s *ReportService) OTSummary(dateFrom, dateTo string) (map[string]float64, error) {
	return s.shiftRepo.OTHoursBySection(dateFrom, dateTo)
}

// Summary is the dashboard card set.
type Summary struct {
	OpenBatches      int64   `json:"open_batches"`
	HoldBatches      int64   `json:"hold_batches"`
	CompletedBatches int64   `json:"completed_batches"`
	RunningMachines  int64   `json:"running_machines"`
	DownMachines     int64   `json:"down_machines"`
	OpenBreakdowns   int64   `json:"open_breakdowns"`
	PendingTransfers int64   `json:"pending_transfers"`
	TransferLossKg   float64 `json:"transfer_loss_kg"`
}

func (s *ReportService) DashboardSummary() (*Summary, error) {
	sum := &Summary{}
	db := s.batchRepo.DB()
	if err := db.Model(&entity.Batch{}).Where("status = ?", entity.BatchOpen).Count(&sum.OpenBatches).Error; err != nil {
		return nil, err
	}
	db.Model(&entity.Batch{}).Where("status = ?", entity.BatchHold).Count(&sum.HoldBatches)
	db.Model(&entity.Batch{}).Where("status = ?", entity.BatchCompleted).Count(&sum.CompletedBatches)
	db.Model(&entity.TransferLabel{}).Where("status = ?", entity.TransferIssued).Count(&sum.PendingTransfers)

	counts, err := s.machineRepo.StatusCounts()
	if err != nil {
		return nil, err
	}
	sum.RunningMachines = counts[entity.MachineRunning]
	sum.DownMachines = counts[entity.MachineBreakdown]

	if sum.OpenBreakdowns, err = s.shiftRepo.OpenBreakdownCount(); err != nil {
		return nil, err
	}
	if sum.TransferLossKg, err = s.transferRepo.TotalLoss(); err != nil {
		return nil, err
	}
	sum.TransferLossKg = round2(sum.TransferLossKg)
	return sum, nil
}

// ExportVarianceXLSX renders the variance report as a spreadsheet.
func (s *ReportService) ExportVarianceXLSX() (*excelize.File, error) {
	rows, err := s.BatchVariance()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Variance"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Batch No", "Job No", "Customer", "Item", "Current Process", "Status",
		"Input KG", "Good Output KG", "Total Reject KG", "Variance KG", "Variance %", "Scans", "Probable Loss Process"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, row := range rows {
		values := []interface{}{
			row.BatchNo, row.JobNo, row.CustomerName, row.ItemName,
			row.CurrentProcess, row.Status, row.InputQtyKg, row.GoodOutputKg, row.TotalRejectKg,
		}
		if row.VarianceKg != nil {
			values = append(values, *row.VarianceKg)
		} else {
			values = append(values, "")
		}
		if row.VariancePct != nil {
			values = append(values, *row.VariancePct)
		} else {
			values = append(values, "")
		}
		values = append(values, row.ProcessCount, row.ProbableLossProcess)
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	if err := f.SetColWidth(sheet, "A", "M", 18); err != nil {
		return nil, fmt.Errorf("format export: %w", err)
	}
	return f, nil
}
