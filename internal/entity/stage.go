package entity

// Production stages in physical flow order.
const (
	StageMixing         = "MIXING"
	StageExtruder       = "EXTRUDER"
	StageVulcanising    = "VULCANISING"
	StageCutting        = "CUTTING"
	StageFinishing      = "FINISHING"
	StagePacking        = "PACKING"
	StageStoreReceiving = "STORE_RECEIVING"
)

// Batch process sentinels outside the stage sequence.
const (
	ProcessNotStarted = "NOT_STARTED"
	ProcessCompleted  = "COMPLETED"
)

// StageSequence is the fixed flow a batch moves through, first to last.
var StageSequence = []string{
	StageMixing,
	StageExtruder,
	StageVulcanising,
	StageCutting,
	StageFinishing,
	StagePacking,
	StageStoreReceiving,
}

// Sections covers the stage sequence plus the support areas that own
// production lines, machines and OT records.
var Sections = []string{
	"STORE", "RND", "PLANNING",
	StageMixing, StageExtruder, StageVulcanising, StageCutting,
	StageFinishing, StagePacking, "QC", StageStoreReceiving,
	"MAINTENANCE",
}

// StageIndex returns the position of name in the stage sequence, or -1.
func StageIndex(name string) int {
	for i, s := range StageSequence {
		if s == name {
			return i
		}
	}
	return -1
}

// IsStage reports whether name is a member of the stage sequence.
func IsStage(name string) bool {
	return StageIndex(name) >= 0
}

// NextStage returns the stage following name, or ProcessCompleted when name
// is the last stage or not part of the sequence.
func NextStage(name string) string {
	idx := StageIndex(name)
	if idx < 0 || idx == len(StageSequence)-1 {
		return ProcessCompleted
	}
	return StageSequence[idx+1]
}

// StageProgressPct maps a stage to a completion percentage across the flow.
// Returns 0 for names outside the sequence.
func StageProgressPct(name string) int {
	idx := StageIndex(name)
	if idx < 0 {
		return 0
	}
	pct := int(float64(idx+1) / float64(len(StageSequence)) * 100)
	if pct > 100 {
		pct = 100
	}
	return pct
}
