// Package trap holds the trap-assay data model and the table transformations
// that turn a raw results sheet into long-form records ready for testing and plotting.
package trap

// Spreadsheet headers, matched exactly after trimming whitespace.
const (
	ColStartTime    = "Trap Start Time"
	ColStage        = "Stage"
	ColOdorPosition = "Odor Position"
	ColOdor         = "Odor"
	ColControl      = "Control"
	ColFlies        = "# Flies"
	ColOdorFlies    = "Odor # Flies"
	ColControlFlies = "Control # Flies"
	ColOdorPct      = "Odor Trap %"
	ColControlPct   = "Control Trap %"
	ColExclude      = "Exclude"
)

// RequiredColumns lists the projected columns in sheet order, followed by the exclusion flag.
var RequiredColumns = []string{
	ColStartTime,
	ColStage,
	ColOdorPosition,
	ColOdor,
	ColControl,
	ColFlies,
	ColOdorFlies,
	ColControlFlies,
	ColOdorPct,
	ColControlPct,
	ColExclude,
}

// TrapType labels which trap a long-form percentage came from.
type TrapType string

const (
	TrapOdor    TrapType = "odor"
	TrapSolvent TrapType = "solvent"
)

// TrapTypes is the hue order used for grouping and plotting.
var TrapTypes = []TrapType{TrapOdor, TrapSolvent}

// Record is one kept trial from the results sheet.
type Record struct {
	Row          int // 1-based data row in the source table
	StartTime    string
	Stage        string
	OdorPosition string
	Odor         string
	Control      string
	Flies        int
	OdorFlies    int
	ControlFlies int
	OdorPct      float64
	ControlPct   float64
}

// LongRecord is one (trial x trap) observation.
type LongRecord struct {
	StartTime    string
	Stage        string
	OdorPosition string
	Odor         string
	Trap         TrapType
	Pct          float64
}
