package tech

import "strings"

// Class is the functional family of a library cell.
type Class string

const (
	ClassLogic      Class = "logic"
	ClassSequential Class = "sequential"
	ClassPhysical   Class = "physical"
)

var typeClasses = map[string]Class{
	"sequential": ClassSequential,
	"flipflop":   ClassSequential,
	"flip_flop":  ClassSequential,
	"latch":      ClassSequential,
	"register":   ClassSequential,

	"physical": ClassPhysical,
	"decap":    ClassPhysical,
	"tap":      ClassPhysical,
	"welltap":  ClassPhysical,
	"fill":     ClassPhysical,
	"filler":   ClassPhysical,
	"endcap":   ClassPhysical,
	"antenna":  ClassPhysical,
	"diode":    ClassPhysical,
	"tie":      ClassPhysical,
}

// alias prefixes used when cell_type is absent or generic
var (
	sequentialPrefixes = []string{"DFF", "DFR", "SDFF", "DLATCH", "LATCH", "DLX"}
	physicalPrefixes   = []string{"DECAP", "TAP", "FILL", "ENDCAP", "ANTENNA", "DIODE", "CONB", "TIE"}
)

// Class classifies the cell. The declared cell_type wins; otherwise the
// alias prefix decides, and anything unrecognised is logic.
func (c *Cell) Class() Class {
	if cl, ok := typeClasses[strings.ToLower(c.Type)]; ok {
		return cl
	}
	alias := strings.ToUpper(c.Alias)
	for _, p := range sequentialPrefixes {
		if strings.HasPrefix(alias, p) {
			return ClassSequential
		}
	}
	for _, p := range physicalPrefixes {
		if strings.HasPrefix(alias, p) {
			return ClassPhysical
		}
	}
	if c.ClockPin != "" {
		return ClassSequential
	}
	return ClassLogic
}
