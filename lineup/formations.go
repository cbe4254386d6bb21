package lineup

import (
	"sort"

	"github.com/jrsteele09/squadhub/users"
)

type FormationKey string

const (
	Formation442  FormationKey = "4-4-2"
	Formation433  FormationKey = "4-3-3"
	Formation352  FormationKey = "3-5-2"
	Formation4231 FormationKey = "4-2-3-1"
	Formation4141 FormationKey = "4-1-4-1"
	Formation532  FormationKey = "5-3-2"

	DefaultFormation = Formation433
)

// Slot is a position on the pitch. X runs left to right and Y from the
// team's own goal line, both normalized to [0,1].
type Slot struct {
	ID   string         `json:"id"`
	X    float64        `json:"x"`
	Y    float64        `json:"y"`
	Line users.Position `json:"line"`
}

var goalkeeper = Slot{ID: "GK", X: 0.5, Y: 0.05, Line: users.PositionGoalkeeper}

func df(id string, x, y float64) Slot { return Slot{ID: id, X: x, Y: y, Line: users.PositionDefender} }
func mf(id string, x, y float64) Slot { return Slot{ID: id, X: x, Y: y, Line: users.PositionMidfielder} }
func fw(id string, x, y float64) Slot { return Slot{ID: id, X: x, Y: y, Line: users.PositionForward} }

var formations = map[FormationKey][]Slot{
	Formation442: {
		goalkeeper,
		df("LB", 0.18, 0.22), df("LCB", 0.36, 0.22), df("RCB", 0.64, 0.22), df("RB", 0.82, 0.22),
		mf("LM", 0.20, 0.46), mf("LCM", 0.38, 0.44), mf("RCM", 0.62, 0.44), mf("RM", 0.80, 0.46),
		fw("LS", 0.42, 0.72), fw("RS", 0.58, 0.72),
	},
	Formation433: {
		goalkeeper,
		df("LB", 0.18, 0.22), df("LCB", 0.36, 0.22), df("RCB", 0.64, 0.22), df("RB", 0.82, 0.22),
		mf("LCM", 0.36, 0.44), mf("CDM", 0.50, 0.40), mf("RCM", 0.64, 0.44),
		fw("LW", 0.25, 0.72), fw("ST", 0.50, 0.76), fw("RW", 0.75, 0.72),
	},
	Formation352: {
		goalkeeper,
		df("LCB", 0.32, 0.22), df("CB", 0.50, 0.20), df("RCB", 0.68, 0.22),
		mf("LM", 0.18, 0.44), mf("LCM", 0.36, 0.44), mf("CAM", 0.50, 0.54), mf("RCM", 0.64, 0.44), mf("RM", 0.82, 0.44),
		fw("LS", 0.44, 0.76), fw("RS", 0.56, 0.76),
	},
	Formation4231: {
		goalkeeper,
		df("LB", 0.18, 0.22), df("LCB", 0.36, 0.22), df("RCB", 0.64, 0.22), df("RB", 0.82, 0.22),
		mf("LDM", 0.42, 0.36), mf("RDM", 0.58, 0.36),
		mf("LAM", 0.36, 0.52), mf("CAM", 0.50, 0.56), mf("RAM", 0.64, 0.52),
		fw("ST", 0.50, 0.78),
	},
	Formation4141: {
		goalkeeper,
		df("LB", 0.18, 0.22), df("LCB", 0.36, 0.22), df("RCB", 0.64, 0.22), df("RB", 0.82, 0.22),
		mf("CDM", 0.50, 0.36),
		mf("LM", 0.20, 0.50), mf("LCM", 0.38, 0.50), mf("RCM", 0.62, 0.50), mf("RM", 0.80, 0.50),
		fw("ST", 0.50, 0.78),
	},
	Formation532: {
		goalkeeper,
		df("LWB", 0.16, 0.26), df("LCB", 0.32, 0.20), df("CB", 0.50, 0.18), df("RCB", 0.68, 0.20), df("RWB", 0.84, 0.26),
		mf("LCM", 0.38, 0.44), mf("CM", 0.50, 0.48), mf("RCM", 0.62, 0.44),
		fw("LS", 0.44, 0.76), fw("RS", 0.56, 0.76),
	},
}

// Formations lists the known formation keys in a stable order.
func Formations() []FormationKey {
	keys := make([]FormationKey, 0, len(formations))
	for k := range formations {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Slots returns a copy of the formation's slots, goalkeeper first.
func Slots(key FormationKey) ([]Slot, bool) {
	slots, ok := formations[key]
	if !ok {
		return nil, false
	}
	return append([]Slot(nil), slots...), true
}
