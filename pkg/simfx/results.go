package simfx

import (
	"fmt"

	"github.com/hsiuhsiu/simfx-go/internal/native"
)

// Period selects the time range of a result query. Build one with
// WholeSimulation, StaticState, LatestWave, Stage or SpecifiedPeriod.
type Period struct {
	number int32
	stage  int
	from   float64
	to     float64
}

// WholeSimulation covers every logged sample.
func WholeSimulation() Period { return Period{number: native.PeriodWholeSimulation} }

// StaticState selects the single sample at the end of statics.
func StaticState() Period { return Period{number: native.PeriodStaticState} }

// LatestWave covers the last wave period of the simulation.
func LatestWave() Period { return Period{number: native.PeriodLatestWave} }

// Stage covers simulation stage i. Stage 0 is the build-up.
func Stage(i int) Period { return Period{stage: i} }

// SpecifiedPeriod covers the simulation times from..to inclusive.
func SpecifiedPeriod(from, to float64) Period {
	return Period{number: native.PeriodSpecified, from: from, to: to}
}

func (p Period) String() string {
	switch p.number {
	case native.PeriodWholeSimulation:
		return "WholeSimulation"
	case native.PeriodStaticState:
		return "StaticState"
	case native.PeriodLatestWave:
		return "LatestWave"
	case native.PeriodSpecified:
		return fmt.Sprintf("Specified(%g, %g)", p.from, p.to)
	}
	return fmt.Sprintf("Stage(%d)", p.stage)
}

func (p Period) native() (native.Period, error) {
	if p.number != 0 {
		return native.Period{Number: p.number, From: p.from, To: p.to}, nil
	}
	n, err := toNative(p.stage)
	if err != nil {
		return native.Period{}, fmt.Errorf("stage %d: %w", p.stage, err)
	}
	return native.Period{Number: n}, nil
}

// ObjectExtra locates a result on an object. Node is 0-based; objects
// without nodes ignore it.
type ObjectExtra struct {
	Node      int
	ArcLength float64
	Point     int32
	Position  [3]float64
}

// AtNode is shorthand for the result at node n.
func AtNode(n int) ObjectExtra { return ObjectExtra{Node: n} }

func (e ObjectExtra) native() (native.ObjectExtra, error) {
	n, err := toNative(e.Node)
	if err != nil {
		return native.ObjectExtra{}, fmt.Errorf("node %d: %w", e.Node, err)
	}
	return native.ObjectExtra{
		NodeNum:   n,
		ArcLength: e.ArcLength,
		Point:     e.Point,
		Position:  e.Position,
	}, nil
}

// TimeStatus is the simulation window and the time reached so far.
type TimeStatus struct {
	Start   float64
	Stop    float64
	Current float64
}
