package simfx

import (
	"fmt"

	"github.com/hsiuhsiu/simfx-go/internal/native"
)

// State is the engine's model state. It is always read from the engine.
type State int32

const (
	StateReset                     = State(native.ModelReset)
	StateCalculatingStatics        = State(native.ModelCalculatingStatics)
	StateInStaticState             = State(native.ModelInStaticState)
	StateRunningSimulation         = State(native.ModelRunningSimulation)
	StateSimulationStopped         = State(native.ModelSimulationStopped)
	StateSimulationStoppedUnstable = State(native.ModelSimulationStoppedUnstable)
)

var stateNames = map[State]string{
	StateReset:                     "Reset",
	StateCalculatingStatics:        "CalculatingStatics",
	StateInStaticState:             "InStaticState",
	StateRunningSimulation:         "RunningSimulation",
	StateSimulationStopped:         "SimulationStopped",
	StateSimulationStoppedUnstable: "SimulationStoppedUnstable",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// HasResults reports whether results can be read in this state.
func (s State) HasResults() bool {
	switch s {
	case StateInStaticState, StateRunningSimulation, StateSimulationStopped, StateSimulationStoppedUnstable:
		return true
	}
	return false
}

// DiffractionState is the engine's diffraction analysis state.
type DiffractionState int32

const (
	DiffractionReset       = DiffractionState(native.DiffractionReset)
	DiffractionCalculating = DiffractionState(native.DiffractionCalculating)
	DiffractionCalculated  = DiffractionState(native.DiffractionCalculated)
)

func (s DiffractionState) String() string {
	switch s {
	case DiffractionReset:
		return "Reset"
	case DiffractionCalculating:
		return "Calculating"
	case DiffractionCalculated:
		return "Calculated"
	}
	return fmt.Sprintf("DiffractionState(%d)", int32(s))
}

// ObjectType is an engine object type code.
type ObjectType int32

const (
	ObjectGeneral     = ObjectType(native.ObjectTypeGeneral)
	ObjectEnvironment = ObjectType(native.ObjectTypeEnvironment)
	ObjectVessel      = ObjectType(native.ObjectTypeVessel)
	ObjectLine        = ObjectType(native.ObjectTypeLine)
	ObjectBuoy        = ObjectType(native.ObjectTypeBuoy)
)

var objectTypeNames = map[ObjectType]string{
	ObjectGeneral:     "General",
	ObjectEnvironment: "Environment",
	ObjectVessel:      "Vessel",
	ObjectLine:        "Line",
	ObjectBuoy:        "Buoy",
}

func (t ObjectType) String() string {
	if n, ok := objectTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("ObjectType(%d)", int32(t))
}

// ParseObjectType maps a type name such as "Line" to its code.
func ParseObjectType(name string) (ObjectType, error) {
	for t, n := range objectTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("simfx: unknown object type %q", name)
}

// FileType selects the encoding of in-memory data.
type FileType int32

const (
	BinaryFile = FileType(native.FileTypeBinary)
	TextFile   = FileType(native.FileTypeText)
)

// DiffractionOutput selects one output vector of a diffraction analysis.
type DiffractionOutput int32

const (
	OutputPeriods   = DiffractionOutput(native.DiffractionOutputPeriods)
	OutputHeadings  = DiffractionOutput(native.DiffractionOutputHeadings)
	OutputAddedMass = DiffractionOutput(native.DiffractionOutputAddedMass)
	OutputDamping   = DiffractionOutput(native.DiffractionOutputDamping)
)
