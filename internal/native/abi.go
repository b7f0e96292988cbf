package native

// Data type tags reported by C_GetDataType.
const (
	DataTypeDouble       int32 = 0
	DataTypeInteger      int32 = 1
	DataTypeString       int32 = 2
	DataTypeVariable     int32 = 3
	DataTypeIntegerIndex int32 = 4
	DataTypeBoolean      int32 = 5
)

// Model states reported by C_GetModelState.
const (
	ModelReset                     int32 = 0
	ModelCalculatingStatics        int32 = 1
	ModelInStaticState             int32 = 2
	ModelRunningSimulation         int32 = 3
	ModelSimulationStopped         int32 = 4
	ModelSimulationStoppedUnstable int32 = 5
)

// Diffraction states reported by C_GetDiffractionState.
const (
	DiffractionReset       int32 = 0
	DiffractionCalculating int32 = 1
	DiffractionCalculated  int32 = 2
)

// Period numbers outside the stage range. Stage periods use the stage's
// 1-based number.
const (
	PeriodWholeSimulation int32 = 32001
	PeriodLatestWave      int32 = 32002
	PeriodStaticState     int32 = 32003
	PeriodSpecified       int32 = 32004
)

// Data file types accepted by C_LoadDataMem and C_SaveDataMem.
const (
	FileTypeBinary int32 = 0
	FileTypeText   int32 = 1
)

// Object type codes used by C_CreateObject and ObjectInfo.Type.
const (
	ObjectTypeGeneral     int32 = 1
	ObjectTypeEnvironment int32 = 2
	ObjectTypeVessel      int32 = 3
	ObjectTypeLine        int32 = 4
	ObjectTypeBuoy        int32 = 5
)

// Diffraction output kinds accepted by C_GetDiffractionOutput.
const (
	DiffractionOutputPeriods   int32 = 0
	DiffractionOutputHeadings  int32 = 1
	DiffractionOutputAddedMass int32 = 2
	DiffractionOutputDamping   int32 = 3
)
