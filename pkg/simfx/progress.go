package simfx

// Progress handlers run synchronously on the engine's own call stack while
// the long-running call is in progress. Returning true asks the engine to
// cancel; the call then fails with ErrOperationCancelled.

// StaticsProgress receives statics solver messages.
type StaticsProgress interface {
	StaticsProgress(message string) (cancel bool)
}

// StaticsProgressFunc adapts a function to StaticsProgress.
type StaticsProgressFunc func(message string) bool

func (f StaticsProgressFunc) StaticsProgress(message string) bool { return f(message) }

// SimulationProgress is reported while dynamics run.
type SimulationProgress struct {
	Time  float64
	Start float64
	Stop  float64
}

// Fraction returns how far the simulation has run, in [0, 1].
func (p SimulationProgress) Fraction() float64 {
	span := p.Stop - p.Start
	if span <= 0 {
		return 1
	}
	f := (p.Time - p.Start) / span
	return min(max(f, 0), 1)
}

// DynamicsProgress receives simulation time progress.
type DynamicsProgress interface {
	DynamicsProgress(p SimulationProgress) (cancel bool)
}

// DynamicsProgressFunc adapts a function to DynamicsProgress.
type DynamicsProgressFunc func(p SimulationProgress) bool

func (f DynamicsProgressFunc) DynamicsProgress(p SimulationProgress) bool { return f(p) }

// BatchProgress receives one message per batch script step.
type BatchProgress interface {
	BatchProgress(message string) (cancel bool)
}

// BatchProgressFunc adapts a function to BatchProgress.
type BatchProgressFunc func(message string) bool

func (f BatchProgressFunc) BatchProgress(message string) bool { return f(message) }

// DiffractionProgress receives diffraction solver messages.
type DiffractionProgress interface {
	DiffractionProgress(message string) (cancel bool)
}

// DiffractionProgressFunc adapts a function to DiffractionProgress.
type DiffractionProgressFunc func(message string) bool

func (f DiffractionProgressFunc) DiffractionProgress(message string) bool { return f(message) }
