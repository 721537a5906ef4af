package assembler

// Config tunes the spreading-activation algorithm and the fact
// selection that follows it.
type Config struct {
	// InitialEnergy is given to each trigger tag before spreading starts.
	InitialEnergy float64

	// DecayRate scales energy at every hop of spreading (0..1).
	DecayRate float64

	// MaxDepth is the number of spreading iterations run.
	MaxDepth int

	// EnergyThreshold is the minimum energy a tag needs to keep
	// spreading and to be counted as "hot" when scoring facts.
	EnergyThreshold float64

	// MaxFacts caps how many facts CollectFacts returns.
	MaxFacts int
}

// DefaultConfig returns the baseline tuning: initial energy 1.0,
// decay 0.5, depth 2, threshold 0.1, and a 20-fact cap.
func DefaultConfig() Config {
	return Config{
		InitialEnergy:   1.0,
		DecayRate:       0.5,
		MaxDepth:        2,
		EnergyThreshold: 0.1,
		MaxFacts:        20,
	}
}
