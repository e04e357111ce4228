package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// PatientSpec is a candidate patient description produced by the generator
// and carried by a dispatch attempt. Severity 1 is most critical.
type PatientSpec struct {
	ID       string
	Severity int
	Location string
	Type     PatientType
}

// GeneratorConfig groups patient generation parameters.
type GeneratorConfig struct {
	EmergencyProbability float64  // Bernoulli parameter for the type draw
	MassEventProbability float64  // per-tick probability of a mass-casualty batch
	MassEventSizeMin     int      // inclusive lower bound on batch size
	MassEventSizeMax     int      // inclusive upper bound on batch size
	Locations            []string // uniform location tag set (nil = DefaultLocations)
}

// Severity pools per type: index i is the weight of severity i+1.
// Emergency patients skew critical (1-3), routine patients skew 2-5.
var (
	emergencySeverityWeights = []float64{0.35, 0.30, 0.20, 0.10, 0.05}
	routineSeverityWeights   = []float64{0.00, 0.15, 0.30, 0.30, 0.25}
)

// PatientGenerator produces synthetic patients, one at a time or in
// mass-casualty bursts. Stateless given its random source except for the
// monotonically increasing, ambulance-scoped patient sequence number.
type PatientGenerator struct {
	prefix string
	seq    int
	cfg    GeneratorConfig

	rng               *exprand.Rand
	typeDraw          distuv.Bernoulli
	massDraw          distuv.Bernoulli
	emergencySeverity distuv.Categorical
	routineSeverity   distuv.Categorical
}

// NewPatientGenerator creates a generator scoped to one ambulance.
// The seed should come from PartitionedRNG.SeedFor so each ambulance's
// stream is isolated and reproducible.
func NewPatientGenerator(prefix string, seed int64, cfg GeneratorConfig) *PatientGenerator {
	if len(cfg.Locations) == 0 {
		cfg.Locations = DefaultLocations
	}
	src := exprand.NewSource(uint64(seed))
	return &PatientGenerator{
		prefix:            prefix,
		cfg:               cfg,
		rng:               exprand.New(src),
		typeDraw:          distuv.Bernoulli{P: cfg.EmergencyProbability, Src: src},
		massDraw:          distuv.Bernoulli{P: cfg.MassEventProbability, Src: src},
		emergencySeverity: distuv.NewCategorical(emergencySeverityWeights, src),
		routineSeverity:   distuv.NewCategorical(routineSeverityWeights, src),
	}
}

// Next produces the next generation tick's patients: usually a single
// patient, or a forced-emergency mass-casualty batch. Mass events are only
// eligible when allowMass is true (no retry pending at the caller).
func (g *PatientGenerator) Next(allowMass bool) []PatientSpec {
	if allowMass && g.massDraw.Rand() == 1 {
		span := g.cfg.MassEventSizeMax - g.cfg.MassEventSizeMin + 1
		n := g.cfg.MassEventSizeMin + g.rng.Intn(span)
		batch := make([]PatientSpec, n)
		for i := range batch {
			batch[i] = g.emergency()
		}
		logrus.Warnf("[%s] mass-casualty event: %d emergency patients", g.prefix, n)
		return batch
	}
	return []PatientSpec{g.single()}
}

// single draws one patient with a Bernoulli type and a type-specific
// weighted severity.
func (g *PatientGenerator) single() PatientSpec {
	if g.typeDraw.Rand() == 1 {
		return g.emergency()
	}
	return PatientSpec{
		ID:       g.nextID(),
		Severity: int(g.routineSeverity.Rand()) + 1,
		Location: g.location(),
		Type:     TypeRoutine,
	}
}

func (g *PatientGenerator) emergency() PatientSpec {
	return PatientSpec{
		ID:       g.nextID(),
		Severity: int(g.emergencySeverity.Rand()) + 1,
		Location: g.location(),
		Type:     TypeEmergency,
	}
}

func (g *PatientGenerator) location() string {
	return g.cfg.Locations[g.rng.Intn(len(g.cfg.Locations))]
}

// nextID returns the next ambulance-scoped patient identifier.
func (g *PatientGenerator) nextID() string {
	g.seq++
	return fmt.Sprintf("%s-P%d", g.prefix, g.seq)
}

// Generated returns how many patients have been produced so far.
func (g *PatientGenerator) Generated() int { return g.seq }
