package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionedRNG_SameKeySameStreams(t *testing.T) {
	r1 := NewPartitionedRNG(NewSimulationKey(42))
	r2 := NewPartitionedRNG(NewSimulationKey(42))

	name := SubsystemAmbulance("ambulance1")
	assert.Equal(t, r1.SeedFor(name), r2.SeedFor(name))

	g1 := r1.ForSubsystem(name)
	g2 := r2.ForSubsystem(name)
	for i := 0; i < 100; i++ {
		if g1.Int63() != g2.Int63() {
			t.Fatalf("streams diverged at draw %d", i)
		}
	}
}

func TestPartitionedRNG_SubsystemsAreIsolated(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(7))

	a := rng.SeedFor(SubsystemAmbulance("ambulance1"))
	b := rng.SeedFor(SubsystemAmbulance("ambulance2"))
	tr := rng.SeedFor(SubsystemTravel("ambulance1"))
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, tr)
}

func TestPartitionedRNG_ForSubsystemIsCached(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(1))

	first := rng.ForSubsystem("x")
	assert.Same(t, first, rng.ForSubsystem("x"))
	assert.NotSame(t, first, rng.ForSubsystem("y"))
}

func TestPartitionedRNG_DifferentKeysDifferentSeeds(t *testing.T) {
	name := SubsystemTravel("ambulance1")
	s1 := NewPartitionedRNG(NewSimulationKey(1)).SeedFor(name)
	s2 := NewPartitionedRNG(NewSimulationKey(2)).SeedFor(name)
	assert.NotEqual(t, s1, s2)
}

func TestPartitionedRNG_Key(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(99))
	assert.Equal(t, NewSimulationKey(99), rng.Key())
}
