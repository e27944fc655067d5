package gillespie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finishedResult(t *testing.T) Result {
	t.Helper()
	sys := decaySystem(t, 20)
	res, err := Simulate(sys, Options{MaxT: 1e9, MaxIter: 10, Seed: 5, RecordTrajectory: true})
	require.NoError(t, err)
	return res
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := NewSnapshot("decay", []string{"A", "B"}, finishedResult(t))
	require.NoError(t, ValidateSnapshot(snap))

	data, err := EncodeSnapshotJSON(snap)
	require.NoError(t, err)

	decoded, err := DecodeSnapshotJSON(data)
	require.NoError(t, err)
	assert.Equal(t, snap, decoded)
	require.NoError(t, ValidateSnapshot(decoded))
}

func TestValidateSnapshot_EmptyModelName(t *testing.T) {
	snap := NewSnapshot("", []string{"A", "B"}, finishedResult(t))
	err := ValidateSnapshot(snap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty model name")
}

func TestValidateSnapshot_NonTerminalStatus(t *testing.T) {
	res := finishedResult(t)
	res.Status = StatusRunning
	err := ValidateSnapshot(NewSnapshot("decay", []string{"A", "B"}, res))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-terminal status")
}

func TestValidateSnapshot_SpeciesWidthMismatch(t *testing.T) {
	err := ValidateSnapshot(NewSnapshot("decay", []string{"A"}, finishedResult(t)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 species names for 2 state entries")
}

func TestValidateSnapshot_MisalignedTrajectory(t *testing.T) {
	res := finishedResult(t)
	res.Times = res.Times[:len(res.Times)-1]
	err := ValidateSnapshot(NewSnapshot("decay", []string{"A", "B"}, res))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "times for")
}

func TestValidateSnapshot_NegativePopulation(t *testing.T) {
	res := finishedResult(t)
	res.States[0] = []int{-1, 0}
	err := ValidateSnapshot(NewSnapshot("decay", []string{"A", "B"}, res))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative population for species A")
}

func TestDecodeSnapshotJSON_Invalid(t *testing.T) {
	_, err := DecodeSnapshotJSON([]byte("{broken"))
	assert.Error(t, err)
}
