package testutils

import (
	_ "embed"
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/xwing-api/internal/entities/xwing"
)

// Card names in the sample data set that tests refer to
const (
	FireControlSystem = "Fire Control System"
	HotShotBlaster    = "\"Hot Shot\" Blaster"
	HotshotCoPilot    = "\"Hotshot\" Co-pilot"
	DirectorKrennic   = "Director Krennic"
	OptimizedProto    = "Optimized Prototype"
	XWing             = "T-65 X-wing"
	LambdaShuttle     = "Lambda-class T-4a Shuttle"
)

//go:embed testdata/dataset.json
var sampleDatasetJSON []byte

// SampleDatasetJSON returns the raw sample data set: two ships and their
// pilots, a spread of upgrades, two conditions and a damage card in both
// decks.
func SampleDatasetJSON() []byte {
	return slices.Clone(sampleDatasetJSON)
}

// SampleDataset decodes a fresh copy of the sample data set
func SampleDataset(t testing.TB) *xwing.Dataset {
	t.Helper()

	var dataset xwing.Dataset
	require.NoError(t, json.Unmarshal(sampleDatasetJSON, &dataset), "failed to decode sample dataset")
	return &dataset
}
