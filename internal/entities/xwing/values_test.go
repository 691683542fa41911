package xwing_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/xwing-api/internal/entities/xwing"
)

func TestValueDecoding(t *testing.T) {
	testCases := []struct {
		raw     string
		want    xwing.Value
		numeric bool
	}{
		{raw: `3`, want: "3", numeric: true},
		{raw: `2.5`, want: "2.5", numeric: true},
		{raw: `"?"`, want: "?"},
		{raw: `"*"`, want: "*"},
		{raw: `null`, want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			var v xwing.Value
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &v))
			assert.Equal(t, tc.want, v)

			_, err := v.Float()
			assert.Equal(t, tc.numeric, err == nil)
		})
	}

	var v xwing.Value
	assert.Error(t, json.Unmarshal([]byte(`{}`), &v))
}

func TestValueEncoding(t *testing.T) {
	b, err := json.Marshal(xwing.Value("4"))
	require.NoError(t, err)
	assert.Equal(t, `4`, string(b))

	b, err = json.Marshal(xwing.Value("?"))
	require.NoError(t, err)
	assert.Equal(t, `"?"`, string(b))
}

func TestFlagDecoding(t *testing.T) {
	testCases := []struct {
		raw  string
		want xwing.Flag
	}{
		{raw: `true`, want: true},
		{raw: `false`, want: false},
		{raw: `1`, want: true},
		{raw: `0`, want: false},
		{raw: `null`, want: false},
		{raw: `"true"`, want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			var f xwing.Flag
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &f))
			assert.Equal(t, tc.want, f)
		})
	}

	var f xwing.Flag
	assert.Error(t, json.Unmarshal([]byte(`"sometimes"`), &f))
}

func TestShipRefDecoding(t *testing.T) {
	var single xwing.ShipRef
	require.NoError(t, json.Unmarshal([]byte(`"T-65 X-wing"`), &single))
	assert.Equal(t, xwing.ShipRef{"T-65 X-wing"}, single)

	var many xwing.ShipRef
	require.NoError(t, json.Unmarshal([]byte(`["TIE Advanced x1", "TIE Advanced v1"]`), &many))
	assert.Len(t, many, 2)

	b, err := json.Marshal(single)
	require.NoError(t, err)
	assert.Equal(t, `"T-65 X-wing"`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`42`), &many))
}
