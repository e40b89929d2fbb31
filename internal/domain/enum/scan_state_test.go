package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanStateLatched(t *testing.T) {
	assert.False(t, ScanStateIdle.Latched())
	assert.True(t, ScanStateResolving.Latched())
	assert.True(t, ScanStateResolved.Latched())
	assert.False(t, ScanStateAwaitingRetry.Latched())
}

func TestScanStateJSON(t *testing.T) {
	data, err := json.Marshal(ScanStateAwaitingRetry)
	require.NoError(t, err)
	assert.JSONEq(t, `"AwaitingRetry"`, string(data))

	var s ScanState
	require.NoError(t, json.Unmarshal([]byte(`"Resolved"`), &s))
	assert.Equal(t, ScanStateResolved, s)

	require.NoError(t, json.Unmarshal([]byte(`1`), &s))
	assert.Equal(t, ScanStateResolving, s)

	assert.Error(t, json.Unmarshal([]byte(`"Scanning"`), &s))
	assert.Equal(t, "ScanState(9)", ScanState(9).String())
}
