package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXIRRResultJSON_ZeroPercentIsPresent(t *testing.T) {
	data, err := json.Marshal(XIRRResult{Status: XIRRStatusOK, Percent: 0})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","percent":0}`, string(data))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "percent")
}
