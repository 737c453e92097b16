package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/policy-cli/internal/recommend"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult(), 1))

	var got struct {
		Outcome string `json:"outcome"`
		Records []map[string]any
		Top     []struct {
			Record  map[string]any `json:"record"`
			Reasons []string       `json:"reasons"`
		} `json:"top"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "ranked", got.Outcome)
	assert.Len(t, got.Records, 2)
	require.Len(t, got.Top, 1)
	assert.Equal(t, "Legacy Plus", got.Top[0].Record["product_name"])
	assert.Equal(t, []string{"strong match with selected goals", "flagship product"}, got.Top[0].Reasons)
}

func TestNewResponse_NoMatch(t *testing.T) {
	res := &recommend.Result{Outcome: recommend.OutcomeNoMatch}

	b, err := json.Marshal(NewResponse(res, 3))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"top":[]`)
}
