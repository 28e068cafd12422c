package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/scholar/internal/history"
)

func sample() []history.Result {
	return []history.Result{
		{ID: "a", Score: 6, Total: 20, Topic: "Evolution", MissedTopics: []string{"Which of the following...", "How many..."}, Timestamp: 1700000000000},
		{ID: "b", Score: 20, Total: 20, Topic: "Optics", MissedTopics: []string{}, Timestamp: 1700000100000},
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, WriteJSON(&buf, sample(), now))

	var env map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, Version, env["version"])
	assert.Equal(t, "2026-03-01T10:00:00Z", env["exportedAt"])

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
}

func TestWriteJSON_NilResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil, time.Now()))
	assert.Contains(t, buf.String(), `"results": []`)
}

func TestReadJSON_BareArray(t *testing.T) {
	raw := `[{"score":6,"total":20,"topic":"Evolution","missedTopics":["x..."],"timestamp":1700000000000}]`
	got, err := ReadJSON(strings.NewReader("  " + raw))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Evolution", got[0].Topic)
	assert.Empty(t, got[0].ID)
}

func TestReadJSON_Versions(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"v1 patch", `{"version":"v1.2.3","results":[]}`, false},
		{"v1 missing results", `{"version":"v1.0.0"}`, false},
		{"v2", `{"version":"v2.0.0","results":[]}`, true},
		{"no v prefix", `{"version":"1.0.0","results":[]}`, true},
		{"missing version", `{"results":[]}`, true},
		{"garbage", `{"version":`, true},
		{"bad array", `[{"score":"six"}]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadJSON(strings.NewReader(tt.doc))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sample(), time.UTC))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"History", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("History")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"#", "Date", "Topic", "Score", "Total", "Percent", "Missed"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "2023-11-14 22:13", rows[1][1])
	assert.Equal(t, "Evolution", rows[1][2])
	assert.Equal(t, "6", rows[1][3])
	assert.Equal(t, "30", rows[1][5])
	assert.Equal(t, "Which of the following...\nHow many...", rows[1][6])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Attempts", "2"}, summary[0])
	assert.Equal(t, []string{"Average Accuracy", "65"}, summary[1])
	assert.Equal(t, []string{"Evolution", "30"}, summary[2], "weakest topic first")
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("History")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
