package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "json")

	log.WithField(FieldBudgetID, "b1").Info("budget saved", F(FieldCount, 3))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "budget saved", line["msg"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "b1", line[FieldBudgetID])
	assert.EqualValues(t, 3, line[FieldCount])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
	}{
		{"debug", true},
		{"info", false},
		{"warn", false},
		{"bogus", false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			NewWithWriter(&buf, tt.level, "text").Debug("hidden?")
			assert.Equal(t, tt.wantDebug, buf.Len() > 0)
		})
	}
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.Error("nothing happens")
	log.WithError(errors.New("x")).Warn("still nothing")
}

func TestRecorderSharesEntries(t *testing.T) {
	rec := NewRecorder()
	child := rec.WithField(FieldGoalID, "g1")
	child.WithError(errors.New("boom")).Error("save failed")
	rec.Info("done")

	entries := rec.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "error", entries[0].Level)
	assert.Equal(t, []Field{{Key: FieldGoalID, Value: "g1"}}, entries[0].Fields)
	assert.EqualError(t, entries[0].Err, "boom")
	assert.True(t, rec.Has("info", "done"))
	assert.False(t, rec.Has("warn", "done"))
}
