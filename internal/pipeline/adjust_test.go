package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressAdjustments(t *testing.T) {
	g := goal("g", "30", "100", "2024-01-01", "2024-12-31")

	tests := []struct {
		name string
		fn   func() string
		want string
	}{
		{"remove clamps at zero", func() string { return RemoveProgress(g, d("50")).String() }, "0"},
		{"remove partial", func() string { return RemoveProgress(g, d("10")).String() }, "20"},
		{"add has no cap", func() string { return AddProgress(g, d("500")).String() }, "530"},
		{"add negative clamps", func() string { return AddProgress(g, d("-100")).String() }, "0"},
		{"set absolute", func() string { return SetProgress(g, d("75.5")).String() }, "75.5"},
		{"set negative clamps", func() string { return SetProgress(g, d("-1")).String() }, "0"},
		{"remove negative still non-negative", func() string { return RemoveProgress(g, d("-5")).String() }, "35"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn())
		})
	}

	assert.Equal(t, "30", g.CurrentProgress.String(), "input goal must not change")
}

func TestWithProgress(t *testing.T) {
	g := goal("g", "30", "100", "2024-01-01", "2024-12-31")
	updated := WithProgress(g, RemoveProgress(g, d("50")))
	assert.True(t, updated.CurrentProgress.IsZero())
	assert.Equal(t, "30", g.CurrentProgress.String())
}

func TestValidateAdjustment(t *testing.T) {
	tests := []struct {
		mode    AdjustMode
		amount  string
		wantErr error
	}{
		{AdjustAdd, "1", nil},
		{AdjustAdd, "0", ErrNonPositiveAdjustment},
		{AdjustRemove, "-3", ErrNonPositiveAdjustment},
		{AdjustSet, "0", nil},
		{AdjustSet, "-1", ErrNegativeProgress},
		{AdjustMode("double"), "1", ErrUnknownAdjustMode},
	}
	for _, tt := range tests {
		err := ValidateAdjustment(tt.mode, d(tt.amount))
		if tt.wantErr == nil {
			assert.NoError(t, err, "%s %s", tt.mode, tt.amount)
			continue
		}
		assert.True(t, errors.Is(err, tt.wantErr), "%s %s: got %v", tt.mode, tt.amount, err)
	}
}

func TestAdjust(t *testing.T) {
	g := goal("g", "30", "100", "2024-01-01", "2024-12-31")

	got, err := Adjust(g, AdjustRemove, d("50"))
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = Adjust(g, AdjustAdd, d("5"))
	require.NoError(t, err)
	assert.Equal(t, "35", got.String())

	_, err = Adjust(g, AdjustMode("bogus"), d("5"))
	assert.ErrorIs(t, err, ErrUnknownAdjustMode)
}
