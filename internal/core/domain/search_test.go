package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSearchOptions_Normalised tests default substitution for zero values
func TestSearchOptions_Normalised(t *testing.T) {
	tests := []struct {
		name        string
		opts        SearchOptions
		wantMax     int
		wantMinimum float64
	}{
		{"zero values get defaults", SearchOptions{}, DefaultMaxResults, DefaultMinScore},
		{"explicit values kept", SearchOptions{MaxResults: 10, MinScore: 0.5}, 10, 0.5},
		{"negative max results gets default", SearchOptions{MaxResults: -1}, DefaultMaxResults, DefaultMinScore},
		{"negative min score disables floor", SearchOptions{MaxResults: 3, MinScore: -1}, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.opts.Normalised()
			assert.Equal(t, tt.wantMax, got.MaxResults)
			assert.Equal(t, tt.wantMinimum, got.MinScore)
		})
	}
}

// TestSearchResponse_EmptyWithReason tests that an empty outcome carries a reason
func TestSearchResponse_EmptyWithReason(t *testing.T) {
	resp := SearchResponse{
		Results: nil,
		Reason:  "no results above minimum score",
	}

	assert.Empty(t, resp.Results)
	assert.Equal(t, "no results above minimum score", resp.Reason)
}

// TestEngineState_String tests state names
func TestEngineState_String(t *testing.T) {
	tests := []struct {
		state EngineState
		want  string
	}{
		{StateUninitialized, "uninitialized"},
		{StateBuilding, "building"},
		{StateReady, "ready"},
		{StateRebuilding, "rebuilding"},
		{StateFailed, "failed"},
		{EngineState(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}

// TestEngineState_Queryable tests which states serve searches
func TestEngineState_Queryable(t *testing.T) {
	assert.False(t, StateUninitialized.Queryable())
	assert.False(t, StateBuilding.Queryable())
	assert.True(t, StateReady.Queryable())
	assert.True(t, StateRebuilding.Queryable())
	assert.False(t, StateFailed.Queryable())
}

// TestModelIdentity_Validate tests persistence-key validation
func TestModelIdentity_Validate(t *testing.T) {
	tests := []struct {
		name    string
		model   ModelIdentity
		wantErr bool
	}{
		{"valid", ModelIdentity{Name: "nomic-embed-text", Dimension: 768}, false},
		{"empty name", ModelIdentity{Dimension: 768}, true},
		{"zero dimension", ModelIdentity{Name: "m"}, true},
		{"negative dimension", ModelIdentity{Name: "m", Dimension: -3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestModelIdentity_String tests the log rendering
func TestModelIdentity_String(t *testing.T) {
	m := ModelIdentity{Name: "all-minilm", Dimension: 384}
	assert.Equal(t, "all-minilm (dim 384)", m.String())
}
