package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrCorpusUnavailable", ErrCorpusUnavailable},
		{"ErrEmbeddingFailure", ErrEmbeddingFailure},
		{"ErrIndexBuildFailure", ErrIndexBuildFailure},
		{"ErrPersistenceFailure", ErrPersistenceFailure},
		{"ErrDimensionConflict", ErrDimensionConflict},
		{"ErrEngineNotReady", ErrEngineNotReady},
		{"ErrQueryEmbeddingFailure", ErrQueryEmbeddingFailure},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrIndexUnavailable", ErrIndexUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Distinct tests that sentinels do not match each other
func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrDimensionConflict, ErrDimensionMismatch))
	assert.False(t, errors.Is(ErrDimensionMismatch, ErrDimensionConflict))
	assert.False(t, errors.Is(ErrEmbeddingFailure, ErrQueryEmbeddingFailure))
	assert.False(t, errors.Is(ErrEngineNotReady, ErrIndexUnavailable))
}

// TestErrors_Wrapping tests errors.Is through fmt.Errorf wrapping,
// the pattern every layer uses to add context
func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading artifacts: %w", ErrPersistenceFailure)
	assert.True(t, errors.Is(wrapped, ErrPersistenceFailure))

	doubly := fmt.Errorf("engine build: %w", wrapped)
	assert.True(t, errors.Is(doubly, ErrPersistenceFailure))
	assert.False(t, errors.Is(doubly, ErrIndexBuildFailure))
}
