package domain

import "fmt"

// ModelIdentity identifies an embedding model and the vector
// dimension it produces. Persisted artifacts are keyed by model
// name; vectors whose width disagrees with Dimension are rejected
// with ErrDimensionConflict. Replacing a model's artifacts at a new
// width re-records the dimension.
type ModelIdentity struct {
	// Name uniquely identifies the model ("nomic-embed-text",
	// "text-embedding-3-small").
	Name string

	// Dimension is the width of vectors the model produces.
	Dimension int
}

// String renders the identity for logs and error messages.
func (m ModelIdentity) String() string {
	return fmt.Sprintf("%s (dim %d)", m.Name, m.Dimension)
}

// Validate checks the identity is usable as a persistence key.
func (m ModelIdentity) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: model name is empty", ErrInvalidInput)
	}
	if m.Dimension <= 0 {
		return fmt.Errorf("%w: model dimension must be positive, got %d", ErrInvalidInput, m.Dimension)
	}
	return nil
}
