package driven

// Neighbor represents one hit from a nearest-neighbour search.
type Neighbor struct {
	// Position is the insertion position of the matched vector,
	// which doubles as the document's index in build order.
	Position int

	// Distance is the squared Euclidean distance to the query
	// vector. Smaller is closer; ordering matches plain Euclidean.
	Distance float64
}

// VectorIndex stores embedding vectors and answers nearest-neighbour
// queries. Positions are assigned in insertion order, so callers keep
// a parallel slice of documents to map hits back to content.
//
// Implementations are immutable once built and safe for concurrent
// reads. Mutation happens by building a replacement index and
// swapping it in.
type VectorIndex interface {
	// Add appends vectors to the index. Every vector must match
	// the index dimension; domain.ErrDimensionConflict otherwise.
	Add(vectors [][]float32) error

	// Search returns the k nearest neighbours of the query vector,
	// ordered by ascending distance. Fewer than k hits are returned
	// when the index holds fewer vectors. A query whose width
	// disagrees with the index dimension fails with
	// domain.ErrDimensionMismatch.
	Search(query []float32, k int) ([]Neighbor, error)

	// Dimensions returns the vector width the index accepts.
	Dimensions() int

	// Len returns the number of stored vectors.
	Len() int

	// Serialize renders the full index as a self-describing byte
	// blob for persistence.
	Serialize() ([]byte, error)
}

// VectorIndexCodec constructs indexes, either empty or from a
// serialised blob. Splitting construction from the index itself lets
// the engine rebuild with a different dimension without caring which
// implementation it holds.
type VectorIndexCodec interface {
	// New returns an empty index of the given dimension.
	New(dimension int) (VectorIndex, error)

	// Deserialize reconstructs an index from a Serialize blob.
	Deserialize(blob []byte) (VectorIndex, error)
}
