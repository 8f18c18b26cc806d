// Package flat provides an exact nearest-neighbour index backed by a
// brute-force scan. Every query touches every vector, which is fine
// for corpora up to the tens of thousands of chunks this engine
// targets; swapping in an approximate index is a matter of
// implementing the same port.
package flat

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/docsmith-labs/docdex/internal/core/domain"
	"github.com/docsmith-labs/docdex/internal/core/ports/driven"
)

// Ensure the implementations satisfy the ports.
var (
	_ driven.VectorIndex      = (*Index)(nil)
	_ driven.VectorIndexCodec = (*Codec)(nil)
)

// Serialized blob layout: header then vectors, all little-endian.
const (
	blobMagic   uint32 = 0x78646c66 // "fldx"
	blobVersion uint32 = 1
	headerSize         = 16 // magic, version, dimension, count (4 x uint32)
)

// Index is a flat vector index over row-major float32 storage.
type Index struct {
	dim     int
	vectors []float32
	count   int
}

// New returns an empty index accepting vectors of the given width.
func New(dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: index dimension must be positive, got %d", domain.ErrInvalidInput, dimension)
	}
	return &Index{dim: dimension}, nil
}

// Add appends vectors to the index in order. Positions are assigned
// sequentially from the current length.
func (idx *Index) Add(vectors [][]float32) error {
	for i, vec := range vectors {
		if len(vec) != idx.dim {
			return fmt.Errorf("%w: vector %d has width %d, index expects %d",
				domain.ErrDimensionConflict, i, len(vec), idx.dim)
		}
	}
	for _, vec := range vectors {
		idx.vectors = append(idx.vectors, vec...)
	}
	idx.count += len(vectors)
	return nil
}

// Search scans all stored vectors and returns the k nearest by
// squared Euclidean distance, ascending. Ties keep insertion order.
func (idx *Index) Search(query []float32, k int) ([]driven.Neighbor, error) {
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query has width %d, index expects %d",
			domain.ErrDimensionMismatch, len(query), idx.dim)
	}
	if k <= 0 || idx.count == 0 {
		return nil, nil
	}
	if k > idx.count {
		k = idx.count
	}

	neighbors := make([]driven.Neighbor, idx.count)
	for pos := 0; pos < idx.count; pos++ {
		row := idx.vectors[pos*idx.dim : (pos+1)*idx.dim]
		var dist float64
		for i, q := range query {
			d := float64(q) - float64(row[i])
			dist += d * d
		}
		neighbors[pos] = driven.Neighbor{Position: pos, Distance: dist}
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})

	return neighbors[:k], nil
}

// Dimensions returns the vector width the index accepts.
func (idx *Index) Dimensions() int {
	return idx.dim
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int {
	return idx.count
}

// Serialize renders the index as a self-describing binary blob.
func (idx *Index) Serialize() ([]byte, error) {
	buf := make([]byte, headerSize+len(idx.vectors)*4)
	binary.LittleEndian.PutUint32(buf[0:], blobMagic)
	binary.LittleEndian.PutUint32(buf[4:], blobVersion)
	binary.LittleEndian.PutUint32(buf[8:], uint32(idx.dim))
	binary.LittleEndian.PutUint32(buf[12:], uint32(idx.count))
	for i, f := range idx.vectors {
		binary.LittleEndian.PutUint32(buf[headerSize+i*4:], math.Float32bits(f))
	}
	return buf, nil
}

// Codec constructs flat indexes for the engine.
type Codec struct{}

// NewCodec returns a codec producing flat indexes.
func NewCodec() *Codec {
	return &Codec{}
}

// New returns an empty flat index of the given dimension.
func (Codec) New(dimension int) (driven.VectorIndex, error) {
	return New(dimension)
}

// Deserialize reconstructs an index from a Serialize blob.
func (Codec) Deserialize(blob []byte) (driven.VectorIndex, error) {
	if len(blob) < headerSize {
		return nil, fmt.Errorf("index blob too short: %d bytes", len(blob))
	}
	if magic := binary.LittleEndian.Uint32(blob[0:]); magic != blobMagic {
		return nil, fmt.Errorf("index blob has wrong magic 0x%08x", magic)
	}
	if version := binary.LittleEndian.Uint32(blob[4:]); version != blobVersion {
		return nil, fmt.Errorf("unsupported index blob version %d", version)
	}

	dim := int(binary.LittleEndian.Uint32(blob[8:]))
	count := int(binary.LittleEndian.Uint32(blob[12:]))

	idx, err := New(dim)
	if err != nil {
		return nil, err
	}

	want := headerSize + dim*count*4
	if len(blob) != want {
		return nil, fmt.Errorf("index blob is %d bytes, expected %d for %d x %d", len(blob), want, count, dim)
	}

	idx.vectors = make([]float32, dim*count)
	for i := range idx.vectors {
		idx.vectors[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[headerSize+i*4:]))
	}
	idx.count = count
	return idx, nil
}
