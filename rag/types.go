package rag

import "github.com/teilomillet/raggo/rag/providers"

// NoThreshold formalizes the "score_threshold = -1" convention used by
// the catalog's lookup-by-filter query: it means "accept any score",
// distinct from the zero-value float64 which would otherwise silently
// filter out legitimate zero-score matches.
const NoThreshold = -1.0

// SparseVector is the indices+values representation of a lexical
// embedding (BM25, SPLADE). Indices are stable, non-cryptographically
// hashed token ids for both BM25 and SPLADE; there is no vocabulary.
type SparseVector = providers.SparseVector

// Vector is the value written to one named vector field of a collection.
// Exactly one of Dense or Sparse is set, matching the field's kind.
type Vector struct {
	Dense  []float32
	Sparse *SparseVector
}

// PrefetchSpec is one candidate-generation request issued before fusion,
// naming the vector field to search and how many candidates to pull from
// it. Single-field strategies never produce these; hybrid strategies
// produce one per vector field.
type PrefetchSpec struct {
	Field string
	Query Vector
	Limit uint64
}

// FusionKind names the server-side fusion algorithm applied across
// Prefetch results. RRF is the only one this repository wires, matching
// spec.md's scope.
type FusionKind int

const (
	FusionNone FusionKind = iota
	FusionRRF
)

// QueryValue is what a strategy asks the manager to issue as the read
// path: either a single named-field vector query (UseVectorName names
// the field), or a fusion instruction over the strategy's Prefetch
// results.
type QueryValue struct {
	Fusion      FusionKind
	VectorName  string
	DenseQuery  []float32
	SparseQuery *SparseVector
}

// Hit is one search result: a point id, its score (comparable only
// within one query invocation, never across strategies), and its stored
// payload.
type Hit struct {
	ID      string
	Score   float64
	Payload map[string]interface{}
}

// Filter is a structured filter spec built from a flat map: each value
// is either a scalar (exact match) or a slice (any-of match).
type Filter map[string]interface{}

