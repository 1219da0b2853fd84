package rag

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
)

func TestChunkID_DeterministicPerSourceAndIndex(t *testing.T) {
	a := ChunkID("doc.pdf", 0)
	b := ChunkID("doc.pdf", 0)
	c := ChunkID("doc.pdf", 1)
	d := ChunkID("other.pdf", 0)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
}

func TestManagerConfig_IsNeedReconnect(t *testing.T) {
	base := ManagerConfig{ServerURL: "localhost:6334", APIKey: "k1"}

	assert.False(t, base.IsNeedReconnect(base))
	assert.True(t, base.IsNeedReconnect(ManagerConfig{ServerURL: "otherhost:6334", APIKey: "k1"}))
	assert.True(t, base.IsNeedReconnect(ManagerConfig{ServerURL: "localhost:6334", APIKey: "k2"}))
	assert.True(t, base.IsNeedReconnect(ManagerConfig{FilePath: "/tmp/a"}))

	// APIKey only matters when ServerURL is set (local file mode has no key).
	local := ManagerConfig{FilePath: "/tmp/a"}
	assert.False(t, local.IsNeedReconnect(ManagerConfig{FilePath: "/tmp/a", APIKey: "ignored"}))
}

func TestSplitHostPort_StripsSchemeAndParsesPort(t *testing.T) {
	cases := []struct {
		in       string
		wantHost string
		wantPort int
	}{
		{"https://cluster.example.com:6334", "cluster.example.com", 6334},
		{"http://localhost:1234", "localhost", 1234},
		{"grpc://qdrant:6334", "qdrant", 6334},
		{"bare-host", "bare-host", 6334},
	}
	for _, c := range cases {
		host, port := splitHostPort(c.in)
		assert.Equal(t, c.wantHost, host, c.in)
		assert.Equal(t, c.wantPort, port, c.in)
	}
}

func TestToInt64_HandlesIntAndInt64(t *testing.T) {
	assert.Equal(t, int64(5), toInt64(5))
	assert.Equal(t, int64(7), toInt64(int64(7)))
	assert.Equal(t, int64(0), toInt64("not a number"))
}

func TestHasSparseField(t *testing.T) {
	assert.False(t, hasSparseField(NoopStrategy{}))
	assert.False(t, hasSparseField(NewDenseOnlyStrategy("m", fakeDenseEmbedder{dim: 4}, 4)))
	assert.True(t, hasSparseField(NewSparseOnlyStrategy(SparseBM25, fakeSparseEmbedder{})))
	assert.True(t, hasSparseField(NewHybridRRFStrategy(SparseBM25, "m", fakeSparseEmbedder{}, fakeDenseEmbedder{dim: 4}, 4)))
}

func TestVectorsToQdrant_MapsDenseAndSparseFields(t *testing.T) {
	vectors := map[string]Vector{
		fieldDense:  {Dense: []float32{1, 2, 3}},
		fieldSparse: {Sparse: &SparseVector{Indices: []uint32{1}, Values: []float32{0.5}}},
	}
	got := vectorsToQdrant(vectors)
	assert.NotNil(t, got)
}

func TestQdrantValueToAny_ConvertsEachKind(t *testing.T) {
	str := &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: "hello"}}
	boolean := &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: true}}

	assert.Equal(t, "hello", qdrantValueToAny(str))
	assert.Equal(t, true, qdrantValueToAny(boolean))
	assert.Nil(t, qdrantValueToAny(nil))
}

func TestPayloadToMap_NilPayloadIsNil(t *testing.T) {
	assert.Nil(t, payloadToMap(nil))
}

func TestPayloadToMap_ConvertsEachEntry(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"source": {Kind: &qdrant.Value_StringValue{StringValue: "doc.pdf"}},
		"active": {Kind: &qdrant.Value_BoolValue{BoolValue: true}},
	}
	got := payloadToMap(payload)
	assert.Equal(t, "doc.pdf", got["source"])
	assert.Equal(t, true, got["active"])
}

func TestBuildFilter_NilForEmptyFilter(t *testing.T) {
	assert.Nil(t, buildFilter(nil))
	assert.Nil(t, buildFilter(Filter{}))
}

func TestBuildFilter_BuildsMustConditions(t *testing.T) {
	f := buildFilter(Filter{"source": "doc.pdf"})
	assert.Len(t, f.Must, 1)
}

func TestMatchesFilter_ScalarAndSliceMatching(t *testing.T) {
	payload := map[string]interface{}{"source": "doc.pdf", "page": int64(3)}

	assert.True(t, matchesFilter(payload, Filter{"source": "doc.pdf"}))
	assert.False(t, matchesFilter(payload, Filter{"source": "other.pdf"}))
	assert.True(t, matchesFilter(payload, Filter{"source": []interface{}{"doc.pdf", "other.pdf"}}))
	assert.False(t, matchesFilter(payload, Filter{"missing_key": "x"}))
}

func TestContainsValue_StringifiedComparison(t *testing.T) {
	list := []interface{}{"a", int64(3), true}
	assert.True(t, containsValue(list, "a"))
	assert.True(t, containsValue(list, 3))
	assert.False(t, containsValue(list, "z"))
}

func TestReapplyFilterClientSide_DropsNonMatching(t *testing.T) {
	hits := []Hit{
		{ID: "1", Payload: map[string]interface{}{"source": "a.pdf"}},
		{ID: "2", Payload: map[string]interface{}{"source": "b.pdf"}},
	}
	filtered := reapplyFilterClientSide(hits, Filter{"source": "a.pdf"})
	assert.Len(t, filtered, 1)
	assert.Equal(t, "1", filtered[0].ID)
}

func TestPointIDString_ReadsUUID(t *testing.T) {
	uid := qdrant.NewID("11111111-1111-1111-1111-111111111111")
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", pointIDString(uid))
}

func TestPointIDString_FallsBackToNumWhenNoUUID(t *testing.T) {
	assert.Equal(t, "0", pointIDString(&qdrant.PointId{}))
}
