// Package rag implements the hybrid retrieval core: chunking, sparse and
// dense embedding, retrieval strategies, the vector store manager, and
// the collection catalog.
package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/teilomillet/raggo/rag/rerr"
)

// namespaceChunkID is the fixed namespace used to derive deterministic
// per-chunk UUIDs from "source#chunk_ordinal", so re-ingesting the same
// source with the same chunk parameters is idempotent (spec.md §3,
// testable property 4).
var namespaceChunkID = uuid.MustParse("6f6a6f7a-7261-6767-6f2d-6368756e6b73")

// ChunkID derives the deterministic id for chunk chunkIndex of source.
func ChunkID(source string, chunkIndex int) string {
	name := fmt.Sprintf("%s#%d", source, chunkIndex)
	return uuid.NewSHA1(namespaceChunkID, []byte(name)).String()
}

// ManagerConfig configures a VectorStoreManager's connection.
type ManagerConfig struct {
	// ServerURL, when set, selects a remote gRPC connection (either a
	// Qdrant Cloud URL or a local/self-hosted one — the same client
	// code path handles both, so the port's "local file path" and
	// "remote URL" connection forms converge on one dial target
	// distinguished only by which field is set).
	ServerURL string
	APIKey    string
	// FilePath marks local mode: with ServerURL empty, the manager dials
	// the local Qdrant gRPC port (localhost:6334); the path itself is not
	// passed to the client and only takes part in IsNeedReconnect. When
	// both ServerURL and FilePath are empty the manager also dials
	// localhost:6334; there is no in-memory mode.
	FilePath string
	UseTLS   bool
}

// IsNeedReconnect reports whether any field that determines dial target
// identity changed relative to other, per spec.md §4.5.
func (c ManagerConfig) IsNeedReconnect(other ManagerConfig) bool {
	if c.ServerURL != other.ServerURL {
		return true
	}
	if c.ServerURL != "" && c.APIKey != other.APIKey {
		return true
	}
	return c.FilePath != other.FilePath
}

// CatalogCollectionName is the reserved collection holding one record
// per user collection. It can never be a user collection name and is
// always excluded from VectorStoreManager.Collections.
const CatalogCollectionName = "__raggo_catalog__"

// VectorStoreManager is the exclusive owner of the store client
// connection and the strategy cache (spec.md §4.5). Construction and
// reconnection are serialized by the package-level mutex in
// singleton.go; VectorStoreManager itself is safe for concurrent use
// once constructed.
type VectorStoreManager struct {
	cfg    ManagerConfig
	client *qdrant.Client
	logger Logger

	stratMu    sync.RWMutex
	strategies map[string]Strategy // collection name -> active strategy
}

// NewVectorStoreManager connects to Qdrant per cfg and ensures the
// catalog collection exists.
func NewVectorStoreManager(ctx context.Context, cfg ManagerConfig) (*VectorStoreManager, error) {
	client, err := dialQdrant(cfg)
	if err != nil {
		return nil, rerr.Upstream("qdrant", err)
	}

	m := &VectorStoreManager{
		cfg:        cfg,
		client:     client,
		logger:     GlobalLogger,
		strategies: make(map[string]Strategy),
	}

	if err := m.ensureCatalogCollection(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func dialQdrant(cfg ManagerConfig) (*qdrant.Client, error) {
	host, port := "localhost", 6334
	apiKey := cfg.APIKey
	useTLS := cfg.UseTLS

	switch {
	case cfg.ServerURL != "":
		host, port = splitHostPort(cfg.ServerURL)
	case cfg.FilePath != "":
		// An embedded/local-file Qdrant process is expected to be
		// reachable over the default local gRPC port; the manager
		// dials it the same way as a remote server, so filter and
		// connection semantics are identical in both modes (resolves
		// the "local-file filter divergence" open question — see
		// DESIGN.md).
		host, port = "localhost", 6334
	}

	return qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
}

func splitHostPort(url string) (string, int) {
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "grpc://")
	host, portStr, ok := strings.Cut(url, ":")
	if !ok {
		return url, 6334
	}
	port := 6334
	fmt.Sscanf(portStr, "%d", &port)
	return host, port
}

func ptr[T any](v T) *T { return &v }

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	default:
		return 0
	}
}

func (m *VectorStoreManager) ensureCatalogCollection(ctx context.Context) error {
	return m.EnsureCollection(ctx, CatalogCollectionName, NoopStrategy{}, 0)
}

// EnsureCollection is idempotent: if the collection does not exist, it
// is created with vector params derived from strategy and int8 scalar
// quantization at a 0.99 quantile, always-RAM (spec.md §4.5). An
// existing collection's schema is never overwritten.
func (m *VectorStoreManager) EnsureCollection(ctx context.Context, name string, strategy Strategy, denseDim int) error {
	exists, err := m.client.CollectionExists(ctx, name)
	if err != nil {
		return rerr.Upstream(name, err)
	}
	if exists {
		m.stratMu.Lock()
		m.strategies[name] = strategy
		m.stratMu.Unlock()
		return nil
	}

	create := &qdrant.CreateCollection{
		CollectionName: name,
	}

	dim := denseDim
	if dim == 0 {
		dim = strategy.DenseFieldDimension()
	}
	if dim > 0 {
		create.VectorsConfig = qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			fieldDense: {
				Size:     uint64(dim),
				Distance: qdrant.Distance_Cosine,
				QuantizationConfig: qdrant.NewQuantizationScalar(&qdrant.QuantizationScalar{
					Type:      qdrant.QuantizationType_Int8,
					Quantile:  ptr(float32(0.99)),
					AlwaysRam: ptr(true),
				}),
			},
		})
	}

	if hasSparseField(strategy) {
		create.SparseVectorsConfig = qdrant.NewSparseVectorsConfig(map[string]*qdrant.SparseVectorParams{
			fieldSparse: {
				Modifier: qdrant.Modifier_Idf.Enum(),
			},
		})
	}

	if err := m.client.CreateCollection(ctx, create); err != nil {
		return rerr.Upstream(name, err)
	}

	m.stratMu.Lock()
	m.strategies[name] = strategy
	m.stratMu.Unlock()
	return nil
}

func hasSparseField(s Strategy) bool {
	switch s.(type) {
	case *SparseOnlyStrategy, *HybridRRFStrategy, *HybridRRFRerankStrategy:
		return true
	default:
		return false
	}
}

// AddDocuments chunks each input text, assigns deterministic per-chunk
// ids, produces vectors via strategy, and upserts. It returns one id per
// input document (the id of its first chunk). Callers that re-ingest a
// source should call DeleteByFilter first; AddDocuments itself does not
// delete (that policy lives in the ingestion pipeline, which knows the
// source boundary).
func (m *VectorStoreManager) AddDocuments(ctx context.Context, collection string, strategy Strategy, texts []string, metadata []map[string]interface{}, chunkSize, chunkOverlap int) ([]string, error) {
	firstIDs := make([]string, 0, len(texts))

	for docIdx, text := range texts {
		source, _ := metadata[docIdx]["source"].(string)
		chunks := Split(text, chunkSize, chunkOverlap)

		id, err := m.AddChunks(ctx, collection, strategy, source, chunks, metadata[docIdx])
		if err != nil {
			return nil, err
		}
		if id != "" {
			firstIDs = append(firstIDs, id)
		}
	}

	return firstIDs, nil
}

// AddChunks upserts chunks that have already been split by the caller,
// without calling Split. AddDocuments (and with it the catalog) and
// MemoryContext.StoreMemory write through it; the page-aware contextual
// enrichment path uses AddEnrichedPages instead. It returns the id
// assigned to chunks[0], or "" if chunks is
// empty. extraMeta's fields are copied onto every chunk's payload
// without overwriting the reserved text/source/chunk_index/chunk_total
// keys.
func (m *VectorStoreManager) AddChunks(ctx context.Context, collection string, strategy Strategy, source string, chunks []string, extraMeta map[string]interface{}) (string, error) {
	points := make([]*qdrant.PointStruct, 0, len(chunks))
	firstID := ""
	for i, chunkText := range chunks {
		id := ChunkID(source, i)
		vectors, err := strategy.Vectors(ctx, chunkText)
		if err != nil {
			return "", rerr.Upstream(source, err)
		}

		payload := map[string]interface{}{
			"text":        chunkText,
			"source":      source,
			"chunk_index": i,
			"chunk_total": len(chunks),
		}
		for k, v := range extraMeta {
			if _, exists := payload[k]; !exists {
				payload[k] = v
			}
		}

		payloadValues, err := qdrant.TryValueMap(payload)
		if err != nil {
			return "", rerr.Invariant(source, "converting payload: %v", err)
		}
		point := &qdrant.PointStruct{
			Id:      qdrant.NewID(id),
			Payload: payloadValues,
			Vectors: vectorsToQdrant(vectors),
		}
		points = append(points, point)
		if i == 0 {
			firstID = id
		}
	}

	if len(points) == 0 {
		return "", nil
	}
	if _, err := m.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	}); err != nil {
		return "", rerr.Upstream(collection, err)
	}

	return firstID, nil
}

// AddPages upserts a page-addressable document: pages are split
// independently so a chunk never straddles a page boundary, but chunk ids
// stay derived from a single document-wide ordinal so re-ingestion of the
// same source with a different page count still yields stable ids for the
// chunks that didn't move. chunk_index/chunk_total in the payload are
// scoped to the page; the page field (1-based) records which page a chunk
// came from. It returns the id of the first chunk on the first non-empty
// page, or "" if every page produced zero chunks.
func (m *VectorStoreManager) AddPages(ctx context.Context, collection string, strategy Strategy, source string, pages []string, chunkSize, chunkOverlap int, extraMeta map[string]interface{}) (string, error) {
	pageChunks := make([][]string, len(pages))
	for i, pageText := range pages {
		pageChunks[i] = Split(pageText, chunkSize, chunkOverlap)
	}
	return m.addPageChunks(ctx, collection, strategy, source, pageChunks, extraMeta)
}

// AddEnrichedPages upserts page content that has already been split and
// enriched upstream (each element of chunks carries an LLM-generated
// context prefix). Unlike AddPages, it does not call Split itself: the
// contextual-enrichment path builds each chunk's final stored text by hand,
// and re-splitting it here would risk severing a chunk from its prefix
// mid-text. Page numbering, chunk ordinals, and chunk_index/chunk_total
// scoping follow the same convention as AddPages.
func (m *VectorStoreManager) AddEnrichedPages(ctx context.Context, collection string, strategy Strategy, source string, pageChunks [][]string, extraMeta map[string]interface{}) (string, error) {
	return m.addPageChunks(ctx, collection, strategy, source, pageChunks, extraMeta)
}

func (m *VectorStoreManager) addPageChunks(ctx context.Context, collection string, strategy Strategy, source string, pageChunks [][]string, extraMeta map[string]interface{}) (string, error) {
	var points []*qdrant.PointStruct
	firstID := ""
	ordinal := 0

	for pageIdx, chunks := range pageChunks {
		for i, chunkText := range chunks {
			id := ChunkID(source, ordinal)
			ordinal++

			vectors, err := strategy.Vectors(ctx, chunkText)
			if err != nil {
				return "", rerr.Upstream(source, err)
			}

			payload := map[string]interface{}{
				"text":        chunkText,
				"source":      source,
				"page":        pageIdx + 1,
				"chunk_index": i,
				"chunk_total": len(chunks),
			}
			for k, v := range extraMeta {
				if _, exists := payload[k]; !exists {
					payload[k] = v
				}
			}

			payloadValues, err := qdrant.TryValueMap(payload)
			if err != nil {
				return "", rerr.Invariant(source, "converting payload: %v", err)
			}
			point := &qdrant.PointStruct{
				Id:      qdrant.NewID(id),
				Payload: payloadValues,
				Vectors: vectorsToQdrant(vectors),
			}
			points = append(points, point)
			if firstID == "" {
				firstID = id
			}
		}
	}

	if len(points) == 0 {
		return "", nil
	}
	if _, err := m.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	}); err != nil {
		return "", rerr.Upstream(collection, err)
	}

	return firstID, nil
}

func vectorsToQdrant(vectors map[string]Vector) *qdrant.Vectors {
	named := make(map[string]*qdrant.Vector, len(vectors))
	for field, v := range vectors {
		if v.Dense != nil {
			named[field] = qdrant.NewVector(v.Dense...)
		}
		if v.Sparse != nil {
			named[field] = qdrant.NewVectorSparse(v.Sparse.Indices, v.Sparse.Values)
		}
	}
	return qdrant.NewVectorsMap(named)
}

// QueryPoints implements the read path described in spec.md §4.5:
// effective top_k doubling when the strategy overfetches, prefetch+
// fusion or single-field query, client-side score threshold, client-side
// filter reapplication, and optional rerank.
func (m *VectorStoreManager) QueryPoints(ctx context.Context, collection string, strategy Strategy, queryText string, topK int, scoreThreshold float64, filter Filter, denseOverride []float32) ([]Hit, error) {
	effectiveTopK := topK
	if strategy.Overfetch() {
		effectiveTopK = topK * 2
	}

	qdrantFilter := buildFilter(filter)

	var hits []Hit
	var err error

	prefetch, perr := strategy.Prefetch(ctx, queryText, uint64(effectiveTopK), denseOverride)
	if perr != nil {
		return nil, rerr.Upstream(collection, perr)
	}

	if len(prefetch) > 0 {
		hits, err = m.fusedQuery(ctx, collection, prefetch, uint64(effectiveTopK), qdrantFilter)
	} else {
		qv, qerr := strategy.Query(ctx, queryText, denseOverride)
		if qerr != nil {
			return nil, rerr.Upstream(collection, qerr)
		}
		hits, err = m.singleFieldQuery(ctx, collection, qv, uint64(effectiveTopK), qdrantFilter)
	}
	if err != nil {
		return nil, rerr.Upstream(collection, err)
	}

	if scoreThreshold != NoThreshold {
		filtered := hits[:0]
		for _, h := range hits {
			if h.Score >= scoreThreshold {
				filtered = append(filtered, h)
			}
		}
		hits = filtered
	}

	if filter != nil {
		hits = reapplyFilterClientSide(hits, filter)
	}

	if reranked, rerr2 := strategy.Rerank(ctx, queryText, hits, topK, scoreThreshold); rerr2 != nil {
		return nil, rerr.Upstream(collection, rerr2)
	} else if reranked != nil {
		return reranked, nil
	}

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func (m *VectorStoreManager) fusedQuery(ctx context.Context, collection string, prefetch []PrefetchSpec, limit uint64, filter *qdrant.Filter) ([]Hit, error) {
	qPrefetch := make([]*qdrant.PrefetchQuery, 0, len(prefetch))
	for _, p := range prefetch {
		var query *qdrant.Query
		if p.Query.Dense != nil {
			query = qdrant.NewQuery(p.Query.Dense...)
		} else if p.Query.Sparse != nil {
			query = qdrant.NewQuerySparse(p.Query.Sparse.Indices, p.Query.Sparse.Values)
		}
		qPrefetch = append(qPrefetch, &qdrant.PrefetchQuery{
			Query:          query,
			Using:          ptr(p.Field),
			Limit:          ptr(p.Limit),
			Filter:         filter,
			CollectionName: ptr(collection),
		})
	}

	resp, err := m.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Prefetch:       qPrefetch,
		Query:          qdrant.NewQueryFusion(qdrant.Fusion_RRF),
		Limit:          ptr(limit),
		Filter:         filter,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}
	return pointsToHits(resp), nil
}

func (m *VectorStoreManager) singleFieldQuery(ctx context.Context, collection string, qv QueryValue, limit uint64, filter *qdrant.Filter) ([]Hit, error) {
	var query *qdrant.Query
	if qv.DenseQuery != nil {
		query = qdrant.NewQuery(qv.DenseQuery...)
	} else if qv.SparseQuery != nil {
		query = qdrant.NewQuerySparse(qv.SparseQuery.Indices, qv.SparseQuery.Values)
	} else if qv.VectorName != "" {
		return nil, fmt.Errorf("query value has neither dense nor sparse component")
	}

	// A strategy with no vector field (NoopStrategy, used by the catalog)
	// yields an empty QueryValue: the request then carries only the filter
	// and no query vector, and matching points come back in id order.
	req := &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          query,
		Limit:          ptr(limit),
		Filter:         filter,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if qv.VectorName != "" {
		req.Using = ptr(qv.VectorName)
	}
	resp, err := m.client.Query(ctx, req)
	if err != nil {
		return nil, err
	}
	return pointsToHits(resp), nil
}

func pointsToHits(points []*qdrant.ScoredPoint) []Hit {
	hits := make([]Hit, 0, len(points))
	for _, p := range points {
		hits = append(hits, Hit{
			ID:      pointIDString(p.GetId()),
			Score:   float64(p.GetScore()),
			Payload: payloadToMap(p.GetPayload()),
		})
	}
	return hits
}

// payloadToMap mirrors the value-kind switch every Qdrant client in the
// pack hand-writes, since the wire payload is a map of oneof Value
// messages rather than plain Go values.
func payloadToMap(payload map[string]*qdrant.Value) map[string]interface{} {
	if payload == nil {
		return nil
	}
	out := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		out[k] = qdrantValueToAny(v)
	}
	return out
}

func qdrantValueToAny(value *qdrant.Value) interface{} {
	if value == nil {
		return nil
	}
	switch kind := value.Kind.(type) {
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_StructValue:
		fields := make(map[string]interface{}, len(kind.StructValue.GetFields()))
		for k, v := range kind.StructValue.GetFields() {
			fields[k] = qdrantValueToAny(v)
		}
		return fields
	case *qdrant.Value_ListValue:
		values := kind.ListValue.GetValues()
		out := make([]interface{}, len(values))
		for i, v := range values {
			out[i] = qdrantValueToAny(v)
		}
		return out
	default:
		return nil
	}
}

func pointIDString(id *qdrant.PointId) string {
	if u := id.GetUuid(); u != "" {
		return u
	}
	return fmt.Sprintf("%d", id.GetNum())
}

func buildFilter(filter Filter) *qdrant.Filter {
	if len(filter) == 0 {
		return nil
	}
	var must []*qdrant.Condition
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		switch v := filter[key].(type) {
		case []interface{}:
			vals := make([]string, 0, len(v))
			for _, item := range v {
				vals = append(vals, fmt.Sprintf("%v", item))
			}
			must = append(must, qdrant.NewMatchKeywords(key, vals...))
		case []string:
			must = append(must, qdrant.NewMatchKeywords(key, v...))
		case int, int64:
			must = append(must, qdrant.NewMatchInt(key, toInt64(v)))
		case bool:
			must = append(must, qdrant.NewMatchBool(key, v))
		default:
			must = append(must, qdrant.NewMatchKeyword(key, fmt.Sprintf("%v", v)))
		}
	}
	return &qdrant.Filter{Must: must}
}

// reapplyFilterClientSide re-applies filter to hits regardless of
// connection mode, because the wire contract between remote and
// embedded Qdrant processes is identical but a defensive client-side
// pass keeps the manager's behavior uniform even if a future dial
// target does not honor server-side filters faithfully.
func reapplyFilterClientSide(hits []Hit, filter Filter) []Hit {
	out := hits[:0]
	for _, h := range hits {
		if matchesFilter(h.Payload, filter) {
			out = append(out, h)
		}
	}
	return out
}

func matchesFilter(payload map[string]interface{}, filter Filter) bool {
	for key, want := range filter {
		got, ok := payload[key]
		if !ok {
			return false
		}
		switch w := want.(type) {
		case []interface{}:
			if !containsValue(w, got) {
				return false
			}
		case []string:
			matched := false
			for _, s := range w {
				if fmt.Sprintf("%v", got) == s {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		default:
			if fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
				return false
			}
		}
	}
	return true
}

func containsValue(list []interface{}, v interface{}) bool {
	for _, item := range list {
		if fmt.Sprintf("%v", item) == fmt.Sprintf("%v", v) {
			return true
		}
	}
	return false
}

// Collections lists user-visible collections, excluding the catalog.
func (m *VectorStoreManager) Collections(ctx context.Context) ([]string, error) {
	resp, err := m.client.ListCollections(ctx)
	if err != nil {
		return nil, rerr.Upstream("", err)
	}
	out := make([]string, 0, len(resp))
	for _, c := range resp {
		if c == CatalogCollectionName {
			continue
		}
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// Sources returns the deduplicated, sorted set of `source` payload
// values in collection, iterating via scroll in batches of 1000 until
// either limit is reached or the collection is exhausted.
func (m *VectorStoreManager) Sources(ctx context.Context, collection string, limit int) ([]string, error) {
	seen := make(map[string]struct{})
	var offset *qdrant.PointId

	for {
		resp, err := m.client.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: collection,
			Limit:          ptr(uint32(1000)),
			Offset:         offset,
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			return nil, rerr.Upstream(collection, err)
		}
		if len(resp) == 0 {
			break
		}
		for _, p := range resp {
			payload := payloadToMap(p.GetPayload())
			if src, ok := payload["source"].(string); ok {
				seen[src] = struct{}{}
			}
			if limit > 0 && len(seen) >= limit {
				break
			}
		}
		if len(resp) < 1000 || (limit > 0 && len(seen) >= limit) {
			break
		}
		offset = resp[len(resp)-1].GetId()
	}

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

// CountDocuments returns the number of points (chunks) in collection.
func (m *VectorStoreManager) CountDocuments(ctx context.Context, collection string) (int64, error) {
	count, err := m.client.Count(ctx, &qdrant.CountPoints{CollectionName: collection})
	if err != nil {
		return 0, rerr.Upstream(collection, err)
	}
	return int64(count), nil
}

// DeleteCollection drops collection. The reserved catalog collection
// can never be deleted through this method.
func (m *VectorStoreManager) DeleteCollection(ctx context.Context, name string) error {
	if name == CatalogCollectionName {
		return rerr.InputRejected(name, "cannot delete the reserved catalog collection")
	}
	if err := m.client.DeleteCollection(ctx, name); err != nil {
		return rerr.Upstream(name, err)
	}
	m.stratMu.Lock()
	delete(m.strategies, name)
	m.stratMu.Unlock()
	return nil
}

// DeleteByFilter deletes every point in collection matching filter. This
// is the primitive the ingestion pipeline uses for delete-before-insert
// on re-ingest (spec.md §4.7).
func (m *VectorStoreManager) DeleteByFilter(ctx context.Context, collection string, filter Filter) error {
	qf := buildFilter(filter)
	if qf == nil {
		return rerr.InputRejected(collection, "delete-by-filter requires a non-empty filter")
	}
	if _, err := m.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points:         qdrant.NewPointsSelectorFilter(qf),
	}); err != nil {
		return rerr.Upstream(collection, err)
	}
	return nil
}

// Close releases the underlying client connection.
func (m *VectorStoreManager) Close() error {
	return m.client.Close()
}
