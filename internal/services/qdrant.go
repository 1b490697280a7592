package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// qdrantVectorIndex backs the VectorIndex capability with a Qdrant
// collection, for deployments past the file store's comfortable scale.
// Qdrant serializes writes server-side, so no local lock is needed.
type qdrantVectorIndex struct {
	client         *qdrant.Client
	collectionName string
	dim            int
}

func NewQdrantVectorIndex(urlStr, apiKey, collectionName string, dim int) (VectorIndex, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	idx := &qdrantVectorIndex{
		client:         client,
		collectionName: collectionName,
		dim:            dim,
	}

	if err := idx.initCollection(); err != nil {
		return nil, err
	}

	return idx, nil
}

func (q *qdrantVectorIndex) initCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Qdrant collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(q.dim),
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// Add implements VectorIndex.
func (q *qdrantVectorIndex) Add(ctx context.Context, vector []float64, metadata map[string]string) error {
	if len(vector) != q.dim {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), q.dim)
	}

	payload := make(map[string]interface{}, len(metadata))
	for k, v := range metadata {
		payload[k] = v
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(uuid.New().ID())),
		Vectors: qdrant.NewVectors(toFloat32(vector)...),
		Payload: qdrant.NewValueMap(payload),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// Search implements VectorIndex.
func (q *qdrantVectorIndex) Search(ctx context.Context, query []float64, topK int) ([]SearchHit, error) {
	if len(query) != q.dim {
		return nil, fmt.Errorf("%w: query has %d, want %d", ErrDimensionMismatch, len(query), q.dim)
	}

	if topK <= 0 {
		return nil, nil
	}

	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(toFloat32(query)...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var hits []SearchHit
	for _, point := range searchResult {
		metadata := make(map[string]string, len(point.Payload))
		for key, value := range point.Payload {
			if val, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
				metadata[key] = val.StringValue
			}
		}

		hits = append(hits, SearchHit{
			Metadata: metadata,
			Score:    float64(point.Score),
		})
	}

	return hits, nil
}

func toFloat32(vec []float64) []float32 {
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}
