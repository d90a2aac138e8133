package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/avikram/studybuddy/internal/config"
	"github.com/avikram/studybuddy/internal/domain/docModel"
	"github.com/avikram/studybuddy/internal/domain/ragErrors"
	"github.com/avikram/studybuddy/internal/metrics"
	"github.com/avikram/studybuddy/internal/rag/embedding"
	"github.com/avikram/studybuddy/internal/rag/vectorDB"
	"github.com/avikram/studybuddy/pkg/logger_i"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

type store struct {
	client     *qdrant.Client
	embedder   embedding.Embedder
	registry   *vectorDB.Registry
	collection string
}

// GetQdrantStore wires the Qdrant client, the document registry and the
// embedder into a vectorDB.Store. Returns nil when Qdrant is not
// reachable or the registry directory cannot be created.
func GetQdrantStore(ctx context.Context, embedder embedding.Embedder) vectorDB.Store {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}

	registry, err := vectorDB.LoadRegistry(config.PersistRoot())
	if err != nil {
		logger.Error("could not load document registry: ", "error:", err)
		return nil
	}

	return &store{
		client:     qdrantInstance,
		embedder:   embedder,
		registry:   registry,
		collection: config.CollectionName,
	}
}

func newClient() *qdrant.Client {
	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	err = createCollection(context.Background(), client, config.CollectionName)
	if err != nil {
		logger.Error("could not create collection: ", "collectionName", config.CollectionName, "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

// AddDocument replaces any previous copy of the document, embeds its
// chunks and upserts them as one batch. The registry is only updated
// after the upsert succeeds.
func (db *store) AddDocument(ctx context.Context, documentName string, fileType docModel.DocType, chunks []docModel.Chunk) error {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if len(chunks) == 0 {
		//nothing to embed, nothing to register
		return nil
	}

	if _, exists := db.registry.Get(documentName); exists {
		loggr.Info("Re-uploading document, removing previous copy", "document", documentName)
		if err := db.RemoveDocument(ctx, documentName); err != nil {
			return err
		}
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	start := time.Now()
	vectors, err := db.embedder.EmbedBatch(ctx, texts)
	metrics.CaptureExecutionMetrics("embed_batch", time.Since(start))
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("mismatch: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	chunkIDs := make([]string, len(chunks))
	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		chunkIDs[i] = uuid.NewString()
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunkIDs[i]),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":  chunk.Text,
				"page":     int64(chunk.Page),
				"doc_name": documentName,
			}),
		}
	}

	_, err = db.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}

	return db.registry.Put(documentName, docModel.DocumentRecord{
		ChunkCount: len(chunks),
		ChunkIDs:   chunkIDs,
		FileType:   fileType,
		IngestedAt: time.Now().UTC(),
	})
}

func (db *store) RemoveDocument(ctx context.Context, documentName string) error {
	record, ok := db.registry.Get(documentName)
	if !ok {
		return fmt.Errorf("%w: %s", ragErrors.ErrDocumentNotFound, documentName)
	}

	ids := make([]*qdrant.PointId, len(record.ChunkIDs))
	for i, id := range record.ChunkIDs {
		ids[i] = qdrant.NewID(id)
	}

	_, err := db.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: db.collection,
		Points:         qdrant.NewPointsSelector(ids...),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete failed: %w", err)
	}

	return db.registry.Remove(documentName)
}

// Query embeds the question and retrieves the k nearest chunks. Qdrant
// reports cosine similarity, the callers work in distance terms, so the
// score is flipped on the way out.
func (db *store) Query(ctx context.Context, question string, k int, documentFilter string) ([]docModel.QueryMatch, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	vector, err := db.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	query := &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if documentFilter != "" {
		query.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("doc_name", documentFilter),
			},
		}
	}

	start := time.Now()
	result, err := db.client.Query(ctx, query)
	metrics.CaptureExecutionMetrics("vector_query", time.Since(start))
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, fmt.Errorf("%w: %v", ragErrors.ErrBackendUnavailable, err)
	}

	matches := make([]docModel.QueryMatch, 0, len(result))
	for _, hit := range result {
		matches = append(matches, docModel.QueryMatch{
			Content:  hit.Payload["content"].GetStringValue(),
			Page:     int(hit.Payload["page"].GetIntegerValue()),
			Document: hit.Payload["doc_name"].GetStringValue(),
			Distance: float64(1 - hit.Score),
		})
	}

	loggr.Debug("Retrieved matches", "count", len(matches))
	return matches, nil
}

// Clear drops and recreates the collection, then resets the registry.
func (db *store) Clear(ctx context.Context) error {
	if err := db.client.DeleteCollection(ctx, db.collection); err != nil {
		return fmt.Errorf("qdrant collection delete failed: %w", err)
	}
	if err := createCollection(ctx, db.client, db.collection); err != nil {
		return fmt.Errorf("qdrant collection recreate failed: %w", err)
	}
	return db.registry.Clear()
}

func (db *store) Documents() []string {
	return db.registry.Documents()
}

func (db *store) DocumentInfo(documentName string) (docModel.DocumentRecord, bool) {
	return db.registry.Get(documentName)
}

func (db *store) ChunkCount() int {
	return db.registry.TotalChunks()
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	return err
}
