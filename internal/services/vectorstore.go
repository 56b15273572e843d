package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// VectorStoreService keeps one embedding per candidate profile so similar
// candidates can be found for a job. Upserts are keyed by resume ID, so
// re-scoring a candidate replaces the stored point instead of duplicating it.
type VectorStoreService interface {
	InitCollection() error
	UpsertProfile(ctx context.Context, resumeID uuid.UUID, candidateName string, embedding []float32) error
	SearchSimilarProfiles(ctx context.Context, embedding []float32, limit int) ([]ProfileMatch, error)
	DeleteProfile(ctx context.Context, resumeID uuid.UUID) error
}

type ProfileMatch struct {
	ResumeID      string
	CandidateName string
	Score         float32
}

type vectorStoreService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewVectorStoreService(urlStr, apiKey, collectionName string) (VectorStoreService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, not the REST one
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

	return &vectorStoreService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 dimension
	}, nil
}

func (v *vectorStoreService) InitCollection() error {
	ctx := context.Background()

	exists, err := v.client.CollectionExists(ctx, v.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = v.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: v.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     v.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

func (v *vectorStoreService) UpsertProfile(ctx context.Context, resumeID uuid.UUID, candidateName string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(resumeID.String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"resume_id":      resumeID.String(),
			"candidate_name": candidateName,
		}),
	}

	_, err := v.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: v.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert profile point: %w", err)
	}
	return nil
}

func (v *vectorStoreService) SearchSimilarProfiles(ctx context.Context, embedding []float32, limit int) ([]ProfileMatch, error) {
	points, err := v.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: v.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}

	matches := make([]ProfileMatch, 0, len(points))
	for _, point := range points {
		match := ProfileMatch{Score: point.Score}

		if id, ok := point.Payload["resume_id"]; ok {
			if val, ok := id.GetKind().(*qdrant.Value_StringValue); ok {
				match.ResumeID = val.StringValue
			}
		}
		if name, ok := point.Payload["candidate_name"]; ok {
			if val, ok := name.GetKind().(*qdrant.Value_StringValue); ok {
				match.CandidateName = val.StringValue
			}
		}

		matches = append(matches, match)
	}
	return matches, nil
}

func (v *vectorStoreService) DeleteProfile(ctx context.Context, resumeID uuid.UUID) error {
	_, err := v.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: v.collectionName,
		Points:         qdrant.NewPointsSelector(qdrant.NewIDUUID(resumeID.String())),
	})
	if err != nil {
		return fmt.Errorf("failed to delete profile point: %w", err)
	}
	return nil
}
