package store

import (
	"context"
	"fmt"
	"time"

	"cropyield/internal/domain/entity"
	"cropyield/internal/logging"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// QdrantStore indexes predictions by their transformed feature vector so the
// closest earlier requests can be shown next to a new prediction.
type QdrantStore struct {
	client         *qdrant.Client
	collectionName string
}

func NewQdrantStore(client *qdrant.Client, collectionName string) *QdrantStore {
	return &QdrantStore{
		client:         client,
		collectionName: collectionName,
	}
}

func (s *QdrantStore) InitCollection(ctx context.Context, dim uint64) error {
	_, err := s.client.GetCollectionInfo(ctx, s.collectionName)
	if err != nil {
		st, ok := status.FromError(err)
		if ok && st.Code() == codes.NotFound {
			err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
				CollectionName: s.collectionName,
				VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
					Size:     dim,
					Distance: qdrant.Distance_Euclid,
				}),
			})
			if err != nil {
				return fmt.Errorf("failed to create collection: %w", err)
			}
		} else {
			return err
		}
	}

	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collectionName,
		FieldName:      "created_at",
		FieldType:      qdrant.FieldType_FieldTypeInteger.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		// Already exists on every start after the first.
		logging.GetLogger().WithError(err).Debug("[QDRANT] Could not create created_at index")
	}

	return nil
}

func (s *QdrantStore) Search(ctx context.Context, vector []float32, limit uint64) ([]entity.SimilarPrediction, error) {
	res, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(limit),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	out := make([]entity.SimilarPrediction, 0, len(res))
	for _, hit := range res {
		payload := hit.Payload
		out = append(out, entity.SimilarPrediction{
			Input: entity.CropInput{
				Year:            int(payload["year"].GetIntegerValue()),
				AverageRainfall: payload["average_rain_fall_mm_per_year"].GetDoubleValue(),
				Pesticides:      payload["pesticides_tonnes"].GetDoubleValue(),
				AvgTemp:         payload["avg_temp"].GetDoubleValue(),
				Area:            payload["area"].GetStringValue(),
				Item:            payload["item"].GetStringValue(),
			},
			Value: payload["predicted_value"].GetDoubleValue(),
			Score: hit.Score,
		})
	}
	return out, nil
}

func (s *QdrantStore) Save(ctx context.Context, p *entity.Prediction, vector []float32) error {
	payload := predictionPayload(p)
	payload["created_at"] = time.Now().Unix()

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDUUID(p.ID),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(payload),
			},
		},
	})
	return err
}

func predictionPayload(p *entity.Prediction) map[string]any {
	return map[string]any{
		"year":                          int64(p.Input.Year),
		"average_rain_fall_mm_per_year": p.Input.AverageRainfall,
		"pesticides_tonnes":             p.Input.Pesticides,
		"avg_temp":                      p.Input.AvgTemp,
		"area":                          p.Input.Area,
		"item":                          p.Input.Item,
		"predicted_value":               p.Value,
		"source":                        p.Source,
	}
}
