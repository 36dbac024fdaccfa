package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// DynamoStore is a DocumentStore over a single DynamoDB table. The partition
// key is the collection name and the sort key the document id; the document
// body travels as a JSON string attribute. Filters that DynamoDB cannot
// evaluate natively are applied client-side after the Query.
type DynamoStore struct {
	client *dynamodb.Client
	table  string
}

type dynamoItem struct {
	PK        string `dynamodbav:"pk"`
	SK        string `dynamodbav:"sk"`
	Data      string `dynamodbav:"data"`
	Timestamp int64  `dynamodbav:"timestamp"`
}

// NewDynamoStore loads AWS config and wraps the given table.
func NewDynamoStore(ctx context.Context, table, region, profile string) (*DynamoStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &DynamoStore{client: dynamodb.NewFromConfig(cfg), table: table}, nil
}

// NewDynamoStoreWithClient wraps an existing client. Used in tests.
func NewDynamoStoreWithClient(client *dynamodb.Client, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

// Insert stores the document, assigning an id when missing.
func (s *DynamoStore) Insert(ctx context.Context, collection string, doc interface{}) (string, error) {
	m, err := toMap(doc)
	if err != nil {
		return "", err
	}
	id := documentID(m)
	if id == "" {
		id = uuid.New().String()
		m["id"] = id
	}

	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshaling document: %w", err)
	}

	item, err := attributevalue.MarshalMap(dynamoItem{
		PK:        collection,
		SK:        id,
		Data:      string(data),
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("marshaling item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return "", fmt.Errorf("putting item: %w", err)
	}
	return id, nil
}

// Find returns all documents matching every filter. The collection is a
// single partition query; filters run client-side.
func (s *DynamoStore) Find(ctx context.Context, collection string, filters ...Filter) ([]json.RawMessage, error) {
	docs, err := s.queryCollection(ctx, collection)
	if err != nil {
		return nil, err
	}

	results := []json.RawMessage{}
	for _, doc := range docs {
		if matches(doc.parsed, filters) {
			results = append(results, doc.raw)
		}
	}
	return results, nil
}

// FindOne returns the first matching document or ErrNotFound.
func (s *DynamoStore) FindOne(ctx context.Context, collection string, filters ...Filter) (json.RawMessage, error) {
	docs, err := s.queryCollection(ctx, collection)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if matches(doc.parsed, filters) {
			return doc.raw, nil
		}
	}
	return nil, ErrNotFound
}

// Update replaces every matching document wholesale.
func (s *DynamoStore) Update(ctx context.Context, collection string, doc interface{}, filters ...Filter) (int, error) {
	replacement, err := toMap(doc)
	if err != nil {
		return 0, err
	}

	docs, err := s.queryCollection(ctx, collection)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, existing := range docs {
		if !matches(existing.parsed, filters) {
			continue
		}
		clone := make(map[string]interface{}, len(replacement)+1)
		for k, v := range replacement {
			clone[k] = v
		}
		// Keep the stable id when the replacement doesn't carry one.
		if documentID(clone) == "" {
			clone["id"] = existing.id
		}
		data, err := json.Marshal(clone)
		if err != nil {
			return count, fmt.Errorf("marshaling document: %w", err)
		}
		item, err := attributevalue.MarshalMap(dynamoItem{
			PK:        collection,
			SK:        existing.id,
			Data:      string(data),
			Timestamp: time.Now().Unix(),
		})
		if err != nil {
			return count, fmt.Errorf("marshaling item: %w", err)
		}
		_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(s.table),
			Item:      item,
		})
		if err != nil {
			return count, fmt.Errorf("putting item: %w", err)
		}
		count++
	}
	return count, nil
}

// Delete removes matching documents.
func (s *DynamoStore) Delete(ctx context.Context, collection string, filters ...Filter) (int, error) {
	docs, err := s.queryCollection(ctx, collection)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, existing := range docs {
		if !matches(existing.parsed, filters) {
			continue
		}
		_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.table),
			Key: map[string]types.AttributeValue{
				"pk": &types.AttributeValueMemberS{Value: collection},
				"sk": &types.AttributeValueMemberS{Value: existing.id},
			},
		})
		if err != nil {
			return count, fmt.Errorf("deleting item: %w", err)
		}
		count++
	}
	return count, nil
}

// Close is a no-op; the AWS client carries no connection state to release.
func (s *DynamoStore) Close() error { return nil }

type dynamoDoc struct {
	id     string
	raw    json.RawMessage
	parsed map[string]interface{}
}

func (s *DynamoStore) queryCollection(ctx context.Context, collection string) ([]dynamoDoc, error) {
	var docs []dynamoDoc
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.table),
			KeyConditionExpression: aws.String("pk = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: collection},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("querying collection %s: %w", collection, err)
		}

		for _, item := range out.Items {
			var di dynamoItem
			if err := attributevalue.UnmarshalMap(item, &di); err != nil {
				return nil, fmt.Errorf("unmarshaling item: %w", err)
			}
			var parsed map[string]interface{}
			if err := json.Unmarshal([]byte(di.Data), &parsed); err != nil {
				return nil, fmt.Errorf("parsing document %s: %w", di.SK, err)
			}
			docs = append(docs, dynamoDoc{id: di.SK, raw: json.RawMessage(di.Data), parsed: parsed})
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return docs, nil
}
