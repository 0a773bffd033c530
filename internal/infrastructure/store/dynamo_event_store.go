package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

const (
	dynamoAllEventsIndex = "GSI1"      // gsi1pk = "EVENTS", sort key created_at
	dynamoTypeIndex      = "TypeIndex" // aggregate_type, sort key created_at
	dynamoAllEventsKey   = "EVENTS"
)

// DynamoEventStore stores events in DynamoDB, keyed by stream_id and version.
// stream_id is StreamKey(aggregate_type, aggregate_id).
type DynamoEventStore struct {
	client            *dynamodb.Client
	tableName         string
	snapshotTableName string
	publisher         Publisher
}

// dynamoEvent represents the DynamoDB item structure
type dynamoEvent struct {
	StreamID      string `dynamodbav:"stream_id"`
	AggregateID   string `dynamodbav:"aggregate_id"`
	Version       int    `dynamodbav:"version"`
	ID            string `dynamodbav:"id"`
	AggregateType string `dynamodbav:"aggregate_type"`
	EventType     string `dynamodbav:"event_type"`
	Data          string `dynamodbav:"data"`
	CreatedAt     string `dynamodbav:"created_at"`
	GSI1PK        string `dynamodbav:"gsi1pk"`
}

// dynamoSnapshot is stored in a separate table with stream_id as partition key
type dynamoSnapshot struct {
	StreamID      string `dynamodbav:"stream_id"`
	AggregateID   string `dynamodbav:"aggregate_id"`
	AggregateType string `dynamodbav:"aggregate_type"`
	Version       int    `dynamodbav:"version"`
	State         string `dynamodbav:"state"`
	CreatedAt     string `dynamodbav:"created_at"`
}

// NewDynamoClient loads the default AWS configuration; endpoint overrides the
// service URL (DynamoDB Local).
func NewDynamoClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func NewDynamoEventStore(client *dynamodb.Client, tableName, snapshotTableName string, publisher Publisher) *DynamoEventStore {
	return &DynamoEventStore{
		client:            client,
		tableName:         tableName,
		snapshotTableName: snapshotTableName,
		publisher:         publisher,
	}
}

// Append stores an event in DynamoDB and publishes it
func (es *DynamoEventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	streamID := StreamKey(aggregateType, aggregateID)
	version, err := es.getNextVersion(ctx, streamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get next version: %w", err)
	}

	event := Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       version,
	}

	av, err := attributevalue.MarshalMap(dynamoEvent{
		StreamID:      streamID,
		AggregateID:   aggregateID,
		Version:       version,
		ID:            event.ID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          string(jsonData),
		CreatedAt:     event.Timestamp.Format(time.RFC3339Nano),
		GSI1PK:        dynamoAllEventsKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	// Conditional write: a concurrent writer holding the same version loses
	_, err = es.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(es.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(stream_id) AND attribute_not_exists(version)"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put event: %w", err)
	}

	if es.publisher != nil {
		if err := es.publisher.Publish(ctx, aggregateID, event); err != nil {
			return nil, err
		}
	}

	return &event, nil
}

func (es *DynamoEventStore) getNextVersion(ctx context.Context, streamID string) (int, error) {
	result, err := es.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(es.tableName),
		KeyConditionExpression: aws.String("stream_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: streamID},
		},
		ScanIndexForward:     aws.Bool(false),
		Limit:                aws.Int32(1),
		ProjectionExpression: aws.String("version"),
	})
	if err != nil {
		return 0, err
	}
	if len(result.Items) == 0 {
		return 1, nil
	}

	var item struct {
		Version int `dynamodbav:"version"`
	}
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return 0, err
	}
	return item.Version + 1, nil
}

// GetEvents returns all events for an aggregate ordered by version
func (es *DynamoEventStore) GetEvents(aggregateType, aggregateID string) []Event {
	return es.queryAll(context.Background(), &dynamodb.QueryInput{
		TableName:              aws.String(es.tableName),
		KeyConditionExpression: aws.String("stream_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: StreamKey(aggregateType, aggregateID)},
		},
		ScanIndexForward: aws.Bool(true),
	})
}

// GetAllEvents returns every event through GSI1, ordered by created_at
func (es *DynamoEventStore) GetAllEvents() []Event {
	return es.queryAll(context.Background(), &dynamodb.QueryInput{
		TableName:              aws.String(es.tableName),
		IndexName:              aws.String(dynamoAllEventsIndex),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: dynamoAllEventsKey},
		},
		ScanIndexForward: aws.Bool(true),
	})
}

// GetEventsByType returns the events of one aggregate type through TypeIndex
func (es *DynamoEventStore) GetEventsByType(aggregateType string) []Event {
	return es.queryAll(context.Background(), &dynamodb.QueryInput{
		TableName:              aws.String(es.tableName),
		IndexName:              aws.String(dynamoTypeIndex),
		KeyConditionExpression: aws.String("aggregate_type = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: aggregateType},
		},
		ScanIndexForward: aws.Bool(true),
	})
}

// GetEventsFromVersion returns events for an aggregate newer than fromVersion
func (es *DynamoEventStore) GetEventsFromVersion(ctx context.Context, aggregateType, aggregateID string, fromVersion int) []Event {
	return es.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(es.tableName),
		KeyConditionExpression: aws.String("stream_id = :sid AND version > :ver"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: StreamKey(aggregateType, aggregateID)},
			":ver": &types.AttributeValueMemberN{Value: strconv.Itoa(fromVersion)},
		},
		ScanIndexForward: aws.Bool(true),
	})
}

// queryAll follows LastEvaluatedKey until the result set is exhausted
func (es *DynamoEventStore) queryAll(ctx context.Context, input *dynamodb.QueryInput) []Event {
	var events []Event
	for {
		result, err := es.client.Query(ctx, input)
		if err != nil {
			return events
		}
		events = append(events, unmarshalDynamoEvents(result.Items)...)
		if len(result.LastEvaluatedKey) == 0 {
			return events
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

func unmarshalDynamoEvents(items []map[string]types.AttributeValue) []Event {
	events := make([]Event, 0, len(items))
	for _, item := range items {
		var de dynamoEvent
		if err := attributevalue.UnmarshalMap(item, &de); err != nil {
			continue
		}
		timestamp, _ := time.Parse(time.RFC3339Nano, de.CreatedAt)
		events = append(events, Event{
			ID:            de.ID,
			AggregateID:   de.AggregateID,
			AggregateType: de.AggregateType,
			EventType:     de.EventType,
			Data:          json.RawMessage(de.Data),
			Timestamp:     timestamp,
			Version:       de.Version,
		})
	}
	return events
}

// SaveSnapshot overwrites the snapshot of an aggregate
func (es *DynamoEventStore) SaveSnapshot(ctx context.Context, snapshot *Snapshot) error {
	av, err := attributevalue.MarshalMap(dynamoSnapshot{
		StreamID:      StreamKey(snapshot.AggregateType, snapshot.AggregateID),
		AggregateID:   snapshot.AggregateID,
		AggregateType: snapshot.AggregateType,
		Version:       snapshot.Version,
		State:         string(snapshot.State),
		CreatedAt:     snapshot.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = es.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(es.snapshotTableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put snapshot: %w", err)
	}
	return nil
}

// GetSnapshot retrieves the snapshot of an aggregate, or nil
func (es *DynamoEventStore) GetSnapshot(ctx context.Context, aggregateType, aggregateID string) (*Snapshot, error) {
	result, err := es.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(es.snapshotTableName),
		Key: map[string]types.AttributeValue{
			"stream_id": &types.AttributeValueMemberS{Value: StreamKey(aggregateType, aggregateID)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var ds dynamoSnapshot
	if err := attributevalue.UnmarshalMap(result.Item, &ds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, ds.CreatedAt)

	return &Snapshot{
		AggregateID:   ds.AggregateID,
		AggregateType: ds.AggregateType,
		Version:       ds.Version,
		State:         json.RawMessage(ds.State),
		CreatedAt:     createdAt,
	}, nil
}
