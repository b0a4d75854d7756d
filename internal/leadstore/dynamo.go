package leadstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/growthops/lead-intake/pkg/logging"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// leadItem is the persisted DynamoDB shape: payload blob plus queryable
// metadata attributes, expired by the table's TTL on expiresAt.
type leadItem struct {
	ID        string `dynamodbav:"id"`
	Payload   string `dynamodbav:"payload"`
	Email     string `dynamodbav:"email"`
	Company   string `dynamodbav:"company"`
	CreatedAt string `dynamodbav:"createdAt"`
	ExpiresAt int64  `dynamodbav:"expiresAt"`
}

// DynamoStore persists leads to a DynamoDB table.
type DynamoStore struct {
	client    dynamoAPI
	tableName string
	tracer    trace.Tracer
	logger    *logging.Logger
}

var _ Store = (*DynamoStore)(nil)

// NewDynamoStore builds a store backed by the provided DynamoDB client.
func NewDynamoStore(client dynamoAPI, tableName string, logger *logging.Logger) *DynamoStore {
	if client == nil {
		panic("leadstore: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("leadstore: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		tracer:    otel.Tracer("leadintake.internal.leadstore.dynamo"),
		logger:    logger,
	}
}

// Save inserts the lead item guarded by attribute_not_exists, mapping a
// conditional-check failure to ErrDuplicateID.
func (s *DynamoStore) Save(ctx context.Context, rec Record) error {
	if s == nil || s.client == nil {
		return nil
	}
	ctx, span := s.tracer.Start(ctx, "leadstore.dynamo_save")
	defer span.End()

	item, err := attributevalue.MarshalMap(leadItem{
		ID:        rec.ID,
		Payload:   string(rec.Payload),
		Email:     rec.Email,
		Company:   rec.Company,
		CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
		ExpiresAt: rec.CreatedAt.Add(LeadTTL).Unix(),
	})
	if err != nil {
		return fmt.Errorf("leadstore: failed to marshal lead: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrDuplicateID
		}
		span.RecordError(err)
		return fmt.Errorf("leadstore: failed to persist lead: %w", err)
	}
	return nil
}
