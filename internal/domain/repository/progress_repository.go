package repository

import (
	"context"
	"errors"
	"fmt"

	"prephub/internal/common"
	"prephub/internal/domain/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type ProgressRepository interface {
	Find(ctx context.Context, userID string) (*model.UserProgress, error)
	// Put persists the full record with a conditional write: expectedVersion 0
	// requires that no record exists yet, any other value must match the
	// stored version attribute. A failed condition returns common.ErrConflict.
	Put(ctx context.Context, progress *model.UserProgress, expectedVersion int64) error
	FindAll(ctx context.Context) ([]model.UserProgress, error)
}

type dynamoProgressRepository struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoProgressRepository(client *dynamodb.Client, table string) ProgressRepository {
	return &dynamoProgressRepository{client: client, table: table}
}

func (r *dynamoProgressRepository) Find(ctx context.Context, userID string) (*model.UserProgress, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamoProgressRepository.Find: %w", err)
	}
	if out.Item == nil {
		return nil, common.ErrNotFound
	}

	progress := &model.UserProgress{}
	if err := attributevalue.UnmarshalMap(out.Item, progress); err != nil {
		return nil, fmt.Errorf("dynamoProgressRepository.Find unmarshal: %w", err)
	}
	return progress, nil
}

func (r *dynamoProgressRepository) Put(ctx context.Context, progress *model.UserProgress, expectedVersion int64) error {
	progress.Version = expectedVersion + 1
	item, err := attributevalue.MarshalMap(progress)
	if err != nil {
		return fmt.Errorf("dynamoProgressRepository.Put marshal: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	}
	if expectedVersion == 0 {
		input.ConditionExpression = aws.String("attribute_not_exists(userId)")
	} else {
		input.ConditionExpression = aws.String("version = :expected")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedVersion)},
		}
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("progress record was modified concurrently: %w", common.ErrConflict)
		}
		return fmt.Errorf("dynamoProgressRepository.Put: %w", err)
	}
	return nil
}

func (r *dynamoProgressRepository) FindAll(ctx context.Context) ([]model.UserProgress, error) {
	records := []model.UserProgress{}
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamoProgressRepository.FindAll: %w", err)
		}
		page := []model.UserProgress{}
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("dynamoProgressRepository.FindAll unmarshal: %w", err)
		}
		records = append(records, page...)
	}
	return records, nil
}
