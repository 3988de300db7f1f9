package repository

import (
	"context"
	"fmt"

	"prephub/internal/common"
	"prephub/internal/domain/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// Put writes the full record, creating or overwriting.
	Put(ctx context.Context, user *model.User) error
	// Any reports whether at least one user record exists. It is a bounded
	// probe, not a count.
	Any(ctx context.Context) (bool, error)
}

type dynamoUserRepository struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoUserRepository(client *dynamodb.Client, table string) UserRepository {
	return &dynamoUserRepository{client: client, table: table}
}

func (r *dynamoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamoUserRepository.FindByEmail: %w", err)
	}
	if out.Item == nil {
		return nil, common.ErrNotFound
	}

	user := &model.User{}
	if err := attributevalue.UnmarshalMap(out.Item, user); err != nil {
		return nil, fmt.Errorf("dynamoUserRepository.FindByEmail unmarshal: %w", err)
	}
	return user, nil
}

func (r *dynamoUserRepository) Put(ctx context.Context, user *model.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("dynamoUserRepository.Put marshal: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamoUserRepository.Put: %w", err)
	}
	return nil
}

func (r *dynamoUserRepository) Any(ctx context.Context) (bool, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
		Limit:     aws.Int32(1),
		Select:    types.SelectCount,
	})
	if err != nil {
		return false, fmt.Errorf("dynamoUserRepository.Any: %w", err)
	}
	return out.Count > 0, nil
}
