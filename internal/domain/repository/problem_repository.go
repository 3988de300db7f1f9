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

type ProblemRepository interface {
	Put(ctx context.Context, problem *model.Problem) error
	FindByID(ctx context.Context, problemID string) (*model.Problem, error)
	FindAll(ctx context.Context) ([]model.Problem, error)
	FindByLevel(ctx context.Context, level string) ([]model.Problem, error)
	Delete(ctx context.Context, problemID string) error
}

type dynamoProblemRepository struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoProblemRepository(client *dynamodb.Client, table string) ProblemRepository {
	return &dynamoProblemRepository{client: client, table: table}
}

func (r *dynamoProblemRepository) Put(ctx context.Context, problem *model.Problem) error {
	item, err := attributevalue.MarshalMap(problem)
	if err != nil {
		return fmt.Errorf("dynamoProblemRepository.Put marshal: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamoProblemRepository.Put: %w", err)
	}
	return nil
}

func (r *dynamoProblemRepository) FindByID(ctx context.Context, problemID string) (*model.Problem, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"problemId": &types.AttributeValueMemberS{Value: problemID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamoProblemRepository.FindByID: %w", err)
	}
	if out.Item == nil {
		return nil, common.ErrNotFound
	}

	problem := &model.Problem{}
	if err := attributevalue.UnmarshalMap(out.Item, problem); err != nil {
		return nil, fmt.Errorf("dynamoProblemRepository.FindByID unmarshal: %w", err)
	}
	return problem, nil
}

func (r *dynamoProblemRepository) FindAll(ctx context.Context) ([]model.Problem, error) {
	return r.scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.table)})
}

func (r *dynamoProblemRepository) FindByLevel(ctx context.Context, level string) ([]model.Problem, error) {
	// "level" is a reserved word in DynamoDB expressions.
	return r.scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.table),
		FilterExpression: aws.String("#level = :level"),
		ExpressionAttributeNames: map[string]string{
			"#level": "level",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":level": &types.AttributeValueMemberS{Value: level},
		},
	})
}

func (r *dynamoProblemRepository) scan(ctx context.Context, input *dynamodb.ScanInput) ([]model.Problem, error) {
	problems := []model.Problem{}
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamoProblemRepository.scan: %w", err)
		}
		page := []model.Problem{}
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("dynamoProblemRepository.scan unmarshal: %w", err)
		}
		problems = append(problems, page...)
	}
	return problems, nil
}

func (r *dynamoProblemRepository) Delete(ctx context.Context, problemID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"problemId": &types.AttributeValueMemberS{Value: problemID},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamoProblemRepository.Delete: %w", err)
	}
	return nil
}
