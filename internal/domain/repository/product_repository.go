package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prephub/internal/common"
	"prephub/internal/domain/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type ProductRepository interface {
	Put(ctx context.Context, product *model.TechProduct) error
	FindByID(ctx context.Context, productID string) (*model.TechProduct, error)
	FindAll(ctx context.Context) ([]model.TechProduct, error)
	FindByCategory(ctx context.Context, category string) ([]model.TechProduct, error)
	// Search matches products whose name or brand contains the term.
	// The match is case-sensitive.
	Search(ctx context.Context, term string) ([]model.TechProduct, error)
	// Update merges only the supplied attributes into the stored record and
	// returns the record after the write. Unknown ids return common.ErrNotFound.
	Update(ctx context.Context, productID string, updates map[string]interface{}) (*model.TechProduct, error)
	// Page returns one forward page of the product scan. startKey is the
	// productId of the last item of the previous page, or empty for the first.
	Page(ctx context.Context, limit int32, startKey string) (*model.ProductPage, error)
	Delete(ctx context.Context, productID string) error
}

type dynamoProductRepository struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoProductRepository(client *dynamodb.Client, table string) ProductRepository {
	return &dynamoProductRepository{client: client, table: table}
}

func (r *dynamoProductRepository) Put(ctx context.Context, product *model.TechProduct) error {
	item, err := attributevalue.MarshalMap(product)
	if err != nil {
		return fmt.Errorf("dynamoProductRepository.Put marshal: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamoProductRepository.Put: %w", err)
	}
	return nil
}

func (r *dynamoProductRepository) FindByID(ctx context.Context, productID string) (*model.TechProduct, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"productId": &types.AttributeValueMemberS{Value: productID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamoProductRepository.FindByID: %w", err)
	}
	if out.Item == nil {
		return nil, common.ErrNotFound
	}

	product := &model.TechProduct{}
	if err := attributevalue.UnmarshalMap(out.Item, product); err != nil {
		return nil, fmt.Errorf("dynamoProductRepository.FindByID unmarshal: %w", err)
	}
	return product, nil
}

func (r *dynamoProductRepository) FindAll(ctx context.Context) ([]model.TechProduct, error) {
	return r.scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.table)})
}

func (r *dynamoProductRepository) FindByCategory(ctx context.Context, category string) ([]model.TechProduct, error) {
	return r.scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.table),
		FilterExpression: aws.String("category = :category"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":category": &types.AttributeValueMemberS{Value: category},
		},
	})
}

func (r *dynamoProductRepository) Search(ctx context.Context, term string) ([]model.TechProduct, error) {
	return r.scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.table),
		FilterExpression: aws.String("contains(#name, :term) OR contains(#brand, :term)"),
		ExpressionAttributeNames: map[string]string{
			"#name":  "name",
			"#brand": "brand",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":term": &types.AttributeValueMemberS{Value: term},
		},
	})
}

func (r *dynamoProductRepository) scan(ctx context.Context, input *dynamodb.ScanInput) ([]model.TechProduct, error) {
	products := []model.TechProduct{}
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamoProductRepository.scan: %w", err)
		}
		page := []model.TechProduct{}
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("dynamoProductRepository.scan unmarshal: %w", err)
		}
		products = append(products, page...)
	}
	return products, nil
}

func (r *dynamoProductRepository) Update(ctx context.Context, productID string, updates map[string]interface{}) (*model.TechProduct, error) {
	updates["updatedAt"] = time.Now().UTC()

	setExpressions := make([]string, 0, len(updates))
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	i := 0
	for key, value := range updates {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("dynamoProductRepository.Update marshal %q: %w", key, err)
		}
		namePlaceholder := fmt.Sprintf("#attr%d", i)
		valuePlaceholder := fmt.Sprintf(":val%d", i)
		setExpressions = append(setExpressions, namePlaceholder+" = "+valuePlaceholder)
		names[namePlaceholder] = key
		values[valuePlaceholder] = av
		i++
	}

	updateExpression := "SET " + setExpressions[0]
	for _, expr := range setExpressions[1:] {
		updateExpression += ", " + expr
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"productId": &types.AttributeValueMemberS{Value: productID},
		},
		UpdateExpression:          aws.String(updateExpression),
		ConditionExpression:       aws.String("attribute_exists(productId)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("dynamoProductRepository.Update: %w", err)
	}

	product := &model.TechProduct{}
	if err := attributevalue.UnmarshalMap(out.Attributes, product); err != nil {
		return nil, fmt.Errorf("dynamoProductRepository.Update unmarshal: %w", err)
	}
	return product, nil
}

func (r *dynamoProductRepository) Page(ctx context.Context, limit int32, startKey string) (*model.ProductPage, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.table),
		Limit:     aws.Int32(limit),
	}
	if startKey != "" {
		input.ExclusiveStartKey = map[string]types.AttributeValue{
			"productId": &types.AttributeValueMemberS{Value: startKey},
		}
	}

	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("dynamoProductRepository.Page: %w", err)
	}

	items := []model.TechProduct{}
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("dynamoProductRepository.Page unmarshal: %w", err)
	}

	page := &model.ProductPage{Items: items}
	if last, ok := out.LastEvaluatedKey["productId"]; ok {
		if s, ok := last.(*types.AttributeValueMemberS); ok {
			page.LastEvaluatedKey = s.Value
			page.HasMore = true
		}
	}
	return page, nil
}

func (r *dynamoProductRepository) Delete(ctx context.Context, productID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"productId": &types.AttributeValueMemberS{Value: productID},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamoProductRepository.Delete: %w", err)
	}
	return nil
}
