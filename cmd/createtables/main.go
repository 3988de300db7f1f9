package main

import (
	"context"
	"errors"
	"log"
	"time"

	"prephub/internal/platform/config"
	"prephub/internal/platform/database"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// One-shot provisioning for the four document collections. Existing tables
// are left untouched.
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Could not initialize DynamoDB client: %v", err)
	}

	tables := []dynamodb.CreateTableInput{
		{
			TableName: aws.String(cfg.UsersTable),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("email"), KeyType: types.KeyTypeHash},
			},
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("email"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("userId"), AttributeType: types.ScalarAttributeTypeS},
			},
			GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
				{
					IndexName: aws.String("UserIdIndex"),
					KeySchema: []types.KeySchemaElement{
						{AttributeName: aws.String("userId"), KeyType: types.KeyTypeHash},
					},
					Projection:            &types.Projection{ProjectionType: types.ProjectionTypeAll},
					ProvisionedThroughput: throughput(),
				},
			},
			ProvisionedThroughput: throughput(),
		},
		{
			TableName: aws.String(cfg.ProblemsTable),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("problemId"), KeyType: types.KeyTypeHash},
			},
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("problemId"), AttributeType: types.ScalarAttributeTypeS},
			},
			ProvisionedThroughput: throughput(),
		},
		{
			TableName: aws.String(cfg.ProgressTable),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("userId"), KeyType: types.KeyTypeHash},
			},
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("userId"), AttributeType: types.ScalarAttributeTypeS},
			},
			ProvisionedThroughput: throughput(),
		},
		{
			TableName: aws.String(cfg.TechProductsTable),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("productId"), KeyType: types.KeyTypeHash},
			},
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("productId"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("category"), AttributeType: types.ScalarAttributeTypeS},
			},
			GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
				{
					IndexName: aws.String("CategoryIndex"),
					KeySchema: []types.KeySchemaElement{
						{AttributeName: aws.String("category"), KeyType: types.KeyTypeHash},
					},
					Projection:            &types.Projection{ProjectionType: types.ProjectionTypeAll},
					ProvisionedThroughput: throughput(),
				},
			},
			ProvisionedThroughput: throughput(),
		},
	}

	for i := range tables {
		createTable(ctx, client, &tables[i])
	}
	log.Println("All tables ready.")
}

func createTable(ctx context.Context, client *dynamodb.Client, input *dynamodb.CreateTableInput) {
	name := aws.ToString(input.TableName)

	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: input.TableName})
	if err == nil {
		log.Printf("Table %q already exists", name)
		return
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		log.Fatalf("Could not describe table %q: %v", name, err)
	}

	if _, err := client.CreateTable(ctx, input); err != nil {
		log.Fatalf("Could not create table %q: %v", name, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: input.TableName}, 2*time.Minute); err != nil {
		log.Fatalf("Table %q did not become active: %v", name, err)
	}
	log.Printf("Table %q created", name)
}

func throughput() *types.ProvisionedThroughput {
	return &types.ProvisionedThroughput{
		ReadCapacityUnits:  aws.Int64(5),
		WriteCapacityUnits: aws.Int64(5),
	}
}
