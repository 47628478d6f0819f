package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// DynamoDBAPI is the subset of the DynamoDB client the store uses.
// *dynamodb.Client satisfies it; tests substitute a fake.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store provides catalog operations over a single products table.
type Store struct {
	client DynamoDBAPI
	config Config
}

// New creates a new Store instance.
func New(client DynamoDBAPI, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// GetProduct retrieves a product by primary key, returning ErrNotFound if
// it does not exist. Exactly one read, no side effects.
func (s *Store) GetProduct(ctx context.Context, id string) (Product, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       productKey(id),
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}
	return unmarshalProduct(result.Item)
}

// CreateProduct stores a new product with a server-generated productId and
// createdAt == updatedAt set to now. The body is written as-is otherwise,
// unknown fields included. Repeating an identical request creates a second
// product under a fresh id.
func (s *Store) CreateProduct(ctx context.Context, body Product) (Product, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	stored := body.clone()
	stored[AttrProductID] = uuid.NewString()
	stored[AttrCreatedAt] = now
	stored[AttrUpdatedAt] = now

	item, err := attributevalue.MarshalMap(map[string]any(stored))
	if err != nil {
		return nil, fmt.Errorf("marshal product: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      item,
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// UpdateProduct merges the patch into the stored product and refreshes
// updatedAt, returning the item as written.
//
// Only name, category, brand and specifications can change, and only when
// the patch supplies a truthy value for them; everything else keeps its
// stored value. The existence check and the write are separate requests,
// so two concurrent updates can interleave and the later write wins. A
// delete racing between the two maps to ErrNotFound via the write condition.
func (s *Store) UpdateProduct(ctx context.Context, id string, patch Product) (Product, error) {
	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)

	var setClauses []string
	exprNames := map[string]string{
		"#updatedAt": AttrUpdatedAt,
	}
	exprValues := map[string]types.AttributeValue{
		":updatedAt": &types.AttributeValueMemberS{Value: now},
	}

	i := 0
	for _, attr := range mutableAttrs {
		merged := patch[attr]
		if !supplied(merged) {
			merged = existing[attr]
		}
		if merged == nil {
			// Never set on the stored item and not supplied now.
			continue
		}
		av, err := attributevalue.Marshal(merged)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", attr, err)
		}
		nameKey := fmt.Sprintf("#attr%d", i)
		valueKey := fmt.Sprintf(":val%d", i)
		exprNames[nameKey] = attr
		exprValues[valueKey] = av
		setClauses = append(setClauses, fmt.Sprintf("%s = %s", nameKey, valueKey))
		i++
	}

	setClauses = append(setClauses, "#updatedAt = :updatedAt")

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.config.TableName),
		Key:                       productKey(id),
		UpdateExpression:          aws.String("SET " + strings.Join(setClauses, ", ")),
		ConditionExpression:       aws.String("attribute_exists(" + AttrProductID + ")"),
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return unmarshalProduct(out.Attributes)
}

// DeleteProduct removes a product after confirming it exists. Deleting an
// id that was never written, or was already deleted, returns ErrNotFound.
// No tombstone is kept; a deleted product disappears from lists.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}

	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       productKey(id),
	})
	return err
}

// ListProducts returns one page of products, routed by filter priority:
// category via CategoryIndex, else brand via BrandIndex, else a table scan
// with an optional name substring filter. Both index paths order by name
// ascending (the index sort key).
func (s *Store) ListProducts(ctx context.Context, in ListInput) (*ListResult, error) {
	limit := in.Limit
	if limit < 1 {
		limit = s.config.DefaultLimit
	}

	switch {
	case in.Category != "":
		return s.queryIndex(ctx, s.config.CategoryIndex, AttrCategory, in.Category, limit, in.StartKey)
	case in.Brand != "":
		return s.queryIndex(ctx, s.config.BrandIndex, AttrBrand, in.Brand, limit, in.StartKey)
	default:
		return s.scanTable(ctx, in.NameContains, limit, in.StartKey)
	}
}

// queryIndex fetches one page from a GSI with an equality match on its
// partition key.
func (s *Store) queryIndex(ctx context.Context, index, attr, value string, limit int32, startKey PK) (*ListResult, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.config.TableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String(fmt.Sprintf("%s = :%s", attr, attr)),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":" + attr: &types.AttributeValueMemberS{Value: value},
		},
		Limit: aws.Int32(limit),
	}
	if len(startKey) > 0 {
		input.ExclusiveStartKey = startKey
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, err
	}
	return pageResult(out.Items, out.LastEvaluatedKey)
}

// scanTable fetches one page from the table itself. The contains() filter
// runs after the page is read, so a filtered page can come back short.
func (s *Store) scanTable(ctx context.Context, nameContains string, limit int32, startKey PK) (*ListResult, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.config.TableName),
		Limit:     aws.Int32(limit),
	}
	if nameContains != "" {
		// "name" is a DynamoDB reserved word.
		input.FilterExpression = aws.String("contains(#name, :name)")
		input.ExpressionAttributeNames = map[string]string{"#name": AttrName}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":name": &types.AttributeValueMemberS{Value: nameContains},
		}
	}
	if len(startKey) > 0 {
		input.ExclusiveStartKey = startKey
	}

	out, err := s.client.Scan(ctx, input)
	if err != nil {
		return nil, err
	}
	return pageResult(out.Items, out.LastEvaluatedKey)
}

// pageResult converts a page of raw items into a ListResult.
func pageResult(raw []map[string]types.AttributeValue, lastKey map[string]types.AttributeValue) (*ListResult, error) {
	items := make([]Product, 0, len(raw))
	for _, r := range raw {
		p, err := unmarshalProduct(r)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}

	res := &ListResult{Items: items, Count: len(items)}
	if len(lastKey) > 0 {
		res.LastKey = lastKey
	}
	return res, nil
}

// unmarshalProduct converts a raw DynamoDB item into a Product.
func unmarshalProduct(raw map[string]types.AttributeValue) (Product, error) {
	var p Product
	if err := attributevalue.UnmarshalMap(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return p, nil
}
