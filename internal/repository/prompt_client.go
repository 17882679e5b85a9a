package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"genai-camera/internal/domain"
)

// selectionKey is the util table item holding the selected prompt id. The
// analyzer reads the same item.
const selectionKey = "prompt_id"

// PromptClient manages prompt templates and the selected-prompt pointer.
type PromptClient struct {
	api         dynamodbAPI
	promptTable string
	utilTable   string
}

// NewPromptClient creates a PromptClient over the prompt and util tables.
func NewPromptClient(api dynamodbAPI, promptTable, utilTable string) (*PromptClient, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(promptTable) == "" {
		return nil, errors.New("repository: prompt table name must not be empty")
	}
	if strings.TrimSpace(utilTable) == "" {
		return nil, errors.New("repository: util table name must not be empty")
	}
	return &PromptClient{api: api, promptTable: promptTable, utilTable: utilTable}, nil
}

// List scans every prompt template, ordered by id.
func (c *PromptClient) List(ctx context.Context) ([]domain.Prompt, error) {
	prompts := []domain.Prompt{}
	p := dynamodb.NewScanPaginator(c.api, &dynamodb.ScanInput{
		TableName: aws.String(c.promptTable),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("repository: List scan: %w", err)
		}
		var batch []domain.Prompt
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("repository: List unmarshal: %w", err)
		}
		prompts = append(prompts, batch...)
	}
	sort.Slice(prompts, func(i, j int) bool { return prompts[i].ID < prompts[j].ID })
	return prompts, nil
}

// UpdateText overwrites the text of a prompt, creating it if it does not exist.
func (c *PromptClient) UpdateText(ctx context.Context, id, text string) error {
	_, err := c.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(c.promptTable),
		Key: map[string]types.AttributeValue{
			"id": strValue(id),
		},
		UpdateExpression: aws.String("SET #prompt = :prompt"),
		ExpressionAttributeNames: map[string]string{
			"#prompt": "prompt",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":prompt": strValue(text),
		},
	})
	if err != nil {
		return fmt.Errorf("repository: UpdateText %q: %w", id, err)
	}
	return nil
}

// Selection returns the selected prompt id. found is false when no selection
// has been stored yet.
func (c *PromptClient) Selection(ctx context.Context) (id string, found bool, err error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.utilTable),
		Key: map[string]types.AttributeValue{
			"id": strValue(selectionKey),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", false, fmt.Errorf("repository: Selection get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return "", false, nil
	}
	id, err = strAttr(out.Item, selectionKey)
	if err != nil {
		return "", false, fmt.Errorf("repository: Selection decode: %w", err)
	}
	return id, true, nil
}

// Select overwrites the selected prompt id. Last writer wins.
func (c *PromptClient) Select(ctx context.Context, id string) error {
	_, err := c.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(c.utilTable),
		Key: map[string]types.AttributeValue{
			"id": strValue(selectionKey),
		},
		UpdateExpression: aws.String("SET #sel = :sel"),
		ExpressionAttributeNames: map[string]string{
			"#sel": selectionKey,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sel": strValue(id),
		},
	})
	if err != nil {
		return fmt.Errorf("repository: Select %q: %w", id, err)
	}
	return nil
}

// CreateIfAbsent writes a prompt only when no prompt with the same id exists.
// created reports whether the write happened.
func (c *PromptClient) CreateIfAbsent(ctx context.Context, p domain.Prompt) (created bool, err error) {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return false, fmt.Errorf("repository: CreateIfAbsent marshal: %w", err)
	}
	return c.putIfAbsent(ctx, c.promptTable, item)
}

// InitSelection stores id as the selected prompt unless a selection exists.
func (c *PromptClient) InitSelection(ctx context.Context, id string) (created bool, err error) {
	return c.putIfAbsent(ctx, c.utilTable, map[string]types.AttributeValue{
		"id":         strValue(selectionKey),
		selectionKey: strValue(id),
	})
}

func (c *PromptClient) putIfAbsent(ctx context.Context, table string, item map[string]types.AttributeValue) (bool, error) {
	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return false, nil
		}
		return false, fmt.Errorf("repository: put if absent into %s: %w", table, err)
	}
	return true, nil
}
