package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"genai-camera/internal/domain"
)

const (
	// DefaultCaptionPartition is the fixed partition the analyzer writes to.
	DefaultCaptionPartition = "1"

	attrLabels = "rekognition_labels"
)

var pythonLiteral = regexp.MustCompile(`\b(True|False|None)\b`)

// CaptionClient reads classification records from the captions table.
type CaptionClient struct {
	api       dynamodbAPI
	tableName string
	partition string
}

// NewCaptionClient creates a CaptionClient. An empty partition falls back to
// DefaultCaptionPartition.
func NewCaptionClient(api dynamodbAPI, tableName, partition string) (*CaptionClient, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: caption table name must not be empty")
	}
	partition = strings.TrimSpace(partition)
	if partition == "" {
		partition = DefaultCaptionPartition
	}
	return &CaptionClient{api: api, tableName: tableName, partition: partition}, nil
}

// Latest returns the newest classification record. found is false when the
// partition holds no records yet.
func (c *CaptionClient) Latest(ctx context.Context) (rec domain.Classification, found bool, err error) {
	out, err := c.api.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("#id = :id"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": strValue(c.partition),
		},
		// Sort keys are timestamps; newest first.
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return domain.Classification{}, false, fmt.Errorf("repository: Latest query: %w", err)
	}
	if out == nil || len(out.Items) == 0 {
		return domain.Classification{}, false, nil
	}

	item := out.Items[0]
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return domain.Classification{}, false, fmt.Errorf("repository: Latest unmarshal: %w", err)
	}
	raw, _ := strAttr(item, attrLabels) // allow missing
	rec.Labels = parseLabels(raw)
	return rec, true, nil
}

// parseLabels recovers label names from the analyzer's Python-repr dump of the
// Rekognition DetectLabels response. Anything undecodable yields no labels.
func parseLabels(raw string) []string {
	names := []string{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return names
	}

	normalized := strings.ReplaceAll(raw, "'", `"`)
	normalized = pythonLiteral.ReplaceAllStringFunc(normalized, func(lit string) string {
		switch lit {
		case "True":
			return "true"
		case "False":
			return "false"
		default:
			return "null"
		}
	})

	var doc struct {
		Labels []struct {
			Name string `json:"Name"`
		} `json:"Labels"`
	}
	if err := json.Unmarshal([]byte(normalized), &doc); err != nil {
		return names
	}
	for _, l := range doc.Labels {
		if name := strings.TrimSpace(l.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
