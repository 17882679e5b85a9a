package paramstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ssmAPI is the minimal AWS SSM interface required by Client.
// *ssm.Client from aws-sdk-go-v2 satisfies this interface.
type ssmAPI interface {
	GetParametersByPath(ctx context.Context, in *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// Client reads prompt templates stored under an SSM parameter path.
type Client struct {
	api ssmAPI
}

// New creates a Client with the given SSM API implementation.
func New(api ssmAPI) (*Client, error) {
	if api == nil {
		return nil, errors.New("paramstore: api must not be nil")
	}
	return &Client{api: api}, nil
}

// Templates returns every non-empty parameter below prefix, keyed by the last
// segment of the parameter name. "/camera/prompts/default" becomes "default".
func (c *Client) Templates(ctx context.Context, prefix string) (map[string]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, errors.New("paramstore: path is required")
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	templates := make(map[string]string)
	p := ssm.NewGetParametersByPathPaginator(c.api, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("paramstore: get parameters by path %q: %w", prefix, err)
		}
		for _, param := range page.Parameters {
			id := path.Base(aws.ToString(param.Name))
			value := aws.ToString(param.Value)
			if id == "" || id == "/" || id == "." || strings.TrimSpace(value) == "" {
				continue
			}
			templates[id] = value
		}
	}
	return templates, nil
}
