package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/require"
)

func synth(t *testing.T, props CameraStackProps) assertions.Template {
	t.Helper()
	asset := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(asset, "bootstrap"), []byte("#!/bin/sh\n"), 0o755))
	props.AssetPath = asset

	app := awscdk.NewApp(nil)
	stack := NewCameraStack(app, "TestCameraStack", &props)
	return assertions.Template_FromStack(stack, nil)
}

func TestCameraStack_DataStores(t *testing.T) {
	template := synth(t, CameraStackProps{})

	template.ResourceCountIs(jsii.String("AWS::DynamoDB::GlobalTable"), jsii.Number(3))
	template.ResourceCountIs(jsii.String("AWS::S3::Bucket"), jsii.Number(2))
	template.HasResourceProperties(jsii.String("AWS::DynamoDB::GlobalTable"), map[string]interface{}{
		"KeySchema": []interface{}{
			map[string]interface{}{"AttributeName": "id", "KeyType": "HASH"},
			map[string]interface{}{"AttributeName": "timestamp", "KeyType": "RANGE"},
		},
	})
	template.HasResourceProperties(jsii.String("AWS::S3::Bucket"), map[string]interface{}{
		"PublicAccessBlockConfiguration": map[string]interface{}{
			"BlockPublicAcls":       true,
			"BlockPublicPolicy":     true,
			"IgnorePublicAcls":      true,
			"RestrictPublicBuckets": true,
		},
	})
}

func TestCameraStack_Functions(t *testing.T) {
	template := synth(t, CameraStackProps{})

	fns := template.FindResources(jsii.String("AWS::Lambda::Function"), map[string]interface{}{
		"Properties": map[string]interface{}{
			"Runtime":       "provided.al2023",
			"Handler":       "bootstrap",
			"Architectures": []interface{}{"arm64"},
		},
	})
	require.Len(t, *fns, 4)

	template.HasResourceProperties(jsii.String("AWS::Lambda::Function"), map[string]interface{}{
		"Environment": map[string]interface{}{
			"Variables": assertions.Match_ObjectLike(&map[string]interface{}{
				"AUTH_MODE":        "apigw",
				"TABLE_NAME":       assertions.Match_AnyValue(),
				"CONTENT_BASE_URL": assertions.Match_AnyValue(),
			}),
		},
	})
	template.HasResourceProperties(jsii.String("AWS::Lambda::Function"), map[string]interface{}{
		"Environment": map[string]interface{}{
			"Variables": assertions.Match_ObjectLike(&map[string]interface{}{
				"BUCKET_NAME": assertions.Match_AnyValue(),
			}),
		},
	})
}

func TestCameraStack_HttpAPI(t *testing.T) {
	template := synth(t, CameraStackProps{})

	template.ResourceCountIs(jsii.String("AWS::ApiGatewayV2::Api"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::ApiGatewayV2::Route"), jsii.Number(4))
	template.ResourceCountIs(jsii.String("AWS::ApiGatewayV2::Authorizer"), jsii.Number(1))

	for _, key := range []string{"GET /caption", "GET /prompts", "PUT /prompt", "POST /camera"} {
		template.HasResourceProperties(jsii.String("AWS::ApiGatewayV2::Route"), map[string]interface{}{
			"RouteKey":          key,
			"AuthorizationType": "JWT",
		})
	}
	template.HasResourceProperties(jsii.String("AWS::ApiGatewayV2::Api"), map[string]interface{}{
		"ProtocolType": "HTTP",
		"CorsConfiguration": assertions.Match_ObjectLike(&map[string]interface{}{
			"AllowOrigins": []interface{}{"*"},
		}),
	})
}

func TestCameraStack_CognitoAndFront(t *testing.T) {
	template := synth(t, CameraStackProps{})

	template.ResourceCountIs(jsii.String("AWS::Cognito::UserPool"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::Cognito::UserPoolClient"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::Cognito::UserPoolDomain"), jsii.Number(1))
	template.HasResourceProperties(jsii.String("AWS::Cognito::UserPoolClient"), map[string]interface{}{
		"AllowedOAuthFlows":  []interface{}{"code"},
		"AllowedOAuthScopes": []interface{}{"openid", "email", "profile"},
	})

	template.ResourceCountIs(jsii.String("AWS::CloudFront::Distribution"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::CloudFront::OriginAccessControl"), jsii.Number(1))
}

func TestCameraStack_AnalyzerTrigger(t *testing.T) {
	template := synth(t, CameraStackProps{AnalyzerFunctionName: "RekFunction"})
	template.ResourceCountIs(jsii.String("Custom::S3BucketNotifications"), jsii.Number(1))

	none := synth(t, CameraStackProps{})
	none.ResourceCountIs(jsii.String("Custom::S3BucketNotifications"), jsii.Number(0))
}

func TestCameraStack_PromptSeedGrant(t *testing.T) {
	template := synth(t, CameraStackProps{PromptSeedPath: "/camera/prompts"})

	template.HasResourceProperties(jsii.String("AWS::Lambda::Function"), map[string]interface{}{
		"Environment": map[string]interface{}{
			"Variables": assertions.Match_ObjectLike(&map[string]interface{}{
				"PROMPT_SEED_PATH": "/camera/prompts",
			}),
		},
	})
	template.HasResourceProperties(jsii.String("AWS::IAM::Policy"), map[string]interface{}{
		"PolicyDocument": map[string]interface{}{
			"Statement": assertions.Match_ArrayWith(&[]interface{}{
				assertions.Match_ObjectLike(&map[string]interface{}{
					"Action": "ssm:GetParametersByPath",
				}),
			}),
		},
	})
}
