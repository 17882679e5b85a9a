package infra

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type CameraStackProps struct {
	awscdk.StackProps

	AssetPath            string
	AnalyzerFunctionName string
	PromptSeedPath       string
	LogLevel             string
}

// NewCameraStack assembles the data stores, user pool, HTTP API and CDN.
func NewCameraStack(scope constructs.Construct, id string, props *CameraStackProps) awscdk.Stack {
	var sprops awscdk.StackProps
	if props != nil {
		sprops = props.StackProps
	} else {
		props = &CameraStackProps{}
	}
	stack := awscdk.NewStack(scope, jsii.String(id), &sprops)

	backend := NewBackend(stack, "Backend", &BackendProps{AnalyzerFunctionName: props.AnalyzerFunctionName})
	cognito := NewCognito(stack, "Cognito")
	front := NewFront(stack, "Front", &FrontProps{ContentBucket: backend.ContentBucket})
	NewBff(stack, "BFF", &BffProps{
		Table:          backend.Table,
		UtilTable:      backend.UtilTable,
		PromptTable:    backend.PromptTable,
		CameraBucket:   backend.EdgeImagesBucket,
		UserPool:       cognito.UserPool,
		UserPoolClient: cognito.UserPoolClient,
		AssetPath:      props.AssetPath,
		ContentBaseURL: front.BaseURL(),
		PromptSeedPath: props.PromptSeedPath,
		LogLevel:       props.LogLevel,
	})
	return stack
}
