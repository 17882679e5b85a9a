package infra

import (
	"strconv"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigatewayv2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigatewayv2authorizers"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigatewayv2integrations"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscognito"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"genai-camera/internal/usecase"
)

type BffProps struct {
	Table          awsdynamodb.TableV2
	UtilTable      awsdynamodb.TableV2
	PromptTable    awsdynamodb.TableV2
	CameraBucket   awss3.Bucket
	UserPool       awscognito.UserPool
	UserPoolClient awscognito.UserPoolClient

	// AssetPath is the directory holding the linux/arm64 "bootstrap" built
	// from cmd/bff.
	AssetPath string
	// ContentBaseURL lets GET /caption return image URLs. Optional.
	ContentBaseURL *string
	// PromptSeedPath is an SSM path with initial prompt templates. Optional.
	PromptSeedPath string
	LogLevel       string
}

// Bff is the HTTP API. Every route runs the same Go binary; each function
// only receives the environment and grants of its own route, which also
// decides the routes the binary mounts.
type Bff struct {
	constructs.Construct

	Api       awsapigatewayv2.HttpApi
	Functions map[string]awslambda.Function
}

func NewBff(scope constructs.Construct, id string, props *BffProps) *Bff {
	c := constructs.NewConstruct(scope, jsii.String(id))
	b := &Bff{Construct: c, Functions: map[string]awslambda.Function{}}

	logLevel := props.LogLevel
	if logLevel == "" {
		logLevel = "info"
	}
	baseEnv := func(extra map[string]*string) *map[string]*string {
		env := map[string]*string{
			"LOG_LEVEL": jsii.String(logLevel),
			"AUTH_MODE": jsii.String("apigw"),
		}
		for k, v := range extra {
			env[k] = v
		}
		return &env
	}

	captionEnv := map[string]*string{"TABLE_NAME": props.Table.TableName()}
	if props.ContentBaseURL != nil {
		captionEnv["CONTENT_BASE_URL"] = props.ContentBaseURL
	}
	getCaptionFn := newGoFunction(c, "getCaptionFn", props.AssetPath, baseEnv(captionEnv))
	props.Table.GrantReadData(getCaptionFn)

	promptEnv := map[string]*string{
		"PROMPT_TABLE_NAME": props.PromptTable.TableName(),
		"UTIL_TABLE_NAME":   props.UtilTable.TableName(),
	}
	getPromptsEnv := map[string]*string{}
	for k, v := range promptEnv {
		getPromptsEnv[k] = v
	}
	if props.PromptSeedPath != "" {
		getPromptsEnv["PROMPT_SEED_PATH"] = jsii.String(props.PromptSeedPath)
	}
	getPromptsFn := newGoFunction(c, "getPromptsFn", props.AssetPath, baseEnv(getPromptsEnv))
	putPromptFn := newGoFunction(c, "putPromptFn", props.AssetPath, baseEnv(promptEnv))
	for _, fn := range []awslambda.Function{getPromptsFn, putPromptFn} {
		props.PromptTable.GrantReadWriteData(fn)
		props.UtilTable.GrantReadWriteData(fn)
	}
	if props.PromptSeedPath != "" {
		getPromptsFn.AddToRolePolicy(ssmReadPathStatement(c, props.PromptSeedPath))
	}

	postCameraFn := newGoFunction(c, "putWebcamImageFn", props.AssetPath, baseEnv(map[string]*string{
		"BUCKET_NAME":     props.CameraBucket.BucketName(),
		"MAX_IMAGE_BYTES": jsii.String(strconv.Itoa(usecase.DefaultMaxImageBytes)),
	}))
	props.CameraBucket.GrantPut(postCameraFn, nil)

	authorizer := awsapigatewayv2authorizers.NewHttpUserPoolAuthorizer(jsii.String("HttpAuthorizer"), props.UserPool, &awsapigatewayv2authorizers.HttpUserPoolAuthorizerProps{
		UserPoolClients: &[]awscognito.IUserPoolClient{props.UserPoolClient},
		IdentitySource:  jsii.Strings("$request.header.Authorization"),
	})

	api := awsapigatewayv2.NewHttpApi(c, jsii.String("HttpApi"), &awsapigatewayv2.HttpApiProps{
		DefaultAuthorizer: authorizer,
		CorsPreflight: &awsapigatewayv2.CorsPreflightOptions{
			AllowHeaders: jsii.Strings("Content-Type", "X-Amz-Date", "Authorization", "X-Api-Key"),
			AllowMethods: &[]awsapigatewayv2.CorsHttpMethod{
				awsapigatewayv2.CorsHttpMethod_OPTIONS,
				awsapigatewayv2.CorsHttpMethod_GET,
				awsapigatewayv2.CorsHttpMethod_POST,
				awsapigatewayv2.CorsHttpMethod_PUT,
				awsapigatewayv2.CorsHttpMethod_PATCH,
				awsapigatewayv2.CorsHttpMethod_DELETE,
			},
			AllowOrigins: jsii.Strings("*"),
			MaxAge:       awscdk.Duration_Minutes(jsii.Number(5)),
		},
	})

	routes := []struct {
		path        string
		method      awsapigatewayv2.HttpMethod
		integration string
		fn          awslambda.Function
	}{
		{"/caption", awsapigatewayv2.HttpMethod_GET, "GetCaptionIntegration", getCaptionFn},
		{"/prompts", awsapigatewayv2.HttpMethod_GET, "GetPromptsIntegration", getPromptsFn},
		{"/prompt", awsapigatewayv2.HttpMethod_PUT, "PutPromptIntegration", putPromptFn},
		{"/camera", awsapigatewayv2.HttpMethod_POST, "PostWebcamImageIntegration", postCameraFn},
	}
	for _, r := range routes {
		api.AddRoutes(&awsapigatewayv2.AddRoutesOptions{
			Path:        jsii.String(r.path),
			Methods:     &[]awsapigatewayv2.HttpMethod{r.method},
			Integration: awsapigatewayv2integrations.NewHttpLambdaIntegration(jsii.String(r.integration), r.fn, nil),
		})
		b.Functions[string(r.method)+" "+r.path] = r.fn
	}

	awscdk.NewCfnOutput(c, jsii.String("CfnOutputApiEndpoint"), &awscdk.CfnOutputProps{
		Value:       api.ApiEndpoint(),
		Description: jsii.String("API Endpoint"),
		ExportName:  jsii.String("ApiEndpoint"),
	})

	b.Api = api
	return b
}

func newGoFunction(scope constructs.Construct, id, assetPath string, env *map[string]*string) awslambda.Function {
	return awslambda.NewFunction(scope, jsii.String(id), &awslambda.FunctionProps{
		Runtime:      awslambda.Runtime_PROVIDED_AL2023(),
		Architecture: awslambda.Architecture_ARM_64(),
		Handler:      jsii.String("bootstrap"),
		Code:         awslambda.Code_FromAsset(jsii.String(assetPath), nil),
		Environment:  env,
		MemorySize:   jsii.Number(256),
		Timeout:      awscdk.Duration_Seconds(jsii.Number(15)),
		Tracing:      awslambda.Tracing_ACTIVE,
	})
}

func ssmReadPathStatement(scope constructs.Construct, seedPath string) awsiam.PolicyStatement {
	stack := awscdk.Stack_Of(scope)
	name := strings.Trim(seedPath, "/")
	return awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions: jsii.Strings("ssm:GetParametersByPath"),
		Resources: &[]*string{
			stack.FormatArn(&awscdk.ArnComponents{Service: jsii.String("ssm"), Resource: jsii.String("parameter"), ResourceName: jsii.String(name)}),
			stack.FormatArn(&awscdk.ArnComponents{Service: jsii.String("ssm"), Resource: jsii.String("parameter"), ResourceName: jsii.String(name + "/*")}),
		},
	})
}
