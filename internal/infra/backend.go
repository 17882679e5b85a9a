// Package infra defines the AWS resources of the camera demo with the CDK.
package infra

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3notifications"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// analyzerSuffixes are the uploads that trigger the image analyzer.
var analyzerSuffixes = []string{".jpg", ".JPG", ".jpeg", ".png"}

type BackendProps struct {
	// AnalyzerFunctionName names an existing analyzer function to notify on
	// new camera images. Empty skips the trigger.
	AnalyzerFunctionName string
}

// Backend holds the data stores: camera uploads, analyzer output and the
// three tables.
type Backend struct {
	constructs.Construct

	EdgeImagesBucket awss3.Bucket
	ContentBucket    awss3.Bucket
	Table            awsdynamodb.TableV2
	UtilTable        awsdynamodb.TableV2
	PromptTable      awsdynamodb.TableV2
}

func NewBackend(scope constructs.Construct, id string, props *BackendProps) *Backend {
	if props == nil {
		props = &BackendProps{}
	}
	c := constructs.NewConstruct(scope, jsii.String(id))
	b := &Backend{Construct: c}

	b.EdgeImagesBucket = newPrivateBucket(c, "EdgeImagesBucket")
	b.ContentBucket = newPrivateBucket(c, "ContentBucket")

	b.Table = awsdynamodb.NewTableV2(c, jsii.String("Classifications"), &awsdynamodb.TablePropsV2{
		PartitionKey:  stringKey("id"),
		SortKey:       stringKey("timestamp"),
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})
	b.UtilTable = awsdynamodb.NewTableV2(c, jsii.String("LambdaLastCall"), &awsdynamodb.TablePropsV2{
		PartitionKey:  stringKey("id"),
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})
	b.PromptTable = awsdynamodb.NewTableV2(c, jsii.String("PromptTemplates"), &awsdynamodb.TablePropsV2{
		PartitionKey:  stringKey("id"),
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})

	if props.AnalyzerFunctionName != "" {
		analyzer := awslambda.Function_FromFunctionName(c, jsii.String("Analyzer"), jsii.String(props.AnalyzerFunctionName))
		dest := awss3notifications.NewLambdaDestination(analyzer)
		for _, suffix := range analyzerSuffixes {
			b.EdgeImagesBucket.AddEventNotification(awss3.EventType_OBJECT_CREATED, dest, &awss3.NotificationKeyFilter{
				Suffix: jsii.String(suffix),
			})
		}
	}

	awscdk.NewCfnOutput(c, jsii.String("CfnOutputUploadImageToS3"), &awscdk.CfnOutputProps{
		Value:       awscdk.Fn_Join(jsii.String(""), jsii.Strings("aws s3 cp <local-path-to-image> s3://", *b.EdgeImagesBucket.BucketName(), "/")),
		Description: jsii.String("Upload an image to S3 (using AWS CLI) to trigger the analyzer"),
	})
	awscdk.NewCfnOutput(c, jsii.String("CfnOutputDynamoDBTable"), &awscdk.CfnOutputProps{
		Value:       b.Table.TableName(),
		Description: jsii.String("This is where the image captioning results are stored."),
	})
	return b
}

func newPrivateBucket(scope constructs.Construct, id string) awss3.Bucket {
	return awss3.NewBucket(scope, jsii.String(id), &awss3.BucketProps{
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
		Encryption:        awss3.BucketEncryption_S3_MANAGED,
		AutoDeleteObjects: jsii.Bool(true),
		RemovalPolicy:     awscdk.RemovalPolicy_DESTROY,
		EnforceSSL:        jsii.Bool(true),
	})
}

func stringKey(name string) *awsdynamodb.Attribute {
	return &awsdynamodb.Attribute{
		Name: jsii.String(name),
		Type: awsdynamodb.AttributeType_STRING,
	}
}
