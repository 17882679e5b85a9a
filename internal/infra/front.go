package infra

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type FrontProps struct {
	ContentBucket awss3.Bucket
}

// Front serves the content bucket (web console and annotated images) through
// CloudFront. Unknown paths fall back to index.html for the single-page app.
type Front struct {
	constructs.Construct

	Distribution awscloudfront.Distribution
}

func NewFront(scope constructs.Construct, id string, props *FrontProps) *Front {
	c := constructs.NewConstruct(scope, jsii.String(id))

	spaFallback := func(status float64) *awscloudfront.ErrorResponse {
		return &awscloudfront.ErrorResponse{
			HttpStatus:         jsii.Number(status),
			ResponseHttpStatus: jsii.Number(200),
			ResponsePagePath:   jsii.String("/index.html"),
		}
	}

	dist := awscloudfront.NewDistribution(c, jsii.String("Distribution"), &awscloudfront.DistributionProps{
		DefaultBehavior: &awscloudfront.BehaviorOptions{
			Origin:               awscloudfrontorigins.S3BucketOrigin_WithOriginAccessControl(props.ContentBucket, nil),
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
		},
		DefaultRootObject: jsii.String("index.html"),
		ErrorResponses: &[]*awscloudfront.ErrorResponse{
			spaFallback(403),
			spaFallback(404),
		},
	})

	awscdk.NewCfnOutput(c, jsii.String("CfnOutputCloudFrontDomainName"), &awscdk.CfnOutputProps{
		Value: dist.DomainName(),
	})
	return &Front{Construct: c, Distribution: dist}
}

// BaseURL is the https URL of the distribution with a trailing slash.
func (f *Front) BaseURL() *string {
	return awscdk.Fn_Join(jsii.String(""), jsii.Strings("https://", *f.Distribution.DistributionDomainName(), "/"))
}
