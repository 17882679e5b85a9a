package infra

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscognito"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

const invitationMessage = "Hello {username}, Your temporary password is {####}"

// Cognito is the user pool whose ID tokens the HTTP API accepts.
type Cognito struct {
	constructs.Construct

	UserPool       awscognito.UserPool
	UserPoolClient awscognito.UserPoolClient
}

func NewCognito(scope constructs.Construct, id string) *Cognito {
	c := constructs.NewConstruct(scope, jsii.String(id))

	pool := awscognito.NewUserPool(c, jsii.String("UserPool"), &awscognito.UserPoolProps{
		SelfSignUpEnabled: jsii.Bool(true),
		UserInvitation: &awscognito.UserInvitationConfig{
			EmailSubject: jsii.String("GenAI Camera Demo User Registration"),
			EmailBody:    jsii.String(invitationMessage),
			SmsMessage:   jsii.String(invitationMessage),
		},
		SignInAliases: &awscognito.SignInAliases{
			Email: jsii.Bool(true),
		},
		PasswordPolicy: &awscognito.PasswordPolicy{
			RequireUppercase: jsii.Bool(true),
			RequireSymbols:   jsii.Bool(true),
			RequireDigits:    jsii.Bool(true),
			MinLength:        jsii.Number(8),
		},
		SignInCaseSensitive: jsii.Bool(false),
		RemovalPolicy:       awscdk.RemovalPolicy_DESTROY,
		DeletionProtection:  jsii.Bool(false),
	})

	client := pool.AddClient(jsii.String("Client"), &awscognito.UserPoolClientOptions{
		UserPoolClientName: jsii.String("GenAICamDemoClient"),
		OAuth: &awscognito.OAuthSettings{
			Scopes: &[]awscognito.OAuthScope{
				awscognito.OAuthScope_OPENID(),
				awscognito.OAuthScope_EMAIL(),
				awscognito.OAuthScope_PROFILE(),
			},
			Flows: &awscognito.OAuthFlows{
				AuthorizationCodeGrant: jsii.Bool(true),
			},
		},
	})

	pool.AddDomain(jsii.String("CognitoDomain"), &awscognito.UserPoolDomainOptions{
		CognitoDomain: &awscognito.CognitoDomainOptions{
			DomainPrefix: jsii.String("genai-camera-demo-" + *awscdk.Aws_ACCOUNT_ID()),
		},
	})

	awscdk.NewCfnOutput(c, jsii.String("CfnOutputUserPoolId"), &awscdk.CfnOutputProps{
		Value: pool.UserPoolId(),
	})
	awscdk.NewCfnOutput(c, jsii.String("CfnOutputUserPoolClientId"), &awscdk.CfnOutputProps{
		Value: client.UserPoolClientId(),
	})

	return &Cognito{Construct: c, UserPool: pool, UserPoolClient: client}
}
