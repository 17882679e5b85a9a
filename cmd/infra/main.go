package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/caarlos0/env/v10"
	"github.com/rs/zerolog/log"

	"genai-camera/internal/infra"
	"genai-camera/internal/logging"
)

// deployConfig is read from the environment of `cdk synth` / `cdk deploy`.
type deployConfig struct {
	StackName            string `env:"STACK_NAME" envDefault:"GenAICameraDemoStack"`
	AssetPath            string `env:"BFF_ASSET_PATH" envDefault:"dist/bff"`
	AnalyzerFunctionName string `env:"ANALYZER_FUNCTION_NAME" envDefault:"RekFunction"`
	PromptSeedPath       string `env:"PROMPT_SEED_PATH"`
	FunctionLogLevel     string `env:"FUNCTION_LOG_LEVEL" envDefault:"info"`
	Account              string `env:"CDK_DEFAULT_ACCOUNT"`
	Region               string `env:"CDK_DEFAULT_REGION"`
}

func main() {
	defer jsii.Close()
	logging.Init("info", "console")

	var cfg deployConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse deploy configuration")
	}

	app := awscdk.NewApp(nil)

	var stackEnv *awscdk.Environment
	if cfg.Account != "" || cfg.Region != "" {
		stackEnv = &awscdk.Environment{}
		if cfg.Account != "" {
			stackEnv.Account = jsii.String(cfg.Account)
		}
		if cfg.Region != "" {
			stackEnv.Region = jsii.String(cfg.Region)
		}
	}

	infra.NewCameraStack(app, cfg.StackName, &infra.CameraStackProps{
		StackProps:           awscdk.StackProps{Env: stackEnv},
		AssetPath:            cfg.AssetPath,
		AnalyzerFunctionName: cfg.AnalyzerFunctionName,
		PromptSeedPath:       cfg.PromptSeedPath,
		LogLevel:             cfg.FunctionLogLevel,
	})

	log.Info().
		Str("stack", cfg.StackName).
		Str("asset", cfg.AssetPath).
		Str("analyzer", cfg.AnalyzerFunctionName).
		Msg("Synthesizing stack")
	app.Synth(nil)
}
