package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Global flags
var (
	endpointFlag string
	tokenFlag    string
	profileFlag  string
	logLevelFlag string
)

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "camctl",
	Short: "Operate the GenAI smart camera from the terminal",
	Long: `camctl talks to the camera HTTP API: it shows the latest AI caption,
lists and edits the prompt templates the analyzer uses, and uploads images
as if they came from the webcam.

The endpoint and identity token come from the profile file, the
CAMCTL_ENDPOINT / CAMCTL_TOKEN environment variables, or flags (in
increasing order of precedence).

Examples:
  camctl profile set --endpoint https://abc123.execute-api.ap-northeast-1.amazonaws.com --token "$ID_TOKEN"
  camctl caption --watch --interval 10s
  camctl prompts list
  camctl prompts put --id ppe --prompt "Is everyone wearing a helmet?" --select
  camctl prompts select default
  camctl upload ./capture.jpg`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "API endpoint URL (overrides profile and CAMCTL_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "Cognito ID token sent as bearer token (overrides profile and CAMCTL_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "Profile file (default: <user config dir>/camctl/profile.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(captionCmd, promptsCmd, uploadCmd, profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
