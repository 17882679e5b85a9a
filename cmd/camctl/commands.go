package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"genai-camera/internal/client"
	"genai-camera/internal/domain"
	"genai-camera/internal/logging"
)

var (
	watchFlag    bool
	intervalFlag time.Duration

	promptIDFlag   string
	promptTextFlag string
	selectFlag     bool
)

var captionCmd = &cobra.Command{
	Use:   "caption",
	Short: "Show the latest caption and classification",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if !watchFlag {
			rec, found, err := c.Caption(ctx)
			if err != nil {
				return err
			}
			printCaption(cmd, rec, found)
			return nil
		}

		var last string
		err = c.WatchCaption(ctx, intervalFlag, func(rec domain.Classification, found bool) {
			if found && rec.Timestamp == last {
				return
			}
			last = rec.Timestamp
			printCaption(cmd, rec, found)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List, edit and select prompt templates",
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompt templates and the current selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		out, err := c.Prompts(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range out.Prompts {
			marker := " "
			if p.ID == out.SelectedID {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\n", marker, p.ID, p.Prompt)
		}
		if len(out.Prompts) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no prompts stored (selected: %s)\n", out.SelectedID)
		}
		return nil
	},
}

var promptsPutCmd = &cobra.Command{
	Use:   "put",
	Short: "Create or overwrite a prompt template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(promptIDFlag) == "" || strings.TrimSpace(promptTextFlag) == "" {
			return errors.New("--id and --prompt are required")
		}
		c, err := newClient()
		if err != nil {
			return err
		}

		selected := promptIDFlag
		if !selectFlag {
			// The API always writes the selection; keep the current one.
			current, err := c.Prompts(cmd.Context())
			if err != nil {
				return err
			}
			selected = current.SelectedID
		}
		out, err := c.PutPrompt(cmd.Context(), domain.PutPromptRequest{ID: promptIDFlag, Prompt: promptTextFlag, SelectedID: selected})
		if err != nil {
			return err
		}
		return printJSON(cmd, out)
	},
}

var promptsSelectCmd = &cobra.Command{
	Use:   "select <prompt-id>",
	Short: "Select the prompt the analyzer uses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		out, err := c.PutPrompt(cmd.Context(), domain.PutPromptRequest{SelectedID: args[0]})
		if err != nil {
			return err
		}
		return printJSON(cmd, out)
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <image.jpg>",
	Short: "Upload a JPEG as a camera capture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		out, err := c.UploadImage(cmd.Context(), data, args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, out)
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the connection profile",
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store endpoint and token in the profile file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := profilePath()
		if err != nil {
			return err
		}
		current, err := client.LoadProfile(path)
		if err != nil {
			return err
		}
		updated := current.Merge(client.Profile{Endpoint: endpointFlag, Token: tokenFlag})
		if err := client.SaveProfile(path, updated); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "profile written to %s\n", path)
		return nil
	},
}

func init() {
	captionCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Keep polling and print each new caption")
	captionCmd.Flags().DurationVar(&intervalFlag, "interval", client.DefaultPollInterval, "Polling interval for --watch")

	promptsPutCmd.Flags().StringVar(&promptIDFlag, "id", "", "Prompt id")
	promptsPutCmd.Flags().StringVar(&promptTextFlag, "prompt", "", "Prompt text")
	promptsPutCmd.Flags().BoolVar(&selectFlag, "select", false, "Also select this prompt")

	promptsCmd.AddCommand(promptsListCmd, promptsPutCmd, promptsSelectCmd)
	profileCmd.AddCommand(profileSetCmd)
}

func initLogging() {
	logging.Init(logLevelFlag, "console")
}

func profilePath() (string, error) {
	if profileFlag != "" {
		return profileFlag, nil
	}
	return client.DefaultProfilePath()
}

// newClient resolves endpoint and token from profile, environment and flags.
func newClient() (*client.Client, error) {
	path, err := profilePath()
	if err != nil {
		return nil, err
	}
	p, err := client.LoadProfile(path)
	if err != nil {
		return nil, err
	}
	p = p.Merge(client.Profile{Endpoint: os.Getenv("CAMCTL_ENDPOINT"), Token: os.Getenv("CAMCTL_TOKEN")})
	p = p.Merge(client.Profile{Endpoint: endpointFlag, Token: tokenFlag})
	if p.Endpoint == "" {
		return nil, errors.New("no endpoint configured: use --endpoint, CAMCTL_ENDPOINT or `camctl profile set`")
	}
	if p.Token == "" {
		log.Warn().Msg("No token configured; the API will reject requests behind the Cognito authorizer")
	}
	return client.New(p.Endpoint, client.WithToken(p.Token))
}

func printCaption(cmd *cobra.Command, rec domain.Classification, found bool) {
	w := cmd.OutOrStdout()
	if !found {
		fmt.Fprintln(w, "no caption yet")
		return
	}
	status := "normal"
	if rec.Caution {
		status = "CAUTION"
	}
	fmt.Fprintf(w, "[%s] %s %s\n", rec.Timestamp, status, rec.Caption)
	if len(rec.Labels) > 0 {
		fmt.Fprintf(w, "  labels: %s\n", strings.Join(rec.Labels, ", "))
	}
	if rec.ImageURL != "" {
		fmt.Fprintf(w, "  image:  %s\n", rec.ImageURL)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
