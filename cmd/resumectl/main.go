package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zaakiraza/ResumeAI-sub001/internal/apiclient"
	"github.com/zaakiraza/ResumeAI-sub001/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "resumectl: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	cfg     config.ClientConfig
	session *apiclient.Session
	client  *apiclient.Client
	out     io.Writer
}

func newRootCommand() *cobra.Command {
	a := &app{}
	var (
		apiURL  string
		token   string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "resumectl",
		Short: "ResumeAI command line client",
		Long: `resumectl talks to a ResumeAI server: it reads and manages notifications,
submits and votes on feedback, edits the profile and uploads files to the asset host.

The bearer token comes from --token or RESUMEAI_TOKEN.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

			cfg, err := config.LoadClient()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if apiURL != "" {
				cfg.APIURL = apiURL
			}
			if token != "" {
				cfg.Token = token
			}

			a.cfg = cfg
			a.out = cmd.OutOrStdout()
			a.session = apiclient.NewSession(cfg.Token)
			a.client = apiclient.New(cfg.APIURL, a.session, apiclient.WithTimeout(cfg.HTTPTimeout))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (default $RESUMEAI_API_URL)")
	cmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token (default $RESUMEAI_TOKEN)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(
		newNotificationsCmd(a),
		newFeedbackCmd(a),
		newProfileCmd(a),
		newUploadCmd(a),
		newAICmd(a),
	)
	return cmd
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
