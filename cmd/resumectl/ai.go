package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zaakiraza/ResumeAI-sub001/internal/apiclient"
)

func newAICmd(a *app) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "ai <tool>",
		Short: "Run an AI writing tool (summary, experience, skills, education, cover-letter)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload json.RawMessage
			if input != "" {
				if !json.Valid([]byte(input)) {
					return fmt.Errorf("--input must be valid JSON")
				}
				payload = json.RawMessage(input)
			}

			out, err := a.client.AI().Generate(cmd.Context(), apiclient.Tool(args[0]), payload)
			if err != nil {
				return err
			}
			return a.print(out)
		},
	}
	cmd.Flags().StringVar(&input, "input", "{}", "JSON payload for the tool")
	return cmd
}
