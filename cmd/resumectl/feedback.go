package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
	"github.com/zaakiraza/ResumeAI-sub001/internal/store"
)

func newFeedbackCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "feedback",
		Aliases: []string{"fb"},
		Short:   "Submit, list and vote on feedback",
	}
	cmd.AddCommand(
		newFeedbackSubmitCmd(a),
		newFeedbackListCmd(a),
		newFeedbackVoteCmd(a),
		newFeedbackStatusCmd(a),
	)
	return cmd
}

func newFeedbackSubmitCmd(a *app) *cobra.Command {
	var (
		in        domain.FeedbackInput
		typ       string
		priority  string
		email     string
		anonymous bool
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a bug report, feature request or comment",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Type = domain.FeedbackType(typ)
			in.Priority = domain.FeedbackPriority(priority)
			if email != "" {
				in.ContactEmail = &email
			}

			if anonymous {
				f, err := a.client.Feedback().SubmitAnonymous(cmd.Context(), in)
				if err != nil {
					return err
				}
				return a.print(f)
			}

			s := store.NewFeedbackStore(a.client.Feedback(), store.FeedbackMine)
			defer s.Close()
			f, err := s.Submit(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.print(f)
		},
	}
	cmd.Flags().StringVar(&typ, "type", string(domain.FeedbackGeneral), "bug_report, feature_request, general, ui_ux, performance or other")
	cmd.Flags().StringVar(&in.Category, "category", "", "Free-form category")
	cmd.Flags().StringVar(&in.Title, "title", "", "Short title")
	cmd.Flags().StringVar(&in.Description, "description", "", "Full description")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium, high or critical")
	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	cmd.Flags().BoolVar(&anonymous, "anonymous", false, "Submit without signing in")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newFeedbackListCmd(a *app) *cobra.Command {
	var (
		all    bool
		f      domain.FeedbackFilter
		status string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your feedback, or all feedback with --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := store.FeedbackMine
			if all {
				scope = store.FeedbackAll
			}
			f.Status = domain.FeedbackStatus(status)

			s := store.NewFeedbackStore(a.client.Feedback(), scope)
			defer s.Close()
			if err := s.Fetch(cmd.Context(), f); err != nil {
				return err
			}
			return a.print(s.Items())
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "List every submission (administrators)")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().IntVar(&f.Limit, "limit", 20, "Page size")
	cmd.Flags().IntVar(&f.Offset, "offset", 0, "Page offset")
	return cmd
}

func newFeedbackVoteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <id> up|down",
		Short: "Vote on feedback; voting the same way twice removes the vote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var vote domain.Vote
			switch args[1] {
			case "up":
				vote = domain.VoteUp
			case "down":
				vote = domain.VoteDown
			default:
				return fmt.Errorf("vote must be up or down, got %q", args[1])
			}

			f, err := a.client.Feedback().Vote(cmd.Context(), id, vote)
			if err != nil {
				return err
			}
			return a.print(map[string]any{"id": f.ID, "user_vote": f.UserVote, "net_votes": f.NetVotes()})
		},
	}
}

func newFeedbackStatusCmd(a *app) *cobra.Command {
	var response string
	cmd := &cobra.Command{
		Use:   "status <id> <pending|in_review|resolved|rejected>",
		Short: "Change the review status (administrators)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var resp *string
			if response != "" {
				resp = &response
			}

			f, err := a.client.Feedback().UpdateStatus(cmd.Context(), id, domain.FeedbackStatus(args[1]), resp)
			if err != nil {
				return err
			}
			return a.print(f)
		},
	}
	cmd.Flags().StringVar(&response, "response", "", "Response shown to the submitter")
	return cmd
}
