package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
	"github.com/zaakiraza/ResumeAI-sub001/internal/store"
)

func newNotificationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"n"},
		Short:   "Read and manage notifications",
	}
	cmd.AddCommand(
		newNotificationsListCmd(a),
		newNotificationsStatsCmd(a),
		newNotificationsMutateCmd(a, "read <id>", "Mark a notification read", (*store.NotificationStore).MarkRead),
		newNotificationsMutateCmd(a, "unread <id>", "Mark a notification unread", (*store.NotificationStore).MarkUnread),
		newNotificationsMutateCmd(a, "delete <id>", "Delete a notification", (*store.NotificationStore).Delete),
		newNotificationsAllCmd(a, "read-all", "Mark every notification read", (*store.NotificationStore).MarkAllRead),
		newNotificationsAllCmd(a, "clear", "Delete every notification", (*store.NotificationStore).DeleteAll),
		newNotificationsWatchCmd(a),
		newNotificationsPrefsCmd(a),
	)
	return cmd
}

// loadNotifications opens a store over the first page of the inbox.
func (a *app) loadNotifications(ctx context.Context, f domain.NotificationFilter) (*store.NotificationStore, error) {
	s := store.NewNotificationStore(a.client.Notifications())
	if err := s.Fetch(ctx, f); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func newNotificationsListCmd(a *app) *cobra.Command {
	var f domain.NotificationFilter
	var typ string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Type = domain.NotificationType(typ)
			s, err := a.loadNotifications(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer s.Close()
			return a.print(map[string]any{"items": s.Items(), "stats": s.Stats()})
		},
	}
	cmd.Flags().BoolVar(&f.UnreadOnly, "unread", false, "Only unread notifications")
	cmd.Flags().StringVar(&typ, "type", "", "Filter by type (info, success, warning, error)")
	cmd.Flags().IntVar(&f.Limit, "limit", 20, "Page size")
	cmd.Flags().IntVar(&f.Offset, "offset", 0, "Page offset")
	return cmd
}

func newNotificationsStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show total and unread counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.client.Notifications().Stats(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(st)
		},
	}
}

func newNotificationsMutateCmd(a *app, use, short string, fn func(*store.NotificationStore, context.Context, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.loadNotifications(cmd.Context(), domain.NotificationFilter{})
			if err != nil {
				return err
			}
			defer s.Close()

			if err := fn(s, cmd.Context(), id); err != nil {
				return err
			}
			return a.print(s.Stats())
		},
	}
}

func newNotificationsAllCmd(a *app, use, short string, fn func(*store.NotificationStore, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadNotifications(cmd.Context(), domain.NotificationFilter{})
			if err != nil {
				return err
			}
			defer s.Close()

			if err := fn(s, cmd.Context()); err != nil {
				return err
			}
			return a.print(s.Stats())
		},
	}
}

func newNotificationsWatchCmd(a *app) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the unread count whenever it changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if interval <= 0 {
				interval = a.cfg.PollInterval
			}

			s, err := a.loadNotifications(ctx, domain.NotificationFilter{Limit: 1})
			if err != nil {
				return err
			}
			defer s.Close()

			last := s.UnreadCount()
			fmt.Fprintf(a.out, "unread: %d\n", last)

			s.StartPolling(ctx, a.session, interval)
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-a.session.Done():
					return fmt.Errorf("session revoked")
				case <-ticker.C:
					if n := s.UnreadCount(); n != last {
						last = n
						fmt.Fprintf(a.out, "unread: %d\n", n)
					}
				}
			}
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "Poll interval (default $POLL_INTERVAL)")
	return cmd
}

func newNotificationsPrefsCmd(a *app) *cobra.Command {
	var (
		email, inApp bool
		types        []string
	)
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change notification preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			api := a.client.Notifications()
			p, err := api.Preferences(cmd.Context())
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if !flags.Changed("email") && !flags.Changed("in-app") && !flags.Changed("types") {
				return a.print(p)
			}
			if flags.Changed("email") {
				p.Email = email
			}
			if flags.Changed("in-app") {
				p.InApp = inApp
			}
			if flags.Changed("types") {
				p.Types = p.Types[:0]
				for _, t := range types {
					p.Types = append(p.Types, domain.NotificationType(t))
				}
			}

			saved, err := api.SavePreferences(cmd.Context(), p)
			if err != nil {
				return err
			}
			return a.print(saved)
		},
	}
	cmd.Flags().BoolVar(&email, "email", true, "Receive email notifications")
	cmd.Flags().BoolVar(&inApp, "in-app", true, "Receive in-app notifications")
	cmd.Flags().StringSliceVar(&types, "types", nil, "Notification types to receive (empty for all)")
	return cmd
}
