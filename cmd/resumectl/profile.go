package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
	"github.com/zaakiraza/ResumeAI-sub001/internal/store"
	"github.com/zaakiraza/ResumeAI-sub001/internal/upload"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.client.Users().Me(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(u)
		},
	}
	cmd.AddCommand(newProfileSetCmd(a), newProfileAvatarCmd(a))
	return cmd
}

func newProfileSetCmd(a *app) *cobra.Command {
	var displayName, headline string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd domain.ProfileUpdate
			if cmd.Flags().Changed("display-name") {
				upd.DisplayName = &displayName
			}
			if cmd.Flags().Changed("headline") {
				upd.Headline = &headline
			}
			if upd.DisplayName == nil && upd.Headline == nil {
				return fmt.Errorf("nothing to update")
			}

			s := store.NewProfileStore(a.client.Users(), nil)
			defer s.Close()
			if err := s.Update(cmd.Context(), upd); err != nil {
				return err
			}
			u, _ := s.Profile()
			return a.print(u)
		},
	}
	cmd.Flags().StringVar(&displayName, "display-name", "", "Display name")
	cmd.Flags().StringVar(&headline, "headline", "", "Profile headline")
	return cmd
}

func newProfileAvatarCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <image>",
		Short: "Upload an image to the asset host and use it as avatar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			s := store.NewProfileStore(a.client.Users(), upload.NewUploader(a.cfg.Cloudinary))
			defer s.Close()
			if err := s.Fetch(cmd.Context()); err != nil {
				return err
			}
			if err := s.ChangeAvatar(cmd.Context(), data, filepath.Base(args[0]), "file://"+args[0]); err != nil {
				return err
			}
			u, _ := s.Profile()
			return a.print(u)
		},
	}
}
