package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zaakiraza/ResumeAI-sub001/internal/upload"
)

func newUploadCmd(a *app) *cobra.Command {
	var (
		folder string
		image  bool
	)
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file to the asset host with the unsigned preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			kind := upload.ResourceAuto
			if image {
				kind = upload.ResourceImage
			}

			res := upload.NewUploader(a.cfg.Cloudinary).Upload(cmd.Context(), upload.Request{
				File:         data,
				Filename:     filepath.Base(args[0]),
				Folder:       folder,
				ResourceKind: kind,
			})
			if err := a.print(res); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("upload failed: %s", res.ErrorMessage)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "resumeai", "Destination folder")
	cmd.Flags().BoolVar(&image, "image", false, "Upload as an image resource instead of auto")
	return cmd
}
