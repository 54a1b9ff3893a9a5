package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nbportfolio/site/internal/render"
)

// newRenderCmd previews the HTML produced for descriptions and videos.
func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "render", Short: "Preview generated HTML"}

	description := &cobra.Command{
		Use:   "description [FILE]",
		Short: "Format plain text (FILE or stdin) as description HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			b, err := io.ReadAll(r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatDescription(string(b)))
			return nil
		},
	}

	var height int
	video := &cobra.Command{
		Use:   "video URL",
		Short: "Print the embed markup for a video URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), render.VideoEmbedHeight(args[0], height))
			return nil
		},
	}
	video.Flags().IntVar(&height, "height", render.DefaultVideoHeight, "embed height in pixels")

	cmd.AddCommand(description, video)
	return cmd
}
