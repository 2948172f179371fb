package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/sanitize"
)

func newRenderCmd() *cobra.Command {
	var engine string

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render markdown to sanitized HTML",
		Long:  "Render markdown to sanitized HTML on stdout. Reads stdin when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := markdown.New(engine)
			if err != nil {
				return err
			}
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			src, err := io.ReadAll(in)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sanitize.HTML(renderer.Render(string(src))))
			return err
		},
	}

	cmd.Flags().StringVar(&engine, "engine", markdown.EnginePipeline, "markdown engine: pipeline or goldmark")
	return cmd
}
