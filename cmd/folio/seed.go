package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/content"
)

func newSeedCmd() *cobra.Command {
	var dbPath, postsDir string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Copy markdown posts into the SQLite store",
		Long:  "Copy markdown posts into the SQLite store. The posts shipped with the binary are used unless --posts names a directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := content.Embedded()
			if postsDir != "" {
				src, err = content.LoadDir(postsDir)
			}
			if err != nil {
				return err
			}
			posts, err := src.GetAllPostsIncludingDrafts(ctx)
			if err != nil {
				return err
			}

			store, err := content.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			var saved, skipped int
			for _, p := range posts {
				if !overwrite {
					if _, err := store.GetPostBySlug(ctx, p.Slug); err == nil {
						skipped++
						continue
					}
				}
				if err := store.SavePost(ctx, p); err != nil {
					return fmt.Errorf("seed %s: %w", p.Slug, err)
				}
				saved++
			}
			total, err := store.CountPosts(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d posts into %s (%d already present, %d total)\n", saved, dbPath, skipped, total)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "data/blog.db", "SQLite database path")
	cmd.Flags().StringVar(&postsDir, "posts", "", "directory of markdown posts")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace posts that already exist")
	return cmd
}
