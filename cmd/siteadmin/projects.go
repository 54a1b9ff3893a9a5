package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nbportfolio/site/internal/app"
	"github.com/nbportfolio/site/internal/projects"
	"github.com/nbportfolio/site/internal/reconcile"
)

func newProjectsCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "projects", Short: "Manage portfolio projects"}

	var query, category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List projects, optionally filtered by title and category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, o, func(ctx context.Context, c *app.Client) error {
				all, origin := c.LoadProjects(ctx)
				fmt.Fprintf(cmd.ErrOrStderr(), "source: %s\n", originOrNone(origin))
				return printJSON(cmd.OutOrStdout(), projects.Filter(all, query, category))
			})
		},
	}
	list.Flags().StringVar(&query, "query", "", "case-insensitive title filter")
	list.Flags().StringVar(&category, "category", "", "exact category filter")

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List canonical categories followed by legacy ones in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, o, func(ctx context.Context, c *app.Client) error {
				all, _ := c.LoadProjects(ctx)
				for _, name := range projects.Categories(all) {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Print one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd, o, func(ctx context.Context, c *app.Client) error {
				p, _, ok := c.GetProject(ctx, id)
				if !ok {
					return fmt.Errorf("project %d not found", id)
				}
				return printJSON(cmd.OutOrStdout(), p)
			})
		},
	}

	cmd.AddCommand(list, categories, get, newProjectSaveCmd(o), newProjectDeleteCmd(o))
	return cmd
}

func parseProjectID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid project id %q", s)
	}
	return id, nil
}

type projectFlags struct {
	id                     int64
	title, category, video string
	text, html, descFile   string
	cover                  string
	gallery, remove        []string
	clearGallery           bool
}

func newProjectSaveCmd(o *rootOptions) *cobra.Command {
	var f projectFlags
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a project, or update one with --id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, o, func(ctx context.Context, c *app.Client) error {
				form, err := buildProjectForm(ctx, cmd, c, f)
				if err != nil {
					return err
				}
				saved, rep, err := c.SaveProject(ctx, form)
				printReport(cmd.ErrOrStderr(), rep)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), saved)
			})
		},
	}
	fl := cmd.Flags()
	fl.Int64Var(&f.id, "id", 0, "id of the project to update")
	fl.StringVar(&f.title, "title", "", "title")
	fl.StringVar(&f.category, "category", "", "category")
	fl.StringVar(&f.video, "video", "", "YouTube, Vimeo or .mp4 URL")
	fl.StringVar(&f.text, "text", "", "plain-text description, formatted to HTML")
	fl.StringVar(&f.html, "html", "", "rich-text HTML description")
	fl.StringVar(&f.descFile, "description-file", "", "read the plain-text description from a file")
	fl.StringVar(&f.cover, "cover", "", "cover image to upload")
	fl.StringSliceVar(&f.gallery, "gallery", nil, "gallery images to add")
	fl.StringSliceVar(&f.remove, "remove", nil, "gallery URLs to remove")
	fl.BoolVar(&f.clearGallery, "clear-gallery", false, "remove every existing gallery image")
	return cmd
}

// buildProjectForm starts from the stored project when updating so unset
// flags keep their values.
func buildProjectForm(ctx context.Context, cmd *cobra.Command, c *app.Client, f projectFlags) (reconcile.ProjectForm, error) {
	form := reconcile.ProjectForm{ID: f.id}
	if f.id != 0 {
		p, _, ok := c.GetProject(ctx, f.id)
		if !ok {
			return form, fmt.Errorf("project %d not found", f.id)
		}
		form.Title, form.Category, form.Video = p.Title, p.Category, p.Video
		form.Image = p.Image
		form.ExistingGallery = p.Gallery
		form.KeepDescription = true
		form.RichHTML, form.PlainText = p.Description, p.PlainDescription
	}
	flags := cmd.Flags()
	if flags.Changed("title") || f.id == 0 {
		form.Title = f.title
	}
	if flags.Changed("category") || f.id == 0 {
		form.Category = f.category
	}
	if flags.Changed("video") || f.id == 0 {
		form.Video = f.video
	}
	switch {
	case flags.Changed("html"):
		form.KeepDescription, form.Rich, form.RichHTML = false, true, f.html
	case flags.Changed("description-file"):
		b, err := os.ReadFile(f.descFile)
		if err != nil {
			return form, err
		}
		form.KeepDescription, form.Rich, form.PlainText = false, false, string(b)
	case flags.Changed("text") || f.id == 0:
		form.KeepDescription, form.Rich, form.PlainText = false, false, f.text
	}
	if f.clearGallery {
		form.RemovedGallery = append([]string{}, form.ExistingGallery...)
	} else {
		form.RemovedGallery = f.remove
	}
	cover, err := readFile(f.cover)
	if err != nil {
		return form, err
	}
	form.Cover = cover
	for _, path := range f.gallery {
		g, err := readFile(path)
		if err != nil {
			return form, err
		}
		if g != nil {
			form.NewGallery = append(form.NewGallery, *g)
		}
	}
	return form, nil
}

func newProjectDeleteCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd, o, func(ctx context.Context, c *app.Client) error {
				rep, err := c.DeleteProject(ctx, id)
				printReport(cmd.ErrOrStderr(), rep)
				return err
			})
		},
	}
}
