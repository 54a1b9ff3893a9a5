package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nbportfolio/site/internal/app"
	"github.com/nbportfolio/site/internal/content"
	"github.com/nbportfolio/site/internal/reconcile"
	"github.com/nbportfolio/site/internal/storage"
)

func newContentCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "content", Short: "Show and edit the content document"}

	var key string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the content document (or one key)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, o, func(ctx context.Context, c *app.Client) error {
				doc, origin := c.LoadContent(ctx)
				fmt.Fprintf(cmd.ErrOrStderr(), "source: %s\n", originOrNone(origin))
				if key != "" {
					v, ok := doc[key]
					if !ok {
						v = ""
					}
					return printJSON(cmd.OutOrStdout(), v)
				}
				return printJSON(cmd.OutOrStdout(), doc)
			})
		},
	}
	show.Flags().StringVar(&key, "key", "", "print only this key")

	var lines, html bool
	set := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set one field and save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := content.NewEdit()
			switch {
			case lines:
				e.SetLines(args[0], args[1])
			case html:
				e.SetHTML(args[0], args[1])
			default:
				e.SetString(args[0], args[1])
			}
			return saveContent(cmd, o, e)
		},
	}
	set.Flags().BoolVar(&lines, "lines", false, "store VALUE as a list, one item per line")
	set.Flags().BoolVar(&html, "html", false, "VALUE is rich-text HTML")

	var prefix string
	upload := &cobra.Command{
		Use:   "upload KEY FILE",
		Short: "Upload a file and store its URL in KEY",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readFile(args[1])
			if err != nil {
				return err
			}
			if f == nil {
				return fmt.Errorf("FILE is required")
			}
			e := content.NewEdit().Attach(args[0], prefix, f.Name, storage.ContentType(f.Name), f.Data)
			return saveContent(cmd, o, e)
		},
	}
	upload.Flags().StringVar(&prefix, "prefix", storage.PrefixContentServices, "object key prefix")

	cmd.AddCommand(show, set, upload)
	return cmd
}

func saveContent(cmd *cobra.Command, o *rootOptions, e *content.Edit) error {
	return withClient(cmd, o, func(ctx context.Context, c *app.Client) error {
		c.LoadContent(ctx)
		_, rep, err := c.SaveContent(ctx, e)
		printReport(cmd.ErrOrStderr(), rep)
		return err
	})
}

func originOrNone(origin string) string {
	if origin == "" {
		return "none"
	}
	return origin
}

func newCardsCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "cards", Short: "Manage service cards"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List service cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, o, func(ctx context.Context, c *app.Client) error {
				doc, _ := c.LoadContent(ctx)
				return printJSON(cmd.OutOrStdout(), doc.Cards())
			})
		},
	}

	var f cardFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a service card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return saveCard(cmd, o, content.ServiceCard{}, f)
		},
	}
	f.bind(add)

	var uf cardFlags
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update the service card with ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return saveCard(cmd, o, content.ServiceCard{ID: args[0]}, uf)
		},
	}
	uf.bind(update)

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete the service card with ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, o, func(ctx context.Context, c *app.Client) error {
				c.LoadContent(ctx)
				rep, err := c.DeleteServiceCard(ctx, args[0])
				printReport(cmd.ErrOrStderr(), rep)
				return err
			})
		},
	}

	cmd.AddCommand(list, add, update, del)
	return cmd
}

type cardFlags struct {
	title, list, link, iconAlt, icon string
}

func (f *cardFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "card title")
	cmd.Flags().StringVar(&f.list, "list", "", "bullet items, one per line")
	cmd.Flags().StringVar(&f.link, "link", "", "card link")
	cmd.Flags().StringVar(&f.iconAlt, "icon-alt", "", "icon alt text")
	cmd.Flags().StringVar(&f.icon, "icon", "", "icon file to upload")
}

// saveCard merges the flags that were given into the stored card.
func saveCard(cmd *cobra.Command, o *rootOptions, card content.ServiceCard, f cardFlags) error {
	return withClient(cmd, o, func(ctx context.Context, c *app.Client) error {
		doc, _ := c.LoadContent(ctx)
		if card.ID != "" {
			existing, ok := doc.Card(card.ID)
			if !ok {
				return fmt.Errorf("card %s: %w", card.ID, content.ErrCardNotFound)
			}
			card = existing
		}
		flags := cmd.Flags()
		if flags.Changed("title") || card.ID == "" {
			card.Title = f.title
		}
		if flags.Changed("list") || card.ID == "" {
			card.List = content.SplitLines(f.list)
		}
		if flags.Changed("link") || card.ID == "" {
			card.Link = f.link
		}
		if flags.Changed("icon-alt") || card.ID == "" {
			card.IconAlt = f.iconAlt
		}
		icon, err := readFile(f.icon)
		if err != nil {
			return err
		}
		saved, rep, err := c.SaveServiceCard(ctx, card, icon)
		printReport(cmd.ErrOrStderr(), rep)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), saved)
	})
}

func newBrochureCmd(o *rootOptions) *cobra.Command {
	var title, description, pdf, image string
	cmd := &cobra.Command{
		Use:   "brochure SLOT",
		Short: "Edit brochure 1 or 2",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := strconv.Atoi(args[0])
			if err != nil || !content.ValidSlot(slot) {
				return reconcile.ErrInvalidSlot
			}
			return withClient(cmd, o, func(ctx context.Context, c *app.Client) error {
				doc, _ := c.LoadContent(ctx)
				current := doc.Brochure(slot)
				form := reconcile.BrochureForm{Title: current.Title, Description: current.Description}
				if cmd.Flags().Changed("title") {
					form.Title = title
				}
				if cmd.Flags().Changed("description") {
					form.Description = description
				}
				if form.PDF, err = readFile(pdf); err != nil {
					return err
				}
				if form.Image, err = readFile(image); err != nil {
					return err
				}
				b, rep, err := c.SaveBrochure(ctx, slot, form)
				printReport(cmd.ErrOrStderr(), rep)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), b)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "brochure title")
	cmd.Flags().StringVar(&description, "description", "", "brochure description")
	cmd.Flags().StringVar(&pdf, "pdf", "", "PDF file to upload")
	cmd.Flags().StringVar(&image, "image", "", "cover image to upload")
	return cmd
}
