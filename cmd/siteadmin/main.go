// Command siteadmin edits the site content and projects through the
// reconciliation layer: remote stores when reachable, then the HTTP API,
// then the local cache.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nbportfolio/site/internal/app"
	"github.com/nbportfolio/site/internal/config"
	"github.com/nbportfolio/site/internal/reconcile"
	"github.com/nbportfolio/site/pkg/logger"
)

type rootOptions struct {
	envFile   string
	mode      string
	apiURL    string
	assetsDir string
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "siteadmin",
		Short:         "Edit portfolio site content and projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load")
	root.PersistentFlags().StringVar(&opts.mode, "mode", "", "backend selection: auto, remote or local (default from SYNC_MODE)")
	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "HTTP API fallback base URL (default from API_BASE_URL)")
	root.PersistentFlags().StringVar(&opts.assetsDir, "assets-dir", "", "site root holding the bundled JSON and cache (default from LOCAL_ASSETS_DIR)")

	root.AddCommand(
		newPingCmd(opts),
		newContentCmd(opts),
		newCardsCmd(opts),
		newBrochureCmd(opts),
		newProjectsCmd(opts),
		newRenderCmd(),
	)
	return root
}

func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.envFile)
	if err != nil {
		return nil, err
	}
	if o.mode != "" {
		cfg.Sync.Mode = strings.ToLower(o.mode)
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(o.apiURL, "/")
	}
	if o.assetsDir != "" {
		cfg.Local.AssetsDir = o.assetsDir
	}
	logger.Init(cfg.Log.Level)
	return cfg, nil
}

// withClient opens the reconciler for one command and closes it afterwards.
func withClient(cmd *cobra.Command, o *rootOptions, fn func(ctx context.Context, c *app.Client) error) error {
	cfg, err := o.load()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := app.OpenClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close(context.Background())
	return fn(ctx, c)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// printReport writes where a save landed and what went partly wrong.
func printReport(w io.Writer, rep reconcile.Report) {
	if rep.Target != "" {
		fmt.Fprintf(w, "saved to %s\n", rep.Target)
	}
	for _, msg := range rep.Warnings {
		fmt.Fprintf(w, "warning: %s\n", msg)
	}
	for _, u := range rep.Orphans {
		fmt.Fprintf(w, "orphaned upload: %s\n", u)
	}
}

func readFile(path string) (*reconcile.File, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &reconcile.File{Name: filepath.Base(path), Data: data}, nil
}

func newPingCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the HTTP API and report the backend in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, o, func(ctx context.Context, c *app.Client) error {
				fmt.Fprintf(cmd.OutOrStdout(), "backend: %s\n", c.Mode())
				if c.API == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "api: not configured")
					return nil
				}
				if err := c.API.Ping(ctx); err != nil {
					return fmt.Errorf("api: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "api: ok")
				return nil
			})
		},
	}
}
