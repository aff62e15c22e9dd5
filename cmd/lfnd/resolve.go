package main

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/lfnd/internal/config"
	"github.com/vango-dev/lfnd/pkg/dispatch"
	"github.com/vango-dev/lfnd/pkg/manifest"
	"github.com/vango-dev/lfnd/pkg/qname"
)

// loadRouter builds a router from the manifest at location.
func loadRouter(ctx context.Context, location string) (*dispatch.Router, error) {
	cfg := config.New()
	cfg.Manifest = location

	src, err := manifestSource(cfg)
	if err != nil {
		return nil, err
	}
	m, err := manifest.Load(ctx, src)
	if err != nil {
		return nil, err
	}

	r := dispatch.New()
	m.Register(r)
	return r, nil
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <manifest> <path>...",
		Short: "Resolve paths against a manifest",
		Long: `Resolve each path against the routes of a manifest and print the
outcome, status, body and captured parameters.

Examples:
  lfnd resolve routes.json /users/42 /missing`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRouter(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tOUTCOME\tSTATUS\tBODY\tPARAMS")
			for _, path := range args[1:] {
				out := r.Resolve(cmd.Context(), path)
				body := out.Response.Body
				if out.Response.Location != "" {
					body = "-> " + out.Response.Location
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					path, out.Kind, out.Response.Status, body, formatParams(out.Params))
			}
			return tw.Flush()
		},
	}
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes <manifest>",
		Short: "List the routes a manifest registers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRouter(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, pattern := range r.Routes() {
				fmt.Fprintln(cmd.OutOrStdout(), pattern)
			}
			return nil
		},
	}
}

func cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean <name>...",
		Short: "Print canonical qualified names",
		Long: `Print the canonical form of each qualified name: a leading slash is
added, one trailing slash is dropped and the first backslash becomes a slash.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range args {
				fmt.Fprintln(cmd.OutOrStdout(), qname.Clean(name))
			}
		},
	}
}

func formatParams(p map[string]string) string {
	if len(p) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := ""
	for i, k := range keys {
		if i > 0 {
			s += ","
		}
		s += k + "=" + p[k]
	}
	return s
}
