// Package main provides the wirelens CLI for rendering captured message
// bodies from files.
package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wirelens/go-sdk/pkg/contentview"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wirelens",
		Short:         "Decode captured protocol payloads into readable text",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newRenderCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var (
		contentType string
		rawHeaders  []string
		viewName    string
		defsRef     string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "render FILE...",
		Short: "Render one or more captured bodies",
		Long: `Render reads raw captured bodies from files and pretty-prints each one
through the content-view registry. Without --view, the highest-scoring
view for the given bytes and metadata is used.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}

			header, err := parseHeaders(rawHeaders)
			if err != nil {
				return err
			}
			md := &contentview.Metadata{
				ContentType:         contentType,
				ProtobufDefinitions: defsRef,
				Header:              header,
			}
			reg := contentview.NewDefaultRegistry()

			// Decoding is pure per-buffer computation, so files render
			// concurrently.
			outputs := make([]string, len(args))
			var g errgroup.Group
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					out, err := renderFile(reg, path, viewName, md)
					if err != nil {
						return err
					}
					outputs[i] = out
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for i, out := range outputs {
				fmt.Fprintf(cmd.OutOrStdout(), "==> %s <==\n%s\n", args[i], out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&contentType, "content-type", "t", "", "declared content type of the bodies")
	cmd.Flags().StringArrayVarP(&rawHeaders, "header", "H", nil, "request/response header as 'Name: value' (repeatable)")
	cmd.Flags().StringVar(&viewName, "view", "", "force a named view instead of best match")
	cmd.Flags().StringVar(&defsRef, "proto-definitions", "", "opaque reference to configured .proto definitions")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func renderFile(reg *contentview.Registry, path, viewName string, md *contentview.Metadata) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	if viewName != "" {
		view, err := reg.Get(viewName)
		if err != nil {
			return "", err
		}
		out, err := view.Render(data, md)
		if err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
		return out, nil
	}

	view := reg.BestMatch(data, md)
	out, err := view.Render(data, md)
	if err != nil {
		// Best match misjudged; the raw view always renders.
		logrus.WithField("view", view.Name()).Debugf("render failed, using raw: %v", err)
		raw, gerr := reg.Get("raw")
		if gerr != nil {
			return "", err
		}
		return raw.Render(data, md)
	}
	return out, nil
}

func parseHeaders(raw []string) (http.Header, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	h := make(http.Header, len(raw))
	for _, entry := range raw {
		name, value, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header %q, want 'Name: value'", entry)
		}
		h.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return h, nil
}
