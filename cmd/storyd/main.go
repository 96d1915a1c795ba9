// Command storyd serves story streams over server-sent events and WebSocket.
//
// Usage:
//
//	storyd [flags]
//
// Flags:
//
//	--addr string       Listen address (default ":3001")
//	--catalog string    Path to a YAML catalog (default: built-in stories)
//	--delay duration    Pause between events (default 200ms)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fwojciec/storystream"
	"github.com/fwojciec/storystream/server"
	storyyaml "github.com/fwojciec/storystream/yaml"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

type options struct {
	addr    string
	catalog string
	delay   time.Duration
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "storyd",
		Short:        "Serve story streams over SSE and WebSocket",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return flag.CommandLine.Parse(nil)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer glog.Flush()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.addr, "addr", ":3001", "listen address")
	flags.StringVar(&opts.catalog, "catalog", "", "path to a YAML catalog (default: built-in stories)")
	flags.DurationVar(&opts.delay, "delay", server.DefaultDelay, "pause between events")
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	return cmd
}

func run(ctx context.Context, opts options) error {
	catalog, err := loadCatalog(opts.catalog)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return serve(ctx, ln, catalog, opts.delay)
}

// serve runs the HTTP server on ln until ctx is cancelled. In-flight streams
// see ctx cancelled too, so shutdown does not wait for them to finish.
func serve(ctx context.Context, ln net.Listener, catalog storystream.Catalog, delay time.Duration) error {
	srv := &http.Server{
		Handler:           server.New(catalog, server.WithDelay(delay)),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		glog.Infof("[storyd]listening on %s streams = %v\n", ln.Addr(), catalog.StreamIDs())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	glog.Infof("[storyd]stopped\n")
	return nil
}

func loadCatalog(path string) (storystream.Catalog, error) {
	if path == "" {
		return defaultCatalog(), nil
	}
	c, err := storyyaml.LoadCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return c, nil
}

// defaultCatalog serves the three streams the client offers by default.
func defaultCatalog() storystream.Catalog {
	return storystream.Catalog{
		"stream1": {
			"Once upon a time, ",
			"in a cave beneath the hills, ",
			"there lived a goblin named Grik. ",
			"Grik collected buttons.",
		},
		"stream2": {
			"The goblin market opened at midnight. ",
			"Lanterns swayed over stalls of stolen spoons ",
			"and jars of captured thunder.",
		},
		"stream3": {
			"Nobody remembered who built the bridge. ",
			"The troll under it claimed he did, ",
			"but trolls claim a great many things.",
		},
	}
}
