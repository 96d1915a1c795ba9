// Command storystream renders live story streams in the terminal.
//
// Usage:
//
//	storystream [flags] [stream]
//	storystream config [flags] [stream]
//
// Flags:
//
//	--config string       Path to config file (default: ~/.storystream/config.yaml)
//	--base-url string     Server root, overrides the config file
//	--transport string    Transport: sse, websocket (overrides the config file)
//	--timeout duration    Handshake timeout, 0 for none (default 10s)
//
// The config subcommand prints the effective configuration as YAML.
//
// glog flags (-v, -logtostderr, -log_dir, ...) are accepted as well. Logs go
// to files under the temp directory unless -logtostderr is set.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/fwojciec/storystream"
	bt "github.com/fwojciec/storystream/bubbletea"
	storyglog "github.com/fwojciec/storystream/glog"
	storyjson "github.com/fwojciec/storystream/json"
	"github.com/fwojciec/storystream/sse"
	storyws "github.com/fwojciec/storystream/websocket"
	storyyaml "github.com/fwojciec/storystream/yaml"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

const defaultTimeout = 10 * time.Second

type options struct {
	configPath string
	baseURL    string
	transport  string
	timeout    time.Duration
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "storystream [stream]",
		Short: "Watch live story streams in the terminal",
		Long: `storystream connects to a story server and renders the selected stream
as it arrives. Switching streams discards the previous story and ignores
anything its connection still delivers.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			// glog reads its flags from the standard flag set, which cobra
			// has already populated.
			return flag.CommandLine.Parse(nil)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	pflags := cmd.PersistentFlags()
	pflags.StringVar(&opts.configPath, "config", "", "path to config file (default ~/.storystream/config.yaml)")
	pflags.StringVar(&opts.baseURL, "base-url", "", "server root, overrides the config file")
	pflags.StringVar(&opts.transport, "transport", "", "transport: sse, websocket (overrides the config file)")
	pflags.AddGoFlagSet(flag.CommandLine)
	cmd.Flags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "handshake timeout, 0 for none")

	cmd.AddCommand(newConfigCommand(&opts))
	return cmd
}

func newConfigCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config [stream]",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(*opts, args, defaultConfigPath())
			if err != nil {
				return err
			}
			data, err := storyyaml.MarshalConfig(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func run(ctx context.Context, opts options, args []string) error {
	defer storyglog.Flush()

	cfg, err := resolveConfig(opts, args, defaultConfigPath())
	if err != nil {
		return err
	}
	transport, err := buildTransport(cfg, opts.timeout)
	if err != nil {
		return err
	}

	manager := storystream.NewManager(transport, storyjson.Decoder{},
		storystream.WithReporter(storyglog.Reporter{}))
	defer manager.Shutdown()

	if err := manager.SelectStream(cfg.Initial()); err != nil {
		return fmt.Errorf("select %s: %w", cfg.Initial(), err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bt.Run(ctx, bt.New(manager, cfg.Streams, storystream.DefaultTheme())); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// resolveConfig loads the config file, applies flag and argument overrides
// and validates the result. A missing file is tolerated only at the default
// path.
func resolveConfig(opts options, args []string, defaultPath string) (storystream.Config, error) {
	path := opts.configPath
	if path == "" {
		path = defaultPath
	}
	cfg, err := storyyaml.LoadConfig(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && opts.configPath == "":
		// No config file yet; use built-in defaults.
		cfg = storystream.DefaultConfig()
	default:
		return storystream.Config{}, fmt.Errorf("load config: %w", err)
	}

	if opts.baseURL != "" {
		cfg.BaseURL = opts.baseURL
	}
	if opts.transport != "" {
		cfg.Transport = opts.transport
	}
	if len(args) > 0 {
		if !slices.Contains(cfg.Streams, args[0]) {
			cfg.Streams = append(cfg.Streams, args[0])
		}
		cfg.InitialStream = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return storystream.Config{}, err
	}
	return cfg, nil
}

// buildTransport constructs the transport named by cfg.Transport. A positive
// timeout bounds the handshake only; established streams never time out.
func buildTransport(cfg storystream.Config, timeout time.Duration) (storystream.Transport, error) {
	switch cfg.Transport {
	case storystream.TransportSSE:
		opts := []sse.Option{sse.WithBaseURL(cfg.BaseURL)}
		if timeout > 0 {
			t := http.DefaultTransport.(*http.Transport).Clone()
			t.ResponseHeaderTimeout = timeout
			opts = append(opts, sse.WithHTTPClient(&http.Client{Transport: t}))
		}
		return sse.New(opts...), nil
	case storystream.TransportWebSocket:
		opts := []storyws.Option{storyws.WithBaseURL(cfg.BaseURL)}
		if timeout > 0 {
			opts = append(opts, storyws.WithDialer(&websocket.Dialer{
				Proxy:            http.ProxyFromEnvironment,
				HandshakeTimeout: timeout,
			}))
		}
		return storyws.New(opts...), nil
	default:
		return nil, fmt.Errorf("unknown transport %q: must be %q or %q",
			cfg.Transport, storystream.TransportSSE, storystream.TransportWebSocket)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".storystream", "config.yaml")
}
