package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/hyprcycle/internal/config"
	"github.com/1broseidon/hyprcycle/internal/ipc"
	"github.com/1broseidon/hyprcycle/internal/logging"
	"github.com/1broseidon/hyprcycle/internal/runtimepath"
)

var version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// app holds the global flags shared by every subcommand.
type app struct {
	configPath string
	logLevel   string
	socket     string
	stderr     io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{stderr: os.Stderr}

	root := &cobra.Command{
		Use:           "hyprcycle",
		Short:         "Cycle windows in spatial reading order",
		Long:          `hyprcycle orders the windows of a tiling compositor the way you read a page: workspace by workspace, row by row, left to right. A daemon keeps the order current; the CLI, palette, TUI, HTTP API and MCP server move focus through it.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.stderr = cmd.ErrOrStderr()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/hyprcycle/config.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "override log_level (debug, info, warn, error)")
	flags.StringVar(&a.socket, "socket", "", "daemon socket (default: $HYPRCYCLE_SOCKET or $XDG_RUNTIME_DIR/hyprcycle.sock)")

	root.AddCommand(newDaemonCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newStepCmd(a, "next", 1))
	root.AddCommand(newStepCmd(a, "prev", -1))
	root.AddCommand(newJumpCmd(a))
	root.AddCommand(newFocusCmd(a))
	root.AddCommand(newStatusCmd(a))
	root.AddCommand(newReloadCmd(a))
	root.AddCommand(newPaletteCmd(a))
	root.AddCommand(newTUICmd(a))
	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newMCPCmd(a))
	root.AddCommand(newConfigCmd(a))
	return root
}

// load reads --config, or the default location when it is unset.
func (a *app) load() (*config.LoadResult, error) {
	if a.configPath == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(a.configPath)
}

// logger builds a logger at --log-level, falling back to the config's level.
func (a *app) logger(cfgLevel string) *slog.Logger {
	level := cfgLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	return logging.New(a.stderr, level)
}

func (a *app) socketPath() (string, error) {
	if a.socket != "" {
		return a.socket, nil
	}
	return runtimepath.SocketPath()
}

func (a *app) client() (*ipc.Client, error) {
	path, err := a.socketPath()
	if err != nil {
		return nil, err
	}
	return ipc.NewClientAt(path), nil
}
