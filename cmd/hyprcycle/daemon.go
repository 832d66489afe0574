package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/hyprcycle/internal/api"
	"github.com/1broseidon/hyprcycle/internal/daemon"
	"github.com/1broseidon/hyprcycle/internal/hotkeys"
	"github.com/1broseidon/hyprcycle/internal/ipc"
	"github.com/1broseidon/hyprcycle/internal/order"
	"github.com/1broseidon/hyprcycle/internal/platform"
)

func newDaemonCmd(a *app) *cobra.Command {
	var (
		listen    string
		noHotkeys bool
	)
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the switcher daemon in the foreground",
		Long: `Run the switcher daemon in the foreground.

The daemon keeps a snapshot of the compositor current through its event
socket (Hyprland) or root window events (X11), and serves the ordered view
over a Unix socket. SIGHUP reloads the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load()
			if err != nil {
				return err
			}
			cfg := res.Config
			logger := a.logger(cfg.LogLevel)

			backend, err := platform.Open(cfg.Backend)
			if err != nil {
				return err
			}
			defer backend.Close()

			d := daemon.New(backend, res, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			socket, err := a.socketPath()
			if err != nil {
				return err
			}
			srv := ipc.NewServer(socket, d.Controller, backend.Name(), logger)
			if err := srv.Start(); err != nil {
				return err
			}
			defer srv.Stop()

			hup := make(chan os.Signal, 1)
			signal.Notify(hup, syscall.SIGHUP)
			defer signal.Stop(hup)
			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case <-hup:
						logger.Info("received SIGHUP, reloading config")
						if _, err := d.Controller.Reload(); err != nil {
							logger.Error("config reload failed", "err", err)
						}
					}
				}
			}()

			if listen == "" {
				listen = cfg.API.Listen
			}
			if listen != "" {
				monitors := func() []order.MonitorFrame {
					if snap := d.Store.Snapshot(); snap != nil {
						return snap.Monitors
					}
					return nil
				}
				httpSrv := api.NewServer(d.Controller, d.Store, monitors, logger)
				go func() {
					if err := httpSrv.Serve(ctx, listen); err != nil {
						logger.Error("API server failed", "addr", listen, "err", err)
					}
				}()
			}

			if !noHotkeys {
				if err := registerHotkeys(backend, d, socket, logger); err != nil {
					return err
				}
			}

			logger.Info("hyprcycle daemon started", "backend", backend.Name(), "socket", socket, "config", res.Path)
			d.Run(ctx)
			logger.Info("shutting down hyprcycle daemon")
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "serve the HTTP API on this address (overrides api.listen)")
	cmd.Flags().BoolVar(&noHotkeys, "no-hotkeys", false, "do not grab global hotkeys (x11)")
	return cmd
}

func registerHotkeys(backend platform.Backend, d *daemon.Daemon, socket string, logger *slog.Logger) error {
	h, err := hotkeys.NewHandler(backend, logger)
	if errors.Is(err, hotkeys.ErrUnsupported) {
		logger.Debug("hotkeys disabled", "backend", backend.Name())
		return nil
	}
	if err != nil {
		return err
	}
	if err := h.Register(d.Store.Config().Hotkeys, d.Controller, launchPalette(socket, logger)); err != nil {
		return fmt.Errorf("hotkeys: %w", err)
	}
	return nil
}

// launchPalette runs "hyprcycle palette" as a child process talking to the
// same socket.
func launchPalette(socket string, logger *slog.Logger) func() {
	return func() {
		exe, err := os.Executable()
		if err != nil {
			logger.Warn("palette: failed to find executable", "err", err)
			return
		}
		cmd := exec.Command(exe, "palette", "--socket", socket)
		cmd.Stderr = os.Stderr
		if err := cmd.Start(); err != nil {
			logger.Warn("palette: failed to launch", "err", err)
			return
		}
		go cmd.Wait()
	}
}
