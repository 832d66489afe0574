package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/hyprcycle/internal/ipc"
	"github.com/1broseidon/hyprcycle/internal/switcher"
	"github.com/1broseidon/hyprcycle/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive switcher and settings editor",
		Long: `Interactive switcher and settings editor. Requires a running daemon.

Keybindings:
  tab/j, shift+tab/k  Move through the cycle
  0-9, -N             Jump to a label
  enter               Focus and quit
  s                   Edit settings (saved to the config file)
  r                   Refresh
  q, esc              Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load()
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			chosen, err := tui.Run(tui.Options{
				Source:     tuiSource{c},
				Config:     res.Config,
				ConfigPath: res.Path,
				OnSaved: func() error {
					_, err := c.Reload()
					return err
				},
			})
			if err != nil {
				return err
			}
			if chosen != nil {
				fmt.Fprintln(cmd.OutOrStdout(), chosen.ID())
			}
			return nil
		},
	}
}

type tuiSource struct{ c *ipc.Client }

func (s tuiSource) List() (*switcher.View, error)            { return s.c.List() }
func (s tuiSource) Focus(id string) (*switcher.Entry, error) { return s.c.Focus(id) }
