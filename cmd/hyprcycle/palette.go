package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/1broseidon/hyprcycle/internal/palette"
)

func newPaletteCmd(a *app) *cobra.Command {
	var backendName string
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Pick a window from rofi, fuzzel, wofi or dmenu",
		Long: `Show the cycle order in an external menu and focus the chosen entry.

Entries are prefixed with their jump label so typing "+2" or "-1" narrows the
list to that window. Rofi shows group headers; other menus list entries only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load()
			if err != nil {
				return err
			}
			cfg := res.Config
			if backendName == "" {
				backendName = cfg.Palette.Backend
			}
			backend, err := palette.NewBackend(backendName, palette.Options{
				FuzzyMatching: cfg.Palette.FuzzyMatching,
			})
			if err != nil {
				return err
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			v, err := c.List()
			if err != nil {
				return err
			}
			e, err := palette.Pick(backend, v)
			if errors.Is(err, palette.ErrCancelled) {
				return nil
			}
			if err != nil {
				return err
			}
			_, err = c.Focus(e.ID())
			return err
		},
	}
	cmd.Flags().StringVar(&backendName, "backend", "", "menu program (overrides palette.backend)")
	return cmd
}
