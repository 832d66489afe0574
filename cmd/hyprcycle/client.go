package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/hyprcycle/internal/ipc"
	"github.com/1broseidon/hyprcycle/internal/palette"
	"github.com/1broseidon/hyprcycle/internal/switcher"
)

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the cycle order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			v, err := c.List()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), v)
			}
			writeView(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the view as JSON")
	return cmd
}

// writeView prints entries under their group titles, marking the focused one.
func writeView(w io.Writer, v *switcher.View) {
	if v.Len() == 0 {
		fmt.Fprintln(w, "no windows")
		return
	}
	for _, g := range v.Groups {
		fmt.Fprintf(w, "%s\n", g.Title)
		for _, e := range v.Entries[g.Start:g.End] {
			mark := " "
			if e.Selected {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %s\n", mark, palette.Line(e))
		}
	}
	if v.Dropped != nil {
		fmt.Fprintf(w, "warning: %v\n", v.Dropped)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFocused(w io.Writer, e *switcher.Entry) {
	fmt.Fprintf(w, "%s\n", palette.Line(*e))
}

func newStepCmd(a *app, name string, dir int) *cobra.Command {
	word := "forward"
	if dir < 0 {
		word = "backward"
	}
	return &cobra.Command{
		Use:   name + " [N]",
		Short: fmt.Sprintf("Focus the entry N steps %s (default 1)", word),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 1
			if len(args) == 1 {
				var err error
				if n, err = parseCount(args[0]); err != nil {
					return err
				}
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			e, err := c.Step(dir * n)
			if err != nil {
				return err
			}
			writeFocused(cmd.OutOrStdout(), e)
			return nil
		},
	}
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("step count must be a positive integer, got %q", s)
	}
	return n, nil
}

// parseLabel accepts "3", "+3", "-3" and "m3" (for shells and key binders
// that trip over a leading dash).
func parseLabel(s string) (int, error) {
	if len(s) > 1 && s[0] == 'm' {
		s = "-" + s[1:]
	}
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("label must be an integer, got %q", s)
	}
	return k, nil
}

func newJumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "jump LABEL",
		Short: "Focus the entry with a jump label, e.g. 2, -1 or m1",
		Example: `  hyprcycle jump 2
  hyprcycle jump -- -1
  hyprcycle jump m1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseLabel(args[0])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			e, err := c.Jump(k)
			if err != nil {
				return err
			}
			writeFocused(cmd.OutOrStdout(), e)
			return nil
		},
	}
}

func newFocusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "focus ID",
		Short: "Focus a window by address (or a workspace by id in workspace mode)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			e, err := c.Focus(args[0])
			if err != nil {
				return err
			}
			writeFocused(cmd.OutOrStdout(), e)
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			st, err := c.GetStatus()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), st)
			}
			writeStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")
	return cmd
}

func writeStatus(w io.Writer, st *ipc.StatusData) {
	fmt.Fprintf(w, "backend:      %s\n", st.Backend)
	fmt.Fprintf(w, "switch type:  %s\n", st.SwitchType)
	fmt.Fprintf(w, "grouping:     %s\n", st.Mode)
	fmt.Fprintf(w, "entries:      %d\n", st.Entries)
	if st.Selected >= 0 {
		fmt.Fprintf(w, "selected:     %d (%s)\n", st.Selected, st.ActiveWindow)
	} else {
		fmt.Fprintf(w, "selected:     none\n")
	}
	fmt.Fprintf(w, "uptime:       %s\n", time.Duration(st.UptimeSeconds)*time.Second)
	if st.LastRefresh != "" {
		fmt.Fprintf(w, "last refresh: %s\n", st.LastRefresh)
	}
}

func newReloadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Ask the daemon to reload its config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Reload()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config reloaded (%d files)\n", len(res.Files))
			for _, f := range res.Files {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", f)
			}
			return nil
		},
	}
}

// remote adapts the IPC client to the context-taking interfaces used by the
// MCP server.
type remote struct{ c *ipc.Client }

func (r remote) View(context.Context) (*switcher.View, error) { return r.c.List() }
func (r remote) Step(_ context.Context, n int) (*switcher.Entry, error) {
	return r.c.Step(n)
}
func (r remote) Jump(_ context.Context, k int) (*switcher.Entry, error) {
	return r.c.Jump(k)
}
func (r remote) Focus(_ context.Context, id string) (*switcher.Entry, error) {
	return r.c.Focus(id)
}
