package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sahilm/fuzzy"

	"github.com/1broseidon/hyprcycle/internal/switcher"
)

func (s *Server) handleListWindows(ctx context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	v, err := s.sw.View(ctx)
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	out := ListWindowsOutput{
		Mode:    v.Mode,
		Sort:    string(v.Sort),
		Windows: make([]WindowInfo, 0, v.Len()),
	}
	for _, e := range v.Entries {
		info := windowInfo(v, e)
		if args.Class != "" && !strings.EqualFold(info.Class, args.Class) {
			continue
		}
		out.Windows = append(out.Windows, info)
	}
	if args.Query != "" {
		out.Windows = fuzzyFilter(out.Windows, args.Query)
	}
	s.logger.Debug("list_windows", "count", len(out.Windows))
	return nil, out, nil
}

func fuzzyFilter(windows []WindowInfo, query string) []WindowInfo {
	haystack := make([]string, len(windows))
	for i, w := range windows {
		haystack[i] = w.Class + " " + w.Title
	}
	matches := fuzzy.Find(query, haystack)
	out := make([]WindowInfo, 0, len(matches))
	for _, m := range matches {
		out = append(out, windows[m.Index])
	}
	return out
}

func (s *Server) handleFocusWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args FocusWindowInput) (*mcpsdk.CallToolResult, FocusWindowOutput, error) {
	var (
		e   *switcher.Entry
		err error
	)
	switch {
	case args.ID != "" && args.Label != nil:
		return nil, FocusWindowOutput{}, errors.New("give either id or label, not both")
	case args.ID != "":
		e, err = s.sw.Focus(ctx, args.ID)
	case args.Label != nil:
		e, err = s.sw.Jump(ctx, *args.Label)
	default:
		return nil, FocusWindowOutput{}, errors.New("id or label is required")
	}
	if err != nil {
		return nil, FocusWindowOutput{}, err
	}
	return s.focused(ctx, e)
}

func (s *Server) handleCycle(ctx context.Context, _ *mcpsdk.CallToolRequest, args CycleInput) (*mcpsdk.CallToolResult, FocusWindowOutput, error) {
	if args.Steps == 0 {
		return nil, FocusWindowOutput{}, errors.New("steps must not be zero")
	}
	e, err := s.sw.Step(ctx, args.Steps)
	if err != nil {
		return nil, FocusWindowOutput{}, err
	}
	return s.focused(ctx, e)
}

// focused reports e against the refreshed view so the group title and
// labels reflect the new focus.
func (s *Server) focused(ctx context.Context, e *switcher.Entry) (*mcpsdk.CallToolResult, FocusWindowOutput, error) {
	s.logger.Info("focused", "id", e.ID())
	v, err := s.sw.View(ctx)
	if err == nil {
		if cur, ok := v.Lookup(e.ID()); ok {
			return nil, FocusWindowOutput{Focused: windowInfo(v, *cur)}, nil
		}
	}
	return nil, FocusWindowOutput{Focused: windowInfo(&switcher.View{}, *e)}, nil
}

func (s *Server) handleExplainOrder(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ExplainOrderInput) (*mcpsdk.CallToolResult, ExplainOrderOutput, error) {
	v, err := s.sw.View(ctx)
	if err != nil {
		return nil, ExplainOrderOutput{}, err
	}
	out := ExplainOrderOutput{
		Type:   string(v.Type),
		Mode:   v.Mode,
		Sort:   string(v.Sort),
		Groups: make([]GroupInfo, 0, len(v.Groups)),
	}
	for _, g := range v.Groups {
		info := GroupInfo{Title: g.Title}
		for _, e := range v.Entries[g.Start:g.End] {
			info.Members = append(info.Members, fmt.Sprintf("%s (%s)", e.ID(), e.Title()))
		}
		out.Groups = append(out.Groups, info)
	}
	if v.Dropped != nil {
		out.Dropped = v.Dropped.Error()
	}
	return nil, out, nil
}
