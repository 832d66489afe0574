package order

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalize_AppliesOffsets(t *testing.T) {
	items := []Window{
		{ID: "a", Rect: Rect{X: 1930, Y: 40, Width: 100, Height: 100}, Workspace: 2, Monitor: 1},
		{ID: "b", Rect: Rect{X: 10, Y: 10, Width: 50, Height: 50}, Workspace: 1, Monitor: 0},
	}
	workspaces := map[int]Point{1: {X: 0, Y: 0}, 2: {X: 1920, Y: 0}}
	monitors := map[int]Point{0: {X: 0, Y: 0}, 1: {X: 1920, Y: 0}}

	got, err := Normalize(items, workspaces, monitors)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got[0].X != 1930 || got[0].Y != 40 {
		t.Fatalf("a at (%d,%d), want (1930,40)", got[0].X, got[0].Y)
	}
	if got[1].X != 10 || got[1].Y != 10 {
		t.Fatalf("b at (%d,%d), want (10,10)", got[1].X, got[1].Y)
	}

	got, err = Normalize(items, nil, monitors)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got[0].X != 10 || got[0].Y != 40 {
		t.Fatalf("monitor-relative a at (%d,%d), want (10,40)", got[0].X, got[0].Y)
	}
}

func TestNormalize_NilLookupsAreIdentity(t *testing.T) {
	items := []Window{win("a", -5, 7, 1, 1), win("b", 3, 3, 2, 2)}
	got, err := Normalize(items, nil, nil)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if !reflect.DeepEqual(got, items) {
		t.Fatalf("Normalize() = %+v, want %+v", got, items)
	}
}

func TestNormalize_DropsMissingFrames(t *testing.T) {
	items := []Window{
		{ID: "ok", Workspace: 1, Monitor: 0},
		{ID: "no-workspace", Workspace: 9, Monitor: 0},
		{ID: "no-monitor", Workspace: 1, Monitor: 4},
	}
	workspaces := map[int]Point{1: {}}
	monitors := map[int]Point{0: {}}

	got, err := Normalize(items, workspaces, monitors)
	if want := []string{"ok"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("kept %v, want %v", ids(got), want)
	}
	if err == nil {
		t.Fatalf("expected an error describing dropped items")
	}

	var frameErr *FrameError
	if !errors.As(err, &frameErr) {
		t.Fatalf("expected *FrameError in %v", err)
	}
	if frameErr.Kind != "workspace" || frameErr.Key != 9 {
		t.Fatalf("first frame error = %+v, want workspace 9", frameErr)
	}
}

func TestRestore_RoundTrips(t *testing.T) {
	items := []Window{
		{ID: "a", Rect: Rect{X: 2000, Y: 100, Width: 10, Height: 10}, Workspace: 5, Monitor: 1},
		{ID: "b", Rect: Rect{X: -300, Y: 20, Width: 10, Height: 10}, Workspace: -98, Monitor: 0},
	}
	workspaces := map[int]Point{5: {X: 1920}, -98: {X: 0, Y: 1080}}
	monitors := map[int]Point{0: {X: -1280}, 1: {X: 1920}}

	normalized, err := Normalize(items, workspaces, monitors)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	restored, err := Restore(normalized, workspaces, monitors)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if !reflect.DeepEqual(restored, items) {
		t.Fatalf("Restore(Normalize()) = %+v, want %+v", restored, items)
	}
}

func TestLayoutWorkspaces(t *testing.T) {
	monitors := []MonitorFrame{
		{ID: 0, Rect: Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{ID: 1, Rect: Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}},
	}
	workspaces := []WorkspaceFrame{
		{ID: 3, Monitor: 0},
		{ID: 1, Monitor: 0},
		{ID: 2, Monitor: 1},
		{ID: 7, Monitor: 5},
	}

	tests := []struct {
		name     string
		vertical bool
		want     []WorkspaceFrame
	}{
		{
			name: "horizontal",
			want: []WorkspaceFrame{
				{ID: 1, Monitor: 0, Rect: Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
				{ID: 3, Monitor: 0, Rect: Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}},
				{ID: 2, Monitor: 1, Rect: Rect{X: 0, Y: 0, Width: 2560, Height: 1440}},
			},
		},
		{
			name:     "vertical",
			vertical: true,
			want: []WorkspaceFrame{
				{ID: 1, Monitor: 0, Rect: Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
				{ID: 3, Monitor: 0, Rect: Rect{X: 0, Y: 1080, Width: 1920, Height: 1080}},
				{ID: 2, Monitor: 1, Rect: Rect{X: 0, Y: 0, Width: 2560, Height: 1440}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LayoutWorkspaces(monitors, workspaces, tt.vertical)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("LayoutWorkspaces() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
