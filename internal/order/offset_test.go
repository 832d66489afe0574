package order

import "testing"

func TestOffset(t *testing.T) {
	tests := []struct {
		name                   string
		total, selected, query int
		maxOffset              uint8
		allowNegative, prefer  bool
		want                   int
		wantOK                 bool
	}{
		{"forward two", 5, 2, 4, 9, true, true, 2, true},
		{"backward one within small bound", 5, 2, 1, 2, true, true, -1, true},
		{"out of reach", 5, 2, 0, 1, true, true, 0, false},
		{"self is zero", 5, 2, 2, 9, true, true, 0, true},
		{"forward wins over earlier backward", 5, 2, 1, 9, true, true, 4, true},
		{"first hit wins without preference", 5, 2, 1, 9, true, false, -1, true},
		{"no negatives", 5, 2, 1, 2, false, true, 0, false},
		{"wraps forward", 4, 3, 0, 9, false, false, 1, true},
		{"zero max offset", 5, 2, 2, 0, true, true, 0, false},
		{"selected out of range", 3, 3, 0, 9, true, true, 0, false},
		{"query out of range", 3, 0, -1, 9, true, true, 0, false},
		{"empty sequence", 0, 0, 0, 9, true, true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Offset(tt.total, tt.selected, tt.query, tt.maxOffset, tt.allowNegative, tt.prefer)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("Offset(%d, %d, %d, %d, %v, %v) = (%d, %v), want (%d, %v)",
					tt.total, tt.selected, tt.query, tt.maxOffset, tt.allowNegative, tt.prefer,
					got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestOffset_CorrectAndBounded(t *testing.T) {
	for total := 1; total <= 8; total++ {
		for maxOffset := 0; maxOffset <= 10; maxOffset++ {
			for _, flags := range [][2]bool{{false, false}, {false, true}, {true, false}, {true, true}} {
				for sel := 0; sel < total; sel++ {
					for q := 0; q < total; q++ {
						k, ok := Offset(total, sel, q, uint8(maxOffset), flags[0], flags[1])
						if !ok {
							continue
						}
						if maxOffset == 0 {
							t.Fatalf("Offset(%d,%d,%d,0) returned %d", total, sel, q, k)
						}
						limit := maxOffset
						if total < limit {
							limit = total
						}
						if k > limit || -k > limit {
							t.Fatalf("Offset(%d,%d,%d,%d) = %d exceeds %d", total, sel, q, maxOffset, k, limit)
						}
						if k < 0 && !flags[0] {
							t.Fatalf("negative offset %d without allowNegative", k)
						}
						if ((sel+k)%total+total)%total != q {
							t.Fatalf("Offset(%d,%d,%d,%d) = %d does not land on query", total, sel, q, maxOffset, k)
						}
					}
				}
			}
		}
	}
}

func TestLabels(t *testing.T) {
	labels := Labels(5, 1, LabelOptions{MaxOffset: 2, AllowNegative: true, PreferPositive: true})
	want := []int{-1, 0, 1, 2, -2}
	for i, w := range want {
		if labels[i] == nil {
			t.Fatalf("label %d missing, want %d", i, w)
		}
		if *labels[i] != w {
			t.Fatalf("label %d = %d, want %d", i, *labels[i], w)
		}
	}

	labels = Labels(5, 0, LabelOptions{MaxOffset: 2})
	if labels[3] != nil || labels[4] != nil {
		t.Fatalf("expected positions 3 and 4 to be out of reach, got %v %v", labels[3], labels[4])
	}
}
