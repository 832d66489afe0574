package order

// LabelOptions controls jump label assignment.
type LabelOptions struct {
	MaxOffset      uint8 `json:"max_offset"`
	AllowNegative  bool  `json:"allow_negative"`
	PreferPositive bool  `json:"prefer_positive"`
}

// Offset returns the signed distance k, measured in positions of a cyclic
// sequence of length total, that moves from selected to query. Forward moves
// are tried before backward ones for each k from 0 up to min(maxOffset, total).
//
// With preferPositive set, a backward match is only used when no forward match
// exists within the bound. ok is false when query is out of reach, when
// maxOffset is 0, or when either index is outside [0, total).
func Offset(total, selected, query int, maxOffset uint8, allowNegative, preferPositive bool) (k int, ok bool) {
	if maxOffset == 0 || total <= 0 {
		return 0, false
	}
	if selected < 0 || selected >= total || query < 0 || query >= total {
		return 0, false
	}

	limit := int(maxOffset)
	if total < limit {
		limit = total
	}

	held, holding := 0, false
	for i := 0; i <= limit; i++ {
		if (selected+i)%total == query {
			return i, true
		}
		if !allowNegative {
			continue
		}
		if ((selected-i)%total+total)%total == query {
			if !preferPositive {
				return -i, true
			}
			if !holding {
				held, holding = -i, true
			}
		}
	}
	return held, holding
}

// Labels computes the jump label for every position of a sequence of length
// total. Entries out of reach are nil.
func Labels(total, selected int, opts LabelOptions) []*int {
	out := make([]*int, total)
	for q := 0; q < total; q++ {
		if k, ok := Offset(total, selected, q, opts.MaxOffset, opts.AllowNegative, opts.PreferPositive); ok {
			k := k
			out[q] = &k
		}
	}
	return out
}
