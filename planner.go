// The query planner: picks which index answers a Constraint, derives
// that index's hash-space bounds from the matching conditions, and
// delegates the walk to Index.Select. Spec §4.8.
package george

import "math"

// plan implements spec §4.8 steps 1-5 against view's current indexes.
func plan(v *View, c Constraint) (Expectation, error) {
	for i := range c.Conditions {
		if ix, ok := v.indexes[c.Conditions[i].Param]; ok {
			c.Conditions[i].index = ix
		}
	}

	ix, asc := pickIndex(v, c)
	if ix == nil {
		return Expectation{}, ErrIndexNotFound
	}

	start, end, err := computeBounds(ix, c)
	if err != nil {
		return Expectation{}, err
	}

	return ix.Select(v, asc, start, end, c)
}

// pickIndex scores candidates per spec §4.8 step 2: a Sort on an
// indexed param wins outright; otherwise the condition whose bound
// tightening scores highest; otherwise the first index in the map,
// full scan ascending.
func pickIndex(v *View, c Constraint) (*Index, bool) {
	if c.Sort != nil {
		if ix, ok := v.indexes[c.Sort.Param]; ok {
			return ix, true
		}
	}

	var best *Index
	bestScore := -1
	for _, cond := range c.Conditions {
		if cond.index == nil {
			continue
		}
		score := 0
		switch cond.Cond {
		case OpGT, OpGE:
			score++
		case OpLT, OpLE:
			score++
		case OpEQ:
			score += 2
		}
		if score > bestScore {
			bestScore = score
			best = cond.index
		}
	}
	if best != nil {
		return best, true
	}

	for _, ix := range v.indexes {
		return ix, true
	}
	return nil, true
}

// computeBounds translates every condition attached to ix into a
// single (start, end) hash-space range, per spec §4.8 step 3. Disk
// and Increment nodes don't support ordered range scans (spec §4.5),
// so bounds are advisory there and the node ignores them.
func computeBounds(ix *Index, c Constraint) (uint64, uint64, error) {
	start, end := uint64(0), uint64(0)
	if !ix.node.supportsRange() {
		return 0, 0, nil
	}

	for _, cond := range c.Conditions {
		if cond.index != ix {
			continue
		}
		switch cond.Cond {
		case OpGT:
			b, err := hashBound(cond, ix.alg, 1)
			if err != nil {
				return 0, 0, err
			}
			start = maxU64(start, b)
		case OpGE:
			b, err := hashBound(cond, ix.alg, 0)
			if err != nil {
				return 0, 0, err
			}
			start = maxU64(start, b)
		case OpLT:
			b, err := hashBound(cond, ix.alg, -1)
			if err != nil {
				return 0, 0, err
			}
			end = minNonzero(end, b)
		case OpLE:
			b, err := hashBound(cond, ix.alg, 0)
			if err != nil {
				return 0, 0, err
			}
			end = minNonzero(end, b)
		case OpEQ:
			b, err := hashBound(cond, ix.alg, 0)
			if err != nil {
				return 0, 0, err
			}
			start, end = b, b
		}
	}
	if end == 0 {
		end = math.MaxUint64
	}
	return start, end, nil
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func minNonzero(a, b uint64) uint64 {
	if a == 0 {
		return b
	}
	if b < a {
		return b
	}
	return a
}
