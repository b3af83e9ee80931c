// Index wraps one node engine plus its own fileStore and identity
// (engine, key type, primary/unique/null), per spec §4.7's contract:
// put/get/del/select.
package george

import (
	"sort"
	"strconv"

	"go.uber.org/zap"
)

// KeyType tags how a raw key or extracted JSON field is hashed and
// how the planner must decode Condition.Value for this index.
type KeyType uint8

const (
	KeyTypeNone KeyType = iota
	KeyTypeString
	KeyTypeUint
	KeyTypeInt
	KeyTypeBool
	KeyTypeFloat
)

// Index is the public contract every query and write path goes
// through; Node is the engine-specific descent underneath it.
type Index struct {
	Name       string
	Engine     engine
	Primary    bool
	Unique     bool
	Null       bool
	KeyType    KeyType
	createTime int64

	store *fileStore
	node  node
	alg   int
	log   *zap.SugaredLogger
}

// Put reserves a slot for key in seed. force=false on a unique index
// surfaces ErrDataExist if the key already resolves to a live slot.
// Routes through addressOf so the slot written here is the same one
// Get/Del (and, for range-capable engines, the planner's hash-bound
// translation) compute for the identical key. The increment engine is
// the one exception: incrementNode.put ignores the address entirely
// (the counter is self-assigned), and the raw key it's given on Put is
// the user's string key rather than a decimal counter, so addressOf's
// ParseUint branch doesn't apply here.
func (ix *Index) Put(key []byte, seed *Seed, force bool) error {
	var h uint64
	if ix.Engine != engineIncrement {
		var err error
		h, err = ix.addressOf(key)
		if err != nil {
			return err
		}
	}
	if err := ix.node.put(h, ix.Name, seed, force); err != nil {
		ix.log.Debugw("index put failed", "index", ix.Name, "err", err)
		return err
	}
	return nil
}

// Get resolves key to its locator, then to the full DataReal by
// reading the owning view's payload log. The increment engine
// addresses by the counter itself, not a hash of it (spec S1's
// get("increment","1") means literal counter 1).
func (ix *Index) Get(key []byte, view *View) (DataReal, error) {
	h, err := ix.addressOf(key)
	if err != nil {
		return DataReal{}, err
	}
	loc, err := ix.node.get(h)
	if err != nil {
		return DataReal{}, err
	}
	return view.readLocator(loc)
}

// addressOf computes the slot a key maps to. String-keyed (and
// untyped) indexes hash through h64; int/uint/float/bool-keyed
// indexes go through the same addressForKeyType encoding hashBound
// uses for query bounds, so a Sequence-engine range scan lands on the
// slots Put actually wrote.
func (ix *Index) addressOf(key []byte) (uint64, error) {
	if ix.Engine == engineIncrement {
		v, err := strconv.ParseUint(string(key), 10, 64)
		if err != nil {
			return 0, parseErr("parse increment key", err)
		}
		return v, nil
	}
	switch ix.KeyType {
	case KeyTypeInt, KeyTypeUint, KeyTypeFloat, KeyTypeBool:
		return addressForKeyType(ix.KeyType, key)
	default:
		return h64(byte(ix.KeyType), key, ix.alg), nil
	}
}

// Del reserves a zeroing write for key's slot.
func (ix *Index) Del(key []byte, seed *Seed) error {
	h, err := ix.addressOf(key)
	if err != nil {
		return err
	}
	return ix.node.del(h, ix.Name, seed)
}

// Select runs the node's own scan, resolves every candidate locator
// to a DataReal via view, evaluates every condition (not just the
// one that picked this index, per spec §4.8 step 4), and applies
// skip/limit during iteration followed by an in-memory stable sort
// if Sort was requested.
func (ix *Index) Select(view *View, asc bool, startHash, endHash uint64, c Constraint) (Expectation, error) {
	locs, err := ix.node.scan(asc, startHash, endHash)
	if err != nil {
		return Expectation{}, err
	}

	exp := Expectation{IndexName: ix.Name, Asc: asc}
	var skipped uint64

	for _, loc := range locs {
		exp.TotalScanned++

		row, err := view.readLocator(loc)
		if err != nil {
			continue
		}

		matched := true
		for _, cond := range c.Conditions {
			if !evaluate(cond, row.Value) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		exp.MatchedCount++

		if skipped < c.Skip {
			skipped++
			continue
		}
		if c.Limit > 0 && uint64(len(exp.Values)) >= c.Limit {
			continue
		}
		exp.Values = append(exp.Values, row)
	}

	if c.Sort != nil {
		sortRows(exp.Values, c.Sort)
	}
	return exp, nil
}

func sortRows(rows []DataReal, s *Sort) {
	sort.SliceStable(rows, func(i, j int) bool {
		vi := fieldString(rows[i].Value, s.Param)
		vj := fieldString(rows[j].Value, s.Param)
		if s.Asc {
			return vi < vj
		}
		return vi > vj
	})
}
