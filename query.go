// Constraint is the JSON query surface described in spec §4.8/§6.4:
// a set of AND'd conditions, an optional sort, and skip/limit paging.
// Parsing and hash-bound translation live here; picking which index
// answers the query and walking it live in planner.go.
package george

import (
	"math"
	"strconv"

	json "github.com/goccy/go-json"
)

// ConditionOp is one of the comparison operators a Condition may use.
type ConditionOp string

const (
	OpGT ConditionOp = "gt"
	OpGE ConditionOp = "ge"
	OpLT ConditionOp = "lt"
	OpLE ConditionOp = "le"
	OpEQ ConditionOp = "eq"
	OpNE ConditionOp = "ne"
)

// ValueType tags how Condition.Value should be compared.
type ValueType string

const (
	TypeString ValueType = "string"
	TypeI64    ValueType = "i64"
	TypeU64    ValueType = "u64"
	TypeF64    ValueType = "f64"
	TypeBool   ValueType = "bool"
)

// Condition is one AND-ed predicate against a top-level JSON field of
// a row's decoded value.
type Condition struct {
	Param string          `json:"Param"`
	Cond  ConditionOp     `json:"Cond"`
	Type  ValueType       `json:"Type"`
	Value json.RawMessage `json:"Value"`

	// index is filled in by the planner once it matches Param
	// against a known index name; nil means "no index for this
	// field, evaluate it post-hoc only".
	index *Index
}

// Sort asks for the result set ordered by one field.
type Sort struct {
	Param string `json:"Param"`
	Asc   bool   `json:"Asc"`
}

// Constraint is the decoded request body for View.Select.
type Constraint struct {
	Conditions []Condition `json:"Conditions"`
	Sort       *Sort       `json:"Sort,omitempty"`
	Skip       uint64      `json:"Skip,omitempty"`
	Limit      uint64      `json:"Limit,omitempty"`
}

// defaultLimit applies spec §4.8's "Default Limit=10 if zero or absent".
const defaultLimit = 10

// ParseConstraint decodes raw JSON into a Constraint, applying the
// default limit.
func ParseConstraint(raw []byte) (Constraint, error) {
	var c Constraint
	if err := json.Unmarshal(raw, &c); err != nil {
		return Constraint{}, parseErr("parse constraint", err)
	}
	if c.Limit == 0 {
		c.Limit = defaultLimit
	}
	return c, nil
}

// Expectation is the result of Index.Select: the candidate rows plus
// the bookkeeping the caller needs to judge selectivity.
type Expectation struct {
	TotalScanned uint64
	MatchedCount uint64
	IndexName    string
	Asc          bool
	Values       []DataReal
}

// addressForKeyType maps raw (JSON-scalar-text) bytes into the address
// space Index.Put actually writes to for every KeyType that isn't
// hashed through h64. hashBound and Index.addressOf both call this, so
// a Sequence-engine index's write-time slot and its query-time bound
// are computed by the exact same rule — the one thing the spec's
// per-key-type translators require (spec §9 design note) and that
// diverging implementations would silently break for int/uint/float/
// bool-keyed range queries.
func addressForKeyType(kt KeyType, raw []byte) (uint64, error) {
	switch kt {
	case KeyTypeInt:
		v, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return 0, parseErr("parse int key", err)
		}
		// Bias so signed ordering matches unsigned hash-space ordering.
		return uint64(v) ^ (1 << 63), nil
	case KeyTypeUint:
		v, err := strconv.ParseUint(string(raw), 10, 64)
		if err != nil {
			return 0, parseErr("parse uint key", err)
		}
		return v, nil
	case KeyTypeFloat:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return 0, parseErr("parse float key", err)
		}
		return math.Float64bits(f), nil
	case KeyTypeBool:
		switch string(raw) {
		case "true":
			return 1, nil
		case "false":
			return 0, nil
		default:
			return 0, parseErr("parse bool key", nil)
		}
	default:
		return 0, nil
	}
}

// hashBound translates one condition's Value into this index's hash
// space, per spec §4.8 step 3. strict widens the bound by one so a
// strict gt/lt excludes the boundary value itself.
func hashBound(cond Condition, alg int, strictOffset int64) (uint64, error) {
	switch cond.Type {
	case TypeF64:
		addr, err := addressForKeyType(KeyTypeFloat, cond.Value)
		if err != nil {
			return 0, err
		}
		return uint64(int64(addr) + strictOffset), nil
	case TypeI64:
		addr, err := addressForKeyType(KeyTypeInt, cond.Value)
		if err != nil {
			return 0, err
		}
		return uint64(int64(addr) + strictOffset), nil
	case TypeU64:
		addr, err := addressForKeyType(KeyTypeUint, cond.Value)
		if err != nil {
			return 0, err
		}
		return uint64(int64(addr) + strictOffset), nil
	case TypeBool:
		return addressForKeyType(KeyTypeBool, cond.Value)
	case TypeString:
		var v string
		if err := json.Unmarshal(cond.Value, &v); err != nil {
			return 0, parseErr("condition value as string", err)
		}
		return h64(byte(cond.index.KeyType), []byte(v), alg), nil
	default:
		return 0, parseErr("unsupported condition type "+string(cond.Type), nil)
	}
}

// evaluate checks a single condition against the decoded JSON value
// of a candidate row (spec §4.10). Unsupported type/leaf combinations
// are false, not an error — a bad condition just fails to match.
func evaluate(cond Condition, value []byte) bool {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(value, &doc); err != nil {
		return false
	}
	leaf, ok := doc[cond.Param]
	if !ok {
		return false
	}

	switch cond.Type {
	case TypeF64:
		var a, b float64
		if json.Unmarshal(leaf, &a) != nil || json.Unmarshal(cond.Value, &b) != nil {
			return false
		}
		return compareFloat(a, b, cond.Cond)
	case TypeI64:
		var a, b int64
		if json.Unmarshal(leaf, &a) != nil || json.Unmarshal(cond.Value, &b) != nil {
			return false
		}
		return compareInt(a, b, cond.Cond)
	case TypeU64:
		var a, b uint64
		if json.Unmarshal(leaf, &a) != nil || json.Unmarshal(cond.Value, &b) != nil {
			return false
		}
		return compareUint(a, b, cond.Cond)
	case TypeBool:
		var a, b bool
		if json.Unmarshal(leaf, &a) != nil || json.Unmarshal(cond.Value, &b) != nil {
			return false
		}
		return compareBool(a, b, cond.Cond)
	case TypeString:
		var a, b string
		if json.Unmarshal(leaf, &a) != nil || json.Unmarshal(cond.Value, &b) != nil {
			return false
		}
		return compareString(a, b, cond.Cond)
	default:
		return false
	}
}

func compareFloat(a, b float64, op ConditionOp) bool {
	switch op {
	case OpGT:
		return a > b
	case OpGE:
		return a >= b
	case OpLT:
		return a < b
	case OpLE:
		return a <= b
	case OpEQ:
		return a == b
	case OpNE:
		return a != b
	default:
		return false
	}
}

func compareInt(a, b int64, op ConditionOp) bool {
	switch op {
	case OpGT:
		return a > b
	case OpGE:
		return a >= b
	case OpLT:
		return a < b
	case OpLE:
		return a <= b
	case OpEQ:
		return a == b
	case OpNE:
		return a != b
	default:
		return false
	}
}

func compareUint(a, b uint64, op ConditionOp) bool {
	switch op {
	case OpGT:
		return a > b
	case OpGE:
		return a >= b
	case OpLT:
		return a < b
	case OpLE:
		return a <= b
	case OpEQ:
		return a == b
	case OpNE:
		return a != b
	default:
		return false
	}
}

func compareBool(a, b bool, op ConditionOp) bool {
	switch op {
	case OpEQ:
		return a == b
	case OpNE:
		return a != b
	default:
		return false
	}
}

func compareString(a, b string, op ConditionOp) bool {
	switch op {
	case OpGT:
		return a > b
	case OpGE:
		return a >= b
	case OpLT:
		return a < b
	case OpLE:
		return a <= b
	case OpEQ:
		return a == b
	case OpNE:
		return a != b
	default:
		return false
	}
}
