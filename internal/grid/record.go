package grid

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// IDField is the record field holding the record identity.
const IDField = "id"

// StyleField is an optional record field with per-record cell styles.
const StyleField = "$css"

// Record is one row of application data. The grid keeps a reference to the
// map, so callers may mutate fields in place and then call UpdateItem.
type Record map[string]any

// ID returns the record id as a string.
func (r Record) ID() string {
	return ValueString(r[IDField])
}

// ValueString renders a field value as text. Nil renders as "".
// Whole floats render without a fraction so JSON numbers make stable ids.
func ValueString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// toNumber converts a field value or slot text into a float64.
func toNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// sortKeys orders map keys the way a JavaScript object enumerates them:
// canonical non-negative integers ascending, then other keys.
func sortKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		a, aInt := arrayIndex(keys[i])
		b, bInt := arrayIndex(keys[j])
		switch {
		case aInt && bInt:
			return a < b
		case aInt != bInt:
			return aInt
		default:
			return keys[i] < keys[j]
		}
	})
}

func arrayIndex(s string) (uint64, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 32)
	return n, err == nil
}

// collectRecords normalizes the accepted collection shapes into an ordered
// id list and an id-keyed map. Records without an id are skipped. For slices a
// repeated id keeps its first position and its last value.
func collectRecords(items any) ([]string, map[string]Record) {
	records := make(map[string]Record)
	var order []string

	add := func(rec Record) {
		if rec == nil {
			return
		}
		id := rec.ID()
		if id == "" {
			return
		}
		if _, seen := records[id]; !seen {
			order = append(order, id)
		}
		records[id] = rec
	}

	addKeyed := func(keys []string, get func(string) Record) {
		sortKeys(keys)
		for _, k := range keys {
			rec := get(k)
			if rec == nil {
				continue
			}
			if _, ok := rec[IDField]; !ok {
				rec[IDField] = k
			}
			add(rec)
		}
	}

	switch v := items.(type) {
	case nil:
	case []Record:
		for _, rec := range v {
			add(rec)
		}
	case []map[string]any:
		for _, rec := range v {
			add(Record(rec))
		}
	case []any:
		for _, item := range v {
			if m, ok := asRecord(item); ok {
				add(m)
			}
		}
	case map[string]Record:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		addKeyed(keys, func(k string) Record { return v[k] })
	case map[string]map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		addKeyed(keys, func(k string) Record { return Record(v[k]) })
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		addKeyed(keys, func(k string) Record {
			rec, _ := asRecord(v[k])
			return rec
		})
	}
	return order, records
}

func asRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return Record(m), true
	default:
		return nil, false
	}
}
