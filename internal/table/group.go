package table

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

type KeyOrder string

const (
	OrderAscending KeyOrder = "ascending"
	OrderFirstSeen KeyOrder = "first_seen"
)

type Group struct {
	Key  string
	Rows []Row
}

// Grouped maps the distinct values of Column to their rows, in key order.
type Grouped struct {
	Column string
	SortBy string
	Groups []Group
}

func (g *Grouped) Keys() []string {
	keys := make([]string, len(g.Groups))
	for i, grp := range g.Groups {
		keys[i] = grp.Key
	}
	return keys
}

func (g *Grouped) Len() int {
	n := 0
	for _, grp := range g.Groups {
		n += len(grp.Rows)
	}
	return n
}

// GroupBy partitions t by the values of key, compared after groupKey. An empty key yields a single group
// holding every row. When sortBy is set each group is stable-sorted ascending by
// that numeric column.
func GroupBy(t *Table, key, sortBy string, order KeyOrder) (*Grouped, error) {
	if key != "" {
		if err := t.requireColumns(key); err != nil {
			return nil, err
		}
	}
	if sortBy != "" {
		if err := t.requireColumns(sortBy); err != nil {
			return nil, err
		}
	}

	var keys []string
	buckets := make(map[string][]Row)
	for _, row := range t.Rows {
		k := ""
		if key != "" {
			k = groupKey(row, key)
		}
		if _, ok := buckets[k]; !ok {
			keys = append(keys, k)
		}
		buckets[k] = append(buckets[k], row)
	}

	if order != OrderFirstSeen {
		SortKeys(keys)
	}

	g := &Grouped{Column: key, SortBy: sortBy, Groups: make([]Group, 0, len(keys))}
	for _, k := range keys {
		rows := buckets[k]
		if sortBy != "" {
			if err := sortRows(rows, sortBy); err != nil {
				return nil, err
			}
		}
		g.Groups = append(g.Groups, Group{Key: k, Rows: rows})
	}
	return g, nil
}

// groupKey is the trimmed cell text, with numbers written in one canonical form
// so that "100", "100.0" and "1e2" land in the same group.
func groupKey(r Row, col string) string {
	k := strings.TrimSpace(r.String(col))
	if v, ok := ParseNumber(k); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return k
}

// SortKeys sorts numerically when every key is a number and lexically otherwise.
func SortKeys(keys []string) {
	nums := make(map[string]float64, len(keys))
	for _, k := range keys {
		v, ok := ParseNumber(k)
		if !ok {
			slices.Sort(keys)
			return
		}
		nums[k] = v
	}
	slices.SortStableFunc(keys, func(a, b string) int {
		return cmp.Or(cmp.Compare(nums[a], nums[b]), cmp.Compare(a, b))
	})
}

func sortRows(rows []Row, col string) error {
	for _, r := range rows {
		if _, ok := numericValue(r, col); !ok {
			return fmt.Errorf("sort by %q: line %d has non-numeric value %q", col, r.Line, r.String(col))
		}
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		x, _ := numericValue(a, col)
		y, _ := numericValue(b, col)
		return cmp.Compare(x, y)
	})
	return nil
}

func numericValue(r Row, col string) (float64, bool) {
	if v, ok := r.Float(col); ok {
		return v, true
	}
	return ParseNumber(r.String(col))
}

// Partition is one combination of split column values and the rows carrying it.
type Partition struct {
	Values map[string]string
	Table  *Table
}

// Split partitions t by every combination of cols that occurs in the data,
// ordered ascending by the first column, then the second, and so on.
func Split(t *Table, cols ...string) ([]Partition, error) {
	if err := t.requireColumns(cols...); err != nil {
		return nil, err
	}

	parts := []Partition{{Values: map[string]string{}, Table: t}}
	for _, col := range cols {
		next := make([]Partition, 0, len(parts))
		for _, p := range parts {
			g, err := GroupBy(p.Table, col, "", OrderAscending)
			if err != nil {
				return nil, err
			}
			for _, grp := range g.Groups {
				values := maps.Clone(p.Values)
				values[col] = grp.Key
				next = append(next, Partition{Values: values, Table: t.derive(grp.Rows)})
			}
		}
		parts = next
	}
	return parts, nil
}
