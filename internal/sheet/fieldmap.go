package sheet

import (
	"strings"

	"github.com/clinicops/censoload/internal/normalize"
)

// Field is one canonical field and the source labels that may carry it,
// in priority order.
type Field struct {
	Name       string
	Candidates []string
}

// FieldMap is an ordered set of canonical fields. Order matters: fields are
// resolved top to bottom and the first candidate that matches a column
// claims it.
type FieldMap []Field

// Apply renames matching physical columns to their canonical field names.
// For each field, candidates are tried with a normalized exact match first,
// then a prefix match in either direction. A column claimed by one field is
// not considered for later fields; unmatched columns keep their labels and
// pass through to the open information bags. The returned map records
// canonical field -> original label for every field that resolved.
func (m FieldMap) Apply(t *Table) map[string]string {
	norms := make([]string, len(t.cols))
	labels := make([]string, len(t.cols))
	for i, c := range t.cols {
		norms[i] = normalize.Label(c)
		labels[i] = c
	}
	taken := make([]bool, len(t.cols))
	resolved := make(map[string]string)

	for _, f := range m {
		pos := -1
		for _, cand := range f.Candidates {
			cn := normalize.Label(cand)
			if cn == "" {
				continue
			}
			for i, n := range norms {
				if !taken[i] && n == cn {
					pos = i
					break
				}
			}
			if pos >= 0 {
				break
			}
		}
		if pos < 0 {
			for _, cand := range f.Candidates {
				cn := normalize.Label(cand)
				if cn == "" {
					continue
				}
				for i, n := range norms {
					if taken[i] || n == "" {
						continue
					}
					if strings.HasPrefix(n, cn) || strings.HasPrefix(cn, n) {
						pos = i
						break
					}
				}
				if pos >= 0 {
					break
				}
			}
		}
		if pos >= 0 {
			taken[pos] = true
			resolved[f.Name] = labels[pos]
			t.Rename(t.cols[pos], f.Name)
		}
	}
	return resolved
}
