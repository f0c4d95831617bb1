package analyzer

import (
	"github.com/mitchellh/hashstructure"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/brunoribeiro/sql-parser-sub002/sql/expression"
	"github.com/brunoribeiro/sql-parser-sub002/sql/plan"
	"github.com/brunoribeiro/sql-parser-sub002/sql/transform"
)

// bindingEntry is the printable description of a single binding.
type bindingEntry struct {
	Node        string
	Table       string
	Correlation string
	Column      string
	Derived     int
}

// BindingFingerprint returns a hash of the bindings of every table and
// column reference of a bound tree, in walk order. Two bindings of the same
// statement have the same fingerprint.
func BindingFingerprint(n sql.Node) (uint64, error) {
	var entries []bindingEntry
	err := transform.Inspect(n, func(n sql.Node) bool {
		switch n := n.(type) {
		case *plan.FromTable:
			entries = append(entries, tableEntry(n.String(), n.Binding))
		case *plan.FromSubquery:
			entries = append(entries, tableEntry(n.Correlation, n.Binding))
		case *expression.ColumnRef:
			e := bindingEntry{Node: n.String(), Derived: -1}
			if b := n.Binding; b != nil {
				e = tableEntry(n.String(), b.Table)
				e.Column = b.Name()
				e.Derived = -1
				if b.Derived != nil {
					e.Derived = b.Derived.Index
				}
			}
			entries = append(entries, e)
		}
		return true
	})
	if err != nil {
		return 0, err
	}

	return hashstructure.Hash(entries, nil)
}

func tableEntry(node string, b *sql.TableBinding) bindingEntry {
	e := bindingEntry{Node: node, Derived: -1}
	if b == nil {
		return e
	}
	e.Correlation = b.Correlation
	if b.Table != nil {
		e.Table = b.Table.QualifiedName().String()
	}
	return e
}
