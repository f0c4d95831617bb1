package transform

import (
	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// Funcs is a Visitor made of plain functions. Nil functions descend into
// every node and leave it unchanged.
type Funcs struct {
	Ord        Order
	BeforeFunc func(sql.Node) (bool, error)
	AfterFunc  func(sql.Node) (sql.Node, error)
}

// Order implements the Visitor interface.
func (f Funcs) Order() Order {
	return f.Ord
}

// Before implements the Visitor interface.
func (f Funcs) Before(n sql.Node) (bool, error) {
	if f.BeforeFunc == nil {
		return true, nil
	}
	return f.BeforeFunc(n)
}

// After implements the Visitor interface.
func (f Funcs) After(n sql.Node) (sql.Node, error) {
	if f.AfterFunc == nil {
		return n, nil
	}
	return f.AfterFunc(n)
}

// Node applies the transformation function to every node of the tree,
// children first.
func Node(n sql.Node, fn func(sql.Node) (sql.Node, error)) (sql.Node, error) {
	return Walk(Funcs{Ord: PostOrder, AfterFunc: fn}, n)
}

// Inspect traverses the tree in pre-order: it calls f(node) and, if it
// returns true, descends into the children of the node.
func Inspect(n sql.Node, f func(sql.Node) bool) error {
	_, err := Walk(Funcs{
		Ord: PreOrder,
		BeforeFunc: func(n sql.Node) (bool, error) {
			return f(n), nil
		},
	}, n)
	return err
}

// Contains reports whether any node strictly below n satisfies the
// predicate.
func Contains(n sql.Node, pred func(sql.Node) bool) (bool, error) {
	var found bool
	err := Inspect(n, func(c sql.Node) bool {
		if found {
			return false
		}
		if c != n && pred(c) {
			found = true
			return false
		}
		return true
	})
	return found, err
}
