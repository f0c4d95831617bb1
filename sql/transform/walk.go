package transform

import (
	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/brunoribeiro/sql-parser-sub002/sql/expression"
	"github.com/brunoribeiro/sql-parser-sub002/sql/plan"
)

// Order is the order in which a visitor wants a node visited relative to
// its children.
type Order byte

const (
	// PostOrder visits the children of a node before the node itself.
	PostOrder Order = iota
	// PreOrder visits a node before its children.
	PreOrder
)

// Visitor visits the nodes of a statement tree.
type Visitor interface {
	// Order returns the traversal order the visitor wants.
	Order() Order
	// Before is invoked when the walk enters a node, before anything else is
	// done with it. Returning false prevents the walk from descending into
	// the children of the node.
	Before(n sql.Node) (descend bool, err error)
	// After is invoked before the children of a node are walked for PreOrder
	// visitors, and after them for PostOrder visitors. The returned node
	// replaces the visited one in its parent.
	After(n sql.Node) (sql.Node, error)
}

// Walk traverses the tree rooted at node in depth-first order with the
// given visitor and returns the node that replaces the root. The walk
// stops at the first error.
func Walk(v Visitor, node sql.Node) (sql.Node, error) {
	descend, err := v.Before(node)
	if err != nil {
		return nil, err
	}

	if v.Order() == PreOrder {
		node, err = v.After(node)
		if err != nil {
			return nil, err
		}
		if descend {
			if err := walkChildren(v, node); err != nil {
				return nil, err
			}
		}
		return node, nil
	}

	if descend {
		if err := walkChildren(v, node); err != nil {
			return nil, err
		}
	}
	return v.After(node)
}

func walkChildren(v Visitor, node sql.Node) error {
	var err error
	switch n := node.(type) {
	case *plan.Cursor:
		n.Query, err = walkQuery(v, n, n.Query)
	case *plan.Select:
		return walkSelect(v, n)
	case *plan.Union:
		if n.Left, err = walkQuery(v, n, n.Left); err != nil {
			return err
		}
		n.Right, err = walkQuery(v, n, n.Right)
	case *plan.ResultColumn:
		n.Expression, err = walkExpr(v, n, n.Expression)
	case *plan.OrderByColumn:
		n.Expression, err = walkExpr(v, n, n.Expression)
	case *plan.FromSubquery:
		n.Query, err = walkQuery(v, n, n.Query)
	case *plan.JoinNode:
		if n.Left, err = walkFrom(v, n, n.Left); err != nil {
			return err
		}
		if n.Right, err = walkFrom(v, n, n.Right); err != nil {
			return err
		}
		n.On, err = walkExpr(v, n, n.On)
	case *plan.Subquery:
		if n.Left, err = walkExpr(v, n, n.Left); err != nil {
			return err
		}
		n.Query, err = walkQuery(v, n, n.Query)
	case *expression.And:
		return walkBinary(v, n, &n.BinaryExpression)
	case *expression.Or:
		return walkBinary(v, n, &n.BinaryExpression)
	case *expression.Comparison:
		return walkBinary(v, n, &n.BinaryExpression)
	case *expression.Arithmetic:
		return walkBinary(v, n, &n.BinaryExpression)
	case *expression.Not:
		n.Child, err = walkExpr(v, n, n.Child)
	case *expression.IsNull:
		n.Child, err = walkExpr(v, n, n.Child)
	case *expression.Cast:
		n.Child, err = walkExpr(v, n, n.Child)
	case *expression.Case:
		if n.Operand, err = walkExpr(v, n, n.Operand); err != nil {
			return err
		}
		for i := range n.Branches {
			if n.Branches[i].Cond, err = walkExpr(v, n, n.Branches[i].Cond); err != nil {
				return err
			}
			if n.Branches[i].Value, err = walkExpr(v, n, n.Branches[i].Value); err != nil {
				return err
			}
		}
		n.Else, err = walkExpr(v, n, n.Else)
	case *expression.Coalesce:
		n.Args, err = walkExprs(v, n, n.Args)
	case *expression.InList:
		if n.Left, err = walkExpr(v, n, n.Left); err != nil {
			return err
		}
		n.List, err = walkExprs(v, n, n.List)
	case *plan.FromTable,
		*plan.FromGroupTable,
		*expression.ColumnRef,
		*expression.Literal,
		*expression.BooleanConstant,
		*expression.Star:
	default:
		return sql.ErrUnknownNode.New(node)
	}
	return err
}

func walkSelect(v Visitor, n *plan.Select) error {
	var err error
	for i, f := range n.From {
		if n.From[i], err = walkFrom(v, n, f); err != nil {
			return err
		}
	}

	for i, p := range n.Projections {
		r, err := Walk(v, p)
		if err != nil {
			return err
		}
		rc, ok := r.(*plan.ResultColumn)
		if !ok {
			return sql.ErrInvalidChildType.New(n, r, "*plan.ResultColumn")
		}
		n.Projections[i] = rc
	}

	if n.Where, err = walkExpr(v, n, n.Where); err != nil {
		return err
	}
	if n.GroupBy, err = walkExprs(v, n, n.GroupBy); err != nil {
		return err
	}
	if n.Having, err = walkExpr(v, n, n.Having); err != nil {
		return err
	}

	for i, o := range n.OrderBy {
		r, err := Walk(v, o)
		if err != nil {
			return err
		}
		oc, ok := r.(*plan.OrderByColumn)
		if !ok {
			return sql.ErrInvalidChildType.New(n, r, "*plan.OrderByColumn")
		}
		n.OrderBy[i] = oc
	}

	if n.Offset, err = walkExpr(v, n, n.Offset); err != nil {
		return err
	}
	n.FetchFirst, err = walkExpr(v, n, n.FetchFirst)
	return err
}

func walkBinary(v Visitor, parent sql.Node, b *expression.BinaryExpression) error {
	var err error
	if b.Left, err = walkExpr(v, parent, b.Left); err != nil {
		return err
	}
	b.Right, err = walkExpr(v, parent, b.Right)
	return err
}

func walkExpr(v Visitor, parent sql.Node, e sql.Expression) (sql.Expression, error) {
	if e == nil {
		return nil, nil
	}

	r, err := Walk(v, e)
	if err != nil {
		return nil, err
	}

	re, ok := r.(sql.Expression)
	if !ok {
		return nil, sql.ErrInvalidChildType.New(parent, r, "sql.Expression")
	}
	return re, nil
}

func walkExprs(v Visitor, parent sql.Node, exprs []sql.Expression) ([]sql.Expression, error) {
	for i, e := range exprs {
		r, err := walkExpr(v, parent, e)
		if err != nil {
			return nil, err
		}
		exprs[i] = r
	}
	return exprs, nil
}

func walkFrom(v Visitor, parent sql.Node, f plan.FromItem) (plan.FromItem, error) {
	r, err := Walk(v, f)
	if err != nil {
		return nil, err
	}

	rf, ok := r.(plan.FromItem)
	if !ok {
		return nil, sql.ErrInvalidChildType.New(parent, r, "plan.FromItem")
	}
	return rf, nil
}

func walkQuery(v Visitor, parent sql.Node, q sql.Node) (sql.Node, error) {
	r, err := Walk(v, q)
	if err != nil {
		return nil, err
	}

	switch r.(type) {
	case *plan.Select, *plan.Union:
		return r, nil
	default:
		return nil, sql.ErrInvalidChildType.New(parent, r, "*plan.Select or *plan.Union")
	}
}
