package memory

import (
	"testing"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/stretchr/testify/require"
)

func newGroupFixture(t *testing.T) (customers, orders, items *Table) {
	require := require.New(t)

	integer := sql.NewType(sql.Integer, false)
	customers = NewTable("customers",
		ColumnDef{Name: "id", Type: integer},
		ColumnDef{Name: "name", Type: sql.NewString(sql.Varchar, 32, true)},
	)
	orders = NewTable("orders",
		ColumnDef{Name: "id", Type: integer},
		ColumnDef{Name: "customer_id", Type: integer, GroupColumn: "orders$cid"},
	)
	items = NewTable("items",
		ColumnDef{Name: "id", Type: integer},
		ColumnDef{Name: "order_id", Type: integer},
	)

	db := NewDatabase("test")
	db.AddTable(customers)
	db.AddTable(orders)
	db.AddTable(items)

	require.NoError(customers.SetPrimaryKey("id"))
	require.NoError(orders.SetPrimaryKey("id"))
	require.NoError(items.SetPrimaryKey("id"))

	_, err := NewGroup("coi", customers)
	require.NoError(err)
	require.NoError(orders.SetParent(customers, []string{"customer_id"}, []string{"id"}))
	require.NoError(items.SetParent(orders, []string{"order_id"}, []string{"id"}))
	return customers, orders, items
}

func TestTableColumns(t *testing.T) {
	require := require.New(t)
	customers, orders, _ := newGroupFixture(t)

	c, ok := customers.Column("name")
	require.True(ok)
	require.Equal(1, c.Position())
	require.Equal(sql.NewString(sql.Varchar, 32, true), c.Type())
	require.Equal("customers$name", c.GroupColumnName())
	require.Equal(customers, c.Table())

	c, ok = orders.Column("customer_id")
	require.True(ok)
	require.Equal("orders$cid", c.GroupColumnName())

	_, ok = orders.Column("nope")
	require.False(ok)

	require.Len(customers.PrimaryKey(), 1)
	require.Equal("id", customers.PrimaryKey()[0].Name())
}

func TestTableGroups(t *testing.T) {
	require := require.New(t)
	customers, orders, items := newGroupFixture(t)

	require.Equal(0, customers.Depth())
	require.Equal(1, orders.Depth())
	require.Equal(2, items.Depth())

	g := customers.Group()
	require.NotNil(g)
	require.Equal("coi", g.Name())
	require.Equal(sql.QualifiedName{Schema: "test", Name: "coi"}, g.TableName())
	require.Equal(customers, g.Root())
	require.Equal(g, orders.Group())
	require.Equal(g, items.Group())

	require.Nil(customers.ParentJoin())
	join := items.ParentJoin()
	require.NotNil(join)
	require.Equal(orders, join.Parent)
	require.Equal(items, join.Child)
	require.Len(join.Columns, 1)
	require.Equal("order_id", join.Columns[0].Child.Name())
	require.Equal("id", join.Columns[0].Parent.Name())
}

func TestTableWithoutGroup(t *testing.T) {
	require := require.New(t)

	table := NewTable("t", ColumnDef{Name: "a", Type: sql.NewType(sql.Integer, true)})
	require.Nil(table.Group())
	require.Equal(0, table.Depth())
}

func TestTableInvalidDefinitions(t *testing.T) {
	require := require.New(t)
	customers, orders, items := newGroupFixture(t)

	err := customers.SetPrimaryKey("nope")
	require.True(ErrInvalidCatalog.Is(err))

	err = orders.SetParent(items, []string{"id"}, []string{"id"})
	require.True(ErrInvalidCatalog.Is(err))

	err = customers.SetParent(items, []string{"id"}, []string{"id"})
	require.True(ErrInvalidCatalog.Is(err))

	other := NewTable("other", ColumnDef{Name: "a", Type: sql.NewType(sql.Integer, true)})
	err = other.SetParent(customers, []string{"a"}, nil)
	require.True(ErrInvalidCatalog.Is(err))

	_, err = NewGroup("again", orders)
	require.True(ErrInvalidCatalog.Is(err))

	_, err = NewGroup("again", customers)
	require.True(ErrInvalidCatalog.Is(err))
}
