package memory

import (
	"strings"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// Database is an in-memory schema of the catalog.
type Database struct {
	name   string
	tables map[string]*Table
}

// NewDatabase creates a new database with the given name.
func NewDatabase(name string) *Database {
	return &Database{
		name:   strings.ToLower(name),
		tables: map[string]*Table{},
	}
}

// Name returns the database name.
func (d *Database) Name() string {
	return d.name
}

// Tables returns all tables in the database.
func (d *Database) Tables() map[string]*Table {
	return d.tables
}

// AddTable adds a new table to the database.
func (d *Database) AddTable(t *Table) {
	t.schema = d.name
	d.tables[t.name] = t
}

// Catalog is an in-memory schema catalog. It is safe for concurrent
// readers as long as nobody modifies it.
type Catalog struct {
	databases map[string]*Database
}

var _ sql.Catalog = (*Catalog)(nil)

// NewCatalog creates a new catalog with the given databases.
func NewCatalog(dbs ...*Database) *Catalog {
	c := &Catalog{databases: map[string]*Database{}}
	for _, db := range dbs {
		c.AddDatabase(db)
	}
	return c
}

// AddDatabase adds a database to the catalog.
func (c *Catalog) AddDatabase(db *Database) {
	c.databases[db.name] = db
}

// Database returns the database with the given name.
func (c *Catalog) Database(name string) (*Database, bool) {
	db, ok := c.databases[strings.ToLower(name)]
	return db, ok
}

// Table implements the sql.Catalog interface.
func (c *Catalog) Table(schema, name string) (sql.Table, error) {
	qn := sql.NewQualifiedName(schema, name)
	db, ok := c.databases[qn.Schema]
	if !ok {
		return nil, sql.ErrTableNotFound.New(qn)
	}

	t, ok := db.tables[qn.Name]
	if !ok {
		return nil, sql.ErrTableNotFound.New(qn)
	}

	return t, nil
}
