package memory

import (
	"io/ioutil"
	"strings"

	"github.com/brunoribeiro/sql-parser-sub002/sql/types"
	yaml "gopkg.in/yaml.v2"
)

type catalogDef struct {
	Schemas []schemaDef `yaml:"schemas"`
}

type schemaDef struct {
	Name   string     `yaml:"name"`
	Tables []tableDef `yaml:"tables"`
}

type tableDef struct {
	Name       string      `yaml:"name"`
	Columns    []columnDef `yaml:"columns"`
	PrimaryKey []string    `yaml:"primary_key"`
	// Group makes the table the root of a new group with that name.
	Group  string     `yaml:"group"`
	Parent *parentDef `yaml:"parent"`
}

type columnDef struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	GroupColumn string `yaml:"group_column"`
}

type parentDef struct {
	// Table is the name of the parent table, optionally schema-qualified.
	Table   string          `yaml:"table"`
	Columns []joinColumnDef `yaml:"columns"`
}

type joinColumnDef struct {
	Child  string `yaml:"child"`
	Parent string `yaml:"parent"`
}

// LoadCatalog reads a catalog definition from the YAML file at path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// ParseCatalog builds a catalog from its YAML definition:
//
//	schemas:
//	  - name: test
//	    tables:
//	      - name: customers
//	        columns:
//	          - {name: id, type: INTEGER NOT NULL}
//	        primary_key: [id]
//	        group: coi
//	      - name: orders
//	        columns:
//	          - {name: id, type: INTEGER NOT NULL}
//	          - {name: customer_id, type: INTEGER}
//	        primary_key: [id]
//	        parent:
//	          table: customers
//	          columns: [{child: customer_id, parent: id}]
func ParseCatalog(data []byte) (*Catalog, error) {
	var def catalogDef
	if err := yaml.UnmarshalStrict(data, &def); err != nil {
		return nil, ErrInvalidCatalog.Wrap(err, "malformed definition")
	}

	c := NewCatalog()
	var defs = make(map[*Table]tableDef)
	for _, s := range def.Schemas {
		if s.Name == "" {
			return nil, ErrInvalidCatalog.New("schema without name")
		}

		db, ok := c.Database(s.Name)
		if !ok {
			db = NewDatabase(s.Name)
			c.AddDatabase(db)
		}

		for _, td := range s.Tables {
			t, err := newTableFromDef(td)
			if err != nil {
				return nil, err
			}
			if _, ok := db.tables[t.name]; ok {
				return nil, ErrInvalidCatalog.New("duplicate table " + db.name + "." + t.name)
			}
			db.AddTable(t)
			defs[t] = td
		}
	}

	for t, td := range defs {
		if td.Group == "" {
			continue
		}
		if td.Parent != nil {
			return nil, ErrInvalidCatalog.New("group root " + t.name + " cannot have a parent")
		}
		if _, err := NewGroup(td.Group, t); err != nil {
			return nil, err
		}
	}

	for t, td := range defs {
		if td.Parent == nil {
			continue
		}

		schema, name := t.schema, td.Parent.Table
		if i := strings.IndexByte(name, '.'); i >= 0 {
			schema, name = name[:i], name[i+1:]
		}

		parent, err := c.Table(schema, name)
		if err != nil {
			return nil, ErrInvalidCatalog.Wrap(err, "parent of "+t.name)
		}

		var child, parents []string
		for _, jc := range td.Parent.Columns {
			child = append(child, jc.Child)
			parents = append(parents, jc.Parent)
		}

		if err := t.SetParent(parent.(*Table), child, parents); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func newTableFromDef(td tableDef) (*Table, error) {
	if td.Name == "" {
		return nil, ErrInvalidCatalog.New("table without name")
	}

	var columns []ColumnDef
	for _, cd := range td.Columns {
		typ, err := types.ParseType(cd.Type)
		if err != nil {
			return nil, ErrInvalidCatalog.Wrap(err, "column "+td.Name+"."+cd.Name)
		}
		columns = append(columns, ColumnDef{Name: cd.Name, Type: typ, GroupColumn: cd.GroupColumn})
	}

	t := NewTable(td.Name, columns...)
	if len(td.PrimaryKey) > 0 {
		if err := t.SetPrimaryKey(td.PrimaryKey...); err != nil {
			return nil, err
		}
	}
	return t, nil
}
