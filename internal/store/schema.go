package store

import (
	"fmt"
	"strings"
)

// Table names.
const (
	Users    = "users"
	Models   = "models"
	Images   = "images"
	Comments = "comments"
)

// Index names.
const (
	ByUsername = "by-username"
	ByEmail    = "by-email"
	ByCreator  = "by-creator"
	ByModel    = "by-model"
	ByUser     = "by-user"
)

// Index is a secondary index over one top-level JSON field of the documents
// in a table.
type Index struct {
	Name   string
	Field  string
	Unique bool
}

// Table describes one record table and its secondary indexes.
type Table struct {
	Name    string
	Indexes []Index
}

// Schema is the full set of tables the store creates on Open.
//
// Table and field names are interpolated into SQL (identifiers cannot be
// bound as parameters), so they must only ever come from this list.
var Schema = []Table{
	{
		Name: Users,
		Indexes: []Index{
			{Name: ByUsername, Field: "username", Unique: true},
			{Name: ByEmail, Field: "email", Unique: true},
		},
	},
	{
		Name: Models,
		Indexes: []Index{
			{Name: ByCreator, Field: "creator"},
		},
	},
	{
		Name: Images,
		Indexes: []Index{
			{Name: ByModel, Field: "modelId"},
		},
	},
	{
		Name: Comments,
		Indexes: []Index{
			{Name: ByModel, Field: "modelId"},
			{Name: ByUser, Field: "userId"},
		},
	},
}

func (t Table) index(name string) (Index, bool) {
	for _, idx := range t.Indexes {
		if idx.Name == name {
			return idx, true
		}
	}
	return Index{}, false
}

func (t Table) createSQL() string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id  TEXT NOT NULL UNIQUE,
			doc TEXT NOT NULL
		)`, t.Name)
}

func (t Table) indexSQL(idx Index) string {
	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf(`CREATE %sINDEX IF NOT EXISTS %s_%s ON %s(json_extract(doc, '$.%s'))`,
		unique, t.Name, strings.ReplaceAll(idx.Name, "-", "_"), t.Name, idx.Field)
}
