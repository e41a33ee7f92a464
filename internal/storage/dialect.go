package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// dialect captures the few places SQLite, Postgres and MySQL disagree.
type dialect struct {
	name      string
	driver    string // database/sql driver name
	timestamp string // column type for timestamps
	dollar    bool   // $1-style placeholders
}

func dialectFor(name string) (dialect, error) {
	switch name {
	case "sqlite":
		return dialect{name: name, driver: "sqlite", timestamp: "DATETIME"}, nil
	case "postgres":
		return dialect{name: name, driver: "postgres", timestamp: "TIMESTAMPTZ", dollar: true}, nil
	case "mysql":
		return dialect{name: name, driver: "mysql", timestamp: "DATETIME(6)"}, nil
	default:
		return dialect{}, fmt.Errorf("unsupported sql driver %q", name)
	}
}

// rebind rewrites ? placeholders for dialects that number them.
func (d dialect) rebind(query string) string {
	if !d.dollar {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (d dialect) createIndex(name, table, column string) string {
	if d.name == "mysql" {
		return fmt.Sprintf("CREATE INDEX %s ON %s(%s)", name, table, column)
	}
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", name, table, column)
}

func (d dialect) isDuplicateIndex(err error) bool {
	return d.name == "mysql" && strings.Contains(err.Error(), "Duplicate key name")
}
