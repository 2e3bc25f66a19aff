package sqlstore

import (
	"strconv"
	"strings"
)

// Dialect captures what differs between the SQLite and Postgres backends.
type Dialect struct {
	Name   string // migrate driver and embedded migration directory
	Driver string // database/sql driver name
}

var (
	SQLite   = Dialect{Name: "sqlite", Driver: "sqlite"}
	Postgres = Dialect{Name: "postgres", Driver: "postgres"}
)

// Rebind rewrites '?' placeholders to $1..$n for Postgres. Queries in this
// package never contain a literal '?'.
func (d Dialect) Rebind(query string) string {
	if d.Name != Postgres.Name {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
