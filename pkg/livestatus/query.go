// Package livestatus implements a client for the Livestatus query protocol.
package livestatus

import (
	"fmt"
	"strings"
)

type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
)

// Separators are the csv separator bytes in protocol order.
type Separators struct {
	Line  byte
	Field byte
	List  byte
	Host  byte
}

// DefaultSeparators match the protocol defaults (\n ; , |).
var DefaultSeparators = Separators{Line: 10, Field: 59, List: 44, Host: 124}

// Query describes a single GET request.
type Query struct {
	Table      string
	Columns    []string
	Filters    []string
	Limit      int
	Format     OutputFormat
	Fixed16    bool
	Separators *Separators
}

// Column order is load bearing: rows are decoded by position.
var hostColumns = []string{"address", "name", "alias", "groups", "host_custom_variables"}

var groupColumns = []string{"name", "alias", "members"}

func NewHostsQuery() *Query {
	return &Query{
		Table:   "hosts",
		Columns: hostColumns,
		Format:  FormatJSON,
		Fixed16: true,
	}
}

func NewHostgroupsQuery() *Query {
	return &Query{
		Table:   "hostgroups",
		Columns: groupColumns,
		Format:  FormatJSON,
		Fixed16: true,
	}
}

// NewStatusQuery returns a minimal query against the status table.
func NewStatusQuery() *Query {
	return &Query{
		Table:   "status",
		Columns: []string{"program_version", "livestatus_version", "num_hosts"},
		Format:  FormatJSON,
		Fixed16: true,
	}
}

// Render produces the LQL request text, terminated by a blank line.
func (q *Query) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "GET %s\n", q.Table)
	if len(q.Columns) > 0 {
		fmt.Fprintf(&b, "Columns: %s\n", strings.Join(q.Columns, " "))
	}
	for _, f := range q.Filters {
		fmt.Fprintf(&b, "Filter: %s\n", f)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, "Limit: %d\n", q.Limit)
	}
	if q.Format != "" {
		fmt.Fprintf(&b, "OutputFormat: %s\n", q.Format)
	}
	if q.Separators != nil {
		s := q.Separators
		fmt.Fprintf(&b, "Separators: %d %d %d %d\n", s.Line, s.Field, s.List, s.Host)
	}
	if q.Fixed16 {
		b.WriteString("ResponseHeader: fixed16\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (q *Query) separators() Separators {
	if q.Separators != nil {
		return *q.Separators
	}
	return DefaultSeparators
}
