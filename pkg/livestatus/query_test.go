package livestatus

import (
	"strings"
	"testing"
)

func TestRenderHostsQuery(t *testing.T) {
	got := NewHostsQuery().Render()
	want := "GET hosts\n" +
		"Columns: address name alias groups host_custom_variables\n" +
		"OutputFormat: json\n" +
		"ResponseHeader: fixed16\n" +
		"\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderFiltersAndLimit(t *testing.T) {
	q := &Query{
		Table:   "hosts",
		Columns: []string{"name"},
		Filters: []string{"groups >= linux", "address != "},
		Limit:   50,
		Format:  FormatJSON,
	}
	got := q.Render()
	want := "GET hosts\n" +
		"Columns: name\n" +
		"Filter: groups >= linux\n" +
		"Filter: address != \n" +
		"Limit: 50\n" +
		"OutputFormat: json\n" +
		"\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderSeparators(t *testing.T) {
	q := &Query{
		Table:      "hosts",
		Format:     FormatCSV,
		Separators: &Separators{Line: 10, Field: 59, List: 44, Host: 124},
	}
	got := q.Render()
	if !strings.Contains(got, "Separators: 10 59 44 124\n") {
		t.Fatalf("separators header missing in %q", got)
	}
}

func TestRenderEndsWithBlankLine(t *testing.T) {
	for _, q := range []*Query{NewHostsQuery(), NewHostgroupsQuery(), NewStatusQuery()} {
		if got := q.Render(); !strings.HasSuffix(got, "\n\n") {
			t.Fatalf("query %s does not end with blank line: %q", q.Table, got)
		}
	}
}
