package inventory

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// nowFunc is swapped out by tests.
var nowFunc = time.Now

// JSON renders the full inventory document. encoding/json sorts map
// keys, so equal input yields byte-equal output.
func (inv *Inventory) JSON(indent int) ([]byte, error) {
	doc := make(map[string]any, len(inv.groups)+1)
	for name, members := range inv.groups {
		doc[name] = members
	}
	doc[metaKey] = map[string]any{"hostvars": inv.hostvars}
	return marshalIndent(doc, indent)
}

// HostVars renders one host's variables, an empty object when unknown.
func (inv *Inventory) HostVars(key string, indent int) ([]byte, error) {
	vars, ok := inv.hostvars[key]
	if !ok {
		return []byte("{}"), nil
	}
	return marshalIndent(vars, indent)
}

// Static renders an INI-style file, one section per group.
func (inv *Inventory) Static() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# File created: %s", nowFunc().Format("2006-01-02 15:04:05.000000"))
	for _, group := range inv.GroupNames() {
		fmt.Fprintf(&b, "\n\n[%s]", group)
		for _, member := range inv.Members(group) {
			b.WriteString("\n")
			b.WriteString(member)
			b.WriteString("\t")
			b.WriteString(staticVars(inv.hostvars[member]))
		}
	}
	return b.String()
}

// staticVars renders name=value pairs. String values keep double
// quotes, anything structured becomes single-quoted compact JSON.
func staticVars(vars map[string]any) string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		switch v := vars[name].(type) {
		case string:
			pairs = append(pairs, fmt.Sprintf("%s=%q", name, v))
		default:
			enc, err := json.Marshal(v)
			if err != nil {
				enc = []byte("{}")
			}
			pairs = append(pairs, fmt.Sprintf("%s='%s'", name, enc))
		}
	}
	return strings.Join(pairs, " ")
}

func marshalIndent(v any, indent int) ([]byte, error) {
	if indent <= 0 {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", strings.Repeat(" ", indent))
}
