package livestatus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// HostRow is one host record, fields in column order.
type HostRow struct {
	Address    string
	Name       string
	Alias      string
	Groups     []string
	CustomVars map[string]string
}

type GroupRow struct {
	Name    string
	Alias   string
	Members []string
}

type StatusRow struct {
	ProgramVersion    string
	LivestatusVersion string
	NumHosts          int
}

// DecodeHostRows decodes a host response body per the query's output
// format. An empty body yields no rows.
func DecodeHostRows(resp *Response, q *Query) ([]HostRow, error) {
	if q.Format == FormatCSV {
		return decodeHostCSV(resp.Body, q.separators())
	}
	return decodeHostJSON(resp.Body)
}

func DecodeGroupRows(resp *Response, q *Query) ([]GroupRow, error) {
	if q.Format == FormatCSV {
		return decodeGroupCSV(resp.Body, q.separators())
	}
	return decodeGroupJSON(resp.Body)
}

func DecodeStatus(resp *Response) (*StatusRow, error) {
	raw, err := decodeRows(resp.Body, 3)
	if err != nil {
		return nil, err
	}
	if len(raw) != 1 {
		return nil, fmt.Errorf("status query: got %d rows, want 1", len(raw))
	}
	var row StatusRow
	rec := raw[0]
	if err := json.Unmarshal(rec[0], &row.ProgramVersion); err != nil {
		return nil, fmt.Errorf("status row: program version: %w", err)
	}
	if err := json.Unmarshal(rec[1], &row.LivestatusVersion); err != nil {
		return nil, fmt.Errorf("status row: livestatus version: %w", err)
	}
	if err := json.Unmarshal(rec[2], &row.NumHosts); err != nil {
		return nil, fmt.Errorf("status row: host count: %w", err)
	}
	return &row, nil
}

func decodeHostJSON(body []byte) ([]HostRow, error) {
	raw, err := decodeRows(body, len(hostColumns))
	if err != nil {
		return nil, err
	}
	rows := make([]HostRow, 0, len(raw))
	for i, rec := range raw {
		var row HostRow
		if err := json.Unmarshal(rec[0], &row.Address); err != nil {
			return nil, fmt.Errorf("row %d: address: %w", i, err)
		}
		if err := json.Unmarshal(rec[1], &row.Name); err != nil {
			return nil, fmt.Errorf("row %d: name: %w", i, err)
		}
		if err := json.Unmarshal(rec[2], &row.Alias); err != nil {
			return nil, fmt.Errorf("row %d: alias: %w", i, err)
		}
		if err := json.Unmarshal(rec[3], &row.Groups); err != nil {
			return nil, fmt.Errorf("row %d: groups: %w", i, err)
		}
		vars, err := decodeCustomVars(rec[4])
		if err != nil {
			return nil, fmt.Errorf("row %d: custom variables: %w", i, err)
		}
		row.CustomVars = vars
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeGroupJSON(body []byte) ([]GroupRow, error) {
	raw, err := decodeRows(body, len(groupColumns))
	if err != nil {
		return nil, err
	}
	rows := make([]GroupRow, 0, len(raw))
	for i, rec := range raw {
		var row GroupRow
		if err := json.Unmarshal(rec[0], &row.Name); err != nil {
			return nil, fmt.Errorf("row %d: name: %w", i, err)
		}
		if err := json.Unmarshal(rec[1], &row.Alias); err != nil {
			return nil, fmt.Errorf("row %d: alias: %w", i, err)
		}
		if err := json.Unmarshal(rec[2], &row.Members); err != nil {
			return nil, fmt.Errorf("row %d: members: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeRows(body []byte, want int) ([][]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	var raw [][]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("decode json rows: %w", err)
	}
	for i, rec := range raw {
		if len(rec) != want {
			return nil, fmt.Errorf("row %d: got %d columns, want %d", i, len(rec), want)
		}
	}
	return raw, nil
}

// Cores emit dict columns either as a JSON object or as a list of
// [name, value] pairs.
func decodeCustomVars(raw json.RawMessage) (map[string]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]string{}, nil
	}
	if trimmed[0] == '{' {
		m := map[string]string{}
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return nil, err
		}
		return m, nil
	}
	var list [][]string
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, err
	}
	m := make(map[string]string, len(list))
	for _, pair := range list {
		if len(pair) != 2 {
			return nil, fmt.Errorf("custom variable entry has %d fields, want 2", len(pair))
		}
		m[pair[0]] = pair[1]
	}
	return m, nil
}

func decodeHostCSV(body []byte, sep Separators) ([]HostRow, error) {
	lines := splitLines(body, sep.Line)
	rows := make([]HostRow, 0, len(lines))
	for i, line := range lines {
		fields := bytes.Split(line, []byte{sep.Field})
		if len(fields) != len(hostColumns) {
			return nil, fmt.Errorf("row %d: got %d fields, want %d", i, len(fields), len(hostColumns))
		}
		rows = append(rows, HostRow{
			Address:    string(fields[0]),
			Name:       string(fields[1]),
			Alias:      string(fields[2]),
			Groups:     splitList(fields[3], sep.List),
			CustomVars: splitVars(fields[4], sep.List),
		})
	}
	return rows, nil
}

func decodeGroupCSV(body []byte, sep Separators) ([]GroupRow, error) {
	lines := splitLines(body, sep.Line)
	rows := make([]GroupRow, 0, len(lines))
	for i, line := range lines {
		fields := bytes.Split(line, []byte{sep.Field})
		if len(fields) != len(groupColumns) {
			return nil, fmt.Errorf("row %d: got %d fields, want %d", i, len(fields), len(groupColumns))
		}
		rows = append(rows, GroupRow{
			Name:    string(fields[0]),
			Alias:   string(fields[1]),
			Members: splitList(fields[2], sep.List),
		})
	}
	return rows, nil
}

func splitLines(body []byte, sep byte) [][]byte {
	var out [][]byte
	for _, p := range bytes.Split(body, []byte{sep}) {
		if len(bytes.TrimSpace(p)) > 0 {
			out = append(out, p)
		}
	}
	return out
}

func splitList(field []byte, sep byte) []string {
	if len(field) == 0 {
		return nil
	}
	parts := bytes.Split(field, []byte{sep})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, string(p))
	}
	return out
}

// splitVars parses "NAME value" entries, the csv form of a dict column.
func splitVars(field []byte, sep byte) map[string]string {
	vars := map[string]string{}
	if len(field) == 0 {
		return vars
	}
	for _, entry := range bytes.Split(field, []byte{sep}) {
		name, value, _ := strings.Cut(string(entry), " ")
		if name == "" {
			continue
		}
		vars[name] = value
	}
	return vars
}
