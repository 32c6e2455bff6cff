// Package inventory folds host rows into Ansible's inventory document.
package inventory

import (
	"log/slog"
	"sort"

	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/livestatus"
)

// NoGroup collects hosts that belong to no hostgroup at all.
const NoGroup = "_NOGROUP"

const metaKey = "_meta"

type Inventory struct {
	groups   map[string][]string
	hostvars map[string]map[string]any
}

type Options struct {
	// ByIP keys the inventory by address instead of host name.
	ByIP   bool
	Logger *slog.Logger
}

// Build folds host rows into an inventory. For duplicate keys the first
// row wins and later ones only extend group membership.
func Build(rows []livestatus.HostRow, opts Options) *Inventory {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	inv := &Inventory{
		groups:   make(map[string][]string),
		hostvars: make(map[string]map[string]any),
	}
	for _, row := range rows {
		key := row.Name
		if opts.ByIP {
			key = row.Address
		}

		groups := row.Groups
		if len(groups) == 0 {
			groups = []string{NoGroup}
		}
		for _, group := range groups {
			name := SanitizeGroupName(group)
			inv.groups[name] = append(inv.groups[name], key)
		}

		if _, ok := inv.hostvars[key]; ok {
			logger.Warn("duplicate_key", "key", key, "dropped_host", row.Name)
			continue
		}
		inv.hostvars[key] = hostVars(row, opts.ByIP)
	}
	return inv
}

func hostVars(row livestatus.HostRow, byIP bool) map[string]any {
	vars := map[string]any{
		"omd_alias":       row.Alias,
		"omd_custom_vars": row.CustomVars,
	}
	if byIP {
		vars["omd_name"] = row.Name
	} else {
		vars["ansible_host"] = row.Address
	}
	return vars
}

func (inv *Inventory) GroupNames() []string {
	names := make([]string, 0, len(inv.groups))
	for name := range inv.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Members returns the member list of a group in arrival order.
func (inv *Inventory) Members(group string) []string {
	return inv.groups[group]
}

func (inv *Inventory) Vars(key string) map[string]any {
	return inv.hostvars[key]
}

func (inv *Inventory) Len() int {
	return len(inv.hostvars)
}
