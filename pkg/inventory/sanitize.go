package inventory

import "strings"

// groupBadChars are characters Ansible cannot digest in group names.
const groupBadChars = ".,;:[]/ "

// SanitizeGroupName replaces offending characters with underscores.
func SanitizeGroupName(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(groupBadChars, r) {
			return '_'
		}
		return r
	}, name)
}
