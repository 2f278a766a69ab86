package catalog

import "strings"

// Slugify derives a category slug from its name: lowercased, with every run
// of whitespace collapsed to a single hyphen and no leading or trailing hyphen.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
