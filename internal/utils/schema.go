package utils

import "strings"

// QualifiedTableName renders a table as catalog.schema.table, leaving out the parts that are
// absent or empty
func QualifiedTableName(catalog, schema *string, table string) string {
	parts := make([]string, 0, 3)
	if catalog != nil && *catalog != "" {
		parts = append(parts, *catalog)
	}
	if schema != nil && *schema != "" {
		parts = append(parts, *schema)
	}
	return strings.Join(append(parts, table), ".")
}
