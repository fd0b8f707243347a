// SPDX-License-Identifier: Apache-2.0

// Package generate holds the deterministic text renderers behind the
// mutating step kinds. Every function here is a pure mapping from structured
// parameters to file content; no I/O happens in this package.
package generate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/masonworks/mason/internal/core/models"
)

// drizzle column constructors, keyed by the normalized column type.
var columnTypes = map[string]string{
	"string":    "text",
	"text":      "text",
	"int":       "integer",
	"integer":   "integer",
	"number":    "integer",
	"bigint":    "bigint",
	"float":     "numeric",
	"decimal":   "numeric",
	"numeric":   "numeric",
	"money":     "numeric",
	"bool":      "boolean",
	"boolean":   "boolean",
	"date":      "timestamp",
	"datetime":  "timestamp",
	"timestamp": "timestamp",
	"json":      "jsonb",
	"jsonb":     "jsonb",
}

func columnType(raw string) string {
	if t, ok := columnTypes[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t
	}
	return "text"
}

func hasConstraint(col models.Column, names ...string) bool {
	for _, c := range col.Constraints {
		c = strings.ToLower(strings.TrimSpace(c))
		for _, n := range names {
			if c == n {
				return true
			}
		}
	}
	return false
}

// Identifier sanitizes a name into a TS identifier: non-alphanumeric runs
// collapse to underscores, leading digits get a prefix.
func Identifier(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		out = "t"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "t_" + out
	}
	return out
}

// Schema renders a drizzle-style table definition for a create_schema step.
// An identity column is injected when none is declared, and creation/update
// timestamp columns are appended when absent.
func Schema(d *models.SchemaDetails) string {
	table := Identifier(d.TableName)

	type line struct {
		name string
		expr string
	}
	var lines []line
	used := map[string]bool{}
	usedTypes := map[string]bool{}

	hasIdentity := false
	for _, col := range d.Columns {
		if Identifier(col.Name) == "id" || hasConstraint(col, "primary", "primary_key", "primary key") {
			hasIdentity = true
		}
	}
	if !hasIdentity {
		lines = append(lines, line{"id", `serial("id").primaryKey()`})
		used["id"] = true
		usedTypes["serial"] = true
	}

	for _, col := range d.Columns {
		name := Identifier(col.Name)
		if used[name] {
			continue
		}
		used[name] = true

		ct := columnType(col.Type)
		if name == "id" && !usedTypes["serial"] {
			ct = "serial"
		}
		usedTypes[ct] = true

		expr := fmt.Sprintf("%s(%q)", ct, name)
		if name == "id" && ct == "serial" {
			expr += ".primaryKey()"
		} else if hasConstraint(col, "primary", "primary_key", "primary key") {
			expr += ".primaryKey()"
		}
		if hasConstraint(col, "unique") {
			expr += ".unique()"
		}
		if hasConstraint(col, "not_null", "not null", "required") {
			expr += ".notNull()"
		}
		lines = append(lines, line{name, expr})
	}

	var refImports []string
	for _, rel := range d.Relationships {
		ref := Identifier(rel.Table)
		col := Identifier(rel.Column)
		if col == "" || rel.Column == "" {
			col = ref + "_id"
		}
		if used[col] {
			continue
		}
		used[col] = true
		usedTypes["integer"] = true
		lines = append(lines, line{col,
			fmt.Sprintf("integer(%q).references(() => %s.id)", col, ref)})
		refImports = append(refImports, fmt.Sprintf("import { %s } from %q;", ref, "./"+ref))
	}

	if !used["created_at"] {
		lines = append(lines, line{"created_at", `timestamp("created_at").defaultNow().notNull()`})
		usedTypes["timestamp"] = true
	}
	if !used["updated_at"] {
		lines = append(lines, line{"updated_at", `timestamp("updated_at").defaultNow().notNull()`})
		usedTypes["timestamp"] = true
	}

	imports := make([]string, 0, len(usedTypes)+1)
	imports = append(imports, "pgTable")
	for t := range usedTypes {
		imports = append(imports, t)
	}
	sort.Strings(imports[1:])

	var b strings.Builder
	fmt.Fprintf(&b, "import { %s } from \"drizzle-orm/pg-core\";\n", strings.Join(imports, ", "))
	for _, imp := range refImports {
		b.WriteString(imp)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "export const %s = pgTable(%q, {\n", table, table)
	for _, l := range lines {
		fmt.Fprintf(&b, "  %s: %s,\n", l.name, l.expr)
	}
	b.WriteString("});\n")

	return b.String()
}
