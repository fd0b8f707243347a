// SPDX-License-Identifier: Apache-2.0

package generate

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/masonworks/mason/internal/core/models"
	"github.com/masonworks/mason/internal/core/template"
)

var titleCaser = cases.Title(language.English)

// DisplayName derives a component display name from a file base name by
// splitting on "-" and capitalizing each segment: "order-list.tsx" becomes
// "Order List".
func DisplayName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.Split(base, "-")
	for i, p := range parts {
		parts[i] = titleCaser.String(p)
	}
	return strings.Join(parts, " ")
}

// ComponentName is DisplayName without separators, suitable as a TS
// function identifier.
func ComponentName(path string) string {
	return strings.ReplaceAll(DisplayName(path), " ", "")
}

const componentTemplate = `"use client";

import { useEffect, useState } from "react";

type {{.Name}}Record = { id: number } & Record<string, unknown>;

export default function {{.Name}}() {
  const [items, setItems] = useState<{{.Name}}Record[]>([]);
  const [loading, setLoading] = useState(true);
  const [error, setError] = useState<string | null>(null);

  const load = async () => {
    setLoading(true);
    try {
      const res = await fetch("/api/{{.Endpoint}}");
      if (!res.ok) {
        throw new Error("failed to load {{.Title}}");
      }
      setItems(await res.json());
      setError(null);
    } catch (err) {
      setError(err instanceof Error ? err.message : String(err));
    } finally {
      setLoading(false);
    }
  };

  useEffect(() => {
    load();
  }, []);

  const createItem = async (payload: Record<string, unknown>) => {
    const res = await fetch("/api/{{.Endpoint}}", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify(payload),
    });
    if (!res.ok) {
      setError("failed to create {{.Title}} record");
      return;
    }
    await load();
  };

  const deleteItem = async (id: number) => {
    const res = await fetch(` + "`/api/{{.Endpoint}}?id=${id}`" + `, { method: "DELETE" });
    if (!res.ok) {
      setError("failed to delete {{.Title}} record");
      return;
    }
    await load();
  };

  if (loading) {
    return <p>Loading {{.Title}}...</p>;
  }
  if (error) {
    return <p role="alert">{error}</p>;
  }

  return (
    <div>
      <h2>{{.Title}}</h2>
      <ul>
        {items.map((item) => (
          <li key={item.id}>
            {JSON.stringify(item)}
            <button onClick={() => deleteItem(item.id)}>Delete</button>
          </li>
        ))}
      </ul>
      <button onClick={() => createItem({})}>Add {{.Title}}</button>
    </div>
  );
}
`

// Component renders a self-contained view module for a create_component
// step: list/create/delete calls against the step's endpoint plus local
// loading and error state.
func Component(path string, d *models.ComponentDetails) (string, error) {
	out, err := template.ProcessString(componentTemplate, map[string]any{
		"Name":     ComponentName(path),
		"Title":    DisplayName(path),
		"Endpoint": strings.Trim(d.Endpoint, "/"),
	})
	if err != nil {
		return "", fmt.Errorf("error rendering component %s: %w", path, err)
	}
	return string(out), nil
}
