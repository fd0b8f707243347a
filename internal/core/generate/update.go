// SPDX-License-Identifier: Apache-2.0

package generate

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reactImportRegex = regexp.MustCompile(`^\s*import\s+.*from\s+["']react["']`)
	anyImportRegex   = regexp.MustCompile(`^\s*import\s+`)

	// componentEntryRegex matches the paren-based entry of a function or
	// arrow component, e.g. `export default function Orders() {` or
	// `const Orders = () => {`.
	componentEntryRegex = regexp.MustCompile(
		`^\s*(export\s+(default\s+)?)?((async\s+)?function\s+[A-Za-z_]\w*\s*\(|const\s+[A-Za-z_]\w*\s*=\s*(async\s*)?\()`)
)

const reactImportLine = `import { useEffect, useState } from "react";`

// fetchBlockGuard marks an already-inserted data-fetch block so that
// re-applying the same step leaves the file untouched.
const fetchBlockGuard = "const [data, setData] = useState<unknown[]>([]);"

// UpdateResult reports what ApplyComponentUpdate did to a file.
type UpdateResult struct {
	Content     string
	ImportAdded bool
	FetchAdded  bool
	Anchored    bool // an import line or entry marker was found
}

func fetchBlock(endpoint string) string {
	return fmt.Sprintf(`  %s
  const [dataLoading, setDataLoading] = useState(true);
  const [dataError, setDataError] = useState<string | null>(null);

  useEffect(() => {
    fetch("/api/%s")
      .then((res) => {
        if (!res.ok) throw new Error("request failed");
        return res.json();
      })
      .then(setData)
      .catch((err) => setDataError(String(err)))
      .finally(() => setDataLoading(false));
  }, []);
`, fetchBlockGuard, strings.Trim(endpoint, "/"))
}

// ApplyComponentUpdate performs the update_component edits on file content:
// the react hooks import is ensured after the last existing import line, and
// the standard data-fetch block is inserted immediately after the component
// entry marker. Content is returned unchanged when no anchor exists.
func ApplyComponentUpdate(content, endpoint string) UpdateResult {
	lines := strings.Split(content, "\n")

	hasReactImport := false
	lastImport := -1
	entryLine := -1
	for i, line := range lines {
		if reactImportRegex.MatchString(line) {
			hasReactImport = true
		}
		if anyImportRegex.MatchString(line) {
			lastImport = i
		}
		if entryLine == -1 && componentEntryRegex.MatchString(line) {
			entryLine = i
		}
	}

	res := UpdateResult{Anchored: lastImport >= 0 || entryLine >= 0}
	if !res.Anchored {
		res.Content = content
		return res
	}

	if !hasReactImport && lastImport >= 0 {
		inserted := make([]string, 0, len(lines)+1)
		inserted = append(inserted, lines[:lastImport+1]...)
		inserted = append(inserted, reactImportLine)
		inserted = append(inserted, lines[lastImport+1:]...)
		lines = inserted
		res.ImportAdded = true
		if entryLine >= lastImport+1 {
			entryLine++
		}
	}

	if entryLine >= 0 && !strings.Contains(content, fetchBlockGuard) {
		inserted := make([]string, 0, len(lines)+1)
		inserted = append(inserted, lines[:entryLine+1]...)
		inserted = append(inserted, fetchBlock(endpoint))
		inserted = append(inserted, lines[entryLine+1:]...)
		lines = inserted
		res.FetchAdded = true
	}

	res.Content = strings.Join(lines, "\n")
	return res
}
