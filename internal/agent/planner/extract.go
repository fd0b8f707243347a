// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"fmt"
	"strings"
)

// ExtractJSON pulls a JSON object out of a model reply that may wrap it in
// markdown formatting or surrounding prose. Fenced ```json blocks win;
// otherwise the outermost brace pair is taken.
func ExtractJSON(response string) (string, error) {
	if strings.Contains(response, "```json") {
		parts := strings.SplitN(response, "```json", 2)
		body := parts[1]
		if end := strings.Index(body, "```"); end > 0 {
			candidate := strings.TrimSpace(body[:end])
			if candidate != "" {
				return candidate, nil
			}
		}
	}

	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	if start == -1 {
		return "", fmt.Errorf("no JSON object found in response")
	}

	end := strings.LastIndex(response, "}")
	if end <= start {
		return "", fmt.Errorf("no matching closing brace found in response")
	}

	return strings.TrimSpace(response[start : end+1]), nil
}
