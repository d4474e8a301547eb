/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"bytes"
	"encoding/json"
	"strings"
)

// extractJSON pulls JSON content out of a judge response that may wrap it in
// markdown code fences. It prefers a ```json block on its own lines, then
// falls back to stripping any surrounding fences.
func extractJSON(responseText string) string {
	lines := strings.Split(responseText, "\n")
	var jsonBuffer bytes.Buffer
	inBlock := false
	found := false

	for _, line := range lines {
		if !inBlock && line == "```json" {
			inBlock = true
			found = true
			continue
		}
		if inBlock && line == "```" {
			break
		}
		if inBlock {
			if jsonBuffer.Len() > 0 {
				jsonBuffer.WriteString("\n")
			}
			jsonBuffer.WriteString(line)
		}
	}

	if found {
		return strings.TrimSpace(jsonBuffer.String())
	}

	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	return strings.TrimSpace(responseText)
}

// extract unmarshals the JSON content of a judge response into T.
func extract[T any](responseText string) (T, error) {
	var result T
	if err := json.Unmarshal([]byte(extractJSON(responseText)), &result); err != nil {
		return result, err
	}
	return result, nil
}
