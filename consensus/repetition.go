/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package consensus

import "strings"

// repetitionRate measures how much of a text's adjacent word-pair structure
// is duplicated. It lowercases and whitespace-splits the text, slides a
// two-word window over it, and returns 1 - distinct/total pairs. Texts with
// fewer than two words have no repeated structure and score zero.
func repetitionRate(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) < 2 {
		return 0
	}

	total := len(words) - 1
	distinct := make(map[[2]string]struct{}, total)
	for i := 0; i < total; i++ {
		distinct[[2]string{words[i], words[i+1]}] = struct{}{}
	}
	return 1 - float64(len(distinct))/float64(total)
}
