/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"chainguard.dev/changebench/promptkit"
)

// scoringPrompt asks the judge to score one output against every dimension
// of the spec and answer with machine-readable JSON.
var scoringPrompt = promptkit.MustNewPrompt(`<task>
You are scoring a generated document against a fixed set of evaluation dimensions.
Score each dimension independently on a scale from 0.0 (complete failure) to 1.0 (flawless).
</task>

<scoring_dimensions>
{{spec}}
</scoring_dimensions>

<original_prompt>
{{input}}
</original_prompt>

<generated_document>
{{output}}
</generated_document>

<instructions>
1. Read the generated document carefully.
2. For each dimension, judge only what that dimension's question asks.
3. Use the full range: reserve 1.0 for flawless, 0.0 for total failure.
4. Respond with ONLY a JSON object matching this schema, inside a `+"```json"+` code block:

{{schema}}

The "question_scores" object must contain exactly one entry per dimension,
keyed by the dimension's label.
</instructions>`)

// judgeResponse is the wire format the judge answers with.
type judgeResponse struct {
	// QuestionScores maps each dimension label to its score in [0,1].
	QuestionScores map[string]float64 `json:"question_scores" jsonschema:"required"`

	// Reasoning is a short justification for the scores.
	Reasoning string `json:"reasoning,omitempty"`
}

// responseSchema is the judge response schema embedded into every scoring
// prompt, reflected once at init.
var responseSchema = func() string {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
	b, err := json.MarshalIndent(reflector.Reflect(&judgeResponse{}), "", "  ")
	if err != nil {
		panic(fmt.Sprintf("failed to marshal judge response schema: %v", err))
	}
	return string(b)
}()

// buildScoringPrompt renders the scoring prompt for one request.
func buildScoringPrompt(spec Spec, request Request) (string, error) {
	p, err := scoringPrompt.BindJSON("spec", spec)
	if err != nil {
		return "", fmt.Errorf("failed to bind spec: %w", err)
	}
	p, err = p.Bind("schema", responseSchema)
	if err != nil {
		return "", fmt.Errorf("failed to bind schema: %w", err)
	}
	p, err = p.Bind("input", request.Input)
	if err != nil {
		return "", fmt.Errorf("failed to bind input: %w", err)
	}
	p, err = p.Bind("output", request.Output)
	if err != nil {
		return "", fmt.Errorf("failed to bind output: %w", err)
	}
	return p.Build()
}
