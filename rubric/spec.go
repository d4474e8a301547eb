/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ChangelogSpec returns the scoring spec for synthetic changelog/version
// files. The observations string carries real-world changelog patterns the
// realism dimension should compare against.
func ChangelogSpec(observations string) Spec {
	return Spec{{
		Label:    "Realism",
		Question: fmt.Sprintf("How realistic does the generated output look based on actual changelog/version file patterns? Consider these observations: %s", observations),
	}, {
		Label:    "Prompt Adherence",
		Question: "How much does the generated text answer the prompt?",
	}, {
		Label:    "Clarity",
		Question: "How well can the content be understood? How much of the things are clarified in the generated text?",
	}, {
		Label:    "Factual Consistency",
		Question: "Does the generated text contain any contradictions or inconsistent information?",
	}, {
		Label:    "Completeness",
		Question: "Does the output cover all key aspects typically expected in a changelog/version file?",
	}, {
		Label:    "Technical Accuracy",
		Question: "Does the technical terminology and syntax appear correct and appropriate?",
	}}
}

// ReleaseNotesSpec returns the stricter spec for judging release notes
// regenerated from a known changelog, where invention is the primary failure
// mode.
func ReleaseNotesSpec() Spec {
	return Spec{{
		Label:    "Rule Adherence - No Invention",
		Question: "Does the document only include features and changes explicitly listed in the change log, without inventing additional features? Rate strictly: any invented feature = low score.",
	}, {
		Label:    "Completeness - Changelog Coverage",
		Question: "Are ALL items from the change log represented in both the document body AND revision table?",
	}, {
		Label:    "Terminology Consistency",
		Question: "Does the document maintain consistent terminology with the prior version without introducing undefined terms?",
	}, {
		Label:    "Version Update Accuracy",
		Question: "Are all version references correctly updated (version numbers, dates, changelog refs, migration paths)?",
	}, {
		Label:    "Revision Table Quality",
		Question: "Does the revision table exist and correctly map all changes to their source changelog items with proper format (Section | Change | Source)?",
	}, {
		Label:    "Technical Accuracy",
		Question: "Are technical descriptions accurate and coherent without technical errors or misrepresentations?",
	}, {
		Label:    "Breaking Changes Handling",
		Question: "Are breaking changes prominently highlighted with appropriate warnings and migration guidance?",
	}, {
		Label:    "Professional Quality",
		Question: "Is the document written in professional technical writing style appropriate for release notes, with proper formatting and structure?",
	}}
}

// ParseSpec decodes a YAML scoring spec, e.g.:
//
//	- label: Realism
//	  question: How realistic is the output?
func ParseSpec(data []byte) (Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse scoring spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}
