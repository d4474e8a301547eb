/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric_test

import (
	"strings"
	"testing"

	"chainguard.dev/changebench/rubric"
)

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    rubric.Spec
		wantErr bool
	}{{
		name: "valid",
		spec: rubric.Spec{
			{Label: "Clarity", Question: "Is it clear?"},
			{Label: "Realism", Question: "Is it realistic?"},
		},
	}, {
		name:    "empty spec",
		spec:    rubric.Spec{},
		wantErr: true,
	}, {
		name:    "empty label",
		spec:    rubric.Spec{{Question: "Is it clear?"}},
		wantErr: true,
	}, {
		name:    "empty question",
		spec:    rubric.Spec{{Label: "Clarity"}},
		wantErr: true,
	}, {
		name: "duplicate label",
		spec: rubric.Spec{
			{Label: "Clarity", Question: "Is it clear?"},
			{Label: "Clarity", Question: "Is it really clear?"},
		},
		wantErr: true,
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tc.wantErr)
			}
		})
	}
}

func TestBuiltinSpecs(t *testing.T) {
	t.Run("changelog spec", func(t *testing.T) {
		spec := rubric.ChangelogSpec("entries use inconsistent verb tense")
		if err := spec.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if len(spec) != 6 {
			t.Errorf("dimension count: got = %d, wanted = 6", len(spec))
		}
		if !strings.Contains(spec[0].Question, "inconsistent verb tense") {
			t.Errorf("realism question missing observations: %q", spec[0].Question)
		}
	})

	t.Run("release notes spec", func(t *testing.T) {
		spec := rubric.ReleaseNotesSpec()
		if err := spec.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if len(spec) != 8 {
			t.Errorf("dimension count: got = %d, wanted = 8", len(spec))
		}
	})
}

func TestParseSpec(t *testing.T) {
	t.Run("valid yaml", func(t *testing.T) {
		spec, err := rubric.ParseSpec([]byte(`
- label: Realism
  question: How realistic is the output?
- label: Clarity
  question: How clear is the output?
`))
		if err != nil {
			t.Fatalf("ParseSpec() error = %v", err)
		}
		if len(spec) != 2 {
			t.Fatalf("dimension count: got = %d, wanted = 2", len(spec))
		}
		if spec[0].Label != "Realism" {
			t.Errorf("first label: got = %q, wanted = %q", spec[0].Label, "Realism")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		if _, err := rubric.ParseSpec([]byte("{not yaml")); err == nil {
			t.Error("ParseSpec() error = nil, wanted parse failure")
		}
	})

	t.Run("invalid spec", func(t *testing.T) {
		if _, err := rubric.ParseSpec([]byte("- label: OnlyLabel\n")); err == nil {
			t.Error("ParseSpec() error = nil, wanted validation failure")
		}
	})
}
