package validation

import (
	"errors"
	"fmt"
	"testing"
)

func TestDataError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *DataError
		want string
	}{
		{
			name: "Column scoped",
			err:  Invalidf("r", "must be non-negative"),
			want: `column "r": must be non-negative`,
		},
		{
			name: "Entity scoped",
			err:  Structuralf("S1", "study appears in more than one data source"),
			want: `"S1": study appears in more than one data source`,
		},
		{
			name: "Unscoped",
			err:  Ambiguousf("no outcome columns supplied"),
			want: "no outcome columns supplied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("building arm network: %w", Missingf("study", "field is required"))

	kind, ok := KindOf(err)
	if !ok {
		t.Fatal("KindOf should unwrap a wrapped DataError")
	}
	if kind != MissingInput {
		t.Errorf("Expected MissingInput, got %s", kind)
	}

	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf should report false for non-DataError")
	}
}

func TestKind_String(t *testing.T) {
	kinds := map[Kind]string{
		MissingInput:            "MissingInput",
		InvalidValue:            "InvalidValue",
		AmbiguousOutcome:        "AmbiguousOutcome",
		StructuralInconsistency: "StructuralInconsistency",
		Kind(99):                "Unknown",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("Kind(%d).String() = %s, want %s", int(k), k.String(), want)
		}
	}
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   string
	}{
		{
			name:   "Short list",
			labels: []string{"A", "B"},
			want:   `"A", "B"`,
		},
		{
			name:   "Exactly five",
			labels: []string{"A", "B", "C", "D", "E"},
			want:   `"A", "B", "C", "D", "E"`,
		},
		{
			name:   "Truncated with ellipsis",
			labels: []string{"A", "B", "C", "D", "E", "F", "G"},
			want:   `"A", "B", "C", "D", "E", ...`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Candidates(tt.labels); got != tt.want {
				t.Errorf("Candidates() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStruct_RequiredBinding(t *testing.T) {
	type binding struct {
		Study     string `validate:"required"`
		Treatment string `validate:"required"`
	}

	err := Struct(binding{Study: "studyc"})
	if err == nil {
		t.Fatal("Expected error for missing Treatment binding")
	}

	kind, ok := KindOf(err)
	if !ok || kind != MissingInput {
		t.Errorf("Expected MissingInput DataError, got %v", err)
	}

	if err := Struct(binding{Study: "s", Treatment: "t"}); err != nil {
		t.Errorf("Expected valid binding to pass, got %v", err)
	}
}
