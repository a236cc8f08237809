package outcome

import (
	"math"
	"testing"

	"github.com/evidnet/nmanet/pkg/validation"
)

func num(name string, values ...float64) *Numeric {
	return &Numeric{Name: name, Values: values, Missing: make([]bool, len(values))}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		spec      Spec
		requireSE bool
		want      Measure
		wantKind  validation.Kind
		wantErr   bool
	}{
		{
			name: "y alone is continuous for individual data",
			spec: Spec{Y: num("y", 1.2)},
			want: Continuous,
		},
		{
			name:      "y with se is continuous for aggregate data",
			spec:      Spec{Y: num("y", 1.2), SE: num("se", 0.1)},
			requireSE: true,
			want:      Continuous,
		},
		{
			name:      "y without se fails for aggregate data",
			spec:      Spec{Y: num("y", 1.2)},
			requireSE: true,
			wantErr:   true,
			wantKind:  validation.MissingInput,
		},
		{
			name: "r alone is binary",
			spec: Spec{R: num("r", 1)},
			want: Binary,
		},
		{
			name: "r with n is count",
			spec: Spec{R: num("r", 5), N: num("n", 20)},
			want: Count,
		},
		{
			name: "r with E is rate",
			spec: Spec{R: num("r", 5), E: num("E", 104.2)},
			want: Rate,
		},
		{
			name:     "r with n and E is ambiguous",
			spec:     Spec{R: num("r", 5), N: num("n", 20), E: num("E", 104.2)},
			wantErr:  true,
			wantKind: validation.AmbiguousOutcome,
		},
		{
			name:     "y and r together is ambiguous",
			spec:     Spec{Y: num("y", 1.2), R: num("r", 1)},
			wantErr:  true,
			wantKind: validation.AmbiguousOutcome,
		},
		{
			name:     "nothing supplied",
			spec:     Spec{},
			wantErr:  true,
			wantKind: validation.AmbiguousOutcome,
		},
		{
			name:     "n without r is not an outcome",
			spec:     Spec{N: num("n", 20)},
			wantErr:  true,
			wantKind: validation.AmbiguousOutcome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.spec, tt.requireSE)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected classification error")
				}
				if kind, _ := validation.KindOf(err); kind != tt.wantKind {
					t.Errorf("Expected kind %s, got %v", tt.wantKind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidate_Count(t *testing.T) {
	tests := []struct {
		name    string
		r, n    []float64
		wantErr bool
	}{
		{"All events is valid", []float64{20}, []float64{20}, false},
		{"No events is valid", []float64{0}, []float64{20}, false},
		{"Events exceed denominator", []float64{21}, []float64{20}, true},
		{"Negative events", []float64{-1}, []float64{20}, true},
		{"Non-integer events", []float64{2.5}, []float64{20}, true},
		{"Zero denominator", []float64{0}, []float64{0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Count, Spec{R: num("r", tt.r...), N: num("n", tt.n...)}, true)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Binary(t *testing.T) {
	if err := Validate(Binary, Spec{R: num("r", 0, 1, 1, 0)}, false); err != nil {
		t.Errorf("0/1 outcomes should be valid: %v", err)
	}
	if err := Validate(Binary, Spec{R: num("r", 2)}, false); err == nil {
		t.Error("Binary outcome above 1 should fail")
	}
	if err := Validate(Binary, Spec{R: num("r", -1)}, false); err == nil {
		t.Error("Negative binary outcome should fail")
	}
}

func TestValidate_Rate(t *testing.T) {
	if err := Validate(Rate, Spec{R: num("r", 3), E: num("E", 12.5)}, true); err != nil {
		t.Errorf("Valid rate outcome rejected: %v", err)
	}
	if err := Validate(Rate, Spec{R: num("r", 3), E: num("E", 0)}, true); err == nil {
		t.Error("Zero exposure time should fail")
	}
	if err := Validate(Rate, Spec{R: num("r", 3), E: num("E", -1.5)}, true); err == nil {
		t.Error("Negative exposure time should fail")
	}
}

func TestValidate_Continuous(t *testing.T) {
	if err := Validate(Continuous, Spec{Y: num("y", -0.5), SE: num("se", 0.2)}, true); err != nil {
		t.Errorf("Valid continuous outcome rejected: %v", err)
	}
	if err := Validate(Continuous, Spec{Y: num("y", 1), SE: num("se", 0)}, true); err == nil {
		t.Error("Zero standard error should fail")
	}
	if err := Validate(Continuous, Spec{Y: num("y", 1), SE: num("se", -0.2)}, true); err == nil {
		t.Error("Negative standard error should fail")
	}
	if err := Validate(Continuous, Spec{Y: num("y", math.NaN())}, false); err == nil {
		t.Error("NaN outcome should fail")
	}

	missing := num("y", 1, 2)
	missing.Missing[1] = true
	if err := Validate(Continuous, Spec{Y: missing}, false); err == nil {
		t.Error("Missing continuous outcome should fail")
	}
}

func TestValidateSampleSize(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		wantErr bool
	}{
		{"One is valid", []float64{1}, false},
		{"Zero is rejected", []float64{0}, true},
		{"Non-integer is rejected", []float64{10.5}, true},
		{"Infinite is rejected", []float64{math.Inf(1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSampleSize(num("sample_size", tt.values...))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSampleSize error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
