package calc

import "testing"

func TestEvaluate(t *testing.T) {
	e := New()

	tests := []struct {
		expr string
		want float64
	}{
		{"1 + 2", 3},
		{"2 * 3.5", 7},
		{"(1 + 2) * 4", 12},
		{"10 - 2.5", 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", tt.expr, err)
			}
			if got != tt.want {
				t.Fatalf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateMalformed(t *testing.T) {
	e := New()

	for _, expr := range []string{"1/", "", "1 +", "((2)"} {
		if _, err := e.Evaluate(expr); err == nil {
			t.Fatalf("Evaluate(%q) should fail", expr)
		}
	}
}

func TestEvaluateNonNumericResult(t *testing.T) {
	e := New()

	if _, err := e.Evaluate("true"); err == nil {
		t.Fatal("boolean result should be rejected")
	}
	if _, err := e.Evaluate(`"a" + "b"`); err == nil {
		t.Fatal("string result should be rejected")
	}
}
