package slugs

import "testing"

func TestName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mary Ann O'Brien", "mary-ann-obrien"},
		{"Jane Doe.md", "jane-doe"},
		{"  Søren Kierkegaard  ", "soren-kierkegaard"},
	}

	for _, tt := range tests {
		if got := Name(tt.in); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnique(t *testing.T) {
	taken := map[string]bool{"jane-doe": true, "jane-doe-2": true}

	if got := Unique("jane-doe", taken); got != "jane-doe-3" {
		t.Errorf("Unique = %q, want jane-doe-3", got)
	}
	if got := Unique("john-doe", taken); got != "john-doe" {
		t.Errorf("Unique = %q, want john-doe", got)
	}
	if got := Unique("", taken); got != "person" {
		t.Errorf("Unique empty = %q, want person", got)
	}
}
