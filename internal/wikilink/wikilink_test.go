package wikilink

import "testing"

func TestParseExact(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantTarget  string
		wantDisplay string
		wantOK      bool
	}{
		{"plain link", "[[people/jane-doe]]", "people/jane-doe", "", true},
		{"with display", "[[people/jane-doe|Jane Doe]]", "people/jane-doe", "Jane Doe", true},
		{"whitespace trimmed", "  [[ people/jane-doe ]]  ", "people/jane-doe", "", true},
		{"not a link", "people/jane-doe", "", "", false},
		{"empty target", "[[]]", "", "", false},
		{"unclosed", "[[people/jane", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, display, ok := ParseExact(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if target != tt.wantTarget {
				t.Errorf("target = %q, want %q", target, tt.wantTarget)
			}
			if display != tt.wantDisplay {
				t.Errorf("display = %q, want %q", display, tt.wantDisplay)
			}
		})
	}
}

func TestTarget(t *testing.T) {
	if got := Target("[[people/jane-doe|Jane]]"); got != "people/jane-doe" {
		t.Errorf("Target = %q, want people/jane-doe", got)
	}
	if got := Target(" bare-id "); got != "bare-id" {
		t.Errorf("Target = %q, want bare-id", got)
	}
}

func TestFormat(t *testing.T) {
	if got := Format("people/jane-doe", ""); got != "[[people/jane-doe]]" {
		t.Errorf("Format = %q", got)
	}
	if got := Format("people/jane-doe", "Jane Doe"); got != "[[people/jane-doe|Jane Doe]]" {
		t.Errorf("Format = %q", got)
	}
	if got := Format("jane", "jane"); got != "[[jane]]" {
		t.Errorf("Format with equal display = %q", got)
	}
}

func TestFindAllInLine(t *testing.T) {
	line := "married [[people/john]] in [[places/york|York]]"
	matches := FindAllInLine(line)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Target != "people/john" {
		t.Errorf("first target = %q", matches[0].Target)
	}
	if matches[1].Display != "York" {
		t.Errorf("second display = %q", matches[1].Display)
	}
}

func TestFindAllInLineSkipsArraySyntax(t *testing.T) {
	matches := FindAllInLine("spouses: [[[people/john]]]")
	if len(matches) != 0 {
		t.Errorf("expected array syntax to be skipped, got %v", matches)
	}
}
