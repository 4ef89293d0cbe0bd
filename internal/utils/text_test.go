package utils

import "testing"

func TestSplitDocstring(t *testing.T) {
	summary, description := SplitDocstring("")
	if summary != nil || description != nil {
		t.Fatalf("empty doc: got %v, %v", summary, description)
	}

	summary, description = SplitDocstring("One line.")
	if summary == nil || *summary != "One line." || description != nil {
		t.Fatalf("single line: got %v, %v", summary, description)
	}

	summary, description = SplitDocstring("Summary.\n\n  Body text.\nMore.\n")
	if summary == nil || *summary != "Summary." {
		t.Fatalf("summary: got %v", summary)
	}
	if description == nil || *description != "Body text.\nMore." {
		t.Fatalf("description: got %v", description)
	}
}

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"list":           "List",
		"partial_update": "Partial_Update",
		"products":       "Products",
		"user-accounts":  "User-Accounts",
		"v2items":        "V2Items",
		"API":            "Api",
		"":               "",
	}
	for in, want := range tests {
		if got := Title(in); got != want {
			t.Errorf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}
