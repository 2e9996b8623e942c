package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Description
	}{
		{
			name:  "canonical",
			input: "(A #b #c)",
			want:  Description{Text: "A", Tags: []string{"b", "c"}},
		},
		{
			name:  "korean sample",
			input: "(이쁜옷 #이쁜 #옷)",
			want:  Description{Text: "이쁜옷", Tags: []string{"이쁜", "옷"}},
		},
		{
			name:  "empty string",
			input: "",
			want:  Description{Text: "", Tags: []string{}},
		},
		{
			name:  "no tags",
			input: "no tags here",
			want:  Description{Text: "no tags here", Tags: []string{}},
		},
		{
			name:  "only a tag",
			input: "(#only)",
			want:  Description{Text: "", Tags: []string{"only"}},
		},
		{
			name:  "duplicates kept in order",
			input: "(look #a #b #a)",
			want:  Description{Text: "look", Tags: []string{"a", "b", "a"}},
		},
		{
			name:  "surrounding whitespace",
			input: "   (relaxed fit #casual)   ",
			want:  Description{Text: "relaxed fit", Tags: []string{"casual"}},
		},
		{
			name:  "single bracket pair only",
			input: "((nested #x))",
			want:  Description{Text: "(nested", Tags: []string{"x)"}},
		},
		{
			name:  "missing closing bracket",
			input: "(open #tag",
			want:  Description{Text: "open", Tags: []string{"tag"}},
		},
		{
			name:  "bare hash is not a tag",
			input: "(price # tag)",
			want:  Description{Text: "price # tag", Tags: []string{}},
		},
		{
			name:  "interior spaces are not collapsed",
			input: "(left #mid right)",
			want:  Description{Text: "left  right", Tags: []string{"mid"}},
		},
		{
			name:  "ideographic space separates tags",
			input: "(옷\u3000#a\u3000#b)",
			want:  Description{Text: "옷", Tags: []string{"a", "b"}},
		},
		{
			name:  "no-break space separates tags",
			input: "(look\u00a0#a\u00a0#b)",
			want:  Description{Text: "look", Tags: []string{"a", "b"}},
		},
		{
			name:  "tags in the middle of text",
			input: "summer#hot look",
			want:  Description{Text: "summer look", Tags: []string{"hot"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDescription(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("ParseDescription(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseDescriptionPtrAbsent(t *testing.T) {
	got := ParseDescriptionPtr(nil)
	if got.Text != "" || got.Tags == nil || len(got.Tags) != 0 {
		t.Fatalf("ParseDescriptionPtr(nil) = %+v, want empty text and empty tags", got)
	}

	raw := "(A #b)"
	if diff := cmp.Diff(Description{Text: "A", Tags: []string{"b"}}, ParseDescriptionPtr(&raw)); diff != "" {
		t.Fatalf("ParseDescriptionPtr mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDescriptionTotal(t *testing.T) {
	inputs := []string{"", " ", "(", ")", "()", "#", "##", "(#)", "\x00#\xff", "( # # # )", "#a#b", "\t(#tab)\n"}
	for _, input := range inputs {
		got := ParseDescription(input)
		if got.Tags == nil {
			t.Fatalf("ParseDescription(%q) returned nil tags", input)
		}
	}
}

func TestExtractHelpers(t *testing.T) {
	if got := ExtractText("(A #b)"); got != "A" {
		t.Fatalf("ExtractText = %q, want %q", got, "A")
	}
	if diff := cmp.Diff([]string{"b"}, ExtractTags("(A #b)")); diff != "" {
		t.Fatalf("ExtractTags mismatch (-want +got):\n%s", diff)
	}
}
