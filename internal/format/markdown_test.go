package format

import "testing"

func TestUTF16Len(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"hello", 5},
		{"héllo", 5},
		{"日本語", 3},
		{"📅", 2}, // surrogate pair
		{"a📅b", 4},
	}
	for _, tt := range tests {
		if got := UTF16Len(tt.in); got != tt.want {
			t.Errorf("UTF16Len(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseMarkdownBold(t *testing.T) {
	res := ParseMarkdown("see **this** here")
	if res.Text != "see this here" {
		t.Errorf("text = %q", res.Text)
	}
	if len(res.Entities) != 1 {
		t.Fatalf("entities = %+v", res.Entities)
	}
	e := res.Entities[0]
	if e.Type != "bold" || e.Offset != 4 || e.Length != 4 {
		t.Errorf("entity = %+v", e)
	}
}

func TestParseMarkdownHeader(t *testing.T) {
	res := ParseMarkdown("# Title\nbody")
	if res.Text != "Title\nbody" {
		t.Errorf("text = %q", res.Text)
	}
	if len(res.Entities) != 1 || res.Entities[0].Type != "bold" || res.Entities[0].Offset != 0 || res.Entities[0].Length != 5 {
		t.Errorf("entities = %+v", res.Entities)
	}
}

func TestParseMarkdownMixed(t *testing.T) {
	res := ParseMarkdown("**a** and `b`")
	if res.Text != "a and b" {
		t.Errorf("text = %q", res.Text)
	}
	if len(res.Entities) != 2 {
		t.Fatalf("entities = %+v", res.Entities)
	}
	if res.Entities[0].Type != "bold" || res.Entities[0].Offset != 0 {
		t.Errorf("first entity = %+v", res.Entities[0])
	}
	if res.Entities[1].Type != "code" || res.Entities[1].Offset != 6 || res.Entities[1].Length != 1 {
		t.Errorf("second entity = %+v", res.Entities[1])
	}
}

func TestParseMarkdownOffsetsAfterEmoji(t *testing.T) {
	// The emoji occupies two UTF-16 units, shifting the entity offset.
	res := ParseMarkdown("📅 **today**")
	if len(res.Entities) != 1 {
		t.Fatalf("entities = %+v", res.Entities)
	}
	if res.Entities[0].Offset != 3 || res.Entities[0].Length != 5 {
		t.Errorf("entity = %+v", res.Entities[0])
	}
}

func TestParseMarkdownPlainText(t *testing.T) {
	res := ParseMarkdown("nothing fancy")
	if res.Text != "nothing fancy" || len(res.Entities) != 0 {
		t.Errorf("got %+v", res)
	}
}
