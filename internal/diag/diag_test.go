package diag

import (
	"bytes"
	"errors"
	"testing"
)

func TestMessages(t *testing.T) {
	cases := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{
			name: "unresolved",
			d:    Unresolved("LINK", "a.md"),
			want: `No matching Zettel for reference "LINK" in a.md`,
		},
		{
			name: "ambiguous",
			d:    Ambiguous("2020", "a.md", []string{"2020a.md", "2020b.md", "2020c.md"}),
			want: `Skipping non-unique reference "2020" in a.md. Candidates: 2020a.md, 2020b.md, 2020c.md`,
		},
		{
			name: "skipped",
			d:    Skipped("broken.md", errors.New("invalid UTF-8 byte 0xff at offset 0")),
			want: `Skipping broken.md: invalid UTF-8 byte 0xff at offset 0`,
		},
		{
			name: "duplicate key",
			d:    DuplicateKey("202001011200", "202001011200_b.md"),
			want: `Duplicate key "202001011200" for 202001011200_b.md, falling back to filename`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.d.Message(); got != tc.want {
				t.Errorf("message = %q\nwant      %q", got, tc.want)
			}
		})
	}
}

func TestReporter_WritesInOrder(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false)
	err := r.Report([]Diagnostic{Unresolved("x", "a.md"), Unresolved("y", "b.md")})
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	want := "No matching Zettel for reference \"x\" in a.md\n" +
		"No matching Zettel for reference \"y\" in b.md\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestReporter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	_ = NewReporter(&buf, true).Report([]Diagnostic{Unresolved("x", "a.md")})
	if buf.Len() != 0 {
		t.Errorf("quiet reporter wrote %q", buf.String())
	}
}

func TestCount(t *testing.T) {
	got := Count([]Diagnostic{Unresolved("x", "a"), Unresolved("y", "a"), Skipped("b", nil)})
	if got[KindUnresolved] != 2 || got[KindSkipped] != 1 || got[KindAmbiguous] != 0 {
		t.Errorf("count = %v", got)
	}
}

func TestMessages_TokenNotEscaped(t *testing.T) {
	got := Unresolved(`a "quoted" ü`, "n.md").Message()
	want := `No matching Zettel for reference "a "quoted" ü" in n.md`
	if got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}
