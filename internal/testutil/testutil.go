// Package testutil provides shared test helpers for building note directories.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteNotes creates a temporary directory holding the given files.
func WriteNotes(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// Zettelkasten returns a seven-note directory using extension ext (".md" or
// ".txt"). It contains six distinct resolvable references, one
// self-reference, a repeated reference, two unresolved markdown links, one
// unresolved and one ambiguous bracket reference, an isolated note and a note
// that is not valid UTF-8.
//
// Expected results:
//
//	7 Zettel
//	6 references between Zettel
//	2 Zettel with no references
//	4 connected components
func Zettelkasten(t *testing.T, ext string) string {
	t.Helper()
	return WriteNotes(t, map[string][]byte{
		"03242020003215-eda-explained" + ext: []byte(
			"# EDA explained\n\nSee [the activity note](03272020061037-electrodermal-activity" + ext + ").\n"),
		"03272020061037-electrodermal-activity" + ext: []byte(
			"# Electrodermal activity\n\nBuilds on [[03242020003215]].\n" +
				"Artifacts are covered in [artifacts](03272020061037-eda-artifacts" + ext + ").\n" +
				"External: [source](LINK)\n"),
		"202002241029_Broken_references_Zettel" + ext: []byte(
			"[[202005171153]] does not exist.\n[[2020]] is ambiguous.\n[[202002251025]] works.\n"),
		"202002251025_This_is_the_first_test_zettel" + ext: []byte(
			"First. Next: [[202003211727]]. Myself: [[202002251025]].\n"),
		"202003211727_This_is_the_second_test_zettel" + ext: []byte(
			"Second. Back to [[202002251025]] and again [[202002251025]].\nAlso [[202002241029]].\n"),
		"202005011017_All_by_myself" + ext: []byte(
			"Nobody links here and I link nowhere.\n"),
		"202006112225_broken_utf8" + ext: {0xff, 0xfe, '[', '[', '2', '0', ']', ']'},
	})
}

// ZettelkastenDiagnostics is the expected diagnostic output for
// Zettelkasten(t, ext), one message per line.
func ZettelkastenDiagnostics(ext string) string {
	return "No matching Zettel for reference \"03272020061037-eda-artifacts" + ext + "\" in 03272020061037-electrodermal-activity" + ext + "\n" +
		"No matching Zettel for reference \"LINK\" in 03272020061037-electrodermal-activity" + ext + "\n" +
		"No matching Zettel for reference \"202005171153\" in 202002241029_Broken_references_Zettel" + ext + "\n" +
		"Skipping non-unique reference \"2020\" in 202002241029_Broken_references_Zettel" + ext + ". Candidates: " +
		"202002241029_Broken_references_Zettel" + ext + ", 202002251025_This_is_the_first_test_zettel" + ext + ", " +
		"202003211727_This_is_the_second_test_zettel" + ext + ", 202005011017_All_by_myself" + ext + ", " +
		"202006112225_broken_utf8" + ext + "\n" +
		"Skipping 202006112225_broken_utf8" + ext + ": invalid UTF-8 byte 0xff at offset 0\n"
}
