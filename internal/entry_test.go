package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/zgraph/internal/apperr"
	"github.com/starford/zgraph/internal/index"
	"github.com/starford/zgraph/internal/metrics"
	"github.com/starford/zgraph/internal/testutil"
)

func newApp(t *testing.T, cfg *Config, quiet bool) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app, err := New(
		WithConfig(cfg),
		WithStdout(&stdout),
		WithStderr(&stderr),
		WithQuiet(quiet),
		WithLogger(slog.New(slog.DiscardHandler)),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return app, &stdout, &stderr
}

func TestStats(t *testing.T) {
	for _, ext := range []string{".md", ".txt"} {
		t.Run(ext, func(t *testing.T) {
			app, stdout, stderr := newApp(t, nil, false)
			if err := app.Stats(context.Background(), testutil.Zettelkasten(t, ext)); err != nil {
				t.Fatalf("Stats: %v", err)
			}
			want := "7 Zettel\n6 references between Zettel\n2 Zettel with no references\n4 connected components\n"
			if diff := cmp.Diff(want, stdout.String()); diff != "" {
				t.Errorf("stdout (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(testutil.ZettelkastenDiagnostics(ext), stderr.String()); diff != "" {
				t.Errorf("stderr (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStats_Quiet(t *testing.T) {
	app, stdout, stderr := newApp(t, nil, true)
	if err := app.Stats(context.Background(), testutil.Zettelkasten(t, ".md")); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stderr.Len() != 0 {
		t.Errorf("quiet mode wrote diagnostics: %q", stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), "7 Zettel\n") {
		t.Errorf("quiet mode changed the report: %q", stdout.String())
	}
}

func TestStats_CountDuplicateReferences(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Graph.CountDuplicateReferences = true
	app, stdout, _ := newApp(t, cfg, true)
	if err := app.Stats(context.Background(), testutil.Zettelkasten(t, ".md")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "7 references between Zettel\n") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestStats_InvalidDirectory(t *testing.T) {
	app, stdout, _ := newApp(t, nil, false)
	err := app.Stats(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, apperr.ErrInvalidDirectory) {
		t.Fatalf("err = %v, want ErrInvalidDirectory", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}

const (
	wantUnconnected = "202005011017_All_by_myself.md\n202006112225_broken_utf8.md\n"

	wantComponents = "# Component 1\n" +
		"202002241029_Broken_references_Zettel.md\n" +
		"202002251025_This_is_the_first_test_zettel.md\n" +
		"202003211727_This_is_the_second_test_zettel.md\n\n" +
		"# Component 2\n" +
		"03242020003215-eda-explained.md\n" +
		"03272020061037-electrodermal-activity.md\n\n" +
		"# Component 3\n" +
		"202005011017_All_by_myself.md\n\n" +
		"# Component 4\n" +
		"202006112225_broken_utf8.md\n\n"
)

func TestUnconnected(t *testing.T) {
	app, stdout, _ := newApp(t, nil, true)
	if err := app.Unconnected(context.Background(), testutil.Zettelkasten(t, ".md")); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(wantUnconnected, stdout.String()); diff != "" {
		t.Errorf("stdout (-want +got):\n%s", diff)
	}
}

func TestComponents(t *testing.T) {
	app, stdout, _ := newApp(t, nil, true)
	if err := app.Components(context.Background(), testutil.Zettelkasten(t, ".md")); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(wantComponents, stdout.String()); diff != "" {
		t.Errorf("stdout (-want +got):\n%s", diff)
	}
}

// Node keys change with the identity strategy; references and reports still
// use filenames.
func TestReports_IDPrefixIdentity(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Notes.Identity = "id-prefix"
	dir := testutil.Zettelkasten(t, ".md")
	ctx := context.Background()

	app, stdout, stderr := newApp(t, cfg, false)
	if err := app.Stats(ctx, dir); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := "7 Zettel\n6 references between Zettel\n2 Zettel with no references\n4 connected components\n"
	if diff := cmp.Diff(want, stdout.String()); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(testutil.ZettelkastenDiagnostics(".md"), stderr.String()); diff != "" {
		t.Errorf("stderr (-want +got):\n%s", diff)
	}

	app, stdout, _ = newApp(t, cfg, true)
	if err := app.Unconnected(ctx, dir); err != nil {
		t.Fatalf("Unconnected: %v", err)
	}
	if diff := cmp.Diff(wantUnconnected, stdout.String()); diff != "" {
		t.Errorf("unconnected (-want +got):\n%s", diff)
	}

	app, stdout, _ = newApp(t, cfg, true)
	if err := app.Components(ctx, dir); err != nil {
		t.Fatalf("Components: %v", err)
	}
	if diff := cmp.Diff(wantComponents, stdout.String()); diff != "" {
		t.Errorf("components (-want +got):\n%s", diff)
	}
}

func TestEmptyDirectory(t *testing.T) {
	app, stdout, stderr := newApp(t, nil, false)
	if err := app.Stats(context.Background(), t.TempDir()); err != nil {
		t.Fatal(err)
	}
	want := "0 Zettel\n0 references between Zettel\n0 Zettel with no references\n0 connected components\n"
	if stdout.String() != want || stderr.Len() != 0 {
		t.Errorf("stdout = %q, stderr = %q", stdout.String(), stderr.String())
	}
}

func TestGraphPDF(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script engine not supported on windows")
	}
	engine := filepath.Join(t.TempDir(), "fake-dot")
	script := "#!/bin/sh\nwhile [ $# -gt 0 ]; do\n  if [ \"$1\" = \"-o\" ]; then out=\"$2\"; fi\n  shift\ndone\ncat > \"$out\"\n"
	if err := os.WriteFile(engine, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	cfg.Render.Engine = engine
	app, _, _ := newApp(t, cfg, true)

	name := filepath.Join(t.TempDir(), "my_graph")
	out, err := app.GraphPDF(context.Background(), testutil.Zettelkasten(t, ".md"), name)
	if err != nil {
		t.Fatalf("GraphPDF: %v", err)
	}
	if out != name+".pdf" {
		t.Errorf("output = %q, want %q", out, name+".pdf")
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "->"); n != 6 {
		t.Errorf("rendered edges = %d, want 6", n)
	}
}

func TestGraphPDF_RendererMissing(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Render.Engine = "zgraph-no-such-engine"
	app, _, _ := newApp(t, cfg, true)

	_, err := app.GraphPDF(context.Background(), testutil.Zettelkasten(t, ".md"), "")
	if !errors.Is(err, apperr.ErrRendererUnavailable) {
		t.Errorf("err = %v, want ErrRendererUnavailable", err)
	}
}

func TestExport_SQLite(t *testing.T) {
	app, _, _ := newApp(t, nil, true)
	out := filepath.Join(t.TempDir(), "graph.db")
	if err := app.Export(context.Background(), testutil.Zettelkasten(t, ".md"), out, ExportSQLite); err != nil {
		t.Fatalf("Export: %v", err)
	}

	db, err := index.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	c, err := db.Counts()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(index.Counts{Notes: 7, Links: 6, Diagnostics: 5}, c); diff != "" {
		t.Errorf("counts (-want +got):\n%s", diff)
	}
}

func TestExport_JSON(t *testing.T) {
	app, _, _ := newApp(t, nil, true)
	out := filepath.Join(t.TempDir(), "graph.json")
	if err := app.Export(context.Background(), testutil.Zettelkasten(t, ".md"), out, ExportJSON); err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var doc index.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Stats.Nodes != 7 || len(doc.Links) != 6 {
		t.Errorf("document stats = %+v", doc.Stats)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	app, _, _ := newApp(t, nil, true)
	err := app.Export(context.Background(), testutil.Zettelkasten(t, ".md"), filepath.Join(t.TempDir(), "x"), "csv")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("err = %v, want unknown format", err)
	}
}

func TestHandler_HealthAndAPI(t *testing.T) {
	app, _, _ := newApp(t, nil, true)
	_, svc, err := app.service(testutil.Zettelkasten(t, ".md"))
	if err != nil {
		t.Fatal(err)
	}
	m := metrics.New()
	h := app.Handler(svc, nil, m)

	code := func(path string) int {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}

	if got := code("/health/live"); got != http.StatusOK {
		t.Errorf("/health/live = %d", got)
	}
	if got := code("/health/ready"); got != http.StatusServiceUnavailable {
		t.Errorf("/health/ready before build = %d, want 503", got)
	}

	if _, _, err := svc.Rebuild(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{"/health/ready", "/api/stats", "/api/components", "/metrics"} {
		if got := code(path); got != http.StatusOK {
			t.Errorf("%s = %d, want 200", path, got)
		}
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Notes.Identity = "bogus"
	if _, err := New(WithConfig(cfg)); err == nil {
		t.Fatal("New accepted an invalid config")
	}
}
