package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FocuswithJustin/pullquote/core/manifest"
	"github.com/FocuswithJustin/pullquote/internal/archive"
	"github.com/FocuswithJustin/pullquote/internal/history"
)

// Test helper functions

func createTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

const mixedDoc = "\"Good work.\" (Alice)\n\"Needs fixing\"\n(Bob)\n"
const cleanDoc = "\"Good work.\" (Alice)\n\"Needs fixing\" (Bob)\n"

// Tests for CheckCmd

func TestCheckCmd_Run(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"all well-formed", cleanDoc, false},
		{"fixable malformed present", mixedDoc, true},
		{"orphan quote present", "\"orphan\"\n\nprose follows here\n", true},
		{"no quotes is a degenerate success", "# Just a heading\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createTestFile(t, t.TempDir(), "doc.md", tt.content)
			cmd := &CheckCmd{Path: path}
			err := cmd.Run()
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// Tests for FixCmd

func TestFixCmd_RunWrite(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "doc.md", mixedDoc)

	cmd := &FixCmd{Path: path, Write: true}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"Needs fixing" (Bob)`) {
		t.Errorf("file not fixed in place: %q", string(data))
	}

	// Fixed file now passes check.
	if err := (&CheckCmd{Path: path}).Run(); err != nil {
		t.Errorf("check after fix should pass: %v", err)
	}
}

func TestFixCmd_RunOut(t *testing.T) {
	dir := t.TempDir()
	path := createTestFile(t, dir, "doc.md", mixedDoc)
	out := filepath.Join(dir, "fixed.md")

	cmd := &FixCmd{Path: path, Out: out}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	original, _ := os.ReadFile(path)
	if string(original) != mixedDoc {
		t.Error("input file must not be modified without --write")
	}
	fixed, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(string(fixed), `"Needs fixing" (Bob)`) {
		t.Errorf("unexpected output: %q", string(fixed))
	}
}

// Tests for GenerateCmd

func TestGenerateCmd_Run(t *testing.T) {
	dir := t.TempDir()
	path := createTestFile(t, dir, "review.md", cleanDoc)
	outDir := filepath.Join(dir, "out")

	cmd := &GenerateCmd{Path: path, OutDir: outDir, NoRecord: true}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	aliceData, err := os.ReadFile(filepath.Join(outDir, "review_Alice.md"))
	if err != nil {
		t.Fatalf("Alice output missing: %v", err)
	}
	alice := string(aliceData)
	if !strings.Contains(alice, `"Good work." (Alice)`) {
		t.Errorf("Alice output lost her quote: %q", alice)
	}
	if strings.Contains(alice, "Needs fixing") || strings.Contains(alice, "Bob") {
		t.Errorf("Alice output leaks Bob's quote: %q", alice)
	}

	bobData, err := os.ReadFile(filepath.Join(outDir, "review_Bob.md"))
	if err != nil {
		t.Fatalf("Bob output missing: %v", err)
	}
	bob := string(bobData)
	if !strings.Contains(bob, `"Needs fixing" (Bob)`) {
		t.Errorf("Bob output lost his quote: %q", bob)
	}
	if strings.Contains(bob, "Good work.") {
		t.Errorf("Bob output leaks Alice's quote: %q", bob)
	}
}

func TestGenerateCmd_KeepNames(t *testing.T) {
	dir := t.TempDir()
	path := createTestFile(t, dir, "review.md", cleanDoc)
	outDir := filepath.Join(dir, "out")

	cmd := &GenerateCmd{Path: path, OutDir: outDir, KeepNames: true, NoRecord: true}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	aliceData, err := os.ReadFile(filepath.Join(outDir, "review_Alice.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(aliceData), `"[QUOTE REDACTED FOR REVIEW]" (Bob)`) {
		t.Errorf("redacted quote should keep Bob's name: %q", string(aliceData))
	}
}

func TestGenerateCmd_FixAndManifest(t *testing.T) {
	dir := t.TempDir()
	path := createTestFile(t, dir, "review.md", mixedDoc)
	outDir := filepath.Join(dir, "out")

	cmd := &GenerateCmd{Path: path, OutDir: outDir, Fix: true, Manifest: true, NoRecord: true}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	// The standalone Bob quote was fixed, so Bob gets an output file.
	if _, err := os.Stat(filepath.Join(outDir, "review_Bob.md")); err != nil {
		t.Errorf("Bob output missing after fix: %v", err)
	}

	m, err := manifest.Load(filepath.Join(outDir, "manifest.json"))
	if err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	if !m.Fixed {
		t.Error("manifest should record the fix")
	}
	if len(m.Outputs) != 2 {
		t.Errorf("manifest outputs = %d, want 2", len(m.Outputs))
	}
}

func TestGenerateCmd_RecordsRun(t *testing.T) {
	dir := t.TempDir()
	path := createTestFile(t, dir, "review.md", cleanDoc)
	dbPath := filepath.Join(dir, "runs.db")

	cmd := &GenerateCmd{Path: path, OutDir: filepath.Join(dir, "out"), DB: dbPath}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	store, err := history.Open(dbPath)
	if err != nil {
		t.Fatalf("ledger missing: %v", err)
	}
	defer store.Close()
	runs, err := store.List(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("recorded runs = %d, want 1", len(runs))
	}
	if runs[0].WellFormed != 2 || runs[0].People != 2 {
		t.Errorf("recorded verdict: %+v", runs[0])
	}
}

func TestGenerateCmd_NoQuotes(t *testing.T) {
	dir := t.TempDir()
	path := createTestFile(t, dir, "empty.md", "# Nothing here\n")

	cmd := &GenerateCmd{Path: path, OutDir: filepath.Join(dir, "out"), NoRecord: true}
	if err := cmd.Run(); err != nil {
		t.Errorf("zero quotes should be a degenerate success: %v", err)
	}
}

// Tests for BundleCmd

func TestBundleCmd_Run(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		t.Fatal(err)
	}
	createTestFile(t, outDir, "review_Alice.md", "content")

	dst := filepath.Join(dir, "outputs.tar.xz")
	cmd := &BundleCmd{Dir: outDir, Out: dst, Compression: "xz"}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	names, err := archive.ListEntries(dst)
	if err != nil {
		t.Fatalf("archive unreadable: %v", err)
	}
	if len(names) != 1 || names[0] != "outputs/review_Alice.md" {
		t.Errorf("entries = %v", names)
	}
}

// Tests for RunsListCmd

func TestRunsListCmd_Run(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")

	// Empty ledger lists cleanly.
	if err := (&RunsListCmd{DB: dbPath, Limit: 5}).Run(); err != nil {
		t.Errorf("empty ledger list failed: %v", err)
	}
}

func TestVersionCmd_Run(t *testing.T) {
	if err := (&VersionCmd{}).Run(); err != nil {
		t.Errorf("Run() failed: %v", err)
	}
}
