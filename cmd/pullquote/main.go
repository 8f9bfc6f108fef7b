// Command pullquote extracts attributed quotes from a markdown document
// and creates personalized versions where only one person's quotes stay
// visible. It can verify quote formatting, auto-fix common malformed
// shapes, generate per-person redacted files (optionally converted to
// DOCX via pandoc), bundle outputs, and list past run verdicts.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/pullquote/core/errors"
	"github.com/FocuswithJustin/pullquote/core/fix"
	"github.com/FocuswithJustin/pullquote/core/manifest"
	"github.com/FocuswithJustin/pullquote/core/normalize"
	"github.com/FocuswithJustin/pullquote/core/quote"
	"github.com/FocuswithJustin/pullquote/core/redact"
	"github.com/FocuswithJustin/pullquote/core/report"
	"github.com/FocuswithJustin/pullquote/internal/archive"
	"github.com/FocuswithJustin/pullquote/internal/convert"
	"github.com/FocuswithJustin/pullquote/internal/history"
	"github.com/FocuswithJustin/pullquote/internal/logging"
	"github.com/FocuswithJustin/pullquote/internal/validation"
)

const version = "0.2.0"

// CLI defines the command-line interface for pullquote.
var CLI struct {
	// Global flags
	Verbose   bool   `help:"Enable debug logging"`
	LogFormat string `name:"log-format" enum:"text,json" default:"text" help:"Log output format (text or json)"`

	Check    CheckCmd    `cmd:"" help:"Check a document for quote formatting problems (exit 1 if any)"`
	Fix      FixCmd      `cmd:"" help:"Rewrite fixable malformed quotes into canonical form"`
	Generate GenerateCmd `cmd:"" help:"Generate per-person redacted documents"`
	Bundle   BundleCmd   `cmd:"" help:"Archive generated outputs into a compressed bundle"`
	Runs     RunsGroup   `cmd:"" help:"Run ledger operations"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// RunsGroup contains run ledger operations.
type RunsGroup struct {
	List RunsListCmd `cmd:"" help:"List recorded run verdicts"`
}

// loadDocument validates, reads, and normalizes the input document.
func loadDocument(path string) (string, error) {
	if err := validation.ValidatePath(path); err != nil {
		return "", fmt.Errorf("invalid input path: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.NewIO("stat", path, err)
	}
	if err := validation.ValidateFileSize(info.Size()); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewIO("read", path, err)
	}
	return normalize.Text(string(data)), nil
}

// printSuspected reports malformed records with their line numbers and,
// where a safe rewrite exists, the suggested canonical form.
func printSuspected(recs []quote.Record) {
	var malformed []quote.Record
	for _, r := range recs {
		if !r.WellFormed() {
			malformed = append(malformed, r)
		}
	}
	if len(malformed) == 0 {
		return
	}

	fmt.Println("\nQuotes that may need formatting:")
	for _, r := range malformed {
		fmt.Printf("  Line %d: %c%s%c\n", r.Line, markOf(r), r.Text, markOf(r))
		if r.Kind.Fixable() {
			fmt.Printf("    Attribution: %s\n", r.Attribution)
			fmt.Printf("    Suggested:   %s\n", r.Canonical())
		} else {
			fmt.Println("    No attribution found nearby; fix manually.")
		}
	}
	fmt.Println("\nThe expected format is: \"quote text\" (Person)")
}

func markOf(r quote.Record) byte {
	if r.Mark == 0 {
		return '"'
	}
	return r.Mark
}

// printSummary prints the verdict and per-person counts.
func printSummary(verdict report.Verdict, idx report.PersonIndex) {
	fmt.Printf("\nSummary: found %d quotes from %d people.\n", verdict.WellFormed, len(verdict.Attributions))
	for _, person := range verdict.Attributions {
		fmt.Printf("- %s: %d quotes\n", person, idx.Count(person))
	}
	if verdict.Malformed > 0 {
		fmt.Printf("Malformed: %d (%d fixable)\n", verdict.Malformed, verdict.Fixable)
	}
}

// CheckCmd verifies quote formatting without generating output files.
type CheckCmd struct {
	Path string `arg:"" help:"Markdown file to check" type:"existingfile"`
}

func (c *CheckCmd) Run() error {
	doc, err := loadDocument(c.Path)
	if err != nil {
		return err
	}

	recs := quote.Match(doc)
	verdict := report.Build(recs)
	logging.MatchSummary(c.Path, verdict.Total, verdict.WellFormed, verdict.Malformed)

	printSuspected(recs)
	printSummary(verdict, report.BuildIndex(recs))

	if !verdict.OK() {
		return fmt.Errorf("%d quotes need formatting (run 'pullquote fix %s')", verdict.Malformed, c.Path)
	}
	fmt.Println("\nAll quotes are properly formatted.")
	return nil
}

// FixCmd rewrites fixable malformed quotes into the canonical shape.
type FixCmd struct {
	Path  string `arg:"" help:"Markdown file to fix" type:"existingfile"`
	Out   string `help:"Write the fixed document to this path" type:"path"`
	Write bool   `help:"Overwrite the input file in place"`
}

func (c *FixCmd) Run() error {
	doc, err := loadDocument(c.Path)
	if err != nil {
		return err
	}

	result := fix.Apply(doc, quote.Match(doc))
	if result.Fixed > 0 {
		fmt.Fprintf(os.Stderr, "Fixed %d quotes.\n", result.Fixed)
	} else {
		fmt.Fprintln(os.Stderr, "Nothing to fix.")
	}
	if !result.Clean() {
		logging.Warn("fixable quotes remain after fixing", "path", c.Path)
	}

	switch {
	case c.Write:
		if err := os.WriteFile(c.Path, []byte(result.Doc), 0644); err != nil {
			return errors.NewIO("write", c.Path, err)
		}
		fmt.Fprintf(os.Stderr, "Updated %s\n", c.Path)
	case c.Out != "":
		if err := os.WriteFile(c.Out, []byte(result.Doc), 0644); err != nil {
			return errors.NewIO("write", c.Out, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", c.Out)
	default:
		fmt.Print(result.Doc)
	}
	return nil
}

// GenerateCmd creates per-person redacted documents.
type GenerateCmd struct {
	Path      string `arg:"" help:"Markdown file to process" type:"existingfile"`
	Fix       bool   `help:"Auto-fix malformed quotes before generating"`
	KeepNames bool   `name:"keep-names" help:"Keep quotee names on redacted quotes"`
	Docx      bool   `help:"Also convert each output to DOCX via pandoc"`
	OutDir    string `name:"out-dir" help:"Directory for generated files (default: alongside input)" type:"path"`
	Manifest  bool   `help:"Write a manifest.json with output digests"`
	NoRecord  bool   `name:"no-record" help:"Skip recording this run in the ledger"`
	DB        string `name:"db" help:"Run ledger database path (default: user cache dir)" type:"path"`
}

func (c *GenerateCmd) Run() error {
	doc, err := loadDocument(c.Path)
	if err != nil {
		return err
	}

	recs := quote.Match(doc)
	fixed := false
	if c.Fix {
		result := fix.Apply(doc, recs)
		fixed = result.Fixed > 0
		doc, recs = result.Doc, result.Records
		if fixed {
			fmt.Fprintf(os.Stderr, "Fixed %d quotes before generating.\n", result.Fixed)
		}
	}

	verdict := report.Build(recs)
	idx := report.BuildIndex(recs)
	logging.MatchSummary(c.Path, verdict.Total, verdict.WellFormed, verdict.Malformed)
	printSuspected(recs)
	printSummary(verdict, idx)

	if verdict.WellFormed == 0 {
		fmt.Println("\nNo quotes found in the document.")
		return nil
	}

	outBase := c.Path
	if c.OutDir != "" {
		if err := os.MkdirAll(c.OutDir, 0755); err != nil {
			return errors.NewIO("create directory", c.OutDir, err)
		}
		outBase = filepath.Join(c.OutDir, filepath.Base(c.Path))
	}

	m := manifest.New(c.Path, []byte(doc))
	m.Fixed = fixed
	converter := convert.New()
	ctx := logging.WithRunID(context.Background(), m.RunID)

	for _, person := range verdict.Attributions {
		personalized := redact.Apply(doc, recs, redact.Options{
			Target:    person,
			KeepNames: c.KeepNames,
		})

		mdPath, err := validation.PersonFilename(outBase, person, ".md")
		if err != nil {
			logging.WarnContext(ctx, "skipping attribution with unusable name", "person", person, "error", err.Error())
			continue
		}
		if err := os.WriteFile(mdPath, []byte(personalized), 0644); err != nil {
			return errors.NewIO("write", mdPath, err)
		}
		logging.OutputWritten(person, mdPath, len(personalized))

		converted := false
		if c.Docx {
			docxPath, err := validation.PersonFilename(outBase, person, ".docx")
			if err == nil {
				if convErr := converter.Convert(ctx, mdPath, docxPath); convErr != nil {
					// Conversion is best-effort; the markdown output stands.
					logging.ConversionFailed(mdPath, docxPath, convErr)
					fmt.Fprintf(os.Stderr, "Warning: %v\n", convErr)
				} else {
					converted = true
					fmt.Printf("Created %s for %s\n", docxPath, person)
				}
			}
		}
		m.AddOutput(person, mdPath, []byte(personalized), converted)
		fmt.Printf("Created %s for %s\n", mdPath, person)
	}

	if c.Manifest {
		manifestPath := outBase
		manifestPath = filepath.Join(filepath.Dir(manifestPath), "manifest.json")
		if err := m.Save(manifestPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", manifestPath)
	}

	if !c.NoRecord {
		c.record(m, verdict, fixed)
	}
	return nil
}

// record stores the run verdict in the ledger. Failures are logged and
// never fail the run; the outputs are already on disk.
func (c *GenerateCmd) record(m *manifest.Manifest, verdict report.Verdict, fixed bool) {
	dbPath := c.DB
	if dbPath == "" {
		dbPath = defaultLedgerPath()
	}
	if dbPath == "" {
		return
	}
	store, err := history.Open(dbPath)
	if err != nil {
		logging.Warn("run ledger unavailable", "db", dbPath, "error", err.Error())
		return
	}
	defer store.Close()

	err = store.Record(history.Run{
		ID:         m.RunID,
		Source:     m.Source,
		CreatedAt:  m.CreatedAt,
		Total:      verdict.Total,
		WellFormed: verdict.WellFormed,
		Malformed:  verdict.Malformed,
		People:     len(verdict.Attributions),
		Fixed:      fixed,
	})
	if err != nil {
		logging.Warn("failed to record run", "db", dbPath, "error", err.Error())
	}
}

// defaultLedgerPath resolves the per-user ledger location, creating its
// directory. Returns empty when no cache directory is available.
func defaultLedgerPath() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(cacheDir, "pullquote")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ""
	}
	return filepath.Join(dir, "runs.db")
}

// BundleCmd archives a directory of generated outputs.
type BundleCmd struct {
	Dir         string `arg:"" help:"Directory containing generated outputs" type:"existingdir"`
	Out         string `arg:"" optional:"" help:"Destination archive path (default: <dir>.tar.xz)" type:"path"`
	Compression string `enum:"xz,gzip" default:"xz" help:"Archive compression (xz or gzip)"`
}

func (c *BundleCmd) Run() error {
	compression := archive.Compression(c.Compression)
	out := c.Out
	if out == "" {
		out = filepath.Clean(c.Dir) + compression.Ext()
	}
	if err := archive.BundleOutputs(c.Dir, out, compression); err != nil {
		return errors.Wrap(err, "failed to bundle outputs")
	}
	fmt.Printf("Created %s\n", out)
	return nil
}

// RunsListCmd lists recorded run verdicts, newest first.
type RunsListCmd struct {
	DB    string `name:"db" help:"Run ledger database path (default: user cache dir)" type:"path"`
	Limit int    `default:"20" help:"Maximum number of runs to show"`
}

func (c *RunsListCmd) Run() error {
	dbPath := c.DB
	if dbPath == "" {
		dbPath = defaultLedgerPath()
	}
	if dbPath == "" {
		return errors.NewValidation("db", "no ledger path available")
	}
	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(c.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}
	for _, r := range runs {
		status := "ok"
		if r.Malformed > 0 {
			status = fmt.Sprintf("%d malformed", r.Malformed)
		}
		fmt.Printf("%s  %s  %s  quotes=%d people=%d %s\n",
			r.CreatedAt.Local().Format(time.DateTime), shortID(r.ID), r.Source,
			r.WellFormed, r.People, status)
	}
	return nil
}

// shortID abbreviates a run UUID for display.
func shortID(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()[:8]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("pullquote version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("pullquote"),
		kong.Description("Extract and personalize attributed quotes from markdown documents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	level := logging.LevelInfo
	if CLI.Verbose {
		level = logging.LevelDebug
	}
	format := logging.FormatText
	if CLI.LogFormat == "json" {
		format = logging.FormatJSON
	}
	logging.InitLogger(level, format)

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
