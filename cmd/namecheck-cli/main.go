// Command namecheck-cli validates person names against a reference
// directory, either interactively or in batch over a CSV/text file. The
// directory is a MariaDB/MySQL table by default; -directory switches to an
// in-memory CSV-backed directory for offline use.
package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"namecheck/internal/mariadb"
	"namecheck/internal/memdir"
	"namecheck/matcher"
)

type cliOptions struct {
	configPath    string
	dsn           string
	directoryPath string
	inputPath     string
	outputPath    string
	scorerName    string
	stdout        bool
	noColor       bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("namecheck-cli: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("namecheck-cli: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to namecheck.toml (default: ./namecheck.toml)")
	flag.StringVar(&opts.dsn, "dsn", "", "MySQL/MariaDB DSN (default: assembled from DB_* env vars)")
	flag.StringVar(&opts.directoryPath, "directory", "", "CSV reference directory; replaces the database source")
	flag.StringVar(&opts.inputPath, "input", "", "CSV/text file of names to check in batch (default: interactive)")
	flag.StringVar(&opts.outputPath, "output", "", "CSV file for batch results (default: result_<timestamp>.csv)")
	flag.StringVar(&opts.scorerName, "scorer", "", "Similarity algorithm (composite, levenshtein, jaro-winkler, ...)")
	flag.BoolVar(&opts.stdout, "stdout", false, "Print batch results to STDOUT as well")
	flag.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.configPath = strings.TrimSpace(opts.configPath)
	opts.dsn = strings.TrimSpace(opts.dsn)
	opts.directoryPath = strings.TrimSpace(opts.directoryPath)
	opts.inputPath = strings.TrimSpace(opts.inputPath)
	opts.outputPath = strings.TrimSpace(opts.outputPath)
	opts.scorerName = strings.TrimSpace(opts.scorerName)
	return opts, nil
}

func run(opts cliOptions) error {
	_ = godotenv.Load()
	if opts.noColor {
		color.NoColor = true
	}

	cfg, err := loadFileConfig(opts.configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	logger := log.New(os.Stderr, "", log.LstdFlags)

	source, closeSource, err := openSource(ctx, opts, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	scorer, err := pickScorer(firstNonEmpty(opts.scorerName, cfg.Scorer))
	if err != nil {
		return err
	}

	service, err := matcher.NewService(ctx, source, scorer, cfg.Matcher, logger)
	if err != nil {
		return fmt.Errorf("init matcher: %w", err)
	}

	if opts.inputPath != "" {
		return runBatch(ctx, service, opts)
	}
	return runInteractive(ctx, service, os.Stdin, os.Stdout)
}

// openSource picks the candidate source: a CSV-backed in-memory directory
// when -directory is given, the database otherwise.
func openSource(ctx context.Context, opts cliOptions, cfg fileConfig) (matcher.CandidateSource, func(), error) {
	if opts.directoryPath != "" {
		dir, err := memdir.LoadCSV(opts.directoryPath)
		if err != nil {
			return nil, nil, err
		}
		if dir.Size() == 0 {
			return nil, nil, fmt.Errorf("directory file %s holds no usable names", opts.directoryPath)
		}
		return dir, func() {}, nil
	}

	dsn := firstNonEmpty(opts.dsn, cfg.DB.DSN)
	if dsn == "" {
		var err error
		dsn, err = dsnFromEnv()
		if err != nil {
			return nil, nil, err
		}
	}
	store, err := mariadb.Open(ctx, dsn, cfg.DB.storeOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("open directory store: %w", err)
	}
	return store, func() { store.Close() }, nil
}

func pickScorer(name string) (matcher.Scorer, error) {
	if name == "" || name == "composite" {
		return nil, nil // matcher default
	}
	return matcher.NewAlgorithmScorer(name)
}

func runInteractive(ctx context.Context, service *matcher.Service, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "namecheck (fulltext=%v). Type 'quit' to exit.\n", service.FullText())
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "name> ")
		if !scanner.Scan() {
			break
		}
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		if lower := strings.ToLower(raw); lower == "quit" || lower == "exit" || lower == "q" {
			break
		}
		result, err := service.Check(ctx, raw)
		if err != nil {
			return err
		}
		renderResult(out, raw, result)
	}
	return scanner.Err()
}

func runBatch(ctx context.Context, service *matcher.Service, opts cliOptions) error {
	names, err := readNames(opts.inputPath)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return errors.New("input file does not contain any names")
	}

	results, err := service.CheckAll(ctx, names)
	if err != nil {
		return err
	}

	outputPath := opts.outputPath
	if outputPath == "" {
		outputPath = fmt.Sprintf("result_%s.csv", time.Now().Format("20060102150405"))
	}
	if err := writeResultCSV(outputPath, names, results); err != nil {
		return err
	}
	fmt.Printf("wrote %d results to %s\n", len(results), outputPath)

	if opts.stdout {
		for i, name := range names {
			renderResult(os.Stdout, name, results[i])
		}
	}
	return nil
}

// readNames loads the batch input: first CSV column per row, or whole
// lines for plain text files.
func readNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	var names []string
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1
		for {
			row, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("read input file: %w", err)
			}
			if len(row) > 0 && strings.TrimSpace(row[0]) != "" {
				names = append(names, strings.TrimSpace(row[0]))
			}
		}
		return names, nil
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			names = append(names, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	return names, nil
}

func writeResultCSV(path string, names []string, results []matcher.MatchResult) error {
	if len(names) != len(results) {
		return fmt.Errorf("names/results length mismatch: %d vs %d", len(names), len(results))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"input", "kind", "match", "id", "score", "rationale"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, res := range results {
		name, id, score := resultColumns(res)
		row := []string{names[i], string(res.Kind), name, id, score, res.Rationale}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush result: %w", err)
	}
	return nil
}

func resultColumns(res matcher.MatchResult) (name, id, score string) {
	switch res.Kind {
	case matcher.KindExact:
		return res.Exact.DisplayName, fmt.Sprintf("%d", res.Exact.ID), "100.0"
	case matcher.KindAutoCorrected:
		return res.Best.Candidate.DisplayName,
			fmt.Sprintf("%d", res.Best.Candidate.ID),
			fmt.Sprintf("%.1f", res.Best.Score)
	case matcher.KindSuggestions:
		top := res.Suggestions[0]
		return top.Candidate.DisplayName,
			fmt.Sprintf("%d", top.Candidate.ID),
			fmt.Sprintf("%.1f", top.Score)
	default:
		return "", "", ""
	}
}

var (
	validLabel   = color.New(color.FgGreen, color.Bold)
	fixedLabel   = color.New(color.FgCyan, color.Bold)
	suggestLabel = color.New(color.FgYellow, color.Bold)
	missLabel    = color.New(color.FgRed, color.Bold)
)

func renderResult(w io.Writer, raw string, res matcher.MatchResult) {
	switch res.Kind {
	case matcher.KindExact:
		validLabel.Fprint(w, "valid")
		fmt.Fprintf(w, ": %s (id=%d)\n", res.Exact.DisplayName, res.Exact.ID)
	case matcher.KindAutoCorrected:
		fixedLabel.Fprint(w, "auto-corrected")
		fmt.Fprintf(w, " (%s):\n", res.Rationale)
		fmt.Fprintf(w, "  input: %s\n", raw)
		fmt.Fprintf(w, "  fixed: %s (id=%d)\n", res.Best.Candidate.DisplayName, res.Best.Candidate.ID)
	case matcher.KindSuggestions:
		suggestLabel.Fprint(w, "not confident")
		fmt.Fprintf(w, " (%s), top suggestions:\n", res.Rationale)
		for i, m := range res.Suggestions {
			fmt.Fprintf(w, "  %2d. %s [score=%.1f] id=%d\n", i+1, m.Candidate.DisplayName, m.Score, m.Candidate.ID)
		}
	default:
		missLabel.Fprint(w, "no match")
		fmt.Fprintf(w, ": %s\n", raw)
	}
}
