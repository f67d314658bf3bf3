package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"scamguard/classifier"
	"scamguard/domain"
	"scamguard/keywords"
	"scamguard/repositories"
	"scamguard/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, scans the requested messages, and
// centralizes error reporting so every defer (database close, model
// release) executes before the program exits.
func run() error {
	recent := flag.Int("recent", 0, "print the N most recent scan reports and exit")
	search := flag.String("search", "", "full-text search past scans and exit")
	flag.Parse()

	_ = godotenv.Load()

	// 1. Configuration & Logger
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. History storage (BadgerDB + Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		_ = writer.Close()
	}()

	history := repositories.NewScanHistory(db, writer, log)

	if *recent > 0 {
		return printRecent(history, *recent)
	}
	if *search != "" {
		return printSearch(history, *search)
	}

	// 3. Risk classifier
	risk, err := classifier.Load(classifier.Options{
		ArtifactDir:     config.ArtifactDir,
		ModelFile:       config.ModelFile,
		VocabularyFile:  config.VocabularyFile,
		OnnxLibraryPath: config.OnnxLibraryPath,
		MaxSeqLen:       config.MaxSeqLen,
		OOVIndex:        config.OOVIndex,
		VocabSize:       config.VocabSize,
		PaddingPre:      config.PaddingPre,
	}, log)
	if err != nil {
		return fmt.Errorf("classifier setup failed: %w", err)
	}
	defer func() {
		_ = risk.Close()
	}()

	// 4. Keyword flagger
	flagger, err := keywords.NewFlagger(keywords.DefaultPhrases)
	if err != nil {
		return fmt.Errorf("keyword flagger setup failed: %w", err)
	}

	// 5. Scan
	svc := services.NewScanService(risk, flagger, history, log)

	messages, err := collectMessages(flag.Args())
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return fmt.Errorf("nothing to scan: pass messages as arguments or on stdin")
	}

	reports := make([]domain.ScanReport, 0, len(messages))
	for _, message := range messages {
		report, err := svc.Scan(message)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}
	renderReports(reports)
	return nil
}

// collectMessages prefers arguments; with none, each stdin line becomes a
// message.
func collectMessages(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	stat, err := os.Stdin.Stat()
	if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
		return nil, nil
	}

	var messages []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			messages = append(messages, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return messages, nil
}

func printRecent(history *repositories.ScanHistory, limit int) error {
	reports, err := history.Recent(limit)
	if err != nil {
		return err
	}
	renderReports(reports)
	return nil
}

func printSearch(history *repositories.ScanHistory, query string) error {
	ids, err := history.Search(context.Background(), query, 20)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

func renderReports(reports []domain.ScanReport) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Score", "Verdict", "Lang", "Keywords", "Message"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, report := range reports {
		table.Append([]string{
			fmt.Sprintf("%.3f", report.Score),
			colorVerdict(report),
			report.Language,
			strings.Join(report.Keywords, ", "),
			truncate(report.Content, 60),
		})
	}
	table.Render()
}

func colorVerdict(report domain.ScanReport) string {
	label := string(report.Verdict)
	if report.Degraded {
		label += " (degraded)"
	}
	switch report.Verdict {
	case domain.VerdictHigh:
		return color.Red.Sprint(label)
	case domain.VerdictSuspicious:
		return color.Yellow.Sprint(label)
	default:
		return color.Green.Sprint(label)
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
