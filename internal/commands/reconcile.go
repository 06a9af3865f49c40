package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerstitch-dev/ledgerstitch/internal/accounts"
	"github.com/ledgerstitch-dev/ledgerstitch/internal/assemble"
	"github.com/ledgerstitch-dev/ledgerstitch/internal/auditlog"
	"github.com/ledgerstitch-dev/ledgerstitch/internal/config"
	"github.com/ledgerstitch-dev/ledgerstitch/internal/continuity"
	"github.com/ledgerstitch-dev/ledgerstitch/internal/extract"
	"github.com/ledgerstitch-dev/ledgerstitch/internal/logging"
	"github.com/ledgerstitch-dev/ledgerstitch/internal/model"
	"github.com/ledgerstitch-dev/ledgerstitch/internal/normalize"
	"github.com/ledgerstitch-dev/ledgerstitch/internal/rules"
)

func newReconcileCommand() *cobra.Command {
	var configPath string
	var rulesPath string
	var outDir string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "reconcile <statement.txt>...",
		Short: "Extract, order, and reconcile statement files into per-account ledgers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, args, configPath, rulesPath, outDir, verbose)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "ledgerstitch.yaml", "project configuration file")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "categorisation rules file (overrides config)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory for ledger CSVs (overrides config)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log boundary checks as they run")

	return cmd
}

func runReconcile(cmd *cobra.Command, args []string, configPath, rulesPath, outDir string, verbose bool) error {
	log := logging.New(verbose)

	cfg := config.Default()
	if _, err := os.Stat(configPath); err == nil {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		log.Debug().Str("path", configPath).Msg("no config file, using defaults")
	}

	tolerance, err := cfg.Tolerance()
	if err != nil {
		return err
	}

	if rulesPath == "" {
		rulesPath = cfg.Paths.RulesFile
	}
	ruleSet := rules.Empty()
	if _, err := os.Stat(rulesPath); err == nil {
		ruleSet, err = rules.Load(rulesPath)
		if err != nil {
			return err
		}
	}

	if outDir == "" {
		outDir = cfg.Paths.OutputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	// Extract and normalize every statement, grouping periods by account.
	// A statement that no extractor claims or that fails validation is
	// fatal for that document only; the rest still reconcile.
	registry := extract.DefaultRegistry()
	byAccount := make(map[string][]continuity.Period)
	skipped := 0
	skip := func(path string, err error) {
		skipped++
		log.Error().Err(err).Str("source", path).Msg("statement skipped")
		fmt.Fprintf(cmd.OutOrStdout(), "SKIPPED %s: %v\n", path, err)
	}
	for _, path := range args {
		doc, err := loadDocument(path)
		if err != nil {
			return err
		}
		e, err := registry.Select(doc)
		if err != nil {
			skip(path, err)
			continue
		}
		raws, meta, err := e.Extract(doc)
		if err != nil {
			skip(path, err)
			continue
		}
		txns, period, err := normalize.Normalize(filepath.Base(path), raws, meta, e.Version())
		if err != nil {
			skip(path, err)
			continue
		}
		log.Info().
			Str("source", path).
			Str("extractor", e.Version()).
			Str("account", period.Account).
			Int("rows", len(txns)).
			Msg("statement extracted")
		byAccount[period.Account] = append(byAccount[period.Account], continuity.Period{Meta: period, Txns: txns})
	}

	accountIDs := make([]string, 0, len(byAccount))
	for a := range byAccount {
		accountIDs = append(accountIDs, a)
	}
	sort.Strings(accountIDs)

	acctSvc := accounts.NewService(cfg.Accounts)
	engine := continuity.NewEngine(tolerance, log)
	notContinuous := 0
	for _, account := range accountIDs {
		periods := byAccount[account]
		ledger, err := engine.Reconcile(periods)
		if err != nil {
			return err
		}
		ex := assemble.Assemble(ledger, ruleSet)

		ledgerPath := filepath.Join(outDir, accountSlug(account)+"-ledger.csv")
		f, err := os.Create(ledgerPath)
		if err != nil {
			return fmt.Errorf("creating ledger file: %w", err)
		}
		if err := assemble.WriteCSV(f, ex); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing ledger file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "== %s ==\n", acctSvc.DisplayName(account))
		if err := assemble.WriteReport(cmd.OutOrStdout(), ex); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ledger written to %s\n\n", ledgerPath)

		entry := auditlog.Entry{
			Timestamp: time.Now().UTC(),
			Account:   account,
			Periods:   len(periods),
			Rows:      len(ex.Rows),
			Status:    string(ledger.Report.Status),
			Detail:    auditDetail(ledger.Report),
		}
		if err := auditlog.Append(cfg.Paths.LogsDir, []auditlog.Entry{entry}); err != nil {
			return err
		}

		if !ledger.Report.Ok() {
			notContinuous++
		}
	}

	switch {
	case skipped > 0 && notContinuous > 0:
		return fmt.Errorf("%d of %d statements skipped, %d of %d accounts not continuous",
			skipped, len(args), notContinuous, len(accountIDs))
	case skipped > 0:
		return fmt.Errorf("%d of %d statements skipped", skipped, len(args))
	case notContinuous > 0:
		return fmt.Errorf("%d of %d accounts not continuous", notContinuous, len(accountIDs))
	}
	return nil
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// accountSlug turns an account identifier into a safe file name fragment.
func accountSlug(account string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(account), "-")
	return strings.Trim(s, "-")
}

// auditDetail summarizes a report for the run log: the unchecked reason when
// there is one, otherwise the extractor versions that produced the ledger.
func auditDetail(report model.ContinuityReport) string {
	if report.UncheckedReason != "" {
		return report.UncheckedReason
	}
	seen := make(map[string]bool)
	var versions []string
	for _, p := range report.Periods {
		if !seen[p.ExtractorVersion] {
			seen[p.ExtractorVersion] = true
			versions = append(versions, p.ExtractorVersion)
		}
	}
	sort.Strings(versions)
	return strings.Join(versions, " ")
}
