package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qepting91/bydit/internal/actions"
	"github.com/qepting91/bydit/internal/age"
	"github.com/qepting91/bydit/internal/collector"
	"github.com/qepting91/bydit/internal/config"
	"github.com/qepting91/bydit/internal/domain"
	"github.com/qepting91/bydit/internal/export"
	"github.com/qepting91/bydit/internal/fetch"
	"github.com/qepting91/bydit/internal/filter"
	"github.com/qepting91/bydit/internal/ingest"
	"github.com/qepting91/bydit/internal/logging"
	"github.com/qepting91/bydit/internal/report"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// usageError marks bad invocations; they exit with exitUsage.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// newSession is swapped in tests to inject failing sessions.
var newSession = collector.New

type options struct {
	subreddits    string
	excludes      string
	subredditFile string
	excludeFile   string
	minScore      int
	maxScore      int
	itemType      string
	minAge        string
	maxAge        string
	postTitle     string

	delete      bool
	yes         bool
	confirmEach bool
	overwrite   string
	csvPath     string
	ndjsonPath  string
	reportPath  string

	maxPages   int
	configFile string
	logFormat  string
	debug      bool

	minScoreSet  bool
	maxScoreSet  bool
	overwriteSet bool

	stdin          io.Reader
	stdout, stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	fmt.Fprintln(stderr, "Error:", err)
	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", cmd.Name())
		return exitUsage
	}
	return exitError
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	o := &options{stdin: stdin, stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "bydit",
		Short: "Review, export, overwrite or delete your Reddit post and comment history",
		Long: `bydit pulls every post and comment of the configured account, filters them
and either prints them, exports them, overwrites their text or deletes them.

Age bounds compare against creation time:
  --min-age keeps items created at or before the bound (at least that old)
  --max-age keeps items created at or after the bound (at most that old)
Both accept relative durations ("2 weeks", "1y 3M", "90 minutes ago") or dates
("2024-01-31", "2024-01-31 12:00:00", RFC3339).`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &usageError{err: fmt.Errorf("unexpected argument %q", args[0])}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			o.minScoreSet = f.Changed("min-score")
			o.maxScoreSet = f.Changed("max-score")
			o.overwriteSet = f.Changed("overwrite")
			return o.execute(cmd.Context())
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	f := cmd.Flags()
	f.StringVarP(&o.subreddits, "subreddit", "s", "", "only items in these subreddits (comma-separated)")
	f.StringVar(&o.excludes, "exclude-subreddit", "", "skip items in these subreddits (comma-separated)")
	f.StringVar(&o.subredditFile, "subreddit-file", "", "file with one subreddit per line to include")
	f.StringVar(&o.excludeFile, "exclude-subreddit-file", "", "file with one subreddit per line to exclude")
	f.IntVarP(&o.minScore, "min-score", "m", 0, "minimum score (inclusive)")
	f.IntVarP(&o.maxScore, "max-score", "M", 0, "maximum score (exclusive)")
	f.StringVarP(&o.itemType, "item-type", "i", "both", "item kind: post, comment or both")
	f.StringVar(&o.minAge, "min-age", "", "keep items created at or before this age/date")
	f.StringVar(&o.maxAge, "max-age", "", "keep items created at or after this age/date")
	f.StringVar(&o.postTitle, "post-title", "", "only comments on posts whose title contains this text")
	f.BoolVarP(&o.delete, "delete", "d", false, "delete the matching items")
	f.BoolVarP(&o.yes, "yes", "y", false, "skip the delete confirmation")
	f.BoolVar(&o.confirmEach, "confirm-each", false, "confirm every deletion individually")
	f.StringVar(&o.overwrite, "overwrite", "", "replace the text of the matching items before any other action")
	f.StringVar(&o.csvPath, "csv", "", "export the matching items to this CSV file")
	f.StringVar(&o.ndjsonPath, "ndjson", "", "export the matching items as newline-delimited JSON")
	f.StringVar(&o.reportPath, "report", "", "write an HTML activity report")
	f.IntVar(&o.maxPages, "max-pages", 0, "stop each listing after this many pages (0 = all)")
	f.StringVar(&o.configFile, "config", config.DefaultFile, "config file name or path")
	f.StringVar(&o.logFormat, "log-format", "text", "log format: text or json")
	f.BoolVar(&o.debug, "debug", false, "verbose logging")
	return cmd
}

func (o *options) execute(ctx context.Context) error {
	_, noColor := os.LookupEnv("NO_COLOR")
	log, err := logging.New(o.stderr, logging.Options{
		Debug:   o.debug,
		Format:  o.logFormat,
		NoColor: noColor || o.stderr != os.Stderr,
	})
	if err != nil {
		return &usageError{err: err}
	}

	sel, err := domain.ParseSelection(o.itemType)
	if err != nil {
		return &usageError{err: err}
	}
	crit, err := o.criteria(log)
	if err != nil {
		return err
	}
	if o.confirmEach && o.yes {
		return &usageError{err: errors.New("--confirm-each and --yes are mutually exclusive")}
	}
	if o.maxPages < 0 {
		return &usageError{err: errors.New("--max-pages must not be negative")}
	}

	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	log.Debug("Loaded config", "source", cfg.Source, "mode", cfg.Mode)

	log.Info("Logging in to Reddit", "user", cfg.Username, "mode", cfg.Mode)
	sess, err := newSession(ctx, cfg)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	log.Debug("Filtering", "criteria", crit.String(), "selection", sel)
	items, partialErr := fetch.Items(ctx, sess, fetch.Options{
		Selection: sel,
		Criteria:  crit,
		MaxPages:  o.maxPages,
		Logger:    log,
	})
	if partialErr != nil {
		// Read-only outputs still go ahead with the posts already collected;
		// the run fails afterwards.
		if len(items) == 0 || o.delete || o.overwriteSet {
			return partialErr
		}
		log.Warn("Continuing with partial results", "items", len(items), "err", partialErr)
	}
	log.Info("Retrieved matching items", "count", len(items))

	if o.overwriteSet {
		sum := actions.Overwrite(ctx, sess, items, o.overwrite, log)
		sum.Print(o.stdout)
	}

	if o.delete {
		sum, err := actions.Delete(ctx, sess, items, actions.DeleteOptions{
			SkipConfirmation: o.yes,
			ConfirmEach:      o.confirmEach,
			In:               o.stdin,
			Out:              o.stdout,
			Logger:           log,
		})
		if err != nil {
			return err
		}
		if sum.Targeted > 0 {
			sum.Print(o.stdout)
		}
		log.Info("Deletion finished", "deleted", sum.Succeeded, "failed", sum.Failed, "skipped", sum.Skipped)
		return nil
	}

	if o.csvPath != "" || o.ndjsonPath != "" || o.reportPath != "" {
		if err := o.export(items, cfg.Username, log); err != nil {
			return err
		}
		return partialErr
	}

	if o.overwriteSet {
		return nil
	}
	if err := export.PrintConsole(o.stdout, items, true); err != nil {
		return err
	}
	return partialErr
}

func (o *options) export(items []domain.UnifiedItem, user string, log *slog.Logger) error {
	if o.csvPath != "" {
		if err := export.WriteCSV(o.csvPath, items); err != nil {
			return err
		}
		log.Info("Exported CSV", "path", o.csvPath, "items", len(items))
	}
	if o.ndjsonPath != "" {
		if err := export.WriteNDJSON(o.ndjsonPath, items); err != nil {
			return err
		}
		log.Info("Exported NDJSON", "path", o.ndjsonPath, "items", len(items))
	}
	if o.reportPath != "" {
		if err := report.WriteFile(o.reportPath, items, "u/"+user+" activity"); err != nil {
			return err
		}
		log.Info("Wrote report", "path", o.reportPath, "items", len(items))
	}
	return nil
}

// criteria assembles the filter from flags. Age strings are resolved here so a
// bad value fails before any network traffic.
func (o *options) criteria(log *slog.Logger) (filter.Criteria, error) {
	var crit filter.Criteria

	include, err := subredditList(o.subreddits, o.subredditFile, log)
	if err != nil {
		return crit, err
	}
	exclude, err := subredditList(o.excludes, o.excludeFile, log)
	if err != nil {
		return crit, err
	}
	crit.Include = filter.NewSet(include...)
	crit.Exclude = filter.NewSet(exclude...)

	if o.minScoreSet {
		v := o.minScore
		crit.MinScore = &v
	}
	if o.maxScoreSet {
		v := o.maxScore
		crit.MaxScore = &v
	}
	if o.minAge != "" {
		v, err := age.ParseNow(o.minAge)
		if err != nil {
			return crit, &usageError{err: fmt.Errorf("--min-age: %w", err)}
		}
		crit.MinAge = &v
	}
	if o.maxAge != "" {
		v, err := age.ParseNow(o.maxAge)
		if err != nil {
			return crit, &usageError{err: fmt.Errorf("--max-age: %w", err)}
		}
		crit.MaxAge = &v
	}
	crit.PostTitle = o.postTitle
	return crit, nil
}

func subredditList(csv, path string, log *slog.Logger) ([]string, error) {
	names := filter.ParseList(csv)
	if path == "" {
		return names, nil
	}
	fromFile, skipped, err := ingest.LoadSubreddits(path)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Warn("Skipped invalid subreddit names", "path", path, "skipped", skipped)
	}
	return append(names, fromFile...), nil
}
