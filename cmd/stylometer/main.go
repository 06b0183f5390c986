package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cognicore/stylometer/pkg/stylometer"
	"github.com/cognicore/stylometer/pkg/stylometer/config"
	"github.com/cognicore/stylometer/pkg/stylometer/corpus"
	"github.com/cognicore/stylometer/pkg/stylometer/rank"
	"github.com/cognicore/stylometer/pkg/stylometer/report"
	"github.com/cognicore/stylometer/pkg/stylometer/store"
	"github.com/cognicore/stylometer/pkg/stylometer/store/sqlite"
)

// Analysis methods, numbered as on the command line
const (
	methodSpectrum   = 1
	methodChiSquared = 2
	methodDelta      = 3
)

const usage = `Usage: stylometer [flags] <method>
    1: Mendenhall's Characteristic Curves of Composition
    2: Kilgarriff's Chi-Squared Method
    3: John Burrows' Delta Method

Flags:
`

func main() {
	var (
		cfgPath = flag.String("config", "", "Study configuration file (required)")
		dbPath  = flag.String("db", "", "SQLite database for reports (overrides store.path)")
		asJSON  = flag.Bool("json", false, "Print results as JSON")
		history = flag.Int("history", 0, "List the last N recorded reports and exit")
		debug   = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *cfgPath == "" {
		log.Fatal().Msg("--config required")
	}

	ctx := context.Background()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *cfgPath).Msg("load config")
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}

	if *history > 0 {
		if cfg.Store.Path == "" {
			log.Fatal().Msg("--history needs --db or store.path")
		}
		engine, cleanup, err := buildEngine(ctx, cfg.Store.Path)
		if err != nil {
			log.Fatal().Err(err).Msg("build engine")
		}
		defer cleanup()
		if err := printHistory(ctx, engine, *history, *asJSON, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("history")
		}
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	method, err := parseMethod(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid method")
	}

	engine, cleanup, err := buildEngine(ctx, cfg.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("build engine")
	}
	defer cleanup()

	categories, err := loadCorpus(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("load corpus")
	}

	if err := run(ctx, engine, cfg, categories, method, *asJSON, os.Stdout); err != nil {
		log.Fatal().Err(err).Int("method", method).Msg("analysis failed")
	}
}

func parseMethod(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < methodSpectrum || n > methodDelta {
		return 0, fmt.Errorf("select a method by entering either 1, 2 or 3, got %q", arg)
	}
	return n, nil
}

func buildEngine(ctx context.Context, dbPath string) (*stylometer.Stylometer, func(), error) {
	opts := stylometer.Options{Logger: &log.Logger}
	if dbPath != "" {
		st, err := sqlite.OpenSQLite(ctx, dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		opts.Store = st
	}

	engine := stylometer.New(opts)
	cleanup := func() {
		if err := engine.Close(); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}
	return engine, cleanup, nil
}

func loadCorpus(ctx context.Context, cfg *config.Config) (*corpus.Corpus, error) {
	loader := config.Loader{Config: cfg}
	components, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	defer components.Close()

	start := time.Now()
	c, err := corpus.Load(ctx, cfg, components.Tokenizer)
	if err != nil {
		return nil, err
	}
	for _, label := range c.Labels() {
		toks, _ := c.Tokens(label)
		log.Debug().Str("category", label).Int("tokens", len(toks)).Msg("category loaded")
	}
	log.Info().Int("categories", len(c.Labels())).Dur("took", time.Since(start)).Msg("corpus loaded")
	return c, nil
}

func run(ctx context.Context, engine *stylometer.Stylometer, cfg *config.Config, c *corpus.Corpus, method int, asJSON bool, w io.Writer) error {
	switch method {
	case methodSpectrum:
		out, err := engine.Spectrum(ctx, c.Map(), c.Labels(), cfg.Spectrum.Top)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(w, out)
		}
		for _, cs := range out {
			fmt.Fprintf(w, "Word length spectrum for %s papers (%d words, mean length %.3f):\n",
				cs.Label, cs.Total, cs.MeanLength)
			for _, b := range cs.Top {
				fmt.Fprintf(w, "  %2d: %d\n", b.Length, b.Count)
			}
		}
		return nil

	case methodChiSquared:
		if len(cfg.ChiSquared.Candidates) != 2 || cfg.ChiSquared.Unknown == "" {
			return fmt.Errorf("chi_squared needs 2 candidates and an unknown category")
		}
		res, err := engine.ChiSquared(ctx, c.Map(), stylometer.ChiSquaredRequest{
			N:          cfg.ChiSquared.N,
			CandidateA: cfg.ChiSquared.Candidates[0],
			CandidateB: cfg.ChiSquared.Candidates[1],
			Unknown:    cfg.ChiSquared.Unknown,
		})
		if err != nil {
			return err
		}
		return printResult(w, res, "The Chi-squared statistic for %s papers is: %v\n", asJSON)

	case methodDelta:
		if cfg.Delta.Special == "" {
			return fmt.Errorf("delta needs a special category")
		}
		res, err := engine.Delta(ctx, c.Map(), stylometer.DeltaRequest{
			N:          cfg.Delta.N,
			Comparison: cfg.Delta.Comparison,
			Special:    cfg.Delta.Special,
		})
		if err != nil {
			return err
		}
		return printResult(w, res, "The Delta score for %s papers is: %v\n", asJSON)
	}
	return fmt.Errorf("unknown method %d", method)
}

type resultJSON struct {
	ID      string       `json:"id"`
	Method  string       `json:"method"`
	N       int          `json:"n"`
	Subject string       `json:"subject"`
	Ranking rank.Ranking `json:"ranking"`
}

func printResult(w io.Writer, res stylometer.Result, format string, asJSON bool) error {
	if asJSON {
		return writeJSON(w, toJSON(res.Report))
	}
	for _, s := range res.Ranking {
		fmt.Fprintf(w, format, s.Label, s.Value)
	}
	return nil
}

func printHistory(ctx context.Context, engine *stylometer.Stylometer, limit int, asJSON bool, w io.Writer) error {
	reports, err := engine.History(ctx, "", limit)
	if err != nil {
		return err
	}
	if asJSON {
		out := make([]resultJSON, len(reports))
		for i, r := range reports {
			out[i] = toJSON(r)
		}
		return writeJSON(w, out)
	}
	for _, r := range reports {
		closest := "-"
		if best, ok := report.Ranking(r).Best(); ok {
			closest = best.Label
		}
		fmt.Fprintf(w, "%s  %-11s n=%-4d subject=%-12s closest=%s  (%s)\n",
			r.ID, r.Method, r.N, r.Subject, closest, r.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func toJSON(r store.Report) resultJSON {
	return resultJSON{
		ID:      r.ID,
		Method:  r.Method,
		N:       r.N,
		Subject: r.Subject,
		Ranking: report.Ranking(r),
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
