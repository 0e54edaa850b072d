// Package pipeline wires fetch, clean, reshape, test and plot into one run.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KaramelBytes/trapstat-cli/internal/plot"
	"github.com/KaramelBytes/trapstat-cli/internal/sheets"
	"github.com/KaramelBytes/trapstat-cli/internal/stats"
	"github.com/KaramelBytes/trapstat-cli/internal/trap"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fetcher downloads a URL. *sheets.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Options parameterizes a run. InputPath, when set, replaces the link file.
type Options struct {
	LinkFile     string
	InputPath    string
	Sheet        string
	OutputPath   string
	Order        []string
	DropUnlisted bool
	MinGroupSize int
	Alpha        float64
	Confidence   float64
	Render       bool
	Plot         plot.Options
	Fetcher      Fetcher
	Logger       *zap.Logger
}

// CategoryTest is the odor-versus-solvent outcome for one odor. Err is set
// when a precondition failed; the run continues regardless.
type CategoryTest struct {
	Category string
	Odor     stats.Summary
	Solvent  stats.Summary
	Result   stats.Result
	Err      error  `json:"-"`
	Error    string `json:"error,omitempty"`
}

// OK reports whether the test produced a p-value.
func (c CategoryTest) OK() bool { return c.Err == nil }

// Result is everything a run produced.
type Result struct {
	RunID       string
	Started     time.Time
	Source      string
	SourceBytes int
	Clean       trap.CleanStats
	Records     []trap.Record     `json:"-"`
	Long        []trap.LongRecord `json:"-"`
	Categories  []string
	Counts      []trap.CategoryCount
	Tests       []CategoryTest
	Alpha       float64
	Figure      string   `json:",omitempty"`
	Warnings    []string `json:",omitempty"`
}

func (o Options) withDefaults() Options {
	def := plot.DefaultOptions()
	if o.Alpha <= 0 || o.Alpha >= 1 {
		o.Alpha = def.Alpha
	}
	if o.Confidence <= 0 || o.Confidence >= 1 {
		o.Confidence = def.Confidence
	}
	if o.MinGroupSize < 1 {
		o.MinGroupSize = 1
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Fetcher == nil {
		o.Fetcher = sheets.NewClient(0, 0, 0, 0, o.Logger)
	}
	o.Plot.Alpha = o.Alpha
	o.Plot.Confidence = o.Confidence
	return o
}

// Run executes the pipeline once. The figure is written only when opt.Render is set.
func Run(ctx context.Context, opt Options) (*Result, error) {
	opt = opt.withDefaults()
	log := opt.Logger
	res := &Result{RunID: uuid.NewString(), Started: time.Now(), Alpha: opt.Alpha}
	log.Debug("pipeline start", zap.String("run_id", res.RunID))

	tbl, err := load(ctx, opt, res)
	if err != nil {
		return nil, err
	}
	recs, cs, err := trap.Clean(tbl, trap.CleanOptions{})
	res.Clean = cs
	if err != nil {
		return nil, fmt.Errorf("clean %s: %w", res.Source, err)
	}
	log.Debug("cleaned table",
		zap.Int("rows", cs.Rows), zap.Int("excluded", cs.Excluded),
		zap.Int("missing", cs.Missing), zap.Int("kept", cs.Kept))

	order := trap.NewOrdering(opt.Order)
	recs = order.Sort(recs, opt.DropUnlisted)
	if len(recs) == 0 {
		return nil, fmt.Errorf("%s: %w", res.Source, trap.ErrNoRecords)
	}
	res.Records = recs
	res.Long = trap.Unpivot(recs)
	res.Categories = order.Categories(res.Long, opt.DropUnlisted)
	res.Counts = trap.SampleCounts(res.Long, res.Categories)
	res.Tests = TestCategories(res.Long, res.Categories, stats.KruskalOptions{MinGroupSize: opt.MinGroupSize}, opt.Confidence)
	for _, t := range res.Tests {
		if t.Err != nil {
			log.Debug("test skipped", zap.String("category", t.Category), zap.Error(t.Err))
		}
	}

	if opt.Render {
		in := plot.Input{
			Categories:  res.Categories,
			Long:        res.Long,
			Counts:      res.Counts,
			Annotations: Annotations(res.Tests),
			Options:     opt.Plot,
		}
		if err := plot.SaveFile(opt.OutputPath, in); err != nil {
			return nil, err
		}
		res.Figure = opt.OutputPath
		log.Info("figure written", zap.String("path", opt.OutputPath))
	}
	return res, nil
}

// load reads the local input file or fetches the sheet named by the link file.
func load(ctx context.Context, opt Options, res *Result) (*trap.Table, error) {
	if opt.InputPath != "" {
		res.Source = opt.InputPath
		return trap.ReadFile(opt.InputPath, opt.Sheet)
	}
	link, err := sheets.ReadLinkFile(opt.LinkFile)
	if err != nil {
		return nil, err
	}
	url, err := sheets.ExportURL(link)
	if errors.Is(err, sheets.ErrNotSheetURL) {
		w := fmt.Sprintf("%s: %v; fetching it unchanged", url, err)
		res.Warnings = append(res.Warnings, w)
		opt.Logger.Debug("unrecognized share URL", zap.String("url", url))
	}
	res.Source = url
	body, err := opt.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	res.SourceBytes = len(body)
	opt.Logger.Info("fetched sheet", zap.String("url", url), zap.String("size", humanize.Bytes(uint64(len(body)))))
	return trap.ReadCSV(bytes.NewReader(body), url, ',')
}

// TestCategories runs odor-versus-solvent Kruskal-Wallis for each category.
// Failures are recorded per category and never abort.
func TestCategories(long []trap.LongRecord, categories []string, kopt stats.KruskalOptions, confidence float64) []CategoryTest {
	out := make([]CategoryTest, 0, len(categories))
	for _, cat := range categories {
		odor := trap.Values(long, cat, trap.TrapOdor)
		solvent := trap.Values(long, cat, trap.TrapSolvent)
		ct := CategoryTest{
			Category: cat,
			Odor:     stats.Describe(odor, confidence),
			Solvent:  stats.Describe(solvent, confidence),
		}
		ct.Result, ct.Err = stats.KruskalWallisWith(kopt, odor, solvent)
		if ct.Err != nil {
			ct.Error = ct.Err.Error()
		}
		out = append(out, ct)
	}
	return out
}

// Annotations converts test outcomes into plot labels.
func Annotations(tests []CategoryTest) []plot.Annotation {
	out := make([]plot.Annotation, 0, len(tests))
	for _, t := range tests {
		out = append(out, plot.Annotation{Category: t.Category, PValue: t.Result.PValue, OK: t.OK()})
	}
	return out
}
