// Package runner drives extraction, default inference and script generation
// over a batch of inputs with per-input linear retry.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"rfemassist/internal/codegen"
	"rfemassist/internal/extract"
	"rfemassist/internal/infer"
	"rfemassist/internal/model"
	"rfemassist/internal/store"
)

var ErrAttemptsExhausted = errors.New("runner: attempts exhausted")

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 2 * time.Second
	DefaultRunID       = "default"
)

// Extractor turns one raw input into a template.
type Extractor interface {
	Extract(ctx context.Context, in extract.Input) (*model.Template, error)
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleep is the production Sleeper.
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type Config struct {
	RunID       string
	MaxAttempts int
	BaseDelay   time.Duration
	// SkipExisting skips inputs whose script is already in the store.
	SkipExisting bool
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.RunID) == "" {
		c.RunID = DefaultRunID
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BaseDelay < 0 {
		c.BaseDelay = 0
	} else if c.BaseDelay == 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	return c
}

type Runner struct {
	extractor Extractor
	store     store.Store
	gen       codegen.Generator
	cfg       Config
	sleep     Sleeper
	now       func() time.Time
	log       *log.Logger
}

type Option func(*Runner)

func WithSleeper(s Sleeper) Option { return func(r *Runner) { r.sleep = s } }

func WithClock(now func() time.Time) Option { return func(r *Runner) { r.now = now } }

func WithLogger(l *log.Logger) Option { return func(r *Runner) { r.log = l } }

func WithGenerator(g codegen.Generator) Option { return func(r *Runner) { r.gen = g } }

func New(ex Extractor, st store.Store, cfg Config, opts ...Option) *Runner {
	r := &Runner{
		extractor: ex,
		store:     st,
		cfg:       cfg.withDefaults(),
		sleep:     ContextSleep,
		now:       time.Now,
		log:       log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Config() Config { return r.cfg }

// Result is the outcome for one input. Template is nil when processing failed
// or when a skipped input has no stored template.
type Result struct {
	Index     int
	Filename  string
	InputType model.InputType
	Label     string
	Template  *model.Template
	Rule      infer.Rule
	Attempts  int
	Elapsed   time.Duration
	Skipped   bool
	Err       error
}

func (r Result) OK() bool { return r.Err == nil && (r.Template != nil || r.Skipped) }

// ScriptName is the deterministic script filename for the index-th input.
func ScriptName(t model.InputType, index int) string {
	return fmt.Sprintf("generated_rfem_%s_%d.py", t, index)
}

// TemplateName is the JSON file stored next to a script.
func TemplateName(script string) string {
	return strings.TrimSuffix(script, ".py") + ".json"
}

// Process runs the attempt loop for one input. Errors never escape; an
// exhausted input comes back with a nil Template and Err set.
func (r *Runner) Process(ctx context.Context, in extract.Input, filename string) Result {
	res := Result{Filename: filename, InputType: in.Type, Label: in.Label()}

	if r.cfg.SkipExisting {
		ok, err := store.Exists(ctx, r.store, r.cfg.RunID, filename)
		if err != nil {
			r.log.Printf("runner: check existing %s: %v", filename, err)
		} else if ok {
			res.Skipped = true
			res.Template = r.loadTemplate(ctx, filename)
			r.log.Printf("runner: %s already exists, skipping", filename)
			return res
		}
	}

	begin := r.now()
	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		res.Attempts = attempt
		start := r.now()
		tpl, rule, err := r.attempt(ctx, in, filename)
		elapsed := r.now().Sub(start)
		if err == nil {
			r.log.Printf("runner: %s input processed on attempt %d in %s, saved %s", in.Type, attempt, elapsed, filename)
			res.Template, res.Rule, res.Elapsed = tpl, rule, r.now().Sub(begin)
			return res
		}
		lastErr = err
		r.log.Printf("runner: %s attempt %d/%d failed after %s: %v", filename, attempt, r.cfg.MaxAttempts, elapsed, err)

		if attempt == r.cfg.MaxAttempts {
			break
		}
		delay := r.cfg.BaseDelay * time.Duration(attempt)
		r.log.Printf("runner: retrying %s in %s", filename, delay)
		if err := r.sleep(ctx, delay); err != nil {
			lastErr = errors.Join(lastErr, err)
			break
		}
	}
	r.log.Printf("runner: giving up on %s after %d attempts", filename, res.Attempts)
	res.Elapsed = r.now().Sub(begin)
	res.Err = fmt.Errorf("%w (%d): %w", ErrAttemptsExhausted, res.Attempts, lastErr)
	return res
}

// attempt writes nothing unless generation succeeded. The template JSON is
// stored before the script so a present script implies a present template.
func (r *Runner) attempt(ctx context.Context, in extract.Input, filename string) (*model.Template, infer.Rule, error) {
	tpl, err := r.extractor.Extract(ctx, in)
	if err != nil {
		return nil, infer.RuleNone, err
	}
	if tpl == nil {
		return nil, infer.RuleNone, extract.ErrNoStructuredResponse
	}
	rule := infer.Apply(tpl)
	if rule != infer.RuleNone {
		r.log.Printf("runner: %s supports inferred by %s", filename, rule)
	}
	tpl.Filename = filename
	tpl.InputType = in.Type
	script := r.gen.Generate(tpl)

	raw, err := json.MarshalIndent(tpl, "", "  ")
	if err != nil {
		return nil, rule, fmt.Errorf("encode template: %w", err)
	}
	if err := r.store.Put(ctx, r.cfg.RunID, TemplateName(filename), raw); err != nil {
		return nil, rule, fmt.Errorf("store template: %w", err)
	}
	if err := r.store.Put(ctx, r.cfg.RunID, filename, []byte(script)); err != nil {
		return nil, rule, fmt.Errorf("store script: %w", err)
	}
	return tpl, rule, nil
}

func (r *Runner) loadTemplate(ctx context.Context, filename string) *model.Template {
	raw, err := r.store.Get(ctx, r.cfg.RunID, TemplateName(filename))
	if err != nil {
		return nil
	}
	var tpl model.Template
	if err := json.Unmarshal(raw, &tpl); err != nil {
		r.log.Printf("runner: stored template for %s is unreadable: %v", filename, err)
		return nil
	}
	return &tpl
}

// RunStudy processes inputs in order. The i-th input is numbered
// startIndex+i+1 so numbering continues across studies.
func (r *Runner) RunStudy(ctx context.Context, inputs []extract.Input, startIndex int) []Result {
	out := make([]Result, 0, len(inputs))
	for i, in := range inputs {
		index := startIndex + i + 1
		r.log.Printf("runner: starting %s input %d/%d", in.Type, i+1, len(inputs))
		res := r.Process(ctx, in, ScriptName(in.Type, index))
		res.Index = index
		out = append(out, res)
	}
	return out
}

// Batch holds the three input lists processed in text, image, audio order.
type Batch struct {
	Texts  []string
	Images []string
	Audios []string
}

func (b Batch) Len() int { return len(b.Texts) + len(b.Images) + len(b.Audios) }

func (r *Runner) RunBatch(ctx context.Context, b Batch) []Result {
	results := make([]Result, 0, b.Len())
	studies := []struct {
		typ   model.InputType
		items []string
	}{
		{model.InputText, b.Texts},
		{model.InputImage, b.Images},
		{model.InputAudio, b.Audios},
	}
	for _, s := range studies {
		if len(s.items) == 0 {
			continue
		}
		r.log.Printf("runner: processing %d %s inputs", len(s.items), s.typ)
		inputs := make([]extract.Input, 0, len(s.items))
		for _, item := range s.items {
			in := extract.Input{Type: s.typ}
			if s.typ == model.InputText {
				in.Text = item
			} else {
				in.Path = item
			}
			inputs = append(inputs, in)
		}
		results = append(results, r.RunStudy(ctx, inputs, len(results))...)
	}
	return results
}
