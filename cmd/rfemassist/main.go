package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"rfemassist/internal/codegen"
	"rfemassist/internal/config"
	"rfemassist/internal/extract"
	"rfemassist/internal/llm"
	"rfemassist/internal/report"
	"rfemassist/internal/runner"
	"rfemassist/internal/store"
)

func main() {
	textsFile := flag.String("texts", "", "file with one text prompt per line")
	images := flag.String("images", "", "comma separated image paths")
	audios := flag.String("audios", "", "comma separated audio paths")
	demo := flag.Bool("demo", false, "add the built-in sample prompts to the text inputs")
	fake := flag.Bool("fake", false, "use a scripted offline model instead of Gemini")
	explicit := flag.Bool("explicit-stiffness", false, "emit supports as stiffness vectors")
	maxAttempts := flag.Int("max-attempts", 0, "attempts per input (default RFEM_MAX_ATTEMPTS or 5)")
	outDir := flag.String("out", "", "output directory for the disk store (default RFEM_OUTPUT_DIR or out)")
	runID := flag.String("run-id", "", "run id used as the store prefix (default RFEM_RUN_ID)")
	skipExisting := flag.Bool("skip-existing", false, "skip inputs whose script already exists")
	backend := flag.String("store", "", "store backend: disk, memory, s3 or postgres")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.Store.Root = config.FirstNonEmpty(*outDir, cfg.Store.Root)
	cfg.Store.Backend = config.FirstNonEmpty(*backend, cfg.Store.Backend)
	cfg.RunID = config.FirstNonEmpty(*runID, cfg.RunID)
	if *maxAttempts > 0 {
		cfg.MaxAttempts = *maxAttempts
	}

	batch := runner.Batch{Images: splitList(*images), Audios: splitList(*audios)}
	if *textsFile != "" {
		texts, err := readLines(*textsFile)
		if err != nil {
			log.Fatalf("read texts: %v", err)
		}
		batch.Texts = texts
	}
	if *demo {
		batch.Texts = append(batch.Texts, runner.SampleTexts...)
	}
	if batch.Len() == 0 {
		fmt.Fprintln(os.Stderr, "no inputs: pass -texts, -images, -audios or -demo")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(cfg.Store)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	client, err := newClient(ctx, cfg, *fake)
	if err != nil {
		log.Fatalf("llm: %v", err)
	}
	defer client.Close()

	ex := extract.New(client, extract.Config{Instruction: cfg.Instruction}, nil)
	r := runner.New(ex, st, runner.Config{
		RunID:        cfg.RunID,
		MaxAttempts:  cfg.MaxAttempts,
		BaseDelay:    cfg.RetryBase,
		SkipExisting: *skipExisting,
	}, runner.WithGenerator(codegen.Generator{ExplicitStiffness: *explicit}))

	results := r.RunBatch(ctx, batch)
	metrics := runner.Evaluate(results, cfg.SpotMaterial)
	if err := report.Print(os.Stdout, metrics); err != nil {
		log.Printf("print report: %v", err)
	}
	if err := saveReports(ctx, st, cfg.RunID, metrics); err != nil {
		log.Printf("save reports: %v", err)
	}
	if cs, ok := st.(*store.CachedStore); ok {
		log.Printf("store cache: %+v", cs.Metrics())
	}
}

func newClient(ctx context.Context, cfg *config.Config, fake bool) (llm.Client, error) {
	var base llm.Client
	if fake {
		f := llm.NewFakeClient()
		f.Default = []byte(samplePayload)
		f.Transcripts = []string{runner.SampleTexts[0]}
		base = f
	} else {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required unless -fake is set")
		}
		g, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		base = g
	}
	return llm.Wrap(base, llm.WithLogging(nil), llm.RateLimit(cfg.LLMRPS, cfg.LLMBurst)), nil
}

func saveReports(ctx context.Context, st store.Store, runID string, ms []runner.Metrics) error {
	var xlsx bytes.Buffer
	if err := report.WriteXLSX(&xlsx, ms); err != nil {
		return err
	}
	if err := st.Put(ctx, runID, report.XLSXName, xlsx.Bytes()); err != nil {
		return err
	}
	var pdf bytes.Buffer
	if err := report.WritePDF(&pdf, "RFEM script generation: "+runID, ms, time.Now()); err != nil {
		return err
	}
	return st.Put(ctx, runID, report.PDFName, pdf.Bytes())
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" && !strings.HasPrefix(line, "#") {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}
