package runner

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfemassist/internal/extract"
	"rfemassist/internal/infer"
	"rfemassist/internal/model"
	"rfemassist/internal/store"
)

const beamPayload = `{
  "project_name": "beam",
  "materials": [{"no": 1, "name": "C30/37"}],
  "sections": [{"no": 1, "section_type": "RECTANGULAR", "material_no": 1, "width": 0.3, "height": 0.5}],
  "thicknesses": [{"no": 1, "name": "t", "material_no": 1, "uniform_thickness_d": 0.2}],
  "nodes": [
    {"no": 1, "coordinate_X": 0, "coordinate_Y": 0, "coordinate_Z": 0},
    {"no": 2, "coordinate_X": 10, "coordinate_Y": 0, "coordinate_Z": 0}
  ],
  "members": [{"no": 1, "start_node_no": 1, "end_node_no": 2, "start_section_no": 1}],
  "surfaces": [{"no": 1, "thickness_no": 1, "boundary_lines": [1]}],
  "loads": [{"no": 1, "load_case_no": 1, "load_type": "MEMBER", "magnitude": 10000, "applied_to": [1], "member_load": {}}]
}`

var errTransient = errors.New("transient")

// fakeExtractor fails the first failures calls and then decodes beamPayload.
type fakeExtractor struct {
	mu       sync.Mutex
	failures int
	calls    int
	inputs   []extract.Input
}

func (f *fakeExtractor) Extract(_ context.Context, in extract.Input) (*model.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.inputs = append(f.inputs, in)
	if f.calls <= f.failures {
		return nil, errTransient
	}
	return extract.DecodeTemplate([]byte(beamPayload))
}

type sleepRecorder struct {
	delays []time.Duration
	err    error
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return s.err
}

func newTestRunner(ex Extractor, st store.Store, cfg Config, sl *sleepRecorder) (*Runner, *bytes.Buffer) {
	var buf bytes.Buffer
	r := New(ex, st, cfg, WithSleeper(sl.sleep), WithLogger(log.New(&buf, "", 0)))
	return r, &buf
}

func TestProcessRetriesUntilSuccess(t *testing.T) {
	ex := &fakeExtractor{failures: 2}
	st := store.NewMemoryStore()
	sl := &sleepRecorder{}
	r, logs := newTestRunner(ex, st, Config{RunID: "r1"}, sl)

	res := r.Process(context.Background(), extract.Input{Type: model.InputText, Text: "beam"}, "generated_rfem_text_1.py")
	require.NoError(t, res.Err)
	require.NotNil(t, res.Template)
	assert.True(t, res.OK())
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, ex.calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sl.delays)
	assert.Equal(t, infer.RuleMemberTopology, res.Rule)
	assert.Equal(t, "generated_rfem_text_1.py", res.Template.Filename)
	assert.Equal(t, model.InputText, res.Template.InputType)
	assert.Contains(t, logs.String(), "attempt 1/5 failed")
	assert.Contains(t, logs.String(), "attempt 2/5 failed")

	script, err := st.Get(context.Background(), "r1", "generated_rfem_text_1.py")
	require.NoError(t, err)
	assert.Contains(t, string(script), "NodalSupport(1, \"1\", NodalSupportType.FIXED)")
	assert.Contains(t, string(script), "NodalSupport(2, \"2\", NodalSupportType.ROLLER)")

	_, err = st.Get(context.Background(), "r1", "generated_rfem_text_1.json")
	require.NoError(t, err)
}

func TestProcessGivesUpAfterMaxAttempts(t *testing.T) {
	ex := &fakeExtractor{failures: 100}
	st := store.NewMemoryStore()
	sl := &sleepRecorder{}
	r, logs := newTestRunner(ex, st, Config{RunID: "r1", MaxAttempts: 3}, sl)

	res := r.Process(context.Background(), extract.Input{Type: model.InputText, Text: "x"}, "generated_rfem_text_1.py")
	assert.Nil(t, res.Template)
	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, ErrAttemptsExhausted)
	assert.ErrorIs(t, res.Err, errTransient)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, ex.calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sl.delays)
	assert.Contains(t, logs.String(), "giving up")

	list, err := st.List(context.Background(), "r1")
	require.NoError(t, err)
	assert.Empty(t, list, "no file is written for a failed input")
}

func TestProcessStopsWhenSleepIsInterrupted(t *testing.T) {
	ex := &fakeExtractor{failures: 100}
	sl := &sleepRecorder{err: context.Canceled}
	r, _ := newTestRunner(ex, store.NewMemoryStore(), Config{}, sl)

	res := r.Process(context.Background(), extract.Input{Type: model.InputText, Text: "x"}, "a.py")
	assert.Equal(t, 1, ex.calls)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.ErrorIs(t, res.Err, ErrAttemptsExhausted)
}

func TestRunBatchNumbersGlobally(t *testing.T) {
	ex := &fakeExtractor{}
	st := store.NewMemoryStore()
	r, _ := newTestRunner(ex, st, Config{RunID: "batch"}, &sleepRecorder{})

	results := r.RunBatch(context.Background(), Batch{
		Texts:  []string{"a", "b"},
		Images: []string{"1_Sketch_Plate.png"},
		Audios: []string{"1_voice.mp3"},
	})
	require.Len(t, results, 4)
	var names []string
	for _, res := range results {
		require.NoError(t, res.Err)
		names = append(names, res.Filename)
	}
	assert.Equal(t, []string{
		"generated_rfem_text_1.py",
		"generated_rfem_text_2.py",
		"generated_rfem_image_3.py",
		"generated_rfem_audio_4.py",
	}, names)
	assert.Equal(t, 3, results[2].Index)

	require.Len(t, ex.inputs, 4)
	assert.Equal(t, "b", ex.inputs[1].Text)
	assert.Equal(t, extract.Input{Type: model.InputImage, Path: "1_Sketch_Plate.png"}, ex.inputs[2])
	assert.Equal(t, model.InputAudio, ex.inputs[3].Type)
}

func TestRunBatchContinuesPastFailures(t *testing.T) {
	ex := &fakeExtractor{failures: 2}
	r, _ := newTestRunner(ex, store.NewMemoryStore(), Config{MaxAttempts: 2}, &sleepRecorder{})

	results := r.RunBatch(context.Background(), Batch{Texts: []string{"bad", "good"}})
	require.Len(t, results, 2)
	assert.False(t, results[0].OK())
	assert.True(t, results[1].OK())
	assert.Equal(t, "generated_rfem_text_2.py", results[1].Filename)
}

func TestSkipExisting(t *testing.T) {
	st := store.NewMemoryStore()
	first, _ := newTestRunner(&fakeExtractor{}, st, Config{RunID: "r"}, &sleepRecorder{})
	require.True(t, first.Process(context.Background(), extract.Input{Type: model.InputText, Text: "a"}, "generated_rfem_text_1.py").OK())

	ex := &fakeExtractor{}
	r, logs := newTestRunner(ex, st, Config{RunID: "r", SkipExisting: true}, &sleepRecorder{})
	results := r.RunStudy(context.Background(), []extract.Input{
		{Type: model.InputText, Text: "a"},
		{Type: model.InputText, Text: "b"},
	}, 0)
	require.Len(t, results, 2)
	assert.True(t, results[0].Skipped)
	require.NotNil(t, results[0].Template)
	assert.Equal(t, "beam", results[0].Template.ProjectName)
	assert.False(t, results[1].Skipped)
	assert.Equal(t, 1, ex.calls)
	assert.Contains(t, logs.String(), "skipping")
}

func TestEvaluate(t *testing.T) {
	ex := &fakeExtractor{failures: 1}
	r, _ := newTestRunner(ex, store.NewMemoryStore(), Config{MaxAttempts: 1}, &sleepRecorder{})
	results := r.RunBatch(context.Background(), Batch{Texts: []string{"fails", "ok"}})

	ms := Evaluate(results, "")
	require.Len(t, ms, 2)
	assert.Equal(t, FailedFilename, ms[0].Filename)
	assert.Equal(t, "N/A", ms[0].InputType)
	assert.False(t, ms[0].Success)
	assert.NotEmpty(t, ms[0].Error)

	ok := ms[1]
	assert.True(t, ok.Success)
	assert.Equal(t, "generated_rfem_text_2.py", ok.Filename)
	assert.Equal(t, "text", ok.InputType)
	assert.True(t, ok.CorrectMaterial)
	assert.True(t, ok.LoadPresent)
	assert.Equal(t, 2, ok.NodeCount)
	assert.Equal(t, 1, ok.LoadCount)
	assert.Equal(t, "member-topology", ok.InferredBy)
	assert.Equal(t, 1, SuccessCount(ms))

	ms = Evaluate(results, "C40/50")
	assert.False(t, ms[1].CorrectMaterial)
}

func TestContextSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, ContextSleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, ContextSleep(context.Background(), time.Millisecond))
}

func TestScriptNames(t *testing.T) {
	assert.Equal(t, "generated_rfem_audio_11.py", ScriptName(model.InputAudio, 11))
	assert.Equal(t, "generated_rfem_audio_11.json", TemplateName("generated_rfem_audio_11.py"))
	assert.True(t, strings.HasPrefix(SampleTexts[0], "Design a concrete beam"))
}
