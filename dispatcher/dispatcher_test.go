package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"batchcut/config"
	"batchcut/engine"
	"batchcut/internal/timeparse"
	"batchcut/models"
	"batchcut/resolver"
)

func span(start, end float64) models.SpanSpec {
	return models.SpanSpec{Start: timeparse.Number(start), End: timeparse.Number(end)}
}

// stubEngine records calls and serves a fixed duration. Setting failOn to
// a method name makes that method fail.
type stubEngine struct {
	duration float64
	failOn   string

	calls         []string
	cutIntervals  []models.Interval
	freezeInstant float64
	speedFactor   float64
	audioRequest  engine.AudioRequest
}

func (s *stubEngine) fail(method string) error {
	if s.failOn == method {
		return fmt.Errorf("%w: stub %s failure", engine.ErrEngine, method)
	}
	return nil
}

func (s *stubEngine) Duration(ctx context.Context, sourcePath string) (float64, error) {
	s.calls = append(s.calls, "Duration")
	return s.duration, s.fail("Duration")
}

func (s *stubEngine) Cut(ctx context.Context, sourcePath string, intervals []models.Interval, outputDir string) ([]string, error) {
	s.calls = append(s.calls, "Cut")
	s.cutIntervals = intervals
	if err := s.fail("Cut"); err != nil {
		return nil, err
	}
	outputs := make([]string, len(intervals))
	for i := range intervals {
		outputs[i] = filepath.Join(outputDir, fmt.Sprintf("part_%03d.mp4", i))
	}
	return outputs, nil
}

func (s *stubEngine) CutToFile(ctx context.Context, sourcePath string, intervals []models.Interval, outputPath string) error {
	s.calls = append(s.calls, "CutToFile")
	s.cutIntervals = intervals
	return s.fail("CutToFile")
}

func (s *stubEngine) Concat(ctx context.Context, inputPaths []string, outputPath string) error {
	s.calls = append(s.calls, "Concat")
	return s.fail("Concat")
}

func (s *stubEngine) Freeze(ctx context.Context, sourcePath string, instant, freezeDuration float64, outputPath string) error {
	s.calls = append(s.calls, "Freeze")
	s.freezeInstant = instant
	return s.fail("Freeze")
}

func (s *stubEngine) SetSpeed(ctx context.Context, sourcePath string, factor float64, outputPath string) error {
	s.calls = append(s.calls, "SetSpeed")
	s.speedFactor = factor
	return s.fail("SetSpeed")
}

func (s *stubEngine) ShiftSubtitles(ctx context.Context, subtitlePath string, factor float64, outputPath string) error {
	s.calls = append(s.calls, "ShiftSubtitles")
	s.speedFactor = factor
	return s.fail("ShiftSubtitles")
}

func (s *stubEngine) ExtractAudio(ctx context.Context, req engine.AudioRequest) error {
	s.calls = append(s.calls, "ExtractAudio")
	s.audioRequest = req
	return s.fail("ExtractAudio")
}

func newTestDispatcher(eng engine.MediaEngine, keepGoing bool) *Dispatcher {
	settings := config.DefaultSettings()
	settings.KeepGoing = keepGoing
	return New(eng, settings, zap.NewNop())
}

func speedOp(index int, speed float64) config.Operation {
	return config.Operation{
		Name:  config.OpPlaybackSpeed,
		Index: index,
		Params: &config.SpeedParams{
			VideoPath:  "in.mp4",
			Speed:      speed,
			OutputPath: fmt.Sprintf("out_%d.mp4", index),
		},
	}
}

func TestRun_FailureIsolation(t *testing.T) {
	eng := &stubEngine{duration: 60}
	d := newTestDispatcher(eng, true)

	batch := &config.Batch{Operations: []config.Operation{
		speedOp(0, 2),
		speedOp(1, -1), // invalid speed
		speedOp(2, 0.5),
	}}

	outcomes := d.Run(context.Background(), batch)
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes; want 3", len(outcomes))
	}

	var failures int
	for _, oc := range outcomes {
		if !oc.Success() {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("got %d failures; want exactly 1", failures)
	}
	if !outcomes[0].Success() || !outcomes[2].Success() {
		t.Error("valid operations around the invalid one should succeed")
	}
	if outcomes[1].Success() {
		t.Error("invalid speed should fail")
	}
}

func TestRun_StrictModeStopsOnFailure(t *testing.T) {
	eng := &stubEngine{duration: 60}
	d := newTestDispatcher(eng, false)

	batch := &config.Batch{Operations: []config.Operation{
		speedOp(0, -1),
		speedOp(1, 2),
	}}

	outcomes := d.Run(context.Background(), batch)
	if len(outcomes) != 1 {
		t.Fatalf("strict mode should stop after the failure; got %d outcomes", len(outcomes))
	}
	if outcomes[0].Success() {
		t.Error("first outcome should be the failure")
	}
}

func TestRun_PreservesDeclarationOrder(t *testing.T) {
	eng := &stubEngine{duration: 60}
	d := newTestDispatcher(eng, true)

	batch := &config.Batch{Operations: []config.Operation{
		speedOp(0, 2),
		speedOp(1, 3),
		speedOp(2, 4),
	}}

	outcomes := d.Run(context.Background(), batch)
	for i, oc := range outcomes {
		if oc.Index != i {
			t.Errorf("outcome %d has index %d", i, oc.Index)
		}
		if oc.ID == "" {
			t.Errorf("outcome %d missing ID", i)
		}
	}
}

func TestRun_UndecodableEntryFails(t *testing.T) {
	eng := &stubEngine{duration: 60}
	d := newTestDispatcher(eng, true)

	batch := &config.Batch{Operations: []config.Operation{
		{Name: "no_such_operation", Index: 0, Err: errors.New(`unknown operation "no_such_operation"`)},
		speedOp(1, 2),
	}}

	outcomes := d.Run(context.Background(), batch)
	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes; want 2", len(outcomes))
	}
	if outcomes[0].Success() {
		t.Error("undecodable entry should fail")
	}
	if !outcomes[1].Success() {
		t.Error("following operation should still run")
	}
	if len(eng.calls) == 0 || eng.calls[len(eng.calls)-1] != "SetSpeed" {
		t.Errorf("valid operation should reach the engine: %v", eng.calls)
	}
}

func TestExecute_SlidingWindow(t *testing.T) {
	eng := &stubEngine{duration: 20}
	d := newTestDispatcher(eng, true)

	op := config.Operation{
		Name: config.OpSlidingWindow,
		Params: &config.SlidingWindowParams{
			VideoPath:    "in.mp4",
			WindowLength: 10,
			SlideStep:    3,
			OutputDir:    t.TempDir(),
		},
	}

	outputs, err := d.execute(context.Background(), op)
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if len(outputs) != 5 {
		t.Fatalf("got %d outputs; want 5", len(outputs))
	}

	last := eng.cutIntervals[len(eng.cutIntervals)-1]
	if last.Start != 12 || last.End != 20 {
		t.Errorf("trailing window = %v; want (12, 20)", last)
	}
}

func TestExecute_FrozenFrame_PositionEnd(t *testing.T) {
	eng := &stubEngine{duration: 30}
	d := newTestDispatcher(eng, true)

	op := config.Operation{
		Name: config.OpFrozenFrame,
		Params: &config.FrozenFrameParams{
			VideoPath:      "in.mp4",
			FreezePosition: "end",
			FreezeDuration: 2,
			OutputPath:     "frozen.mp4",
		},
	}

	if _, err := d.execute(context.Background(), op); err != nil {
		t.Fatalf("execute returned error: %v", err)
	}

	want := 30 - resolver.FreezeEndEpsilon
	if eng.freezeInstant != want {
		t.Errorf("freeze instant = %v; want %v", eng.freezeInstant, want)
	}
}

func TestExecute_Trim_SingleFile(t *testing.T) {
	eng := &stubEngine{duration: 60}
	d := newTestDispatcher(eng, true)

	op := config.Operation{
		Name: config.OpTrim,
		Params: &config.TrimParams{
			VideoPath: "in.mp4",
			Intervals: []models.SpanSpec{span(5, 10), span(20, 30)},
			OutputPath: filepath.Join(t.TempDir(), "trimmed.mp4"),
		},
	}

	outputs, err := d.execute(context.Background(), op)
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if len(outputs) != 1 {
		t.Fatalf("single-file trim should report one output; got %v", outputs)
	}
	if eng.calls[len(eng.calls)-1] != "CutToFile" {
		t.Errorf("expected CutToFile; calls: %v", eng.calls)
	}
}

func TestExecute_Trim_Directory(t *testing.T) {
	eng := &stubEngine{duration: 60}
	d := newTestDispatcher(eng, true)

	op := config.Operation{
		Name: config.OpTrim,
		Params: &config.TrimParams{
			VideoPath:  "in.mp4",
			Intervals:  []models.SpanSpec{span(5, 10)},
			OutputPath: t.TempDir(),
		},
	}

	outputs, err := d.execute(context.Background(), op)
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if eng.calls[len(eng.calls)-1] != "Cut" {
		t.Errorf("directory output should cut per-segment; calls: %v", eng.calls)
	}
	if len(outputs) != 1 {
		t.Errorf("got %d outputs; want 1", len(outputs))
	}
}

func TestExecute_AudioSegment(t *testing.T) {
	eng := &stubEngine{duration: 120}
	d := newTestDispatcher(eng, true)

	op := config.Operation{
		Name: config.OpExtractAudio,
		Params: &config.AudioParams{
			VideoPath:   "in.mp4",
			OutputPath:  "out.mp3",
			AudioFormat: "mp3",
			StartTime:   timeparse.Number(30),
		},
	}

	if _, err := d.execute(context.Background(), op); err != nil {
		t.Fatalf("execute returned error: %v", err)
	}

	if eng.audioRequest.Interval == nil {
		t.Fatal("segment extraction should carry an interval")
	}
	if eng.audioRequest.Interval.Start != 30 || eng.audioRequest.Interval.End != 120 {
		t.Errorf("interval = %v; want (30, 120)", *eng.audioRequest.Interval)
	}
}

func TestExecute_AudioWholeFile_SkipsProbe(t *testing.T) {
	eng := &stubEngine{duration: 120}
	d := newTestDispatcher(eng, true)

	op := config.Operation{
		Name: config.OpConvertToAudio,
		Params: &config.AudioParams{
			VideoPath:   "in.mp4",
			OutputPath:  "out.mp3",
			AudioFormat: "mp3",
		},
	}

	if _, err := d.execute(context.Background(), op); err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	for _, call := range eng.calls {
		if call == "Duration" {
			t.Error("whole-file extraction should not probe the duration")
		}
	}
	if eng.audioRequest.Interval != nil {
		t.Errorf("whole-file extraction should not carry an interval: %v", *eng.audioRequest.Interval)
	}
}

func TestExecute_SubtitleSpeed(t *testing.T) {
	eng := &stubEngine{duration: 60}
	d := newTestDispatcher(eng, true)

	op := config.Operation{
		Name: config.OpSubtitleSpeed,
		Params: &config.SubtitleSpeedParams{
			SubtitlePath: "in.srt",
			Speed:        1.5,
			OutputPath:   "out.srt",
		},
	}

	outputs, err := d.execute(context.Background(), op)
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if len(outputs) != 1 || outputs[0] != "out.srt" {
		t.Errorf("outputs = %v; want [out.srt]", outputs)
	}
	if eng.calls[len(eng.calls)-1] != "ShiftSubtitles" || eng.speedFactor != 1.5 {
		t.Errorf("subtitle retiming should reach the engine: %v", eng.calls)
	}
}

func TestExecute_EngineFailureSurfaces(t *testing.T) {
	eng := &stubEngine{duration: 60, failOn: "Concat"}
	d := newTestDispatcher(eng, true)

	op := config.Operation{
		Name: config.OpConcat,
		Params: &config.ConcatParams{
			VideoPaths: []string{"a.mp4", "b.mp4"},
			OutputPath: "joined.mp4",
		},
	}

	_, err := d.execute(context.Background(), op)
	if !errors.Is(err, engine.ErrEngine) {
		t.Errorf("expected engine failure sentinel, got %v", err)
	}
}

func TestExecute_MissingFieldFailsBeforeEngine(t *testing.T) {
	eng := &stubEngine{duration: 60}
	d := newTestDispatcher(eng, true)

	op := config.Operation{
		Name:   config.OpConcat,
		Params: &config.ConcatParams{OutputPath: "joined.mp4"},
	}

	_, err := d.execute(context.Background(), op)
	if !errors.Is(err, config.ErrMissingField) {
		t.Errorf("expected missing field error, got %v", err)
	}
	if len(eng.calls) != 0 {
		t.Errorf("engine should not be reached: %v", eng.calls)
	}
}
