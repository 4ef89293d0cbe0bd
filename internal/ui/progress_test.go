package ui

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestPipelinePhases(t *testing.T) {
	p := NewPipelineWithOutput(AnalyzePhases, io.Discard)

	for i := range AnalyzePhases {
		bar := p.NextPhase(10)
		if bar == nil {
			t.Fatalf("NextPhase returned nil for phase %d", i)
		}
	}
	if bar := p.NextPhase(1); bar != nil {
		t.Error("Expected nil after the last phase")
	}
	p.Finish()
}

func TestFileDoneConcurrent(t *testing.T) {
	p := NewPipelineWithOutput([]Phase{PhaseParsing}, io.Discard)
	bar := p.NextPhase(100)
	done := bar.FileDone()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			done("app/views.py")
		}()
	}
	wg.Wait()

	if got := bar.bar.State().CurrentNum; got != 100 {
		t.Errorf("progress = %d, expected 100", got)
	}
}

func TestDisabledPipeline(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewPipelineWithOutput(GeneratePhases, out)
	p.Disable()

	bar := p.NextPhase(3)
	bar.Increment()
	p.PrintSummary()
	p.Finish()

	if out.Len() != 0 {
		t.Errorf("Disabled pipeline wrote output: %q", out.String())
	}
}

func TestPipelineSummary(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewPipelineWithOutput(AnalyzePhases, out)

	p.NextPhase(1)
	time.Sleep(2 * time.Millisecond)
	p.NextPhase(1)
	p.Finish()
	out.Reset()
	p.PrintSummary()

	summary := out.String()
	if !strings.Contains(summary, "Detecting") || !strings.Contains(summary, "Parsing") {
		t.Errorf("Summary missing phases: %q", summary)
	}
	if strings.Contains(summary, "Linking") {
		t.Errorf("Summary lists a phase that never ran: %q", summary)
	}
	if p.Elapsed(PhaseDetecting) < time.Millisecond {
		t.Errorf("Detecting elapsed = %v, expected at least 1ms", p.Elapsed(PhaseDetecting))
	}
	if p.Elapsed(PhaseLinking) != 0 {
		t.Errorf("Linking elapsed = %v, expected 0", p.Elapsed(PhaseLinking))
	}
}

func TestSpinner(t *testing.T) {
	out := &bytes.Buffer{}
	s := NewSpinnerWithOutput("Generating docs", out)
	s.Start(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	s.Stop()
	s.Stop()

	if !strings.Contains(out.String(), "Generating docs") {
		t.Errorf("Spinner output missing description: %q", out.String())
	}
}
