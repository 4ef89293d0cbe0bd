package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Phase is one stage of an analyze or generate run
type Phase string

const (
	PhaseDetecting  Phase = "Detecting"
	PhaseParsing    Phase = "Parsing"
	PhaseLinking    Phase = "Linking"
	PhaseGenerating Phase = "Generating"
	PhaseReporting  Phase = "Reporting"
)

// AnalyzePhases is the phase list of the analyze command
var AnalyzePhases = []Phase{PhaseDetecting, PhaseParsing, PhaseLinking}

// GeneratePhases is the phase list of the generate command
var GeneratePhases = []Phase{PhaseDetecting, PhaseParsing, PhaseLinking, PhaseGenerating, PhaseReporting}

// ProgressBar is the bar of a single phase
type ProgressBar struct {
	bar   *progressbar.ProgressBar
	phase Phase
}

func newBar(phase Phase, total int, output io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", phase)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetPredictTime(true),
	)
	return &ProgressBar{bar: bar, phase: phase}
}

// Increment advances the bar by one step
func (pb *ProgressBar) Increment() error {
	return pb.bar.Add(1)
}

// FileDone returns a callback suitable for analyzer.AnalyzerConfig.OnFileDone.
// It is safe to call from several goroutines.
func (pb *ProgressBar) FileDone() func(relPath string) {
	return func(relPath string) {
		pb.bar.Add(1)
		pb.bar.Describe(fmt.Sprintf("[%s] %s", pb.phase, relPath))
	}
}

// Pipeline walks through a fixed list of phases, one bar per phase,
// and remembers how long each phase took
type Pipeline struct {
	phases   []Phase
	current  int
	bar      *ProgressBar
	started  time.Time
	elapsed  []time.Duration
	disabled bool
	output   io.Writer
}

// NewPipeline creates a pipeline writing to stdout
func NewPipeline(phases []Phase) *Pipeline {
	return NewPipelineWithOutput(phases, os.Stdout)
}

// NewPipelineWithOutput creates a pipeline with custom output
func NewPipelineWithOutput(phases []Phase, output io.Writer) *Pipeline {
	return &Pipeline{
		phases:  phases,
		current: -1,
		elapsed: make([]time.Duration, len(phases)),
		output:  output,
	}
}

// Disable silences every bar and the summary; timings are still recorded
func (p *Pipeline) Disable() {
	p.disabled = true
}

// NextPhase closes the running phase and starts the next one.
// It returns nil once every phase has been started.
func (p *Pipeline) NextPhase(total int) *ProgressBar {
	p.closePhase()

	p.current++
	if p.current >= len(p.phases) {
		return nil
	}

	out := p.output
	if p.disabled {
		out = io.Discard
	}
	p.bar = newBar(p.phases[p.current], total, out)
	p.started = time.Now()
	return p.bar
}

// Finish closes the running phase
func (p *Pipeline) Finish() {
	p.closePhase()
}

func (p *Pipeline) closePhase() {
	if p.bar == nil {
		return
	}
	p.bar.bar.Finish()
	p.elapsed[p.current] = time.Since(p.started)
	p.bar = nil
}

// Elapsed returns the recorded duration of a finished phase
func (p *Pipeline) Elapsed(phase Phase) time.Duration {
	for i, ph := range p.phases {
		if ph == phase {
			return p.elapsed[i]
		}
	}
	return 0
}

// PrintSummary prints one line with the duration of every phase that ran
func (p *Pipeline) PrintSummary() {
	if p.disabled {
		return
	}
	parts := make([]string, 0, len(p.phases))
	for i, ph := range p.phases {
		if i > p.current || i >= len(p.elapsed) {
			break
		}
		parts = append(parts, fmt.Sprintf("%s %s", ph, p.elapsed[i].Round(time.Millisecond)))
	}
	fmt.Fprintln(p.output, strings.Join(parts, " | "))
}

// Spinner shows indeterminate progress, such as waiting on a documentation model
type Spinner struct {
	description string
	chars       []rune
	index       int
	output      io.Writer

	stop chan struct{}
	done sync.WaitGroup
}

// NewSpinner creates a spinner writing to stdout
func NewSpinner(description string) *Spinner {
	return NewSpinnerWithOutput(description, os.Stdout)
}

// NewSpinnerWithOutput creates a spinner with custom output
func NewSpinnerWithOutput(description string, output io.Writer) *Spinner {
	return &Spinner{
		description: description,
		chars:       []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'},
		output:      output,
	}
}

// Tick advances the spinner by one frame
func (s *Spinner) Tick() {
	fmt.Fprintf(s.output, "\r%c %s", s.chars[s.index], s.description)
	s.index = (s.index + 1) % len(s.chars)
}

// Start ticks the spinner in the background until Stop is called
func (s *Spinner) Start(interval time.Duration) {
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done.Add(1)
	go func() {
		defer s.done.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		s.Tick()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.Tick()
			}
		}
	}()
}

// Stop halts the spinner and clears its line
func (s *Spinner) Stop() {
	if s.stop != nil {
		close(s.stop)
		s.done.Wait()
		s.stop = nil
	}
	fmt.Fprintf(s.output, "\r%s\r", strings.Repeat(" ", len(s.description)+2))
}
