// Command validate checks a finished preparation run: the decorated vertical
// traces in the intermediate directory and the final traces in the output
// directory are compared against the raw inputs and the run parameters.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -input-dir traces \
//	  -intermediate-dir traces/decorated \
//	  -output-dir new_traces \
//	  -run-file run.yaml
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/couchcryptid/seismic-prep/internal/adapter/sacfile"
	"github.com/couchcryptid/seismic-prep/internal/config"
	"github.com/couchcryptid/seismic-prep/internal/domain"
)

// outputChannel maps a raw component suffix to the channel it is written as.
var outputChannel = map[string]string{
	"x": domain.ChannelNorth,
	"y": domain.ChannelEast,
	"z": domain.ChannelVertical,
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	inputDir := flag.String("input-dir", "traces", "directory holding the raw .x/.y/.z traces")
	intermediateDir := flag.String("intermediate-dir", "traces/decorated", "directory holding the decorated vertical traces")
	outputDir := flag.String("output-dir", "new_traces", "directory holding the final traces")
	runFile := flag.String("run-file", "run.yaml", "run file used for the preparation run")
	flag.Parse()

	if code := run(*inputDir, *intermediateDir, *outputDir, *runFile); code != 0 {
		os.Exit(code)
	}
}

func run(inputDir, intermediateDir, outputDir, runFile string) int {
	fmt.Println("=== Trace Preparation Validation ===")
	fmt.Println()

	r, err := config.LoadRun(runFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load run file: %v\n", err)
		return 1
	}

	in, err := load(inputDir, intermediateDir, outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	in.params = r.Params

	phases := validateAll(in)

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Traces: %d raw, %d decorated, %d final\n", len(in.raw), len(in.decorated), len(in.final))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

// runData is everything a validation phase looks at, keyed by file name.
type runData struct {
	params    domain.Params
	raw       map[string]*domain.Trace // STA.x
	decorated map[string]*domain.Trace // STA.z
	final     map[string]*domain.Trace // STA.new_bnz
}

func load(inputDir, intermediateDir, outputDir string) (*runData, error) {
	raw, err := loadDir(inputDir, "*.[xyz]")
	if err != nil {
		return nil, fmt.Errorf("load raw traces: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no raw traces in %s", inputDir)
	}
	decorated, err := loadDir(intermediateDir, "*.z")
	if err != nil {
		return nil, fmt.Errorf("load decorated traces: %w", err)
	}
	final, err := loadDir(outputDir, "*.new_*")
	if err != nil {
		return nil, fmt.Errorf("load final traces: %w", err)
	}
	return &runData{raw: raw, decorated: decorated, final: final}, nil
}

func loadDir(dir, pattern string) (map[string]*domain.Trace, error) {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	out := make(map[string]*domain.Trace, len(paths))
	for _, p := range paths {
		t, err := sacfile.ReadTrace(p)
		if err != nil {
			return nil, err
		}
		out[filepath.Base(p)] = t
	}
	return out, nil
}

func sortedKeys(m map[string]*domain.Trace) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// splitName splits "STA1.z" into ("STA1", "z").
func splitName(name string) (string, string) {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext), strings.TrimPrefix(ext, ".")
}

// ── Validation phases ──

func validateAll(in *runData) []*phase {
	return []*phase{
		validateDecorated(in),
		validateLayout(in),
		validateSampleCounts(in),
		validateNoiseBounds(in),
	}
}

// validateDecorated checks that every decorated trace carries geometry and
// unchanged samples.
func validateDecorated(in *runData) *phase {
	p := &phase{name: "Decorated traces carry geometry"}
	if len(in.decorated) == 0 {
		p.errorf("no decorated traces")
		return p
	}
	for _, name := range sortedKeys(in.decorated) {
		t := in.decorated[name]
		if _, ok := t.Distance(); !ok {
			p.errorf("%s: DIST not set", name)
		}
		if az, ok := t.Azimuth(); !ok {
			p.errorf("%s: AZ not set", name)
		} else if az < 0 || az >= 360 {
			p.errorf("%s: AZ %g outside [0, 360)", name, az)
		}
		raw, ok := in.raw[name]
		if !ok {
			p.errorf("%s: no raw trace", name)
			continue
		}
		if raw.Len() != t.Len() {
			p.errorf("%s: %d samples, raw has %d", name, t.Len(), raw.Len())
			continue
		}
		for i := range raw.Samples {
			if raw.Samples[i] != t.Samples[i] {
				p.errorf("%s: sample %d changed", name, i)
				break
			}
		}
	}
	return p
}

// validateLayout checks that every component of every decorated station has
// a final trace with the expected network, channel and sampling interval.
func validateLayout(in *runData) *phase {
	p := &phase{name: "Final traces relabelled and resampled"}
	wantDelta := 1 / in.params.SampleRate

	for _, name := range sortedKeys(in.raw) {
		station, comp := splitName(name)
		if _, ok := in.decorated[station+".z"]; !ok {
			continue
		}
		channel := outputChannel[comp]
		outName := station + ".new_" + strings.ToLower(channel)
		t, ok := in.final[outName]
		if !ok {
			p.errorf("%s: missing (from %s)", outName, name)
			continue
		}
		if t.Network != in.params.Network {
			p.errorf("%s: network %q, want %q", outName, t.Network, in.params.Network)
		}
		if t.Channel != channel {
			p.errorf("%s: channel %q, want %q", outName, t.Channel, channel)
		}
		if math.Abs(t.Delta-wantDelta) > 1e-6 {
			p.errorf("%s: delta %g, want %g", outName, t.Delta, wantDelta)
		}
	}
	return p
}

// validateSampleCounts checks count = resampled count + leading pad.
func validateSampleCounts(in *runData) *phase {
	p := &phase{name: "Sample counts include resample and pad"}
	pad := in.params.PadSamples()

	for _, name := range sortedKeys(in.raw) {
		station, comp := splitName(name)
		outName := station + ".new_" + strings.ToLower(outputChannel[comp])
		t, ok := in.final[outName]
		if !ok {
			continue
		}
		raw := in.raw[name]
		want := resampledLen(raw, in.params.SampleRate) + pad
		if t.Len() != want {
			p.errorf("%s: %d samples, want %d", outName, t.Len(), want)
		}
	}
	return p
}

// validateNoiseBounds checks that the pad and pre-trigger region hold only
// scaled noise.
func validateNoiseBounds(in *runData) *phase {
	p := &phase{name: "Pre-trigger region bounded by noise"}
	pad := in.params.PadSamples()
	delta := 1 / in.params.SampleRate
	bound := math.Abs(in.params.Gain) * math.Max(math.Abs(in.params.NoiseMin), math.Abs(in.params.NoiseMax))
	bound *= 1 + 1e-6

	for _, name := range sortedKeys(in.decorated) {
		station, _ := splitName(name)
		raw, ok := in.raw[name]
		if !ok {
			continue
		}
		trigger := domain.Round2(domain.DetectTrigger(raw.Samples, in.params.Threshold, raw.Delta))
		fill := min(int(trigger/delta), resampledLen(raw, in.params.SampleRate))

		for _, channel := range outputChannel {
			outName := station + ".new_" + strings.ToLower(channel)
			t, ok := in.final[outName]
			if !ok {
				continue
			}
			end := min(pad+fill, t.Len())
			for i := range end {
				if math.Abs(t.Samples[i]) > bound {
					p.errorf("%s: sample %d = %g exceeds noise bound %g", outName, i, t.Samples[i], bound)
					break
				}
			}
		}
	}
	return p
}

func resampledLen(raw *domain.Trace, rate float64) int {
	return int(float64(raw.Len()) / ((1 / raw.Delta) / rate))
}
