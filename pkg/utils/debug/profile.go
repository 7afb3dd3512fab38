// Package debug writes runtime profiles for the tweetbridge CLI.
package debug

import (
	"fmt"
	"os"
	"runtime/pprof"
)

// Profiler records a CPU profile between Start and Stop and, optionally, a
// heap profile at Stop. Empty paths disable the corresponding profile.
type Profiler struct {
	CPUPath  string
	HeapPath string

	cpuFile *os.File
}

func (p *Profiler) Start() error {
	if p.CPUPath == "" {
		return nil
	}

	f, err := os.Create(p.CPUPath)
	if err != nil {
		return fmt.Errorf("failed to create CPU profile file: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to start CPU profile: %w", err)
	}

	p.cpuFile = f
	return nil
}

func (p *Profiler) Stop() error {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		err := p.cpuFile.Close()
		p.cpuFile = nil
		if err != nil {
			return fmt.Errorf("failed to close CPU profile file: %w", err)
		}
	}

	if p.HeapPath == "" {
		return nil
	}
	return writeProfile("heap", p.HeapPath)
}

func writeProfile(name, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s profile file: %w", name, err)
	}
	defer f.Close()

	if err := pprof.Lookup(name).WriteTo(f, 0); err != nil {
		return fmt.Errorf("failed to write %s profile: %w", name, err)
	}
	return nil
}
