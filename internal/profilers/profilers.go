// Package profilers sets up the optional profiling of the command-line programs.
//
// Linking it installs the flags -prof (HTTP pprof server on the given port), -cpu_profile and
// -heap_profile (files written at the end of the run).
package profilers

import (
	"context"
	"flag"
	"fmt"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
)

var (
	flagProfiler    = flag.Int("prof", -1, "If set, serves the pprof HTTP profiler at the given port, and keeps the program alive at the end until interrupted.")
	flagCPUProfile  = flag.String("cpu_profile", "", "Write cpu profile to `file`.")
	flagHeapProfile = flag.String("heap_profile", "", "Write heap profile to `file` at the end of the run.")
)

// Profilers configured by the flags. Create it with Setup.
type Profilers struct {
	ctx     context.Context
	addr    string
	cpuFile *os.File
}

// Setup starts the HTTP and CPU profilers, if they were configured, and returns the
// Profilers object whose Stop method must be called (usually deferred) at the end of the
// program. ctx is used to interrupt the wait at the end of the program when -prof is set.
func Setup(ctx context.Context) (*Profilers, error) {
	p := &Profilers{ctx: ctx}
	if *flagProfiler >= 0 {
		p.addr = fmt.Sprintf("localhost:%d", *flagProfiler)
		klog.Infof("Serving profiler on http://%s/debug/pprof", p.addr)
		klog.Infof("- Access it with: $ go tool pprof http://%s/debug/pprof/heap", p.addr)
		go func() {
			klog.Fatal(http.ListenAndServe(p.addr, nil))
		}()
	}
	if *flagCPUProfile != "" {
		f, err := os.Create(*flagCPUProfile)
		if err != nil {
			return nil, errors.Wrapf(err, "could not create CPU profile %q", *flagCPUProfile)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "could not start CPU profile")
		}
		p.cpuFile = f
	}
	return p, nil
}

// Stop the profilers: flushes the CPU profile and writes the heap profile, if configured.
// If the HTTP profiler is enabled it blocks until ctx is done, so the profile can be read.
func (p *Profilers) Stop() {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			klog.Errorf("Failed to close CPU profile: %+v", err)
		}
		p.cpuFile = nil
	}
	if *flagHeapProfile != "" {
		if err := writeHeapProfile(*flagHeapProfile); err != nil {
			klog.Errorf("%+v", err)
		}
	}
	if p.addr == "" || p.ctx.Err() != nil {
		return
	}
	for range 10 {
		// Collect garbage, to see if there is anything leaking.
		runtime.GC()
	}
	klog.Infof("Program finished: kept alive with profiler at http://%s/debug/pprof, interrupt (Ctrl+C) to exit", p.addr)
	<-p.ctx.Done()
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create heap profile %q", path)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "could not write heap profile %q", path)
	}
	return errors.Wrapf(f.Close(), "closing heap profile %q", path)
}
