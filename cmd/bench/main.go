// Bench measures table construction time, memory use and evaluation
// throughput.
//
// Usage:
//
//	go run ./cmd/bench -hands 10000000 -cards 7
//
// Flags:
//
//	-hands     Number of random hands to evaluate (default: 10,000,000)
//	-cards     Cards per hand, 5..9 (default: 7)
//	-omaha     Build the Omaha tables and time PLO4 evaluation (default: true)
//	-workers   Number of parallel workers for building (default: 0 = GOMAXPROCS)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/metrics"
	"runtime/pprof"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spaolacci/murmur3"

	qbluff "github.com/chefmatteo/Qbluff"
	"github.com/chefmatteo/Qbluff/internal/config"
	"github.com/chefmatteo/Qbluff/internal/sampler"
)

// getMaxRSS returns the maximum resident set size in bytes.
// Uses getrusage(RUSAGE_SELF) which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}

// peakTracker samples heap and RSS every 10ms until stopped.
type peakTracker struct {
	heap atomic.Uint64
	rss  atomic.Uint64
	done chan struct{}
}

func startPeakTracker(baselineHeap, baselineRSS uint64) *peakTracker {
	p := &peakTracker{done: make(chan struct{})}
	p.heap.Store(baselineHeap)
	p.rss.Store(baselineRSS)
	go func() {
		// runtime/metrics avoids the stop-the-world pause of ReadMemStats.
		samples := []metrics.Sample{{Name: "/memory/classes/heap/objects:bytes"}}
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-p.done:
				return
			case <-ticker.C:
				metrics.Read(samples)
				raise(&p.heap, samples[0].Value.Uint64())
				raise(&p.rss, getMaxRSS())
			}
		}
	}()
	return p
}

func raise(v *atomic.Uint64, n uint64) {
	for {
		old := v.Load()
		if n <= old || v.CompareAndSwap(old, n) {
			return
		}
	}
}

func main() {
	handsFlag := flag.Int("hands", 10_000_000, "number of random hands")
	cardsFlag := flag.Int("cards", 7, "cards per hand (5..9)")
	omahaFlag := flag.Bool("omaha", true, "build the Omaha tables")
	workersFlag := flag.Int("workers", 0, "number of parallel workers for building")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file (build phase only)")
	memprofile := flag.String("memprofile", "", "write memory profile to file (build phase only)")
	flag.Parse()

	cfg := config.Instance()
	if err := cfg.SetupLogger(); err != nil {
		logrus.WithError(err).Fatal("invalid log configuration")
	}

	numHands, numCards := *handsFlag, *cardsFlag
	if numHands <= 0 || numCards < 5 || numCards > 9 {
		logrus.WithFields(logrus.Fields{"hands": numHands, "cards": numCards}).Fatal("invalid hand shape")
	}

	logrus.WithField("hands", numHands).Info("dealing hands")
	s := sampler.NewSeeded(0x1234, uint64(time.Now().UnixNano()))
	deck := make([]uint8, numHands*9)
	for i := range numHands {
		s.SampleInto(deck[i*9 : i*9+9])
	}
	hand := func(i int) []qbluff.Card {
		ids := deck[i*9 : i*9+numCards]
		cards := make([]qbluff.Card, len(ids))
		for j, id := range ids {
			cards[j] = qbluff.Card(id)
		}
		return cards
	}

	// A keyed hash of each hand is the floor for any hash-map based
	// evaluator; report it next to the table probes.
	hashStart := time.Now()
	var hashSink uint64
	for i := range numHands {
		hashSink ^= murmur3.Sum64WithSeed(deck[i*9:i*9+numCards], 0x1234)
	}
	hashDuration := time.Since(hashStart)

	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	var baseline runtime.MemStats
	runtime.ReadMemStats(&baseline)
	baselineRSS := getMaxRSS()
	peaks := startPeakTracker(baseline.Alloc, baselineRSS)

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			logrus.WithError(err).Fatal("could not create CPU profile")
		}
		defer func() { _ = f.Close() }()
		if err := pprof.StartCPUProfile(f); err != nil {
			logrus.WithError(err).Fatal("could not start CPU profile")
		}
	}

	opts := []qbluff.BuildOption{qbluff.WithWorkers(*workersFlag)}
	if !*omahaFlag {
		opts = append(opts, qbluff.WithoutOmaha())
	}
	logrus.Info("building tables")
	buildStart := time.Now()
	tables, err := qbluff.Build(context.Background(), opts...)
	buildDuration := time.Since(buildStart)

	if *cpuprofile != "" {
		pprof.StopCPUProfile()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			logrus.WithError(err).Error("could not create memory profile")
		} else {
			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				logrus.WithError(err).Error("could not write memory profile")
			}
			_ = f.Close()
		}
	}

	close(peaks.done)
	var final runtime.MemStats
	runtime.ReadMemStats(&final)
	raise(&peaks.heap, final.Alloc)
	raise(&peaks.rss, getMaxRSS())
	peakHeapMem := peaks.heap.Load() - baseline.Alloc
	peakRSSMem := peaks.rss.Load() - baselineRSS

	if err != nil {
		logrus.WithError(err).Fatal("build failed")
	}

	hands := make([][]qbluff.Card, numHands)
	for i := range hands {
		hands[i] = hand(i)
	}

	logrus.Info("benchmarking evaluation")
	var sink qbluff.HandRank
	evalStart := time.Now()
	for _, h := range hands {
		r, _ := tables.Evaluate(h...)
		sink += r
	}
	evalDuration := time.Since(evalStart)

	lookupStart := time.Now()
	for _, h := range hands {
		sink += tables.Lookup(h)
	}
	lookupDuration := time.Since(lookupStart)

	var plo4Duration time.Duration
	if numCards == 9 {
		plo4Start := time.Now()
		for _, h := range hands {
			sink += tables.EvaluatePlo4([5]qbluff.Card(h[:5]), [4]qbluff.Card(h[5:]))
		}
		plo4Duration = time.Since(plo4Start)
	}

	logrus.WithFields(logrus.Fields{"sink": sink, "hash": hashSink}).Debug("benchmark checksums")

	rate := func(d time.Duration) float64 {
		return float64(numHands) / d.Seconds() / 1_000_000
	}
	latency := func(d time.Duration) float64 {
		return float64(d.Nanoseconds()) / float64(numHands)
	}

	omahaStr := "off"
	if tables.HasOmaha() {
		omahaStr = "on"
	}
	fmt.Printf("\n")
	fmt.Printf("╔═════════════════════╦════════════════╦══════════════════╗\n")
	fmt.Printf("║ Cards: %-13d║ Omaha: %-8s║                  ║\n", numCards, omahaStr)
	fmt.Printf("╠═════════════════════╬════════════════╬══════════════════╣\n")
	fmt.Printf("║ Metric              ║ Value          ║ Throughput       ║\n")
	fmt.Printf("╠═════════════════════╬════════════════╬══════════════════╣\n")
	fmt.Printf("║ Build time          ║ %6.2f sec     ║ -                ║\n", buildDuration.Seconds())
	fmt.Printf("║ Evaluate latency    ║ %6.2f ns      ║ %6.2f M/sec      ║\n", latency(evalDuration), rate(evalDuration))
	fmt.Printf("║ Lookup latency      ║ %6.2f ns      ║ %6.2f M/sec      ║\n", latency(lookupDuration), rate(lookupDuration))
	if plo4Duration > 0 {
		fmt.Printf("║ PLO4 latency        ║ %6.2f ns      ║ %6.2f M/sec      ║\n", latency(plo4Duration), rate(plo4Duration))
	}
	fmt.Printf("║ Hash latency        ║ %6.2f ns      ║ %6.2f M/sec      ║\n", latency(hashDuration), rate(hashDuration))
	fmt.Printf("║ Peak heap memory    ║ %6.1f MB      ║ -                ║\n", float64(peakHeapMem)/1_000_000)
	fmt.Printf("║ Peak RSS memory     ║ %6.1f MB      ║ -                ║\n", float64(peakRSSMem)/1_000_000)
	fmt.Printf("╚═════════════════════╩════════════════╩══════════════════╝\n")
}
