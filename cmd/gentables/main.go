// Gentables builds the hand-rank tables and writes them to a snapshot that
// the evaluator loads on startup instead of rebuilding.
//
// Usage:
//
//	go run ./cmd/gentables -out tables.qblf
//	go run ./cmd/gentables -out tables.qblf -omaha=false
//
// When -out is empty the path comes from PHEVAL_TABLES_PATH or the
// tablesPath key of pheval.yaml. After writing, the snapshot is evicted from
// the page cache, reopened and checked against the freshly built tables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"

	qbluff "github.com/chefmatteo/Qbluff"
	"github.com/chefmatteo/Qbluff/internal/config"
	"github.com/chefmatteo/Qbluff/internal/sampler"
)

func main() {
	cfg := config.Instance()
	out := flag.String("out", cfg.TablesPath, "snapshot path")
	omaha := flag.Bool("omaha", cfg.Omaha, "include the Omaha tables")
	workers := flag.Int("workers", cfg.Workers, "number of parallel workers (0 = GOMAXPROCS)")
	checks := flag.Int("checks", 100_000, "random hands compared after reopening")
	quiet := flag.Bool("quiet", false, "skip the category summary")
	flag.Parse()

	if err := cfg.SetupLogger(); err != nil {
		logrus.WithError(err).Fatal("invalid log configuration")
	}
	if *out == "" {
		logrus.Fatal("no snapshot path: pass -out or set PHEVAL_TABLES_PATH")
	}

	pterm.Info.Printfln("GOMAXPROCS: %d", runtime.GOMAXPROCS(0))
	opts := []qbluff.BuildOption{qbluff.WithWorkers(*workers)}
	if !*omaha {
		opts = append(opts, qbluff.WithoutOmaha())
	}

	spinner, _ := pterm.DefaultSpinner.Start("Building tables ...")
	buildStart := time.Now()
	tables, err := qbluff.Build(context.Background(), opts...)
	if err != nil {
		spinner.Fail(err.Error())
		os.Exit(1)
	}
	spinner.Success(fmt.Sprintf("Built tables in %.2fs", time.Since(buildStart).Seconds()))

	spinner, _ = pterm.DefaultSpinner.Start("Writing snapshot ...")
	writeStart := time.Now()
	if err := tables.WriteFile(*out); err != nil {
		spinner.Fail(err.Error())
		os.Exit(1)
	}
	info, err := os.Stat(*out)
	if err != nil {
		spinner.Fail(err.Error())
		os.Exit(1)
	}
	spinner.Success(fmt.Sprintf("Wrote %s (%.1f MB) in %.2fs",
		*out, float64(info.Size())/1_000_000, time.Since(writeStart).Seconds()))

	if err := evict(*out); err != nil {
		logrus.WithError(err).Warn("could not evict snapshot from page cache")
	}

	spinner, _ = pterm.DefaultSpinner.Start("Verifying snapshot ...")
	openStart := time.Now()
	loaded, err := qbluff.Open(*out, opts...)
	if err != nil {
		spinner.Fail(err.Error())
		os.Exit(1)
	}
	openDuration := time.Since(openStart)
	if err := compare(tables, loaded, *checks); err != nil {
		spinner.Fail(err.Error())
		os.Exit(1)
	}
	spinner.Success(fmt.Sprintf("Reopened in %.2fs, %d hands agree", openDuration.Seconds(), *checks))

	if !*quiet {
		if err := renderCategories(loaded); err != nil {
			logrus.WithError(err).Error("render category summary")
		}
	}
}

// compare evaluates random hands of every size with both table sets.
func compare(want, got *qbluff.Tables, n int) error {
	s := sampler.NewSeeded(uint64(time.Now().UnixNano()), 0x9E3779B97F4A7C15)
	var ids [11]uint8
	var cards [11]qbluff.Card
	for i := range n {
		s.SampleInto(ids[:])
		for j, id := range ids {
			cards[j] = qbluff.Card(id)
		}
		k := 5 + i%5
		w, err := want.Evaluate(cards[:k]...)
		if err != nil {
			return err
		}
		if g := got.Lookup(cards[:k]); g != w {
			return fmt.Errorf("%v: snapshot rank %d, built rank %d", cards[:k], g, w)
		}
		board, hole := [5]qbluff.Card(cards[:5]), [4]qbluff.Card(cards[5:9])
		if w, g := want.EvaluatePlo4(board, hole), got.EvaluatePlo4(board, hole); w != g {
			return fmt.Errorf("board %v hole %v: snapshot rank %d, built rank %d", board, hole, g, w)
		}
		six := [6]qbluff.Card(cards[5:])
		if w, g := want.EvaluatePlo6(board, six), got.EvaluatePlo6(board, six); w != g {
			return fmt.Errorf("board %v hole %v: snapshot rank %d, built rank %d", board, six, g, w)
		}
	}
	return nil
}

// renderCategories prints the rank band of every category with its
// strongest and weakest hand.
func renderCategories(t *qbluff.Tables) error {
	data := pterm.TableData{{"Category", "Ranks", "Strongest", "Weakest"}}
	first := qbluff.HandRank(1)
	for c := qbluff.StraightFlush; c <= qbluff.HighCard; c++ {
		last := first + qbluff.HandRank(qbluff.CategorySize(c)) - 1
		data = append(data, []string{
			c.String(),
			fmt.Sprintf("%d-%d", first, last),
			fmt.Sprintf("%s (%s)", t.Describe(first), t.SampleHand(first)),
			fmt.Sprintf("%s (%s)", t.Describe(last), t.SampleHand(last)),
		})
		first = last + 1
	}
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()
}
