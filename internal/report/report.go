// Package report generates the end-of-run summary.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/bagtoad/defectgen/internal/generator"
)

// Summary is everything the report needs about one run.
type Summary struct {
	Seed        uint64
	Requested   int
	OutputDir   string
	DryRun      bool
	Interrupted bool
	Scenes      []generator.Stats
}

type categoryTotals struct {
	classID    int
	scenes     int
	detections int
	dropped    int
}

// Print writes a summary report to the given writer.
func Print(w io.Writer, s Summary) {
	fmt.Fprintln(w)
	if s.DryRun {
		fmt.Fprintln(w, "=== Dry Run Summary ===")
	} else {
		fmt.Fprintln(w, "=== Summary ===")
	}
	fmt.Fprintf(w, "Seed:                %d\n", s.Seed)
	fmt.Fprintf(w, "Scenes requested:    %d\n", s.Requested)
	fmt.Fprintf(w, "Scenes generated:    %d\n", len(s.Scenes))
	if s.Interrupted {
		fmt.Fprintln(w, "Run interrupted before all scenes were generated.")
	}

	if len(s.Scenes) == 0 {
		fmt.Fprintln(w, "\nNo scenes generated.")
		return
	}

	totals := make(map[string]*categoryTotals)
	perScene := make(stats.Float64Data, 0, len(s.Scenes))
	labelled, detections, dropped := 0, 0, 0
	for _, sc := range s.Scenes {
		t, ok := totals[sc.Category]
		if !ok {
			t = &categoryTotals{classID: sc.ClassID}
			totals[sc.Category] = t
		}
		t.scenes++
		t.detections += sc.Detections
		t.dropped += sc.Dropped()

		if sc.Detections > 0 {
			labelled++
		}
		detections += sc.Detections
		dropped += sc.Dropped()
		perScene = append(perScene, float64(sc.Detections))
	}

	fmt.Fprintf(w, "Scenes with labels:  %d\n", labelled)
	fmt.Fprintf(w, "Negative scenes:     %d\n", len(s.Scenes)-labelled)
	fmt.Fprintf(w, "Detections:          %d\n", detections)
	fmt.Fprintf(w, "Instances dropped:   %d\n", dropped)

	mean, _ := perScene.Mean()
	median, _ := perScene.Median()
	most, _ := perScene.Max()
	fmt.Fprintf(w, "Per scene:           mean %.2f, median %.1f, max %.0f\n", mean, median, most)

	// Sort category names
	names := make([]string, 0, len(totals))
	for k := range totals {
		names = append(names, k)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "Categories:          %d\n", len(names))
	fmt.Fprintln(w)
	for _, name := range names {
		t := totals[name]
		fmt.Fprintf(w, "  %s (class %d): %d scenes, %d detections, %d dropped\n",
			name, t.classID, t.scenes, t.detections, t.dropped)
	}

	fmt.Fprintln(w)
	if s.DryRun {
		fmt.Fprintf(w, "Nothing written; output would go to %s\n", s.OutputDir)
	} else {
		fmt.Fprintf(w, "Output written to %s\n", s.OutputDir)
	}
}
