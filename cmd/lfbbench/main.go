package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/wdm0006/lfbclean/pkg/frame"
	"github.com/wdm0006/lfbclean/pkg/lfb"
)

var (
	groups     = []string{"Fire", "False Alarm", "Special Service"}
	categories = []string{"Dwelling", "Road Vehicle", "Outdoor", "Outdoor Structure", "Non Residential", "Other Residential", "Aircraft", "Boat", "Rail Vehicle"}
	types      = []string{"House", "Flat", "Car", "Shed", "Office", "Shop", "Van", "Bus"}
	qualifiers = []string{
		"Correct incident location",
		"In street close to gazetteer location",
		"Nearby address - street not listed in gazetteer",
		"Nearby address - no building in street",
		"On land associated with building",
		"On motorway / elevated road",
		"Within same building",
	}
	boroughs = []string{"Camden", "Hackney", "Islington", "Lambeth", "Southwark", "Westminster", lfb.NotGeoCoded}
	stations = []string{"Euston", "Homerton", "Islington", "Lambeth", "Old Kent Road", "Soho", "Paddington", "Kentish Town"}
)

type gen struct {
	rnd   *rand.Rand
	missp float64
	wards int
}

func (g *gen) pick(xs []string) string { return xs[g.rnd.Intn(len(xs))] }

func (g *gen) set(f *frame.Frame, row int, col string, v any) {
	if g.rnd.Float64() < g.missp {
		return
	}
	_ = f.SetCell(row, col, v)
}

func (g *gen) frame(rows int) *frame.Frame {
	f := frame.NewFrame(lfb.RawSchema())
	base := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < rows; i++ {
		f.AppendNullRow()
		_ = f.SetCell(i, lfb.IncidentNumber, fmt.Sprintf("%06d-%d", i, g.rnd.Intn(100)))
		_ = f.SetCell(i, lfb.IncidentGroup, g.pick(groups))
		_ = f.SetCell(i, lfb.TimestampOfCall, base.Add(time.Duration(g.rnd.Int63n(int64(365*24*time.Hour)))))
		g.set(f, i, lfb.PropertyCategory, g.pick(categories))
		g.set(f, i, lfb.PropertyType, g.pick(types))
		g.set(f, i, lfb.AddressQualifier, g.pick(qualifiers))
		g.set(f, i, lfb.BoroughName, g.pick(boroughs))
		_ = f.SetCell(i, lfb.WardName, fmt.Sprintf("E0500%04d", g.rnd.Intn(g.wards)))
		g.set(f, i, lfb.FirstStation, g.pick(stations))
		g.set(f, i, lfb.FirstTime, 120+g.rnd.NormFloat64()*60)
		g.set(f, i, lfb.StationPumps, float64(1+g.rnd.Intn(3)))
		g.set(f, i, lfb.PumpsAttending, float64(1+g.rnd.Intn(4)))
	}
	return f
}

func main() {
	var (
		rows     = flag.Int("rows", 1_000_000, "incident rows to generate")
		missp    = flag.Float64("missing", 0.05, "probability of a missing value in each nullable cell")
		wards    = flag.Int("wards", 600, "number of distinct wards")
		extended = flag.Bool("extended", false, "run the extended variant")
		jsonOut  = flag.Bool("json", false, "emit JSON summary")
		seed     = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	g := &gen{rnd: rand.New(rand.NewSource(*seed)), missp: *missp, wards: *wards}
	raw := g.frame(*rows)

	cfg := lfb.DefaultConfig()
	if *extended {
		cfg = lfb.ExtendedConfig()
	}

	runtime.GC()
	time.Sleep(100 * time.Millisecond)

	var msBefore, msAfter runtime.MemStats
	runtime.ReadMemStats(&msBefore)
	start := time.Now()
	out, rep, err := lfb.Clean(context.Background(), raw, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&msAfter)

	rowsPerSec := float64(*rows) / elapsed.Seconds()
	steps := make(map[string]int64, len(rep.Steps))
	for _, s := range rep.Steps {
		steps[s.Name] = s.Duration.Microseconds()
	}
	summary := map[string]any{
		"variant":               cfg.Variant,
		"rows_in":               *rows,
		"rows_out":              out.Rows(),
		"gaps":                  len(rep.Gaps),
		"elapsed_ms":            elapsed.Milliseconds(),
		"rows_per_sec":          rowsPerSec,
		"step_us":               steps,
		"mem_alloc_bytes":       msAfter.Alloc,
		"mem_total_alloc_bytes": msAfter.TotalAlloc - msBefore.TotalAlloc,
		"gc_num":                msAfter.NumGC - msBefore.NumGC,
		"missing_prob":          *missp,
	}

	if *jsonOut {
		b, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Printf("Variant: %s\n", cfg.Variant)
	fmt.Printf("Rows: %d in, %d out\n", *rows, out.Rows())
	fmt.Printf("Elapsed: %s\n", elapsed)
	fmt.Printf("Throughput: %.0f rows/s\n", rowsPerSec)
	for _, s := range rep.Steps {
		fmt.Printf("  %-22s %10s  dropped %d\n", s.Name, s.Duration, s.Dropped())
	}
	fmt.Printf("Current Alloc: %d MB\n", msAfter.Alloc/1024/1024)
	fmt.Printf("Total Alloc (delta): %d MB\n", (msAfter.TotalAlloc-msBefore.TotalAlloc)/1024/1024)
	fmt.Printf("GC cycles (delta): %d\n", msAfter.NumGC-msBefore.NumGC)
}
