package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	calibrator "github.com/tphakala/go-calibrator"
)

func main() {
	// Command-line flags
	var (
		space   = flag.Int("space", defaultSpaceDimension, "Number of coordinates per point")
		data    = flag.Int("data", defaultDataDimension, "Number of data values per point")
		load    = flag.String("load", "", "Calibration file to load (dimensions are taken from the file)")
		save    = flag.String("save", "", "Calibration file to write; .gz, .zst, .lz4 and .s2 are compressed")
		backend = flag.String("backend", defaultBackend, "Geometry backend: incremental, quickhull")
		tol     = flag.Float64("tolerance", 0, "Pivot tolerance for simplex inversion (0 = default)")
		verbose = flag.Bool("verbose", false, "Log degenerate geometry")
		demo    = flag.Bool("demo", false, "Run a demonstration")
		points  listFlag
		queries listFlag
	)
	flag.Var(&points, "point", `Calibration point "x,y:a,b" (repeatable)`)
	flag.Var(&queries, "query", `Query coordinate "x,y" (repeatable)`)
	flag.Parse()

	if *demo {
		runDemo()
		return
	}

	geometry, err := calibrator.ParseGeometryBackend(*backend)
	if err != nil {
		log.Fatalf("Invalid backend: %v", err)
	}

	config := calibrator.DefaultConfig(*space, *data)
	config.Geometry = geometry
	config.PivotTolerance = *tol
	config.AutoTriangulate = false
	if *verbose {
		config.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	c, err := openCalibrator(&config, *load)
	if err != nil {
		log.Fatal(err)
	}

	for _, p := range points {
		cp, err := parsePoint(p)
		if err != nil {
			log.Fatalf("Invalid point: %v", err)
		}
		c.AddCalibrationPoint(cp.Point, cp.Data)
	}
	c.TryToPerformTriangulation()

	info := c.Info()
	fmt.Printf("Calibrator:\n")
	fmt.Printf("  Dimensions: %d -> %d\n", info.SpaceDimension, info.DataDimension)
	fmt.Printf("  Points: %d\n", info.Points)
	fmt.Printf("  Simplices: %d (%d boundary facets)\n", info.Simplices, info.BoundaryFacets)
	fmt.Printf("  Backend: %s\n", info.Backend)
	fmt.Printf("  SIMD: %s\n", info.SIMDType)

	for _, q := range queries {
		query, err := parseVector(q)
		if err != nil {
			log.Fatalf("Invalid query: %v", err)
		}
		result, err := c.InterpolatedStrict(query)
		if err != nil {
			log.Fatalf("Invalid query: %v", err)
		}
		fmt.Printf("%s -> %s\n", formatVector(query), formatVector(result))
	}

	if *save != "" {
		if err := c.SaveConfiguration(*save); err != nil {
			log.Fatalf("Failed to save calibration: %v", err)
		}
		fmt.Printf("Saved %d points to %s\n", c.NumCalibrationPoints(), *save)
	}
}

func runDemo() {
	fmt.Println("=== Go Calibrator Demo ===")

	fmt.Println("\n1. One-dimensional calibration")
	fmt.Println("------------------------------")

	xs := []float64{0, 10}
	ys := []float64{0, 100}
	probe := []float64{-5, 0, 5, 10, 15}
	out, err := calibrator.Interpolate1D(xs, ys, probe)
	if err != nil {
		log.Fatalf("Interpolation failed: %v", err)
	}
	for i, x := range probe {
		fmt.Printf("  %6.2f -> %8.3f\n", x, out[i])
	}

	fmt.Println("\n2. Planar grid (data = x + 2y)")
	fmt.Println("------------------------------")

	config := calibrator.DefaultConfig(defaultSpaceDimension, defaultDataDimension)
	c, err := calibrator.NewFromPoints(&config, demoPoints())
	if err != nil {
		log.Fatalf("Failed to create calibrator: %v", err)
	}

	for i := range demoQueryCount {
		for j := range demoQueryCount {
			q := []float64{float64(i)*demoQueryStep - demoQueryStep, float64(j)*demoQueryStep - demoQueryStep}
			r := c.Interpolated(q)
			fmt.Printf("  (%5.2f, %5.2f) -> %7.3f (exact %7.3f)\n", q[0], q[1], r[0], q[0]+2*q[1])
		}
	}

	fmt.Println("\n3. Configuration text")
	fmt.Println("---------------------")
	fmt.Println(c.Configuration())
}
