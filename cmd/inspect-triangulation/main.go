package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	calibrator "github.com/tphakala/go-calibrator"
)

const (
	// Display limits
	maxSimplicesToShow = 20 // Simplices listed in detail
	valuePrecision     = 4  // Significant digits of printed coordinates
)

func main() {
	var (
		backend = flag.String("backend", "incremental", "Geometry backend: incremental, quickhull")
		probe   = flag.String("probe", "", `Optional query "x,y,..." whose facet weights are printed`)
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] calibration-file\n", flag.CommandLine.Name())
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return
	}

	geometry, err := calibrator.ParseGeometryBackend(*backend)
	if err != nil {
		log.Fatalf("Invalid backend: %v", err)
	}

	config := calibrator.DefaultConfig(1, 1)
	config.Geometry = geometry
	c, err := calibrator.New(&config)
	if err != nil {
		log.Fatalf("Failed to create calibrator: %v", err)
	}
	if err := c.LoadConfiguration(flag.Arg(0)); err != nil {
		log.Fatal(err)
	}

	fmt.Println("=== Triangulation ===")
	info := c.Info()
	fmt.Printf("  Dimensions: %d -> %d\n", info.SpaceDimension, info.DataDimension)
	fmt.Printf("  Points: %d\n", info.Points)
	fmt.Printf("  Simplices: %d\n", info.Simplices)
	fmt.Printf("  Boundary facets: %d\n", info.BoundaryFacets)
	fmt.Printf("  Backend: %s\n\n", info.Backend)

	simplices := c.Simplices()
	for i, s := range simplices {
		if i == maxSimplicesToShow {
			fmt.Printf("... %d more\n", len(simplices)-i)
			break
		}
		fmt.Printf("Simplex %d (cell %d)\n", i, s.CellID)
		for _, v := range s.Vertices {
			fmt.Printf("  vertex %s\n", format(v))
		}
		for j, f := range s.Facets {
			weighted := "weighted"
			if !f.Weighted {
				weighted = "unweighted"
			}
			fmt.Printf("  facet %d: vertices %v normal %s (%s)\n", j, f.Vertices, format(f.Normal), weighted)
		}
	}

	if *probe == "" {
		return
	}

	query, err := parse(*probe)
	if err != nil {
		log.Fatalf("Invalid probe: %v", err)
	}

	fmt.Printf("\n=== Probe %s ===\n", format(query))
	for i, s := range simplices {
		for j := range s.Facets {
			w, onRidge, err := c.Weight(i, j, query)
			if err != nil {
				log.Fatal(err)
			}
			if w == 0 && !onRidge {
				continue
			}
			fmt.Printf("  simplex %d facet %d: weight %.6f on ridge %v\n", i, j, w, onRidge)
		}
	}
	fmt.Printf("  result %s\n", format(c.Interpolated(query)))
}

func format(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', valuePrecision, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func parse(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
