package main

import (
	"fmt"
	"strconv"
	"strings"

	calibrator "github.com/tphakala/go-calibrator"
)

// listFlag collects the values of a repeatable flag.
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, " ")
}

func (l *listFlag) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// parseVector parses comma separated numbers such as "0.5,1,2".
func parseVector(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty vector")
	}

	fields := strings.Split(s, valueSeparator)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}

// parsePoint parses a calibration point written as "x,y:a,b".
func parsePoint(s string) (calibrator.CalibrationPoint, error) {
	coords, data, ok := strings.Cut(s, pointDataSeparator)
	if !ok {
		return calibrator.CalibrationPoint{}, fmt.Errorf("point %q: missing %q between coordinates and data", s, pointDataSeparator)
	}

	point, err := parseVector(coords)
	if err != nil {
		return calibrator.CalibrationPoint{}, fmt.Errorf("point %q: %w", s, err)
	}
	values, err := parseVector(data)
	if err != nil {
		return calibrator.CalibrationPoint{}, fmt.Errorf("point %q: %w", s, err)
	}
	return calibrator.CalibrationPoint{Point: point, Data: values}, nil
}

// formatVector renders v like parseVector expects it.
func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', outputPrecision, 64)
	}
	return strings.Join(parts, valueSeparator)
}

// openCalibrator loads path when it is set and otherwise creates an empty
// calibrator from config.
func openCalibrator(config *calibrator.Config, path string) (*calibrator.Calibrator, error) {
	c, err := calibrator.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create calibrator: %w", err)
	}
	if path == "" {
		return c, nil
	}
	if err := c.LoadConfiguration(path); err != nil {
		return nil, fmt.Errorf("failed to load calibration: %w", err)
	}
	return c, nil
}

// demoPoints returns a grid with data x + 2y, which extrapolates exactly.
func demoPoints() []calibrator.CalibrationPoint {
	points := make([]calibrator.CalibrationPoint, 0, demoGridSize*demoGridSize)
	for i := range demoGridSize {
		for j := range demoGridSize {
			x, y := float64(i)*demoGridStep, float64(j)*demoGridStep
			points = append(points, calibrator.CalibrationPoint{
				Point: []float64{x, y},
				Data:  []float64{x + 2*y},
			})
		}
	}
	return points
}
