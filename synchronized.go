package calibrator

import (
	"sync"
)

// Synchronized wraps a Calibrator so it can be shared between goroutines.
// Every call holds a single mutex, since queries update the cached last
// result and may read structures a concurrent triangulation replaces.
type Synchronized struct {
	mu sync.Mutex
	c  *Calibrator
}

var _ Interpolator = (*Synchronized)(nil)

// NewSynchronized creates a calibrator safe for concurrent use.
func NewSynchronized(config *Config) (*Synchronized, error) {
	c, err := New(config)
	if err != nil {
		return nil, err
	}
	return &Synchronized{c: c}, nil
}

// Synchronize wraps an existing calibrator. The caller must not use c
// directly afterwards.
func Synchronize(c *Calibrator) *Synchronized {
	return &Synchronized{c: c}
}

// AddCalibrationPoint implements Interpolator.
func (s *Synchronized) AddCalibrationPoint(point, data []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.AddCalibrationPoint(point, data)
}

// AddCalibrationPoints stores several points and triangulates at most once.
func (s *Synchronized) AddCalibrationPoints(points []CalibrationPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.AddCalibrationPoints(points)
}

// TryToPerformTriangulation implements Interpolator.
func (s *Synchronized) TryToPerformTriangulation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.TryToPerformTriangulation()
}

// Interpolated implements Interpolator.
func (s *Synchronized) Interpolated(query []float64) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Interpolated(query)
}

// InterpolatedStrict is the synchronized form of Calibrator.InterpolatedStrict.
func (s *Synchronized) InterpolatedStrict(query []float64) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.InterpolatedStrict(query)
}

// NumCalibrationPoints implements Interpolator.
func (s *Synchronized) NumCalibrationPoints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.NumCalibrationPoints()
}

// Points returns copies of the stored calibration points.
func (s *Synchronized) Points() []CalibrationPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Points()
}

// LastResult returns a copy of the most recent successful query result.
func (s *Synchronized) LastResult() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.LastResult()
}

// Configuration implements Interpolator.
func (s *Synchronized) Configuration() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Configuration()
}

// SetConfiguration implements Interpolator.
func (s *Synchronized) SetConfiguration(configuration string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.SetConfiguration(configuration)
}

// SaveConfiguration writes the configuration to path. The lock is released
// before the file is written.
func (s *Synchronized) SaveConfiguration(path string) error {
	s.mu.Lock()
	configuration := s.c.Configuration()
	s.mu.Unlock()

	return saveText(path, configuration)
}

// LoadConfiguration reads a file written by SaveConfiguration.
func (s *Synchronized) LoadConfiguration(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.LoadConfiguration(path)
}

// Reset discards all points and switches to new dimensions.
func (s *Synchronized) Reset(space, data int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Reset(space, data)
}

// Info returns information about the calibrator.
func (s *Synchronized) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Info()
}
