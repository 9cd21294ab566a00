package calibrator

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Configuration serialises the dimensions and calibration points as text.
//
// The format is the space dimension, the data dimension and the point count
// on one line each, an empty line, and then for every point a line of
// coordinates and a line of data. Each value is followed by a single space:
//
//	2
//	1
//	2
//
//	0 0
//	1
//	1 0.5
//	3
//
// Values use the shortest representation that parses back exactly.
func (c *Calibrator) Configuration() string {
	points := c.engine.Points()

	var sb strings.Builder
	sb.WriteString(strconv.Itoa(c.engine.SpaceDimension()))
	sb.WriteByte(lineSeparator)
	sb.WriteString(strconv.Itoa(c.engine.DataDimension()))
	sb.WriteByte(lineSeparator)
	sb.WriteString(strconv.Itoa(len(points)))
	sb.WriteByte(lineSeparator)

	for _, cp := range points {
		sb.WriteByte(lineSeparator)
		writeValues(&sb, cp.Point)
		sb.WriteByte(lineSeparator)
		writeValues(&sb, cp.Data)
	}
	return sb.String()
}

func writeValues(sb *strings.Builder, values []float64) {
	for _, v := range values {
		sb.WriteString(strconv.FormatFloat(v, floatFormat, floatPrecision, floatBitSize))
		sb.WriteByte(valueSeparator)
	}
}

// SetConfiguration replaces all calibration points with the ones serialised
// in configuration and triangulates once.
//
// Parsing is lenient. Header lines are read up to the first non-digit and
// count as 0 when they hold no number. A non-positive dimension keeps the
// current one. Values that do not parse are read as 0, and a truncated text
// keeps every point that was read completely. An error is returned only when
// the header asks for dimensions the calibrator cannot hold.
func (c *Calibrator) SetConfiguration(configuration string) error {
	parts := strings.SplitN(configuration, string(lineSeparator), headerLines+1)
	for len(parts) <= headerLines {
		parts = append(parts, "")
	}

	space := leadingInt(parts[0])
	data := leadingInt(parts[1])
	count := leadingInt(parts[2])

	if space <= 0 {
		space = c.engine.SpaceDimension()
	}
	if data <= 0 {
		data = c.engine.DataDimension()
	}
	if space != c.engine.SpaceDimension() || data != c.engine.DataDimension() {
		if err := c.Reset(space, data); err != nil {
			return fmt.Errorf("set configuration: %w", err)
		}
	}

	tokens := strings.Fields(parts[headerLines])
	points := make([]CalibrationPoint, 0, max(min(count, len(tokens)/(space+data)), 0))
	for i := 0; i < count && len(tokens) >= space+data; i++ {
		points = append(points, CalibrationPoint{
			Point: parseValues(tokens[:space]),
			Data:  parseValues(tokens[space : space+data]),
		})
		tokens = tokens[space+data:]
	}

	c.engine.ReplacePoints(points)
	c.engine.TryToPerformTriangulation()

	c.logger().Debug("calibration configuration loaded",
		slog.Int("space", space),
		slog.Int("data", data),
		slog.Int("declared", count),
		slog.Int("points", c.engine.NumCalibrationPoints()))
	return nil
}

func parseValues(tokens []string) []float64 {
	out := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, floatBitSize)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			v = 0
		}
		out[i] = v
	}
	return out
}

// leadingInt parses an optionally signed integer at the start of s after
// leading whitespace, ignoring anything that follows. It returns 0 when there
// is no number.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
