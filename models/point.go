package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Point is a cursor or tunnel position in meters.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UnmarshalJSON accepts both {"x":..,"y":..} objects and [x, y] pairs.
func (p *Point) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '[' {
		var pair []float64
		if err := json.Unmarshal(data, &pair); err != nil {
			return fmt.Errorf("point pair: %w", err)
		}
		if len(pair) < 2 {
			return fmt.Errorf("point pair needs 2 values, got %d", len(pair))
		}
		p.X, p.Y = pair[0], pair[1]
		return nil
	}
	var obj struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("point object: %w", err)
	}
	p.X, p.Y = obj.X, obj.Y
	return nil
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Split returns the x and y coordinates as separate slices.
func Split(points []Point) (xs, ys []float64) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}
