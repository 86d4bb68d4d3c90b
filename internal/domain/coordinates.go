package domain

import "math"

// Immutable geographic coordinates (latitude, longitude) in decimal degrees.
// Routing services expect the reverse order; convert with CoordsToList and
// FromLonLat at the boundary.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// FromLonLat builds coordinates from a [lon, lat] pair.
func FromLonLat(pair []float64) (Coordinates, error) {
	if len(pair) != 2 {
		return Coordinates{}, Invalid("coordinate pair must have 2 elements, got %d", len(pair))
	}
	c := Coordinates{Lat: pair[1], Lon: pair[0]}
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}

// Validate rejects non-finite and out-of-range values.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return Invalid("coordinates must be finite: lat=%v lon=%v", c.Lat, c.Lon)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return Invalid("latitude %v out of range [-90, 90]", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return Invalid("longitude %v out of range [-180, 180]", c.Lon)
	}
	return nil
}

// Within reports whether both axes differ by strictly less than eps degrees.
func (c Coordinates) Within(o Coordinates, eps float64) bool {
	return math.Abs(c.Lat-o.Lat) < eps && math.Abs(c.Lon-o.Lon) < eps
}
