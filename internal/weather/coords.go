package weather

import (
	"math"
	"math/rand"
	"strconv"
)

// Reference point and sampling radius for synthetic store coordinates. The
// coordinate only varies the weather query; it is not the order's location.
const (
	refLat = 40.84
	refLng = -73.87

	radiusMeters    = 1000000
	metersPerDegree = 111300
)

// Coordinate is a string-formatted lat/lng pair as embedded in query URLs.
type Coordinate struct {
	Lat string
	Lng string
}

// RandomCoordinate samples a uniformly-distributed point within the sampling
// radius of the reference point, rounded to 6 decimal places.
func RandomCoordinate(rng *rand.Rand) Coordinate {
	radiusInDegree := float64(radiusMeters) / metersPerDegree

	// sqrt on the radial component keeps the distribution uniform over the disk.
	w := radiusInDegree * math.Sqrt(rng.Float64())
	t := 2 * math.Pi * rng.Float64()

	lat := round6(w*math.Cos(t) + refLat)
	lng := round6(w*math.Sin(t) + refLng)

	return Coordinate{
		Lat: strconv.FormatFloat(lat, 'f', -1, 64),
		Lng: strconv.FormatFloat(lng, 'f', -1, 64),
	}
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
