package geo

import (
	"strconv"

	"github.com/paulmach/orb"
)

const directionsBase = "https://www.google.com/maps/dir/?api=1&destination="

// DirectionsURL builds a navigation link to the given [lng, lat] point.
func DirectionsURL(p orb.Point) string {
	return directionsBase +
		strconv.FormatFloat(p.Lat(), 'f', -1, 64) + "," +
		strconv.FormatFloat(p.Lon(), 'f', -1, 64)
}
