// Package geo converts source geometries to WGS84 GeoJSON.
//
// French open-data shapefiles deliver coordinates in Lambert-93
// (EPSG:2154), a Lambert conformal conic projection on the GRS80
// ellipsoid; the registry expects WGS84 longitude/latitude.
package geo

import "math"

// GRS80 ellipsoid and IGN Lambert-93 projection parameters
const (
	semiMajorAxis = 6378137.0
	flattening    = 1.0 / 298.257222101

	originLongitude = 3.0  // degrees
	originLatitude  = 46.5 // degrees
	firstParallel   = 44.0 // degrees
	secondParallel  = 49.0 // degrees
	falseEasting    = 700000.0
	falseNorthing   = 6600000.0
)

var (
	e2 = 2*flattening - flattening*flattening
	e  = math.Sqrt(e2)

	// conic constants derived from the two standard parallels
	n    = lambertN()
	bigF = lambertF()
	rho0 = semiMajorAxis * bigF * math.Pow(isoT(radians(originLatitude)), n)
)

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// isoM is the distance factor cos(phi)/sqrt(1 - e^2 sin^2(phi))
func isoM(phi float64) float64 {
	s := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-e2*s*s)
}

// isoT is the isometric colatitude function of the conformal projection
func isoT(phi float64) float64 {
	s := math.Sin(phi)
	return math.Tan(math.Pi/4-phi/2) / math.Pow((1-e*s)/(1+e*s), e/2)
}

func lambertN() float64 {
	phi1 := radians(firstParallel)
	phi2 := radians(secondParallel)
	return (math.Log(isoM(phi1)) - math.Log(isoM(phi2))) /
		(math.Log(isoT(phi1)) - math.Log(isoT(phi2)))
}

func lambertF() float64 {
	phi1 := radians(firstParallel)
	return isoM(phi1) / (lambertN() * math.Pow(isoT(phi1), lambertN()))
}

// Lambert93ToWGS84 converts an EPSG:2154 easting/northing pair to WGS84
// longitude/latitude in degrees. The latitude is resolved by fixed-point
// iteration; ten rounds converge well below survey precision.
func Lambert93ToWGS84(x, y float64) (lon, lat float64) {
	dx := x - falseEasting
	dy := rho0 - (y - falseNorthing)

	rho := math.Hypot(dx, dy)
	t := math.Pow(rho/(semiMajorAxis*bigF), 1/n)
	theta := math.Atan2(dx, dy)

	lon = degrees(theta/n) + originLongitude

	phi := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < 10; i++ {
		s := math.Sin(phi)
		phi = math.Pi/2 - 2*math.Atan(t*math.Pow((1-e*s)/(1+e*s), e/2))
	}
	lat = degrees(phi)
	return lon, lat
}
