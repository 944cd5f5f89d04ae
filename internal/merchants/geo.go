package merchants

import "math"

const (
	defaultEarthRadiusMeters = 6371000
	defaultETABaseMinutes    = 10
	defaultETAMinutesPerKm   = 2
)

// haversineMeters computes the great-circle distance between two coordinate
// pairs on a sphere of the given radius.
func haversineMeters(lat1, lng1, lat2, lng2, earthRadiusMeters float64) float64 {
	if earthRadiusMeters <= 0 {
		earthRadiusMeters = defaultEarthRadiusMeters
	}

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// etaMinutes estimates delivery time as a flat base plus a per-kilometre
// component, rounded to the nearest whole minute.
func etaMinutes(distanceMeters, baseMinutes, minutesPerKm float64) int {
	if baseMinutes <= 0 {
		baseMinutes = defaultETABaseMinutes
	}
	if minutesPerKm <= 0 {
		minutesPerKm = defaultETAMinutesPerKm
	}
	return int(math.Round(baseMinutes + minutesPerKm*distanceMeters/1000))
}
