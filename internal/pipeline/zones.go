package pipeline

import (
	"math"
)

// earthRadiusKM is the mean Earth radius used for haversine distances
const earthRadiusKM = 6371.0

// Zone is a taxi zone with its borough and centroid coordinates
type Zone struct {
	ID      int64
	Name    string
	Borough string
	Lat     float64
	Lon     float64
}

// Zones lists well-known NYC taxi zones with approximate centroids, used to
// resolve coordinates to a zone id.
var Zones = []Zone{
	{ID: 4, Name: "Alphabet City", Borough: "Manhattan", Lat: 40.7258, Lon: -73.9797},
	{ID: 12, Name: "Battery Park", Borough: "Manhattan", Lat: 40.7033, Lon: -74.0170},
	{ID: 13, Name: "Battery Park City", Borough: "Manhattan", Lat: 40.7115, Lon: -74.0158},
	{ID: 24, Name: "Bloomingdale", Borough: "Manhattan", Lat: 40.7987, Lon: -73.9664},
	{ID: 41, Name: "Central Harlem", Borough: "Manhattan", Lat: 40.8077, Lon: -73.9451},
	{ID: 43, Name: "Central Park", Borough: "Manhattan", Lat: 40.7812, Lon: -73.9665},
	{ID: 45, Name: "Chinatown", Borough: "Manhattan", Lat: 40.7158, Lon: -73.9970},
	{ID: 48, Name: "Clinton East", Borough: "Manhattan", Lat: 40.7637, Lon: -73.9918},
	{ID: 50, Name: "Clinton West", Borough: "Manhattan", Lat: 40.7662, Lon: -73.9980},
	{ID: 68, Name: "East Chelsea", Borough: "Manhattan", Lat: 40.7443, Lon: -73.9986},
	{ID: 79, Name: "East Village", Borough: "Manhattan", Lat: 40.7265, Lon: -73.9815},
	{ID: 87, Name: "Financial District North", Borough: "Manhattan", Lat: 40.7090, Lon: -74.0085},
	{ID: 88, Name: "Financial District South", Borough: "Manhattan", Lat: 40.7047, Lon: -74.0106},
	{ID: 90, Name: "Flatiron", Borough: "Manhattan", Lat: 40.7411, Lon: -73.9897},
	{ID: 100, Name: "Garment District", Borough: "Manhattan", Lat: 40.7547, Lon: -73.9916},
	{ID: 107, Name: "Gramercy", Borough: "Manhattan", Lat: 40.7368, Lon: -73.9845},
	{ID: 113, Name: "Greenwich Village North", Borough: "Manhattan", Lat: 40.7336, Lon: -73.9991},
	{ID: 114, Name: "Greenwich Village South", Borough: "Manhattan", Lat: 40.7290, Lon: -74.0006},
	{ID: 125, Name: "Hudson Sq", Borough: "Manhattan", Lat: 40.7262, Lon: -74.0074},
	{ID: 132, Name: "JFK Airport", Borough: "Queens", Lat: 40.6413, Lon: -73.7781},
	{ID: 138, Name: "LaGuardia Airport", Borough: "Queens", Lat: 40.7769, Lon: -73.8740},
	{ID: 140, Name: "Lenox Hill East", Borough: "Manhattan", Lat: 40.7665, Lon: -73.9570},
	{ID: 141, Name: "Lenox Hill West", Borough: "Manhattan", Lat: 40.7680, Lon: -73.9634},
	{ID: 142, Name: "Lincoln Square East", Borough: "Manhattan", Lat: 40.7736, Lon: -73.9832},
	{ID: 143, Name: "Lincoln Square West", Borough: "Manhattan", Lat: 40.7741, Lon: -73.9891},
	{ID: 144, Name: "Little Italy/NoLiTa", Borough: "Manhattan", Lat: 40.7196, Lon: -73.9970},
	{ID: 148, Name: "Lower East Side", Borough: "Manhattan", Lat: 40.7154, Lon: -73.9874},
	{ID: 158, Name: "Meatpacking/West Village West", Borough: "Manhattan", Lat: 40.7396, Lon: -74.0083},
	{ID: 161, Name: "Midtown Center", Borough: "Manhattan", Lat: 40.7589, Lon: -73.9776},
	{ID: 162, Name: "Midtown East", Borough: "Manhattan", Lat: 40.7549, Lon: -73.9708},
	{ID: 163, Name: "Midtown North", Borough: "Manhattan", Lat: 40.7646, Lon: -73.9787},
	{ID: 164, Name: "Midtown South", Borough: "Manhattan", Lat: 40.7510, Lon: -73.9839},
	{ID: 186, Name: "Penn Station/Madison Sq West", Borough: "Manhattan", Lat: 40.7505, Lon: -73.9934},
	{ID: 209, Name: "Seaport", Borough: "Manhattan", Lat: 40.7063, Lon: -74.0030},
	{ID: 211, Name: "SoHo", Borough: "Manhattan", Lat: 40.7233, Lon: -74.0030},
	{ID: 230, Name: "Times Sq/Theatre District", Borough: "Manhattan", Lat: 40.7580, Lon: -73.9855},
	{ID: 231, Name: "TriBeCa/Civic Center", Borough: "Manhattan", Lat: 40.7163, Lon: -74.0086},
	{ID: 234, Name: "Union Sq", Borough: "Manhattan", Lat: 40.7359, Lon: -73.9911},
	{ID: 246, Name: "West Chelsea/Hudson Yards", Borough: "Manhattan", Lat: 40.7508, Lon: -74.0021},
	{ID: 249, Name: "West Village", Borough: "Manhattan", Lat: 40.7358, Lon: -74.0036},
}

// Haversine returns the great-circle distance in kilometers between two
// coordinates
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

// NearestZone returns the zone whose centroid is closest to the coordinates
func NearestZone(lat, lon float64) Zone {
	nearest := Zones[0]
	best := Haversine(lat, lon, nearest.Lat, nearest.Lon)
	for _, zone := range Zones[1:] {
		if d := Haversine(lat, lon, zone.Lat, zone.Lon); d < best {
			best = d
			nearest = zone
		}
	}
	return nearest
}

// ZoneByID returns the zone with the given id, or false when unknown
func ZoneByID(id int64) (Zone, bool) {
	for _, zone := range Zones {
		if zone.ID == id {
			return zone, true
		}
	}
	return Zone{}, false
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
