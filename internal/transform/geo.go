package transform

import "github.com/shoplens/delivery-facts/internal/source"

// GeoPoint is the centroid of all geolocation samples sharing a zip code
// prefix. Either coordinate is nil when none of its samples parsed.
type GeoPoint struct {
	Lat *float64
	Lng *float64
}

// BuildGeoLookup reduces raw geolocation samples to one centroid per zip
// code prefix. Prefixes without samples have no entry; they are never
// synthesized with placeholder coordinates. Latitude and longitude are
// averaged independently over their non-null samples.
func BuildGeoLookup(samples []source.GeoSample) map[string]GeoPoint {
	type acc struct {
		latSum, lngSum     float64
		latCount, lngCount int
	}
	accs := make(map[string]*acc)
	for _, s := range samples {
		if s.ZipPrefix == "" {
			continue
		}
		a := accs[s.ZipPrefix]
		if a == nil {
			a = &acc{}
			accs[s.ZipPrefix] = a
		}
		if s.Lat != nil {
			a.latSum += *s.Lat
			a.latCount++
		}
		if s.Lng != nil {
			a.lngSum += *s.Lng
			a.lngCount++
		}
	}

	lookup := make(map[string]GeoPoint, len(accs))
	for prefix, a := range accs {
		var p GeoPoint
		if a.latCount > 0 {
			lat := a.latSum / float64(a.latCount)
			p.Lat = &lat
		}
		if a.lngCount > 0 {
			lng := a.lngSum / float64(a.lngCount)
			p.Lng = &lng
		}
		lookup[prefix] = p
	}
	return lookup
}
