package config

const (
	ipLookupURLVar  = "IP_LOOKUP_URL"
	geoLookupURLVar = "GEO_LOOKUP_URL"
)

type LookupConfig interface {
	GetIPLookupURL() string
	GetGeoLookupURL() string
}

type Lookups struct {
	file *fileValues
}

var _ LookupConfig = Lookups{}

func (l Lookups) GetIPLookupURL() string {
	return GetEnv(ipLookupURLVar, fileOr(l.file, func(f *fileValues) string { return f.Lookups.IPURL }, "https://api.ipify.org?format=json"))
}

// GetGeoLookupURL returns a URL template; "{ip}" is replaced with the address.
func (l Lookups) GetGeoLookupURL() string {
	return GetEnv(geoLookupURLVar, fileOr(l.file, func(f *fileValues) string { return f.Lookups.GeoURL }, "https://ipapi.co/{ip}/json/"))
}
