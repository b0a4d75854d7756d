package requestmeta

import (
	"net"

	"github.com/oschwald/geoip2-golang"
)

// GeoResolver answers country lookups from a local MaxMind database. A nil
// resolver is valid and reports every address as unresolved.
type GeoResolver struct {
	reader *geoip2.Reader
}

// OpenGeoResolver opens a GeoLite2 country or city database file.
func OpenGeoResolver(path string) (*GeoResolver, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &GeoResolver{reader: reader}, nil
}

// Country returns the ISO 3166-1 code for the address, or "" when the
// address is unparsable or absent from the database.
func (g *GeoResolver) Country(addr string) string {
	if g == nil || g.reader == nil {
		return ""
	}
	ip := net.ParseIP(addr)
	if ip == nil {
		return ""
	}
	rec, err := g.reader.Country(ip)
	if err != nil {
		return ""
	}
	return rec.Country.IsoCode
}

// Close releases the underlying database handle.
func (g *GeoResolver) Close() error {
	if g == nil || g.reader == nil {
		return nil
	}
	return g.reader.Close()
}
