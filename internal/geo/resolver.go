// Package geo resolves threat source addresses to region labels using a
// MaxMind or DB-IP compatible MMDB database.
package geo

import (
	"context"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"

	"github.com/xkilldash9x/secreport/api/schemas"
)

// cityLookup is the subset of *geoip2.Reader the resolver needs.
type cityLookup interface {
	City(ip net.IP) (*geoip2.City, error)
	Close() error
}

// Resolver implements schemas.RegionResolver on an MMDB database.
type Resolver struct {
	db cityLookup
}

var _ schemas.RegionResolver = (*Resolver)(nil)

// NewResolver opens the database at path. An empty path returns a nil
// Resolver and no error; callers treat that as "no resolution".
func NewResolver(path string) (*Resolver, error) {
	if path == "" {
		return nil, nil
	}
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geoip database %s: %w", path, err)
	}
	return &Resolver{db: db}, nil
}

// ResolveRegion returns the English country name for ip, falling back to the
// ISO code. Private, loopback and unparsable addresses never resolve.
func (r *Resolver) ResolveRegion(_ context.Context, ipStr string) (string, bool) {
	if r == nil || r.db == nil {
		return "", false
	}

	// Handle "ip:port" format by extracting just the IP
	host, _, err := net.SplitHostPort(ipStr)
	if err != nil {
		host = ipStr
	}
	ip := net.ParseIP(host)
	if ip == nil || isPrivateIP(ip) {
		return "", false
	}

	record, err := r.db.City(ip)
	if err != nil || record == nil {
		return "", false
	}
	if name := record.Country.Names["en"]; name != "" {
		return name, true
	}
	if record.Country.IsoCode != "" {
		return record.Country.IsoCode, true
	}
	return "", false
}

// Close releases the database.
func (r *Resolver) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsPrivate() || ip.IsUnspecified()
}
