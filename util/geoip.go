package util

import (
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

var (
	geoipDB        *geoip2.Reader
	geoipCache     *cache.Cache
	geoipCacheHits int64
	geoipCacheMiss int64
)

// IPLocation is the resolved location of a client address.
type IPLocation struct {
	City    string
	Country string
}

// String renders "City/Country", or whichever part is known.
func (l IPLocation) String() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + "/" + l.Country
	case l.Country != "":
		return l.Country
	default:
		return l.City
	}
}

// InitGeoIP opens a GeoIP2/GeoLite2 .mmdb file and an in-memory lookup cache.
// An empty dbPath falls back to GEOIP_DB_PATH; if both are empty this is a no-op.
func InitGeoIP(dbPath string) error {
	if dbPath == "" {
		dbPath = os.Getenv("GEOIP_DB_PATH")
	}
	if dbPath == "" {
		return nil
	}

	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoipDB = r
	geoipCache = cache.New(24*time.Hour, 1*time.Hour)
	return nil
}

// CloseGeoIP closes the GeoIP DB if opened.
func CloseGeoIP() {
	if geoipDB != nil {
		_ = geoipDB.Close()
		geoipDB = nil
	}
	geoipCache = nil
}

// ValidateGeoIP attempts to open the MMDB file to ensure it's a valid DB.
func ValidateGeoIP(path string) error {
	r, err := geoip2.Open(path)
	if err != nil {
		return err
	}
	return r.Close()
}

// GetIPLocation resolves ip through the cache and then the local GeoIP database.
// Private, loopback and unparsable addresses resolve to an empty location.
func GetIPLocation(ip string) IPLocation {
	addr := net.ParseIP(ip)
	if addr == nil || addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() || addr.IsLinkLocalUnicast() {
		return IPLocation{}
	}

	if geoipCache != nil {
		if v, ok := geoipCache.Get(ip); ok {
			atomic.AddInt64(&geoipCacheHits, 1)
			if loc, ok := v.(IPLocation); ok {
				return loc
			}
		}
	}
	atomic.AddInt64(&geoipCacheMiss, 1)

	if geoipDB == nil {
		return IPLocation{}
	}

	rec, err := geoipDB.City(addr)
	if err != nil {
		zap.L().Debug("geoip lookup failed", zap.String("ip", ip), zap.Error(err))
		return IPLocation{}
	}

	loc := IPLocation{City: rec.City.Names["en"], Country: rec.Country.Names["en"]}
	if loc.Country == "" {
		loc.Country = rec.Country.IsoCode
	}
	if geoipCache != nil {
		geoipCache.Set(ip, loc, cache.DefaultExpiration)
	}
	return loc
}

// GetGeoIPCacheMetrics returns the cache hits and misses and current cache size.
func GetGeoIPCacheMetrics() (hits int64, misses int64, size int) {
	hits = atomic.LoadInt64(&geoipCacheHits)
	misses = atomic.LoadInt64(&geoipCacheMiss)
	if geoipCache != nil {
		return hits, misses, geoipCache.ItemCount()
	}
	return hits, misses, 0
}
