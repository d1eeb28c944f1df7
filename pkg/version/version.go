// Package version provides version information for httpreq
package version

// Version is the current version of the httpreq library
const Version = "0.3.0"

// GetVersion returns the current version of the library
func GetVersion() string {
	return Version
}

// UserAgent returns the default User-Agent sent with requests
func UserAgent() string {
	return "httpreq/" + Version
}
