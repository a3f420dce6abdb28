package providers

// Provider names as they appear in configuration and in the sources
// map of a resolved location.
const (
	NameNominatim    = "openstreetmap"
	NameBigDataCloud = "bigdatacloud"
	NameIPAPI        = "ip_api"
	NameIPInfo       = "ipinfo"
	NameIPify        = "ipify"
)
