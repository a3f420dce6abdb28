package bfplib

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Coordinates is a reverse geocoding query. It is immutable and used
// only as a lookup key, so it carries no accuracy or altitude data.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) +
		"," +
		strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// locationFields is the canonical field set every provider response is
// normalized into. The order here is the order fields are merged in.
var locationFields = []string{
	"country",
	"country_code",
	"state",
	"region",
	"city",
	"district",
	"postcode",
	"timezone",
	"road",
	"suburb",
}

// PartialLocation is what a single provider knows about a query. Any
// field may be empty.
type PartialLocation struct {
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	State       string `json:"state,omitempty"`
	Region      string `json:"region,omitempty"`
	City        string `json:"city,omitempty"`
	District    string `json:"district,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Road        string `json:"road,omitempty"`
	Suburb      string `json:"suburb,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

func (p PartialLocation) Field(name string) string {
	switch name {
	case "country":
		return p.Country
	case "country_code":
		return p.CountryCode
	case "state":
		return p.State
	case "region":
		return p.Region
	case "city":
		return p.City
	case "district":
		return p.District
	case "postcode":
		return p.Postcode
	case "timezone":
		return p.Timezone
	case "road":
		return p.Road
	case "suburb":
		return p.Suburb
	}

	return ""
}

// SourceResult keeps full provenance for one provider: either its
// normalized data or the reason it contributed nothing, never both.
type SourceResult struct {
	Location *PartialLocation
	Err      string
}

func (s SourceResult) MarshalJSON() ([]byte, error) {
	if s.Err != "" {
		return json.Marshal(map[string]string{"error": s.Err})
	}

	return json.Marshal(s.Location)
}

// CombinedLocation is the merged best-effort location. Every value in
// Fields was copied verbatim from exactly one source; FieldSources maps
// the field name to the provider it was taken from.
type CombinedLocation struct {
	Fields           map[string]string `bson:"fields,omitempty"`
	FieldSources     map[string]string `bson:"field_sources,omitempty"`
	FullAddress      string            `bson:"full_address,omitempty"`
	FormattedAddress string            `bson:"formatted_address,omitempty"`
}

func (c CombinedLocation) Empty() bool {
	return len(c.Fields) == 0 && c.FullAddress == ""
}

// MarshalJSON flattens the record into the wire shape clients expect:
// each field next to its "<field>_source" provenance tag, plus the two
// derived address strings.
func (c CombinedLocation) MarshalJSON() ([]byte, error) {
	flat := make(map[string]string, 2*len(c.Fields)+2)

	for field, value := range c.Fields {
		flat[field] = value

		if source, ok := c.FieldSources[field]; ok {
			flat[field+"_source"] = source
		}
	}

	if c.FullAddress != "" {
		flat["full_address"] = c.FullAddress
	}

	if c.FormattedAddress != "" {
		flat["formatted_address"] = c.FormattedAddress
	}

	return json.Marshal(flat)
}

// ResolvedLocation is the resolver output: per-provider provenance plus
// the merged record. An empty Combined with all Sources carrying errors
// is a valid result, not a failure.
type ResolvedLocation struct {
	Coordinates *Coordinates            `json:"coordinates,omitempty"`
	IP          string                  `json:"ip,omitempty"`
	Sources     map[string]SourceResult `json:"sources"`
	Combined    CombinedLocation        `json:"combined"`
}

// NavigatorInfo is the browser-reported part of a fingerprint profile.
type NavigatorInfo struct {
	UserAgent string `json:"ua,omitempty" bson:"ua,omitempty"`
	Language  string `json:"language,omitempty" bson:"language,omitempty"`
	Platform  string `json:"platform,omitempty" bson:"platform,omitempty"`
	Vendor    string `json:"vendor,omitempty" bson:"vendor,omitempty"`
}

type ScreenInfo struct {
	Width      int     `json:"width,omitempty" bson:"width,omitempty"`
	Height     int     `json:"height,omitempty" bson:"height,omitempty"`
	ColorDepth int     `json:"color_depth,omitempty" bson:"color_depth,omitempty"`
	PixelRatio float64 `json:"pixel_ratio,omitempty" bson:"pixel_ratio,omitempty"`
}

// GPSReading is the optional device position embedded in a profile.
// Latitude and longitude are pointers so that a submitted zero value is
// distinguishable from an absent one.
type GPSReading struct {
	Latitude  *float64          `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude *float64          `json:"longitude,omitempty" bson:"longitude,omitempty"`
	Accuracy  float64           `json:"accuracy,omitempty" bson:"accuracy,omitempty"`
	Address   *CombinedLocation `json:"address,omitempty" bson:"address,omitempty"`
}

func (g *GPSReading) Coordinates() (Coordinates, bool) {
	if g == nil || g.Latitude == nil || g.Longitude == nil {
		return Coordinates{}, false
	}

	return Coordinates{Latitude: *g.Latitude, Longitude: *g.Longitude}, true
}

type LocationHint struct {
	GPS *GPSReading `json:"gps,omitempty" bson:"gps,omitempty"`
}

// VisitorProfile is the client-submitted fingerprint blob.
type VisitorProfile struct {
	VisitorID  string         `json:"visitor_id,omitempty" bson:"visitor_id,omitempty"`
	VisitCount int            `json:"visit_count,omitempty" bson:"visit_count,omitempty"`
	Navigator  *NavigatorInfo `json:"navigator,omitempty" bson:"navigator,omitempty"`
	Screen     *ScreenInfo    `json:"screen,omitempty" bson:"screen,omitempty"`
	Timezone   string         `json:"timezone,omitempty" bson:"timezone,omitempty"`
	Loc        *LocationHint  `json:"loc,omitempty" bson:"loc,omitempty"`
}

func (p VisitorProfile) UserAgent() string {
	if p.Navigator == nil {
		return ""
	}

	return p.Navigator.UserAgent
}

func (p VisitorProfile) GPS() *GPSReading {
	if p.Loc == nil {
		return nil
	}

	return p.Loc.GPS
}

// VisitorRecord is the stored per-visitor history entry. For identified
// visitors VisitCount only ever grows; CreatedAt is set on the first
// sighting and never rewritten.
type VisitorRecord struct {
	ID         string         `json:"id,omitempty" bson:"_id,omitempty"`
	VisitorID  string         `json:"visitor_id,omitempty" bson:"visitor_id,omitempty"`
	ClientIP   string         `json:"client_ip,omitempty" bson:"client_ip,omitempty"`
	Profile    VisitorProfile `json:"profile" bson:"profile"`
	Browser    string         `json:"browser" bson:"browser"`
	VisitCount int            `json:"visit_count" bson:"visit_count"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
	LastSeenAt time.Time      `json:"last_seen_at" bson:"last_seen_at"`
}

func formatAddress(combined CombinedLocation) string {
	parts := make([]string, 0, 4)

	if road := combined.Fields["road"]; road != "" {
		parts = append(parts, road)
	}

	if city := combined.Fields["city"]; city != "" {
		parts = append(parts, city)
	}

	if state := combined.Fields["state"]; state != "" {
		parts = append(parts, state)
	} else if region := combined.Fields["region"]; region != "" {
		parts = append(parts, region)
	}

	if country := combined.Fields["country"]; country != "" {
		parts = append(parts, country)
	}

	return strings.Join(parts, ", ")
}
