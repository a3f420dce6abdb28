// BFP analytics is a service which records visitor telemetry and
// resolves geolocation data for coordinates and IP addresses.
//
// A browser sends a profile: user agent, screen metrics, timezone and
// an optional GPS fix. The service detects the browser family, reverse
// geocodes the fix through a set of pluggable providers and stores the
// result in MongoDB, one document per visitor.
//
// Tool itself is organized into 3 logical parts:
//
// Bfplib
//
// bfplib is a main package of the application which contains Resolver
// and Aggregator structs and main logic related to geolocation and
// visitor accounting. It has its own API and can act as http.Handler.
//
// Providers
//
// This package has a set of provider implementations: reverse
// geocoders, IP geolocation backends and public IP discovery services.
//
// BFP
//
// A main package itself is an example of how to wire both bfplib and
// providers. Resulting binary starts http server and you can use it in
// your infrastructure as is.
package main
