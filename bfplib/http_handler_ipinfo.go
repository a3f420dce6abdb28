package bfplib

import (
	"context"
	"net"
	"net/http"
)

type ipInfoHeaders struct {
	XForwardedFor  string `json:"x_forwarded_for,omitempty"`
	XRealIP        string `json:"x_real_ip,omitempty"`
	CFConnectingIP string `json:"cf_connecting_ip,omitempty"`
	UserAgent      string `json:"user_agent,omitempty"`
	Host           string `json:"host,omitempty"`
}

type ipInfoData struct {
	DetectedIP  string        `json:"detectedIP"`
	PublicIP    string        `json:"publicIP"`
	IsLocalhost bool          `json:"isLocalhost"`
	IsPrivate   bool          `json:"isPrivate"`
	Headers     ipInfoHeaders `json:"headers"`
	Location    interface{}   `json:"location"`
}

type locationUnavailable struct {
	Error string `json:"error"`
	Note  string `json:"note,omitempty"`
}

func (h httpHandler) handleIPInfo(w http.ResponseWriter, req *http.Request) {
	clientIP := ResolveClientIP(req.Header, req.RemoteAddr)

	info := ipInfoData{
		DetectedIP: clientIP,
		PublicIP:   clientIP,
		Headers: ipInfoHeaders{
			XForwardedFor:  req.Header.Get("X-Forwarded-For"),
			XRealIP:        req.Header.Get("X-Real-Ip"),
			CFConnectingIP: req.Header.Get("Cf-Connecting-Ip"),
			UserAgent:      req.Header.Get("User-Agent"),
			Host:           req.Host,
		},
	}

	parsed := net.ParseIP(clientIP)
	lookupIP := parsed

	if parsed != nil {
		info.IsLocalhost = parsed.IsLoopback()
		info.IsPrivate = parsed.IsPrivate()
	}

	// Behind a local reverse proxy the detected address is useless for
	// geolocation; ask the public-IP services what the world sees.
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		if discovered := h.discoverPublicIP(req.Context()); discovered != nil {
			info.PublicIP = discovered.String()
			lookupIP = discovered
		}
	}

	switch {
	case lookupIP == nil || lookupIP.IsLoopback() || lookupIP.IsPrivate():
		info.Location = locationUnavailable{
			Error: "Private or local IP address",
			Note:  "Using localhost - deploy to see real location",
		}
	default:
		resolved, err := h.resolver.ResolveIP(req.Context(), lookupIP)
		if err != nil {
			h.logger.ResolveError(err)

			info.Location = locationUnavailable{Error: "Geolocation lookup failed"}
		} else {
			info.Location = resolved
		}
	}

	h.sendData(w, http.StatusOK, "IP information retrieved successfully", info)
}

func (h httpHandler) discoverPublicIP(ctx context.Context) net.IP {
	for _, v := range h.publicIPs {
		ip, err := v.PublicIP(ctx)
		if err != nil {
			h.logger.LookupError(v.Name(), err)

			continue
		}

		return ip
	}

	return nil
}

func (h httpHandler) handleMyIP(w http.ResponseWriter, req *http.Request) {
	h.encodeJSON(w, http.StatusOK, map[string]string{
		"ip": ResolveClientIP(req.Header, req.RemoteAddr),
	})
}
