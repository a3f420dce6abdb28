package bfplib

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/qri-io/jsonschema"
)

var reverseGeocodeRequestJSONSchema = func() *jsonschema.Schema {
	data := `{
        "type": "object",
        "required": [
            "latitude",
            "longitude"
        ],
        "additionalProperties": false,
        "properties": {
            "latitude": {
                "type": "number",
                "minimum": -90,
                "maximum": 90
            },
            "longitude": {
                "type": "number",
                "minimum": -180,
                "maximum": 180
            }
        }
    }`

	rv := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(data), rv); err != nil {
		panic(err)
	}

	return rv
}()

func (h httpHandler) handleReverseGeocode(w http.ResponseWriter, req *http.Request) {
	if !strings.Contains(req.Header.Get("Content-Type"), "application/json") {
		h.sendError(w, nil, "Incorrect content type", http.StatusUnsupportedMediaType)

		return
	}

	bodyBytes, err := io.ReadAll(req.Body)

	req.Body.Close()

	if err != nil {
		h.sendError(w, err, "Cannot read request body", http.StatusBadRequest)

		return
	}

	errs, err := reverseGeocodeRequestJSONSchema.ValidateBytes(req.Context(), bodyBytes)
	if err != nil {
		h.sendError(w, err, "Cannot validate body", http.StatusInternalServerError)

		return
	}

	if len(errs) > 0 {
		h.sendError(w, errs[0], "Missing latitude or longitude", http.StatusBadRequest)

		return
	}

	coords := Coordinates{}
	if err := json.Unmarshal(bodyBytes, &coords); err != nil {
		h.sendError(w, err, "Cannot parse request JSON", http.StatusBadRequest)

		return
	}

	resolved, err := h.resolver.ResolveCoordinates(req.Context(), coords)

	switch {
	case errors.Is(err, ErrInvalidCoordinates):
		h.sendError(w, err, "Invalid coordinates", http.StatusBadRequest)

		return
	case err != nil:
		h.logger.ResolveError(err)
		h.sendError(w, err, "Location lookup failed", http.StatusInternalServerError)

		return
	}

	h.sendData(w, http.StatusOK, "Location retrieved successfully", resolved)
}
