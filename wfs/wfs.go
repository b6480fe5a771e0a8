// Package wfs downloads public borehole records from the Geological
// Survey of Finland (GTK) web feature service. Each feature carries a
// complete infraformat document in its properties; the client parses
// those documents and returns them as one hole collection in the
// caller's coordinate system.
package wfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maapora/infraformat"
	"github.com/maapora/infraformat/coord"
)

// Service defaults. The GTK service speaks WFS 2.0 and serves GeoJSON.
const (
	DefaultBaseURL  = "https://gtkdata.gtk.fi/arcgis/services/Rajapinnat/GTK_Pohjatutkimukset_WFS/MapServer/WFSServer"
	DefaultTypeName = "Pohjatutkimukset"
	DefaultLimit    = 1000
)

// Errors returned by the package.
var (
	// ErrStatus indicates a non-200 response from the service.
	ErrStatus = errors.New("wfs: unexpected response status")

	// ErrBadResponse indicates a response body that is not a GeoJSON
	// feature collection.
	ErrBadResponse = errors.New("wfs: malformed response")
)

// Client queries a borehole WFS endpoint. The zero value is not usable;
// construct with NewClient.
type Client struct {
	baseURL  string
	typeName string
	hc       *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another WFS endpoint, such as a test
// server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTypeName overrides the queried feature type.
func WithTypeName(name string) Option {
	return func(c *Client) { c.typeName = name }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// NewClient returns a client for the GTK borehole service.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		typeName: DefaultTypeName,
		hc:       &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// featureCollection is the GeoJSON subset the service returns.
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Geometry   geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// GetHoles fetches the boreholes inside the bounding box. The box is
// given in the named coordinate system (X northing, Y easting, or
// latitude and longitude for geographic systems) and the returned holes
// carry their XY coordinates converted to that same system. A
// non-positive maxHoles falls back to DefaultLimit.
//
// Feature documents that fail to parse are skipped, matching the
// permissive read policy; a hole inherits its coordinates from the
// feature geometry, which the service reports more reliably than the
// embedded document headers.
func (c *Client) GetHoles(ctx context.Context, bbox infraformat.Bounds, system string, maxHoles int) (infraformat.Holes, error) {
	if maxHoles <= 0 {
		maxHoles = DefaultLimit
	}
	name := coord.FixSystemName(system)
	if _, ok := coord.EPSG(name); !ok {
		return nil, fmt.Errorf("wfs: %q: %w", system, coord.ErrUnknownSystem)
	}
	t := coord.NewTransformer()

	minLat, minLon, err := t.Transform(bbox.MinX, bbox.MinY, name, "WGS84")
	if err != nil {
		return nil, fmt.Errorf("wfs: query box: %w", err)
	}
	maxLat, maxLon, err := t.Transform(bbox.MaxX, bbox.MaxY, name, "WGS84")
	if err != nil {
		return nil, fmt.Errorf("wfs: query box: %w", err)
	}
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	if minLon > maxLon {
		minLon, maxLon = maxLon, minLon
	}

	collection, err := c.getFeatures(ctx, minLat, minLon, maxLat, maxLon, maxHoles)
	if err != nil {
		return nil, err
	}

	var holes infraformat.Holes
	for _, feat := range collection.Features {
		if len(holes) >= maxHoles {
			break
		}
		document, ok := featureDocument(feat.Properties)
		if !ok {
			continue
		}
		parsed, err := infraformat.Read(strings.NewReader(document))
		if err != nil || len(parsed) == 0 {
			continue
		}
		for _, hole := range parsed {
			if len(holes) >= maxHoles {
				break
			}
			if len(feat.Geometry.Coordinates) >= 2 {
				// GeoJSON order is longitude first.
				lat, lon := feat.Geometry.Coordinates[1], feat.Geometry.Coordinates[0]
				x, y, err := t.Transform(lat, lon, "WGS84", name)
				if err != nil {
					return nil, fmt.Errorf("wfs: feature coordinates: %w", err)
				}
				setCoordinates(hole, x, y)
			}
			hole.SetCoordinateSystem(name)
			holes = append(holes, hole)
		}
	}
	return holes, nil
}

// getFeatures issues one GetFeature request and decodes the collection.
func (c *Client) getFeatures(ctx context.Context, minLat, minLon, maxLat, maxLon float64, count int) (*featureCollection, error) {
	params := url.Values{}
	params.Set("service", "WFS")
	params.Set("version", "2.0.0")
	params.Set("request", "GetFeature")
	params.Set("typeNames", c.typeName)
	params.Set("srsName", "EPSG:4326")
	params.Set("outputFormat", "application/json")
	params.Set("count", fmt.Sprint(count))
	params.Set("bbox", fmt.Sprintf("%f,%f,%f,%f,EPSG:4326", minLat, minLon, maxLat, maxLon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("wfs: build request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wfs: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s: %s", ErrStatus, resp.Status, strings.TrimSpace(string(body)))
	}

	var collection featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if collection.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: type %q", ErrBadResponse, collection.Type)
	}
	return &collection, nil
}

// featureDocument digs the embedded infraformat text out of the feature
// properties. The service has shipped it under a few different keys
// over the years.
func featureDocument(properties map[string]any) (string, bool) {
	for _, key := range []string{"data", "DATA", "Data", "infraformat"} {
		if raw, ok := properties[key]; ok {
			if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
				return s, true
			}
		}
	}
	return "", false
}

// setCoordinates writes the geometry position into the hole, creating
// the XY header when the embedded document lacked one.
func setCoordinates(hole *infraformat.Hole, x, y float64) {
	if _, ok := hole.Header["XY"]; !ok {
		fields := infraformat.NewFields()
		fields.Set("X", x)
		fields.Set("Y", y)
		hole.AddHeader("XY", infraformat.HeaderEntry{Fields: fields})
		return
	}
	hole.SetCoordinates(x, y)
}
