// Package coord reprojects infraformat hole coordinates between the
// coordinate reference systems used in Finnish geotechnical data: the
// ETRS-GK zone systems (GK19..GK31), ETRS-TM34..36, ETRS-TM35FIN and
// geographic ETRS89/WGS84. All of them share the GRS80 ellipsoid, so
// zone conversion is plain transverse-mercator math without datum
// shifts.
//
// Coordinate order follows infraformat: X is the northing (or latitude
// in degrees for geographic systems), Y the easting (or longitude).
package coord

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/maapora/infraformat"
)

// Errors returned by the package.
var (
	// ErrUnknownSystem indicates a coordinate system name that is not in
	// the registry.
	ErrUnknownSystem = errors.New("coord: unknown coordinate system")

	// ErrNoCoordinates indicates a hole with no usable KJ system or XY
	// coordinates.
	ErrNoCoordinates = errors.New("coord: hole has no coordinates")
)

// epsgCodes maps normalized system names to EPSG codes.
var epsgCodes = map[string]string{
	"WGS84":       "EPSG:4326",
	"ETRS89":      "EPSG:4258",
	"ETRS-TM35FIN": "EPSG:3067",
	"ETRS-GK19":   "EPSG:3873",
	"ETRS-GK20":   "EPSG:3874",
	"ETRS-GK21":   "EPSG:3875",
	"ETRS-GK22":   "EPSG:3876",
	"ETRS-GK23":   "EPSG:3877",
	"ETRS-GK24":   "EPSG:3878",
	"ETRS-GK25":   "EPSG:3879",
	"ETRS-GK26":   "EPSG:3880",
	"ETRS-GK27":   "EPSG:3881",
	"ETRS-GK28":   "EPSG:3882",
	"ETRS-GK29":   "EPSG:3883",
	"ETRS-GK30":   "EPSG:3884",
	"ETRS-GK31":   "EPSG:3885",
	"ETRS-TM34":   "EPSG:3046",
	"ETRS-TM35":   "EPSG:3047",
	"ETRS-TM36":   "EPSG:3048",
}

// systemNames is the reverse of epsgCodes.
var systemNames = func() map[string]string {
	names := make(map[string]string, len(epsgCodes))
	for name, code := range epsgCodes {
		names[code] = name
	}
	return names
}()

// EPSG returns the EPSG code for a system name.
func EPSG(name string) (string, bool) {
	code, ok := epsgCodes[FixSystemName(name)]
	return code, ok
}

// SystemName returns the registry name for an EPSG code.
func SystemName(code string) (string, bool) {
	name, ok := systemNames[strings.ToUpper(code)]
	return name, ok
}

var separators = regexp.MustCompile(`[,. \-:]+`)

// FixSystemName normalizes a coordinate system string as written in KJ
// file headers into registry form: uppercased, separators folded to "-",
// and a bare zone like "GK25" prefixed with "ETRS". EPSG codes pass
// through resolved to their registry name.
func FixSystemName(input string) string {
	input = strings.TrimSpace(input)
	if len(input) <= 4 {
		input = "ETRS-" + input
	}
	fixed := strings.Join(separators.Split(strings.ToUpper(input), -1), "-")
	if name, ok := systemNames[strings.Replace(fixed, "EPSG-", "EPSG:", 1)]; ok {
		return name
	}
	return fixed
}

// Transformer converts coordinates between registered systems. The
// zero value is not usable; NewTransformer wires the projection cache,
// which the transformer owns outright. A Transformer is not safe for
// concurrent use; give each worker its own.
type Transformer struct {
	cache map[string]projection
}

// NewTransformer returns a transformer with an empty projection cache.
func NewTransformer() *Transformer {
	return &Transformer{cache: make(map[string]projection)}
}

// Transform converts (x, y) from one system to another. X is the
// northing or latitude, Y the easting or longitude. Municipal systems
// (ESPOO, HELSINKI) are lifted to their ETRS-GK zone first.
func (t *Transformer) Transform(x, y float64, from, to string) (float64, float64, error) {
	switch FixSystemName(from) {
	case "ESPOO":
		x, y = EspooToGK24(x, y)
		from = "ETRS-GK24"
	case "HELSINKI":
		x, y = HelsinkiToGK25(x, y)
		from = "ETRS-GK25"
	}
	src, err := t.projection(from)
	if err != nil {
		return 0, 0, err
	}
	dst, err := t.projection(to)
	if err != nil {
		return 0, 0, err
	}
	if src == dst {
		return x, y, nil
	}

	var lat, lon float64
	if src.geographic {
		lat, lon = x, y
	} else {
		lat, lon = src.inverse(x, y)
	}
	if dst.geographic {
		return lat, lon, nil
	}
	n, e := dst.forward(lat, lon)
	return n, e, nil
}

// projection resolves a system name through the cache.
func (t *Transformer) projection(name string) (projection, error) {
	fixed := FixSystemName(name)
	if p, ok := t.cache[fixed]; ok {
		return p, nil
	}
	p, ok := projectionFor(fixed)
	if !ok {
		return projection{}, fmt.Errorf("%w: %q", ErrUnknownSystem, name)
	}
	t.cache[fixed] = p
	return p, nil
}

// ProjectHoles returns a deep copy of the collection with every hole's
// XY coordinates converted to the target system and the KJ file header
// rewritten accordingly. Holes must carry a KJ coordinate system; a
// hole without one fails the whole operation.
func ProjectHoles(holes infraformat.Holes, target string) (infraformat.Holes, error) {
	name := FixSystemName(target)
	if _, ok := epsgCodes[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSystem, target)
	}
	out := holes.Clone()
	t := NewTransformer()
	for _, hole := range out {
		if hole.CoordinateSystem() == "" {
			return nil, fmt.Errorf("%w: point %q has no KJ system", ErrNoCoordinates, hole.PointID())
		}
		if _, _, ok := hole.Coordinates(); !ok {
			return nil, fmt.Errorf("%w: point %q has no XY header", ErrNoCoordinates, hole.PointID())
		}
	}
	if err := out.Project(name, func(x, y float64, source string) (float64, float64, error) {
		return t.Transform(x, y, source, name)
	}); err != nil {
		return nil, err
	}
	return out, nil
}
