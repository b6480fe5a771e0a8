package infraformat

import (
	"math"
	"strconv"
	"strings"
)

// Placeholder tokens standing in for a missing value. The unicode
// variants appear in files written by Windows survey software.
var missingTokens = map[string]bool{
	"-":  true,
	"_":  true,
	"﹣":  true,
	"－󠀭": true,
}

// IsMissingToken reports whether the token is a missing-value placeholder
// or empty.
func IsMissingToken(token string) bool {
	return token == "" || missingTokens[token]
}

// IsNumber reports whether the token reads as a number under infraformat
// rules: anything parseable as a (possibly complex-looking) number, or a
// missing-value placeholder. The classifier uses it to recognize the
// start of a survey data line.
func IsNumber(token string) bool {
	if missingTokens[token] {
		return true
	}
	if _, err := strconv.ParseComplex(token, 128); err == nil {
		return true
	}
	return false
}

// decodeString is the identity decoder.
func decodeString(token string) any { return token }

// decodeFloat parses a floating point token, accepting a locale decimal
// comma in place of a period. Placeholders and parse failures degrade to
// NaN; decoders never fail. Malformed numeric fields are a data quality
// problem, not a structural one, and the classifier alone decides when a
// line is illegal.
func decodeFloat(token string) any {
	if IsMissingToken(token) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", "."), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// decodeInt parses an integer token. A token holding a non-integral
// number widens to float64 instead of failing (a documented escape, not
// an error). Placeholders and parse failures degrade to NaN.
func decodeInt(token string) any {
	if IsMissingToken(token) {
		return math.NaN()
	}
	if n, err := strconv.ParseInt(token, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", "."), 64)
	if err != nil {
		return math.NaN()
	}
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return int64(f)
	}
	return f
}

// decode applies the decoder selected by kind.
func decode(kind DecoderKind, token string) any {
	switch kind {
	case KindInt:
		return decodeInt(token)
	case KindFloat:
		return decodeFloat(token)
	default:
		return decodeString(token)
	}
}

// IsMissing reports whether a decoded value is the missing sentinel.
func IsMissing(v any) bool {
	f, ok := v.(float64)
	return ok && math.IsNaN(f)
}
