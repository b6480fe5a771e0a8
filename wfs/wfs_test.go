package wfs

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/maapora/infraformat"
)

const featureDocumentText = "TT PA 1 S1\nXY 0 0 2.5 01012020 P1\n   1.25    10.5    0    Sa\n-1\n"

func serveCollection(t *testing.T, collection map[string]any, capture *url.Values) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = r.URL.Query()
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(collection); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func pointFeature(document string, lon, lat float64) map[string]any {
	return map[string]any{
		"type":     "Feature",
		"geometry": map[string]any{"type": "Point", "coordinates": []float64{lon, lat}},
		"properties": map[string]any{
			"data": document,
		},
	}
}

func TestGetHoles(t *testing.T) {
	t.Parallel()

	collection := map[string]any{
		"type":     "FeatureCollection",
		"features": []any{pointFeature(featureDocumentText, 24.9384, 60.1699)},
	}
	var query url.Values
	server := serveCollection(t, collection, &query)

	client := NewClient(WithBaseURL(server.URL))
	bbox := infraformat.Bounds{MinX: 60.0, MaxX: 60.5, MinY: 24.5, MaxY: 25.5}
	holes, err := client.GetHoles(context.Background(), bbox, "WGS84", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(holes) != 1 {
		t.Fatalf("got %d holes, want 1", len(holes))
	}

	hole := holes[0]
	if got := hole.SurveyMethod(); got != "PA" {
		t.Errorf("survey method = %q", got)
	}
	if len(hole.Survey) != 1 {
		t.Errorf("survey rows = %d, want 1", len(hole.Survey))
	}
	x, y, ok := hole.Coordinates()
	if !ok {
		t.Fatal("hole has no coordinates")
	}
	// the feature geometry overrides the embedded document's XY position
	if math.Abs(x-60.1699) > 1e-9 || math.Abs(y-24.9384) > 1e-9 {
		t.Errorf("coordinates = (%v, %v)", x, y)
	}
	if got := hole.CoordinateSystem(); got != "WGS84" {
		t.Errorf("coordinate system = %q", got)
	}

	if query.Get("request") != "GetFeature" {
		t.Errorf("request param = %q", query.Get("request"))
	}
	if query.Get("count") != "10" {
		t.Errorf("count param = %q", query.Get("count"))
	}
	if query.Get("bbox") == "" {
		t.Error("bbox param missing")
	}
}

func TestGetHolesProjectedSystem(t *testing.T) {
	t.Parallel()

	collection := map[string]any{
		"type":     "FeatureCollection",
		"features": []any{pointFeature(featureDocumentText, 24.9384, 60.1699)},
	}
	server := serveCollection(t, collection, nil)

	client := NewClient(WithBaseURL(server.URL))
	// the same area expressed as GK25 plane coordinates
	holes, err := client.GetHoles(context.Background(),
		infraformat.Bounds{MinX: 6650000, MaxX: 6700000, MinY: 25440000, MaxY: 25500000},
		"GK25", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(holes) != 1 {
		t.Fatalf("got %d holes, want 1", len(holes))
	}
	x, y, _ := holes[0].Coordinates()
	if x < 6600000 || x > 6700000 || y < 25400000 || y > 25500000 {
		t.Errorf("projected coordinates (%v, %v) outside the GK25 neighborhood", x, y)
	}
	if got := holes[0].CoordinateSystem(); got != "ETRS-GK25" {
		t.Errorf("coordinate system = %q", got)
	}
}

func TestGetHolesSkipsUnparseableFeatures(t *testing.T) {
	t.Parallel()

	collection := map[string]any{
		"type": "FeatureCollection",
		"features": []any{
			map[string]any{
				"type":       "Feature",
				"geometry":   map[string]any{"type": "Point", "coordinates": []float64{24.9, 60.2}},
				"properties": map[string]any{"owner": "no document here"},
			},
			pointFeature(featureDocumentText, 24.9384, 60.1699),
		},
	}
	server := serveCollection(t, collection, nil)

	client := NewClient(WithBaseURL(server.URL))
	bbox := infraformat.Bounds{MinX: 60.0, MaxX: 60.5, MinY: 24.5, MaxY: 25.5}
	holes, err := client.GetHoles(context.Background(), bbox, "WGS84", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(holes) != 1 {
		t.Fatalf("got %d holes, want 1", len(holes))
	}
}

func TestGetHolesLimit(t *testing.T) {
	t.Parallel()

	var features []any
	for i := 0; i < 5; i++ {
		features = append(features, pointFeature(featureDocumentText, 24.9, 60.2))
	}
	collection := map[string]any{"type": "FeatureCollection", "features": features}
	server := serveCollection(t, collection, nil)

	client := NewClient(WithBaseURL(server.URL))
	bbox := infraformat.Bounds{MinX: 60.0, MaxX: 60.5, MinY: 24.5, MaxY: 25.5}
	holes, err := client.GetHoles(context.Background(), bbox, "WGS84", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(holes) != 3 {
		t.Errorf("got %d holes, want the requested cap of 3", len(holes))
	}
}

func TestGetHolesUnknownSystem(t *testing.T) {
	t.Parallel()

	client := NewClient(WithBaseURL("http://127.0.0.1:0"))
	_, err := client.GetHoles(context.Background(), infraformat.Bounds{}, "MARS-2000", 10)
	if err == nil {
		t.Fatal("expected an error for an unknown system")
	}
}

func TestGetHolesServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(WithBaseURL(server.URL))
	bbox := infraformat.Bounds{MinX: 60.0, MaxX: 60.5, MinY: 24.5, MaxY: 25.5}
	_, err := client.GetHoles(context.Background(), bbox, "WGS84", 10)
	if !errors.Is(err, ErrStatus) {
		t.Errorf("expected ErrStatus, got %v", err)
	}
}

func TestGetHolesMalformedResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"type": "SomethingElse"}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(WithBaseURL(server.URL))
	bbox := infraformat.Bounds{MinX: 60.0, MaxX: 60.5, MinY: 24.5, MaxY: 25.5}
	_, err := client.GetHoles(context.Background(), bbox, "WGS84", 10)
	if !errors.Is(err, ErrBadResponse) {
		t.Errorf("expected ErrBadResponse, got %v", err)
	}
}
