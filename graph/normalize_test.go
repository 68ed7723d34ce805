package graph

import (
	"reflect"
	"testing"

	"github.com/zero-day-ai/stride/detection"
)

var testDims = detection.ImageDimensions{Width: 1000, Height: 1000}

func TestNormalize_Empty(t *testing.T) {
	components, diagnostics, err := Normalize(nil, testDims, DefaultConfig())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(components) != 0 {
		t.Errorf("len(components) = %d, want 0", len(components))
	}
	if len(diagnostics) != 0 {
		t.Errorf("len(diagnostics) = %d, want 0", len(diagnostics))
	}
}

func TestNormalize_MergesDuplicates(t *testing.T) {
	// Two detections of the same database, overlapping almost entirely,
	// with different label casing. The higher-confidence one survives.
	detections := []detection.RawDetection{
		{Label: "database", Confidence: 0.7, Box: detection.PixelBox{X: 105, Y: 105, Width: 200, Height: 200}},
		{Label: "Database", Confidence: 0.9, Box: detection.PixelBox{X: 100, Y: 100, Width: 200, Height: 200}},
	}

	components, _, err := Normalize(detections, testDims, DefaultConfig())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(components) != 1 {
		t.Fatalf("len(components) = %d, want 1", len(components))
	}
	if components[0].Type != TypeDatabase {
		t.Errorf("Type = %v, want %v", components[0].Type, TypeDatabase)
	}
	if components[0].Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9 (higher-confidence detection survives)", components[0].Confidence)
	}
	if components[0].Box.X != 0.1 {
		t.Errorf("Box.X = %v, want 0.1 (higher-confidence box survives)", components[0].Box.X)
	}
}

func TestNormalize_KeepsDistinctComponents(t *testing.T) {
	detections := []detection.RawDetection{
		{Label: "server", Confidence: 0.8, Box: detection.PixelBox{X: 600, Y: 100, Width: 150, Height: 150}},
		{Label: "database", Confidence: 0.9, Box: detection.PixelBox{X: 100, Y: 100, Width: 150, Height: 150}},
	}

	components, _, err := Normalize(detections, testDims, DefaultConfig())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(components) != 2 {
		t.Fatalf("len(components) = %d, want 2", len(components))
	}
	// Ordered ascending by X regardless of input order.
	if components[0].Type != TypeDatabase || components[1].Type != TypeServer {
		t.Errorf("components out of order: %v, %v", components[0].Type, components[1].Type)
	}
}

func TestNormalize_Diagnostics(t *testing.T) {
	detections := []detection.RawDetection{
		{Label: "ghost", Confidence: 1.5, Box: detection.PixelBox{X: 0, Y: 0, Width: 100, Height: 100}},
		{Label: "offscreen", Confidence: 0.9, Box: detection.PixelBox{X: 950, Y: 0, Width: 100, Height: 100}},
		{Label: "flat", Confidence: 0.9, Box: detection.PixelBox{X: 0, Y: 0, Width: 0, Height: 100}},
		{Label: "server", Confidence: 0.9, Box: detection.PixelBox{X: 100, Y: 100, Width: 100, Height: 100}},
	}

	components, diagnostics, err := Normalize(detections, testDims, DefaultConfig())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(components) != 1 {
		t.Fatalf("len(components) = %d, want 1", len(components))
	}
	if len(diagnostics) != 3 {
		t.Fatalf("len(diagnostics) = %d, want 3", len(diagnostics))
	}
	if diagnostics[0].Index != 0 || diagnostics[1].Index != 1 || diagnostics[2].Index != 2 {
		t.Errorf("diagnostic indices = %d, %d, %d, want 0, 1, 2",
			diagnostics[0].Index, diagnostics[1].Index, diagnostics[2].Index)
	}
}

func TestNormalize_DropsLowConfidenceSilently(t *testing.T) {
	detections := []detection.RawDetection{
		{Label: "server", Confidence: 0.1, Box: detection.PixelBox{X: 100, Y: 100, Width: 100, Height: 100}},
	}

	components, diagnostics, err := Normalize(detections, testDims, DefaultConfig())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(components) != 0 {
		t.Errorf("len(components) = %d, want 0", len(components))
	}
	// Below-threshold drops are policy, not malformed input.
	if len(diagnostics) != 0 {
		t.Errorf("len(diagnostics) = %d, want 0", len(diagnostics))
	}
}

func TestNormalize_UnknownLabelFallback(t *testing.T) {
	detections := []detection.RawDetection{
		{Label: "message-broker", Confidence: 0.8, Box: detection.PixelBox{X: 100, Y: 100, Width: 100, Height: 100}},
	}

	components, _, err := Normalize(detections, testDims, DefaultConfig())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(components) != 1 {
		t.Fatalf("len(components) = %d, want 1", len(components))
	}
	if components[0].Type != TypeUnknown {
		t.Errorf("Type = %v, want %v", components[0].Type, TypeUnknown)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	// Power-of-two dimensions and coordinates keep the pixel round trip
	// exact, so the output can be compared structurally.
	dims := detection.ImageDimensions{Width: 1024, Height: 1024}
	detections := []detection.RawDetection{
		{Label: "user", Confidence: 0.95, Box: detection.PixelBox{X: 64, Y: 512, Width: 128, Height: 128}},
		{Label: "api", Confidence: 0.85, Box: detection.PixelBox{X: 448, Y: 512, Width: 128, Height: 128}},
		{Label: "database", Confidence: 0.9, Box: detection.PixelBox{X: 832, Y: 512, Width: 128, Height: 128}},
	}

	first, _, err := Normalize(detections, dims, DefaultConfig())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	// Feed the normalized output back through as pixel detections.
	// An already-normalized set must survive unchanged.
	roundTrip := make([]detection.RawDetection, 0, len(first))
	for _, c := range first {
		roundTrip = append(roundTrip, detection.RawDetection{
			Label:      c.Type.String(),
			Confidence: c.Confidence,
			Box: detection.PixelBox{
				X:      c.Box.X * float64(dims.Width),
				Y:      c.Box.Y * float64(dims.Height),
				Width:  c.Box.Width * float64(dims.Width),
				Height: c.Box.Height * float64(dims.Height),
			},
		})
	}

	second, _, err := Normalize(roundTrip, dims, DefaultConfig())
	if err != nil {
		t.Fatalf("Normalize() round trip error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalization not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestNormalize_OrderIndependent(t *testing.T) {
	a := []detection.RawDetection{
		{Label: "user", Confidence: 0.95, Box: detection.PixelBox{X: 50, Y: 400, Width: 100, Height: 100}},
		{Label: "api", Confidence: 0.85, Box: detection.PixelBox{X: 400, Y: 400, Width: 150, Height: 100}},
	}
	b := []detection.RawDetection{a[1], a[0]}

	first, _, err := Normalize(a, testDims, DefaultConfig())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	second, _, err := Normalize(b, testDims, DefaultConfig())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("component order depends on input order:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestComponentID_Deterministic(t *testing.T) {
	box := detection.BoundingBox{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4}

	id1 := ComponentID(TypeServer, box)
	id2 := ComponentID(TypeServer, box)
	if id1 != id2 {
		t.Errorf("ComponentID() not deterministic: %s vs %s", id1, id2)
	}

	other := ComponentID(TypeDatabase, box)
	if id1 == other {
		t.Error("ComponentID() should differ for different types")
	}

	moved := ComponentID(TypeServer, detection.BoundingBox{X: 0.11, Y: 0.2, Width: 0.3, Height: 0.4})
	if id1 == moved {
		t.Error("ComponentID() should differ for different geometry")
	}
}
