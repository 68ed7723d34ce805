package detection

import (
	"strings"
	"testing"
)

func TestImageDimensions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		dims    ImageDimensions
		wantErr bool
	}{
		{"valid dimensions", ImageDimensions{Width: 1920, Height: 1080}, false},
		{"zero width", ImageDimensions{Width: 0, Height: 1080}, true},
		{"zero height", ImageDimensions{Width: 1920, Height: 0}, true},
		{"negative", ImageDimensions{Width: -1, Height: 100}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dims.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeBatch(t *testing.T) {
	input := `{
		"image": "diagram.png",
		"dimensions": {"width": 1920, "height": 1080},
		"detections": [
			{"label": "Database", "confidence": 0.92,
			 "box": {"x": 100, "y": 200, "width": 300, "height": 150}}
		]
	}`

	batch, err := DecodeBatch(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeBatch() error = %v", err)
	}
	if batch.Image != "diagram.png" {
		t.Errorf("Image = %q, want %q", batch.Image, "diagram.png")
	}
	if len(batch.Detections) != 1 {
		t.Fatalf("len(Detections) = %d, want 1", len(batch.Detections))
	}
	if batch.Detections[0].Label != "Database" {
		t.Errorf("Label = %q, want %q", batch.Detections[0].Label, "Database")
	}
}

func TestDecodeBatch_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed json", `{"image": `},
		{"missing dimensions", `{"image": "x.png", "detections": []}`},
		{"zero dimensions", `{"dimensions": {"width": 0, "height": 0}, "detections": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeBatch(strings.NewReader(tt.input)); err == nil {
				t.Error("DecodeBatch() should fail")
			}
		})
	}
}
