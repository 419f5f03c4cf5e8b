package ocr

import (
	"bytes"
	"testing"
)

func TestRotateSwapsDimensions(t *testing.T) {
	img := testImage(t, 400, 600)

	for _, angle := range []int{90, 270} {
		rotated, err := Rotate(img, angle)
		if err != nil {
			t.Fatalf("rotate %d: %v", angle, err)
		}
		w, h, err := Dimensions(rotated)
		if err != nil {
			t.Fatalf("dimensions: %v", err)
		}
		if w != 600 || h != 400 {
			t.Fatalf("rotate %d: expected 600x400 got %dx%d", angle, w, h)
		}
	}

	rotated, err := Rotate(img, 180)
	if err != nil {
		t.Fatalf("rotate 180: %v", err)
	}
	w, h, err := Dimensions(rotated)
	if err != nil {
		t.Fatalf("dimensions: %v", err)
	}
	if w != 400 || h != 600 {
		t.Fatalf("rotate 180: expected 400x600 got %dx%d", w, h)
	}
}

func TestRotateZeroIsIdentity(t *testing.T) {
	img := testImage(t, 100, 50)
	for _, angle := range []int{0, 360, -360} {
		rotated, err := Rotate(img, angle)
		if err != nil {
			t.Fatalf("rotate %d: %v", angle, err)
		}
		if !bytes.Equal(rotated, img) {
			t.Fatalf("rotate %d must return the input unchanged", angle)
		}
	}
}

func TestRotateNormalizesNegativeAngles(t *testing.T) {
	img := testImage(t, 300, 200)
	rotated, err := Rotate(img, -90)
	if err != nil {
		t.Fatalf("rotate -90: %v", err)
	}
	w, h, err := Dimensions(rotated)
	if err != nil {
		t.Fatalf("dimensions: %v", err)
	}
	if w != 200 || h != 300 {
		t.Fatalf("expected -90 to behave as 270, got %dx%d", w, h)
	}
}

func TestRotateRejectsUnsupportedAngle(t *testing.T) {
	img := testImage(t, 100, 100)
	if _, err := Rotate(img, 45); err == nil {
		t.Fatal("expected error for a non-quadrant angle")
	}
}

func TestDimensionsRejectsGarbage(t *testing.T) {
	if _, _, err := Dimensions([]byte("not an image")); err == nil {
		t.Fatal("expected decode error")
	}
}
