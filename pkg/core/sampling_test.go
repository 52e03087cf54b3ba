package core

import (
	"math"
	"testing"
)

// mockLight implements the Light interface for testing
type mockLight struct {
	emission Vec3
	pdf      float64
}

func (ml *mockLight) Type() LightType { return LightTypeArea }

func (ml *mockLight) Sample(point Vec3, normal Vec3, sample Vec2) LightSample {
	return LightSample{
		Point:     Vec3{X: 0, Y: 1, Z: 0},
		Normal:    Vec3{X: 0, Y: -1, Z: 0},
		Direction: Vec3{X: 0, Y: 1, Z: 0},
		Distance:  1.0,
		Emission:  ml.emission,
		PDF:       ml.pdf,
	}
}

func (ml *mockLight) PDF(point Vec3, normal Vec3, direction Vec3) float64 {
	return ml.pdf
}

func (ml *mockLight) Emit(ray Ray) Vec3 {
	return ml.emission
}

type fixedSampler struct {
	u float64
	v Vec2
}

func (f fixedSampler) Get1D() float64 { return f.u }
func (f fixedSampler) Get2D() Vec2    { return f.v }
func (f fixedSampler) Get3D() Vec3    { return Vec3{X: f.v.X, Y: f.v.Y, Z: f.u} }

func TestSampleLight(t *testing.T) {
	var empty []Light
	_, _, found := SampleLight(empty, Vec3{}, Vec3{Y: 1}, fixedSampler{})
	if found {
		t.Error("expected no sample from an empty light list")
	}

	emission := NewVec3(5.0, 5.0, 5.0)
	light := &mockLight{emission: emission, pdf: 0.5}
	lights := []Light{light}

	sample, idx, found := SampleLight(lights, Vec3{}, Vec3{Y: 1}, fixedSampler{u: 0.1})
	if !found {
		t.Fatal("expected to find a sample from a single light")
	}
	if idx != 0 {
		t.Errorf("expected index 0, got %d", idx)
	}

	expectedPDF := light.pdf / float64(len(lights))
	if math.Abs(sample.PDF-expectedPDF) > 1e-9 {
		t.Errorf("PDF incorrect: got %f, expected %f", sample.PDF, expectedPDF)
	}
	if sample.Emission != emission {
		t.Errorf("emission incorrect: got %v, expected %v", sample.Emission, emission)
	}
}

func TestCalculateLightPDF(t *testing.T) {
	var empty []Light
	if pdf := CalculateLightPDF(empty, Vec3{}, Vec3{}, Vec3{}); pdf != 0.0 {
		t.Errorf("expected 0 PDF for no lights, got %f", pdf)
	}

	light := &mockLight{emission: NewVec3(1, 1, 1), pdf: 0.5}
	lights := []Light{light}

	point := NewVec3(0, 0, 0)
	direction := NewVec3(0, 1, 0)
	pdf := CalculateLightPDF(lights, point, Vec3{Y: 1}, direction)

	expectedPDF := light.pdf / float64(len(lights))
	if math.Abs(pdf-expectedPDF) > 1e-9 {
		t.Errorf("PDF incorrect: got %f, expected %f", pdf, expectedPDF)
	}

	light2 := &mockLight{emission: NewVec3(2, 2, 2), pdf: 0.3}
	multiLights := []Light{light, light2}

	pdf = CalculateLightPDF(multiLights, point, Vec3{Y: 1}, direction)
	expectedTotal := (light.pdf + light2.pdf) / float64(len(multiLights))
	if math.Abs(pdf-expectedTotal) > 1e-9 {
		t.Errorf("total PDF incorrect: got %f, expected %f", pdf, expectedTotal)
	}
}

func TestPowerHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		nf       int
		fPdf     float64
		ng       int
		gPdf     float64
		expected float64
	}{
		{"Equal PDFs", 1, 0.5, 1, 0.5, 0.5},
		{"First PDF zero", 1, 0.0, 1, 0.5, 0.0},
		{"Second PDF zero", 1, 0.5, 1, 0.0, 1.0},
		{"First PDF higher", 1, 0.8, 1, 0.2, 0.941176},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PowerHeuristic(tt.nf, tt.fPdf, tt.ng, tt.gPdf)
			if math.Abs(result-tt.expected) > 1e-5 {
				t.Errorf("PowerHeuristic: got %f, expected %f", result, tt.expected)
			}
		})
	}
}

func TestBalanceHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		nf       int
		fPdf     float64
		ng       int
		gPdf     float64
		expected float64
	}{
		{"Equal PDFs", 1, 0.5, 1, 0.5, 0.5},
		{"First PDF zero", 1, 0.0, 1, 0.5, 0.0},
		{"Second PDF zero", 1, 0.5, 1, 0.0, 1.0},
		{"First PDF higher", 1, 0.8, 1, 0.2, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BalanceHeuristic(tt.nf, tt.fPdf, tt.ng, tt.gPdf)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("BalanceHeuristic: got %f, expected %f", result, tt.expected)
			}
		})
	}
}
