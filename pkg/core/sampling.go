package core

import (
	"math"
)

// PowerHeuristic implements the power heuristic for multiple importance sampling
// This balances between two sampling strategies (typically light sampling vs material sampling)
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	if fPdf == 0 {
		return 0
	}

	f := float64(nf) * fPdf
	g := float64(ng) * gPdf

	// Power heuristic with β = 2 (squared)
	return (f * f) / (f*f + g*g)
}

// BalanceHeuristic implements the balance heuristic for multiple importance sampling
func BalanceHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	if fPdf == 0 {
		return 0
	}

	f := float64(nf) * fPdf
	g := float64(ng) * gPdf

	return f / (f + g)
}

// CombinePDFs combines light and material PDFs using multiple importance sampling
// Returns the MIS weight for the light sample
func CombinePDFs(lightPdf, materialPdf float64, usePowerHeuristic bool) float64 {
	if lightPdf == 0 {
		return 0
	}

	if usePowerHeuristic {
		return PowerHeuristic(1, lightPdf, 1, materialPdf)
	} else {
		return BalanceHeuristic(1, lightPdf, 1, materialPdf)
	}
}

// SphereUniformPDF returns the PDF for uniform sampling on a sphere
func SphereUniformPDF(radius float64) float64 {
	return 1.0 / (4.0 * math.Pi * radius * radius)
}

// SphereConePDF returns the PDF for sampling a sphere from a point using cone sampling
func SphereConePDF(distance, radius float64) float64 {
	if distance <= radius {
		// Point is inside sphere, use uniform sampling
		return SphereUniformPDF(radius)
	}

	sinThetaMax := radius / distance
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))

	return 1.0 / (2.0 * math.Pi * (1.0 - cosThetaMax))
}

// CalculateLightPDF calculates the combined PDF for a given direction toward all lights,
// weighted by uniform light-selection probability.
func CalculateLightPDF(lights []Light, point Vec3, normal Vec3, direction Vec3) float64 {
	if len(lights) == 0 {
		return 0.0
	}

	totalPDF := 0.0
	for _, light := range lights {
		// Weight by light selection probability (uniform selection)
		totalPDF += light.PDF(point, normal, direction) / float64(len(lights))
	}

	return totalPDF
}

// SampleLight selects a light uniformly and samples it for direct lighting.
// Returns the sample, the index of the chosen light, and whether any light exists.
func SampleLight(lights []Light, point Vec3, normal Vec3, sampler Sampler) (LightSample, int, bool) {
	if len(lights) == 0 {
		return LightSample{}, -1, false
	}

	idx := int(sampler.Get1D() * float64(len(lights)))
	if idx >= len(lights) {
		idx = len(lights) - 1
	}

	sample := lights[idx].Sample(point, normal, sampler.Get2D())
	sample.PDF *= 1.0 / float64(len(lights))

	return sample, idx, true
}
