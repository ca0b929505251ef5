package vmath

import "math"

const fourThirdsPi = 4.0 / 3.0 * math.Pi

// SphereVolume returns 4/3·π·r³
func SphereVolume(r float64) float64 {
	return fourThirdsPi * r * r * r
}

// SphereRadius inverts SphereVolume
func SphereRadius(volume float64) float64 {
	if volume <= 0 {
		return 0
	}
	return math.Cbrt(volume / fourThirdsPi)
}

// MassFromRadius returns mass of a uniform sphere
func MassFromRadius(r, density float64) float64 {
	return density * SphereVolume(r)
}

// RadiusFromMass returns radius of a uniform sphere of given mass and density
func RadiusFromMass(mass, density float64) float64 {
	if density <= 0 {
		return 0
	}
	return SphereRadius(mass / density)
}
