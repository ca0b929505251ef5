package parameter

// Initial condition generation
const (
	// Bodies is the default number of orbiting planets
	Bodies = 500

	// Seed is the default generator seed
	Seed = 1

	PlanetRadiusMin  = 0.5
	PlanetRadiusMax  = 3.5
	PlanetDensityMin = 0.5
	PlanetDensityMax = 2.0
	OrbitRadiusMin   = 100.0
	OrbitRadiusMax   = 1000.0

	SunRadius  = 30.0
	SunDensity = 5.0

	// DiskSpeedMax bounds random velocity magnitude for the disk distribution
	DiskSpeedMax = 5.0
)

// ScenarioDir is where scenarios are saved by default
const ScenarioDir = "scenarios"

// ScenarioVersion is the current scenario file schema version
const ScenarioVersion = 1

// Interactive spawn
const (
	SpawnRadius  = 2.0
	SpawnDensity = 1.0
)
