package parameter

// Gravity defaults
// G is scaled for visual dynamics, not SI units
const (
	// GravitationalConstant scales every pairwise attraction
	GravitationalConstant = 3.5

	// Softening is added in quadrature to pair separation
	// Bounds acceleration on coincident bodies to G*m/Softening²
	Softening = 0.5

	// ParamGMin and ParamGMax bound the control surface slider range
	ParamGMin = 0.5
	ParamGMax = 100.0
)

// Integration defaults
const (
	// TimeStep is the fixed simulation step in simulation seconds (1/120)
	TimeStep = 1.0 / 120.0

	// MaxTimeStep clamps frame-derived variable steps after stalls or pauses
	MaxTimeStep = 1.0 / 30.0

	// TimeStepMin and TimeStepMax bound the control surface step range
	TimeStepMin = 1.0 / 1000.0
	TimeStepMax = 1.0
)

// Collision defaults
const (
	// CollisionMode is one of "merge", "bounce", "none"
	CollisionMode = "merge"

	// Restitution is the bounce coefficient (1 = perfectly elastic)
	Restitution = 1.0
)

// DefaultDensity is used when a spawned body carries no density
const DefaultDensity = 1.0

// Control surface steps
const (
	// ParamGStep is the additive change per G key press
	ParamGStep = 0.5

	// TimeStepFactor is the multiplicative change per time step key press
	TimeStepFactor = 1.25
)
