package parameter

// Viewer camera configuration
const (
	// CameraZoom is the initial simulation units per terminal column
	CameraZoom = 20.0

	// CameraZoomStep is the multiplicative zoom factor per key press
	CameraZoomStep = 1.25

	// CameraPanCells is how many cells a pan key moves the camera
	CameraPanCells = 4

	// CellAspect compensates for terminal cells being roughly twice as tall as wide
	CellAspect = 2.0
)

// Trace configuration
const (
	// TraceEveryFrames samples body positions every N frames
	TraceEveryFrames = 5

	// TraceCapacity is the ring size of recorded trace points
	TraceCapacity = 4096
)
