package component

// SceneRequest is a one-shot request to the game loop to load a scene.
// Reload with an empty Name reloads the current scene.
type SceneRequest struct {
	Name   string
	Reload bool
}

var SceneRequestComponent = NewComponent[SceneRequest]()

// SceneTimer requests Target after Remaining seconds. An empty Target
// returns to the previous scene.
type SceneTimer struct {
	Remaining float64
	Target    string
	Fired     bool
}

var SceneTimerComponent = NewComponent[SceneTimer]()

// FallChecker reloads the scene once the entity drops below Threshold.
type FallChecker struct {
	Threshold float64
	Triggered bool
}

var FallCheckerComponent = NewComponent[FallChecker]()

// ScenePortal is a trigger volume that loads Target when the player enters
// it.
type ScenePortal struct {
	Target string
	Used   bool
}

var ScenePortalComponent = NewComponent[ScenePortal]()
