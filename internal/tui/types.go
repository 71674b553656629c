package tui

type stage int

const (
	stageGenerating stage = iota
	stageDisplay
	stageFailed
)

const heroTagline = "Turn recorded browser work into reusable task docs."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
)
