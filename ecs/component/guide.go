package component

// GuideAgent steers Subject toward Target with a force while its policy
// says to guide. Episodes reset after success or MaxSteps.
type GuideAgent struct {
	Subject uint64
	Target  uint64

	Script string

	AssistPower    float64
	SuccessRadius  float64
	StepPenalty    float64
	AreaHalfExtent float64
	OriginX        float64
	OriginZ        float64
	MaxSteps       int
	Seed           int64

	Guiding bool
	Reward  float64
	Steps   int

	Episodes         int
	Successes        int
	CumulativeReward float64
	NeedsReset       bool
}

var GuideAgentComponent = NewComponent[GuideAgent]()
