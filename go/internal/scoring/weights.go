package scoring

// Weights are the point values awarded per scoring contribution. They are
// deployment configuration rather than constants so challenge formats with
// different scoring rules don't require a code change.
type Weights struct {
	Goal         float64 `yaml:"goal" json:"goal"`
	FirstAssist  float64 `yaml:"first_assist" json:"first_assist"`
	SecondAssist float64 `yaml:"second_assist" json:"second_assist"`
}

// DefaultWeights returns the standard game format: a goal is worth a full
// point, either assist half a point.
func DefaultWeights() Weights {
	return Weights{
		Goal:         1.0,
		FirstAssist:  0.5,
		SecondAssist: 0.5,
	}
}
