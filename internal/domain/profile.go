package domain

const (
	DefaultMergeToleranceMin = 20
	MinMergeToleranceMin     = 15
	MaxMergeToleranceMin     = 60
)

// StudyProfile holds the student's scheduling preferences.
type StudyProfile struct {
	UserID              string
	PlanID              string
	Level               string
	SmartMergeTolerance int
	Routine             Routine
}

// EffectiveTolerance returns the smart-merge tolerance clamped to the
// allowed 15-60 minute range, defaulting when unset.
func (p *StudyProfile) EffectiveTolerance() int {
	t := p.SmartMergeTolerance
	if t == 0 {
		return DefaultMergeToleranceMin
	}
	if t < MinMergeToleranceMin {
		return MinMergeToleranceMin
	}
	if t > MaxMergeToleranceMin {
		return MaxMergeToleranceMin
	}
	return t
}
