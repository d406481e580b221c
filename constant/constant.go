package constant

type LessonStatus string

const (
	LessonStatusGenerating LessonStatus = "generating"
	LessonStatusGenerated  LessonStatus = "generated"
	LessonStatusFailed     LessonStatus = "failed"
)

// IsTerminal reports whether no further transitions are allowed from s.
func (s LessonStatus) IsTerminal() bool {
	return s == LessonStatusGenerated || s == LessonStatusFailed
}

func (s LessonStatus) String() string {
	return string(s)
}

type ModelTier string

const (
	ModelTierSmart ModelTier = "smart"
	ModelTierFast  ModelTier = "fast"
)

// ParseModelTier maps the request's optional model field to a tier. Empty means smart.
func ParseModelTier(raw string) (ModelTier, bool) {
	switch ModelTier(raw) {
	case "", ModelTierSmart:
		return ModelTierSmart, true
	case ModelTierFast:
		return ModelTierFast, true
	default:
		return "", false
	}
}

func (t ModelTier) String() string {
	return string(t)
}

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}
