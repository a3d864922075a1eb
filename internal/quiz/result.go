package quiz

type Tier string

const (
	TierExcellent Tier = "excellent"
	TierNotBad    Tier = "not_bad"
	TierMeh       Tier = "meh"
	TierSad       Tier = "sad"
	TierCry       Tier = "cry"
)

// ResultTier оценка счёта партии из 10 вопросов.
func ResultTier(score int) Tier {
	s := score
	switch {
	case s >= 8:
		return TierExcellent
	case s >= 6:
		return TierNotBad
	case s >= 4:
		return TierMeh
	case s >= 2:
		return TierSad
	default:
		return TierCry
	}
}

func (t Tier) Emoji() string {
	switch t {
	case TierExcellent:
		return "🏆"
	case TierNotBad:
		return "😎"
	case TierMeh:
		return "😐"
	case TierSad:
		return "😟"
	default:
		return "😭"
	}
}
