package domain

// MatchType tags how a single name component matched, from strongest to
// weakest evidence.
type MatchType string

const (
	MatchExact                    MatchType = "exact"
	MatchNickname                 MatchType = "nickname"
	MatchTransliterationExact     MatchType = "transliteration_exact"
	MatchTransliterationFuzzyHigh MatchType = "transliteration_fuzzy_high"
	MatchFuzzyHigh                MatchType = "fuzzy_high"
	MatchFuzzyMedium              MatchType = "fuzzy_medium"
	MatchFuzzyLow                 MatchType = "fuzzy_low"
	MatchNone                     MatchType = "no_match"
	MatchNoInput                  MatchType = "no_input"
	MatchNoData                   MatchType = "no_api_data"
)

// MatchResult scores a single name-component comparison.
type MatchResult struct {
	Score   int       `json:"score"`
	Type    MatchType `json:"match_type"`
	Details string    `json:"details"`
}

// ComponentScore is one weighted component of a final score.
type ComponentScore struct {
	Score    int       `json:"score"`
	Type     MatchType `json:"match_type"`
	Weight   float64   `json:"weight"`
	Weighted float64   `json:"weighted_score"`
	Details  string    `json:"details"`
}

// Breakdown enumerates every contribution to a final score for audit
// display.
type Breakdown struct {
	ClaimedName    string         `json:"claimed_name"`
	Source         string         `json:"source"`
	APIFirst       string         `json:"api_first"`
	APILast        string         `json:"api_last"`
	APICommonName  string         `json:"api_common_name"`
	FirstName      ComponentScore `json:"first_name"`
	LastName       ComponentScore `json:"last_name"`
	BaseScore      float64        `json:"base_score"`
	Bonus          int            `json:"bonus"`
	BonusReasons   []string       `json:"bonus_reasons,omitempty"`
	Penalty        int            `json:"penalty"`
	PenaltyReasons []string       `json:"penalty_reasons,omitempty"`
	Reason         string         `json:"reason,omitempty"`
}

// ScoreResult is the full outcome of scoring one claimed name against one
// provider's name fields. It is transient: the engine never persists it.
type ScoreResult struct {
	FinalScore  int       `json:"final_score"`
	RiskTier    string    `json:"risk_tier"`
	Breakdown   Breakdown `json:"breakdown"`
	Explanation string    `json:"explanation"`
}

// MultiScoreResult combines scores from several providers: the best single
// score, optionally raised by an agreement bonus.
type MultiScoreResult struct {
	FinalScore int                    `json:"final_score"`
	RiskTier   string                 `json:"risk_tier"`
	BestSource string                 `json:"best_source"`
	PerSource  map[string]ScoreResult `json:"per_source"`
}
