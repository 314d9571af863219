package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/catsec/phoneinfo/config"
	"github.com/catsec/phoneinfo/internal/domain"
	"github.com/catsec/phoneinfo/internal/translit"
)

// surnameSkipTokens are tokens ignored when pairing surname words. They are
// separators and legal suffixes, not name material.
var surnameSkipTokens = map[string]bool{
	"-":      true,
	"–":      true,
	"—":      true,
	"בע\"מ":  true,
	"בע״מ":   true,
	"בעמ":    true,
	"ltd":    true,
}

// ScoreEngine scores a claimed name against provider name fields on a 0-100
// scale and maps the result to a risk tier. All comparison happens on the
// Hebrew forms of both sides.
type ScoreEngine struct {
	cfg        config.ScoringConfig
	normalizer *translit.Normalizer
	nicknames  domain.NicknameStore
}

func NewScoreEngine(cfg config.ScoringConfig, normalizer *translit.Normalizer, nicknames domain.NicknameStore) *ScoreEngine {
	return &ScoreEngine{cfg: cfg, normalizer: normalizer, nicknames: nicknames}
}

// Score compares a claimed name against one provider's name fields. The
// common name stands in for missing first/last fields: its first word acts
// as the first name and the remainder as the last name.
func (e *ScoreEngine) Score(ctx context.Context, claimed, apiFirst, apiLast, apiCommon, source string) domain.ScoreResult {
	claimed = CleanApostrophes(strings.TrimSpace(claimed))
	apiFirst = CleanApostrophes(strings.TrimSpace(apiFirst))
	apiLast = CleanApostrophes(strings.TrimSpace(apiLast))
	apiCommon = CleanApostrophes(strings.TrimSpace(apiCommon))

	bd := domain.Breakdown{
		ClaimedName:   claimed,
		Source:        source,
		APIFirst:      apiFirst,
		APILast:       apiLast,
		APICommonName: apiCommon,
	}

	if claimed == "" {
		bd.Reason = "no claimed name to verify"
		return e.finish(bd, 0, domain.MatchNoInput)
	}

	effFirst, effLast := apiFirst, apiLast
	if effFirst == "" || effLast == "" {
		cFirst, cLast := splitDisplayParts(apiCommon)
		if effFirst == "" {
			effFirst = cFirst
		}
		if effLast == "" {
			effLast = cLast
		}
	}
	if effFirst == "" && effLast == "" {
		bd.Reason = "provider returned no name data"
		return e.finish(bd, 0, domain.MatchNoData)
	}

	givenWords, claimedLast := splitClaimedName(claimed)
	if len(givenWords) == 0 {
		bd.Reason = "claimed name has no usable words"
		return e.finish(bd, 0, domain.MatchNoInput)
	}

	firstMatch := e.matchGivenName(ctx, givenWords, effFirst)

	var lastMatch domain.MatchResult
	if claimedLast == "" {
		lastMatch = domain.MatchResult{Type: domain.MatchNoInput, Details: "claimed name has only a given name"}
	} else {
		lastMatch = e.matchSurname(claimedLast, effLast)
	}

	firstWeight := e.cfg.Weights.FirstName
	lastWeight := e.cfg.Weights.LastName
	switch {
	case claimedLast == "" || effLast == "":
		// Without a surname on either side the given name carries the whole
		// score, and no surname penalty can apply.
		firstWeight, lastWeight = 1, 0
	case effFirst == "":
		firstWeight, lastWeight = 0, 1
	}

	bd.FirstName = component(firstMatch, firstWeight)
	bd.LastName = component(lastMatch, lastWeight)
	bd.BaseScore = bd.FirstName.Weighted + bd.LastName.Weighted

	if strongMatch(firstMatch.Type) && strongMatch(lastMatch.Type) {
		bd.Bonus = int(e.cfg.ExactBothBonus)
		bd.BonusReasons = append(bd.BonusReasons, "first and last name both matched with high confidence")
	}
	if claimedLast != "" && effFirst != "" && effLast != "" &&
		float64(firstMatch.Score) >= e.cfg.MatchScores.FuzzyHigh && lastMatch.Score == 0 {
		bd.Penalty = int(e.cfg.SurnameMissPenalty)
		bd.PenaltyReasons = append(bd.PenaltyReasons, "first name matched but last name did not")
	}

	final := clampScore(int(bd.BaseScore+0.5) + bd.Bonus - bd.Penalty)
	return domain.ScoreResult{
		FinalScore:  final,
		RiskTier:    e.riskTier(final),
		Breakdown:   bd,
		Explanation: e.explain(bd, final),
	}
}

// ScoreAll scores one claimed name against several provider results and
// combines them: the best single source wins, raised by an agreement bonus
// when a second source independently confirms the name.
func (e *ScoreEngine) ScoreAll(ctx context.Context, claimed string, results []*domain.CanonicalResult) domain.MultiScoreResult {
	multi := domain.MultiScoreResult{PerSource: make(map[string]domain.ScoreResult)}

	var bestSource string
	best := -1
	agreeing := 0
	for _, res := range results {
		first, last, common := nameFieldsOf(res)
		sr := e.Score(ctx, claimed, first, last, common, res.Provider)
		multi.PerSource[res.Provider] = sr
		if sr.FinalScore > best {
			best = sr.FinalScore
			bestSource = res.Provider
		}
		if float64(sr.FinalScore) >= riskTierMin(e.cfg.RiskTiers, "MEDIUM") {
			agreeing++
		}
	}
	if best < 0 {
		best = 0
	}

	if agreeing >= 2 {
		best = clampScore(best + int(e.cfg.AgreementBonus))
	}

	multi.FinalScore = best
	multi.BestSource = bestSource
	multi.RiskTier = e.riskTier(best)
	return multi
}

// splitClaimedName splits the claimed name into given-name words and the
// surname word, dropping separator and legal-suffix tokens first. A single
// remaining word is a given name with no surname.
func splitClaimedName(claimed string) (givenWords []string, last string) {
	var words []string
	for _, w := range strings.Fields(claimed) {
		if surnameSkipTokens[strings.ToLower(w)] {
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return nil, ""
	}
	if len(words) == 1 {
		return words, ""
	}
	return words[:len(words)-1], words[len(words)-1]
}

// matchGivenName matches the claimed given-name words against the
// provider's first name, keeping the best pair. Each pair resolves in tier
// order: raw equality, then nickname-class overlap, then transliteration
// and fuzzy comparison.
func (e *ScoreEngine) matchGivenName(ctx context.Context, givenWords []string, apiFirst string) domain.MatchResult {
	if apiFirst == "" {
		return domain.MatchResult{Type: domain.MatchNoData, Details: "provider has no first name"}
	}
	apiWords := strings.Fields(apiFirst)

	best := domain.MatchResult{Type: domain.MatchNone, Details: "no match"}
	for _, cw := range givenWords {
		for _, aw := range apiWords {
			m := e.matchWord(cw, aw)
			if m.Type != domain.MatchExact {
				if nick := e.matchNickname(ctx, cw, aw); nick.Type == domain.MatchNickname {
					m = nick
				}
			}
			if m.Score > best.Score {
				best = m
			}
		}
	}
	return best
}

// matchSurname matches the claimed surname against the provider's last-name
// words, skipping separator and legal-suffix tokens.
func (e *ScoreEngine) matchSurname(claimedLast, apiLast string) domain.MatchResult {
	if apiLast == "" {
		return domain.MatchResult{Type: domain.MatchNoData, Details: "provider has no last name"}
	}

	best := domain.MatchResult{Type: domain.MatchNone, Details: "no match"}
	for _, aw := range strings.Fields(apiLast) {
		if surnameSkipTokens[strings.ToLower(aw)] {
			continue
		}
		if m := e.matchWord(claimedLast, aw); m.Score > best.Score {
			best = m
		}
	}
	return best
}

// matchWord compares one claimed word to one provider word on their Hebrew
// forms. Exact raw equality outranks equality after transliteration, which
// outranks fuzzy similarity.
func (e *ScoreEngine) matchWord(claimed, api string) domain.MatchResult {
	cLower := strings.ToLower(claimed)
	aLower := strings.ToLower(api)
	if cLower == aLower {
		return domain.MatchResult{
			Score:   int(e.cfg.MatchScores.Exact),
			Type:    domain.MatchExact,
			Details: fmt.Sprintf("%q equals %q", claimed, api),
		}
	}

	cHeb := e.normalizer.Transliterate(claimed)
	aHeb := e.normalizer.Transliterate(api)
	transliterated := cHeb != claimed || aHeb != api

	if cHeb != "" && cHeb == aHeb {
		if transliterated {
			return domain.MatchResult{
				Score:   int(e.cfg.MatchScores.TransliterationExact),
				Type:    domain.MatchTransliterationExact,
				Details: fmt.Sprintf("%q and %q transliterate to the same Hebrew form %q", claimed, api, cHeb),
			}
		}
		return domain.MatchResult{
			Score:   int(e.cfg.MatchScores.Exact),
			Type:    domain.MatchExact,
			Details: fmt.Sprintf("%q equals %q", claimed, api),
		}
	}

	ratio := similarityRatio(cHeb, aHeb)
	switch {
	case ratio >= e.cfg.FuzzyThresholds.High:
		if transliterated {
			return domain.MatchResult{
				Score:   int(e.cfg.MatchScores.TransliterationFuzzyHigh),
				Type:    domain.MatchTransliterationFuzzyHigh,
				Details: fmt.Sprintf("%q and %q are %d%% similar after transliteration", claimed, api, ratio),
			}
		}
		return domain.MatchResult{
			Score:   int(e.cfg.MatchScores.FuzzyHigh),
			Type:    domain.MatchFuzzyHigh,
			Details: fmt.Sprintf("%q and %q are %d%% similar", claimed, api, ratio),
		}
	case ratio >= e.cfg.FuzzyThresholds.Medium:
		return domain.MatchResult{
			Score:   int(e.cfg.MatchScores.FuzzyMedium),
			Type:    domain.MatchFuzzyMedium,
			Details: fmt.Sprintf("%q and %q are %d%% similar", claimed, api, ratio),
		}
	case ratio >= e.cfg.FuzzyThresholds.Low:
		return domain.MatchResult{
			Score:   int(e.cfg.MatchScores.FuzzyLow),
			Type:    domain.MatchFuzzyLow,
			Details: fmt.Sprintf("%q and %q are %d%% similar", claimed, api, ratio),
		}
	}
	return domain.MatchResult{
		Type:    domain.MatchNone,
		Details: fmt.Sprintf("%q and %q share no similarity", claimed, api),
	}
}

// matchNickname checks whether the two Hebrew forms are distinct members of
// one nickname equivalence class. Identical forms are not a nickname match;
// they belong to the equality tiers. Store errors degrade to no match.
func (e *ScoreEngine) matchNickname(ctx context.Context, claimed, api string) domain.MatchResult {
	none := domain.MatchResult{Type: domain.MatchNone, Details: "no match"}
	if e.nicknames == nil {
		return none
	}

	cHeb := e.normalizer.Transliterate(claimed)
	aHeb := e.normalizer.Transliterate(api)
	if cHeb == "" || aHeb == "" || cHeb == aHeb {
		return none
	}

	variants, err := e.nicknames.Expand(ctx, cHeb)
	if err != nil {
		return none
	}
	for _, v := range variants {
		if v == aHeb {
			return domain.MatchResult{
				Score:   int(e.cfg.MatchScores.Nickname),
				Type:    domain.MatchNickname,
				Details: fmt.Sprintf("%q is a known nickname of %q", claimed, api),
			}
		}
	}
	return none
}

// TranslatedForms returns the dedup-ordered Hebrew transliterations of the
// given name values, skipping empties and forms already Hebrew-identical to
// a previous one.
func (e *ScoreEngine) TranslatedForms(values ...string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		var parts []string
		for _, w := range strings.Fields(v) {
			parts = append(parts, e.normalizer.Transliterate(w))
		}
		heb := strings.Join(parts, " ")
		if heb == "" || seen[heb] {
			continue
		}
		seen[heb] = true
		out = append(out, heb)
	}
	return out
}

func (e *ScoreEngine) riskTier(score int) string {
	for _, t := range e.cfg.RiskTiers {
		if float64(score) >= t.Min {
			return t.Label
		}
	}
	if len(e.cfg.RiskTiers) > 0 {
		return e.cfg.RiskTiers[len(e.cfg.RiskTiers)-1].Label
	}
	return "VERY LOW"
}

// finish closes out a degenerate score where no comparison ran.
func (e *ScoreEngine) finish(bd domain.Breakdown, score int, mt domain.MatchType) domain.ScoreResult {
	bd.FirstName = domain.ComponentScore{Type: mt, Details: bd.Reason}
	bd.LastName = domain.ComponentScore{Type: mt, Details: bd.Reason}
	return domain.ScoreResult{
		FinalScore:  score,
		RiskTier:    e.riskTier(score),
		Breakdown:   bd,
		Explanation: bd.Reason,
	}
}

// explain renders the breakdown as one human-readable audit sentence.
func (e *ScoreEngine) explain(bd domain.Breakdown, final int) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("first name: %s (%d, weight %.0f%%)",
		bd.FirstName.Details, bd.FirstName.Score, bd.FirstName.Weight*100))
	parts = append(parts, fmt.Sprintf("last name: %s (%d, weight %.0f%%)",
		bd.LastName.Details, bd.LastName.Score, bd.LastName.Weight*100))
	for _, r := range bd.BonusReasons {
		parts = append(parts, fmt.Sprintf("bonus +%d: %s", bd.Bonus, r))
	}
	for _, r := range bd.PenaltyReasons {
		parts = append(parts, fmt.Sprintf("penalty -%d: %s", bd.Penalty, r))
	}
	return fmt.Sprintf("score %d from %s. %s", final, bd.Source, strings.Join(parts, "; "))
}

// strongMatch reports whether a match type is confident enough to count
// toward the both-names bonus.
func strongMatch(t domain.MatchType) bool {
	switch t {
	case domain.MatchExact, domain.MatchNickname, domain.MatchTransliterationExact:
		return true
	}
	return false
}

func component(m domain.MatchResult, weight float64) domain.ComponentScore {
	return domain.ComponentScore{
		Score:    m.Score,
		Type:     m.Type,
		Weight:   weight,
		Weighted: float64(m.Score) * weight,
		Details:  m.Details,
	}
}

// similarityRatio is the percentage similarity of two strings by rune-level
// edit distance. Two empty strings count as dissimilar, not identical.
func similarityRatio(a, b string) int {
	aRunes, bRunes := []rune(a), []rune(b)
	maxLen := len(aRunes)
	if len(bRunes) > maxLen {
		maxLen = len(bRunes)
	}
	if maxLen == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return (maxLen - dist) * 100 / maxLen
}

// riskTierMin returns the minimum score of the named tier, or 101 when the
// tier is not configured so nothing qualifies.
func riskTierMin(tiers []config.RiskTier, label string) float64 {
	for _, t := range tiers {
		if t.Label == label {
			return t.Min
		}
	}
	return 101
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// splitDisplayParts splits a combined display name into first word and
// remainder.
func splitDisplayParts(name string) (first, last string) {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "", ""
	}
	if len(words) == 1 {
		return words[0], ""
	}
	return words[0], strings.Join(words[1:], " ")
}

func nameFieldsOf(res *domain.CanonicalResult) (first, last, common string) {
	keys := resKeys(res)
	if keys.First != "" {
		first = res.Fields[keys.First]
	}
	if keys.Last != "" {
		last = res.Fields[keys.Last]
	}
	if keys.Common != "" {
		common = res.Fields[keys.Common]
	}
	return first, last, common
}

// resKeys derives the name keys from the provider prefix of a result. The
// keys follow the fixed "{provider}." convention.
func resKeys(res *domain.CanonicalResult) domain.NameKeys {
	keys := domain.NameKeys{
		First: res.Provider + ".first_name",
		Last:  res.Provider + ".last_name",
	}
	if _, ok := res.Fields[res.Provider+".common_name"]; ok {
		keys.Common = res.Provider + ".common_name"
	}
	return keys
}

// CleanApostrophes removes apostrophe variants so names written with or
// without them compare equal across sources. The Hebrew geresh stays: the
// transliteration tables emit it and removing it would desync those forms.
func CleanApostrophes(s string) string {
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
