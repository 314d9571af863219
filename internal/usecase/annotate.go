package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/catsec/phoneinfo/internal/domain"
)

// Annotate scores a lookup result in place, adding the derived keys
// {provider}.translated, {provider}.matching, {provider}.risk_tier and
// {provider}.score_explanation to its flat field map. Results whose primary
// name field carries an error or the NOT IN CACHE sentinel are left
// untouched.
func (e *ScoreEngine) Annotate(ctx context.Context, p domain.Provider, res *domain.CanonicalResult) {
	primary := res.Fields[p.PrimaryNameKey()]
	if primary == domain.NotInCache || strings.HasPrefix(primary, "ERROR:") {
		return
	}

	keys := p.NameKeys()
	var first, last, common string
	if keys.First != "" {
		first = CleanApostrophes(res.Fields[keys.First])
		res.Fields[keys.First] = first
	}
	if keys.Last != "" {
		last = CleanApostrophes(res.Fields[keys.Last])
		res.Fields[keys.Last] = last
	}
	if keys.Common != "" {
		common = CleanApostrophes(res.Fields[keys.Common])
		res.Fields[keys.Common] = common
	}

	translated := e.TranslatedForms(common, first+" "+last)
	res.Fields[p.ID()+".translated"] = strings.Join(translated, ", ")

	sr := e.Score(ctx, res.ClaimedName, first, last, common, p.ID())
	res.Fields[p.ID()+".matching"] = strconv.Itoa(sr.FinalScore)
	res.Fields[p.ID()+".risk_tier"] = sr.RiskTier
	res.Fields[p.ID()+".score_explanation"] = sr.Explanation
}
