package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"archetype-quiz-service/internal/domain"
)

// topArchetypesForDisplay bounds how many leading archetypes steer dynamic matrix options.
const topArchetypesForDisplay = 6

// ResultView joins a result with the display metadata of its archetype.
type ResultView struct {
	domain.Result
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Traits      []string `json:"traits"`
	Examples    []string `json:"examples"`
	Color       string   `json:"color"`
}

// Views resolves display metadata for results. Results naming an archetype
// missing from the catalogue are dropped.
func Views(def domain.Definition, results []domain.Result) []ResultView {
	views := make([]ResultView, 0, len(results))
	for _, r := range results {
		a, ok := def.FindArchetype(r.Archetype)
		if !ok {
			continue
		}
		views = append(views, ResultView{
			Result:      r,
			Name:        a.Name,
			Description: a.Description,
			Traits:      a.Traits,
			Examples:    a.Examples,
			Color:       a.Color,
		})
	}
	return views
}

// ShareText renders results as a plain-text summary suitable for the clipboard.
func ShareText(def domain.Definition, results []domain.Result) string {
	views := Views(def, results)
	if len(views) == 0 {
		return "My brand archetype is still undetermined. Time to take the quiz again!"
	}

	var b strings.Builder
	b.WriteString("My Brand Archetype Results:\n")
	names := make([]string, 0, len(views))
	for _, v := range views {
		fmt.Fprintf(&b, "%s: %s (%d%%)\n", strengthLabel(v.Strength), v.Name, v.Percentage)
		names = append(names, v.Name)
	}
	fmt.Fprintf(&b, "\nBrand mix: %s", strings.Join(names, " + "))
	return b.String()
}

func strengthLabel(s domain.Strength) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// DisplayOptions picks the options shown for a dynamic matrix question.
// Options tagged with the respondent's leading archetypes so far come first,
// the rest follow in definition order, truncated to the display count.
func (s *QuizService) DisplayOptions(ctx context.Context, sessionID, questionID string) ([]domain.Option, error) {
	session, scorer, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	question, ok := scorer.Definition().FindQuestion(questionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, questionID)
	}
	if question.Type != domain.DynamicMatrix {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrTypeMismatch, questionID, question.Type)
	}

	raw := scorer.RawScores(session.answersSnapshot())
	leading := leadingArchetypes(scorer.Definition().Archetypes, raw, topArchetypesForDisplay)
	return orderOptions(question, leading), nil
}

func leadingArchetypes(catalogue []domain.Archetype, raw map[string]float64, n int) map[string]struct{} {
	ids := make([]string, 0, len(catalogue))
	for _, a := range catalogue {
		if raw[a.ID] > 0 {
			ids = append(ids, a.ID)
		}
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return raw[ids[i]] > raw[ids[j]]
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	leading := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		leading[id] = struct{}{}
	}
	return leading
}

func orderOptions(q domain.Question, leading map[string]struct{}) []domain.Option {
	relevant := make([]domain.Option, 0, len(q.Options))
	rest := make([]domain.Option, 0, len(q.Options))
	for _, opt := range q.Options {
		if _, ok := leading[opt.Archetype]; ok && opt.Archetype != "" {
			relevant = append(relevant, opt)
			continue
		}
		rest = append(rest, opt)
	}
	ordered := append(relevant, rest...)
	if q.DisplayCount > 0 && q.DisplayCount < len(ordered) {
		ordered = ordered[:q.DisplayCount]
	}
	return ordered
}
