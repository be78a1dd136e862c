package intake

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/versemed/intake/internal/domain/referral"
)

// Heuristic is a keyword-based extractor for deployments running without a
// GEMINI_API_KEY. It is chosen once at wiring time; a failing model call is
// never silently rerouted here.
type Heuristic struct{}

func NewHeuristic() *Heuristic { return &Heuristic{} }

const heuristicNote = "heuristic extraction - set GEMINI_API_KEY for model parsing"

var (
	statRe   = regexp.MustCompile(`\bstat\b`)
	urgentRe = regexp.MustCompile(`\burgent\b`)
)

// carriers maps detection keywords to canonical payer names, checked in
// order.
var carriers = []struct {
	keywords []string
	name     string
}{
	{[]string{"medicare"}, "Medicare"},
	{[]string{"medicaid"}, "Medicaid"},
	{[]string{"bcbs", "blue cross"}, "Blue Cross Blue Shield"},
	{[]string{"aetna"}, "Aetna"},
	{[]string{"united", "uhc"}, "UnitedHealthcare"},
	{[]string{"cigna"}, "Cigna"},
}

func (Heuristic) Extract(_ context.Context, text string) (referral.ExtractedData, string, error) {
	lower := strings.ToLower(text)

	data := referral.ExtractedData{
		ICDCodes:          referral.StringList{},
		HCPCSCodes:        referral.StringList{},
		SuppliesRequested: referral.StringList{"see original referral"},
	}

	for _, line := range strings.Split(text, "\n") {
		ll := strings.ToLower(line)
		if strings.Contains(ll, "patient:") || strings.Contains(ll, "pt:") || strings.Contains(ll, "name:") {
			if _, after, ok := strings.Cut(line, ":"); ok && strings.TrimSpace(after) != "" {
				data.PatientName = titleCase(strings.TrimSpace(after))
				break
			}
		}
	}

outer:
	for _, c := range carriers {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				data.InsuranceName = c.name
				break outer
			}
		}
	}

	switch {
	case statRe.MatchString(lower):
		data.Urgency = referral.UrgencyStat
	case urgentRe.MatchString(lower):
		data.Urgency = referral.UrgencyUrgent
	}

	return data, heuristicNote, nil
}

func titleCase(s string) string {
	prev := ' '
	return strings.Map(func(r rune) rune {
		if prev == ' ' || prev == '-' {
			prev = r
			return unicode.ToUpper(r)
		}
		prev = r
		return unicode.ToLower(r)
	}, s)
}
