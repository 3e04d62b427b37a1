// Package normalize holds the pure text-normalization and keyword
// heuristics applied to profile fields before classification and sync.
package normalize

import (
	"sort"
	"strings"

	"github.com/connoction/outreach-cli/internal/model"
)

// Clean trims leading/trailing whitespace. A value that trims to nothing
// becomes the empty string, which the rest of the pipeline treats as
// absent.
func Clean(value string) string {
	return strings.TrimSpace(value)
}

// CleanList applies Clean to every element, drops elements that become
// absent, and preserves the order of survivors. Returns nil when nothing
// survives.
func CleanList(values []string) []string {
	var out []string
	for _, v := range values {
		if c := Clean(v); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Heuristic role categories. These are deliberately coarser than the
// canonical taxonomy in model.ValidField; HeuristicField maps between
// the two so the vocabularies never mix in one field.
const (
	roleSWE      = "SWE"
	roleAISWE    = "AI SWE"
	rolePM       = "PM"
	roleMLE      = "MLE"
	roleResearch = "Research"
)

// DeriveField derives a coarse role category from a role string using
// ordered keyword groups; the first matching group wins. An absent role
// yields an absent category; a present role with no match defaults to
// Research.
func DeriveField(role string) string {
	if Clean(role) == "" {
		return ""
	}
	r := strings.ToLower(role)

	if containsAny(r, "software", "engineer", "swe", "developer") {
		if containsAny(r, "ml", "ai", "machine learning", "artificial intelligence") {
			return roleAISWE
		}
		return roleSWE
	}
	if containsAny(r, "product manager", "pm", "program manager", "product ") {
		return rolePM
	}
	if containsAny(r, "machine learning", "ml", "data science", "mle") {
		return roleMLE
	}
	if containsAny(r, "research", "phd", "scientist") {
		return roleResearch
	}
	return roleResearch
}

// HeuristicField maps DeriveField's coarse category into the canonical
// taxonomy. Used only as a fallback when the collaborator-based
// classifier produced nothing.
func HeuristicField(role string) string {
	switch DeriveField(role) {
	case roleSWE:
		return model.FieldPrefixIndustry + "SWE"
	case roleAISWE, roleMLE:
		return model.FieldPrefixIndustry + "AI/ML"
	case rolePM:
		return model.FieldPrefixIndustry + "PM"
	case roleResearch:
		return model.FieldPrefixResearch + "general"
	default:
		return ""
	}
}

// degreeRank lists degree keywords in priority order; a candidate's rank
// is the index of the earliest keyword it contains.
var degreeRank = []string{
	"phd", "doctor", "master", "msc", "ma", "bachelor", "bsc", "ba", "associate", "diploma",
}

// PickHighestDegree returns the candidate with the best (lowest) degree
// rank. Unranked candidates sort last; the stable sort keeps the
// first-listed candidate among equal ranks. Empty input yields "".
func PickHighestDegree(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	rank := func(d string) int {
		low := strings.ToLower(d)
		for i, key := range degreeRank {
			if strings.Contains(low, key) {
				return i
			}
		}
		return len(degreeRank)
	}
	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rank(sorted[i]) < rank(sorted[j])
	})
	return sorted[0]
}

// Profile applies normalization to every field of a profile: scalars
// through Clean, lists through CleanList, experience entries dropped
// unless both company and title survive. HighestDegree is backfilled
// from the school list when absent.
func Profile(p model.Profile) model.Profile {
	out := model.Profile{
		Name:           Clean(p.Name),
		Role:           Clean(p.Role),
		Headline:       Clean(p.Headline),
		Bio:            Clean(p.Bio),
		CurrentCompany: Clean(p.CurrentCompany),
		Companies:      CleanList(p.Companies),
		HighestDegree:  Clean(p.HighestDegree),
		Field:          Clean(p.Field),
		Schools:        CleanList(p.Schools),
		Location:       Clean(p.Location),
		LinkedInURL:    Clean(p.LinkedInURL),
		RawContent:     p.RawContent,
	}

	for _, exp := range p.Experience {
		company := Clean(exp.Company)
		title := Clean(exp.Title)
		if company == "" || title == "" {
			continue
		}
		out.Experience = append(out.Experience, model.ExperienceDetail{
			Company:     company,
			Title:       title,
			Description: Clean(exp.Description),
		})
	}

	// Ensure the current company appears in the company list.
	if out.CurrentCompany != "" && !containsString(out.Companies, out.CurrentCompany) {
		out.Companies = append([]string{out.CurrentCompany}, out.Companies...)
	}

	if out.HighestDegree == "" && len(out.Schools) > 0 {
		if hd := PickHighestDegree(out.Schools); hd != "" && rankIsKnown(hd) {
			out.HighestDegree = hd
		}
	}

	return out
}

// rankIsKnown reports whether a candidate actually contains a degree
// keyword; school names without one are not usable as a degree.
func rankIsKnown(candidate string) bool {
	low := strings.ToLower(candidate)
	for _, key := range degreeRank {
		if strings.Contains(low, key) {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
