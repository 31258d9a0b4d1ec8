package analytics

import (
	"sort"
	"strings"
)

// SkillVocabulary holds the cognitive-skill substrings that turn a free-form
// question tag into a skill tag. Every other tag is a topic tag. The match is
// case-insensitive and substring-based, so "Analytical-Reasoning" still
// counts as a skill.
var SkillVocabulary = []string{
	"analytical",
	"problem-solving",
	"critical-thinking",
	"memorization",
	"application",
}

// weakThreshold is the competency bar: tags averaging strictly below it are
// reported as weak areas.
const weakThreshold = 70.0

// IsSkillTag reports whether a tag is a cognitive-skill tag.
func IsSkillTag(tag string) bool {
	lower := strings.ToLower(tag)
	for _, skill := range SkillVocabulary {
		if strings.Contains(lower, skill) {
			return true
		}
	}
	return false
}

// ClassifyWeakAreas flags every skill and topic whose mean score is below
// the competency threshold. Pure function; the returned lists are sorted.
func ClassifyWeakAreas(skillAverages, topicAverages map[string]float64) WeakAreas {
	return WeakAreas{
		Skills: belowThreshold(skillAverages),
		Topics: belowThreshold(topicAverages),
	}
}

func belowThreshold(averages map[string]float64) []string {
	weak := make([]string, 0)
	for tag, avg := range averages {
		if avg < weakThreshold {
			weak = append(weak, tag)
		}
	}
	sort.Strings(weak)
	return weak
}
