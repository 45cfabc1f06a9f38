package matching

import "strings"

// skillSet is a set of normalized skill tokens that remembers first-appearance order.
type skillSet struct {
	order []string
	index map[string]struct{}
}

// parseSkills splits a comma-separated list into trimmed, lowercased, non-empty tokens.
func parseSkills(raw string) skillSet {
	set := skillSet{index: make(map[string]struct{})}
	for _, part := range strings.Split(raw, ",") {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		if _, ok := set.index[token]; ok {
			continue
		}
		set.index[token] = struct{}{}
		set.order = append(set.order, token)
	}
	return set
}

func (s skillSet) has(token string) bool {
	_, ok := s.index[token]
	return ok
}

func (s skillSet) len() int { return len(s.order) }

// intersect returns the tokens of s that other also contains, in s order.
func (s skillSet) intersect(other skillSet) []string {
	out := make([]string, 0)
	for _, token := range s.order {
		if other.has(token) {
			out = append(out, token)
		}
	}
	return out
}

// difference returns the tokens of s that other lacks, in s order.
func (s skillSet) difference(other skillSet) []string {
	out := make([]string, 0)
	for _, token := range s.order {
		if !other.has(token) {
			out = append(out, token)
		}
	}
	return out
}

type skillMatch struct {
	exact   []string
	approx  []string
	missing []string
	ratio   float64
}

// matchSkills computes exact overlap and, only when it is empty, approximate overlap.
func (s *Scorer) matchSkills(candidate, job skillSet) skillMatch {
	m := skillMatch{
		exact:   job.intersect(candidate),
		approx:  make([]string, 0),
		missing: job.difference(candidate),
	}

	kind := s.comparator.Kind()
	if len(m.exact) == 0 && candidate.len() > 0 {
		threshold := s.cfg.threshold(kind)
		for _, js := range job.order {
			for _, cs := range candidate.order {
				if s.comparator.Similarity(js, cs) > threshold {
					m.approx = append(m.approx, js)
					break
				}
			}
		}
	}

	credited := float64(len(m.exact)) + float64(len(m.approx))*s.cfg.credit(kind)
	m.ratio = credited / float64(max(job.len(), 1))

	return m
}

// CorpusTexts lists every distinct skill token and trimmed title across the records, in
// first-appearance order. A semantic comparator must have vectors for these before scoring.
func CorpusTexts(candidates []CandidateProfile, jobs []JobPosting) []string {
	seen := make(map[string]struct{})
	texts := make([]string, 0)
	add := func(text string) {
		if text == "" {
			return
		}
		if _, ok := seen[text]; ok {
			return
		}
		seen[text] = struct{}{}
		texts = append(texts, text)
	}

	for _, c := range candidates {
		for _, token := range parseSkills(c.Skills).order {
			add(token)
		}
		add(strings.TrimSpace(c.CurrentTitle))
	}
	for _, j := range jobs {
		for _, token := range parseSkills(j.RequiredSkills).order {
			add(token)
		}
		add(strings.TrimSpace(j.JobTitle))
	}

	return texts
}
