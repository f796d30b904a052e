package evaluation

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/veracitylab/veracity/internal/documents"
	"github.com/veracitylab/veracity/internal/requirements"
)

// descriptionMatch is the sentinel keyword recorded when a requirement has
// no keywords and matching fell back to its description terms.
const descriptionMatch = "description_match"

var termRegex = regexp.MustCompile(`\b[a-z]{3,}\b`)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {},
	"that": {}, "this": {}, "from": {}, "have": {}, "are": {},
}

// KeywordJudge evaluates a requirement by case-insensitive substring
// matching of its keywords against document content. It never fails, which
// makes it the fallback when a delegated judge errors or times out.
type KeywordJudge struct {
	// PartialRatio is the minimum matched-keyword ratio that counts as
	// partial compliance.
	PartialRatio float64
}

// Evaluate implements Judge.
func (k KeywordJudge) Evaluate(_ context.Context, doc documents.Document, req requirements.Requirement) (*Judgement, error) {
	content := strings.ToLower(doc.Content)

	j := &Judgement{
		DocumentID:    doc.ID(),
		DocumentType:  doc.Type,
		RequirementID: req.ID,
		Method:        MethodKeyword,
		Timestamp:     time.Now(),
	}

	if len(req.Keywords) == 0 {
		k.evaluateDescription(j, content, req)
	} else {
		k.evaluateKeywords(j, content, req)
	}

	// Prohibited requirements invert polarity: finding the keywords is the
	// violation.
	if req.Type == requirements.TypeProhibited {
		if len(j.MatchedKeywords) > 0 {
			j.Level = NonCompliant
			j.Confidence = 0.8
			j.Justification = fmt.Sprintf("Found prohibited elements: %s", strings.Join(j.MatchedKeywords, ", "))
		} else {
			j.Level = FullyCompliant
			j.Confidence = 0.7
			j.Justification = "No prohibited elements found."
		}
	}

	return j, nil
}

func (k KeywordJudge) evaluateKeywords(j *Judgement, content string, req requirements.Requirement) {
	var matched, missing []string
	for _, kw := range req.Keywords {
		if strings.Contains(content, strings.ToLower(kw)) {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	j.MatchedKeywords = matched
	j.MissingKeywords = missing

	total := len(req.Keywords)
	ratio := float64(len(matched)) / float64(total)

	switch {
	case len(matched) == total:
		j.Level = FullyCompliant
		j.Confidence = 0.85
		j.Justification = fmt.Sprintf("All %d required keywords found in document.", total)
	case len(matched) > 0 && ratio >= k.PartialRatio:
		j.Level = PartiallyCompliant
		j.Confidence = 0.7 * ratio
		j.Justification = fmt.Sprintf("Found %d of %d required keywords (%.0f%%).", len(matched), total, ratio*100)
	case len(matched) > 0:
		j.Level = NonCompliant
		j.Confidence = 0.6 * ratio
		j.Justification = fmt.Sprintf("Missing majority of required keywords. Only found %d of %d.", len(matched), total)
	default:
		j.Level = NonCompliant
		j.Confidence = 0.6
		j.Justification = "No relevant keywords found in document content."
	}
}

// evaluateDescription handles requirements that specify no keywords by
// searching for standalone terms from the description.
func (k KeywordJudge) evaluateDescription(j *Judgement, content string, req requirements.Requirement) {
	for _, term := range descriptionTerms(req.Description) {
		if strings.Contains(content, term) {
			j.Level = FullyCompliant
			j.Confidence = 0.75
			j.Justification = "Requirement description terms found in document."
			j.MatchedKeywords = []string{descriptionMatch}
			return
		}
	}

	j.Level = NonCompliant
	j.Confidence = 0.6
	j.Justification = "No requirement description terms found in document."
}

func descriptionTerms(description string) []string {
	all := termRegex.FindAllString(strings.ToLower(description), -1)
	terms := make([]string, 0, len(all))
	for _, t := range all {
		if _, ok := stopWords[t]; !ok {
			terms = append(terms, t)
		}
	}
	return terms
}
