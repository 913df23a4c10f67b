package edifact

import (
	"fmt"
	"sort"
	"strconv"
)

// Categories for findings that are not tied to a single segment tag.
const (
	// CategorySequence collects envelope findings: a message that does not
	// open with UNH or close with UNT.
	CategorySequence = "SEQUENCE"
	// CategoryGeneral collects findings about the input as a whole, such
	// as an exceeded size ceiling.
	CategoryGeneral = "GENERAL"
)

// ValidationErrors collects structural findings keyed by segment tag or by
// one of the non-segment categories. An empty map means the message is
// structurally valid.
type ValidationErrors map[string][]string

// Add records one finding under the given category.
func (v ValidationErrors) Add(category, problem string) {
	v[category] = append(v[category], problem)
}

// Empty reports whether no findings were recorded.
func (v ValidationErrors) Empty() bool {
	return len(v) == 0
}

// Categories returns the categories with findings, sorted for stable output.
func (v ValidationErrors) Categories() []string {
	categories := make([]string, 0, len(v))
	for category := range v {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// Flatten renders every finding as a "CATEGORY: problem" line, grouped by
// category in sorted order.
func (v ValidationErrors) Flatten() []string {
	lines := make([]string, 0, len(v))
	for _, category := range v.Categories() {
		for _, problem := range v[category] {
			lines = append(lines, category+": "+problem)
		}
	}
	return lines
}

// Validator checks raw message text against the ORDERS subset grammar. It
// reports every finding it can observe in one pass instead of stopping at
// the first, so a trading partner can fix a rejected transmission in one
// round.
type Validator struct {
	maxSize int
}

// NewValidator builds a validator with the configured size ceiling.
func NewValidator(opts ...Option) *Validator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Validator{maxSize: o.maxMessageSize}
}

// Validate checks raw message text and returns every structural finding.
// Input above the size ceiling is rejected with a single GENERAL finding
// and is never split into segments.
func (v *Validator) Validate(raw string) ValidationErrors {
	errs := ValidationErrors{}
	if len(raw) > v.maxSize {
		errs.Add(CategoryGeneral, fmt.Sprintf("input size %d bytes exceeds the configured maximum of %d bytes", len(raw), v.maxSize))
		return errs
	}
	v.check(splitSegments(raw), errs)
	return errs
}

// check records every finding for the given segment list. Each segment
// contributes at most one finding: a wrong element count is reported without
// also matching the layout pattern.
func (v *Validator) check(segments []string, errs ValidationErrors) {
	if len(segments) == 0 {
		errs.Add(CategorySequence, "message contains no segments")
		return
	}
	if tagOf(segments[0]) != TagUNH {
		errs.Add(CategorySequence, "message must open with a UNH header")
	}
	if tagOf(segments[len(segments)-1]) != TagUNT {
		errs.Add(CategorySequence, "message must close with a UNT trailer")
	}

	for _, seg := range segments {
		tag := tagOf(seg)
		rule, ok := segmentRules[tag]
		if !ok {
			// Tags outside the subset pass through unchecked; the decoder
			// skips them as well.
			continue
		}
		elements := len(splitRelease(seg, ElementSeparator)) - 1
		if elements != rule.ElementCount {
			errs.Add(tag, fmt.Sprintf("expected %d data elements, found %d: %s", rule.ElementCount, elements, seg))
			continue
		}
		if !rule.Matches(seg) {
			errs.Add(tag, fmt.Sprintf("segment does not match the %s layout: %s", tag, seg))
		}
	}

	v.checkCounts(segments, errs)
}

// checkCounts verifies the declared totals once the segments that carry
// them are themselves well formed: the UNT segment count and reference
// echo, and the CNT line total against the LIN segments present.
func (v *Validator) checkCounts(segments []string, errs ValidationErrors) {
	last := segments[len(segments)-1]
	if tagOf(last) == TagUNT && segmentRules[TagUNT].Matches(last) {
		trailer := splitRelease(last, ElementSeparator)
		declared, _ := strconv.Atoi(trailer[1])
		if declared != len(segments)-1 {
			errs.Add(TagUNT, fmt.Sprintf("declared segment count %d does not match the %d segments before the trailer", declared, len(segments)-1))
		}
		first := segments[0]
		if tagOf(first) == TagUNH && segmentRules[TagUNH].Matches(first) {
			headerRef := splitRelease(first, ElementSeparator)[1]
			if trailer[2] != headerRef {
				errs.Add(TagUNT, fmt.Sprintf("trailer reference %s does not match header reference %s", trailer[2], headerRef))
			}
		}
	}

	lines := 0
	for _, seg := range segments {
		if tagOf(seg) == TagLIN {
			lines++
		}
	}
	for _, seg := range segments {
		if tagOf(seg) != TagCNT || !segmentRules[TagCNT].Matches(seg) {
			continue
		}
		total := splitRelease(seg, ElementSeparator)[1]
		declared, _ := strconv.Atoi(splitRelease(total, ComponentSeparator)[1])
		if declared != lines {
			errs.Add(TagCNT, fmt.Sprintf("declared line item count %d does not match the %d LIN segments present", declared, lines))
		}
	}
}
