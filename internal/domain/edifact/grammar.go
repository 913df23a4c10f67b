package edifact

import "regexp"

// Service characters of the default EDIFACT syntax as used by this subset.
const (
	SegmentTerminator  byte = '\''
	ElementSeparator   byte = '+'
	ComponentSeparator byte = ':'
	ReleaseCharacter   byte = '?'
)

// Segment tags of the ORDERS D.01B subset.
const (
	TagUNH = "UNH" // message header
	TagBGM = "BGM" // beginning of message
	TagDTM = "DTM" // date/time/period
	TagNAD = "NAD" // name and address
	TagLIN = "LIN" // line item
	TagQTY = "QTY" // quantity
	TagMOA = "MOA" // monetary amount
	TagUNS = "UNS" // section control
	TagCNT = "CNT" // control total
	TagUNT = "UNT" // message trailer
)

// Fixed codes and qualifiers carried by the subset.
const (
	messageType       = "ORDERS"
	directoryVersion  = "D"
	directoryRelease  = "01B"
	controllingAgency = "UN"
	associationCode   = "EAN010"

	documentTypePurchaseOrder = "220"
	messageFunctionOriginal   = "9"
	qualifierDocumentDate     = "137"
	dateFormatCCYYMMDD        = "203"
	partyQualifierBuyer       = "BY"
	partyQualifierSeller      = "SE"
	itemCodeListBuyer         = "EN"
	qualifierOrderedQuantity  = "21"
	qualifierLineAmount       = "203"
	qualifierLineItemCount    = "2"
	sectionSummary            = "S"

	dateLayoutCCYYMMDD = "20060102"
)

// Segment counts of the envelope: every message carries seven fixed segments
// (UNH, BGM, DTM, 2×NAD, UNS, CNT) plus three per line item; the UNT trailer
// itself is not counted by its own declared total.
const (
	fixedSegmentCount   = 7
	perItemSegmentCount = 3
)

// textElement matches field text containing no unescaped service character.
const textElement = `(?:\?[?+:']|[^?+:'])+`

// SegmentRule describes the accepted layout of one segment tag: the number of
// data elements that follow the tag and a pattern over the full segment text
// (terminator already stripped).
type SegmentRule struct {
	Tag          string
	ElementCount int

	pattern *regexp.Regexp
}

// Matches reports whether rawSegment conforms to the rule's layout.
func (r SegmentRule) Matches(rawSegment string) bool {
	return r.pattern.MatchString(rawSegment)
}

// segmentRules is the grammar of the ORDERS subset. The table is built once
// at package initialization and never mutated afterwards, so it is safe for
// unsynchronized concurrent reads.
var segmentRules = map[string]SegmentRule{
	TagUNH: rule(TagUNH, 2, `UNH\+`+textElement+`\+ORDERS:D:01B:UN(?::[A-Za-z0-9]+)?`),
	TagBGM: rule(TagBGM, 3, `BGM\+220\+`+textElement+`\+9`),
	TagDTM: rule(TagDTM, 1, `DTM\+137:\d{8}:203`),
	TagNAD: rule(TagNAD, 2, `NAD\+(?:BY|SE)\+`+textElement),
	TagLIN: rule(TagLIN, 2, `LIN\+\d+\+`+textElement+`:EN`),
	TagQTY: rule(TagQTY, 1, `QTY\+21:\d+`),
	TagMOA: rule(TagMOA, 1, `MOA\+203:\d+(?:\.\d+)?`),
	TagUNS: rule(TagUNS, 1, `UNS\+S`),
	TagCNT: rule(TagCNT, 1, `CNT\+2:\d+`),
	TagUNT: rule(TagUNT, 2, `UNT\+\d+\+`+textElement),
}

func rule(tag string, elementCount int, layout string) SegmentRule {
	return SegmentRule{
		Tag:          tag,
		ElementCount: elementCount,
		pattern:      regexp.MustCompile(`^` + layout + `$`),
	}
}

// RuleFor returns the grammar rule registered for tag.
func RuleFor(tag string) (SegmentRule, bool) {
	r, ok := segmentRules[tag]
	return r, ok
}
