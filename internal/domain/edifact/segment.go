package edifact

import "strings"

// Segment is one tagged line of a message: a tag plus the data elements that
// follow it, kept in wire form (service characters escaped, composites
// joined). Segments are immutable once constructed.
type Segment struct {
	tag      string
	elements []string
}

// NewSegment constructs a segment from a tag and its data elements. Element
// values must already be in wire form; free text goes through escape first.
func NewSegment(tag string, elements ...string) Segment {
	return Segment{tag: tag, elements: append([]string(nil), elements...)}
}

// parseSegment splits raw segment text (terminator already stripped) into a
// tag and data elements, honoring release-character escapes.
func parseSegment(raw string) Segment {
	parts := splitRelease(raw, ElementSeparator)
	return Segment{tag: parts[0], elements: parts[1:]}
}

// Tag returns the segment tag.
func (s Segment) Tag() string {
	return s.tag
}

// Elements returns a copy of the data elements.
func (s Segment) Elements() []string {
	return append([]string(nil), s.elements...)
}

// Element returns the data element at index i, or the empty string when the
// segment carries fewer elements.
func (s Segment) Element(i int) string {
	if i < 0 || i >= len(s.elements) {
		return ""
	}
	return s.elements[i]
}

// String renders the segment in wire form, including the terminator.
func (s Segment) String() string {
	var b strings.Builder
	b.WriteString(s.tag)
	for _, el := range s.elements {
		b.WriteByte(ElementSeparator)
		b.WriteString(el)
	}
	b.WriteByte(SegmentTerminator)
	return b.String()
}

// composite joins component values into one data element.
func composite(components ...string) string {
	return strings.Join(components, string(ComponentSeparator))
}

// escape prefixes every service character in value with the release
// character, making the value safe to embed as field text.
func escape(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if isServiceChar(value[i]) {
			b.WriteByte(ReleaseCharacter)
		}
		b.WriteByte(value[i])
	}
	return b.String()
}

// unescape strips release characters from wire-form field text, restoring
// the original value.
func unescape(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if value[i] == ReleaseCharacter && i+1 < len(value) {
			i++
		}
		b.WriteByte(value[i])
	}
	return b.String()
}

func isServiceChar(c byte) bool {
	switch c {
	case SegmentTerminator, ElementSeparator, ComponentSeparator, ReleaseCharacter:
		return true
	}
	return false
}

// splitRelease splits s on sep, treating any character preceded by the
// release character as literal text.
func splitRelease(s string, sep byte) []string {
	parts := make([]string, 0, 4)
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ReleaseCharacter && i+1 < len(s):
			b.WriteByte(c)
			i++
			b.WriteByte(s[i])
		case c == sep:
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	return append(parts, b.String())
}

// splitSegments cuts raw message text into segment strings, dropping the
// whitespace and blank runs that often pad transmissions between
// terminators.
func splitSegments(raw string) []string {
	parts := splitRelease(raw, SegmentTerminator)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// tagOf returns the tag of raw segment text: everything before the first
// unescaped element separator.
func tagOf(rawSegment string) string {
	for i := 0; i < len(rawSegment); i++ {
		switch rawSegment[i] {
		case ReleaseCharacter:
			i++
		case ElementSeparator:
			return rawSegment[:i]
		}
	}
	return rawSegment
}
