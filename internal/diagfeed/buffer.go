package diagfeed

// lineBuffer is a fixed-capacity ordered store of the most recent accepted
// lines. Oldest lines are evicted first on overflow.
type lineBuffer struct {
	max    int
	values []string
}

func newLineBuffer(max int) *lineBuffer {
	if max <= 0 {
		max = 1
	}
	return &lineBuffer{max: max}
}

func (b *lineBuffer) append(line string) {
	b.values = append(b.values, line)
	if len(b.values) > b.max {
		drop := len(b.values) - b.max
		b.values = b.values[drop:]
	}
}

// replace clears the buffer and refills it with the trailing max entries of
// lines, preserving order.
func (b *lineBuffer) replace(lines []string) {
	if len(lines) > b.max {
		lines = lines[len(lines)-b.max:]
	}
	b.values = append(b.values[:0], lines...)
}

func (b *lineBuffer) clear() {
	b.values = b.values[:0]
}

func (b *lineBuffer) lines() []string {
	return append([]string(nil), b.values...)
}

func (b *lineBuffer) len() int {
	return len(b.values)
}

// last returns the most recent line, or "" when the buffer is empty.
func (b *lineBuffer) last() string {
	if len(b.values) == 0 {
		return ""
	}
	return b.values[len(b.values)-1]
}

// diffAfterMarker scans window backward for the most recent line equal to
// marker and returns everything strictly after it. The second return is
// false when the marker is absent, which callers treat as sync loss.
func diffAfterMarker(window []string, marker string) ([]string, bool) {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == marker {
			return window[i+1:], true
		}
	}
	return nil, false
}
