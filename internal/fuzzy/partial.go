// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fuzzy

import (
	"math"
	"sort"
	"strings"
)

// gramLen is the length of the substrings indexed by a Haystack.
const gramLen = 3

// Haystack is a text indexed by its 3-byte substrings, so that many
// patterns can be located in it without rescanning the whole text.
type Haystack struct {
	text  string
	grams map[uint32][]int32
}

// NewHaystack indexes s.
func NewHaystack(s string) *Haystack {
	h := &Haystack{text: s}
	if len(s) >= gramLen {
		h.grams = make(map[uint32][]int32, len(s)/4)
		for i := 0; i+gramLen <= len(s); i++ {
			k := gramKey(s[i:])
			h.grams[k] = append(h.grams[k], int32(i))
		}
	}
	return h
}

// Text returns the indexed string.
func (h *Haystack) Text() string { return h.text }

// Len returns the length of the indexed string in bytes.
func (h *Haystack) Len() int { return len(h.text) }

func gramKey(s string) uint32 {
	return uint32(s[0])<<16 | uint32(s[1])<<8 | uint32(s[2])
}

// occurrences calls fn with every position at which piece occurs.
func (h *Haystack) occurrences(piece string, fn func(pos int)) {
	if len(piece) >= gramLen {
		for _, p := range h.grams[gramKey(piece)] {
			if strings.HasPrefix(h.text[p:], piece) {
				fn(int(p))
			}
		}
		return
	}
	for off := 0; off < len(h.text); {
		i := strings.Index(h.text[off:], piece)
		if i < 0 {
			return
		}
		fn(off + i)
		off += i + 1
	}
}

// PartialRatio returns the best similarity between a and any substring of
// the longer string aligned with the shorter one: every window of the
// shorter string's length, plus the shorter prefixes and suffixes where the
// shorter string hangs over either end. An empty input scores 0.
func PartialRatio(a, b string) float64 {
	return PartialRatioCutoff(a, b, 0)
}

// PartialRatioCutoff is PartialRatio but returns 0 for any score below
// cutoff. A higher cutoff lets more of the text be skipped.
func PartialRatioCutoff(a, b string, cutoff float64) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	return Compile(a).PartialRatio(NewHaystack(b), cutoff)
}

// PartialRatio scores the pattern against h as the package-level
// PartialRatio does, returning 0 when the best score is below cutoff.
//
// With a cutoff the allowed number of edits E is bounded, so the pattern is
// split into E+1 pieces and only windows that contain one piece exactly,
// within E positions of where it sits in the pattern, are scored. A window
// with at most E edits always leaves one piece untouched, so the result is
// the same as scoring every window.
func (p *Pattern) PartialRatio(h *Haystack, cutoff float64) float64 {
	m, n := p.Len(), h.Len()
	if m == 0 || n == 0 || cutoff > 100 {
		return 0
	}
	if m > n {
		return Compile(h.text).PartialRatio(NewHaystack(p.text), cutoff)
	}

	s := &scanner{p: p, text: h.text, cutoff: cutoff, scratch: make([]uint64, p.words)}
	maxEdits := int(math.Floor((1-cutoff/100)*2*float64(m) + 1e-9))
	if cutoff <= 0 || maxEdits >= m {
		s.scanStarts(0, n-1)
		s.scanPrefixes()
		return s.result()
	}

	spans, prefix := p.candidateStarts(h, maxEdits)
	for _, sp := range spans {
		s.scanStarts(sp.lo, sp.hi)
	}
	if prefix {
		s.scanPrefixes()
	}
	return s.result()
}

type span struct{ lo, hi int }

// candidateStarts returns the merged ranges of window starts that can hold a
// window within maxEdits of the pattern, and whether the prefix windows
// (which all start at 0) can.
func (p *Pattern) candidateStarts(h *Haystack, maxEdits int) ([]span, bool) {
	m, n := p.Len(), h.Len()
	pieces := maxEdits + 1

	var spans []span
	prefix := false
	for j := 0; j < pieces; j++ {
		from, to := j*m/pieces, (j+1)*m/pieces
		h.occurrences(p.text[from:to], func(pos int) {
			lo, hi := pos-from-maxEdits, pos-from+maxEdits
			if lo <= 0 && hi >= 0 {
				prefix = true
			}
			lo, hi = max(lo, 0), min(hi, n-1)
			if lo <= hi {
				spans = append(spans, span{lo, hi})
			}
		})
	}

	sort.Slice(spans, func(a, b int) bool { return spans[a].lo < spans[b].lo })
	merged := spans[:0]
	for _, sp := range spans {
		if k := len(merged); k > 0 && sp.lo <= merged[k-1].hi+1 {
			merged[k-1].hi = max(merged[k-1].hi, sp.hi)
			continue
		}
		merged = append(merged, sp)
	}
	return merged, prefix
}

// scanner slides a window over the text, keeping a byte histogram of the
// window so that windows whose best possible score cannot beat the current
// best are skipped before the LCS is computed.
type scanner struct {
	p       *Pattern
	text    string
	cutoff  float64
	best    float64
	win     [256]int32
	common  int
	scratch []uint64
}

func (s *scanner) add(c byte) {
	if s.win[c] < s.p.count[c] {
		s.common++
	}
	s.win[c]++
}

func (s *scanner) remove(c byte) {
	s.win[c]--
	if s.win[c] < s.p.count[c] {
		s.common--
	}
}

// consider scores text[lo:hi] if its histogram bound allows an improvement.
func (s *scanner) consider(lo, hi int) {
	total := s.p.Len() + hi - lo
	bound := score(s.common, total)
	if bound < s.cutoff || bound <= s.best {
		return
	}
	if v := score(s.p.lcs(s.text[lo:hi], s.scratch), total); v > s.best {
		s.best = v
	}
}

// scanStarts scores the windows starting at first through last. Starts past
// len(text)-m yield the suffix windows.
func (s *scanner) scanStarts(first, last int) {
	m, n := s.p.Len(), len(s.text)
	end := min(first+m, n)
	for i := first; i < end; i++ {
		s.add(s.text[i])
	}
	s.consider(first, end)
	for st := first + 1; st <= last; st++ {
		s.remove(s.text[st-1])
		if st+m <= n {
			s.add(s.text[st+m-1])
			end = st + m
		}
		s.consider(st, end)
	}
	for i := last; i < end; i++ {
		s.remove(s.text[i])
	}
}

// scanPrefixes scores the windows text[:i] shorter than the pattern.
func (s *scanner) scanPrefixes() {
	limit := min(s.p.Len()-1, len(s.text))
	for i := 0; i < limit; i++ {
		s.add(s.text[i])
		s.consider(0, i+1)
	}
	for i := 0; i < limit; i++ {
		s.remove(s.text[i])
	}
}

func (s *scanner) result() float64 {
	if s.best < s.cutoff {
		return 0
	}
	return s.best
}
