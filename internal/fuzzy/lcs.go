// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fuzzy scores how well a short string occurs inside a longer one.
// Similarity is the normalized InDel similarity 200·LCS/(|a|+|b|), so an
// exact copy scores 100 and every inserted or deleted byte costs the same.
// Strings are compared byte-wise; callers normalize text to ASCII first.
package fuzzy

import "math/bits"

// Pattern is a string preprocessed for repeated LCS computations against
// many texts, using the bit-parallel algorithm of Hyyrö (one machine word
// per 64 pattern bytes).
type Pattern struct {
	text  string
	words int
	// slot maps a byte to its row in masks; 0 means the byte does not
	// occur in the pattern.
	slot  [256]uint16
	masks []uint64
	count [256]int32
}

// Compile preprocesses s for LCS computations.
func Compile(s string) *Pattern {
	p := &Pattern{text: s, words: (len(s) + 63) / 64}
	rows := 1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if p.slot[c] == 0 {
			p.slot[c] = uint16(rows)
			rows++
		}
		p.count[c]++
	}
	p.masks = make([]uint64, rows*p.words)
	for i := 0; i < len(s); i++ {
		row := int(p.slot[s[i]]) * p.words
		p.masks[row+i/64] |= 1 << (uint(i) % 64)
	}
	return p
}

// Text returns the compiled string.
func (p *Pattern) Text() string { return p.text }

// Len returns the length of the compiled string in bytes.
func (p *Pattern) Len() int { return len(p.text) }

// LCS returns the length of the longest common subsequence of the pattern
// and text.
func (p *Pattern) LCS(text string) int {
	return p.lcs(text, make([]uint64, p.words))
}

// lcs runs the bit-parallel recurrence V' = (V + (V & M)) | (V &^ M) over
// text, using v as scratch. The LCS length is the number of zero bits among
// the low len(p.text) bits of the final V.
func (p *Pattern) lcs(text string, v []uint64) int {
	if p.words == 0 {
		return 0
	}
	for i := range v {
		v[i] = ^uint64(0)
	}
	w := p.words
	for j := 0; j < len(text); j++ {
		row := int(p.slot[text[j]])
		if row == 0 {
			continue
		}
		m := p.masks[row*w : row*w+w]
		var carry uint64
		for k := 0; k < w; k++ {
			u := v[k] & m[k]
			sum, c := bits.Add64(v[k], u, carry)
			carry = c
			v[k] = sum | (v[k] &^ m[k])
		}
	}

	zeros := 0
	for k := 0; k < w; k++ {
		x := ^v[k]
		if k == w-1 {
			if tail := uint(len(p.text) % 64); tail != 0 {
				x &= (uint64(1) << tail) - 1
			}
		}
		zeros += bits.OnesCount64(x)
	}
	return zeros
}

func score(lcs, total int) float64 {
	if total == 0 {
		return 0
	}
	return 200 * float64(lcs) / float64(total)
}
