// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fuzzy

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- reference implementation ---

func dpLCS(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// brutePartial scores every window explicitly.
func brutePartial(a, b string, cutoff float64) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	m, n := len(a), len(b)
	if m == 0 {
		return 0
	}
	best := 0.0
	try := func(w string) {
		if v := 200 * float64(dpLCS(a, w)) / float64(m+len(w)); v > best {
			best = v
		}
	}
	for i := 1; i < m; i++ {
		try(b[:i])
	}
	for s := 0; s+m <= n; s++ {
		try(b[s : s+m])
	}
	for s := n - m + 1; s < n; s++ {
		try(b[s:])
	}
	if best < cutoff {
		return 0
	}
	return best
}

func randomString(r *rand.Rand, alphabet string, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[r.Intn(len(alphabet))])
	}
	return b.String()
}

// mutate applies k random single-byte edits.
func mutate(r *rand.Rand, alphabet, s string, k int) string {
	for i := 0; i < k && len(s) > 1; i++ {
		pos := r.Intn(len(s))
		c := string(alphabet[r.Intn(len(alphabet))])
		switch r.Intn(3) {
		case 0:
			s = s[:pos] + s[pos+1:]
		case 1:
			s = s[:pos] + c + s[pos:]
		default:
			s = s[:pos] + c + s[pos+1:]
		}
	}
	return s
}

// --- LCS / Ratio ---

func TestLCSMatchesDynamicProgramming(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 300; i++ {
		// Lengths cross the 64-byte word boundary.
		a := randomString(r, "abcd ", 1+r.Intn(150))
		b := randomString(r, "abcd ", r.Intn(200))
		require.Equal(t, dpLCS(a, b), Compile(a).LCS(b), "a=%q b=%q", a, b)
	}
}

// ratio is the whole-string InDel similarity of a and b in [0,100], scored
// the way the partial scorer scores each window. Two empty strings score 100.
func ratio(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 100
	}
	if len(a) < len(b) {
		a, b = b, a
	}
	return score(Compile(b).LCS(a), len(a)+len(b))
}

func TestRatioSymmetric(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "attention", "attention", 100},
		{"both empty", "", "", 100},
		{"one empty", "abc", "", 0},
		{"one substitution", "abc", "axc", 200.0 * 2 / 6},
		{"one insertion", "this is a test", "this is a test!", 200.0 * 14 / 29},
		{"disjoint", "abc", "xyz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ratio(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, ratio(tt.b, tt.a), 1e-9)
		})
	}
}

// --- PartialRatio ---

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name   string
		needle string
		hay    string
		want   float64
	}{
		{"exact substring", "attention is all you need", "see vaswani attention is all you need neurips 2017", 100},
		{"identical", "abc", "abc", 100},
		{"empty needle", "", "anything", 0},
		{"empty haystack", "title", "", 0},
		{"one typo", "attention is all you need", "vaswani attention is all you ned 2017", 96},
		{"truncated at end", "attention is all you need", "refs vaswani attention is all you ne", 200.0 * 23 / 48},
		{"truncated at start", "attention is all you need", "ttention is all you need and more", 200.0 * 24 / 49},
		{"needle longer than haystack", "xxabcxx", "abc", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PartialRatio(tt.needle, tt.hay), 1e-9)
		})
	}
}

func TestPartialRatioCutoffDropsLowScores(t *testing.T) {
	assert.Zero(t, PartialRatioCutoff("deep residual learning", "a paper about graphs", 95))
	assert.InDelta(t, 96, PartialRatioCutoff("attention is all you need", "x attention is all you ned y", 95), 1e-9)
	assert.Zero(t, PartialRatioCutoff("abc", "abc", 101))
}

func TestPartialRatioMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	const alphabet = "abcde "
	cutoffs := []float64{0, 50, 80, 90, 95, 100}
	for i := 0; i < 400; i++ {
		needle := randomString(r, alphabet, 1+r.Intn(40))
		var hay string
		switch r.Intn(3) {
		case 0:
			hay = randomString(r, alphabet, r.Intn(120))
		case 1:
			// Plant a lightly edited copy somewhere inside.
			hay = randomString(r, alphabet, r.Intn(50)) +
				mutate(r, alphabet, needle, r.Intn(3)) +
				randomString(r, alphabet, r.Intn(50))
		default:
			// Let the copy hang over one end.
			cut := r.Intn(len(needle))
			if r.Intn(2) == 0 {
				hay = randomString(r, alphabet, r.Intn(40)) + needle[:len(needle)-cut]
			} else {
				hay = needle[cut:] + randomString(r, alphabet, r.Intn(40))
			}
		}
		for _, c := range cutoffs {
			want := brutePartial(needle, hay, c)
			got := PartialRatioCutoff(needle, hay, c)
			require.InDelta(t, want, got, 1e-9, "needle=%q hay=%q cutoff=%v", needle, hay, c)
		}
	}
}

func TestCompiledPatternReusableAcrossHaystacks(t *testing.T) {
	p := Compile("graph neural networks")
	first := NewHaystack("survey of graph neural networks 2019")
	second := NewHaystack("convolutional networks on graphs")

	assert.InDelta(t, 100, p.PartialRatio(first, 95), 1e-9)
	assert.Zero(t, p.PartialRatio(second, 95))
	assert.InDelta(t, 100, p.PartialRatio(first, 95), 1e-9, "scoring must not leave state behind")
}

func TestLongTitleAcrossWordBoundary(t *testing.T) {
	title := strings.Repeat("a very long title about many things ", 4)
	hay := "prefix " + title[:70] + "x" + title[71:] + " suffix"
	got := PartialRatioCutoff(title, hay, 95)
	assert.Greater(t, got, 95.0)
	assert.Less(t, got, 100.0)
}
