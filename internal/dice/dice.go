// Package dice rolls dice notation and expands dice expressions embedded in
// table text, e.g. "{2d6} gold pieces" or "{1d4+1} bandits".
package dice

import (
	"math/rand"
	"regexp"
	"strconv"
)

// inlineRegex matches a braced dice expression inside text
var inlineRegex = regexp.MustCompile(`\{(\d+)d(\d+)([+-]\d+)?\}`)

// bracedRegex matches any braced token
var bracedRegex = regexp.MustCompile(`\{[^{}]*\}`)

// Roll rolls n dice with the specified number of sides and returns the total
func Roll(rng *rand.Rand, n, sides int) int {
	if n <= 0 || sides <= 0 {
		return 0
	}
	total := 0
	for i := 0; i < n; i++ {
		total += rng.Intn(sides) + 1
	}
	return total
}

// Malformed returns the braced tokens in text that Expand would leave
// as they are, e.g. "{2x6}" or "{d6}".
func Malformed(text string) []string {
	var bad []string
	for _, token := range bracedRegex.FindAllString(text, -1) {
		if !inlineRegex.MatchString(token) {
			bad = append(bad, token)
		}
	}
	return bad
}

// Expand replaces every "{NdS+B}" in text with a rolled value.
func Expand(rng *rand.Rand, text string) string {
	if rng == nil {
		return text
	}
	return inlineRegex.ReplaceAllStringFunc(text, func(token string) string {
		matches := inlineRegex.FindStringSubmatch(token)
		return strconv.Itoa(rollMatch(rng, matches))
	})
}

// ExpandAll expands every string in list in place and returns it.
func ExpandAll(rng *rand.Rand, list []string) []string {
	for i, s := range list {
		list[i] = Expand(rng, s)
	}
	return list
}

func rollMatch(rng *rand.Rand, matches []string) int {
	count, _ := strconv.Atoi(matches[1])
	sides, _ := strconv.Atoi(matches[2])

	bonus := 0
	if matches[3] != "" {
		bonus, _ = strconv.Atoi(matches[3])
	}

	return Roll(rng, count, sides) + bonus
}
