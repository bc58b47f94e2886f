package extract

import (
	"strconv"
	"strings"
)

var smallNumbers = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11,
	"twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tensNumbers = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

// FoldNumbers rewrites spoken numbers as digits: "eighty" → "80",
// "twenty 2" → "22", "1 hundred twenty 5" → "125", "a hundred and ten" →
// "110". Single digits produced by the normalizer are accepted wherever a
// unit word is.
func FoldNumbers(text string) string {
	toks := strings.Fields(text)
	out := make([]string, 0, len(toks))
	for i := 0; i < len(toks); {
		if v, n := numberAt(toks, i); n > 0 {
			out = append(out, strconv.Itoa(v))
			i += n
			continue
		}
		out = append(out, toks[i])
		i++
	}
	return strings.Join(out, " ")
}

// numberAt parses a number phrase starting at toks[i] and returns its value
// and the number of tokens consumed (0 when there is none).
func numberAt(toks []string, i int) (int, int) {
	j, val := i, 0

	switch {
	case toks[j] == "hundred":
		val, j = 100, j+1
	case j+1 < len(toks) && toks[j+1] == "hundred":
		if m, ok := multiplier(toks[j]); ok {
			val, j = m*100, j+2
		}
	}
	if j > i && j+1 < len(toks) && toks[j] == "and" && isNumberWord(toks[j+1]) {
		j++
	}

	if j < len(toks) {
		if t, ok := tensNumbers[toks[j]]; ok {
			val += t
			j++
			if j < len(toks) {
				if u, ok := unit(toks[j]); ok {
					val += u
					j++
				}
			}
		} else if s, ok := smallNumbers[toks[j]]; ok {
			val += s
			j++
		} else if j > i {
			// "a hundred 5" style digit after hundred
			if u, ok := unit(toks[j]); ok {
				val += u
				j++
			}
		}
	}
	return val, j - i
}

// multiplier accepts the words that may precede "hundred".
func multiplier(tok string) (int, bool) {
	if tok == "a" {
		return 1, true
	}
	if v, ok := smallNumbers[tok]; ok && v > 0 && v < 10 {
		return v, true
	}
	return digit(tok)
}

// unit accepts 1-9 as a word or a single digit.
func unit(tok string) (int, bool) {
	if v, ok := smallNumbers[tok]; ok && v > 0 && v < 10 {
		return v, true
	}
	return digit(tok)
}

func digit(tok string) (int, bool) {
	if len(tok) == 1 && tok[0] >= '1' && tok[0] <= '9' {
		return int(tok[0] - '0'), true
	}
	return 0, false
}

func isNumberWord(tok string) bool {
	if _, ok := smallNumbers[tok]; ok {
		return true
	}
	if _, ok := tensNumbers[tok]; ok {
		return true
	}
	_, ok := digit(tok)
	return ok
}
