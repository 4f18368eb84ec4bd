// Package amount parses the free-form quantity text found in ingredient and
// yield entries ("1 1/2 cups", "½ tsp", "1,5 l", "pinch").
package amount

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-recipemd/internal/model"
)

var (
	slashFraction  = regexp.MustCompile(`(?s)^(?:(?P<whole>\d+)\s+)?(?P<numerator>\d+)\s*/\s*(?P<denominator>\d+)\s*(?P<unit>.+)?$`)
	vulgarFraction = regexp.MustCompile(`(?s)^(?:(?P<whole>\d+)\s*)?(?P<symbol>[\x{00BC}-\x{00BE}\x{2150}-\x{215E}\x{2189}])\s*(?P<unit>.+)?$`)
	decimal        = regexp.MustCompile(`(?s)^(?P<whole>\d*)[.,](?P<fraction>\d+)\s*(?P<unit>.+)?$`)
	integer        = regexp.MustCompile(`(?s)^(?P<value>\d+)\s*(?P<unit>.+)?$`)
)

// vulgarFractions maps every symbol accepted by the vulgarFraction pattern to
// its numerator and denominator.
var vulgarFractions = map[rune][2]uint16{
	'¼': {1, 4},
	'½': {1, 2},
	'¾': {3, 4},
	'↉': {0, 3},
	'⅐': {1, 7},
	'⅑': {1, 9},
	'⅒': {1, 10},
	'⅓': {1, 3},
	'⅔': {2, 3},
	'⅕': {1, 5},
	'⅖': {2, 5},
	'⅗': {3, 5},
	'⅘': {4, 5},
	'⅙': {1, 6},
	'⅚': {5, 6},
	'⅛': {1, 8},
	'⅜': {3, 8},
	'⅝': {5, 8},
	'⅞': {7, 8},
}

// Parse never fails. Patterns are tried in order: slash fraction, vulgar
// fraction, decimal, integer. When none matches, or a matched number does not
// fit its factor type, the whole trimmed text becomes the unit and the factor
// is nil.
func Parse(text string) model.Amount {
	s := strings.TrimSpace(text)

	for _, match := range []func(string) (model.Amount, matchResult){
		matchSlashFraction,
		matchVulgarFraction,
		matchDecimal,
		matchInteger,
	} {
		amount, result := match(s)
		switch result {
		case matched:
			return amount
		case overflowed:
			return fallback(s)
		}
	}
	return fallback(s)
}

type matchResult uint8

const (
	noMatch matchResult = iota
	matched
	overflowed
)

func matchSlashFraction(s string) (model.Amount, matchResult) {
	m := slashFraction.FindStringSubmatch(s)
	if m == nil {
		return model.Amount{}, noMatch
	}
	whole, ok := parseWhole(group(slashFraction, m, "whole"))
	if !ok {
		return model.Amount{}, overflowed
	}
	numerator, err := strconv.ParseUint(group(slashFraction, m, "numerator"), 10, 16)
	if err != nil {
		return model.Amount{}, overflowed
	}
	denominator, err := strconv.ParseUint(group(slashFraction, m, "denominator"), 10, 16)
	if err != nil {
		return model.Amount{}, overflowed
	}
	factor, ok := mixed(whole, uint16(numerator), uint16(denominator))
	if !ok {
		return model.Amount{}, overflowed
	}
	return build(factor, group(slashFraction, m, "unit")), matched
}

func matchVulgarFraction(s string) (model.Amount, matchResult) {
	m := vulgarFraction.FindStringSubmatch(s)
	if m == nil {
		return model.Amount{}, noMatch
	}
	whole, ok := parseWhole(group(vulgarFraction, m, "whole"))
	if !ok {
		return model.Amount{}, overflowed
	}
	symbol := []rune(group(vulgarFraction, m, "symbol"))[0]
	numerator, denominator := Vulgar(symbol)
	factor, ok := mixed(whole, numerator, denominator)
	if !ok {
		return model.Amount{}, overflowed
	}
	return build(factor, group(vulgarFraction, m, "unit")), matched
}

func matchDecimal(s string) (model.Amount, matchResult) {
	m := decimal.FindStringSubmatch(s)
	if m == nil {
		return model.Amount{}, noMatch
	}
	value, err := strconv.ParseFloat(group(decimal, m, "whole")+"."+group(decimal, m, "fraction"), 32)
	if err != nil {
		return model.Amount{}, overflowed
	}
	return build(model.Float(float32(value)), group(decimal, m, "unit")), matched
}

func matchInteger(s string) (model.Amount, matchResult) {
	m := integer.FindStringSubmatch(s)
	if m == nil {
		return model.Amount{}, noMatch
	}
	value, err := strconv.ParseUint(group(integer, m, "value"), 10, 32)
	if err != nil {
		return model.Amount{}, overflowed
	}
	return build(model.Integer(uint32(value)), group(integer, m, "unit")), matched
}

// Vulgar returns the numerator and denominator of a unicode vulgar fraction.
// It panics for any other rune.
func Vulgar(symbol rune) (numerator, denominator uint16) {
	pair, ok := vulgarFractions[symbol]
	if !ok {
		panic("amount: not a vulgar fraction: " + strconv.QuoteRune(symbol))
	}
	return pair[0], pair[1]
}

// mixed folds whole into the numerator, reporting false when the result does
// not fit in 16 bits.
func mixed(whole uint64, numerator, denominator uint16) (model.Factor, bool) {
	combined := whole*uint64(denominator) + uint64(numerator)
	if combined > 0xFFFF {
		return model.Factor{}, false
	}
	return model.Fraction(uint16(combined), denominator), true
}

func parseWhole(raw string) (uint64, bool) {
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, false
	}
	return v, true
}

func build(factor model.Factor, unit string) model.Amount {
	amount := model.Amount{Factor: &factor}
	if unit = strings.TrimSpace(unit); unit != "" {
		amount.Unit = &unit
	}
	return amount
}

func fallback(s string) model.Amount {
	if s == "" {
		return model.Amount{}
	}
	unit := s
	return model.Amount{Unit: &unit}
}

func group(re *regexp.Regexp, match []string, name string) string {
	idx := re.SubexpIndex(name)
	if idx < 0 || idx >= len(match) {
		return ""
	}
	return match[idx]
}
