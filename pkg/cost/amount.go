package cost

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	amountNoise = strings.NewReplacer(",", "", "，", "", "元", "")
	// plain digits with an optional fraction; signs and exponents are not amounts
	amountPattern = regexp.MustCompile(`^\d{1,15}(\.\d{1,10})?$`)
	printer       = message.NewPrinter(language.MustParse("zh-TW"))
)

// ParseAmount reads user input such as "3,500", "3500 元" or " 120 ". Separators, whitespace
// and the currency suffix are ignored; anything else that is not a plain decimal number
// counts as zero.
func ParseAmount(s string) decimal.Decimal {
	cleaned := strings.Join(strings.Fields(amountNoise.Replace(s)), "")
	if !amountPattern.MatchString(cleaned) {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders an amount with zh-TW digit grouping and at most three decimals.
func FormatAmount(d decimal.Decimal) string {
	f, _ := d.Round(3).Float64()
	return printer.Sprint(number.Decimal(f, number.MaxFractionDigits(3)))
}
