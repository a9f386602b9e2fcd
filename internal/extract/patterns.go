package extract

import "regexp"

// Lexical pattern library for the fallback extractor. Order matters for the
// courier and date pattern lists: entries are tried top to bottom and the
// first hit wins, so they are kept as slices, never maps.

var (
	// numeral (Arabic digits or single Chinese numeral) followed by a unit word
	quantityPattern = regexp.MustCompile(`(\d+|一|二|三|四|五|六|七|八|九|十)(托|箱|个|件|张|套|台|只|条|包|袋|瓶|罐)`)

	// decimal number followed by a currency marker
	pricePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*[美金$元]`)

	// standalone run of 10+ digits
	trackingPattern = regexp.MustCompile(`\b\d{10,}\b`)

	// price/quantity tokens leaked into the product-name segment
	priceStripPattern = regexp.MustCompile(`\d+(?:\.\d+)?[美金$元]`)
	productNamePrefix = regexp.MustCompile(`^(货物|商品|产品)[:：]?`)
)

// Chinese numerals 一–十 map to "1".."10". Multi-digit spoken numerals
// ("十一" and up) are out of scope for the pattern tier.
var chineseNumerals = map[string]string{
	"一": "1", "二": "2", "三": "3", "四": "4", "五": "5",
	"六": "6", "七": "7", "八": "8", "九": "9", "十": "10",
}

// Courier alias patterns, checked in declared order; first hit wins.
var courierPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(中通|顺丰|圆通|申通|韵达|百世|德邦|京东|菜鸟)`),
	regexp.MustCompile(`(中通快递|顺丰快递|圆通快递)`),
}

// datePattern pairs a matcher with whether its groups carry a year. Checked
// in declared order; the first matching pattern wins and later ones are not
// attempted.
type datePattern struct {
	re       *regexp.Regexp
	withYear bool
}

var datePatterns = []datePattern{
	{regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})[日号]`), true},
	{regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`), true},
	{regexp.MustCompile(`(\d{1,2})月(\d{1,2})[日号]`), false},
}

// arabicNumeral converts a single Chinese numeral to digits, passing Arabic
// digit sequences through unchanged.
func arabicNumeral(s string) string {
	if n, ok := chineseNumerals[s]; ok {
		return n
	}
	return s
}

// FindQuantity returns the first quantity-unit token in s, with the numeral
// normalized to Arabic digits. Used by the fallback extractor and by the
// completion stage when it re-scans a product name.
func FindQuantity(s string) (string, bool) {
	m := quantityPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return arabicNumeral(m[1]) + m[2], true
}
