package search

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Domain vocabulary for the deterministic rule pass. Surfaces cover the
// catalog's two query languages (English and Hebrew). Canonical values are
// the catalog-native tokens the constraint and boost stages operate on.
type vocabTerm struct {
	canonical string
	surfaces  []string
}

var typeVocab = []vocabTerm{
	{"wine", []string{"wine", "wines", "יין", "יינות"}},
	{"whiskey", []string{"whiskey", "whisky", "וויסקי", "ויסקי"}},
	{"vodka", []string{"vodka", "וודקה"}},
	{"gin", []string{"gin", "ג'ין"}},
	{"beer", []string{"beer", "בירה"}},
	{"liqueur", []string{"liqueur", "ליקר"}},
}

var colorVocab = []vocabTerm{
	{"red", []string{"red", "אדום"}},
	{"white", []string{"white", "לבן"}},
	{"rose", []string{"rose", "rosé", "רוזה"}},
	{"sparkling", []string{"sparkling", "bubbly", "מבעבע"}},
}

var countryVocab = []vocabTerm{
	{"france", []string{"france", "french", "צרפת", "צרפתי"}},
	{"italy", []string{"italy", "italian", "איטליה", "איטלקי"}},
	{"spain", []string{"spain", "spanish", "ספרד", "ספרדי"}},
	{"israel", []string{"israel", "israeli", "ישראל", "ישראלי"}},
	{"portugal", []string{"portugal", "portuguese", "פורטוגל"}},
	{"germany", []string{"germany", "german", "גרמניה"}},
	{"argentina", []string{"argentina", "argentinian", "ארגנטינה"}},
	{"chile", []string{"chile", "chilean", "צ'ילה"}},
	{"australia", []string{"australia", "australian", "אוסטרליה"}},
	{"usa", []string{"usa", "american", "california", "ארה\"ב", "קליפורניה"}},
	{"south africa", []string{"south africa", "south african", "דרום אפריקה"}},
	{"new zealand", []string{"new zealand", "ניו זילנד"}},
	{"georgia", []string{"georgia", "georgian", "גאורגיה"}},
}

var grapeVocab = []vocabTerm{
	{"cabernet sauvignon", []string{"cabernet sauvignon", "cabernet", "קברנה סוביניון", "קברנה"}},
	{"merlot", []string{"merlot", "מרלו"}},
	{"shiraz", []string{"shiraz", "syrah", "שיראז", "סירה"}},
	{"chardonnay", []string{"chardonnay", "שרדונה"}},
	{"sauvignon blanc", []string{"sauvignon blanc", "סוביניון בלאן"}},
	{"pinot noir", []string{"pinot noir", "פינו נואר"}},
	{"malbec", []string{"malbec", "מאלבק"}},
	{"riesling", []string{"riesling", "ריזלינג"}},
	{"grenache", []string{"grenache", "גרנאש"}},
	{"carignan", []string{"carignan", "קריניאן"}},
	{"gewurztraminer", []string{"gewurztraminer", "גוורצטרמינר"}},
}

var sweetnessVocab = []vocabTerm{
	{"dry", []string{"dry", "יבש"}},
	{"semi-dry", []string{"semi-dry", "semi dry", "off-dry", "חצי יבש"}},
	{"sweet", []string{"sweet", "מתוק"}},
	{"semi-sweet", []string{"semi-sweet", "semi sweet", "חצי מתוק"}},
	{"brut", []string{"brut", "ברוט"}},
}

// Kosher mentions. The negated surfaces must be checked first so that
// "not kosher" is not consumed as an assertion of kosher.
var (
	kosherNegSurfaces = []string{"not kosher", "non kosher", "non-kosher", "לא כשר"}
	kosherPosSurfaces = []string{"kosher", "כשר", "כשרה"}
)

// Price expressions. Amounts are bare numbers, optionally currency-prefixed.
var (
	priceBetweenRe = regexp.MustCompile(
		`(?:between|בין)\s*[₪$]?(\d+(?:\.\d+)?)\s*(?:and|to|-|עד|ל)\s*[₪$]?(\d+(?:\.\d+)?)`)
	priceUnderRe = regexp.MustCompile(
		`(?:under|below|less than|up to|cheaper than|max|מתחת ל|עד)\s*[₪$]?(\d+(?:\.\d+)?)`)
	priceOverRe = regexp.MustCompile(
		`(?:over|above|more than|at least|from|min|מעל|החל מ)\s*[₪$]?(\d+(?:\.\d+)?)`)
)

// containsPhrase reports whether text contains phrase bounded by non-letter
// runes. ASCII \b does not cover Hebrew, so boundaries are checked manually.
// Both arguments must already be lowercased.
func containsPhrase(text, phrase string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return false
		}
		idx += start

		boundedLeft := idx == 0 || !isWordRune(lastRuneBefore(text, idx))
		end := idx + len(phrase)
		boundedRight := end >= len(text) || !isWordRune(firstRuneAt(text, end))

		if boundedLeft && boundedRight {
			return true
		}
		start = idx + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func lastRuneBefore(s string, idx int) rune {
	r, _ := utf8.DecodeLastRuneInString(s[:idx])
	return r
}

func firstRuneAt(s string, idx int) rune {
	r, _ := utf8.DecodeRuneInString(s[idx:])
	return r
}

// matchVocab returns the canonical values whose surfaces occur in text.
// text must be lowercased. Insertion order follows the vocab table for
// deterministic output.
func matchVocab(text string, vocab []vocabTerm) []string {
	var out []string
	for _, term := range vocab {
		for _, surface := range term.surfaces {
			if containsPhrase(text, surface) {
				out = append(out, term.canonical)
				break
			}
		}
	}
	return out
}

// surfacesFor returns all surfaces of the canonical values present in the
// given set, used by the query cleaner to strip consumed tokens.
func surfacesFor(vocab []vocabTerm, canonicals []string) []string {
	var out []string
	for _, term := range vocab {
		for _, c := range canonicals {
			if strings.EqualFold(term.canonical, c) {
				out = append(out, term.surfaces...)
				break
			}
		}
	}
	return out
}
