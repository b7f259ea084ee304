package search

import (
	"strings"

	"github.com/geffen-cloud/vintner/internal/domain"
)

// Clean strips the tokens that were consumed as filter values from the
// query, so the residual text fed to the embedder represents intent rather
// than facets. Tokens unrelated to the extracted filters are left alone.
func Clean(queryText string, f domain.Filters) string {
	text := strings.ToLower(queryText)

	if f.MinPrice != nil || f.MaxPrice != nil {
		text = priceBetweenRe.ReplaceAllString(text, " ")
		text = priceUnderRe.ReplaceAllString(text, " ")
		text = priceOverRe.ReplaceAllString(text, " ")
	}

	var surfaces []string
	surfaces = append(surfaces, surfacesFor(colorVocab, f.Categories)...)
	surfaces = append(surfaces, surfacesFor(countryVocab, f.Countries)...)
	surfaces = append(surfaces, surfacesFor(grapeVocab, f.Grapes)...)
	surfaces = append(surfaces, surfacesFor(sweetnessVocab, f.Sweetness)...)

	if f.Kosher != nil {
		surfaces = append(surfaces, kosherNegSurfaces...)
		surfaces = append(surfaces, kosherPosSurfaces...)
	}

	for _, s := range surfaces {
		text = removePhrase(text, s)
	}

	return strings.Join(strings.Fields(text), " ")
}

// removePhrase blanks word-bounded occurrences of phrase in text.
// Both arguments must already be lowercased.
func removePhrase(text, phrase string) string {
	if phrase == "" {
		return text
	}
	var b strings.Builder
	for {
		idx := strings.Index(text, phrase)
		if idx < 0 {
			b.WriteString(text)
			break
		}

		boundedLeft := idx == 0 || !isWordRune(lastRuneBefore(text, idx))
		end := idx + len(phrase)
		boundedRight := end >= len(text) || !isWordRune(firstRuneAt(text, end))

		if boundedLeft && boundedRight {
			b.WriteString(text[:idx])
			b.WriteString(" ")
		} else {
			b.WriteString(text[:end])
		}
		text = text[end:]
	}
	return b.String()
}
