package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/geffen-cloud/vintner/internal/domain"
)

// buildOverrideFilter compiles explicit request overrides into an FT.SEARCH
// filter fragment. Parsed filters never reach the store; only caller-stated
// constraints restrict retrieval.
func buildOverrideFilter(ov domain.Overrides) string {
	if ov.Empty() {
		return ""
	}

	var parts []string

	if ov.MinPrice != nil || ov.MaxPrice != nil {
		lo, hi := "-inf", "+inf"
		if ov.MinPrice != nil {
			lo = strconv.FormatFloat(*ov.MinPrice, 'f', -1, 64)
		}
		if ov.MaxPrice != nil {
			hi = strconv.FormatFloat(*ov.MaxPrice, 'f', -1, 64)
		}
		parts = append(parts, fmt.Sprintf("@price:[%s %s]", lo, hi))
	}

	if len(ov.Countries) > 0 {
		parts = append(parts, tagClause("country", ov.Countries))
	}

	if len(ov.Colors) > 0 {
		parts = append(parts, tagClause("category", ov.Colors))
	}

	if ov.Kosher != nil {
		flag := "0"
		if *ov.Kosher {
			flag = "1"
		}
		parts = append(parts, fmt.Sprintf("@kosher:{%s}", flag))
	}

	return strings.Join(parts, " ")
}

func tagClause(field string, values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = escapeTagValue(strings.ToLower(v))
	}
	return fmt.Sprintf("@%s:{%s}", field, strings.Join(escaped, "|"))
}

var tagValueEscaper = strings.NewReplacer(
	" ", "\\ ", ",", "\\,", ".", "\\.", "-", "\\-", ":", "\\:", ";", "\\;",
	"{", "\\{", "}", "\\}", "[", "\\[", "]", "\\]", "|", "\\|",
)

func escapeTagValue(v string) string {
	return tagValueEscaper.Replace(v)
}
