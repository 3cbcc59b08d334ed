package ocr

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no usable language hint is given.
const DefaultLanguage = "eng"

// Shorthand hints used by layout-analysis tooling that are not BCP 47 tags.
var languageAliases = map[string]string{
	"ch":          "chi_sim",
	"chinese_cht": "chi_tra",
	"japan":       "jpn",
	"korean":      "kor",
	"latin":       "lat",
	"arabic":      "ara",
	"cyrillic":    "rus",
	"devanagari":  "hin",
}

// TesseractLanguage maps a language hint to a Tesseract language code.
//
// The hint may be a BCP 47 tag ("en", "fr-CA", "zh-Hant") or one of the
// shorthand names in common use ("ch", "japan"). Unparseable hints fall
// back to DefaultLanguage.
func TesseractLanguage(hint string) string {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" {
		return DefaultLanguage
	}
	if code, ok := languageAliases[h]; ok {
		return code
	}

	tag, err := language.Parse(h)
	if err != nil {
		return DefaultLanguage
	}
	base, _ := tag.Base()
	if base.String() == "zh" {
		if script, _ := tag.Script(); script.String() == "Hant" {
			return "chi_tra"
		}
		return "chi_sim"
	}
	if code := base.ISO3(); code != "" {
		return code
	}
	return DefaultLanguage
}

// TesseractLanguages maps several hints and joins them with "+", dropping
// duplicates.
func TesseractLanguages(hints ...string) string {
	seen := make(map[string]bool)
	var codes []string
	for _, h := range hints {
		code := TesseractLanguage(h)
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return DefaultLanguage
	}
	return strings.Join(codes, "+")
}
