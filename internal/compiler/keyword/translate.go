package keyword

import "fmt"

// Language is a built language table tagged with the language identifier
// used in project configuration (spec.md 6 "Source-file format").
type Language struct {
	Tag   string
	Table *Table
}

// Registry holds the built-in bilingual language set. Built once at
// package init, matching spec.md 5's "keyword table is read-only after
// construction and safely shareable".
var Registry = map[string]*Language{}

func init() {
	en, err := NewTable(English)
	if err != nil {
		panic(fmt.Sprintf("keyword: building English table: %v", err))
	}
	ar, err := NewTable(Arabic)
	if err != nil {
		panic(fmt.Sprintf("keyword: building Arabic table: %v", err))
	}
	Registry["en"] = &Language{Tag: "en", Table: en}
	Registry["ar"] = &Language{Tag: "ar", Table: ar}
}

// Lookup resolves a language tag to its built table.
func Lookup(tag string) (*Language, bool) {
	lang, ok := Registry[tag]
	return lang, ok
}

// Translate maps a spelling from one language to its equivalent spelling
// in another, via the shared TokenName: translate(a->b, s) =
// tableB.SpellingOf(tableA.Lookup(s)). Grounded on
// seen_std/src/translation/mod.rs's "spelling in language A maps via its
// token name to language B's spelling" contract.
func Translate(from, to *Table, spelling string) (string, bool) {
	name, ok := from.Lookup(spelling)
	if !ok {
		return "", false
	}
	return to.SpellingOf(name)
}
