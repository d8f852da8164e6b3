package app

import (
	"os"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sortNatural orders file names the way a file browser does: locale aware, with digit runs
// compared by value so IMG_2 comes before IMG_10.
func sortNatural(names []string) {
	collator := collate.New(userLocale(), collate.Numeric, collate.IgnoreCase)
	sort.SliceStable(names, func(i, j int) bool {
		if c := collator.CompareString(names[i], names[j]); c != 0 {
			return c < 0
		}
		return names[i] < names[j]
	})
}

func userLocale() language.Tag {
	for _, key := range []string{"LC_ALL", "LC_COLLATE", "LANG"} {
		value := strings.TrimSpace(os.Getenv(key))
		if value == "" || value == "C" || value == "POSIX" {
			continue
		}
		value, _, _ = strings.Cut(value, ".")
		value, _, _ = strings.Cut(value, "@")
		tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
		if err == nil {
			return tag
		}
	}
	return language.Und
}
