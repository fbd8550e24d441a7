package deck

import (
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Und, collate.Numeric, collate.IgnoreCase)
)

// compareNatural orders names alphanumerically: case-insensitive, with digit
// runs compared by value ("Unit 2" < "Unit 10"). Names equal under that order
// fall back to byte order so sorting is total.
func compareNatural(a, b string) int {
	collatorMu.Lock()
	r := collator.CompareString(a, b)
	collatorMu.Unlock()
	if r != 0 {
		return r
	}
	return strings.Compare(a, b)
}
