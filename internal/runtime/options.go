package runtime

import (
	"strings"

	"github.com/aretw0/luckydraw/pkg/domain"
	"golang.org/x/text/unicode/norm"
)

// ParseOptions splits resource text into candidates: one per line,
// surrounding whitespace trimmed, blank lines discarded.
// Lines are NFC-normalized so decomposed text still matches lookup tables.
func ParseOptions(text string) domain.OptionList {
	lines := strings.Split(text, "\n")
	options := make(domain.OptionList, 0, len(lines))
	for _, line := range lines {
		if opt := strings.TrimSpace(line); opt != "" {
			options = append(options, norm.NFC.String(opt))
		}
	}
	return options
}
