package runtime_test

import (
	"testing"

	"github.com/aretw0/luckydraw/internal/runtime"
	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.OptionList
	}{
		{"blank and whitespace lines", "A\n\nB\n  \nC\n", domain.OptionList{"A", "B", "C"}},
		{"crlf and padding", "  Asus \r\nMi\r\n", domain.OptionList{"Asus", "Mi"}},
		{"no trailing newline", "X", domain.OptionList{"X"}},
		{"inner spaces kept", "ROG Phone 8\n", domain.OptionList{"ROG Phone 8"}},
		{"empty", "", domain.OptionList{}},
		{"only newlines", "\n\n", domain.OptionList{}},
		{"decomposed accents", "Sony Xpe\u0301ria\n", domain.OptionList{"Sony Xp\u00e9ria"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runtime.ParseOptions(tt.text))
		})
	}
}
