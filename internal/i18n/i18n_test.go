package i18n

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestCatalogsHaveSameKeys(t *testing.T) {
	for id := range messagesEN {
		if _, ok := messagesZH[id]; !ok {
			t.Errorf("missing Chinese message for %q", id)
		}
	}
	for id := range messagesZH {
		if _, ok := messagesEN[id]; !ok {
			t.Errorf("missing English message for %q", id)
		}
	}
}

func TestCatalogsHaveSameVerbs(t *testing.T) {
	for id, en := range messagesEN {
		zh := messagesZH[id]
		if strings.Count(en, "%") != strings.Count(zh, "%") {
			t.Errorf("%q: format verbs differ between %q and %q", id, en, zh)
		}
	}
}

func TestTranslate(t *testing.T) {
	be.Equal(t, TIn(LangEnglish, ErrUndefinedIdent, "x"), "cannot find symbol 'x'")
	be.Equal(t, TIn(LangChinese, "no.such.message"), "no.such.message")
	be.True(t, Has(ErrNoClass))
	be.True(t, !Has("no.such.message"))
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{"zh", LangChinese},
		{" ZH-CN ", LangChinese},
		{"en", LangEnglish},
		{"fr", LangEnglish},
		{"", LangEnglish},
	}
	for _, tt := range tests {
		be.Equal(t, ParseLanguage(tt.in), tt.want)
	}
}
