package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestEveryKeyTranslated(t *testing.T) {
	base := messages[language.English]
	for tag, msgs := range messages {
		if len(msgs) != len(base) {
			t.Fatalf("%s has %d messages, english has %d", tag, len(msgs), len(base))
		}
		for key := range base {
			if _, ok := msgs[key]; !ok {
				t.Fatalf("%s is missing %s", tag, key)
			}
		}
	}
}

func TestTFormatsArguments(t *testing.T) {
	if got := T(language.English, KeyOutOfRange, "150"); got != "You are outside the allowed area (150 m)" {
		t.Fatalf("unexpected english message %q", got)
	}
	if got := T(language.Arabic, KeyOutOfRange, "150"); got != "أنت خارج نطاق الموقع المسموح (150 متر)" {
		t.Fatalf("unexpected arabic message %q", got)
	}
	if got := T(language.Arabic, KeyDuplicate); got != "لقد قمت بالتسجيل مسبقاً" {
		t.Fatalf("unexpected arabic duplicate message %q", got)
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		lang, accept string
		want         language.Tag
	}{
		{"en", "ar", language.English},
		{"", "ar-SA,ar;q=0.9", language.Arabic},
		{"", "en-GB,en;q=0.8", language.English},
		{"", "", language.Arabic},
		{"xx-invalid-", "", language.Arabic},
		{"", "ja-JP", language.Arabic},
	}
	for _, tc := range cases {
		if got := Resolve(tc.lang, tc.accept, language.Arabic); got != tc.want {
			t.Fatalf("Resolve(%q, %q) = %s, want %s", tc.lang, tc.accept, got, tc.want)
		}
	}
}
