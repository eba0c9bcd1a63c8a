package speech

import "testing"

func TestVoiceMatchesLocale(t *testing.T) {
	tests := []struct {
		lang   string
		locale string
		want   bool
	}{
		{"tr-TR", "tr-TR", true},
		{"tr_TR", "tr-TR", true},
		{"tr", "tr-TR", true},
		{"TR-tr", "tr-TR", true},
		{"mul", "tr-TR", true},
		{"en-US", "tr-TR", false},
		{"tr-CY", "tr-TR", false},
		{"", "tr-TR", false},
	}
	for _, tt := range tests {
		t.Run(tt.lang+"_"+tt.locale, func(t *testing.T) {
			if got := (Voice{Language: tt.lang}).MatchesLocale(tt.locale); got != tt.want {
				t.Fatalf("MatchesLocale(%q, %q) = %v, want %v", tt.lang, tt.locale, got, tt.want)
			}
		})
	}
}

func TestSelectVoice(t *testing.T) {
	voices := []Voice{
		{ID: "alex", Name: "Alex", Language: "en-US"},
		{ID: "tr", Name: "turkish", Language: "tr"},
		{ID: "yelda", Name: "Yelda", Language: "tr_TR"},
	}
	tests := []struct {
		name      string
		locale    string
		preferred string
		wantID    string
		wantOK    bool
	}{
		{name: "exact locale wins", locale: "tr-TR", wantID: "yelda", wantOK: true},
		{name: "preferred by name", locale: "tr-TR", preferred: "alex", wantID: "alex", wantOK: true},
		{name: "unknown preferred falls back", locale: "tr-TR", preferred: "nova", wantID: "yelda", wantOK: true},
		{name: "no match", locale: "de-DE", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectVoice(voices, tt.locale, tt.preferred)
			if ok != tt.wantOK || got.ID != tt.wantID {
				t.Fatalf("SelectVoice() = %+v, %v; want %q, %v", got, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestLanguageName(t *testing.T) {
	if got := LanguageName("tr-TR"); got != "Turkish" {
		t.Fatalf("expected Turkish, got %q", got)
	}
	if got := LanguageCode("en_US"); got != "en" {
		t.Fatalf("expected en, got %q", got)
	}
}
