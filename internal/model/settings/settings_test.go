package settings

import "testing"

func TestMergeAppliesOnlyProvidedFields(t *testing.T) {
	theme := ThemeDark
	voice := true
	merged := Merge(Defaults(), Patch{Theme: &theme, VoiceEnabled: &voice})

	if merged.Theme != ThemeDark {
		t.Fatalf("theme not applied: %s", merged.Theme)
	}
	if !merged.VoiceEnabled {
		t.Fatal("voiceEnabled not applied")
	}
	if merged.Language != LanguageAuto || merged.AnswerStyle != AnswerNormal {
		t.Fatal("untouched fields changed")
	}
}

func TestMergeCoercesOutOfDomainValues(t *testing.T) {
	bogus := ThemeMode("solarized")
	merged := Merge(Defaults(), Patch{Theme: &bogus})
	if merged.Theme != ThemeAuto {
		t.Fatalf("out-of-domain theme stored: %s", merged.Theme)
	}
}

func TestSanitizeRepairsEveryDomain(t *testing.T) {
	broken := AppSettings{
		ThemePack:         "rainbow",
		FontStyle:         "comic-sans",
		LayoutMode:        "sprawling",
		Theme:             "sepia",
		Language:          "fr",
		AnswerStyle:       "rambling",
		FontSize:          "gigantic",
		AssistantMode:     "pirate",
		Personality:       "grumpy",
		VoiceName:         "   ",
		AnimationsEnabled: true,
		SafeMode:          true,
	}

	fixed := Sanitize(broken)
	if fixed != Defaults() {
		t.Fatalf("sanitize did not restore defaults: %+v", fixed)
	}
}

func TestMergeTrimsVoiceName(t *testing.T) {
	name := "  Puck  "
	merged := Merge(Defaults(), Patch{VoiceName: &name})
	if merged.VoiceName != "Puck" {
		t.Fatalf("voice name not trimmed: %q", merged.VoiceName)
	}
}
