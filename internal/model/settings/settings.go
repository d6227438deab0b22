// Package settings defines the flat user-preference record and its
// enumerated option domains. Values outside a domain are coerced back to
// the default rather than stored, so persisted settings always satisfy
// the domain contract.
package settings

import "strings"

type (
	ThemeMode     string
	Language      string
	AnswerStyle   string
	FontSize      string
	AssistantMode string
	Personality   string
	ThemePack     string
	FontStyle     string
	LayoutMode    string
)

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeAmoled ThemeMode = "amoled"
	ThemeAuto   ThemeMode = "auto"

	LanguageID   Language = "id"
	LanguageEN   Language = "en"
	LanguageAuto Language = "auto"

	AnswerBrief    AnswerStyle = "brief"
	AnswerNormal   AnswerStyle = "normal"
	AnswerDetailed AnswerStyle = "detailed"

	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"

	ModeCasual       AssistantMode = "casual"
	ModeProfessional AssistantMode = "professional"
	ModeStudent      AssistantMode = "student"
	ModeCoding       AssistantMode = "coding"
	ModeCreative     AssistantMode = "creative"

	PersonalityFriendly Personality = "friendly"
	PersonalityNeutral  Personality = "neutral"
	PersonalityFirm     Personality = "firm"
	PersonalityHumorous Personality = "humorous"

	PackDefault    ThemePack = "default"
	PackCyberBlue  ThemePack = "cyber-blue"
	PackNeonDark   ThemePack = "neon-dark"
	PackSoftPastel ThemePack = "soft-pastel"

	StyleModern     FontStyle = "modern"
	StyleMinimal    FontStyle = "minimal"
	StyleFuturistic FontStyle = "futuristic"

	LayoutCompact     LayoutMode = "compact"
	LayoutComfortable LayoutMode = "comfortable"
)

// AppSettings is the full preference record persisted under the
// "settings" storage key.
type AppSettings struct {
	ThemePack         ThemePack     `json:"themePack"`
	FontStyle         FontStyle     `json:"fontStyle"`
	LayoutMode        LayoutMode    `json:"layoutMode"`
	Theme             ThemeMode     `json:"theme"`
	Language          Language      `json:"language"`
	AnswerStyle       AnswerStyle   `json:"answerStyle"`
	FontSize          FontSize      `json:"fontSize"`
	AnimationsEnabled bool          `json:"animationsEnabled"`
	VoiceEnabled      bool          `json:"voiceEnabled"`
	VoiceName         string        `json:"voiceName"`
	SafeMode          bool          `json:"safeMode"`
	AssistantMode     AssistantMode `json:"assistantMode"`
	Personality       Personality   `json:"personality"`
}

// Defaults returns the hard-coded baseline configuration.
func Defaults() AppSettings {
	return AppSettings{
		ThemePack:         PackDefault,
		FontStyle:         StyleModern,
		LayoutMode:        LayoutComfortable,
		Theme:             ThemeAuto,
		Language:          LanguageAuto,
		AnswerStyle:       AnswerNormal,
		FontSize:          FontMedium,
		AnimationsEnabled: true,
		VoiceEnabled:      false,
		VoiceName:         "Kore",
		SafeMode:          true,
		AssistantMode:     ModeCasual,
		Personality:       PersonalityFriendly,
	}
}

// Patch carries a partial update; nil fields leave the current value
// untouched.
type Patch struct {
	ThemePack         *ThemePack     `json:"themePack,omitempty"`
	FontStyle         *FontStyle     `json:"fontStyle,omitempty"`
	LayoutMode        *LayoutMode    `json:"layoutMode,omitempty"`
	Theme             *ThemeMode     `json:"theme,omitempty"`
	Language          *Language      `json:"language,omitempty"`
	AnswerStyle       *AnswerStyle   `json:"answerStyle,omitempty"`
	FontSize          *FontSize      `json:"fontSize,omitempty"`
	AnimationsEnabled *bool          `json:"animationsEnabled,omitempty"`
	VoiceEnabled      *bool          `json:"voiceEnabled,omitempty"`
	VoiceName         *string        `json:"voiceName,omitempty"`
	SafeMode          *bool          `json:"safeMode,omitempty"`
	AssistantMode     *AssistantMode `json:"assistantMode,omitempty"`
	Personality       *Personality   `json:"personality,omitempty"`
}

// Merge applies the patch on top of s and returns the result. The
// resulting record is sanitized so an out-of-domain patch value cannot
// corrupt stored settings.
func Merge(s AppSettings, p Patch) AppSettings {
	if p.ThemePack != nil {
		s.ThemePack = *p.ThemePack
	}
	if p.FontStyle != nil {
		s.FontStyle = *p.FontStyle
	}
	if p.LayoutMode != nil {
		s.LayoutMode = *p.LayoutMode
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.AnswerStyle != nil {
		s.AnswerStyle = *p.AnswerStyle
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.AnimationsEnabled != nil {
		s.AnimationsEnabled = *p.AnimationsEnabled
	}
	if p.VoiceEnabled != nil {
		s.VoiceEnabled = *p.VoiceEnabled
	}
	if p.VoiceName != nil {
		s.VoiceName = strings.TrimSpace(*p.VoiceName)
	}
	if p.SafeMode != nil {
		s.SafeMode = *p.SafeMode
	}
	if p.AssistantMode != nil {
		s.AssistantMode = *p.AssistantMode
	}
	if p.Personality != nil {
		s.Personality = *p.Personality
	}
	return Sanitize(s)
}

// Sanitize replaces any out-of-domain field with its default value.
// Unknown values typically come from hand-edited or stale persisted
// payloads.
func Sanitize(s AppSettings) AppSettings {
	def := Defaults()
	switch s.ThemePack {
	case PackDefault, PackCyberBlue, PackNeonDark, PackSoftPastel:
	default:
		s.ThemePack = def.ThemePack
	}
	switch s.FontStyle {
	case StyleModern, StyleMinimal, StyleFuturistic:
	default:
		s.FontStyle = def.FontStyle
	}
	switch s.LayoutMode {
	case LayoutCompact, LayoutComfortable:
	default:
		s.LayoutMode = def.LayoutMode
	}
	switch s.Theme {
	case ThemeLight, ThemeDark, ThemeAmoled, ThemeAuto:
	default:
		s.Theme = def.Theme
	}
	switch s.Language {
	case LanguageID, LanguageEN, LanguageAuto:
	default:
		s.Language = def.Language
	}
	switch s.AnswerStyle {
	case AnswerBrief, AnswerNormal, AnswerDetailed:
	default:
		s.AnswerStyle = def.AnswerStyle
	}
	switch s.FontSize {
	case FontSmall, FontMedium, FontLarge:
	default:
		s.FontSize = def.FontSize
	}
	switch s.AssistantMode {
	case ModeCasual, ModeProfessional, ModeStudent, ModeCoding, ModeCreative:
	default:
		s.AssistantMode = def.AssistantMode
	}
	switch s.Personality {
	case PersonalityFriendly, PersonalityNeutral, PersonalityFirm, PersonalityHumorous:
	default:
		s.Personality = def.Personality
	}
	if strings.TrimSpace(s.VoiceName) == "" {
		s.VoiceName = def.VoiceName
	}
	return s
}
