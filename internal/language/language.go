package language

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
)

// Language represents a language the transcription engines accept.
// Name is the canonical lowercase name the engines use in output naming.
type Language struct {
	Code string
	Name string
}

// Autodetect is the code passed to engines when no language is forced.
const Autodetect = "auto"

// Languages maps ISO 639-1 (or whisper-extended) codes to languages.
var Languages = map[string]Language{
	"en":  {Code: "en", Name: "english"},
	"zh":  {Code: "zh", Name: "chinese"},
	"de":  {Code: "de", Name: "german"},
	"es":  {Code: "es", Name: "spanish"},
	"ru":  {Code: "ru", Name: "russian"},
	"ko":  {Code: "ko", Name: "korean"},
	"fr":  {Code: "fr", Name: "french"},
	"ja":  {Code: "ja", Name: "japanese"},
	"pt":  {Code: "pt", Name: "portuguese"},
	"tr":  {Code: "tr", Name: "turkish"},
	"pl":  {Code: "pl", Name: "polish"},
	"ca":  {Code: "ca", Name: "catalan"},
	"nl":  {Code: "nl", Name: "dutch"},
	"ar":  {Code: "ar", Name: "arabic"},
	"sv":  {Code: "sv", Name: "swedish"},
	"it":  {Code: "it", Name: "italian"},
	"id":  {Code: "id", Name: "indonesian"},
	"hi":  {Code: "hi", Name: "hindi"},
	"fi":  {Code: "fi", Name: "finnish"},
	"vi":  {Code: "vi", Name: "vietnamese"},
	"he":  {Code: "he", Name: "hebrew"},
	"uk":  {Code: "uk", Name: "ukrainian"},
	"el":  {Code: "el", Name: "greek"},
	"ms":  {Code: "ms", Name: "malay"},
	"cs":  {Code: "cs", Name: "czech"},
	"ro":  {Code: "ro", Name: "romanian"},
	"da":  {Code: "da", Name: "danish"},
	"hu":  {Code: "hu", Name: "hungarian"},
	"ta":  {Code: "ta", Name: "tamil"},
	"no":  {Code: "no", Name: "norwegian"},
	"th":  {Code: "th", Name: "thai"},
	"ur":  {Code: "ur", Name: "urdu"},
	"hr":  {Code: "hr", Name: "croatian"},
	"bg":  {Code: "bg", Name: "bulgarian"},
	"lt":  {Code: "lt", Name: "lithuanian"},
	"la":  {Code: "la", Name: "latin"},
	"mi":  {Code: "mi", Name: "maori"},
	"ml":  {Code: "ml", Name: "malayalam"},
	"cy":  {Code: "cy", Name: "welsh"},
	"sk":  {Code: "sk", Name: "slovak"},
	"te":  {Code: "te", Name: "telugu"},
	"fa":  {Code: "fa", Name: "persian"},
	"lv":  {Code: "lv", Name: "latvian"},
	"bn":  {Code: "bn", Name: "bengali"},
	"sr":  {Code: "sr", Name: "serbian"},
	"az":  {Code: "az", Name: "azerbaijani"},
	"sl":  {Code: "sl", Name: "slovenian"},
	"kn":  {Code: "kn", Name: "kannada"},
	"et":  {Code: "et", Name: "estonian"},
	"mk":  {Code: "mk", Name: "macedonian"},
	"br":  {Code: "br", Name: "breton"},
	"eu":  {Code: "eu", Name: "basque"},
	"is":  {Code: "is", Name: "icelandic"},
	"hy":  {Code: "hy", Name: "armenian"},
	"ne":  {Code: "ne", Name: "nepali"},
	"mn":  {Code: "mn", Name: "mongolian"},
	"bs":  {Code: "bs", Name: "bosnian"},
	"kk":  {Code: "kk", Name: "kazakh"},
	"sq":  {Code: "sq", Name: "albanian"},
	"sw":  {Code: "sw", Name: "swahili"},
	"gl":  {Code: "gl", Name: "galician"},
	"mr":  {Code: "mr", Name: "marathi"},
	"pa":  {Code: "pa", Name: "punjabi"},
	"si":  {Code: "si", Name: "sinhala"},
	"km":  {Code: "km", Name: "khmer"},
	"sn":  {Code: "sn", Name: "shona"},
	"yo":  {Code: "yo", Name: "yoruba"},
	"so":  {Code: "so", Name: "somali"},
	"af":  {Code: "af", Name: "afrikaans"},
	"oc":  {Code: "oc", Name: "occitan"},
	"ka":  {Code: "ka", Name: "georgian"},
	"be":  {Code: "be", Name: "belarusian"},
	"tg":  {Code: "tg", Name: "tajik"},
	"sd":  {Code: "sd", Name: "sindhi"},
	"gu":  {Code: "gu", Name: "gujarati"},
	"am":  {Code: "am", Name: "amharic"},
	"yi":  {Code: "yi", Name: "yiddish"},
	"lo":  {Code: "lo", Name: "lao"},
	"uz":  {Code: "uz", Name: "uzbek"},
	"fo":  {Code: "fo", Name: "faroese"},
	"ht":  {Code: "ht", Name: "haitian creole"},
	"ps":  {Code: "ps", Name: "pashto"},
	"tk":  {Code: "tk", Name: "turkmen"},
	"nn":  {Code: "nn", Name: "nynorsk"},
	"mt":  {Code: "mt", Name: "maltese"},
	"sa":  {Code: "sa", Name: "sanskrit"},
	"lb":  {Code: "lb", Name: "luxembourgish"},
	"my":  {Code: "my", Name: "myanmar"},
	"bo":  {Code: "bo", Name: "tibetan"},
	"tl":  {Code: "tl", Name: "tagalog"},
	"mg":  {Code: "mg", Name: "malagasy"},
	"as":  {Code: "as", Name: "assamese"},
	"tt":  {Code: "tt", Name: "tatar"},
	"haw": {Code: "haw", Name: "hawaiian"},
	"ln":  {Code: "ln", Name: "lingala"},
	"ha":  {Code: "ha", Name: "hausa"},
	"ba":  {Code: "ba", Name: "bashkir"},
	"jw":  {Code: "jw", Name: "javanese"},
	"su":  {Code: "su", Name: "sundanese"},
}

var byName = func() map[string]Language {
	m := make(map[string]Language, len(Languages))
	for _, lang := range Languages {
		m[lang.Name] = lang
	}
	return m
}()

var titleCaser = cases.Title(xlang.English)

// GetLanguage returns the language for a strict code match.
func GetLanguage(code string) (Language, bool) {
	lang, ok := Languages[code]
	return lang, ok
}

// FromName resolves a language by name, case-insensitively.
func FromName(name string) (Language, bool) {
	lang, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	return lang, ok
}

// DisplayName returns the name cased for UI display, e.g. "Haitian Creole".
func (l Language) DisplayName() string {
	return titleCaser.String(l.Name)
}

// SupportedLanguages returns all languages sorted by name.
func SupportedLanguages() []Language {
	entries := make([]Language, 0, len(Languages))
	for _, v := range Languages {
		entries = append(entries, v)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// DisplayNames returns the dropdown list for language selection, sorted.
func DisplayNames() []string {
	langs := SupportedLanguages()
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		out = append(out, l.DisplayName())
	}
	return out
}
