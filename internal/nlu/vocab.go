package nlu

import "newsvox/internal/i18n"

// Category is one news category and the keywords that select it.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// NumberWord maps a spelled-out numeral to its value.
type NumberWord struct {
	Word  string `yaml:"word"`
	Value int    `yaml:"value"`
}

// Vocabulary holds every fixed word list the classifier and resolver match
// against. Order inside each list is significant where noted.
type Vocabulary struct {
	StopExact     []string `yaml:"stopExact"`
	StopPhrases   []string `yaml:"stopPhrases"`
	PausePhrases  []string `yaml:"pausePhrases"`
	ResumePhrases []string `yaml:"resumePhrases"`
	Headlines     []string `yaml:"headlines"`
	YesWords      []string `yaml:"yesWords"`
	NoWords       []string `yaml:"noWords"`
	SelectVerbs   []string `yaml:"selectVerbs"`
	Latest        []string `yaml:"latest"`
	// Categories are matched in declared order; the first hit wins.
	Categories      []Category `yaml:"categories"`
	DefaultCategory string     `yaml:"defaultCategory"`
	GenericKeyword  string     `yaml:"genericKeyword"`
	QueryTriggers   []string   `yaml:"queryTriggers"`
	Stopwords       []string   `yaml:"stopwords"`
	// NumberWords is keyed by base language ("en", "hi"). "en" is always
	// consulted; entries are scanned in declared order.
	NumberWords map[string][]NumberWord `yaml:"numberWords"`
	// BareNumberWords lets a lone number word ("three") count as a
	// selection without "open"/"select" in front of it.
	BareNumberWords bool `yaml:"bareNumberWords"`
}

func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		StopExact:     []string{"stop"},
		StopPhrases:   []string{"stop listening"},
		PausePhrases:  []string{"pause listening"},
		ResumePhrases: []string{"resume listening"},
		Headlines:     []string{"read the headlines"},
		YesWords:      []string{"yes", "yeah", "yup", "sure", "ok", "okay"},
		NoWords:       []string{"no", "nope", "nah"},
		SelectVerbs:   []string{"select", "open"},
		Latest:        []string{"latest news", "headlines", "breaking news", "top news"},
		Categories: []Category{
			{Name: "business", Keywords: []string{"business"}},
			{Name: "entertainment", Keywords: []string{"entertainment"}},
			{Name: "general", Keywords: []string{"general"}},
			{Name: "health", Keywords: []string{"health"}},
			{Name: "science", Keywords: []string{"science"}},
			{Name: "sports", Keywords: []string{"sports", "cricket", "football"}},
			{Name: "technology", Keywords: []string{"technology", "tech"}},
		},
		DefaultCategory: "general",
		GenericKeyword:  "news",
		QueryTriggers:   []string{"about", "on", "for", "regarding"},
		Stopwords:       []string{"news", "about", "on", "for", "regarding"},
		NumberWords: map[string][]NumberWord{
			"en": {
				{"one", 1}, {"two", 2}, {"three", 3}, {"four", 4}, {"five", 5},
				{"six", 6}, {"seven", 7}, {"eight", 8}, {"nine", 9}, {"ten", 10},
			},
			"hi": {
				{"एक", 1}, {"दो", 2}, {"तीन", 3}, {"चार", 4}, {"पांच", 5},
				{"छह", 6}, {"सात", 7}, {"आठ", 8}, {"नौ", 9}, {"दस", 10},
			},
		},
		BareNumberWords: true,
	}
}

// numberMaps returns the word maps to scan for lang, English first.
func (v *Vocabulary) numberMaps(lang string) [][]NumberWord {
	maps := [][]NumberWord{v.NumberWords["en"]}
	if base := i18n.Base(lang); base != "en" {
		if m, ok := v.NumberWords[base]; ok {
			maps = append(maps, m)
		}
	}
	return maps
}

func (v *Vocabulary) isNumberWord(word, lang string) bool {
	for _, m := range v.numberMaps(lang) {
		for _, nw := range m {
			if nw.Word == word {
				return true
			}
		}
	}
	return false
}
