// Package i18n provides text lookup for user-facing grid labels.
//
// A Catalog holds texts per language. A Translator is bound to one negotiated
// language and is handed explicitly to the components that render labels;
// there is no process-wide current language.
package i18n

import (
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/text/language"
)

// DefaultLang is used when negotiation finds no better match.
const DefaultLang = "en"

// Catalog stores translated texts keyed by language and key.
type Catalog struct {
	mu    sync.RWMutex
	texts map[string]map[string]string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{texts: make(map[string]map[string]string)}
}

// Add merges texts for lang. Keys are stored as prefix|key when prefix is set.
// Without update, an existing key with a different value is kept and reported.
func (c *Catalog) Add(lang, prefix string, texts map[string]string, update bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prefix != "" {
		prefix += "|"
	}
	bucket, ok := c.texts[lang]
	if !ok {
		bucket = make(map[string]string, len(texts))
		c.texts[lang] = bucket
	}
	for k, v := range texts {
		if old, exists := bucket[prefix+k]; exists && !update && old != v {
			slog.Warn("i18n: key already present", "key", k, "lang", lang)
			continue
		}
		bucket[prefix+k] = v
	}
}

// Languages returns the catalog languages sorted, DefaultLang first.
func (c *Catalog) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	langs := make([]string, 0, len(c.texts))
	for l := range c.texts {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool {
		if langs[i] == DefaultLang || langs[j] == DefaultLang {
			return langs[i] == DefaultLang
		}
		return langs[i] < langs[j]
	})
	return langs
}

// Translator negotiates the best catalog language for the given preferences.
// Each preference may be a BCP 47 tag or a full Accept-Language header value.
func (c *Catalog) Translator(prefs ...string) *Translator {
	langs := c.Languages()
	if len(langs) == 0 {
		return &Translator{catalog: c, lang: DefaultLang}
	}

	supported := make([]language.Tag, len(langs))
	for i, l := range langs {
		supported[i] = language.Make(l)
	}

	var wanted []language.Tag
	for _, p := range prefs {
		tags, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		wanted = append(wanted, tags...)
	}

	lang := langs[0]
	if len(wanted) > 0 {
		_, idx, conf := language.NewMatcher(supported).Match(wanted...)
		if conf != language.No {
			lang = langs[idx]
		}
	}
	return &Translator{catalog: c, lang: lang}
}

// Translator looks up texts for one language.
type Translator struct {
	catalog *Catalog
	lang    string
}

// Lang returns the negotiated language.
func (t *Translator) Lang() string {
	if t == nil {
		return DefaultLang
	}
	return t.lang
}

// T returns the text for key, falling back to DefaultLang and then to key itself.
func (t *Translator) T(key string) string {
	return t.TP("", key)
}

// TP looks up prefix|key first, then key, each in the translator language
// before DefaultLang.
func (t *Translator) TP(prefix, key string) string {
	if key == "" {
		return ""
	}
	if t == nil || t.catalog == nil {
		return key
	}

	t.catalog.mu.RLock()
	defer t.catalog.mu.RUnlock()

	candidates := []string{key}
	if prefix != "" {
		candidates = []string{prefix + "|" + key, key}
	}
	for _, k := range candidates {
		for _, lang := range []string{t.lang, DefaultLang} {
			if v, ok := t.catalog.texts[lang][k]; ok {
				return v
			}
		}
	}
	return key
}

// Grid label keys.
const (
	KeyEmptyEntry = "empty"
	KeySortHint   = "sort_hint"
	KeyFilterHint = "filter_hint"
	KeyNoRecords  = "no_records"
)

// DefaultCatalog returns a catalog with the grid labels.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	c.Add("en", "grid", map[string]string{
		KeyEmptyEntry: "(empty)",
		KeySortHint:   "click to sort",
		KeyFilterHint: "click to filter, right click to clear",
		KeyNoRecords:  "no records",
	}, false)
	c.Add("ru", "grid", map[string]string{
		KeyEmptyEntry: "(пусто)",
		KeySortHint:   "нажмите для сортировки",
		KeyFilterHint: "нажмите для фильтра, правый клик для сброса",
		KeyNoRecords:  "нет записей",
	}, false)
	c.Add("de", "grid", map[string]string{
		KeyEmptyEntry: "(leer)",
		KeySortHint:   "zum Sortieren klicken",
		KeyFilterHint: "zum Filtern klicken, Rechtsklick zum Zurücksetzen",
		KeyNoRecords:  "keine Einträge",
	}, false)
	return c
}
