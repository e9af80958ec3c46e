// Package i18n loads the page's message catalogs and picks a language per
// request.
package i18n

import (
	"embed"
	"fmt"
	"html"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "copa_lang"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

var (
	plainPolicyOnce sync.Once
	plainPolicy     *bluemonday.Policy
)

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle holds every locale's messages in an x/text catalog
type Bundle struct {
	catalog  *catalog.Builder
	tags     []language.Tag
	matcher  language.Matcher
	fallback language.Tag
	messages map[language.Tag]map[string]string
}

// LoadEmbedded loads the catalogs shipped with the binary
func LoadEmbedded(defaultLang string) (*Bundle, error) {
	return LoadFromFS(embeddedLocales, defaultLang)
}

// LoadFromFS loads locales/*.yaml from fsys. Every locale must define the
// same keys as the default one, and messages must be plain text.
func LoadFromFS(fsys fs.FS, defaultLang string) (*Bundle, error) {
	fallback, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("parse default language %q: %w", defaultLang, err)
	}

	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	b := &Bundle{
		catalog:  catalog.NewBuilder(catalog.Fallback(fallback)),
		fallback: fallback,
		messages: make(map[language.Tag]map[string]string),
	}

	for _, p := range paths {
		tag, messages, err := readLocale(fsys, p)
		if err != nil {
			return nil, err
		}
		if _, dup := b.messages[tag]; dup {
			return nil, fmt.Errorf("locale %s: defined twice", tag)
		}
		for key, msg := range messages {
			if err := b.catalog.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("locale %s: set %q: %w", tag, key, err)
			}
		}
		b.messages[tag] = messages
	}

	base, ok := b.messages[fallback]
	if !ok {
		return nil, fmt.Errorf("default language %s has no locale file", fallback)
	}
	for tag, messages := range b.messages {
		for key := range base {
			if _, ok := messages[key]; !ok {
				return nil, fmt.Errorf("locale %s: missing key %q", tag, key)
			}
		}
	}

	// the matcher falls back to the first tag
	b.tags = append(b.tags, fallback)
	others := make([]language.Tag, 0, len(b.messages)-1)
	for tag := range b.messages {
		if tag != fallback {
			others = append(others, tag)
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i].String() < others[j].String() })
	b.tags = append(b.tags, others...)
	b.matcher = language.NewMatcher(b.tags)

	return b, nil
}

func readLocale(fsys fs.FS, p string) (language.Tag, map[string]string, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return language.Und, nil, fmt.Errorf("read %s: %w", p, err)
	}

	var file localeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return language.Und, nil, fmt.Errorf("parse %s: %w", p, err)
	}

	name := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if strings.TrimSpace(file.Locale) != name {
		return language.Und, nil, fmt.Errorf("%s: locale %q must match file name", p, file.Locale)
	}
	tag, err := language.Parse(name)
	if err != nil {
		return language.Und, nil, fmt.Errorf("%s: %w", p, err)
	}
	if len(file.Messages) == 0 {
		return language.Und, nil, fmt.Errorf("%s: no messages", p)
	}
	for key, msg := range file.Messages {
		if !isPlainText(msg) {
			return language.Und, nil, fmt.Errorf("%s: message %q contains markup", p, key)
		}
	}
	return tag, file.Messages, nil
}

// isPlainText reports whether msg survives a strict sanitizer unchanged.
// Messages are rendered escaped, so markup would show up literally.
func isPlainText(msg string) bool {
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(plainPolicy.Sanitize(msg)) == msg
}

// Supported returns the supported tags, default first
func (b *Bundle) Supported() []language.Tag {
	return append([]language.Tag(nil), b.tags...)
}

// Default returns the fallback tag
func (b *Bundle) Default() language.Tag {
	return b.fallback
}

// Match maps arbitrary tags onto a supported one
func (b *Bundle) Match(tags ...language.Tag) language.Tag {
	if len(tags) == 0 {
		return b.fallback
	}
	_, index, confidence := b.matcher.Match(tags...)
	if confidence == language.No {
		return b.fallback
	}
	return b.tags[index]
}

// Parse returns the supported tag for value, if any
func (b *Bundle) Parse(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return language.Und, false
	}
	_, index, confidence := b.matcher.Match(tag)
	if confidence == language.No {
		return language.Und, false
	}
	return b.tags[index], true
}

// Resolve determines the language for a request: query param, then cookie,
// then Accept-Language. The bool reports whether the choice came from the
// query param and should be persisted.
func (b *Bundle) Resolve(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return b.fallback, false
	}

	if v := r.URL.Query().Get(LangParam); v != "" {
		if tag, ok := b.Parse(v); ok {
			return tag, true
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := b.Parse(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return b.Match(tags...), false
		}
	}

	return b.fallback, false
}

// SetLanguageCookie persists the selected language on the response
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// Localizer translates keys for one language
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// Localizer returns a localizer for tag
func (b *Bundle) Localizer(tag language.Tag) *Localizer {
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b.catalog)),
	}
}

// Lang returns the BCP 47 tag of the localizer
func (l *Localizer) Lang() string {
	return l.tag.String()
}

// T formats the message for key. Unknown keys are printed as is.
func (l *Localizer) T(key string, args ...interface{}) string {
	return l.printer.Sprintf(key, args...)
}
