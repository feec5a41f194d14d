// Package lexicon holds the domain vocabulary used to compare product names:
// stop words, synonym classes, category rules and technical-spec patterns.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed default.yaml
var defaultYAML []byte

// Category — правило категории: первое сработавшее даёт название виртуальной группы.
type Category struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// Lexicon — загруженный и подготовленный словарь. Только для чтения.
type Lexicon struct {
	StopWords    []string   `yaml:"stop_words"`
	Synonyms     [][]string `yaml:"synonyms"`
	Categories   []Category `yaml:"categories"`
	SpecPatterns []string   `yaml:"spec_patterns"`
	Exclude      []string   `yaml:"exclude"`

	stop     map[string]struct{}
	classes  map[string][]int // token -> индексы классов синонимов
	specs    []*regexp.Regexp
	keywords []string
	exclude  map[string]struct{}
}

// Default — встроенный словарь.
func Default() *Lexicon {
	lex, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("lexicon: embedded default: %v", err))
	}
	return lex
}

// DefaultYAML — исходный текст встроенного словаря (образец для своего файла).
func DefaultYAML() []byte {
	out := make([]byte, len(defaultYAML))
	copy(out, defaultYAML)
	return out
}

// Load читает словарь из YAML-файла.
func Load(path string) (*Lexicon, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	lex, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	return lex, nil
}

// LoadOrDefault — Load, если путь задан, иначе Default.
func LoadOrDefault(path string) (*Lexicon, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse разбирает YAML и компилирует словарь.
func Parse(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if err := lex.compile(); err != nil {
		return nil, err
	}
	return &lex, nil
}

func (l *Lexicon) compile() error {
	l.stop = make(map[string]struct{}, len(l.StopWords))
	for _, w := range l.StopWords {
		l.stop[Fold(w)] = struct{}{}
	}

	l.classes = make(map[string][]int)
	for i, class := range l.Synonyms {
		for _, w := range class {
			w = Fold(w)
			l.classes[w] = append(l.classes[w], i)
		}
	}

	l.keywords = l.keywords[:0]
	for i, c := range l.Categories {
		if strings.TrimSpace(c.Label) == "" {
			return fmt.Errorf("category %d: empty label", i)
		}
		for j, kw := range c.Keywords {
			kw = Fold(kw)
			l.Categories[i].Keywords[j] = kw
			if kw != "" {
				l.keywords = append(l.keywords, kw)
			}
		}
	}

	l.specs = l.specs[:0]
	for _, p := range l.SpecPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("spec pattern %q: %w", p, err)
		}
		l.specs = append(l.specs, re)
	}

	l.exclude = make(map[string]struct{}, len(l.Exclude))
	for _, w := range l.Exclude {
		l.exclude[Fold(w)] = struct{}{}
	}
	return nil
}

// Fold: нижний регистр, ё→е.
func Fold(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "ё", "е")
}

// IsStopWord — служебное слово.
func (l *Lexicon) IsStopWord(tok string) bool {
	_, ok := l.stop[tok]
	return ok
}

// IsCategory — токен начинается с ключевого слова какой-либо категории.
func (l *Lexicon) IsCategory(tok string) bool {
	for _, kw := range l.keywords {
		if strings.HasPrefix(tok, kw) {
			return true
		}
	}
	return false
}

// IsSpec — токен похож на техническую характеристику.
func (l *Lexicon) IsSpec(tok string) bool {
	for _, re := range l.specs {
		if re.MatchString(tok) {
			return true
		}
	}
	return false
}

// AreSynonyms — a и b различны и входят в один класс.
func (l *Lexicon) AreSynonyms(a, b string) bool {
	if a == b {
		return false
	}
	ca, ok := l.classes[a]
	if !ok {
		return false
	}
	for _, i := range ca {
		for _, j := range l.classes[b] {
			if i == j {
				return true
			}
		}
	}
	return false
}

// HasSynonyms — токен входит хотя бы в один класс.
func (l *Lexicon) HasSynonyms(tok string) bool {
	_, ok := l.classes[tok]
	return ok
}

// CategoryLabel — название первой категории, ключевое слово которой совпало с одним из токенов.
func (l *Lexicon) CategoryLabel(tokens []string) (string, bool) {
	for _, c := range l.Categories {
		for _, kw := range c.Keywords {
			if kw == "" {
				continue
			}
			for _, tok := range tokens {
				if strings.HasPrefix(tok, kw) {
					return c.Label, true
				}
			}
		}
	}
	return "", false
}

// Excluded — среди токенов есть исключённый.
func (l *Lexicon) Excluded(tokens []string) bool {
	if len(l.exclude) == 0 {
		return false
	}
	for _, tok := range tokens {
		if _, ok := l.exclude[tok]; ok {
			return true
		}
	}
	return false
}
