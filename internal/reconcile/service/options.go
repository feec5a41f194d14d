package service

import "kp-summary/internal/reconcile/lexicon"

// Подписи строк вариантов и аналогов по умолчанию; %d — номер внутри якоря.
const (
	DefaultVariantSuffix = "(variant %d)"
	DefaultAnalogSuffix  = "(analog %d)"
)

// Options настраивают прогон сводки. Нулевое значение пригодно к использованию.
type Options struct {
	Lexicon       *lexicon.Lexicon // nil — встроенный словарь
	Observer      Observer         // nil — без трассировки
	Exclude       ExcludeFunc      // nil — по списку exclude из словаря
	VariantSuffix string
	AnalogSuffix  string
}

func (o Options) variantSuffix() string {
	if o.VariantSuffix == "" {
		return DefaultVariantSuffix
	}
	return o.VariantSuffix
}

func (o Options) analogSuffix() string {
	if o.AnalogSuffix == "" {
		return DefaultAnalogSuffix
	}
	return o.AnalogSuffix
}
