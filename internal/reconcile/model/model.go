package model

// SourceRow — одна строка листа поставщика в том виде, как её отдал адаптер.
// Числа остаются текстом: разбор делается там, где значения сравниваются.
type SourceRow struct {
	Name         string // наименование
	RequestedQty string // количество запрошенное
	OfferedQty   string // количество предложенное
	UnitPrice    string // цена без НДС за шт
	LeadTime     string // сроки поставки
	Comment      string // комментарий поставщика
	Highlighted  bool   // строка залита цветом
	Indented     bool   // наименование с отступом
}

// Source — один лист КП (один поставщик).
type Source struct {
	ID   string
	Rows []SourceRow
}

// Offer — блок предложения поставщика по одной позиции.
type Offer struct {
	OfferedQty string `json:"offeredQty"`
	UnitPrice  string `json:"unitPrice"`
	LeadTime   string `json:"leadTime"`
	Comment    string `json:"comment"`
}

// IsEmpty — во всех полях пусто.
func (o Offer) IsEmpty() bool {
	return o.OfferedQty == "" && o.UnitPrice == "" && o.LeadTime == "" && o.Comment == ""
}

// Fill дописывает в o непустые поля из other (поздние строки дополняют ранние).
func (o Offer) Fill(other Offer) Offer {
	if other.OfferedQty != "" {
		o.OfferedQty = other.OfferedQty
	}
	if other.UnitPrice != "" {
		o.UnitPrice = other.UnitPrice
	}
	if other.LeadTime != "" {
		o.LeadTime = other.LeadTime
	}
	if other.Comment != "" {
		o.Comment = other.Comment
	}
	return o
}

// RawRecord — классифицированная запись источника. После создания не меняется.
type RawRecord struct {
	SourceID     string
	SourceIndex  int // порядковый номер источника во входе
	RowIndex     int // номер строки внутри источника (0-based, без пропусков пустых)
	Name         string
	NameKey      string // нормализованное наименование
	RequestedQty string
	Offer        Offer
	IsSecondary  bool
}

// AnalogCluster — вторичные записи с одинаковым нормализованным именем из разных источников.
type AnalogCluster struct {
	Key          string
	Name         string           // исходное наименование первой записи
	RequestedQty string           // первое непустое среди участников
	Offers       map[string]Offer // sourceID -> offer
	Members      []RawRecord
}

// AnchorGroup — якорь (реальный или виртуальный) с вариантами и аналогами.
type AnchorGroup struct {
	Key         string
	DisplayName string
	IsVirtual   bool
	Mains       []RawRecord
	Variants    []RawRecord
	Analogs     []*AnalogCluster
}

// RequestedQty — лучшее известное количество по основным записям якоря.
func (g *AnchorGroup) RequestedQty() string {
	for _, m := range g.Mains {
		if m.RequestedQty != "" {
			return m.RequestedQty
		}
	}
	return ""
}

// RowKind — происхождение строки итоговой таблицы.
type RowKind string

const (
	KindAnchor  RowKind = "anchor"
	KindVariant RowKind = "variant"
	KindAnalog  RowKind = "analog"
	KindFlat    RowKind = "flat"
)

// ProductRow — строка итоговой таблицы. После сборки не меняется.
type ProductRow struct {
	DisplayName     string           `json:"displayName"`
	Kind            RowKind          `json:"kind"`
	Virtual         bool             `json:"virtual,omitempty"`
	RequestedQty    string           `json:"requestedQty"`
	Offers          map[string]Offer `json:"offers"`
	MinPriceSources []string         `json:"minPriceSources,omitempty"`
	Members         int              `json:"members"` // сколько исходных записей свёрнуто в строку
}

// Table — результат сборки, вход для рендера.
type Table struct {
	Suppliers    []string           `json:"suppliers"`
	Rows         []ProductRow       `json:"rows"`
	Totals       map[string]float64 `json:"totals"`
	PaymentTerms map[string]string  `json:"paymentTerms,omitempty"`
	Flat         bool               `json:"flat"`
}

// Resolution — замороженный результат группировки.
type Resolution struct {
	Flat    bool
	Records []RawRecord    // все записи (для плоского режима)
	Anchors []*AnchorGroup // в порядке создания
}
