package theme

import "strings"

type Layout string

type Width string

const (
	LayoutClassic Layout = "classic"
	LayoutModern  Layout = "modern"
	LayoutCompact Layout = "compact"
	LayoutGrid    Layout = "grid"

	WidthStandard Width = "standard"
	WidthWide     Width = "wide"
	WidthFull     Width = "full"
)

var (
	Layouts = []Layout{LayoutClassic, LayoutModern, LayoutCompact, LayoutGrid}
	Widths  = []Width{WidthStandard, WidthWide, WidthFull}
)

func (l Layout) Valid() bool {
	for _, v := range Layouts {
		if l == v {
			return true
		}
	}
	return false
}

func (w Width) Valid() bool {
	for _, v := range Widths {
		if w == v {
			return true
		}
	}
	return false
}

// Attributes is the stored (or previewed) style of a business. Every field is
// optional; nil and blank both mean "not set".
type Attributes struct {
	PrimaryColor        *string `gorm:"type:varchar(32)" json:"primary_color"`
	BackgroundColor     *string `gorm:"type:varchar(32)" json:"background_color"`
	TextColor           *string `gorm:"type:varchar(32)" json:"text_color"`
	CardBackgroundColor *string `gorm:"type:varchar(32)" json:"card_background_color"`
	FontFamily          *string `gorm:"type:varchar(32)" json:"font_family"`
	HeadingFontFamily   *string `gorm:"type:varchar(32)" json:"heading_font_family"`
	LayoutStyle         *string `gorm:"type:varchar(16)" json:"layout_style"`
	MenuWidth           *string `gorm:"type:varchar(16)" json:"menu_width"`
}

// Tokens is a fully resolved style. No field is ever empty.
type Tokens struct {
	PrimaryColor        string `json:"primary_color"`
	BackgroundColor     string `json:"background_color"`
	TextColor           string `json:"text_color"`
	CardBackgroundColor string `json:"card_background_color"`
	FontFamily          string `json:"font_family"`
	HeadingFontFamily   string `json:"heading_font_family"`
	LayoutStyle         Layout `json:"layout_style"`
	MenuWidth           Width  `json:"menu_width"`
}

func Defaults() Tokens {
	return Tokens{
		PrimaryColor:        "#8B5CF6",
		BackgroundColor:     "#FFFFFF",
		TextColor:           "#000000",
		CardBackgroundColor: "#F9FAFB",
		FontFamily:          FontSystem,
		HeadingFontFamily:   FontSystem,
		LayoutStyle:         LayoutClassic,
		MenuWidth:           WidthStandard,
	}
}

// Resolve picks each token from override, then stored, then the default.
// Values are never validated here: a malformed color or an unknown font key
// is carried through and the applicator decides how to degrade.
func Resolve(stored Attributes, override *Attributes) Tokens {
	var o Attributes
	if override != nil {
		o = *override
	}
	d := Defaults()

	return Tokens{
		PrimaryColor:        pick(d.PrimaryColor, o.PrimaryColor, stored.PrimaryColor),
		BackgroundColor:     pick(d.BackgroundColor, o.BackgroundColor, stored.BackgroundColor),
		TextColor:           pick(d.TextColor, o.TextColor, stored.TextColor),
		CardBackgroundColor: pick(d.CardBackgroundColor, o.CardBackgroundColor, stored.CardBackgroundColor),
		FontFamily:          pick(d.FontFamily, o.FontFamily, stored.FontFamily),
		HeadingFontFamily:   pick(d.HeadingFontFamily, o.HeadingFontFamily, stored.HeadingFontFamily),
		LayoutStyle:         Layout(pick(string(d.LayoutStyle), o.LayoutStyle, stored.LayoutStyle)),
		MenuWidth:           Width(pick(string(d.MenuWidth), o.MenuWidth, stored.MenuWidth)),
	}
}

func pick(fallback string, candidates ...*string) string {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if v := strings.TrimSpace(*c); v != "" {
			return v
		}
	}
	return fallback
}

// Overlay returns a copy of a with every set field of b written over it.
func (a Attributes) Overlay(b Attributes) Attributes {
	out := a
	overlay(&out.PrimaryColor, b.PrimaryColor)
	overlay(&out.BackgroundColor, b.BackgroundColor)
	overlay(&out.TextColor, b.TextColor)
	overlay(&out.CardBackgroundColor, b.CardBackgroundColor)
	overlay(&out.FontFamily, b.FontFamily)
	overlay(&out.HeadingFontFamily, b.HeadingFontFamily)
	overlay(&out.LayoutStyle, b.LayoutStyle)
	overlay(&out.MenuWidth, b.MenuWidth)
	return out
}

func overlay(dst **string, src *string) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
