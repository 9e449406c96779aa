// Package kpi renders ecological indicators for display.
package kpi

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/woozymasta/greenmap/internal/selection"
)

// Missing is shown in place of an unknown value.
const Missing = "—"

// Formatter renders numbers with the grouping and decimal separators of
// a locale.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a formatter for the BCP 47 tag lang. Unknown tags
// fall back to Italian, the language of the source data.
func NewFormatter(lang string) *Formatter {
	tag, err := language.Parse(lang)
	if err != nil {
		log.Warn().Err(err).Str("language", lang).Msg("Unknown language, using Italian")
		tag = language.Italian
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Format renders v with at most decimals fraction digits followed by unit.
func (f *Formatter) Format(v *float64, unit string, decimals int) string {
	if v == nil {
		return Missing
	}

	s := f.printer.Sprintf("%v", number.Decimal(*v, number.MaxFractionDigits(decimals)))
	if unit != "" {
		s += " " + unit
	}
	return s
}

// Display holds the rendered KPI strings of a selection.
type Display struct {
	Trees   string `json:"trees" yaml:"trees"`
	CO2SeqT string `json:"co2_seq_t" yaml:"co2_seq_t"`
	PMG     string `json:"pm_g" yaml:"pm_g"`
	RainL   string `json:"rain_l" yaml:"rain_l"`
	EUR     string `json:"eur" yaml:"eur"`
}

// Render formats the five KPIs. Rounding happens here and only here.
func (f *Formatter) Render(k selection.KPIs) Display {
	return Display{
		Trees:   f.Format(k.Trees, "", 0),
		CO2SeqT: f.Format(k.CO2SeqT, "t", 2),
		PMG:     f.Format(k.PMG, "g", 0),
		RainL:   f.Format(k.RainL, "L", 0),
		EUR:     f.Format(k.EUR, "€", 0),
	}
}
