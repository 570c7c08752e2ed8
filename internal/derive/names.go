package derive

import (
	"fmt"
	"strings"
	"time"
)

// Locale selects the language of weekday and month names
type Locale string

const (
	LocaleEN   Locale = "en"
	LocalePTBR Locale = "pt-BR"
)

var weekdayNames = map[Locale][7]string{
	LocaleEN:   {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	LocalePTBR: {"Domingo", "Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado"},
}

var monthNames = map[Locale][12]string{
	LocaleEN: {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	LocalePTBR: {
		"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
		"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
	},
}

// ParseLocale accepts "en" and "pt-BR" in any case, with "_" or "-"
func ParseLocale(raw string) (Locale, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "_", "-")) {
	case "", "en":
		return LocaleEN, nil
	case "pt-br", "pt":
		return LocalePTBR, nil
	default:
		return "", fmt.Errorf("unsupported locale %q (valid locales: en, pt-BR)", raw)
	}
}

// WeekdayName returns the name of wd in loc, English for unknown locales
func WeekdayName(loc Locale, wd time.Weekday) string {
	names, ok := weekdayNames[loc]
	if !ok {
		names = weekdayNames[LocaleEN]
	}
	return names[wd]
}

// MonthName returns the name of m in loc, English for unknown locales
func MonthName(loc Locale, m time.Month) string {
	names, ok := monthNames[loc]
	if !ok {
		names = monthNames[LocaleEN]
	}
	return names[m-1]
}
