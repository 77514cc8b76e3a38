// Package i18n holds the per-locale catalogs for user-facing wizard
// messages. Codes are duplicated as strings from internal/errors to avoid an
// import cycle.
package i18n

import (
	"strings"
	"text/template"
)

// Code mirrors the string form of internal/errors.Code.
type Code = string

// Catalog maps error codes to message templates for one locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

// Locale returns the catalog locale tag.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for a code, executing {{.Key}} placeholders
// against the provided metadata. Unknown codes and template failures fall
// back to the raw code so a message is always produced.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	message, ok := c.messages[code]
	if !ok {
		return code
	}
	if !strings.Contains(message, "{{") {
		return message
	}

	tmpl, err := template.New(code).Parse(message)
	if err != nil {
		return message
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, metadata); err != nil {
		return message
	}
	return out.String()
}

// GetCatalog returns the catalog for a locale, defaulting to pt-BR.
func GetCatalog(locale string) *Catalog {
	switch strings.ToLower(locale) {
	case "en-us", "en":
		return enUSCatalog
	default:
		return ptBRCatalog
	}
}
