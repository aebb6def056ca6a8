package render

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateEngine renders the embedded HTML templates with receipt data.
// It uses Go's html/template package with custom formatting functions.
type TemplateEngine struct {
	templates *template.Template
}

// NewTemplateEngine parses the embedded templates and returns the engine
func NewTemplateEngine() (*TemplateEngine, error) {
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse embedded templates", err)
	}
	return &TemplateEngine{templates: tmpl}, nil
}

// Render executes the named template with the provided data
func (e *TemplateEngine) Render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template "+name, err)
	}
	return buf.String(), nil
}

// templateFuncs returns the function map available to all templates
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatMoney": formatMoney,
		"formatDate":  formatDate,
		"upper":       strings.ToUpper,
		"lower":       strings.ToLower,
		"title":       titleCase,
		"trim":        strings.TrimSpace,
		"default":     defaultFunc,
		"safeURL":     safeURL,
	}
}

// formatMoney formats a monetary value with the given currency symbol.
// Example: "$", 1234.5 -> "$1,234.50"
func formatMoney(symbol string, v interface{}) string {
	d := toDecimal(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	parts := strings.Split(d.StringFixed(2), ".")
	intPart := parts[0]
	decPart := "00"
	if len(parts) > 1 {
		decPart = parts[1]
	}

	// Add thousand separators
	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}

	return sign + symbol + result.String() + "." + decPart
}

// formatDate formats a date value as YYYY-MM-DD.
// Strings in common layouts are re-parsed; unparseable values pass through.
func formatDate(v interface{}) string {
	switch val := v.(type) {
	case time.Time:
		return val.Format("2006-01-02")
	case string:
		formats := []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}
		for _, f := range formats {
			if t, err := time.Parse(f, val); err == nil {
				return t.Format("2006-01-02")
			}
		}
		return val
	default:
		return ""
	}
}

// titleCase converts string to title case using proper Unicode handling
func titleCase(s string) string {
	caser := cases.Title(language.English)
	return caser.String(s)
}

func defaultFunc(def, val interface{}) interface{} {
	if val == nil {
		return def
	}
	if s, ok := val.(string); ok && s == "" {
		return def
	}
	return val
}

// safeURL marks a string as a safe URL, bypassing automatic escaping.
// Only used for file paths the application itself generated.
func safeURL(s string) template.URL {
	return template.URL(s)
}

// toDecimal converts various types to decimal.Decimal
func toDecimal(v interface{}) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float32:
		return decimal.NewFromFloat(float64(val))
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
