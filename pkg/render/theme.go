package render

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const themeAssetStylesheet = "form.stylesheet"

// buildThemeContext projects a resolved go-theme configuration into the
// template context: token classes, a :root CSS variable block, and the
// stylesheet URL when the theme publishes one.
func buildThemeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	stylesheet := ""
	if cfg.AssetURL != nil {
		stylesheet = strings.TrimSpace(cfg.AssetURL(themeAssetStylesheet))
	}
	return map[string]any{
		"name":         cfg.Theme,
		"variant":      cfg.Variant,
		"tokens":       copyStringMap(cfg.Tokens),
		"cssVarsStyle": cssVarsStyle(cfg.CSSVars),
		"stylesheet":   stylesheet,
	}
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
