package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/sitetheme/internal/domain/entity"
)

// fieldAliases are the short names accepted on the command line besides the
// field names and storage keys.
var fieldAliases = map[string]entity.Field{
	"theme":     entity.FieldMode,
	"accent":    entity.FieldColorTheme,
	"color":     entity.FieldColorTheme,
	"contrast":  entity.FieldContrastLevel,
	"font":      entity.FieldFontSize,
	"font-size": entity.FieldFontSize,
	"motion":    entity.FieldReducedMotion,
	"effective": entity.FieldEffectiveMode,
}

// parseField resolves a field name, storage key or alias.
func parseField(name string) (entity.Field, error) {
	name = strings.TrimSpace(name)
	if f, ok := fieldAliases[strings.ToLower(name)]; ok {
		return f, nil
	}
	if f, ok := entity.FieldForKey(name); ok {
		return f, nil
	}
	for _, f := range append(entity.PersistedFields(), entity.FieldEffectiveMode) {
		if strings.EqualFold(string(f), name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown preference %q (want one of: %s)", name, strings.Join(fieldNames(), ", "))
}

// fieldNames lists the names shown in help and shell completion.
func fieldNames() []string {
	return []string{"mode", "accent", "contrast", "font", "motion", "effective"}
}
