package script

import (
	"fmt"
	"strings"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
)

// Struct tag keys understood by the class builder.
const (
	tagScript   = "script"
	tagCategory = "category"
	tagMeta     = "meta"
	tagFlags    = "flags"
	tagMethod   = "method"
	tagParams   = "params"
)

const (
	flagSaveGame = "savegame"
	flagAdvanced = "advanced"
)

// parseMeta parses "K=V,K2=V2". Values may be empty; keys may not.
func parseMeta(s string) ([]entities.Meta, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var metas []entities.Meta
	for _, pair := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("malformed meta entry %q, expected Key=Value", pair)
		}
		metas = append(metas, entities.Meta{Key: key, Value: strings.TrimSpace(value)})
	}
	return metas, nil
}

// buildMetaData prepends the category, when set, to the free-form pairs.
func buildMetaData(category string, metas []entities.Meta) []entities.Meta {
	out := make([]entities.Meta, 0, len(metas)+1)
	if category != "" {
		out = append(out, entities.Meta{Key: "Category", Value: category})
	}
	return append(out, metas...)
}

type propertyFlags struct {
	saveGame bool
	advanced bool
}

func parseFlags(s string) (propertyFlags, error) {
	var f propertyFlags
	if strings.TrimSpace(s) == "" {
		return f, nil
	}
	for _, flag := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(flag)) {
		case flagSaveGame:
			f.saveGame = true
		case flagAdvanced:
			f.advanced = true
		case "":
		default:
			return f, fmt.Errorf("unknown property flag %q", flag)
		}
	}
	return f, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
