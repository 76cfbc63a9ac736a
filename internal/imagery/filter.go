package imagery

import (
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// defaultCountry is assumed for layers without a country_code.
	defaultCountry = "US"

	apiKeyToken = "{apikey}"
	eoxHost     = "eox.at"
)

// countrywideIDs are layers with national coverage.
var countrywideIDs = map[string]bool{
	"EsriWorldImageryClarity": true,
	"EsriWorldImagery":        true,
	"USDA-NAIP":               true,
	"USGS-Imagery":            true,
}

// Options controls how Filter treats malformed candidate features.
type Options struct {
	// Strict aborts with *FieldError when a feature matching the country,
	// type and category criteria has no string url or name. Otherwise such a
	// feature is skipped (no url) or treated as unnamed (no name).
	Strict bool
}

// Filter selects US photo tms/wms layers from doc, rewrites their URL
// templates, flags countrywide layers and sorts the result by name.
// doc is not modified.
func Filter(doc Document, opts Options) (*FeatureCollection, error) {
	if len(doc) == 0 {
		return nil, &FormatError{Reason: "document is empty"}
	}
	typ, ok := doc["type"]
	if !ok {
		return nil, &FormatError{Reason: "missing type"}
	}
	if _, ok := doc["features"]; !ok {
		return nil, &FormatError{Reason: "missing features"}
	}
	raw, ok := doc.features()
	if !ok {
		return nil, &FormatError{Reason: "features is not a sequence"}
	}

	out := make([]Feature, 0)
	for i, rf := range raw {
		obj, ok := rf.(map[string]any)
		if !ok {
			continue
		}
		props, ok := obj["properties"].(map[string]any)
		if !ok {
			continue
		}

		keep, err := qualifies(i, props, opts)
		if err != nil {
			return nil, err
		}
		if !keep {
			continue
		}

		out = append(out, Feature{
			Type:       "Feature",
			Properties: transform(props),
			geometry:   obj["geometry"],
		})
	}

	sortByName(out)

	return &FeatureCollection{Type: typ, Features: out}, nil
}

// lookup returns props[key], or def when the key is absent.
func lookup(props map[string]any, key string, def any) any {
	if v, ok := props[key]; ok {
		return v
	}
	return def
}

// qualifies applies the inclusion criteria in order, reading url and name
// only once the cheaper criteria have passed.
func qualifies(index int, props map[string]any, opts Options) (bool, error) {
	if lookup(props, "country_code", defaultCountry) != defaultCountry {
		return false, nil
	}
	if t := props["type"]; t != "tms" && t != "wms" {
		return false, nil
	}
	if props["category"] != "photo" {
		return false, nil
	}

	url, ok := props["url"].(string)
	if !ok {
		if opts.Strict {
			return false, &FieldError{Index: index, Field: "url"}
		}
		zap.L().Debug("imagery: skipping layer without url",
			zap.Int("index", index),
			zap.Any("id", props["id"]),
		)
		return false, nil
	}
	if strings.Contains(strings.ToLower(url), apiKeyToken) {
		return false, nil
	}

	name, ok := props["name"].(string)
	if !ok && opts.Strict {
		return false, &FieldError{Index: index, Field: "name"}
	}
	if strings.Contains(name, "Coast") && !strings.Contains(strings.ToLower(name), eoxHost) {
		return false, nil
	}

	return true, nil
}

// transform returns a copy of props with the tile URL rewritten and the
// countrywide flag set for national layers.
func transform(props map[string]any) Properties {
	p := make(Properties, len(props)+1)
	for k, v := range props {
		p[k] = v
	}

	if u, ok := p.String("url"); ok {
		p["url"] = RewriteURL(u)
	}
	if id, ok := p.String("id"); ok && countrywideIDs[id] {
		p["countrywide"] = true
	}
	return p
}

// sortByName orders features by lowercased name. Unnamed features sort first.
func sortByName(features []Feature) {
	lower := cases.Lower(language.Und)
	type keyed struct {
		key string
		f   Feature
	}
	ks := make([]keyed, len(features))
	for i, f := range features {
		name, _ := f.Properties.String("name")
		ks[i] = keyed{key: lower.String(name), f: f}
	}

	sort.SliceStable(ks, func(i, j int) bool {
		return ks[i].key < ks[j].key
	})

	for i := range ks {
		features[i] = ks[i].f
	}
}
