package imagery

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	defaultAttributionText = "OpenStreetMap contributors"
	defaultMaxZoom         = 20
)

// Attribution is the credit line a map client must show for a tile source.
type Attribution struct {
	Required bool   `json:"required" yaml:"required"`
	Text     string `json:"text" yaml:"text"`
	URL      string `json:"url" yaml:"url"`
}

// TileSource is a raster tile layer ready for a web map client.
type TileSource struct {
	Name        string      `json:"name" yaml:"name"`
	URL         string      `json:"url" yaml:"url"`
	Attribution Attribution `json:"attribution" yaml:"attribution"`
	MaxZoom     int         `json:"maxZoom" yaml:"maxZoom"`
}

// Catalog groups tile sources by id. All is Countrywide overlaid by Other.
type Catalog struct {
	All         map[string]TileSource `json:"all" yaml:"all"`
	Countrywide map[string]TileSource `json:"countrywide" yaml:"countrywide"`
	Other       map[string]TileSource `json:"other" yaml:"other"`
}

// BuildCatalog converts filtered layers to tile sources. Layers without a
// string id are skipped.
func BuildCatalog(fc *FeatureCollection) Catalog {
	c := Catalog{
		All:         make(map[string]TileSource),
		Countrywide: make(map[string]TileSource),
		Other:       make(map[string]TileSource),
	}
	if fc == nil {
		return c
	}

	for _, f := range fc.Features {
		p := f.Properties
		id, ok := p.String("id")
		if !ok {
			zap.L().Debug("imagery: catalog skipping layer without id", zap.Any("name", p["name"]))
			continue
		}
		if p["countrywide"] == true {
			c.Countrywide[id] = tileSource(p)
		} else {
			c.Other[id] = tileSource(p)
		}
	}

	for id, src := range c.Countrywide {
		c.All[id] = src
	}
	for id, src := range c.Other {
		c.All[id] = src
	}
	return c
}

func tileSource(p Properties) TileSource {
	name, _ := p.String("name")
	url, _ := p.String("url")
	src := TileSource{
		Name: name,
		URL:  url,
		Attribution: Attribution{
			Text: defaultAttributionText,
		},
		MaxZoom: defaultMaxZoom,
	}

	if attr, ok := p["attribution"].(map[string]any); ok {
		src.Attribution.Required = attr["required"] == true
		if text, ok := attr["text"].(string); ok && text != "" {
			src.Attribution.Text = text
		}
		if u, ok := attr["url"].(string); ok {
			src.Attribution.URL = u
		}
	}
	if z, ok := intValue(p["max_zoom"]); ok && z != 0 {
		src.MaxZoom = z
	}
	return src
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := strconv.Atoi(n.String())
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return i, true
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

// Group returns the named slice of the catalog: "all", "countrywide" or
// "other".
func (c Catalog) Group(name string) (map[string]TileSource, error) {
	switch name {
	case "", "all":
		return c.All, nil
	case "countrywide":
		return c.Countrywide, nil
	case "other":
		return c.Other, nil
	default:
		return nil, eris.Errorf("imagery: unknown catalog group %q", name)
	}
}

// WriteCatalog writes c to path as "json" or "yaml".
func WriteCatalog(path, format string, c Catalog) error {
	switch format {
	case "json":
		if err := writeJSON(path, c); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	case "yaml":
		if err := writeYAML(path, c); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	default:
		return eris.Errorf("imagery: unsupported catalog format %q", format)
	}
	zap.L().Info("tile source catalog saved",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("sources", len(c.All)),
	)
	return nil
}

func writeYAML(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "create file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrap(cerr, "close file")
		}
	}()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode yaml")
	}
	return eris.Wrap(enc.Close(), "flush yaml")
}
