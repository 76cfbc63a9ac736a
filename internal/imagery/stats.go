package imagery

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// Stats summarizes a filter run.
type Stats struct {
	Original    int `json:"original"`
	Filtered    int `json:"filtered"`
	Removed     int `json:"removed"`
	Countrywide int `json:"countrywide"`
	// Worldwide counts retained layers with no coverage geometry.
	Worldwide int `json:"worldwide"`
	// Extent is the union of retained coverage geometries, nil when every
	// retained layer is worldwide.
	Extent *geom.Bounds `json:"-"`
}

// Summarize derives run statistics from the input document and the
// filtered output.
func Summarize(doc Document, fc *FeatureCollection) Stats {
	var s Stats
	if raw, ok := doc.features(); ok {
		s.Original = len(raw)
	}
	if fc == nil {
		s.Removed = s.Original
		return s
	}
	s.Filtered = len(fc.Features)
	s.Removed = s.Original - s.Filtered

	extent := geom.NewBounds(geom.XY)
	for _, f := range fc.Features {
		if f.Properties["countrywide"] == true {
			s.Countrywide++
		}

		g, err := coverage(f.geometry)
		if err != nil {
			name, _ := f.Properties.String("name")
			zap.L().Debug("imagery: undecodable coverage geometry",
				zap.String("name", name),
				zap.Error(err),
			)
			continue
		}
		if g == nil {
			s.Worldwide++
			continue
		}
		extent.Extend(g)
	}
	if !extent.IsEmpty() {
		s.Extent = extent
	}
	return s
}

// coverage decodes a raw GeoJSON geometry. A nil geometry with a nil error
// means the layer has no coverage restriction.
func coverage(raw any) (geom.T, error) {
	if raw == nil {
		return nil, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, eris.Wrap(err, "imagery: marshal geometry")
	}
	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		return nil, eris.Wrap(err, "imagery: decode geometry")
	}
	return g, nil
}
