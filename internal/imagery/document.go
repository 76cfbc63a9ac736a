// Package imagery filters the editor-layer-index imagery document down to
// US photo layers with tile URLs normalized for web map clients.
package imagery

// Document is a decoded imagery index as read from the network or disk.
// Numbers are held as json.Number.
type Document map[string]any

// FeatureCollection is the filtered output document.
type FeatureCollection struct {
	Type     any       `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a retained imagery layer. Geometry is never serialized; the
// input geometry is kept only for coverage statistics.
type Feature struct {
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`

	geometry any
}

// Properties is the free-form attribute map of an imagery layer.
type Properties map[string]any

// String returns the string value of key, if present and a string.
func (p Properties) String(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok
}

// features returns the raw feature sequence, if the document has one.
func (d Document) features() ([]any, bool) {
	fs, ok := d["features"].([]any)
	return fs, ok
}
