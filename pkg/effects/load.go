package effects

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadEffects decodes a JSON or YAML document over DefaultImageEffects.
// Fields missing from the document keep their default values.
func LoadEffects(data []byte) (ImageEffects, error) {
	e := DefaultImageEffects()
	if err := decodeDocument(data, &e); err != nil {
		return DefaultImageEffects(), fmt.Errorf("decode image effects: %w", err)
	}
	return e, nil
}

// LoadBackground decodes a JSON or YAML document over DefaultBackground.
func LoadBackground(data []byte) (BackgroundData, error) {
	b := DefaultBackground()
	if err := decodeDocument(data, &b); err != nil {
		return DefaultBackground(), fmt.Errorf("decode background: %w", err)
	}
	return b, nil
}

// decodeDocument picks the JSON decoder for documents that start with '{'
// so tab-indented JSON is accepted; everything else is read as YAML.
func decodeDocument(data []byte, v interface{}) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}
