package converter

import (
	"fmt"

	"github.com/leefowlercu/diary/internal/document"
)

// JSONToText converts a JSON-encoded document into text.
func (c *Converter) JSONToText(data []byte) (string, error) {
	doc, err := document.Decode(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode JSON document; %w", err)
	}
	return c.Serialize(doc)
}

// TextToJSON parses text and returns the JSON encoding of the document.
func (c *Converter) TextToJSON(text string) ([]byte, error) {
	doc, err := c.Parse(text)
	if err != nil {
		return nil, err
	}
	return document.Encode(doc)
}
