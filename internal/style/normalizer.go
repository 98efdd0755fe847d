package style

import (
	"fmt"

	"github.com/longbridgeapp/opencc"
)

// Normalizer converts Simplified Chinese to Traditional Chinese with
// Hong Kong character variants. Translation models routinely emit
// Simplified characters even when asked not to, so all model output
// passes through here before it is accepted.
type Normalizer struct {
	cc *opencc.OpenCC
}

// NewNormalizer loads the s2hk conversion dictionaries.
func NewNormalizer() (*Normalizer, error) {
	cc, err := opencc.New("s2hk")
	if err != nil {
		return nil, fmt.Errorf("load s2hk converter: %w", err)
	}
	return &Normalizer{cc: cc}, nil
}

// Convert returns the Traditional-HK form of text. On conversion
// failure the input is returned unchanged; the caller cannot do
// better than the original text.
func (n *Normalizer) Convert(text string) string {
	out, err := n.cc.Convert(text)
	if err != nil {
		return text
	}
	return out
}
