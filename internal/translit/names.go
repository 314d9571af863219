package translit

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// nameVariants is the on-disk shape of the common-names file: a canonical
// Hebrew name mapped to its known spellings per language.
type nameVariants struct {
	English         []string `json:"english"`
	Arabic          []string `json:"arabic"`
	Russian         []string `json:"russian"`
	RussianCyrillic []string `json:"russian_cyrillic"`
}

// LoadCommonNames reads the structured names file and flattens it into a
// lookup from lowercase variant to canonical Hebrew name. A missing file is
// not an error: the lookup is simply empty and callers fall back to
// rule-based transliteration.
func LoadCommonNames(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading common names file: %w", err)
	}

	var structured map[string]nameVariants
	if err := json.Unmarshal(data, &structured); err != nil {
		return nil, fmt.Errorf("parsing common names file: %w", err)
	}

	flat := make(map[string]string)
	for hebrew, variants := range structured {
		for _, list := range [][]string{variants.English, variants.Arabic, variants.Russian, variants.RussianCyrillic} {
			for _, variant := range list {
				key := strings.ToLower(strings.TrimSpace(variant))
				if key != "" {
					flat[key] = hebrew
				}
			}
		}
	}
	return flat, nil
}
