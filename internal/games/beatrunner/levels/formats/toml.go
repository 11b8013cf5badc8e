package formats

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// ParseTOML parses a TOML level file. Keys the schema does not know are an error.
func ParseTOML(data []byte) (Level, error) {
	var l Level
	md, err := toml.Decode(string(data), &l)
	if err != nil {
		return Level{}, fmt.Errorf("toml decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Level{}, fmt.Errorf("toml: unknown keys %v", undecoded)
	}
	if err := l.Validate(); err != nil {
		return Level{}, err
	}
	return l, nil
}
