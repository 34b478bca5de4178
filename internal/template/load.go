package template

import (
	"fmt"
	"io"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// LoadFile reads a template file (YAML, JSON or TOML by extension) into a
// new Library. Each top-level key is a Kind holding name -> record maps.
func LoadFile(path string) (*Library, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading template file %s: %w", path, err)
	}
	return fromViper(v)
}

// LoadReader is LoadFile for an in-memory document of the given type
// ("yaml", "json", ...).
func LoadReader(r io.Reader, configType string) (*Library, error) {
	v := viper.New()
	v.SetConfigType(configType)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("reading %s templates: %w", configType, err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Library, error) {
	lib := NewLibrary()
	for _, kind := range Kinds {
		for name, raw := range v.GetStringMap(string(kind)) {
			rec, err := cast.ToStringMapE(raw)
			if err != nil {
				return nil, fmt.Errorf("%s %q is not a record: %w", kind, name, ErrBadField)
			}
			lib.Add(kind, name, Record(rec))
		}
	}
	return lib, nil
}

// LoadCatalog builds the built-in templates with the file at path, if any,
// merged over them.
func LoadCatalog(path string) (*Catalog, error) {
	lib := Defaults()
	if path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		lib.Merge(loaded)
	}
	cat, err := Build(lib)
	if err != nil {
		return nil, fmt.Errorf("building templates: %w", err)
	}
	return cat, nil
}
