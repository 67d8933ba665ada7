package stagehand

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Manifest is the decoded form of a view manifest file: the setup-time
// collection of view declarations produced by authoring tooling, plus the
// optional starting location.
//
// Manifest format:
//
//	start = "home"
//
//	[[view]]
//	name = "home"
//	resource = "views/home.asset"
//
//	[[view]]
//	name = "settings"
//	resource = "views/settings.asset"
type Manifest struct {
	Views []Descriptor // One per declared view, in declaration order
	Start *Kind        // Starting location, when the manifest names one
}

type manifestFile struct {
	Start string              `toml:"start"`
	Views []manifestViewEntry `toml:"view"`
}

type manifestViewEntry struct {
	Name     string `toml:"name"`
	Resource string `toml:"resource"`
}

// LoadManifest reads a TOML view manifest from path. kinds maps the
// manifest's view names to the application's Kind constants; a manifest
// entry (or start location) naming an unmapped view fails with
// ErrUnknownView.
func LoadManifest(path string, kinds map[string]Kind) (Manifest, error) {
	var file manifestFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return Manifest{}, fmt.Errorf("stagehand: decode manifest %s: %w", path, err)
	}
	return buildManifest(file, kinds)
}

// ParseManifest decodes a TOML view manifest from raw data. See LoadManifest.
func ParseManifest(data string, kinds map[string]Kind) (Manifest, error) {
	var file manifestFile
	if _, err := toml.Decode(data, &file); err != nil {
		return Manifest{}, fmt.Errorf("stagehand: decode manifest: %w", err)
	}
	return buildManifest(file, kinds)
}

func buildManifest(file manifestFile, kinds map[string]Kind) (Manifest, error) {
	m := Manifest{Views: make([]Descriptor, 0, len(file.Views))}

	for _, entry := range file.Views {
		kind, ok := kinds[entry.Name]
		if !ok {
			return Manifest{}, fmt.Errorf("stagehand: manifest view %q: %w",
				entry.Name, ErrUnknownView)
		}
		if entry.Resource == "" {
			return Manifest{}, fmt.Errorf("stagehand: manifest view %q has no resource",
				entry.Name)
		}
		m.Views = append(m.Views, Descriptor{Kind: kind, Locator: entry.Resource})
	}

	if file.Start != "" {
		kind, ok := kinds[file.Start]
		if !ok {
			return Manifest{}, fmt.Errorf("stagehand: manifest start %q: %w",
				file.Start, ErrUnknownView)
		}
		m.Start = &kind
	}

	return m, nil
}
