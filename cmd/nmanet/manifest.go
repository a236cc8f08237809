package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/evidnet/nmanet/pkg/network"
)

// Manifest describes the datasets to assemble into one evidence network.
// Column roles are bound explicitly per dataset; nothing is inferred from
// column names.
type Manifest struct {
	// TrtRef pins the merged network's reference treatment
	TrtRef   string    `yaml:"trt_ref"`
	Datasets []Dataset `yaml:"datasets"`
}

// Dataset binds one CSV file to a data kind and its column roles
type Dataset struct {
	Kind    string      `yaml:"kind"` // individual | arm | contrast
	File    string      `yaml:"file"`
	TrtRef  string      `yaml:"trt_ref"`
	Columns ColumnRoles `yaml:"columns"`
}

// ColumnRoles names the CSV column playing each role
type ColumnRoles struct {
	Study      string `yaml:"study"`
	Treatment  string `yaml:"treatment"`
	Class      string `yaml:"class"`
	Y          string `yaml:"y"`
	SE         string `yaml:"se"`
	R          string `yaml:"r"`
	N          string `yaml:"n"`
	E          string `yaml:"E"`
	SampleSize string `yaml:"sample_size"`
}

func (c ColumnRoles) bindings() network.Bindings {
	return network.Bindings{
		Study:      c.Study,
		Treatment:  c.Treatment,
		Class:      c.Class,
		Y:          c.Y,
		SE:         c.SE,
		R:          c.R,
		N:          c.N,
		E:          c.E,
		SampleSize: c.SampleSize,
	}
}

// loadManifest reads and validates the YAML manifest
func loadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if len(m.Datasets) == 0 {
		return nil, fmt.Errorf("manifest names no datasets")
	}
	for i, d := range m.Datasets {
		switch d.Kind {
		case "individual", "arm", "contrast":
		default:
			return nil, fmt.Errorf("dataset %d: unknown kind %q (want individual, arm or contrast)", i, d.Kind)
		}
		if d.File == "" {
			return nil, fmt.Errorf("dataset %d: no file named", i)
		}
	}
	return &m, nil
}
