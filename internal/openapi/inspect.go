// Package openapi performs a light structural check of bundled OpenAPI documents.
package openapi

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotOpenAPI indicates the document lacks the keys every OpenAPI/Swagger document carries.
var ErrNotOpenAPI = errors.New("not an OpenAPI document")

// Info summarizes a bundled document.
type Info struct {
	OpenAPIVersion string // value of "openapi" (or "swagger" for 2.0 documents)
	Title          string
	Version        string
	PathCount      int
	WebhookCount   int
}

type document struct {
	OpenAPI yaml.Node `yaml:"openapi"`
	Swagger yaml.Node `yaml:"swagger"`
	Info    struct {
		Title   string `yaml:"title"`
		Version string `yaml:"version"`
	} `yaml:"info"`
	Paths      yaml.Node `yaml:"paths"`
	Webhooks   yaml.Node `yaml:"webhooks"`
	Components yaml.Node `yaml:"components"`
}

// Inspect reads and checks the document at path.
func Inspect(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundled document: %w", err)
	}
	info, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return info, nil
}

// Parse checks a JSON or YAML document. It must be a mapping with an "openapi"
// or "swagger" version key. Swagger 2.0 and OpenAPI 3.0 documents need a
// "paths" mapping; from 3.1 on any of "paths", "webhooks" or "components" will do.
func Parse(data []byte) (*Info, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotOpenAPI, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level is not an object", ErrNotOpenAPI)
	}

	var doc document
	if err := root.Content[0].Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotOpenAPI, err)
	}

	version := doc.OpenAPI.Value
	if version == "" {
		version = doc.Swagger.Value
	}
	if version == "" {
		return nil, fmt.Errorf("%w: missing openapi version", ErrNotOpenAPI)
	}
	if doc.Paths.Kind != 0 && doc.Paths.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: paths is not an object", ErrNotOpenAPI)
	}
	if pathsRequired(version) {
		if doc.Paths.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: missing paths object", ErrNotOpenAPI)
		}
	} else if doc.Paths.Kind != yaml.MappingNode && doc.Webhooks.Kind != yaml.MappingNode && doc.Components.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: missing paths, webhooks or components object", ErrNotOpenAPI)
	}

	return &Info{
		OpenAPIVersion: version,
		Title:          doc.Info.Title,
		Version:        doc.Info.Version,
		PathCount:      len(doc.Paths.Content) / 2,
		WebhookCount:   len(doc.Webhooks.Content) / 2,
	}, nil
}

// pathsRequired reports whether documents of the given version must carry a
// paths object (Swagger 2.x and OpenAPI 3.0.x).
func pathsRequired(version string) bool {
	return strings.HasPrefix(version, "2") || version == "3.0" || strings.HasPrefix(version, "3.0.")
}
