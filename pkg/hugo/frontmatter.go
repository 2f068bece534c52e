package hugo

import (
	"bytes"
	"fmt"
	"io"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// Field is one front matter key/value pair.
type Field struct {
	Key   string
	Value any
}

// FrontMatter is an ordered front matter header. A plain map would
// randomize key order under yaml.v3, so encoding goes through an
// explicit mapping node.
type FrontMatter []Field

// Append adds a field and returns the extended header.
func (fm FrontMatter) Append(key string, value any) FrontMatter {
	return append(fm, Field{Key: key, Value: value})
}

// MarshalYAML renders the header as a mapping that preserves insertion
// order.
func (fm FrontMatter) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, field := range fm {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: field.Key}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(field.Value); err != nil {
			return nil, fmt.Errorf("encode %s: %w", field.Key, err)
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}

// Encode assembles a full content file: YAML header between ---
// delimiters, a blank line, then the Markdown body.
func Encode(fm FrontMatter, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteString("---\n\n")
	if body != "" {
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// FileMeta is the subset of header fields read back from generated
// files during cleanup and preview.
type FileMeta struct {
	Title string `yaml:"title"`
	Slug  string `yaml:"slug"`
	Type  string `yaml:"type"`
}

// ParseFile splits a generated content file into its header fields and
// Markdown body.
func ParseFile(content []byte) (FileMeta, string, error) {
	var meta FileMeta
	body, err := frontmatter.Parse(bytes.NewReader(content), &meta)
	if err != nil && err != io.EOF {
		return FileMeta{}, "", fmt.Errorf("parse front matter: %w", err)
	}
	return meta, string(body), nil
}
