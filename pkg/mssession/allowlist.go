package mssession

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// allowlistFile is the YAML document read by ReadInternalHosts. A bare list of
// hosts is accepted too.
type allowlistFile struct {
	InternalHosts []string `yaml:"internal_hosts"`
}

// ReadInternalHosts parses a custom-mode allowlist from YAML, either
//
//	internal_hosts:
//	  - example.com
//	  - checkout.partner.io
//
// or a top-level sequence of hosts. Blank entries are dropped.
func ReadInternalHosts(r io.Reader) ([]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAllowlist, err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAllowlist, err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	var hosts []string
	switch doc := node.Content[0]; doc.Kind {
	case yaml.SequenceNode:
		err = doc.Decode(&hosts)
	case yaml.MappingNode:
		var f allowlistFile
		err = doc.Decode(&f)
		hosts = f.InternalHosts
	default:
		err = fmt.Errorf("unexpected YAML node at line %d", doc.Line)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAllowlist, err)
	}

	out := hosts[:0]
	for _, h := range hosts {
		if h = normalizeHost(h); h != "" {
			out = append(out, h)
		}
	}
	return out, nil
}

// LoadInternalHosts reads a YAML allowlist file. See ReadInternalHosts.
func LoadInternalHosts(path string) ([]string, error) {
	f, err := os.Open(strings.TrimSpace(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAllowlist, err)
	}
	defer f.Close()
	return ReadInternalHosts(f)
}
