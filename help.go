package main

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed help.yaml
var helpData []byte

// ErrTopicNotFound is returned by Get and Render when no entry matches the
// requested topic.
var ErrTopicNotFound = errors.New("help topic not found")

// LoadError reports a missing, unparsable or structurally invalid help
// resource. Construction fails as a whole; bad entries are never skipped.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("help catalog: %s: %v", e.Reason, e.Err)
	}
	return "help catalog: " + e.Reason
}

func (e *LoadError) Unwrap() error { return e.Err }

// HelpEntry is one topic definition from the bundled catalog.
type HelpEntry struct {
	Key   string // canonical lower-case key
	Title string // key as authored in the resource, for display
	Body  string
}

// HelpCatalog maps topic keys to their explanatory text. It is built once
// at startup and never mutated afterwards, so it can be shared across
// concurrently handled updates without locking.
type HelpCatalog struct {
	entries map[string]HelpEntry
	order   []string
}

// NewHelpCatalog parses a YAML mapping of topic names to definition text.
// Keys are matched case-insensitively; the authored casing is kept for
// listings and keyboard labels. A duplicate key, an empty key, an empty
// body or an empty catalog is a LoadError.
func NewHelpCatalog(data []byte) (*HelpCatalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Reason: "invalid yaml", Err: err}
	}
	if len(doc.Content) == 0 {
		return nil, &LoadError{Reason: "catalog is empty"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &LoadError{Reason: "top level is not a mapping"}
	}

	c := &HelpCatalog{entries: make(map[string]HelpEntry)}
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, bodyNode := root.Content[i], root.Content[i+1]
		title := strings.TrimSpace(keyNode.Value)
		if title == "" {
			return nil, &LoadError{Reason: fmt.Sprintf("empty key at line %d", keyNode.Line)}
		}
		if bodyNode.Kind != yaml.ScalarNode {
			return nil, &LoadError{Reason: fmt.Sprintf("topic %q: body is not a string", title)}
		}
		if strings.TrimSpace(bodyNode.Value) == "" {
			return nil, &LoadError{Reason: fmt.Sprintf("topic %q: empty body", title)}
		}
		key := strings.ToLower(title)
		if _, dup := c.entries[key]; dup {
			return nil, &LoadError{Reason: fmt.Sprintf("duplicate topic %q", title)}
		}
		c.entries[key] = HelpEntry{Key: key, Title: title, Body: bodyNode.Value}
		c.order = append(c.order, title)
	}
	if len(c.entries) == 0 {
		return nil, &LoadError{Reason: "catalog is empty"}
	}
	return c, nil
}

// Get returns the entry for topic, matching case-insensitively.
func (c *HelpCatalog) Get(topic string) (HelpEntry, error) {
	entry, ok := c.entries[strings.ToLower(strings.TrimSpace(topic))]
	if !ok {
		return HelpEntry{}, fmt.Errorf("%q: %w", topic, ErrTopicNotFound)
	}
	return entry, nil
}

// Topics returns every topic name as authored, in resource order. The
// returned slice is a copy; callers may sort or truncate it freely.
func (c *HelpCatalog) Topics() []string {
	topics := make([]string, len(c.order))
	copy(topics, c.order)
	return topics
}

// Render returns the body for topic ready for delivery: CRLF line endings
// are normalized to LF and trailing whitespace is trimmed. The body is
// otherwise untouched; escaping for the chat platform is the transport's
// concern.
func (c *HelpCatalog) Render(topic string) (string, error) {
	entry, err := c.Get(topic)
	if err != nil {
		return "", err
	}
	return entry.render(), nil
}

// render normalizes CRLF to LF and trims trailing whitespace, including a
// bare carriage return left at the end of the body.
func (e HelpEntry) render() string {
	body := strings.ReplaceAll(e.Body, "\r\n", "\n")
	return strings.TrimRight(body, " \t\r\n")
}
