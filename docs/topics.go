// Package docs embeds the user documentation of lak, one markdown file per topic.
package docs

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed *.md
var docs embed.FS

// Readme is the topic listing all the others.
const Readme = "readme"

// GetTopic returns the content of a documentation topic. The topic "*" is all of them.
func GetTopic(topic string) (string, error) {
	if topic == "*" {
		topics, err := GetAllTopics()
		if err != nil {
			return "", err
		}
		return GetTopics(topics...)
	}

	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(topic)), ".md")
	content, err := docs.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found (see 'lak topic %s'): %w", topic, Readme, err)
	}
	return string(content), nil
}

// GetTopics returns the content of multiple documentation topics concatenated together.
func GetTopics(topics ...string) (string, error) {
	var b bytes.Buffer
	for _, topic := range topics {
		content, err := GetTopic(topic)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// GetAllTopics returns the sorted list of all available documentation topics, the readme
// excepted.
func GetAllTopics() ([]string, error) {
	entries, err := fs.Glob(docs, "*.md")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, e := range entries {
		if base := strings.TrimSuffix(path.Base(e), ".md"); base != Readme {
			topics = append(topics, base)
		}
	}
	slices.Sort(topics)
	return topics, nil
}
