package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SetClientKeys records the active keys for a client in the config file.
// It preserves the existing YAML structure and comments. The file is created
// when it does not exist, and the clients list is added when missing.
func SetClientKeys(configPath, clientID string, keys []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var root yaml.Node
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if root.Kind == 0 {
		root = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}

	docNode := root.Content[0]
	if docNode.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	clientsNode := findMapValue(docNode, "clients")
	if clientsNode == nil {
		clientsNode = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		docNode.Content = append(docNode.Content, scalar("clients"), clientsNode)
	}
	if clientsNode.Kind != yaml.SequenceNode {
		return fmt.Errorf("'clients' should be a list")
	}

	var clientNode *yaml.Node
	for _, item := range clientsNode.Content {
		if id := findMapValue(item, "id"); id != nil && id.Value == clientID {
			clientNode = item
			break
		}
	}
	if clientNode == nil {
		clientNode = &yaml.Node{
			Kind:    yaml.MappingNode,
			Tag:     "!!map",
			Content: []*yaml.Node{scalar("id"), scalar(clientID)},
		}
		clientsNode.Content = append(clientsNode.Content, clientNode)
	}

	keysNode := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, k := range keys {
		keysNode.Content = append(keysNode.Content, scalar(k))
	}
	if !replaceMapValue(clientNode, "keys", keysNode) {
		clientNode.Content = append(clientNode.Content, scalar("keys"), keysNode)
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if err := os.WriteFile(configPath, []byte(buf.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}

// replaceMapValue swaps the value for key in place. Reports whether key existed.
func replaceMapValue(node *yaml.Node, key string, value *yaml.Node) bool {
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value == key {
			node.Content[i+1] = value
			return true
		}
	}
	return false
}
