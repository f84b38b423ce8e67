package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// PrintDocument prints a rendered JSON document. JSON output passes the text
// through untouched; YAML output keeps the document's key order. Text that is
// not JSON (a failure message) is printed as a plain line either way.
func (p *Printer) PrintDocument(doc string) error {
	if !json.Valid([]byte(doc)) {
		_, err := fmt.Fprintln(p.w, doc)
		return err
	}
	if p.format == FormatJSON {
		_, err := io.WriteString(p.w, strings.TrimRight(doc, "\n")+"\n")
		return err
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(doc), &node); err != nil {
		return fmt.Errorf("yaml decode: %w", err)
	}
	blockStyle(&node)
	return p.printYAML(&node)
}

// blockStyle clears the flow and quoting styles left by the JSON syntax. The
// encoder still quotes strings that would read back as another type.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
