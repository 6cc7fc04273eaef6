package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"

	"replab/domain/core"
)

// Cell types in a notebook document
const (
	CellMarkdown = "markdown"
	CellCode     = "code"
)

// Cell is one notebook cell. Source is kept as a single string; the nbformat
// schema accepts either a string or a list of lines.
type Cell struct {
	Type   string
	Source string
}

// KernelSpec identifies the execution kernel
type KernelSpec struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// LanguageInfo identifies the cell language
type LanguageInfo struct {
	Name string `json:"name"`
}

// Metadata holds notebook-level metadata fields
type Metadata struct {
	KernelSpec   KernelSpec   `json:"kernelspec"`
	LanguageInfo LanguageInfo `json:"language_info"`
}

// Notebook is the output artifact: an ordered sequence of cells plus kernel
// metadata. Cell order is fixed by the builder; generated code must only
// reference names defined in the setup cell or within its own cell.
type Notebook struct {
	Cells    []Cell
	Metadata Metadata
}

// NewMarkdownCell creates a markdown cell
func NewMarkdownCell(source string) Cell {
	return Cell{Type: CellMarkdown, Source: source}
}

// NewCodeCell creates a code cell
func NewCodeCell(source string) Cell {
	return Cell{Type: CellCode, Source: source}
}

// New creates a notebook with the standard python3 kernel metadata
func New(cells []Cell) *Notebook {
	return &Notebook{
		Cells: cells,
		Metadata: Metadata{
			KernelSpec:   KernelSpec{Name: "python3", DisplayName: "Python 3"},
			LanguageInfo: LanguageInfo{Name: "python"},
		},
	}
}

// wire types for nbformat v4.5 JSON. Markdown and code cells have different
// required fields (code cells must carry execution_count and outputs), so
// each cell type gets its own wire struct.

type wireMarkdownCell struct {
	CellType string   `json:"cell_type"`
	ID       string   `json:"id"`
	Metadata struct{} `json:"metadata"`
	Source   string   `json:"source"`
}

type wireCodeCell struct {
	CellType       string            `json:"cell_type"`
	ExecutionCount *int              `json:"execution_count"`
	ID             string            `json:"id"`
	Metadata       struct{}          `json:"metadata"`
	Outputs        []json.RawMessage `json:"outputs"`
	Source         string            `json:"source"`
}

type wireNotebook struct {
	Cells         []any    `json:"cells"`
	Metadata      Metadata `json:"metadata"`
	NBFormat      int      `json:"nbformat"`
	NBFormatMinor int      `json:"nbformat_minor"`
}

// Bytes serializes the notebook to UTF-8 nbformat v4.5 JSON. The output is
// byte-identical across invocations for the same notebook: cell IDs are
// positional, not random, and no timestamps are embedded.
func (n *Notebook) Bytes() ([]byte, error) {
	if len(n.Cells) == 0 {
		return nil, core.ErrEmptyNotebook
	}

	wire := wireNotebook{
		Cells:         make([]any, 0, len(n.Cells)),
		Metadata:      n.Metadata,
		NBFormat:      4,
		NBFormatMinor: 5,
	}
	for i, cell := range n.Cells {
		id := fmt.Sprintf("cell-%d", i)
		if cell.Type == CellCode {
			wire.Cells = append(wire.Cells, wireCodeCell{
				CellType: CellCode,
				ID:       id,
				Outputs:  []json.RawMessage{},
				Source:   cell.Source,
			})
		} else {
			wire.Cells = append(wire.Cells, wireMarkdownCell{
				CellType: cell.Type,
				ID:       id,
				Source:   cell.Source,
			})
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	if err := enc.Encode(wire); err != nil {
		return nil, fmt.Errorf("failed to serialize notebook: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse decodes notebook bytes back into a Notebook. Sources stored as line
// lists (by other writers) are joined back into single strings.
func Parse(raw []byte) (*Notebook, error) {
	var wire struct {
		Cells []struct {
			CellType string          `json:"cell_type"`
			Source   json.RawMessage `json:"source"`
		} `json:"cells"`
		Metadata Metadata `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("failed to parse notebook: %w", err)
	}

	nb := &Notebook{Metadata: wire.Metadata}
	for _, wc := range wire.Cells {
		source, err := decodeSource(wc.Source)
		if err != nil {
			return nil, err
		}
		nb.Cells = append(nb.Cells, Cell{Type: wc.CellType, Source: source})
	}
	return nb, nil
}

func decodeSource(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single, nil
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return "", fmt.Errorf("cell source is neither string nor line list: %w", err)
	}
	var b bytes.Buffer
	for _, line := range lines {
		b.WriteString(line)
	}
	return b.String(), nil
}

// CodeCells returns the indices and sources of all code cells, in order
func (n *Notebook) CodeCells() []IndexedCell {
	var cells []IndexedCell
	for i, cell := range n.Cells {
		if cell.Type == CellCode {
			cells = append(cells, IndexedCell{Index: i, Source: cell.Source})
		}
	}
	return cells
}

// IndexedCell pairs a cell source with its position in the notebook
type IndexedCell struct {
	Index  int
	Source string
}
