package header

import (
	"errors"
	"fmt"
)

// ErrInvalidHeader indicates a header tree that cannot be laid out.
var ErrInvalidHeader = errors.New("invalid header configuration")

// Node is a header cell. A node with children is a group; a node without
// children is a leaf and must carry the Key of the data field it labels.
type Node struct {
	Label    string `yaml:"label"              json:"label"`
	Key      string `yaml:"key,omitempty"      json:"key,omitempty"`
	Children []Node `yaml:"children,omitempty" json:"children,omitempty"`
}

// IsLeaf reports whether n contributes a data column directly.
func (n Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Rect is a horizontal merge region on a single header row. Columns are
// zero-based and inclusive.
type Rect struct {
	Row      int
	StartCol int
	EndCol   int
}

// Width returns the number of columns covered by r.
func (r Rect) Width() int {
	return r.EndCol - r.StartCol + 1
}

// Column is a resolved leaf: a data key and the label shown for it.
type Column struct {
	Key   string `yaml:"key"   json:"key"`
	Label string `yaml:"label" json:"label"`
}

// Plan is the resolved layout of a header block.
type Plan struct {
	// Rows holds one slice per header row, each padded to Width() cells.
	Rows [][]string
	// Merges covers the span of every group node.
	Merges []Rect
	// DataKeys lists leaf keys in column order.
	DataKeys []string
	// Labels lists leaf labels in column order.
	Labels []string
}

// Depth returns the number of header rows in p.
func (p Plan) Depth() int {
	return len(p.Rows)
}

// Width returns the number of data columns in p.
func (p Plan) Width() int {
	return len(p.DataKeys)
}

// Columns returns the leaves of p as key/label pairs.
func (p Plan) Columns() []Column {
	cols := make([]Column, len(p.DataKeys))
	for i, k := range p.DataKeys {
		cols[i] = Column{Key: k, Label: p.Labels[i]}
	}
	return cols
}

// LeafSpan returns the number of data columns under n.
func LeafSpan(n Node) int {
	if n.IsLeaf() {
		return 1
	}
	span := 0
	for _, child := range n.Children {
		span += LeafSpan(child)
	}
	return span
}

// Depth returns the number of rows needed to draw nodes. It is at least 1.
func Depth(nodes []Node) int {
	depth := 1
	for _, n := range nodes {
		if !n.IsLeaf() {
			depth = max(depth, 1+Depth(n.Children))
		}
	}
	return depth
}

// Validate checks that nodes can be laid out: the forest is non-empty, every
// leaf has a key, and no key appears twice.
func Validate(nodes []Node) error {
	if len(nodes) == 0 {
		return fmt.Errorf("%w: header tree is empty", ErrInvalidHeader)
	}
	seen := make(map[string]bool)
	return validate(nodes, "", seen)
}

func validate(nodes []Node, path string, seen map[string]bool) error {
	for i, n := range nodes {
		where := fmt.Sprintf("%s[%d]", path, i)
		if n.Label != "" {
			where = fmt.Sprintf("%s(%s)", where, n.Label)
		}

		if !n.IsLeaf() {
			if err := validate(n.Children, where, seen); err != nil {
				return err
			}
			continue
		}

		if n.Key == "" {
			return fmt.Errorf("%w: leaf %s has no key", ErrInvalidHeader, where)
		}
		if seen[n.Key] {
			return fmt.Errorf("%w: duplicate key %q at %s", ErrInvalidHeader, n.Key, where)
		}
		seen[n.Key] = true
	}
	return nil
}

// BuildPlan lays out nodes. Each node writes its label into the first column
// of its span on its own level; the remaining cells of the span and every cell
// below a leaf are blank.
func BuildPlan(nodes []Node) (Plan, error) {
	if err := Validate(nodes); err != nil {
		return Plan{}, err
	}

	depth := Depth(nodes)
	width := 0
	for _, n := range nodes {
		width += LeafSpan(n)
	}

	rows := make([][]string, depth)
	for r := range rows {
		rows[r] = make([]string, width)
	}

	p := Plan{Rows: rows}
	p.place(nodes, 0, 0)
	return p, nil
}

// place writes nodes starting at (level, col) and returns the next free column.
func (p *Plan) place(nodes []Node, level, col int) int {
	for _, n := range nodes {
		p.Rows[level][col] = n.Label
		if n.IsLeaf() {
			p.DataKeys = append(p.DataKeys, n.Key)
			p.Labels = append(p.Labels, n.Label)
			col++
			continue
		}

		span := LeafSpan(n)
		p.Merges = append(p.Merges, Rect{Row: level, StartCol: col, EndCol: col + span - 1})
		p.place(n.Children, level+1, col)
		col += span
	}
	return col
}

// FlatPlan returns a single-row plan for columns.
func FlatPlan(columns []Column) Plan {
	p := Plan{
		Rows:     [][]string{make([]string, len(columns))},
		DataKeys: make([]string, len(columns)),
		Labels:   make([]string, len(columns)),
	}
	for i, c := range columns {
		p.Rows[0][i] = c.Label
		p.DataKeys[i] = c.Key
		p.Labels[i] = c.Label
	}
	return p
}
