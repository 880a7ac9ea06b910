package figma

import (
	_ "embed"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/geometry"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/layout"
)

// Chart candidates must be strictly larger than this in both dimensions.
const (
	MinChartWidth  = 200.0
	MinChartHeight = 100.0
)

// SampleMetadata is a dashboard frame as exported by the design tool's
// metadata endpoint. Coordinates sit on a negative canvas.
//
//go:embed testdata/sample_metadata.xml
var SampleMetadata []byte

// Node is one element of a design metadata document.
type Node struct {
	Kind     string
	ID       string
	Name     string
	Bounds   *geometry.Bounds
	Children []Node
}

// rawNode mirrors arbitrary markup; attributes and children are kept as-is.
type rawNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []rawNode  `xml:",any"`
}

// ParseMetadata decodes a metadata document. The document may hold several
// top-level elements.
func ParseMetadata(r io.Reader) ([]Node, error) {
	dec := xml.NewDecoder(r)

	var roots []Node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		var raw rawNode
		if err := dec.DecodeElement(&raw, &start); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}

		node, err := convertNode(raw)
		if err != nil {
			return nil, err
		}
		roots = append(roots, node)
	}

	if len(roots) == 0 {
		return nil, errors.New("decode metadata: document has no elements")
	}
	return roots, nil
}

func convertNode(raw rawNode) (Node, error) {
	node := Node{
		Kind: strings.ToLower(raw.XMLName.Local),
		ID:   attr(raw.Attrs, "data-node-id"),
		Name: attr(raw.Attrs, "name"),
	}
	if node.ID == "" {
		node.ID = attr(raw.Attrs, "id")
	}

	bounds, err := boundsFromAttrs(raw.Attrs)
	if err != nil {
		return Node{}, fmt.Errorf("node %s: %w", node.ID, err)
	}
	node.Bounds = bounds

	for _, child := range raw.Children {
		if strings.EqualFold(child.XMLName.Local, "bounds") {
			b, err := boundsFromAttrs(child.Attrs)
			if err != nil {
				return Node{}, fmt.Errorf("node %s: %w", node.ID, err)
			}
			if b != nil {
				node.Bounds = b
			}
			continue
		}

		converted, err := convertNode(child)
		if err != nil {
			return Node{}, err
		}
		node.Children = append(node.Children, converted)
	}

	return node, nil
}

func attr(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

// boundsFromAttrs reads x, y, width and height. All four absent means no
// bounds; a partial or non-numeric set is an error.
func boundsFromAttrs(attrs []xml.Attr) (*geometry.Bounds, error) {
	keys := []string{"x", "y", "width", "height"}
	values := make([]float64, len(keys))
	present := 0
	for i, key := range keys {
		raw := attr(attrs, key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("bounds %s=%q: %w", key, raw, err)
		}
		values[i] = v
		present++
	}

	switch present {
	case 0:
		return nil, nil
	case len(keys):
		return &geometry.Bounds{X: values[0], Y: values[1], Width: values[2], Height: values[3]}, nil
	default:
		return nil, errors.New("bounds require x, y, width and height")
	}
}

func isChartKind(kind string) bool {
	return kind == "frame" || kind == "rectangle"
}

// find returns the first node with id in depth-first order.
func find(nodes []Node, id string) (*Node, bool) {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i], true
		}
		if found, ok := find(nodes[i].Children, id); ok {
			return found, true
		}
	}
	return nil, false
}

// ChartCandidates collects frames and rectangles larger than the chart
// minimum below scope. A matching element's own descendants are not
// searched, so a chart's inner plot area is not counted twice.
func ChartCandidates(scope []Node) []layout.Rectangle {
	var out []layout.Rectangle
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			if isChartKind(n.Kind) && n.Bounds != nil && n.Bounds.Larger(MinChartWidth, MinChartHeight) {
				out = append(out, layout.Rectangle{ID: n.ID, Bounds: *n.Bounds, Type: n.Kind})
				continue
			}
			walk(n.Children)
		}
	}
	walk(scope)
	return out
}

// ExtractLayout derives the snapshot of nodeID from a parsed document. When
// the document contains that node only its descendants are considered;
// otherwise the whole document is.
func ExtractLayout(doc []Node, nodeID string) layout.Snapshot {
	scope := doc
	if root, ok := find(doc, nodeID); ok {
		scope = root.Children
	}

	candidates := ChartCandidates(scope)
	rows := layout.GroupRows(candidates, layout.DefaultAlignmentTolerance)

	return layout.Snapshot{
		SourceID:   "figma:" + nodeID,
		Elements:   candidates,
		Pattern:    layout.PatternFromRows(rows),
		Confidence: layout.Score(candidates),
	}
}
