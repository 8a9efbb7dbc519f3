package display

import (
	"strings"

	"github.com/bethropolis/richexif/internal/metadata"
)

// NodeKind tells the printer how to style a node.
type NodeKind int

const (
	KindRoot  NodeKind = iota // file path
	KindGroup                 // first key segment, e.g. "EXIF"
	KindField                 // "Make: Canon"
	KindLeaf                  // bare value
)

// Node is one line of the tree display.
type Node struct {
	Kind     NodeKind
	Label    string
	Value    string
	Children []*Node
}

// Text is the node's display text without styling.
func (n *Node) Text() string {
	switch n.Kind {
	case KindField:
		return n.Label + ": " + n.Value
	case KindLeaf:
		return n.Value
	default:
		return n.Label
	}
}

func (n *Node) add(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// BuildTree groups metadata under the file path by the first segment of each
// key.
//
// The grouping is order dependent. A two-segment key ("EXIF:Make") adds a
// "Make: <value>" node directly under the root and becomes the insertion
// point for its group, so later keys of one or three or more segments in
// that group are appended under it rather than under the group node.
// Output is kept identical to earlier releases on purpose.
func BuildTree(path string, md metadata.Metadata) *Node {
	root := &Node{Kind: KindRoot, Label: path}
	branches := make(map[string]*Node)

	for _, e := range md {
		tags := strings.Split(e.Key, ":")
		rootTag := tags[0]
		value := metadata.FormatValue(e.Value)

		if _, ok := branches[rootTag]; !ok {
			branches[rootTag] = root.add(&Node{Kind: KindGroup, Label: rootTag})
		}

		if len(tags) == 2 {
			branches[rootTag] = root.add(&Node{Kind: KindField, Label: tags[1], Value: value})
		} else {
			branches[rootTag].add(&Node{Kind: KindLeaf, Value: strings.TrimSpace(value)})
		}
	}

	return root
}
