package hsort

import "github.com/ironsheep/palette-tools-mcp/internal/palette"

// node is one block in the group tree. Groups carry children and, when the
// file closed them, their end marker.
type node struct {
	block    palette.Block
	children []*node
	end      palette.Block
}

// buildTree nests blocks under a synthetic root. A GroupEnd with no open
// group becomes a leaf of the root rather than closing it.
func buildTree(blocks []palette.Block) *node {
	root := &node{}
	stack := []*node{root}
	for _, b := range blocks {
		top := stack[len(stack)-1]
		switch b.Kind() {
		case palette.KindGroupStart:
			n := &node{block: b}
			top.children = append(top.children, n)
			stack = append(stack, n)
		case palette.KindGroupEnd:
			if len(stack) == 1 {
				top.children = append(top.children, &node{block: b})
				continue
			}
			top.end = b
			stack = stack[:len(stack)-1]
		default:
			top.children = append(top.children, &node{block: b})
		}
	}
	return root
}

// flatten emits the subtree under n depth-first: block, children, end.
func (n *node) flatten(dst []palette.Block) []palette.Block {
	if n.block != nil {
		dst = append(dst, n.block)
	}
	for _, c := range n.children {
		dst = c.flatten(dst)
	}
	if n.end != nil {
		dst = append(dst, n.end)
	}
	return dst
}

// Depths returns the group nesting depth of every block. A group's start
// and end share the depth of their parent; its contents are one deeper.
func Depths(blocks []palette.Block) []int {
	res := make([]int, len(blocks))
	depth := 0
	for i, b := range blocks {
		switch b.Kind() {
		case palette.KindGroupStart:
			res[i] = depth
			depth++
		case palette.KindGroupEnd:
			if depth > 0 {
				depth--
			}
			res[i] = depth
		default:
			res[i] = depth
		}
	}
	return res
}
