package wad

import (
	"fmt"
	"io"
)

// PrintTree prints the level's BSP tree, one member per line, children
// indented under their node. Recursion stops at depth len(Nodes) so a cyclic
// tree still terminates.
func (l *Level) PrintTree(w io.Writer) {
	var printRecursive func(NodeChild, string, int)
	printRecursive = func(c NodeChild, prefix string, depth int) {
		switch {
		case c.Leaf && c.Index < len(l.SubSectors):
			ss := &l.SubSectors[c.Index]
			sector := -1
			if ss.Sector != nil {
				sector = ss.Sector.Index
			}
			fmt.Fprintf(w, "%s- subsector %d: %d segments, sector %d\n", prefix, c.Index, ss.NumLineSegments, sector)
		case !c.Leaf && c.Index < len(l.Nodes) && depth <= len(l.Nodes):
			n := &l.Nodes[c.Index]
			fmt.Fprintf(w, "%s- node %d: (%v,%v) d(%v,%v)\n", prefix, c.Index,
				n.X.Int(), n.Y.Int(), n.DX.Int(), n.DY.Int())
			printRecursive(n.Children[0], prefix+"   ", depth+1)
			printRecursive(n.Children[1], prefix+"   ", depth+1)
		default:
			fmt.Fprintf(w, "%s- invalid %+v\n", prefix, c)
		}
	}

	if len(l.Nodes) == 0 {
		printRecursive(NodeChild{Leaf: true}, "", 0)
		return
	}
	printRecursive(NodeChild{Index: l.RootNode()}, "", 0)
}
