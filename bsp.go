package wad

import "github.com/pkg/errors"

// PointOnSide returns 0 if the point is on the front (right) side of the
// partition and 1 if it is on the back side. It follows the engine's fixed
// point arithmetic exactly, including the shifted operands of the final
// comparison.
func (n *Node) PointOnSide(x, y Fixed) int {
	if n.DX == 0 {
		if x <= n.X {
			return boolSide(n.DY > 0)
		}
		return boolSide(n.DY < 0)
	}
	if n.DY == 0 {
		if y <= n.Y {
			return boolSide(n.DX < 0)
		}
		return boolSide(n.DX > 0)
	}

	dx := x - n.X
	dy := y - n.Y

	// Try to quickly decide by looking at sign bits.
	if (n.DY^n.DX^dx^dy)&Fixed(-0x80000000) != 0 {
		if (n.DY^dx)&Fixed(-0x80000000) != 0 {
			return 1 // left is negative
		}
		return 0
	}

	left := FixedMul(n.DY>>FracBits, dx)
	right := FixedMul(dy, n.DX>>FracBits)
	if right < left {
		return 0 // front side
	}
	return 1 // back side
}

// Child returns the child reference for side
func (n *Node) Child(side int) NodeChild {
	return n.Children[side]
}

// RootNode returns the index of the root of the BSP tree, the last node.
func (l *Level) RootNode() int {
	return len(l.Nodes) - 1
}

// LocateSubSector walks the BSP tree from the root to the subsector containing
// the point. A tree that has not reached a leaf after visiting every node is
// reported as corrupt.
func (l *Level) LocateSubSector(x, y Fixed) (*SubSector, error) {
	// A map with a single subsector has no nodes
	if len(l.Nodes) == 0 {
		if len(l.SubSectors) == 0 {
			return nil, errors.Wrap(ErrCorruptBspTree, "no nodes and no subsectors")
		}
		return &l.SubSectors[0], nil
	}

	child := NodeChild{Index: l.RootNode()}
	for steps := 0; steps <= len(l.Nodes); steps++ {
		if child.Leaf {
			if child.Index >= len(l.SubSectors) {
				return nil, errors.Wrapf(ErrCorruptBspTree, "subsector %d of %d", child.Index, len(l.SubSectors))
			}
			return &l.SubSectors[child.Index], nil
		}
		if child.Index >= len(l.Nodes) {
			return nil, errors.Wrapf(ErrCorruptBspTree, "node %d of %d", child.Index, len(l.Nodes))
		}
		node := &l.Nodes[child.Index]
		child = node.Child(node.PointOnSide(x, y))
	}
	return nil, errors.Wrapf(ErrCorruptBspTree, "no leaf after %d steps", len(l.Nodes)+1)
}

// LocateSector returns the sector containing the point.
func (l *Level) LocateSector(x, y Fixed) (*Sector, error) {
	ss, err := l.LocateSubSector(x, y)
	if err != nil {
		return nil, err
	}
	if ss.Sector == nil {
		return nil, errors.Wrapf(ErrBadReference, "subsector %d has no sector", ss.Index)
	}
	return ss.Sector, nil
}

// SectorAt returns the sector containing the point given in map units.
func (l *Level) SectorAt(x, y float64) (*Sector, error) {
	return l.LocateSector(FloatToFixed(x), FloatToFixed(y))
}
