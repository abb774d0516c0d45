package wad

const (
	// MaxRadius is the largest actor radius. Actors are linked into the
	// blockmap by their centre, so thing checks search this much further.
	MaxRadius = 32 * FracUnit

	// MaxStepHeight is the tallest step an actor may climb.
	MaxStepHeight = 24 * FracUnit
)

// ActorFlags hold the engine's mobj flags that affect movement. Values match
// the original flag bits.
type ActorFlags uint32

const (
	FlagSpecial   ActorFlags = 0x1     // Call the touch handler when touched
	FlagSolid     ActorFlags = 0x2     // Blocks
	FlagShootable ActorFlags = 0x4     // Can be hit
	FlagDropOff   ActorFlags = 0x400   // Allowed to walk off ledges
	FlagPickup    ActorFlags = 0x800   // Picks up items
	FlagNoClip    ActorFlags = 0x1000  // Passes through walls and things
	FlagFloat     ActorFlags = 0x4000  // Changes height at will
	FlagTeleport  ActorFlags = 0x8000  // Being teleported, height checks skipped
	FlagMissile   ActorFlags = 0x10000 // Explodes on contact
	FlagSkullFly  ActorFlags = 0x1000000
)

// Actor is a snapshot of a moving or stationary thing on the map.
type Actor struct {
	X, Y, Z        Fixed
	Radius, Height Fixed
	Flags          ActorFlags
	Type           int
	Player         bool
	Target         *Actor // For missiles, the actor that fired it
}

// RejectReason says why a position was refused.
type RejectReason int

const (
	NotRejected RejectReason = iota
	BlockedByActor
	SkullSlam
	MissileImpact
	BlockedByWall
	BlockedByLine
	BlockedForMonsters
)

func (r RejectReason) String() string {
	switch r {
	case NotRejected:
		return "not rejected"
	case BlockedByActor:
		return "blocked by actor"
	case SkullSlam:
		return "skull slam"
	case MissileImpact:
		return "missile impact"
	case BlockedByWall:
		return "blocked by one-sided line"
	case BlockedByLine:
		return "blocked by blocking line"
	case BlockedForMonsters:
		return "blocked by monster-blocking line"
	}
	return "unknown"
}

// Position is the verdict for a candidate position. FloorZ, CeilingZ and
// DropoffZ start from the destination sector and are narrowed by every
// two-sided line the actor's box straddles. They are only complete when the
// position is admissible.
type Position struct {
	Admissible    bool
	Reason        RejectReason
	BlockingActor *Actor
	BlockingLine  *Line

	Sector      *Sector // Sector containing the destination point
	FloorZ      Fixed   // Highest floor under the box
	CeilingZ    Fixed   // Lowest ceiling over the box
	DropoffZ    Fixed   // Lowest floor under the box
	CeilingLine *Line   // Line that set CeilingZ, if any

	Touched []*Actor // Specials the actor would pick up
}

func (p *Position) reject(reason RejectReason, actor *Actor, line *Line) {
	p.Admissible = false
	p.Reason = reason
	p.BlockingActor = actor
	p.BlockingLine = line
}

// Fits reports whether a standing actor may move into an admissible position:
// it must fit between floor and ceiling, not step up more than MaxStepHeight,
// and not stand over a drop of more than MaxStepHeight unless it may drop off
// or float.
func (p *Position) Fits(a *Actor) bool {
	if !p.Admissible {
		return false
	}
	if a.Flags&FlagNoClip != 0 {
		return true
	}
	if p.CeilingZ-p.FloorZ < a.Height {
		return false // doesn't fit
	}
	if a.Flags&FlagTeleport == 0 {
		if p.CeilingZ-a.Z < a.Height {
			return false // must lower itself to fit
		}
		if p.FloorZ-a.Z > MaxStepHeight {
			return false // too big a step up
		}
	}
	if a.Flags&(FlagDropOff|FlagFloat) == 0 && p.FloorZ-p.DropoffZ > MaxStepHeight {
		return false // don't stand over a dropoff
	}
	return true
}

// Opening is the vertical gap through a two-sided line.
type Opening struct {
	Top      Fixed // Lower of the two ceilings
	Bottom   Fixed // Higher of the two floors
	LowFloor Fixed // Lower of the two floors
	Range    Fixed
}

// LineOpening returns the opening of a two-sided line. One-sided lines have no
// opening.
func LineOpening(li *Line) Opening {
	front, back := li.FrontSector, li.BackSector
	if front == nil || back == nil {
		return Opening{}
	}
	o := Opening{
		Top:      min(front.CeilingHeight, back.CeilingHeight),
		Bottom:   max(front.FloorHeight, back.FloorHeight),
		LowFloor: min(front.FloorHeight, back.FloorHeight),
	}
	o.Range = o.Top - o.Bottom
	return o
}

// boxOnLineSide returns the side of the line the whole box is on, or -1 if the
// box crosses it.
func boxOnLineSide(box BoundBox, li *Line) int {
	var p1, p2 int
	switch li.SlopeType {
	case SlopeTypeHorizontal:
		p1 = boolSide(box.Top > li.V1.Y)
		p2 = boolSide(box.Bottom > li.V1.Y)
		if li.DX < 0 {
			p1 ^= 1
			p2 ^= 1
		}
	case SlopeTypeVertical:
		p1 = boolSide(box.Right < li.V1.X)
		p2 = boolSide(box.Left < li.V1.X)
		if li.DY < 0 {
			p1 ^= 1
			p2 ^= 1
		}
	case SlopeTypePositive:
		p1 = li.PointOnSide(box.Left, box.Top)
		p2 = li.PointOnSide(box.Right, box.Bottom)
	case SlopeTypeNegative:
		p1 = li.PointOnSide(box.Right, box.Top)
		p2 = li.PointOnSide(box.Left, box.Bottom)
	}
	if p1 == p2 {
		return p1
	}
	return -1
}

// checker holds the state of one CheckPosition query.
type checker struct {
	actor *Actor
	x, y  Fixed
	bbox  BoundBox
	pos   *Position
}

// CheckPosition decides whether actor a may occupy (x, y), given the other
// actors on the map. The actor's own X and Y are its old position; it may
// appear in actors and is ignored there. Nothing is modified: the caller
// commits the move and applies the reported floor and ceiling.
//
// Things are tested first, against every actor whose centre lies in a
// blockmap cell near the destination box, then every line in the cells the box
// overlaps. The first blocking thing or line ends the query.
func (l *Level) CheckPosition(a *Actor, x, y Fixed, actors []*Actor) (*Position, error) {
	sector, err := l.LocateSector(x, y)
	if err != nil {
		return nil, err
	}
	c := checker{
		actor: a,
		x:     x,
		y:     y,
		bbox: BoundBox{
			Top:    y + a.Radius,
			Bottom: y - a.Radius,
			Right:  x + a.Radius,
			Left:   x - a.Radius,
		},
		pos: &Position{
			Admissible: true,
			Sector:     sector,
			FloorZ:     sector.FloorHeight,
			CeilingZ:   sector.CeilingHeight,
			DropoffZ:   sector.FloorHeight,
		},
	}
	if a.Flags&FlagNoClip != 0 {
		return c.pos, nil
	}

	bm := &l.BlockMap

	// Check things
	buckets := bucketActors(bm, actors)
	cells := bm.CellRange(c.bbox, MaxRadius)
	for bx := cells.Left; bx <= cells.Right; bx++ {
		for by := cells.Bottom; by <= cells.Top; by++ {
			if bm.Block(bx, by) == nil {
				continue
			}
			for _, thing := range buckets[by*bm.NumColumns+bx] {
				if !c.checkThing(thing) {
					return c.pos, nil
				}
			}
		}
	}

	// Check lines. A line spanning several cells is tested once.
	seen := make([]bool, len(l.Lines))
	cells = bm.CellRange(c.bbox, 0)
	for bx := cells.Left; bx <= cells.Right; bx++ {
		for by := cells.Bottom; by <= cells.Top; by++ {
			block := bm.Block(bx, by)
			if block == nil {
				continue
			}
			for _, li := range block.Lines {
				if seen[li.Index] {
					continue
				}
				seen[li.Index] = true
				if !c.checkLine(li) {
					return c.pos, nil
				}
			}
		}
	}

	return c.pos, nil
}

// bucketActors groups actors by the blockmap cell of their centre. Actors
// outside the blockmap are in no cell.
func bucketActors(bm *BlockMap, actors []*Actor) map[int][]*Actor {
	buckets := make(map[int][]*Actor)
	for _, a := range actors {
		bx, by := bm.CellOf(a.X, a.Y)
		if bm.Block(bx, by) == nil {
			continue
		}
		i := by*bm.NumColumns + bx
		buckets[i] = append(buckets[i], a)
	}
	return buckets
}

// checkThing returns false if thing blocks the move.
func (c *checker) checkThing(thing *Actor) bool {
	if thing.Flags&(FlagSolid|FlagSpecial|FlagShootable) == 0 {
		return true
	}
	a := c.actor
	blockdist := thing.Radius + a.Radius
	if abs(thing.X-c.x) >= blockdist || abs(thing.Y-c.y) >= blockdist {
		return true // didn't hit it
	}
	if thing == a {
		return true // don't clip against self
	}

	// A charging skull stops at whatever it hits
	if a.Flags&FlagSkullFly != 0 {
		c.pos.reject(SkullSlam, thing, nil)
		return false
	}

	if a.Flags&FlagMissile != 0 {
		if a.Z > thing.Z+thing.Height {
			return true // overhead
		}
		if a.Z+a.Height < thing.Z {
			return true // underneath
		}
		if a.Target != nil && a.Target.Type == thing.Type {
			if thing == a.Target {
				return true // don't hit the shooter
			}
			if !thing.Player {
				// Same species: explode without harm
				c.pos.reject(MissileImpact, thing, nil)
				return false
			}
		}
		if thing.Flags&FlagShootable == 0 {
			if thing.Flags&FlagSolid != 0 {
				c.pos.reject(MissileImpact, thing, nil)
				return false
			}
			return true
		}
		c.pos.reject(MissileImpact, thing, nil)
		return false
	}

	if thing.Flags&FlagSpecial != 0 {
		if a.Flags&FlagPickup != 0 {
			c.pos.Touched = append(c.pos.Touched, thing)
		}
		if thing.Flags&FlagSolid != 0 {
			c.pos.reject(BlockedByActor, thing, nil)
			return false
		}
		return true
	}

	if thing.Flags&FlagSolid != 0 {
		c.pos.reject(BlockedByActor, thing, nil)
		return false
	}
	return true
}

// checkLine returns false if li blocks the move, otherwise narrows the opening.
func (c *checker) checkLine(li *Line) bool {
	box, lb := c.bbox, li.BoundingBox
	if box.Right <= lb.Left || box.Left >= lb.Right || box.Top <= lb.Bottom || box.Bottom >= lb.Top {
		return true
	}
	if boxOnLineSide(box, li) != -1 {
		return true
	}

	// The box crosses the line
	if li.FrontSector == nil || li.BackSector == nil {
		c.pos.reject(BlockedByWall, nil, li) // one sided line
		return false
	}
	if c.actor.Flags&FlagMissile == 0 {
		if li.Flags&LineBlocking != 0 {
			c.pos.reject(BlockedByLine, nil, li)
			return false
		}
		if !c.actor.Player && li.Flags&LineBlockMonsters != 0 {
			c.pos.reject(BlockedForMonsters, nil, li)
			return false
		}
	}

	// Adjust floor and ceiling heights
	o := LineOpening(li)
	if o.Top < c.pos.CeilingZ {
		c.pos.CeilingZ = o.Top
		c.pos.CeilingLine = li
	}
	if o.Bottom > c.pos.FloorZ {
		c.pos.FloorZ = o.Bottom
	}
	if o.LowFloor < c.pos.DropoffZ {
		c.pos.DropoffZ = o.LowFloor
	}
	return true
}
