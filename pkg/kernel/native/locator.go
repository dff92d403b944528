package native

import (
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// locatorPoint is a kd-tree entry carrying the id of the point it indexes.
type locatorPoint struct {
	pos r3.Vec
	id  int
}

func component(v r3.Vec, d kdtree.Dim) float64 {
	switch d {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Compare implements kdtree.Comparable.
func (p locatorPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(locatorPoint)
	return component(p.pos, d) - component(q.pos, d)
}

// Dims implements kdtree.Comparable.
func (p locatorPoint) Dims() int { return 3 }

// Distance implements kdtree.Comparable. It returns the squared distance.
func (p locatorPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(locatorPoint)
	d := r3.Sub(p.pos, q.pos)
	return r3.Dot(d, d)
}

// Locator assigns ids to points, reusing the id of an already inserted point
// that lies within the tolerance.
type Locator struct {
	tree kdtree.Tree
	tol2 float64
	n    int
}

// NewLocator returns an empty locator. Points within tol of each other
// (inclusive) share an id; a negative tol makes every point distinct.
func NewLocator(tol float64) *Locator {
	l := &Locator{tol2: tol * tol}
	if tol < 0 {
		l.tol2 = -1
	}
	return l
}

// Len returns the number of distinct points inserted.
func (l *Locator) Len() int {
	return l.n
}

// Find returns the id of the nearest inserted point within tolerance of p.
func (l *Locator) Find(p r3.Vec) (int, bool) {
	if l.tree.Root == nil || l.tol2 < 0 {
		return -1, false
	}
	got, d2 := l.tree.Nearest(locatorPoint{pos: p})
	if got == nil || d2 > l.tol2 {
		return -1, false
	}
	return got.(locatorPoint).id, true
}

// InsertUnique returns the id of the point within tolerance of p, inserting
// p under the next id when there is none.
func (l *Locator) InsertUnique(p r3.Vec) (id int, inserted bool) {
	if id, ok := l.Find(p); ok {
		return id, false
	}
	id = l.n
	l.tree.Insert(locatorPoint{pos: p, id: id}, false)
	l.n++
	return id, true
}
