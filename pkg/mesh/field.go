package mesh

import "github.com/samber/lo"

// Array is a named attribute array. Values holds Components floats per tuple.
type Array struct {
	Name       string    `json:"name"`
	Components int       `json:"components"`
	Values     []float64 `json:"values"`
}

// NewArray returns an array of n zeroed tuples.
func NewArray(name string, components, n int) *Array {
	if components < 1 {
		components = 1
	}
	return &Array{Name: name, Components: components, Values: make([]float64, components*n)}
}

// Len returns the number of tuples.
func (a *Array) Len() int {
	if a.Components == 0 {
		return 0
	}
	return len(a.Values) / a.Components
}

// Tuple returns tuple i. The returned slice aliases the array.
func (a *Array) Tuple(i int) []float64 {
	return a.Values[i*a.Components : (i+1)*a.Components]
}

// Scalar returns the first component of tuple i.
func (a *Array) Scalar(i int) float64 {
	return a.Values[i*a.Components]
}

// AppendTuple appends one tuple. Missing components are zero.
func (a *Array) AppendTuple(t ...float64) {
	for c := 0; c < a.Components; c++ {
		if c < len(t) {
			a.Values = append(a.Values, t[c])
		} else {
			a.Values = append(a.Values, 0)
		}
	}
}

// Clone returns a deep copy of the array.
func (a *Array) Clone() *Array {
	return &Array{Name: a.Name, Components: a.Components, Values: append([]float64(nil), a.Values...)}
}

// FieldData is an ordered set of arrays with unique names. The zero value is empty.
type FieldData struct {
	arrays []*Array
}

// Add stores a, replacing any array of the same name in place.
func (f *FieldData) Add(a *Array) {
	for i, old := range f.arrays {
		if old.Name == a.Name {
			f.arrays[i] = a
			return
		}
	}
	f.arrays = append(f.arrays, a)
}

// Get returns the array with the given name, or nil.
func (f *FieldData) Get(name string) *Array {
	for _, a := range f.arrays {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Remove drops the named array if present.
func (f *FieldData) Remove(name string) {
	f.arrays = lo.Filter(f.arrays, func(a *Array, _ int) bool { return a.Name != name })
}

// Arrays returns the arrays in insertion order.
func (f *FieldData) Arrays() []*Array {
	return f.arrays
}

// Names returns the array names in insertion order.
func (f *FieldData) Names() []string {
	return lo.Map(f.arrays, func(a *Array, _ int) string { return a.Name })
}

// Len returns the number of arrays.
func (f *FieldData) Len() int {
	return len(f.arrays)
}

// Clone returns a deep copy.
func (f *FieldData) Clone() FieldData {
	return FieldData{arrays: lo.Map(f.arrays, func(a *Array, _ int) *Array { return a.Clone() })}
}

// Structure returns field data with the same array names and component
// counts and no tuples.
func (f *FieldData) Structure() FieldData {
	return FieldData{arrays: lo.Map(f.arrays, func(a *Array, _ int) *Array {
		return &Array{Name: a.Name, Components: a.Components}
	})}
}

// CopyTuple appends tuple i of src to every array of f, matching by name.
// Arrays with no counterpart in src receive zeros.
func (f *FieldData) CopyTuple(src *FieldData, i int) {
	for _, a := range f.arrays {
		s := src.Get(a.Name)
		if s == nil || s.Components != a.Components || i >= s.Len() {
			a.AppendTuple()
			continue
		}
		a.AppendTuple(s.Tuple(i)...)
	}
}

// InterpolateTuple appends (1-t)*src[i] + t*src[j] to every array of f.
func (f *FieldData) InterpolateTuple(src *FieldData, i, j int, t float64) {
	for _, a := range f.arrays {
		s := src.Get(a.Name)
		if s == nil || s.Components != a.Components || i >= s.Len() || j >= s.Len() {
			a.AppendTuple()
			continue
		}
		ti, tj := s.Tuple(i), s.Tuple(j)
		for c := range ti {
			a.Values = append(a.Values, (1-t)*ti[c]+t*tj[c])
		}
	}
}

// AverageTuples appends the mean of the src tuples at ids to every array of f.
func (f *FieldData) AverageTuples(src *FieldData, ids []int) {
	for _, a := range f.arrays {
		s := src.Get(a.Name)
		if s == nil || s.Components != a.Components || len(ids) == 0 {
			a.AppendTuple()
			continue
		}
		sum := make([]float64, a.Components)
		for _, id := range ids {
			for c, v := range s.Tuple(id) {
				sum[c] += v
			}
		}
		for c := range sum {
			sum[c] /= float64(len(ids))
		}
		a.AppendTuple(sum...)
	}
}
