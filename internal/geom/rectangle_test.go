package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coregx/pdfredact/internal/geom"
)

func TestNewRectangle_NormalizesCorners(t *testing.T) {
	r := geom.NewRectangle(10, 10, 0, 0)
	assert.Equal(t, geom.Rectangle{Left: 0, Bottom: 0, Right: 10, Top: 10}, r)
}

func TestRectangle_IsEmpty(t *testing.T) {
	cases := []struct {
		name string
		r    geom.Rectangle
		want bool
	}{
		{"zero value", geom.Rectangle{}, true},
		{"positive area", geom.NewRectangle(0, 0, 10, 10), false},
		{"zero width", geom.Rectangle{Left: 5, Right: 5, Bottom: 0, Top: 10}, true},
		{"zero height", geom.Rectangle{Left: 0, Right: 10, Bottom: 5, Top: 5}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.r.IsEmpty())
		})
	}
}

func TestRectangle_Intersects_OpenInterval(t *testing.T) {
	a := geom.NewRectangle(0, 0, 10, 10)

	t.Run("overlapping", func(t *testing.T) {
		b := geom.NewRectangle(5, 5, 15, 15)
		assert.True(t, a.Intersects(b))
		assert.True(t, b.Intersects(a))
	})

	t.Run("touching edge does not intersect", func(t *testing.T) {
		b := geom.NewRectangle(10, 0, 20, 10)
		assert.False(t, a.Intersects(b))
	})

	t.Run("disjoint", func(t *testing.T) {
		b := geom.NewRectangle(20, 20, 30, 30)
		assert.False(t, a.Intersects(b))
	})

	t.Run("contained", func(t *testing.T) {
		b := geom.NewRectangle(2, 2, 8, 8)
		assert.True(t, a.Intersects(b))
	})
}

func TestRectangle_ContainsPoint_InclusiveBoundary(t *testing.T) {
	r := geom.NewRectangle(0, 0, 10, 10)

	assert.True(t, r.ContainsPoint(5, 5))
	assert.True(t, r.ContainsPoint(0, 0), "bottom-left corner is inclusive")
	assert.True(t, r.ContainsPoint(10, 10), "top-right corner is inclusive")
	assert.False(t, r.ContainsPoint(10.0001, 5))
	assert.False(t, r.ContainsPoint(-0.0001, 5))
}

func TestRectangle_Union(t *testing.T) {
	a := geom.NewRectangle(0, 0, 10, 10)
	b := geom.NewRectangle(5, 5, 20, 20)

	got := a.Union(b)
	assert.Equal(t, geom.NewRectangle(0, 0, 20, 20), got)
}

func TestRectangle_Union_EmptyOperandsPassThrough(t *testing.T) {
	a := geom.NewRectangle(1, 1, 5, 5)

	assert.Equal(t, a, geom.Empty.Union(a))
	assert.Equal(t, a, a.Union(geom.Empty))
	assert.True(t, geom.Empty.Union(geom.Empty).IsEmpty())
}

func TestUnionAll(t *testing.T) {
	boxes := []geom.Rectangle{
		geom.NewRectangle(0, 0, 5, 5),
		geom.NewRectangle(10, 10, 15, 15),
		geom.NewRectangle(-5, 2, 3, 8),
	}
	got := geom.UnionAll(boxes)
	assert.Equal(t, geom.NewRectangle(-5, 0, 15, 15), got)
}

func TestUnionAll_Empty(t *testing.T) {
	assert.True(t, geom.UnionAll(nil).IsEmpty())
}

func TestRectangle_Center(t *testing.T) {
	r := geom.NewRectangle(0, 0, 10, 20)
	x, y := r.Center()
	assert.Equal(t, 5.0, x)
	assert.Equal(t, 10.0, y)
}

func TestRectangle_WidthHeight(t *testing.T) {
	r := geom.NewRectangle(1, 2, 11, 22)
	assert.Equal(t, 10.0, r.Width())
	assert.Equal(t, 20.0, r.Height())
}
