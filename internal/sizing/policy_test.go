package sizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyNoneResizesAndStaysResizable(t *testing.T) {
	p := NewPolicy()

	plan, err := p.Apply(800, 600, HintNone)
	require.NoError(t, err)

	assert.True(t, plan.Resize)
	assert.Equal(t, Size{800, 600}, plan.Size)
	assert.True(t, plan.Resizable)
	assert.True(t, plan.Changed)
}

func TestApplyFixedThenNoneRestoresResizability(t *testing.T) {
	p := NewPolicy()

	plan, err := p.Apply(640, 480, HintFixed)
	require.NoError(t, err)
	assert.False(t, plan.Resizable)
	assert.Equal(t, Size{640, 480}, plan.Size)
	assert.False(t, p.Resizable())

	plan, err = p.Apply(1024, 768, HintNone)
	require.NoError(t, err)
	assert.True(t, plan.Resizable)
	assert.True(t, plan.Resize)
	assert.Equal(t, Size{1024, 768}, plan.Size)
	assert.True(t, p.Resizable())
}

func TestApplyFixedThenMinRestoresResizability(t *testing.T) {
	p := NewPolicy()

	_, err := p.Apply(640, 480, HintFixed)
	require.NoError(t, err)

	plan, err := p.Apply(320, 240, HintMin)
	require.NoError(t, err)
	assert.True(t, plan.Resizable)
	assert.False(t, plan.Resize, "MIN must not touch the current size")
}

func TestApplyMinClampsUserResize(t *testing.T) {
	p := NewPolicy()

	plan, err := p.Apply(400, 300, HintMin)
	require.NoError(t, err)
	assert.False(t, plan.Resize)
	assert.Equal(t, Size{400, 300}, plan.Min)
	assert.True(t, plan.Max.IsZero())

	assert.Equal(t, Size{400, 300}, p.Clamp(Size{100, 50}))
	assert.Equal(t, Size{400, 500}, p.Clamp(Size{10, 500}))
	assert.Equal(t, Size{900, 700}, p.Clamp(Size{900, 700}))
}

func TestApplyMaxClampsUserResize(t *testing.T) {
	p := NewPolicy()

	plan, err := p.Apply(1000, 800, HintMax)
	require.NoError(t, err)
	assert.False(t, plan.Resize)
	assert.Equal(t, Size{1000, 800}, plan.Max)

	assert.Equal(t, Size{1000, 800}, p.Clamp(Size{4000, 3000}))
	assert.Equal(t, Size{200, 100}, p.Clamp(Size{200, 100}))
}

func TestMinAndMaxAreEnforcedTogether(t *testing.T) {
	p := NewPolicy()

	_, err := p.Apply(300, 200, HintMin)
	require.NoError(t, err)
	plan, err := p.Apply(900, 700, HintMax)
	require.NoError(t, err)

	assert.Equal(t, Size{300, 200}, plan.Min)
	assert.Equal(t, Size{900, 700}, plan.Max)
	assert.Equal(t, Size{300, 700}, p.Clamp(Size{100, 5000}))

	plan, err = p.Apply(500, 400, HintMin)
	require.NoError(t, err)
	assert.Equal(t, Size{500, 400}, plan.Min, "latest MIN wins")
	assert.Equal(t, Size{900, 700}, plan.Max)
}

func TestContradictingBoundMovesTheOtherBound(t *testing.T) {
	tests := []struct {
		name    string
		first   Hint
		firstSz Size
		second  Hint
		secSz   Size
		wantMin Size
		wantMax Size
	}{
		{
			name:  "min above max raises max",
			first: HintMax, firstSz: Size{600, 400},
			second: HintMin, secSz: Size{800, 300},
			wantMin: Size{800, 300}, wantMax: Size{800, 400},
		},
		{
			name:  "max below min lowers min",
			first: HintMin, firstSz: Size{600, 400},
			second: HintMax, secSz: Size{500, 500},
			wantMin: Size{500, 400}, wantMax: Size{500, 500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPolicy()
			_, err := p.Apply(tt.firstSz.Width, tt.firstSz.Height, tt.first)
			require.NoError(t, err)
			plan, err := p.Apply(tt.secSz.Width, tt.secSz.Height, tt.second)
			require.NoError(t, err)

			assert.Equal(t, tt.wantMin, plan.Min)
			assert.Equal(t, tt.wantMax, plan.Max)
		})
	}
}

func TestNoneSizeIsClampedIntoBounds(t *testing.T) {
	p := NewPolicy()

	_, err := p.Apply(500, 500, HintMin)
	require.NoError(t, err)
	plan, err := p.Apply(100, 900, HintNone)
	require.NoError(t, err)

	assert.Equal(t, Size{500, 900}, plan.Size)
}

func TestApplyIsIdempotent(t *testing.T) {
	p := NewPolicy()

	first, err := p.Apply(800, 600, HintMin)
	require.NoError(t, err)
	second, err := p.Apply(800, 600, HintMin)
	require.NoError(t, err)

	assert.True(t, first.Changed)
	assert.False(t, second.Changed)
	first.Changed = false
	assert.Equal(t, first, second)

	minSize, _ := p.Bounds()
	assert.Equal(t, Size{800, 600}, minSize)
}

func TestApplyRejectsInvalidInput(t *testing.T) {
	p := NewPolicy()

	_, err := p.Apply(0, 600, HintNone)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = p.Apply(800, -1, HintFixed)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = p.Apply(800, 600, Hint(42))
	assert.Error(t, err)

	minSize, maxSize := p.Bounds()
	assert.True(t, minSize.IsZero())
	assert.True(t, maxSize.IsZero())
	assert.True(t, p.Resizable())
}

func TestParseHint(t *testing.T) {
	for _, h := range []Hint{HintNone, HintMin, HintMax, HintFixed} {
		got, err := ParseHint(h.String())
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}

	got, err := ParseHint("")
	require.NoError(t, err)
	assert.Equal(t, HintNone, got)

	_, err = ParseHint("huge")
	assert.Error(t, err)
	assert.Equal(t, "hint(9)", Hint(9).String())
}
