// SPDX-License-Identifier: MIT
package rawshape_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvcov/rawshape"
)

// TestSelectSlices mirrors numpy basic slicing on a (3, 2) array.
func TestSelectSlices(t *testing.T) {
	t.Parallel()

	s := rawshape.Shape{3, 2}

	flat, shape, err := rawshape.Select(s, rawshape.Every(2))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 4, 5}, flat)
	require.Equal(t, rawshape.Shape{2, 2}, shape)

	flat, shape, err = rawshape.Select(s, rawshape.All(), rawshape.Index(1))
	require.NoError(t, err)
	require.Equal(t, []int{1, 3, 5}, flat)
	require.Equal(t, rawshape.Shape{3}, shape)

	flat, shape, err = rawshape.Select(s, rawshape.Slice{Start: rawshape.None, Stop: rawshape.None, Step: -1}, rawshape.Index(-2))
	require.NoError(t, err)
	require.Equal(t, []int{4, 2, 0}, flat)
	require.Equal(t, rawshape.Shape{3}, shape)
}

// TestSelectFlat covers slicing a one-axis shape.
func TestSelectFlat(t *testing.T) {
	t.Parallel()

	flat, shape, err := rawshape.Select(rawshape.Shape{10}, rawshape.Every(2))
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 4, 6, 8}, flat)
	require.Equal(t, rawshape.Shape{5}, shape)

	flat, _, err = rawshape.Select(rawshape.Shape{10}, rawshape.Range(-3, 100))
	require.NoError(t, err)
	require.Equal(t, []int{7, 8, 9}, flat)

	flat, _, err = rawshape.Select(rawshape.Shape{10}, rawshape.Slice{Start: 5, Stop: 1, Step: -2})
	require.NoError(t, err)
	require.Equal(t, []int{5, 3}, flat)
}

// TestSelectIndicesOuterProduct keeps order and duplicates.
func TestSelectIndicesOuterProduct(t *testing.T) {
	t.Parallel()

	flat, shape, err := rawshape.Select(rawshape.Shape{3, 2}, rawshape.Indices{2, 0, 2}, rawshape.Indices{1})
	require.NoError(t, err)
	require.Equal(t, []int{5, 1, 5}, flat)
	require.Equal(t, rawshape.Shape{3, 1}, shape)
}

// TestSelectErrors covers too many selectors and bad indices.
func TestSelectErrors(t *testing.T) {
	t.Parallel()

	_, _, err := rawshape.Select(rawshape.Shape{4}, rawshape.All(), rawshape.All())
	require.ErrorIs(t, err, rawshape.ErrDimensionMismatch)

	_, _, err = rawshape.Select(rawshape.Shape{4}, rawshape.Index(4))
	require.ErrorIs(t, err, rawshape.ErrIndexOutOfRange)

	_, _, err = rawshape.Select(rawshape.Shape{4}, rawshape.Indices{0, -5})
	require.ErrorIs(t, err, rawshape.ErrIndexOutOfRange)
}

// TestSliceString renders selectors for error messages.
func TestSliceString(t *testing.T) {
	t.Parallel()

	require.Equal(t, ":", rawshape.All().String())
	require.Equal(t, "::2", rawshape.Every(2).String())
	require.Equal(t, "1:3", rawshape.Range(1, 3).String())
}

// TestParseSelectors reads index expressions into selectors.
func TestParseSelectors(t *testing.T) {
	t.Parallel()

	sels, err := rawshape.ParseSelectors("::2, 1")
	require.NoError(t, err)
	require.Equal(t, []rawshape.Selector{rawshape.Every(2), rawshape.Index(1)}, sels)

	sels, err = rawshape.ParseSelectors("1:-1, [0, 2], :")
	require.NoError(t, err)
	require.Equal(t, []rawshape.Selector{
		rawshape.Range(1, -1),
		rawshape.Indices{0, 2},
		rawshape.All(),
	}, sels)

	sels, err = rawshape.ParseSelectors("4::-1")
	require.NoError(t, err)
	require.Equal(t, []rawshape.Selector{rawshape.Slice{Start: 4, Stop: rawshape.None, Step: -1}}, sels)

	sels, err = rawshape.ParseSelectors("  ")
	require.NoError(t, err)
	require.Nil(t, sels)

	flat, shape, err := rawshape.Select(rawshape.Shape{3, 2}, mustSelectors(t, "::2"))
	require.NoError(t, err)
	require.Equal(t, rawshape.Shape{2, 2}, shape)
	require.Equal(t, []int{0, 1, 4, 5}, flat)
}

func mustSelectors(t *testing.T, text string) rawshape.Selector {
	t.Helper()
	sels, err := rawshape.ParseSelectors(text)
	require.NoError(t, err)
	require.Len(t, sels, 1)

	return sels[0]
}

// TestParseSelectorsRejects covers malformed expressions.
func TestParseSelectorsRejects(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"a", "1 2", "[", "[1,]", "1,,2"} {
		_, err := rawshape.ParseSelectors(text)
		require.ErrorIs(t, err, rawshape.ErrSyntax, text)
	}
	for _, text := range []string{"::0", "1:2:3:4"} {
		_, err := rawshape.ParseSelectors(text)
		require.ErrorIs(t, err, rawshape.ErrInvalidSelection, text)
	}
}
