// SPDX-License-Identifier: MIT
package matrix_test

import (
	"testing"

	"github.com/katalvlaran/lvcov/matrix"
	"github.com/stretchr/testify/require"
)

// TestOptionDefaults pins the documented defaults.
func TestOptionDefaults(t *testing.T) {
	t.Parallel()

	o := matrix.NewMatrixOptions()
	require.Equal(t, matrix.DefaultValidateNaNInf, o.ValidatesNaNInf())

	o = matrix.NewMatrixOptions(matrix.WithNoValidateNaNInf(), nil)
	require.False(t, o.ValidatesNaNInf())

	o = matrix.NewMatrixOptions(matrix.WithNoValidateNaNInf(), matrix.WithValidateNaNInf())
	require.True(t, o.ValidatesNaNInf())
}
