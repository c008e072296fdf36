// SPDX-License-Identifier: MIT

package container_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvcov/container"
	"github.com/katalvlaran/lvcov/table"
)

// sampleFile builds a three-section file: empty primary, 2x3 image, table.
func sampleFile(t *testing.T) *container.File {
	t.Helper()
	primary := container.NewEmpty("PRIMARY", table.NewMeta(table.Entry{Key: "ORIGIN", Value: "test"}))

	img, err := container.NewImage("IMG", []int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	img.Header.Set("BUNIT", "m")

	ic, err := table.IntColumn("IDX", 2, []int64{0, 1, 2, 3})
	require.NoError(t, err)
	tbl, err := table.New(ic, table.FloatColumn("VAL", []float64{0.5, -0.25}))
	require.NoError(t, err)
	tbl.Meta.Set("COVSHAPE", "(4, 4)")

	f, err := container.New(primary, img, container.NewTable("TAB", tbl))
	require.NoError(t, err)

	return f
}

func tempPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

// requireSameContent compares sections ignoring the keywords Write stamps.
func requireSameContent(t *testing.T, want, got *container.File) {
	t.Helper()
	require.Equal(t, want.Names(), got.Names())
	for k, ws := range want.Sections {
		gs := got.Sections[k]
		require.Equal(t, ws.Kind(), gs.Kind(), ws.Name)
		for _, e := range ws.Header.Entries() {
			v, ok := gs.Header.Get(e.Key)
			require.True(t, ok, "%s missing %s", ws.Name, e.Key)
			require.Equal(t, e.Value, v)
		}
		switch ws.Kind() {
		case container.KindImage:
			require.Equal(t, ws.Image.Shape, gs.Image.Shape)
			require.Equal(t, ws.Image.Data, gs.Image.Data)
		case container.KindTable:
			require.Equal(t, ws.Table.Meta.Entries(), gs.Table.Meta.Entries())
			require.Len(t, gs.Table.Columns, len(ws.Table.Columns))
			for c, wc := range ws.Table.Columns {
				gc := gs.Table.Columns[c]
				require.Equal(t, wc.Name, gc.Name)
				require.Equal(t, wc.Kind, gc.Kind)
				require.Equal(t, wc.Width, gc.Width)
				require.Equal(t, len(wc.Ints), len(gc.Ints))
				require.Equal(t, len(wc.Floats), len(gc.Floats))
				for p := range wc.Ints {
					require.Equal(t, wc.Ints[p], gc.Ints[p])
				}
				for p := range wc.Floats {
					require.Equal(t, wc.Floats[p], gc.Floats[p])
				}
			}
		}
	}
}
