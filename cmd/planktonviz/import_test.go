package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/planktonviz/internal/config"
	"github.com/san-kum/planktonviz/internal/history"
	"github.com/san-kum/planktonviz/internal/storage"
)

var (
	importChem     = [][]float64{{0.1, 0.2, 0.3, 0.4}, {0.2, 0.2, 0.2, 0.2}}
	importFree     = [][]float64{{1, 2, 3, 4}, {4, 3, 2, 1}}
	importAttached = [][]float64{{0, 1, 0, 0}, {0, 0, 1, 0}}
)

func TestResolveImport(t *testing.T) {
	tests := []struct {
		name      string
		flags     map[string]string
		attached  [][]float64
		wantN     int
		wantOrder history.Order
		wantDt    float64
	}{
		{
			name:      "preset keeps its grid size",
			flags:     map[string]string{"preset": "first_order"},
			attached:  importAttached,
			wantN:     512,
			wantOrder: history.FirstOrder,
			wantDt:    0.005,
		},
		{
			name:      "grid size from data",
			wantN:     4,
			wantOrder: history.SecondOrder,
			wantDt:    config.DefaultDt,
		},
		{
			name:      "attached field implies first order",
			attached:  importAttached,
			wantN:     4,
			wantOrder: history.FirstOrder,
			wantDt:    config.DefaultDt,
		},
		{
			name:      "changed flags override preset",
			flags:     map[string]string{"preset": "switch", "n": "4", "dt": "0.5", "order": "first"},
			attached:  importAttached,
			wantN:     4,
			wantOrder: history.FirstOrder,
			wantDt:    0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newImportCmd()
			for k, v := range tt.flags {
				require.NoError(t, cmd.Flags().Set(k, v))
			}

			cfg, h, err := resolveImport(cmd, importChem, importFree, tt.attached)
			require.NoError(t, err)
			assert.Equal(t, tt.wantN, cfg.Grid.N)
			assert.Equal(t, tt.wantOrder, h.Order)
			assert.Equal(t, tt.wantOrder.String(), cfg.Order)
			assert.Equal(t, tt.wantDt, cfg.Dt)
			assert.Equal(t, tt.wantDt, h.Dt)
		})
	}
}

func TestResolveImportUnknownPreset(t *testing.T) {
	cmd := newImportCmd()
	require.NoError(t, cmd.Flags().Set("preset", "nonexistent"))

	_, _, err := resolveImport(cmd, importChem, importFree, nil)
	assert.ErrorContains(t, err, "unknown preset")
}

func TestImportSecondOrderConfigRejectsAttached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	body := `
name: aggregate
order: second
grid:
  n: 4
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cmd := newImportCmd()
	require.NoError(t, cmd.Flags().Set("config", path))

	cfg, h, err := resolveImport(cmd, importChem, importFree, importAttached)
	require.NoError(t, err)
	assert.Equal(t, history.SecondOrder, h.Order)

	st := storage.New(filepath.Join(dir, "data"))
	_, err = st.Save(cfg, h)
	assert.ErrorIs(t, err, history.ErrAttachedField)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}
