package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreset(t *testing.T) {
	for _, name := range []string{"cuda", "openmp", "pthreads"} {
		t.Run(name, func(t *testing.T) {
			s, err := Preset(name)
			require.NoError(t, err)
			assert.Equal(t, name, s.Name)
			assert.NotEmpty(t, s.Experiments)
			for _, e := range s.Experiments {
				assert.NotContains(t, e.Source.Path, "/")
			}
		})
	}

	t.Run("all", func(t *testing.T) {
		s, err := Preset(PresetAll)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"cuda_ex1", "cuda_ex2",
			"openmp_ex1", "openmp_ex2", "openmp_ex3",
			"pthreads_ex1", "pthreads_ex2",
		}, s.Names())
		assert.Equal(t, "Cuda_impl/results_ex1.csv", s.Experiments[0].Source.Path)
		assert.Equal(t, "OpenMP_impl/results_ex3.csv", s.Experiments[4].Source.Path)
		assert.Equal(t, "pThreads_impl/results_ex2.csv", s.Experiments[6].Source.Path)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Preset("mpi")
		assert.ErrorContains(t, err, "unknown preset")
	})
}

func TestPresetNames(t *testing.T) {
	assert.Equal(t, []string{"all", "cuda", "openmp", "pthreads"}, PresetNames())
}
