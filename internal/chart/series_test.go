package chart

import (
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/benchplot/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grouped(t *testing.T, in, key, x, y string) *table.Grouped {
	t.Helper()
	tbl, err := table.NewCSVLoader(strings.NewReader(in)).Load()
	require.NoError(t, err)
	tbl, _, err = table.Normalize(tbl, table.PolicyDrop, x, y)
	require.NoError(t, err)
	g, err := table.GroupBy(tbl, key, x, table.OrderAscending)
	require.NoError(t, err)
	return g
}

func TestBuildSeries(t *testing.T) {
	in := "t_max,block_size,time_seconds\n100,64,0.2\n1000,32,2.1\n100,32,0.3\n1000,64,1.9\n"
	g := grouped(t, in, "t_max", "block_size", "time_seconds")

	series, err := BuildSeries(g, "block_size", "time_seconds", AggregateNone, "t_max={{value}}")
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, "t_max=100", series[0].Label)
	assert.Equal(t, []Point{{32, 0.3}, {64, 0.2}}, series[0].Points)
	assert.Equal(t, "t_max=1000", series[1].Label)
	assert.Equal(t, []Point{{32, 2.1}, {64, 1.9}}, series[1].Points)
}

func TestBuildSeries_Mean(t *testing.T) {
	in := "num_threads,time_seconds\n2,1.0\n1,4.0\n2,3.0\n1,2.0\n4,0.5\n"
	g := grouped(t, in, "", "num_threads", "time_seconds")

	series, err := BuildSeries(g, "num_threads", "time_seconds", AggregateMean, "")
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "", series[0].Label)
	assert.Equal(t, []Point{{1, 3}, {2, 2}, {4, 0.5}}, series[0].Points)
}

func TestBuildSeries_NotNormalized(t *testing.T) {
	tbl, err := table.NewCSVLoader(strings.NewReader("x,y\n1,2\n")).Load()
	require.NoError(t, err)
	g, err := table.GroupBy(tbl, "", "", table.OrderAscending)
	require.NoError(t, err)

	_, err = BuildSeries(g, "x", "y", AggregateNone, "")
	assert.Error(t, err)
}
