package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

func TestWriteParquet(t *testing.T) {
	first := row(0, "A", intp(-52), core.Some(8.5))
	first.Download = core.Some(94.24)
	first.Upload = core.Some(11.0)
	first.Frequency = "5.18 GHz"
	first.RxRate = core.Some(2048.0)
	table := core.NewTable(first, row(3, "B", nil, core.None[float64]()), row(6, "C", intp(-70), core.Some(20.0)))

	path := filepath.Join(t.TempDir(), "session.parquet")
	require.NoError(t, WriteParquet(path, table))

	fr, err := local.NewLocalFileReader(path)
	require.NoError(t, err)
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(parquetRow), 4)
	require.NoError(t, err)
	defer pr.ReadStop()

	n := int(pr.GetNumRows())
	require.Equal(t, 3, n)

	rows := make([]parquetRow, n)
	require.NoError(t, pr.Read(&rows))

	assert.Equal(t, base.UnixMilli(), rows[0].Time)
	assert.Equal(t, "A", rows[0].Location)
	require.NotNil(t, rows[0].Signal)
	assert.Equal(t, int32(-52), *rows[0].Signal)
	require.NotNil(t, rows[0].Download)
	assert.Equal(t, 94.24, *rows[0].Download)
	assert.Equal(t, "5.18 GHz", rows[0].Frequency)
	require.NotNil(t, rows[0].RxRate)
	assert.Nil(t, rows[0].TxRate)

	assert.Nil(t, rows[1].Signal)
	assert.Nil(t, rows[1].Latency)
	assert.Nil(t, rows[1].Download)

	require.NotNil(t, rows[2].Latency)
	assert.Equal(t, 20.0, *rows[2].Latency)
}

func TestToParquetRowAbsent(t *testing.T) {
	r := toParquetRow(row(0, "A", nil, core.None[float64]()))
	assert.Nil(t, r.Signal)
	assert.Nil(t, r.Latency)
	assert.Nil(t, r.Upload)
}
