package report

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

// parquetRow Parquet文件中的一行，缺失值为可选列
type parquetRow struct {
	Time      int64    `parquet:"name=time, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Location  string   `parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	SSID      string   `parquet:"name=ssid, type=BYTE_ARRAY, convertedtype=UTF8"`
	BSSID     string   `parquet:"name=bssid, type=BYTE_ARRAY, convertedtype=UTF8"`
	Signal    *int32   `parquet:"name=signal, type=INT32, repetitiontype=OPTIONAL"`
	Latency   *float64 `parquet:"name=latency, type=DOUBLE, repetitiontype=OPTIONAL"`
	Download  *float64 `parquet:"name=download, type=DOUBLE, repetitiontype=OPTIONAL"`
	Upload    *float64 `parquet:"name=upload, type=DOUBLE, repetitiontype=OPTIONAL"`
	Frequency string   `parquet:"name=frequency, type=BYTE_ARRAY, convertedtype=UTF8"`
	RxRate    *float64 `parquet:"name=rx_rate, type=DOUBLE, repetitiontype=OPTIONAL"`
	TxRate    *float64 `parquet:"name=tx_rate, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// toParquetRow 转换一行样本
func toParquetRow(s core.Sample) parquetRow {
	row := parquetRow{
		Time:      s.Timestamp.UnixMilli(),
		Location:  s.Location,
		SSID:      s.SSID,
		BSSID:     s.BSSID,
		Latency:   optionalPtr(s.Latency),
		Download:  optionalPtr(s.Download),
		Upload:    optionalPtr(s.Upload),
		Frequency: s.Frequency,
		RxRate:    optionalPtr(s.RxRate),
		TxRate:    optionalPtr(s.TxRate),
	}
	if v, ok := s.Signal.Get(); ok {
		signal := int32(v)
		row.Signal = &signal
	}
	return row
}

// optionalPtr 缺失值转为nil
func optionalPtr(v core.Optional[float64]) *float64 {
	value, ok := v.Get()
	if !ok {
		return nil
	}
	return &value
}

// WriteParquet 把整张表写成Parquet文件
func WriteParquet(path string, table core.Table) error {
	file, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("无法创建parquet文件: %w", err)
	}

	pw, err := writer.NewParquetWriter(file, new(parquetRow), 4)
	if err != nil {
		file.Close()
		return fmt.Errorf("无法创建parquet写入器: %w", err)
	}

	for i := 0; i < table.Len(); i++ {
		if err := pw.Write(toParquetRow(table.At(i))); err != nil {
			file.Close()
			return fmt.Errorf("写入第%d行失败: %w", i+1, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		file.Close()
		return fmt.Errorf("无法结束parquet写入: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("无法关闭parquet文件: %w", err)
	}

	return nil
}
