package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

// TimeLayout 导出文件中的时间格式（本地时间）
const TimeLayout = "2006-01-02 15:04:05"

// Header CSV表头，列顺序固定
var Header = []string{"Time", "Location", "SSID", "BSSID", "Signal", "Latency", "Download", "Upload"}

// WriteCSV 把整张表写成CSV，缺失值写为空字段
func WriteCSV(w io.Writer, table core.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}

	for i := 0; i < table.Len(); i++ {
		if err := cw.Write(record(table.At(i))); err != nil {
			return fmt.Errorf("写入第%d行失败: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV 返回CSV文本
func ExportCSV(table core.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveCSV 把CSV写入文件
func SaveCSV(path string, table core.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("无法创建文件 %s: %w", path, err)
	}

	if err := WriteCSV(file, table); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

// record 把一行样本转换为CSV记录
func record(s core.Sample) []string {
	signal := ""
	if v, ok := s.Signal.Get(); ok {
		signal = strconv.Itoa(v)
	}

	return []string{
		s.Timestamp.Local().Format(TimeLayout),
		s.Location,
		s.SSID,
		s.BSSID,
		signal,
		formatFloat(s.Latency),
		formatFloat(s.Download),
		formatFloat(s.Upload),
	}
}

// formatFloat 缺失值为空字符串
func formatFloat(v core.Optional[float64]) string {
	value, ok := v.Get()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// ReadCSV 读取 WriteCSV 导出的文件，重建数据表
func ReadCSV(r io.Reader) (core.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		return core.Table{}, fmt.Errorf("读取表头失败: %w", err)
	}
	for i, name := range Header {
		if header[i] != name {
			return core.Table{}, fmt.Errorf("第%d列应为 %s，实际为 %s", i+1, name, header[i])
		}
	}

	var samples []core.Sample
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return core.Table{}, fmt.Errorf("第%d行: %w", line, err)
		}

		sample, err := parseRecord(fields)
		if err != nil {
			return core.Table{}, fmt.Errorf("第%d行: %w", line, err)
		}
		samples = append(samples, sample)
	}

	return core.NewTable(samples...), nil
}

// parseRecord 解析一条CSV记录
func parseRecord(fields []string) (core.Sample, error) {
	timestamp, err := time.ParseInLocation(TimeLayout, fields[0], time.Local)
	if err != nil {
		return core.Sample{}, fmt.Errorf("时间格式错误: %w", err)
	}

	sample := core.Sample{
		Timestamp: timestamp,
		Location:  fields[1],
		SSID:      fields[2],
		BSSID:     fields[3],
		Frequency: core.Unknown,
	}

	if fields[4] != "" {
		v, err := strconv.Atoi(fields[4])
		if err != nil {
			return core.Sample{}, fmt.Errorf("信号强度 %q 不是整数", fields[4])
		}
		sample.Signal = core.Some(v)
	}

	for i, dst := range []*core.Optional[float64]{&sample.Latency, &sample.Download, &sample.Upload} {
		raw := fields[5+i]
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return core.Sample{}, fmt.Errorf("%s %q 不是数字", Header[5+i], raw)
		}
		*dst = core.Some(v)
	}

	return sample, nil
}
