package routes

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX одна строка на точку; для маршрута без точек одна строка с пустыми координатами.
func ExportXLSX(list []RouteWithPoints) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"route_id",
		"route_name",
		"created_at",
		"point_id",
		"latitude",
		"longitude",
		"recorded_at",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	row := 2
	put := func(values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
		row++
		return nil
	}

	for _, rw := range list {
		created := rw.CreatedAt.Format(time.DateTime)
		if len(rw.Points) == 0 {
			if err := put([]interface{}{rw.ID, rw.Name, created}); err != nil {
				return nil, err
			}
			continue
		}
		for _, p := range rw.Points {
			if err := put([]interface{}{
				rw.ID, rw.Name, created,
				p.ID, p.Latitude, p.Longitude, p.RecordedAt.Format(time.DateTime),
			}); err != nil {
				return nil, err
			}
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
