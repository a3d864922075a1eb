package subscriptions

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX выгрузка подписок с ближайшими датами оплаты и итогами.
func ExportXLSX(o Overview) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"id",
		"name",
		"amount",
		"currency",
		"billing_cycle",
		"first_payment_date",
		"next_payment_date",
		"monthly_equivalent",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	row := 2
	for _, it := range o.Items {
		excelRow := []interface{}{
			it.ID,
			it.Name,
			it.Amount,
			it.Currency,
			string(it.Cycle),
			it.FirstPaymentDate.Format(DateLayout),
			it.NextPayment.Format(DateLayout),
			MonthlyAmount(it.Subscription),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		row++
	}

	// итоги под таблицей через пустую строку
	row++
	totals := [][]interface{}{
		{"total_monthly", o.Costs.Monthly},
		{"total_annual", o.Costs.Annual},
		{"total_daily", o.Costs.Daily},
	}
	for _, t := range totals {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &t); err != nil {
			return nil, fmt.Errorf("totals: %w", err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
