package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"github.com/xuri/excelize/v2"
)

var TransactionHeader = []string{
	"ID Transaksi", "Tanggal", "Jam", "Pelanggan", "Items",
	"Sumber", "Pembayaran", "HPP", "Total Penjualan", "Profit",
}

var ExpenditureHeader = []string{"ID", "Tanggal", "Keterangan", "Jumlah"}

// TransactionRow renders one sales-report row. Dates are d/m/yyyy and times
// HH.mm in loc.
func TransactionRow(tx domain.Transaction, loc *time.Location) []string {
	ts := tx.Time().In(loc)

	customer := tx.CustomerName
	if customer == "" {
		customer = domain.DefaultCustomerName
	}
	payment := tx.PaymentMethod
	if payment == "" {
		payment = "-"
	}

	items := make([]string, len(tx.Items))
	for i, line := range tx.Items {
		items[i] = fmt.Sprintf("%s (%d)", line.Name, line.Quantity)
	}

	return []string{
		tx.ID,
		formatDate(ts),
		fmt.Sprintf("%02d.%02d", ts.Hour(), ts.Minute()),
		customer,
		strings.Join(items, "; "),
		tx.OrderSource,
		payment,
		strconv.FormatInt(tx.TotalHPP, 10),
		strconv.FormatInt(tx.TotalAmount, 10),
		strconv.FormatInt(tx.TotalProfit, 10),
	}
}

func ExpenditureRow(e domain.Expenditure, loc *time.Location) []string {
	return []string{
		e.ID,
		formatDate(e.Time().In(loc)),
		e.Description,
		strconv.FormatInt(e.Amount, 10),
	}
}

func TransactionRows(txs []domain.Transaction, loc *time.Location) [][]string {
	rows := make([][]string, len(txs))
	for i, tx := range txs {
		rows[i] = TransactionRow(tx, loc)
	}
	return rows
}

func ExpenditureRows(exps []domain.Expenditure, loc *time.Location) [][]string {
	rows := make([][]string, len(exps))
	for i, e := range exps {
		rows[i] = ExpenditureRow(e, loc)
	}
	return rows
}

func formatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

// WriteCSV writes the header and rows with every field double-quoted and
// lines joined by "\n". Embedded quotes are doubled.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	for _, row := range rows {
		b.WriteByte('\n')
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Sheet is one worksheet of an XLSX workbook.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// WriteXLSX writes the sheets as a workbook. Cells that parse as integers
// are stored as numbers so spreadsheet sums work on them.
func WriteXLSX(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("write xlsx: no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("new sheet %s: %w", sh.Name, err)
		}

		if err := setRow(f, sh.Name, 1, sh.Header, false); err != nil {
			return err
		}
		for r, row := range sh.Rows {
			if err := setRow(f, sh.Name, r+2, row, true); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []string, numeric bool) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
		if numeric {
			if n, err := strconv.ParseInt(c, 10, 64); err == nil {
				values[i] = n
			}
		}
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %d on %s: %w", row, sheet, err)
	}
	return nil
}
