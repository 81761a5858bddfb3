package report

import (
	"testing"
	"time"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/enum"
)

var wib = time.FixedZone("WIB", 7*3600)

// Friday 16 October 2026, 14:30 WIB.
var now = time.Date(2026, 10, 16, 14, 30, 0, 0, wib)

func at(y int, m time.Month, d, h, min int) int64 {
	return time.Date(y, m, d, h, min, 0, 0, wib).UnixMilli()
}

func line(name string, price, hpp int64, qty int) domain.CartLine {
	return domain.CartLine{
		MenuItem:      domain.MenuItem{ID: name, Name: name, Category: enum.CategoryFood, Price: price, HPP: hpp},
		Quantity:      qty,
		OriginalPrice: price,
	}
}

func tx(id string, ts int64, source, payment string, lines ...domain.CartLine) domain.Transaction {
	t := domain.Transaction{ID: id, Timestamp: ts, Items: lines, OrderSource: source, PaymentMethod: payment}
	for _, l := range lines {
		t.TotalAmount += l.Price * int64(l.Quantity)
		t.TotalHPP += l.HPP * int64(l.Quantity)
	}
	t.TotalProfit = t.TotalAmount - t.TotalHPP
	return t
}

func ids(txs []domain.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterByTime(t *testing.T) {
	txs := []domain.Transaction{
		tx("lastMonth", at(2026, 9, 30, 20, 0), enum.OrderSourceOffline, enum.PaymentMethodCash),
		tx("sat", at(2026, 10, 10, 23, 59), enum.OrderSourceOffline, enum.PaymentMethodCash),
		tx("sunMidnight", at(2026, 10, 11, 0, 0), enum.OrderSourceOffline, enum.PaymentMethodCash),
		tx("yesterday", at(2026, 10, 15, 21, 0), enum.OrderSourceOffline, enum.PaymentMethodCash),
		tx("todayStart", at(2026, 10, 16, 0, 0), enum.OrderSourceOffline, enum.PaymentMethodCash),
		tx("todayNoon", at(2026, 10, 16, 12, 0), enum.OrderSourceOffline, enum.PaymentMethodCash),
	}

	tests := []struct {
		name   string
		filter string
		rng    Range
		want   []string
	}{
		{name: "today excludes yesterday", filter: enum.TimeFilterToday, want: []string{"todayStart", "todayNoon"}},
		{name: "week starts sunday", filter: enum.TimeFilterWeek, want: []string{"sunMidnight", "yesterday", "todayStart", "todayNoon"}},
		{name: "month", filter: enum.TimeFilterMonth, want: []string{"sat", "sunMidnight", "yesterday", "todayStart", "todayNoon"}},
		{name: "lifetime", filter: enum.TimeFilterLifetime, want: []string{"lastMonth", "sat", "sunMidnight", "yesterday", "todayStart", "todayNoon"}},
		{name: "unknown filter keeps all", filter: "FORTNIGHT", want: []string{"lastMonth", "sat", "sunMidnight", "yesterday", "todayStart", "todayNoon"}},
		{
			name:   "custom range is inclusive",
			filter: enum.TimeFilterCustom,
			rng:    Range{Start: time.Date(2026, 10, 10, 0, 0, 0, 0, wib), End: time.Date(2026, 10, 15, 0, 0, 0, 0, wib)},
			want:   []string{"sat", "sunMidnight", "yesterday"},
		},
		{
			name:   "custom without end keeps all",
			filter: enum.TimeFilterCustom,
			rng:    Range{Start: time.Date(2026, 10, 10, 0, 0, 0, 0, wib)},
			want:   []string{"lastMonth", "sat", "sunMidnight", "yesterday", "todayStart", "todayNoon"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterByTime(txs, tt.filter, tt.rng, now))
			if !equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterByTime_CustomBoundsToTheMillisecond(t *testing.T) {
	start := time.Date(2026, 10, 10, 0, 0, 0, 0, wib)
	end := time.Date(2026, 10, 15, 0, 0, 0, 0, wib)
	last := EndOfDay(end)
	if got := last.Format("15:04:05.000"); got != "23:59:59.999" {
		t.Fatalf("EndOfDay = %s", got)
	}

	txs := []domain.Transaction{
		tx("beforeStart", StartOfDay(start).UnixMilli()-1, enum.OrderSourceOffline, enum.PaymentMethodCash),
		tx("atStart", StartOfDay(start).UnixMilli(), enum.OrderSourceOffline, enum.PaymentMethodCash),
		tx("lastMillisecond", last.UnixMilli(), enum.OrderSourceOffline, enum.PaymentMethodCash),
		tx("nextDay", last.UnixMilli()+1, enum.OrderSourceOffline, enum.PaymentMethodCash),
	}

	got := ids(FilterByTime(txs, enum.TimeFilterCustom, Range{Start: start, End: end}, now))
	want := []string{"atStart", "lastMillisecond"}
	if !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFilterByTime_Expenditures(t *testing.T) {
	exps := []domain.Expenditure{
		{ID: "old", Timestamp: at(2026, 10, 15, 9, 0), Description: "gas", Amount: 25000},
		{ID: "new", Timestamp: at(2026, 10, 16, 9, 0), Description: "kecap", Amount: 18000},
	}
	got := FilterByTime(exps, enum.TimeFilterToday, Range{}, now)
	if len(got) != 1 || got[0].ID != "new" {
		t.Errorf("got %+v", got)
	}
}

func TestBuild_NetProfit(t *testing.T) {
	txs := []domain.Transaction{
		tx("a", at(2026, 10, 16, 10, 0), enum.OrderSourceOffline, enum.PaymentMethodCash,
			line("Nasi Goreng Spesial", 25000, 12000, 1)),
		tx("b", at(2026, 10, 16, 11, 0), enum.OrderSourceGrab, "",
			line("Es Teh Manis", 5000, 1000, 2)),
	}
	exps := []domain.Expenditure{
		{ID: "e1", Timestamp: at(2026, 10, 16, 8, 0), Description: "gas", Amount: 5000},
		{ID: "e2", Timestamp: at(2026, 10, 15, 8, 0), Description: "kemarin", Amount: 99000},
	}

	s := Build(txs, exps, enum.TimeFilterToday, Range{}, now)

	if s.TotalSales != 35000 || s.TotalHPP != 14000 || s.TotalOpProfit != 21000 {
		t.Errorf("totals = %d/%d/%d", s.TotalSales, s.TotalHPP, s.TotalOpProfit)
	}
	if s.TotalExpenditure != 5000 {
		t.Errorf("expenditure = %d, want 5000", s.TotalExpenditure)
	}
	if s.NetProfit != 16000 {
		t.Errorf("net = %d, want 16000", s.NetProfit)
	}
	if s.TotalOrders != 2 || s.AvgOrderValue.String() != "17500" {
		t.Errorf("orders = %d avg = %s", s.TotalOrders, s.AvgOrderValue)
	}
	if s.GrossMarginPct != "60.00" || s.NetMarginPct != "45.71" {
		t.Errorf("margins = %s / %s", s.GrossMarginPct, s.NetMarginPct)
	}
}

func TestAggregate_NetProfitWithExpenses(t *testing.T) {
	txs := []domain.Transaction{
		tx("a", at(2026, 10, 16, 10, 0), enum.OrderSourceOffline, enum.PaymentMethodCash,
			line("Nasi Goreng Spesial", 25000, 12000, 1),
			line("Es Teh Manis", 5000, 2000, 2)),
	}
	exps := []domain.Expenditure{{ID: "e", Timestamp: at(2026, 10, 16, 8, 0), Description: "gas", Amount: 5000}}

	s := Aggregate(txs, exps, wib)
	if s.TotalOpProfit != 19000 || s.NetProfit != 14000 {
		t.Errorf("op = %d net = %d", s.TotalOpProfit, s.NetProfit)
	}
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil, nil, wib)
	if s.TotalOrders != 0 || !s.AvgOrderValue.IsZero() {
		t.Errorf("orders = %d avg = %s", s.TotalOrders, s.AvgOrderValue)
	}
	if s.GrossMarginPct != "0.00" || s.NetMarginPct != "0.00" {
		t.Errorf("margins = %s / %s", s.GrossMarginPct, s.NetMarginPct)
	}
	if s.SalesByDay == nil || s.CountsBySource == nil || s.PaymentBreakdown == nil || s.TopItems == nil {
		t.Error("groupings should be empty slices, not nil")
	}
}

func TestAggregate_Groupings(t *testing.T) {
	txs := []domain.Transaction{
		tx("1", at(2026, 10, 15, 19, 0), enum.OrderSourceGojek, "", line("Mie Goreng", 22000, 10000, 1)),
		tx("2", at(2026, 10, 16, 10, 0), enum.OrderSourceOffline, enum.PaymentMethodQRIS, line("Es Teh Manis", 5000, 1000, 3)),
		tx("3", at(2026, 10, 15, 20, 0), enum.OrderSourceOffline, enum.PaymentMethodCash, line("Mie Goreng", 22000, 10000, 1)),
		tx("4", at(2026, 10, 16, 11, 0), enum.OrderSourceWhatsApp, "", line("Nasi Goreng Spesial", 25000, 12000, 2)),
	}

	s := Aggregate(txs, nil, wib)

	if len(s.SalesByDay) != 2 ||
		s.SalesByDay[0] != (DaySales{Label: "15 Okt", Sales: 44000}) ||
		s.SalesByDay[1] != (DaySales{Label: "16 Okt", Sales: 65000}) {
		t.Errorf("sales by day = %+v", s.SalesByDay)
	}

	wantSources := []SourceCount{{Source: "GOJEK", Count: 1}, {Source: "OFFLINE", Count: 2}, {Source: "WHATSAPP", Count: 1}}
	if len(s.CountsBySource) != len(wantSources) {
		t.Fatalf("sources = %+v", s.CountsBySource)
	}
	for i, w := range wantSources {
		if s.CountsBySource[i] != w {
			t.Errorf("source %d = %+v, want %+v", i, s.CountsBySource[i], w)
		}
	}

	wantPay := []PaymentTotal{
		{Method: "-", Count: 2, Amount: 72000},
		{Method: enum.PaymentMethodQRIS, Count: 1, Amount: 15000},
		{Method: enum.PaymentMethodCash, Count: 1, Amount: 22000},
	}
	if len(s.PaymentBreakdown) != len(wantPay) {
		t.Fatalf("payments = %+v", s.PaymentBreakdown)
	}
	for i, w := range wantPay {
		if s.PaymentBreakdown[i] != w {
			t.Errorf("payment %d = %+v, want %+v", i, s.PaymentBreakdown[i], w)
		}
	}

	wantTop := []ItemSales{
		{Name: "Es Teh Manis", Quantity: 3, Revenue: 15000},
		{Name: "Nasi Goreng Spesial", Quantity: 2, Revenue: 50000},
		{Name: "Mie Goreng", Quantity: 2, Revenue: 44000},
	}
	for i, w := range wantTop {
		if s.TopItems[i] != w {
			t.Errorf("top %d = %+v, want %+v", i, s.TopItems[i], w)
		}
	}
}

func TestAggregate_TopItemsCapped(t *testing.T) {
	var lines []domain.CartLine
	for i := 0; i < 15; i++ {
		lines = append(lines, line(string(rune('A'+i)), 1000, 500, i+1))
	}
	s := Aggregate([]domain.Transaction{tx("x", at(2026, 10, 16, 9, 0), enum.OrderSourceOffline, enum.PaymentMethodCash, lines...)}, nil, wib)
	if len(s.TopItems) != TopItemsLimit {
		t.Fatalf("top items = %d, want %d", len(s.TopItems), TopItemsLimit)
	}
	if s.TopItems[0].Name != "O" || s.TopItems[0].Quantity != 15 {
		t.Errorf("first = %+v", s.TopItems[0])
	}
}

func TestDayLabel(t *testing.T) {
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Date(2026, 1, 1, 0, 0, 0, 0, wib), "1 Jan"},
		{time.Date(2026, 8, 17, 0, 0, 0, 0, wib), "17 Agu"},
		{time.Date(2026, 12, 31, 0, 0, 0, 0, wib), "31 Des"},
	}
	for _, tt := range tests {
		if got := DayLabel(tt.t); got != tt.want {
			t.Errorf("DayLabel(%v) = %s, want %s", tt.t, got, tt.want)
		}
	}
}
