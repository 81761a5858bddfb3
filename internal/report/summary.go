package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/enum"
	"github.com/shopspring/decimal"
)

// TopItemsLimit caps the best-seller list.
const TopItemsLimit = 10

var indonesianShortMonths = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

type DaySales struct {
	Label string `json:"label"`
	Sales int64  `json:"sales"`
}

type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

type PaymentTotal struct {
	Method string `json:"method"`
	Count  int    `json:"count"`
	Amount int64  `json:"amount"`
}

type ItemSales struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

// Summary is the dashboard for one time window.
type Summary struct {
	TotalSales       int64           `json:"totalSales"`
	TotalHPP         int64           `json:"totalHpp"`
	TotalOpProfit    int64           `json:"totalOpProfit"`
	TotalOrders      int             `json:"totalOrders"`
	AvgOrderValue    decimal.Decimal `json:"avgOrderValue"`
	TotalExpenditure int64           `json:"totalExpenditure"`
	NetProfit        int64           `json:"netProfit"`
	GrossMarginPct   string          `json:"grossMarginPct"`
	NetMarginPct     string          `json:"netMarginPct"`
	SalesByDay       []DaySales      `json:"salesByDay"`
	CountsBySource   []SourceCount   `json:"countsBySource"`
	PaymentBreakdown []PaymentTotal  `json:"paymentBreakdown"`
	TopItems         []ItemSales     `json:"topItems"`
}

// Build filters both ledgers by the same window and aggregates them.
func Build(txs []domain.Transaction, exps []domain.Expenditure, filter string, rng Range, now time.Time) Summary {
	return Aggregate(
		FilterByTime(txs, filter, rng, now),
		FilterByTime(exps, filter, rng, now),
		now.Location(),
	)
}

// Aggregate summarizes already-filtered records. Day labels use loc.
func Aggregate(txs []domain.Transaction, exps []domain.Expenditure, loc *time.Location) Summary {
	s := Summary{
		SalesByDay:       []DaySales{},
		CountsBySource:   []SourceCount{},
		PaymentBreakdown: []PaymentTotal{},
		TopItems:         []ItemSales{},
	}

	dayIdx := map[string]int{}
	sourceIdx := map[string]int{}
	payIdx := map[string]int{}
	itemIdx := map[string]int{}

	for _, tx := range txs {
		s.TotalSales += tx.TotalAmount
		s.TotalHPP += tx.TotalHPP
		s.TotalOpProfit += tx.TotalProfit

		label := DayLabel(tx.Time().In(loc))
		if i, ok := dayIdx[label]; ok {
			s.SalesByDay[i].Sales += tx.TotalAmount
		} else {
			dayIdx[label] = len(s.SalesByDay)
			s.SalesByDay = append(s.SalesByDay, DaySales{Label: label, Sales: tx.TotalAmount})
		}

		src := enum.SourceLabel(tx.OrderSource)
		if i, ok := sourceIdx[src]; ok {
			s.CountsBySource[i].Count++
		} else {
			sourceIdx[src] = len(s.CountsBySource)
			s.CountsBySource = append(s.CountsBySource, SourceCount{Source: src, Count: 1})
		}

		method := tx.PaymentMethod
		if method == "" {
			method = "-"
		}
		if i, ok := payIdx[method]; ok {
			s.PaymentBreakdown[i].Count++
			s.PaymentBreakdown[i].Amount += tx.TotalAmount
		} else {
			payIdx[method] = len(s.PaymentBreakdown)
			s.PaymentBreakdown = append(s.PaymentBreakdown, PaymentTotal{Method: method, Count: 1, Amount: tx.TotalAmount})
		}

		for _, line := range tx.Items {
			revenue := line.Price * int64(line.Quantity)
			if i, ok := itemIdx[line.Name]; ok {
				s.TopItems[i].Quantity += line.Quantity
				s.TopItems[i].Revenue += revenue
			} else {
				itemIdx[line.Name] = len(s.TopItems)
				s.TopItems = append(s.TopItems, ItemSales{Name: line.Name, Quantity: line.Quantity, Revenue: revenue})
			}
		}
	}

	for _, e := range exps {
		s.TotalExpenditure += e.Amount
	}

	s.TotalOrders = len(txs)
	s.NetProfit = s.TotalOpProfit - s.TotalExpenditure
	if s.TotalOrders > 0 {
		s.AvgOrderValue = decimal.NewFromInt(s.TotalSales).Div(decimal.NewFromInt(int64(s.TotalOrders))).Round(2)
	} else {
		s.AvgOrderValue = decimal.Zero
	}

	sales := decimal.NewFromInt(s.TotalSales)
	s.GrossMarginPct = calcMarginPct(decimal.NewFromInt(s.TotalOpProfit), sales)
	s.NetMarginPct = calcMarginPct(decimal.NewFromInt(s.NetProfit), sales)

	sort.SliceStable(s.TopItems, func(i, j int) bool {
		if s.TopItems[i].Quantity != s.TopItems[j].Quantity {
			return s.TopItems[i].Quantity > s.TopItems[j].Quantity
		}
		return s.TopItems[i].Revenue > s.TopItems[j].Revenue
	})
	if len(s.TopItems) > TopItemsLimit {
		s.TopItems = s.TopItems[:TopItemsLimit]
	}

	return s
}

// DayLabel renders "16 Okt". No year: the same day of different years
// shares a bucket.
func DayLabel(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), indonesianShortMonths[t.Month()-1])
}

func calcMarginPct(numerator, denominator decimal.Decimal) string {
	if denominator.IsZero() {
		return "0.00"
	}
	return numerator.Div(denominator).Mul(decimal.NewFromInt(100)).StringFixed(2)
}
