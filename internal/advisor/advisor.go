// Package advisor produces selling-price recommendations for menu items.
// A remote model is consulted when configured; any failure falls back to a
// fixed 100% markup.
package advisor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var ErrAdviceInputRequired = errors.New("item name and hpp are required")

const (
	defaultIngredients = "Standard ingredients"
	fallbackReasoning  = "AI service unavailable. Defaulting to standard 50% margin."
	fallbackCompetitor = "N/A"
)

type AdviceRequest struct {
	ItemName    string `json:"itemName"`
	Ingredients string `json:"ingredients"`
	CostBasis   int64  `json:"hpp"`
}

type Advice struct {
	SuggestedPrice     int64           `json:"suggestedPrice"`
	MarginPercentage   decimal.Decimal `json:"marginPercentage"`
	Reasoning          string          `json:"reasoning"`
	CompetitorAnalysis string          `json:"competitorAnalysis"`
	Fallback           bool            `json:"fallback"`
}

// Advisor is a price recommender. Satisfied by *Gemini.
type Advisor interface {
	Recommend(ctx context.Context, req AdviceRequest) (Advice, error)
}

// Fallback is the advice used whenever no recommender answers.
func Fallback(costBasis int64) Advice {
	return Advice{
		SuggestedPrice:     costBasis * 2,
		MarginPercentage:   decimal.NewFromInt(50),
		Reasoning:          fallbackReasoning,
		CompetitorAnalysis: fallbackCompetitor,
		Fallback:           true,
	}
}

type Options struct {
	Timeout       time.Duration
	RatePerMinute int
}

// Service validates requests and throttles calls to the Advisor. It never
// returns an advisor failure to the caller.
type Service struct {
	advisor Advisor
	limiter *rate.Limiter
	timeout time.Duration
	logger  *zap.Logger
}

// NewService wraps a. A nil a means every request gets the fallback.
func NewService(a Advisor, opts Options, logger *zap.Logger) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	limit := rate.Inf
	burst := 1
	if opts.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RatePerMinute))
		burst = opts.RatePerMinute
	}
	return &Service{
		advisor: a,
		limiter: rate.NewLimiter(limit, burst),
		timeout: opts.Timeout,
		logger:  logger,
	}
}

func (s *Service) Recommend(ctx context.Context, req AdviceRequest) (Advice, error) {
	req.ItemName = strings.TrimSpace(req.ItemName)
	if req.ItemName == "" || req.CostBasis <= 0 {
		return Advice{}, ErrAdviceInputRequired
	}
	if strings.TrimSpace(req.Ingredients) == "" {
		req.Ingredients = defaultIngredients
	}

	if s.advisor == nil {
		s.logger.Info("pricing advisor not configured, using fallback", zap.String("item", req.ItemName))
		return Fallback(req.CostBasis), nil
	}
	if !s.limiter.Allow() {
		s.logger.Warn("pricing advisor rate limited, using fallback", zap.String("item", req.ItemName))
		return Fallback(req.CostBasis), nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	advice, err := s.advisor.Recommend(ctx, req)
	if err != nil {
		s.logger.Warn("pricing advisor failed, using fallback",
			zap.String("item", req.ItemName),
			zap.Error(err),
		)
		return Fallback(req.CostBasis), nil
	}
	return advice, nil
}
