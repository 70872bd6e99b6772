package source

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/normalize"
)

// SimpleFINSource reads accounts and transactions from a SimpleFIN bridge.
type SimpleFINSource struct {
	httpClient *http.Client
	accessURL  string
}

// Ensure SimpleFINSource implements SnapshotSource.
var _ SnapshotSource = (*SimpleFINSource)(nil)

type simplefinAccountSet struct {
	Errors   []string           `json:"errors"`
	Accounts []simplefinAccount `json:"accounts"`
}

type simplefinAccount struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Currency         string                 `json:"currency"`
	Balance          string                 `json:"balance"`
	AvailableBalance string                 `json:"available-balance"`
	Transactions     []simplefinTransaction `json:"transactions"`
}

type simplefinTransaction struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Payee       string `json:"payee"`
	Posted      int64  `json:"posted"`
	Pending     bool   `json:"pending"`
}

// NewSimpleFINSource creates a source for an already claimed access URL.
func NewSimpleFINSource(accessURL string) (*SimpleFINSource, error) {
	if !strings.HasPrefix(accessURL, "http://") && !strings.HasPrefix(accessURL, "https://") {
		return nil, fmt.Errorf("%w: SimpleFIN access URL must be http(s)", common.ErrInvalidConfig)
	}
	return &SimpleFINSource{
		accessURL:  strings.TrimRight(accessURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// ClaimSimpleFINToken exchanges a setup token for an access URL. The token
// is the base64 encoding of a one-time claim URL.
func ClaimSimpleFINToken(ctx context.Context, token string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(token)
		if err != nil {
			return "", fmt.Errorf("failed to decode SimpleFIN token: %w", err)
		}
	}

	claimURL := string(decoded)
	if !strings.HasPrefix(claimURL, "http://") && !strings.HasPrefix(claimURL, "https://") {
		return "", fmt.Errorf("decoded token is not a valid URL: %s", claimURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claimURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create claim request: %w", err)
	}

	resp, err := (&http.Client{Timeout: 30 * time.Second}).Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to claim access URL: %w", common.ErrSourceConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read access URL: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to claim SimpleFIN access: %d - %s", resp.StatusCode, string(body))
	}

	accessURL := strings.TrimSpace(string(body))
	if !strings.HasPrefix(accessURL, "http://") && !strings.HasPrefix(accessURL, "https://") {
		return "", fmt.Errorf("invalid access URL received: %s", accessURL)
	}
	return accessURL, nil
}

// Name implements SnapshotSource.
func (s *SimpleFINSource) Name() string {
	return "simplefin"
}

// Fetch implements SnapshotSource. Pending transactions are kept and
// flagged; amounts are already signed with inflows positive.
func (s *SimpleFINSource) Fetch(ctx context.Context, period model.DateRange) (normalize.Input, error) {
	if err := period.Validate(); err != nil {
		return normalize.Input{}, err
	}

	u, err := url.Parse(s.accessURL + "/accounts")
	if err != nil {
		return normalize.Input{}, fmt.Errorf("failed to parse URL: %w", err)
	}

	q := u.Query()
	q.Set("start-date", strconv.FormatInt(period.StartDate.Unix(), 10))
	// end-date is exclusive.
	q.Set("end-date", strconv.FormatInt(period.EndDate.AddDate(0, 0, 1).Unix(), 10))
	q.Set("pending", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return normalize.Input{}, fmt.Errorf("failed to create request: %w", err)
	}

	slog.Debug("Requesting SimpleFIN accounts",
		"start_date", period.StartDate.Format("2006-01-02"),
		"end_date", period.EndDate.Format("2006-01-02"))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return normalize.Input{}, fmt.Errorf("%w: %w", common.ErrSourceConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return normalize.Input{}, common.ErrSourceRateLimit
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return normalize.Input{}, fmt.Errorf("%w: SimpleFIN API error: %d - %s",
			common.ErrSourceConnection, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var set simplefinAccountSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return normalize.Input{}, fmt.Errorf("failed to decode response: %w", err)
	}
	for _, msg := range set.Errors {
		slog.Warn("SimpleFIN reported an error", "message", msg)
	}

	var accounts []model.Account
	var transactions []model.Transaction
	for _, a := range set.Accounts {
		acct := model.Account{
			ID:       a.ID,
			Name:     a.Name,
			Type:     model.AccountTypeOther,
			Currency: a.Currency,
			Balance:  parseSimpleFINAmount(a.Balance),
		}
		acct.AvailableBalance = acct.Balance
		if a.AvailableBalance != "" {
			acct.AvailableBalance = parseSimpleFINAmount(a.AvailableBalance)
		}
		accounts = append(accounts, acct)

		for _, tx := range a.Transactions {
			date := time.Unix(tx.Posted, 0).UTC()
			if tx.Posted == 0 {
				date = time.Time{}
			}
			transactions = append(transactions, model.Transaction{
				ID:           a.ID + "_" + tx.ID,
				AccountID:    a.ID,
				Date:         date,
				Description:  tx.Description,
				MerchantName: strings.TrimSpace(tx.Payee),
				Amount:       parseSimpleFINAmount(tx.Amount),
				Pending:      tx.Pending,
			})
		}
	}

	return normalize.Input{
		Accounts:     normalize.FromAccounts(accounts),
		Transactions: normalize.FromTransactions(transactions),
	}, nil
}

// parseSimpleFINAmount parses a decimal string such as "-12.34". Malformed
// amounts become zero, matching the normalizer's leniency.
func parseSimpleFINAmount(s string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
