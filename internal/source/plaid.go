package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/plaid/plaid-go/v20/plaid"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/normalize"
)

const plaidPageSize = int32(500)

// PlaidConfig holds Plaid API configuration.
type PlaidConfig struct {
	ClientID    string
	Secret      string
	Environment string // sandbox or production
	AccessToken string
}

// Validate ensures all required fields are present.
func (c *PlaidConfig) Validate() error {
	switch {
	case c.ClientID == "":
		return fmt.Errorf("%w: plaid client ID is required", common.ErrMissingConfig)
	case c.Secret == "":
		return fmt.Errorf("%w: plaid secret is required", common.ErrMissingConfig)
	case c.AccessToken == "":
		return fmt.Errorf("%w: plaid access token is required", common.ErrMissingConfig)
	case c.Environment == "":
		return fmt.Errorf("%w: plaid environment is required", common.ErrMissingConfig)
	case c.Environment != "sandbox" && c.Environment != "production":
		return fmt.Errorf("%w: plaid environment must be sandbox or production", common.ErrInvalidConfig)
	}
	return nil
}

// plaidAPI is the subset of the Plaid API the source calls.
type plaidAPI interface {
	Accounts(ctx context.Context) ([]plaid.AccountBase, error)
	Transactions(ctx context.Context, start, end string, offset int32) ([]plaid.Transaction, int32, error)
}

// PlaidSource fetches balances and transactions for one Plaid item.
type PlaidSource struct {
	api       plaidAPI
	logger    *slog.Logger
	retryOpts common.RetryOptions
}

// Ensure PlaidSource implements SnapshotSource.
var _ SnapshotSource = (*PlaidSource)(nil)

// NewPlaidSource creates a Plaid source with the given configuration.
func NewPlaidSource(cfg PlaidConfig) (*PlaidSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.Secret)

	switch cfg.Environment {
	case "sandbox":
		configuration.UseEnvironment(plaid.Sandbox)
	case "production":
		configuration.UseEnvironment(plaid.Production)
	}

	return newPlaidSource(&plaidClient{
		client:      plaid.NewAPIClient(configuration),
		accessToken: cfg.AccessToken,
	}), nil
}

func newPlaidSource(api plaidAPI) *PlaidSource {
	return &PlaidSource{
		api:    api,
		logger: slog.Default().With("component", "plaid"),
		retryOpts: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// Name implements SnapshotSource.
func (s *PlaidSource) Name() string {
	return "plaid"
}

// Fetch implements SnapshotSource. Plaid reports outflows as positive
// amounts; they are negated so inflows are positive.
func (s *PlaidSource) Fetch(ctx context.Context, period model.DateRange) (normalize.Input, error) {
	if err := period.Validate(); err != nil {
		return normalize.Input{}, err
	}

	accounts, err := s.fetchAccounts(ctx)
	if err != nil {
		return normalize.Input{}, err
	}

	transactions, err := s.fetchTransactions(ctx, period)
	if err != nil {
		return normalize.Input{}, err
	}

	return normalize.Input{
		Accounts:     normalize.FromAccounts(accounts),
		Transactions: normalize.FromTransactions(transactions),
	}, nil
}

func (s *PlaidSource) fetchAccounts(ctx context.Context) ([]model.Account, error) {
	s.logger.Info("Fetching accounts from Plaid")

	var raw []plaid.AccountBase
	err := common.WithRetry(ctx, func() error {
		var err error
		raw, err = s.api.Accounts(ctx)
		return classifyPlaidError("fetch accounts", err)
	}, s.retryOpts)
	if err != nil {
		return nil, err
	}

	accounts := make([]model.Account, 0, len(raw))
	for _, a := range raw {
		accounts = append(accounts, mapPlaidAccount(a))
	}

	s.logger.Info("Fetched accounts", "count", len(accounts))
	return accounts, nil
}

func (s *PlaidSource) fetchTransactions(ctx context.Context, period model.DateRange) ([]model.Transaction, error) {
	start := period.StartDate.Format("2006-01-02")
	end := period.EndDate.Format("2006-01-02")

	s.logger.Info("Fetching transactions from Plaid", "start_date", start, "end_date", end)

	var all []plaid.Transaction
	offset := int32(0)

	for {
		var page []plaid.Transaction
		var total int32

		err := common.WithRetry(ctx, func() error {
			var err error
			page, total, err = s.api.Transactions(ctx, start, end, offset)
			return classifyPlaidError("fetch transactions", err)
		}, s.retryOpts)
		if err != nil {
			return nil, err
		}

		s.logger.Debug("Fetched transaction batch",
			"count", len(page),
			"offset", offset,
			"total", total)

		all = append(all, page...)
		if len(page) < int(plaidPageSize) || int32(len(all)) >= total {
			break
		}
		offset += plaidPageSize
	}

	transactions := make([]model.Transaction, 0, len(all))
	for _, pt := range all {
		tx, ok := mapPlaidTransaction(pt)
		if !ok {
			s.logger.Warn("Skipping transaction with unparseable date",
				"transaction_id", pt.GetTransactionId(),
				"date", pt.GetDate())
			continue
		}
		transactions = append(transactions, tx)
	}

	s.logger.Info("Fetched all transactions", "count", len(transactions))
	return transactions, nil
}

func mapPlaidAccount(a plaid.AccountBase) model.Account {
	balances := a.GetBalances()
	acct := model.Account{
		ID:               a.GetAccountId(),
		Name:             a.GetName(),
		Type:             model.ParseAccountType(string(a.GetType())),
		Subtype:          string(a.GetSubtype()),
		Currency:         balances.GetIsoCurrencyCode(),
		Balance:          balances.GetCurrent(),
		AvailableBalance: balances.GetAvailable(),
	}
	if limit, ok := balances.GetLimitOk(); ok && limit != nil {
		l := *limit
		acct.CreditLimit = &l
	}
	return acct
}

func mapPlaidTransaction(pt plaid.Transaction) (model.Transaction, bool) {
	date, ok := plaidTimestamp(pt)
	if !ok {
		return model.Transaction{}, false
	}

	category := ""
	if cats := pt.GetCategory(); len(cats) > 0 {
		category = cats[0]
	}

	return model.Transaction{
		ID:           pt.GetTransactionId(),
		AccountID:    pt.GetAccountId(),
		Date:         date,
		Description:  pt.GetName(),
		MerchantName: pt.GetMerchantName(),
		Category:     category,
		Amount:       -pt.GetAmount(),
		Pending:      pt.GetPending(),
	}, true
}

// plaidTimestamp prefers the posted datetime, then the authorized datetime,
// keeping the institution's offset so the hour of day stays meaningful. The
// date-only field is the last resort.
func plaidTimestamp(pt plaid.Transaction) (time.Time, bool) {
	if dt, ok := pt.GetDatetimeOk(); ok && dt != nil && !dt.IsZero() {
		return *dt, true
	}
	if dt, ok := pt.GetAuthorizedDatetimeOk(); ok && dt != nil && !dt.IsZero() {
		return *dt, true
	}
	date, err := time.Parse("2006-01-02", pt.GetDate())
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// classifyPlaidError marks rate limits and transport failures as retryable.
// API errors other than rate limits are final.
func classifyPlaidError(op string, err error) error {
	if err == nil {
		return nil
	}

	if plaidErr, convErr := plaid.ToPlaidError(err); convErr == nil {
		if plaidErr.ErrorCode == "RATE_LIMIT_EXCEEDED" {
			slog.Warn("Plaid rate limit hit, will retry", "operation", op, "error", plaidErr.ErrorMessage)
			return &common.RetryableError{
				Err:       fmt.Errorf("%w: %s", common.ErrSourceRateLimit, plaidErr.ErrorMessage),
				Retryable: true,
			}
		}
		return &common.RetryableError{
			Err:       fmt.Errorf("plaid API error: %s - %s", plaidErr.ErrorCode, plaidErr.ErrorMessage),
			Retryable: false,
		}
	}

	var retryable *common.RetryableError
	if errors.As(err, &retryable) {
		return err
	}

	return &common.RetryableError{
		Err:       fmt.Errorf("%w: failed to %s: %w", common.ErrSourceConnection, op, err),
		Retryable: true,
	}
}

// plaidClient calls the real Plaid API.
type plaidClient struct {
	client      *plaid.APIClient
	accessToken string
}

func (c *plaidClient) Accounts(ctx context.Context) ([]plaid.AccountBase, error) {
	request := plaid.NewAccountsGetRequest(c.accessToken)
	resp, _, err := c.client.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*request).Execute()
	if err != nil {
		return nil, err
	}
	return resp.GetAccounts(), nil
}

func (c *plaidClient) Transactions(ctx context.Context, start, end string, offset int32) ([]plaid.Transaction, int32, error) {
	request := plaid.NewTransactionsGetRequest(c.accessToken, start, end)
	request.SetOptions(plaid.TransactionsGetRequestOptions{
		Count:  plaid.PtrInt32(plaidPageSize),
		Offset: plaid.PtrInt32(offset),
	})

	resp, _, err := c.client.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*request).Execute()
	if err != nil {
		return nil, 0, err
	}
	return resp.GetTransactions(), resp.GetTotalTransactions(), nil
}
