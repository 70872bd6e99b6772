package report

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockOracle struct {
	mock.Mock
}

func (m *mockOracle) Generate(ctx context.Context, req OracleRequest) (OracleResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(OracleResponse), args.Error(1)
}

// oracleFunc adapts a function to the Oracle interface.
type oracleFunc func(ctx context.Context, req OracleRequest) (OracleResponse, error)

func (f oracleFunc) Generate(ctx context.Context, req OracleRequest) (OracleResponse, error) {
	return f(ctx, req)
}

// echoOracle answers every section with a sentence naming it.
func echoOracle() Oracle {
	return oracleFunc(func(_ context.Context, req OracleRequest) (OracleResponse, error) {
		return OracleResponse{Text: "Narrated " + string(req.SectionKind) + "."}, nil
	})
}
