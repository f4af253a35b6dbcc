package pharmacy

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCard() CardDetails {
	return CardDetails{Number: "4242424242424242", ExpiryDate: "12/27", CVC: "123"}
}

func TestCardDetailsValid(t *testing.T) {
	tests := []struct {
		name string
		card CardDetails
		want bool
	}{
		{"well-formed", validCard(), true},
		{"short number", CardDetails{Number: "1234", ExpiryDate: "12/27", CVC: "123"}, false},
		{"number with letters", CardDetails{Number: "42424242424242ab", ExpiryDate: "12/27", CVC: "123"}, false},
		{"month 00", CardDetails{Number: "4242424242424242", ExpiryDate: "00/27", CVC: "123"}, false},
		{"month 13", CardDetails{Number: "4242424242424242", ExpiryDate: "13/27", CVC: "123"}, false},
		{"wrong expiry shape", CardDetails{Number: "4242424242424242", ExpiryDate: "2027-12", CVC: "123"}, false},
		{"two-digit cvc", CardDetails{Number: "4242424242424242", ExpiryDate: "12/27", CVC: "12"}, false},
		{"four-digit cvc", CardDetails{Number: "4242424242424242", ExpiryDate: "12/27", CVC: "1234"}, false},
		{"empty", CardDetails{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.card.Valid())
		})
	}
}

func TestDeposit(t *testing.T) {
	env := newTestEnv(t)
	user, principal := env.seedCustomer(t, "alice", "5.00")

	require.NoError(t, env.deposit.Deposit(context.Background(), principal, validCard(), decimal.RequireFromString("20.50")))
	assert.True(t, env.balanceOf(t, user.ID).Equal(decimal.RequireFromString("25.50")))
}

func TestDepositInvalidCard(t *testing.T) {
	env := newTestEnv(t)
	user, principal := env.seedCustomer(t, "bob", "5.00")

	card := CardDetails{Number: "1234", ExpiryDate: "12/27", CVC: "123"}
	err := env.deposit.Deposit(context.Background(), principal, card, decimal.RequireFromString("20.00"))
	assert.ErrorIs(t, err, ErrInvalidCard)
	assert.True(t, env.balanceOf(t, user.ID).Equal(decimal.RequireFromString("5.00")))
}

func TestDepositInvalidAmount(t *testing.T) {
	env := newTestEnv(t)
	user, principal := env.seedCustomer(t, "carol", "5.00")

	for _, amount := range []string{"0", "-1.00"} {
		err := env.deposit.Deposit(context.Background(), principal, validCard(), decimal.RequireFromString(amount))
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %s", amount)
	}
	assert.True(t, env.balanceOf(t, user.ID).Equal(decimal.RequireFromString("5.00")))
}
