package mockdata_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/resinhook/internal/dataset"
	"github.com/rshade/resinhook/internal/mockdata"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
}

func TestTransactions_Keys(t *testing.T) {
	g := mockdata.New(1, fixedClock)

	zh := g.Transactions(1, mockdata.LocaleZH)
	require.Len(t, zh, 1)
	assert.Equal(t, []string{
		"交易流水号", "交易日期", "交易时间", "交易类型", "交易金额",
		"账户余额", "对方账户", "对方户名", "交易状态", "备注",
	}, dataset.Keys(zh[0]))
	assert.Equal(t, "14:05:06", dataset.Lookup(zh[0], "交易时间"))

	en := g.Transactions(1, mockdata.LocaleEN)
	keys := dataset.Keys(en[0])
	headers := mockdata.TransactionHeaders()
	assert.Len(t, keys, len(headers))
	for _, k := range keys {
		assert.Contains(t, headers, k)
	}
}

func TestTransactions_Shape(t *testing.T) {
	g := mockdata.New(7, fixedClock)
	rows := g.Transactions(250, mockdata.LocaleEN)
	require.Len(t, rows, 250)

	assert.Equal(t, "2024-01-01", dataset.Lookup(rows[0], "txnDate"))
	assert.Equal(t, "2024-01-02", dataset.Lookup(rows[100], "txnDate"))
	assert.Equal(t, "2024-01-03", dataset.Lookup(rows[249], "txnDate"))

	for _, r := range rows {
		id, ok := dataset.Lookup(r, "txnId").(string)
		require.True(t, ok)
		assert.Regexp(t, `^T\d+[0-9a-z]{7}$`, id)
		assert.Regexp(t, `^6222\d{12}$`, dataset.Lookup(r, "counterpartyAccount"))

		amount, ok := dataset.Lookup(r, "amount").(float64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, amount, -5000.0)
		assert.LessOrEqual(t, amount, 45000.0)

		if dataset.Lookup(r, "type") == "transfer" {
			assert.NotEmpty(t, dataset.Lookup(r, "remark"))
		} else {
			assert.Empty(t, dataset.Lookup(r, "remark"))
		}
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	a := mockdata.New(42, fixedClock).Transactions(20, mockdata.LocaleZH)
	b := mockdata.New(42, fixedClock).Transactions(20, mockdata.LocaleZH)
	for i := range a {
		assert.Equal(t, dataset.Cells(a[i], dataset.Keys(a[i])), dataset.Cells(b[i], dataset.Keys(b[i])))
	}
}

func TestGenerate_Limits(t *testing.T) {
	g := mockdata.New(3, fixedClock)

	tests := []struct {
		name string
		q    mockdata.Query
		want int
	}{
		{"default count", mockdata.Query{Kind: mockdata.KindTransactions}, mockdata.DefaultCount},
		{"accounts capped", mockdata.Query{Kind: mockdata.KindAccounts, Count: 5000}, mockdata.MaxAccounts},
		{"accounts below cap", mockdata.Query{Kind: mockdata.KindAccounts, Count: 12}, 12},
		{"transactions exact", mockdata.Query{Kind: mockdata.KindTransactions, Count: 33}, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, g.Generate(tt.q), tt.want)
		})
	}

	assert.Equal(t, mockdata.MaxCount, mockdata.ClampCount(mockdata.MaxCount*2))
	assert.Equal(t, 1, mockdata.ClampCount(1))
}

func TestGenerate_TxnTypeFilter(t *testing.T) {
	g := mockdata.New(9, fixedClock)

	rows := g.Generate(mockdata.Query{Count: 400, Locale: mockdata.LocaleZH, TxnType: "存款"})
	assert.NotEmpty(t, rows)
	assert.Less(t, len(rows), 400)
	for _, r := range rows {
		assert.Equal(t, "存款", dataset.Lookup(r, "交易类型"))
	}

	rows = g.Generate(mockdata.Query{Count: 400, Locale: mockdata.LocaleEN, TxnType: "payment"})
	assert.NotEmpty(t, rows)
	for _, r := range rows {
		assert.Equal(t, "payment", dataset.Lookup(r, "type"))
	}
}

func TestAccounts(t *testing.T) {
	rows := mockdata.New(5, fixedClock).Accounts(3, mockdata.LocaleEN)
	require.Len(t, rows, 3)
	assert.Equal(t, "Account1", dataset.Lookup(rows[0], "accountName"))
	assert.Equal(t, "2023-01-07", dataset.Lookup(rows[2], "openDate"))
	assert.Contains(t, []string{"ICBC", "CCB", "ABC", "BOC"}, dataset.Lookup(rows[1], "bank"))
}

func TestParsers(t *testing.T) {
	assert.Equal(t, mockdata.LocaleEN, mockdata.ParseLocale("EN"))
	assert.Equal(t, mockdata.LocaleZH, mockdata.ParseLocale("fr"))
	assert.Equal(t, mockdata.KindAccounts, mockdata.ParseKind("accounts"))
	assert.Equal(t, mockdata.KindTransactions, mockdata.ParseKind(""))
	assert.Equal(t, "账户列表", mockdata.SheetName(mockdata.KindAccounts))
	assert.Equal(t, mockdata.AccountHeaders(), mockdata.Headers(mockdata.KindAccounts))
}
