package mockdata

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/rshade/resinhook/internal/dataset"
)

// Locale selects the key set of generated rows.
type Locale string

// Supported locales.
const (
	LocaleZH Locale = "zh"
	LocaleEN Locale = "en"
)

// ParseLocale maps "en" to LocaleEN and anything else to LocaleZH.
func ParseLocale(s string) Locale {
	if strings.EqualFold(strings.TrimSpace(s), string(LocaleEN)) {
		return LocaleEN
	}
	return LocaleZH
}

// Kind selects the dataset.
type Kind string

// Dataset kinds.
const (
	KindTransactions Kind = "transactions"
	KindAccounts     Kind = "accounts"
)

// ParseKind maps "accounts" to KindAccounts and anything else to
// KindTransactions.
func ParseKind(s string) Kind {
	if strings.EqualFold(strings.TrimSpace(s), string(KindAccounts)) {
		return KindAccounts
	}
	return KindTransactions
}

// Generation limits.
const (
	DefaultCount = 500
	MaxCount     = 200000
	MaxAccounts  = 100
)

// DefaultDownloadName is the file name offered when a download names none.
const DefaultDownloadName = "银行流水.xlsx"

var (
	txnTypes        = []string{"转账", "存款", "取款", "消费"}
	txnTypesEN      = []string{"transfer", "deposit", "withdraw", "payment"}
	statuses        = []string{"成功", "失败", "处理中"}
	statusesEN      = []string{"success", "failed", "pending"}
	banks           = []string{"中国工商银行", "中国建设银行", "中国农业银行", "中国银行"}
	banksEN         = []string{"ICBC", "CCB", "ABC", "BOC"}
	accountTypes    = []string{"储蓄卡", "信用卡", "对公账户"}
	accountTypesEN  = []string{"savings", "credit", "corporate"}
	transactionBase = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	accountBase     = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
)

// TransactionHeaders labels English transaction keys.
func TransactionHeaders() map[string]string {
	return map[string]string{
		"txnId":               "交易流水号",
		"txnDate":             "交易日期",
		"txnTime":             "交易时间",
		"type":                "交易类型",
		"amount":              "交易金额",
		"balance":             "账户余额",
		"counterpartyAccount": "对方账户",
		"counterpartyName":    "对方户名",
		"status":              "交易状态",
		"remark":              "备注",
	}
}

// AccountHeaders labels English account keys.
func AccountHeaders() map[string]string {
	return map[string]string{
		"accountNo":   "账号",
		"accountName": "户名",
		"bank":        "开户行",
		"accountType": "账户类型",
		"balance":     "余额",
		"openDate":    "开户日期",
		"status":      "状态",
	}
}

// Headers returns the header map for kind.
func Headers(kind Kind) map[string]string {
	if kind == KindAccounts {
		return AccountHeaders()
	}
	return TransactionHeaders()
}

// SheetName returns the worksheet name used for kind.
func SheetName(kind Kind) string {
	if kind == KindAccounts {
		return "账户列表"
	}
	return "交易流水"
}

// Query describes a generation request.
type Query struct {
	Kind   Kind
	Count  int
	Locale Locale
	// TxnType keeps only transactions of this type, matched in the row's
	// locale. Ignored for accounts.
	TxnType string
}

// ClampCount returns n limited to [1, MaxCount]; non-positive n means
// DefaultCount.
func ClampCount(n int) int {
	if n <= 0 {
		return DefaultCount
	}
	return min(n, MaxCount)
}

// Generator produces rows from a seeded source. It is not safe for
// concurrent use.
type Generator struct {
	rng   *rand.Rand
	clock func() time.Time
}

// New returns a Generator seeded with seed. Equal seeds and clocks yield
// equal rows.
func New(seed uint64, clock func() time.Time) *Generator {
	if clock == nil {
		clock = time.Now
	}
	return &Generator{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		clock: clock,
	}
}

// NewRandom returns a Generator with a random seed and the wall clock.
func NewRandom() *Generator {
	return New(rand.Uint64(), time.Now)
}

// Generate runs q with the count limits applied.
func (g *Generator) Generate(q Query) []*dataset.Row {
	n := ClampCount(q.Count)
	if q.Kind == KindAccounts {
		return g.Accounts(min(n, MaxAccounts), q.Locale)
	}

	rows := g.Transactions(n, q.Locale)
	if q.TxnType == "" {
		return rows
	}

	key := "交易类型"
	if q.Locale == LocaleEN {
		key = "type"
	}
	kept := rows[:0]
	for _, r := range rows {
		if dataset.Lookup(r, key) == q.TxnType {
			kept = append(kept, r)
		}
	}
	return kept
}

// Transactions returns n transaction rows with a running balance. Dates
// advance one day per hundred rows from 2024-01-01.
func (g *Generator) Transactions(n int, loc Locale) []*dataset.Row {
	rows := make([]*dataset.Row, 0, n)
	balance := 100000 + g.rng.Float64()*500000

	for i := range n {
		t := g.rng.IntN(len(txnTypes))
		amount := round2(g.rng.Float64()*50000 - 5000)
		balance = round2(balance + amount)
		date := transactionBase.AddDate(0, 0, i/100).Format(time.DateOnly)
		clock := g.clock().Format(time.TimeOnly)
		status := g.rng.IntN(len(statuses))
		id := g.txnID()
		account := g.accountNo()

		if loc == LocaleEN {
			remark := ""
			if t == 0 {
				remark = fmt.Sprintf("Transfer note %d", i)
			}
			rows = append(rows, dataset.RowOf(
				dataset.Field{Key: "txnId", Value: id},
				dataset.Field{Key: "txnDate", Value: date},
				dataset.Field{Key: "txnTime", Value: clock},
				dataset.Field{Key: "type", Value: txnTypesEN[t]},
				dataset.Field{Key: "amount", Value: amount},
				dataset.Field{Key: "balance", Value: balance},
				dataset.Field{Key: "counterpartyAccount", Value: account},
				dataset.Field{Key: "counterpartyName", Value: fmt.Sprintf("User%d", i%20)},
				dataset.Field{Key: "status", Value: statusesEN[status]},
				dataset.Field{Key: "remark", Value: remark},
			))
			continue
		}

		remark := ""
		if t == 0 {
			remark = fmt.Sprintf("转账备注%d", i)
		}
		rows = append(rows, dataset.RowOf(
			dataset.Field{Key: "交易流水号", Value: id},
			dataset.Field{Key: "交易日期", Value: date},
			dataset.Field{Key: "交易时间", Value: clock},
			dataset.Field{Key: "交易类型", Value: txnTypes[t]},
			dataset.Field{Key: "交易金额", Value: amount},
			dataset.Field{Key: "账户余额", Value: balance},
			dataset.Field{Key: "对方账户", Value: account},
			dataset.Field{Key: "对方户名", Value: fmt.Sprintf("用户%d", i%20)},
			dataset.Field{Key: "交易状态", Value: statuses[status]},
			dataset.Field{Key: "备注", Value: remark},
		))
	}
	return rows
}

// Accounts returns n account rows opened three days apart from 2023-01-01.
func (g *Generator) Accounts(n int, loc Locale) []*dataset.Row {
	rows := make([]*dataset.Row, 0, n)
	for i := range n {
		no := g.accountNo()
		bank := g.rng.IntN(len(banks))
		kind := g.rng.IntN(len(accountTypes))
		balance := round2(g.rng.Float64() * 100000)
		opened := accountBase.AddDate(0, 0, i*3).Format(time.DateOnly)
		status := g.rng.IntN(len(statuses))

		if loc == LocaleEN {
			rows = append(rows, dataset.RowOf(
				dataset.Field{Key: "accountNo", Value: no},
				dataset.Field{Key: "accountName", Value: fmt.Sprintf("Account%d", i+1)},
				dataset.Field{Key: "bank", Value: banksEN[bank]},
				dataset.Field{Key: "accountType", Value: accountTypesEN[kind]},
				dataset.Field{Key: "balance", Value: balance},
				dataset.Field{Key: "openDate", Value: opened},
				dataset.Field{Key: "status", Value: statusesEN[status]},
			))
			continue
		}
		rows = append(rows, dataset.RowOf(
			dataset.Field{Key: "账号", Value: no},
			dataset.Field{Key: "户名", Value: fmt.Sprintf("账户%d", i+1)},
			dataset.Field{Key: "开户行", Value: banks[bank]},
			dataset.Field{Key: "账户类型", Value: accountTypes[kind]},
			dataset.Field{Key: "余额", Value: balance},
			dataset.Field{Key: "开户日期", Value: opened},
			dataset.Field{Key: "状态", Value: statuses[status]},
		))
	}
	return rows
}

func (g *Generator) txnID() string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	var suffix [7]byte
	for i := range suffix {
		suffix[i] = alphabet[g.rng.IntN(len(alphabet))]
	}
	return "T" + strconv.FormatInt(g.clock().UnixMilli(), 10) + string(suffix[:])
}

func (g *Generator) accountNo() string {
	return fmt.Sprintf("6222%012d", g.rng.Int64N(1e12))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
