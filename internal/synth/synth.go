package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"phonepe/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinBatchSize = 5
	MaxBatchSize = 10

	// Amounts are uniform over 10.00-5000.00 rupees, held in paise.
	minAmountMinor = 1000
	maxAmountMinor = 500000

	maxAgeDays = 30
)

var (
	merchants   = []string{"Amazon", "Flipkart", "Zomato", "Swiggy", "IRCTC"}
	txnTypes    = []string{"CREDIT", "DEBIT"}
	txnStatuses = []string{"SUCCESS", "FAILED", "PENDING"}
	upiHandles  = []string{"@ybl", "@okhdfcbank", "@oksbi", "@okicici"}
)

type IFSCResolver interface {
	Resolve(ctx context.Context, rng *rand.Rand) string
}

// Synthesizer fabricates transaction rows and their gateway payloads. It has
// no storage side effects; callers persist the returned inputs together.
type Synthesizer struct {
	resolver IFSCResolver
	mu       sync.Mutex
	rng      *rand.Rand
	now      func() time.Time
}

func New(resolver IFSCResolver, rng *rand.Rand, now func() time.Time) *Synthesizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Synthesizer{resolver: resolver, rng: rng, now: now}
}

type gatewayPayload struct {
	MerchantID            string            `json:"merchantId"`
	MerchantTransactionID string            `json:"merchantTransactionId"`
	UserID                string            `json:"UserId"`
	Amount                decimal.Decimal   `json:"amount"`
	MobileNumber          string            `json:"mobileNumber"`
	PaymentInstrument     paymentInstrument `json:"paymentInstrument"`
	Timestamp             time.Time         `json:"timestamp"`
}

type paymentInstrument struct {
	Type               string              `json:"type"`
	VPA                string              `json:"vpa"`
	AccountConstraints []accountConstraint `json:"accountConstraints"`
}

type accountConstraint struct {
	AccountNumber string `json:"accountNumber"`
	IFSC          string `json:"ifsc"`
}

// BatchSize draws a batch size in [MinBatchSize, MaxBatchSize].
func (s *Synthesizer) BatchSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MinBatchSize + s.rng.Intn(MaxBatchSize-MinBatchSize+1)
}

// Synthesize builds count paired transaction and payload inputs for the
// account. Each pair shares a transaction id; persisting one without the
// other is the caller's bug, not this package's.
func (s *Synthesizer) Synthesize(ctx context.Context, account store.Account, mobile, userID string, count int) ([]store.TransactionInput, []store.PayloadInput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transactions := make([]store.TransactionInput, 0, count)
	payloads := make([]store.PayloadInput, 0, count)
	now := s.now()

	for i := 0; i < count; i++ {
		amount := minAmountMinor + s.rng.Int63n(maxAmountMinor-minAmountMinor+1)
		occurredAt := now.AddDate(0, 0, -s.rng.Intn(maxAgeDays+1))
		txnID := uuid.NewString()

		transactions = append(transactions, store.TransactionInput{
			ID:           txnID,
			AccountID:    account.ID,
			Amount:       amount,
			Type:         txnTypes[s.rng.Intn(len(txnTypes))],
			Merchant:     merchants[s.rng.Intn(len(merchants))],
			Status:       txnStatuses[s.rng.Intn(len(txnStatuses))],
			OccurredAt:   occurredAt,
			UPIReference: fmt.Sprintf("UPI%d", 100000000+s.rng.Int63n(900000000)),
		})

		payload := gatewayPayload{
			MerchantID:            "MERCHANTUAT" + s.digits(4),
			MerchantTransactionID: s.alphanumeric(12),
			UserID:                userID,
			Amount:                decimal.NewFromInt(amount).Div(decimal.NewFromInt(100)),
			MobileNumber:          mobile,
			PaymentInstrument: paymentInstrument{
				Type: "UPI",
				VPA:  account.UPIID,
				AccountConstraints: []accountConstraint{{
					AccountNumber: s.digits(12),
					IFSC:          s.resolver.Resolve(ctx, s.rng),
				}},
			},
			Timestamp: occurredAt,
		}
		blob, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		payloads = append(payloads, store.PayloadInput{
			ID:            uuid.NewString(),
			TransactionID: txnID,
			Payload:       string(blob),
		})
	}
	return transactions, payloads, nil
}

// UPIHandle synthesizes a VPA for a new account.
func (s *Synthesizer) UPIHandle(mobile string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mobile + upiHandles[s.rng.Intn(len(upiHandles))]
}

// RecomputeBalance fabricates a fresh balance from the batch's credit/debit
// mix. It is intentionally independent of the summed transaction amounts;
// the statement is synthetic end to end and the original behaves the same
// way. Result is clamped at zero.
func (s *Synthesizer) RecomputeBalance(credits, debits int) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance := 100000 + s.rng.Int63n(400001)
	for i := 0; i < credits; i++ {
		balance += s.rng.Int63n(50001)
	}
	for i := 0; i < debits; i++ {
		balance -= s.rng.Int63n(50001)
	}
	if balance < 0 {
		balance = 0
	}
	return balance
}

func (s *Synthesizer) digits(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte('0' + s.rng.Intn(10))
	}
	return string(out)
}

const alphanumericSet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func (s *Synthesizer) alphanumeric(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = alphanumericSet[s.rng.Intn(len(alphanumericSet))]
	}
	return string(out)
}
