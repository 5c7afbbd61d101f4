package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"phonepe/internal/db"
	"phonepe/internal/metrics"
	"phonepe/internal/money"
	"phonepe/internal/store"
	"phonepe/internal/validator"
	"phonepe/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrInvalidMobile = validator.ErrInvalidMobile

	// ErrRegenerationFailed means a batch generation or replacement did not
	// commit. The previous batch and counter are intact; callers may retry.
	ErrRegenerationFailed = errors.New("regeneration failed")
)

// BatchOutcome reports what a read did to the account's transaction batch.
type BatchOutcome string

const (
	OutcomeAppended  BatchOutcome = "appended"
	OutcomeReplaced  BatchOutcome = "replaced"
	OutcomeUntouched BatchOutcome = "untouched"
)

const (
	// A read with count >= resetThreshold replaces the batch. Counts 1..3
	// accumulate, so the reset lands on the fourth consecutive read.
	resetThreshold = 3

	statementLimit = 10
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, mobile string, name *string) error
	GetByMobile(ctx context.Context, mobile string) (store.User, error)
}

type AccountStore interface {
	Create(ctx context.Context, tx store.Execer, id, userID, upiID string, balance int64) error
	GetByUserID(ctx context.Context, userID string) (store.Account, error)
	UpdateBalance(ctx context.Context, tx store.Execer, accountID string, balance int64) error
}

type TransactionStore interface {
	InsertBatch(ctx context.Context, tx store.Execer, inputs []store.TransactionInput) error
	DeleteByAccount(ctx context.Context, tx store.Execer, accountID string) (int64, error)
	ListRecent(ctx context.Context, accountID string, limit int) ([]store.StatementRow, error)
}

type PayloadStore interface {
	InsertBatch(ctx context.Context, tx store.Execer, inputs []store.PayloadInput) error
	DeleteByAccount(ctx context.Context, tx store.Execer, accountID string) (int64, error)
}

type CounterStore interface {
	Ensure(ctx context.Context, tx store.Execer, mobile string) error
	GetForUpdate(ctx context.Context, tx store.Getter, mobile string) (store.GenerationCounter, error)
	Increment(ctx context.Context, tx store.Execer, mobile string, expected int) (int64, error)
	Reset(ctx context.Context, tx store.Execer, mobile string, count int) error
}

type Synthesizer interface {
	BatchSize() int
	Synthesize(ctx context.Context, account store.Account, mobile, userID string, count int) ([]store.TransactionInput, []store.PayloadInput, error)
	UPIHandle(mobile string) string
	RecomputeBalance(credits, debits int) int64
}

type BalanceHub interface {
	BroadcastBalance(mobile string, update websocket.BalanceUpdate)
}

type StatementService struct {
	txRunner     db.TxRunner
	users        UserStore
	accounts     AccountStore
	transactions TransactionStore
	payloads     PayloadStore
	counters     CounterStore
	synth        Synthesizer
	hub          BalanceHub
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

func NewStatementService(txRunner db.TxRunner, users UserStore, accounts AccountStore, transactions TransactionStore, payloads PayloadStore, counters CounterStore, synthesizer Synthesizer, hub BalanceHub, logger *slog.Logger, m *metrics.Metrics) *StatementService {
	return &StatementService{
		txRunner:     txRunner,
		users:        users,
		accounts:     accounts,
		transactions: transactions,
		payloads:     payloads,
		counters:     counters,
		synth:        synthesizer,
		hub:          hub,
		logger:       logger.With("component", "statements"),
		metrics:      m,
	}
}

type Identity struct {
	UserID    string
	AccountID string
	UPIHandle string
	Created   bool
}

// EnsureIdentity returns the user/account pair for the mobile, creating both
// atomically on first sight. A concurrent creator winning the race is
// absorbed: the loser re-reads the winner's rows.
func (s *StatementService) EnsureIdentity(ctx context.Context, mobile string, name *string) (Identity, error) {
	if err := validator.ValidateMobile(mobile); err != nil {
		return Identity{}, err
	}

	identity, err := s.lookupIdentity(ctx, mobile)
	if err == nil {
		return identity, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Identity{}, err
	}

	userID := uuid.NewString()
	accountID := uuid.NewString()
	upiHandle := s.synth.UPIHandle(mobile)
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.users.Create(ctx, tx, userID, mobile, name); err != nil {
			return err
		}
		if err := s.accounts.Create(ctx, tx, accountID, userID, upiHandle, 0); err != nil {
			return err
		}
		return s.counters.Ensure(ctx, tx, mobile)
	})
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.Debug("identity creation lost race, reading existing rows", "mobile", mobile)
			return s.lookupIdentity(ctx, mobile)
		}
		return Identity{}, err
	}
	s.logger.Info("provisioned identity", "mobile", mobile, "user_id", userID)
	return Identity{UserID: userID, AccountID: accountID, UPIHandle: upiHandle, Created: true}, nil
}

func (s *StatementService) lookupIdentity(ctx context.Context, mobile string) (Identity, error) {
	user, err := s.users.GetByMobile(ctx, mobile)
	if err != nil {
		return Identity{}, err
	}
	account, err := s.accounts.GetByUserID(ctx, user.ID)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: user.ID, AccountID: account.ID, UPIHandle: account.UPIID}, nil
}

// RegenerateIfDue runs the per-read lifecycle decision for the mobile's
// batch. The counter row lock serializes concurrent reads of the same mobile;
// reads of different mobiles proceed in parallel. The whole decision commits
// or rolls back as one unit, so readers never observe a partial batch.
func (s *StatementService) RegenerateIfDue(ctx context.Context, account store.Account, mobile, userID string) (BatchOutcome, error) {
	outcome := OutcomeUntouched
	var balance int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		outcome = OutcomeUntouched
		if err := s.counters.Ensure(ctx, tx, mobile); err != nil {
			return err
		}
		counter, err := s.counters.GetForUpdate(ctx, tx, mobile)
		if err != nil {
			return err
		}
		switch {
		case counter.Count >= resetThreshold:
			if _, err := s.payloads.DeleteByAccount(ctx, tx, account.ID); err != nil {
				return err
			}
			if _, err := s.transactions.DeleteByAccount(ctx, tx, account.ID); err != nil {
				return err
			}
			balance, err = s.generateBatch(ctx, tx, account, mobile, userID)
			if err != nil {
				return err
			}
			if err := s.counters.Reset(ctx, tx, mobile, 1); err != nil {
				return err
			}
			outcome = OutcomeReplaced
		case counter.Count == 0:
			balance, err = s.generateBatch(ctx, tx, account, mobile, userID)
			if err != nil {
				return err
			}
			if err := s.counters.Reset(ctx, tx, mobile, 1); err != nil {
				return err
			}
			outcome = OutcomeAppended
		default:
			rows, err := s.counters.Increment(ctx, tx, mobile, counter.Count)
			if err != nil {
				return err
			}
			if rows == 0 {
				return fmt.Errorf("generation counter moved under lock for %s", mobile)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("regeneration rolled back", "mobile", mobile, "error", err)
		return OutcomeUntouched, fmt.Errorf("%w: %v", ErrRegenerationFailed, err)
	}
	s.metrics.Regenerations.WithLabelValues(string(outcome)).Inc()
	if outcome != OutcomeUntouched {
		s.hub.BroadcastBalance(mobile, websocket.BalanceUpdate{
			Mobile:  mobile,
			Balance: money.FormatMinor(balance),
			Outcome: string(outcome),
		})
	}
	return outcome, nil
}

func (s *StatementService) generateBatch(ctx context.Context, tx *sqlx.Tx, account store.Account, mobile, userID string) (int64, error) {
	size := s.synth.BatchSize()
	transactions, payloads, err := s.synth.Synthesize(ctx, account, mobile, userID, size)
	if err != nil {
		return 0, err
	}
	if err := s.transactions.InsertBatch(ctx, tx, transactions); err != nil {
		return 0, err
	}
	if err := s.payloads.InsertBatch(ctx, tx, payloads); err != nil {
		return 0, err
	}
	credits, debits := 0, 0
	for _, txn := range transactions {
		if txn.Type == "CREDIT" {
			credits++
		} else {
			debits++
		}
	}
	balance := s.synth.RecomputeBalance(credits, debits)
	if err := s.accounts.UpdateBalance(ctx, tx, account.ID, balance); err != nil {
		return 0, err
	}
	return balance, nil
}

type StatementEntry struct {
	ID            string `json:"id"`
	Amount        string `json:"amount"`
	Type          string `json:"type"`
	Merchant      string `json:"merchant"`
	Status        string `json:"status"`
	Timestamp     any    `json:"timestamp"`
	Reference     string `json:"upi_reference"`
	MerchantID    string `json:"merchant_id"`
	MerchantTxnID string `json:"merchant_transaction_id"`
	VPA           string `json:"vpa"`
	MaskedAccount string `json:"masked_account"`
	IFSC          string `json:"ifsc"`
}

type Statement struct {
	Mobile       string           `json:"mobile"`
	UPIHandle    string           `json:"upi_id"`
	Balance      string           `json:"balance"`
	Outcome      BatchOutcome     `json:"-"`
	Transactions []StatementEntry `json:"transactions"`
}

// GetStatement is the read path: ensure the identity exists, run the
// regeneration decision, then serve the batch that decision left behind.
func (s *StatementService) GetStatement(ctx context.Context, mobile string) (Statement, error) {
	identity, err := s.EnsureIdentity(ctx, mobile, nil)
	if err != nil {
		return Statement{}, err
	}
	account, err := s.accounts.GetByUserID(ctx, identity.UserID)
	if err != nil {
		return Statement{}, err
	}
	outcome, err := s.RegenerateIfDue(ctx, account, mobile, identity.UserID)
	if err != nil {
		return Statement{}, err
	}
	// Re-read after the decision committed so the response reflects it.
	account, err = s.accounts.GetByUserID(ctx, identity.UserID)
	if err != nil {
		return Statement{}, err
	}
	rows, err := s.transactions.ListRecent(ctx, account.ID, statementLimit)
	if err != nil {
		return Statement{}, err
	}

	entries := make([]StatementEntry, 0, len(rows))
	for _, row := range rows {
		entry := StatementEntry{
			ID:        row.ID,
			Amount:    money.FormatMinor(row.Amount),
			Type:      row.Type,
			Merchant:  row.Merchant,
			Status:    row.Status,
			Timestamp: row.OccurredAt,
			Reference: row.UPIReference,
		}
		flattenPayload(row.Payload, &entry)
		entries = append(entries, entry)
	}
	return Statement{
		Mobile:       mobile,
		UPIHandle:    identity.UPIHandle,
		Balance:      money.FormatMinor(account.Balance),
		Outcome:      outcome,
		Transactions: entries,
	}, nil
}

type payloadDoc struct {
	MerchantID            string `json:"merchantId"`
	MerchantTransactionID string `json:"merchantTransactionId"`
	PaymentInstrument     struct {
		VPA                string `json:"vpa"`
		AccountConstraints []struct {
			AccountNumber string `json:"accountNumber"`
			IFSC          string `json:"ifsc"`
		} `json:"accountConstraints"`
	} `json:"paymentInstrument"`
}

func flattenPayload(blob []byte, entry *StatementEntry) {
	if len(blob) == 0 {
		return
	}
	var doc payloadDoc
	if err := json.Unmarshal(blob, &doc); err != nil {
		return
	}
	entry.MerchantID = doc.MerchantID
	entry.MerchantTxnID = doc.MerchantTransactionID
	entry.VPA = doc.PaymentInstrument.VPA
	if len(doc.PaymentInstrument.AccountConstraints) > 0 {
		entry.MaskedAccount = doc.PaymentInstrument.AccountConstraints[0].AccountNumber
		entry.IFSC = doc.PaymentInstrument.AccountConstraints[0].IFSC
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505"
}
