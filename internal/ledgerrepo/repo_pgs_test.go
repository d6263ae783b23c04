//go:build integration

package ledgerrepo_test

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-petr/peerpay/internal/domain"
	"github.com/go-petr/peerpay/internal/integrationtest"
	"github.com/go-petr/peerpay/internal/integrationtest/helpers"
	"github.com/go-petr/peerpay/internal/ledgerrepo"
	"github.com/go-petr/peerpay/internal/middleware"
	"github.com/go-petr/peerpay/internal/userrepo"
	"github.com/go-petr/peerpay/pkg/configpkg"
	"github.com/go-petr/peerpay/pkg/randompkg"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	_ "github.com/lib/pq"
)

var (
	dbDriver string
	dbSource string
	ctx      context.Context
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	logger := middleware.CreateLogger(config)
	ctx = logger.WithContext(context.Background())

	os.Exit(m.Run())
}

func TestCreateRecord(t *testing.T) {
	testCases := []struct {
		name    string
		userID  func(tx *sql.Tx) uuid.UUID
		amount  string
		wantErr error
	}{
		{
			name: "OK",
			userID: func(tx *sql.Tx) uuid.UUID {
				return helpers.SeedUser(t, tx).ID
			},
			amount: randompkg.MoneyAmountBetween(10, 1000),
		},
		{
			name: "ErrUserNotFound",
			userID: func(tx *sql.Tx) uuid.UUID {
				return uuid.New()
			},
			amount:  randompkg.MoneyAmountBetween(10, 1000),
			wantErr: domain.ErrUserNotFound,
		},
		{
			name: "ErrInvalidAmount",
			userID: func(tx *sql.Tx) uuid.UUID {
				return helpers.SeedUser(t, tx).ID
			},
			amount:  "0",
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tx := integrationtest.SetupTX(t, dbDriver, dbSource)
			userID := tc.userID(tx)
			ledgerRepo := ledgerrepo.NewTxRepoPGS(tx)

			got, err := ledgerRepo.CreateRecord(ctx, userID, domain.KindReceived, tc.amount, domain.StatusSuccess)
			if err != nil {
				if err == tc.wantErr {
					return
				}
				t.Fatalf(`ledgerRepo.CreateRecord(ctx, %v, RECEIVED, %v, SUCCESS) returned error: %v`,
					userID, tc.amount, err)
			}

			want := domain.Transaction{
				UserID:    userID,
				Kind:      domain.KindReceived,
				Amount:    tc.amount,
				Status:    domain.StatusSuccess,
				CreatedAt: time.Now().UTC(),
			}

			ignoreFields := cmpopts.IgnoreFields(domain.Transaction{}, "ID")
			compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
			if diff := cmp.Diff(want, got, ignoreFields, compareCreatedAt); diff != "" {
				t.Errorf(`ledgerRepo.CreateRecord returned unexpected difference (-want +got):\n%s`, diff)
			}

			if got.ID == uuid.Nil {
				t.Error("got.ID = uuid.Nil, want non-nil")
			}
		})
	}
}

func TestAddBalance(t *testing.T) {
	testCases := []struct {
		name        string
		userID      func(tx *sql.Tx) uuid.UUID
		amount      string
		wantBalance string
		wantErr     error
	}{
		{
			name: "OK",
			userID: func(tx *sql.Tx) uuid.UUID {
				return helpers.SeedUserWithBalance(t, tx, "1000").ID
			},
			amount:      "100",
			wantBalance: "1100",
		},
		{
			name: "Subtract",
			userID: func(tx *sql.Tx) uuid.UUID {
				return helpers.SeedUserWithBalance(t, tx, "1000").ID
			},
			amount:      "-100",
			wantBalance: "900",
		},
		{
			name: "ErrUserNotFound",
			userID: func(tx *sql.Tx) uuid.UUID {
				return uuid.New()
			},
			amount:  "100",
			wantErr: domain.ErrUserNotFound,
		},
		{
			name: "ErrInsufficientBalance",
			userID: func(tx *sql.Tx) uuid.UUID {
				return helpers.SeedUserWithBalance(t, tx, "50").ID
			},
			amount:  "-100",
			wantErr: domain.ErrInsufficientBalance,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tx := integrationtest.SetupTX(t, dbDriver, dbSource)
			userID := tc.userID(tx)
			ledgerRepo := ledgerrepo.NewTxRepoPGS(tx)

			got, err := ledgerRepo.AddBalance(ctx, tc.amount, userID)
			if err != nil {
				if err == tc.wantErr {
					return
				}
				t.Fatalf(`ledgerRepo.AddBalance(ctx, %v, %v) returned error: %v`,
					tc.amount, userID, err)
			}

			if got != tc.wantBalance {
				t.Errorf("balance = %v, want %v", got, tc.wantBalance)
			}
		})
	}
}

func TestListRecords(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	user := helpers.SeedUser(t, tx)
	ledgerRepo := ledgerrepo.NewTxRepoPGS(tx)

	const recordsCount = 5

	var want []domain.Transaction

	for i := 0; i < recordsCount; i++ {
		rec, err := ledgerRepo.CreateRecord(ctx, user.ID, domain.KindReceived,
			randompkg.MoneyAmountBetween(1, 10), domain.StatusSuccess)
		if err != nil {
			t.Fatalf("ledgerRepo.CreateRecord returned error: %v", err)
		}

		// Newest first.
		want = append([]domain.Transaction{rec}, want...)
	}

	got, err := ledgerRepo.ListRecords(ctx, user.ID)
	if err != nil {
		t.Fatalf("ledgerRepo.ListRecords(ctx, %v) returned error: %v", user.ID, err)
	}

	compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
	if diff := cmp.Diff(want, got, compareCreatedAt); diff != "" {
		t.Errorf(`ledgerRepo.ListRecords(ctx, %v) returned unexpected difference (-want +got):\n%s`,
			user.ID, diff)
	}
}

func TestCredit(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	user := helpers.SeedUser(t, db)
	ledgerRepo := ledgerrepo.NewRepoPGS(db)

	amount := "100.5"

	got, err := ledgerRepo.Credit(ctx, user.ID, amount)
	if err != nil {
		t.Fatalf("ledgerRepo.Credit(ctx, %v, %v) returned error: %v", user.ID, amount, err)
	}

	if got.Balance != amount {
		t.Errorf("got.Balance = %v, want %v", got.Balance, amount)
	}

	wantRecord := domain.Transaction{
		UserID: user.ID,
		Kind:   domain.KindReceived,
		Amount: amount,
		Status: domain.StatusSuccess,
	}

	ignoreFields := cmpopts.IgnoreFields(domain.Transaction{}, "ID", "CreatedAt")
	if diff := cmp.Diff(wantRecord, got.Record, ignoreFields); diff != "" {
		t.Errorf(`ledgerRepo.Credit returned unexpected record difference (-want +got):\n%s`, diff)
	}

	// The record must be visible in the log.
	records, err := ledgerRepo.ListRecords(ctx, user.ID)
	if err != nil {
		t.Fatalf("ledgerRepo.ListRecords(ctx, %v) returned error: %v", user.ID, err)
	}

	if len(records) != 1 {
		t.Fatalf("len(records) = %v, want 1", len(records))
	}
}

func TestCreditUserNotFound(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	ledgerRepo := ledgerrepo.NewRepoPGS(db)

	_, err := ledgerRepo.Credit(ctx, uuid.New(), "100")
	if err != domain.ErrUserNotFound {
		t.Errorf("ledgerRepo.Credit returned error %v, want %v", err, domain.ErrUserNotFound)
	}
}

func TestTransferTx(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	sender := helpers.SeedUserWithBalance(t, db, "1000")
	receiver := helpers.SeedUserWithBalance(t, db, "1000")

	ledgerRepo := ledgerrepo.NewRepoPGS(db)

	// run n concurrent transfer transactions
	n := 20
	amount := "10"

	errs := make(chan error)
	results := make(chan domain.TransferTxResult)

	for i := 0; i < n; i++ {
		go func() {
			result, err := ledgerRepo.Transfer(ctx, sender.ID, receiver.Email, amount)

			errs <- err
			results <- result
		}()
	}

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("decimal.NewFromString(%v) returned error: %v", amount, err)
	}

	senderBalanceBefore, err := decimal.NewFromString(sender.Balance)
	if err != nil {
		t.Fatalf("decimal.NewFromString(%v) returned error: %v", sender.Balance, err)
	}

	existed := make(map[int]bool)

	wantSentRecord := domain.Transaction{
		UserID: sender.ID,
		Kind:   domain.KindSent,
		Amount: amount,
		Status: domain.StatusSuccess,
	}
	wantReceivedRecord := domain.Transaction{
		UserID: receiver.ID,
		Kind:   domain.KindReceived,
		Amount: amount,
		Status: domain.StatusSuccess,
	}

	for i := 0; i < n; i++ {
		err := <-errs
		if err != nil {
			t.Fatalf("ledgerRepo.Transfer(ctx, %v, %v, %v) returned error: %v",
				sender.ID, receiver.Email, amount, err)
		}

		got := <-results

		ignoreFields := cmpopts.IgnoreFields(domain.Transaction{}, "ID", "CreatedAt")
		if diff := cmp.Diff(wantSentRecord, got.SentRecord, ignoreFields); diff != "" {
			t.Errorf(`got.SentRecord unexpected difference (-want +got):\n%s`, diff)
		}

		if diff := cmp.Diff(wantReceivedRecord, got.ReceivedRecord, ignoreFields); diff != "" {
			t.Errorf(`got.ReceivedRecord unexpected difference (-want +got):\n%s`, diff)
		}

		senderBalanceAfter, err := decimal.NewFromString(got.SenderBalance)
		if err != nil {
			t.Fatalf("decimal.NewFromString(%v) returned error: %v", got.SenderBalance, err)
		}

		// Each transfer must observe a unique multiple of amount
		// subtracted from the starting balance.
		k := int(senderBalanceBefore.Sub(senderBalanceAfter).Div(amountDecimal).IntPart())
		if k < 1 || k > n {
			t.Fatalf("k = %v, want k >= 1 && k <= n", k)
		}

		if existed[k] {
			t.Fatalf("k = %v already exists, want k to be unique", k)
		}

		existed[k] = true
	}

	// check the final updated balances
	userRepo := userrepo.NewRepoPGS(db)

	updatedSender, err := userRepo.Get(ctx, sender.ID)
	if err != nil {
		t.Fatalf("userRepo.Get(ctx, %v) returned error: %v", sender.ID, err)
	}

	updatedReceiver, err := userRepo.Get(ctx, receiver.ID)
	if err != nil {
		t.Fatalf("userRepo.Get(ctx, %v) returned error: %v", receiver.ID, err)
	}

	amountTransfered := amountDecimal.Mul(decimal.NewFromInt(int64(n)))

	wantSenderBalance := senderBalanceBefore.Sub(amountTransfered).String()
	if updatedSender.Balance != wantSenderBalance {
		t.Errorf("updatedSender.Balance = %v, want %v", updatedSender.Balance, wantSenderBalance)
	}

	wantReceiverBalance := senderBalanceBefore.Add(amountTransfered).String()
	if updatedReceiver.Balance != wantReceiverBalance {
		t.Errorf("updatedReceiver.Balance = %v, want %v", updatedReceiver.Balance, wantReceiverBalance)
	}

	// Every transfer appends exactly one SENT and one RECEIVED record.
	senderRecords, err := ledgerRepo.ListRecords(ctx, sender.ID)
	if err != nil {
		t.Fatalf("ledgerRepo.ListRecords(ctx, %v) returned error: %v", sender.ID, err)
	}

	if len(senderRecords) != n {
		t.Errorf("len(senderRecords) = %v, want %v", len(senderRecords), n)
	}

	receiverRecords, err := ledgerRepo.ListRecords(ctx, receiver.ID)
	if err != nil {
		t.Fatalf("ledgerRepo.ListRecords(ctx, %v) returned error: %v", receiver.ID, err)
	}

	if len(receiverRecords) != n {
		t.Errorf("len(receiverRecords) = %v, want %v", len(receiverRecords), n)
	}
}

func TestTransferTxDeadlock(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	user1 := helpers.SeedUserWithBalance(t, db, "1000")
	user2 := helpers.SeedUserWithBalance(t, db, "1000")

	ledgerRepo := ledgerrepo.NewRepoPGS(db)

	// run n concurrent transfer transactions crossing the same pair
	n := 30
	amount := "10"

	errs := make(chan error)

	for i := 0; i < n; i++ {
		senderID, receiverEmail := user1.ID, user2.Email
		// Change transfer direction
		if i%2 == 0 {
			senderID, receiverEmail = user2.ID, user1.Email
		}

		go func() {
			_, err := ledgerRepo.Transfer(ctx, senderID, receiverEmail, amount)
			errs <- err
		}()
	}

	for i := 0; i < n; i++ {
		if err := <-errs; err != nil {
			t.Errorf("ledgerRepo.Transfer returned error: %v", err)
		}
	}

	// check the final updated balances
	userRepo := userrepo.NewRepoPGS(db)

	updatedUser1, err := userRepo.Get(ctx, user1.ID)
	if err != nil {
		t.Fatalf("userRepo.Get(ctx, %v) returned error: %v", user1.ID, err)
	}

	updatedUser2, err := userRepo.Get(ctx, user2.ID)
	if err != nil {
		t.Fatalf("userRepo.Get(ctx, %v) returned error: %v", user2.ID, err)
	}

	if user1.Balance != updatedUser1.Balance {
		t.Errorf("user1.Balance = %v, updatedUser1.Balance = %v, want equal",
			user1.Balance, updatedUser1.Balance)
	}

	if user2.Balance != updatedUser2.Balance {
		t.Errorf("user2.Balance = %v, updatedUser2.Balance = %v, want equal",
			user2.Balance, updatedUser2.Balance)
	}
}

func TestTransferInsufficientBalance(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	sender := helpers.SeedUserWithBalance(t, db, "50")
	receiver := helpers.SeedUserWithBalance(t, db, "1000")

	ledgerRepo := ledgerrepo.NewRepoPGS(db)

	_, err := ledgerRepo.Transfer(ctx, sender.ID, receiver.Email, "100")
	if err != domain.ErrInsufficientBalance {
		t.Fatalf("ledgerRepo.Transfer returned error %v, want %v", err, domain.ErrInsufficientBalance)
	}

	// A failed transfer must not mutate balances or the log.
	userRepo := userrepo.NewRepoPGS(db)

	updatedSender, err := userRepo.Get(ctx, sender.ID)
	if err != nil {
		t.Fatalf("userRepo.Get(ctx, %v) returned error: %v", sender.ID, err)
	}

	updatedReceiver, err := userRepo.Get(ctx, receiver.ID)
	if err != nil {
		t.Fatalf("userRepo.Get(ctx, %v) returned error: %v", receiver.ID, err)
	}

	if updatedSender.Balance != sender.Balance {
		t.Errorf("updatedSender.Balance = %v, want %v", updatedSender.Balance, sender.Balance)
	}

	if updatedReceiver.Balance != receiver.Balance {
		t.Errorf("updatedReceiver.Balance = %v, want %v", updatedReceiver.Balance, receiver.Balance)
	}

	records, err := ledgerRepo.ListRecords(ctx, sender.ID)
	if err != nil {
		t.Fatalf("ledgerRepo.ListRecords(ctx, %v) returned error: %v", sender.ID, err)
	}

	if len(records) != 0 {
		t.Errorf("len(records) = %v, want 0", len(records))
	}
}

func TestTransferSelf(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	user := helpers.SeedUserWithBalance(t, db, "1000")

	ledgerRepo := ledgerrepo.NewRepoPGS(db)

	_, err := ledgerRepo.Transfer(ctx, user.ID, user.Email, "100")
	if err != domain.ErrSelfTransfer {
		t.Errorf("ledgerRepo.Transfer returned error %v, want %v", err, domain.ErrSelfTransfer)
	}
}

func TestTransferReceiverNotFound(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	sender := helpers.SeedUserWithBalance(t, db, "1000")

	ledgerRepo := ledgerrepo.NewRepoPGS(db)

	_, err := ledgerRepo.Transfer(ctx, sender.ID, randompkg.Email(), "100")
	if err != domain.ErrReceiverNotFound {
		t.Errorf("ledgerRepo.Transfer returned error %v, want %v", err, domain.ErrReceiverNotFound)
	}
}
