package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	stripewebhook "github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"

	"github.com/pawcare/backend/internal/models"
	"github.com/pawcare/backend/pkg/config"
	"github.com/pawcare/backend/pkg/types"
)

type recordingCache struct{ deleted []string }

func (c *recordingCache) Get(context.Context, string) (*models.User, error) { return nil, nil }
func (c *recordingCache) Set(context.Context, *models.User) error          { return nil }
func (c *recordingCache) Delete(_ context.Context, uid string) error {
	c.deleted = append(c.deleted, uid)
	return nil
}

func newTestService(store Store, cfg *config.Config) (*Service, *recordingCache) {
	c := &recordingCache{}
	if cfg == nil {
		cfg = &config.Config{}
	}
	return NewService(cfg, store, c, nil, zap.NewNop().Sugar()), c
}

func checkoutBody(t *testing.T, eventID, sessionID, firebaseUID string) []byte {
	t.Helper()
	obj := map[string]any{
		"object":           "checkout.session",
		"payment_intent":   "pi_" + eventID,
		"amount_total":     1500,
		"currency":         "jpy",
		"payment_status":   "paid",
		"status":           "complete",
		"customer_details": map[string]any{"email": "owner@example.com"},
		"metadata":         map[string]any{},
	}
	if sessionID != "" {
		obj["id"] = sessionID
	}
	if firebaseUID != "" {
		obj["metadata"] = map[string]any{"firebase_uid": firebaseUID}
	}
	raw, err := json.Marshal(map[string]any{
		"id":   eventID,
		"type": types.EventTypeCheckoutCompleted,
		"data": map[string]any{"object": obj},
	})
	require.NoError(t, err)
	return raw
}

func chargeFailedBody(eventID string) []byte {
	return []byte(`{"id":"` + eventID + `","type":"charge.failed","data":{"object":{"id":"ch_1","payment_intent":"pi_9","amount":990,"currency":"usd","status":"failed","billing_details":{"email":"payer@example.com"},"metadata":{"firebase_uid":"uid-1"}}}}`)
}

func TestIngest_StoresEventOnce(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store, nil)
	ctx := context.Background()

	res, err := svc.Ingest(ctx, chargeFailedBody("evt_1"), "")
	require.NoError(t, err)
	require.False(t, res.Duplicate)

	res, err = svc.Ingest(ctx, chargeFailedBody("evt_1"), "")
	require.NoError(t, err)
	require.True(t, res.Duplicate)
	require.Len(t, store.events, 1)
}

func TestIngest_NonCheckoutEventIsNotReconciled(t *testing.T) {
	store := newMemStore()
	store.addUser("user-1", "uid-1")
	svc, _ := newTestService(store, nil)

	res, err := svc.Ingest(context.Background(), chargeFailedBody("evt_1"), "")
	require.NoError(t, err)
	require.Nil(t, res.Outcome)
	require.Zero(t, store.applied)

	row := store.events["evt_1"]
	require.Equal(t, "charge.failed", row.EventType)
	require.Nil(t, row.ProviderSessionID)
	require.Nil(t, row.FirebaseUID)
	require.Equal(t, "pi_9", lo.FromPtr(row.ProviderPaymentIntentID))
	require.Equal(t, "payer@example.com", lo.FromPtr(row.CustomerEmail))
	require.Equal(t, int64(990), lo.FromPtr(row.Amount))
	require.Equal(t, "failed", lo.FromPtr(row.PaymentStatus))
	require.False(t, row.Processed)
	require.JSONEq(t, string(chargeFailedBody("evt_1")), string(row.Payload))
}

func TestIngest_CheckoutReconcilesImmediately(t *testing.T) {
	store := newMemStore()
	store.addUser("user-1", "uid-1")
	svc, cache := newTestService(store, nil)

	res, err := svc.Ingest(context.Background(), checkoutBody(t, "evt_1", "cs_1", "uid-1"), "")
	require.NoError(t, err)
	require.NotNil(t, res.Outcome)
	require.Equal(t, types.ReconcileOutcomeReconciled, res.Outcome.Kind)
	require.Equal(t, 1, store.applied)

	require.Len(t, store.payments, 1)
	p := store.payments[0]
	require.Equal(t, "user-1", p.UserID)
	require.Equal(t, "uid-1", p.FirebaseUID)
	require.Equal(t, "cs_1", p.ProviderSessionID)
	require.Equal(t, "pi_evt_1", lo.FromPtr(p.ProviderPaymentIntentID))
	require.Equal(t, int64(1500), lo.FromPtr(p.Amount))
	require.Equal(t, "jpy", lo.FromPtr(p.Currency))
	require.Equal(t, "paid", lo.FromPtr(p.Status))
	require.Equal(t, res.Outcome.PaymentID, p.ID)

	require.Equal(t, types.PlanPremium, store.users["uid-1"].CurrentPlan)
	require.True(t, store.events["evt_1"].Processed)
	require.Equal(t, []string{"uid-1"}, cache.deleted)

	// A provider retry of the same event does not reconcile again.
	res, err = svc.Ingest(context.Background(), checkoutBody(t, "evt_1", "cs_1", "uid-1"), "")
	require.NoError(t, err)
	require.True(t, res.Duplicate)
	require.Nil(t, res.Outcome)
	require.Equal(t, 1, store.applied)
}

func TestIngest_ReconcileFailureIsSwallowed(t *testing.T) {
	store := newMemStore()
	store.addUser("user-1", "uid-1")
	store.applyErr = errors.New("payments insert failed")
	svc, _ := newTestService(store, nil)

	res, err := svc.Ingest(context.Background(), checkoutBody(t, "evt_1", "cs_1", "uid-1"), "")
	require.NoError(t, err)
	require.Equal(t, types.ReconcileOutcomeFailed, res.Outcome.Kind)

	row := store.events["evt_1"]
	require.False(t, row.Processed)
	require.Equal(t, "payments insert failed", lo.FromPtr(row.ErrorMessage))
	require.Empty(t, store.payments)
}

func TestIngest_PersistenceFailureSurfaces(t *testing.T) {
	store := newMemStore()
	store.createErr = errors.New("connection refused")
	svc, _ := newTestService(store, nil)

	_, err := svc.Ingest(context.Background(), checkoutBody(t, "evt_1", "cs_1", "uid-1"), "")
	require.ErrorContains(t, err, "connection refused")
	require.Zero(t, store.applied)
}

func TestIngest_MalformedBody(t *testing.T) {
	svc, _ := newTestService(newMemStore(), nil)
	for _, body := range []string{`not json`, `{"type":"charge.failed"}`, `{"id":"evt_1"}`, `[]`} {
		_, err := svc.Ingest(context.Background(), []byte(body), "")
		require.ErrorIs(t, err, ErrMalformedEvent, body)
	}
}

func TestIngest_SignatureVerification(t *testing.T) {
	store := newMemStore()
	cfg := &config.Config{Stripe: config.StripeConfig{WebhookSecret: "whsec_test"}}
	svc, _ := newTestService(store, cfg)
	body := chargeFailedBody("evt_1")

	_, err := svc.Ingest(context.Background(), body, "t=1,v1=deadbeef")
	require.ErrorIs(t, err, ErrInvalidSignature)
	require.Empty(t, store.events)

	signed := stripewebhook.GenerateTestSignedPayload(&stripewebhook.UnsignedPayload{
		Payload:   body,
		Secret:    "whsec_test",
		Timestamp: time.Now(),
	})
	_, err = svc.Ingest(context.Background(), body, signed.Header)
	require.NoError(t, err)
	require.Len(t, store.events, 1)
}

func TestReconcile_SkipsLeaveStateUntouched(t *testing.T) {
	cases := map[string]struct {
		body   func(t *testing.T) []byte
		reason string
	}{
		"missing session id": {
			body:   func(t *testing.T) []byte { return checkoutBody(t, "evt_1", "", "uid-1") },
			reason: skipNoSession,
		},
		"missing firebase uid": {
			body:   func(t *testing.T) []byte { return checkoutBody(t, "evt_1", "cs_1", "") },
			reason: skipNoFirebaseUID,
		},
		"unknown user": {
			body:   func(t *testing.T) []byte { return checkoutBody(t, "evt_1", "cs_1", "uid-ghost") },
			reason: skipUnknownUser,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			store := newMemStore()
			store.addUser("user-1", "uid-1")
			svc, cache := newTestService(store, nil)

			res, err := svc.Ingest(context.Background(), tc.body(t), "")
			require.NoError(t, err)
			require.Equal(t, Skipped(tc.reason), *res.Outcome)

			row := store.events["evt_1"]
			require.False(t, row.Processed)
			require.Nil(t, row.ErrorMessage)
			require.Empty(t, store.payments)
			require.Zero(t, store.applied)
			require.Equal(t, types.PlanFree, store.users["uid-1"].CurrentPlan)
			require.Empty(t, cache.deleted)
		})
	}
}

func TestReconcile_AlreadyProcessedIsSkipped(t *testing.T) {
	store := newMemStore()
	store.addUser("user-1", "uid-1")
	svc, _ := newTestService(store, nil)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, checkoutBody(t, "evt_1", "cs_1", "uid-1"), "")
	require.NoError(t, err)

	row, err := store.GetEvent(ctx, "evt_1")
	require.NoError(t, err)
	out := svc.Reconcile(ctx, row, TriggerBatch)
	require.Equal(t, Skipped(skipAlreadyProcessed), out)

	// A stale copy that still reads processed=false loses at the commit point.
	row.Processed = false
	out = svc.Reconcile(ctx, row, TriggerBatch)
	require.Equal(t, Skipped(skipAlreadyProcessed), out)
	require.Len(t, store.payments, 1)
}

func TestReconcile_SessionAlreadyPaidIsSkippedAndClosed(t *testing.T) {
	store := newMemStore()
	store.addUser("user-1", "uid-1")
	svc, c := newTestService(store, nil)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, checkoutBody(t, "evt_1", "cs_1", "uid-1"), "")
	require.NoError(t, err)
	res, err := svc.Ingest(ctx, checkoutBody(t, "evt_2", "cs_1", "uid-1"), "")
	require.NoError(t, err)

	require.Equal(t, Skipped("session already reconciled"), *res.Outcome)
	require.True(t, store.events["evt_2"].Processed)
	require.Nil(t, store.events["evt_2"].ErrorMessage)
	require.Len(t, store.payments, 1)
	require.Equal(t, []string{"uid-1"}, c.deleted)
}

func TestFailedOutcome_DoesNotSerializeCause(t *testing.T) {
	raw, err := json.Marshal(Failed(errors.New("pq: connection reset by peer")))
	require.NoError(t, err)
	require.JSONEq(t, `{"kind":"failed"}`, string(raw))
}

func TestReconcile_UndecodablePayloadFails(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store, nil)
	row := &models.WebhookEvent{ID: "evt_1", EventType: types.EventTypeCheckoutCompleted, Payload: []byte(`{"data":`), FirebaseUID: lo.ToPtr("uid-1")}
	require.NoError(t, store.CreateEvent(context.Background(), row))

	out := svc.Reconcile(context.Background(), row, TriggerBatch)
	require.Equal(t, types.ReconcileOutcomeFailed, out.Kind)
	require.NotEmpty(t, lo.FromPtr(store.events["evt_1"].ErrorMessage))
}

// seedUnprocessed stores events directly so the sweep sees them unreconciled.
func seedUnprocessed(t *testing.T, store *memStore, id, sessionID, uid string) {
	t.Helper()
	ev, err := ParseEvent(checkoutBody(t, id, sessionID, uid))
	require.NoError(t, err)
	row := &models.WebhookEvent{
		ID:                ev.ID,
		EventType:         ev.Type,
		ProviderSessionID: nonEmpty(ev.Data.Object.ID),
		FirebaseUID:       ev.Data.Object.FirebaseUID(),
		Payload:           checkoutBody(t, id, sessionID, uid),
	}
	require.NoError(t, store.CreateEvent(context.Background(), row))
}

func TestProcessPending_Sweep(t *testing.T) {
	store := newMemStore()
	store.addUser("user-1", "uid-1")
	seedUnprocessed(t, store, "evt_a", "cs_a", "uid-1")
	seedUnprocessed(t, store, "evt_b", "", "uid-1")
	seedUnprocessed(t, store, "evt_c", "cs_c", "uid-ghost")
	require.NoError(t, store.CreateEvent(context.Background(), &models.WebhookEvent{ID: "evt_d", EventType: "charge.failed", Payload: chargeFailedBody("evt_d")}))
	svc, _ := newTestService(store, nil)

	res, err := svc.ProcessPending(context.Background())
	require.NoError(t, err)
	require.Equal(t, &BatchResult{Total: 3, Reconciled: 1, Skipped: 2}, res)
	require.Len(t, store.payments, 1)
	require.Equal(t, "cs_a", store.payments[0].ProviderSessionID)
	require.Equal(t, types.PlanPremium, store.users["uid-1"].CurrentPlan)
	require.True(t, store.events["evt_a"].Processed)
	require.False(t, store.events["evt_b"].Processed)
	require.False(t, store.events["evt_c"].Processed)
	require.False(t, store.events["evt_d"].Processed)

	// Skipped rows stay eligible; reconciled ones drop out.
	res, err = svc.ProcessPending(context.Background())
	require.NoError(t, err)
	require.Equal(t, &BatchResult{Total: 2, Reconciled: 0, Skipped: 2}, res)
}

func TestProcessPending_Empty(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store, nil)

	res, err := svc.ProcessPending(context.Background())
	require.NoError(t, err)
	require.Equal(t, &BatchResult{}, res)
	require.Zero(t, store.applied)
}

func TestProcessPending_FailureAborts(t *testing.T) {
	store := newMemStore()
	store.addUser("user-1", "uid-1")
	seedUnprocessed(t, store, "evt_a", "cs_a", "uid-1")
	seedUnprocessed(t, store, "evt_b", "cs_b", "uid-1")
	store.applyErr = errors.New("deadlock detected")
	svc, _ := newTestService(store, nil)

	res, err := svc.ProcessPending(context.Background())
	require.ErrorContains(t, err, "deadlock detected")
	require.ErrorContains(t, err, "evt_a")
	require.Equal(t, 1, store.applied)
	require.Equal(t, 2, res.Total)
	require.Zero(t, res.Reconciled)
	require.Equal(t, "deadlock detected", lo.FromPtr(store.events["evt_a"].ErrorMessage))
	require.Nil(t, store.events["evt_b"].ErrorMessage)
}

func TestProcessPending_ListFailure(t *testing.T) {
	store := newMemStore()
	store.listErr = errors.New("db down")
	svc, _ := newTestService(store, nil)

	_, err := svc.ProcessPending(context.Background())
	require.ErrorContains(t, err, "db down")
}

func TestScanEvents_RejectsUnknownColumns(t *testing.T) {
	svc, _ := newTestService(newMemStore(), nil)
	ctx := context.Background()

	_, err := svc.ScanEvents(ctx, &ScanEventsRequest{Filters: []*types.CommonFilter{{Field: "payload; drop table users", Operator: types.CommonFilterOperatorEq, Values: []any{1}}}})
	require.ErrorIs(t, err, ErrInvalidFilter)

	_, err = svc.ScanEvents(ctx, &ScanEventsRequest{SortBy: "nope"})
	require.ErrorIs(t, err, ErrInvalidFilter)

	_, err = svc.ScanEvents(ctx, &ScanEventsRequest{Filters: []*types.CommonFilter{{Field: "amount", Operator: types.CommonFilterOperatorRange, Values: []any{1000}}}})
	require.ErrorIs(t, err, ErrInvalidFilter)

	_, err = svc.ScanEvents(ctx, &ScanEventsRequest{Filters: []*types.CommonFilter{nil, {Field: "processed", Operator: types.CommonFilterOperatorEq, Values: []any{false}}}})
	require.NoError(t, err)
}
