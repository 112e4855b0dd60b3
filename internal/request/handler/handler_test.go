package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicledger/internal/document"
	"civicledger/internal/identity"
	"civicledger/internal/issuer"
	issuerstore "civicledger/internal/issuer/store"
	"civicledger/internal/platform/middleware"
	"civicledger/internal/request/handler"
	"civicledger/internal/request/service"
	requeststore "civicledger/internal/request/store"
	dErrors "civicledger/pkg/domainerrors"
	"civicledger/pkg/testutil"
)

const (
	ownerToken = "owner-token"
	ownerEmail = "asha@example.com"
)

// stubValidator accepts exactly one bearer token.
type stubValidator struct {
	address string
}

func (v stubValidator) ValidateToken(token string) (*middleware.JWTClaims, error) {
	if token != ownerToken {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return &middleware.JWTClaims{Address: v.address, Email: ownerEmail}, nil
}

type fixture struct {
	router *chi.Mux
	svc    *service.Service
	issuer identity.KeyPair
	owner  identity.KeyPair
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	issuerPair, err := identity.Generate()
	require.NoError(t, err)
	ownerPair, err := identity.Generate()
	require.NoError(t, err)

	issuers := issuerstore.NewMemoryStore()
	require.NoError(t, issuers.Add(context.Background(), issuer.Info{
		Address:       issuerPair.Address,
		PubKeyHash:    identity.PubKeyHash(issuerPair.Address),
		Name:          "Passport Office",
		DocumentTypes: []string{"Passport"},
	}))

	logger := slog.New(slog.DiscardHandler)
	svc := service.New(requeststore.NewMemoryStore(), issuers, nil, logger, nil)

	router := chi.NewRouter()
	handler.New(svc, logger, stubValidator{address: ownerPair.Address}).Register(router)

	return &fixture{router: router, svc: svc, issuer: issuerPair, owner: ownerPair}
}

func (f *fixture) createRequest(t *testing.T) string {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/requests", map[string]any{
		"issuerKey":    identity.PubKeyHash(f.issuer.Address),
		"documentType": "Passport",
		"fields":       map[string]string{"dob": "1990-01-15", "expiry": "2030-06-01", "name": "Asha Rao"},
	})
	req.Header.Set("Authorization", "Bearer "+ownerToken)

	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	resp := testutil.UnmarshalResponse[map[string]string](t, rr)
	id := (*resp)["requestId"]
	require.NotEmpty(t, id)
	return id
}

func TestCreate_RequiresToken(t *testing.T) {
	f := newFixture(t)
	req := testutil.NewJSONRequest(t, http.MethodPost, "/requests", map[string]any{
		"issuerKey":    identity.PubKeyHash(f.issuer.Address),
		"documentType": "Passport",
	})

	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
}

func TestCreate_UnknownIssuer(t *testing.T) {
	f := newFixture(t)
	req := testutil.NewJSONRequest(t, http.MethodPost, "/requests", map[string]any{
		"issuerKey":    "0xdeadbeef",
		"documentType": "Passport",
	})
	req.Header.Set("Authorization", "Bearer "+ownerToken)

	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
}

func TestStatus_PendingHidesContentAndFields(t *testing.T) {
	f := newFixture(t)
	id := f.createRequest(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/requests/"+id))
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertJSONContains(t, rr, "status", "pending")

	resp := testutil.UnmarshalResponse[map[string]any](t, rr)
	assert.NotContains(t, *resp, "content")
	assert.NotContains(t, *resp, "fields")
}

func TestStatus_UnknownRequest(t *testing.T) {
	f := newFixture(t)
	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/requests/no-such-id"))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestApprove_RevealsContentInStatus(t *testing.T) {
	f := newFixture(t)
	id := f.createRequest(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/requests/"+id+"/approve", map[string]any{
		"issuerAddress": f.issuer.Address,
		"signature":     identity.SignAction(f.issuer, identity.ActionApprove, id),
		"content":       document.NewJSONPayload(`{"passportNo":"P1234567"}`),
	})
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/requests/"+id))
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertJSONContains(t, rr, "status", "approved")

	resp := testutil.UnmarshalResponse[map[string]any](t, rr)
	require.Contains(t, *resp, "content")
	require.Contains(t, *resp, "fields")
}

func TestApprove_MissingSignature(t *testing.T) {
	f := newFixture(t)
	id := f.createRequest(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/requests/"+id+"/approve", map[string]any{
		"issuerAddress": f.issuer.Address,
		"content":       document.NewJSONPayload(`{}`),
	})
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
}

func TestApprove_ForgedSignature(t *testing.T) {
	f := newFixture(t)
	id := f.createRequest(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/requests/"+id+"/approve", map[string]any{
		"issuerAddress": f.issuer.Address,
		"signature":     identity.SignAction(f.owner, identity.ActionApprove, id),
		"content":       document.NewJSONPayload(`{}`),
	})
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
}

func TestReject_ThenApproveConflicts(t *testing.T) {
	f := newFixture(t)
	id := f.createRequest(t)

	reject := testutil.NewJSONRequest(t, http.MethodPost, "/requests/"+id+"/reject", map[string]any{
		"issuerAddress": f.issuer.Address,
		"signature":     identity.SignAction(f.issuer, identity.ActionReject, id),
	})
	rr := testutil.DoRequest(f.router, reject)
	testutil.AssertStatus(t, rr, http.StatusOK)

	approve := testutil.NewJSONRequest(t, http.MethodPost, "/requests/"+id+"/approve", map[string]any{
		"issuerAddress": f.issuer.Address,
		"signature":     identity.SignAction(f.issuer, identity.ActionApprove, id),
		"content":       document.NewJSONPayload(`{}`),
	})
	rr = testutil.DoRequest(f.router, approve)
	testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
}

func TestListPending_FiltersByIssuerKey(t *testing.T) {
	f := newFixture(t)
	id := f.createRequest(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet,
		"/requests/pending?issuerKey="+identity.PubKeyHash(f.issuer.Address)))
	testutil.AssertStatus(t, rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[struct {
		Requests []map[string]any `json:"requests"`
	}](t, rr)
	require.Len(t, resp.Requests, 1)
	assert.Equal(t, id, resp.Requests[0]["id"])

	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet,
		"/requests/pending?issuerKey=0xother"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	resp = testutil.UnmarshalResponse[struct {
		Requests []map[string]any `json:"requests"`
	}](t, rr)
	assert.Empty(t, resp.Requests)
}

func TestListApproved_RequiresToken(t *testing.T) {
	f := newFixture(t)
	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/requests/approved"))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
}
