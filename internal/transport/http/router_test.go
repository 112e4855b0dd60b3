package httptransport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicledger/internal/document"
	dochandler "civicledger/internal/document/handler"
	docstore "civicledger/internal/document/store"
	"civicledger/internal/identity"
	issuerhandler "civicledger/internal/issuer/handler"
	issuerservice "civicledger/internal/issuer/service"
	issuerstore "civicledger/internal/issuer/store"
	"civicledger/internal/jwttoken"
	"civicledger/internal/ledger"
	"civicledger/internal/otp"
	otphandler "civicledger/internal/otp/handler"
	otpstore "civicledger/internal/otp/store"
	"civicledger/internal/platform/logger"
	requesthandler "civicledger/internal/request/handler"
	requestservice "civicledger/internal/request/service"
	requeststore "civicledger/internal/request/store"
	sharehandler "civicledger/internal/share/handler"
	shareservice "civicledger/internal/share/service"
	sharestore "civicledger/internal/share/store"
	httptransport "civicledger/internal/transport/http"
	"civicledger/internal/userregistry"
	userstore "civicledger/internal/userregistry/store"
	"civicledger/internal/verify"
	verifyhandler "civicledger/internal/verify/handler"
	"civicledger/pkg/testutil"
)

type codeSink struct {
	code string
}

func (c *codeSink) Send(_ context.Context, _, code string) error {
	c.code = code
	return nil
}

type app struct {
	router http.Handler
	codes  *codeSink
}

// newApp wires the whole service with in-memory stores, mirroring main.
func newApp(t *testing.T) *app {
	t.Helper()
	log := logger.New()
	chain := ledger.NewMemoryLedger()

	jwtService := jwttoken.NewJWTService("test-signing-key", "civicledger", "civicledger")
	jwtValidator := jwttoken.NewJWTServiceAdapter(jwtService)

	issuerStore := issuerstore.NewMemoryStore()
	users := userregistry.NewService(userstore.NewMemoryStore(), userregistry.NewKeyBox("test-secret"), chain, log)
	issuers := issuerservice.New(issuerStore, chain)
	requests := requestservice.New(requeststore.NewMemoryStore(), issuerStore, nil, log, nil)
	records := docstore.NewMemoryRecordStore()
	shares := shareservice.New(sharestore.NewMemoryStore(), records, nil, log, nil)
	verifier := verify.New(shares, chain, nil, log, nil)
	pipeline := document.NewPipeline(records, chain, log, nil)

	codes := &codeSink{}
	otpService := otp.NewService(otpstore.NewMemoryStore(), codes, users, jwtService, nil, log)

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger: log,
		Handlers: []httptransport.ModuleHandler{
			requesthandler.New(requests, log, jwtValidator),
			sharehandler.New(shares, log, jwtValidator),
			verifyhandler.New(verifier, log),
			dochandler.New(pipeline, users, log, jwtValidator),
			issuerhandler.New(issuers, log),
			otphandler.New(otpService, log),
		},
	})
	return &app{router: router, codes: codes}
}

func (a *app) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return testutil.DoRequest(a.router, req)
}

// login runs the OTP flow and returns a bearer token plus the address it
// is bound to.
func (a *app) login(t *testing.T, email string) (string, string) {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/otp/send", "", map[string]string{"email": email})
	testutil.AssertStatus(t, rr, http.StatusAccepted)

	rr = a.do(t, http.MethodPost, "/otp/verify", "", map[string]string{"email": email, "code": a.codes.code})
	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[map[string]string](t, rr)
	return (*resp)["token"], (*resp)["address"]
}

// The full journey: login, register an issuer, request a passport, approve
// it with a signed issuer action, process the document, share it, and
// verify the share as a third party.
func TestPassportJourney(t *testing.T) {
	a := newApp(t)

	token, _ := a.login(t, "asha@example.com")

	issuerPair, err := identity.Generate()
	require.NoError(t, err)
	rr := a.do(t, http.MethodPost, "/issuers/register", "", map[string]any{
		"address":       issuerPair.Address,
		"name":          "Passport Office",
		"documentTypes": []string{"Passport"},
	})
	testutil.AssertStatus(t, rr, http.StatusCreated)
	issuerKey := identity.PubKeyHash(issuerPair.Address)

	fields := map[string]string{
		"Date of Birth":  "1990-01-15",
		"Date of Expiry": "2030-06-01",
		"Full Name":      "Asha Rao",
	}
	rr = a.do(t, http.MethodPost, "/requests", token, map[string]any{
		"issuerKey":    issuerKey,
		"documentType": "Passport",
		"fields":       fields,
	})
	testutil.AssertStatus(t, rr, http.StatusCreated)
	requestID := (*testutil.UnmarshalResponse[map[string]string](t, rr))["requestId"]
	require.NotEmpty(t, requestID)

	// issuer inbox sees the pending request
	rr = a.do(t, http.MethodGet, "/requests/pending?issuerKey="+issuerKey, "", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	inbox := testutil.UnmarshalResponse[struct {
		Requests []map[string]any `json:"requests"`
	}](t, rr)
	require.Len(t, inbox.Requests, 1)

	rr = a.do(t, http.MethodPost, "/requests/"+requestID+"/approve", "", map[string]any{
		"issuerAddress": issuerPair.Address,
		"signature":     identity.SignAction(issuerPair, identity.ActionApprove, requestID),
		"content":       document.NewJSONPayload(`{"passportNo":"P1234567"}`),
	})
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = a.do(t, http.MethodGet, "/requests/"+requestID, "", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertJSONContains(t, rr, "status", "approved")

	rr = a.do(t, http.MethodPost, "/documents/process", token, map[string]any{
		"requestId":     requestID,
		"documentType":  "Passport",
		"issuerKeyHash": issuerKey,
		"fields":        fields,
		"content":       document.NewJSONPayload(`{"passportNo":"P1234567"}`),
	})
	testutil.AssertStatus(t, rr, http.StatusOK)

	// no metadata in the body: the session picks it up from the record
	// the pipeline just stored
	rr = a.do(t, http.MethodPost, "/shares", token, map[string]any{
		"docTypes": []string{"Passport"},
	})
	testutil.AssertStatus(t, rr, http.StatusCreated)
	shareResp := testutil.UnmarshalResponse[struct {
		ShortID   string `json:"shortId"`
		ExpiresIn int    `json:"expiresIn"`
	}](t, rr)
	require.Len(t, shareResp.ShortID, 8)
	assert.Equal(t, 600, shareResp.ExpiresIn)

	// third-party verification needs no token
	rr = a.do(t, http.MethodGet, "/verify/"+shareResp.ShortID+"?docTypes=Passport&notExpired=true", "", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	result := testutil.UnmarshalResponse[verify.Result](t, rr)
	assert.True(t, result.Valid)
	require.Len(t, result.Results, 1)
	assert.True(t, result.Results[0].OnChain)
	require.NotNil(t, result.Results[0].ExpiryCheck)
	require.NotNil(t, result.Results[0].ExpiryCheck.Passed)
	assert.True(t, *result.Results[0].ExpiryCheck.Passed)
}

func TestVerify_UnknownShortIDIs404(t *testing.T) {
	a := newApp(t)
	rr := a.do(t, http.MethodGet, "/verify/nope1234", "", nil)
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	a := newApp(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/requests"},
		{http.MethodGet, "/requests/approved"},
		{http.MethodPost, "/shares"},
		{http.MethodPost, "/documents/process"},
	} {
		rr := a.do(t, tc.method, tc.path, "", map[string]any{})
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	}
}

func TestHealthz(t *testing.T) {
	a := newApp(t)
	rr := a.do(t, http.MethodGet, "/healthz", "", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertJSONContains(t, rr, "status", "ok")
}
