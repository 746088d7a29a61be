package testutils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/lucasprado/library-server/internal/api"
	"github.com/lucasprado/library-server/internal/ledger"
	"github.com/lucasprado/library-server/internal/models"
	"github.com/lucasprado/library-server/internal/registry"
	"github.com/lucasprado/library-server/internal/utils"
)

// TestContext holds all dependencies for tests
type TestContext struct {
	Router   *gin.Engine
	Ledger   ledger.Service
	Registry *registry.Registry

	// Today is the date the ledger clock resolves to. Tests move it
	// forward with AdvanceDays.
	Today time.Time
}

// SetupTestContext creates a new test context with an empty in-memory
// ledger and a pinned clock.
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	testCtx := &TestContext{
		Registry: registry.New(),
		Today:    time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
	}
	testCtx.Ledger = ledger.NewLendingLedger(
		testCtx.Registry,
		ledger.WithClock(func() time.Time { return testCtx.Today }),
	)

	handler := api.NewHandler(testCtx.Ledger, utils.NewLogger(), 10)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.SetupRoutes(router)
	testCtx.Router = router

	return testCtx
}

// AdvanceDays moves the pinned clock forward.
func (tc *TestContext) AdvanceDays(days int) {
	tc.Today = tc.Today.AddDate(0, 0, days)
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// RegisterTestPatron registers a patron through the API and asserts success.
func RegisterTestPatron(t *testing.T, tc *TestContext, name, cpf, category string) {
	t.Helper()

	w := PerformRequest(tc.Router, http.MethodPost, "/api/patrons", models.RegisterPatronRequest{
		Name:     name,
		CPF:      cpf,
		Email:    cpf + "@example.com",
		Category: category,
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

// AddTestBook registers a book through the API and asserts success.
func AddTestBook(t *testing.T, tc *TestContext, title, isbn string) {
	t.Helper()

	w := PerformRequest(tc.Router, http.MethodPost, "/api/items", models.AddItemRequest{
		Kind:            "book",
		Title:           title,
		Author:          "Test Author",
		PublicationYear: 2020,
		ISBN:            isbn,
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

// BorrowTestItem performs a borrow through the API and returns the loan ID.
func BorrowTestItem(t *testing.T, tc *TestContext, cpf, itemID string) string {
	t.Helper()

	w := PerformRequest(tc.Router, http.MethodPost, "/api/loans", models.BorrowRequest{
		PatronCPF: cpf,
		ItemID:    itemID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.LoanResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.NotEmpty(t, resp.LoanID)
	return resp.LoanID
}
