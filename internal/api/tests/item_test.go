package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lucasprado/library-server/internal/api/testutils"
	"github.com/lucasprado/library-server/internal/models"
)

func TestAddItem(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Book with a valid ISBN
	bookReq := models.AddItemRequest{
		Kind:            "book",
		Title:           "Pena Capital",
		Author:          "A. Klavan",
		PublicationYear: 1995,
		ISBN:            "978-0-13-468599-1",
	}
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/items", bookReq)
	assert.Equal(t, http.StatusCreated, w.Code)

	var response models.ItemResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "978-0-13-468599-1", response.ID)
	assert.Equal(t, 15, response.LoanPeriodDays)
	assert.True(t, response.Available)
	assert.Empty(t, response.Warnings)

	// Test case 2: Duplicate identifier is rejected
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/items", bookReq)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Test case 3: Magazine carries its edition number; a DVD derives a
	// composite identifier
	magReq := models.AddItemRequest{
		Kind:            "magazine",
		Title:           "Revista Tecnologia",
		Author:          "Editor A",
		PublicationYear: 2024,
		ISSN:            "1234-5678",
		EditionNumber:   101,
	}
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/items", magReq)
	assert.Equal(t, http.StatusCreated, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "1234-5678", response.ID)
	assert.Equal(t, 101, response.EditionNumber)
	assert.Equal(t, 7, response.LoanPeriodDays)

	dvdReq := models.AddItemRequest{
		Kind:            "dvd",
		Title:           "Documentando Codigo",
		Author:          "D. V",
		PublicationYear: 2023,
	}
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/items", dvdReq)
	assert.Equal(t, http.StatusCreated, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Documentando Codigo-D. V-2023", response.ID)

	// Test case 4: Malformed ISBN is accepted with a warning
	warnReq := models.AddItemRequest{
		Kind:            "book",
		Title:           "Formato Errado",
		Author:          "Autor B",
		PublicationYear: 2020,
		ISBN:            "123-nope",
	}
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/items", warnReq)
	assert.Equal(t, http.StatusCreated, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.NotEmpty(t, response.Warnings)

	// Test case 5: Book without an ISBN is a hard rejection
	badReq := models.AddItemRequest{
		Kind:            "book",
		Title:           "Sem ISBN",
		Author:          "Autor C",
		PublicationYear: 2020,
	}
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/items", badReq)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListItems(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	testutils.AddTestBook(t, testCtx, "Livro Um", "978-85-7836-070-8")
	testutils.AddTestBook(t, testCtx, "Livro Dois", "978-0-201-63361-0")

	magReq := models.AddItemRequest{
		Kind:            "magazine",
		Title:           "Revista",
		Author:          "Editor",
		PublicationYear: 2024,
		ISSN:            "1234-5678",
		EditionNumber:   1,
	}
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/items", magReq)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Test case 1: No filter returns everything in registration order
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/items", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response models.ItemListResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Items, 3)
	assert.Equal(t, "Livro Um", response.Items[0].Title)

	// Test case 2: Category filter
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/items?category=magazine", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Items, 1)
	assert.Equal(t, "Revista", response.Items[0].Title)

	// Test case 3: Unrecognised tag returns all items
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/items?category=vinyl", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Items, 3)
}

func TestUpdateItem(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	testutils.AddTestBook(t, testCtx, "Titulo Antigo", "978-85-7836-070-8")

	// Test case 1: Replacement with the same ISBN succeeds
	updateReq := models.AddItemRequest{
		Kind:            "book",
		Title:           "Titulo Corrigido",
		Author:          "Autor Corrigido",
		PublicationYear: 2021,
		ISBN:            "978-85-7836-070-8",
	}
	w := testutils.PerformRequest(testCtx.Router, http.MethodPut, "/api/items/978-85-7836-070-8", updateReq)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/items/978-85-7836-070-8", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response models.ItemResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Titulo Corrigido", response.Title)

	// Test case 2: Replacement deriving a different identifier is rejected
	updateReq.ISBN = "978-0-201-63361-0"
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut, "/api/items/978-85-7836-070-8", updateReq)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var errResp models.ErrorResponse
	err = json.Unmarshal(w.Body.Bytes(), &errResp)
	assert.NoError(t, err)
	assert.Equal(t, "IDENTIFIER_MISMATCH", errResp.Code)

	// Test case 3: Unknown identifier
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut, "/api/items/missing", updateReq)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Test case 4: An item out on loan cannot be replaced
	testutils.RegisterTestPatron(t, testCtx, "Maria Souza", "11122233344", "student")
	testutils.BorrowTestItem(t, testCtx, "11122233344", "978-85-7836-070-8")

	updateReq.ISBN = "978-85-7836-070-8"
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut, "/api/items/978-85-7836-070-8", updateReq)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &errResp)
	assert.NoError(t, err)
	assert.Equal(t, "ITEM_UNAVAILABLE", errResp.Code)
}
