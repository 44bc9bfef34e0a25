package api

import (
	"net/http"
	"testing"

	"github.com/example/preorder/pkg/models"
)

func TestCreateAndListCategories(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/categories", map[string]interface{}{"name": "Drinks"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var created models.Category
	decodeJSON(t, w, &created)
	if created.ID == 0 || created.Name != "Drinks" {
		t.Fatalf("unexpected category: %+v", created)
	}

	doRequest(t, srv, http.MethodPost, "/categories", map[string]interface{}{"name": "Food"})

	w = doRequest(t, srv, http.MethodGet, "/categories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var categories []models.Category
	decodeJSON(t, w, &categories)
	if len(categories) != 2 || categories[0].Name != "Drinks" || categories[1].Name != "Food" {
		t.Fatalf("unexpected list: %+v", categories)
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	for name, body := range map[string]map[string]interface{}{
		"empty name":   {"name": ""},
		"missing name": {},
	} {
		w := doRequest(t, srv, http.MethodPost, "/categories", body)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: status = %d", name, w.Code)
		}
	}
}

func TestMenuItemCRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	item := createTestItem(t, srv, "Latte", 4.5)

	w := doRequest(t, srv, http.MethodGet, "/menu-items/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status = %d", w.Code)
	}
	var got models.MenuItem
	decodeJSON(t, w, &got)
	if got.ID != item.ID || got.Price != 4.5 {
		t.Fatalf("unexpected item: %+v", got)
	}

	w = doRequest(t, srv, http.MethodGet, "/menu-items", nil)
	var items []models.MenuItem
	decodeJSON(t, w, &items)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	w = doRequest(t, srv, http.MethodDelete, "/menu-items/1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", w.Code)
	}
	w = doRequest(t, srv, http.MethodGet, "/menu-items/1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status = %d", w.Code)
	}
	w = doRequest(t, srv, http.MethodDelete, "/menu-items/1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: status = %d", w.Code)
	}
}

func TestMenuItemPartialUpdate(t *testing.T) {
	srv, _ := newTestServer(t)
	createTestItem(t, srv, "Latte", 4.5)

	// Only the price is supplied; name must stay untouched.
	w := doRequest(t, srv, http.MethodPatch, "/menu-items/1", map[string]interface{}{"price": 5.0})
	if w.Code != http.StatusOK {
		t.Fatalf("patch: status = %d body %s", w.Code, w.Body.String())
	}
	var updated models.MenuItem
	decodeJSON(t, w, &updated)
	if updated.Name != "Latte" || updated.Price != 5.0 {
		t.Fatalf("unexpected item after patch: %+v", updated)
	}

	// Empty body changes nothing.
	w = doRequest(t, srv, http.MethodPatch, "/menu-items/1", map[string]interface{}{})
	if w.Code != http.StatusOK {
		t.Fatalf("empty patch: status = %d", w.Code)
	}
	decodeJSON(t, w, &updated)
	if updated.Name != "Latte" || updated.Price != 5.0 {
		t.Fatalf("empty patch mutated item: %+v", updated)
	}
}

func TestMenuItemValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/menu-items", map[string]interface{}{"name": "Free", "price": 0})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("zero price: status = %d", w.Code)
	}
	w = doRequest(t, srv, http.MethodPost, "/menu-items", map[string]interface{}{"name": "Broke", "price": -1})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative price: status = %d", w.Code)
	}

	createTestItem(t, srv, "Latte", 4.5)
	w = doRequest(t, srv, http.MethodPatch, "/menu-items/1", map[string]interface{}{"price": -2})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("patch negative price: status = %d", w.Code)
	}
}

func TestMenuItemNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/menu-items/42", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get: status = %d", w.Code)
	}
	w = doRequest(t, srv, http.MethodPatch, "/menu-items/42", map[string]interface{}{"price": 1.0})
	if w.Code != http.StatusNotFound {
		t.Fatalf("patch: status = %d", w.Code)
	}
	w = doRequest(t, srv, http.MethodDelete, "/menu-items/42", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("delete: status = %d", w.Code)
	}
}
