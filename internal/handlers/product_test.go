package handlers

import (
	"net/http"
	"os"
	"strings"
	"testing"

	"gomarket/internal/models"
	"gomarket/internal/service"
)

func TestProductRoutes_RequireLogin(t *testing.T) {
	products := &mockProducts{}
	svc, _ := authedService(products, nil)
	r := newTestRouter(t, svc, testConfig(t))

	paths := []string{
		"/dashboard",
		"/activity",
		"/add_product",
		"/edit_product/1",
		"/delete_product/1",
	}
	for _, path := range paths {
		w := doGet(r, path, nil)
		if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
			t.Errorf("GET %s: got %d -> %q, want 303 -> /login", path, w.Code, w.Header().Get("Location"))
		}
	}

	w := doPostMultipart(t, r, "/add_product", map[string]string{
		"name": "Lamp", "price": "19.99",
	}, "", nil, nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Errorf("POST /add_product: got %d -> %q, want 303 -> /login", w.Code, w.Header().Get("Location"))
	}
	if len(products.createCalls) != 0 || len(products.updateCalls) != 0 || len(products.deleteCalls) != 0 {
		t.Error("service was called without a session")
	}
}

func TestAddProductSubmit(t *testing.T) {
	products := &mockProducts{createID: 7}
	svc, _ := authedService(products, nil)
	r := newTestRouter(t, svc, testConfig(t))
	cookies := login(t, r)

	w := doPostMultipart(t, r, "/add_product", map[string]string{
		"name":        "Lamp",
		"price":       "19.99",
		"description": "Warm light",
	}, "", nil, cookies)

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("got %d -> %q, want 303 -> /dashboard", w.Code, w.Header().Get("Location"))
	}
	if len(products.createCalls) != 1 {
		t.Fatalf("Create called %d times, want 1", len(products.createCalls))
	}
	got := products.createCalls[0]
	if got.OwnerID != testUser.ID || got.Name != "Lamp" || got.PriceCents != 1999 || got.Description != "Warm light" {
		t.Errorf("unexpected params: %+v", got)
	}
	if got.ImageRef != "" {
		t.Errorf("got image ref %q without an upload", got.ImageRef)
	}
}

func TestAddProductSubmit_ValidationErrors(t *testing.T) {
	products := &mockProducts{}
	svc, _ := authedService(products, nil)
	r := newTestRouter(t, svc, testConfig(t))
	cookies := login(t, r)

	w := doPostMultipart(t, r, "/add_product", map[string]string{
		"name":  "",
		"price": "19.999",
	}, "", nil, cookies)

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
	body := bodyString(t, w)
	if !strings.Contains(body, "This field is required") {
		t.Error("body is missing the name error")
	}
	if !strings.Contains(body, "two decimal places") {
		t.Error("body is missing the price error")
	}
	if len(products.createCalls) != 0 {
		t.Error("Create was called despite validation errors")
	}
}

func TestAddProductSubmit_HugePriceIsAFieldError(t *testing.T) {
	products := &mockProducts{}
	svc, _ := authedService(products, nil)
	r := newTestRouter(t, svc, testConfig(t))
	cookies := login(t, r)

	// a price this large cannot be represented as int64 cents; it must
	// re-render as a field error, never reach the service
	w := doPostMultipart(t, r, "/add_product", map[string]string{
		"name":  "Lamp",
		"price": "92233720368547758080.99",
	}, "", nil, cookies)

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
	if !strings.Contains(bodyString(t, w), "two decimal places") {
		t.Error("body is missing the price error")
	}
	if len(products.createCalls) != 0 {
		t.Error("Create was called with an overflowing price")
	}
}

func TestAddProductSubmit_StoresAllowedImage(t *testing.T) {
	products := &mockProducts{createID: 7}
	svc, _ := authedService(products, nil)
	cfg := testConfig(t)
	r := newTestRouter(t, svc, cfg)
	cookies := login(t, r)

	w := doPostMultipart(t, r, "/add_product", map[string]string{
		"name": "Lamp", "price": "19.99",
	}, "lamp.png", []byte("not-really-a-png"), cookies)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusSeeOther)
	}
	ref := products.createCalls[0].ImageRef
	if !strings.HasSuffix(ref, "_lamp.png") {
		t.Fatalf("got image ref %q, want suffix _lamp.png", ref)
	}
	if _, err := os.Stat(cfg.Upload.Dir + "/" + ref); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
}

func TestAddProductSubmit_DropsDisallowedImage(t *testing.T) {
	products := &mockProducts{createID: 7}
	svc, _ := authedService(products, nil)
	cfg := testConfig(t)
	r := newTestRouter(t, svc, cfg)
	cookies := login(t, r)

	w := doPostMultipart(t, r, "/add_product", map[string]string{
		"name": "Lamp", "price": "19.99",
	}, "payload.exe", []byte("MZ"), cookies)

	// the listing still goes through, just without an image
	if w.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusSeeOther)
	}
	if ref := products.createCalls[0].ImageRef; ref != "" {
		t.Errorf("got image ref %q, want empty for a rejected type", ref)
	}

	entries, err := os.ReadDir(cfg.Upload.Dir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("upload dir has %d entries, want 0", len(entries))
	}
}

func TestEditProductForm(t *testing.T) {
	owned := &models.Product{ID: 5, OwnerID: testUser.ID, Name: "Lamp", PriceCents: 1999}

	tests := []struct {
		name         string
		path         string
		product      *models.Product
		getErr       error
		wantStatus   int
		wantLocation string
		wantBody     string
	}{
		{
			name:       "own product prefills the form",
			path:       "/edit_product/5",
			product:    owned,
			wantStatus: http.StatusOK,
			wantBody:   `value="19.99"`,
		},
		{
			name:         "someone else's product bounces home",
			path:         "/edit_product/5",
			product:      &models.Product{ID: 5, OwnerID: 99, Name: "Lamp"},
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/",
		},
		{
			name:       "unknown id is a 404",
			path:       "/edit_product/5",
			getErr:     service.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed id is a 404",
			path:       "/edit_product/abc",
			product:    owned,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := &mockProducts{getResult: tt.product, getErr: tt.getErr}
			svc, _ := authedService(products, nil)
			r := newTestRouter(t, svc, testConfig(t))
			cookies := login(t, r)

			w := doGet(r, tt.path, cookies)

			if w.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" && w.Header().Get("Location") != tt.wantLocation {
				t.Errorf("got location %q, want %q", w.Header().Get("Location"), tt.wantLocation)
			}
			if tt.wantBody != "" && !strings.Contains(bodyString(t, w), tt.wantBody) {
				t.Errorf("body is missing %q", tt.wantBody)
			}
		})
	}
}

func TestEditProductSubmit(t *testing.T) {
	t.Run("owner updates the listing", func(t *testing.T) {
		products := &mockProducts{}
		svc, _ := authedService(products, nil)
		r := newTestRouter(t, svc, testConfig(t))
		cookies := login(t, r)

		w := doPostMultipart(t, r, "/edit_product/5", map[string]string{
			"name": "Lamp v2", "price": "25.00",
		}, "", nil, cookies)

		if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/dashboard" {
			t.Fatalf("got %d -> %q, want 303 -> /dashboard", w.Code, w.Header().Get("Location"))
		}
		if len(products.updateCalls) != 1 {
			t.Fatalf("Update called %d times, want 1", len(products.updateCalls))
		}
		got := products.updateCalls[0]
		if got.Name != "Lamp v2" || got.PriceCents != 2500 {
			t.Errorf("unexpected params: %+v", got)
		}
	})

	t.Run("stranger's update bounces home without mutating", func(t *testing.T) {
		products := &mockProducts{updateErr: service.ErrForbidden}
		svc, _ := authedService(products, nil)
		r := newTestRouter(t, svc, testConfig(t))
		cookies := login(t, r)

		w := doPostMultipart(t, r, "/edit_product/5", map[string]string{
			"name": "Hijacked", "price": "1.00",
		}, "", nil, cookies)

		if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
			t.Errorf("got %d -> %q, want 303 -> /", w.Code, w.Header().Get("Location"))
		}
		if len(products.updateCalls) != 0 {
			t.Error("listing was mutated")
		}
	})

	t.Run("vanished listing is a 404", func(t *testing.T) {
		products := &mockProducts{updateErr: service.ErrNotFound}
		svc, _ := authedService(products, nil)
		r := newTestRouter(t, svc, testConfig(t))
		cookies := login(t, r)

		w := doPostMultipart(t, r, "/edit_product/5", map[string]string{
			"name": "Lamp", "price": "19.99",
		}, "", nil, cookies)

		if w.Code != http.StatusNotFound {
			t.Errorf("got status %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

func TestDeleteProduct(t *testing.T) {
	t.Run("owner deletes the listing", func(t *testing.T) {
		products := &mockProducts{}
		svc, _ := authedService(products, nil)
		r := newTestRouter(t, svc, testConfig(t))
		cookies := login(t, r)

		w := doGet(r, "/delete_product/5", cookies)

		if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/dashboard" {
			t.Fatalf("got %d -> %q, want 303 -> /dashboard", w.Code, w.Header().Get("Location"))
		}
		if len(products.deleteCalls) != 1 || products.deleteCalls[0] != 5 {
			t.Errorf("Delete calls = %v, want [5]", products.deleteCalls)
		}
	})

	t.Run("stranger's delete bounces home without mutating", func(t *testing.T) {
		products := &mockProducts{deleteErr: service.ErrForbidden}
		svc, _ := authedService(products, nil)
		r := newTestRouter(t, svc, testConfig(t))
		cookies := login(t, r)

		w := doGet(r, "/delete_product/5", cookies)

		if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
			t.Errorf("got %d -> %q, want 303 -> /", w.Code, w.Header().Get("Location"))
		}
		if len(products.deleteCalls) != 0 {
			t.Error("listing was deleted")
		}
	})
}

func TestHome(t *testing.T) {
	products := &mockProducts{all: []models.Product{
		{ID: 1, OwnerID: 2, Name: "Kettle", PriceCents: 4550},
	}}
	svc, _ := authedService(products, nil)
	r := newTestRouter(t, svc, testConfig(t))

	t.Run("logged out sees the landing page", func(t *testing.T) {
		w := doGet(r, "/", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
		}
		if !strings.Contains(bodyString(t, w), "Welcome to GoMarket") {
			t.Error("body is missing the landing copy")
		}
	})

	t.Run("logged in sees every listing", func(t *testing.T) {
		cookies := login(t, r)
		w := doGet(r, "/", cookies)
		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
		}
		body := bodyString(t, w)
		if !strings.Contains(body, "Kettle") || !strings.Contains(body, "45.50") {
			t.Error("body is missing the listed product")
		}
	})
}

func TestActivity(t *testing.T) {
	audit := &mockAuditLog{events: []models.AuditEvent{
		{Type: models.EventProductCreated, Description: "product 5 created"},
	}}
	svc, _ := authedService(nil, audit)
	r := newTestRouter(t, svc, testConfig(t))
	cookies := login(t, r)

	w := doGet(r, "/activity?type=product_created", cookies)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	if audit.lastFilter.Type != "product_created" {
		t.Errorf("filter type = %q, want %q", audit.lastFilter.Type, "product_created")
	}
	if !strings.Contains(bodyString(t, w), "product 5 created") {
		t.Error("body is missing the event description")
	}
}

func TestHealth(t *testing.T) {
	svc, _ := authedService(nil, nil)
	r := newTestRouter(t, svc, testConfig(t))

	w := doGet(r, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(bodyString(t, w), `"status":"ok"`) {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}
