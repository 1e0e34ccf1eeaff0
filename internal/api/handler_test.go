package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medstock/m/domain"
	"medstock/m/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	st := store.New(store.NewMemoryKV())
	if err := st.Init(); err != nil {
		t.Fatalf("init store: %v", err)
	}
	srv := httptest.NewServer(New(st, "test_secret").Router())
	t.Cleanup(srv.Close)
	return srv, st
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func login(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "",
		map[string]string{"username": username, "password": password})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var body struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	decodeBody(t, resp, &body)
	if body.Token == "" {
		t.Fatal("login returned empty token")
	}
	if body.User.Password != "" {
		t.Fatal("login leaked password hash")
	}
	return body.Token
}

func medicinePayload(name string) map[string]any {
	return map[string]any{
		"name":            name,
		"category":        "Tablet",
		"manufacturer":    "Cipla",
		"batchNumber":     "B-" + name,
		"purchasePrice":   10,
		"sellingPrice":    15,
		"quantity":        100,
		"minStockLevel":   10,
		"manufactureDate": time.Now().AddDate(-1, 0, 0).Format(time.RFC3339),
		"expiryDate":      time.Now().AddDate(1, 0, 0).Format(time.RFC3339),
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "",
		map[string]string{"username": "admin", "password": "wrong"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := doJSON(t, http.MethodGet, srv.URL+"/medicines", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/medicines", "not-a-jwt", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d, want 401", resp.StatusCode)
	}
}

func TestMedicineCRUD(t *testing.T) {
	srv, _ := newTestServer(t)
	token := login(t, srv, "admin", "admin123")

	resp := doJSON(t, http.MethodPost, srv.URL+"/medicines", token, medicinePayload("Paracetamol"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created domain.Medicine
	decodeBody(t, resp, &created)
	if created.ID == "" {
		t.Fatal("created medicine has no id")
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/medicines/"+created.ID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}

	created.Quantity = 80
	resp = doJSON(t, http.MethodPut, srv.URL+"/medicines/"+created.ID, token, created)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	var updated domain.Medicine
	decodeBody(t, resp, &updated)
	if updated.Quantity != 80 {
		t.Fatalf("quantity = %d after update", updated.Quantity)
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/medicines/"+created.ID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/medicines/"+created.ID, token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateMedicineValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	token := login(t, srv, "admin", "admin123")

	payload := medicinePayload("Broken")
	payload["name"] = ""
	resp := doJSON(t, http.MethodPost, srv.URL+"/medicines", token, payload)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing name status = %d, want 400", resp.StatusCode)
	}

	payload = medicinePayload("Backwards")
	payload["expiryDate"] = time.Now().AddDate(-2, 0, 0).Format(time.RFC3339)
	resp = doJSON(t, http.MethodPost, srv.URL+"/medicines", token, payload)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expiry before manufacture status = %d, want 400", resp.StatusCode)
	}
}

func TestListSearchSortPaginate(t *testing.T) {
	srv, _ := newTestServer(t)
	token := login(t, srv, "admin", "admin123")

	for _, name := range []string{"Paracetamol", "aspirin", "Cetirizine", "Amoxicillin"} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/medicines", token, medicinePayload(name))
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create %s status = %d", name, resp.StatusCode)
		}
	}

	var body struct {
		Items      []domain.Medicine `json:"items"`
		Total      int               `json:"total"`
		TotalPages int               `json:"totalPages"`
	}

	resp := doJSON(t, http.MethodGet, srv.URL+"/medicines?search=cet", token, nil)
	decodeBody(t, resp, &body)
	if body.Total != 2 {
		t.Fatalf("search total = %d, want 2 (Paracetamol, Cetirizine)", body.Total)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/medicines?sort=name&dir=asc", token, nil)
	body.Items = nil
	decodeBody(t, resp, &body)
	var names []string
	for _, m := range body.Items {
		names = append(names, m.Name)
	}
	want := []string{"Amoxicillin", "aspirin", "Cetirizine", "Paracetamol"}
	if fmt.Sprint(names) != fmt.Sprint(want) {
		t.Fatalf("sorted names = %v, want %v", names, want)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/medicines?sort=name&dir=asc&page=2&pageSize=3", token, nil)
	body.Items = nil
	decodeBody(t, resp, &body)
	if body.TotalPages != 2 || len(body.Items) != 1 {
		t.Fatalf("page 2: totalPages=%d items=%d, want 2 and 1", body.TotalPages, len(body.Items))
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/medicines?page=99&pageSize=3", token, nil)
	body.Items = nil
	decodeBody(t, resp, &body)
	if len(body.Items) != 0 {
		t.Fatalf("out of range page returned %d items", len(body.Items))
	}
}

func TestEmployeeRolePermissions(t *testing.T) {
	srv, _ := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")

	resp := doJSON(t, http.MethodPost, srv.URL+"/users", admin, map[string]any{
		"username": "clerk",
		"password": "clerk123",
		"name":     "Counter Clerk",
		"email":    "clerk@medicalshop.com",
		"role":     "employee",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user status = %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/medicines", admin, medicinePayload("Paracetamol"))
	var m domain.Medicine
	decodeBody(t, resp, &m)

	clerk := login(t, srv, "clerk", "clerk123")

	resp = doJSON(t, http.MethodPost, srv.URL+"/medicines", clerk, medicinePayload("Forbidden"))
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("employee create medicine status = %d, want 403", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/users", clerk, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("employee list users status = %d, want 403", resp.StatusCode)
	}

	// Recording a sale is open to any authenticated user.
	resp = doJSON(t, http.MethodPost, srv.URL+"/sales", clerk, map[string]any{
		"paymentMethod": "cash",
		"paymentStatus": "paid",
		"subtotal":      15,
		"total":         15,
		"items": []map[string]any{{
			"medicineId":   m.ID,
			"medicineName": m.Name,
			"batchNumber":  m.BatchNumber,
			"expiryDate":   m.ExpiryDate.Format(time.RFC3339),
			"quantity":     1,
			"unitPrice":    15,
			"totalPrice":   15,
		}},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("employee create sale status = %d, want 201", resp.StatusCode)
	}
	var sale domain.Sale
	decodeBody(t, resp, &sale)
	if sale.InvoiceNumber == "" {
		t.Fatal("sale has no invoice number")
	}
	if sale.CreatedBy == "" {
		t.Fatal("sale not attributed to the authenticated user")
	}
}

func TestDuplicateUsernameConflict(t *testing.T) {
	srv, _ := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")

	payload := map[string]any{
		"username": "admin",
		"password": "whatever1",
		"name":     "Impostor",
		"email":    "i@medicalshop.com",
		"role":     "manager",
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/users", admin, payload)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate username status = %d, want 409", resp.StatusCode)
	}
}

func TestOrderInvalidTransitionConflict(t *testing.T) {
	srv, _ := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")

	resp := doJSON(t, http.MethodPost, srv.URL+"/medicines", admin, medicinePayload("Paracetamol"))
	var m domain.Medicine
	decodeBody(t, resp, &m)

	resp = doJSON(t, http.MethodPost, srv.URL+"/orders", admin, map[string]any{
		"supplierId":    "sup-1",
		"supplierName":  "MediSupply Inc.",
		"orderDate":     time.Now().Format(time.RFC3339),
		"totalAmount":   100,
		"paymentStatus": "unpaid",
		"items": []map[string]any{{
			"medicineId":   m.ID,
			"medicineName": m.Name,
			"quantity":     10,
			"unitPrice":    10,
			"totalPrice":   100,
		}},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create order status = %d", resp.StatusCode)
	}
	var o domain.PurchaseOrder
	decodeBody(t, resp, &o)

	o.Status = domain.OrderReceived
	resp = doJSON(t, http.MethodPut, srv.URL+"/orders/"+o.ID, admin, o)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("pending -> received status = %d, want 409", resp.StatusCode)
	}
}

func TestAlertEndpoints(t *testing.T) {
	srv, st := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")

	payload := medicinePayload("Paracetamol")
	payload["quantity"] = 2
	resp := doJSON(t, http.MethodPost, srv.URL+"/medicines", admin, payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create medicine status = %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/alerts/unread", admin, nil)
	var unread []domain.Alert
	decodeBody(t, resp, &unread)
	if len(unread) != 1 {
		t.Fatalf("unread alerts = %d, want 1", len(unread))
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/alerts/"+unread[0].ID+"/read", admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("mark read status = %d", resp.StatusCode)
	}
	remaining, err := st.UnreadAlerts()
	if err != nil {
		t.Fatalf("unread alerts: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("unread after mark read = %d", len(remaining))
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/alerts/missing/read", admin, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("mark missing read status = %d, want 404", resp.StatusCode)
	}
}

// Employees may read and acknowledge alerts but not delete them.
func TestAlertDeleteRequiresManagerRole(t *testing.T) {
	srv, _ := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")

	resp := doJSON(t, http.MethodPost, srv.URL+"/users", admin, map[string]any{
		"username": "clerk",
		"password": "clerk123",
		"name":     "Counter Clerk",
		"email":    "clerk@medicalshop.com",
		"role":     "employee",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user status = %d", resp.StatusCode)
	}

	payload := medicinePayload("Paracetamol")
	payload["quantity"] = 2
	resp = doJSON(t, http.MethodPost, srv.URL+"/medicines", admin, payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create medicine status = %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/alerts/unread", admin, nil)
	var unread []domain.Alert
	decodeBody(t, resp, &unread)
	if len(unread) != 1 {
		t.Fatalf("unread alerts = %d, want 1", len(unread))
	}

	clerk := login(t, srv, "clerk", "clerk123")
	resp = doJSON(t, http.MethodDelete, srv.URL+"/alerts/"+unread[0].ID, clerk, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("employee delete alert status = %d, want 403", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPost, srv.URL+"/alerts/"+unread[0].ID+"/read", clerk, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("employee mark read status = %d, want 200", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/alerts/"+unread[0].ID, admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin delete alert status = %d, want 200", resp.StatusCode)
	}
}

func TestMeReflectsSession(t *testing.T) {
	srv, _ := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")

	resp := doJSON(t, http.MethodGet, srv.URL+"/auth/me", admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d", resp.StatusCode)
	}
	var u domain.User
	decodeBody(t, resp, &u)
	if u.Username != "admin" {
		t.Fatalf("me username = %s", u.Username)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/auth/logout", admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/auth/me", admin, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me after logout status = %d, want 401", resp.StatusCode)
	}
}
