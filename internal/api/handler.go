package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"

	"medstock/m/domain"
	"medstock/m/internal/query"
	"medstock/m/internal/seed"
	"medstock/m/internal/store"
)

type ctxKey string

const (
	ctxUserID   ctxKey = "userID"
	ctxUsername ctxKey = "username"
	ctxRole     ctxKey = "role"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	st     *store.Store
	secret string
}

// New constructs a Handler.
func New(st *store.Store, secret string) *Handler {
	return &Handler{st: st, secret: secret}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Post("/auth/login", h.login)

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Post("/auth/logout", h.logout)
		pr.Get("/auth/me", h.me)

		pr.Route("/medicines", func(r chi.Router) {
			r.Get("/", h.listMedicines)
			r.Get("/{id}", h.getMedicine)
			r.Post("/", h.createMedicine)
			r.Put("/{id}", h.updateMedicine)
			r.Delete("/{id}", h.deleteMedicine)
		})

		pr.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.listSuppliers)
			r.Get("/{id}", h.getSupplier)
			r.Post("/", h.createSupplier)
			r.Put("/{id}", h.updateSupplier)
			r.Delete("/{id}", h.deleteSupplier)
		})

		pr.Route("/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.Get("/{id}", h.getOrder)
			r.Post("/", h.createOrder)
			r.Put("/{id}", h.updateOrder)
			r.Delete("/{id}", h.deleteOrder)
		})

		pr.Route("/sales", func(r chi.Router) {
			r.Get("/", h.listSales)
			r.Get("/{id}", h.getSale)
			r.Post("/", h.createSale)
			r.Delete("/{id}", h.deleteSale)
		})

		pr.Route("/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			r.Get("/{id}", h.getUser)
			r.Post("/", h.createUser)
			r.Put("/{id}", h.updateUser)
			r.Delete("/{id}", h.deleteUser)
		})

		pr.Route("/alerts", func(r chi.Router) {
			r.Get("/", h.listAlerts)
			r.Get("/unread", h.unreadAlerts)
			r.Post("/{id}/read", h.markAlertRead)
			r.Post("/read-all", h.markAllAlertsRead)
			r.Delete("/{id}", h.deleteAlert)
		})

		pr.Get("/dashboard/stats", h.dashboardStats)
		pr.Post("/seed/sample", h.seedSample)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authentication

type authClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(u domain.User) (string, error) {
	claims := authClaims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxUsername, claims.Username)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request, allowed ...domain.Role) bool {
	role := r.Context().Value(ctxRole)
	if role == nil {
		respondError(w, http.StatusUnauthorized, "missing role")
		return false
	}
	current := domain.Role(role.(string))
	for _, allowedRole := range allowed {
		if current == allowedRole {
			return true
		}
	}
	respondError(w, http.StatusForbidden, "insufficient permissions")
	return false
}

func userIDFromContext(r *http.Request) string {
	if val := r.Context().Value(ctxUserID); val != nil {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.st.Authenticate(req.Username, req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to authenticate")
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := h.generateToken(*user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	user.Password = ""
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: *user})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.st.Logout(); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to log out")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.st.CurrentUser()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load session")
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "no active session")
		return
	}
	user.Password = ""
	respondJSON(w, http.StatusOK, user)
}

// List plumbing: every list endpoint accepts search, sort, dir, page and
// pageSize query parameters and runs them through the query engine.

type listParams struct {
	search   string
	sort     string
	dir      query.Direction
	page     int
	pageSize int
}

func parseListParams(r *http.Request) listParams {
	q := r.URL.Query()
	p := listParams{
		search: q.Get("search"),
		sort:   q.Get("sort"),
		dir:    query.ParseDirection(q.Get("dir")),
		page:   1,
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.page = n
	}
	if n, err := strconv.Atoi(q.Get("pageSize")); err == nil && n > 0 {
		p.pageSize = n
	}
	return p
}

type listResponse[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
}

func respondList[T any](w http.ResponseWriter, items []T, p listParams, fields map[string]query.Field[T], searchFields ...string) {
	var accessors []query.Field[T]
	for _, name := range searchFields {
		if f, ok := fields[name]; ok {
			accessors = append(accessors, f)
		}
	}
	items = query.Filter(items, p.search, accessors...)
	if f, ok := fields[p.sort]; ok {
		items = query.Sort(items, f, p.dir)
	}
	total := len(items)
	resp := listResponse[T]{Items: items, Total: total, Page: p.page}
	if p.pageSize > 0 {
		resp.TotalPages = query.TotalPages(total, p.pageSize)
		resp.Items = query.Paginate(items, p.page, p.pageSize)
	} else if total > 0 {
		resp.TotalPages = 1
	}
	if resp.Items == nil {
		resp.Items = []T{}
	}
	respondJSON(w, http.StatusOK, resp)
}

// Medicines

var medicineFields = map[string]query.Field[domain.Medicine]{
	"name":          func(m domain.Medicine) any { return m.Name },
	"category":      func(m domain.Medicine) any { return m.Category },
	"manufacturer":  func(m domain.Medicine) any { return m.Manufacturer },
	"batchNumber":   func(m domain.Medicine) any { return m.BatchNumber },
	"quantity":      func(m domain.Medicine) any { return m.Quantity },
	"sellingPrice":  func(m domain.Medicine) any { return m.SellingPrice },
	"purchasePrice": func(m domain.Medicine) any { return m.PurchasePrice },
	"expiryDate":    func(m domain.Medicine) any { return m.ExpiryDate },
}

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.st.Medicines()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list medicines")
		return
	}
	respondList(w, medicines, parseListParams(r), medicineFields,
		"name", "category", "manufacturer", "batchNumber")
}

func (h *Handler) getMedicine(w http.ResponseWriter, r *http.Request) {
	m, err := h.st.MedicineByID(chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err, "medicine")
		return
	}
	respondJSON(w, http.StatusOK, m)
}

func (h *Handler) createMedicine(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleManager) {
		return
	}
	var m domain.Medicine
	if err := decodeJSON(r, &m); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if m.Name == "" || m.BatchNumber == "" {
		respondError(w, http.StatusBadRequest, "name and batchNumber are required")
		return
	}
	if m.Quantity < 0 || m.MinStockLevel < 0 || m.PurchasePrice < 0 || m.SellingPrice < 0 {
		respondError(w, http.StatusBadRequest, "quantities and prices must not be negative")
		return
	}
	if !m.ExpiryDate.After(m.ManufactureDate) {
		respondError(w, http.StatusBadRequest, "expiryDate must be after manufactureDate")
		return
	}
	created, err := h.st.AddMedicine(m)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to add medicine")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleManager) {
		return
	}
	var m domain.Medicine
	if err := decodeJSON(r, &m); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	m.ID = chi.URLParam(r, "id")
	if !m.ExpiryDate.After(m.ManufactureDate) {
		respondError(w, http.StatusBadRequest, "expiryDate must be after manufactureDate")
		return
	}
	updated, err := h.st.UpdateMedicine(m)
	if err != nil {
		respondStoreError(w, err, "medicine")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleManager) {
		return
	}
	removed, err := h.st.DeleteMedicine(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete medicine")
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "medicine not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Suppliers

var supplierFields = map[string]query.Field[domain.Supplier]{
	"name":          func(s domain.Supplier) any { return s.Name },
	"contactPerson": func(s domain.Supplier) any { return s.ContactPerson },
	"email":         func(s domain.Supplier) any { return s.Email },
	"phone":         func(s domain.Supplier) any { return s.Phone },
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.st.Suppliers()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list suppliers")
		return
	}
	respondList(w, suppliers, parseListParams(r), supplierFields,
		"name", "contactPerson", "email", "phone")
}

func (h *Handler) getSupplier(w http.ResponseWriter, r *http.Request) {
	s, err := h.st.SupplierByID(chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err, "supplier")
		return
	}
	respondJSON(w, http.StatusOK, s)
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleManager) {
		return
	}
	var s domain.Supplier
	if err := decodeJSON(r, &s); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	created, err := h.st.AddSupplier(s)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to add supplier")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleManager) {
		return
	}
	var s domain.Supplier
	if err := decodeJSON(r, &s); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.ID = chi.URLParam(r, "id")
	updated, err := h.st.UpdateSupplier(s)
	if err != nil {
		respondStoreError(w, err, "supplier")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleManager) {
		return
	}
	removed, err := h.st.DeleteSupplier(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete supplier")
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "supplier not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Purchase orders

var orderFields = map[string]query.Field[domain.PurchaseOrder]{
	"orderNumber":  func(o domain.PurchaseOrder) any { return o.OrderNumber },
	"supplierName": func(o domain.PurchaseOrder) any { return o.SupplierName },
	"status":       func(o domain.PurchaseOrder) any { return string(o.Status) },
	"orderDate":    func(o domain.PurchaseOrder) any { return o.OrderDate },
	"totalAmount":  func(o domain.PurchaseOrder) any { return o.TotalAmount },
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.st.PurchaseOrders()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list orders")
		return
	}
	respondList(w, orders, parseListParams(r), orderFields,
		"orderNumber", "supplierName", "status")
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.st.PurchaseOrderByID(chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err, "order")
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleManager) {
		return
	}
	var o domain.PurchaseOrder
	if err := decodeJSON(r, &o); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if o.SupplierID == "" || len(o.Items) == 0 {
		respondError(w, http.StatusBadRequest, "supplierId and at least one item are required")
		return
	}
	created, err := h.st.AddPurchaseOrder(o)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to add order")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleManager) {
		return
	}
	var o domain.PurchaseOrder
	if err := decodeJSON(r, &o); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	o.ID = chi.URLParam(r, "id")
	updated, err := h.st.UpdatePurchaseOrder(o)
	if err != nil {
		if errors.Is(err, store.ErrInvalidTransition) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondStoreError(w, err, "order")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleManager) {
		return
	}
	removed, err := h.st.DeletePurchaseOrder(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete order")
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "order not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Sales

var saleFields = map[string]query.Field[domain.Sale]{
	"invoiceNumber": func(s domain.Sale) any { return s.InvoiceNumber },
	"customerName":  func(s domain.Sale) any { return s.CustomerName },
	"saleDate":      func(s domain.Sale) any { return s.SaleDate },
	"total":         func(s domain.Sale) any { return s.Total },
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.st.Sales()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list sales")
		return
	}
	respondList(w, sales, parseListParams(r), saleFields,
		"invoiceNumber", "customerName")
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	s, err := h.st.SaleByID(chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err, "sale")
		return
	}
	respondJSON(w, http.StatusOK, s)
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var s domain.Sale
	if err := decodeJSON(r, &s); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(s.Items) == 0 {
		respondError(w, http.StatusBadRequest, "no items in sale")
		return
	}
	if s.CreatedBy == "" {
		s.CreatedBy = userIDFromContext(r)
	}
	created, err := h.st.AddSale(s)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to record sale")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleManager) {
		return
	}
	removed, err := h.st.DeleteSale(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete sale")
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "sale not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Users

var userFields = map[string]query.Field[domain.User]{
	"username": func(u domain.User) any { return u.Username },
	"name":     func(u domain.User) any { return u.Name },
	"email":    func(u domain.User) any { return u.Email },
	"role":     func(u domain.User) any { return string(u.Role) },
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	users, err := h.st.Users()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list users")
		return
	}
	for i := range users {
		users[i].Password = ""
	}
	respondList(w, users, parseListParams(r), userFields, "username", "name", "email")
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	u, err := h.st.UserByID(chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err, "user")
		return
	}
	u.Password = ""
	respondJSON(w, http.StatusOK, u)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	var u domain.User
	if err := decodeJSON(r, &u); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if u.Username == "" || u.Password == "" || u.Role == "" {
		respondError(w, http.StatusBadRequest, "username, password and role are required")
		return
	}
	switch u.Role {
	case domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee:
	default:
		respondError(w, http.StatusBadRequest, "role must be admin, manager or employee")
		return
	}
	// Username uniqueness is the caller's job, so it is enforced here
	// rather than in the store.
	users, err := h.st.Users()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to check username")
		return
	}
	for _, existing := range users {
		if existing.Username == u.Username {
			respondError(w, http.StatusConflict, "username already exists")
			return
		}
	}
	created, err := h.st.AddUser(u)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to add user")
		return
	}
	created.Password = ""
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	var u domain.User
	if err := decodeJSON(r, &u); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	u.ID = chi.URLParam(r, "id")
	updated, err := h.st.UpdateUser(u)
	if err != nil {
		respondStoreError(w, err, "user")
		return
	}
	updated.Password = ""
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	if chi.URLParam(r, "id") == userIDFromContext(r) {
		respondError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}
	removed, err := h.st.DeleteUser(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete user")
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Alerts

func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.st.Alerts()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list alerts")
		return
	}
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	respondJSON(w, http.StatusOK, alerts)
}

func (h *Handler) unreadAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.st.UnreadAlerts()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list alerts")
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}

func (h *Handler) markAlertRead(w http.ResponseWriter, r *http.Request) {
	if err := h.st.MarkAlertRead(chi.URLParam(r, "id")); err != nil {
		respondStoreError(w, err, "alert")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) markAllAlertsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.st.MarkAllAlertsRead(); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to mark alerts read")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) deleteAlert(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleManager) {
		return
	}
	removed, err := h.st.DeleteAlert(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete alert")
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "alert not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Dashboard and seeding

func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.st.DashboardStats()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to compute stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *Handler) seedSample(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	if err := seed.Sample(h.st, userIDFromContext(r)); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to seed sample data")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "sample data created"})
}

// Helpers

func respondStoreError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, what+" not found")
		return
	}
	respondError(w, http.StatusInternalServerError, "unable to load "+what)
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
