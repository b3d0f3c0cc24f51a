package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"staycal/internal/app/auth"
	"staycal/internal/app/commands"
	availabilityapp "staycal/internal/app/handlers/availability"
	bookingapp "staycal/internal/app/handlers/booking"
	propertiesapp "staycal/internal/app/handlers/properties"
	usersapp "staycal/internal/app/handlers/users"
	"staycal/internal/app/queries"
	domainuser "staycal/internal/domain/user"
	"staycal/internal/infra/config"
	"staycal/internal/infra/obs"
	"staycal/internal/infra/security"
	"staycal/internal/infra/storage/memory"
)

type recordedEvent struct {
	event string
	data  any
}

type recordingNotifier struct {
	events []recordedEvent
}

func (n *recordingNotifier) Send(_ context.Context, event string, data any) error {
	n.events = append(n.events, recordedEvent{event: event, data: data})
	return nil
}

const (
	adminToken   = "tok-admin"
	managerToken = "tok-manager"
	helperToken  = "tok-helper"
)

func newTestServer(t *testing.T) (http.Handler, *recordingNotifier) {
	t.Helper()

	properties := memory.NewPropertyRepository()
	users := memory.NewUserRepository()
	notifier := &recordingNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	commandBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()

	mutateDays := &availabilityapp.MutateDaysHandler{Properties: properties, Notifier: notifier, Logger: logger}
	mutateDays.Register(commandBus)
	propertyCrud := &propertiesapp.CrudHandler{Properties: properties, Logger: logger}
	propertyCrud.Register(commandBus)
	userAdmin := &usersapp.AdminHandler{Users: users, Hasher: security.BcryptHasher{}, Logger: logger}
	userAdmin.Register(commandBus)
	commands.RegisterHandler[bookingapp.RequestBookingCommand, bookingapp.Receipt](
		commandBus,
		bookingapp.RequestBookingCommand{}.Key(),
		&bookingapp.RequestBookingHandler{Properties: properties, Notifier: notifier, Logger: logger},
	)

	queries.RegisterHandler(queryBus, availabilityapp.GetRecordQuery{}.Key(), &availabilityapp.GetRecordHandler{Properties: properties})
	queries.RegisterHandler(queryBus, availabilityapp.CalendarIndexQuery{}.Key(), &availabilityapp.CalendarIndexHandler{Properties: properties})
	queries.RegisterHandler(queryBus, availabilityapp.AvailabilityMapQuery{}.Key(), &availabilityapp.AvailabilityMapHandler{Properties: properties})
	queries.RegisterHandler(queryBus, availabilityapp.SearchAvailableQuery{}.Key(), &availabilityapp.SearchAvailableHandler{Properties: properties})
	queries.RegisterHandler(queryBus, propertiesapp.ListQuery{}.Key(), &propertiesapp.ListHandler{Properties: properties})
	queries.RegisterHandler(queryBus, propertiesapp.GetQuery{}.Key(), &propertiesapp.GetHandler{Properties: properties})
	queries.RegisterHandler(queryBus, usersapp.ListQuery{}.Key(), &usersapp.ListHandler{Users: users})

	verifier := memory.NewTokenVerifier()
	verifier.Grant(adminToken, auth.Identity{UserID: "u-admin", Role: domainuser.RoleAdmin})
	verifier.Grant(managerToken, auth.Identity{UserID: "u-manager", Role: domainuser.RoleManager})
	verifier.Grant(helperToken, auth.Identity{UserID: "u-helper", Role: domainuser.RoleHelper})
	authMW := AuthMiddleware{Verifier: verifier, Logger: logger}

	server := NewServer(
		config.Config{Env: "test", HTTPAddr: ":0"},
		obs.Middleware{Logger: logger},
		obs.HealthHandlers{},
		Handlers{
			Availability:   AvailabilityHandler{Commands: commandBus, Queries: queryBus},
			Property:       PropertyHandler{Commands: commandBus, Queries: queryBus},
			Booking:        BookingHandler{Commands: commandBus},
			Users:          UserHandler{Commands: commandBus, Queries: queryBus},
			AuthMiddleware: authMW.Handle,
		},
	)
	return server.Handler, notifier
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func createProperty(t *testing.T, handler http.Handler, name string) string {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/properties", adminToken, map[string]any{
		"name":       name,
		"max_people": 4,
		"active":     true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create property: status %d body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	decode(t, rec, &created)
	if created.ID == "" {
		t.Fatal("create property: empty id")
	}
	return created.ID
}

func TestAvailabilityMutationAuth(t *testing.T) {
	handler, _ := newTestServer(t)
	id := createProperty(t, handler, "Cottage")
	body := map[string]any{"date": "2024-07-01", "reason": "maintenance"}

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{name: "anonymous", token: "", want: http.StatusUnauthorized},
		{name: "unknown token", token: "tok-nope", want: http.StatusUnauthorized},
		{name: "helper", token: helperToken, want: http.StatusForbidden},
		{name: "manager", token: managerToken, want: http.StatusCreated},
		{name: "admin", token: adminToken, want: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, handler, http.MethodPost, "/properties/"+id+"/availability", tt.token, body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestAvailabilityLifecycle(t *testing.T) {
	handler, notifier := newTestServer(t)
	id := createProperty(t, handler, "Cottage")

	// Batch insert with booking metadata.
	rec := doJSON(t, handler, http.MethodPost, "/properties/"+id+"/availability", adminToken, map[string]any{
		"dates":            []string{"2024-07-01", "2024-07-02"},
		"reason":           "booking",
		"bookingId":        "b-1",
		"bookingGuestName": "A. Guest",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add days: status %d body %s", rec.Code, rec.Body.String())
	}
	var added struct {
		UnavailableDays []struct {
			Date      string `json:"date"`
			Reason    string `json:"reason"`
			BookingID string `json:"bookingId"`
			CreatedBy string `json:"createdBy"`
		} `json:"unavailableDays"`
	}
	decode(t, rec, &added)
	if len(added.UnavailableDays) != 2 {
		t.Fatalf("inserted = %d entries, want 2", len(added.UnavailableDays))
	}
	if added.UnavailableDays[0].BookingID != "b-1" || added.UnavailableDays[0].CreatedBy != "u-admin" {
		t.Errorf("entry metadata wrong: %+v", added.UnavailableDays[0])
	}

	// Same-date insert replaces, never appends.
	rec = doJSON(t, handler, http.MethodPost, "/properties/"+id+"/availability", adminToken, map[string]any{
		"date":   "2024-07-01",
		"reason": "maintenance",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("replace day: status %d body %s", rec.Code, rec.Body.String())
	}

	// Update edits in place; the date is the identity.
	rec = doJSON(t, handler, http.MethodPut, "/properties/"+id+"/availability", adminToken, map[string]any{
		"date":        "2024-07-02",
		"reason":      "owner_use",
		"description": "family stay",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update day: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, handler, http.MethodPut, "/properties/"+id+"/availability", adminToken, map[string]any{
		"date":   "2024-08-15",
		"reason": "other",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("update of absent day: status %d, want 404", rec.Code)
	}

	// Invalid reason is rejected before storage.
	rec = doJSON(t, handler, http.MethodPost, "/properties/"+id+"/availability", adminToken, map[string]any{
		"date":   "2024-07-05",
		"reason": "vacation",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid reason: status %d, want 400", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/properties/"+id+"/availability", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get record: status %d", rec.Code)
	}
	var record struct {
		UnavailableDays []struct {
			Date   string `json:"date"`
			Reason string `json:"reason"`
		} `json:"unavailableDays"`
	}
	decode(t, rec, &record)
	if len(record.UnavailableDays) != 2 {
		t.Fatalf("record has %d entries, want 2: %s", len(record.UnavailableDays), rec.Body.String())
	}
	if record.UnavailableDays[0].Date != "2024-07-01" || record.UnavailableDays[0].Reason != "maintenance" {
		t.Errorf("first entry = %+v, want the replacing maintenance entry", record.UnavailableDays[0])
	}
	if record.UnavailableDays[1].Reason != "owner_use" {
		t.Errorf("second entry reason = %q, want owner_use", record.UnavailableDays[1].Reason)
	}

	// Delete both dates via CSV, then the record reads empty.
	rec = doJSON(t, handler, http.MethodDelete, "/properties/"+id+"/availability?dates=2024-07-01,2024-07-02", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove days: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, handler, http.MethodGet, "/properties/"+id+"/availability", "", nil)
	decode(t, rec, &record)
	if len(record.UnavailableDays) != 0 {
		t.Errorf("record after delete = %+v, want empty", record.UnavailableDays)
	}

	if len(notifier.events) == 0 {
		t.Error("mutations published no availability.changed events")
	}
}

func TestRemoveDaysRequiresDateParam(t *testing.T) {
	handler, _ := newTestServer(t)
	id := createProperty(t, handler, "Cottage")
	rec := doJSON(t, handler, http.MethodDelete, "/properties/"+id+"/availability", adminToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCalendarAndSearchEndpoints(t *testing.T) {
	handler, _ := newTestServer(t)
	busy := createProperty(t, handler, "Busy")
	free := createProperty(t, handler, "Free")

	rec := doJSON(t, handler, http.MethodPost, "/properties/"+busy+"/availability", adminToken, map[string]any{
		"date":   "2024-07-01",
		"reason": "maintenance",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add day: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/properties/availability-calendar?from=2024-07-01&to=2024-07-01", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("calendar: status %d body %s", rec.Code, rec.Body.String())
	}
	var calendarResp struct {
		UnavailableDates    []string       `json:"unavailableDates"`
		TotalProperties     int            `json:"totalProperties"`
		DateAvailabilityMap map[string]int `json:"dateAvailabilityMap"`
	}
	decode(t, rec, &calendarResp)
	if calendarResp.TotalProperties != 2 {
		t.Errorf("totalProperties = %d, want 2", calendarResp.TotalProperties)
	}
	if calendarResp.DateAvailabilityMap["2024-07-01"] != 1 {
		t.Errorf("dateAvailabilityMap = %v, want 2024-07-01 -> 1", calendarResp.DateAvailabilityMap)
	}
	if len(calendarResp.UnavailableDates) != 0 {
		t.Errorf("unavailableDates = %v, want empty while one property is free", calendarResp.UnavailableDates)
	}

	rec = doJSON(t, handler, http.MethodGet, "/properties/availability-map?from=2024-07-01&to=2024-07-01", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("availability map: status %d", rec.Code)
	}
	var mapResp struct {
		Days map[string][]string `json:"days"`
	}
	decode(t, rec, &mapResp)
	ids := mapResp.Days["2024-07-01"]
	if len(ids) != 1 || ids[0] != free {
		t.Errorf("days = %v, want only the free property", mapResp.Days)
	}

	rec = doJSON(t, handler, http.MethodGet, "/properties/available?from=2024-07-01&to=2024-07-01&people=2", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: status %d body %s", rec.Code, rec.Body.String())
	}
	var found []struct {
		ID string `json:"id"`
	}
	decode(t, rec, &found)
	if len(found) != 1 || found[0].ID != free {
		t.Errorf("search = %v, want only the free property", found)
	}

	rec = doJSON(t, handler, http.MethodGet, "/properties/available?from=2024-07-02&to=2024-07-01", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("inverted window: status %d, want 400", rec.Code)
	}
}

func TestBookingRequest(t *testing.T) {
	handler, notifier := newTestServer(t)
	id := createProperty(t, handler, "Cottage")

	rec := doJSON(t, handler, http.MethodPost, "/properties/"+id+"/availability", adminToken, map[string]any{
		"date":   "2024-07-10",
		"reason": "booking",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add day: status %d", rec.Code)
	}
	eventsBefore := len(notifier.events)

	body := map[string]any{
		"from":         "2024-07-01",
		"to":           "2024-07-03",
		"guests":       2,
		"guest_name":   "A. Guest",
		"contact_info": "guest@example.com",
	}
	rec = doJSON(t, handler, http.MethodPost, "/properties/"+id+"/booking-request", "", body)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("booking request: status %d body %s", rec.Code, rec.Body.String())
	}
	if len(notifier.events) != eventsBefore+1 {
		t.Errorf("booking request published %d events, want 1", len(notifier.events)-eventsBefore)
	}

	conflicting := map[string]any{
		"from":         "2024-07-09",
		"to":           "2024-07-11",
		"guests":       2,
		"guest_name":   "A. Guest",
		"contact_info": "guest@example.com",
	}
	rec = doJSON(t, handler, http.MethodPost, "/properties/"+id+"/booking-request", "", conflicting)
	if rec.Code != http.StatusConflict {
		t.Errorf("conflicting booking request: status %d, want 409", rec.Code)
	}
}

func TestUserAdminEndpoints(t *testing.T) {
	handler, _ := newTestServer(t)

	body := map[string]any{
		"email":    "staff@example.com",
		"name":     "Staff",
		"password": "s3cret-pass",
		"role":     "helper",
	}

	if rec := doJSON(t, handler, http.MethodPost, "/admin/users", managerToken, body); rec.Code != http.StatusForbidden {
		t.Errorf("manager creating users: status %d, want 403", rec.Code)
	}

	rec := doJSON(t, handler, http.MethodPost, "/admin/users", adminToken, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: status %d body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	decode(t, rec, &created)
	if created.Role != "helper" {
		t.Errorf("role = %q, want helper", created.Role)
	}

	if rec := doJSON(t, handler, http.MethodPost, "/admin/users", adminToken, body); rec.Code != http.StatusConflict {
		t.Errorf("duplicate email: status %d, want 409", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPut, fmt.Sprintf("/admin/users/%s/role", created.ID), adminToken, map[string]any{"role": "manager"})
	if rec.Code != http.StatusOK {
		t.Fatalf("assign role: status %d body %s", rec.Code, rec.Body.String())
	}
	var updated struct {
		Role string `json:"role"`
	}
	decode(t, rec, &updated)
	if updated.Role != "manager" {
		t.Errorf("role after assignment = %q, want manager", updated.Role)
	}

	rec = doJSON(t, handler, http.MethodGet, "/admin/users", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list users: status %d", rec.Code)
	}
	var users []struct {
		Email string `json:"email"`
	}
	decode(t, rec, &users)
	if len(users) != 1 || users[0].Email != "staff@example.com" {
		t.Errorf("users = %v", users)
	}
}

func TestPropertyCrud(t *testing.T) {
	handler, _ := newTestServer(t)
	id := createProperty(t, handler, "Cottage")

	rec := doJSON(t, handler, http.MethodPut, "/properties/"+id, adminToken, map[string]any{
		"name":       "Renamed",
		"max_people": 6,
		"active":     true,
		"blockedDates": []map[string]string{
			{"from": "2024-06-10", "to": "2024-06-15"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/properties/"+id+"/availability", "", nil)
	var record struct {
		BlockedDates []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"blockedDates"`
	}
	decode(t, rec, &record)
	if len(record.BlockedDates) != 1 || record.BlockedDates[0].From != "2024-06-10" {
		t.Errorf("blockedDates = %+v, want the updated range", record.BlockedDates)
	}

	rec = doJSON(t, handler, http.MethodGet, "/properties/available?from=2024-06-12&to=2024-06-13", "", nil)
	var found []struct {
		ID string `json:"id"`
	}
	decode(t, rec, &found)
	if len(found) != 0 {
		t.Errorf("blocked property returned by search: %v", found)
	}

	if rec := doJSON(t, handler, http.MethodDelete, "/properties/"+id, helperToken, nil); rec.Code != http.StatusForbidden {
		t.Errorf("helper delete: status %d, want 403", rec.Code)
	}
	if rec := doJSON(t, handler, http.MethodDelete, "/properties/"+id, adminToken, nil); rec.Code != http.StatusOK {
		t.Errorf("delete: status %d", rec.Code)
	}
	if rec := doJSON(t, handler, http.MethodGet, "/properties/"+id, "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", rec.Code)
	}
}
