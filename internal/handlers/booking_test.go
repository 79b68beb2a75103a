package handlers

import (
	"database/sql"
	"html/template"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"podbooker/internal/models"
	"podbooker/internal/test"
)

const (
	testGuestID   = "0c9d6b7e-3f1a-4a2b-9c8d-1e2f3a4b5c6d"
	testEpisodeID = "a1b2c3d4-e5f6-4789-a012-3456789abcde"
)

func newTestHandlers(t *testing.T) (*Handlers, sqlmock.Sqlmock, *test.MockTaskEnqueuer, *test.MockBroker) {
	templates, err := template.ParseGlob(filepath.Join(test.ProjectRoot(), "web", "templates", "*.html"))
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}

	store, mock := test.NewMockStore(t)
	enqueuer := &test.MockTaskEnqueuer{}
	broker := &test.MockBroker{}

	return New(templates, store, enqueuer, broker, "http://localhost:8080"), mock, enqueuer, broker
}

func newBookingRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/guest-booking/{guestId}", h.GuestBooking)
	return r
}

func guestColumns() []string {
	return []string{"id", "episode_id", "name", "email", "status", "selected_time_slot", "rejection_note", "reminded_at", "created_at", "updated_at"}
}

func episodeColumns() []string {
	return []string{"id", "host_id", "title", "description", "date", "time_slots", "created_at", "updated_at"}
}

func pendingGuestRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(guestColumns()).
		AddRow(testGuestID, testEpisodeID, "Jane", "jane@x.com", models.StatusPending, nil, nil, nil, now, now)
}

func episodeRow() *sqlmock.Rows {
	now := time.Now()
	date := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(episodeColumns()).
		AddRow(testEpisodeID, "host-1", "AI Future", "A conversation about what comes next.", date,
			[]byte(`{"10:00-11:00","14:00-15:00"}`), now, now)
}

func expectGuestAndEpisode(mock sqlmock.Sqlmock, guestRows *sqlmock.Rows) {
	mock.ExpectQuery(`SELECT \* FROM episode_guests WHERE id = \$1`).WithArgs(testGuestID).WillReturnRows(guestRows)
	mock.ExpectQuery(`SELECT \* FROM episodes WHERE id = \$1`).WithArgs(testEpisodeID).WillReturnRows(episodeRow())
}

func TestGetBookingPagePending(t *testing.T) {
	h, mock, _, _ := newTestHandlers(t)
	expectGuestAndEpisode(mock, pendingGuestRow())

	req := httptest.NewRequest(http.MethodGet, "/guest-booking/"+testGuestID, nil)
	rr := httptest.NewRecorder()
	newBookingRouter(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "AI Future")
	assert.Contains(t, body, "10:00-11:00")
	assert.Contains(t, body, "14:00-15:00")
	// Slots render in stored order
	assert.Less(t, strings.Index(body, "10:00-11:00"), strings.Index(body, "14:00-15:00"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingPageIdempotent(t *testing.T) {
	h, mock, _, _ := newTestHandlers(t)
	router := newBookingRouter(h)

	var bodies []string
	for i := 0; i < 2; i++ {
		expectGuestAndEpisode(mock, pendingGuestRow())
		req := httptest.NewRequest(http.MethodGet, "/guest-booking/"+testGuestID, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		bodies = append(bodies, rr.Body.String())
	}

	assert.Equal(t, bodies[0], bodies[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingPageConfirmed(t *testing.T) {
	h, mock, _, _ := newTestHandlers(t)
	now := time.Now()
	slot := "10:00-11:00"
	rows := sqlmock.NewRows(guestColumns()).
		AddRow(testGuestID, testEpisodeID, "Jane", "jane@x.com", models.StatusConfirmed, slot, nil, nil, now, now)
	expectGuestAndEpisode(mock, rows)

	req := httptest.NewRequest(http.MethodGet, "/guest-booking/"+testGuestID, nil)
	rr := httptest.NewRecorder()
	newBookingRouter(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "booked")
	assert.Contains(t, rr.Body.String(), slot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingPageDeclined(t *testing.T) {
	h, mock, _, _ := newTestHandlers(t)
	now := time.Now()
	rows := sqlmock.NewRows(guestColumns()).
		AddRow(testGuestID, testEpisodeID, "Jane", "jane@x.com", models.StatusDeclined, nil, "conflict", nil, now, now)
	expectGuestAndEpisode(mock, rows)

	req := httptest.NewRequest(http.MethodGet, "/guest-booking/"+testGuestID, nil)
	rr := httptest.NewRecorder()
	newBookingRouter(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "declined")
	assert.Contains(t, rr.Body.String(), "conflict")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingPageUnknownGuest(t *testing.T) {
	h, mock, _, _ := newTestHandlers(t)
	// A well-formed but unknown id renders the not-found page with 200:
	// the page itself loads fine, only its content says "not found".
	unknownID := "ffffffff-ffff-4fff-8fff-ffffffffffff"
	mock.ExpectQuery(`SELECT \* FROM episode_guests WHERE id = \$1`).WithArgs(unknownID).WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/guest-booking/"+unknownID, nil)
	rr := httptest.NewRecorder()
	newBookingRouter(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invitation not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingPageMalformedID(t *testing.T) {
	h, _, _, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/guest-booking/not-a-uuid", nil)
	rr := httptest.NewRecorder()
	newBookingRouter(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPostBookingConfirm(t *testing.T) {
	h, mock, _, broker := newTestHandlers(t)
	expectGuestAndEpisode(mock, pendingGuestRow())
	mock.ExpectExec(`UPDATE episode_guests`).
		WithArgs(models.StatusConfirmed, "10:00-11:00", "", testGuestID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := `{"status":"confirmed","selectedSlot":"10:00-11:00"}`
	req := httptest.NewRequest(http.MethodPost, "/guest-booking/"+testGuestID, strings.NewReader(body))
	rr := httptest.NewRecorder()
	newBookingRouter(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())

	// Console notification carries the new status and slot
	assert.Len(t, broker.Published, 1)
	assert.Equal(t, models.StatusConfirmed, broker.Published[0].Status)
	assert.Equal(t, "10:00-11:00", broker.Published[0].SelectedTimeSlot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostBookingConfirmUnknownSlot(t *testing.T) {
	h, mock, _, broker := newTestHandlers(t)
	expectGuestAndEpisode(mock, pendingGuestRow())

	body := `{"status":"confirmed","selectedSlot":"23:00-23:30"}`
	req := httptest.NewRequest(http.MethodPost, "/guest-booking/"+testGuestID, strings.NewReader(body))
	rr := httptest.NewRecorder()
	newBookingRouter(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "not offered")
	assert.Empty(t, broker.Published)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostBookingConfirmWithoutSlot(t *testing.T) {
	h, mock, _, _ := newTestHandlers(t)
	mock.ExpectQuery(`SELECT \* FROM episode_guests WHERE id = \$1`).WithArgs(testGuestID).WillReturnRows(pendingGuestRow())

	body := `{"status":"confirmed"}`
	req := httptest.NewRequest(http.MethodPost, "/guest-booking/"+testGuestID, strings.NewReader(body))
	rr := httptest.NewRecorder()
	newBookingRouter(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostBookingDecline(t *testing.T) {
	h, mock, _, broker := newTestHandlers(t)
	mock.ExpectQuery(`SELECT \* FROM episode_guests WHERE id = \$1`).WithArgs(testGuestID).WillReturnRows(pendingGuestRow())
	mock.ExpectExec(`UPDATE episode_guests`).
		WithArgs(models.StatusDeclined, "", "conflict", testGuestID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := `{"status":"declined","rejectionNote":"conflict"}`
	req := httptest.NewRequest(http.MethodPost, "/guest-booking/"+testGuestID, strings.NewReader(body))
	rr := httptest.NewRecorder()
	newBookingRouter(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())
	assert.Len(t, broker.Published, 1)
	assert.Equal(t, models.StatusDeclined, broker.Published[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostBookingInvalidStatus(t *testing.T) {
	h, mock, _, _ := newTestHandlers(t)
	mock.ExpectQuery(`SELECT \* FROM episode_guests WHERE id = \$1`).WithArgs(testGuestID).WillReturnRows(pendingGuestRow())

	body := `{"status":"maybe"}`
	req := httptest.NewRequest(http.MethodPost, "/guest-booking/"+testGuestID, strings.NewReader(body))
	rr := httptest.NewRecorder()
	newBookingRouter(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBookingMethodNotAllowed(t *testing.T) {
	h, _, _, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodPut, "/guest-booking/"+testGuestID, nil)
	rr := httptest.NewRecorder()
	newBookingRouter(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestBookingCORSHeaders(t *testing.T) {
	h, _, _, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodOptions, "/guest-booking/"+testGuestID, nil)
	rr := httptest.NewRecorder()
	newBookingRouter(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", rr.Header().Get("Access-Control-Allow-Headers"))
}
