package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/Shash-135/Synca/models"
	"github.com/Shash-135/Synca/services"
	"github.com/Shash-135/Synca/storage"
	"github.com/Shash-135/Synca/utils"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// buildTestApp wires the booking and availability routes against an
// in-memory SQLite database, with the real JWT verifier and middleware.
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Property{}, &models.Room{}, &models.Bed{},
		&models.Booking{}, &models.Notification{}, &models.AuditLog{},
	); err != nil {
		t.Fatal(err)
	}
	storage.DB = db
	storage.Redis = nil

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	user := app.Party("/api/user")
	{
		user.Get("/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, utils.UserIDFromTokenMiddleware, GetUser)
	}

	booking := app.Party("/api/booking", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		booking.Post("/bed/{id:uint}", CreateBooking)
		booking.Get("/", GetUserBookings)
		booking.Patch("/{id:uint}/dates", UpdateBookingDates)
		booking.Post("/{id:uint}/cancel", CancelBooking)
	}

	availability := app.Party("/api/availability")
	{
		availability.Get("/bed/{id:uint}", GetBedAvailability)
		availability.Get("/bed/{id:uint}/quote", GetBedQuote)
	}

	if err := app.Build(); err != nil {
		t.Fatal(err)
	}
	return app
}

// seedBed creates a tenant plus one property/room/bed and returns the
// tenant ID and bed ID.
func seedBed(t *testing.T) (uint, uint) {
	t.Helper()
	tenant := models.User{FirstName: "Arun", LastName: "Nair", Email: fmt.Sprintf("%s@example.com", t.Name()), Role: "tenant"}
	if err := storage.DB.Create(&tenant).Error; err != nil {
		t.Fatal(err)
	}
	owner := models.User{FirstName: "Priya", LastName: "Rao", Email: fmt.Sprintf("owner-%s@example.com", t.Name()), Role: "owner"}
	if err := storage.DB.Create(&owner).Error; err != nil {
		t.Fatal(err)
	}
	property := models.Property{OwnerID: owner.ID, Name: "Sunrise PG", Address: "12 MG Road"}
	if err := storage.DB.Create(&property).Error; err != nil {
		t.Fatal(err)
	}
	room, err := services.AddRoom(property.ID, "101", models.RentBasisPerBed, 100)
	if err != nil {
		t.Fatal(err)
	}
	bed, err := services.AddBed(room.ID, "A", nil)
	if err != nil {
		t.Fatal(err)
	}
	return tenant.ID, bed.ID
}

func signTestToken(t *testing.T, userID uint, role string) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), time.Hour)
	token, err := signer.Sign(utils.AccessToken{ID: userID, Role: role})
	if err != nil {
		t.Fatal(err)
	}
	return string(token)
}

func doJSON(app *iris.Application, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestCreateBookingEndpoint(t *testing.T) {
	app := buildTestApp(t)
	tenantID, bedID := seedBed(t)
	token := signTestToken(t, tenantID, "tenant")

	// no token
	resp := doJSON(app, http.MethodPost, fmt.Sprintf("/api/booking/bed/%d", bedID), "",
		iris.Map{"checkIn": "2026-10-10", "checkOut": "2026-10-20"})
	if resp.Code == http.StatusCreated {
		t.Fatalf("expected auth failure without token, got %d", resp.Code)
	}

	resp = doJSON(app, http.MethodPost, fmt.Sprintf("/api/booking/bed/%d", bedID), token,
		iris.Map{"checkIn": "2026-10-10", "checkOut": "2026-10-20"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		Data  models.Booking         `json:"data"`
		Quote *services.BookingQuote `json:"quote"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Data.Source != models.BookingSourceOnline || created.Data.Reference == "" {
		t.Fatalf("bad booking payload: %+v", created.Data)
	}
	if created.Quote == nil || created.Quote.Nights != 10 {
		t.Fatalf("bad quote payload: %+v", created.Quote)
	}

	// overlapping range maps to 409
	resp = doJSON(app, http.MethodPost, fmt.Sprintf("/api/booking/bed/%d", bedID), token,
		iris.Map{"checkIn": "2026-10-15", "checkOut": "2026-10-25"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("want 409 for overlap, got %d: %s", resp.Code, resp.Body.String())
	}

	// equal dates map to 400
	resp = doJSON(app, http.MethodPost, fmt.Sprintf("/api/booking/bed/%d", bedID), token,
		iris.Map{"checkIn": "2026-10-10", "checkOut": "2026-10-10"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("want 400 for empty range, got %d", resp.Code)
	}

	// malformed date maps to 400
	resp = doJSON(app, http.MethodPost, fmt.Sprintf("/api/booking/bed/%d", bedID), token,
		iris.Map{"checkIn": "10/10/2026", "checkOut": "2026-10-20"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("want 400 for malformed date, got %d", resp.Code)
	}
}

func TestBookingOwnershipAndCancelEndpoint(t *testing.T) {
	app := buildTestApp(t)
	tenantID, bedID := seedBed(t)
	token := signTestToken(t, tenantID, "tenant")

	resp := doJSON(app, http.MethodPost, fmt.Sprintf("/api/booking/bed/%d", bedID), token,
		iris.Map{"checkIn": "2026-10-10", "checkOut": "2026-10-20"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		Data models.Booking `json:"data"`
	}
	json.Unmarshal(resp.Body.Bytes(), &created)

	// another tenant cannot amend it
	stranger := models.User{FirstName: "Dev", LastName: "Iyer", Email: fmt.Sprintf("stranger-%s@example.com", t.Name()), Role: "tenant"}
	if err := storage.DB.Create(&stranger).Error; err != nil {
		t.Fatal(err)
	}
	strangerToken := signTestToken(t, stranger.ID, "tenant")
	resp = doJSON(app, http.MethodPatch, fmt.Sprintf("/api/booking/%d/dates", created.Data.ID), strangerToken,
		iris.Map{"checkIn": "2026-11-10", "checkOut": "2026-11-20"})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("want 403 for foreign booking, got %d", resp.Code)
	}

	// the owner tenant can
	resp = doJSON(app, http.MethodPatch, fmt.Sprintf("/api/booking/%d/dates", created.Data.ID), token,
		iris.Map{"checkIn": "2026-11-10", "checkOut": "2026-11-20"})
	if resp.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(app, http.MethodPost, fmt.Sprintf("/api/booking/%d/cancel", created.Data.ID), token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("want 200 on cancel, got %d: %s", resp.Code, resp.Body.String())
	}

	// amending a cancelled booking maps to 409
	resp = doJSON(app, http.MethodPatch, fmt.Sprintf("/api/booking/%d/dates", created.Data.ID), token,
		iris.Map{"checkIn": "2026-12-01", "checkOut": "2026-12-10"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("want 409 for cancelled booking, got %d", resp.Code)
	}

	// list includes the classified status
	resp = doJSON(app, http.MethodGet, "/api/booking/", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.Code)
	}
	var listing struct {
		Counts map[string]int `json:"counts"`
	}
	json.Unmarshal(resp.Body.Bytes(), &listing)
	if listing.Counts["cancelled"] != 1 || listing.Counts["all"] != 1 {
		t.Fatalf("bad counts: %v", listing.Counts)
	}
}

func TestBedAvailabilityEndpoint(t *testing.T) {
	app := buildTestApp(t)
	tenantID, bedID := seedBed(t)
	token := signTestToken(t, tenantID, "tenant")

	resp := doJSON(app, http.MethodPost, fmt.Sprintf("/api/booking/bed/%d", bedID), token,
		iris.Map{"checkIn": "2026-10-10", "checkOut": "2026-10-20"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", resp.Code, resp.Body.String())
	}

	check := func(start, end string, wantFree bool) {
		t.Helper()
		resp := doJSON(app, http.MethodGet,
			fmt.Sprintf("/api/availability/bed/%d?startDate=%s&endDate=%s", bedID, start, end), "", nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("want 200, got %d: %s", resp.Code, resp.Body.String())
		}
		var out struct {
			Data struct {
				Available bool `json:"available"`
			} `json:"data"`
		}
		json.Unmarshal(resp.Body.Bytes(), &out)
		if out.Data.Available != wantFree {
			t.Fatalf("[%s,%s): want available=%v", start, end, wantFree)
		}
	}

	check("2026-10-15", "2026-10-25", false)
	check("2026-10-20", "2026-10-25", true) // adjacency is free
	check("2026-09-01", "2026-09-05", true)

	resp = doJSON(app, http.MethodGet,
		fmt.Sprintf("/api/availability/bed/%d?startDate=2026-10-10&endDate=2026-10-10", bedID), "", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("want 400 for empty range, got %d", resp.Code)
	}

	resp = doJSON(app, http.MethodGet,
		fmt.Sprintf("/api/availability/bed/%d/quote?startDate=2026-11-01&endDate=2026-11-06", bedID), "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("want 200 for quote, got %d: %s", resp.Code, resp.Body.String())
	}
	var quoted struct {
		Data services.BookingQuote `json:"data"`
	}
	json.Unmarshal(resp.Body.Bytes(), &quoted)
	if quoted.Data.Nights != 5 || quoted.Data.Total != 500 {
		t.Fatalf("bad quote: %+v", quoted.Data)
	}
}
