package browser_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"sportsdesk/internal/adapters/bookingapi"
	web "sportsdesk/internal/adapters/http"
	"sportsdesk/internal/adapters/http/perf"
	"sportsdesk/internal/adapters/storage"
	"sportsdesk/internal/adapters/storage/kv"
	"sportsdesk/internal/adapters/ui"
	"sportsdesk/internal/application/orchestrators"
	"sportsdesk/internal/config"
	"sportsdesk/internal/domain/booking"
)

// bookingService is an in-memory stand-in for the remote booking API.
type bookingService struct {
	mu       sync.Mutex
	bookings []booking.Booking
}

func (s *bookingService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		json.NewEncoder(w).Encode(s.bookings)
	case http.MethodPost:
		var b booking.Booking
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "bad payload"})
			return
		}
		for _, existing := range s.bookings {
			if existing.Sport == b.Sport && existing.Date == b.Date && existing.Time == b.Time {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"error": "Slot already booked"})
				return
			}
		}
		s.bookings = append(s.bookings, b)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(b)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// testApp holds the running desk, its booking service and Playwright handles.
type testApp struct {
	BaseURL  string
	Server   *http.Server
	Bookings *bookingService
	Store    kv.Store
	PW       *playwright.Playwright
	Browser  playwright.Browser
}

// newTestApp wires a desk over a temp SQLite store and a fake booking API, then starts a browser.
// Skips when Playwright's browsers are not installed.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := storage.MigrateDB(ctx, db); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}
	collector := perf.NewCollector(perf.DefaultRingSize)
	store := kv.NewSQLiteStore(storage.NewTimedDB(db, collector, storage.DefaultSlowQuery))

	svc := &bookingService{}
	api := httptest.NewServer(http.StripPrefix("/api", svc))

	site := config.DefaultSite()
	desk := orchestrators.NewDesk(orchestrators.DeskDeps{
		Bookings:  bookingapi.NewClient(api.URL+"/api", 5*time.Second),
		Store:     store,
		Events:    site.Events,
		Board:     ui.NewBoard(site.Slots),
		Collector: collector,
	})
	desk.Refresh(ctx)

	key, err := web.DeriveCSRFKey("browser-test")
	if err != nil {
		t.Fatalf("failed to derive CSRF key: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	srv := &http.Server{
		Addr: fmt.Sprintf("127.0.0.1:%d", port),
		Handler: web.NewRouter(web.Deps{
			Desk:               desk,
			Collector:          collector,
			Sports:             site.Sports,
			CSRFKey:            key,
			TrustedOrigins:     []string{fmt.Sprintf("127.0.0.1:%d", port)},
			RateLimitPerSecond: 100,
		}),
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	app := &testApp{BaseURL: baseURL, Server: srv, Bookings: svc, Store: store}
	t.Cleanup(func() {
		srv.Close()
		api.Close()
		db.Close()
	})

	pw, err := playwright.Run()
	if err != nil {
		t.Skipf("playwright unavailable: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		t.Skipf("chromium unavailable: %v", err)
	}
	app.PW = pw
	app.Browser = browser
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
	})
	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// open navigates to the dashboard.
func (a *testApp) open(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/"); err != nil {
		t.Fatalf("failed to navigate to dashboard: %v", err)
	}
}

// slotText returns the value shown in a report slot.
func slotText(t *testing.T, page playwright.Page, id string) string {
	t.Helper()
	text, err := page.Locator("#slot-" + id + " p").TextContent()
	if err != nil {
		t.Fatalf("failed to read slot %s: %v", id, err)
	}
	return text
}

// waitFor waits for a selector to appear.
func waitFor(t *testing.T, page playwright.Page, selector string) {
	t.Helper()
	if err := page.Locator(selector).WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatalf("%s not shown: %v", selector, err)
	}
}
