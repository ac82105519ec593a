// Package devicetest provides an in-process fake of the station HTTP server for tests.
package devicetest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Station is a fake AWS configuration server backed by httptest
type Station struct {
	Server *httptest.Server

	mu           sync.Mutex
	config       map[string]any
	rootCA       string
	telemetry    map[string]any
	statusCodes  map[string]int
	otaMessage   string
	uptime       string
	calls        map[string]int
	lastSetBody  []byte
	lastSetCType string
	dataHook     func()
}

// NewStation starts a fake station. Call Close when done.
func NewStation() *Station {
	s := &Station{
		config:      map[string]any{},
		telemetry:   map[string]any{},
		statusCodes: map[string]int{},
		calls:       map[string]int{},
		otaMessage:  "Scheduled immediate OTA update",
		uptime:      "000d:00h:00m:00s",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/get_config", s.handle(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.config)
	}))
	mux.HandleFunc("/get_root_ca", s.handle(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, s.rootCA)
	}))
	mux.HandleFunc("/get_station_data", s.handle(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.telemetry)
	}))
	mux.HandleFunc("/set_config", s.handle(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.lastSetBody, _ = io.ReadAll(r.Body)
		s.lastSetCType = r.Header.Get("Content-Type")
		io.WriteString(w, "OK\n")
	}))
	mux.HandleFunc("/ota_update", s.handle(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, s.otaMessage)
	}))
	mux.HandleFunc("/reboot", s.handle(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	mux.HandleFunc("/get_uptime", s.handle(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, s.uptime)
	}))
	mux.HandleFunc("/activate_sensors", s.handle(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "Activated sensors")
	}))

	s.Server = httptest.NewServer(mux)
	return s
}

// handle records the call and honours a forced status code before delegating
func (s *Station) handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.URL.Path]++
		code, forced := s.statusCodes[r.URL.Path]
		hook := s.dataHook
		s.mu.Unlock()

		if r.URL.Path == "/get_station_data" && hook != nil {
			hook()
		}

		if forced && code != http.StatusOK {
			http.Error(w, http.StatusText(code), code)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// URL returns the base URL of the fake station
func (s *Station) URL() string {
	return s.Server.URL
}

// Close shuts the server down
func (s *Station) Close() {
	s.Server.Close()
}

// SetConfig replaces the record served by /get_config
func (s *Station) SetConfig(cfg map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

// SetRootCA replaces the text served by /get_root_ca
func (s *Station) SetRootCA(ca string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rootCA = ca
}

// SetTelemetry replaces the snapshot served by /get_station_data
func (s *Station) SetTelemetry(t map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.telemetry = t
}

// SetOTAMessage replaces the text served by /ota_update
func (s *Station) SetOTAMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otaMessage = msg
}

// SetUptime replaces the text served by /get_uptime
func (s *Station) SetUptime(uptime string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uptime = uptime
}

// SetStatus forces path to answer with code. http.StatusOK restores normal behaviour.
func (s *Station) SetStatus(path string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusCodes[path] = code
}

// OnStationData registers a hook run at the start of every /get_station_data request
func (s *Station) OnStationData(hook func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataHook = hook
}

// Calls returns how many requests path received
func (s *Station) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// LastSetConfig returns the decoded body and content type of the last /set_config request
func (s *Station) LastSetConfig() (map[string]any, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSetBody == nil {
		return nil, ""
	}
	var out map[string]any
	dec := json.NewDecoder(bytes.NewReader(s.lastSetBody))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, s.lastSetCType
	}
	return out, s.lastSetCType
}
