package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// staticTokens is a TokenSource with a fixed token.
type staticTokens struct{ token string }

func (s staticTokens) Token(context.Context) (string, bool) {
	return s.token, s.token != ""
}

// newFakeBackend builds a chi router standing in for the panel backend.
// Each test registers only the routes it exercises.
func newFakeBackend(register func(r chi.Router)) *httptest.Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	register(r)
	return httptest.NewServer(r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin_Success(t *testing.T) {
	srv := newFakeBackend(func(r chi.Router) {
		r.Post("/auth/login", func(w http.ResponseWriter, req *http.Request) {
			var body map[string]string
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: "bad json"})
				return
			}
			if body["email"] != "a@b.com" || body["masterCode"] != "123456" {
				writeJSON(w, http.StatusOK, errorEnvelope{Error: "invalid credentials"})
				return
			}
			writeJSON(w, http.StatusOK, authResponse{
				Token: "tok-abc",
				User:  User{ID: "user-1", Email: "a@b.com", Name: "Alice", Role: "admin", HouseholdID: "house-1"},
			})
		})
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	res, err := client.Login(context.Background(), "a@b.com", "123456")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token != "tok-abc" {
		t.Errorf("token = %q, want tok-abc", res.Token)
	}
	if res.User.ID != "user-1" || res.User.Role != "admin" {
		t.Errorf("user = %+v", res.User)
	}
}

func TestLogin_ErrorFieldOn200(t *testing.T) {
	// The auth endpoints answer 200 with an error field on rejection; that
	// must surface as a RemoteError, not a silent success.
	srv := newFakeBackend(func(r chi.Router) {
		r.Post("/auth/login", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, errorEnvelope{Error: "invalid credentials"})
		})
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Login(context.Background(), "a@b.com", "wrong")

	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("Login = %v, want RemoteError", err)
	}
	if re.Message != "invalid credentials" {
		t.Errorf("message = %q", re.Message)
	}
}

func TestDo_RequestHeaders(t *testing.T) {
	var gotAuth, gotRequestID, gotAccept string
	srv := newFakeBackend(func(r chi.Router) {
		r.Get("/users/me", func(w http.ResponseWriter, req *http.Request) {
			gotAuth = req.Header.Get("Authorization")
			gotRequestID = req.Header.Get("X-Request-ID")
			gotAccept = req.Header.Get("Accept")
			writeJSON(w, http.StatusOK, User{ID: "user-1"})
		})
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, WithTokenSource(staticTokens{"tok-xyz"}))
	if _, err := client.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}

	if gotAuth != "Bearer tok-xyz" {
		t.Errorf("Authorization = %q, want Bearer tok-xyz", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID should be set")
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
}

func TestDo_NoTokenNoAuthHeader(t *testing.T) {
	var sawAuth bool
	srv := newFakeBackend(func(r chi.Router) {
		r.Get("/users/me", func(w http.ResponseWriter, req *http.Request) {
			sawAuth = req.Header.Get("Authorization") != ""
			writeJSON(w, http.StatusOK, User{})
		})
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, WithTokenSource(staticTokens{}))
	if _, err := client.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if sawAuth {
		t.Error("no Authorization header without a session")
	}
}

func TestDo_UnauthorizedFiresHook(t *testing.T) {
	srv := newFakeBackend(func(r chi.Router) {
		r.Get("/devices", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusUnauthorized, errorEnvelope{Error: "token expired"})
		})
	})
	defer srv.Close()

	var fired atomic.Int32
	client := NewClient(srv.URL, time.Second,
		WithOnUnauthorized(func() { fired.Add(1) }))

	_, err := client.ListDevices(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("ListDevices = %v, want 401 RemoteError", err)
	}
	if fired.Load() != 1 {
		t.Errorf("hook fired %d times, want 1", fired.Load())
	}
}

func TestDo_NonOKStatus(t *testing.T) {
	srv := newFakeBackend(func(r chi.Router) {
		r.Get("/devices/{id}", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusNotFound, errorEnvelope{Error: "no such device"})
		})
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.GetDevice(context.Background(), "dev-9")

	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("GetDevice = %v, want RemoteError", err)
	}
	if re.Status != http.StatusNotFound || re.Message != "no such device" {
		t.Errorf("RemoteError = %+v", re)
	}
}

func TestDo_TransportFailure(t *testing.T) {
	srv := newFakeBackend(func(chi.Router) {})
	srv.Close() // nothing listening

	client := NewClient(srv.URL, 200*time.Millisecond)
	_, err := client.ListDevices(context.Background())

	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("ListDevices = %v, want NetworkError", err)
	}
	if ne.Op != "GET /devices" {
		t.Errorf("op = %q", ne.Op)
	}
}

func TestDo_UndecodableBody(t *testing.T) {
	srv := newFakeBackend(func(r chi.Router) {
		r.Get("/devices", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("<html>not json</html>"))
		})
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.ListDevices(context.Background())

	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Errorf("ListDevices = %v, want NetworkError for undecodable body", err)
	}
}

func TestListDevices(t *testing.T) {
	srv := newFakeBackend(func(r chi.Router) {
		r.Get("/devices", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"devices": []Device{
					{ID: "dev-1", Name: "Lamp", Type: "light", Status: "online", Active: true, Room: "Living Room"},
					{ID: "dev-2", Name: "Thermostat", Type: "climate", Status: "online", Room: "Hall"},
				},
			})
		})
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	devices, err := client.ListDevices(context.Background())
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if len(devices) != 2 || devices[0].ID != "dev-1" || devices[1].Room != "Hall" {
		t.Errorf("devices = %+v", devices)
	}
}

func TestDeviceAction_Payload(t *testing.T) {
	var got deviceActionRequest
	srv := newFakeBackend(func(r chi.Router) {
		r.Post("/devices/{id}/action", func(w http.ResponseWriter, req *http.Request) {
			if chi.URLParam(req, "id") != "dev-1" {
				writeJSON(w, http.StatusNotFound, errorEnvelope{Error: "no such device"})
				return
			}
			if err := json.NewDecoder(req.Body).Decode(&got); err != nil {
				writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: "bad json"})
				return
			}
			writeJSON(w, http.StatusOK, successResponse{Success: true})
		})
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	value := 72.5
	if err := client.DeviceAction(context.Background(), "dev-1", "set_value", &value); err != nil {
		t.Fatalf("DeviceAction: %v", err)
	}
	if got.Action != "set_value" || got.Value == nil || *got.Value != 72.5 {
		t.Errorf("payload = %+v", got)
	}
}

func TestDeviceAction_AckError(t *testing.T) {
	srv := newFakeBackend(func(r chi.Router) {
		r.Post("/devices/{id}/action", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, successResponse{Error: "device offline"})
		})
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	err := client.DeviceAction(context.Background(), "dev-1", "turn_on", nil)

	var re *RemoteError
	if !errors.As(err, &re) || re.Message != "device offline" {
		t.Errorf("DeviceAction = %v, want ack RemoteError", err)
	}
}

func TestSetRecording(t *testing.T) {
	var gotAction string
	srv := newFakeBackend(func(r chi.Router) {
		r.Post("/cameras/{id}/record", func(w http.ResponseWriter, req *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(req.Body).Decode(&body)
			gotAction = body["action"]
			writeJSON(w, http.StatusOK, successResponse{Success: true})
		})
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	if err := client.SetRecording(context.Background(), "cam-1", true); err != nil {
		t.Fatalf("SetRecording: %v", err)
	}
	if gotAction != "start" {
		t.Errorf("action = %q, want start", gotAction)
	}

	if err := client.SetRecording(context.Background(), "cam-1", false); err != nil {
		t.Fatalf("SetRecording stop: %v", err)
	}
	if gotAction != "stop" {
		t.Errorf("action = %q, want stop", gotAction)
	}
}

func TestResetMasterCode_EscapesToken(t *testing.T) {
	var gotToken string
	srv := newFakeBackend(func(r chi.Router) {
		r.Post("/auth/reset-password/{token}", func(w http.ResponseWriter, req *http.Request) {
			gotToken = chi.URLParam(req, "token")
			writeJSON(w, http.StatusOK, successResponse{Success: true})
		})
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	if err := client.ResetMasterCode(context.Background(), "reset-token-1", "654321"); err != nil {
		t.Fatalf("ResetMasterCode: %v", err)
	}
	if gotToken != "reset-token-1" {
		t.Errorf("token = %q", gotToken)
	}
}
