// Package client implements the terminal client's server API wrapper and
// local session persistence.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/saathi/saathi-go/internal/models"
)

const (
	apiRegister     = "/api/register"
	apiLogin        = "/api/login"
	apiLogout       = "/api/logout"
	apiSession      = "/api/session"
	apiChat         = "/api/chat"
	apiMoods        = "/api/moods"
	apiSubscription = "/api/subscription"
	apiUpgrade      = "/api/subscription/upgrade"
	apiCredential   = "/api/credential"
)

// AuthReply is the server's response to register and login.
type AuthReply struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// SubmitReply is the server's response to a chat submission.
type SubmitReply struct {
	Outcome  string               `json:"outcome"`
	Messages []models.ChatMessage `json:"messages"`
}

// ChatPage is the transcript plus the free-tier counter.
type ChatPage struct {
	Messages   []models.ChatMessage `json:"messages"`
	TodayCount int                  `json:"today_count"`
	DailyLimit int                  `json:"daily_limit"`
}

// MoodPage is the mood log plus the fixed picker catalog.
type MoodPage struct {
	Entries []models.MoodEntry `json:"entries"`
	Catalog []models.Mood      `json:"catalog"`
}

// API is an HTTP wrapper around the Saathi server. It carries the bearer
// token between calls; callers persist it via LocalSession.
type API struct {
	http    *http.Client
	baseURL string
	token   string
}

// New constructs an API client against the given base URL.
func New(baseURL string) *API {
	return &API{http: &http.Client{}, baseURL: baseURL}
}

// SetToken installs the bearer token used for protected endpoints.
func (a *API) SetToken(token string) { a.token = token }

// Token returns the current bearer token, empty when signed out.
func (a *API) Token() string { return a.token }

// do sends one JSON request and decodes the response into out (when out is
// non-nil). Non-2xx responses are returned as errors carrying the server's
// error message.
func (a *API) do(method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(method, a.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	res, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(res.Body).Decode(&e) == nil && e.Error != "" {
			return fmt.Errorf("%s", e.Error)
		}
		return fmt.Errorf("server returned status %d", res.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// Register creates an account and signs the client in.
func (a *API) Register(email, password, name string) (AuthReply, error) {
	var reply AuthReply
	err := a.do(http.MethodPost, apiRegister, map[string]string{
		"email": email, "password": password, "name": name,
	}, &reply)
	if err == nil {
		a.token = reply.Token
	}
	return reply, err
}

// Login signs the client in.
func (a *API) Login(email, password string) (AuthReply, error) {
	var reply AuthReply
	err := a.do(http.MethodPost, apiLogin, map[string]string{
		"email": email, "password": password,
	}, &reply)
	if err == nil {
		a.token = reply.Token
	}
	return reply, err
}

// Logout clears the server-side session pointer and drops the token.
func (a *API) Logout() error {
	err := a.do(http.MethodPost, apiLogout, nil, nil)
	if err == nil {
		a.token = ""
	}
	return err
}

// Session resolves the signed-in user, restoring a session after restart.
func (a *API) Session() (models.User, error) {
	var reply struct {
		User models.User `json:"user"`
	}
	err := a.do(http.MethodGet, apiSession, nil, &reply)
	return reply.User, err
}

// Submit sends one chat message through the server's submission flow.
func (a *API) Submit(message string) (SubmitReply, error) {
	var reply SubmitReply
	err := a.do(http.MethodPost, apiChat, map[string]string{"message": message}, &reply)
	return reply, err
}

// History fetches the transcript and today's message count.
func (a *API) History() (ChatPage, error) {
	var page ChatPage
	err := a.do(http.MethodGet, apiChat, nil, &page)
	return page, err
}

// RecordMood appends one mood check-in.
func (a *API) RecordMood(label string) (models.MoodEntry, error) {
	var entry models.MoodEntry
	err := a.do(http.MethodPost, apiMoods, map[string]string{"mood": label}, &entry)
	return entry, err
}

// Moods fetches the mood log and the picker catalog.
func (a *API) Moods() (MoodPage, error) {
	var page MoodPage
	err := a.do(http.MethodGet, apiMoods, nil, &page)
	return page, err
}

// Subscription fetches the current tier.
func (a *API) Subscription() (models.Subscription, error) {
	var sub models.Subscription
	err := a.do(http.MethodGet, apiSubscription, nil, &sub)
	return sub, err
}

// Upgrade switches the account to premium.
func (a *API) Upgrade() (models.Subscription, error) {
	var sub models.Subscription
	err := a.do(http.MethodPost, apiUpgrade, nil, &sub)
	return sub, err
}

// SetCredential stores the completion API key on the server.
func (a *API) SetCredential(credential string) error {
	return a.do(http.MethodPut, apiCredential, map[string]string{"credential": credential}, nil)
}

// HasCredential reports whether a completion API key is stored.
func (a *API) HasCredential() (bool, error) {
	var reply struct {
		Present bool `json:"present"`
	}
	err := a.do(http.MethodGet, apiCredential, nil, &reply)
	return reply.Present, err
}
