// Package mozutest runs an in-memory stand-in for the platform's auth and
// customer endpoints so clients can be exercised without a sandbox tenant.
package mozutest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/LatinWarrior/mozu-toolkit/pkg/mozu"
)

const (
	ApplicationID = "test.app.1.0.0.release"
	SharedSecret  = "test-shared-secret"
	TenantID      = 1234
)

// Request is a recorded inbound call
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Server is a fake platform. Zero-valued expirations default to one hour for
// access tokens and ten hours for refresh tokens.
type Server struct {
	*httptest.Server

	AccessTokenLifetime  time.Duration
	RefreshTokenLifetime time.Duration

	mu            sync.Mutex
	tokenSeq      int
	validTokens   map[string]bool
	refreshTokens map[string]bool
	authCalls     int
	refreshCalls  int
	nextID        int
	segments      map[int]*mozu.CustomerSegment
	members       map[int]map[int]bool
	accounts      map[int]*mozu.CustomerAccount
	requests      []Request
	failures      []int
}

func NewServer() *Server {
	s := &Server{
		validTokens:   make(map[string]bool),
		refreshTokens: make(map[string]bool),
		segments:      make(map[int]*mozu.CustomerSegment),
		members:       make(map[int]map[int]bool),
		accounts:      make(map[int]*mozu.CustomerAccount),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/platform/applications/authtickets/{$}", s.handleAuthenticate)
	mux.HandleFunc("PUT /api/platform/applications/authtickets/refresh-ticket", s.handleRefresh)

	mux.HandleFunc("GET /api/commerce/customer/segments/{$}", s.authorized(s.handleListSegments))
	mux.HandleFunc("POST /api/commerce/customer/segments/{$}", s.authorized(s.handleAddSegment))
	mux.HandleFunc("GET /api/commerce/customer/segments/{id}", s.authorized(s.handleGetSegment))
	mux.HandleFunc("PUT /api/commerce/customer/segments/{id}", s.authorized(s.handleUpdateSegment))
	mux.HandleFunc("DELETE /api/commerce/customer/segments/{id}", s.authorized(s.handleDeleteSegment))
	mux.HandleFunc("POST /api/commerce/customer/segments/{id}/accounts", s.authorized(s.handleAddSegmentAccounts))
	mux.HandleFunc("DELETE /api/commerce/customer/segments/{id}/accounts/{accountId}", s.authorized(s.handleRemoveSegmentAccount))

	mux.HandleFunc("POST /api/commerce/customer/accounts/Add-Accounts", s.authorized(s.handleAddAccounts))
	mux.HandleFunc("GET /api/commerce/customer/accounts/{id}", s.authorized(s.handleGetAccount))
	mux.HandleFunc("DELETE /api/commerce/customer/accounts/{id}", s.authorized(s.handleDeleteAccount))

	s.Server = httptest.NewServer(s.record(mux))
	return s
}

// FailNext makes the next requests respond with the given statuses, in order.
func (s *Server) FailNext(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, statuses...)
}

// IssueToken mints a valid claim without going through the auth endpoint.
func (s *Server) IssueToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, _ := s.mintLocked()
	return token
}

// RevokeTokens invalidates every issued access token.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validTokens = make(map[string]bool)
}

func (s *Server) AuthCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authCalls
}

func (s *Server) RefreshCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshCalls
}

// Requests returns the recorded requests, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Segment returns a stored segment and its member account ids.
func (s *Server) Segment(id int) (*mozu.CustomerSegment, []int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seg, ok := s.segments[id]
	if !ok {
		return nil, nil, false
	}
	copied := *seg
	members := make([]int, 0, len(s.members[id]))
	for accountID := range s.members[id] {
		members = append(members, accountID)
	}
	sort.Ints(members)
	return &copied, members, true
}

// HasAccount reports whether an account exists.
func (s *Server) HasAccount(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[id]
	return ok
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone(), Body: body})
		var fail int
		if len(s.failures) > 0 {
			fail = s.failures[0]
			s.failures = s.failures[1:]
		}
		s.mu.Unlock()

		if fail != 0 {
			writeError(w, fail, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		ok := s.validTokens[r.Header.Get("x-vol-app-claims")]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid app claim")
			return
		}
		if r.Header.Get("x-vol-tenant") != strconv.Itoa(TenantID) {
			writeError(w, http.StatusBadRequest, "unknown tenant")
			return
		}
		next(w, r)
	}
}

func (s *Server) mintLocked() (string, string) {
	s.tokenSeq++
	access := fmt.Sprintf("access-%d", s.tokenSeq)
	refresh := fmt.Sprintf("refresh-%d", s.tokenSeq)
	s.validTokens[access] = true
	s.refreshTokens[refresh] = true
	return access, refresh
}

func (s *Server) ticketLocked() mozu.AuthTicket {
	accessLifetime := s.AccessTokenLifetime
	if accessLifetime == 0 {
		accessLifetime = time.Hour
	}
	refreshLifetime := s.RefreshTokenLifetime
	if refreshLifetime == 0 {
		refreshLifetime = 10 * time.Hour
	}
	access, refresh := s.mintLocked()
	now := time.Now().UTC()
	return mozu.AuthTicket{
		AccessToken:            access,
		AccessTokenExpiration:  mozu.APITime{Time: now.Add(accessLifetime)},
		RefreshToken:           refresh,
		RefreshTokenExpiration: mozu.APITime{Time: now.Add(refreshLifetime)},
	}
}

func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var info mozu.AppAuthInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if info.ApplicationID != ApplicationID || info.SharedSecret != SharedSecret {
		writeError(w, http.StatusUnauthorized, "invalid application credentials")
		return
	}

	s.mu.Lock()
	s.authCalls++
	ticket := s.ticketLocked()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, ticket)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req mozu.RefreshTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.refreshTokens[req.RefreshToken] {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	delete(s.refreshTokens, req.RefreshToken)
	s.refreshCalls++
	writeJSON(w, http.StatusOK, s.ticketLocked())
}

func (s *Server) handleListSegments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.segments))
	for id := range s.segments {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	startIndex, _ := strconv.Atoi(r.URL.Query().Get("startIndex"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize <= 0 {
		pageSize = 20
	}

	collection := mozu.CustomerSegmentCollection{
		StartIndex: startIndex,
		PageSize:   pageSize,
		TotalCount: len(ids),
		PageCount:  (len(ids) + pageSize - 1) / pageSize,
		Items:      []mozu.CustomerSegment{},
	}
	for i := startIndex; i < len(ids) && i < startIndex+pageSize; i++ {
		collection.Items = append(collection.Items, *s.segments[ids[i]])
	}
	writeJSON(w, http.StatusOK, collection)
}

func (s *Server) handleAddSegment(w http.ResponseWriter, r *http.Request) {
	var seg mozu.CustomerSegment
	if err := json.NewDecoder(r.Body).Decode(&seg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if seg.Code == "" || seg.Name == "" {
		writeError(w, http.StatusBadRequest, "code and name are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.segments {
		if existing.Code == seg.Code {
			writeError(w, http.StatusConflict, "segment code already exists")
			return
		}
	}
	s.nextID++
	seg.ID = s.nextID
	now := mozu.APITime{Time: time.Now().UTC()}
	seg.AuditInfo = &mozu.AuditInfo{CreateBy: ApplicationID, CreateDate: now, UpdateBy: ApplicationID, UpdateDate: now}
	s.segments[seg.ID] = &seg
	writeJSON(w, http.StatusCreated, seg)
}

func (s *Server) handleGetSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	seg, found := s.segments[id]
	if !found {
		writeError(w, http.StatusNotFound, "segment not found")
		return
	}
	writeJSON(w, http.StatusOK, seg)
}

func (s *Server) handleUpdateSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var seg mozu.CustomerSegment
	if err := json.NewDecoder(r.Body).Decode(&seg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, found := s.segments[id]
	if !found {
		writeError(w, http.StatusNotFound, "segment not found")
		return
	}
	// Full replace: fields missing from the body are cleared.
	seg.ID = id
	seg.AuditInfo = existing.AuditInfo
	if seg.AuditInfo != nil {
		seg.AuditInfo.UpdateDate = mozu.APITime{Time: time.Now().UTC()}
	}
	s.segments[id] = &seg
	writeJSON(w, http.StatusOK, seg)
}

func (s *Server) handleDeleteSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.segments[id]; !found {
		writeError(w, http.StatusNotFound, "segment not found")
		return
	}
	delete(s.segments, id)
	delete(s.members, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddSegmentAccounts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var accountIDs []int
	if err := json.NewDecoder(r.Body).Decode(&accountIDs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.segments[id]; !found {
		writeError(w, http.StatusNotFound, "segment not found")
		return
	}
	for _, accountID := range accountIDs {
		if _, found := s.accounts[accountID]; !found {
			writeError(w, http.StatusNotFound, fmt.Sprintf("account %d not found", accountID))
			return
		}
	}
	if s.members[id] == nil {
		s.members[id] = make(map[int]bool)
	}
	for _, accountID := range accountIDs {
		s.members[id][accountID] = true
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveSegmentAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	accountID, ok := pathID(w, r, "accountId")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.members[id][accountID] {
		writeError(w, http.StatusNotFound, "account is not in segment")
		return
	}
	delete(s.members[id], accountID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddAccounts(w http.ResponseWriter, r *http.Request) {
	var infos []mozu.CustomerAccountAndAuthInfo
	if err := json.NewDecoder(r.Body).Decode(&infos); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	collection := mozu.CustomerAccountCollection{Items: []mozu.CustomerAccount{}}
	for _, info := range infos {
		if info.Account == nil || info.Password == "" {
			writeError(w, http.StatusBadRequest, "account and password are required")
			return
		}
		s.nextID++
		account := *info.Account
		account.ID = s.nextID
		account.IsActive = true
		s.accounts[account.ID] = &account
		collection.Items = append(collection.Items, account)
	}
	collection.TotalCount = len(collection.Items)
	collection.PageSize = len(collection.Items)
	collection.PageCount = 1
	writeJSON(w, http.StatusCreated, collection)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	account, found := s.accounts[id]
	if !found {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.accounts[id]; !found {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	delete(s.accounts, id)
	for _, members := range s.members {
		delete(members, id)
	}
	w.WriteHeader(http.StatusNoContent)
}
