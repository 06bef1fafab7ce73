package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/hoaxify/hoaxify-api/internal/config"
	"github.com/hoaxify/hoaxify-api/internal/domain"
	"github.com/hoaxify/hoaxify-api/internal/i18n"
	"github.com/hoaxify/hoaxify-api/internal/service"
)

type MockHoaxService struct {
	MockCreate func(content string, userId domain.UserId, attachmentId *domain.AttachmentId) error
	MockList   func(p domain.Pagination, userId *domain.UserId) (domain.Page[domain.HoaxView], error)
	MockDelete func(id domain.HoaxId, requesterId domain.UserId) error
}

func (m *MockHoaxService) Create(content string, userId domain.UserId, attachmentId *domain.AttachmentId) error {
	if m.MockCreate != nil {
		return m.MockCreate(content, userId, attachmentId)
	}
	return nil
}

func (m *MockHoaxService) List(p domain.Pagination, userId *domain.UserId) (domain.Page[domain.HoaxView], error) {
	if m.MockList != nil {
		return m.MockList(p, userId)
	}
	return domain.Page[domain.HoaxView]{Size: p.Size}, nil
}

func (m *MockHoaxService) Delete(id domain.HoaxId, requesterId domain.UserId) error {
	if m.MockDelete != nil {
		return m.MockDelete(id, requesterId)
	}
	return nil
}

type MockFileService struct {
	MockSaveAttachment func(data []byte) (domain.AttachmentId, error)
}

func (m *MockFileService) SaveAttachment(data []byte) (domain.AttachmentId, error) {
	if m.MockSaveAttachment != nil {
		return m.MockSaveAttachment(data)
	}
	return 1, nil
}

type MockUserService struct {
	MockRegister     func(username, email, password string) error
	MockActivate     func(token string) error
	MockList         func(p domain.Pagination, excludeId domain.UserId) (domain.Page[domain.UserView], error)
	MockGet          func(id domain.UserId) (domain.UserView, error)
	MockUpdate       func(id domain.UserId, username string, imageBase64 string, imageData []byte) (domain.UserView, error)
	MockDelete       func(id domain.UserId) error
	MockRequestReset func(email string) error
	MockReset        func(token, newPassword string) error
}

func (m *MockUserService) Register(username, email, password string) error {
	if m.MockRegister != nil {
		return m.MockRegister(username, email, password)
	}
	return nil
}

func (m *MockUserService) Activate(token string) error {
	if m.MockActivate != nil {
		return m.MockActivate(token)
	}
	return nil
}

func (m *MockUserService) List(p domain.Pagination, excludeId domain.UserId) (domain.Page[domain.UserView], error) {
	if m.MockList != nil {
		return m.MockList(p, excludeId)
	}
	return domain.Page[domain.UserView]{Size: p.Size}, nil
}

func (m *MockUserService) Get(id domain.UserId) (domain.UserView, error) {
	if m.MockGet != nil {
		return m.MockGet(id)
	}
	return domain.UserView{Id: id}, nil
}

func (m *MockUserService) Update(id domain.UserId, username string, imageBase64 string, imageData []byte) (domain.UserView, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(id, username, imageBase64, imageData)
	}
	return domain.UserView{Id: id, Username: username}, nil
}

func (m *MockUserService) Delete(id domain.UserId) error {
	if m.MockDelete != nil {
		return m.MockDelete(id)
	}
	return nil
}

func (m *MockUserService) RequestPasswordReset(email string) error {
	if m.MockRequestReset != nil {
		return m.MockRequestReset(email)
	}
	return nil
}

func (m *MockUserService) ResetPassword(token, newPassword string) error {
	if m.MockReset != nil {
		return m.MockReset(token, newPassword)
	}
	return nil
}

type MockAuthService struct {
	MockLogin  func(email, password string) (service.Credentials, error)
	MockLogout func(token string) error
}

func (m *MockAuthService) Login(email, password string) (service.Credentials, error) {
	if m.MockLogin != nil {
		return m.MockLogin(email, password)
	}
	return service.Credentials{}, nil
}

func (m *MockAuthService) Logout(token string) error {
	if m.MockLogout != nil {
		return m.MockLogout(token)
	}
	return nil
}

type MockStaticDirs struct {
	Profile    string
	Attachment string
}

func (m *MockStaticDirs) ProfileDir() string    { return m.Profile }
func (m *MockStaticDirs) AttachmentDir() string { return m.Attachment }

type testServices struct {
	hoax   *MockHoaxService
	file   *MockFileService
	user   *MockUserService
	auth   *MockAuthService
	static *MockStaticDirs
}

// newTestHandler builds a Handler over mocks, a real message catalog and
// default config, plus a router matching the production route templates so
// path variables resolve.
func newTestHandler(t *testing.T, svc testServices) (*Handler, *mux.Router) {
	t.Helper()

	if svc.hoax == nil {
		svc.hoax = &MockHoaxService{}
	}
	if svc.file == nil {
		svc.file = &MockFileService{}
	}
	if svc.user == nil {
		svc.user = &MockUserService{}
	}
	if svc.auth == nil {
		svc.auth = &MockAuthService{}
	}
	if svc.static == nil {
		svc.static = &MockStaticDirs{}
	}

	catalog, err := i18n.New()
	require.NoError(t, err)
	h := New(svc.hoax, svc.file, svc.user, svc.auth, svc.static, catalog, config.Default())

	r := mux.NewRouter()
	api := r.PathPrefix("/api/1.0").Subrouter()
	api.HandleFunc("/hoaxes", h.CreateHoax).Methods(http.MethodPost)
	api.HandleFunc("/hoaxes", h.ListHoaxes).Methods(http.MethodGet)
	api.HandleFunc("/hoaxes/{id}", h.DeleteHoax).Methods(http.MethodDelete)
	api.HandleFunc("/hoaxes/attachments", h.UploadAttachment).Methods(http.MethodPost)
	api.HandleFunc("/users", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/token/{token}", h.Activate).Methods(http.MethodPost)
	api.HandleFunc("/users/{userId}/hoaxes", h.ListHoaxes).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", h.GetUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", h.UpdateUser).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}", h.DeleteUser).Methods(http.MethodDelete)
	api.HandleFunc("/auth", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)
	api.HandleFunc("/user/password", h.RequestPasswordReset).Methods(http.MethodPost)
	api.HandleFunc("/user/password", h.ResetPassword).Methods(http.MethodPut)
	r.HandleFunc("/images/{filename}", h.ServeProfileImage).Methods(http.MethodGet)
	r.HandleFunc("/attachments/{filename}", h.ServeAttachment).Methods(http.MethodGet)

	return h, r
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}
