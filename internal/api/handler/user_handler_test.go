package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/retailops/user-management/internal/core/ports"
)

type stubUserService struct {
	listUsers         func(ctx context.Context) ([]ports.UserView, error)
	getUserByID       func(ctx context.Context, id int64) (*ports.UserView, error)
	getUserByUsername func(ctx context.Context, username string) (*ports.UserView, error)
	getUserByName     func(ctx context.Context, name string) (*ports.UserView, error)
	createUser        func(ctx context.Context, in ports.CreateUserInput) (*ports.UserView, error)
	updateUser        func(ctx context.Context, id int64, in ports.UpdateUserInput) (*ports.UserView, error)
	deleteUser        func(ctx context.Context, id int64) error
	changePassword    func(ctx context.Context, id int64, oldPassword, newPassword string) error
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]ports.UserView, error) {
	return s.listUsers(ctx)
}

func (s *stubUserService) GetUserByID(ctx context.Context, id int64) (*ports.UserView, error) {
	return s.getUserByID(ctx, id)
}

func (s *stubUserService) GetUserByUsername(ctx context.Context, username string) (*ports.UserView, error) {
	return s.getUserByUsername(ctx, username)
}

func (s *stubUserService) GetUserByName(ctx context.Context, name string) (*ports.UserView, error) {
	return s.getUserByName(ctx, name)
}

func (s *stubUserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*ports.UserView, error) {
	return s.createUser(ctx, in)
}

func (s *stubUserService) UpdateUser(ctx context.Context, id int64, in ports.UpdateUserInput) (*ports.UserView, error) {
	return s.updateUser(ctx, id, in)
}

func (s *stubUserService) DeleteUser(ctx context.Context, id int64) error {
	return s.deleteUser(ctx, id)
}

func (s *stubUserService) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	return s.changePassword(ctx, id, oldPassword, newPassword)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sampleView() *ports.UserView {
	return &ports.UserView{ID: 1, Username: "john", Name: "John Doe", Roles: []string{"ADMIN"}, Enabled: true}
}

func TestList(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		listUsers: func(context.Context) ([]ports.UserView, error) {
			return []ports.UserView{*sampleView()}, nil
		},
	})

	c, rec := newTestContext(http.MethodGet, "/api/users", "")
	if err := h.List(c); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"username":"john"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetByID(t *testing.T) {
	var gotID int64
	h := NewUserHandler(&stubUserService{
		getUserByID: func(_ context.Context, id int64) (*ports.UserView, error) {
			gotID = id
			return sampleView(), nil
		},
	})

	c, rec := newTestContext(http.MethodGet, "/api/users/id/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.GetByID(c); err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if gotID != 1 {
		t.Fatalf("expected id 1, got %d", gotID)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGetByID_InvalidID(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	for _, raw := range []string{"abc", "0", "-3"} {
		c, _ := newTestContext(http.MethodGet, "/api/users/id/"+raw, "")
		c.SetParamNames("id")
		c.SetParamValues(raw)

		err := h.GetByID(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for id %q, got %v", raw, err)
		}
	}
}

func TestGetByID_BusinessErrorPassesThrough(t *testing.T) {
	want := ports.NewBusinessError(ports.CodeUserNotFound, "User not found.")
	h := NewUserHandler(&stubUserService{
		getUserByID: func(context.Context, int64) (*ports.UserView, error) {
			return nil, want
		},
	})

	c, _ := newTestContext(http.MethodGet, "/api/users/id/9", "")
	c.SetParamNames("id")
	c.SetParamValues("9")

	err := h.GetByID(c)
	var be *ports.BusinessError
	if !errors.As(err, &be) || be.Code != ports.CodeUserNotFound {
		t.Fatalf("expected the business error to pass through, got %v", err)
	}
}

func TestGetByUsername(t *testing.T) {
	var gotUsername string
	h := NewUserHandler(&stubUserService{
		getUserByUsername: func(_ context.Context, username string) (*ports.UserView, error) {
			gotUsername = username
			return sampleView(), nil
		},
	})

	c, rec := newTestContext(http.MethodGet, "/api/users/username/john", "")
	c.SetParamNames("username")
	c.SetParamValues("john")

	if err := h.GetByUsername(c); err != nil {
		t.Fatalf("GetByUsername returned error: %v", err)
	}
	if gotUsername != "john" {
		t.Fatalf("expected username john, got %q", gotUsername)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSearchByName(t *testing.T) {
	var gotName string
	h := NewUserHandler(&stubUserService{
		getUserByName: func(_ context.Context, name string) (*ports.UserView, error) {
			gotName = name
			return sampleView(), nil
		},
	})

	c, rec := newTestContext(http.MethodGet, "/api/users/search?name=John", "")
	if err := h.SearchByName(c); err != nil {
		t.Fatalf("SearchByName returned error: %v", err)
	}
	if gotName != "John" {
		t.Fatalf("expected name John, got %q", gotName)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCreate(t *testing.T) {
	var gotInput ports.CreateUserInput
	h := NewUserHandler(&stubUserService{
		createUser: func(_ context.Context, in ports.CreateUserInput) (*ports.UserView, error) {
			gotInput = in
			return sampleView(), nil
		},
	})

	body := `{"username":"john","password":"password1","name":"John Doe","roles":["ADMIN"]}`
	c, rec := newTestContext(http.MethodPost, "/api/users", body)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/api/users/id/1" {
		t.Fatalf("unexpected Location header: %q", loc)
	}
	if gotInput.Username != "john" || gotInput.Password != "password1" {
		t.Fatalf("unexpected input: %+v", gotInput)
	}
	if len(gotInput.Roles) != 1 || gotInput.Roles[0] != "ADMIN" {
		t.Fatalf("unexpected roles: %v", gotInput.Roles)
	}
}

func TestCreate_MissingRequiredFields(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newTestContext(http.MethodPost, "/api/users", `{"name":"John"}`)
	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	msg, _ := he.Message.(string)
	if !strings.Contains(msg, "username is required") || !strings.Contains(msg, "password is required") {
		t.Fatalf("unexpected validation message: %q", msg)
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newTestContext(http.MethodPost, "/api/users", `{"username":`)
	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	var gotID int64
	var gotInput ports.UpdateUserInput
	h := NewUserHandler(&stubUserService{
		updateUser: func(_ context.Context, id int64, in ports.UpdateUserInput) (*ports.UserView, error) {
			gotID = id
			gotInput = in
			return sampleView(), nil
		},
	})

	body := `{"name":"John Updated","roles":["CASHIER"],"enabled":false}`
	c, rec := newTestContext(http.MethodPut, "/api/users/1", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Update(c); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != 1 || gotInput.Name != "John Updated" {
		t.Fatalf("unexpected call: id=%d input=%+v", gotID, gotInput)
	}
	if gotInput.Enabled == nil || *gotInput.Enabled {
		t.Fatalf("expected enabled=false to be forwarded, got %v", gotInput.Enabled)
	}
}

func TestDelete(t *testing.T) {
	var gotID int64
	h := NewUserHandler(&stubUserService{
		deleteUser: func(_ context.Context, id int64) error {
			gotID = id
			return nil
		},
	})

	c, rec := newTestContext(http.MethodDelete, "/api/users/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
	if gotID != 1 {
		t.Fatalf("expected id 1, got %d", gotID)
	}
}

func TestChangePassword(t *testing.T) {
	var gotOld, gotNew string
	h := NewUserHandler(&stubUserService{
		changePassword: func(_ context.Context, _ int64, oldPassword, newPassword string) error {
			gotOld, gotNew = oldPassword, newPassword
			return nil
		},
	})

	body := `{"oldPassword":"password1","newPassword":"password2"}`
	c, rec := newTestContext(http.MethodPatch, "/api/users/1/change-password", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "Password changed successfully" {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
	if gotOld != "password1" || gotNew != "password2" {
		t.Fatalf("unexpected passwords forwarded: %q %q", gotOld, gotNew)
	}
}

func TestChangePassword_MissingFields(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newTestContext(http.MethodPatch, "/api/users/1/change-password", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.ChangePassword(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
