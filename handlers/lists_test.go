package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"projection/internal/auth"
	"projection/internal/result"
	"projection/models"
	"projection/services/lists"
)

type fakeLists struct {
	listsResp      result.Result[[]models.CustomList]
	membershipResp map[int64]bool
	createCalls    int
	lastCreate     lists.CreateRequest
	removeCalls    int
}

func (f *fakeLists) GetUserLists(_ context.Context, userID string) result.Result[[]models.CustomList] {
	return f.listsResp
}

func (f *fakeLists) CreateList(_ context.Context, userID string, req lists.CreateRequest) result.Result[models.CustomList] {
	f.createCalls++
	f.lastCreate = req
	return result.Ok(models.CustomList{ID: 7, Name: req.Name})
}

func (f *fakeLists) DeleteList(_ context.Context, userID string, listID int64) result.Result[struct{}] {
	return result.Ok(struct{}{})
}

func (f *fakeLists) GetListItems(_ context.Context, userID string, listID int64) result.Result[[]models.ListItem] {
	return result.Ok([]models.ListItem{})
}

func (f *fakeLists) AddToList(_ context.Context, userID string, listID, tmdbID int64, ct models.ContentType, notes string) result.Result[models.ListItem] {
	return result.Ok(models.ListItem{TMDBID: tmdbID, ContentType: ct})
}

func (f *fakeLists) RemoveFromList(_ context.Context, userID string, listID, tmdbID int64, ct models.ContentType) result.Result[struct{}] {
	f.removeCalls++
	return result.Ok(struct{}{})
}

func (f *fakeLists) CheckContentInLists(_ context.Context, userID string, tmdbID int64, ct models.ContentType) map[int64]bool {
	if f.membershipResp == nil {
		return map[int64]bool{}
	}
	return f.membershipResp
}

func TestGetPicker_CombinesListsAndMembership(t *testing.T) {
	fake := &fakeLists{
		listsResp: result.Ok([]models.CustomList{
			{ID: 1, Name: "Favorites of 2024"},
			{ID: 2, Name: "Rainy days"},
		}),
		membershipResp: map[int64]bool{1: true},
	}
	handler := NewListsHandler(fake)

	req := signedInRequest(http.MethodGet, "/", map[string]string{"mediaType": "movie", "id": "550"})
	rec := httptest.NewRecorder()
	handler.GetPicker(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data PickerResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data.Lists) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(envelope.Data.Lists))
	}
	if !envelope.Data.Membership[1] || envelope.Data.Membership[2] {
		t.Fatalf("unexpected membership %v", envelope.Data.Membership)
	}
}

func TestGetPicker_MembershipFailureDegradesToEmpty(t *testing.T) {
	// A failed membership probe yields an empty map; the dialog still opens.
	fake := &fakeLists{
		listsResp: result.Ok([]models.CustomList{{ID: 1, Name: "Favorites"}}),
	}
	handler := NewListsHandler(fake)

	req := signedInRequest(http.MethodGet, "/", map[string]string{"mediaType": "movie", "id": "550"})
	rec := httptest.NewRecorder()
	handler.GetPicker(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data PickerResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Membership == nil {
		t.Fatal("membership must be an empty map, not null")
	}
}

func TestCreateList_RequiresName(t *testing.T) {
	fake := &fakeLists{}
	handler := NewListsHandler(fake)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"  "}`))
	session := models.Session{Token: "t", User: models.SessionUser{ID: "u1"}}
	req = req.WithContext(auth.WithSession(req.Context(), session))

	rec := httptest.NewRecorder()
	handler.CreateList(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if fake.createCalls != 0 {
		t.Fatal("blank name must not reach the service")
	}
}

func TestCreateList_Success(t *testing.T) {
	fake := &fakeLists{}
	handler := NewListsHandler(fake)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Film noir","isPublic":true}`))
	session := models.Session{Token: "t", User: models.SessionUser{ID: "u1"}}
	req = req.WithContext(auth.WithSession(req.Context(), session))

	rec := httptest.NewRecorder()
	handler.CreateList(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if fake.lastCreate.Name != "Film noir" || !fake.lastCreate.IsPublic {
		t.Fatalf("unexpected create payload %+v", fake.lastCreate)
	}
}

func TestRemoveListItem_PassesThrough(t *testing.T) {
	fake := &fakeLists{}
	handler := NewListsHandler(fake)

	req := signedInRequest(http.MethodDelete, "/", map[string]string{
		"listId": "3", "mediaType": "movie", "id": "550",
	})
	rec := httptest.NewRecorder()
	handler.RemoveListItem(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if fake.removeCalls != 1 {
		t.Fatalf("expected one remove call, got %d", fake.removeCalls)
	}
}

func TestLists_AnonymousRejected(t *testing.T) {
	handler := NewListsHandler(&fakeLists{})

	rec := httptest.NewRecorder()
	handler.GetLists(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
