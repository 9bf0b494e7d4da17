package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sourcegraph/conc"

	"projection/internal/auth"
	"projection/internal/result"
	"projection/models"
	"projection/services/lists"
)

type listsService interface {
	GetUserLists(ctx context.Context, userID string) result.Result[[]models.CustomList]
	CreateList(ctx context.Context, userID string, req lists.CreateRequest) result.Result[models.CustomList]
	DeleteList(ctx context.Context, userID string, listID int64) result.Result[struct{}]
	GetListItems(ctx context.Context, userID string, listID int64) result.Result[[]models.ListItem]
	AddToList(ctx context.Context, userID string, listID, tmdbID int64, ct models.ContentType, notes string) result.Result[models.ListItem]
	RemoveFromList(ctx context.Context, userID string, listID, tmdbID int64, ct models.ContentType) result.Result[struct{}]
	CheckContentInLists(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) map[int64]bool
}

var _ listsService = (*lists.Service)(nil)

// ListsHandler serves custom list management and the add-to-list picker.
type ListsHandler struct {
	Lists listsService
}

func NewListsHandler(listsSvc listsService) *ListsHandler {
	return &ListsHandler{Lists: listsSvc}
}

// PickerResponse feeds the add-to-list dialog: every list the user owns,
// plus which of them already contain the title in question.
type PickerResponse struct {
	Lists      []models.CustomList `json:"lists"`
	Membership map[int64]bool      `json:"membership"`
}

// GetPicker handles GET /api/users/me/lists/picker/{mediaType}/{id}. The
// two fetches run concurrently; a failed membership probe degrades to an
// empty map so the dialog still opens.
func (h *ListsHandler) GetPicker(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.SessionUserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	ct, tmdbID, err := contentParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid media type or id")
		return
	}

	ctx := r.Context()
	var userLists result.Result[[]models.CustomList]
	var membership map[int64]bool

	var wg conc.WaitGroup
	wg.Go(func() {
		userLists = h.Lists.GetUserLists(ctx, user.ID)
	})
	wg.Go(func() {
		membership = h.Lists.CheckContentInLists(ctx, user.ID, tmdbID, ct)
	})
	wg.Wait()

	if !userLists.OK() {
		writeJSON(w, http.StatusBadGateway, userLists)
		return
	}
	writeJSON(w, http.StatusOK, result.Ok(PickerResponse{
		Lists:      userLists.Data(),
		Membership: membership,
	}))
}

// GetLists handles GET /api/users/me/lists.
func (h *ListsHandler) GetLists(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.SessionUserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	res := h.Lists.GetUserLists(r.Context(), user.ID)
	if !res.OK() {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CreateList handles POST /api/users/me/lists.
func (h *ListsHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.SessionUserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req lists.CreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, result.Fail[models.CustomList](result.Error{
			Message:          "Validation failed",
			ValidationErrors: map[string]string{"name": "List name is required"},
		}))
		return
	}

	res := h.Lists.CreateList(r.Context(), user.ID, req)
	if !res.OK() {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// DeleteList handles DELETE /api/users/me/lists/{listId}.
func (h *ListsHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.SessionUserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	listID, err := listParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid list id")
		return
	}
	res := h.Lists.DeleteList(r.Context(), user.ID, listID)
	if !res.OK() {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetListItems handles GET /api/users/me/lists/{listId}/items.
func (h *ListsHandler) GetListItems(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.SessionUserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	listID, err := listParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid list id")
		return
	}
	res := h.Lists.GetListItems(r.Context(), user.ID, listID)
	if !res.OK() {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// AddListItem handles POST /api/users/me/lists/{listId}/items/{mediaType}/{id}.
func (h *ListsHandler) AddListItem(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.SessionUserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	listID, err := listParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid list id")
		return
	}
	ct, tmdbID, err := contentParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid media type or id")
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	decodeBody(r, &body) // body is optional

	res := h.Lists.AddToList(r.Context(), user.ID, listID, tmdbID, ct, body.Notes)
	if !res.OK() {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// RemoveListItem handles DELETE /api/users/me/lists/{listId}/items/{mediaType}/{id}.
// Removing an item that is not in the list is reported by the backend; the
// failure envelope passes through without special-casing.
func (h *ListsHandler) RemoveListItem(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.SessionUserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	listID, err := listParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid list id")
		return
	}
	ct, tmdbID, err := contentParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid media type or id")
		return
	}

	res := h.Lists.RemoveFromList(r.Context(), user.ID, listID, tmdbID, ct)
	if !res.OK() {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func listParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(mux.Vars(r)["listId"]), 10, 64)
}
