package audit

import (
	"net/http"
	"strconv"

	"vehicletracker/internal/api"
)

type Handlers struct {
	Repo *Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.Repo.ListRecent(r.Context(), limit)
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if items == nil {
		items = []Entry{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}
