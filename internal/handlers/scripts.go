package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/models"
)

type createScriptRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type updateScriptRequest struct {
	Code string `json:"code"`
}

type uploadScriptRequest struct {
	FileName    string `json:"fileName"`
	FileContent string `json:"fileContent"`
}

// ListScripts returns every script the registry currently holds, each
// decorated with its raw URL and loadstring.
func (h *DashboardHandler) ListScripts(w http.ResponseWriter, r *http.Request) {
	scripts, err := h.registry.List(r.Context())
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	for i := range scripts {
		h.decorate(&scripts[i])
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(scripts),
		"scripts": scripts,
	})
}

func (h *DashboardHandler) CreateScript(w http.ResponseWriter, r *http.Request) {
	var req createScriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	script, err := h.registry.Create(r.Context(), req.Name, req.Code)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.history.Record(models.ActionCreate, script.Name, usernameFromContext(r.Context()),
		fmt.Sprintf("%d bytes", script.Size))
	h.decorate(script)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    script,
	})
}

// UpdateScript replaces a script's code in place. In delegated mode
// the guard service has no update primitive, so the registry emulates
// it as delete-then-create and the returned record carries a fresh id
// and createdAt.
func (h *DashboardHandler) UpdateScript(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req updateScriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	script, err := h.registry.Update(r.Context(), name, req.Code)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.history.Record(models.ActionEdit, script.Name, usernameFromContext(r.Context()),
		fmt.Sprintf("%d bytes", script.Size))
	h.decorate(script)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    script,
	})
}

func (h *DashboardHandler) DeleteScript(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.registry.Delete(r.Context(), name); err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.history.Record(models.ActionDelete, name, usernameFromContext(r.Context()), "")
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// UploadScript derives the script name from an uploaded file name by
// stripping a .lua suffix, then behaves exactly like create. No
// content sniffing happens beyond the suffix.
func (h *DashboardHandler) UploadScript(w http.ResponseWriter, r *http.Request) {
	var req uploadScriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	name := strings.TrimSuffix(req.FileName, ".lua")

	script, err := h.registry.Create(r.Context(), name, req.FileContent)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.history.Record(models.ActionUpload, script.Name, usernameFromContext(r.Context()),
		fmt.Sprintf("uploaded %s (%d bytes)", req.FileName, script.Size))
	h.decorate(script)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    script,
	})
}
