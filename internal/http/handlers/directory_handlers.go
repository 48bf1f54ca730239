package handlers

import (
	"net/http"

	"github.com/diagnosis/founder-playbook/internal/catalog"
	"github.com/diagnosis/founder-playbook/internal/domain"
	"github.com/diagnosis/founder-playbook/internal/http/response"
)

// ListProviders handles GET /providers?search&category&priceRange&limit&skip&seed
func (h *Handlers) ListProviders(w http.ResponseWriter, r *http.Request) {
	page, err := h.directory.ListProviders(r.Context(), catalog.Compile(r.URL.Query()))
	if err != nil {
		response.FromError(w, r, err, "", "Failed to fetch providers")
		return
	}
	response.WriteJSON(w, http.StatusOK, page)
}

func (h *Handlers) GetProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "Provider not found")
	if !ok {
		return
	}
	p, err := h.directory.GetProvider(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err, "Provider not found", "Failed to fetch provider")
		return
	}
	response.WriteJSON(w, http.StatusOK, p)
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.directory.ListCategories(r.Context())
	if err != nil {
		response.FromError(w, r, err, "", "Failed to fetch categories")
		return
	}
	response.WriteJSON(w, http.StatusOK, cats)
}

// Admin

func (h *Handlers) AdminListProviders(w http.ResponseWriter, r *http.Request) {
	ps, err := h.directory.AdminListProviders(r.Context())
	if err != nil {
		response.FromError(w, r, err, "", "Failed to fetch providers")
		return
	}
	response.WriteJSON(w, http.StatusOK, ps)
}

func (h *Handlers) CreateProvider(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeProviderFields(w, r)
	if err != nil {
		response.FromError(w, r, err, "", "Failed to create provider")
		return
	}
	p, err := h.directory.CreateProvider(r.Context(), fields)
	if err != nil {
		response.FromError(w, r, err, "", "Failed to create provider")
		return
	}
	response.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handlers) UpdateProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "Provider not found")
	if !ok {
		return
	}
	fields, err := decodeProviderFields(w, r)
	if err != nil {
		response.FromError(w, r, err, "", "Failed to update provider")
		return
	}
	p, err := h.directory.UpdateProvider(r.Context(), id, fields)
	if err != nil {
		response.FromError(w, r, err, "Provider not found", "Failed to update provider")
		return
	}
	response.WriteJSON(w, http.StatusOK, p)
}

func (h *Handlers) DeleteProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "Provider not found")
	if !ok {
		return
	}
	if err := h.directory.DeleteProvider(r.Context(), id); err != nil {
		response.FromError(w, r, err, "Provider not found", "Failed to delete provider")
		return
	}
	writeOK(w, "Provider deleted")
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in domain.CategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.directory.CreateCategory(r.Context(), in)
	if err != nil {
		response.FromError(w, r, err, "", "Failed to create category")
		return
	}
	response.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "Category not found")
	if !ok {
		return
	}
	var in domain.CategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.directory.UpdateCategory(r.Context(), id, in)
	if err != nil {
		response.FromError(w, r, err, "Category not found", "Failed to update category")
		return
	}
	response.WriteJSON(w, http.StatusOK, c)
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "Category not found")
	if !ok {
		return
	}
	if err := h.directory.DeleteCategory(r.Context(), id); err != nil {
		response.FromError(w, r, err, "Category not found", "Failed to delete category")
		return
	}
	writeOK(w, "Category deleted")
}
