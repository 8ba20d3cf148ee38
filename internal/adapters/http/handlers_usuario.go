package web

import (
	"errors"
	"net/http"

	usuarioStore "almadash/internal/adapters/storage/usuario"
	"almadash/internal/apperr"
	"almadash/internal/application/orchestrators"
)

// handleListUsuarios handles GET /api/usuarios. Password hashes never
// serialize.
func handleListUsuarios(w http.ResponseWriter, r *http.Request) {
	usuarios, err := stores.UsuarioStore.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, usuarios)
}

// handleGetUsuario handles GET /api/usuarios/{id}.
func handleGetUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	u, err := stores.UsuarioStore.GetByID(r.Context(), id)
	if errors.Is(err, usuarioStore.ErrNotFound) {
		respondError(w, apperr.NotFound("Usuario no encontrado"))
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, u)
}

// handleCreateUsuario handles POST /api/usuarios.
// POST: 201 with the created usuario, hash omitted
func handleCreateUsuario(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Rol      string `json:"rol"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "cuerpo JSON invalido"))
		return
	}

	created, err := orchestrators.ExecuteCreateUsuario(r.Context(), orchestrators.CreateUsuarioInput{
		Email:    in.Email,
		Rol:      in.Rol,
		Password: in.Password,
	}, orchestrators.CreateUsuarioDeps{UsuarioStore: stores.UsuarioStore})
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

// handleUpdateUsuario handles PUT /api/usuarios/{id}. A provided password is
// rehashed; absent fields stay unchanged.
func handleUpdateUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var in struct {
		Email    *string `json:"email"`
		Rol      *string `json:"rol"`
		Password *string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "cuerpo JSON invalido"))
		return
	}

	updated, err := orchestrators.ExecuteUpdateUsuario(r.Context(), orchestrators.UpdateUsuarioInput{
		ID:       id,
		Email:    in.Email,
		Rol:      in.Rol,
		Password: in.Password,
	}, orchestrators.UpdateUsuarioDeps{UsuarioStore: stores.UsuarioStore})
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

// handleDeleteUsuario handles DELETE /api/usuarios/{id}.
func handleDeleteUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	err = orchestrators.ExecuteDeleteUsuario(r.Context(), id, orchestrators.DeleteUsuarioDeps{
		UsuarioStore: stores.UsuarioStore,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"message": "Usuario eliminado exitosamente", "id": id})
}
