package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	usuariostore "almadash/internal/adapters/storage/usuario"
	"almadash/internal/apperr"
	"almadash/internal/application/validation"
	"almadash/internal/domain/usuario"

	"golang.org/x/crypto/bcrypt"
)

// UsuarioStore defines the usuario persistence operations the orchestrators
// need.
type UsuarioStore interface {
	GetByID(ctx context.Context, id int64) (usuario.Usuario, error)
	Insert(ctx context.Context, u usuario.Usuario) (usuario.Usuario, error)
	Update(ctx context.Context, u usuario.Usuario) error
	Delete(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
}

// CreateUsuarioInput carries input for usuario creation. Rol defaults to
// CONSULTA when empty.
type CreateUsuarioInput struct {
	Email    string
	Rol      string
	Password string
}

// CreateUsuarioDeps holds dependencies for ExecuteCreateUsuario.
type CreateUsuarioDeps struct {
	UsuarioStore UsuarioStore
}

// ExecuteCreateUsuario coordinates usuario creation.
// POST: Usuario persisted with a bcrypt password hash, email lowercased
// INVARIANT: Email is unique across usuarios
func ExecuteCreateUsuario(ctx context.Context, input CreateUsuarioInput, deps CreateUsuarioDeps) (usuario.Usuario, error) {
	if err := usuario.ValidatePassword(input.Password); err != nil {
		return usuario.Usuario{}, apperr.Validation(err)
	}

	u := usuario.Usuario{
		Email: input.Email,
		Rol:   input.Rol,
	}
	u.Normalize()
	u.ApplyDefaults()
	if err := u.Validate(); err != nil {
		return usuario.Usuario{}, apperr.Validation(err)
	}

	if err := validation.EmailUnicoUsuario(ctx, deps.UsuarioStore, u.Email, 0); err != nil {
		return usuario.Usuario{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return usuario.Usuario{}, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	created, err := deps.UsuarioStore.Insert(ctx, u)
	if errors.Is(err, usuariostore.ErrDuplicate) {
		return usuario.Usuario{}, apperr.New(apperr.KindDuplicate, "Ya existe un usuario con el email %s", u.Email)
	}
	if err != nil {
		return usuario.Usuario{}, fmt.Errorf("insert usuario: %w", err)
	}

	slog.Info("usuario_event", "event", "created", "id", created.ID, "rol", created.Rol)
	return created, nil
}

// UpdateUsuarioInput carries a partial update; nil fields stay unchanged.
type UpdateUsuarioInput struct {
	ID       int64
	Email    *string
	Rol      *string
	Password *string
}

// UpdateUsuarioDeps holds dependencies for ExecuteUpdateUsuario.
type UpdateUsuarioDeps struct {
	UsuarioStore UsuarioStore
}

// ExecuteUpdateUsuario applies a partial update to a usuario. A provided
// password is validated and rehashed; keeping the current email never counts
// as a duplicate.
// POST: Provided fields merged over the current row and persisted
func ExecuteUpdateUsuario(ctx context.Context, input UpdateUsuarioInput, deps UpdateUsuarioDeps) (usuario.Usuario, error) {
	current, err := deps.UsuarioStore.GetByID(ctx, input.ID)
	if errors.Is(err, usuariostore.ErrNotFound) {
		return usuario.Usuario{}, apperr.NotFound("Usuario no encontrado")
	}
	if err != nil {
		return usuario.Usuario{}, fmt.Errorf("load usuario %d: %w", input.ID, err)
	}

	if input.Email != nil {
		current.Email = *input.Email
	}
	if input.Rol != nil {
		current.Rol = *input.Rol
	}

	current.Normalize()
	if err := current.Validate(); err != nil {
		return usuario.Usuario{}, apperr.Validation(err)
	}

	if input.Email != nil {
		if err := validation.EmailUnicoUsuario(ctx, deps.UsuarioStore, current.Email, current.ID); err != nil {
			return usuario.Usuario{}, err
		}
	}

	if input.Password != nil {
		if err := usuario.ValidatePassword(*input.Password); err != nil {
			return usuario.Usuario{}, apperr.Validation(err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return usuario.Usuario{}, fmt.Errorf("hash password: %w", err)
		}
		current.PasswordHash = string(hash)
	}

	err = deps.UsuarioStore.Update(ctx, current)
	if errors.Is(err, usuariostore.ErrDuplicate) {
		return usuario.Usuario{}, apperr.New(apperr.KindDuplicate, "Ya existe un usuario con el email %s", current.Email)
	}
	if errors.Is(err, usuariostore.ErrNotFound) {
		return usuario.Usuario{}, apperr.NotFound("Usuario no encontrado")
	}
	if err != nil {
		return usuario.Usuario{}, fmt.Errorf("update usuario %d: %w", input.ID, err)
	}

	slog.Info("usuario_event", "event", "updated", "id", current.ID)
	return current, nil
}

// DeleteUsuarioDeps holds dependencies for ExecuteDeleteUsuario.
type DeleteUsuarioDeps struct {
	UsuarioStore UsuarioStore
}

// ExecuteDeleteUsuario deletes a usuario.
// POST: Row removed, or KindNotFound
func ExecuteDeleteUsuario(ctx context.Context, id int64, deps DeleteUsuarioDeps) error {
	if err := deps.UsuarioStore.Delete(ctx, id); err != nil {
		if errors.Is(err, usuariostore.ErrNotFound) {
			return apperr.NotFound("Usuario no encontrado")
		}
		return fmt.Errorf("delete usuario %d: %w", id, err)
	}

	slog.Info("usuario_event", "event", "deleted", "id", id)
	return nil
}
