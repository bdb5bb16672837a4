package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tfd-service/internal/model"
)

type UsuarioRepository struct {
	db *gorm.DB
}

func NewUsuarioRepository(db *gorm.DB) *UsuarioRepository {
	return &UsuarioRepository{db: db}
}

// ResolveUnidade returns the unit a UBS user is attached to, restricting
// their case visibility. Other roles see everything (nil unit).
func (r *UsuarioRepository) ResolveUnidade(ctx context.Context, principal model.Principal) (*uuid.UUID, error) {
	if !principal.IsUBS() {
		return nil, nil
	}
	var usuario model.Usuario
	err := r.db.WithContext(ctx).First(&usuario, "id = ?", principal.UserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return usuario.UnidadeID, nil
}
