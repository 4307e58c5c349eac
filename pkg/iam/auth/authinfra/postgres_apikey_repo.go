package authinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Abraxas-365/sift/pkg/iam/auth"
	"github.com/Abraxas-365/sift/pkg/kernel"
)

// PostgresAPIKeyRepository implements auth.APIKeyRepository using PostgreSQL
type PostgresAPIKeyRepository struct {
	db *sqlx.DB
}

func NewPostgresAPIKeyRepository(db *sqlx.DB) auth.APIKeyRepository {
	return &PostgresAPIKeyRepository{db: db}
}

type apiKeyModel struct {
	ID       string         `db:"id"`
	Name     string         `db:"name"`
	KeyHash  string         `db:"key_hash"`
	TenantID string         `db:"tenant_id"`
	Scopes   pq.StringArray `db:"scopes"`
	Revoked  bool           `db:"revoked"`
}

// FindByID retrieves an API key by its public identifier
func (r *PostgresAPIKeyRepository) FindByID(ctx context.Context, id string) (*auth.APIKey, error) {
	query := `SELECT id, name, key_hash, tenant_id, scopes, revoked FROM api_keys WHERE id = $1`

	var model apiKeyModel
	if err := r.db.GetContext(ctx, &model, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrRegistry.New(auth.CodeInvalidKey)
		}
		return nil, fmt.Errorf("find api key: %w", err)
	}

	return &auth.APIKey{
		ID:       model.ID,
		Name:     model.Name,
		KeyHash:  model.KeyHash,
		TenantID: kernel.TenantID(model.TenantID),
		Scopes:   []string(model.Scopes),
		Revoked:  model.Revoked,
	}, nil
}
