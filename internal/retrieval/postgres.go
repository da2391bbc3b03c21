package retrieval

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/vedantkasargod/walmart-x1/internal/domain"
)

// PostgresSearcher runs the hybrid (keyword + semantic) product search
// through the hybrid_search_products SQL function. The keyword half gets the
// raw query text; the semantic half gets its embedding.
type PostgresSearcher struct {
	db    *sql.DB
	embed Embedder
	log   *zap.Logger
}

func NewPostgresSearcher(db *sql.DB, embed Embedder, log *zap.Logger) *PostgresSearcher {
	return &PostgresSearcher{
		db:    db,
		embed: embed,
		log:   log,
	}
}

func (s *PostgresSearcher) Search(ctx context.Context, query string, threshold float64, count int) ([]domain.Product, error) {
	vec, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", domain.ErrExternalService, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, price, image_url, similarity
		 FROM hybrid_search_products($1, $2::vector, $3, $4)`,
		query, vectorLiteral(vec), threshold, count)
	if err != nil {
		return nil, fmt.Errorf("hybrid search query: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var description, imageURL sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &description, &p.Price, &imageURL, &p.Similarity); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		p.Description = description.String
		p.ImageURL = imageURL.String
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	s.log.Info("hybrid search complete",
		zap.String("query", query),
		zap.Int("matches", len(products)))
	return products, nil
}

// vectorLiteral renders a pgvector input literal, e.g. "[0.1,0.2,0.3]".
func vectorLiteral(vec []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
