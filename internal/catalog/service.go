package catalog

import (
	"fmt"

	"github.com/noah-isme/agricart-api/internal/common"
)

// Service serves the in-memory catalog. The product list is fixed at
// startup; there is no external load step.
type Service struct {
	kind     SchemeKind
	products []Product
	byID     map[int]Product
}

// NewService builds a catalog service for the given scheme kind.
func NewService(kind SchemeKind) *Service {
	if kind != SchemeTiers {
		kind = SchemeSizes
	}
	products := SeedProducts(kind)
	byID := make(map[int]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Service{kind: kind, products: products, byID: byID}
}

// SchemeKind reports the deployment's variant shape.
func (s *Service) SchemeKind() SchemeKind { return s.kind }

// List returns all products in catalog order.
func (s *Service) List() []Product {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// ByID looks up a product. Unknown identifiers yield a NOT_FOUND error.
func (s *Service) ByID(id int) (Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return Product{}, common.NotFoundError(fmt.Sprintf("product %d not found", id))
	}
	return p, nil
}
