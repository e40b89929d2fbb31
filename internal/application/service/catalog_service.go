package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sangkips/scanpay/internal/domain/entity"
	"github.com/sangkips/scanpay/internal/domain/repository"
)

const notAvailable = "N/A"

// ProductCard is a product on the home screen with its purchase count
type ProductCard struct {
	entity.Product
	Popularity int `json:"popularity"`
}

// MapSlot is a product on the store map
type MapSlot struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Brand  string  `json:"brand"`
	Price  float64 `json:"price"`
	Floor  string  `json:"floor"`
	Row    string  `json:"row"`
	Column string  `json:"column"`
	Drawer string  `json:"drawer"`
	Label  string  `json:"label"`
}

// CatalogService serves the browsing screens
type CatalogService struct {
	catalog repository.CatalogRepository
	log     *zap.Logger
}

func NewCatalogService(catalog repository.CatalogRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, log: log.Named("catalog")}
}

// Home fetches products and popularity together. Popularity is keyed by
// product name; products nobody bought count 0.
func (s *CatalogService) Home(ctx context.Context) ([]ProductCard, error) {
	var (
		products   []entity.Product
		popularity []entity.Popularity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.catalog.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		popularity, err = s.catalog.Popularity(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("failed to load home screen", zap.Error(err))
		return nil, catalogError(err)
	}

	counts := make(map[string]int, len(popularity))
	for _, p := range popularity {
		counts[p.ID] = p.Count
	}

	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, ProductCard{Product: p, Popularity: counts[p.Name]})
	}
	return cards, nil
}

func (s *CatalogService) StoreMap(ctx context.Context) ([]MapSlot, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		s.log.Warn("failed to load store map", zap.Error(err))
		return nil, catalogError(err)
	}

	slots := make([]MapSlot, 0, len(products))
	for _, p := range products {
		slots = append(slots, toMapSlot(p))
	}
	return slots, nil
}

func toMapSlot(p entity.Product) MapSlot {
	loc := p.Location
	if loc == nil {
		loc = &entity.Location{}
	}
	slot := MapSlot{
		ID:     p.ID,
		Name:   p.Name,
		Brand:  orNA(p.Brand),
		Price:  p.Price,
		Floor:  intOrNA(loc.Floor),
		Row:    intOrNA(loc.Row),
		Column: intOrNA(loc.Column),
		Drawer: intOrNA(loc.Drawer),
	}
	slot.Label = fmt.Sprintf("R%s-C%s-D%s", slot.Row, slot.Column, slot.Drawer)
	return slot
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func intOrNA(v *int) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprint(*v)
}
