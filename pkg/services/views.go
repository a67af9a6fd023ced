package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/models"
	"github.com/offerlens/coherence-engine/pkg/repositories"
)

// PageView is the dashboard projection of a monitored page. The discrepancy
// count is computed live from the discrepancy collection, never read from a
// stored counter.
type PageView struct {
	ID            string    `json:"id"`
	Client        string    `json:"client"`
	URL           string    `json:"url"`
	Status        string    `json:"status"`
	Discrepancies int       `json:"discrepancies"`
	LastChecked   string    `json:"lastChecked"`
	Text          string    `json:"text,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ProductView is the dashboard projection of a centre.
type ProductView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ReferencePage string `json:"referencePage"`
	Price         string `json:"price"`
	Active        bool   `json:"active"`
}

// DiscrepancyView is the dashboard projection of a discrepancy, enriched with
// client and product names resolved through the page and centre collections.
type DiscrepancyView struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Severity        string    `json:"severity"`
	Client          string    `json:"client"`
	Product         string    `json:"product"`
	Date            time.Time `json:"date"`
	Resolved        bool      `json:"resolved"`
	ResolutionNotes string    `json:"resolutionNotes,omitempty"`
}

// DataView bundles the three projections served to the dashboard.
type DataView struct {
	Pages         []PageView        `json:"pages"`
	Products      []ProductView     `json:"products"`
	Discrepancies []DiscrepancyView `json:"discrepancies"`
}

// ViewService builds the aggregated read model. The backing store has no join
// support, so relations are reconstructed in memory per request.
type ViewService interface {
	// BuildView loads the three collections and projects them. Any collection
	// load failure fails the whole view: a partially joined dashboard is worse
	// than an error.
	BuildView(ctx context.Context) (*DataView, error)
}

type viewService struct {
	pages         repositories.PageRepository
	centres       repositories.CentreRepository
	discrepancies repositories.DiscrepancyRepository
	logger        *zap.Logger
}

// NewViewService creates the aggregation view builder.
func NewViewService(
	pages repositories.PageRepository,
	centres repositories.CentreRepository,
	discrepancies repositories.DiscrepancyRepository,
	logger *zap.Logger,
) ViewService {
	return &viewService{
		pages:         pages,
		centres:       centres,
		discrepancies: discrepancies,
		logger:        logger.Named("views"),
	}
}

var _ ViewService = (*viewService)(nil)

func (v *viewService) BuildView(ctx context.Context) (*DataView, error) {
	var (
		wg           sync.WaitGroup
		pageList     []*models.Page
		centreList   []*models.Centre
		discList     []*models.Discrepancy
		pageErr      error
		centreErr    error
		discErr      error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		pageList, pageErr = v.pages.List(ctx)
	}()
	go func() {
		defer wg.Done()
		centreList, centreErr = v.centres.List(ctx)
	}()
	go func() {
		defer wg.Done()
		discList, discErr = v.discrepancies.List(ctx)
	}()
	wg.Wait()

	if pageErr != nil {
		return nil, fmt.Errorf("load pages: %w", pageErr)
	}
	if centreErr != nil {
		return nil, fmt.Errorf("load centres: %w", centreErr)
	}
	if discErr != nil {
		return nil, fmt.Errorf("load discrepancies: %w", discErr)
	}

	// Forward indexes, one pass each, request-scoped.
	centreNames := make(map[string]string, len(centreList))
	for _, c := range centreList {
		centreNames[c.ID] = c.Name
	}

	clientNames := make(map[string]string, len(pageList))
	pageCentreNames := make(map[string]string, len(pageList))
	for _, p := range pageList {
		clientNames[p.ID] = p.ClientName
		if first := p.PrimaryCentreID(); first != "" {
			pageCentreNames[p.ID] = centreNames[first]
		}
	}

	// Live unresolved counts. The store's own counter field can diverge from
	// the resolved-state rule, so it is never trusted.
	unresolvedByPage := make(map[string]int)
	for _, d := range discList {
		if d.EffectiveResolved() {
			continue
		}
		if d.PageID != "" {
			unresolvedByPage[d.PageID]++
		}
	}

	view := &DataView{
		Pages:         make([]PageView, 0, len(pageList)),
		Products:      make([]ProductView, 0, len(centreList)),
		Discrepancies: make([]DiscrepancyView, 0, len(discList)),
	}

	for _, p := range pageList {
		status := p.CoherenceStatus
		if status == "" {
			status = ReviewStatusPending
		}
		view.Pages = append(view.Pages, PageView{
			ID:            p.ID,
			Client:        p.ClientName,
			URL:           p.URL,
			Status:        status,
			Discrepancies: unresolvedByPage[p.ID],
			LastChecked:   p.LastCheckedAt,
			Text:          p.RawText,
			CreatedAt:     p.CreatedAt,
		})
	}
	sort.SliceStable(view.Pages, func(i, j int) bool {
		return view.Pages[i].CreatedAt.After(view.Pages[j].CreatedAt)
	})

	for _, c := range centreList {
		view.Products = append(view.Products, ProductView{
			ID:            c.ID,
			Name:          c.Name,
			ReferencePage: c.ReferencePageURL,
			Price:         c.Price,
			Active:        c.Active,
		})
	}

	for _, d := range discList {
		client := clientNames[d.PageID]
		if client == "" {
			// Lookup miss, fall back to the raw stored link value.
			client = d.PageID
		}
		product := centreNames[d.CentreID]
		if product == "" {
			product = pageCentreNames[d.PageID]
		}
		if product == "" {
			product = d.CentreID
		}
		view.Discrepancies = append(view.Discrepancies, DiscrepancyView{
			ID:              d.ID,
			Name:            d.Name,
			Description:     d.Description,
			Severity:        d.Severity,
			Client:          client,
			Product:         product,
			Date:            d.CreatedAt,
			Resolved:        d.EffectiveResolved(),
			ResolutionNotes: d.ResolutionNotes,
		})
	}

	v.logger.Debug("view built",
		zap.Int("pages", len(view.Pages)),
		zap.Int("products", len(view.Products)),
		zap.Int("discrepancies", len(view.Discrepancies)))
	return view, nil
}
