package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"oms-books-sync/internal/clients/oms"
	"oms-books-sync/internal/models"
	"oms-books-sync/internal/repository"
)

type StockLocationLister interface {
	GetStockLocations(ctx context.Context) ([]oms.StockLocation, error)
}

// LocationService owns the Books warehouse to OMS location mapping.
type LocationService struct {
	store repository.LocationMappings
	oms   StockLocationLister
	v     *validator.Validate
}

func NewLocationService(store repository.LocationMappings, lister StockLocationLister, v *validator.Validate) *LocationService {
	if v == nil {
		v = validator.New()
	}
	return &LocationService{store: store, oms: lister, v: v}
}

func (l *LocationService) Upsert(m models.LocationMapping) (models.LocationMapping, error) {
	m.BooksLocationID = strings.TrimSpace(m.BooksLocationID)
	m.BooksLocationName = strings.TrimSpace(m.BooksLocationName)
	m.OMSLocationID = strings.TrimSpace(m.OMSLocationID)
	m.OMSLocationName = strings.TrimSpace(m.OMSLocationName)
	if err := validateStruct(l.v, m); err != nil {
		return models.LocationMapping{}, err
	}

	saved, err := l.store.Upsert(m)
	if err != nil {
		return models.LocationMapping{}, errors.Wrapf(err, "upsert mapping %s", m.BooksLocationID)
	}
	logrus.WithFields(logrus.Fields{
		"books_location": saved.BooksLocationID,
		"oms_location":   saved.OMSLocationID,
	}).Info("location mapping saved")
	return saved, nil
}

func (l *LocationService) Get(booksLocationID string) (models.LocationMapping, error) {
	m, err := l.store.Get(booksLocationID)
	if gorm.IsRecordNotFoundError(err) {
		return models.LocationMapping{}, ErrNotFound
	}
	return m, err
}

func (l *LocationService) List() ([]models.LocationMapping, error) {
	return l.store.List()
}

func (l *LocationService) OMSLocations(ctx context.Context) ([]oms.StockLocation, error) {
	return l.oms.GetStockLocations(ctx)
}

// Resolve returns the mapping for a Books warehouse. A missing mapping is always an error; when an
// OMS location with a similar name exists it is logged as a suggestion and carried in the error.
func (l *LocationService) Resolve(ctx context.Context, booksLocationID, booksLocationName string) (models.LocationMapping, error) {
	if strings.TrimSpace(booksLocationID) == "" {
		return models.LocationMapping{}, &MissingMappingError{BooksLocationName: booksLocationName}
	}

	m, err := l.store.Get(booksLocationID)
	if err == nil {
		return m, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return models.LocationMapping{}, errors.Wrapf(err, "load mapping %s", booksLocationID)
	}

	missing := &MissingMappingError{BooksLocationID: booksLocationID, BooksLocationName: booksLocationName}
	log := logrus.WithFields(logrus.Fields{
		"books_location_id":   booksLocationID,
		"books_location_name": booksLocationName,
	})
	if s, ok := l.suggest(ctx, booksLocationName); ok {
		missing.Suggestion = s.Name + " (" + s.ID + ")"
		log.WithFields(logrus.Fields{
			"suggested_oms_location_id":   s.ID,
			"suggested_oms_location_name": s.Name,
		}).Warn("location mapping missing, a similar oms location exists")
	} else {
		log.Warn("location mapping missing")
	}
	return models.LocationMapping{}, missing
}

// ForOMSLocation finds the Books warehouse bound to an OMS location, if any.
func (l *LocationService) ForOMSLocation(omsLocationID string) (models.LocationMapping, bool) {
	if omsLocationID == "" {
		return models.LocationMapping{}, false
	}
	m, err := l.store.FindByOMSLocationID(omsLocationID)
	if err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			logrus.WithError(err).WithField("oms_location", omsLocationID).Warn("reverse mapping lookup failed")
		}
		return models.LocationMapping{}, false
	}
	return m, true
}

func (l *LocationService) suggest(ctx context.Context, name string) (oms.StockLocation, bool) {
	if l.oms == nil || strings.TrimSpace(name) == "" {
		return oms.StockLocation{}, false
	}
	locs, err := l.oms.GetStockLocations(ctx)
	if err != nil {
		logrus.WithError(err).Debug("list oms locations for suggestion")
		return oms.StockLocation{}, false
	}
	return SuggestByName(name, locs)
}

var (
	warehouseWord = regexp.MustCompile(`\(\s*warehouse\s*\)`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9\s]+`)
	spaces        = regexp.MustCompile(`\s+`)
)

// NormalizeLocationName lowercases a warehouse name, drops a "(warehouse)" marker and punctuation and
// collapses whitespace.
func NormalizeLocationName(s string) string {
	s = strings.ToLower(s)
	s = warehouseWord.ReplaceAllString(s, " ")
	s = nonAlnum.ReplaceAllString(s, "")
	s = spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SuggestByName picks the OMS location whose normalized name equals, then starts with, then contains
// the normalized target.
func SuggestByName(name string, locs []oms.StockLocation) (oms.StockLocation, bool) {
	target := NormalizeLocationName(name)
	if target == "" {
		return oms.StockLocation{}, false
	}

	type cand struct {
		loc  oms.StockLocation
		norm string
	}
	cands := make([]cand, 0, len(locs))
	for _, l := range locs {
		if n := NormalizeLocationName(l.Name); n != "" {
			cands = append(cands, cand{loc: l, norm: n})
		}
	}

	matchers := []func(n string) bool{
		func(n string) bool { return n == target },
		func(n string) bool { return strings.HasPrefix(n, target) },
		func(n string) bool { return strings.Contains(n, target) },
	}
	for _, match := range matchers {
		for _, c := range cands {
			if match(c.norm) {
				return c.loc, true
			}
		}
	}
	return oms.StockLocation{}, false
}
