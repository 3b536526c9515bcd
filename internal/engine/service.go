package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/prk7048/LOA-AGENT/internal/catalog"
	"github.com/prk7048/LOA-AGENT/internal/storage"
)

// DefaultFetchWorkers bounds concurrent profile fetches during a roster sync.
const DefaultFetchWorkers = 8

// Service runs homework operations against one store in one reference timezone.
type Service struct {
	store   *storage.Store
	catalog catalog.Catalog
	source  Source
	clock   Clock
	loc     *time.Location
	log     *zap.Logger
	workers int
}

// Option configures a Service in NewService.
type Option func(*Service)

func WithCatalog(c catalog.Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

func WithSource(src Source) Option {
	return func(s *Service) { s.source = src }
}

func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLocation sets the reference timezone of every reset boundary.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithFetchWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

func NewService(store *storage.Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		catalog: catalog.Default(),
		clock:   RealClock{},
		loc:     KST(),
		log:     zap.NewNop(),
		workers: DefaultFetchWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Store() *storage.Store      { return s.store }
func (s *Service) Catalog() catalog.Catalog   { return s.catalog }
func (s *Service) Location() *time.Location   { return s.loc }
func (s *Service) Now() time.Time             { return s.clock.Now() }
func (s *Service) Boundaries() Boundaries     { return LastResetBoundaries(s.Now(), s.loc) }
func (s *Service) NextBoundaries() Boundaries { return NextResetBoundaries(s.Now(), s.loc) }

// Recommend runs the reward selector against the service catalog.
func (s *Service) Recommend(progress, power float64) []catalog.Tier {
	return SelectBestRewards(s.catalog, progress, power)
}

// KST returns Asia/Seoul, or a fixed UTC+9 zone when tzdata is missing.
func KST() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}
