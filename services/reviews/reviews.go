// Package reviews stores product reviews and derives their ratings.
package reviews

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/notify"
	"github.com/junaidrashid-git/shopeasy-api/storage"
)

type Repository interface {
	Create(ctx context.Context, r models.Review) (models.Review, error)
	Find(ctx context.Context, q storage.Query) ([]models.Review, error)
	Get(ctx context.Context, id string) (models.Review, error)
	Save(ctx context.Context, id string, r models.Review) (models.Review, error)
	Delete(ctx context.Context, id string) error
}

// Catalog is the part of the catalog reviews depend on.
type Catalog interface {
	Product(id string) (models.Product, error)
	SetRating(ctx context.Context, id string, rating float64) error
}

type Submission struct {
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
}

type Stats struct {
	Total        int         `json:"total"`
	Average      Average     `json:"average"`
	Distribution map[int]int `json:"distribution"`
}

type Manager struct {
	repo       Repository
	catalog    Catalog
	dispatcher notify.Dispatcher
	log        logrus.FieldLogger
	now        func() time.Time

	mu sync.Mutex
}

func NewManager(repo Repository, catalog Catalog, dispatcher notify.Dispatcher, log logrus.FieldLogger) *Manager {
	return &Manager{repo: repo, catalog: catalog, dispatcher: dispatcher, log: log, now: time.Now}
}

// Submit records a review by author. Anonymous authors, ratings outside 1..5
// and blank titles or comments are rejected.
func (m *Manager) Submit(ctx context.Context, author *models.User, s Submission) (models.Review, error) {
	if author == nil {
		return models.Review{}, models.ErrNotAuthenticated
	}
	if err := s.validate(); err != nil {
		return models.Review{}, err
	}
	if _, err := m.catalog.Product(s.ProductID); err != nil {
		return models.Review{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	review, err := m.repo.Create(ctx, models.Review{
		ProductID:     s.ProductID,
		UserID:        author.ID,
		UserName:      author.FullName(),
		UserAvatar:    author.Avatar,
		Rating:        s.Rating,
		Title:         strings.TrimSpace(s.Title),
		Comment:       strings.TrimSpace(s.Comment),
		Date:          now,
		HelpfulVoters: []string{},
		Verified:      true,
	})
	if err != nil {
		return models.Review{}, err
	}

	m.refreshRating(ctx, s.ProductID)
	m.notify(notify.New("review.submitted", notify.Success, "Review submitted successfully!", "user:"+author.ID).With(review))
	return review, nil
}

func (s Submission) validate() error {
	if s.Rating < models.MinRating || s.Rating > models.MaxRating {
		return models.ErrInvalidRating
	}
	if strings.TrimSpace(s.Title) == "" || strings.TrimSpace(s.Comment) == "" {
		return models.ErrMissingField
	}
	return nil
}

// Update rewrites the rating, title and comment of a review. Only its author
// or an admin may edit it; the product and the helpful votes stay as they are.
func (m *Manager) Update(ctx context.Context, reviewID string, requester *models.User, s Submission) (models.Review, error) {
	if requester == nil {
		return models.Review{}, models.ErrNotAuthenticated
	}
	if err := s.validate(); err != nil {
		return models.Review{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	review, err := m.Get(ctx, reviewID)
	if err != nil {
		return models.Review{}, err
	}
	if review.UserID != requester.ID && !requester.IsAdmin {
		return models.Review{}, models.ErrForbidden
	}

	review.Rating = s.Rating
	review.Title = strings.TrimSpace(s.Title)
	review.Comment = strings.TrimSpace(s.Comment)
	saved, err := m.repo.Save(ctx, review.ID, review)
	if err != nil {
		return models.Review{}, err
	}

	m.refreshRating(ctx, review.ProductID)
	m.notify(notify.New("review.updated", notify.Success, "Review updated successfully!", "user:"+review.UserID).With(saved))
	return saved, nil
}

// refreshRating pushes the new average into the catalog. A failure here does
// not undo the review.
func (m *Manager) refreshRating(ctx context.Context, productID string) {
	avg, err := m.AverageRating(ctx, productID)
	if err != nil {
		m.log.WithError(err).WithField("product", productID).Warn("⚠️ could not recompute rating")
		return
	}
	if err := m.catalog.SetRating(ctx, productID, avg.Or0()); err != nil {
		m.log.WithError(err).WithField("product", productID).Warn("⚠️ could not store rating")
	}
}

// ForProduct lists a product's reviews, newest first.
func (m *Manager) ForProduct(ctx context.Context, productID string) ([]models.Review, error) {
	return m.find(ctx, storage.Where(storage.Eq("productId", productID)))
}

func (m *Manager) ByUser(ctx context.Context, userID string) ([]models.Review, error) {
	return m.find(ctx, storage.Where(storage.Eq("userId", userID)))
}

func (m *Manager) find(ctx context.Context, q storage.Query) ([]models.Review, error) {
	found, err := m.repo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Date.After(found[j].Date)
	})
	return found, nil
}

func (m *Manager) Get(ctx context.Context, id string) (models.Review, error) {
	review, err := m.repo.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Review{}, models.ErrReviewNotFound
	}
	return review, err
}

// AverageRating is the mean rating rounded to one decimal, absent when the
// product has no reviews.
func (m *Manager) AverageRating(ctx context.Context, productID string) (Average, error) {
	found, err := m.repo.Find(ctx, storage.Where(storage.Eq("productId", productID)))
	if err != nil {
		return Average{}, err
	}
	ratings := make([]int, len(found))
	for i, r := range found {
		ratings[i] = r.Rating
	}
	return newAverage(ratings), nil
}

func (m *Manager) Stats(ctx context.Context, productID string) (Stats, error) {
	found, err := m.repo.Find(ctx, storage.Where(storage.Eq("productId", productID)))
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Total: len(found), Distribution: map[int]int{}}
	for r := models.MinRating; r <= models.MaxRating; r++ {
		stats.Distribution[r] = 0
	}
	ratings := make([]int, len(found))
	for i, r := range found {
		ratings[i] = r.Rating
		stats.Distribution[r.Rating]++
	}
	stats.Average = newAverage(ratings)
	return stats, nil
}

// MarkHelpful counts viewer's helpful vote once. Repeat votes leave the
// review unchanged.
func (m *Manager) MarkHelpful(ctx context.Context, reviewID, viewer string) (models.Review, error) {
	if viewer == "" {
		return models.Review{}, models.ErrNotAuthenticated
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	review, err := m.Get(ctx, reviewID)
	if err != nil {
		return models.Review{}, err
	}
	if review.VotedHelpful(viewer) {
		m.notify(notify.New("review.helpful_duplicate", notify.Info, "You already marked this review as helpful", viewer))
		return review, nil
	}

	review.HelpfulVoters = append(review.HelpfulVoters, viewer)
	review.HelpfulCount = len(review.HelpfulVoters)
	saved, err := m.repo.Save(ctx, review.ID, review)
	if err != nil {
		return models.Review{}, err
	}
	m.notify(notify.New("review.helpful", notify.Success, "Thank you for your feedback!", viewer))
	return saved, nil
}

// Delete removes a review. Only its author or an admin may do so.
func (m *Manager) Delete(ctx context.Context, reviewID string, requester *models.User) error {
	if requester == nil {
		return models.ErrNotAuthenticated
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	review, err := m.Get(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != requester.ID && !requester.IsAdmin {
		return models.ErrForbidden
	}
	if err := m.repo.Delete(ctx, reviewID); err != nil {
		return err
	}
	m.refreshRating(ctx, review.ProductID)
	return nil
}

func (m *Manager) notify(n notify.Notification) {
	if err := m.dispatcher.Dispatch(n); err != nil {
		m.log.WithError(err).Warn("⚠️ notification failed")
	}
}
