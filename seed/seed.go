// Package seed loads the sample storefront data into an empty store.
package seed

import (
	"context"
	_ "embed"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/junaidrashid-git/shopeasy-api/auth"
	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/services/reviews"
)

//go:embed sample.yaml
var sampleYAML []byte

type Data struct {
	Products []Product `yaml:"products"`
	Users    []User    `yaml:"users"`
	Reviews  []Review  `yaml:"reviews"`
}

type Product struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       float64  `yaml:"price"`
	Category    string   `yaml:"category"`
	Rating      float64  `yaml:"rating"`
	Image       string   `yaml:"image"`
	InStock     bool     `yaml:"inStock"`
	Features    []string `yaml:"features"`
}

type User struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
	Avatar    string `yaml:"avatar"`
	JoinDate  string `yaml:"joinDate"`
	IsAdmin   bool   `yaml:"isAdmin"`
}

// Review points at its product by name and its author by username.
type Review struct {
	Product string `yaml:"product"`
	User    string `yaml:"user"`
	Rating  int    `yaml:"rating"`
	Title   string `yaml:"title"`
	Comment string `yaml:"comment"`
}

// Sample returns the embedded data set.
func Sample() (Data, error) {
	return Parse(sampleYAML)
}

func Parse(raw []byte) (Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Data{}, errors.Wrap(err, "decode seed data")
	}
	return d, nil
}

type Catalog interface {
	Products() []models.Product
	Create(ctx context.Context, p models.Product) (models.Product, error)
}

type Users interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
}

type Reviews interface {
	Submit(ctx context.Context, author *models.User, s reviews.Submission) (models.Review, error)
}

type Result struct {
	Skipped  bool `json:"skipped"`
	Products int  `json:"products"`
	Users    int  `json:"users"`
	Reviews  int  `json:"reviews"`
}

type Seeder struct {
	catalog   Catalog
	users     Users
	reviews   Reviews
	passwords auth.PasswordManager
	log       logrus.FieldLogger
	data      Data
}

func NewSeeder(catalog Catalog, users Users, reviews Reviews, passwords auth.PasswordManager, log logrus.FieldLogger, data Data) *Seeder {
	return &Seeder{catalog: catalog, users: users, reviews: reviews, passwords: passwords, log: log, data: data}
}

// Seed inserts the data set unless the catalog already has products.
// Existing users (by email) are reused rather than duplicated.
func (s *Seeder) Seed(ctx context.Context) (Result, error) {
	if len(s.catalog.Products()) > 0 {
		s.log.Info("📦 Database already contains data. Skipping initialization.")
		return Result{Skipped: true}, nil
	}

	var result Result
	products := make(map[string]string, len(s.data.Products))
	for _, p := range s.data.Products {
		created, err := s.catalog.Create(ctx, models.Product{
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Category:    p.Category,
			Rating:      p.Rating,
			Image:       p.Image,
			InStock:     p.InStock,
			Features:    p.Features,
		})
		if err != nil {
			return result, errors.Wrapf(err, "seed product %q", p.Name)
		}
		products[p.Name] = created.ID
		result.Products++
	}

	users := make(map[string]models.User, len(s.data.Users))
	for _, u := range s.data.Users {
		user, created, err := s.user(ctx, u)
		if err != nil {
			return result, errors.Wrapf(err, "seed user %q", u.Username)
		}
		users[u.Username] = user
		if created {
			result.Users++
		}
	}

	for _, r := range s.data.Reviews {
		productID, ok := products[r.Product]
		if !ok {
			return result, errors.Errorf("seed review: unknown product %q", r.Product)
		}
		author, ok := users[r.User]
		if !ok {
			return result, errors.Errorf("seed review: unknown user %q", r.User)
		}
		if _, err := s.reviews.Submit(ctx, &author, reviews.Submission{
			ProductID: productID,
			Rating:    r.Rating,
			Title:     r.Title,
			Comment:   r.Comment,
		}); err != nil {
			return result, errors.Wrapf(err, "seed review %q", r.Title)
		}
		result.Reviews++
	}

	s.log.WithFields(logrus.Fields{
		"products": result.Products,
		"users":    result.Users,
		"reviews":  result.Reviews,
	}).Info("✅ Sample data created")
	return result, nil
}

func (s *Seeder) user(ctx context.Context, u User) (models.User, bool, error) {
	existing, err := s.users.UserByEmail(ctx, u.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return models.User{}, false, err
	}

	hash, err := s.passwords.Hash(u.Password)
	if err != nil {
		return models.User{}, false, errors.Wrap(err, "hash password")
	}
	joined := time.Now().UTC()
	if u.JoinDate != "" {
		if joined, err = time.Parse("2006-01-02", u.JoinDate); err != nil {
			return models.User{}, false, errors.Wrap(err, "parse joinDate")
		}
	}
	created, err := s.users.CreateUser(ctx, models.User{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: hash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Avatar:       u.Avatar,
		JoinDate:     joined,
		IsAdmin:      u.IsAdmin,
	})
	if err != nil {
		return models.User{}, false, err
	}
	return created, true, nil
}
