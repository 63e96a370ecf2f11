// Package content serves the editorial parts of the site: blog posts and
// testimonials. Both live in memory; testimonial submissions are local to
// the process, matching how the contact page works.
package content

import (
	"errors"
	"sync"
	"time"

	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
)

var ErrPostNotFound = errors.New("blog post not found")

type Store struct {
	mu           sync.Mutex
	posts        []domain.BlogPost
	testimonials []domain.Testimonial
	nextID       int64
}

func NewStore() *Store {
	return &Store{
		posts: seedPosts,
		testimonials: []domain.Testimonial{
			{ID: 1, AuthorName: "Sara A.", Rating: 5, Comment: "Sold my car in under a week. Smooth and trustworthy.", Date: "2024-07-12"},
			{ID: 2, AuthorName: "Mohamed A.", Rating: 5, Comment: "Found exactly the car I was looking for at a great price.", Date: "2024-07-08"},
			{ID: 3, AuthorName: "Leila B.", Rating: 4, Comment: "Good platform overall, would like more search filters.", Date: "2024-07-01"},
		},
		nextID: 4,
	}
}

func (s *Store) Posts() []domain.BlogPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.BlogPost(nil), s.posts...)
}

func (s *Store) Post(id int64) (*domain.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			post := s.posts[i]
			return &post, nil
		}
	}
	return nil, ErrPostNotFound
}

func (s *Store) Testimonials() []domain.Testimonial {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Testimonial(nil), s.testimonials...)
}

// AddTestimonial prepends a submitted review, newest first.
func (s *Store) AddTestimonial(authorName string, rating int, comment string) domain.Testimonial {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := domain.Testimonial{
		ID:         s.nextID,
		AuthorName: authorName,
		Rating:     rating,
		Comment:    comment,
		Date:       time.Now().Format("2006-01-02"),
	}
	s.nextID++
	s.testimonials = append([]domain.Testimonial{t}, s.testimonials...)
	return t
}

var seedPosts = []domain.BlogPost{
	{
		ID:       1,
		Title:    "Five checks before buying a used car",
		Excerpt:  "What to look at before handing over your money.",
		Content:  "Service history, mileage consistency, bodywork, tires, and a cold-engine start. Walk away from any seller who refuses a test drive.",
		Author:   "Editorial team",
		Date:     "2024-06-20",
		Category: "buying",
	},
	{
		ID:       2,
		Title:    "Pricing your listing to sell",
		Excerpt:  "How to pick an asking price that gets calls.",
		Content:  "Compare recent listings of the same model and year in your city, then price just under the median. Overpriced ads go stale fast.",
		Author:   "Editorial team",
		Date:     "2024-07-02",
		Category: "selling",
	},
}
