package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_SeededContent(t *testing.T) {
	s := NewStore()

	assert.NotEmpty(t, s.Posts())
	assert.NotEmpty(t, s.Testimonials())
}

func TestStore_PostLookup(t *testing.T) {
	s := NewStore()

	post, err := s.Post(1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), post.ID)

	_, err = s.Post(999)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestStore_AddTestimonialPrepends(t *testing.T) {
	s := NewStore()
	before := len(s.Testimonials())

	added := s.AddTestimonial("Yassine", 5, "Great site")

	all := s.Testimonials()
	assert.Len(t, all, before+1)
	assert.Equal(t, added.ID, all[0].ID)
	assert.Equal(t, "Yassine", all[0].AuthorName)
	assert.NotEmpty(t, all[0].Date)
}
